package auth

import (
	jose "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// payloadClaims is the subset of token claims used for the display label.
type payloadClaims struct {
	Email   string `json:"email"`
	Subject string `json:"sub"`
}

// Algorithms the identity provider is known to sign with. They gate parsing
// only; no signature is ever checked here.
var claimAlgorithms = []jose.SignatureAlgorithm{jose.HS256, jose.RS256, jose.ES256}

const fallbackLabel = "account"

// displayLabel decodes the token payload locally to derive a display label.
// The signature is NOT verified: the result is non-authoritative and must
// never feed an authorization decision, which remain server-side. Preference
// order is the email claim, then the subject claim, then a generic fallback.
func displayLabel(token string) string {
	parsed, err := jwt.ParseSigned(token, claimAlgorithms)
	if err != nil {
		return fallbackLabel
	}
	var claims payloadClaims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return fallbackLabel
	}
	if claims.Email != "" {
		return claims.Email
	}
	if claims.Subject != "" {
		return claims.Subject
	}
	return fallbackLabel
}
