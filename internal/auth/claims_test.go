package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

// makeToken builds a structurally valid JWT with an unverifiable signature.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("not-a-real-signature"))
}

func TestDisplayLabel_PrefersEmailThenSubject(t *testing.T) {
	token := makeToken(t, map[string]any{"email": "ana@example.com", "sub": "user-1"})
	if got := displayLabel(token); got != "ana@example.com" {
		t.Fatalf("displayLabel = %q, want email claim", got)
	}

	token = makeToken(t, map[string]any{"sub": "user-1"})
	if got := displayLabel(token); got != "user-1" {
		t.Fatalf("displayLabel = %q, want subject claim", got)
	}

	token = makeToken(t, map[string]any{"aud": "whatever"})
	if got := displayLabel(token); got != fallbackLabel {
		t.Fatalf("displayLabel = %q, want fallback", got)
	}
}

func TestDisplayLabel_GarbageTokenFallsBack(t *testing.T) {
	for _, token := range []string{"", "abc", "a.b", "a.b.c"} {
		if got := displayLabel(token); got != fallbackLabel {
			t.Fatalf("displayLabel(%q) = %q, want fallback", token, got)
		}
	}
}
