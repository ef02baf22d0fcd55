package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SupabaseProvider signs in against a Supabase-style auth endpoint using the
// password grant.
type SupabaseProvider struct {
	baseURL *url.URL
	http    *http.Client
	anonKey string
}

// Ensure SupabaseProvider implements Provider at compile time.
var _ Provider = (*SupabaseProvider)(nil)

const authTimeout = 15 * time.Second

// NewSupabaseProvider builds a provider for the given auth base URL and
// public API key.
func NewSupabaseProvider(authURL, anonKey string) (*SupabaseProvider, error) {
	trimmed := strings.TrimSpace(authURL)
	if trimmed == "" {
		return nil, fmt.Errorf("auth url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse auth url %q: %w", authURL, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return &SupabaseProvider{
		baseURL: u,
		http: &http.Client{
			Timeout: authTimeout,
		},
		anonKey: anonKey,
	}, nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		Email string `json:"email"`
	} `json:"user"`
}

type authErrorResponse struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	ErrorCode        string `json:"error"`
}

// SignIn exchanges credentials for a session token.
func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return SignInResult{}, fmt.Errorf("encode credentials: %w", err)
	}

	endpoint := *p.baseURL
	endpoint.Path += "/auth/v1/token"
	endpoint.RawQuery = "grant_type=password"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return SignInResult{}, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.http.Do(req)
	if err != nil {
		return SignInResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return SignInResult{}, fmt.Errorf("%s", readAuthError(resp.Body, resp.StatusCode))
	}

	var payload signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SignInResult{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.AccessToken == "" {
		return SignInResult{}, fmt.Errorf("provider returned no access token")
	}
	return SignInResult{Token: payload.AccessToken, Email: payload.User.Email}, nil
}

// SignOut revokes the token with the provider. Callers treat failures as
// best effort.
func (p *SupabaseProvider) SignOut(ctx context.Context, token string) error {
	endpoint := *p.baseURL
	endpoint.Path += "/auth/v1/logout"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sign out returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *SupabaseProvider) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if p.anonKey != "" {
		req.Header.Set("apikey", p.anonKey)
	}
}

// readAuthError extracts the provider's human-readable message from a failed
// auth response.
func readAuthError(body io.Reader, code int) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err == nil {
		var payload authErrorResponse
		if err := json.Unmarshal(data, &payload); err == nil {
			switch {
			case payload.ErrorDescription != "":
				return payload.ErrorDescription
			case payload.Msg != "":
				return payload.Msg
			case payload.ErrorCode != "":
				return payload.ErrorCode
			}
		}
	}
	return fmt.Sprintf("sign in returned status %d", code)
}
