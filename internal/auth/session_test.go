package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvega/almacen/internal/session"
)

type fakeProvider struct {
	result     SignInResult
	err        error
	signOutErr error
	signOuts   []string
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	if f.err != nil {
		return SignInResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, token string) error {
	f.signOuts = append(f.signOuts, token)
	return f.signOutErr
}

func TestSession_RestoreWithStoredToken(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	store.Set(makeToken(t, map[string]any{"email": "ana@example.com"}))

	s := New(store, &fakeProvider{})
	if s.Ready() {
		t.Fatal("Ready before Restore")
	}

	s.Restore()

	if !s.Ready() {
		t.Fatal("Ready false after Restore")
	}
	id, ok := s.Identity()
	if !ok || id.Label != "ana@example.com" {
		t.Fatalf("Identity = %#v/%v, want ana@example.com", id, ok)
	}
}

func TestSession_RestoreWithoutTokenStillReady(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))

	s := New(store, &fakeProvider{})
	s.Restore()

	if !s.Ready() {
		t.Fatal("Ready false after Restore with empty store")
	}
	if s.Authenticated() {
		t.Fatal("Authenticated with empty store")
	}
}

func TestSession_LoginStoresTokenAndIdentity(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	provider := &fakeProvider{result: SignInResult{Token: "tok-1", Email: "ana@example.com"}}

	s := New(store, provider)
	if err := s.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if token, ok := store.Get(); !ok || token != "tok-1" {
		t.Fatalf("store token = %q/%v, want tok-1", token, ok)
	}
	id, ok := s.Identity()
	if !ok || id.Label != "ana@example.com" {
		t.Fatalf("Identity = %#v/%v, want provider email", id, ok)
	}
}

func TestSession_LoginFallsBackToPayloadLabel(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	token := makeToken(t, map[string]any{"email": "payload@example.com"})
	provider := &fakeProvider{result: SignInResult{Token: token}}

	s := New(store, provider)
	if err := s.Login(context.Background(), "x", "y"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	id, _ := s.Identity()
	if id.Label != "payload@example.com" {
		t.Fatalf("Identity label = %q, want payload email", id.Label)
	}
}

func TestSession_LoginFailureReturnsAuthError(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	provider := &fakeProvider{err: errors.New("Invalid login credentials")}

	s := New(store, provider)
	err := s.Login(context.Background(), "ana@example.com", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login error = %v, want *AuthError", err)
	}
	if authErr.Message != "Invalid login credentials" {
		t.Fatalf("AuthError message = %q, want provider message", authErr.Message)
	}
	if s.Authenticated() {
		t.Fatal("Authenticated after failed login")
	}
	if _, ok := store.Get(); ok {
		t.Fatal("token stored after failed login")
	}
}

func TestSession_LogoutClearsLocallyAndSwallowsProviderError(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	store.Set("tok-9")
	invalidated := store.Subscribe()

	provider := &fakeProvider{signOutErr: errors.New("provider down")}
	s := New(store, provider)
	s.Restore()

	s.Logout(context.Background())

	if _, ok := store.Get(); ok {
		t.Fatal("token survived Logout")
	}
	if s.Authenticated() {
		t.Fatal("Authenticated after Logout")
	}
	select {
	case <-invalidated:
	case <-time.After(time.Second):
		t.Fatal("Logout did not broadcast invalidation")
	}
	if len(provider.signOuts) != 1 || provider.signOuts[0] != "tok-9" {
		t.Fatalf("SignOut calls = %v, want one with tok-9", provider.signOuts)
	}
}

func TestSession_WatchDropsIdentityOnBroadcast(t *testing.T) {
	store := session.Open(filepath.Join(t.TempDir(), "session.json"))
	store.Set(makeToken(t, map[string]any{"email": "ana@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := New(store, &fakeProvider{})
	s.Restore()
	s.Watch(ctx)

	if !s.Authenticated() {
		t.Fatal("not authenticated after Restore")
	}

	// Simulate a 401 detected by the transport layer.
	store.Clear()

	deadline := time.Now().Add(2 * time.Second)
	for s.Authenticated() {
		if time.Now().After(deadline) {
			t.Fatal("identity not dropped after invalidation broadcast")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSupabaseProvider_SignInRoundTrip(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotAPIKey string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"user":         map[string]string{"email": "ana@example.com"},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewSupabaseProvider(server.URL, "anon-key")
	if err != nil {
		t.Fatalf("NewSupabaseProvider returned error: %v", err)
	}

	result, err := p.SignIn(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if result.Token != "tok-abc" || result.Email != "ana@example.com" {
		t.Fatalf("SignIn result = %#v", result)
	}
	if gotPath != "/auth/v1/token" || gotQuery != "grant_type=password" {
		t.Fatalf("request = %s?%s, want /auth/v1/token?grant_type=password", gotPath, gotQuery)
	}
	if gotAPIKey != "anon-key" {
		t.Fatalf("apikey = %q, want anon-key", gotAPIKey)
	}
	if gotBody["email"] != "ana@example.com" || gotBody["password"] != "secret" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestSupabaseProvider_SignInFailureCarriesProviderMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_description": "Invalid login credentials"}`, http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	p, err := NewSupabaseProvider(server.URL, "")
	if err != nil {
		t.Fatalf("NewSupabaseProvider returned error: %v", err)
	}

	_, err = p.SignIn(context.Background(), "ana@example.com", "wrong")
	if err == nil || err.Error() != "Invalid login credentials" {
		t.Fatalf("SignIn error = %v, want provider message", err)
	}
}

func TestSupabaseProvider_SignOut(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	p, err := NewSupabaseProvider(server.URL, "anon-key")
	if err != nil {
		t.Fatalf("NewSupabaseProvider returned error: %v", err)
	}

	if err := p.SignOut(context.Background(), "tok-abc"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if gotPath != "/auth/v1/logout" || gotAuth != "Bearer tok-abc" {
		t.Fatalf("request = %s auth=%q", gotPath, gotAuth)
	}
}
