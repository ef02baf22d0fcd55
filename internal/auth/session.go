package auth

import (
	"context"
	"sync"

	"github.com/rvega/almacen/internal/session"
)

// Identity is the display identity derived from a session credential.
// It is cosmetic; authorization stays with the server.
type Identity struct {
	Label string
}

// SignInResult is what the identity provider returns on success.
type SignInResult struct {
	Token string
	Email string
}

// Provider abstracts the external identity provider.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (SignInResult, error)
	SignOut(ctx context.Context, token string) error
}

// AuthError reports a failed login, carrying the provider's message.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Session bridges the identity provider and the session store.
type Session struct {
	mu       sync.Mutex
	store    *session.Store
	provider Provider
	identity *Identity
	ready    bool
}

// New returns a Session over the given store and provider.
func New(store *session.Store, provider Provider) *Session {
	return &Session{store: store, provider: provider}
}

// Restore performs the single startup pass over the stored token. If one
// exists, a display identity is derived from its payload. Ready becomes true
// unconditionally afterwards, token or not.
func (s *Session) Restore() {
	token, ok := s.store.Get()

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.identity = &Identity{Label: displayLabel(token)}
	} else {
		s.identity = nil
	}
	s.ready = true
}

// Login delegates to the identity provider and, on success, stores the token
// and derives the identity from the provider's response, falling back to the
// token payload. Failures return an *AuthError with the provider's message
// and leave the session unauthenticated.
func (s *Session) Login(ctx context.Context, email, password string) error {
	result, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return &AuthError{Message: err.Error()}
	}

	s.store.Set(result.Token)

	label := result.Email
	if label == "" {
		label = displayLabel(result.Token)
	}

	s.mu.Lock()
	s.identity = &Identity{Label: label}
	s.mu.Unlock()
	return nil
}

// Logout clears the local session first (triggering the store's invalidation
// broadcast), then best-effort notifies the provider. A provider failure is
// swallowed: local session state must not survive regardless of the remote
// outcome.
func (s *Session) Logout(ctx context.Context) {
	token, had := s.store.Get()
	s.store.Clear()

	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if had && s.provider != nil {
		_ = s.provider.SignOut(ctx, token)
	}
}

// Watch subscribes to the store's invalidation broadcast and clears the
// identity whenever it fires, so a 401 detected deep in the transport layer
// surfaces as a logged-out state with no direct coupling. It returns
// immediately.
func (s *Session) Watch(ctx context.Context) {
	ch := s.store.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				s.mu.Lock()
				s.identity = nil
				s.mu.Unlock()
			}
		}
	}()
}

// Ready reports whether the initial restore pass has completed.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Authenticated reports whether a display identity is currently held.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// Identity returns the current display identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}
