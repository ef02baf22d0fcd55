package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is the single source of truth for the session token. It persists the
// token in a JSON file so a session survives process restarts, and broadcasts
// an invalidation signal whenever the slot is cleared.
type Store struct {
	mu    sync.Mutex
	path  string
	token string
	subs  []chan struct{}
}

type slot struct {
	Token string `json:"token"`
}

// Open returns a Store backed by the file at path. A missing or unreadable
// file is treated as an absent token; storage faults never fail startup.
func Open(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var stored slot
	if err := json.Unmarshal(data, &stored); err != nil {
		return s
	}
	s.token = stored.Token
	return s
}

// Get returns the stored token and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Set stores the token and persists it. Persistence is best effort; the
// in-memory slot is authoritative for the lifetime of the process.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if s.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	data, err := json.Marshal(slot{Token: token})
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

// Clear removes the token and notifies every subscriber. Clearing an
// already-empty store is a no-op for the slot but still broadcasts, so
// subscribers must treat the signal as idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if s.path != "" {
		_ = os.Remove(s.path)
	}
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Receiver already has a pending signal; signals coalesce.
		}
	}
}

// Subscribe registers an invalidation listener. The returned channel receives
// a payload-free signal on every Clear. Sends never block the clearing path:
// each subscriber holds at most one pending signal.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}
