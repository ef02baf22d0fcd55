package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStore_SetGetClear(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"))

	if token, ok := s.Get(); ok || token != "" {
		t.Fatalf("Get on empty store = %q/%v, want empty/false", token, ok)
	}

	s.Set("tok-123")
	if token, ok := s.Get(); !ok || token != "tok-123" {
		t.Fatalf("Get = %q/%v, want tok-123/true", token, ok)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Fatal("Get after Clear reports a token")
	}
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := Open(path)
	first.Set("tok-abc")

	second := Open(path)
	if token, ok := second.Get(); !ok || token != "tok-abc" {
		t.Fatalf("restored token = %q/%v, want tok-abc/true", token, ok)
	}

	second.Clear()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still exists after Clear: %v", err)
	}

	third := Open(path)
	if _, ok := third.Get(); ok {
		t.Fatal("token survived Clear across opens")
	}
}

func TestStore_CorruptFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("write session file: %v", err)
	}

	s := Open(path)
	if _, ok := s.Get(); ok {
		t.Fatal("corrupt slot produced a token")
	}
}

func TestStore_ClearBroadcastsToAllSubscribers(t *testing.T) {
	s := Open("")
	a := s.Subscribe()
	b := s.Subscribe()

	s.Set("tok")
	s.Clear()

	for name, ch := range map[string]<-chan struct{}{"a": a, "b": b} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive invalidation", name)
		}
	}
}

func TestStore_ClearOnEmptyStillBroadcasts(t *testing.T) {
	s := Open("")
	ch := s.Subscribe()

	s.Clear()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("clear on empty store did not broadcast")
	}
}

func TestStore_ConcurrentClearsCoalesceAndNeverBlock(t *testing.T) {
	s := Open("")
	ch := s.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Clear()
		}()
	}
	wg.Wait()

	// At least one signal pending; repeated signals coalesce into the buffer.
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no invalidation signal after concurrent clears")
	}
}
