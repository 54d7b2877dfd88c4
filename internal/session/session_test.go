package session

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"

	"kanban/internal/auth"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Backend: BackendFile, FileDir: t.TempDir(), Password: "test"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestSaveLoadClear(t *testing.T) {
	s := newStore(t)
	if _, err := s.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	want := auth.Session{Token: "tok", User: auth.DemoUser}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil || got != want {
		t.Fatalf("load: %+v %v", got, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected logged out, got %v", err)
	}
}

func TestCorruptEntryIsRemoved(t *testing.T) {
	s := newStore(t)
	if err := s.ring.Set(keyring.Item{Key: Key, Data: []byte("{garbage")}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := s.ring.Get(Key); err == nil {
		t.Fatalf("expected corrupt entry removed")
	}
}
