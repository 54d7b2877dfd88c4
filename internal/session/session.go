// Package session keeps the CLI's logged-in session in the OS keyring.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"

	"kanban/internal/auth"
)

const (
	ServiceName = "kanban"
	Key         = "kanban-auth"

	BackendSystem = "system"
	BackendFile   = "file"
)

var ErrNoSession = errors.New("not logged in")

type Config struct {
	// Backend is "system" (OS keychain with encrypted-file fallback) or "file".
	Backend  string
	FileDir  string
	Password string
}

type Store struct {
	ring keyring.Keyring
}

func Open(cfg Config) (*Store, error) {
	backends := []keyring.BackendType{keyring.FileBackend}
	if cfg.Backend != BackendFile {
		backends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}
	password := cfg.Password
	if password == "" {
		password = "kanban-file-key"
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          backends,
		FileDir:                  cfg.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(password),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// Load returns the saved session. A corrupt entry is removed and reported as
// ErrNoSession.
func (s *Store) Load() (auth.Session, error) {
	item, err := s.ring.Get(Key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return auth.Session{}, ErrNoSession
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("getting credential %q: %w", Key, err)
	}
	var sess auth.Session
	if err := json.Unmarshal(item.Data, &sess); err != nil || sess.Token == "" {
		_ = s.Clear()
		return auth.Session{}, ErrNoSession
	}
	return sess, nil
}

func (s *Store) Save(sess auth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: Key, Data: data, Label: "kanban login"}); err != nil {
		return fmt.Errorf("setting credential %q: %w", Key, err)
	}
	return nil
}

// Clear removes the saved session; clearing when logged out is not an error.
func (s *Store) Clear() error {
	err := s.ring.Remove(Key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("deleting credential %q: %w", Key, err)
}
