// Package session persists the bearer token that proves an authenticated
// operator. It is the terminal analog of the browser's local-storage slot:
// set on login, read before every request, cleared on logout or when the
// backend rejects the session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store reads and writes the session token file. The zero value is not
// usable; construct with NewStore.
type Store struct {
	path string
	mu   sync.Mutex
}

// state is the on-disk shape of the session file.
type state struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored token, or "" when no session exists. Read errors
// are treated as "no session": a corrupt or unreadable file must never block
// an operator from signing in again.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var st state
	if err := json.Unmarshal(b, &st); err != nil {
		return ""
	}
	return st.Token
}

// Save persists the token, creating parent directories if needed. The file
// is written 0600 since the token is a credential.
func (s *Store) Save(token string) error {
	if s.path == "" {
		return errors.New("session: empty store path")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: mk dir: %w", err)
	}
	data, err := json.MarshalIndent(state{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error; the local
// session is considered ended either way.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// DefaultPath returns the conventional session file location under the
// user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".distress-console/session.json"
	}
	return filepath.Join(home, ".distress-console", "session.json")
}
