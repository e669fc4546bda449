// Package auth holds the session credential machinery: the token store,
// the unverified JWT decoder, and the expiration monitor.
package auth

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// TokenStore is the process-wide home of the session token. Implementations
// are dumb: they persist and hand back whatever they were given, with no
// validation. Writes happen on login success, logout, and the HTTP client's
// 401 path; reads happen everywhere.
type TokenStore interface {
	// Get returns the stored token, or false when none is present.
	Get() (string, bool)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
	// Subscribe registers a callback invoked after every Set or Clear with
	// the new value ("" after Clear).
	Subscribe(fn func(token string))
}

// MemoryTokenStore keeps the token in process memory. Used by tests and
// ephemeral sessions.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	subs  []func(string)
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	s.token = token
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(token)
	}
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Set("")
}

func (s *MemoryTokenStore) Subscribe(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// FileTokenStore persists the token in a single file, the CLI analog of
// browser-local storage. The token is the only durable client-side state.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
	subs []func(string)
}

// NewFileTokenStore creates a store backed by the file at path. The file is
// created lazily on the first Set.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(token)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return err
	}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn("")
	}
	return nil
}

func (s *FileTokenStore) Subscribe(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
