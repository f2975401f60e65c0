package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/jobhub/auth"
)

// Credentials is the cached identity/token pair, the durable analog of the
// browser's local storage entry.
type Credentials struct {
	User  *auth.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// ErrNoCredentials indicates the cache holds no stored session.
var ErrNoCredentials = errors.New("no cached credentials")

// CredentialCache persists the session pair across client restarts.
type CredentialCache interface {
	Load() (*Credentials, error)
	Save(creds *Credentials) error
	Clear() error
}

// FileCache stores credentials as a JSON file readable only by the owner.
type FileCache struct {
	path string
	mu   sync.Mutex
}

var _ CredentialCache = (*FileCache)(nil)

// NewFileCache builds a cache at the given path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (f *FileCache) Load() (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, err
	}

	creds := &Credentials{}
	if err := json.Unmarshal(data, creds); err != nil {
		// A corrupt cache is the same as no cache.
		return nil, ErrNoCredentials
	}

	if creds.Token == "" {
		return nil, ErrNoCredentials
	}

	return creds, nil
}

func (f *FileCache) Save(creds *Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryCache is an in-process cache for tests and short-lived tooling.
type MemoryCache struct {
	mu    sync.Mutex
	creds *Credentials
}

var _ CredentialCache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (m *MemoryCache) Load() (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.creds == nil || m.creds.Token == "" {
		return nil, ErrNoCredentials
	}
	return m.creds, nil
}

func (m *MemoryCache) Save(creds *Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = creds
	return nil
}

func (m *MemoryCache) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = nil
	return nil
}
