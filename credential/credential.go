// Package credential stores API tokens between invocations, one file per API
// host under the user config directory.
package credential

import (
	"encoding/gob"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/afero"
)

// ErrorCode defines error types for credential storage
type ErrorCode string

const (
	// ErrNotFound represents a host without a stored token
	ErrNotFound ErrorCode = "NotFound"
	// ErrStorage represents a token file that cannot be read or written
	ErrStorage ErrorCode = "Storage"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// DefaultDir is the directory tokens are stored in
var DefaultDir string

func init() {
	configHome, err := os.UserConfigDir()
	if err != nil {
		DefaultDir = filepath.Join(os.TempDir(), "cloudapp")
	} else {
		DefaultDir = filepath.Join(configHome, "cloudapp")
	}
}

// Entry is a stored token
type Entry struct {
	BaseURL   string
	Email     string
	Token     string
	CreatedAt time.Time
}

// Store reads and writes tokens in a directory
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Default returns the store in DefaultDir on the OS filesystem.
func Default() *Store {
	return NewStore(afero.NewOsFs(), DefaultDir)
}

// Load returns the token stored for baseURL.
func (s *Store) Load(baseURL string) (Entry, error) {
	path := s.path(baseURL)
	f, err := s.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, failure.New(ErrNotFound,
			failure.Message("Not logged in, run `cloudapp login` first"),
			failure.Context{"base_url": baseURL},
		)
	}
	if err != nil {
		return Entry{}, failure.Translate(err, ErrStorage, failure.Context{"path": path})
	}
	defer f.Close()

	var entry Entry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return Entry{}, failure.Translate(err, ErrStorage,
			failure.Message("The stored token is unreadable, run `cloudapp login` again"),
			failure.Context{"path": path},
		)
	}
	return entry, nil
}

// Save stores entry, replacing any token stored for the same host.
func (s *Store) Save(entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	path := s.path(entry.BaseURL)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return failure.Translate(err, ErrStorage, failure.Context{"path": path})
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return failure.Translate(err, ErrStorage, failure.Context{"path": path})
	}

	if err := gob.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		return failure.Translate(err, ErrStorage, failure.Context{"path": path})
	}
	if err := f.Close(); err != nil {
		return failure.Translate(err, ErrStorage,
			failure.Message("The token could not be written"),
			failure.Context{"path": path},
		)
	}
	return nil
}

// Delete removes the token stored for baseURL. Deleting a missing token is
// not an error.
func (s *Store) Delete(baseURL string) error {
	path := s.path(baseURL)
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return failure.Translate(err, ErrStorage, failure.Context{"path": path})
	}
	return nil
}

func (s *Store) path(baseURL string) string {
	return filepath.Join(s.dir, normalizeKey(baseURL)+".gob")
}

// normalizeKey converts a base URL into a file name. Tokens are scoped to
// the API host.
func normalizeKey(baseURL string) string {
	key := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		key = u.Host
	}
	key = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, key)

	for strings.Contains(key, "..") {
		key = strings.ReplaceAll(key, "..", ".")
	}
	return key
}
