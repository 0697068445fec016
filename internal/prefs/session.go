package prefs

import (
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/perch/session.toml"

type sessionFile struct {
	Token string `toml:"token"`
}

// Tokens owns the persisted bearer token. It caches the token in memory so
// the API client's per-request token source never touches the filesystem.
// Safe for concurrent use.
type Tokens struct {
	mu    sync.Mutex
	path  string
	token string
}

// DefaultSessionPath returns the default session file path.
func DefaultSessionPath() string {
	return defaultSessionPath
}

// OpenTokens loads any previously saved token. A missing or unreadable file
// yields an anonymous token store.
func OpenTokens(path string) *Tokens {
	t := &Tokens{path: path}
	var stored sessionFile
	if bytes, ok := readFile(path, defaultSessionPath); ok {
		if err := toml.Unmarshal(bytes, &stored); err == nil {
			t.token = strings.TrimSpace(stored.Token)
		}
	}
	return t
}

// Current returns the token in memory, or "" when anonymous. This is the
// api.TokenSource wired into the client.
func (t *Tokens) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// Set stores the token in memory and persists it.
func (t *Tokens) Set(token string) error {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
	return writeFile(t.path, defaultSessionPath, sessionFile{Token: token})
}

// Clear drops the token in memory and removes the session file. Called
// synchronously by logout and by the forced-logout path.
func (t *Tokens) Clear() error {
	t.mu.Lock()
	t.token = ""
	t.mu.Unlock()
	return removeFile(t.path, defaultSessionPath)
}
