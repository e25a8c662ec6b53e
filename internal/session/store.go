package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Load when no usable session exists on disk.
var ErrNoSession = errors.New("no active session")

// Store persists the auth session across runs of the client.
//
// A session is all-or-nothing: token and email are saved together and a
// persisted record missing either is treated as no session at all.
type Store interface {
	Save(s *Session) error
	Load() (*Session, error) // returns ErrNoSession if none exists
	Clear() error            // idempotent
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to session.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/dfscan/session.json or ~/.local/share/dfscan/session.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "session.json")}, nil
}

// dataDir returns the dfscan-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "dfscan"), nil
}

// Save persists the session, rejecting partial records up front so the
// both-or-neither invariant can never reach disk.
func (d *diskStore) Save(s *Session) error {
	if s == nil || s.Token == "" || s.Email == "" {
		return errors.New("refusing to save partial session")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "session-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Load restores a previously saved session. A missing, malformed, or partial
// record all mean the same thing to callers: ErrNoSession.
func (d *diskStore) Load() (*Session, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrNoSession
	}
	if s.Token == "" || s.Email == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Clear removes the persisted session. Clearing when no session exists is a no-op.
func (d *diskStore) Clear() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
