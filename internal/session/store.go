package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"village-ems/internal/models"
)

// ErrNoSession is returned when an operation needs an authenticated
// session and none exists.
var ErrNoSession = errors.New("no active session")

// Store owns the persisted session. It is the only writer of the token
// and profile; everything else reads through it.
type Store struct {
	mu   sync.RWMutex
	path string
	sess *models.Session
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load restores a previously persisted session. A missing file is the
// normal logged-out state, not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.sess = nil
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as logged out.
		s.sess = nil
		return nil
	}
	if sess.Token == "" || !sess.User.Role.IsValid() {
		s.sess = nil
		return nil
	}
	s.sess = &sess
	return nil
}

// Set replaces the session and persists it.
func (s *Store) Set(sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.sess = sess
	return nil
}

// Clear tears the session down unconditionally, in memory and on disk.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		// The in-memory teardown already happened; a leftover file
		// only matters until the next Set overwrites it.
		_ = err
	}
}

// Current returns the session, or false when logged out.
func (s *Store) Current() (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return nil, false
	}
	copied := *s.sess
	return &copied, true
}

// Token implements the api token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.Token
}
