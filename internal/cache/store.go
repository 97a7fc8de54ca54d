// Package cache is the process-local session store backing the widget's
// fallback lookup path. It merges a fixed sample partition with a stored
// partition; stored entries shadow samples of the same key.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/demopay/capture-widget/internal/domain"
)

// Store is a key-value session store. The stored partition lives in memory
// and, when a snapshot path is configured, in a single JSON map on disk.
// Writers on separate instances sharing a path are not coordinated: last
// write wins, which is acceptable for a demo cache.
type Store struct {
	mu     sync.Mutex
	stored *gocache.Cache
	path   string
	logger *slog.Logger
}

// NewStore builds a store and loads the stored partition from path when one
// is given. A missing or unreadable snapshot is treated as an empty stored
// partition, not an error.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		stored: gocache.New(gocache.NoExpiration, 0),
		path:   path,
		logger: logger,
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.path == "" {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not read session snapshot", "path", s.path, "error", err)
		}
		return
	}

	var sessions map[string]*domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		s.logger.Warn("could not decode session snapshot", "path", s.path, "error", err)
		return
	}

	for id, sess := range sessions {
		s.stored.Set(id, sess, gocache.NoExpiration)
	}
}

// Get resolves a session ID against the stored partition first, then the
// samples.
func (s *Store) Get(sessionID string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.stored.Get(sessionID); ok {
		return v.(*domain.Session), true
	}
	if sess, ok := SampleSessions()[sessionID]; ok {
		return sess, true
	}
	return nil, false
}

// Put stores one session and persists the stored partition.
func (s *Store) Put(sess *domain.Session) error {
	if sess == nil || sess.SessionID == "" {
		return errors.New("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stored.Set(sess.SessionID, sess, gocache.NoExpiration)
	return s.snapshot()
}

// PutAll stores every session in the map and persists once.
func (s *Store) PutAll(sessions map[string]*domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range sessions {
		if id == "" || sess == nil {
			return errors.New("session ID is required")
		}
		s.stored.Set(id, sess, gocache.NoExpiration)
	}
	return s.snapshot()
}

// All returns the merged view: samples overlaid by stored entries.
func (s *Store) All() map[string]*domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := SampleSessions()
	for id, item := range s.stored.Items() {
		merged[id] = item.Object.(*domain.Session)
	}
	return merged
}

// Clear drops the stored partition and its snapshot. The samples are always
// available as a last-resort default and are never cleared.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stored.Flush()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session snapshot: %w", err)
	}
	return nil
}

// snapshot persists the stored partition. Samples are never written.
// Callers must hold s.mu.
func (s *Store) snapshot() error {
	if s.path == "" {
		return nil
	}

	sessions := make(map[string]*domain.Session, s.stored.ItemCount())
	for id, item := range s.stored.Items() {
		sessions[id] = item.Object.(*domain.Session)
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encoding session snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session snapshot: %w", err)
	}
	return nil
}
