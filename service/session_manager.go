package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or evicted session ids
var ErrSessionNotFound = errors.New("design session not found")

// SessionManager keeps the live design sessions.
// Idle sessions expire after maxAge; at maxSessions the least recently used one is evicted.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*DesignSession
	deps        DesignSessionDeps
	maxSessions int
	maxAge      time.Duration
}

// NewSessionManager creates a manager building sessions from deps
func NewSessionManager(deps DesignSessionDeps, maxSessions int, maxAge time.Duration) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*DesignSession),
		deps:        deps,
		maxSessions: maxSessions,
		maxAge:      maxAge,
	}
}

// Ensure SessionManager implements SessionManagerInterface
var _ SessionManagerInterface = (*SessionManager)(nil)

// Create starts a new session
func (m *SessionManager) Create() (*DesignSession, error) {
	m.CleanupExpired()

	s := NewDesignSession(uuid.NewString(), m.deps)

	m.mu.Lock()
	m.evictIfFullLocked()
	m.sessions[s.ID()] = s
	count := len(m.sessions)
	m.mu.Unlock()

	log.Printf("🎨 Design session %s created (%d active)", s.shortID(), count)
	return s, nil
}

// Get returns a session and marks it used
func (m *SessionManager) Get(id string) (*DesignSession, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Delete ends a session. It reports whether the session existed.
func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		log.Printf("🗑️  Design session %s ended", s.shortID())
	}
	return ok
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes sessions idle for longer than maxAge
func (m *SessionManager) CleanupExpired() int {
	if m.maxAge <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.maxAge)

	m.mu.Lock()
	var expired []*DesignSession
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		log.Printf("🧹 Design session %s expired", s.shortID())
	}
	return len(expired)
}

// StartCleanup runs CleanupExpired every interval until ctx ends
func (m *SessionManager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CleanupExpired()
			}
		}
	}()
}

func (m *SessionManager) evictIfFullLocked() {
	if m.maxSessions <= 0 || len(m.sessions) < m.maxSessions {
		return
	}

	all := make([]*DesignSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].LastUsed().Before(all[j].LastUsed())
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	for _, s := range all[:toFree] {
		delete(m.sessions, s.ID())
		s.Close()
		log.Printf("🧹 Design session %s evicted to make room", s.shortID())
	}
}
