package auth

import (
	"context"
	"sync"
	"time"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// memStore is an in-memory SessionStore used by the tests in this
// package.  Setting fail makes every call return that error, which is
// how the fail-closed paths are exercised.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	fail     error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*model.Session)}
}

func (m *memStore) Create(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *memStore) GetActive(_ context.Context, sessionID string, userID uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	s, ok := m.sessions[sessionID]
	if !ok || !s.IsActive || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	stored, ok := m.sessions[s.SessionID]
	if !ok {
		return ErrSessionNotFound
	}
	stored.IsActive = s.IsActive
	stored.LastActivity = s.LastActivity
	stored.ExpiresAt = s.ExpiresAt
	return nil
}

func (m *memStore) Deactivate(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if s, ok := m.sessions[sessionID]; ok {
		s.IsActive = false
	}
	return nil
}

func (m *memStore) DeactivateAllForUser(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (m *memStore) DeactivateAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, s := range m.sessions {
		s.IsActive = false
	}
	return nil
}

func (m *memStore) DeleteDead(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	var n int64
	for id, s := range m.sessions {
		if !s.IsActive || now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// get returns the stored row for assertions.
func (m *memStore) get(sessionID string) *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
