package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// SessionStore keeps live sessions in memory. Logging out or expiring removes
// the entry, which revokes any token that still references it.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session for the given role and college.
func (s *SessionStore) Create(role domain.Role, collegeCode, username string) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeLocked(now)

	session := &domain.Session{
		ID:          uuid.NewString(),
		Role:        role,
		CollegeCode: collegeCode,
		Username:    username,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	s.sessions[session.ID] = session

	copied := *session
	return &copied
}

// Get returns a copy of a live session or apperrors.ErrSessionNotFound.
func (s *SessionStore) Get(id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, apperrors.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of sessions that have not expired.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked(s.now())
	return len(s.sessions)
}

func (s *SessionStore) purgeLocked(now time.Time) {
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
