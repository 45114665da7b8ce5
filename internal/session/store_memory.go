package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	apierrors "studentlens/internal/errors"
	"studentlens/internal/validation"
)

// Store keeps sessions between requests.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Len() int
}

// MemoryStore is an in-memory implementation of Store. Sessions idle longer
// than the TTL are evicted on the next access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory session store. A non-positive ttl
// keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new empty session
func (s *MemoryStore) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		NameStatus: validation.NamePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, exists := s.sessions[sess.ID]; exists {
		return nil, fmt.Errorf("session %s already exists", sess.ID)
	}

	s.sessions[sess.ID] = sess
	return sess.clone(), nil
}

// Get retrieves a session by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, apierrors.SessionNotFound(id)
	}

	// Return a copy to prevent external modification
	return sess.clone(), nil
}

// Update replaces a stored session and refreshes its idle timer
func (s *MemoryStore) Update(ctx context.Context, sess *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	if _, exists := s.sessions[sess.ID]; !exists {
		return apierrors.SessionNotFound(sess.ID)
	}

	stored := sess.clone()
	stored.UpdatedAt = s.now()
	s.sessions[sess.ID] = stored
	sess.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a session from the store
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return apierrors.SessionNotFound(id)
	}

	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// sweepLocked removes expired sessions; callers hold the write lock.
func (s *MemoryStore) sweepLocked() int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)
	deleted := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted
}
