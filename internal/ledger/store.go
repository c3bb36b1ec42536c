package ledger

import (
	"context"
	"sync"

	"curve-trade-sim-go/internal/models"
)

// Store persists portfolios keyed by user id.
// Get returns ErrPortfolioNotFound when the user has no portfolio yet.
// Implementations need not lock per user; the Ledger serializes access.
type Store interface {
	Get(ctx context.Context, userID int64) (*models.Portfolio, error)
	Put(ctx context.Context, p *models.Portfolio) error
}

// MemoryStore is a process-wide in-memory portfolio table.
type MemoryStore struct {
	mu         sync.RWMutex
	portfolios map[int64]*models.Portfolio
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{portfolios: make(map[int64]*models.Portfolio)}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[userID]
	if !ok {
		return nil, ErrPortfolioNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, p *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios[p.UserID] = p.Clone()
	return nil
}

// userLocks hands out one mutex per user id, so operations on different
// users never wait on each other. An entry lives only while some caller holds
// or waits on it, so the map is bounded by in-flight users.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*userLock)}
}

// lock acquires the user's mutex and returns the matching unlock.
func (u *userLocks) lock(userID int64) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &userLock{}
		u.locks[userID] = l
	}
	l.refs++
	u.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		u.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
