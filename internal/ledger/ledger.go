// Package ledger keeps per-user simulated balances, holdings and trade history.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"curve-trade-sim-go/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultSeedBalance  = 100.0
	DefaultHistoryLimit = 50
)

// Ledger applies trade requests to user portfolios held in a Store.
// Each user's portfolio is mutated under that user's lock only.
type Ledger struct {
	store        Store
	locks        *userLocks
	seedBalance  float64
	historyLimit int
	now          func() time.Time
	newID        func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSeedBalance sets the balance of newly created portfolios.
func WithSeedBalance(balance float64) Option {
	return func(l *Ledger) { l.seedBalance = balance }
}

// WithHistoryLimit sets how many trade records are retained per user.
func WithHistoryLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.historyLimit = n
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces the trade record id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// New creates a Ledger backed by store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		locks:        newUserLocks(),
		seedBalance:  DefaultSeedBalance,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetPortfolio returns the user's portfolio, creating a seeded one on first access.
func (l *Ledger) GetPortfolio(ctx context.Context, userID int64) (*models.Portfolio, error) {
	if userID <= 0 {
		return nil, &InvalidInputError{Field: "userId", Reason: "is required"}
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	p, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RecordTrade applies req to the user's portfolio and returns the updated portfolio.
// A failed request leaves the stored portfolio untouched.
func (l *Ledger) RecordTrade(ctx context.Context, req models.TradeRequest) (*models.Portfolio, error) {
	if req.Type == "" {
		req.Type = models.TradeTypeTrade
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	unlock := l.locks.lock(req.UserID)
	defer unlock()

	current, err := l.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	m := mutationFor(req)
	if err := m.apply(next); err != nil {
		return nil, err
	}

	now := l.now().UnixMilli()
	record := models.TradeRecord{
		ID:        l.newID(),
		Timestamp: now,
		Type:      req.Type,
		Symbol:    req.Symbol,
		Side:      m.recordedSide(),
		Amount:    req.Amount,
		Price:     req.Price,
	}
	next.Trades = append([]models.TradeRecord{record}, next.Trades...)
	if len(next.Trades) > l.historyLimit {
		next.Trades = next.Trades[:l.historyLimit]
	}
	next.UpdatedAt = now

	if err := l.store.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save portfolio for user %d: %w", req.UserID, err)
	}
	return next, nil
}

// load fetches the user's portfolio or seeds a new one. Callers hold the user lock.
func (l *Ledger) load(ctx context.Context, userID int64) (*models.Portfolio, error) {
	p, err := l.store.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPortfolioNotFound) {
		return nil, fmt.Errorf("failed to load portfolio for user %d: %w", userID, err)
	}

	now := l.now().UnixMilli()
	p = &models.Portfolio{
		UserID:        userID,
		WalletAddress: WalletAddress(userID),
		USDCBalance:   l.seedBalance,
		Holdings:      []models.Holding{},
		Trades:        []models.TradeRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.store.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create portfolio for user %d: %w", userID, err)
	}
	return p, nil
}

// WalletAddress derives the simulated wallet address shown for a user.
func WalletAddress(userID int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("easya_%d", userID)))
	return "0x" + hex.EncodeToString(sum[:])[:40]
}

func validate(req models.TradeRequest) error {
	switch {
	case req.UserID <= 0:
		return &InvalidInputError{Field: "userId", Reason: "is required"}
	case req.Symbol == "":
		return &InvalidInputError{Field: "symbol", Reason: "is required"}
	case !req.Type.Valid():
		return &InvalidInputError{Field: "type", Reason: fmt.Sprintf("%q is not a trade type", req.Type)}
	case !req.Side.Valid():
		return &InvalidInputError{Field: "side", Reason: fmt.Sprintf("%q is not buy or sell", req.Side)}
	case !positive(req.Amount):
		return &InvalidInputError{Field: "amount", Reason: "must be a positive number"}
	case math.IsNaN(req.Price) || math.IsInf(req.Price, 0) || req.Price < 0:
		return &InvalidInputError{Field: "price", Reason: "must be a non-negative number"}
	case req.Price == 0 && (req.Side == models.SideBuy || req.Type == models.TradeTypeReserve):
		return &InvalidInputError{Field: "price", Reason: "must be positive"}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
