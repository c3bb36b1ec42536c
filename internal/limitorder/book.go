// Package limitorder stores user limit orders in memory.
package limitorder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"curve-trade-sim-go/internal/models"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")
)

// PlaceRequest describes a new limit order.
type PlaceRequest struct {
	UserID       int64       `json:"userId,omitempty"`
	Symbol       string      `json:"symbol"`
	CurveID      string      `json:"curveId"`
	Side         models.Side `json:"side"`
	TriggerPrice float64     `json:"triggerPrice"`
	Amount       float64     `json:"amount"`
	CurrentPrice float64     `json:"currentPrice"`
}

// Validate checks the fields every order needs.
func (r PlaceRequest) Validate() error {
	switch {
	case r.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidOrder)
	case r.CurveID == "":
		return fmt.Errorf("%w: curveId is required", ErrInvalidOrder)
	case !r.Side.Valid():
		return fmt.Errorf("%w: side must be buy or sell", ErrInvalidOrder)
	case !(r.TriggerPrice > 0):
		return fmt.Errorf("%w: triggerPrice must be positive", ErrInvalidOrder)
	case !(r.Amount > 0):
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOrder)
	case r.CurrentPrice < 0:
		return fmt.Errorf("%w: currentPrice must not be negative", ErrInvalidOrder)
	}
	return nil
}

// Book holds pending and cancelled orders. Orders are never triggered.
type Book struct {
	mu     sync.RWMutex
	orders map[string]*models.LimitOrder
	seq    map[string]int
	next   int
	now    func() time.Time
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		orders: make(map[string]*models.LimitOrder),
		seq:    make(map[string]int),
		now:    time.Now,
	}
}

func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("ord_%d_%s", now.UnixMilli(), suffix)
}

// Place validates and stores a new pending order.
func (b *Book) Place(req PlaceRequest) (*models.LimitOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	order := &models.LimitOrder{
		ID:           newOrderID(now),
		UserID:       req.UserID,
		Symbol:       req.Symbol,
		CurveID:      req.CurveID,
		Side:         req.Side,
		TriggerPrice: req.TriggerPrice,
		Amount:       req.Amount,
		CurrentPrice: req.CurrentPrice,
		Status:       models.OrderStatusPending,
		CreatedAt:    now.UnixMilli(),
	}
	b.orders[order.ID] = order
	b.seq[order.ID] = b.next
	b.next++

	out := *order
	return &out, nil
}

// List returns every order, newest first.
func (b *Book) List() []models.LimitOrder {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.LimitOrder, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return b.seq[out[i].ID] > b.seq[out[j].ID]
	})
	return out
}

// Cancel marks an order cancelled. Cancelling twice is not an error.
func (b *Book) Cancel(id string) (*models.LimitOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	order.Status = models.OrderStatusCancelled

	out := *order
	return &out, nil
}
