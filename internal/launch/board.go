// Package launch keeps the startups users launch from the simulator.
package launch

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"curve-trade-sim-go/internal/models"
	"github.com/google/uuid"
)

// ErrInvalidLaunch is returned for launch requests missing required fields.
var ErrInvalidLaunch = errors.New("invalid launch")

// LaunchPrice is the quote price of a freshly launched token.
const LaunchPrice = 0.001

// CreateRequest describes a startup to launch.
type CreateRequest struct {
	Name            string             `json:"name"`
	Symbol          string             `json:"symbol"`
	Logo            string             `json:"logo"`
	Description     string             `json:"description"`
	SocialLinks     models.SocialLinks `json:"socialLinks"`
	CreatorID       int64              `json:"creatorId"`
	CreatorAddress  string             `json:"creatorAddress"`
	InitialPurchase float64            `json:"initialPurchase"`
}

// Validate checks the fields every launch needs.
func (r CreateRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Symbol) == "":
		return fmt.Errorf("%w: Name and ticker are required", ErrInvalidLaunch)
	case math.IsNaN(r.InitialPurchase) || math.IsInf(r.InitialPurchase, 0) || r.InitialPurchase < 0:
		return fmt.Errorf("%w: initialPurchase must not be negative", ErrInvalidLaunch)
	}
	return nil
}

// Board holds launched startups in memory.
type Board struct {
	mu       sync.RWMutex
	startups map[string]*models.Startup
	seq      map[string]int
	next     int
	now      func() time.Time
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		startups: make(map[string]*models.Startup),
		seq:      make(map[string]int),
		now:      time.Now,
	}
}

func newStartupID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("startup_%d_%s", now.UnixMilli(), suffix)
}

// Draft validates req and builds the startup it describes without storing it.
// The id is final, so callers can reference it before Publish.
func (b *Board) Draft(req CreateRequest) (*models.Startup, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := b.now()
	startup := &models.Startup{
		ID:              newStartupID(now),
		Name:            strings.TrimSpace(req.Name),
		Symbol:          strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Logo:            req.Logo,
		Description:     strings.TrimSpace(req.Description),
		SocialLinks:     req.SocialLinks,
		CreatorID:       req.CreatorID,
		CreatorAddress:  req.CreatorAddress,
		InitialPurchase: req.InitialPurchase,
		LastPriceUSD:    strconv.FormatFloat(LaunchPrice, 'f', -1, 64),
		TotalVolumeEth:  "0",
		TradeCount:      "0",
		CreatedAt:       now.UnixMilli(),
	}
	if req.InitialPurchase > 0 {
		startup.TotalVolumeEth = strconv.FormatFloat(req.InitialPurchase, 'f', -1, 64)
		startup.TradeCount = "1"
	}
	return startup, nil
}

// Publish stores a drafted startup. Publishing the same id again replaces it.
func (b *Board) Publish(startup *models.Startup) {
	stored := *startup

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.startups[stored.ID]; !ok {
		b.seq[stored.ID] = b.next
		b.next++
	}
	b.startups[stored.ID] = &stored
}

// List returns every startup, newest first.
func (b *Board) List() []models.Startup {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Startup, 0, len(b.startups))
	for _, s := range b.startups {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return b.seq[out[i].ID] > b.seq[out[j].ID]
	})
	return out
}
