package database

import (
	"context"
	"errors"
	"fmt"

	"curve-trade-sim-go/internal/ledger"
	"curve-trade-sim-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PortfolioRow is the persisted header of a user portfolio.
type PortfolioRow struct {
	UserID        int64 `gorm:"primaryKey;autoIncrement:false"`
	WalletAddress string
	USDCBalance   float64 `gorm:"not null"`
	// Millisecond timestamps; the names avoid gorm's automatic CreatedAt/UpdatedAt handling.
	CreatedAtMs int64
	UpdatedAtMs int64
}

func (PortfolioRow) TableName() string { return "portfolios" }

// HoldingRow is one holding of a portfolio. Position keeps the slice order.
type HoldingRow struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      int64 `gorm:"index;not null"`
	Position    int
	CurveID     string
	Symbol      string
	Name        string
	Quantity    float64
	AvgBuyPrice float64
	TotalCost   float64
}

func (HoldingRow) TableName() string { return "holdings" }

// TradeRecordRow is one entry of a portfolio's trade history, Position 0 being the newest.
type TradeRecordRow struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"index;not null"`
	Position  int
	TradeID   string
	Timestamp int64
	Type      string
	Symbol    string
	Side      string
	Amount    float64
	Price     float64
}

func (TradeRecordRow) TableName() string { return "trade_records" }

// PortfolioStore persists ledger portfolios with gorm.
type PortfolioStore struct {
	db *gorm.DB
}

var _ ledger.Store = (*PortfolioStore)(nil)

// NewPortfolioStore creates a store on an already migrated database.
func NewPortfolioStore(db *gorm.DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// Get loads the portfolio of userID or returns ledger.ErrPortfolioNotFound.
func (s *PortfolioStore) Get(ctx context.Context, userID int64) (*models.Portfolio, error) {
	db := s.db.WithContext(ctx)

	var row PortfolioRow
	if err := db.First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to load portfolio %d: %w", userID, err)
	}

	var holdings []HoldingRow
	if err := db.Where("user_id = ?", userID).Order("position asc").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to load holdings for %d: %w", userID, err)
	}

	var trades []TradeRecordRow
	if err := db.Where("user_id = ?", userID).Order("position asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades for %d: %w", userID, err)
	}

	p := &models.Portfolio{
		UserID:        row.UserID,
		WalletAddress: row.WalletAddress,
		USDCBalance:   row.USDCBalance,
		Holdings:      make([]models.Holding, 0, len(holdings)),
		Trades:        make([]models.TradeRecord, 0, len(trades)),
		CreatedAt:     row.CreatedAtMs,
		UpdatedAt:     row.UpdatedAtMs,
	}
	for _, h := range holdings {
		p.Holdings = append(p.Holdings, models.Holding{
			CurveID:     h.CurveID,
			Symbol:      h.Symbol,
			Name:        h.Name,
			Quantity:    h.Quantity,
			AvgBuyPrice: h.AvgBuyPrice,
			TotalCost:   h.TotalCost,
		})
	}
	for _, t := range trades {
		p.Trades = append(p.Trades, models.TradeRecord{
			ID:        t.TradeID,
			Timestamp: t.Timestamp,
			Type:      models.TradeType(t.Type),
			Symbol:    t.Symbol,
			Side:      models.Side(t.Side),
			Amount:    t.Amount,
			Price:     t.Price,
		})
	}
	return p, nil
}

// Put replaces the stored portfolio, holdings and history in one transaction.
func (s *PortfolioStore) Put(ctx context.Context, p *models.Portfolio) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := PortfolioRow{
			UserID:        p.UserID,
			WalletAddress: p.WalletAddress,
			USDCBalance:   p.USDCBalance,
			CreatedAtMs:   p.CreatedAt,
			UpdatedAtMs:   p.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to save portfolio %d: %w", p.UserID, err)
		}

		if err := tx.Where("user_id = ?", p.UserID).Delete(&HoldingRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear holdings for %d: %w", p.UserID, err)
		}
		if len(p.Holdings) > 0 {
			rows := make([]HoldingRow, 0, len(p.Holdings))
			for i, h := range p.Holdings {
				rows = append(rows, HoldingRow{
					UserID:      p.UserID,
					Position:    i,
					CurveID:     h.CurveID,
					Symbol:      h.Symbol,
					Name:        h.Name,
					Quantity:    h.Quantity,
					AvgBuyPrice: h.AvgBuyPrice,
					TotalCost:   h.TotalCost,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save holdings for %d: %w", p.UserID, err)
			}
		}

		if err := tx.Where("user_id = ?", p.UserID).Delete(&TradeRecordRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear trades for %d: %w", p.UserID, err)
		}
		if len(p.Trades) > 0 {
			rows := make([]TradeRecordRow, 0, len(p.Trades))
			for i, t := range p.Trades {
				rows = append(rows, TradeRecordRow{
					UserID:    p.UserID,
					Position:  i,
					TradeID:   t.ID,
					Timestamp: t.Timestamp,
					Type:      string(t.Type),
					Symbol:    t.Symbol,
					Side:      string(t.Side),
					Amount:    t.Amount,
					Price:     t.Price,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save trades for %d: %w", p.UserID, err)
			}
		}
		return nil
	})
}
