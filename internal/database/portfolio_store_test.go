package database

import (
	"context"
	"path/filepath"
	"testing"

	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/ledger"
	"curve-trade-sim-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database for each test.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := Open("file::memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestPortfolioStore_GetMissing(t *testing.T) {
	store := NewPortfolioStore(setupTestDB(t))

	_, err := store.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ledger.ErrPortfolioNotFound)
}

func TestPortfolioStore_PutGetRoundTrip(t *testing.T) {
	store := NewPortfolioStore(setupTestDB(t))
	ctx := context.Background()

	p := &models.Portfolio{
		UserID:        5,
		WalletAddress: "0xabc",
		USDCBalance:   42.5,
		Holdings: []models.Holding{
			{CurveID: "c1", Symbol: "ONE", Name: "One", Quantity: 3, AvgBuyPrice: 2, TotalCost: 6},
			{CurveID: "c2", Symbol: "TWO", Name: "Two", Quantity: 1, AvgBuyPrice: 9, TotalCost: 9},
		},
		Trades: []models.TradeRecord{
			{ID: "b", Timestamp: 2000, Type: models.TradeTypeTrade, Symbol: "TWO", Side: models.SideBuy, Amount: 9, Price: 9},
			{ID: "a", Timestamp: 1000, Type: models.TradeTypeReserve, Symbol: "ONE", Side: models.SideBuy, Amount: 6, Price: 2},
		},
		CreatedAt: 1000,
		UpdatedAt: 2000,
	}
	require.NoError(t, store.Put(ctx, p))

	got, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Overwrite with fewer holdings; stale rows must disappear.
	p.Holdings = p.Holdings[:1]
	p.Trades = p.Trades[:1]
	p.USDCBalance = 10
	require.NoError(t, store.Put(ctx, p))

	got, err = store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.USDCBalance)
	assert.Len(t, got.Holdings, 1)
	assert.Len(t, got.Trades, 1)
}

func TestPortfolioStore_BacksLedger(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "ledger.db")
	db, err := NewDatabase(&config.Database{DSN: dsn})
	require.NoError(t, err)

	ctx := context.Background()
	l := ledger.New(NewPortfolioStore(db))

	_, err = l.RecordTrade(ctx, models.TradeRequest{UserID: 9, Symbol: "X", CurveID: "x", Side: models.SideBuy, Amount: 50, Price: 10})
	require.NoError(t, err)
	_, err = l.RecordTrade(ctx, models.TradeRequest{UserID: 9, Symbol: "X", CurveID: "x", Side: models.SideSell, Amount: 25, Price: 10})
	require.NoError(t, err)

	// A second ledger on a reopened database sees the same state.
	db2, err := NewDatabase(&config.Database{DSN: dsn})
	require.NoError(t, err)
	p, err := ledger.New(NewPortfolioStore(db2)).GetPortfolio(ctx, 9)
	require.NoError(t, err)

	assert.Equal(t, 75.0, p.USDCBalance)
	require.Len(t, p.Holdings, 1)
	assert.Equal(t, 2.5, p.Holdings[0].Quantity)
	assert.Equal(t, 25.0, p.Holdings[0].TotalCost)
	require.Len(t, p.Trades, 2)
	assert.Equal(t, models.SideSell, p.Trades[0].Side)
}
