package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"curve-trade-sim-go/internal/analysis"
	"curve-trade-sim-go/internal/api"
	"curve-trade-sim-go/internal/cache"
	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/database"
	"curve-trade-sim-go/internal/launch"
	"curve-trade-sim-go/internal/ledger"
	"curve-trade-sim-go/internal/limitorder"
	"curve-trade-sim-go/internal/logger"
	"curve-trade-sim-go/internal/subgraph"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	store, err := newLedgerStore(&cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize ledger store", zap.Error(err))
	}
	portfolios := ledger.New(store,
		ledger.WithSeedBalance(cfg.Ledger.SeedBalance),
		ledger.WithHistoryLimit(cfg.Ledger.HistoryLimit),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	indexer := subgraph.NewClient(&cfg.Subgraph, log)
	var curves subgraph.CurveSource = indexer
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		curveCache := cache.NewCurveCache(indexer, redisClient, cfg.Redis.TTL, log)
		curves = curveCache
		go cache.NewRefresher(curveCache, cfg.Subgraph.CurveLimit, cfg.Redis.RefreshInterval, log).Run(ctx)
		log.Info("Curve cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var narrator analysis.Narrator
	if cfg.OpenAI.APIKey != "" {
		narrator = analysis.NewOpenAINarrator(&cfg.OpenAI, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, analyses will not include a written assessment")
	}
	analyzer := analysis.NewAnalyzer(curves, indexer, narrator, &cfg.OpenAI, log)

	server := api.NewServer(&cfg.Server, api.Dependencies{
		Ledger:     portfolios,
		Curves:     curves,
		Trades:     indexer,
		Analyzer:   analyzer,
		Orders:     limitorder.NewBook(),
		Launches:   launch.NewBoard(),
		CurveLimit: cfg.Subgraph.CurveLimit,
	}, log)
	server.Start()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("API server shutdown failed", zap.Error(err))
	}

	log.Info("Server has been shut down.")
}

func newLedgerStore(cfg *config.Config, log *zap.Logger) (ledger.Store, error) {
	switch cfg.Ledger.Store {
	case "", "memory":
		log.Info("Using in-memory ledger store")
		return ledger.NewMemoryStore(), nil
	case "sqlite":
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("Database connection successful and schema migrated.", zap.String("dsn", cfg.Database.DSN))
		return database.NewPortfolioStore(db), nil
	default:
		return nil, fmt.Errorf("unknown ledger store %q", cfg.Ledger.Store)
	}
}
