// Package api exposes the simulator over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"curve-trade-sim-go/internal/analysis"
	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/launch"
	"curve-trade-sim-go/internal/limitorder"
	"curve-trade-sim-go/internal/models"
	"curve-trade-sim-go/internal/subgraph"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultCurveLimit = 50

// PortfolioLedger reads and mutates simulated portfolios.
type PortfolioLedger interface {
	GetPortfolio(ctx context.Context, userID int64) (*models.Portfolio, error)
	RecordTrade(ctx context.Context, req models.TradeRequest) (*models.Portfolio, error)
}

// CurveAnalyzer produces narrative risk reports.
type CurveAnalyzer interface {
	Analyze(ctx context.Context, curveID string) (*analysis.Report, error)
}

// OrderBook stores limit orders.
type OrderBook interface {
	Place(req limitorder.PlaceRequest) (*models.LimitOrder, error)
	List() []models.LimitOrder
	Cancel(id string) (*models.LimitOrder, error)
}

// LaunchBoard stores user-launched startups.
type LaunchBoard interface {
	Draft(req launch.CreateRequest) (*models.Startup, error)
	Publish(startup *models.Startup)
	List() []models.Startup
}

// Dependencies are the collaborators the handlers call into.
type Dependencies struct {
	Ledger   PortfolioLedger
	Curves   subgraph.CurveSource
	Trades   subgraph.TradeSource
	Analyzer CurveAnalyzer
	Orders   OrderBook
	Launches LaunchBoard
	// CurveLimit is how many of the newest curves strategies consider.
	CurveLimit int
}

// Server is the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	deps       Dependencies
	now        func() time.Time
	logger     *zap.Logger
}

// NewServer creates a server listening on cfg.Port.
func NewServer(cfg *config.Server, deps Dependencies, logger *zap.Logger) *Server {
	if deps.CurveLimit <= 0 {
		deps.CurveLimit = defaultCurveLimit
	}

	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
		now:    time.Now,
		logger: logger.Named("api-server"),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r := s.router
	r.HandleFunc("/api/portfolio", s.handleGetPortfolio).Methods(http.MethodGet)
	r.HandleFunc("/api/portfolio", s.handleRecordTrade).Methods(http.MethodPost)
	r.HandleFunc("/api/strategy", s.handleStrategy).Methods(http.MethodGet)
	r.HandleFunc("/api/risk", s.handleRisk).Methods(http.MethodGet)
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/chart-data", s.handleChartData).Methods(http.MethodGet)
	r.HandleFunc("/api/limit-order", s.handlePlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/api/limit-order", s.handleListOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/limit-order", s.handleCancelOrder).Methods(http.MethodDelete)
	r.HandleFunc("/api/launch", s.handleLaunch).Methods(http.MethodPost)
	r.HandleFunc("/api/launch", s.handleListLaunches).Methods(http.MethodGet)

	// Routes live on the root router so these handlers apply to /api paths too.
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found", nil)
	})
}

// Handler returns the router wrapped in the server's middleware.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.recoveryMiddleware(corsMiddleware(s.router)))
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "curve-trade-sim",
	})
}
