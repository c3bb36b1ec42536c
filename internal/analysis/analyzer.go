// Package analysis produces a written risk assessment of a curve.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/models"
	"curve-trade-sim-go/internal/risk"
	"curve-trade-sim-go/internal/subgraph"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	recentTradeWindow  = 30
	defaultDescription = "No description"
)

// ErrCurveNotFound is returned when the indexer has no such curve.
var ErrCurveNotFound = errors.New("curve not found")

// ResolveIPFS rewrites ipfs://<hash> to <gateway>/ipfs/<hash>. Other URIs are returned unchanged.
func ResolveIPFS(uri, gateway string) string {
	if uri == "" {
		return ""
	}
	if hash, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return strings.TrimRight(gateway, "/") + "/ipfs/" + hash
	}
	return uri
}

// CurveView is a curve enriched with its token metadata.
type CurveView struct {
	models.Curve
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Report is the outcome of analysing one curve.
type Report struct {
	Curve        CurveView    `json:"curve"`
	Risk         risk.Result  `json:"risk"`
	TradeSummary TradeSummary `json:"tradeSummary"`
	Analysis     string       `json:"analysis"`
}

type tokenMetadata struct {
	Image       string `json:"image"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Analyzer combines indexer data, the risk engine and a Narrator.
type Analyzer struct {
	curves   subgraph.CurveSource
	trades   subgraph.TradeSource
	narrator Narrator
	http     *resty.Client
	gateway  string
	now      func() time.Time
	logger   *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil narrator yields reports without a written analysis.
func NewAnalyzer(curves subgraph.CurveSource, trades subgraph.TradeSource, narrator Narrator, cfg *config.OpenAI, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		curves:   curves,
		trades:   trades,
		narrator: narrator,
		http:     resty.New().SetTimeout(cfg.MetadataTimeout),
		gateway:  cfg.IPFSGateway,
		now:      time.Now,
		logger:   logger.Named("analyzer"),
	}
}

// Analyze scores the curve, summarises its recent trades and asks the narrator for a verdict.
func (a *Analyzer) Analyze(ctx context.Context, curveID string) (*Report, error) {
	var (
		wg        sync.WaitGroup
		curve     *models.Curve
		trades    []models.CurveTrade
		curveErr  error
		tradesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		curve, curveErr = a.curves.FetchCurveByID(ctx, curveID)
	}()
	go func() {
		defer wg.Done()
		trades, tradesErr = a.trades.FetchTrades(ctx, curveID, recentTradeWindow)
	}()
	wg.Wait()

	if curveErr != nil {
		return nil, curveErr
	}
	if curve == nil {
		return nil, fmt.Errorf("%w: %s", ErrCurveNotFound, curveID)
	}
	if tradesErr != nil {
		return nil, tradesErr
	}

	result := risk.Score(*curve, a.now())
	summary := SummarizeTrades(trades)

	view := CurveView{Curve: *curve, Description: defaultDescription}
	if md := a.fetchMetadata(ctx, curve.URI); md != nil {
		if md.Image != "" {
			view.Image = ResolveIPFS(md.Image, a.gateway)
		}
		if md.Description != "" {
			view.Description = md.Description
		} else if md.Name != "" {
			view.Description = md.Name
		}
	}

	report := &Report{Curve: view, Risk: result, TradeSummary: summary}
	if a.narrator == nil {
		a.logger.Warn("No narrator configured, skipping written analysis", zap.String("curve", curveID))
		return report, nil
	}

	text, err := a.narrator.Narrate(ctx, BuildPrompt(*curve, summary, result))
	if err != nil {
		return nil, fmt.Errorf("failed to narrate analysis: %w", err)
	}
	report.Analysis = text
	return report, nil
}

// fetchMetadata loads token metadata. Failures are logged and yield nil.
func (a *Analyzer) fetchMetadata(ctx context.Context, uri string) *tokenMetadata {
	if uri == "" {
		return nil
	}

	url := ResolveIPFS(uri, a.gateway)
	var md tokenMetadata
	resp, err := a.http.R().
		SetContext(ctx).
		SetResult(&md).
		ForceContentType("application/json").
		Get(url)
	if err != nil {
		a.logger.Warn("Failed to fetch token metadata", zap.String("url", url), zap.Error(err))
		return nil
	}
	if resp.IsError() {
		a.logger.Warn("Token metadata request failed", zap.String("url", url), zap.Int("status", resp.StatusCode()))
		return nil
	}
	return &md
}
