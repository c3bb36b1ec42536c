// Package subgraph queries the curve indexer's GraphQL endpoint.
package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	curveFields = `id createdAt token name symbol uri creator graduated
          lastPriceUsd lastPriceEth totalVolumeEth tradeCount lastTradeAt`

	latestCurvesQuery = `query LatestCurves($first: Int!) {
        curves(first: $first, orderBy: createdAt, orderDirection: desc) {
          ` + curveFields + `
        }
      }`

	curveByIDQuery = `query CurveById($id: ID!) {
        curve(id: $id) {
          ` + curveFields + `
        }
      }`

	tradesForCurveQuery = `query TradesForCurve($curveId: ID!, $first: Int!) {
        trades(first: $first, orderBy: timestamp, orderDirection: desc, where: { curve: $curveId }) {
          id timestamp txHash trader side amountEth amountToken priceEth priceUsd
        }
      }`

	defaultInitialInterval = 500 * time.Millisecond
)

// CurveSource provides curve snapshots.
type CurveSource interface {
	FetchCurves(ctx context.Context, first int) ([]models.Curve, error)
	// FetchCurveByID returns nil without error when the curve does not exist.
	FetchCurveByID(ctx context.Context, id string) (*models.Curve, error)
}

// TradeSource provides recent trades of a curve, newest first.
type TradeSource interface {
	FetchTrades(ctx context.Context, curveID string, first int) ([]models.CurveTrade, error)
}

// ClientInterface is everything the indexer offers.
type ClientInterface interface {
	CurveSource
	TradeSource
}

// Client is a rate limited GraphQL client for the curve indexer.
// It implements the ClientInterface.
type Client struct {
	client          *resty.Client
	url             string
	logger          *zap.Logger
	limiter         *rate.Limiter
	maxRetries      int
	initialInterval time.Duration
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new indexer client.
func NewClient(cfg *config.Subgraph, logger *zap.Logger) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		client:          resty.New().SetTimeout(cfg.Timeout).SetHeader("Content-Type", "application/json"),
		url:             cfg.URL,
		logger:          logger.Named("subgraph"),
		limiter:         rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		maxRetries:      maxRetries,
		initialInterval: defaultInitialInterval,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query posts a GraphQL request and decodes its data into out.
// Network errors, 429 and 5xx responses are retried with exponential backoff.
func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body := graphQLRequest{Query: query, Variables: variables}
	var result graphQLResponse

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter wait failed: %w", err))
		}

		c.logger.Debug("Executing query", zap.String("url", c.url))
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&result).
			ForceContentType("application/json").
			Post(c.url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		status := resp.StatusCode()
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return fmt.Errorf("request failed with status %s", resp.Status())
		}
		if resp.IsError() {
			return backoff.Permanent(fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String()))
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxRetries-1)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Query failed, retrying...", zap.Duration("retry_after", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err)
	}

	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}
	if len(result.Data) == 0 {
		return errors.New("graphql response has no data")
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}
	return nil
}

// FetchCurves returns the newest curves.
func (c *Client) FetchCurves(ctx context.Context, first int) ([]models.Curve, error) {
	var data struct {
		Curves []curveDTO `json:"curves"`
	}
	if err := c.query(ctx, latestCurvesQuery, map[string]interface{}{"first": first}, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch curves: %w", err)
	}

	curves := make([]models.Curve, 0, len(data.Curves))
	for _, dto := range data.Curves {
		curves = append(curves, dto.toModel())
	}
	return curves, nil
}

// FetchCurveByID returns a single curve, or nil when the indexer does not know it.
func (c *Client) FetchCurveByID(ctx context.Context, id string) (*models.Curve, error) {
	var data struct {
		Curve *curveDTO `json:"curve"`
	}
	if err := c.query(ctx, curveByIDQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch curve %s: %w", id, err)
	}
	if data.Curve == nil {
		return nil, nil
	}
	curve := data.Curve.toModel()
	return &curve, nil
}

// FetchTrades returns the latest trades of a curve, newest first.
func (c *Client) FetchTrades(ctx context.Context, curveID string, first int) ([]models.CurveTrade, error) {
	var data struct {
		Trades []tradeDTO `json:"trades"`
	}
	vars := map[string]interface{}{"curveId": curveID, "first": first}
	if err := c.query(ctx, tradesForCurveQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch trades for %s: %w", curveID, err)
	}

	trades := make([]models.CurveTrade, 0, len(data.Trades))
	for _, dto := range data.Trades {
		trades = append(trades, dto.toModel())
	}
	return trades, nil
}

// curveDTO mirrors the indexer's curve entity; numeric fields arrive as strings.
type curveDTO struct {
	ID             string  `json:"id"`
	CreatedAt      string  `json:"createdAt"`
	Token          string  `json:"token"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	URI            string  `json:"uri"`
	Creator        string  `json:"creator"`
	Graduated      bool    `json:"graduated"`
	LastPriceUsd   string  `json:"lastPriceUsd"`
	LastPriceEth   string  `json:"lastPriceEth"`
	TotalVolumeEth string  `json:"totalVolumeEth"`
	TradeCount     string  `json:"tradeCount"`
	LastTradeAt    *string `json:"lastTradeAt"`
}

func (d curveDTO) toModel() models.Curve {
	c := models.Curve{
		ID:             d.ID,
		Token:          d.Token,
		Name:           d.Name,
		Symbol:         d.Symbol,
		URI:            d.URI,
		Creator:        d.Creator,
		CreatedAt:      parseInt(d.CreatedAt),
		Graduated:      d.Graduated,
		TotalVolumeEth: parseFloat(d.TotalVolumeEth),
		TradeCount:     parseInt(d.TradeCount),
		LastPriceUsd:   parseFloat(d.LastPriceUsd),
		LastPriceEth:   parseFloat(d.LastPriceEth),
	}
	if d.LastTradeAt != nil && *d.LastTradeAt != "" {
		ts := parseInt(*d.LastTradeAt)
		c.LastTradeAt = &ts
	}
	return c
}

type tradeDTO struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	TxHash      string `json:"txHash"`
	Trader      string `json:"trader"`
	Side        string `json:"side"`
	AmountEth   string `json:"amountEth"`
	AmountToken string `json:"amountToken"`
	PriceEth    string `json:"priceEth"`
	PriceUsd    string `json:"priceUsd"`
}

func (d tradeDTO) toModel() models.CurveTrade {
	return models.CurveTrade{
		ID:          d.ID,
		Timestamp:   parseInt(d.Timestamp),
		TxHash:      d.TxHash,
		Trader:      d.Trader,
		Side:        d.Side,
		AmountEth:   parseFloat(d.AmountEth),
		AmountToken: parseFloat(d.AmountToken),
		PriceEth:    parseFloat(d.PriceEth),
		PriceUsd:    parseFloat(d.PriceUsd),
	}
}

// parseFloat treats malformed values as zero.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseInt treats malformed values as zero. Decimal strings are truncated.
func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return int64(parseFloat(s))
}
