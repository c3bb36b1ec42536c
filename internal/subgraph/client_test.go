package subgraph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"curve-trade-sim-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(&config.Subgraph{URL: server.URL, MaxRetries: 3, Timeout: 5 * time.Second}, zap.NewNop())
	c.limiter = rate.NewLimiter(rate.Inf, 1) // Allow all requests in tests
	c.initialInterval = time.Millisecond
	return c
}

func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestFetchCurves(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		req := decodeRequest(t, r)
		assert.Contains(t, req.Query, "LatestCurves")
		assert.Equal(t, float64(2), req.Variables["first"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"curves":[
			{"id":"0x1","createdAt":"1700000000","name":"One","symbol":"ONE","graduated":true,
			 "lastPriceUsd":"0.0123","lastPriceEth":"0.000004","totalVolumeEth":"1.5","tradeCount":"42","lastTradeAt":"1700003600"},
			{"id":"0x2","createdAt":"1700000100","name":"Two","symbol":"TWO","graduated":false,
			 "lastPriceUsd":"","lastPriceEth":"abc","totalVolumeEth":"0","tradeCount":"0","lastTradeAt":null}
		]}}`))
	})
	c := setupTestServer(t, handler)

	curves, err := c.FetchCurves(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, curves, 2)

	assert.Equal(t, "0x1", curves[0].ID)
	assert.Equal(t, int64(1700000000), curves[0].CreatedAt)
	assert.True(t, curves[0].Graduated)
	assert.Equal(t, 1.5, curves[0].TotalVolumeEth)
	assert.Equal(t, int64(42), curves[0].TradeCount)
	require.NotNil(t, curves[0].LastTradeAt)
	assert.Equal(t, int64(1700003600), *curves[0].LastTradeAt)
	assert.Equal(t, 0.0123, curves[0].LastPriceUsd)

	assert.Nil(t, curves[1].LastTradeAt)
	assert.Zero(t, curves[1].LastPriceUsd, "malformed numbers become zero")
	assert.Zero(t, curves[1].LastPriceEth)
}

func TestFetchCurveByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := decodeRequest(t, r)
			assert.Equal(t, "0xabc", req.Variables["id"])
			_, _ = w.Write([]byte(`{"data":{"curve":{"id":"0xabc","symbol":"ABC","tradeCount":"3","totalVolumeEth":"0.2"}}}`))
		}))

		curve, err := c.FetchCurveByID(context.Background(), "0xabc")
		require.NoError(t, err)
		require.NotNil(t, curve)
		assert.Equal(t, "ABC", curve.Symbol)
		assert.Equal(t, int64(3), curve.TradeCount)
	})

	t.Run("NotFound", func(t *testing.T) {
		c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"curve":null}}`))
		}))

		curve, err := c.FetchCurveByID(context.Background(), "0xmissing")
		assert.NoError(t, err)
		assert.Nil(t, curve)
	})
}

func TestFetchTrades(t *testing.T) {
	c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "0xabc", req.Variables["curveId"])
		assert.Equal(t, float64(30), req.Variables["first"])
		_, _ = w.Write([]byte(`{"data":{"trades":[
			{"id":"t1","timestamp":"1700000500","trader":"0xaa","side":"BUY","amountEth":"0.1","priceUsd":"0.02"}
		]}}`))
	}))

	trades, err := c.FetchTrades(context.Background(), "0xabc", 30)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, int64(1700000500), trades[0].Timestamp)
	assert.Equal(t, "BUY", trades[0].Side)
	assert.Equal(t, 0.1, trades[0].AmountEth)
	assert.Equal(t, 0.02, trades[0].PriceUsd)
}

func TestQuery_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"curves":[]}}`))
	}))

	curves, err := c.FetchCurves(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, curves)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQuery_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.FetchCurves(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch curves")
	assert.Contains(t, err.Error(), "request failed after 3 attempts")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQuery_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`bad query`))
	}))

	_, err := c.FetchCurves(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQuery_GraphQLErrors(t *testing.T) {
	c := setupTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"indexer not synced"}]}`))
	}))

	_, err := c.FetchCurves(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexer not synced")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 1.25, parseFloat(" 1.25 "))
	assert.Zero(t, parseFloat("NaN"))
	assert.Zero(t, parseFloat(""))
	assert.Equal(t, int64(17), parseInt("17"))
	assert.Equal(t, int64(17), parseInt("17.9"))
	assert.Zero(t, parseInt("x"))
}
