package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxtrade/tradecore/gateway"
	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

func TestQueryHistorySuccess(t *testing.T) {
	bars := []types.Bar{
		{Symbol: types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"}, ClosePrice: decimal.NewFromInt(100)},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "BTCUSDT.BINANCE", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bars)
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	got, err := c.QueryHistory(context.Background(), types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"}, types.Interval1d, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ClosePrice.Equal(decimal.NewFromInt(100)))
}

func TestQueryHistoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	_, err := c.QueryHistory(context.Background(), types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"}, types.Interval1d, time.Now(), time.Now())
	assert.Error(t, err)
}

func TestSendOrderRejectedByVenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	err := c.SendOrder(context.Background(), types.Order{
		Symbol: types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"},
		Price:  decimal.NewFromInt(100),
		Volume: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, tradeerr.InvalidOrder)
}

func TestSendOrderAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	err := c.SendOrder(context.Background(), types.Order{
		Symbol: types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"},
		Price:  decimal.NewFromInt(100),
		Volume: decimal.NewFromInt(1),
	})
	assert.NoError(t, err)
}

func TestCancelOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/abc123", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	err := c.CancelOrder(context.Background(), "abc123")
	assert.ErrorIs(t, err, tradeerr.NotFound)
}

func TestQueryHistoryRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := gateway.NewRESTClient(srv.URL, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.QueryHistory(ctx, types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"}, types.Interval1d, time.Now(), time.Now())
	assert.Error(t, err)
}
