package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxtrade/tradecore/storage"
	"github.com/nyxtrade/tradecore/types"
)

func newTestStore(t *testing.T) *storage.GormStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.db")
	store, err := storage.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveRunPersistsConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveRun(ctx, "run-1", storage.RunConfig{
		VtSymbol: "BTCUSDT.BINANCE",
		Interval: "1d",
		Start:    "2024-01-01",
		End:      "2024-12-31",
		Capital:  "1000000",
	})
	require.NoError(t, err)
}

func TestSaveAndLoadDailyResultsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, "run-1", storage.RunConfig{VtSymbol: "BTCUSDT.BINANCE"}))

	results := []types.DailyResult{
		{
			Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ClosePrice:    decimal.NewFromInt(100),
			PrevClose:     decimal.NewFromInt(95),
			TradeCount:    2,
			StartPosition: decimal.Zero,
			EndPosition:   decimal.NewFromInt(1),
			Turnover:      decimal.NewFromInt(200),
			Commission:    decimal.NewFromFloat(0.5),
			Slippage:      decimal.Zero,
			TradingPnL:    decimal.NewFromInt(10),
			HoldingPnL:    decimal.Zero,
			TotalPnL:      decimal.NewFromInt(10),
			NetPnL:        decimal.NewFromFloat(9.5),
		},
		{
			Date:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			ClosePrice:    decimal.NewFromInt(105),
			PrevClose:     decimal.NewFromInt(100),
			TradeCount:    0,
			StartPosition: decimal.NewFromInt(1),
			EndPosition:   decimal.NewFromInt(1),
			TradingPnL:    decimal.Zero,
			HoldingPnL:    decimal.NewFromInt(5),
			TotalPnL:      decimal.NewFromInt(5),
			NetPnL:        decimal.NewFromInt(5),
		},
	}

	require.NoError(t, store.SaveDailyResults(ctx, "run-1", results))

	loaded, err := store.LoadDailyResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.True(t, loaded[0].Date.Equal(results[0].Date))
	assert.True(t, loaded[0].NetPnL.Equal(results[0].NetPnL))
	assert.Equal(t, 2, loaded[0].TradeCount)

	assert.True(t, loaded[1].Date.Equal(results[1].Date))
	assert.True(t, loaded[1].HoldingPnL.Equal(decimal.NewFromInt(5)))
}

func TestLoadDailyResultsOrdersByDateAscending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, "run-1", storage.RunConfig{VtSymbol: "BTCUSDT.BINANCE"}))

	later := types.DailyResult{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}
	earlier := types.DailyResult{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.SaveDailyResults(ctx, "run-1", []types.DailyResult{later, earlier}))

	loaded, err := store.LoadDailyResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].Date.Before(loaded[1].Date))
}

func TestLoadDailyResultsEmptyForUnknownRun(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadDailyResults(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveTradesRoundTripsViaRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, "run-1", storage.RunConfig{VtSymbol: "BTCUSDT.BINANCE"}))

	trades := []types.Trade{
		{
			TradeID:   "t1",
			OrderID:   "o1",
			Symbol:    types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"},
			Direction: types.Long,
			Offset:    types.OffsetOpen,
			Price:     decimal.NewFromInt(100),
			Volume:    decimal.NewFromInt(1),
			Datetime:  time.Now(),
		},
	}
	assert.NoError(t, store.SaveTrades(ctx, "run-1", trades))
}

func TestSaveTradesNoopOnEmptySlice(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.SaveTrades(context.Background(), "run-1", nil))
}
