// Package storage is the optional snapshot store (C11): a run's trades
// and daily results may be persisted for later inspection via
// `tradecore report`, but nothing in the core engine requires it (spec §6
// "Persisted state: None required by the core").
package storage

import (
	"context"

	"github.com/nyxtrade/tradecore/types"
)

// Store is the persistence contract a backtest run can optionally use.
// Both SQLStore and GormStore satisfy it.
type Store interface {
	SaveRun(ctx context.Context, runID string, cfg RunConfig) error
	SaveTrades(ctx context.Context, runID string, trades []types.Trade) error
	SaveDailyResults(ctx context.Context, runID string, results []types.DailyResult) error
	LoadDailyResults(ctx context.Context, runID string) ([]types.DailyResult, error)
	Close() error
}

// RunConfig is the subset of backtest.Config worth recording against a
// run id; storage does not import package backtest to avoid a dependency
// cycle with its CLI caller, so the driver translates.
type RunConfig struct {
	VtSymbol string
	Interval string
	Start    string
	End      string
	Capital  string
}
