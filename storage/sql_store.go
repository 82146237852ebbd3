package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/nyxtrade/tradecore/types"
)

// SQLStore persists runs, trades, and daily results to Postgres via
// database/sql, mirroring the teacher's hand-rolled schema+migrate
// pattern but for backtest rows instead of prediction-market ones.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens connStr and creates the schema if absent.
func NewSQLStore(connStr string) (*SQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	s := &SQLStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		vt_symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		capital TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS trades (
		trade_id TEXT NOT NULL,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		order_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		offset_ TEXT NOT NULL,
		price NUMERIC(24,8) NOT NULL,
		volume NUMERIC(24,8) NOT NULL,
		traded_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, trade_id)
	);

	CREATE TABLE IF NOT EXISTS daily_results (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		date DATE NOT NULL,
		close_price NUMERIC(24,8) NOT NULL,
		prev_close NUMERIC(24,8) NOT NULL,
		trade_count INT NOT NULL,
		start_position NUMERIC(24,8) NOT NULL,
		end_position NUMERIC(24,8) NOT NULL,
		turnover NUMERIC(24,8) NOT NULL,
		commission NUMERIC(24,8) NOT NULL,
		slippage NUMERIC(24,8) NOT NULL,
		trading_pnl NUMERIC(24,8) NOT NULL,
		holding_pnl NUMERIC(24,8) NOT NULL,
		total_pnl NUMERIC(24,8) NOT NULL,
		net_pnl NUMERIC(24,8) NOT NULL,
		PRIMARY KEY (run_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
	CREATE INDEX IF NOT EXISTS idx_daily_results_run ON daily_results(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLStore) SaveRun(ctx context.Context, runID string, cfg RunConfig) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, vt_symbol, interval, start_time, end_time, capital)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_id) DO NOTHING`,
		runID, cfg.VtSymbol, cfg.Interval, cfg.Start, cfg.End, cfg.Capital)
	return err
}

func (s *SQLStore) SaveTrades(ctx context.Context, runID string, trades []types.Trade) error {
	for _, t := range trades {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO trades (trade_id, run_id, order_id, symbol, direction, offset_, price, volume, traded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT DO NOTHING`,
			t.TradeID, runID, t.OrderID, t.Symbol.String(), string(t.Direction), string(t.Offset),
			t.Price.String(), t.Volume.String(), t.Datetime)
		if err != nil {
			return fmt.Errorf("save trade %s: %w", t.TradeID, err)
		}
	}
	return nil
}

func (s *SQLStore) SaveDailyResults(ctx context.Context, runID string, results []types.DailyResult) error {
	for _, r := range results {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO daily_results (run_id, date, close_price, prev_close, trade_count,
				start_position, end_position, turnover, commission, slippage,
				trading_pnl, holding_pnl, total_pnl, net_pnl)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 ON CONFLICT (run_id, date) DO NOTHING`,
			runID, r.Date, r.ClosePrice.String(), r.PrevClose.String(), r.TradeCount,
			r.StartPosition.String(), r.EndPosition.String(), r.Turnover.String(), r.Commission.String(),
			r.Slippage.String(), r.TradingPnL.String(), r.HoldingPnL.String(), r.TotalPnL.String(), r.NetPnL.String())
		if err != nil {
			return fmt.Errorf("save daily result %s: %w", r.Date, err)
		}
	}
	return nil
}

func (s *SQLStore) LoadDailyResults(ctx context.Context, runID string) ([]types.DailyResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, close_price, prev_close, trade_count, start_position, end_position,
			turnover, commission, slippage, trading_pnl, holding_pnl, total_pnl, net_pnl
		 FROM daily_results WHERE run_id = $1 ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.DailyResult
	for rows.Next() {
		var r types.DailyResult
		var closePrice, prevClose, startPos, endPos, turnover, commission, slippage, tradingPnL, holdingPnL, totalPnL, netPnL string
		if err := rows.Scan(&r.Date, &closePrice, &prevClose, &r.TradeCount, &startPos, &endPos,
			&turnover, &commission, &slippage, &tradingPnL, &holdingPnL, &totalPnL, &netPnL); err != nil {
			return nil, err
		}
		if err := scanDecimals(&r, closePrice, prevClose, startPos, endPos, turnover, commission, slippage, tradingPnL, holdingPnL, totalPnL, netPnL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
