package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyxtrade/tradecore/types"
)

// runRow, tradeRow, and dailyResultRow are GormStore's auto-migrated
// models, mirroring the teacher's internal/database auto-migrate pattern.
type runRow struct {
	RunID     string `gorm:"primaryKey"`
	VtSymbol  string
	Interval  string
	StartTime string
	EndTime   string
	Capital   string
	CreatedAt time.Time
}

type tradeRow struct {
	RunID     string `gorm:"primaryKey;index"`
	TradeID   string `gorm:"primaryKey"`
	OrderID   string
	Symbol    string
	Direction string
	Offset    string
	Price     decimal.Decimal `gorm:"type:decimal(24,8)"`
	Volume    decimal.Decimal `gorm:"type:decimal(24,8)"`
	TradedAt  time.Time
}

type dailyResultRow struct {
	RunID         string    `gorm:"primaryKey;index"`
	Date          time.Time `gorm:"primaryKey"`
	ClosePrice    decimal.Decimal `gorm:"type:decimal(24,8)"`
	PrevClose     decimal.Decimal `gorm:"type:decimal(24,8)"`
	TradeCount    int
	StartPosition decimal.Decimal `gorm:"type:decimal(24,8)"`
	EndPosition   decimal.Decimal `gorm:"type:decimal(24,8)"`
	Turnover      decimal.Decimal `gorm:"type:decimal(24,8)"`
	Commission    decimal.Decimal `gorm:"type:decimal(24,8)"`
	Slippage      decimal.Decimal `gorm:"type:decimal(24,8)"`
	TradingPnL    decimal.Decimal `gorm:"type:decimal(24,8)"`
	HoldingPnL    decimal.Decimal `gorm:"type:decimal(24,8)"`
	TotalPnL      decimal.Decimal `gorm:"type:decimal(24,8)"`
	NetPnL        decimal.Decimal `gorm:"type:decimal(24,8)"`
}

// GormStore persists via gorm, defaulting to a local sqlite file for
// laptop-run archives with no server required (the common case for a
// backtest CLI run), or Postgres when given a postgres DSN.
type GormStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if absent) a sqlite file at path.
func NewSQLiteStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return newGormStore(db)
}

// NewPostgresStore opens a gorm connection against a Postgres DSN.
func NewPostgresStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return newGormStore(db)
}

func newGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&runRow{}, &tradeRow{}, &dailyResultRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) SaveRun(ctx context.Context, runID string, cfg RunConfig) error {
	return g.db.WithContext(ctx).Create(&runRow{
		RunID:     runID,
		VtSymbol:  cfg.VtSymbol,
		Interval:  cfg.Interval,
		StartTime: cfg.Start,
		EndTime:   cfg.End,
		Capital:   cfg.Capital,
		CreatedAt: time.Now(),
	}).Error
}

func (g *GormStore) SaveTrades(ctx context.Context, runID string, trades []types.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, tradeRow{
			RunID:     runID,
			TradeID:   t.TradeID,
			OrderID:   t.OrderID,
			Symbol:    t.Symbol.String(),
			Direction: string(t.Direction),
			Offset:    string(t.Offset),
			Price:     t.Price,
			Volume:    t.Volume,
			TradedAt:  t.Datetime,
		})
	}
	return g.db.WithContext(ctx).Create(&rows).Error
}

func (g *GormStore) SaveDailyResults(ctx context.Context, runID string, results []types.DailyResult) error {
	if len(results) == 0 {
		return nil
	}
	rows := make([]dailyResultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, dailyResultRow{
			RunID:         runID,
			Date:          r.Date,
			ClosePrice:    r.ClosePrice,
			PrevClose:     r.PrevClose,
			TradeCount:    r.TradeCount,
			StartPosition: r.StartPosition,
			EndPosition:   r.EndPosition,
			Turnover:      r.Turnover,
			Commission:    r.Commission,
			Slippage:      r.Slippage,
			TradingPnL:    r.TradingPnL,
			HoldingPnL:    r.HoldingPnL,
			TotalPnL:      r.TotalPnL,
			NetPnL:        r.NetPnL,
		})
	}
	return g.db.WithContext(ctx).Create(&rows).Error
}

func (g *GormStore) LoadDailyResults(ctx context.Context, runID string) ([]types.DailyResult, error) {
	var rows []dailyResultRow
	if err := g.db.WithContext(ctx).Where("run_id = ?", runID).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.DailyResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.DailyResult{
			Date:          row.Date,
			ClosePrice:    row.ClosePrice,
			PrevClose:     row.PrevClose,
			TradeCount:    row.TradeCount,
			StartPosition: row.StartPosition,
			EndPosition:   row.EndPosition,
			Turnover:      row.Turnover,
			Commission:    row.Commission,
			Slippage:      row.Slippage,
			TradingPnL:    row.TradingPnL,
			HoldingPnL:    row.HoldingPnL,
			TotalPnL:      row.TotalPnL,
			NetPnL:        row.NetPnL,
		})
	}
	return out, nil
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
