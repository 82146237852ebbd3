package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyResult aggregates one calendar day of a backtest run: the trades
// that occurred, the position carried into and out of the day, and the
// PnL decomposition (trading PnL from closes, holding PnL from marking
// the carried position to the day's close, and the net PnL after costs).
type DailyResult struct {
	Date          time.Time
	ClosePrice    decimal.Decimal
	PrevClose     decimal.Decimal
	Trades        []Trade
	TradeCount    int
	StartPosition decimal.Decimal
	EndPosition   decimal.Decimal
	Turnover      decimal.Decimal
	Commission    decimal.Decimal
	Slippage      decimal.Decimal
	TradingPnL    decimal.Decimal
	HoldingPnL    decimal.Decimal
	TotalPnL      decimal.Decimal
	NetPnL        decimal.Decimal
}
