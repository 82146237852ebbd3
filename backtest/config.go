// Package backtest is the backtest driver (C7): it iterates a pre-sorted
// historical bar stream through the matching core and strategy host,
// folding fills into per-day results, and hands the series to the
// statistics aggregator once the stream ends.
package backtest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// Mode selects the driver's data source. Only Bar mode is implemented;
// Tick is reserved per spec §4.6.
type Mode string

const (
	ModeBar  Mode = "bar"
	ModeTick Mode = "tick"
)

// Config is the backtest driver's configuration, validated per the table
// in spec §4.6.
type Config struct {
	VtSymbol  string
	Interval  types.Interval
	Start     time.Time // inclusive
	End       time.Time // inclusive
	Rate      decimal.Decimal
	Slippage  decimal.Decimal
	Size      decimal.Decimal
	PriceTick decimal.Decimal
	Capital   decimal.Decimal
	Mode      Mode
}

// Symbol parses VtSymbol into a types.Symbol.
func (c Config) Symbol() (types.Symbol, error) {
	return types.ParseSymbol(c.VtSymbol)
}

// Validate checks every field against the rules in spec §4.6's table.
func (c Config) Validate() error {
	if c.VtSymbol == "" || !strings.Contains(c.VtSymbol, ".") {
		return tradeerr.InvalidConfiguration
	}
	if !c.Interval.Valid() {
		return tradeerr.InvalidConfiguration
	}
	if c.Start.After(c.End) {
		return tradeerr.InvalidConfiguration
	}
	if c.Rate.LessThan(decimal.Zero) {
		return tradeerr.InvalidConfiguration
	}
	if c.Slippage.LessThan(decimal.Zero) {
		return tradeerr.InvalidConfiguration
	}
	if c.Size.LessThanOrEqual(decimal.Zero) {
		return tradeerr.InvalidConfiguration
	}
	if c.PriceTick.LessThanOrEqual(decimal.Zero) {
		return tradeerr.InvalidConfiguration
	}
	if c.Capital.LessThanOrEqual(decimal.Zero) {
		return tradeerr.InvalidConfiguration
	}
	if c.Mode != ModeBar && c.Mode != ModeTick {
		return tradeerr.InvalidConfiguration
	}
	return nil
}
