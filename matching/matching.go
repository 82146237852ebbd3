// Package matching is the deterministic bar-driven order-matching core
// (C4): stop-order triggering and limit-order fill resolution, called once
// per new bar by the backtest driver in the exact order spec'd in §4.3.
package matching

import (
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/ledger"
	"github.com/nyxtrade/tradecore/types"
)

// Fill is one resolved limit-order fill: the now-AllTraded order and the
// resulting trade (pre-slippage price, per spec §4.3). Commission and
// slippage are cost-model line items computed by the caller at
// DailyResult-folding time (they need the contract size multiplier, which
// is an account/backtest-level config, not a matching-core concern).
type Fill struct {
	Order types.Order
	Trade types.Trade
}

// TriggerStops runs the stop-order triggering pass for bar: any waiting
// stop on bar.Symbol whose condition crosses is triggered and its
// resulting limit order is inserted into l (participating in the same
// bar's matching pass per spec §4.3's edge case).
func TriggerStops(l *ledger.Ledger, bar types.Bar) []types.Order {
	var triggered []types.Order
	for _, s := range l.ActiveStops(bar.Symbol) {
		crossed := false
		switch s.Direction {
		case types.Long:
			crossed = bar.HighPrice.GreaterThanOrEqual(s.TriggerPrice)
		case types.Short:
			crossed = bar.LowPrice.LessThanOrEqual(s.TriggerPrice)
		}
		if !crossed {
			continue
		}
		o, err := l.TriggerStop(s.StopID, s.TriggerPrice, bar.Datetime)
		if err != nil {
			continue
		}
		triggered = append(triggered, o)
	}
	return triggered
}

// MatchOrders runs the limit-order matching pass for bar: every active
// order on bar.Symbol is checked in insertion order and, if fillable,
// fills its full remaining volume in one shot (backtest mode never
// produces partial fills, per spec §9(b)).
func MatchOrders(l *ledger.Ledger, bar types.Bar) []Fill {
	var fills []Fill
	for _, o := range l.ActiveOrders(bar.Symbol) {
		price, ok := fillPrice(o, bar)
		if !ok {
			continue
		}

		remaining := o.Remaining()
		trade, err := l.ApplyFill(o.OrderID, price, remaining, bar.Datetime)
		if err != nil {
			continue
		}
		updated, _ := l.Get(o.OrderID)

		fills = append(fills, Fill{Order: updated, Trade: trade})
	}
	return fills
}

// fillPrice reports the fill price for order against bar, and whether the
// order is fillable at all. Long orders fill when order.Price >= bar.Low,
// at price = min(order.Price, bar.Open); Short orders fill when
// order.Price <= bar.High, at price = max(order.Price, bar.Open).
func fillPrice(o types.Order, bar types.Bar) (decimal.Decimal, bool) {
	switch o.Direction {
	case types.Long:
		if o.Price.GreaterThanOrEqual(bar.LowPrice) {
			return decimal.Min(o.Price, bar.OpenPrice), true
		}
	case types.Short:
		if o.Price.LessThanOrEqual(bar.HighPrice) {
			return decimal.Max(o.Price, bar.OpenPrice), true
		}
	}
	return decimal.Zero, false
}
