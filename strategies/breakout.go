// Package strategies holds reference Strategy implementations exercising
// the full strategy.API surface, generalized from the teacher's
// strategy/breakout_15m.go (a rolling high/low channel breakout) from its
// Polymarket binary-outcome framing to ordinary long/short entries.
package strategies

import (
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/indicators"
	"github.com/nyxtrade/tradecore/strategy"
	"github.com/nyxtrade/tradecore/types"
)

// Breakout covers any short and buys when the close breaks above the
// rolling window high, and sells any long and goes short when it breaks
// below the rolling window low. The window is 20 bars and the order size
// is 1; neither is read from the strategy's parameter map.
type Breakout struct {
	strategy.BaseStrategy

	symbol types.Symbol
	api    *strategy.API

	window int
	size   decimal.Decimal

	highs []decimal.Decimal
	lows  []decimal.Decimal
	atr   *indicators.ATRTracker
}

// NewBreakout returns a Breakout strategy trading sym.
func NewBreakout(sym types.Symbol) *Breakout {
	return &Breakout{symbol: sym}
}

func (b *Breakout) Kind() strategy.Kind { return strategy.KindFutures }

func (b *Breakout) OnInit(api *strategy.API) error {
	b.api = api
	b.window = 20
	b.size = decimal.NewFromInt(1)
	b.atr = indicators.NewATRTracker(b.window)

	bars, err := api.LoadBars(b.symbol, b.window, types.Interval1d)
	if err != nil {
		return err
	}
	for _, bar := range bars {
		b.OnBar(bar)
	}
	return nil
}

func (b *Breakout) OnStart() error {
	b.api.WriteLog("breakout started")
	return nil
}

func (b *Breakout) OnBar(bar types.Bar) {
	b.atr.Update(bar)

	// The channel spans the window of bars before this one, so this bar's
	// close can break out of it.
	ready := len(b.highs) >= b.window
	var channelHigh, channelLow decimal.Decimal
	if ready {
		channelHigh = b.highs[0]
		channelLow = b.lows[0]
		for _, h := range b.highs {
			if h.GreaterThan(channelHigh) {
				channelHigh = h
			}
		}
		for _, l := range b.lows {
			if l.LessThan(channelLow) {
				channelLow = l
			}
		}
	}

	b.highs = append(b.highs, bar.HighPrice)
	b.lows = append(b.lows, bar.LowPrice)
	if len(b.highs) > b.window {
		b.highs = b.highs[1:]
		b.lows = b.lows[1:]
	}
	if !ready {
		return
	}

	pos := b.api.GetPos(b.symbol)

	if bar.ClosePrice.GreaterThan(channelHigh) && pos.LessThanOrEqual(decimal.Zero) {
		if pos.LessThan(decimal.Zero) {
			b.api.Cover(b.symbol, bar.ClosePrice, pos.Abs(), false)
		}
		b.api.Buy(b.symbol, bar.ClosePrice, b.size, false)
	} else if bar.ClosePrice.LessThan(channelLow) && pos.GreaterThanOrEqual(decimal.Zero) {
		if pos.GreaterThan(decimal.Zero) {
			b.api.Sell(b.symbol, bar.ClosePrice, pos, false)
		}
		b.api.Short(b.symbol, bar.ClosePrice, b.size, false)
	}
}

func (b *Breakout) OnTrade(t types.Trade) {
	b.api.WriteLog("filled " + string(t.Direction) + " " + t.Volume.String() + " @ " + t.Price.String())
}
