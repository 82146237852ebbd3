// Package position is the position tracker (C3): the sole owner of
// per-symbol Position records and the trade-dedup set. apply_trade is its
// only mutation entry point.
package position

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// StrategyKind selects offset semantics: Spot strategies may only hold a
// non-negative net position, Futures strategies admit a signed net
// position via all four direction x offset combinations.
type StrategyKind string

const (
	Spot    StrategyKind = "SPOT"
	Futures StrategyKind = "FUTURES"
)

// Tracker maintains Position records and idempotent trade application.
type Tracker struct {
	mu sync.Mutex

	positions map[types.Symbol]*types.Position
	seen      map[types.Symbol]map[string]struct{} // trade_id dedup, per symbol
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{
		positions: make(map[types.Symbol]*types.Position),
		seen:      make(map[types.Symbol]map[string]struct{}),
	}
}

// GetPosition returns a copy of the position for sym, or the zero position
// if sym has never traded.
func (t *Tracker) GetPosition(sym types.Symbol) types.Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.positions[sym]; ok {
		return *p
	}
	return types.ZeroPosition(sym)
}

// ApplyTrade is the sole mutation entry point. A repeated trade_id for the
// same symbol is a no-op that returns tradeerr.Duplicate. A nil return
// means the trade was applied; tradeerr.ShortNotAllowed means it was
// rejected and the position is unchanged, though its trade_id is still
// recorded as seen.
func (t *Tracker) ApplyTrade(tr types.Trade, kind StrategyKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := t.seen[tr.Symbol]
	if seen == nil {
		seen = make(map[string]struct{})
		t.seen[tr.Symbol] = seen
	}
	if _, dup := seen[tr.TradeID]; dup {
		return tradeerr.Duplicate
	}
	seen[tr.TradeID] = struct{}{}

	p, ok := t.positions[tr.Symbol]
	if !ok {
		z := types.ZeroPosition(tr.Symbol)
		p = &z
		t.positions[tr.Symbol] = p
	}

	delta, closing, err := signedDelta(kind, p.Volume, tr.Direction, tr.Offset, tr.Volume)
	if err != nil {
		return err
	}

	if closing.GreaterThan(decimal.Zero) {
		// Decreasing |position|: realize PnL on the closed portion, avg
		// entry price is unchanged unless the trade flips the position.
		sign := decimal.NewFromInt(1)
		if p.Volume.LessThan(decimal.Zero) {
			sign = decimal.NewFromInt(-1)
		}
		realized := tr.Price.Sub(p.AvgPrice).Mul(closing).Mul(sign)
		p.RealizedPnL = p.RealizedPnL.Add(realized)
		if delta.Abs().GreaterThan(closing) {
			// Flipped through zero: the remainder opens at the trade price.
			p.AvgPrice = tr.Price
		}
	} else if delta.Abs().GreaterThan(decimal.Zero) {
		// Increasing |position|: weighted-mean average entry price.
		increase := delta.Abs()
		oldAbs := p.Volume.Abs()
		newAbs := oldAbs.Add(increase)
		if newAbs.GreaterThan(decimal.Zero) {
			p.AvgPrice = p.AvgPrice.Mul(oldAbs).Add(tr.Price.Mul(increase)).Div(newAbs)
		}
	}

	p.Volume = p.Volume.Add(delta)
	return nil
}

// signedDelta computes the signed change to net volume for a trade, and
// how much of that change (if any) is a decrease of |position| (a
// "closing" amount, used for realized PnL). Spot strategies are further
// checked against going net negative.
func signedDelta(kind StrategyKind, currentVolume decimal.Decimal, dir types.Direction, off types.Offset, vol decimal.Decimal) (delta, closing decimal.Decimal, err error) {
	var sign decimal.Decimal
	switch {
	case dir == types.Long && (off == types.OffsetOpen || off == types.OffsetNone):
		sign = decimal.NewFromInt(1)
	case dir == types.Short && off == types.OffsetClose:
		sign = decimal.NewFromInt(1)
	case dir == types.Short && off == types.OffsetCloseToday:
		sign = decimal.NewFromInt(1)
	case dir == types.Short && off == types.OffsetCloseYesterday:
		sign = decimal.NewFromInt(1)
	case dir == types.Short && (off == types.OffsetOpen):
		sign = decimal.NewFromInt(-1)
	case dir == types.Long && off == types.OffsetClose:
		sign = decimal.NewFromInt(-1)
	case dir == types.Long && off == types.OffsetCloseToday:
		sign = decimal.NewFromInt(-1)
	case dir == types.Long && off == types.OffsetCloseYesterday:
		sign = decimal.NewFromInt(-1)
	default:
		sign = decimal.NewFromInt(1)
	}

	delta = sign.Mul(vol)

	if kind == Spot && dir == types.Short && off == types.OffsetOpen {
		return decimal.Zero, decimal.Zero, tradeerr.ShortNotAllowed
	}

	newVolume := currentVolume.Add(delta)
	if kind == Spot && newVolume.LessThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, tradeerr.ShortNotAllowed
	}

	// A "closing" amount is how much |position| shrinks: when delta moves
	// the volume toward zero (opposite sign of the current position).
	if currentVolume.IsZero() {
		return delta, decimal.Zero, nil
	}
	sameSign := (currentVolume.GreaterThan(decimal.Zero) && delta.GreaterThan(decimal.Zero)) ||
		(currentVolume.LessThan(decimal.Zero) && delta.LessThan(decimal.Zero))
	if sameSign {
		return delta, decimal.Zero, nil
	}
	// Opposite sign: closing amount is min(|delta|, |currentVolume|).
	absDelta := delta.Abs()
	absCurrent := currentVolume.Abs()
	closing = decimal.Min(absDelta, absCurrent)
	return delta, closing, nil
}
