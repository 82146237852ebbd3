package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// dayAccumulator folds every trade for one calendar date into a
// types.DailyResult once the day's closing price becomes known. Per-trade
// PnL cannot be computed at trade time because it depends on the day's
// close, which (for multi-bar days) is only known once the last bar of the
// day has been seen; so trades are buffered raw and folded in finalize.
type dayAccumulator struct {
	date          time.Time
	startPosition decimal.Decimal
	prevClose     decimal.Decimal

	pos    decimal.Decimal
	trades []types.Trade
}

func newDayAccumulator(date time.Time, startPosition, prevClose decimal.Decimal) *dayAccumulator {
	return &dayAccumulator{
		date:          date,
		startPosition: startPosition,
		prevClose:     prevClose,
		pos:           startPosition,
	}
}

// addTrade records tr against the day and updates the running position
// (used as the next day's start_position; it does not depend on close
// price so can be tracked incrementally).
func (d *dayAccumulator) addTrade(tr types.Trade) {
	d.pos = d.pos.Add(positionDelta(tr))
	d.trades = append(d.trades, tr)
}

// positionDelta is the signed change to net position a trade represents,
// mirroring position.signedDelta's sign table: direction alone does not
// say whether a trade opens or closes, offset does (Buy and Cover both
// increase net volume's opening side; Sell and Short-open move the other
// way).
func positionDelta(tr types.Trade) decimal.Decimal {
	switch {
	case tr.Direction == types.Long && (tr.Offset == types.OffsetOpen || tr.Offset == types.OffsetNone):
		return tr.Volume
	case tr.Direction == types.Short && tr.Offset == types.OffsetOpen:
		return tr.Volume.Neg()
	case tr.Direction == types.Long &&
		(tr.Offset == types.OffsetClose || tr.Offset == types.OffsetCloseToday || tr.Offset == types.OffsetCloseYesterday):
		return tr.Volume.Neg()
	case tr.Direction == types.Short &&
		(tr.Offset == types.OffsetClose || tr.Offset == types.OffsetCloseToday || tr.Offset == types.OffsetCloseYesterday):
		return tr.Volume
	default:
		return tr.Volume
	}
}

// finalize folds the day's buffered trades against closePrice, per the
// canonical per-day PnL decomposition in spec §8: trading_pnl credits each
// trade's position-change against the day's close, holding_pnl marks the
// position carried in from the previous day's close to today's close, and
// net_pnl is their sum less commission and slippage.
func (d *dayAccumulator) finalize(closePrice decimal.Decimal, cfg Config) types.DailyResult {
	turnover := decimal.Zero
	commission := decimal.Zero
	slippageTotal := decimal.Zero
	tradingPnL := decimal.Zero

	for _, tr := range d.trades {
		posChange := positionDelta(tr)
		turnoverT := tr.Price.Mul(tr.Volume).Mul(cfg.Size)
		turnover = turnover.Add(turnoverT)
		commission = commission.Add(turnoverT.Mul(cfg.Rate))
		slippageTotal = slippageTotal.Add(tr.Volume.Mul(cfg.Size).Mul(cfg.Slippage).Mul(cfg.PriceTick))
		tradingPnL = tradingPnL.Add(posChange.Mul(closePrice.Sub(tr.Price)).Mul(cfg.Size))
	}

	holdingPnL := closePrice.Sub(d.prevClose).Mul(d.startPosition).Mul(cfg.Size)
	totalPnL := tradingPnL.Add(holdingPnL)
	netPnL := totalPnL.Sub(commission).Sub(slippageTotal)

	return types.DailyResult{
		Date:          d.date,
		ClosePrice:    closePrice,
		PrevClose:     d.prevClose,
		Trades:        d.trades,
		TradeCount:    len(d.trades),
		StartPosition: d.startPosition,
		EndPosition:   d.pos,
		Turnover:      turnover,
		Commission:    commission,
		Slippage:      slippageTotal,
		TradingPnL:    tradingPnL,
		HoldingPnL:    holdingPnL,
		TotalPnL:      totalPnL,
		NetPnL:        netPnL,
	}
}
