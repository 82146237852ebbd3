package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/ledger"
	"github.com/nyxtrade/tradecore/matching"
	"github.com/nyxtrade/tradecore/notify"
	"github.com/nyxtrade/tradecore/position"
	"github.com/nyxtrade/tradecore/router"
	"github.com/nyxtrade/tradecore/strategy"
	"github.com/nyxtrade/tradecore/types"
)

// Engine drives one backtest run: it owns no state of its own beyond the
// validated Config, delegating to the ledger, router, position tracker,
// and strategy host it is constructed with (the same objects an engine
// wires for live trading, per spec §4.6 — the backtest driver is just
// another event source feeding the same router/host pipeline).
type Engine struct {
	cfg Config

	ledger    *ledger.Ledger
	positions *position.Tracker
	router    *router.Router
	host      *strategy.Host
	sink      notify.Sink
}

// New returns an Engine for cfg, wired to the given ledger, position
// tracker, router, and strategy host. cfg must already be valid (call
// Config.Validate first).
func New(cfg Config, l *ledger.Ledger, p *position.Tracker, r *router.Router, h *strategy.Host, sink notify.Sink) *Engine {
	return &Engine{
		cfg:       cfg,
		ledger:    l,
		positions: p,
		router:    r,
		host:      h,
		sink:      sink,
	}
}

// Run drives bars (which must be pre-sorted ascending by Datetime and
// restricted to cfg's symbol) through the matching core and strategy
// host, folding fills into one types.DailyResult per calendar date. The
// dispatch order per bar is: trigger stops, match orders, route the
// resulting order/trade events to their owning strategy (which also
// refreshes the position tracker), then deliver on_bar, per spec §4.3.
func (e *Engine) Run(bars []types.Bar) ([]types.DailyResult, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}

	var results []types.DailyResult
	var day *dayAccumulator
	lastClose := bars[0].OpenPrice

	for _, bar := range bars {
		barDate := calendarDate(bar.Datetime)

		if day == nil {
			day = newDayAccumulator(barDate, decimal.Zero, lastClose)
		} else if !day.date.Equal(barDate) {
			results = append(results, day.finalize(lastClose, e.cfg))
			day = newDayAccumulator(barDate, day.pos, lastClose)
		}

		triggered := matching.TriggerStops(e.ledger, bar)
		for _, o := range triggered {
			e.router.RegisterOrder(o.OrderID, o.StrategyID)
			e.router.RouteOrder(o)
		}

		fills := matching.MatchOrders(e.ledger, bar)
		for _, f := range fills {
			e.router.RouteOrder(f.Order)
			e.applyTrade(f.Trade, f.Order.StrategyID)
			e.router.RouteTrade(f.Trade)
			day.addTrade(f.Trade)
		}

		e.host.SetClock(bar.Datetime)
		e.router.RouteBar(bar)

		lastClose = bar.ClosePrice
	}

	results = append(results, day.finalize(lastClose, e.cfg))
	return results, nil
}

// applyTrade folds a fill into the position tracker using the owning
// strategy's Kind to pick offset semantics. Futures is the default when
// the owning strategy cannot be resolved (should not happen once orders
// have been placed through API.place, which always registers with the
// router first).
func (e *Engine) applyTrade(tr types.Trade, strategyID string) {
	kind := position.Futures
	if k, ok := e.host.KindOf(strategyID); ok && k == strategy.KindSpot {
		kind = position.Spot
	}
	if err := e.positions.ApplyTrade(tr, kind); err != nil && e.sink != nil {
		e.sink.Warn("backtest: apply_trade failed for " + tr.TradeID + ": " + err.Error())
	}
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
