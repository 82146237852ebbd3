package strategy

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// API is the capability set offered to strategy code (C9): placing and
// cancelling orders and stops, querying position, logging, and requesting
// historical bars. A strategy receives its own API instance at OnInit and
// must not share it with another strategy.
type API struct {
	host *Host
	inst *Instance

	mu      sync.Mutex
	clock   time.Time
	history LoadBarsFunc
}

// LoadBarsFunc fetches historical bars for initialization, delivered as
// on_bar calls before on_start (spec §4.8 load_bars).
type LoadBarsFunc func(sym types.Symbol, days int, interval types.Interval) ([]types.Bar, error)

func newAPI(h *Host, inst *Instance) *API {
	return &API{host: h, inst: inst}
}

// SetClock is called by the backtest driver before each bar's callback
// pass, so orders placed inside OnBar carry the bar's own timestamp
// rather than the wall clock (keeping backtest runs deterministic).
func (a *API) SetClock(t time.Time) {
	a.mu.Lock()
	a.clock = t
	a.mu.Unlock()
}

// SetHistoryLoader wires the function load_bars delegates to; the
// backtest driver or a live gateway adapter supplies it.
func (a *API) SetHistoryLoader(f LoadBarsFunc) {
	a.history = f
}

func (a *API) now() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clock.IsZero() {
		return time.Now()
	}
	return a.clock
}

func (a *API) place(sym types.Symbol, dir types.Direction, off types.Offset, price, volume decimal.Decimal) (string, error) {
	if price.LessThanOrEqual(decimal.Zero) || volume.LessThanOrEqual(decimal.Zero) {
		return "", tradeerr.InvalidOrder
	}
	now := a.now()
	id, err := a.host.ledger.InsertOrder(types.Order{
		Symbol:     sym,
		Direction:  dir,
		Offset:     off,
		Price:      price,
		Volume:     volume,
		StrategyID: a.inst.Name,
		CreateTime: now,
		UpdateTime: now,
	})
	if err != nil {
		return "", err
	}
	if a.host.router != nil {
		a.host.router.RegisterOrder(id, a.inst.Name)
	}
	return id, nil
}

// Buy submits a Long/Open order. lock is ignored here and by Sell, Short
// and Cover: no offset volume is reserved for any kind.
func (a *API) Buy(sym types.Symbol, price, volume decimal.Decimal, lock bool) (string, error) {
	return a.place(sym, types.Long, types.OffsetOpen, price, volume)
}

// Sell submits a Long/Close order.
func (a *API) Sell(sym types.Symbol, price, volume decimal.Decimal, lock bool) (string, error) {
	return a.place(sym, types.Long, types.OffsetClose, price, volume)
}

// Short submits a Short/Open order. KindSpot strategies get
// tradeerr.ShortNotAllowed; every other kind may short.
func (a *API) Short(sym types.Symbol, price, volume decimal.Decimal, lock bool) (string, error) {
	if a.inst.Kind == KindSpot {
		return "", tradeerr.ShortNotAllowed
	}
	return a.place(sym, types.Short, types.OffsetOpen, price, volume)
}

// Cover submits a Short/Close order. Refused for KindSpot, like Short.
func (a *API) Cover(sym types.Symbol, price, volume decimal.Decimal, lock bool) (string, error) {
	if a.inst.Kind == KindSpot {
		return "", tradeerr.ShortNotAllowed
	}
	return a.place(sym, types.Short, types.OffsetClose, price, volume)
}

// SendStopOrder submits a price-triggered conditional order.
func (a *API) SendStopOrder(sym types.Symbol, dir types.Direction, price, volume decimal.Decimal) (string, error) {
	if price.LessThanOrEqual(decimal.Zero) || volume.LessThanOrEqual(decimal.Zero) {
		return "", tradeerr.InvalidOrder
	}
	now := a.now()
	return a.host.ledger.InsertStop(types.StopOrder{
		Symbol:       sym,
		Direction:    dir,
		Offset:       types.OffsetOpen,
		TriggerPrice: price,
		Volume:       volume,
		StrategyID:   a.inst.Name,
		CreateTime:   now,
		UpdateTime:   now,
	})
}

// CancelOrder cancels a single working order.
func (a *API) CancelOrder(orderID string) error {
	return a.host.ledger.Cancel(orderID)
}

// CancelStop cancels a single waiting stop.
func (a *API) CancelStop(stopID string) error {
	return a.host.ledger.CancelStop(stopID)
}

// CancelAll cancels every live order and stop belonging to this strategy.
func (a *API) CancelAll() {
	a.host.ledger.CancelAllForStrategy(a.inst.Name)
}

// GetPos returns the signed net position for sym held by the host's
// position tracker, which is shared by every strategy on the host.
func (a *API) GetPos(sym types.Symbol) decimal.Decimal {
	if a.host.positions == nil {
		return decimal.Zero
	}
	return a.host.positions.GetPosition(sym).Volume
}

// WriteLog appends msg to the engine's log sink.
func (a *API) WriteLog(msg string) {
	if a.host.sink != nil {
		a.host.sink.Info("[" + a.inst.Name + "] " + msg)
	}
}

// LoadBars requests historical data for initialization. Per spec §9(c),
// this is only meaningful during the NotInited -> Inited transition; in
// any other state (Inited, Trading or Stopped) it returns
// tradeerr.IllegalStateTransition instead of silently doing nothing.
func (a *API) LoadBars(sym types.Symbol, days int, interval types.Interval) ([]types.Bar, error) {
	if a.inst.State != NotInited {
		return nil, tradeerr.IllegalStateTransition
	}
	if a.history == nil {
		return nil, nil
	}
	return a.history(sym, days, interval)
}
