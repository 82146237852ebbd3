// Package ledger is the in-memory active-order and stop-order ledger (C2):
// it owns every Order and StopOrder record for the lifetime of an engine
// instance and exposes the lifecycle operations spec'd in §4.1. Terminal
// records are never evicted so they remain queryable for the run's
// duration.
package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// Ledger is the order/stop table for a single engine instance. Zero value
// is not usable; construct with New.
type Ledger struct {
	mu sync.Mutex
	ids idGenerator

	orders    map[string]*types.Order
	orderSeq  []string // insertion order, for deterministic active_orders

	stops    map[string]*types.StopOrder
	stopSeq  []string
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		orders: make(map[string]*types.Order),
		stops:  make(map[string]*types.StopOrder),
	}
}

// InsertOrder validates and stores a new order, assigning it a fresh id.
// The caller is responsible for setting o.CreateTime/UpdateTime (the
// ledger never reads the wall clock, so backtest runs stay deterministic).
func (l *Ledger) InsertOrder(o types.Order) (string, error) {
	if o.Volume.LessThanOrEqual(decimal.Zero) {
		return "", tradeerr.InvalidOrder
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	o.OrderID = l.ids.next()
	o.Traded = decimal.Zero
	if o.Status == "" {
		o.Status = types.NotTraded
	}
	stored := o
	l.orders[o.OrderID] = &stored
	l.orderSeq = append(l.orderSeq, o.OrderID)
	return o.OrderID, nil
}

// UpdateOrderStatus moves an order to a new status. Any non-terminal
// status may move to Cancelled or Rejected; otherwise progression must be
// monotonic forward (NotTraded -> PartTraded -> AllTraded).
func (l *Ledger) UpdateOrderStatus(id string, status types.OrderStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[id]
	if !ok {
		return tradeerr.NotFound
	}
	if o.Status.IsTerminal() {
		return tradeerr.AlreadyTerminal
	}
	if !allowedTransition(o.Status, status) {
		return tradeerr.IllegalStateTransition
	}
	o.Status = status
	return nil
}

func allowedTransition(from, to types.OrderStatus) bool {
	if to == types.Cancelled || to == types.Rejected {
		return true
	}
	rank := map[types.OrderStatus]int{
		types.Submitting: 0,
		types.NotTraded:  1,
		types.PartTraded: 2,
		types.AllTraded:  3,
	}
	fr, fok := rank[from]
	tr, tok := rank[to]
	return fok && tok && tr >= fr
}

// ApplyFill records a fill against an order's remaining volume and returns
// the resulting Trade. at is the fill timestamp (the bar's close time in
// backtest mode), never the wall clock.
func (l *Ledger) ApplyFill(id string, fillPrice, fillVolume decimal.Decimal, at time.Time) (types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[id]
	if !ok {
		return types.Trade{}, tradeerr.NotFound
	}
	if o.Status.IsTerminal() {
		return types.Trade{}, tradeerr.AlreadyTerminal
	}
	if fillVolume.GreaterThan(o.Remaining()) {
		return types.Trade{}, tradeerr.OverFill
	}

	o.Traded = o.Traded.Add(fillVolume)
	o.UpdateTime = at
	if o.Traded.Equal(o.Volume) {
		o.Status = types.AllTraded
	} else {
		o.Status = types.PartTraded
	}

	trade := types.Trade{
		TradeID:   l.ids.next(),
		OrderID:   o.OrderID,
		Symbol:    o.Symbol,
		Direction: o.Direction,
		Offset:    o.Offset,
		Price:     fillPrice,
		Volume:    fillVolume,
		Datetime:  at,
	}
	return trade, nil
}

// Cancel terminates an order. Returns tradeerr.NotFound or
// tradeerr.AlreadyTerminal as appropriate; nil on success.
func (l *Ledger) Cancel(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[id]
	if !ok {
		return tradeerr.NotFound
	}
	if o.Status.IsTerminal() {
		return tradeerr.AlreadyTerminal
	}
	o.Status = types.Cancelled
	return nil
}

// Get returns a copy of the order for id, if present.
func (l *Ledger) Get(id string) (types.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.orders[id]
	if !ok {
		return types.Order{}, false
	}
	return *o, true
}

// ActiveOrders returns non-terminal orders for a symbol, in insertion
// order.
func (l *Ledger) ActiveOrders(sym types.Symbol) []types.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []types.Order
	for _, id := range l.orderSeq {
		o := l.orders[id]
		if o.Symbol == sym && !o.Status.IsTerminal() {
			out = append(out, *o)
		}
	}
	return out
}

// AllOrders returns every order ever inserted, in insertion order. Useful
// for invariant checks and snapshotting.
func (l *Ledger) AllOrders() []types.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Order, 0, len(l.orderSeq))
	for _, id := range l.orderSeq {
		out = append(out, *l.orders[id])
	}
	return out
}
