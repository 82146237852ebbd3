// Package router is the event router (C6): it owns the symbol->strategy
// and order_id->strategy indices and dispatches tick/bar/order/trade
// arrivals to the owning strategy. Dispatch is single-threaded
// cooperative — one event is fully processed, including every resulting
// callback, before the next is handled.
package router

import (
	"sync"

	"github.com/nyxtrade/tradecore/notify"
	"github.com/nyxtrade/tradecore/types"
)

// Dispatcher is the strategy host's callback surface. Router holds a
// non-owning reference to it (per spec §9's "cyclic references" note,
// the router never holds *Strategy pointers, only stable string names
// looked up through the host).
type Dispatcher interface {
	DispatchTick(name string, tick types.Tick)
	DispatchBar(name string, bar types.Bar)
	DispatchBars(names []string, bars map[types.Symbol]types.Bar)
	DispatchOrder(name string, o types.Order)
	DispatchTrade(name string, t types.Trade)
}

// Router fans events out to subscribed strategies by symbol, and routes
// order/trade events to the single owning strategy.
type Router struct {
	mu sync.RWMutex

	dispatcher Dispatcher
	sink       notify.Sink

	// symbol -> strategy names, in subscription order.
	bySymbol map[types.Symbol][]string
	// order_id -> owning strategy name, populated at placement time.
	byOrder map[string]string

	cancelled map[string]bool
}

// New returns a Router that dispatches through d, logging dropped
// order/trade events (no registered owner) to sink at Warn level per
// spec §9's injected-logging-sink note.
func New(d Dispatcher, sink notify.Sink) *Router {
	return &Router{
		dispatcher: d,
		sink:       sink,
		bySymbol:   make(map[types.Symbol][]string),
		byOrder:    make(map[string]string),
		cancelled:  make(map[string]bool),
	}
}

// Subscribe registers name for tick/bar fan-out on sym. Registering the
// same (sym, name) pair twice is a no-op.
func (r *Router) Subscribe(sym types.Symbol, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.bySymbol[sym] {
		if n == name {
			return
		}
	}
	r.bySymbol[sym] = append(r.bySymbol[sym], name)
}

// Unsubscribe removes name from sym's fan-out list.
func (r *Router) Unsubscribe(sym types.Symbol, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := r.bySymbol[sym]
	for i, n := range names {
		if n == name {
			r.bySymbol[sym] = append(names[:i], names[i+1:]...)
			return
		}
	}
}

// RegisterOrder records that order belongs to the strategy named name, so
// future order/trade events for it route back correctly. Called at order
// placement time.
func (r *Router) RegisterOrder(orderID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[orderID] = name
}

// CancelStrategy marks name as cancelled: subsequent dispatches to it are
// skipped, but any dispatch already in flight completes (cooperative
// single-threaded dispatch makes this a plain flag check, no preemption
// needed).
func (r *Router) CancelStrategy(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[name] = true
}

func (r *Router) isCancelled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancelled[name]
}

// RouteTick delivers tick to every strategy subscribed to its symbol, in
// subscription order.
func (r *Router) RouteTick(tick types.Tick) {
	r.mu.RLock()
	names := append([]string(nil), r.bySymbol[tick.Symbol]...)
	r.mu.RUnlock()

	for _, name := range names {
		if r.isCancelled(name) {
			continue
		}
		r.dispatcher.DispatchTick(name, tick)
	}
}

// RouteBar delivers bar to every strategy subscribed to its symbol, in
// subscription order.
func (r *Router) RouteBar(bar types.Bar) {
	r.mu.RLock()
	names := append([]string(nil), r.bySymbol[bar.Symbol]...)
	r.mu.RUnlock()

	for _, name := range names {
		if r.isCancelled(name) {
			continue
		}
		r.dispatcher.DispatchBar(name, bar)
	}
}

// RouteBars delivers a multi-symbol batch to every strategy subscribed to
// at least one of the included symbols, as a single on_bars callback.
func (r *Router) RouteBars(bars map[types.Symbol]types.Bar) {
	r.mu.RLock()
	seen := make(map[string]bool)
	var names []string
	for sym := range bars {
		for _, n := range r.bySymbol[sym] {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	r.mu.RUnlock()

	for _, name := range names {
		if r.isCancelled(name) {
			continue
		}
		r.dispatcher.DispatchBars([]string{name}, bars)
	}
}

// RouteOrder delivers an order update to its owning strategy only. If no
// owner is registered, the event is dropped with a warning — it is never
// broadcast, per spec §4.5.
func (r *Router) RouteOrder(o types.Order) {
	r.mu.RLock()
	name, ok := r.byOrder[o.OrderID]
	r.mu.RUnlock()

	if !ok {
		r.sink.Warn("router: order event has no owning strategy, dropped: order_id=" + o.OrderID)
		return
	}
	if r.isCancelled(name) {
		return
	}
	r.dispatcher.DispatchOrder(name, o)
}

// RouteTrade delivers a trade to its owning strategy only, same rules as
// RouteOrder.
func (r *Router) RouteTrade(t types.Trade) {
	r.mu.RLock()
	name, ok := r.byOrder[t.OrderID]
	r.mu.RUnlock()

	if !ok {
		r.sink.Warn("router: trade event has no owning strategy, dropped: order_id=" + t.OrderID + " trade_id=" + t.TradeID)
		return
	}
	if r.isCancelled(name) {
		return
	}
	r.dispatcher.DispatchTrade(name, t)
}
