package strategy

import (
	"sync"
	"time"

	"github.com/nyxtrade/tradecore/ledger"
	"github.com/nyxtrade/tradecore/notify"
	"github.com/nyxtrade/tradecore/position"
	"github.com/nyxtrade/tradecore/router"
	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// Instance wraps a user Strategy with its host-managed state: lifecycle
// state, parameter/variable maps, and subscribed-symbol set.
type Instance struct {
	Name    string
	Impl    Strategy
	Kind    Kind
	State   State
	Params  Params
	Vars    Params
	Symbols map[types.Symbol]struct{}
	// Positions is a mutable per-symbol position snapshot, refreshed after
	// every trade the strategy owns (spec §4.4).
	Positions map[types.Symbol]types.Position

	api *API
}

// snapshotPosition records pos as the latest known position for sym.
func (inst *Instance) snapshotPosition(sym types.Symbol, pos types.Position) {
	if inst.Positions == nil {
		inst.Positions = make(map[types.Symbol]types.Position)
	}
	inst.Positions[sym] = pos
}

// Host maintains strategies keyed by strategy name (unique per engine)
// and drives their lifecycle transitions per spec §4.4's state graph.
type Host struct {
	mu sync.Mutex

	instances map[string]*Instance
	order     []string // strategy names in insertion order, kept by Add/Remove

	ledger    *ledger.Ledger
	positions *position.Tracker
	router    *router.Router
	sink      notify.Sink
}

// New returns a Host wired to the given ledger, position tracker, and log
// sink. Call SetRouter once the router has been constructed with this
// Host as its Dispatcher (the two are mutually referential, per spec §9's
// note on cyclic references, so wiring happens in two steps).
func New(l *ledger.Ledger, p *position.Tracker, sink notify.Sink) *Host {
	return &Host{
		instances: make(map[string]*Instance),
		ledger:    l,
		positions: p,
		sink:      sink,
	}
}

// SetRouter completes the Host<->Router wiring.
func (h *Host) SetRouter(r *router.Router) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.router = r
}

// Add registers a new strategy in state NotInited.
func (h *Host) Add(name string, impl Strategy, kind Kind, params Params) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.instances[name]; exists {
		return tradeerr.IllegalStateTransition
	}
	if params == nil {
		params = Params{}
	}
	inst := &Instance{
		Name:    name,
		Impl:    impl,
		Kind:    kind,
		State:   NotInited,
		Params:  params,
		Vars:    Params{},
		Symbols: make(map[types.Symbol]struct{}),
	}
	h.instances[name] = inst
	h.order = append(h.order, name)
	return nil
}

// Subscribe adds sym to name's subscription set and registers it with the
// router for tick/bar fan-out.
func (h *Host) Subscribe(name string, sym types.Symbol) error {
	h.mu.Lock()
	inst, ok := h.instances[name]
	r := h.router
	h.mu.Unlock()
	if !ok {
		return tradeerr.NotFound
	}
	inst.Symbols[sym] = struct{}{}
	if r != nil {
		r.Subscribe(sym, name)
	}
	return nil
}

// Init transitions NotInited -> Inited, invoking OnInit with a fresh API
// bound to this strategy.
func (h *Host) Init(name string) error {
	h.mu.Lock()
	inst, ok := h.instances[name]
	h.mu.Unlock()
	if !ok {
		return tradeerr.NotFound
	}
	if inst.State != NotInited {
		return tradeerr.IllegalStateTransition
	}

	api := newAPI(h, inst)
	inst.api = api
	if err := h.safeCall(inst, func() error { return inst.Impl.OnInit(api) }); err != nil {
		return err
	}
	inst.State = Inited
	return nil
}

// Start transitions Inited -> Trading, invoking OnStart.
func (h *Host) Start(name string) error {
	h.mu.Lock()
	inst, ok := h.instances[name]
	h.mu.Unlock()
	if !ok {
		return tradeerr.NotFound
	}
	if inst.State != Inited {
		return tradeerr.IllegalStateTransition
	}
	if err := h.safeCall(inst, inst.Impl.OnStart); err != nil {
		return err
	}
	inst.State = Trading
	return nil
}

// Stop transitions Trading -> Stopped, invoking OnStop and cancelling the
// strategy's live orders and stops in a single synchronous sweep.
func (h *Host) Stop(name string) error {
	h.mu.Lock()
	inst, ok := h.instances[name]
	r := h.router
	h.mu.Unlock()
	if !ok {
		return tradeerr.NotFound
	}
	if inst.State != Trading {
		return tradeerr.IllegalStateTransition
	}
	_ = h.safeCall(inst, inst.Impl.OnStop)
	inst.State = Stopped
	h.ledger.CancelAllForStrategy(name)
	if r != nil {
		r.CancelStrategy(name)
	}
	return nil
}

// Remove deletes a strategy from {NotInited, Stopped}.
func (h *Host) Remove(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[name]
	if !ok {
		return tradeerr.NotFound
	}
	if inst.State != NotInited && inst.State != Stopped {
		return tradeerr.IllegalStateTransition
	}
	delete(h.instances, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the Instance for name.
func (h *Host) Get(name string) (*Instance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[name]
	return inst, ok
}

// SetClock stamps t onto every registered strategy's API, so orders placed
// from inside the upcoming on_bar/on_tick callbacks carry the driving
// bar's timestamp instead of the wall clock. The backtest driver calls
// this once before routing each bar.
func (h *Host) SetClock(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, inst := range h.instances {
		if inst.api != nil {
			inst.api.SetClock(t)
		}
	}
}

// KindOf returns the Kind of strategy name, for callers (the backtest
// driver) that need to pick position offset semantics without reaching
// into Instance directly.
func (h *Host) KindOf(name string) (Kind, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[name]
	if !ok {
		return "", false
	}
	return inst.Kind, true
}

// safeCall recovers a panicking callback and converts it, like a returned
// error, into a StrategyFault: the strategy is logged and stopped, its
// live orders cancelled, and the run continues for other strategies
// (spec §4.4, §7).
func (h *Host) safeCall(inst *Instance, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.fault(inst)
			err = tradeerr.StrategyFault
		}
	}()
	if callErr := fn(); callErr != nil {
		h.fault(inst)
		return tradeerr.StrategyFault
	}
	return nil
}

func (h *Host) fault(inst *Instance) {
	if h.sink != nil {
		h.sink.Error("strategy fault, stopping: " + inst.Name)
	}
	inst.State = Stopped
	h.ledger.CancelAllForStrategy(inst.Name)
	if h.router != nil {
		h.router.CancelStrategy(inst.Name)
	}
}
