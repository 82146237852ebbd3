package strategy

import "github.com/nyxtrade/tradecore/types"

// DispatchTick, DispatchBar, DispatchBars, DispatchOrder, and DispatchTrade
// implement router.Dispatcher. Each recovers a panicking or erroring
// callback into a strategy fault (spec §4.4, §7) instead of letting it
// propagate and take down the whole engine.

func (h *Host) DispatchTick(name string, tick types.Tick) {
	inst, ok := h.activeInstance(name)
	if !ok {
		return
	}
	_ = h.safeCall(inst, func() error { inst.Impl.OnTick(tick); return nil })
}

func (h *Host) DispatchBar(name string, bar types.Bar) {
	inst, ok := h.activeInstance(name)
	if !ok {
		return
	}
	_ = h.safeCall(inst, func() error { inst.Impl.OnBar(bar); return nil })
}

func (h *Host) DispatchBars(names []string, bars map[types.Symbol]types.Bar) {
	for _, name := range names {
		inst, ok := h.activeInstance(name)
		if !ok {
			continue
		}
		_ = h.safeCall(inst, func() error { inst.Impl.OnBars(bars); return nil })
	}
}

func (h *Host) DispatchOrder(name string, o types.Order) {
	inst, ok := h.activeInstance(name)
	if !ok {
		return
	}
	_ = h.safeCall(inst, func() error { inst.Impl.OnOrder(o); return nil })
}

func (h *Host) DispatchTrade(name string, t types.Trade) {
	inst, ok := h.activeInstance(name)
	if !ok {
		return
	}
	_ = h.safeCall(inst, func() error { inst.Impl.OnTrade(t); return nil })

	if h.positions != nil {
		pos := h.positions.GetPosition(t.Symbol)
		h.mu.Lock()
		if inst.Symbols == nil {
			inst.Symbols = make(map[types.Symbol]struct{})
		}
		inst.snapshotPosition(t.Symbol, pos)
		h.mu.Unlock()
	}
}

// activeInstance returns inst only if it exists and is in state Trading;
// cancelled/stopped strategies must not receive further callbacks.
func (h *Host) activeInstance(name string) (*Instance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[name]
	if !ok || inst.State != Trading {
		return nil, false
	}
	return inst, true
}
