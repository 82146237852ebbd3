// Package strategy is the strategy host (C5) and the strategy API surface
// (C9): it owns every strategy instance, drives its lifecycle, and is the
// only way strategy code reaches into the engine (place/cancel orders,
// query position, log, request history).
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// Kind is the trading style a strategy is instantiated as. It governs
// offset semantics in the position tracker and which API calls are legal
// (short/cover are refused for Spot).
type Kind string

const (
	KindSpot         Kind = "SPOT"
	KindFutures      Kind = "FUTURES"
	KindGrid         Kind = "GRID"
	KindMarketMaking Kind = "MARKET_MAKING"
	KindArbitrage    Kind = "ARBITRAGE"
)

// State is a strategy's lifecycle state.
type State string

const (
	NotInited State = "NOT_INITED"
	Inited    State = "INITED"
	Trading   State = "TRADING"
	Stopped   State = "STOPPED"
)

// Strategy is the capability set user code implements. Callbacks must be
// non-blocking with respect to the event loop; a callback that panics or
// returns an error is logged and the strategy transitions to Stopped
// (spec §4.4).
type Strategy interface {
	Kind() Kind

	OnInit(api *API) error
	OnStart() error
	OnStop() error

	OnTick(tick types.Tick)
	OnBar(bar types.Bar)
	OnBars(bars map[types.Symbol]types.Bar)
	OnOrder(o types.Order)
	OnTrade(t types.Trade)
}

// BaseStrategy provides no-op implementations of every Strategy method so
// concrete strategies only need to override what they use, the way the
// teacher's sample strategies each implemented only the callbacks they
// needed.
type BaseStrategy struct{}

func (BaseStrategy) OnInit(*API) error                    { return nil }
func (BaseStrategy) OnStart() error                        { return nil }
func (BaseStrategy) OnStop() error                          { return nil }
func (BaseStrategy) OnTick(types.Tick)                      {}
func (BaseStrategy) OnBar(types.Bar)                        {}
func (BaseStrategy) OnBars(map[types.Symbol]types.Bar)      {}
func (BaseStrategy) OnOrder(types.Order)                    {}
func (BaseStrategy) OnTrade(types.Trade)                    {}

// Params is a strategy's named scalar parameter or variable map, per spec
// §4.4 ("parameter map (name -> scalar), variable map (name -> scalar)").
type Params map[string]decimal.Decimal

// Get returns the value for key, or zero if unset.
func (p Params) Get(key string) decimal.Decimal {
	if v, ok := p[key]; ok {
		return v
	}
	return decimal.Zero
}
