// Package notify is the injected log and notification sink (C12): the one
// piece of process-wide state the engine core touches, per spec §9
// ("Global state: None... any process-wide state (logging sink, clock) is
// injected"). Engines take a Sink instead of calling zerolog's global
// logger directly, so tests can swap in a recording sink.
package notify

import "github.com/shopspring/decimal"

// Sink is the capability set write_log (§4.8) and trade fills fan out to.
type Sink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// Trade announces a fill: strategy name, symbol, direction, price,
	// volume.
	Trade(strategyName, symbol, direction string, price, volume decimal.Decimal)
}
