// Package tradeerr defines the error taxonomy shared by every engine
// component: operational errors returned to a caller without disturbing
// engine state, and invariant violations that abort a run.
package tradeerr

import "errors"

var (
	// InvalidConfiguration marks a backtest or live config with an out of
	// range or missing field. Surfaced before any bar is processed; fatal.
	InvalidConfiguration = errors.New("invalid configuration")

	// InvalidOrder marks a bad volume/price. Local to the placement call.
	// (A short attempt from a spot-kind strategy gets ShortNotAllowed.)
	InvalidOrder = errors.New("invalid order")

	// AlreadyTerminal marks a cancel or status update on a finished order
	// or stop. Local to the caller, no state change.
	AlreadyTerminal = errors.New("order already terminal")

	// OverFill marks an attempted fill larger than an order's remaining
	// volume. Indicates an engine-internal bug. Returned by
	// ledger.ApplyFill; matching.MatchOrders skips such an order rather
	// than aborting the backtest run.
	OverFill = errors.New("fill exceeds remaining volume")

	// IllegalStateTransition marks a strategy lifecycle call outside its
	// allowed transition graph.
	IllegalStateTransition = errors.New("illegal strategy state transition")

	// Duplicate marks an already-observed trade_id. Silently suppressed by
	// the position tracker, but returned so callers can count it.
	Duplicate = errors.New("duplicate trade")

	// ShortNotAllowed marks a Short-direction attempt from a spot-kind
	// strategy, which may only hold non-negative net position.
	ShortNotAllowed = errors.New("short not allowed for spot strategy")

	// NotFound marks a lookup against an unknown order, stop, or strategy.
	NotFound = errors.New("not found")

	// StrategyFault wraps a panic or error raised from a strategy callback.
	// The offending strategy is stopped and its live orders cancelled; the
	// run continues for other strategies.
	StrategyFault = errors.New("strategy fault")
)
