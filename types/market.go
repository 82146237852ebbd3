package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of an order, stop, or trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Offset describes an order's intent relative to an existing position.
type Offset string

const (
	OffsetOpen          Offset = "OPEN"
	OffsetClose         Offset = "CLOSE"
	OffsetCloseToday    Offset = "CLOSE_TODAY"
	OffsetCloseYesterday Offset = "CLOSE_YESTERDAY"
	OffsetNone          Offset = "NONE"
)

// Tick is a point-in-time top-of-book and last-trade snapshot. Immutable.
type Tick struct {
	Symbol    Symbol
	Datetime  time.Time
	LastPrice decimal.Decimal
	LastVolume decimal.Decimal
	BidPrice  decimal.Decimal
	BidVolume decimal.Decimal
	AskPrice  decimal.Decimal
	AskVolume decimal.Decimal
}

// Bar is an OHLCV candle over a fixed Interval. Immutable.
//
// Invariant: Low <= min(Open, Close) <= max(Open, Close) <= High.
type Bar struct {
	Symbol       Symbol
	Datetime     time.Time // closing timestamp of the bar
	Interval     Interval
	OpenPrice    decimal.Decimal
	HighPrice    decimal.Decimal
	LowPrice     decimal.Decimal
	ClosePrice   decimal.Decimal
	Volume       decimal.Decimal
	OpenInterest decimal.Decimal
}

// Valid checks the OHLC ordering invariant.
func (b Bar) Valid() bool {
	lo := decimal.Min(b.OpenPrice, b.ClosePrice)
	hi := decimal.Max(b.OpenPrice, b.ClosePrice)
	return b.LowPrice.LessThanOrEqual(lo) && hi.LessThanOrEqual(b.HighPrice)
}

// OrderStatus is the lifecycle state of a working order.
type OrderStatus string

const (
	Submitting  OrderStatus = "SUBMITTING"
	NotTraded   OrderStatus = "NOT_TRADED"
	PartTraded  OrderStatus = "PART_TRADED"
	AllTraded   OrderStatus = "ALL_TRADED"
	Cancelled   OrderStatus = "CANCELLED"
	Rejected    OrderStatus = "REJECTED"
)

// IsTerminal reports whether the status is final.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case AllTraded, Cancelled, Rejected:
		return true
	}
	return false
}

// Order is a live or historical working order.
//
// Invariant: 0 <= Traded <= Volume, and Status == AllTraded implies
// Traded == Volume.
type Order struct {
	OrderID    string
	Symbol     Symbol
	Direction  Direction
	Offset     Offset
	Price      decimal.Decimal
	Volume     decimal.Decimal
	Traded     decimal.Decimal
	Status     OrderStatus
	StrategyID string
	CreateTime time.Time
	UpdateTime time.Time
}

// Remaining returns the untraded portion of the order's volume.
func (o Order) Remaining() decimal.Decimal {
	return o.Volume.Sub(o.Traded)
}

// StopStatus is the lifecycle state of a conditional stop order.
type StopStatus string

const (
	Waiting   StopStatus = "WAITING"
	Triggered StopStatus = "TRIGGERED"
	StopCancelled StopStatus = "CANCELLED"
)

// IsTerminal reports whether the status is final.
func (s StopStatus) IsTerminal() bool {
	return s == Triggered || s == StopCancelled
}

// StopOrder is a price-triggered conditional order.
type StopOrder struct {
	StopID     string
	Symbol     Symbol
	Direction  Direction
	Offset     Offset
	TriggerPrice decimal.Decimal
	Volume     decimal.Decimal
	Status     StopStatus
	StrategyID string
	CreateTime time.Time
	UpdateTime time.Time
	// TriggeredOrderID is set once the stop has produced its limit order.
	TriggeredOrderID string
}

// Trade is an execution record. Immutable. TradeID is unique per Symbol.
type Trade struct {
	TradeID   string
	OrderID   string
	Symbol    Symbol
	Direction Direction
	Offset    Offset
	Price     decimal.Decimal
	Volume    decimal.Decimal
	Datetime  time.Time
}

// Position is the per-symbol net exposure and realized PnL ledger.
type Position struct {
	Symbol     Symbol
	Volume     decimal.Decimal // signed: positive = long
	AvgPrice   decimal.Decimal
	Frozen     decimal.Decimal
	RealizedPnL decimal.Decimal
}

// ZeroPosition returns the zero-value position for an unknown symbol.
func ZeroPosition(sym Symbol) Position {
	return Position{
		Symbol:      sym,
		Volume:      decimal.Zero,
		AvgPrice:    decimal.Zero,
		Frozen:      decimal.Zero,
		RealizedPnL: decimal.Zero,
	}
}
