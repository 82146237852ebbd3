package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// InsertStop validates and stores a new stop order, assigning it a fresh
// id drawn from the same counter as orders.
func (l *Ledger) InsertStop(s types.StopOrder) (string, error) {
	if s.Volume.LessThanOrEqual(decimal.Zero) {
		return "", tradeerr.InvalidOrder
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	s.StopID = l.ids.next()
	s.Status = types.Waiting
	stored := s
	l.stops[s.StopID] = &stored
	l.stopSeq = append(l.stopSeq, s.StopID)
	return s.StopID, nil
}

// TriggerStop atomically marks a waiting stop Triggered and materializes a
// new limit order at limitPrice for the stop's direction/volume. The new
// order is a distinct id from the stop, drawn from the shared counter, and
// is inserted into the same order table so it participates in the
// same-bar matching pass. at is the triggering bar's timestamp.
func (l *Ledger) TriggerStop(stopID string, limitPrice decimal.Decimal, at time.Time) (types.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.stops[stopID]
	if !ok {
		return types.Order{}, tradeerr.NotFound
	}
	if s.Status.IsTerminal() {
		return types.Order{}, tradeerr.AlreadyTerminal
	}

	orderID := l.ids.next()
	o := types.Order{
		OrderID:    orderID,
		Symbol:     s.Symbol,
		Direction:  s.Direction,
		Offset:     s.Offset,
		Price:      limitPrice,
		Volume:     s.Volume,
		Traded:     decimal.Zero,
		Status:     types.NotTraded,
		StrategyID: s.StrategyID,
		CreateTime: at,
		UpdateTime: at,
	}
	stored := o
	l.orders[orderID] = &stored
	l.orderSeq = append(l.orderSeq, orderID)

	s.Status = types.Triggered
	s.UpdateTime = at
	s.TriggeredOrderID = orderID

	return o, nil
}

// CancelStop terminates a waiting stop.
func (l *Ledger) CancelStop(stopID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.stops[stopID]
	if !ok {
		return tradeerr.NotFound
	}
	if s.Status.IsTerminal() {
		return tradeerr.AlreadyTerminal
	}
	s.Status = types.StopCancelled
	return nil
}

// GetStop returns a copy of the stop order for id, if present.
func (l *Ledger) GetStop(id string) (types.StopOrder, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stops[id]
	if !ok {
		return types.StopOrder{}, false
	}
	return *s, true
}

// ActiveStops returns Waiting stops for a symbol, in insertion order.
func (l *Ledger) ActiveStops(sym types.Symbol) []types.StopOrder {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []types.StopOrder
	for _, id := range l.stopSeq {
		s := l.stops[id]
		if s.Symbol == sym && s.Status == types.Waiting {
			out = append(out, *s)
		}
	}
	return out
}

// AllStops returns every stop ever inserted, in insertion order.
func (l *Ledger) AllStops() []types.StopOrder {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.StopOrder, 0, len(l.stopSeq))
	for _, id := range l.stopSeq {
		out = append(out, *l.stops[id])
	}
	return out
}
