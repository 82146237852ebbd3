package ledger

import "github.com/nyxtrade/tradecore/types"

// CancelAllForStrategy cancels every non-terminal order and waiting stop
// belonging to strategyID in a single synchronous sweep, per spec §4.4
// ("stop... cancels that strategy's live orders") and §5 ("any of its
// active orders and stops are transitioned to Cancelled in a single
// synchronous sweep").
func (l *Ledger) CancelAllForStrategy(strategyID string) (cancelledOrders, cancelledStops int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.orderSeq {
		o := l.orders[id]
		if o.StrategyID == strategyID && !o.Status.IsTerminal() {
			o.Status = types.Cancelled
			cancelledOrders++
		}
	}
	for _, id := range l.stopSeq {
		s := l.stops[id]
		if s.StrategyID == strategyID && !s.Status.IsTerminal() {
			s.Status = types.StopCancelled
			cancelledStops++
		}
	}
	return cancelledOrders, cancelledStops
}
