package ledger

import (
	"strconv"
	"sync/atomic"
)

// idGenerator hands out monotonically increasing decimal-string ids, shared
// between orders and stops so that every id is globally unique per engine
// instance (spec §4.1: "an order_id and stop_id share the same counter").
type idGenerator struct {
	counter atomic.Uint64
}

func (g *idGenerator) next() string {
	n := g.counter.Add(1)
	return strconv.FormatUint(n, 10)
}
