package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

func testSymbol() types.Symbol {
	return types.Symbol{Raw: "BTCUSDT", Venue: "BINANCE"}
}

func TestInsertOrderAssignsID(t *testing.T) {
	l := New()
	id, err := l.InsertOrder(types.Order{
		Symbol: testSymbol(),
		Price:  decimal.NewFromInt(100),
		Volume: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	o, ok := l.Get(id)
	require.True(t, ok)
	assert.Equal(t, types.NotTraded, o.Status)
	assert.True(t, o.Traded.IsZero())
}

func TestInsertOrderRejectsNonPositiveVolume(t *testing.T) {
	l := New()
	_, err := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(1), Volume: decimal.Zero})
	assert.ErrorIs(t, err, tradeerr.InvalidOrder)
}

func TestApplyFillPartialThenFull(t *testing.T) {
	l := New()
	id, err := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(10)})
	require.NoError(t, err)

	at := time.Now()
	tr, err := l.ApplyFill(id, decimal.NewFromInt(100), decimal.NewFromInt(4), at)
	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(4).String(), tr.Volume.String())

	o, _ := l.Get(id)
	assert.Equal(t, types.PartTraded, o.Status)

	_, err = l.ApplyFill(id, decimal.NewFromInt(100), decimal.NewFromInt(6), at)
	require.NoError(t, err)

	o, _ = l.Get(id)
	assert.Equal(t, types.AllTraded, o.Status)
	assert.True(t, o.Remaining().IsZero())
}

func TestApplyFillOverFill(t *testing.T) {
	l := New()
	id, _ := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(5)})
	_, err := l.ApplyFill(id, decimal.NewFromInt(100), decimal.NewFromInt(6), time.Now())
	assert.ErrorIs(t, err, tradeerr.OverFill)
}

func TestApplyFillOnTerminalOrder(t *testing.T) {
	l := New()
	id, _ := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(5)})
	require.NoError(t, l.Cancel(id))

	_, err := l.ApplyFill(id, decimal.NewFromInt(100), decimal.NewFromInt(1), time.Now())
	assert.ErrorIs(t, err, tradeerr.AlreadyTerminal)
}

func TestCancelTwiceFails(t *testing.T) {
	l := New()
	id, _ := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(5)})
	require.NoError(t, l.Cancel(id))
	assert.ErrorIs(t, l.Cancel(id), tradeerr.AlreadyTerminal)
}

func TestCancelUnknownOrder(t *testing.T) {
	l := New()
	assert.ErrorIs(t, l.Cancel("does-not-exist"), tradeerr.NotFound)
}

func TestActiveOrdersExcludesTerminal(t *testing.T) {
	l := New()
	sym := testSymbol()
	id1, _ := l.InsertOrder(types.Order{Symbol: sym, Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(1)})
	id2, _ := l.InsertOrder(types.Order{Symbol: sym, Price: decimal.NewFromInt(101), Volume: decimal.NewFromInt(1)})
	require.NoError(t, l.Cancel(id2))

	active := l.ActiveOrders(sym)
	require.Len(t, active, 1)
	assert.Equal(t, id1, active[0].OrderID)

	assert.Len(t, l.AllOrders(), 2)
}

func TestUpdateOrderStatusMonotonic(t *testing.T) {
	l := New()
	id, _ := l.InsertOrder(types.Order{Symbol: testSymbol(), Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(1)})

	assert.NoError(t, l.UpdateOrderStatus(id, types.PartTraded))
	assert.ErrorIs(t, l.UpdateOrderStatus(id, types.NotTraded), tradeerr.IllegalStateTransition)
	assert.NoError(t, l.UpdateOrderStatus(id, types.Cancelled))
}

func TestCancelAllForStrategy(t *testing.T) {
	l := New()
	sym := testSymbol()
	_, _ = l.InsertOrder(types.Order{Symbol: sym, Price: decimal.NewFromInt(100), Volume: decimal.NewFromInt(1), StrategyID: "s1"})
	_, _ = l.InsertOrder(types.Order{Symbol: sym, Price: decimal.NewFromInt(101), Volume: decimal.NewFromInt(1), StrategyID: "s2"})
	stopID, _ := l.InsertStop(types.StopOrder{Symbol: sym, Direction: types.Long, TriggerPrice: decimal.NewFromInt(110), Volume: decimal.NewFromInt(1), StrategyID: "s1"})

	gotOrders, gotStops := l.CancelAllForStrategy("s1")
	assert.Equal(t, 1, gotOrders)
	assert.Equal(t, 1, gotStops)

	s, _ := l.GetStop(stopID)
	assert.Equal(t, types.StopCancelled, s.Status)

	active := l.ActiveOrders(sym)
	require.Len(t, active, 1)
	assert.Equal(t, "s2", active[0].StrategyID)
}

func TestTriggerStopCreatesOrderWithSharedCounter(t *testing.T) {
	l := New()
	sym := testSymbol()
	stopID, err := l.InsertStop(types.StopOrder{
		Symbol:       sym,
		Direction:    types.Long,
		TriggerPrice: decimal.NewFromInt(110),
		Volume:       decimal.NewFromInt(2),
		StrategyID:   "s1",
	})
	require.NoError(t, err)

	o, err := l.TriggerStop(stopID, decimal.NewFromInt(110), time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, stopID, o.OrderID)
	assert.Equal(t, "s1", o.StrategyID)

	s, _ := l.GetStop(stopID)
	assert.Equal(t, types.Triggered, s.Status)
	assert.Equal(t, o.OrderID, s.TriggeredOrderID)

	assert.ErrorIs(t, l.CancelStop(stopID), tradeerr.AlreadyTerminal)
}
