package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxtrade/tradecore/ledger"
	"github.com/nyxtrade/tradecore/position"
	"github.com/nyxtrade/tradecore/router"
	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

func newTestAPI(t *testing.T, kind Kind) (*API, *Host) {
	t.Helper()
	sink := &recordingSink{}
	h := New(ledger.New(), position.New(), sink)
	r := router.New(h, sink)
	h.SetRouter(r)

	impl := &stubStrategy{kind: kind}
	require.NoError(t, h.Add("s1", impl, kind, nil))
	require.NoError(t, h.Init("s1"))

	inst, _ := h.Get("s1")
	return inst.api, h
}

func TestBuyPlacesLongOpenOrderOwnedByStrategy(t *testing.T) {
	api, h := newTestAPI(t, KindFutures)
	id, err := api.Buy(sym(), decimal.NewFromInt(100), decimal.NewFromInt(1), false)
	require.NoError(t, err)

	o, ok := h.ledger.Get(id)
	require.True(t, ok)
	assert.Equal(t, types.Long, o.Direction)
	assert.Equal(t, types.OffsetOpen, o.Offset)
	assert.Equal(t, "s1", o.StrategyID)
}

func TestShortRejectedForSpotKind(t *testing.T) {
	api, _ := newTestAPI(t, KindSpot)
	_, err := api.Short(sym(), decimal.NewFromInt(100), decimal.NewFromInt(1), false)
	assert.ErrorIs(t, err, tradeerr.ShortNotAllowed)
}

func TestCoverRejectedForSpotKind(t *testing.T) {
	api, _ := newTestAPI(t, KindSpot)
	_, err := api.Cover(sym(), decimal.NewFromInt(100), decimal.NewFromInt(1), false)
	assert.ErrorIs(t, err, tradeerr.ShortNotAllowed)
}

func TestPlaceRejectsNonPositivePriceOrVolume(t *testing.T) {
	api, _ := newTestAPI(t, KindFutures)
	_, err := api.Buy(sym(), decimal.Zero, decimal.NewFromInt(1), false)
	assert.ErrorIs(t, err, tradeerr.InvalidOrder)

	_, err = api.Buy(sym(), decimal.NewFromInt(1), decimal.Zero, false)
	assert.ErrorIs(t, err, tradeerr.InvalidOrder)
}

func TestSendStopOrderThenCancelStop(t *testing.T) {
	api, h := newTestAPI(t, KindFutures)
	id, err := api.SendStopOrder(sym(), types.Long, decimal.NewFromInt(110), decimal.NewFromInt(1))
	require.NoError(t, err)

	s, ok := h.ledger.GetStop(id)
	require.True(t, ok)
	assert.Equal(t, types.Waiting, s.Status)

	require.NoError(t, api.CancelStop(id))
	s, _ = h.ledger.GetStop(id)
	assert.Equal(t, types.StopCancelled, s.Status)
}

func TestCancelAllCancelsOrdersAndStops(t *testing.T) {
	api, h := newTestAPI(t, KindFutures)
	_, err := api.Buy(sym(), decimal.NewFromInt(100), decimal.NewFromInt(1), false)
	require.NoError(t, err)
	stopID, err := api.SendStopOrder(sym(), types.Long, decimal.NewFromInt(110), decimal.NewFromInt(1))
	require.NoError(t, err)

	api.CancelAll()

	active := h.ledger.ActiveOrders(sym())
	assert.Empty(t, active)
	s, _ := h.ledger.GetStop(stopID)
	assert.Equal(t, types.StopCancelled, s.Status)
}

func TestGetPosReturnsZeroForUnknownSymbol(t *testing.T) {
	api, _ := newTestAPI(t, KindFutures)
	assert.True(t, api.GetPos(sym()).IsZero())
}

func TestLoadBarsOnlyDuringNotInited(t *testing.T) {
	h := New(ledger.New(), position.New(), &recordingSink{})
	impl := &stubStrategy{kind: KindFutures}
	require.NoError(t, h.Add("s1", impl, KindFutures, nil))

	inst, _ := h.Get("s1")
	api := newAPI(h, inst)
	api.SetHistoryLoader(func(sym types.Symbol, days int, interval types.Interval) ([]types.Bar, error) {
		return []types.Bar{{Symbol: sym}}, nil
	})

	bars, err := api.LoadBars(sym(), 5, types.Interval1d)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	require.NoError(t, h.Init("s1"))
	_, err = api.LoadBars(sym(), 5, types.Interval1d)
	assert.ErrorIs(t, err, tradeerr.IllegalStateTransition)
}
