package strategies

import (
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/strategy"
	"github.com/nyxtrade/tradecore/types"
)

// Grid lays a fixed ladder of buy orders below the current price and
// sells each filled rung back out a fixed step higher, generalizing the
// teacher's Sniper's entry/take-profit/stop-loss bracket (minOdds/
// maxOdds/takeProfit/stopLoss) from a single timed entry into a standing
// ladder of brackets. It lays 5 rungs 1% apart with an order size of 1;
// none of these is read from the strategy's parameter map.
type Grid struct {
	strategy.BaseStrategy

	symbol types.Symbol
	api    *strategy.API

	levels int
	step   decimal.Decimal
	size   decimal.Decimal

	baseline    decimal.Decimal
	haveBaseline bool

	buyOrders map[string]int // order id -> level index of each rung's buy order
}

// NewGrid returns a Grid strategy trading sym.
func NewGrid(sym types.Symbol) *Grid {
	return &Grid{symbol: sym, buyOrders: make(map[string]int)}
}

func (g *Grid) Kind() strategy.Kind { return strategy.KindSpot }

func (g *Grid) OnInit(api *strategy.API) error {
	g.api = api
	g.levels = 5
	g.step = decimal.NewFromFloat(0.01)   // 1% per rung
	g.size = decimal.NewFromInt(1)
	return nil
}

func (g *Grid) OnStart() error {
	g.api.WriteLog("grid started")
	return nil
}

func (g *Grid) OnBar(bar types.Bar) {
	if !g.haveBaseline {
		g.baseline = bar.ClosePrice
		g.haveBaseline = true
		g.layLadder()
	}
}

// layLadder places one buy order per rung below the baseline price.
func (g *Grid) layLadder() {
	price := g.baseline
	for i := 0; i < g.levels; i++ {
		price = price.Mul(decimal.NewFromInt(1).Sub(g.step))
		id, err := g.api.Buy(g.symbol, price, g.size, false)
		if err != nil {
			continue
		}
		g.buyOrders[id] = i
	}
}

func (g *Grid) OnTrade(t types.Trade) {
	// Only rung buys (Long/Open) are resold; a resell fill is Long/Close.
	if t.Direction != types.Long || t.Offset != types.OffsetOpen {
		return
	}
	// Re-sell one step above the fill price, completing the rung.
	target := t.Price.Mul(decimal.NewFromInt(1).Add(g.step))
	g.api.Sell(g.symbol, target, t.Volume, false)
}
