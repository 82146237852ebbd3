package storage

import (
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// scanDecimals parses the NUMERIC columns read back as strings into r's
// decimal.Decimal fields, in column order.
func scanDecimals(r *types.DailyResult, closePrice, prevClose, startPos, endPos, turnover, commission, slippage, tradingPnL, holdingPnL, totalPnL, netPnL string) error {
	fields := []*decimal.Decimal{
		&r.ClosePrice, &r.PrevClose, &r.StartPosition, &r.EndPosition,
		&r.Turnover, &r.Commission, &r.Slippage,
		&r.TradingPnL, &r.HoldingPnL, &r.TotalPnL, &r.NetPnL,
	}
	values := []string{closePrice, prevClose, startPos, endPos, turnover, commission, slippage, tradingPnL, holdingPnL, totalPnL, netPnL}
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		*fields[i] = d
	}
	return nil
}
