// Package stats computes the summary statistics (C8) that close out a
// backtest run: a daily balance/return curve derived from a
// []types.DailyResult series, and the usual risk/return metrics
// (Sharpe ratio, max drawdown, annualized return) rolled up from it.
package stats

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// annualTradingDays is the trading-calendar convention used to annualize
// daily returns and volatility, per spec §4.7 (240 trading days/year).
const annualTradingDays = 240

// DayStat is one day's entry in the balance/return/drawdown series.
type DayStat struct {
	Date       types.DailyResult
	Balance    decimal.Decimal
	Return     float64 // fractional daily return vs the previous balance (start capital on day one)
	Drawdown   decimal.Decimal
	DDPercent  float64
}

// Summary is the aggregate result of Compute.
type Summary struct {
	Days []DayStat

	StartBalance   decimal.Decimal
	EndBalance     decimal.Decimal
	TotalDays      int
	ProfitDays     int
	LossDays       int
	TotalNetPnL    decimal.Decimal
	TotalCommission decimal.Decimal
	TotalSlippage  decimal.Decimal
	TotalTurnover  decimal.Decimal
	TotalTradeCount int

	MaxDrawdown   decimal.Decimal
	MaxDDPercent  float64

	TotalReturn   float64
	AnnualReturn  float64
	ReturnStd     float64
	SharpeRatio   float64
}

// Compute folds results (already sorted ascending by Date) into a
// Summary, starting from startCapital. A zero-length results returns a
// degenerate all-zero Summary rather than erroring, since an empty
// backtest run is a valid (if uninteresting) outcome.
func Compute(results []types.DailyResult, startCapital decimal.Decimal) Summary {
	s := Summary{
		StartBalance: startCapital,
		EndBalance:   startCapital,
	}
	if len(results) == 0 {
		return s
	}

	days := make([]DayStat, 0, len(results))
	balance := startCapital
	peak := startCapital
	prevBalance := startCapital

	returns := make([]float64, 0, len(results))

	for _, r := range results {
		balance = balance.Add(r.NetPnL)

		var ret float64
		if !prevBalance.IsZero() {
			ret, _ = balance.Sub(prevBalance).Div(prevBalance).Float64()
		}
		returns = append(returns, ret)

		if balance.GreaterThan(peak) {
			peak = balance
		}
		drawdown := balance.Sub(peak)
		var ddPercent float64
		if !peak.IsZero() {
			ddPercent, _ = drawdown.Div(peak).Float64()
		}

		days = append(days, DayStat{
			Date:      r,
			Balance:   balance,
			Return:    ret,
			Drawdown:  drawdown,
			DDPercent: ddPercent,
		})

		if r.NetPnL.GreaterThan(decimal.Zero) {
			s.ProfitDays++
		} else if r.NetPnL.LessThan(decimal.Zero) {
			s.LossDays++
		}
		s.TotalNetPnL = s.TotalNetPnL.Add(r.NetPnL)
		s.TotalCommission = s.TotalCommission.Add(r.Commission)
		s.TotalSlippage = s.TotalSlippage.Add(r.Slippage)
		s.TotalTurnover = s.TotalTurnover.Add(r.Turnover)
		s.TotalTradeCount += r.TradeCount

		prevBalance = balance
	}

	s.Days = days
	s.TotalDays = len(results)
	s.EndBalance = balance

	maxDD, maxDDPercent := maxDrawdown(days)
	s.MaxDrawdown = maxDD
	s.MaxDDPercent = maxDDPercent

	if !startCapital.IsZero() {
		totalReturn, _ := balance.Sub(startCapital).Div(startCapital).Float64()
		s.TotalReturn = totalReturn
		s.AnnualReturn = totalReturn / float64(s.TotalDays) * annualTradingDays
	}

	s.ReturnStd = stdev(returns)
	if s.ReturnStd != 0 {
		s.SharpeRatio = mean(returns) / s.ReturnStd * math.Sqrt(annualTradingDays)
	}

	return s
}

func maxDrawdown(days []DayStat) (decimal.Decimal, float64) {
	maxDD := decimal.Zero
	maxDDPercent := 0.0
	for _, d := range days {
		if d.Drawdown.LessThan(maxDD) {
			maxDD = d.Drawdown
		}
		if d.DDPercent < maxDDPercent {
			maxDDPercent = d.DDPercent
		}
	}
	return maxDD, maxDDPercent
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev is the sample standard deviation (n-1 divisor), 0 for fewer than
// two observations.
func stdev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
