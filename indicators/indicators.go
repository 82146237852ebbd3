// Package indicators provides rolling technical indicators over
// types.Bar streams for strategy code to build signals on, generalized
// from the teacher's feeds.VolatilityTracker/MomentumTracker from a
// price-feed-bound tracker into a plain bar-fed one.
package indicators

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// ATRTracker computes a rolling Average True Range over the last period
// bars.
type ATRTracker struct {
	mu     sync.RWMutex
	period int
	closes []decimal.Decimal
	highs  []decimal.Decimal
	lows   []decimal.Decimal
	atr    decimal.Decimal
}

// NewATRTracker returns a tracker over the last period bars.
func NewATRTracker(period int) *ATRTracker {
	return &ATRTracker{
		period: period,
		closes: make([]decimal.Decimal, 0, period),
		highs:  make([]decimal.Decimal, 0, period),
		lows:   make([]decimal.Decimal, 0, period),
	}
}

// Update folds one more bar into the window.
func (t *ATRTracker) Update(bar types.Bar) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closes = append(t.closes, bar.ClosePrice)
	t.highs = append(t.highs, bar.HighPrice)
	t.lows = append(t.lows, bar.LowPrice)
	if len(t.closes) > t.period {
		t.closes = t.closes[1:]
		t.highs = t.highs[1:]
		t.lows = t.lows[1:]
	}
	t.recalculate()
}

func (t *ATRTracker) recalculate() {
	if len(t.closes) < 2 {
		return
	}
	sum := decimal.Zero
	for i := 1; i < len(t.closes); i++ {
		hl := t.highs[i].Sub(t.lows[i])
		hpc := t.highs[i].Sub(t.closes[i-1]).Abs()
		lpc := t.lows[i].Sub(t.closes[i-1]).Abs()

		tr := hl
		if hpc.GreaterThan(tr) {
			tr = hpc
		}
		if lpc.GreaterThan(tr) {
			tr = lpc
		}
		sum = sum.Add(tr)
	}
	t.atr = sum.Div(decimal.NewFromInt(int64(len(t.closes) - 1)))
}

// ATR returns the current Average True Range, zero until at least two
// bars have been observed.
func (t *ATRTracker) ATR() decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.atr
}

// SMA is a simple rolling moving average over the last period closes.
type SMA struct {
	mu     sync.RWMutex
	period int
	values []decimal.Decimal
	sum    decimal.Decimal
}

// NewSMA returns an SMA tracker over period bars.
func NewSMA(period int) *SMA {
	return &SMA{period: period, values: make([]decimal.Decimal, 0, period)}
}

// Update folds one more close price into the window.
func (s *SMA) Update(close decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, close)
	s.sum = s.sum.Add(close)
	if len(s.values) > s.period {
		s.sum = s.sum.Sub(s.values[0])
		s.values = s.values[1:]
	}
}

// Value returns the current average, zero if no observations yet.
func (s *SMA) Value() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.values) == 0 {
		return decimal.Zero
	}
	return s.sum.Div(decimal.NewFromInt(int64(len(s.values))))
}

// Ready reports whether the window has filled to period observations.
func (s *SMA) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values) >= s.period
}
