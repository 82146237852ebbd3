package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxtrade/tradecore/types"
)

func TestScanDecimalsParsesAllColumnsInOrder(t *testing.T) {
	var r types.DailyResult
	err := scanDecimals(&r, "100", "95", "0", "1", "200", "0.5", "0", "10", "0", "10", "9.5")
	require.NoError(t, err)

	assert.True(t, r.ClosePrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, r.PrevClose.Equal(decimal.NewFromInt(95)))
	assert.True(t, r.EndPosition.Equal(decimal.NewFromInt(1)))
	assert.True(t, r.Commission.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, r.NetPnL.Equal(decimal.NewFromFloat(9.5)))
}

func TestScanDecimalsRejectsUnparseableValue(t *testing.T) {
	var r types.DailyResult
	err := scanDecimals(&r, "not-a-number", "95", "0", "1", "200", "0.5", "0", "10", "0", "10", "9.5")
	assert.Error(t, err)
}
