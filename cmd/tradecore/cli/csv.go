package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

// loadBarCSV reads the §6 historical-data record shape from a flat file:
// datetime,open,high,low,close,volume — one header row, then one bar per
// line, ascending by datetime. datetime accepts RFC3339 or "2006-01-02".
func loadBarCSV(path string, sym types.Symbol, interval types.Interval) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("cli: %s has no bar rows", path)
	}

	bars := make([]types.Bar, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) < 6 {
			return nil, fmt.Errorf("cli: %s row %d: want 6 columns, got %d", path, i+2, len(row))
		}
		dt, err := parseBarTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("cli: %s row %d: %w", path, i+2, err)
		}
		open, err1 := decimal.NewFromString(row[1])
		high, err2 := decimal.NewFromString(row[2])
		low, err3 := decimal.NewFromString(row[3])
		closePx, err4 := decimal.NewFromString(row[4])
		volume, err5 := decimal.NewFromString(row[5])
		if err := firstErr(err1, err2, err3, err4, err5); err != nil {
			return nil, fmt.Errorf("cli: %s row %d: %w", path, i+2, err)
		}

		bars = append(bars, types.Bar{
			Symbol:     sym,
			Datetime:   dt,
			Interval:   interval,
			OpenPrice:  open,
			HighPrice:  high,
			LowPrice:   low,
			ClosePrice: closePx,
			Volume:     volume,
		})
	}
	return bars, nil
}

func parseBarTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
