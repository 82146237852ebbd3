package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nyxtrade/tradecore/stats"
	"github.com/nyxtrade/tradecore/storage"
	"github.com/nyxtrade/tradecore/types"
)

func reportCmd() *cobra.Command {
	var (
		dbPath  string
		runID   string
		capital float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render the stats report for a previously persisted run",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			results, err := store.LoadDailyResults(context.Background(), runID)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("cli: no daily results found for run %q in %s", runID, dbPath)
			}

			fmt.Println(renderSummary(results, decimal.NewFromFloat(capital)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite path the run was persisted to (required)")
	cmd.Flags().StringVar(&runID, "run", "", "run id to re-render (required)")
	cmd.Flags().Float64Var(&capital, "capital", 1000000, "starting capital the run used")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("run")

	return cmd
}

// renderSummary folds results into a stats.Summary and renders it as a
// table, matching AlejandroRuiz99-polybot's tablewriter-header/append/
// render usage.
func renderSummary(results []types.DailyResult, capital decimal.Decimal) string {
	s := stats.Compute(results, capital)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Header("Metric", "Value")
	table.Append("Total days", fmt.Sprintf("%d", s.TotalDays))
	table.Append("Profit days", fmt.Sprintf("%d", s.ProfitDays))
	table.Append("Loss days", fmt.Sprintf("%d", s.LossDays))
	table.Append("Start balance", s.StartBalance.StringFixed(2))
	table.Append("End balance", s.EndBalance.StringFixed(2))
	table.Append("Total net PnL", s.TotalNetPnL.StringFixed(2))
	table.Append("Total commission", s.TotalCommission.StringFixed(2))
	table.Append("Total slippage", s.TotalSlippage.StringFixed(2))
	table.Append("Total turnover", s.TotalTurnover.StringFixed(2))
	table.Append("Total trades", fmt.Sprintf("%d", s.TotalTradeCount))
	table.Append("Max drawdown", s.MaxDrawdown.StringFixed(2))
	table.Append("Max drawdown %", fmt.Sprintf("%.2f%%", s.MaxDDPercent*100))
	table.Append("Total return", fmt.Sprintf("%.2f%%", s.TotalReturn*100))
	table.Append("Annual return", fmt.Sprintf("%.2f%%", s.AnnualReturn*100))
	table.Append("Return std", fmt.Sprintf("%.4f", s.ReturnStd))
	table.Append("Sharpe ratio", fmt.Sprintf("%.2f", s.SharpeRatio))
	table.Render()

	return buf.String()
}
