// Package cli wires the tradecore cobra command tree: `run` drives a
// backtest and reports its stats, `report` re-renders a previously
// persisted run, mirroring the teacher's cmd/polybot/main.go flag/env
// wiring and graceful-exit style in cobra form.
package cli

import (
	"github.com/spf13/cobra"
)

// Root returns the top-level tradecore command.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tradecore",
		Short: "Event-driven backtest engine for bar-based trading strategies",
	}
	root.AddCommand(runCmd())
	root.AddCommand(reportCmd())
	return root
}
