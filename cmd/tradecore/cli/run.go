package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nyxtrade/tradecore/backtest"
	"github.com/nyxtrade/tradecore/config"
	"github.com/nyxtrade/tradecore/ledger"
	"github.com/nyxtrade/tradecore/notify"
	"github.com/nyxtrade/tradecore/position"
	"github.com/nyxtrade/tradecore/router"
	"github.com/nyxtrade/tradecore/storage"
	"github.com/nyxtrade/tradecore/strategies"
	"github.com/nyxtrade/tradecore/strategy"
	"github.com/nyxtrade/tradecore/types"
)

func runCmd() *cobra.Command {
	var (
		historyPath string
		symbolStr   string
		intervalStr string
		rate        float64
		slippage    float64
		size        float64
		priceTick   float64
		capital     float64
		dbPath      string
		strategyKey string
		envFile     string
		paramsPath  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest against a historical bar CSV and print its stats report",
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := types.ParseSymbol(symbolStr)
			if err != nil {
				return err
			}
			interval := types.Interval(intervalStr)

			bars, err := loadBarCSV(historyPath, sym, interval)
			if err != nil {
				return err
			}
			if len(bars) == 0 {
				return fmt.Errorf("cli: no bars loaded from %s", historyPath)
			}

			cfg := backtest.Config{
				VtSymbol:  symbolStr,
				Interval:  interval,
				Start:     bars[0].Datetime,
				End:       bars[len(bars)-1].Datetime,
				Rate:      decimal.NewFromFloat(rate),
				Slippage:  decimal.NewFromFloat(slippage),
				Size:      decimal.NewFromFloat(size),
				PriceTick: decimal.NewFromFloat(priceTick),
				Capital:   decimal.NewFromFloat(capital),
				Mode:      backtest.ModeBar,
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			var sink notify.Sink = notify.NewZerologSink()
			engineCfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("load env config: %w", err)
			}
			if engineCfg.TelegramToken != "" {
				tg, err := notify.NewTelegramSink(sink, engineCfg.TelegramToken, engineCfg.TelegramChatID)
				if err != nil {
					return fmt.Errorf("init telegram sink: %w", err)
				}
				sink = tg
			}

			l := ledger.New()
			pos := position.New()
			host := strategy.New(l, pos, sink)
			r := router.New(host, sink)
			host.SetRouter(r)

			params := strategy.Params{}
			if paramsPath != "" {
				params, err = config.LoadStrategyParams(paramsPath)
				if err != nil {
					return err
				}
			}

			impl, kind, err := pickStrategy(strategyKey, sym)
			if err != nil {
				return err
			}
			const name = "primary"
			if err := host.Add(name, impl, kind, params); err != nil {
				return err
			}
			if err := host.Subscribe(name, sym); err != nil {
				return err
			}
			if err := host.Init(name); err != nil {
				return err
			}
			if err := host.Start(name); err != nil {
				return err
			}

			engine := backtest.New(cfg, l, pos, r, host, sink)
			results, err := engine.Run(bars)
			if err != nil {
				return err
			}
			if err := host.Stop(name); err != nil {
				return err
			}

			summary := renderSummary(results, cfg.Capital)
			fmt.Println(summary)

			if dbPath != "" {
				store, err := storage.NewSQLiteStore(dbPath)
				if err != nil {
					return fmt.Errorf("open snapshot store: %w", err)
				}
				defer store.Close()

				runID := uuid.NewString()
				ctx := context.Background()
				if err := store.SaveRun(ctx, runID, storage.RunConfig{
					VtSymbol: cfg.VtSymbol,
					Interval: string(cfg.Interval),
					Start:    cfg.Start.Format(time.RFC3339),
					End:      cfg.End.Format(time.RFC3339),
					Capital:  cfg.Capital.String(),
				}); err != nil {
					return err
				}
				if err := store.SaveDailyResults(ctx, runID, results); err != nil {
					return err
				}
				fmt.Printf("saved run %s to %s\n", runID, dbPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "path to a historical bar CSV (required)")
	cmd.Flags().StringVar(&symbolStr, "symbol", "BTCUSDT.BINANCE", "vt_symbol, <raw>.<venue>")
	cmd.Flags().StringVar(&intervalStr, "interval", "1d", "bar interval")
	cmd.Flags().Float64Var(&rate, "rate", 0.0003, "commission rate, fraction of turnover")
	cmd.Flags().Float64Var(&slippage, "slippage", 0, "slippage, in price ticks")
	cmd.Flags().Float64Var(&size, "size", 1, "contract size multiplier")
	cmd.Flags().Float64Var(&priceTick, "pricetick", 0.01, "minimum price increment")
	cmd.Flags().Float64Var(&capital, "capital", 1000000, "starting capital")
	cmd.Flags().StringVar(&dbPath, "db", "", "optional sqlite path to persist the run's daily results")
	cmd.Flags().StringVar(&strategyKey, "strategy", "breakout", "strategy to run: breakout or grid")
	cmd.Flags().StringVar(&envFile, "env", "", "optional .env file with GATEWAY_*/TELEGRAM_* settings")
	cmd.Flags().StringVar(&paramsPath, "params", "", "optional yaml/json/toml file of strategy parameters")
	cmd.MarkFlagRequired("history")

	return cmd
}

func pickStrategy(key string, sym types.Symbol) (strategy.Strategy, strategy.Kind, error) {
	switch key {
	case "breakout":
		return strategies.NewBreakout(sym), strategy.KindFutures, nil
	case "grid":
		return strategies.NewGrid(sym), strategy.KindSpot, nil
	default:
		return nil, "", fmt.Errorf("cli: unknown strategy %q", key)
	}
}
