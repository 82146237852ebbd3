// Command tradecore is the CLI driver (C13): run a backtest against a
// historical bar CSV and print its statistics report, or re-render a
// previously persisted run's report.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nyxtrade/tradecore/cmd/tradecore/cli"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := cli.Root().Execute(); err != nil {
		log.Fatal().Err(err).Msg("tradecore failed")
	}
}
