package notify

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ZerologSink is the default Sink, wrapping the teacher's own
// github.com/rs/zerolog/log global logger. Safe for concurrent use: the
// underlying zerolog logger already is.
type ZerologSink struct{}

// NewZerologSink returns the default zerolog-backed sink.
func NewZerologSink() *ZerologSink { return &ZerologSink{} }

func (ZerologSink) Info(msg string)  { log.Info().Msg(msg) }
func (ZerologSink) Warn(msg string)  { log.Warn().Msg(msg) }
func (ZerologSink) Error(msg string) { log.Error().Msg(msg) }

func (ZerologSink) Trade(strategyName, symbol, direction string, price, volume decimal.Decimal) {
	log.Info().
		Str("strategy", strategyName).
		Str("symbol", symbol).
		Str("direction", direction).
		Str("price", price.String()).
		Str("volume", volume.String()).
		Msg("trade filled")
}
