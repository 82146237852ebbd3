// Package config is the ambient configuration layer: environment-driven
// settings for the gateway/notify/storage wiring (loaded the way the
// teacher's internal/config.Load reads os.Getenv with defaults, fronted
// by an optional .env file via godotenv) plus a viper-backed loader for
// per-strategy parameter files (spec §4.4's "parameter map").
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// EngineConfig is the process-wide settings an engine binary (the CLI or
// a future live-trading daemon) reads at startup.
type EngineConfig struct {
	GatewayRESTURL  string
	GatewayWSURL    string
	GatewayRatePerS float64

	DatabaseURL  string
	SQLitePath   string

	TelegramToken  string
	TelegramChatID int64

	LogLevel string
}

// Load reads an optional .env file (missing is not an error, matching
// godotenv's own convention) and then the process environment, applying
// the same default-on-empty pattern as the teacher's internal/config.
func Load(envFile string) (EngineConfig, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg := EngineConfig{
		GatewayRESTURL:  getEnv("GATEWAY_REST_URL", "https://api.example-venue.test"),
		GatewayWSURL:    getEnv("GATEWAY_WS_URL", "wss://stream.example-venue.test"),
		GatewayRatePerS: getEnvFloat("GATEWAY_RATE_PER_SECOND", 5.0),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "data/tradecore.db"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return EngineConfig{}, err
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// BacktestEnvConfig mirrors backtest.Config's fields as plain types for
// env-var loading; the caller converts to decimal.Decimal and
// backtest.Config itself (config does not import package backtest, to
// keep this package dependency-free of the engine internals it merely
// configures).
type BacktestEnvConfig struct {
	VtSymbol  string
	Interval  string
	Start     time.Time
	End       time.Time
	Rate      decimal.Decimal
	Slippage  decimal.Decimal
	Size      decimal.Decimal
	PriceTick decimal.Decimal
	Capital   decimal.Decimal
	Mode      string
}

// LoadBacktestEnv reads BACKTEST_* environment variables into a
// BacktestEnvConfig, defaulting Rate/Slippage/Mode the way a CTA backtest
// harness typically does for a quick local run.
func LoadBacktestEnv() (BacktestEnvConfig, error) {
	start, err := time.Parse("2006-01-02", getEnv("BACKTEST_START", "2024-01-01"))
	if err != nil {
		return BacktestEnvConfig{}, err
	}
	end, err := time.Parse("2006-01-02", getEnv("BACKTEST_END", "2024-12-31"))
	if err != nil {
		return BacktestEnvConfig{}, err
	}

	return BacktestEnvConfig{
		VtSymbol:  getEnv("BACKTEST_SYMBOL", "BTCUSDT.BINANCE"),
		Interval:  getEnv("BACKTEST_INTERVAL", "1d"),
		Start:     start,
		End:       end,
		Rate:      getEnvDecimal("BACKTEST_RATE", decimal.NewFromFloat(0.0003)),
		Slippage:  getEnvDecimal("BACKTEST_SLIPPAGE", decimal.NewFromInt(0)),
		Size:      getEnvDecimal("BACKTEST_SIZE", decimal.NewFromInt(1)),
		PriceTick: getEnvDecimal("BACKTEST_PRICETICK", decimal.NewFromFloat(0.01)),
		Capital:   getEnvDecimal("BACKTEST_CAPITAL", decimal.NewFromInt(1000000)),
		Mode:      getEnv("BACKTEST_MODE", "bar"),
	}, nil
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return defaultValue
}
