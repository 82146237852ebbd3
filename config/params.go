package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/nyxtrade/tradecore/strategy"
)

// LoadStrategyParams reads a per-strategy parameter file (yaml, json, or
// toml, whatever viper's extension sniffing detects) into a
// strategy.Params map, generalizing spec §4.4's "parameter map (name ->
// scalar)" from an in-process literal to a config-file-driven one so
// strategy tuning doesn't require a rebuild.
func LoadStrategyParams(path string) (strategy.Params, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load strategy params %s: %w", path, err)
	}

	params := strategy.Params{}
	for key, raw := range v.AllSettings() {
		switch val := raw.(type) {
		case float64:
			params[key] = decimal.NewFromFloat(val)
		case int:
			params[key] = decimal.NewFromInt(int64(val))
		case int64:
			params[key] = decimal.NewFromInt(val)
		case string:
			d, err := decimal.NewFromString(val)
			if err != nil {
				return nil, fmt.Errorf("param %q: not a number: %w", key, err)
			}
			params[key] = d
		default:
			return nil, fmt.Errorf("param %q: unsupported type %T", key, raw)
		}
	}
	return params, nil
}
