package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/pflag"

	"futarchyscope/internal/model"
)

// RankConfig holds configuration for TWAP ranking.
type RankConfig struct {
	Twaps        []string
	ThresholdBps uint64
	Market       string
	PGDSN        string
	LogLevel     string
}

// LoadRank merges config file, environment variables, and flags
// into RankConfig.
func LoadRank(cfgFile string, flags *pflag.FlagSet) (RankConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return RankConfig{}, err
	}

	return RankConfig{
		Twaps:        getStringSlice(v, "twap"),
		ThresholdBps: v.GetUint64("threshold-bps"),
		Market:       v.GetString("market"),
		PGDSN:        v.GetString("pg-dsn"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

// ParseTwapItems builds ranking inputs from raw TWAP strings in
// outcome order. "-" or "null" marks an outcome without a signal.
func ParseTwapItems(inputs []string) ([]model.TwapItem, error) {
	items := make([]model.TwapItem, 0, len(inputs))
	for i, input := range inputs {
		item := model.TwapItem{OutcomeIndex: i}
		trimmed := strings.TrimSpace(input)
		if trimmed != "-" && !strings.EqualFold(trimmed, "null") {
			raw, ok := new(big.Int).SetString(trimmed, 10)
			if !ok || raw.Sign() < 0 {
				return nil, fmt.Errorf("invalid twap value %q for outcome %d", input, i)
			}
			item.RawTwap = raw
		}
		items = append(items, item)
	}
	return items, nil
}
