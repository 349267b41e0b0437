package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"futarchyscope/internal/model"
	"futarchyscope/internal/series"
)

// ChartConfig holds configuration for series reconstruction.
type ChartConfig struct {
	Input       string
	Market      string
	RPCURL      string
	Reserves    []string
	WindowStart string
	WindowEnd   string
	Interval    int64
	PGDSN       string
	LogLevel    string
}

// LoadChart merges config file, environment variables, and flags
// into ChartConfig.
func LoadChart(cfgFile string, flags *pflag.FlagSet) (ChartConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"interval":  series.DefaultSampleInterval,
		"log-level": "info",
	})
	if err != nil {
		return ChartConfig{}, err
	}

	return ChartConfig{
		Input:       v.GetString("in"),
		Market:      v.GetString("market"),
		RPCURL:      v.GetString("rpc"),
		Reserves:    getStringSlice(v, "reserves"),
		WindowStart: v.GetString("window-start"),
		WindowEnd:   v.GetString("window-end"),
		Interval:    v.GetInt64("interval"),
		PGDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}

// ParseReserves parses per-outcome "asset:stable" pairs.
func ParseReserves(inputs []string) ([]model.Reserves, error) {
	reserves := make([]model.Reserves, 0, len(inputs))
	for _, input := range inputs {
		parts := strings.SplitN(strings.TrimSpace(input), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid reserves %q, want asset:stable", input)
		}
		asset, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid asset reserve %q: %w", parts[0], err)
		}
		stable, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid stable reserve %q: %w", parts[1], err)
		}
		reserves = append(reserves, model.Reserves{Asset: asset, Stable: stable})
	}
	return reserves, nil
}
