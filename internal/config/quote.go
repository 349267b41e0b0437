package config

import (
	"github.com/spf13/pflag"

	"futarchyscope/internal/amm"
)

// QuoteConfig holds configuration for a one-off swap quote.
type QuoteConfig struct {
	ReserveIn  float64
	ReserveOut float64
	AmountIn   float64
	FeeBps     uint16
	Slippage   float64
	Forward    bool
	LogLevel   string
}

// LoadQuote merges config file, environment variables, and flags
// into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"fee-bps":   amm.DefaultTakerFeeBps,
		"slippage":  0.01,
		"forward":   true,
		"log-level": "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	return QuoteConfig{
		ReserveIn:  v.GetFloat64("reserve-in"),
		ReserveOut: v.GetFloat64("reserve-out"),
		AmountIn:   v.GetFloat64("amount-in"),
		FeeBps:     uint16(v.GetUint32("fee-bps")),
		Slippage:   v.GetFloat64("slippage"),
		Forward:    v.GetBool("forward"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}
