package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the HTTP API.
type ServeConfig struct {
	ListenAddr string
	PGDSN      string
	RedisAddr  string
	CacheTTL   time.Duration
	LogLevel   string
}

// LoadServe merges config file, environment variables, and flags
// into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"listen":    ":8080",
		"cache-ttl": 5 * time.Minute,
		"log-level": "info",
	})
	if err != nil {
		return ServeConfig{}, err
	}

	return ServeConfig{
		ListenAddr: v.GetString("listen"),
		PGDSN:      v.GetString("pg-dsn"),
		RedisAddr:  v.GetString("redis"),
		CacheTTL:   v.GetDuration("cache-ttl"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}
