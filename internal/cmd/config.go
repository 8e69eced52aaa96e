package cmd

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultCSVPath  = "user_activity_logs.csv"
	defaultBindHost = "127.0.0.1"
	defaultAPIPort  = 5000
)

// appConfig is internal runtime configuration, loaded from flags, the
// environment (SESSIONSENTRY_*), and an optional YAML config file.
type appConfig struct {
	LogPath string `mapstructure:"log-path"`
	Driver  string `mapstructure:"db-driver"`
	DSN     string `mapstructure:"db-dsn"`
	APIAddr string `mapstructure:"api-addr"`
	APIPort int    `mapstructure:"api-port"`
}

func setDefaults() {
	viper.SetDefault("log-path", defaultCSVPath)
	viper.SetDefault("db-driver", "")
	viper.SetDefault("db-dsn", "")
	viper.SetDefault("api-port", defaultAPIPort)
}

// loadConfig unmarshals and validates the effective configuration.
func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}

	switch cfg.Driver {
	case "", "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("invalid db-driver: %s (want sqlite or postgres)", cfg.Driver)
	}
	if cfg.Driver != "" && cfg.DSN == "" {
		return cfg, fmt.Errorf("db-driver %s requires db-dsn", cfg.Driver)
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

// isJSONL reports whether a log path looks like a JSONL export rather
// than CSV.
func isJSONL(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".jsonl") ||
		strings.HasSuffix(strings.ToLower(path), ".ndjson")
}
