// Package config loads service configuration from file and environment
// and initializes the global logger.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string  `yaml:"addr" mapstructure:"addr"`
	RateLimit       float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst       int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	ShutdownSecs    int     `yaml:"shutdown_secs" mapstructure:"shutdown_secs"`
	ReadTimeoutSecs int     `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
}

// EngineConfig configures engine defaults that case files may override.
type EngineConfig struct {
	MaxDecimals       int `yaml:"max_decimals" mapstructure:"max_decimals"`
	MonteCarloSamples int `yaml:"monte_carlo_samples" mapstructure:"monte_carlo_samples"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional config.yaml in the working
// directory, overridden by VERDICT_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VERDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("server.shutdown_secs", 10)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("engine.max_decimals", 10)
	v.SetDefault("engine.monte_carlo_samples", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger from the log settings.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("config: parse log level: %w", err)
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("config: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}
