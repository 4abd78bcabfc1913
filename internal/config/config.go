package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds process-level configuration. Runtime-tunable values
// (collection intervals, retention windows, station IDs, coordinates)
// live in the settings table instead, so the admin UI can edit them.
type Config struct {
	Port               int      `mapstructure:"port"`
	DatabasePath       string   `mapstructure:"database_path"`
	LogLevel           string   `mapstructure:"log_level"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	AmbientAPIKey      string   `mapstructure:"ambient_api_key"`
	AmbientAppKey      string   `mapstructure:"ambient_application_key"`
	AlertCheckMinutes  int      `mapstructure:"alert_check_minutes"`  // Alert evaluator tick interval
	RequestTimeoutSec  int      `mapstructure:"request_timeout_sec"`  // HTTP read/write; 0 = server default
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/lakehub/")
	viper.AddConfigPath("$HOME/.lakehub")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 3001)
	viper.SetDefault("database_path", "./lakehub.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("ambient_api_key", "")
	viper.SetDefault("ambient_application_key", "")
	viper.SetDefault("alert_check_minutes", 1)
	viper.SetDefault("request_timeout_sec", 15)
	viper.SetDefault("shutdown_timeout_sec", 10)

	// Environment variables
	viper.SetEnvPrefix("LAKEHUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
