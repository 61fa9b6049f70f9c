// Package config handles application configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the structure for all simulation configuration.
type Config struct {
	Instruments        []string           `yaml:"instruments"`
	InitialCash        float64            `yaml:"initial_cash"`
	Commission         float64            `yaml:"commission"`
	Spreads            map[string]float64 `yaml:"spreads"`
	StopLossFraction   float64            `yaml:"stop_loss_fraction"`
	CarryOverPositions bool               `yaml:"carry_over_positions"`
	HistoryWindow      int                `yaml:"history_window"`
	Strategy           StrategyConf       `yaml:"strategy"`
	Optimize           OptimizeConf       `yaml:"optimize"`
	Database           DatabaseConf       `yaml:"database"`
	LogLevel           string             `yaml:"-"` // Loaded from env or defaults
}

// StrategyConf holds parameters for the built-in crossover decision provider.
type StrategyConf struct {
	ShortWindow     int     `yaml:"short_window"`
	LongWindow      int     `yaml:"long_window"`
	PositionPercent float64 `yaml:"position_percent"`
}

// OptimizeConf holds the parameter sweep definition for cmd/optimize.
type OptimizeConf struct {
	Metric     string               `yaml:"metric"`
	Ascending  bool                 `yaml:"ascending"`
	Workers    int                  `yaml:"workers"`
	Parameters map[string][]float64 `yaml:"parameters"`
}

// DatabaseConf holds the optional results database connection settings.
// Persistence is enabled when Host is non-empty.
type DatabaseConf struct {
	Host     string `yaml:"-"`
	Port     string `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	Name     string `yaml:"-"`
}

// Enabled reports whether result persistence is configured.
func (d DatabaseConf) Enabled() bool { return d.Host != "" }

// DSN builds a pgx/lib-pq compatible connection string.
func (d DatabaseConf) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		// Default values
		LogLevel:      "info",
		HistoryWindow: 1,
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// Load overrides from environment variables
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		cfg.Database.Port = dbPort
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the preconditions a run cannot start without.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be greater than zero")
	}
	if c.Commission < 0 {
		return fmt.Errorf("commission must not be negative")
	}
	if c.StopLossFraction < 0 || c.StopLossFraction >= 1 {
		return fmt.Errorf("stop_loss_fraction must be in [0,1)")
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("history_window must be at least 1")
	}
	for instrument, spread := range c.Spreads {
		if spread < 0 {
			return fmt.Errorf("spread for %s must not be negative", instrument)
		}
	}
	if c.Strategy.ShortWindow > 0 && c.Strategy.LongWindow > 0 {
		if c.Strategy.ShortWindow >= c.Strategy.LongWindow {
			return fmt.Errorf("strategy short_window must be smaller than long_window")
		}
		if c.Strategy.LongWindow > c.HistoryWindow {
			return fmt.Errorf("strategy long_window must not exceed history_window")
		}
	}
	if c.Strategy.PositionPercent < 0 || c.Strategy.PositionPercent > 1 {
		return fmt.Errorf("strategy position_percent must be in [0,1]")
	}
	return nil
}
