// Package config loads and validates simulation run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantfold/stratsim/strategies"
)

const dayLayout = "2006-01-02"

// Config represents the complete simulation configuration.
type Config struct {
	Run      RunConfig      `json:"run" yaml:"run"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	LogLevel string         `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// RunConfig names the symbol and date range to simulate.
type RunConfig struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Start  string `json:"start" yaml:"start"` // 2006-01-02
	End    string `json:"end" yaml:"end"`
}

// Range parses the configured date range.
func (r RunConfig) Range() (start, end time.Time, err error) {
	start, err = time.Parse(dayLayout, r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.start: %w", err)
	}
	end, err = time.Parse(dayLayout, r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.end: %w", err)
	}
	return start, end, nil
}

// StrategyConfig selects the signal generator and its parameters. The SMA
// fields apply to sma-cross, the RSI fields to rsi-reversion; the unused set
// is ignored.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`

	ShortWindow int `json:"short_window,omitempty" yaml:"short_window,omitempty"`
	LongWindow  int `json:"long_window,omitempty" yaml:"long_window,omitempty"`

	RSIWindow  int `json:"rsi_window,omitempty" yaml:"rsi_window,omitempty"`
	Oversold   int `json:"oversold,omitempty" yaml:"oversold,omitempty"`
	Overbought int `json:"overbought,omitempty" yaml:"overbought,omitempty"`
}

// Params converts the config into strategy parameters.
func (s StrategyConfig) Params() strategies.Params {
	return strategies.Params{
		ShortWindow: s.ShortWindow,
		LongWindow:  s.LongWindow,
		RSIWindow:   s.RSIWindow,
		Oversold:    s.Oversold,
		Overbought:  s.Overbought,
	}
}

// RiskConfig holds the stop-loss clamp settings.
type RiskConfig struct {
	// MaxLossPerTrade is the per-bar loss cap as a fraction in (0, 1].
	MaxLossPerTrade float64 `json:"max_loss_per_trade" yaml:"max_loss_per_trade"`
}

// CacheConfig controls the SQLite bar cache. An empty path disables caching.
type CacheConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration. This is the caller-side validation the
// core pipeline does not repeat: the pipeline treats degenerate parameters
// as data conditions, so anything that should be rejected must be rejected
// here.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Run.Symbol) == "" {
		return fmt.Errorf("run.symbol is required")
	}
	start, end, err := c.Run.Range()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("run.end must be after run.start")
	}

	switch strings.ToLower(strings.TrimSpace(c.Strategy.Name)) {
	case "sma-cross", "smacross", "sma":
		if c.Strategy.ShortWindow <= 0 || c.Strategy.LongWindow <= 0 {
			return fmt.Errorf("strategy windows must be positive")
		}
		// short_window >= long_window is allowed: the signal stays
		// well-defined, just degenerate (see strategies.SMACross).
	case "rsi-reversion", "rsi":
		if c.Strategy.RSIWindow <= 0 {
			return fmt.Errorf("strategy.rsi_window must be positive")
		}
		if c.Strategy.Oversold >= c.Strategy.Overbought {
			return fmt.Errorf("strategy.oversold must be below strategy.overbought")
		}
	default:
		return fmt.Errorf("unknown strategy: %s", c.Strategy.Name)
	}

	if c.Risk.MaxLossPerTrade <= 0 || c.Risk.MaxLossPerTrade > 1 {
		return fmt.Errorf("risk.max_loss_per_trade must be in (0, 1]")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level: %s", c.LogLevel)
	}

	return nil
}

// Default returns a configuration with sensible defaults: two years of AAPL
// daily bars through an SMA 20/50 crossover with a 2% daily loss cap.
func Default() *Config {
	now := time.Now().UTC()
	return &Config{
		Run: RunConfig{
			Symbol: "AAPL",
			Start:  now.AddDate(-2, 0, 0).Format(dayLayout),
			End:    now.Format(dayLayout),
		},
		Strategy: StrategyConfig{
			Name:        "sma-cross",
			ShortWindow: 20,
			LongWindow:  50,
			RSIWindow:   14,
			Oversold:    30,
			Overbought:  70,
		},
		Risk: RiskConfig{
			MaxLossPerTrade: 0.02,
		},
		Cache: CacheConfig{
			Path: "./bars.db",
		},
		LogLevel: "info",
	}
}
