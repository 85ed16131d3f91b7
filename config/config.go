// Package config loads the YAML (or JSON) run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/strategies"
)

// Config is the complete run configuration.
type Config struct {
	Symbol   SymbolConfig   `json:"symbol" yaml:"symbol"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// SymbolConfig describes the instrument. TickSize and LotSize may be left
// out for a known instrument name such as EUR_USD.
type SymbolConfig struct {
	Name             string  `json:"name" yaml:"name"`
	TickSize         float64 `json:"tick_size,omitempty" yaml:"tick_size,omitempty"`
	LotSize          float64 `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
	FeeRate          float64 `json:"fee_rate,omitempty" yaml:"fee_rate,omitempty"`
	InterestRate     float64 `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty"`
	InterestInterval string  `json:"interest_interval,omitempty" yaml:"interest_interval,omitempty"` // e.g. "24h"
	BaseAsset        string  `json:"base_asset,omitempty" yaml:"base_asset,omitempty"`
	QuoteCurrency    string  `json:"quote_currency,omitempty" yaml:"quote_currency,omitempty"`
	CashDecimals     *int32  `json:"cash_decimals,omitempty" yaml:"cash_decimals,omitempty"`
}

type EngineConfig struct {
	Strict bool `json:"strict" yaml:"strict"`
}

// FeedConfig points at the market data to replay.
type FeedConfig struct {
	Path      string `json:"path" yaml:"path"`
	Format    string `json:"format" yaml:"format"`                           // "ticks" or "candles"
	TimeFrame string `json:"timeframe,omitempty" yaml:"timeframe,omitempty"` // chart aux data, e.g. "H1"
	From      string `json:"from,omitempty" yaml:"from,omitempty"`           // RFC3339, inclusive
	To        string `json:"to,omitempty" yaml:"to,omitempty"`               // RFC3339, exclusive
}

type StrategyConfig struct {
	Name        string  `json:"name" yaml:"name"`
	Size        float64 `json:"size" yaml:"size"`
	Leverage    float64 `json:"leverage" yaml:"leverage"`
	OffsetTicks int     `json:"offset_ticks" yaml:"offset_ticks"`
	ProfitTicks int     `json:"profit_ticks" yaml:"profit_ticks"`
	LossTicks   int     `json:"loss_ticks" yaml:"loss_ticks"`
	Short       bool    `json:"short,omitempty" yaml:"short,omitempty"`
	Fast        int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow        int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	MaxLoss     float64 `json:"max_loss,omitempty" yaml:"max_loss,omitempty"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// LoadFromFile loads configuration from a YAML or JSON file, applies
// environment overrides and validates the result.
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

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. Only LOG_LEVEL is
// read.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.MarketSymbol(); err != nil {
		return err
	}
	switch c.Feed.Format {
	case "ticks", "candles":
	default:
		return fmt.Errorf("feed.format must be 'ticks' or 'candles', got %q", c.Feed.Format)
	}
	if _, err := c.TimeFrame(); err != nil {
		return err
	}
	if _, _, err := c.Window(); err != nil {
		return err
	}
	if err := c.Params().Validate(c.Strategy.Name); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if strategies.Normalize(c.Strategy.Name) == "ema-cross" && c.Feed.TimeFrame == "" {
		return fmt.Errorf("feed.timeframe is required for ema-cross")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// MarketSymbol builds the symbol, starting from the instrument preset when
// the name is known and no increments are given.
func (c *Config) MarketSymbol() (market.Symbol, error) {
	sc := c.Symbol
	if sc.Name == "" {
		return market.Symbol{}, fmt.Errorf("symbol.name is required")
	}

	sym, ok := market.LookupInstrument(sc.Name)
	if !ok || sc.TickSize != 0 || sc.LotSize != 0 {
		var err error
		sym, err = market.NewSymbol(sc.Name, sc.LotSize, sc.TickSize)
		if err != nil {
			return market.Symbol{}, fmt.Errorf("symbol: %w", err)
		}
	}

	sym = sym.WithFeeRate(sc.FeeRate).WithInterestRate(sc.InterestRate)
	if sc.InterestInterval != "" {
		d, err := time.ParseDuration(sc.InterestInterval)
		if err != nil {
			return market.Symbol{}, fmt.Errorf("symbol.interest_interval: %w", err)
		}
		sym = sym.WithInterestInterval(d)
	}
	if sc.BaseAsset != "" || sc.QuoteCurrency != "" {
		sym = sym.WithAssets(sc.BaseAsset, sc.QuoteCurrency)
	}
	if sc.CashDecimals != nil {
		sym = sym.WithCashDecimals(*sc.CashDecimals)
	}
	if err := sym.Validate(); err != nil {
		return market.Symbol{}, fmt.Errorf("symbol: %w", err)
	}
	return sym, nil
}

// TimeFrame is the chart time frame, 0 when no chart is wanted.
func (c *Config) TimeFrame() (time.Duration, error) {
	if c.Feed.TimeFrame == "" {
		return 0, nil
	}
	tf, err := market.ParseTimeFrame(c.Feed.TimeFrame)
	if err != nil {
		return 0, fmt.Errorf("feed.timeframe: %w", err)
	}
	return tf, nil
}

// Window parses feed.from and feed.to; unset bounds are zero.
func (c *Config) Window() (from, to time.Time, err error) {
	if c.Feed.From != "" {
		if from, err = time.Parse(time.RFC3339, c.Feed.From); err != nil {
			return from, to, fmt.Errorf("feed.from: %w", err)
		}
	}
	if c.Feed.To != "" {
		if to, err = time.Parse(time.RFC3339, c.Feed.To); err != nil {
			return from, to, fmt.Errorf("feed.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("feed.from must be before feed.to")
	}
	return from, to, nil
}

// Params converts the strategy section.
func (c *Config) Params() strategies.Params {
	s := c.Strategy
	return strategies.Params{
		Size:        s.Size,
		Leverage:    s.Leverage,
		OffsetTicks: s.OffsetTicks,
		ProfitTicks: s.ProfitTicks,
		LossTicks:   s.LossTicks,
		Short:       s.Short,
		Fast:        s.Fast,
		Slow:        s.Slow,
		MaxLoss:     s.MaxLoss,
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	p := strategies.DefaultParams()
	return &Config{
		Symbol: SymbolConfig{
			Name:             "EUR_USD",
			FeeRate:          0.00002,
			InterestInterval: "24h",
		},
		Feed: FeedConfig{
			Path:      "./data/eurusd.csv",
			Format:    "ticks",
			TimeFrame: "H1",
		},
		Strategy: StrategyConfig{
			Name:        "fixed-offset",
			Size:        10000,
			Leverage:    p.Leverage,
			OffsetTicks: p.OffsetTicks,
			ProfitTicks: p.ProfitTicks,
			LossTicks:   p.LossTicks,
			Fast:        p.Fast,
			Slow:        p.Slow,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
