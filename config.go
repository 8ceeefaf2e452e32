package kodak

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the portfolio configuration: where the ledger lives, the base
// currency every local amount is stated in, and the market data credentials.
type Config struct {
	BaseCurrency string      `toml:"base_currency"`
	CostBasis    string      `toml:"cost_basis"` // "average" or "fifo"
	LedgerPath   string      `toml:"ledger_path"`
	EODHD        EODHDConfig `toml:"eodhd"`
	Logging      LogConfig   `toml:"logging"`
}

// EODHDConfig holds the EODHD market data API configuration.
type EODHDConfig struct {
	APIKey string `toml:"api_key"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration defaults. The base currency has
// no default: every ledger amount depends on it, so it must be stated.
func NewDefaultConfig() *Config {
	return &Config{
		CostBasis:  AverageCost.String(),
		LedgerPath: "ledger.jsonl",
		Logging:    LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from files, later files overriding earlier
// ones. Missing files are skipped; a missing base currency is a hard error
// since every derived number would be wrong without it.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if env := os.Getenv("KODAK_BASE_CURRENCY"); env != "" {
		config.BaseCurrency = env
	}
	if env := os.Getenv("KODAK_LEDGER_PATH"); env != "" {
		config.LedgerPath = env
	}
	if env := os.Getenv("KODAK_EODHD_API_KEY"); env != "" {
		config.EODHD.APIKey = env
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration can support a valuation run.
func (c *Config) Validate() error {
	if c.BaseCurrency == "" {
		return fmt.Errorf("%w: set base_currency in the config file or KODAK_BASE_CURRENCY", ErrNoBaseCurrency)
	}
	if err := ValidateCurrency(c.BaseCurrency); err != nil {
		return err
	}
	if _, err := ParseCostBasisMethod(c.CostBasis); err != nil {
		return err
	}
	return nil
}

// Method returns the configured cost basis method.
func (c *Config) Method() CostBasisMethod {
	m, err := ParseCostBasisMethod(c.CostBasis)
	if err != nil {
		return AverageCost
	}
	return m
}
