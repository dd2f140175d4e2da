//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Portions copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for lcv-seed.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for lcv-seed.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// SeedConfig holds configuration for dataset generation.
type SeedConfig struct {
	// NumStores is the number of store dimension rows to generate.
	NumStores int `mapstructure:"num_stores"`

	// NumProducts is the number of distinct products to generate.
	NumProducts int `mapstructure:"num_products"`

	// NumCustomers is the number of customer dimension rows to generate.
	NumCustomers int `mapstructure:"num_customers"`

	// NumSales is the exact number of fact rows to generate.
	NumSales int `mapstructure:"num_sales"`

	// DateRangeDays is the historical horizon in days.
	DateRangeDays int `mapstructure:"date_range_days"`

	// RandomSeed seeds the deterministic random stream. Two runs with the
	// same seed and configuration produce identical datasets.
	RandomSeed uint64 `mapstructure:"random_seed"`

	// StartDate is the first day of the horizon in ISO format (YYYY-MM-DD).
	// Empty means today minus DateRangeDays.
	StartDate string `mapstructure:"start_date"`

	// BatchSize is the number of fact rows per batch insert.
	BatchSize int `mapstructure:"batch_size"`

	// LoyaltyProb is the probability that a customer is a loyalty member.
	LoyaltyProb float64 `mapstructure:"loyalty_prob"`

	// LoyaltySaleProb is the probability that a sale is attributed to a
	// customer from the loyalty pool (otherwise customer_id is NULL).
	LoyaltySaleProb float64 `mapstructure:"loyalty_sale_prob"`

	// DiscountProb is the probability that a sale carries a discount.
	DiscountProb float64 `mapstructure:"discount_prob"`

	// ReturnProb is the probability that a sale is a return.
	ReturnProb float64 `mapstructure:"return_prob"`

	// MaxRetries bounds consecutive regeneration attempts after an
	// invariant violation before the run aborts.
	MaxRetries int `mapstructure:"max_retries"`

	// PriceChanges enables SCD2 price-change simulation for products.
	PriceChanges bool `mapstructure:"price_changes"`

	// PriceChangeFraction is the fraction of products that receive a
	// second validity interval when PriceChanges is enabled.
	PriceChangeFraction float64 `mapstructure:"price_change_fraction"`

	// PeakMonths are calendar months (1-12) with elevated sales volume.
	PeakMonths []int `mapstructure:"peak_months"`

	// PeakMultiplier is the demand multiplier applied to peak months.
	PeakMultiplier float64 `mapstructure:"peak_multiplier"`

	// WeekendMultiplier is the demand multiplier applied to weekends.
	WeekendMultiplier float64 `mapstructure:"weekend_multiplier"`

	// Pipeline overlaps fact sampling with batch writing through a
	// bounded queue of in-flight batches.
	Pipeline bool `mapstructure:"pipeline"`

	// QueueDepth is the maximum number of in-flight batches in pipeline
	// mode.
	QueueDepth int `mapstructure:"queue_depth"`

	// Partitions splits fact generation into independently seeded index
	// ranges generated concurrently. 1 means strictly ordered
	// single-threaded generation.
	Partitions int `mapstructure:"partitions"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Seed: SeedConfig{
			NumStores:           50,
			NumProducts:         500,
			NumCustomers:        10000,
			NumSales:            1000000,
			DateRangeDays:       730,
			RandomSeed:          42,
			BatchSize:           10000,
			LoyaltyProb:         0.7,
			LoyaltySaleProb:     0.8,
			DiscountProb:        0.5,
			ReturnProb:          0.05,
			MaxRetries:          5,
			PriceChanges:        false,
			PriceChangeFraction: 0.2,
			PeakMonths:          []int{11, 12},
			PeakMultiplier:      2.0,
			WeekendMultiplier:   1.5,
			Pipeline:            false,
			QueueDepth:          4,
			Partitions:          1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./lcv-seed.yaml
// 3. ~/.config/lcv-seed/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("lcv-seed")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "lcv-seed"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	s := c.Seed
	if s.NumStores < 1 {
		return fmt.Errorf("num_stores must be at least 1")
	}
	if s.NumProducts < 1 {
		return fmt.Errorf("num_products must be at least 1")
	}
	if s.NumCustomers < 1 {
		return fmt.Errorf("num_customers must be at least 1")
	}
	if s.NumSales < 1 {
		return fmt.Errorf("num_sales must be at least 1")
	}
	if s.DateRangeDays < 1 {
		return fmt.Errorf("date_range_days must be at least 1")
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	if s.QueueDepth < 1 {
		return fmt.Errorf("queue_depth must be at least 1")
	}
	if s.Partitions < 1 {
		return fmt.Errorf("partitions must be at least 1")
	}
	for name, p := range map[string]float64{
		"loyalty_prob":          s.LoyaltyProb,
		"loyalty_sale_prob":     s.LoyaltySaleProb,
		"discount_prob":         s.DiscountProb,
		"return_prob":           s.ReturnProb,
		"price_change_fraction": s.PriceChangeFraction,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if s.PeakMultiplier < 1 {
		return fmt.Errorf("peak_multiplier must be at least 1")
	}
	if s.WeekendMultiplier < 1 {
		return fmt.Errorf("weekend_multiplier must be at least 1")
	}
	for _, m := range s.PeakMonths {
		if m < 1 || m > 12 {
			return fmt.Errorf("peak_months entries must be between 1 and 12")
		}
	}
	if s.StartDate != "" {
		if _, err := time.Parse("2006-01-02", s.StartDate); err != nil {
			return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// ResolveStartDate returns the first day of the generation horizon at
// midnight UTC. An explicit StartDate pins the horizon so reruns on later
// days still reproduce the same dataset.
func (s SeedConfig) ResolveStartDate(now time.Time) time.Time {
	if s.StartDate != "" {
		if d, err := time.Parse("2006-01-02", s.StartDate); err == nil {
			return d
		}
	}
	base := now.UTC().AddDate(0, 0, -s.DateRangeDays)
	return time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
}
