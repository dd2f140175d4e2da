//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Portions copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for lcv-seed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/logging"
	"github.com/quddusi-t/lcv-retail-analytics-platform/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "lcv-seed",
		Short: "Synthetic retail star-schema generator for PostgreSQL",
		Long: `lcv-seed populates a PostgreSQL database with a synthetic but
statistically plausible retail star schema: date, store, product and
customer dimensions plus a large sales fact table.

Generation is fully deterministic: the same seed and configuration
always produce an identical dataset, byte for byte. Sales volume follows
seasonal, weekend and store-type patterns rather than being uniformly
random, so the output is suitable for exercising analytical queries,
query planners and BI tooling against realistic data shapes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./lcv-seed.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(dropCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
