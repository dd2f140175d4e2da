//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Portions copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/db"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/generator"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/logging"
)

var (
	seedStores       int
	seedProducts     int
	seedCustomers    int
	seedSales        int
	seedDays         int
	seedRandomSeed   uint64
	seedStartDate    string
	seedBatchSize    int
	seedPriceChanges bool
	seedPipeline     bool
	seedQueueDepth   int
	seedPartitions   int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate and publish a synthetic retail dataset",
	Long: `Generate the star schema and populate it with synthetic data.

The dataset is built in staging tables and published atomically, so a
previously generated dataset stays intact and queryable until the new
one is complete. Re-running with the same seed, configuration and
--start-date reproduces the identical dataset.

Example:
  lcv-seed seed --sales 1000000 --seed 42 --connection "postgres://..."`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedStores, "stores", 0,
		"number of stores (default: 50)")
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of products (default: 500)")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers (default: 10000)")
	seedCmd.Flags().IntVar(&seedSales, "sales", 0,
		"number of fact rows (default: 1000000)")
	seedCmd.Flags().IntVar(&seedDays, "days", 0,
		"historical horizon in days (default: 730)")
	seedCmd.Flags().Uint64Var(&seedRandomSeed, "seed", 0,
		"random seed (default: 42)")
	seedCmd.Flags().StringVar(&seedStartDate, "start-date", "",
		"first day of the horizon, YYYY-MM-DD (default: today minus --days)")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch-size", 0,
		"rows per batch insert (default: 10000)")
	seedCmd.Flags().BoolVar(&seedPriceChanges, "price-changes", false,
		"simulate mid-horizon price changes as product versions")
	seedCmd.Flags().BoolVar(&seedPipeline, "pipeline", false,
		"overlap row generation with batch inserts")
	seedCmd.Flags().IntVar(&seedQueueDepth, "queue-depth", 0,
		"in-flight batches in pipeline mode (default: 4)")
	seedCmd.Flags().IntVar(&seedPartitions, "partitions", 0,
		"concurrent fact generation partitions (default: 1)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedStores > 0 {
		cfg.Seed.NumStores = seedStores
	}
	if seedProducts > 0 {
		cfg.Seed.NumProducts = seedProducts
	}
	if seedCustomers > 0 {
		cfg.Seed.NumCustomers = seedCustomers
	}
	if seedSales > 0 {
		cfg.Seed.NumSales = seedSales
	}
	if seedDays > 0 {
		cfg.Seed.DateRangeDays = seedDays
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed.RandomSeed = seedRandomSeed
	}
	if seedStartDate != "" {
		cfg.Seed.StartDate = seedStartDate
	}
	if seedBatchSize > 0 {
		cfg.Seed.BatchSize = seedBatchSize
	}
	if cmd.Flags().Changed("price-changes") {
		cfg.Seed.PriceChanges = seedPriceChanges
	}
	if cmd.Flags().Changed("pipeline") {
		cfg.Seed.Pipeline = seedPipeline
	}
	if seedQueueDepth > 0 {
		cfg.Seed.QueueDepth = seedQueueDepth
	}
	if seedPartitions > 0 {
		cfg.Seed.Partitions = seedPartitions
	}

	// Validate configuration
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	// A cancelled run leaves only stage tables behind; the live dataset
	// is never touched before the swap.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	md, err := generator.New(pool, cfg.Seed).Run(ctx)
	if err != nil {
		return err
	}

	logging.Info().
		Str("run_id", md.RunID).
		Int("num_sales", md.NumSales).
		Msg("Dataset published")
	return nil
}
