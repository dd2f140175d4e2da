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

	"github.com/spf13/cobra"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/db"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/logging"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/warehouse"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a published dataset against its invariants",
	Long: `Re-check the live tables: row counts against the recorded run
parameters, accounting invariants on every fact row, referential
integrity, product validity intervals, customer aggregate consistency
and the seasonal volume skew. Exits non-zero if any check fails.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	md, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		return fmt.Errorf("no run metadata found; has 'lcv-seed seed' completed on this database? %w", err)
	}
	logging.Info().
		Str("run_id", md["run_id"]).
		Str("generated_at", md["generated_at"]).
		Msg("Verifying dataset")

	failures := 0

	counts, err := warehouse.TableCounts(ctx, pool)
	if err != nil {
		return err
	}
	for table, key := range map[string]string{
		"dim_store":    "num_stores",
		"dim_customer": "num_customers",
		"fact_sales":   "num_sales",
		"dim_date":     "horizon_days",
	} {
		expected := md[key]
		actual := fmt.Sprintf("%d", counts[table])
		if expected != actual {
			logging.Error().
				Str("table", table).
				Str("expected", expected).
				Str("actual", actual).
				Msg("Row count mismatch")
			failures++
		}
	}

	violations, err := warehouse.CountInvariantViolations(ctx, pool)
	if err != nil {
		return err
	}
	if violations.Total() > 0 {
		logging.Error().
			Int64("quantity", violations.Quantity).
			Int64("net", violations.Net).
			Int64("cost", violations.Cost).
			Int64("margin", violations.Margin).
			Msg("Accounting invariant violations")
		failures++
	}

	orphans, err := warehouse.CountOrphans(ctx, pool)
	if err != nil {
		return err
	}
	if orphans.Total() > 0 {
		logging.Error().
			Int64("store", orphans.Store).
			Int64("product", orphans.Product).
			Int64("customer", orphans.Customer).
			Int64("date", orphans.Date).
			Msg("Dangling foreign keys")
		failures++
	}

	scd, err := warehouse.CountSCDViolations(ctx, pool)
	if err != nil {
		return err
	}
	if scd > 0 {
		logging.Error().Int64("products", scd).Msg("Malformed product validity intervals")
		failures++
	}

	drift, err := warehouse.CountAggregateDrift(ctx, pool)
	if err != nil {
		return err
	}
	if drift > 0 {
		logging.Error().Int64("customers", drift).Msg("Customer aggregates disagree with facts")
		failures++
	}

	ratio, err := warehouse.SeasonalRatio(ctx, pool, cfg.Seed.PeakMonths)
	if err != nil {
		return err
	}
	if ratio <= 1.0 {
		logging.Error().Float64("ratio", ratio).Msg("Peak months not elevated over off-peak")
		failures++
	} else {
		logging.Info().Float64("ratio", ratio).Msg("Seasonal skew present")
	}

	if failures > 0 {
		return fmt.Errorf("verification failed: %d check(s) did not pass", failures)
	}

	logging.Info().Msg("All checks passed")
	return nil
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the generated schema and metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg.Connection)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return err
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			return err
		}
		logging.Info().Msg("Schema dropped")
		return nil
	},
}
