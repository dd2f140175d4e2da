//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InvariantViolations counts fact rows breaking each accounting rule.
// All counts are zero for a well-formed dataset.
type InvariantViolations struct {
	Quantity int64
	Net      int64
	Cost     int64
	Margin   int64
}

// Total returns the sum of all violation counts.
func (v InvariantViolations) Total() int64 {
	return v.Quantity + v.Net + v.Cost + v.Margin
}

// OrphanCounts counts fact rows whose foreign keys do not resolve to a
// dimension row.
type OrphanCounts struct {
	Store    int64
	Product  int64
	Customer int64
	Date     int64
}

// Total returns the sum of all orphan counts.
func (o OrphanCounts) Total() int64 {
	return o.Store + o.Product + o.Customer + o.Date
}

// TableCounts returns the row count of each live table.
func TableCounts(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	counts := make(map[string]int64, len(LiveTables))
	for _, table := range LiveTables {
		var n int64
		if err := pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// CountInvariantViolations scans fact_sales for rows violating the
// sign-aware quantity/net/cost rules or the margin tolerance.
func CountInvariantViolations(ctx context.Context, pool *pgxpool.Pool) (InvariantViolations, error) {
	var v InvariantViolations
	err := pool.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE (NOT is_return AND quantity <= 0)
                               OR (is_return AND quantity >= 0)),
            COUNT(*) FILTER (WHERE (NOT is_return AND net_amount < 0)
                               OR (is_return AND net_amount > 0)),
            COUNT(*) FILTER (WHERE (NOT is_return AND cost_amount <= 0)
                               OR (is_return AND cost_amount >= 0)),
            COUNT(*) FILTER (WHERE abs(net_amount - cost_amount - margin_amount) > 0.01)
        FROM fact_sales
    `).Scan(&v.Quantity, &v.Net, &v.Cost, &v.Margin)
	if err != nil {
		return v, fmt.Errorf("failed to count invariant violations: %w", err)
	}
	return v, nil
}

// CountOrphans counts fact rows with dangling foreign keys. The stage
// schema enforces these with constraints; this re-checks the published
// tables independently.
func CountOrphans(ctx context.Context, pool *pgxpool.Pool) (OrphanCounts, error) {
	var o OrphanCounts
	err := pool.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE s.store_id IS NULL),
            COUNT(*) FILTER (WHERE p.product_key IS NULL),
            COUNT(*) FILTER (WHERE f.customer_id IS NOT NULL AND c.customer_id IS NULL),
            COUNT(*) FILTER (WHERE d.date_value IS NULL)
        FROM fact_sales f
        LEFT JOIN dim_store s ON s.store_id = f.store_id
        LEFT JOIN dim_product p ON p.product_key = f.product_key
        LEFT JOIN dim_customer c ON c.customer_id = f.customer_id
        LEFT JOIN dim_date d ON d.date_value = f.sale_date
    `).Scan(&o.Store, &o.Product, &o.Customer, &o.Date)
	if err != nil {
		return o, fmt.Errorf("failed to count orphans: %w", err)
	}
	return o, nil
}

// CountSCDViolations counts products whose validity intervals are
// malformed: not exactly one current version, or overlapping intervals.
func CountSCDViolations(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var badCurrent, overlapping int64

	err := pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM (
            SELECT product_id
            FROM dim_product
            GROUP BY product_id
            HAVING COUNT(*) FILTER (WHERE is_current) <> 1
        ) bad
    `).Scan(&badCurrent)
	if err != nil {
		return 0, fmt.Errorf("failed to count current-version violations: %w", err)
	}

	err = pool.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM dim_product a
        JOIN dim_product b
          ON a.product_id = b.product_id
         AND a.product_key < b.product_key
         AND a.valid_from <= COALESCE(b.valid_to, 'infinity'::date)
         AND b.valid_from <= COALESCE(a.valid_to, 'infinity'::date)
    `).Scan(&overlapping)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping intervals: %w", err)
	}

	return badCurrent + overlapping, nil
}

// SeasonalRatio returns average daily sales volume in the peak months
// divided by the off-peak average. Returns are excluded; they would
// deflate the months they land in.
func SeasonalRatio(ctx context.Context, pool *pgxpool.Pool, peakMonths []int) (float64, error) {
	months := make([]int32, len(peakMonths))
	for i, m := range peakMonths {
		months[i] = int32(m)
	}

	var peak, offPeak float64
	err := pool.QueryRow(ctx, `
        SELECT
            COALESCE(AVG(daily) FILTER (WHERE month = ANY($1)), 0),
            COALESCE(AVG(daily) FILTER (WHERE NOT (month = ANY($1))), 0)
        FROM (
            SELECT sale_date,
                   EXTRACT(MONTH FROM sale_date)::int AS month,
                   COUNT(*)::float8 AS daily
            FROM fact_sales
            WHERE NOT is_return
            GROUP BY sale_date
        ) t
    `, months).Scan(&peak, &offPeak)
	if err != nil {
		return 0, fmt.Errorf("failed to compute seasonal ratio: %w", err)
	}

	if offPeak == 0 {
		return 0, nil
	}
	return peak / offPeak, nil
}

// CountAggregateDrift counts customers whose stored lifetime aggregates
// disagree with the fact stream. Always zero because the aggregates are
// derived after generation, but cheap to re-verify.
func CountAggregateDrift(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var drift int64
	err := pool.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM dim_customer c
        LEFT JOIN (
            SELECT customer_id,
                   COUNT(*) AS purchases,
                   COALESCE(SUM(net_amount), 0) AS spend
            FROM fact_sales
            WHERE customer_id IS NOT NULL
            GROUP BY customer_id
        ) a ON a.customer_id = c.customer_id
        WHERE c.lifetime_purchases <> COALESCE(a.purchases, 0)
           OR abs(c.lifetime_spend - COALESCE(a.spend, 0)) > 0.01
    `).Scan(&drift)
	if err != nil {
		return 0, fmt.Errorf("failed to count aggregate drift: %w", err)
	}
	return drift, nil
}
