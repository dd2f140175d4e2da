//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/db"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/testutil"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/warehouse"
)

func integrationSeedConfig() config.SeedConfig {
	cfg := config.DefaultConfig().Seed
	cfg.NumStores = 5
	cfg.NumProducts = 20
	cfg.NumCustomers = 50
	cfg.NumSales = 2000
	cfg.DateRangeDays = 120
	cfg.BatchSize = 500
	cfg.StartDate = "2024-01-01"
	cfg.PriceChanges = true
	cfg.PriceChangeFraction = 0.5
	return cfg
}

func TestGeneratorEndToEnd(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr)
	defer testutil.DropTestDB(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	cfg := integrationSeedConfig()
	md, err := New(pool, cfg).Run(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, md.RunID)

	counts, err := warehouse.TableCounts(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, int64(120), counts["dim_date"])
	assert.Equal(t, int64(5), counts["dim_store"])
	assert.Equal(t, int64(50), counts["dim_customer"])
	assert.Equal(t, int64(2000), counts["fact_sales"])
	// Versions, not products: price changes add rows.
	assert.GreaterOrEqual(t, counts["dim_product"], int64(20))

	violations, err := warehouse.CountInvariantViolations(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, violations.Total())

	orphans, err := warehouse.CountOrphans(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, orphans.Total())

	scd, err := warehouse.CountSCDViolations(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, scd)

	drift, err := warehouse.CountAggregateDrift(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, drift)

	saved, err := db.GetMetadataValue(ctx, pool, "num_sales")
	require.NoError(t, err)
	assert.Equal(t, "2000", saved)

	// No stage tables survive a successful run.
	for _, table := range warehouse.LiveTables {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM pg_tables WHERE tablename = $1)",
			warehouse.StageName(table)).Scan(&exists)
		require.NoError(t, err)
		assert.False(t, exists, "stage table %s left behind", warehouse.StageName(table))
	}
}

func TestGeneratorRerunIsIdempotent(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr)
	defer testutil.DropTestDB(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	cfg := integrationSeedConfig()

	_, err = New(pool, cfg).Run(ctx)
	require.NoError(t, err)
	sum1 := factChecksum(ctx, t, pool)

	// Same seed, same pinned start date: the republished dataset is
	// identical, not appended to.
	_, err = New(pool, cfg).Run(ctx)
	require.NoError(t, err)
	sum2 := factChecksum(ctx, t, pool)

	assert.Equal(t, sum1, sum2)
}

func TestPipelineMatchesSequential(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr)
	defer testutil.DropTestDB(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	cfg := integrationSeedConfig()
	_, err = New(pool, cfg).Run(ctx)
	require.NoError(t, err)
	sequential := factChecksum(ctx, t, pool)

	cfg.Pipeline = true
	_, err = New(pool, cfg).Run(ctx)
	require.NoError(t, err)
	pipelined := factChecksum(ctx, t, pool)

	assert.Equal(t, sequential, pipelined)
}

// factChecksum reduces the fact table to an order-independent digest for
// comparing datasets across runs.
func factChecksum(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var sum string
	err := pool.QueryRow(ctx, `
        SELECT md5(string_agg(sale_id::text || ':' || store_id || ':' || product_key || ':' ||
                              COALESCE(customer_id, 0) || ':' || sale_date || ':' || quantity || ':' ||
                              net_amount || ':' || margin_amount, ',' ORDER BY sale_id))
        FROM fact_sales
    `).Scan(&sum)
	if err != nil {
		t.Fatalf("failed to checksum fact table: %v", err)
	}
	return sum
}
