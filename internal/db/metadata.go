//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Portions copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/logging"
	"github.com/quddusi-t/lcv-retail-analytics-platform/pkg/version"
)

const metadataTable = "lcv_seed_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS lcv_seed_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// RunMetadata describes a completed generation run. The verify command
// compares the live tables against these values.
type RunMetadata struct {
	RunID        string
	RandomSeed   uint64
	NumStores    int
	NumProducts  int
	NumCustomers int
	NumSales     int
	StartDate    string
	HorizonDays  int
}

// SaveRunMetadata records the run parameters after a successful swap.
func SaveRunMetadata(ctx context.Context, pool *pgxpool.Pool, md RunMetadata) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"run_id":        md.RunID,
		"version":       version.Short(),
		"generated_at":  time.Now().UTC().Format(time.RFC3339),
		"random_seed":   fmt.Sprintf("%d", md.RandomSeed),
		"num_stores":    fmt.Sprintf("%d", md.NumStores),
		"num_products":  fmt.Sprintf("%d", md.NumProducts),
		"num_customers": fmt.Sprintf("%d", md.NumCustomers),
		"num_sales":     fmt.Sprintf("%d", md.NumSales),
		"start_date":    md.StartDate,
		"horizon_days":  fmt.Sprintf("%d", md.HorizonDays),
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO lcv_seed_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", md.RunID).
		Uint64("random_seed", md.RandomSeed).
		Msg("Saved run metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM lcv_seed_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM lcv_seed_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
