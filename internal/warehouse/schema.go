//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse owns the star schema: dimension and fact DDL, the
// staging-and-swap lifecycle that makes regeneration idempotent, and the
// verification queries run against a published dataset.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StageSuffix is appended to every table name during generation. A run
// writes only to stage tables; the previous dataset stays live and intact
// until the final swap transaction.
const StageSuffix = "__stage"

// LiveTables lists the schema tables in dependency order (dimensions
// first, fact last).
var LiveTables = []string{
	"dim_date",
	"dim_store",
	"dim_product",
	"dim_customer",
	"fact_sales",
}

// StageName returns the staging name for a live table.
func StageName(table string) string {
	return table + StageSuffix
}

// Stage schema. Check and foreign-key constraints mirror the generator's
// invariants so the database rejects anything the validator would. The
// checks are sign-aware: returns carry negated quantity and amounts.
const createStageSchemaSQL = `
CREATE TABLE dim_date__stage (
    date_id        INTEGER PRIMARY KEY,
    date_value     DATE NOT NULL UNIQUE,
    day_of_week    INTEGER NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
    day_name       VARCHAR(9) NOT NULL,
    week_of_year   INTEGER NOT NULL,
    month          INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    month_name     VARCHAR(9) NOT NULL,
    quarter        INTEGER NOT NULL CHECK (quarter BETWEEN 1 AND 4),
    fiscal_quarter INTEGER NOT NULL,
    year           INTEGER NOT NULL,
    fiscal_year    INTEGER NOT NULL,
    is_weekend     BOOLEAN NOT NULL,
    is_holiday     BOOLEAN NOT NULL,
    holiday_name   VARCHAR(40)
);

CREATE TABLE dim_store__stage (
    store_id      INTEGER PRIMARY KEY,
    store_name    VARCHAR(60) NOT NULL,
    store_code    CHAR(6) NOT NULL,
    region        VARCHAR(20) NOT NULL,
    country       VARCHAR(20) NOT NULL,
    city          VARCHAR(60) NOT NULL,
    latitude      NUMERIC(9,6) NOT NULL,
    longitude     NUMERIC(9,6) NOT NULL,
    store_type    VARCHAR(20) NOT NULL,
    opening_date  DATE NOT NULL,
    closing_date  DATE,
    store_manager VARCHAR(40),
    status        VARCHAR(10) NOT NULL,
    square_meters INTEGER NOT NULL CHECK (square_meters > 0)
);

CREATE TABLE dim_product__stage (
    product_key  INTEGER PRIMARY KEY,
    product_id   INTEGER NOT NULL,
    product_name VARCHAR(60) NOT NULL,
    product_code CHAR(8) NOT NULL,
    category     VARCHAR(20) NOT NULL,
    subcategory  VARCHAR(20) NOT NULL,
    color        VARCHAR(20),
    size         VARCHAR(10),
    material     VARCHAR(20),
    season       VARCHAR(12),
    brand        VARCHAR(20),
    unit_cost    NUMERIC(10,2) NOT NULL CHECK (unit_cost > 0),
    list_price   NUMERIC(10,2) NOT NULL CHECK (list_price > 0),
    valid_from   DATE NOT NULL,
    valid_to     DATE,
    is_current   BOOLEAN NOT NULL,
    CHECK (valid_to IS NULL OR valid_to >= valid_from),
    CHECK (is_current = (valid_to IS NULL))
);

CREATE TABLE dim_customer__stage (
    customer_id         INTEGER PRIMARY KEY,
    loyalty_member      BOOLEAN NOT NULL,
    join_date           DATE,
    first_purchase_date DATE,
    last_purchase_date  DATE,
    lifetime_purchases  INTEGER NOT NULL DEFAULT 0,
    lifetime_spend      NUMERIC(14,2) NOT NULL DEFAULT 0,
    country             VARCHAR(20) NOT NULL,
    status              VARCHAR(10) NOT NULL
);

CREATE TABLE fact_sales__stage (
    sale_id         BIGINT PRIMARY KEY,
    store_id        INTEGER NOT NULL REFERENCES dim_store__stage (store_id),
    product_key     INTEGER NOT NULL REFERENCES dim_product__stage (product_key),
    product_id      INTEGER NOT NULL,
    customer_id     INTEGER REFERENCES dim_customer__stage (customer_id),
    sale_date       DATE NOT NULL REFERENCES dim_date__stage (date_value),
    quantity        INTEGER NOT NULL,
    unit_price      NUMERIC(10,2) NOT NULL CHECK (unit_price > 0),
    total_amount    NUMERIC(12,2) NOT NULL,
    discount_pct    NUMERIC(5,2) NOT NULL CHECK (discount_pct >= 0 AND discount_pct <= 100),
    discount_amount NUMERIC(12,2) NOT NULL CHECK (discount_amount >= 0),
    net_amount      NUMERIC(12,2) NOT NULL,
    cost_amount     NUMERIC(12,2) NOT NULL,
    margin_amount   NUMERIC(12,2) NOT NULL,
    payment_method  VARCHAR(20) NOT NULL,
    is_return       BOOLEAN NOT NULL DEFAULT FALSE,
    CHECK ((NOT is_return AND quantity > 0) OR (is_return AND quantity < 0)),
    CHECK ((NOT is_return AND net_amount >= 0) OR (is_return AND net_amount <= 0)),
    CHECK ((NOT is_return AND cost_amount > 0) OR (is_return AND cost_amount < 0)),
    CHECK (abs(net_amount - cost_amount - margin_amount) <= 0.01)
);
`

// Fact indexes are created on the live tables after the swap; the previous
// generation's indexes disappear with the dropped tables, so the names are
// always free.
const createIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_fact_sales_date ON fact_sales (sale_date);
CREATE INDEX IF NOT EXISTS idx_fact_sales_store ON fact_sales (store_id);
CREATE INDEX IF NOT EXISTS idx_fact_sales_product ON fact_sales (product_id);
CREATE INDEX IF NOT EXISTS idx_fact_sales_customer ON fact_sales (customer_id);
CREATE INDEX IF NOT EXISTS idx_fact_sales_store_product_date ON fact_sales (store_id, product_id, sale_date);
CREATE INDEX IF NOT EXISTS idx_dim_product_id ON dim_product (product_id);
`

// CreateStageSchema drops any leftover stage tables and creates a fresh
// staging schema.
func CreateStageSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if err := dropTables(ctx, pool, stageTablesReversed()); err != nil {
		return fmt.Errorf("failed to drop stale stage tables: %w", err)
	}
	if _, err := pool.Exec(ctx, createStageSchemaSQL); err != nil {
		return fmt.Errorf("failed to create stage schema: %w", err)
	}
	return nil
}

// SwapStage atomically publishes the staged dataset: the live tables are
// dropped and the stage tables renamed in a single transaction. Readers
// never observe a partially generated dataset.
func SwapStage(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin swap transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := len(LiveTables) - 1; i >= 0; i-- {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", LiveTables[i])); err != nil {
			return fmt.Errorf("failed to drop %s: %w", LiveTables[i], err)
		}
	}
	for _, table := range LiveTables {
		stmt := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", StageName(table), table)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to rename %s: %w", StageName(table), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit swap: %w", err)
	}
	return nil
}

// CreateIndexes creates the analytical indexes on the live tables.
func CreateIndexes(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createIndexesSQL); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// DropSchema drops the live and stage tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if err := dropTables(ctx, pool, stageTablesReversed()); err != nil {
		return err
	}
	live := make([]string, len(LiveTables))
	copy(live, LiveTables)
	reverse(live)
	return dropTables(ctx, pool, live)
}

// UpdateCustomerAggregates recomputes the customer lifetime aggregates
// from the staged fact stream before the swap. The aggregates are derived,
// never independently sampled, so they cannot drift from the facts.
func UpdateCustomerAggregates(ctx context.Context, pool *pgxpool.Pool) error {
	stmt := fmt.Sprintf(`
        UPDATE %s c SET
            lifetime_purchases  = a.purchases,
            lifetime_spend      = a.spend,
            first_purchase_date = a.first_purchase,
            last_purchase_date  = a.last_purchase
        FROM (
            SELECT customer_id,
                   COUNT(*)                   AS purchases,
                   COALESCE(SUM(net_amount), 0) AS spend,
                   MIN(sale_date)             AS first_purchase,
                   MAX(sale_date)             AS last_purchase
            FROM %s
            WHERE customer_id IS NOT NULL
            GROUP BY customer_id
        ) a
        WHERE c.customer_id = a.customer_id
    `, StageName("dim_customer"), StageName("fact_sales"))

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to update customer aggregates: %w", err)
	}
	return nil
}

func dropTables(ctx context.Context, pool *pgxpool.Pool, tables []string) error {
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

func stageTablesReversed() []string {
	tables := make([]string, len(LiveTables))
	for i, t := range LiveTables {
		tables[i] = StageName(t)
	}
	reverse(tables)
	return tables
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// EscapeSingleQuote doubles single quotes for safe embedding in multi-row
// VALUES literals.
func EscapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
