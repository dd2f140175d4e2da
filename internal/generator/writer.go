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
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/warehouse"
)

const (
	dateColumns = "(date_id, date_value, day_of_week, day_name, week_of_year, month, month_name, " +
		"quarter, fiscal_quarter, year, fiscal_year, is_weekend, is_holiday, holiday_name)"

	storeColumns = "(store_id, store_name, store_code, region, country, city, latitude, longitude, " +
		"store_type, opening_date, closing_date, store_manager, status, square_meters)"

	productColumns = "(product_key, product_id, product_name, product_code, category, subcategory, " +
		"color, size, material, season, brand, unit_cost, list_price, valid_from, valid_to, is_current)"

	customerColumns = "(customer_id, loyalty_member, join_date, country, status)"

	saleColumns = "(sale_id, store_id, product_key, product_id, customer_id, sale_date, quantity, " +
		"unit_price, total_amount, discount_pct, discount_amount, net_amount, cost_amount, " +
		"margin_amount, payment_method, is_return)"
)

// batchWriter accumulates formatted VALUES tuples and flushes them as
// multi-row INSERT statements against a stage table.
type batchWriter struct {
	pool      *pgxpool.Pool
	table     string
	columns   string
	batchSize int
	batch     []string
	progress  *ProgressReporter
}

func newBatchWriter(pool *pgxpool.Pool, table, columns string, batchSize int, total int64) *batchWriter {
	return &batchWriter{
		pool:      pool,
		table:     table,
		columns:   columns,
		batchSize: batchSize,
		batch:     make([]string, 0, batchSize),
		progress:  NewProgressReporter(table, total, total/10),
	}
}

func (w *batchWriter) add(ctx context.Context, values string) error {
	w.batch = append(w.batch, values)
	if len(w.batch) >= w.batchSize {
		return w.flush(ctx)
	}
	return nil
}

func (w *batchWriter) flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s", w.table, w.columns, strings.Join(w.batch, ", "))
	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", w.table, err)
	}
	w.progress.Update(int64(len(w.batch)))
	w.batch = w.batch[:0]
	return nil
}

func (w *batchWriter) done(ctx context.Context) error {
	if err := w.flush(ctx); err != nil {
		return err
	}
	w.progress.Done()
	return nil
}

func dateValues(r DateRow) string {
	return fmt.Sprintf("(%d, %s, %d, %s, %d, %d, %s, %d, %d, %d, %d, %t, %t, %s)",
		r.ID, sqlDate(r.Date), r.DayOfWeek, sqlString(r.DayName), r.WeekOfYear,
		r.Month, sqlString(r.MonthName), r.Quarter, r.FiscalQuarter, r.Year, r.FiscalYear,
		r.IsWeekend, r.IsHoliday, sqlNullableString(r.HolidayName))
}

func storeValues(r StoreRow) string {
	return fmt.Sprintf("(%d, %s, %s, %s, %s, %s, %.6f, %.6f, %s, %s, NULL, %s, %s, %d)",
		r.ID, sqlString(r.Name), sqlString(r.Code), sqlString(r.Region), sqlString(r.Country),
		sqlString(r.City), r.Latitude, r.Longitude, sqlString(r.Type), sqlDate(r.OpeningDate),
		sqlString(r.Manager), sqlString(r.Status), r.SquareMeters)
}

func productValues(r ProductRow) string {
	return fmt.Sprintf("(%d, %d, %s, %s, %s, %s, %s, %s, %s, %s, %s, %.2f, %.2f, %s, %s, %t)",
		r.Key, r.ID, sqlString(r.Name), sqlString(r.Code), sqlString(r.Category),
		sqlString(r.Subcategory), sqlString(r.Color), sqlString(r.Size), sqlString(r.Material),
		sqlString(r.Season), sqlString(r.Brand), r.UnitCost, r.ListPrice,
		sqlDate(r.ValidFrom), sqlNullableDate(r.ValidTo), r.IsCurrent)
}

func customerValues(r CustomerRow) string {
	return fmt.Sprintf("(%d, %t, %s, %s, %s)",
		r.ID, r.Loyalty, sqlNullableDate(r.JoinDate), sqlString(r.Country), sqlString(r.Status))
}

func saleValues(r SaleRow) string {
	customer := "NULL"
	if r.CustomerID > 0 {
		customer = fmt.Sprintf("%d", r.CustomerID)
	}
	return fmt.Sprintf("(%d, %d, %d, %d, %s, %s, %d, %.2f, %.2f, %.2f, %.2f, %.2f, %.2f, %.2f, %s, %t)",
		r.ID, r.StoreID, r.ProductKey, r.ProductID, customer, sqlDate(r.Date), r.Quantity,
		r.UnitPrice, r.TotalAmount, r.DiscountPct, r.DiscountAmount, r.NetAmount, r.CostAmount,
		r.MarginAmount, sqlString(r.PaymentMethod), r.IsReturn)
}

func sqlString(s string) string {
	return "'" + warehouse.EscapeSingleQuote(s) + "'"
}

func sqlNullableString(s string) string {
	if s == "" {
		return "NULL"
	}
	return sqlString(s)
}

func sqlDate(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func sqlNullableDate(t *time.Time) string {
	if t == nil {
		return "NULL"
	}
	return sqlDate(*t)
}
