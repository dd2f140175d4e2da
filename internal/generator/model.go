//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package generator implements the synthetic star-schema dataset
// generator: dimension generation, behavioral profiles, the fact sampler
// with its invariant validator, and the batch writer.
package generator

import "time"

// DateRow is one day of the date dimension. Every derived field is a pure
// function of the date.
type DateRow struct {
	ID            int // YYYYMMDD
	Date          time.Time
	DayOfWeek     int // Monday = 1
	DayName       string
	WeekOfYear    int
	Month         int
	MonthName     string
	Quarter       int
	FiscalQuarter int
	Year          int
	FiscalYear    int
	IsWeekend     bool
	IsHoliday     bool
	HolidayName   string
}

// StoreRow is one store dimension row. TrafficFactor is the latent
// baseline traffic weight for the store's type; it drives fact sampling
// and is never written to the database.
type StoreRow struct {
	ID            int
	Name          string
	Code          string
	Region        string
	Country       string
	City          string
	Latitude      float64
	Longitude     float64
	Type          string
	OpeningDate   time.Time
	Manager       string
	Status        string
	SquareMeters  int
	TrafficFactor float64
}

// ProductRow is one product version. With price-change simulation off
// there is exactly one version per product and Key == ID; additional
// versions get fresh surrogate keys. ValidTo nil marks the current
// version.
type ProductRow struct {
	Key         int
	ID          int
	Name        string
	Code        string
	Category    string
	Subcategory string
	Color       string
	Size        string
	Material    string
	Season      string
	Brand       string
	UnitCost    float64
	ListPrice   float64
	ValidFrom   time.Time
	ValidTo     *time.Time
	IsCurrent   bool
}

// CustomerRow is one customer dimension row. PurchaseRate and
// MonetaryScale are the latent behavioral profile, assigned once at
// creation and immutable afterwards. Lifetime aggregates are not held
// here; they are derived in SQL from the fact stream after generation.
type CustomerRow struct {
	ID            int
	Loyalty       bool
	JoinDate      *time.Time
	Country       string
	Status        string
	PurchaseRate  float64
	MonetaryScale float64
}

// SaleRow is one fact row. CustomerID 0 means a walk-in sale (NULL in the
// database); generated customer ids start at 1.
type SaleRow struct {
	ID             int64
	StoreID        int
	ProductKey     int
	ProductID      int
	CustomerID     int
	Date           time.Time
	Quantity       int
	UnitPrice      float64
	TotalAmount    float64
	DiscountPct    float64
	DiscountAmount float64
	NetAmount      float64
	CostAmount     float64
	MarginAmount   float64
	PaymentMethod  string
	IsReturn       bool
}

// Dataset holds the fully generated, frozen dimensions plus the derived
// lookup structures the fact sampler needs. Nothing in a Dataset is
// mutated once fact generation begins.
type Dataset struct {
	Start     time.Time
	Horizon   int
	Dates     []DateRow
	Stores    []StoreRow
	Products  []ProductRow // all versions, ascending surrogate key
	Customers []CustomerRow

	// versionIdx maps product_id-1 to the indexes of its versions in
	// Products, ordered by ValidFrom.
	versionIdx [][]int

	// monthWeights holds the 12-slot seasonal demand vector per
	// product_id-1.
	monthWeights [][12]float64
}

// VersionFor returns the product version valid on the given date, or nil
// when no interval covers it.
func (d *Dataset) VersionFor(productID int, date time.Time) *ProductRow {
	if productID < 1 || productID > len(d.versionIdx) {
		return nil
	}
	for _, idx := range d.versionIdx[productID-1] {
		p := &d.Products[idx]
		if date.Before(p.ValidFrom) {
			continue
		}
		if p.ValidTo == nil || !date.After(*p.ValidTo) {
			return p
		}
	}
	return nil
}

// MonthWeight returns the seasonal demand weight of a product for a
// calendar month (1-12).
func (d *Dataset) MonthWeight(productID, month int) float64 {
	return d.monthWeights[productID-1][month-1]
}

// NumProducts returns the number of distinct products (not versions).
func (d *Dataset) NumProducts() int {
	return len(d.versionIdx)
}
