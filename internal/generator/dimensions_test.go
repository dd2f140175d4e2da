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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/randstream"
)

func testSeedConfig() config.SeedConfig {
	cfg := config.DefaultConfig().Seed
	cfg.NumStores = 5
	cfg.NumProducts = 10
	cfg.NumCustomers = 20
	cfg.NumSales = 100
	cfg.DateRangeDays = 90
	return cfg
}

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBuildDatasetReproducible(t *testing.T) {
	cfg := testSeedConfig()

	d1 := BuildDataset(randstream.New(42), cfg, testStart)
	d2 := BuildDataset(randstream.New(42), cfg, testStart)

	require.Equal(t, d1.Dates, d2.Dates)
	require.Equal(t, d1.Stores, d2.Stores)
	require.Equal(t, d1.Products, d2.Products)
	require.Equal(t, d1.Customers, d2.Customers)
}

func TestBuildDatasetCardinality(t *testing.T) {
	cfg := testSeedConfig()
	ds := BuildDataset(randstream.New(42), cfg, testStart)

	assert.Len(t, ds.Dates, 90)
	assert.Len(t, ds.Stores, 5)
	assert.Len(t, ds.Products, 10)
	assert.Len(t, ds.Customers, 20)
	assert.Equal(t, 10, ds.NumProducts())
}

func TestGenerateDates(t *testing.T) {
	rows := GenerateDates(testStart, 366)

	first := rows[0]
	assert.Equal(t, 20240101, first.ID)
	assert.Equal(t, 1, first.DayOfWeek) // 2024-01-01 is a Monday
	assert.Equal(t, "Monday", first.DayName)
	assert.Equal(t, 1, first.Quarter)
	assert.False(t, first.IsWeekend)
	assert.True(t, first.IsHoliday)
	assert.Equal(t, "New Year's Day", first.HolidayName)

	// 2024-01-06 is a Saturday.
	sat := rows[5]
	assert.Equal(t, 6, sat.DayOfWeek)
	assert.True(t, sat.IsWeekend)

	// 2024-07-04 is day index 185.
	july4 := rows[185]
	assert.Equal(t, 20240704, july4.ID)
	assert.True(t, july4.IsHoliday)
	assert.Equal(t, "Independence Day", july4.HolidayName)
	assert.Equal(t, 3, july4.Quarter)

	// Dates are dense and strictly increasing.
	for i := 1; i < len(rows); i++ {
		require.Equal(t, rows[i-1].Date.AddDate(0, 0, 1), rows[i].Date)
		require.Greater(t, rows[i].ID, rows[i-1].ID)
	}
}

func TestGenerateStores(t *testing.T) {
	rows := GenerateStores(randstream.New(42), 50, testStart)
	require.Len(t, rows, 50)

	validRegions := map[string]bool{"North": true, "South": true, "East": true, "West": true, "Central": true}

	for _, r := range rows {
		assert.True(t, validRegions[r.Region], "region %q", r.Region)
		assert.Contains(t, storeTypes, r.Type)
		assert.Equal(t, storeTraffic[r.Type], r.TrafficFactor)
		assert.Positive(t, r.SquareMeters)
		assert.NotEmpty(t, r.City)
		assert.GreaterOrEqual(t, r.Latitude, 25.0)
		assert.LessOrEqual(t, r.Latitude, 48.0)
		assert.True(t, r.OpeningDate.Before(testStart), "store opened mid-horizon")
	}

	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, "ST0001", rows[0].Code)
	assert.Equal(t, 50, rows[49].ID)
}

func TestGenerateProductsWithoutPriceChanges(t *testing.T) {
	cfg := testSeedConfig()
	rows := GenerateProducts(randstream.New(42), cfg, testStart)
	require.Len(t, rows, 10)

	for _, r := range rows {
		assert.Equal(t, r.ID, r.Key, "single-version products use product_id as surrogate key")
		assert.True(t, r.IsCurrent)
		assert.Nil(t, r.ValidTo)
		assert.Equal(t, testStart, r.ValidFrom)
		assert.Positive(t, r.UnitCost)
		assert.Greater(t, r.ListPrice, r.UnitCost)
	}
}

func TestGenerateProductsPriceChanges(t *testing.T) {
	cfg := testSeedConfig()
	cfg.PriceChanges = true
	cfg.PriceChangeFraction = 1.0

	ds := BuildDataset(randstream.New(42), cfg, testStart)

	// Every product split into exactly two versions.
	require.Len(t, ds.Products, 20)

	end := testStart.AddDate(0, 0, cfg.DateRangeDays-1)
	for id := 1; id <= 10; id++ {
		versions := ds.versionIdx[id-1]
		require.Len(t, versions, 2)

		old := ds.Products[versions[0]]
		current := ds.Products[versions[1]]

		// Intervals are adjacent, disjoint, and cover the horizon.
		require.NotNil(t, old.ValidTo)
		assert.False(t, old.IsCurrent)
		assert.True(t, current.IsCurrent)
		assert.Nil(t, current.ValidTo)
		assert.Equal(t, testStart, old.ValidFrom)
		assert.Equal(t, old.ValidTo.AddDate(0, 0, 1), current.ValidFrom)
		assert.True(t, current.ValidFrom.After(testStart))
		assert.False(t, current.ValidFrom.After(end))

		// The new version keeps the natural key, gets a fresh surrogate.
		assert.Equal(t, id, old.Key)
		assert.Equal(t, id, current.ID)
		assert.Greater(t, current.Key, 10)

		// Price changed, cost did not.
		assert.Equal(t, old.UnitCost, current.UnitCost)
		assert.NotEqual(t, old.ListPrice, current.ListPrice)

		// Every day of the horizon resolves to exactly one version.
		for day := 0; day < cfg.DateRangeDays; day++ {
			v := ds.VersionFor(id, testStart.AddDate(0, 0, day))
			require.NotNil(t, v)
		}
		assert.Equal(t, old.Key, ds.VersionFor(id, *old.ValidTo).Key)
		assert.Equal(t, current.Key, ds.VersionFor(id, current.ValidFrom).Key)
	}
}

func TestVersionForOutOfRange(t *testing.T) {
	cfg := testSeedConfig()
	ds := BuildDataset(randstream.New(42), cfg, testStart)

	assert.Nil(t, ds.VersionFor(0, testStart))
	assert.Nil(t, ds.VersionFor(11, testStart))
	assert.Nil(t, ds.VersionFor(1, testStart.AddDate(0, 0, -1)))
}

func TestGenerateCustomers(t *testing.T) {
	cfg := testSeedConfig()
	cfg.NumCustomers = 1000
	rows := GenerateCustomers(randstream.New(42), cfg, testStart)
	require.Len(t, rows, 1000)

	members := 0
	for _, r := range rows {
		if r.Loyalty {
			members++
			require.NotNil(t, r.JoinDate, "loyalty member without join date")
		} else {
			require.Nil(t, r.JoinDate, "walk-in customer with join date")
		}
		assert.GreaterOrEqual(t, r.PurchaseRate, 1.0)
		assert.Positive(t, r.MonetaryScale)
	}

	// ~70% loyalty membership.
	assert.InDelta(t, 700, members, 60)
}

func TestProductMonthWeights(t *testing.T) {
	cfg := testSeedConfig()
	ds := BuildDataset(randstream.New(42), cfg, testStart)

	for id := 1; id <= ds.NumProducts(); id++ {
		for m := 1; m <= 12; m++ {
			assert.Positive(t, ds.MonthWeight(id, m))
		}
	}

	// Product 1 is Textile: spring/autumn peaks beat midsummer.
	assert.Greater(t, ds.MonthWeight(1, 3), ds.MonthWeight(1, 7))
	// Product 2 is Accessories: December is the gifting peak.
	assert.Greater(t, ds.MonthWeight(2, 12), ds.MonthWeight(2, 6))
}
