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
	"fmt"
	"time"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/randstream"
)

// Fixed product taxonomy. Order matters: products are assigned to
// categories round-robin by index, so reordering would change generated
// datasets for a given seed.
var categories = []struct {
	Name string
	Subs []string
}{
	{"Textile", []string{"T-Shirt", "Dress", "Pants", "Jacket", "Sweater"}},
	{"Accessories", []string{"Hat", "Scarf", "Bag", "Shoes", "Gloves"}},
	{"Seasonal", []string{"Swimwear", "Thermal", "Snow Boots", "Sunglasses", "Winter Coat"}},
}

var (
	regions       = []string{"North", "South", "East", "West", "Central"}
	regionWeights = []float64{0.25, 0.20, 0.20, 0.20, 0.15}

	storeTypes       = []string{"Flagship", "Standard", "Express", "Pop-up"}
	storeTypeWeights = []float64{0.10, 0.60, 0.20, 0.10}

	productSizes     = []string{"XS", "S", "M", "L", "XL"}
	productMaterials = []string{"Cotton", "Wool", "Polyester", "Leather", "Silk", "Denim"}
	productSeasons   = []string{"Spring", "Summer", "Autumn", "Winter", "All-season"}
	productBrands    = []string{"Nordica", "Vetra", "Lumen", "Calder", "Ostro", "Brayne", "Ilona", "Marek"}
)

// Per-category log-normal cost parameters and list-price markup band.
var costParams = map[string]struct {
	Mu, Sigma            float64
	MinCost, MaxCost     float64
	MinMarkup, MaxMarkup float64
}{
	"Textile":     {2.89, 0.50, 5, 80, 1.6, 2.6},
	"Accessories": {3.22, 0.60, 5, 120, 1.8, 3.0},
	"Seasonal":    {3.40, 0.60, 8, 150, 1.5, 2.8},
}

var holidays = map[string]string{
	"01-01": "New Year's Day",
	"07-04": "Independence Day",
	"12-25": "Christmas Day",
}

// BuildDataset generates every dimension plus the behavioral profiles in
// one fixed order from the given stream. The order of generation is part
// of the reproducibility contract: dates, stores, products, price-change
// versions, customers, then seasonal weights.
func BuildDataset(s *randstream.Stream, cfg config.SeedConfig, start time.Time) *Dataset {
	d := &Dataset{
		Start:   start,
		Horizon: cfg.DateRangeDays,
	}
	d.Dates = GenerateDates(start, cfg.DateRangeDays)
	d.Stores = GenerateStores(s, cfg.NumStores, start)
	d.Products = GenerateProducts(s, cfg, start)
	d.Customers = GenerateCustomers(s, cfg, start)

	d.versionIdx = make([][]int, cfg.NumProducts)
	for i, p := range d.Products {
		d.versionIdx[p.ID-1] = append(d.versionIdx[p.ID-1], i)
	}

	d.monthWeights = make([][12]float64, cfg.NumProducts)
	for id := 1; id <= cfg.NumProducts; id++ {
		first := d.Products[d.versionIdx[id-1][0]]
		d.monthWeights[id-1] = productMonthWeights(first.Category)
	}

	return d
}

// GenerateDates enumerates one row per day of the horizon. No randomness:
// every column is derived from the date itself.
func GenerateDates(start time.Time, days int) []DateRow {
	rows := make([]DateRow, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		y, m, day := date.Date()
		_, week := date.ISOWeek()

		dow := int(date.Weekday())
		if dow == 0 {
			dow = 7
		}

		holidayName, isHoliday := holidays[fmt.Sprintf("%02d-%02d", int(m), day)]

		rows[i] = DateRow{
			ID:            y*10000 + int(m)*100 + day,
			Date:          date,
			DayOfWeek:     dow,
			DayName:       date.Weekday().String(),
			WeekOfYear:    week,
			Month:         int(m),
			MonthName:     m.String(),
			Quarter:       (int(m)-1)/3 + 1,
			FiscalQuarter: (int(m)-1)/3 + 1,
			Year:          y,
			FiscalYear:    y,
			IsWeekend:     dow >= 6,
			IsHoliday:     isHoliday,
			HolidayName:   holidayName,
		}
	}
	return rows
}

// GenerateStores generates the store dimension. Regions and store types
// are weighted categorical draws; the store type also fixes the latent
// traffic factor used during fact sampling. Opening dates precede the
// horizon start so every store exists for the whole fact stream.
func GenerateStores(s *randstream.Stream, n int, start time.Time) []StoreRow {
	rows := make([]StoreRow, n)
	for i := 0; i < n; i++ {
		region := regions[s.ChooseWeighted(regionWeights)]
		storeType := storeTypes[s.ChooseWeighted(storeTypeWeights)]

		rows[i] = StoreRow{
			ID:            i + 1,
			Name:          fmt.Sprintf("Store %d - %s", i+1, region),
			Code:          fmt.Sprintf("ST%04d", i+1),
			Region:        region,
			Country:       "USA",
			City:          s.City(),
			Latitude:      round6(s.Float64(25.0, 48.0)),
			Longitude:     round6(s.Float64(-124.0, -67.0)),
			Type:          storeType,
			OpeningDate:   start.AddDate(0, 0, -s.Int(365, 3650)),
			Manager:       s.Name(),
			Status:        "Active",
			SquareMeters:  storeFootprint(s, storeType),
			TrafficFactor: storeTraffic[storeType],
		}
	}
	return rows
}

func storeFootprint(s *randstream.Stream, storeType string) int {
	switch storeType {
	case "Flagship":
		return s.Int(800, 2500)
	case "Express":
		return s.Int(80, 250)
	case "Pop-up":
		return s.Int(30, 120)
	default:
		return s.Int(250, 900)
	}
}

// GenerateProducts generates the product dimension. Base versions come
// first with product_key == product_id; when price-change simulation is
// on, a second pass splits a sampled fraction of products into two
// validity intervals, appending the new versions with fresh surrogate
// keys. Intervals per product are disjoint and cover the full horizon.
func GenerateProducts(s *randstream.Stream, cfg config.SeedConfig, start time.Time) []ProductRow {
	n := cfg.NumProducts
	rows := make([]ProductRow, 0, n)

	for i := 0; i < n; i++ {
		cat := categories[i%len(categories)]
		sub := cat.Subs[(i/len(categories))%len(cat.Subs)]
		cp := costParams[cat.Name]

		cost := clamp(s.LogNormal(cp.Mu, cp.Sigma), cp.MinCost, cp.MaxCost)
		price := cost * s.Float64(cp.MinMarkup, cp.MaxMarkup)

		// Two-letter suffix derived from the index keeps names unique
		// without consuming draws.
		suffix := string(rune('A'+i%26)) + string(rune('A'+(i/26)%26))

		rows = append(rows, ProductRow{
			Key:         i + 1,
			ID:          i + 1,
			Name:        fmt.Sprintf("%s %s", sub, suffix),
			Code:        fmt.Sprintf("PRD%05d", i+1),
			Category:    cat.Name,
			Subcategory: sub,
			Color:       s.Color(),
			Size:        randstream.Choose(s, productSizes),
			Material:    randstream.Choose(s, productMaterials),
			Season:      randstream.Choose(s, productSeasons),
			Brand:       randstream.Choose(s, productBrands),
			UnitCost:    round2(cost),
			ListPrice:   round2(price),
			ValidFrom:   start,
			ValidTo:     nil,
			IsCurrent:   true,
		})
	}

	if !cfg.PriceChanges {
		return rows
	}

	nextKey := n + 1
	for i := 0; i < n; i++ {
		if !s.Bool(cfg.PriceChangeFraction) {
			continue
		}

		// Change takes effect somewhere in the middle half of the horizon.
		offset := s.Int(cfg.DateRangeDays/4, cfg.DateRangeDays*3/4)
		changeDate := start.AddDate(0, 0, offset)

		magnitude := s.Float64(0.05, 0.25)
		if s.Bool(0.5) {
			magnitude = -magnitude
		}

		old := &rows[i]
		current := *old
		current.Key = nextKey
		current.ListPrice = round2(old.ListPrice * (1 + magnitude))
		current.ValidFrom = changeDate

		expired := changeDate.AddDate(0, 0, -1)
		old.ValidTo = &expired
		old.IsCurrent = false

		rows = append(rows, current)
		nextKey++
	}

	return rows
}

// GenerateCustomers generates the customer dimension. The behavioral
// profile (purchase rate, monetary scale) is drawn for every customer,
// members and walk-ins alike, so the draw order does not depend on the
// loyalty outcome.
func GenerateCustomers(s *randstream.Stream, cfg config.SeedConfig, start time.Time) []CustomerRow {
	end := start.AddDate(0, 0, cfg.DateRangeDays-1)

	rows := make([]CustomerRow, cfg.NumCustomers)
	for i := range rows {
		loyalty := s.Bool(cfg.LoyaltyProb)

		var joinDate *time.Time
		if loyalty {
			d := end.AddDate(0, 0, -s.Int(30, 1000))
			joinDate = &d
		}

		rows[i] = CustomerRow{
			ID:            i + 1,
			Loyalty:       loyalty,
			JoinDate:      joinDate,
			Country:       "USA",
			Status:        "Active",
			PurchaseRate:  s.Pareto(1.0, 1.5),
			MonetaryScale: s.LogNormal(0, 0.5),
		}
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
