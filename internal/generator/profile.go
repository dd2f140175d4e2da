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
	"time"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
)

// Baseline traffic weight per store type. Flagship stores dominate volume;
// pop-ups barely register.
var storeTraffic = map[string]float64{
	"Flagship": 3.0,
	"Standard": 1.0,
	"Express":  0.7,
	"Pop-up":   0.4,
}

// Baseline demand per category, before seasonality.
var categoryPopularity = map[string]float64{
	"Textile":     1.2,
	"Accessories": 1.0,
	"Seasonal":    0.8,
}

// Monthly seasonal curves per category, one weight per calendar month.
// Textile peaks at the wardrobe changeovers, accessories at the gifting
// season, seasonal goods at both solstices.
var categoryCurves = map[string][12]float64{
	"Textile":     {0.9, 0.9, 1.4, 1.4, 1.0, 0.9, 0.8, 0.9, 1.4, 1.4, 1.0, 1.0},
	"Accessories": {0.8, 0.8, 0.9, 0.9, 1.0, 1.0, 0.9, 0.9, 1.0, 1.1, 1.3, 1.8},
	"Seasonal":    {1.4, 0.9, 0.7, 0.7, 0.9, 1.5, 1.5, 0.9, 0.7, 0.8, 1.0, 1.5},
}

// productMonthWeights returns the 12-slot demand vector for a category:
// baseline popularity scaled by the category's seasonal curve.
func productMonthWeights(category string) [12]float64 {
	base := categoryPopularity[category]
	curve := categoryCurves[category]

	var w [12]float64
	for i := range w {
		w[i] = base * curve[i]
	}
	return w
}

// dateWeight returns the sampling weight of a calendar day: weekends and
// configured peak months are amplified multiplicatively.
func dateWeight(cfg config.SeedConfig, date time.Time) float64 {
	w := 1.0

	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		w *= cfg.WeekendMultiplier
	}

	month := int(date.Month())
	for _, m := range cfg.PeakMonths {
		if m == month {
			w *= cfg.PeakMultiplier
			break
		}
	}
	return w
}
