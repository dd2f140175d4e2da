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
	"math"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/randstream"
)

var (
	paymentMethods       = []string{"Cash", "Credit Card", "Debit Card", "Mobile Pay"}
	paymentMethodWeights = []float64{0.20, 0.40, 0.25, 0.15}
)

// Sampler draws fact rows against a frozen Dataset. All weight vectors are
// materialized as prefix-sum samplers up front; Next consumes a bounded,
// fixed-order sequence of uniform draws per attempt.
type Sampler struct {
	cfg config.SeedConfig
	ds  *Dataset

	dates    *randstream.IndexSampler
	stores   *randstream.IndexSampler
	products [12]*randstream.IndexSampler
	payments *randstream.IndexSampler

	loyaltyIDs []int
	loyalty    *randstream.IndexSampler
}

// NewSampler precomputes the date, store, per-month product and loyalty
// customer samplers.
func NewSampler(ds *Dataset, cfg config.SeedConfig) *Sampler {
	sp := &Sampler{cfg: cfg, ds: ds}

	dateWeights := make([]float64, len(ds.Dates))
	for i, d := range ds.Dates {
		dateWeights[i] = dateWeight(cfg, d.Date)
	}
	sp.dates = randstream.NewIndexSampler(dateWeights)

	storeWeights := make([]float64, len(ds.Stores))
	for i, st := range ds.Stores {
		storeWeights[i] = st.TrafficFactor
	}
	sp.stores = randstream.NewIndexSampler(storeWeights)

	for m := 1; m <= 12; m++ {
		weights := make([]float64, ds.NumProducts())
		for id := 1; id <= ds.NumProducts(); id++ {
			weights[id-1] = ds.MonthWeight(id, m)
		}
		sp.products[m-1] = randstream.NewIndexSampler(weights)
	}

	for _, c := range ds.Customers {
		if c.Loyalty {
			sp.loyaltyIDs = append(sp.loyaltyIDs, c.ID)
		}
	}
	loyaltyWeights := make([]float64, len(sp.loyaltyIDs))
	for i, id := range sp.loyaltyIDs {
		loyaltyWeights[i] = ds.Customers[id-1].PurchaseRate
	}
	sp.loyalty = randstream.NewIndexSampler(loyaltyWeights)

	sp.payments = randstream.NewIndexSampler(paymentMethodWeights)
	return sp
}

// Next draws one validated fact row. A row that violates an accounting
// invariant is discarded and redrawn from subsequent stream positions;
// after MaxRetries consecutive violations the run aborts rather than
// emit a corrupt dataset.
func (sp *Sampler) Next(s *randstream.Stream, saleID int64) (SaleRow, error) {
	for attempt := 0; attempt <= sp.cfg.MaxRetries; attempt++ {
		row, err := sp.draw(s, saleID)
		if err != nil {
			continue
		}
		if err := validate(row); err != nil {
			continue
		}
		return row, nil
	}
	return SaleRow{}, fmt.Errorf("sale %d: no valid row after %d attempts", saleID, sp.cfg.MaxRetries)
}

// draw builds one candidate row. The draw order is fixed: date, store,
// product, customer flag (and customer), quantity, discount flag (and
// percentage), return flag, payment method.
func (sp *Sampler) draw(s *randstream.Stream, saleID int64) (SaleRow, error) {
	date := sp.ds.Dates[sp.dates.Pick(s)]
	store := sp.ds.Stores[sp.stores.Pick(s)]
	productID := sp.products[date.Month-1].Pick(s) + 1

	version := sp.ds.VersionFor(productID, date.Date)
	if version == nil {
		return SaleRow{}, fmt.Errorf("product %d has no version valid on %s", productID, date.Date.Format("2006-01-02"))
	}

	customerID := 0
	if s.Bool(sp.cfg.LoyaltySaleProb) && len(sp.loyaltyIDs) > 0 {
		customerID = sp.loyaltyIDs[sp.loyalty.Pick(s)]
	}

	// Higher monetary scale shifts the quantity distribution toward larger
	// baskets; walk-ins get the baseline.
	qp := 0.55
	if customerID > 0 {
		qp = clamp(qp/sp.ds.Customers[customerID-1].MonetaryScale, 0.25, 0.8)
	}
	quantity := s.Geometric(qp, 5)
	unitPrice := version.ListPrice
	total := float64(quantity) * unitPrice

	var discountPct, discountAmount float64
	if s.Bool(sp.cfg.DiscountProb) {
		discountPct = round2(s.Float64(5, 40))
		discountAmount = total * discountPct / 100
	}

	net := total - discountAmount
	cost := float64(quantity) * version.UnitCost

	// Margin is computed before rounding the operands, then everything is
	// rounded to cents. The tolerance check absorbs the residual.
	margin := net - cost

	row := SaleRow{
		ID:             saleID,
		StoreID:        store.ID,
		ProductKey:     version.Key,
		ProductID:      productID,
		CustomerID:     customerID,
		Date:           date.Date,
		Quantity:       quantity,
		UnitPrice:      round2(unitPrice),
		TotalAmount:    round2(total),
		DiscountPct:    discountPct,
		DiscountAmount: round2(discountAmount),
		NetAmount:      round2(net),
		CostAmount:     round2(cost),
		MarginAmount:   round2(margin),
		PaymentMethod:  paymentMethods[sp.payments.Pick(s)],
	}

	if s.Bool(sp.cfg.ReturnProb) {
		row.IsReturn = true
		row.Quantity = -row.Quantity
		row.NetAmount = -row.NetAmount
		row.CostAmount = -row.CostAmount
		row.MarginAmount = round2(row.NetAmount - row.CostAmount)
	}

	return row, nil
}

// validate enforces the sign-aware accounting rules on a candidate row.
func validate(r SaleRow) error {
	if r.IsReturn {
		if r.Quantity >= 0 {
			return fmt.Errorf("return with non-negative quantity %d", r.Quantity)
		}
		if r.NetAmount > 0 {
			return fmt.Errorf("return with positive net amount %.2f", r.NetAmount)
		}
		if r.CostAmount >= 0 {
			return fmt.Errorf("return with non-negative cost amount %.2f", r.CostAmount)
		}
	} else {
		if r.Quantity <= 0 {
			return fmt.Errorf("sale with non-positive quantity %d", r.Quantity)
		}
		if r.NetAmount < 0 {
			return fmt.Errorf("sale with negative net amount %.2f", r.NetAmount)
		}
		if r.CostAmount <= 0 {
			return fmt.Errorf("sale with non-positive cost amount %.2f", r.CostAmount)
		}
	}
	if r.UnitPrice <= 0 {
		return fmt.Errorf("non-positive unit price %.2f", r.UnitPrice)
	}
	if r.DiscountPct < 0 || r.DiscountPct > 100 {
		return fmt.Errorf("discount percentage %.2f out of range", r.DiscountPct)
	}
	if r.DiscountAmount < 0 {
		return fmt.Errorf("negative discount amount %.2f", r.DiscountAmount)
	}
	if diff := math.Abs(r.NetAmount - r.CostAmount - r.MarginAmount); diff > 0.01 {
		return fmt.Errorf("margin off by %.4f", diff)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
