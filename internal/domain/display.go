package domain

import (
	"math"
	"sort"
)

// RoundPaise rounds an amount to two decimal places.
func RoundPaise(v float64) float64 {
	return math.Round(v*100) / 100
}

// TaxBucketView is a bucket rounded for presentation.
type TaxBucketView struct {
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Taxable     float64 `json:"taxable"`
	HSN         string  `json:"hsn"`
	Description string  `json:"description"`
	Lines       int     `json:"lines"`
}

// TaxBreakdownView is a TaxBreakdown rounded for presentation, buckets
// sorted by ascending rate.
type TaxBreakdownView struct {
	Buckets  []TaxBucketView `json:"buckets"`
	TotalTax float64         `json:"total_tax"`
}

// Display rounds the accumulated amounts. This is the only place a breakdown
// is rounded; the total is rounded from the unrounded sum.
func (b *TaxBreakdown) Display() TaxBreakdownView {
	view := TaxBreakdownView{
		Buckets:  make([]TaxBucketView, 0, len(b.Buckets)),
		TotalTax: RoundPaise(b.TotalTax),
	}
	for _, bucket := range b.Buckets {
		view.Buckets = append(view.Buckets, TaxBucketView{
			Rate:        bucket.Rate,
			Amount:      RoundPaise(bucket.Amount),
			Taxable:     RoundPaise(bucket.Taxable),
			HSN:         bucket.HSN,
			Description: bucket.Description,
			Lines:       bucket.Lines,
		})
	}
	sort.Slice(view.Buckets, func(i, j int) bool { return view.Buckets[i].Rate < view.Buckets[j].Rate })
	return view
}

// OrderPricingView is an OrderPricing rounded for presentation.
type OrderPricingView struct {
	Subtotal  float64          `json:"subtotal"`
	Tax       float64          `json:"tax"`
	Total     float64          `json:"total"`
	CGST      float64          `json:"cgst"`
	SGST      float64          `json:"sgst"`
	IGST      float64          `json:"igst"`
	Supply    SupplyType       `json:"supply_type"`
	Breakdown TaxBreakdownView `json:"breakdown"`
}

// Display rounds every amount of the pricing independently from its
// unrounded value.
func (p *OrderPricing) Display() OrderPricingView {
	view := OrderPricingView{
		Subtotal: RoundPaise(p.Subtotal),
		Tax:      RoundPaise(p.Tax),
		Total:    RoundPaise(p.Total),
		CGST:     RoundPaise(p.CGST),
		SGST:     RoundPaise(p.SGST),
		IGST:     RoundPaise(p.IGST),
		Supply:   p.Supply,
	}
	if p.Breakdown != nil {
		view.Breakdown = p.Breakdown.Display()
	}
	return view
}
