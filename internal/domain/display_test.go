package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gstrate/internal/domain"
)

func TestRoundPaise(t *testing.T) {
	assert.Equal(t, 180.00, domain.RoundPaise(179.9982))
	assert.Equal(t, 0.05, domain.RoundPaise(0.054))
	assert.Equal(t, 0.02, domain.RoundPaise(0.018))
	assert.Equal(t, 0.0, domain.RoundPaise(0))
}

func TestTaxBreakdown_Display(t *testing.T) {
	b := domain.NewTaxBreakdown()
	b.Buckets[18] = &domain.TaxBucket{Rate: 18, Amount: 0.018 * 3, Taxable: 0.3, HSN: "8471", Lines: 3}
	b.Buckets[5] = &domain.TaxBucket{Rate: 5, Amount: 1.004, Taxable: 20.08, HSN: "6109", Lines: 1}
	b.TotalTax = 0.054 + 1.004

	view := b.Display()

	assert.Equal(t, 1.06, view.TotalTax, "total is rounded from the unrounded sum")
	assert.Len(t, view.Buckets, 2)
	assert.Equal(t, 5.0, view.Buckets[0].Rate)
	assert.Equal(t, 1.0, view.Buckets[0].Amount)
	assert.Equal(t, 0.05, view.Buckets[1].Amount)
	assert.Nil(t, b.Bucket(28))
}

func TestOrderPricing_Display(t *testing.T) {
	p := &domain.OrderPricing{
		Subtotal: 999.99, Tax: 179.9982, Total: 1179.9882,
		CGST: 89.9991, SGST: 89.9991, Supply: domain.SupplyIntraState,
	}

	view := p.Display()

	assert.Equal(t, 180.0, view.Tax)
	assert.Equal(t, 1179.99, view.Total)
	assert.Equal(t, 90.0, view.CGST)
	assert.Equal(t, 90.0, view.SGST)
	assert.Empty(t, view.Breakdown.Buckets)
}

func TestCacheEntry_Expired(t *testing.T) {
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	e := domain.CacheEntry{CachedAt: at}

	assert.False(t, e.Expired(at.Add(24*time.Hour-time.Nanosecond), 24*time.Hour))
	assert.True(t, e.Expired(at.Add(24*time.Hour), 24*time.Hour))
}

func TestRateSource(t *testing.T) {
	src := domain.ProviderSource("primary")

	assert.Equal(t, domain.RateSource("provider:primary"), src)
	assert.True(t, src.IsProvider())
	assert.False(t, domain.RateSourceTable.IsProvider())
}

func TestValidationError(t *testing.T) {
	err := domain.NewValidationError("hsn", "12", "must be 4 to 8 digits")

	assert.Equal(t, `invalid hsn "12": must be 4 to 8 digits`, err.Error())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "invalid category: required", domain.NewValidationError("category", "", "required").Error())
}
