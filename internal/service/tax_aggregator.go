package service

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"gstrate/internal/domain"
	"gstrate/internal/validator"
)

// DefaultResolveConcurrency bounds simultaneous rate resolutions per order.
const DefaultResolveConcurrency = 5

// TaxAggregator computes GST for a set of order lines.
type TaxAggregator interface {
	Aggregate(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdown, error)
	// CalculateOrderGST returns the total tax rounded to paise.
	CalculateOrderGST(ctx context.Context, lines []domain.OrderLine) (float64, error)
	// GetGSTBreakdown returns the breakdown rounded for display.
	GetGSTBreakdown(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdownView, error)
	PriceOrder(ctx context.Context, lines []domain.OrderLine, supply domain.SupplyType) (*domain.OrderPricing, error)
}

type taxAggregator struct {
	resolver    RateResolver
	validate    *validator.Validator
	concurrency int
}

// NewTaxAggregator creates a TaxAggregator. concurrency <= 0 uses
// DefaultResolveConcurrency.
func NewTaxAggregator(resolver RateResolver, concurrency int) TaxAggregator {
	if concurrency <= 0 {
		concurrency = DefaultResolveConcurrency
	}
	return &taxAggregator{
		resolver:    resolver,
		validate:    validator.New(),
		concurrency: concurrency,
	}
}

// lineKey identifies the classification a line resolves through. HSN wins
// over category.
func lineKey(line *domain.OrderLine) string {
	if code := strings.TrimSpace(line.HSN); code != "" {
		return "hsn:" + code
	}
	return "cat:" + strings.ToLower(strings.TrimSpace(line.Category))
}

func (a *taxAggregator) Aggregate(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdown, error) {
	for i := range lines {
		if err := a.validate.OrderLine(i, &lines[i]); err != nil {
			return nil, err
		}
	}

	rates, err := a.resolveDistinct(ctx, lines)
	if err != nil {
		return nil, err
	}

	// Accumulate in line order at full precision so the result does not
	// depend on resolution order.
	breakdown := domain.NewTaxBreakdown()
	for i := range lines {
		line := &lines[i]
		entry := rates[lineKey(line)]
		taxable := line.UnitPrice * float64(line.Quantity)
		lineTax := taxable * entry.Rate / 100

		bucket, ok := breakdown.Buckets[entry.Rate]
		if !ok {
			bucket = &domain.TaxBucket{
				Rate:        entry.Rate,
				HSN:         entry.HSN,
				Description: entry.Description,
			}
			breakdown.Buckets[entry.Rate] = bucket
		}
		bucket.Amount += lineTax
		bucket.Taxable += taxable
		bucket.Lines++
		breakdown.TotalTax += lineTax
	}
	return breakdown, nil
}

// resolveDistinct resolves every distinct line classification once, at most
// a.concurrency at a time.
func (a *taxAggregator) resolveDistinct(ctx context.Context, lines []domain.OrderLine) (map[string]*domain.HSNRateEntry, error) {
	rates := make(map[string]*domain.HSNRateEntry, len(lines))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	seen := make(map[string]bool, len(lines))
	for i := range lines {
		line := lines[i]
		key := lineKey(&line)
		if seen[key] {
			continue
		}
		seen[key] = true

		g.Go(func() error {
			var (
				entry *domain.HSNRateEntry
				err   error
			)
			if code := strings.TrimSpace(line.HSN); code != "" {
				entry, err = a.resolver.Resolve(gctx, code)
			} else {
				entry, err = a.resolver.ResolveCategory(gctx, line.Category)
			}
			if err != nil {
				return err
			}
			mu.Lock()
			rates[key] = entry
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rates, nil
}

func (a *taxAggregator) CalculateOrderGST(ctx context.Context, lines []domain.OrderLine) (float64, error) {
	breakdown, err := a.Aggregate(ctx, lines)
	if err != nil {
		return 0, err
	}
	return domain.RoundPaise(breakdown.TotalTax), nil
}

func (a *taxAggregator) GetGSTBreakdown(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdownView, error) {
	breakdown, err := a.Aggregate(ctx, lines)
	if err != nil {
		return nil, err
	}
	view := breakdown.Display()
	return &view, nil
}

func (a *taxAggregator) PriceOrder(ctx context.Context, lines []domain.OrderLine, supply domain.SupplyType) (*domain.OrderPricing, error) {
	if supply == "" {
		supply = domain.SupplyIntraState
	}
	if !domain.ValidSupplyTypes[supply] {
		return nil, domain.NewValidationError("supply_type", string(supply), "must be intra_state or inter_state")
	}

	breakdown, err := a.Aggregate(ctx, lines)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	for i := range lines {
		subtotal += lines[i].UnitPrice * float64(lines[i].Quantity)
	}

	pricing := &domain.OrderPricing{
		Subtotal:  subtotal,
		Tax:       breakdown.TotalTax,
		Total:     subtotal + breakdown.TotalTax,
		Supply:    supply,
		Breakdown: breakdown,
	}
	if supply == domain.SupplyInterState {
		pricing.IGST = breakdown.TotalTax
	} else {
		pricing.CGST = breakdown.TotalTax / 2
		pricing.SGST = breakdown.TotalTax / 2
	}
	return pricing, nil
}
