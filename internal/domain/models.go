package domain

import "time"

// HSNRateEntry is the resolved GST rate for a single HSN classification code.
type HSNRateEntry struct {
	HSN         string     `json:"hsn"`
	Rate        float64    `json:"rate"`
	Description string     `json:"description"`
	Source      RateSource `json:"source"`
	ResolvedAt  time.Time  `json:"resolved_at"`
}

// CacheEntry is a memoized resolution together with its write time.
type CacheEntry struct {
	Entry    HSNRateEntry `json:"entry"`
	CachedAt time.Time    `json:"cached_at"`
}

// Expired reports whether the entry is older than ttl at now.
func (e *CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) >= ttl
}

// CacheStats is an introspection snapshot of a rate cache.
type CacheStats struct {
	Size    int               `json:"size"`
	Entries []CacheStatsEntry `json:"entries"`
}

// CacheStatsEntry describes one cached HSN code.
type CacheStatsEntry struct {
	HSN      string    `json:"hsn"`
	CachedAt time.Time `json:"cached_at"`
}

// OrderLine is one cart or checkout line to be taxed. Either HSN or Category
// must be set; HSN takes precedence when both are present.
type OrderLine struct {
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
	HSN       string  `json:"hsn,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// TaxBucket accumulates tax for every line sharing one rate.
// Amount is never rounded; see TaxBreakdown.Display.
type TaxBucket struct {
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Taxable     float64 `json:"taxable"`
	HSN         string  `json:"hsn"`
	Description string  `json:"description"`
	Lines       int     `json:"lines"`
}

// TaxBreakdown is the per-rate result of aggregating order lines.
type TaxBreakdown struct {
	Buckets  map[float64]*TaxBucket `json:"-"`
	TotalTax float64                `json:"total_tax"`
}

// NewTaxBreakdown returns an empty breakdown.
func NewTaxBreakdown() *TaxBreakdown {
	return &TaxBreakdown{Buckets: make(map[float64]*TaxBucket)}
}

// Bucket returns the bucket for rate, or nil when no line carried that rate.
func (b *TaxBreakdown) Bucket(rate float64) *TaxBucket {
	return b.Buckets[rate]
}

// SupplyType selects how the GST total is split between tax heads.
type SupplyType string

const (
	SupplyIntraState SupplyType = "intra_state"
	SupplyInterState SupplyType = "inter_state"
)

// OrderPricing is the full tax-inclusive price of an order.
type OrderPricing struct {
	Subtotal  float64       `json:"subtotal"`
	Tax       float64       `json:"tax"`
	Total     float64       `json:"total"`
	CGST      float64       `json:"cgst"`
	SGST      float64       `json:"sgst"`
	IGST      float64       `json:"igst"`
	Supply    SupplyType    `json:"supply_type"`
	Breakdown *TaxBreakdown `json:"-"`
}
