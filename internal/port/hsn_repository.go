package port

import "context"

// HSNEntry represents a single HSN code entry with its GST rate.
type HSNEntry struct {
	Code        string  `db:"code"`
	Description string  `db:"description"`
	GSTRate     float64 `db:"gst_rate"`
}

// CategoryMapping maps a storefront product category to an HSN code.
type CategoryMapping struct {
	Category string `db:"category"`
	HSNCode  string `db:"hsn_code"`
}

// HSNRepository defines the contract for HSN code data access.
type HSNRepository interface {
	LoadAll(ctx context.Context) ([]HSNEntry, error)
}

// CategoryRepository defines the contract for category to HSN mapping access.
type CategoryRepository interface {
	LoadAll(ctx context.Context) ([]CategoryMapping, error)
}
