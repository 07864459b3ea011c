package port

import (
	"context"

	"gstrate/internal/domain"
)

// RateProvider fetches a live GST rate for an HSN code from an external source.
type RateProvider interface {
	Name() string
	FetchRate(ctx context.Context, hsn string) (*domain.HSNRateEntry, error)
}
