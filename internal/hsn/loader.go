package hsn

import (
	"context"
	"errors"
	"fmt"

	"gstrate/internal/port"
)

// ErrEmptyMaster is returned by Load when the repository holds no HSN codes.
var ErrEmptyMaster = errors.New("hsn master is empty")

// Load builds a Table from the HSN master and category mappings in the
// repositories. When no category mappings are stored the compiled-in ones
// are used. Callers fall back to Default on error.
func Load(ctx context.Context, codes port.HSNRepository, categories port.CategoryRepository) (*Table, error) {
	entries, err := codes.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hsn codes: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyMaster
	}

	mappings, err := categories.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category mappings: %w", err)
	}
	if len(mappings) == 0 {
		mappings = DefaultCategories()
	}

	return NewTable(entries, mappings), nil
}
