package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gstrate/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new PostgreSQL-backed HSNRepository.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

// LoadAll returns the HSN codes currently in effect. When a code has more
// than one live row the most recent effective_from comes first.
func (r *hsnRepo) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	var entries []port.HSNEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate
		 FROM hsn_codes
		 WHERE effective_from <= CURRENT_DATE
		   AND (effective_to IS NULL OR effective_to >= CURRENT_DATE)
		 ORDER BY code, effective_from DESC`)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
