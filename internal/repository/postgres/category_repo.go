package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gstrate/internal/port"
)

type categoryRepo struct {
	db *sqlx.DB
}

// NewCategoryRepo creates a new PostgreSQL-backed CategoryRepository.
func NewCategoryRepo(db *sqlx.DB) port.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) LoadAll(ctx context.Context) ([]port.CategoryMapping, error) {
	var mappings []port.CategoryMapping
	err := r.db.SelectContext(ctx, &mappings,
		`SELECT category, hsn_code FROM category_hsn ORDER BY category`)
	if err != nil {
		return nil, err
	}
	return mappings, nil
}
