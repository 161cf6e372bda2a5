package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

var _ repository.StoreLocationRepository = (*StoreLocationRepo)(nil)

// StoreLocationRepo implementación de StoreLocationRepository sobre kroger_stores.
type StoreLocationRepo struct {
	q Querier
}

// NewStoreLocationRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStoreLocationRepository(q Querier) *StoreLocationRepo {
	return &StoreLocationRepo{q: q}
}

func (r *StoreLocationRepo) ListPage(ctx context.Context, after string, limit int) ([]entity.StoreLocation, error) {
	query := `
		SELECT location_id, COALESCE(name, ''), COALESCE(chain, ''), COALESCE(state, ''), COALESCE(zip_code, '')
		FROM kroger_stores
		WHERE location_id > $1
		ORDER BY location_id
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, after, limit)
	if err != nil {
		return nil, wrapPgErr("list stores", err)
	}
	defer rows.Close()

	list := make([]entity.StoreLocation, 0, limit)
	for rows.Next() {
		var s entity.StoreLocation
		if err := rows.Scan(&s.LocationID, &s.Name, &s.Chain, &s.State, &s.ZipCode); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
