package pipeline

import (
	"context"
	"fmt"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

// DefaultStorePageSize tamaño de página al recorrer la tabla de tiendas.
const DefaultStorePageSize = 1000

// StoreEnumerator recorre la tabla de tiendas completa, una vez y en orden ascendente.
type StoreEnumerator struct {
	repo     repository.StoreLocationRepository
	pageSize int
}

// NewStoreEnumerator construye el enumerador. pageSize <= 0 usa DefaultStorePageSize.
func NewStoreEnumerator(repo repository.StoreLocationRepository, pageSize int) *StoreEnumerator {
	if pageSize <= 0 {
		pageSize = DefaultStorePageSize
	}
	return &StoreEnumerator{repo: repo, pageSize: pageSize}
}

// ListStoreLocations pagina por llave (location_id > último) hasta recibir una página corta.
// Los IDs devueltos están normalizados.
func (e *StoreEnumerator) ListStoreLocations(ctx context.Context) ([]entity.StoreLocation, error) {
	var (
		out   []entity.StoreLocation
		after string
	)
	for {
		page, err := e.repo.ListPage(ctx, after, e.pageSize)
		if err != nil {
			return nil, fmt.Errorf("listar tiendas después de %q: %w", after, err)
		}
		for _, s := range page {
			s.LocationID = entity.NormalizeLocationID(s.LocationID)
			out = append(out, s)
		}
		if len(page) < e.pageSize {
			return out, nil
		}
		after = page[len(page)-1].LocationID
	}
}

// Select aplica el filtro --only (IDs normalizados) y luego el sub-rango [startAt, endAt)
// por índice para repartir una corrida entre invocaciones. endAt < 0 significa hasta el final;
// los límites fuera de rango se ajustan.
func Select(stores []entity.StoreLocation, only []string, startAt, endAt int) []entity.StoreLocation {
	if len(only) > 0 {
		wanted := make(map[string]bool, len(only))
		for _, id := range only {
			if id = entity.NormalizeLocationID(id); id != "" {
				wanted[id] = true
			}
		}
		filtered := make([]entity.StoreLocation, 0, len(wanted))
		for _, s := range stores {
			if wanted[s.LocationID] {
				filtered = append(filtered, s)
			}
		}
		stores = filtered
	}

	n := len(stores)
	if endAt < 0 || endAt > n {
		endAt = n
	}
	if startAt < 0 {
		startAt = 0
	}
	if startAt >= endAt {
		return nil
	}
	return stores[startAt:endAt]
}
