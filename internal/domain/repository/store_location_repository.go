package repository

import (
	"context"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// StoreLocationRepository puerto de lectura de la tabla de tiendas (DIP).
type StoreLocationRepository interface {
	// ListPage devuelve hasta limit tiendas con location_id > after, en orden ascendente.
	// after vacío comienza desde el inicio de la tabla.
	ListPage(ctx context.Context, after string, limit int) ([]entity.StoreLocation, error)
}
