package ports

import (
	"context"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// ProductQuery una página de búsqueda de productos para una tienda.
type ProductQuery struct {
	LocationID  string
	Term        string
	Start       int
	Limit       int
	InStoreOnly bool
}

// ProductSearcher puerto de salida hacia la API de productos del proveedor.
// El adaptador resuelve 401 (un refresh + un reintento) y 429 (Retry-After) internamente;
// los errores devueltos envuelven los sentinelas de domain.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, q ProductQuery) ([]entity.Product, error)
}
