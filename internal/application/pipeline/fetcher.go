package pipeline

import (
	"context"
	"errors"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/eggs"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// FetcherConfig parámetros de búsqueda por tienda.
type FetcherConfig struct {
	SearchTerms []string
	PageSize    int // filter.limit
	MaxStart    int // mayor filter.start admitido por el proveedor
	InStoreOnly bool
	PriceOrder  []eggs.PriceField
}

// DefaultFetcherConfig valores usados contra la Kroger Product API.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		SearchTerms: []string{"eggs", "dozen eggs", "large eggs"},
		PageSize:    50,
		MaxStart:    250,
		InStoreOnly: true,
		PriceOrder:  eggs.DefaultPriceOrder,
	}
}

// Fetcher consulta todas las páginas de cada término para una tienda y clasifica los productos.
type Fetcher struct {
	searcher ports.ProductSearcher
	cfg      FetcherConfig
	log      *logger.Logger
}

// NewFetcher construye el fetcher; campos vacíos de cfg toman los valores por defecto.
func NewFetcher(searcher ports.ProductSearcher, cfg FetcherConfig, log *logger.Logger) *Fetcher {
	def := DefaultFetcherConfig()
	if len(cfg.SearchTerms) == 0 {
		cfg.SearchTerms = def.SearchTerms
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxStart < 0 {
		cfg.MaxStart = def.MaxStart
	}
	if len(cfg.PriceOrder) == 0 {
		cfg.PriceOrder = def.PriceOrder
	}
	return &Fetcher{searcher: searcher, cfg: cfg, log: log.Component("fetcher")}
}

// FetchAndClassify devuelve los precios por bucket y los productos que pasaron ambos filtros.
//
// Un 429 que agota los reintentos o cualquier otro status no exitoso termina la paginación
// de ese término (con warning) y se continúa con el siguiente. Un 401 tras el refresh,
// errores de transporte o de decodificación hacen fallar la tienda completa.
func (f *Fetcher) FetchAndClassify(ctx context.Context, loc entity.StoreLocation) (*entity.StoreFetch, error) {
	var (
		products []entity.Product
		seen     = make(map[string]bool)
	)

	for _, term := range f.cfg.SearchTerms {
	pages:
		for start := 0; start <= f.cfg.MaxStart; start += f.cfg.PageSize {
			page, err := f.searcher.SearchProducts(ctx, ports.ProductQuery{
				LocationID:  loc.LocationID,
				Term:        term,
				Start:       start,
				Limit:       f.cfg.PageSize,
				InStoreOnly: f.cfg.InStoreOnly,
			})
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrProviderStatus):
				f.log.Warn().Err(err).
					Str("location_id", loc.LocationID).Str("term", term).Int("start", start).
					Msg("fin de paginación para el término")
				break pages
			default:
				return nil, err
			}

			for _, p := range page {
				key := eggs.ProductKey(p)
				if seen[key] {
					continue
				}
				seen[key] = true
				products = append(products, p)
			}
			if len(page) < f.cfg.PageSize {
				break
			}
		}
	}

	fetch := &entity.StoreFetch{}
	for _, p := range products {
		cp, matched, priced := eggs.Classify(p, f.cfg.PriceOrder)
		if !matched {
			continue
		}
		fetch.Matched = append(fetch.Matched, p)
		if priced {
			fetch.Add(cp)
		}
	}

	f.log.Debug().
		Str("location_id", loc.LocationID).
		Int("products", len(products)).
		Int("matched", len(fetch.Matched)).
		Int("regular", len(fetch.RegularPrices)).
		Int("organic", len(fetch.OrganicPrices)).
		Msg("tienda clasificada")
	return fetch, nil
}
