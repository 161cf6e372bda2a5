package repository

import (
	"context"
	"time"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// StoreSummaryWriter puerto de escritura usado por el pipeline.
type StoreSummaryWriter interface {
	// UpsertBatch inserta o sobrescribe los resúmenes con llave (location_id, captured_date).
	// El lote es atómico: si falla, no se escribe ninguna fila.
	UpsertBatch(ctx context.Context, rows []*entity.StoreSummary) error
}

// StoreSummaryRepository puerto completo para resúmenes diarios (pipeline + dashboard).
type StoreSummaryRepository interface {
	StoreSummaryWriter
	ListByDate(ctx context.Context, date time.Time) ([]*entity.StoreSummary, error)
	ListByLocation(ctx context.Context, locationID string, limit int) ([]*entity.StoreSummary, error)
	// LatestDate devuelve la última fecha capturada; domain.ErrNotFound si la tabla está vacía.
	LatestDate(ctx context.Context) (time.Time, error)
}
