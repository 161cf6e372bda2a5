package ports

import (
	"context"
	"time"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// BenchmarkSource fuente de series de referencia (FRED). start cero = serie completa.
type BenchmarkSource interface {
	FetchObservations(ctx context.Context, seriesID string, start time.Time) ([]entity.BenchmarkObservation, error)
}
