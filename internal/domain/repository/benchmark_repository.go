package repository

import (
	"context"
	"time"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// BenchmarkRepository puerto para observaciones de series de referencia.
type BenchmarkRepository interface {
	UpsertObservations(ctx context.Context, obs []entity.BenchmarkObservation) (int, error)
	// Latest devuelve la observación más reciente; nil si la serie no tiene datos.
	Latest(ctx context.Context, seriesID string) (*entity.BenchmarkObservation, error)
	ListRange(ctx context.Context, seriesID string, from, to time.Time) ([]entity.BenchmarkObservation, error)
}
