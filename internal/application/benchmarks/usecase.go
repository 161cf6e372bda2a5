// Package benchmarks descarga series de referencia (FRED) y las persiste.
package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// UseCase sincroniza series de referencia.
type UseCase struct {
	source ports.BenchmarkSource
	repo   repository.BenchmarkRepository
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(source ports.BenchmarkSource, repo repository.BenchmarkRepository, log *logger.Logger) *UseCase {
	return &UseCase{source: source, repo: repo, log: log.Component("benchmarks")}
}

// Sync descarga cada serie desde start y hace upsert de sus observaciones.
// Se detiene en la primera serie que falle; las anteriores ya quedaron escritas.
func (uc *UseCase) Sync(ctx context.Context, series []string, start time.Time) ([]dto.BenchmarkRunDTO, error) {
	out := make([]dto.BenchmarkRunDTO, 0, len(series))
	for _, id := range series {
		obs, err := uc.source.FetchObservations(ctx, id, start)
		if err != nil {
			return out, fmt.Errorf("benchmarks: descargar %s: %w", id, err)
		}
		n, err := uc.repo.UpsertObservations(ctx, obs)
		if err != nil {
			return out, fmt.Errorf("benchmarks: guardar %s: %w", id, err)
		}
		uc.log.Info().Str("series_id", id).Int("fetched", len(obs)).Int("upserted", n).Msg("serie sincronizada")
		out = append(out, dto.BenchmarkRunDTO{SeriesID: id, Fetched: len(obs), Upserted: n})
	}
	return out, nil
}
