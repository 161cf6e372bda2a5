package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

var _ repository.BenchmarkRepository = (*BenchmarkRepo)(nil)

// BenchmarkRepo implementación de BenchmarkRepository sobre egg_price_benchmarks.
type BenchmarkRepo struct {
	q  Querier
	tx *TxRunner
}

// NewBenchmarkRepository construye el adaptador.
func NewBenchmarkRepository(q Querier, tx *TxRunner) *BenchmarkRepo {
	return &BenchmarkRepo{q: q, tx: tx}
}

func (r *BenchmarkRepo) UpsertObservations(ctx context.Context, obs []entity.BenchmarkObservation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO egg_price_benchmarks (series_id, observation_date, value, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (series_id, observation_date)
		DO UPDATE SET value = EXCLUDED.value, fetched_at = EXCLUDED.fetched_at`
	batch := &pgx.Batch{}
	for _, o := range obs {
		batch.Queue(query, o.SeriesID, o.ObservationDate, o.Value, o.FetchedAt)
	}

	err := r.tx.Run(ctx, func(q Querier) error {
		br := q.SendBatch(ctx, batch)
		for range obs {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return wrapPgErr("upsert benchmark", err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return len(obs), nil
}

func (r *BenchmarkRepo) Latest(ctx context.Context, seriesID string) (*entity.BenchmarkObservation, error) {
	query := `
		SELECT series_id, observation_date, value, fetched_at
		FROM egg_price_benchmarks
		WHERE series_id = $1
		ORDER BY observation_date DESC
		LIMIT 1`
	var o entity.BenchmarkObservation
	err := r.q.QueryRow(ctx, query, seriesID).Scan(&o.SeriesID, &o.ObservationDate, &o.Value, &o.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapPgErr("latest benchmark", err)
	}
	return &o, nil
}

// ListRange lista observaciones en [from, to]; un límite cero no restringe.
func (r *BenchmarkRepo) ListRange(ctx context.Context, seriesID string, from, to time.Time) ([]entity.BenchmarkObservation, error) {
	query := `
		SELECT series_id, observation_date, value, fetched_at
		FROM egg_price_benchmarks
		WHERE series_id = $1
		  AND ($2::date IS NULL OR observation_date >= $2)
		  AND ($3::date IS NULL OR observation_date <= $3)
		ORDER BY observation_date`
	rows, err := r.q.Query(ctx, query, seriesID, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, wrapPgErr("list benchmarks", err)
	}
	defer rows.Close()

	var list []entity.BenchmarkObservation
	for rows.Next() {
		var o entity.BenchmarkObservation
		if err := rows.Scan(&o.SeriesID, &o.ObservationDate, &o.Value, &o.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan benchmark: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
