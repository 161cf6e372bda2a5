package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

var _ repository.StoreSummaryRepository = (*StoreSummaryRepo)(nil)

const upsertSummarySQL = `
	INSERT INTO egg_price_summaries (
		location_id, captured_date, captured_at, status,
		regular_min, regular_avg, regular_max,
		organic_min, organic_avg, organic_max
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (location_id, captured_date) DO UPDATE SET
		captured_at = EXCLUDED.captured_at,
		status      = EXCLUDED.status,
		regular_min = EXCLUDED.regular_min,
		regular_avg = EXCLUDED.regular_avg,
		regular_max = EXCLUDED.regular_max,
		organic_min = EXCLUDED.organic_min,
		organic_avg = EXCLUDED.organic_avg,
		organic_max = EXCLUDED.organic_max`

const selectSummarySQL = `
	SELECT location_id, captured_date, captured_at, status,
		regular_min, regular_avg, regular_max,
		organic_min, organic_avg, organic_max
	FROM egg_price_summaries`

// StoreSummaryRepo implementación de StoreSummaryRepository sobre egg_price_summaries.
type StoreSummaryRepo struct {
	q  Querier
	tx *TxRunner
}

// NewStoreSummaryRepository construye el adaptador. Los lotes se escriben en una transacción de tx.
func NewStoreSummaryRepository(q Querier, tx *TxRunner) *StoreSummaryRepo {
	return &StoreSummaryRepo{q: q, tx: tx}
}

// UpsertBatch envía todas las filas en un pgx.Batch dentro de una transacción: o se escriben todas o ninguna.
func (r *StoreSummaryRepo) UpsertBatch(ctx context.Context, rows []*entity.StoreSummary) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, s := range rows {
		batch.Queue(upsertSummarySQL,
			s.LocationID, s.CapturedDate, s.CapturedAt, string(s.Status),
			s.RegularMin, s.RegularAvg, s.RegularMax,
			s.OrganicMin, s.OrganicAvg, s.OrganicMax,
		)
	}

	return r.tx.Run(ctx, func(q Querier) error {
		br := q.SendBatch(ctx, batch)
		for _, s := range rows {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return wrapPgErr(fmt.Sprintf("upsert summary %s/%s", s.LocationID, s.DateKey()), err)
			}
		}
		if err := br.Close(); err != nil {
			return wrapPgErr("upsert summaries", err)
		}
		return nil
	})
}

func (r *StoreSummaryRepo) ListByDate(ctx context.Context, date time.Time) ([]*entity.StoreSummary, error) {
	rows, err := r.q.Query(ctx, selectSummarySQL+` WHERE captured_date = $1 ORDER BY location_id`, date)
	if err != nil {
		return nil, wrapPgErr("list summaries by date", err)
	}
	return collectSummaries(rows)
}

func (r *StoreSummaryRepo) ListByLocation(ctx context.Context, locationID string, limit int) ([]*entity.StoreSummary, error) {
	rows, err := r.q.Query(ctx, selectSummarySQL+` WHERE location_id = $1 ORDER BY captured_date DESC LIMIT $2`, locationID, limit)
	if err != nil {
		return nil, wrapPgErr("list summaries by location", err)
	}
	return collectSummaries(rows)
}

func (r *StoreSummaryRepo) LatestDate(ctx context.Context) (time.Time, error) {
	var latest *time.Time
	if err := r.q.QueryRow(ctx, `SELECT max(captured_date) FROM egg_price_summaries`).Scan(&latest); err != nil {
		return time.Time{}, wrapPgErr("latest summary date", err)
	}
	if latest == nil {
		return time.Time{}, domain.ErrNotFound
	}
	return *latest, nil
}

func collectSummaries(rows pgx.Rows) ([]*entity.StoreSummary, error) {
	defer rows.Close()
	var list []*entity.StoreSummary
	for rows.Next() {
		var (
			s      entity.StoreSummary
			status string
		)
		if err := rows.Scan(
			&s.LocationID, &s.CapturedDate, &s.CapturedAt, &status,
			&s.RegularMin, &s.RegularAvg, &s.RegularMax,
			&s.OrganicMin, &s.OrganicAvg, &s.OrganicMax,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Status = entity.SummaryStatus(status)
		list = append(list, &s)
	}
	return list, rows.Err()
}
