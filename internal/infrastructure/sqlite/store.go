// Package sqlite implementa los repositorios sobre un archivo SQLite local con el mismo
// esquema y llaves de conflicto que PostgreSQL. Sirve para corridas de prueba sin base remota.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

var (
	_ repository.StoreLocationRepository = (*Store)(nil)
	_ repository.StoreSummaryRepository  = (*Store)(nil)
	_ repository.BenchmarkRepository     = (*Store)(nil)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Store acceso a la base SQLite.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" crea una base en memoria.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: crear directorio: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_timeout=5000", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir base: %w", err)
	}
	// Un único escritor; además mantiene viva la base ":memory:" en una sola conexión.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrar: %w", err)
	}
	return s, nil
}

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kroger_stores (
		location_id TEXT PRIMARY KEY,
		name        TEXT,
		chain       TEXT,
		state       TEXT,
		zip_code    TEXT
	);

	CREATE TABLE IF NOT EXISTS egg_price_summaries (
		location_id   TEXT NOT NULL,
		captured_date TEXT NOT NULL,
		captured_at   TEXT NOT NULL,
		status        TEXT NOT NULL CHECK (status IN ('OK', 'OUT_OF_STOCK', 'NO_DATA_FOUND')),
		regular_min   TEXT,
		regular_avg   TEXT,
		regular_max   TEXT,
		organic_min   TEXT,
		organic_avg   TEXT,
		organic_max   TEXT,
		PRIMARY KEY (location_id, captured_date)
	);

	CREATE TABLE IF NOT EXISTS egg_price_benchmarks (
		series_id        TEXT NOT NULL,
		observation_date TEXT NOT NULL,
		value            TEXT NOT NULL,
		fetched_at       TEXT NOT NULL,
		PRIMARY KEY (series_id, observation_date)
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_date ON egg_price_summaries(captured_date);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ── Tiendas ───────────────────────────────────────────────────────────────────

// UpsertStores carga o actualiza tiendas (usado por el seeder y en pruebas locales).
func (s *Store) UpsertStores(ctx context.Context, stores []entity.StoreLocation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO kroger_stores (location_id, name, chain, state, zip_code)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (location_id) DO UPDATE SET
				name = excluded.name, chain = excluded.chain,
				state = excluded.state, zip_code = excluded.zip_code`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, st := range stores {
			if _, err := stmt.ExecContext(ctx, st.LocationID, st.Name, st.Chain, st.State, st.ZipCode); err != nil {
				return fmt.Errorf("sqlite: upsert store %s: %w", st.LocationID, err)
			}
		}
		return nil
	})
}

func (s *Store) ListPage(ctx context.Context, after string, limit int) ([]entity.StoreLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, COALESCE(name, ''), COALESCE(chain, ''), COALESCE(state, ''), COALESCE(zip_code, '')
		FROM kroger_stores
		WHERE location_id > ?
		ORDER BY location_id
		LIMIT ?`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list stores: %w", err)
	}
	defer rows.Close()

	var list []entity.StoreLocation
	for rows.Next() {
		var st entity.StoreLocation
		if err := rows.Scan(&st.LocationID, &st.Name, &st.Chain, &st.State, &st.ZipCode); err != nil {
			return nil, fmt.Errorf("sqlite: scan store: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// ── Resúmenes ────────────────────────────────────────────────────────────────

func (s *Store) UpsertBatch(ctx context.Context, rows []*entity.StoreSummary) error {
	if len(rows) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO egg_price_summaries (
				location_id, captured_date, captured_at, status,
				regular_min, regular_avg, regular_max,
				organic_min, organic_avg, organic_max
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (location_id, captured_date) DO UPDATE SET
				captured_at = excluded.captured_at,
				status      = excluded.status,
				regular_min = excluded.regular_min,
				regular_avg = excluded.regular_avg,
				regular_max = excluded.regular_max,
				organic_min = excluded.organic_min,
				organic_avg = excluded.organic_avg,
				organic_max = excluded.organic_max`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.LocationID, r.DateKey(), r.CapturedAt.UTC().Format(timeLayout), string(r.Status),
				r.RegularMin, r.RegularAvg, r.RegularMax,
				r.OrganicMin, r.OrganicAvg, r.OrganicMax,
			)
			if err != nil {
				return fmt.Errorf("sqlite: upsert summary %s/%s: %w", r.LocationID, r.DateKey(), err)
			}
		}
		return nil
	})
}

const selectSummary = `
	SELECT location_id, captured_date, captured_at, status,
		regular_min, regular_avg, regular_max,
		organic_min, organic_avg, organic_max
	FROM egg_price_summaries`

func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]*entity.StoreSummary, error) {
	rows, err := s.db.QueryContext(ctx, selectSummary+` WHERE captured_date = ? ORDER BY location_id`, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("sqlite: list summaries by date: %w", err)
	}
	return scanSummaries(rows)
}

func (s *Store) ListByLocation(ctx context.Context, locationID string, limit int) ([]*entity.StoreSummary, error) {
	rows, err := s.db.QueryContext(ctx, selectSummary+` WHERE location_id = ? ORDER BY captured_date DESC LIMIT ?`, locationID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list summaries by location: %w", err)
	}
	return scanSummaries(rows)
}

func (s *Store) LatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT max(captured_date) FROM egg_price_summaries`).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("sqlite: latest summary date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, domain.ErrNotFound
	}
	return time.Parse(dateLayout, latest.String)
}

func scanSummaries(rows *sql.Rows) ([]*entity.StoreSummary, error) {
	defer rows.Close()
	var list []*entity.StoreSummary
	for rows.Next() {
		var (
			r                entity.StoreSummary
			date, at, status string
		)
		if err := rows.Scan(&r.LocationID, &date, &at, &status,
			&r.RegularMin, &r.RegularAvg, &r.RegularMax,
			&r.OrganicMin, &r.OrganicAvg, &r.OrganicMax,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan summary: %w", err)
		}
		var err error
		if r.CapturedDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("sqlite: captured_date %q: %w", date, err)
		}
		if r.CapturedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("sqlite: captured_at %q: %w", at, err)
		}
		r.Status = entity.SummaryStatus(status)
		list = append(list, &r)
	}
	return list, rows.Err()
}

// ── Series de referencia ──────────────────────────────────────────────────────

func (s *Store) UpsertObservations(ctx context.Context, obs []entity.BenchmarkObservation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO egg_price_benchmarks (series_id, observation_date, value, fetched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (series_id, observation_date) DO UPDATE SET
				value = excluded.value, fetched_at = excluded.fetched_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, o := range obs {
			if _, err := stmt.ExecContext(ctx, o.SeriesID, o.ObservationDate.Format(dateLayout), o.Value.String(), o.FetchedAt.UTC().Format(timeLayout)); err != nil {
				return fmt.Errorf("sqlite: upsert benchmark: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(obs), nil
}

func (s *Store) Latest(ctx context.Context, seriesID string) (*entity.BenchmarkObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_id, observation_date, value, fetched_at
		FROM egg_price_benchmarks WHERE series_id = ?
		ORDER BY observation_date DESC LIMIT 1`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest benchmark: %w", err)
	}
	list, err := scanObservations(rows)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (s *Store) ListRange(ctx context.Context, seriesID string, from, to time.Time) ([]entity.BenchmarkObservation, error) {
	fromKey, toKey := "0000-01-01", "9999-12-31"
	if !from.IsZero() {
		fromKey = from.Format(dateLayout)
	}
	if !to.IsZero() {
		toKey = to.Format(dateLayout)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_id, observation_date, value, fetched_at
		FROM egg_price_benchmarks
		WHERE series_id = ? AND observation_date >= ? AND observation_date <= ?
		ORDER BY observation_date`, seriesID, fromKey, toKey)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list benchmarks: %w", err)
	}
	return scanObservations(rows)
}

func scanObservations(rows *sql.Rows) ([]entity.BenchmarkObservation, error) {
	defer rows.Close()
	var list []entity.BenchmarkObservation
	for rows.Next() {
		var (
			o        entity.BenchmarkObservation
			date, at string
		)
		if err := rows.Scan(&o.SeriesID, &date, &o.Value, &at); err != nil {
			return nil, fmt.Errorf("sqlite: scan benchmark: %w", err)
		}
		var err error
		if o.ObservationDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		if o.FetchedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}
