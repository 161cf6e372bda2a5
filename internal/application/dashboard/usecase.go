// Package dashboard contiene los casos de uso de lectura del terminal de precios:
// resúmenes por fecha, vista nacional, historial por tienda, reporte PDF y series FRED.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 366
)

// Config parámetros de presentación.
type Config struct {
	AppName string
	// SeriesID serie FRED mostrada en la vista nacional y usada por defecto en /api/benchmarks.
	SeriesID string
}

// UseCase agrupa las consultas del dashboard. Solo lectura.
type UseCase struct {
	summaries  repository.StoreSummaryRepository
	benchmarks repository.BenchmarkRepository
	reports    ports.ReportGenerator
	cfg        Config
	now        func() time.Time
}

// NewUseCase construye el caso de uso. benchmarks puede ser nil (sin referencia FRED).
func NewUseCase(
	summaries repository.StoreSummaryRepository,
	benchmarks repository.BenchmarkRepository,
	reports ports.ReportGenerator,
	cfg Config,
) *UseCase {
	return &UseCase{
		summaries:  summaries,
		benchmarks: benchmarks,
		reports:    reports,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ── Resúmenes ─────────────────────────────────────────────────────────────────

// Summaries devuelve todas las filas de un día. date vacío = última fecha capturada.
func (uc *UseCase) Summaries(ctx context.Context, date string) (*dto.SummaryListDTO, error) {
	day, rows, err := uc.rowsFor(ctx, date)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreSummaryDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewStoreSummaryDTO(r))
	}
	return &dto.SummaryListDTO{Date: day.Format(time.DateOnly), Count: len(items), Items: items}, nil
}

// StoreHistory historial de una tienda, más reciente primero.
func (uc *UseCase) StoreHistory(ctx context.Context, locationID string, limit int) (*dto.SummaryListDTO, error) {
	id := entity.NormalizeLocationID(locationID)
	if id == "" {
		return nil, fmt.Errorf("%w: location_id requerido", domain.ErrInvalidInput)
	}
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 0 || limit > MaxHistoryLimit:
		return nil, fmt.Errorf("%w: limit debe estar entre 1 y %d", domain.ErrInvalidInput, MaxHistoryLimit)
	}
	rows, err := uc.summaries.ListByLocation(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: historial de %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dashboard: tienda %s sin resúmenes: %w", id, domain.ErrNotFound)
	}
	items := make([]dto.StoreSummaryDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewStoreSummaryDTO(r))
	}
	return &dto.SummaryListDTO{Count: len(items), Items: items}, nil
}

// ── Vista nacional ────────────────────────────────────────────────────────────

// Overview agrega un día completo. Falla con domain.ErrNotFound si el día no tiene filas.
//
// Dos consultas en paralelo:
//  1. ListByDate(día)          → conteos por estado + agregados regular/orgánico
//  2. Latest(serie de FRED)    → referencia nacional
func (uc *UseCase) Overview(ctx context.Context, date string) (*dto.OverviewDTO, error) {
	o, _, err := uc.overview(ctx, date)
	return o, err
}

func (uc *UseCase) overview(ctx context.Context, date string) (*dto.OverviewDTO, []*entity.StoreSummary, error) {
	day, err := uc.resolveDate(ctx, date)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows  []*entity.StoreSummary
		bench *entity.BenchmarkObservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = uc.summaries.ListByDate(gctx, day)
		if err != nil {
			return fmt.Errorf("dashboard: resúmenes del %s: %w", day.Format(time.DateOnly), err)
		}
		return nil
	})
	if uc.benchmarks != nil && uc.cfg.SeriesID != "" {
		g.Go(func() error {
			var err error
			bench, err = uc.benchmarks.Latest(gctx, uc.cfg.SeriesID)
			if err != nil {
				return fmt.Errorf("dashboard: referencia %s: %w", uc.cfg.SeriesID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("dashboard: sin resúmenes el %s: %w", day.Format(time.DateOnly), domain.ErrNotFound)
	}

	o := Aggregate(rows)
	o.Date = day.Format(time.DateOnly)
	if bench != nil {
		b := dto.NewBenchmarkDTO(*bench)
		o.Benchmark = &b
	}
	return o, rows, nil
}

// Aggregate calcula los agregados nacionales: mínimo de mínimos, promedio de los
// promedios por tienda (redondeado a centavos) y máximo de máximos.
func Aggregate(rows []*entity.StoreSummary) *dto.OverviewDTO {
	o := &dto.OverviewDTO{
		TotalStores:  len(rows),
		StatusCounts: map[string]int{},
	}
	var regular, organic bucketAcc
	for _, r := range rows {
		o.StatusCounts[string(r.Status)]++
		regular.add(r.RegularMin, r.RegularAvg, r.RegularMax)
		organic.add(r.OrganicMin, r.OrganicAvg, r.OrganicMax)
	}
	o.Regular = regular.result()
	o.Organic = organic.result()
	return o
}

type bucketAcc struct {
	stores int
	sum    decimal.Decimal
	min    decimal.NullDecimal
	max    decimal.NullDecimal
}

func (a *bucketAcc) add(lo, avg, hi decimal.NullDecimal) {
	if !avg.Valid {
		return
	}
	a.stores++
	a.sum = a.sum.Add(avg.Decimal)
	if lo.Valid && (!a.min.Valid || lo.Decimal.LessThan(a.min.Decimal)) {
		a.min = lo
	}
	if hi.Valid && (!a.max.Valid || hi.Decimal.GreaterThan(a.max.Decimal)) {
		a.max = hi
	}
}

func (a *bucketAcc) result() dto.BucketOverviewDTO {
	out := dto.BucketOverviewDTO{Stores: a.stores, Min: a.min, Max: a.max}
	if a.stores > 0 {
		out.Avg = decimal.NewNullDecimal(a.sum.Div(decimal.NewFromInt(int64(a.stores))).Round(2))
	}
	return out
}

// ── Reporte PDF ───────────────────────────────────────────────────────────────

// DailyReport genera el PDF del día indicado (vacío = último).
func (uc *UseCase) DailyReport(ctx context.Context, date string) ([]byte, string, error) {
	o, rows, err := uc.overview(ctx, date)
	if err != nil {
		return nil, "", err
	}
	items := make([]dto.StoreSummaryDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewStoreSummaryDTO(r))
	}
	doc, err := uc.reports.GenerateDailyReport(ctx, &dto.DailyReportDTO{
		AppName:     uc.cfg.AppName,
		GeneratedAt: uc.now(),
		Overview:    *o,
		Rows:        items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("dashboard: reporte PDF: %w", err)
	}
	return doc, fmt.Sprintf("egg-prices-%s.pdf", o.Date), nil
}

// ── Series de referencia ──────────────────────────────────────────────────────

// Benchmarks lista observaciones de una serie. series vacío = serie configurada;
// from/to vacíos = sin límite.
func (uc *UseCase) Benchmarks(ctx context.Context, series, from, to string) (*dto.BenchmarkListDTO, error) {
	if uc.benchmarks == nil {
		return nil, fmt.Errorf("dashboard: series de referencia no configuradas: %w", domain.ErrNotFound)
	}
	series = strings.TrimSpace(series)
	if series == "" {
		series = uc.cfg.SeriesID
	}
	if series == "" {
		return nil, fmt.Errorf("%w: series requerido", domain.ErrInvalidInput)
	}
	fromT, err := parseOptionalDate("from", from)
	if err != nil {
		return nil, err
	}
	toT, err := parseOptionalDate("to", to)
	if err != nil {
		return nil, err
	}
	if !fromT.IsZero() && !toT.IsZero() && toT.Before(fromT) {
		return nil, fmt.Errorf("%w: to anterior a from", domain.ErrInvalidInput)
	}

	obs, err := uc.benchmarks.ListRange(ctx, series, fromT, toT)
	if err != nil {
		return nil, fmt.Errorf("dashboard: serie %s: %w", series, err)
	}
	items := make([]dto.BenchmarkDTO, 0, len(obs))
	for _, o := range obs {
		items = append(items, dto.NewBenchmarkDTO(o))
	}
	return &dto.BenchmarkListDTO{SeriesID: series, From: from, To: to, Items: items}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *UseCase) rowsFor(ctx context.Context, date string) (time.Time, []*entity.StoreSummary, error) {
	day, err := uc.resolveDate(ctx, date)
	if err != nil {
		return time.Time{}, nil, err
	}
	rows, err := uc.summaries.ListByDate(ctx, day)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("dashboard: resúmenes del %s: %w", day.Format(time.DateOnly), err)
	}
	return day, rows, nil
}

// resolveDate interpreta YYYY-MM-DD o, si está vacío, consulta la última fecha capturada.
func (uc *UseCase) resolveDate(ctx context.Context, date string) (time.Time, error) {
	if strings.TrimSpace(date) != "" {
		return ParseDate(date)
	}
	day, err := uc.summaries.LatestDate(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return time.Time{}, fmt.Errorf("dashboard: no hay resúmenes capturados: %w", err)
		}
		return time.Time{}, fmt.Errorf("dashboard: última fecha: %w", err)
	}
	return day, nil
}

// ParseDate interpreta una fecha YYYY-MM-DD como 00:00 UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no tiene formato YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseOptionalDate(name, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
