package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSummaries struct {
	byDate     map[string][]*entity.StoreSummary
	byLocation map[string][]*entity.StoreSummary
	latest     time.Time
	err        error
	lastLimit  int
}

func (f *fakeSummaries) UpsertBatch(context.Context, []*entity.StoreSummary) error { return nil }

func (f *fakeSummaries) ListByDate(_ context.Context, date time.Time) ([]*entity.StoreSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[date.Format(time.DateOnly)], nil
}

func (f *fakeSummaries) ListByLocation(_ context.Context, id string, limit int) ([]*entity.StoreSummary, error) {
	f.lastLimit = limit
	return f.byLocation[id], nil
}

func (f *fakeSummaries) LatestDate(context.Context) (time.Time, error) {
	if f.latest.IsZero() {
		return time.Time{}, domain.ErrNotFound
	}
	return f.latest, nil
}

type fakeBenchmarks struct {
	latest   *entity.BenchmarkObservation
	obs      []entity.BenchmarkObservation
	from, to time.Time
}

func (f *fakeBenchmarks) UpsertObservations(_ context.Context, obs []entity.BenchmarkObservation) (int, error) {
	return len(obs), nil
}

func (f *fakeBenchmarks) Latest(context.Context, string) (*entity.BenchmarkObservation, error) {
	return f.latest, nil
}

func (f *fakeBenchmarks) ListRange(_ context.Context, _ string, from, to time.Time) ([]entity.BenchmarkObservation, error) {
	f.from, f.to = from, to
	return f.obs, nil
}

type fakeReports struct {
	got *dto.DailyReportDTO
	err error
}

func (f *fakeReports) GenerateDailyReport(_ context.Context, r *dto.DailyReportDTO) ([]byte, error) {
	f.got = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

// ── Datos ─────────────────────────────────────────────────────────────────────

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

var day = time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

func dayRows() []*entity.StoreSummary {
	return []*entity.StoreSummary{
		{
			LocationID: "01400943", CapturedDate: day, Status: entity.StatusOK,
			RegularMin: price("2.99"), RegularAvg: price("3.49"), RegularMax: price("3.99"),
			OrganicMin: price("5.99"), OrganicAvg: price("5.99"), OrganicMax: price("5.99"),
		},
		{
			LocationID: "01400944", CapturedDate: day, Status: entity.StatusOK,
			RegularMin: price("3.19"), RegularAvg: price("3.50"), RegularMax: price("4.29"),
		},
		{LocationID: "01400945", CapturedDate: day, Status: entity.StatusOutOfStock},
		{LocationID: "01400946", CapturedDate: day, Status: entity.StatusNoDataFound},
	}
}

func newUseCase(s *fakeSummaries, b *fakeBenchmarks, r *fakeReports) *dashboard.UseCase {
	return dashboard.NewUseCase(s, b, r, dashboard.Config{AppName: "egg-price-terminal", SeriesID: "APU0000708111"})
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestSummaries_UltimaFechaPorDefecto(t *testing.T) {
	s := &fakeSummaries{latest: day, byDate: map[string][]*entity.StoreSummary{"2025-03-04": dayRows()}}
	uc := newUseCase(s, &fakeBenchmarks{}, &fakeReports{})

	out, err := uc.Summaries(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", out.Date)
	assert.Equal(t, 4, out.Count)
	assert.Equal(t, "01400943", out.Items[0].LocationID)
	assert.Equal(t, "OK", out.Items[0].Status)
}

func TestSummaries_FechaSinFilas(t *testing.T) {
	uc := newUseCase(&fakeSummaries{latest: day}, &fakeBenchmarks{}, &fakeReports{})

	out, err := uc.Summaries(context.Background(), "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Items)
}

func TestSummaries_Errores(t *testing.T) {
	uc := newUseCase(&fakeSummaries{}, &fakeBenchmarks{}, &fakeReports{})

	_, err := uc.Summaries(context.Background(), "04/03/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Summaries(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound, "tabla vacía")

	boom := errors.New("conexión cerrada")
	uc = newUseCase(&fakeSummaries{err: boom}, &fakeBenchmarks{}, &fakeReports{})
	_, err = uc.Summaries(context.Background(), "2025-03-04")
	assert.ErrorIs(t, err, boom)
}

func TestOverview(t *testing.T) {
	s := &fakeSummaries{latest: day, byDate: map[string][]*entity.StoreSummary{"2025-03-04": dayRows()}}
	b := &fakeBenchmarks{latest: &entity.BenchmarkObservation{
		SeriesID: "APU0000708111", ObservationDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Value: decimal.RequireFromString("4.946"),
	}}
	uc := newUseCase(s, b, &fakeReports{})

	o, err := uc.Overview(context.Background(), "2025-03-04")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04", o.Date)
	assert.Equal(t, 4, o.TotalStores)
	assert.Equal(t, map[string]int{"OK": 2, "OUT_OF_STOCK": 1, "NO_DATA_FOUND": 1}, o.StatusCounts)

	assert.Equal(t, 2, o.Regular.Stores)
	assert.Equal(t, "2.99", o.Regular.Min.Decimal.StringFixed(2))
	assert.Equal(t, "3.50", o.Regular.Avg.Decimal.StringFixed(2), "(3.49 + 3.50) / 2 redondeado a centavos")
	assert.Equal(t, "4.29", o.Regular.Max.Decimal.StringFixed(2))

	assert.Equal(t, 1, o.Organic.Stores)
	assert.Equal(t, "5.99", o.Organic.Avg.Decimal.StringFixed(2))

	require.NotNil(t, o.Benchmark)
	assert.Equal(t, "2025-01-01", o.Benchmark.Date)
}

func TestOverview_SinFilas(t *testing.T) {
	uc := newUseCase(&fakeSummaries{}, &fakeBenchmarks{}, &fakeReports{})

	_, err := uc.Overview(context.Background(), "2025-03-04")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOverview_SinSerieDeReferencia(t *testing.T) {
	s := &fakeSummaries{byDate: map[string][]*entity.StoreSummary{"2025-03-04": dayRows()}}
	uc := dashboard.NewUseCase(s, nil, &fakeReports{}, dashboard.Config{})

	o, err := uc.Overview(context.Background(), "2025-03-04")
	require.NoError(t, err)
	assert.Nil(t, o.Benchmark)
}

func TestAggregate_BucketVacio(t *testing.T) {
	o := dashboard.Aggregate([]*entity.StoreSummary{{LocationID: "1", Status: entity.StatusNoDataFound}})

	assert.Equal(t, 0, o.Regular.Stores)
	assert.False(t, o.Regular.Min.Valid)
	assert.False(t, o.Regular.Avg.Valid)
	assert.False(t, o.Regular.Max.Valid)
}

func TestStoreHistory(t *testing.T) {
	s := &fakeSummaries{byLocation: map[string][]*entity.StoreSummary{"01400943": dayRows()[:1]}}
	uc := newUseCase(s, &fakeBenchmarks{}, &fakeReports{})

	out, err := uc.StoreHistory(context.Background(), "1400943", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, dashboard.DefaultHistoryLimit, s.lastLimit)

	_, err = uc.StoreHistory(context.Background(), "99999999", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.StoreHistory(context.Background(), "01400943", dashboard.MaxHistoryLimit+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.StoreHistory(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDailyReport(t *testing.T) {
	s := &fakeSummaries{latest: day, byDate: map[string][]*entity.StoreSummary{"2025-03-04": dayRows()}}
	r := &fakeReports{}
	uc := newUseCase(s, &fakeBenchmarks{}, r)

	doc, name, err := uc.DailyReport(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), doc)
	assert.Equal(t, "egg-prices-2025-03-04.pdf", name)

	require.NotNil(t, r.got)
	assert.Equal(t, "egg-price-terminal", r.got.AppName)
	assert.Len(t, r.got.Rows, 4)
	assert.Equal(t, 4, r.got.Overview.TotalStores)
}

func TestDailyReport_FalloDelGenerador(t *testing.T) {
	s := &fakeSummaries{byDate: map[string][]*entity.StoreSummary{"2025-03-04": dayRows()}}
	uc := newUseCase(s, &fakeBenchmarks{}, &fakeReports{err: errors.New("fuente no disponible")})

	_, _, err := uc.DailyReport(context.Background(), "2025-03-04")
	assert.Error(t, err)
}

func TestBenchmarks(t *testing.T) {
	b := &fakeBenchmarks{obs: []entity.BenchmarkObservation{
		{SeriesID: "APU0000708111", ObservationDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: decimal.RequireFromString("4.946")},
	}}
	uc := newUseCase(&fakeSummaries{}, b, &fakeReports{})

	out, err := uc.Benchmarks(context.Background(), "", "2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, "APU0000708111", out.SeriesID)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "2025-01-01", out.Items[0].Date)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), b.from)
	assert.True(t, b.to.IsZero())

	_, err = uc.Benchmarks(context.Background(), "", "2025-02-01", "2025-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Benchmarks(context.Background(), "", "ayer", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
