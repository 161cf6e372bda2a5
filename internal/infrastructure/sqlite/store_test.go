package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/sqlite"
)

func openMemory(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func nd(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

// Dos escrituras de la misma llave dejan una sola fila con los valores de la segunda.
func TestUpsertBatch_RoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	first := &entity.StoreSummary{
		LocationID: "01400943", CapturedDate: day, CapturedAt: day.Add(9 * time.Hour), Status: entity.StatusOK,
		RegularMin: nd("3.49"), RegularAvg: nd("3.49"), RegularMax: nd("3.49"),
		OrganicMin: nd("5.99"), OrganicAvg: nd("5.99"), OrganicMax: nd("5.99"),
	}
	second := &entity.StoreSummary{
		LocationID: "01400943", CapturedDate: day, CapturedAt: day.Add(18 * time.Hour), Status: entity.StatusOutOfStock,
	}
	other := &entity.StoreSummary{LocationID: "01400944", CapturedDate: day, CapturedAt: day, Status: entity.StatusNoDataFound}

	require.NoError(t, s.UpsertBatch(ctx, []*entity.StoreSummary{first, other}))
	require.NoError(t, s.UpsertBatch(ctx, []*entity.StoreSummary{second}))

	rows, err := s.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	got := rows[0]
	assert.Equal(t, "01400943", got.LocationID)
	assert.Equal(t, entity.StatusOutOfStock, got.Status)
	assert.True(t, got.CapturedAt.Equal(second.CapturedAt))
	assert.False(t, got.RegularAvg.Valid, "la segunda escritura deja las estadísticas nulas")
	assert.False(t, got.OrganicMax.Valid)
}

func TestUpsertBatch_ConservaDecimales(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	row := &entity.StoreSummary{
		LocationID: "01400943", CapturedDate: day, CapturedAt: day, Status: entity.StatusOK,
		RegularMin: nd("2.79"), RegularAvg: nd("3.42"), RegularMax: nd("3.99"),
	}
	require.NoError(t, s.UpsertBatch(ctx, []*entity.StoreSummary{row}))

	rows, err := s.ListByLocation(ctx, "01400943", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2.79", rows[0].RegularMin.Decimal.StringFixed(2))
	assert.Equal(t, "3.42", rows[0].RegularAvg.Decimal.StringFixed(2))
	assert.Equal(t, "3.99", rows[0].RegularMax.Decimal.StringFixed(2))
	assert.Equal(t, "2025-03-14", rows[0].DateKey())
}

// Un lote con una fila inválida no escribe ninguna.
func TestUpsertBatch_Atomico(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	good := &entity.StoreSummary{LocationID: "a", CapturedDate: day, CapturedAt: day, Status: entity.StatusOK}
	bad := &entity.StoreSummary{LocationID: "b", CapturedDate: day, CapturedAt: day, Status: "UNKNOWN"}
	assert.Error(t, s.UpsertBatch(ctx, []*entity.StoreSummary{good, bad}))

	_, err := s.LatestDate(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatestDateYListByLocation(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	var rows []*entity.StoreSummary
	for i := 0; i < 3; i++ {
		d := day.AddDate(0, 0, i)
		rows = append(rows, &entity.StoreSummary{LocationID: "01400943", CapturedDate: d, CapturedAt: d, Status: entity.StatusNoDataFound})
	}
	require.NoError(t, s.UpsertBatch(ctx, rows))

	latest, err := s.LatestDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-16", latest.Format("2006-01-02"))

	history, err := s.ListByLocation(ctx, "01400943", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2025-03-16", history[0].DateKey())
	assert.Equal(t, "2025-03-15", history[1].DateKey())
}

func TestListPage_Keyset(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertStores(ctx, []entity.StoreLocation{
		{LocationID: "03500520", Name: "Ralphs"},
		{LocationID: "01400943", Name: "Kroger", State: "OH"},
		{LocationID: "02100105", Name: "Fred Meyer"},
	}))

	page, err := s.ListPage(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "01400943", page[0].LocationID)
	assert.Equal(t, "OH", page[0].State)
	assert.Equal(t, "02100105", page[1].LocationID)

	page, err = s.ListPage(ctx, page[1].LocationID, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "03500520", page[0].LocationID)
}

func TestBenchmarks(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	none, err := s.Latest(ctx, "APU0000708111")
	require.NoError(t, err)
	assert.Nil(t, none)

	fetched := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	obs := []entity.BenchmarkObservation{
		{SeriesID: "APU0000708111", ObservationDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: decimal.RequireFromString("4.946"), FetchedAt: fetched},
		{SeriesID: "APU0000708111", ObservationDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Value: decimal.RequireFromString("5.897"), FetchedAt: fetched},
	}
	n, err := s.UpsertObservations(ctx, obs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	obs[1].Value = decimal.RequireFromString("5.900")
	_, err = s.UpsertObservations(ctx, obs[1:])
	require.NoError(t, err)

	latest, err := s.Latest(ctx, "APU0000708111")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2025-02-01", latest.ObservationDate.Format("2006-01-02"))
	assert.True(t, latest.Value.Equal(decimal.RequireFromString("5.9")))

	all, err := s.ListRange(ctx, "APU0000708111", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	jan, err := s.ListRange(ctx, "APU0000708111", time.Time{}, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.True(t, jan[0].Value.Equal(decimal.RequireFromString("4.946")))
}
