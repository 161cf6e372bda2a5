package pipeline_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/egg-price-terminal/internal/application/pipeline"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func summary(id string, regularAvg string) *entity.StoreSummary {
	s := &entity.StoreSummary{LocationID: id, CapturedDate: day, CapturedAt: day.Add(15 * time.Hour), Status: entity.StatusNoDataFound}
	if regularAvg != "" {
		v := decimal.NewNullDecimal(decimal.RequireFromString(regularAvg))
		s.RegularMin, s.RegularAvg, s.RegularMax = v, v, v
		s.Status = entity.StatusOK
	}
	return s
}

func TestBatchWriter_LotesDeTamañoFijo(t *testing.T) {
	repo := newMemorySummaryRepo()
	w := pipeline.NewBatchWriter(repo, 20, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		w.Add(ctx, summary(fmt.Sprintf("%08d", i), ""))
	}
	assert.Len(t, repo.batches, 2, "dos lotes llenos escritos durante Add")
	assert.Equal(t, 5, w.Pending())
	assert.False(t, w.FlushIfFull(ctx))

	w.FlushRemaining(ctx)
	require.Len(t, repo.batches, 3)
	assert.Len(t, repo.batches[0], 20)
	assert.Len(t, repo.batches[1], 20)
	assert.Len(t, repo.batches[2], 5)
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, pipeline.WriterStats{Rows: 45}, w.Stats())
}

// Un lote fallido se descarta y los siguientes se intentan de forma independiente.
func TestBatchWriter_LoteFallidoSeDescarta(t *testing.T) {
	repo := newMemorySummaryRepo()
	repo.failOn[1] = true
	w := pipeline.NewBatchWriter(repo, 2, logger.Nop())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		w.Add(ctx, summary(id, ""))
	}
	w.FlushRemaining(ctx)

	assert.Equal(t, []string{"c|2025-03-14", "d|2025-03-14", "e|2025-03-14"}, repo.keys())
	assert.Equal(t, pipeline.WriterStats{Rows: 3, FailedBatches: 1, FailedRows: 2}, w.Stats())
}

// Dos escrituras de la misma llave dejan una sola fila con los valores de la segunda.
func TestBatchWriter_UpsertSobrescribe(t *testing.T) {
	repo := newMemorySummaryRepo()
	w := pipeline.NewBatchWriter(repo, 20, logger.Nop())
	ctx := context.Background()

	w.Add(ctx, summary("01400943", "3.49"))
	w.FlushRemaining(ctx)
	w.Add(ctx, summary("01400943", "2.99"))
	w.FlushRemaining(ctx)

	require.Equal(t, []string{"01400943|2025-03-14"}, repo.keys())
	assert.Equal(t, "2.99", repo.rows["01400943|2025-03-14"].RegularAvg.Decimal.StringFixed(2))
}
