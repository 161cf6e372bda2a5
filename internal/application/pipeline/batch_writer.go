package pipeline

import (
	"context"
	"sync"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// DefaultBatchSize filas por upsert.
const DefaultBatchSize = 20

// WriterStats contadores acumulados del writer.
type WriterStats struct {
	Rows          int // filas escritas con éxito
	FailedBatches int
	FailedRows    int
}

// BatchWriter acumula resúmenes y los escribe en lotes con un único upsert por lote.
// Un lote fallido se registra y se descarta; los siguientes se intentan de forma independiente.
type BatchWriter struct {
	repo repository.StoreSummaryWriter
	size int
	log  *logger.Logger

	mu      sync.Mutex
	pending []*entity.StoreSummary
	stats   WriterStats
}

// NewBatchWriter construye el writer. size <= 0 usa DefaultBatchSize.
func NewBatchWriter(repo repository.StoreSummaryWriter, size int, log *logger.Logger) *BatchWriter {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchWriter{repo: repo, size: size, log: log.Component("writer")}
}

// Add encola una fila y escribe el lote si alcanzó el tamaño configurado.
func (w *BatchWriter) Add(ctx context.Context, row *entity.StoreSummary) {
	w.mu.Lock()
	w.pending = append(w.pending, row)
	w.mu.Unlock()
	w.FlushIfFull(ctx)
}

// FlushIfFull escribe un lote si hay al menos size filas pendientes. Devuelve true si escribió.
func (w *BatchWriter) FlushIfFull(ctx context.Context) bool {
	w.mu.Lock()
	if len(w.pending) < w.size {
		w.mu.Unlock()
		return false
	}
	batch := w.take(w.size)
	w.mu.Unlock()

	w.write(ctx, batch)
	return true
}

// FlushRemaining escribe todo lo pendiente (en lotes de size filas).
func (w *BatchWriter) FlushRemaining(ctx context.Context) {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.mu.Unlock()
			return
		}
		batch := w.take(w.size)
		w.mu.Unlock()

		w.write(ctx, batch)
	}
}

// Pending filas aún no escritas.
func (w *BatchWriter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Stats devuelve una copia de los contadores.
func (w *BatchWriter) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// take saca hasta n filas del frente. Requiere w.mu.
func (w *BatchWriter) take(n int) []*entity.StoreSummary {
	if n > len(w.pending) {
		n = len(w.pending)
	}
	batch := make([]*entity.StoreSummary, n)
	copy(batch, w.pending[:n])
	w.pending = w.pending[n:]
	return batch
}

func (w *BatchWriter) write(ctx context.Context, batch []*entity.StoreSummary) {
	err := w.repo.UpsertBatch(ctx, batch)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.FailedBatches++
		w.stats.FailedRows += len(batch)
		ids := make([]string, 0, len(batch))
		for _, r := range batch {
			ids = append(ids, r.LocationID)
		}
		w.log.Error().Err(err).Int("rows", len(batch)).Strs("location_ids", ids).
			Msg("upsert de lote fallido; lote descartado")
		return
	}
	w.stats.Rows += len(batch)
	w.log.Info().Int("rows", len(batch)).Int("total", w.stats.Rows).Msg("lote escrito")
}
