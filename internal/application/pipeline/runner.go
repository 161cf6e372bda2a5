// Package pipeline orquesta la corrida de scraping: enumera tiendas, consulta y clasifica
// productos por tienda, resume y escribe los resultados en lotes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/eggs"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

// finalFlushTimeout tiempo máximo para escribir el último lote tras una cancelación.
const finalFlushTimeout = 30 * time.Second

// StoreFetcher consulta y clasifica una tienda.
type StoreFetcher interface {
	FetchAndClassify(ctx context.Context, loc entity.StoreLocation) (*entity.StoreFetch, error)
}

// RunnerConfig selección de tiendas y paralelismo.
type RunnerConfig struct {
	Only        []string
	StartAt     int
	EndAt       int // -1 = hasta el final
	Concurrency int
	Location    *time.Location // zona para la fecha de captura; nil = UTC
}

// RunReport resultado de una corrida.
type RunReport struct {
	RunID         string
	Stores        int
	Succeeded     int
	Failed        int
	Rows          int
	FailedBatches int
	ByStatus      map[entity.SummaryStatus]int
	Duration      time.Duration
}

// Runner ejecuta la corrida completa.
type Runner struct {
	stores  *StoreEnumerator
	fetcher StoreFetcher
	writer  *BatchWriter
	cfg     RunnerConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewRunner construye el orquestador.
func NewRunner(stores *StoreEnumerator, fetcher StoreFetcher, writer *BatchWriter, cfg RunnerConfig, log *logger.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		stores:  stores,
		fetcher: fetcher,
		writer:  writer,
		cfg:     cfg,
		log:     log.Component("pipeline"),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run procesa todas las tiendas seleccionadas. Los fallos por tienda se registran y no
// detienen la corrida; solo un fallo de intercambio de credenciales, la cancelación del
// contexto o un error al enumerar tiendas se devuelven como error.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	started := r.now()
	report := &RunReport{
		RunID:    uuid.NewString(),
		ByStatus: make(map[entity.SummaryStatus]int),
	}
	log := r.log.WithField("run_id", report.RunID)

	all, err := r.stores.ListStoreLocations(ctx)
	if err != nil {
		return report, err
	}
	selected := Select(all, r.cfg.Only, r.cfg.StartAt, r.cfg.EndAt)
	report.Stores = len(selected)
	log.Info().Int("total", len(all)).Int("selected", len(selected)).Int("concurrency", r.cfg.Concurrency).
		Msg("iniciando corrida")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, store := range selected {
		if gctx.Err() != nil {
			break
		}
		i, store := i, store
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fetch, err := r.fetcher.FetchAndClassify(gctx, store)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExchange) {
					return err
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				report.Failed++
				mu.Unlock()
				log.Error().Err(err).Str("location_id", store.LocationID).Int("index", i).Msg("fallo al procesar tienda")
				return nil
			}

			summary := eggs.Summarize(store.LocationID, fetch, r.now(), r.cfg.Location)
			mu.Lock()
			report.Succeeded++
			report.ByStatus[summary.Status]++
			mu.Unlock()
			log.Info().Str("location_id", store.LocationID).Int("index", i).Str("status", string(summary.Status)).
				Int("regular", len(fetch.RegularPrices)).Int("organic", len(fetch.OrganicPrices)).
				Msg("tienda procesada")

			r.writer.Add(ctx, summary)
			return nil
		})
	}
	runErr := g.Wait()

	flushCtx := ctx
	if ctx.Err() != nil || runErr != nil {
		var cancel context.CancelFunc
		flushCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
		defer cancel()
	}
	r.writer.FlushRemaining(flushCtx)

	stats := r.writer.Stats()
	report.Rows = stats.Rows
	report.FailedBatches = stats.FailedBatches
	report.Duration = r.now().Sub(started)

	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Int("stores", report.Stores).Int("succeeded", report.Succeeded).Int("failed", report.Failed).
		Int("rows", report.Rows).Int("failed_batches", report.FailedBatches).
		Int("ok", report.ByStatus[entity.StatusOK]).
		Int("out_of_stock", report.ByStatus[entity.StatusOutOfStock]).
		Int("no_data_found", report.ByStatus[entity.StatusNoDataFound]).
		Dur("duration", report.Duration).
		Msg("corrida finalizada")

	if runErr != nil {
		return report, fmt.Errorf("corrida %s interrumpida: %w", report.RunID, runErr)
	}
	return report, nil
}
