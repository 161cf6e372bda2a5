// benchmarks descarga las series de referencia de FRED (por defecto APU0000708111)
// y hace upsert en egg_price_benchmarks.
//
// Uso: go run ./cmd/benchmarks
// Variables: FRED_API_KEY, FRED_SERIES, FRED_OBSERVATION_START (YYYY-MM-DD, opcional).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/egg-price-terminal/internal/application/benchmarks"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/fred"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/postgres"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/sqlite"
	"github.com/jhoicas/egg-price-terminal/pkg/config"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		return 1
	}
	if err := cfg.ValidateBenchmarks(); err != nil {
		fmt.Fprintf(os.Stderr, "configuración: %v\n", err)
		return 1
	}
	var start time.Time
	if cfg.FRED.ObservationStart != "" {
		start, _ = time.Parse(time.DateOnly, cfg.FRED.ObservationStart) // validado arriba
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.BenchmarkRepository
	switch cfg.Sink.Kind {
	case config.SinkSQLite:
		db, err := sqlite.Open(ctx, cfg.Sink.SQLitePath)
		if err != nil {
			log.Error().Err(err).Msg("abrir SQLite")
			return 1
		}
		defer db.Close()
		repo = db
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{ApplicationName: cfg.App.Name + "-benchmarks", MaxConns: 2})
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL")
			return 1
		}
		defer pool.Close()
		repo = postgres.NewBenchmarkRepository(pool, postgres.NewTxRunner(pool))
	}

	client := fred.NewClient(fred.Config{
		APIKey:       cfg.FRED.APIKey,
		BaseURL:      cfg.FRED.BaseURL,
		Timeout:      cfg.Pipeline.RequestTimeout,
		RequestDelay: cfg.Pipeline.RequestDelay,
		MaxAttempts:  cfg.Pipeline.MaxRetries,
	}, log)

	results, err := benchmarks.NewUseCase(client, repo, log).Sync(ctx, cfg.FRED.Series, start)
	if err != nil {
		log.Error().Err(err).Int("synced", len(results)).Msg("sincronización de series fallida")
		return 1
	}
	log.Info().Int("series", len(results)).Msg("sincronización de series finalizada")
	return 0
}
