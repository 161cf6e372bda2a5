// scraper consulta los precios de huevos por tienda en la Kroger Product API y escribe
// un resumen diario por tienda.
//
// Uso: go run ./cmd/scraper [--only 01400943,70100023]
// Rango por índice: START_AT / END_AT (END_AT exclusivo, -1 = hasta el final).
// Código de salida 0 al terminar todas las tiendas (aunque algunas fallen individualmente);
// 1 ante configuración incompleta o error fatal (credenciales rechazadas, interrupción).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jhoicas/egg-price-terminal/internal/application/pipeline"
	"github.com/jhoicas/egg-price-terminal/internal/domain/eggs"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/kroger"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/postgres"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/redis"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/sqlite"
	"github.com/jhoicas/egg-price-terminal/pkg/config"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	only := flag.String("only", "", "IDs de tienda separados por coma")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		return 1
	}
	if err := cfg.ValidateScraper(); err != nil {
		fmt.Fprintf(os.Stderr, "configuración: %v\n", err)
		return 1
	}
	priceOrder, err := eggs.ParsePriceOrder(cfg.Pipeline.PriceFields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PIPELINE_PRICE_FIELDS: %v\n", err)
		return 1
	}
	loc, err := cfg.Pipeline.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuración: %v\n", err)
		return 1
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("env", cfg.App.Env).
		Str("sink", cfg.Sink.Kind).
		Msg("iniciando scraper")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Destino: tiendas + resúmenes ──────────────────────────────────────────
	var (
		storeRepo   repository.StoreLocationRepository
		summaryRepo repository.StoreSummaryWriter
	)
	switch cfg.Sink.Kind {
	case config.SinkSQLite:
		db, err := sqlite.Open(ctx, cfg.Sink.SQLitePath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Sink.SQLitePath).Msg("abrir SQLite")
			return 1
		}
		defer db.Close()
		storeRepo, summaryRepo = db, db
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{
			MaxConns:        int32(cfg.Pipeline.Concurrency + 2),
			ApplicationName: cfg.App.Name + "-scraper",
		})
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL")
			return 1
		}
		defer pool.Close()
		storeRepo = postgres.NewStoreLocationRepository(pool)
		summaryRepo = postgres.NewStoreSummaryRepository(pool, postgres.NewTxRunner(pool))
	}

	// ── Proveedor de precios ──────────────────────────────────────────────────
	tokenCfg := kroger.TokenProviderConfig{
		ClientID:     cfg.Kroger.ClientID,
		ClientSecret: cfg.Kroger.ClientSecret,
		TokenURL:     cfg.Kroger.TokenURL,
		Scope:        cfg.Kroger.Scope,
		Timeout:      cfg.Pipeline.RequestTimeout,
	}
	if cfg.Redis.URL != "" {
		cache, err := redis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			// La caché compartida es opcional: se continúa con la caché en memoria.
			log.Warn().Err(err).Msg("Redis no disponible, token solo en memoria")
		} else {
			defer cache.Close()
			tokenCfg.Cache = cache
		}
	}
	tokens := kroger.NewTokenProvider(tokenCfg, log)
	client := kroger.NewClient(kroger.ClientConfig{
		BaseURL:      cfg.Kroger.BaseURL,
		Timeout:      cfg.Pipeline.RequestTimeout,
		RequestDelay: cfg.Pipeline.RequestDelay,
		MaxAttempts:  cfg.Pipeline.MaxRetries,
	}, tokens, log)

	// ── Pipeline ──────────────────────────────────────────────────────────────
	fetcher := pipeline.NewFetcher(client, pipeline.FetcherConfig{
		SearchTerms: cfg.Pipeline.SearchTerms,
		PageSize:    cfg.Pipeline.PageSize,
		MaxStart:    cfg.Pipeline.MaxStart,
		InStoreOnly: cfg.Pipeline.InStoreOnly,
		PriceOrder:  priceOrder,
	}, log)
	runner := pipeline.NewRunner(
		pipeline.NewStoreEnumerator(storeRepo, cfg.Pipeline.StorePageSize),
		fetcher,
		pipeline.NewBatchWriter(summaryRepo, cfg.Pipeline.BatchSize, log),
		pipeline.RunnerConfig{
			Only:        splitIDs(*only),
			StartAt:     cfg.Pipeline.StartAt,
			EndAt:       cfg.Pipeline.EndAt,
			Concurrency: cfg.Pipeline.Concurrency,
			Location:    loc,
		},
		log,
	)

	if _, err := runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scraper finalizado con error")
		return 1
	}
	log.Info().Msg("scraper finalizado")
	return 0
}

// splitIDs interpreta el valor de --only; vacío = todas las tiendas.
func splitIDs(s string) []string {
	var ids []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
