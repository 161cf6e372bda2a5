package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
	"github.com/jhoicas/egg-price-terminal/internal/domain/repository"
	infrapdf "github.com/jhoicas/egg-price-terminal/internal/infrastructure/pdf"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/postgres"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/egg-price-terminal/internal/interfaces/http"
	"github.com/jhoicas/egg-price-terminal/pkg/config"
	"github.com/jhoicas/egg-price-terminal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateAPI(); err != nil {
		fmt.Fprintf(os.Stderr, "configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sink", cfg.Sink.Kind).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		summaryRepo   repository.StoreSummaryRepository
		benchmarkRepo repository.BenchmarkRepository
	)
	switch cfg.Sink.Kind {
	case config.SinkSQLite:
		db, err := sqlite.Open(ctx, cfg.Sink.SQLitePath)
		if err != nil {
			log.Error().Err(err).Msg("abrir SQLite")
			os.Exit(1)
		}
		defer db.Close()
		summaryRepo, benchmarkRepo = db, db
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{ApplicationName: cfg.App.Name + "-api", MaxConns: 10})
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL")
			os.Exit(1)
		}
		defer pool.Close()
		txRunner := postgres.NewTxRunner(pool)
		summaryRepo = postgres.NewStoreSummaryRepository(pool, txRunner)
		benchmarkRepo = postgres.NewBenchmarkRepository(pool, txRunner)
	}

	seriesID := ""
	if len(cfg.FRED.Series) > 0 {
		seriesID = cfg.FRED.Series[0]
	}
	dashboardUC := dashboard.NewUseCase(summaryRepo, benchmarkRepo, infrapdf.NewMarotoReportGenerator(), dashboard.Config{
		AppName:  cfg.App.Name,
		SeriesID: seriesID,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Egg Price Terminal API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:   cfg.App.Name,
		Dashboard: dashboardUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
