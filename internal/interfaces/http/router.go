package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	Dashboard *dashboard.UseCase
}

// Router registra las rutas de la API. Todas son de solo lectura y públicas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", HealthHandler(deps.AppName))

	api := app.Group("/api")

	// Resúmenes diarios
	summaryHandler := NewSummaryHandler(deps.Dashboard)
	api.Get("/summaries", summaryHandler.ListByDate)
	api.Get("/summaries/overview", summaryHandler.Overview)
	api.Get("/stores/:location_id/summaries", summaryHandler.StoreHistory)

	// Reporte PDF
	reportHandler := NewReportHandler(deps.Dashboard)
	api.Get("/reports/daily.pdf", reportHandler.DailyPDF)

	// Series FRED
	benchmarkHandler := NewBenchmarkHandler(deps.Dashboard)
	api.Get("/benchmarks", benchmarkHandler.List)
}
