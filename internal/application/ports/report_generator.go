package ports

import (
	"context"

	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
)

// ReportGenerator genera el reporte diario de precios en PDF.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, report *dto.DailyReportDTO) ([]byte, error)
}
