package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
)

// ReportHandler sirve el reporte PDF diario.
type ReportHandler struct {
	uc *dashboard.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *dashboard.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// DailyPDF GET /api/reports/daily.pdf?date=YYYY-MM-DD
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.DailyReport(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
