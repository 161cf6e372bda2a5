package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
)

// BenchmarkHandler expone las series de referencia.
type BenchmarkHandler struct {
	uc *dashboard.UseCase
}

// NewBenchmarkHandler construye el handler.
func NewBenchmarkHandler(uc *dashboard.UseCase) *BenchmarkHandler {
	return &BenchmarkHandler{uc: uc}
}

// List GET /api/benchmarks?series=APU0000708111&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *BenchmarkHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Benchmarks(c.UserContext(), c.Query("series"), c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
