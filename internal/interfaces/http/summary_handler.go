package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/egg-price-terminal/internal/application/dashboard"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
)

// SummaryHandler maneja los endpoints de resúmenes diarios.
type SummaryHandler struct {
	uc *dashboard.UseCase
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(uc *dashboard.UseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// ListByDate devuelve todas las tiendas de un día.
// GET /api/summaries?date=YYYY-MM-DD
//
// Sin date se usa la última fecha capturada.
func (h *SummaryHandler) ListByDate(c *fiber.Ctx) error {
	out, err := h.uc.Summaries(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Overview devuelve conteos por estado, agregados nacionales y la referencia FRED.
// GET /api/summaries/overview?date=YYYY-MM-DD
func (h *SummaryHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StoreHistory devuelve el historial de una tienda.
// GET /api/stores/:location_id/summaries?limit=30
func (h *SummaryHandler) StoreHistory(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, fmt.Errorf("%w: limit %q no es un entero", domain.ErrInvalidInput, raw))
		}
		limit = n
	}
	out, err := h.uc.StoreHistory(c.UserContext(), c.Params("location_id"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
