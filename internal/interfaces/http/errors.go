package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
	"github.com/jhoicas/egg-price-terminal/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// HealthHandler GET /health
func HealthHandler(appName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthDTO{Status: "ok", App: appName})
	}
}
