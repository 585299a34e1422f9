package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
)

// writeError traduce errores de dominio a status + ErrorResponse.
// Lo no reconocido es 500 con mensaje genérico; el detalle solo va al log.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var ve *domain.ValidationError
	var pnf *domain.ProductNotFoundError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos de la compra inválidos", Fields: ve.Fields,
		})
	case errors.Is(err, domain.ErrEmptyLineSet):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "EMPTY_LINE_SET", Message: "la compra debe tener al menos una línea",
		})
	case errors.As(err, &pnf):
		line := pnf.Line
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado", ProductID: pnf.ProductID, Line: &line,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "compra no encontrada"})
	case errors.Is(err, domain.ErrInvalidCostRecalculation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "INVALID_COST_RECALCULATION", Message: "el stock resultante sería 0; no se puede recalcular el costo promedio",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de la compra inválidos"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permiso"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
