package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/moves"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain"
)

// writeError traduce errores de aplicación a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var vErr *moves.ValidationFailedError
	var cErr *moves.ConflictError
	var pErr *moves.PhaseError

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationFailedResponse{
			Success: false,
			Validation: dto.ValidationFailureDetails{
				Errors:  vErr.Result.Errors,
				Summary: vErr.Result.Summary,
			},
		})
	case errors.As(err, &cErr):
		code := "CONCURRENT_MODIFICATION"
		if cErr.Kind == ports.ConflictIntegrity {
			code = "INTEGRITY_VIOLATION"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ConflictResponse{Success: false, Code: code, Error: cErr.Error()})
	case errors.As(err, &pErr):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.PhaseErrorResponse{
			Phase:     pErr.Phase,
			Error:     pErr.Err.Error(),
			MoveCount: pErr.MoveCount,
		})
	case errors.Is(err, domain.ErrUnknownZone):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_ZONE", Message: err.Error()})
	case errors.Is(err, domain.ErrPlanNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PLAN_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNoTargetLayout):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_TARGET_LAYOUT", Message: err.Error()})
	case errors.Is(err, domain.ErrCapacityExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CAPACITY_EXHAUSTED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
