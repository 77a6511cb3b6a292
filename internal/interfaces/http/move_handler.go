package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// MoveService validación y ejecución atómica de movimientos.
type MoveService interface {
	ValidateMovePlan(ctx context.Context, cellarID string, moves []entity.Move) (*dto.MoveValidationResult, error)
	ExecuteMoves(ctx context.Context, cellarID string, moves []entity.Move) (*dto.ExecuteMovesResponse, error)
	ApplyPlan(ctx context.Context, cellarID, planID string) (*dto.ExecuteMovesResponse, error)
}

// MoveHandler maneja la validación y ejecución de planes de movimientos.
type MoveHandler struct {
	svc MoveService
}

// NewMoveHandler construye el handler.
func NewMoveHandler(svc MoveService) *MoveHandler {
	return &MoveHandler{svc: svc}
}

// Validate godoc
// @Summary      Validar plan de movimientos
// @Description  Comprueba el plan contra el estado actual sin modificar nada.
// @Tags         moves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExecuteMovesRequest  true  "movimientos"
// @Success      200  {object}  dto.MoveValidationResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/moves/validate [post]
func (h *MoveHandler) Validate(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	var in dto.ExecuteMovesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.ValidateMovePlan(c.UserContext(), cellarID, in.Moves)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Execute godoc
// @Summary      Ejecutar plan de movimientos
// @Description  Valida y aplica todos los movimientos en una sola transacción (todo o nada).
// @Tags         moves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExecuteMovesRequest  true  "movimientos"
// @Success      200  {object}  dto.ExecuteMovesResponse
// @Failure      400  {object}  dto.ValidationFailedResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictResponse  "discriminar por code: CONCURRENT_MODIFICATION | INTEGRITY_VIOLATION"
// @Failure      500  {object}  dto.PhaseErrorResponse
// @Router       /api/moves/execute [post]
func (h *MoveHandler) Execute(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	var in dto.ExecuteMovesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.ExecuteMoves(c.UserContext(), cellarID, in.Moves)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
