package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// PlanService consolidación y planes de reconfiguración efímeros.
type PlanService interface {
	GenerateConsolidationMoves(ctx context.Context, cellarID string) (*dto.ConsolidationDTO, error)
	CreatePlan(ctx context.Context, cellarID string) (*dto.ReconfigurationPlanDTO, error)
	GetPlan(ctx context.Context, cellarID, planID string) (*entity.ReconfigurationPlan, error)
}

// PlanHandler maneja los planes de reconfiguración.
type PlanHandler struct {
	planner PlanService
	moves   MoveService
	sheet   ports.MoveSheetGenerator
}

// NewPlanHandler construye el handler.
func NewPlanHandler(planner PlanService, moves MoveService, sheet ports.MoveSheetGenerator) *PlanHandler {
	return &PlanHandler{planner: planner, moves: moves, sheet: sheet}
}

// Create godoc
// @Summary      Crear plan de reconfiguración
// @Description  Genera los movimientos de consolidación y los guarda como plan con vencimiento.
// @Tags         reconfiguration
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.ReconfigurationPlanDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NO_TARGET_LAYOUT"
// @Router       /api/reconfiguration/plans [post]
func (h *PlanHandler) Create(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.planner.CreatePlan(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener plan de reconfiguración
// @Tags         reconfiguration
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {object}  dto.ReconfigurationPlanDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reconfiguration/plans/{id} [get]
func (h *PlanHandler) GetByID(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	plan, err := h.planner.GetPlan(c.UserContext(), cellarID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconfigurationPlanDTO{
		ID:        plan.ID,
		Moves:     plan.Moves,
		CreatedAt: plan.CreatedAt,
		ExpiresAt: plan.ExpiresAt,
	})
}

// GetPDF godoc
// @Summary      Hoja de movimientos en PDF
// @Description  Devuelve el plan como PDF imprimible para ejecutar los movimientos a mano.
// @Tags         reconfiguration
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reconfiguration/plans/{id}/pdf [get]
func (h *PlanHandler) GetPDF(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	plan, err := h.planner.GetPlan(c.UserContext(), cellarID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	pdfBytes, err := h.sheet.GenerateMoveSheet(c.UserContext(), plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="plan-%s.pdf"`, plan.ID))
	return c.Send(pdfBytes)
}

// Apply godoc
// @Summary      Aplicar plan de reconfiguración
// @Description  Valida y ejecuta atómicamente los movimientos del plan. El plan se descarta al aplicarse.
// @Tags         reconfiguration
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {object}  dto.ExecuteMovesResponse
// @Failure      400  {object}  dto.ValidationFailedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictResponse  "discriminar por code: CONCURRENT_MODIFICATION | INTEGRITY_VIOLATION"
// @Failure      500  {object}  dto.PhaseErrorResponse
// @Router       /api/reconfiguration/plans/{id}/apply [post]
func (h *PlanHandler) Apply(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.moves.ApplyPlan(c.UserContext(), cellarID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
