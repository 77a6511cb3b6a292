package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/dto"
)

// LayoutService propuesta y persistencia del layout objetivo.
type LayoutService interface {
	ProposeZoneLayout(ctx context.Context, cellarID string) (*dto.LayoutProposalDTO, error)
	SaveZoneLayout(ctx context.Context, cellarID string, assignments []dto.LayoutAssignmentDTO) error
	GetSavedZoneLayout(ctx context.Context, cellarID string) (*dto.SavedLayoutDTO, error)
}

// LayoutHandler maneja el layout objetivo de la cava.
type LayoutHandler struct {
	svc     LayoutService
	planner PlanService
}

// NewLayoutHandler construye el handler.
func NewLayoutHandler(svc LayoutService, planner PlanService) *LayoutHandler {
	return &LayoutHandler{svc: svc, planner: planner}
}

// Propose godoc
// @Summary      Proponer layout de filas por zona
// @Description  Calcula, a partir de la ocupación actual, qué filas debería ocupar cada zona.
//
//	No modifica nada.
//
// @Tags         layout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LayoutProposalDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/layout/proposal [get]
func (h *LayoutHandler) Propose(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.ProposeZoneLayout(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSaved godoc
// @Summary      Layout objetivo confirmado
// @Tags         layout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SavedLayoutDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/layout [get]
func (h *LayoutHandler) GetSaved(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.GetSavedZoneLayout(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Confirmar layout objetivo
// @Description  Reemplaza atómicamente el layout objetivo de la cava.
// @Tags         layout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveLayoutRequest  true  "zone_id + filas por zona"
// @Success      200  {object}  dto.SavedLayoutDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/layout [put]
func (h *LayoutHandler) Save(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	var in dto.SaveLayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.svc.SaveZoneLayout(c.UserContext(), cellarID, in.Assignments); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetSavedZoneLayout(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Consolidation godoc
// @Summary      Movimientos de consolidación
// @Description  Movimientos sugeridos para llevar cada botella a las filas objetivo de su zona.
// @Tags         layout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ConsolidationDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NO_TARGET_LAYOUT"
// @Router       /api/layout/consolidation [get]
func (h *LayoutHandler) Consolidation(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.planner.GenerateConsolidationMoves(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
