package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/dto"
)

// ZoneService operaciones del asignador de filas por zona.
type ZoneService interface {
	GetActiveZoneMap(ctx context.Context, cellarID string) ([]dto.ZoneMapEntry, error)
	GetZoneStatuses(ctx context.Context, cellarID string) ([]dto.ZoneStatusDTO, error)
	GetAllZoneAllocations(ctx context.Context, cellarID string) ([]dto.ZoneAllocationDTO, error)
	GetZoneRows(ctx context.Context, cellarID, zoneID string) ([]int, error)
	RecordWineEvents(ctx context.Context, cellarID, zoneID string, delta int) (*dto.ZoneRowsResponse, error)
}

// ZoneHandler maneja las consultas de zonas y los eventos de alta/baja de vinos.
type ZoneHandler struct {
	svc ZoneService
}

// NewZoneHandler construye el handler.
func NewZoneHandler(svc ZoneService) *ZoneHandler {
	return &ZoneHandler{svc: svc}
}

// GetMap godoc
// @Summary      Mapa de filas por zona
// @Description  Una entrada por fila asignada, ordenada por número de fila.
// @Tags         zones
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ZoneMapEntry
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/zones/map [get]
func (h *ZoneHandler) GetMap(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.GetActiveZoneMap(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStatuses godoc
// @Summary      Estado de todas las zonas
// @Tags         zones
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ZoneStatusDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/zones/status [get]
func (h *ZoneHandler) GetStatuses(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.GetZoneStatuses(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAllocations godoc
// @Summary      Asignaciones persistidas de filas
// @Tags         zones
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ZoneAllocationDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/zones/allocations [get]
func (h *ZoneHandler) GetAllocations(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.GetAllZoneAllocations(c.UserContext(), cellarID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetRows godoc
// @Summary      Filas asignadas a una zona
// @Tags         zones
// @Security     Bearer
// @Produce      json
// @Param        zoneId  path  string  true  "ID de la zona"
// @Success      200  {object}  dto.ZoneRowsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/zones/{zoneId}/rows [get]
func (h *ZoneHandler) GetRows(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	zoneID := c.Params("zoneId")
	rows, err := h.svc.GetZoneRows(c.UserContext(), cellarID, zoneID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ZoneRowsResponse{ZoneID: zoneID, Rows: rows})
}

// RecordWineEvent godoc
// @Summary      Registrar altas o bajas de vinos en una zona
// @Description  delta > 0 registra altas (puede asignar filas nuevas); delta < 0 registra bajas
//
//	(libera las filas cuando el conteo llega a cero). El lote se aplica completo o no se
//	aplica: si faltan filas libres responde 409 sin modificar la asignación. |delta| no puede
//	superar la capacidad de la cava. Invalida la propuesta de layout cacheada.
//
// @Tags         zones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        zoneId  path  string                true  "ID de la zona"
// @Param        body    body  dto.WineEventRequest  true  "delta distinto de cero"
// @Success      200  {object}  dto.ZoneRowsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/zones/{zoneId}/wine-events [post]
func (h *ZoneHandler) RecordWineEvent(c *fiber.Ctx) error {
	cellarID := GetCellarID(c)
	if cellarID == "" {
		return unauthorized(c)
	}
	var in dto.WineEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Delta == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "delta debe ser distinto de cero"})
	}
	out, err := h.svc.RecordWineEvents(c.UserContext(), cellarID, c.Params("zoneId"), in.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
