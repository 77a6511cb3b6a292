package dto

import (
	"time"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// LayoutProposalDTO resultado de la propuesta de layout.
type LayoutProposalDTO struct {
	Assignments   []entity.ZoneRowAssignment `json:"assignments"`
	UnusedRows    []int                      `json:"unused_rows"`
	Overflow      []ZoneCountDTO             `json:"overflow"`
	Residual      []ZoneCountDTO             `json:"residual"`
	TotalBottles  int                        `json:"total_bottles"`
	TotalCapacity int                        `json:"total_capacity"`
}

// ZoneCountDTO botellas de una zona que no recibieron filas dedicadas.
type ZoneCountDTO struct {
	ZoneID      string `json:"zone_id"`
	BottleCount int    `json:"bottle_count"`
}

// SaveLayoutRequest body para PUT /api/layout.
type SaveLayoutRequest struct {
	Assignments []LayoutAssignmentDTO `json:"assignments"`
}

// LayoutAssignmentDTO filas asignadas a una zona dentro del layout objetivo.
type LayoutAssignmentDTO struct {
	ZoneID string `json:"zone_id"`
	Rows   []int  `json:"rows"`
}

// SavedLayoutDTO layout objetivo confirmado.
type SavedLayoutDTO struct {
	Assignments []LayoutAssignmentDTO `json:"assignments"`
	SavedAt     *time.Time            `json:"saved_at,omitempty"`
}

// ConsolidationDTO movimientos sugeridos hacia el layout confirmado.
type ConsolidationDTO struct {
	Moves   []entity.Move           `json:"moves"`
	Groups  []ConsolidationGroupDTO `json:"groups"`
	Skipped []SkippedBottleDTO      `json:"skipped"`
}

// ConsolidationGroupDTO movimientos agrupados por zona destino.
type ConsolidationGroupDTO struct {
	ZoneID      string        `json:"zone_id"`
	DisplayName string        `json:"display_name"`
	Moves       []entity.Move `json:"moves"`
}

// SkippedBottleDTO botella mal ubicada que no se pudo reubicar.
type SkippedBottleDTO struct {
	WineID   int64  `json:"wine_id"`
	WineName string `json:"wine_name"`
	Location string `json:"location"`
	ZoneID   string `json:"zone_id"`
	Reason   string `json:"reason"` // no_target_rows | target_rows_full
}

// ReconfigurationPlanDTO plan cacheado con sus movimientos.
type ReconfigurationPlanDTO struct {
	ID        string             `json:"id"`
	Moves     []entity.Move      `json:"moves"`
	Skipped   []SkippedBottleDTO `json:"skipped"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}
