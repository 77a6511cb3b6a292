package ports

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// MoveSheetGenerator genera la hoja imprimible (PDF) de un plan de reconfiguración.
type MoveSheetGenerator interface {
	GenerateMoveSheet(ctx context.Context, plan *entity.ReconfigurationPlan) ([]byte, error)
}
