package ports

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/application/dto"
)

// CellarCache define el puerto de salida para las cachés derivadas de una cava
// (análisis y propuestas de layout). Las claves siempre van por cellar_id.
type CellarCache interface {
	// Invalidate descarta todo lo cacheado de la cava. Se invoca tras un commit de movimientos
	// y tras cada cambio de conteo de vinos por zona.
	Invalidate(ctx context.Context, cellarID string) error
	// GetProposal devuelve la propuesta cacheada; ok=false si no existe o expiró.
	GetProposal(ctx context.Context, cellarID string) (*dto.LayoutProposalDTO, bool)
	SetProposal(ctx context.Context, cellarID string, proposal *dto.LayoutProposalDTO)
}
