package repository

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// ZoneAllocationRepository persistencia de asignaciones zona → filas.
// No existe restricción de unicidad de filas en la base: la garantiza el asignador.
type ZoneAllocationRepository interface {
	ListByCellar(ctx context.Context, cellarID string) ([]*entity.ZoneAllocation, error)
	// Get devuelve nil, nil si la zona no tiene asignación.
	Get(ctx context.Context, cellarID, zoneID string) (*entity.ZoneAllocation, error)
	Save(ctx context.Context, alloc *entity.ZoneAllocation) error
	Delete(ctx context.Context, cellarID, zoneID string) error
}
