package repository

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// SlotRepository define el puerto de persistencia para slots físicos.
// Todas las operaciones van acotadas por cellarID (aislamiento por inquilino).
type SlotRepository interface {
	ListByCellar(ctx context.Context, cellarID string) ([]*entity.Slot, error)
	// GetByLocations devuelve los slots existentes indexados por código; los códigos inexistentes no aparecen.
	GetByLocations(ctx context.Context, cellarID string, codes []string) (map[string]*entity.Slot, error)
	// ListPlacements devuelve las botellas colocadas unidas con su vino.
	ListPlacements(ctx context.Context, cellarID string) ([]entity.SlotPlacement, error)
	CountOccupied(ctx context.Context, cellarID string) (int, error)
	// ClearIfHolds vacía el slot solo si todavía contiene wineID. Devuelve filas afectadas.
	ClearIfHolds(ctx context.Context, cellarID, location string, wineID int64) (int64, error)
	// PlaceIfEmpty coloca wineID solo si el slot sigue vacío. Devuelve filas afectadas.
	PlaceIfEmpty(ctx context.Context, cellarID, location string, wineID int64) (int64, error)
	// Provision inserta los slots de una cava nueva; ignora los que ya existen.
	Provision(ctx context.Context, slots []entity.Slot) (int64, error)
}
