package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// WineRepository puerto de solo lectura sobre vinos, más la actualización de zona.
type WineRepository interface {
	GetByIDs(ctx context.Context, cellarID string, ids []int64) (map[int64]*entity.Wine, error)
	UpdateZone(ctx context.Context, cellarID string, wineID int64, zoneID string, confidence *decimal.Decimal) (int64, error)
}
