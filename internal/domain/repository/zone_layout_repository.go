package repository

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// ZoneLayoutRepository persistencia del layout objetivo confirmado.
type ZoneLayoutRepository interface {
	ListByCellar(ctx context.Context, cellarID string) ([]*entity.ZoneRowLayout, error)
	DeleteByCellar(ctx context.Context, cellarID string) error
	InsertBatch(ctx context.Context, rows []*entity.ZoneRowLayout) error
}
