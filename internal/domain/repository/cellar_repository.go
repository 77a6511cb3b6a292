package repository

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// CellarRepository persistencia de cavas.
type CellarRepository interface {
	Create(ctx context.Context, c *entity.Cellar) error
	GetByID(ctx context.Context, id string) (*entity.Cellar, error)
}
