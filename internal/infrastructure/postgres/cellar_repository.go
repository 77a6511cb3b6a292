package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

var _ repository.CellarRepository = (*CellarRepo)(nil)

// CellarRepo implementación de CellarRepository sobre PostgreSQL.
type CellarRepo struct {
	q Querier
}

// NewCellarRepository construye el adaptador de cavas. Pasar pool o tx (Querier).
func NewCellarRepository(q Querier) *CellarRepo {
	return &CellarRepo{q: q}
}

// Create inserta la cava y completa CreatedAt.
func (r *CellarRepo) Create(ctx context.Context, c *entity.Cellar) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO cellars (id, name) VALUES ($1, $2) RETURNING created_at`,
		c.ID, c.Name,
	).Scan(&c.CreatedAt)
	if err != nil {
		return wrap("create cellar", err)
	}
	return nil
}

// GetByID obtiene una cava. domain.ErrNotFound si no existe.
func (r *CellarRepo) GetByID(ctx context.Context, id string) (*entity.Cellar, error) {
	var c entity.Cellar
	err := r.q.QueryRow(ctx,
		`SELECT id, name, created_at FROM cellars WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cava %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get cellar", err)
	}
	return &c, nil
}
