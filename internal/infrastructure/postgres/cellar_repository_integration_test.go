package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cava-api/internal/testutil"
)

// ─── Cavas ───────────────────────────────────────────────────────────────────

func TestCellarRepo_CrearYLeer(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.TruncateAll(t, pool)
	ctx := context.Background()
	repo := postgres.NewCellarRepository(pool)

	c := &entity.Cellar{ID: uuid.NewString(), Name: "Cava principal"}
	require.NoError(t, repo.Create(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cava principal", got.Name)

	// Duplicado
	err = repo.Create(ctx, &entity.Cellar{ID: c.ID, Name: "otra"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
