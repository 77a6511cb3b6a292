package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cava-api/migrations"
)

func TestDriverURL_ConvierteEsquema(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/cava?sslmode=disable",
		migrations.DriverURL("postgres://u:p@localhost:5432/cava?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/cava", migrations.DriverURL("postgresql://u@db/cava"))
	assert.Equal(t, "pgx5://ya/convertida", migrations.DriverURL("pgx5://ya/convertida"))
}
