package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 19, cfg.Cellar.Rows)
	assert.Equal(t, 9, cfg.Cellar.FridgeSlots)
	assert.Equal(t, 15*time.Minute, cfg.Cellar.PlanTTL)
	assert.Equal(t, "@every 1m", cfg.Cellar.PlanSweepSpec)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("CELLAR_ROWS", "12")
	t.Setenv("CELLAR_PLAN_TTL", "5m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Cellar.Rows)
	assert.Equal(t, 5*time.Minute, cfg.Cellar.PlanTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_FilasInvalidas(t *testing.T) {
	t.Setenv("CELLAR_ROWS", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "cava", Password: "p@ss:word", DBName: "cava", SSLMode: "disable"}
	assert.Equal(t, "postgres://cava:p%40ss%3Aword@db:5432/cava?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
