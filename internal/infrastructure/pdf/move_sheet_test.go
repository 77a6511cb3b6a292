package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/internal/infrastructure/pdf"
)

func TestGenerateMoveSheet_GeneraPDF(t *testing.T) {
	now := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	plan := &entity.ReconfigurationPlan{
		ID:        "3f0c2a8e-1111-4e5b-9c7d-0a1b2c3d4e5f",
		CellarID:  "c1",
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
		Moves: []entity.Move{
			{WineID: 10, WineName: "Catena Zapata Malbec", From: "R3C5", To: "R13C1", ZoneID: "malbec"},
			{WineID: 20, From: "R7C2", To: "R3C5"},
		},
	}

	g := pdf.NewMoveSheetGenerator(zone.DefaultRegistry())
	out, err := g.GenerateMoveSheet(context.Background(), plan)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
