// Package pdf genera la hoja de movimientos imprimible de un plan de reconfiguración.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cava + título      │  Plan + fecha + vencimiento   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total de movimientos, zonas destino               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Vino | Desde | Hacia | Zona | Hecho             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id del plan + instrucciones              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 94, Green: 22, Blue: 43}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.MoveSheetGenerator = (*MoveSheetGenerator)(nil)

// MoveSheetGenerator implementa ports.MoveSheetGenerator usando Maroto v2.
type MoveSheetGenerator struct {
	registry *zone.Registry
}

// NewMoveSheetGenerator construye el generador.
func NewMoveSheetGenerator(registry *zone.Registry) *MoveSheetGenerator {
	return &MoveSheetGenerator{registry: registry}
}

// GenerateMoveSheet genera el PDF del plan y devuelve sus bytes.
func (g *MoveSheetGenerator) GenerateMoveSheet(_ context.Context, plan *entity.ReconfigurationPlan) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(plan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(plan, g.zoneNames(plan)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableMoveRows(plan.Moves, g.displayName) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(plan))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar hoja de movimientos: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MoveSheetGenerator) displayName(zoneID string) string {
	if zoneID == "" {
		return "-"
	}
	if def, ok := g.registry.Get(zoneID); ok {
		return def.DisplayName
	}
	return zoneID
}

// zoneNames zonas destino distintas en orden de aparición.
func (g *MoveSheetGenerator) zoneNames(plan *entity.ReconfigurationPlan) []string {
	seen := make(map[string]bool)
	var out []string
	for _, mv := range plan.Moves {
		if mv.ZoneID == "" || seen[mv.ZoneID] {
			continue
		}
		seen[mv.ZoneID] = true
		out = append(out, g.displayName(mv.ZoneID))
	}
	return out
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(plan *entity.ReconfigurationPlan) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REORGANIZACIÓN DE LA CAVA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Hoja de movimientos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PLAN "+shortID(plan.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+plan.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Vence: "+plan.ExpiresAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func summaryRow(plan *entity.ReconfigurationPlan, zones []string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%d botellas a reubicar", len(plan.Moves)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New("Zonas destino: "+nonEmpty(strings.Join(zones, ", "), "-"), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Vino", 4, align.Left),
		h("Desde", 2, align.Center),
		h("Hacia", 2, align.Center),
		h("Zona", 2, align.Left),
		h("Hecho", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableMoveRows una fila por movimiento, en el orden de ejecución.
func tableMoveRows(moves []entity.Move, zoneName func(string) string) []core.Row {
	result := make([]core.Row, 0, len(moves))
	for i, mv := range moves {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(
				nonEmpty(mv.WineName, fmt.Sprintf("Vino %d", mv.WineID)),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(mv.From, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(mv.To, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(zoneName(mv.ZoneID), props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(1).Add(text.New("[  ]", props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func footerRow(plan *entity.ReconfigurationPlan) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(plan.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Vacíe primero todos los slots de origen y después coloque cada botella en su destino.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Para registrar el plan en el sistema: POST /api/reconfiguration/plans/"+plan.ID+"/apply", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
			text.New("Si la cava cambió desde la generación, el plan será rechazado y habrá que regenerarlo.", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 24, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
