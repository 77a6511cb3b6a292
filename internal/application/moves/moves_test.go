package moves_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/moves"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/internal/testutil"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

const cellarID = "c1"

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakeMetrics struct {
	mu         sync.Mutex
	moved      int
	plans      int
	conflicts  map[string]int
	validation map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{conflicts: map[string]int{}, validation: map[string]int{}}
}

func (m *fakeMetrics) MovesExecuted(_ string, n int) {
	m.mu.Lock()
	m.moved += n
	m.mu.Unlock()
}

func (m *fakeMetrics) PlanCreated(_ string, _ int) {
	m.mu.Lock()
	m.plans++
	m.mu.Unlock()
}

func (m *fakeMetrics) Conflict(kind string) {
	m.mu.Lock()
	m.conflicts[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) ValidationFailed(c string, n int) {
	m.mu.Lock()
	m.validation[c] += n
	m.mu.Unlock()
}

type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) Invalidate(_ context.Context, cellarID string) error {
	c.invalidated = append(c.invalidated, cellarID)
	return nil
}
func (c *fakeCache) GetProposal(context.Context, string) (*dto.LayoutProposalDTO, bool) {
	return nil, false
}
func (c *fakeCache) SetProposal(context.Context, string, *dto.LayoutProposalDTO) {}

type fakePlans struct {
	plans     map[string]*entity.ReconfigurationPlan
	discarded []string
}

func (p *fakePlans) GetPlan(_ context.Context, cellarID, planID string) (*entity.ReconfigurationPlan, error) {
	plan, ok := p.plans[planID]
	if !ok || plan.CellarID != cellarID {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (p *fakePlans) DiscardPlan(planID string) { p.discarded = append(p.discarded, planID) }

type fixture struct {
	mc       *testutil.MemCellar
	executor *moves.Executor
	metrics  *fakeMetrics
	cache    *fakeCache
	plans    *fakePlans
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mc := testutil.NewMemCellar(cellar.DefaultTopology(), cellarID)
	f := &fixture{
		mc:      mc,
		metrics: newFakeMetrics(),
		cache:   &fakeCache{},
		plans:   &fakePlans{plans: map[string]*entity.ReconfigurationPlan{}},
	}
	validator := moves.NewValidator(mc, mc, zone.DefaultRegistry(), cellar.DefaultTopology())
	f.executor = moves.NewExecutor(validator, mc, f.plans, f.cache, f.metrics, logger.Nop())
	return f
}

func (f *fixture) bottle(id int64, location, colour string) {
	f.mc.AddWine(entity.Wine{ID: id, CellarID: cellarID, Name: "Vino", Colour: colour})
	f.mc.Place(cellarID, location, id)
}

func swapPlan() []entity.Move {
	return []entity.Move{
		{WineID: 10, From: "R3C5", To: "R7C2"},
		{WineID: 20, From: "R7C2", To: "R3C5"},
	}
}

// ─── Ejecución ───────────────────────────────────────────────────────────────

func TestExecuteMoves_IntercambioDosCiclos(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.bottle(20, "R7C2", "red")
	ctx := context.Background()

	res, err := f.executor.ValidateMovePlan(ctx, cellarID, swapPlan())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Zero(t, res.Summary.ErrorCount)
	assert.Equal(t, 2, res.Summary.TotalMoves)

	out, err := f.executor.ExecuteMoves(ctx, cellarID, swapPlan())
	require.NoError(t, err)
	assert.Equal(t, &dto.ExecuteMovesResponse{Success: true, Moved: 2}, out)

	assert.Equal(t, int64(20), f.mc.Occupant(cellarID, "R3C5"))
	assert.Equal(t, int64(10), f.mc.Occupant(cellarID, "R7C2"))
	assert.Len(t, f.mc.Snapshot(cellarID), 2)

	assert.Equal(t, []string{cellarID}, f.cache.invalidated)
	assert.Equal(t, 2, f.metrics.moved)
}

func TestExecuteMoves_PlanInversoRestaura(t *testing.T) {
	f := newFixture(t)
	f.bottle(1, "R2C1", "white")
	f.bottle(2, "R2C2", "white")
	f.bottle(3, "R5C5", "red")
	ctx := context.Background()
	original := f.mc.Snapshot(cellarID)

	plan := []entity.Move{
		{WineID: 1, From: "R2C1", To: "R2C2"},
		{WineID: 2, From: "R2C2", To: "R5C5"},
		{WineID: 3, From: "R5C5", To: "R9C9"},
	}
	_, err := f.executor.ExecuteMoves(ctx, cellarID, plan)
	require.NoError(t, err)
	assert.NotEqual(t, original, f.mc.Snapshot(cellarID))

	inverse := make([]entity.Move, len(plan))
	for i, m := range plan {
		inverse[i] = entity.Move{WineID: m.WineID, From: m.To, To: m.From}
	}
	_, err = f.executor.ExecuteMoves(ctx, cellarID, inverse)
	require.NoError(t, err)
	assert.Equal(t, original, f.mc.Snapshot(cellarID))
}

func TestExecuteMoves_DestinoOcupadoNoAbreTransaccion(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.bottle(99, "R7C2", "red")

	_, err := f.executor.ExecuteMoves(context.Background(), cellarID, []entity.Move{{WineID: 10, From: "R3C5", To: "R7C2"}})
	require.Error(t, err)

	var vf *moves.ValidationFailedError
	require.ErrorAs(t, err, &vf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Len(t, vf.Result.Errors, 1)
	assert.Equal(t, dto.MoveErrOccupiedTarget, vf.Result.Errors[0].Type)
	assert.Equal(t, 1, vf.Result.Summary.OccupiedTarget)
	assert.Zero(t, f.mc.TxCount, "no se abrió transacción")
	assert.Equal(t, 1, f.metrics.validation[dto.MoveErrOccupiedTarget])
}

func TestExecuteMoves_CarreraEnFase1DevuelveConflicto(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.bottle(20, "R7C2", "red")

	// Otra petición gana la carrera y vacía R3C5 justo antes de nuestra guarda.
	f.mc.OnClear = func(c, location string) {
		if location == "R3C5" {
			f.mc.Clear(c, location)
			f.mc.Place(c, "R10C1", 10)
		}
	}

	_, err := f.executor.ExecuteMoves(context.Background(), cellarID, swapPlan())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	var conflict *moves.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ports.ConflictConcurrent, conflict.Kind)
	assert.Equal(t, "R3C5", conflict.Location)
	assert.Contains(t, err.Error(), "modificación concurrente")

	assert.Equal(t, int64(20), f.mc.Occupant(cellarID, "R7C2"), "rollback conserva R7C2")
	assert.Empty(t, f.cache.invalidated)
	assert.Equal(t, 1, f.metrics.conflicts[ports.ConflictConcurrent])
}

func TestExecuteMoves_CambioDeOcupacionEsViolacionDeIntegridad(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.mc.AddWine(entity.Wine{ID: 77, CellarID: cellarID, Name: "Intruso"})

	// Un escritor ajeno coloca una botella en un slot no involucrado durante la transacción.
	f.mc.OnClear = func(c, _ string) { f.mc.Place(c, "R18C9", 77) }

	_, err := f.executor.ExecuteMoves(context.Background(), cellarID, []entity.Move{{WineID: 10, From: "R3C5", To: "R4C1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrityViolation)
	assert.NotErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, int64(10), f.mc.Occupant(cellarID, "R3C5"), "rollback restaura el origen")
	assert.Equal(t, 1, f.metrics.conflicts[ports.ConflictIntegrity])
}

func TestExecuteMoves_ActualizaZonaDelVino(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	conf := decimal.RequireFromString("0.90")

	_, err := f.executor.ExecuteMoves(context.Background(), cellarID, []entity.Move{
		{WineID: 10, From: "R3C5", To: "R14C1", ZoneID: zone.ZoneCabernet, Confidence: &conf},
	})
	require.NoError(t, err)

	w := f.mc.Wine(10)
	assert.Equal(t, zone.ZoneCabernet, w.ZoneID)
	require.True(t, w.ZoneConfidence.Valid)
	assert.True(t, conf.Equal(w.ZoneConfidence.Decimal))
}

func TestExecuteMoves_FalloInesperadoEtiquetaFase(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.mc.FailUpdateZone = errors.New("conexión perdida")

	_, err := f.executor.ExecuteMoves(context.Background(), cellarID, []entity.Move{
		{WineID: 10, From: "R3C5", To: "R14C1", ZoneID: zone.ZoneCabernet},
	})
	var pe *moves.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, moves.PhaseTransaction, pe.Phase)
	assert.Equal(t, 1, pe.MoveCount)
	assert.Equal(t, int64(10), f.mc.Occupant(cellarID, "R3C5"))
	assert.Zero(t, f.mc.Occupant(cellarID, "R14C1"))
}

func TestExecuteMoves_PlanVacio(t *testing.T) {
	f := newFixture(t)
	out, err := f.executor.ExecuteMoves(context.Background(), cellarID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Moved)
	assert.Zero(t, f.mc.TxCount)
}

func TestApplyPlan_EjecutaYDescarta(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.plans.plans["p1"] = &entity.ReconfigurationPlan{
		ID: "p1", CellarID: cellarID, Moves: []entity.Move{{WineID: 10, From: "R3C5", To: "R13C1"}},
	}
	ctx := context.Background()

	_, err := f.executor.ApplyPlan(ctx, "otra", "p1")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	out, err := f.executor.ApplyPlan(ctx, cellarID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Moved)
	assert.Equal(t, []string{"p1"}, f.plans.discarded)
	assert.Equal(t, int64(10), f.mc.Occupant(cellarID, "R13C1"))
}

// ─── Validación ──────────────────────────────────────────────────────────────

func TestValidateMovePlan_Categorias(t *testing.T) {
	cases := []struct {
		name  string
		moves []entity.Move
		want  map[string]int
	}{
		{
			name:  "origen vacío",
			moves: []entity.Move{{WineID: 10, From: "R4C4", To: "R4C5"}},
			want:  map[string]int{dto.MoveErrSourceMismatch: 1},
		},
		{
			name:  "origen con otro vino",
			moves: []entity.Move{{WineID: 20, From: "R3C5", To: "R4C5"}},
			want:  map[string]int{dto.MoveErrSourceMismatch: 1},
		},
		{
			name: "destino repetido",
			moves: []entity.Move{
				{WineID: 10, From: "R3C5", To: "R4C1"},
				{WineID: 20, From: "R7C2", To: "R4C1"},
			},
			want: map[string]int{dto.MoveErrDuplicateTargets: 1},
		},
		{
			name: "destino repetido aunque uno sea origen recíproco",
			moves: []entity.Move{
				{WineID: 10, From: "R3C5", To: "R7C2"},
				{WineID: 20, From: "R7C2", To: "R3C5"},
				{WineID: 30, From: "R8C8", To: "R7C2"},
			},
			want: map[string]int{dto.MoveErrDuplicateTargets: 1},
		},
		{
			name: "misma botella dos veces",
			moves: []entity.Move{
				{WineID: 10, From: "R3C5", To: "R4C1"},
				{WineID: 10, From: "R3C5", To: "R4C2"},
			},
			want: map[string]int{dto.MoveErrDuplicateInstances: 1},
		},
		{
			name:  "no-op",
			moves: []entity.Move{{WineID: 10, From: "R3C5", To: "R3C5"}},
			want:  map[string]int{dto.MoveErrNoop: 1},
		},
		{
			name:  "tinto hacia zona de blancos",
			moves: []entity.Move{{WineID: 10, From: "R3C5", To: "R2C1", ZoneID: "sauvignon_blanc"}},
			want:  map[string]int{dto.MoveErrZoneColourViolations: 1},
		},
		{
			name:  "color desconocido no se juzga",
			moves: []entity.Move{{WineID: 40, From: "R9C1", To: "R2C1", ZoneID: "sauvignon_blanc"}},
			want:  map[string]int{},
		},
		{
			name: "ubicaciones inexistentes",
			moves: []entity.Move{
				{WineID: 10, From: "R3C5", To: "R1C8"},
				{WineID: 20, From: "R7C2", To: "R20C1"},
				{WineID: 30, From: "R8C8", To: "X9"},
			},
			want: map[string]int{dto.MoveErrInvalidLocation: 3},
		},
		{
			name: "rotación de tres",
			moves: []entity.Move{
				{WineID: 10, From: "R3C5", To: "R7C2"},
				{WineID: 20, From: "R7C2", To: "R8C8"},
				{WineID: 30, From: "R8C8", To: "R3C5"},
			},
			want: map[string]int{},
		},
		{
			name:  "nevera a cava",
			moves: []entity.Move{{WineID: 50, From: "F3", To: "R12C1"}},
			want:  map[string]int{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.bottle(10, "R3C5", "red")
			f.bottle(20, "R7C2", "red")
			f.bottle(30, "R8C8", "white")
			f.bottle(40, "R9C1", "")
			f.bottle(50, "F3", "sparkling")
			validator := moves.NewValidator(f.mc, f.mc, zone.DefaultRegistry(), cellar.DefaultTopology())

			res, err := validator.ValidateMovePlan(context.Background(), cellarID, tc.moves)
			require.NoError(t, err)

			got := map[string]int{}
			for _, e := range res.Errors {
				got[e.Type]++
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(res.Errors), res.Summary.ErrorCount)
			assert.Equal(t, res.Summary.ErrorCount == 0, res.Valid)
		})
	}
}

func TestValidateMovePlan_DosBotellasDelMismoVinoNoSonDuplicado(t *testing.T) {
	f := newFixture(t)
	f.bottle(10, "R3C5", "red")
	f.mc.Place(cellarID, "R4C4", 10)
	validator := moves.NewValidator(f.mc, f.mc, zone.DefaultRegistry(), cellar.DefaultTopology())

	// Duplicado se mide por slot de origen: dos botellas físicas del vino 10 pueden moverse juntas
	plan := []entity.Move{
		{WineID: 10, From: "R3C5", To: "R4C1"},
		{WineID: 10, From: "R4C4", To: "R4C2"},
	}
	res, err := validator.ValidateMovePlan(context.Background(), cellarID, plan)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%+v", res.Errors)
	assert.Zero(t, res.Summary.DuplicateInstances)
	assert.Equal(t, 2, res.Summary.TotalMoves)

	out, err := f.executor.ExecuteMoves(context.Background(), cellarID, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Moved)
}
