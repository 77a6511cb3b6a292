package zones_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/zones"
	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

// ─── Fake repo ───────────────────────────────────────────────────────────────

type fakeAllocRepo struct {
	mu     sync.Mutex
	allocs map[string]entity.ZoneAllocation // key: cellarID|zoneID
}

func newFakeAllocRepo() *fakeAllocRepo {
	return &fakeAllocRepo{allocs: map[string]entity.ZoneAllocation{}}
}

func key(cellarID, zoneID string) string { return cellarID + "|" + zoneID }

func clone(a entity.ZoneAllocation) *entity.ZoneAllocation {
	a.AssignedRows = append([]int(nil), a.AssignedRows...)
	return &a
}

func (f *fakeAllocRepo) ListByCellar(_ context.Context, cellarID string) ([]*entity.ZoneAllocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ZoneAllocation
	for _, a := range f.allocs {
		if a.CellarID == cellarID {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZoneID < out[j].ZoneID })
	return out, nil
}

func (f *fakeAllocRepo) Get(_ context.Context, cellarID, zoneID string) (*entity.ZoneAllocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.allocs[key(cellarID, zoneID)]
	if !ok {
		return nil, nil
	}
	return clone(a), nil
}

func (f *fakeAllocRepo) Save(_ context.Context, a *entity.ZoneAllocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allocs[key(a.CellarID, a.ZoneID)] = *clone(*a)
	return nil
}

func (f *fakeAllocRepo) Delete(_ context.Context, cellarID, zoneID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.allocs, key(cellarID, zoneID))
	return nil
}

func newAllocator(repo *fakeAllocRepo) *zones.Allocator {
	return zones.NewAllocator(repo, zone.DefaultRegistry(), cellar.DefaultTopology(), nil, logger.Nop())
}

// assertNoSharedRows verifica que ninguna fila aparezca en dos zonas.
func assertNoSharedRows(t *testing.T, repo *fakeAllocRepo, cellarID string) {
	t.Helper()
	all, err := repo.ListByCellar(context.Background(), cellarID)
	require.NoError(t, err)
	owner := map[int]string{}
	for _, a := range all {
		for _, r := range a.AssignedRows {
			prev, taken := owner[r]
			assert.False(t, taken, "fila %d asignada a %s y %s", r, prev, a.ZoneID)
			owner[r] = a.ZoneID
		}
	}
}

// ─── Asignación ──────────────────────────────────────────────────────────────

func TestAllocateRowToZone_UsaRangoPreferido(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	got, err := alloc.AllocateRowToZone(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	assert.Equal(t, []int{14}, got.AssignedRows)
	assert.Equal(t, 1, got.WineCount)

	rows, err := alloc.GetZoneRows(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	assert.Equal(t, []int{14}, rows)
}

func TestAllocateRowToZone_NMasUnoConsumeUnaFilaDeReserva(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	// chardonnay prefiere [3, 4]; sparkling ya tiene la fila 1
	_, err := alloc.AllocateRowToZone(ctx, "c1", "sparkling")
	require.NoError(t, err)

	var last []int
	for i := 0; i < 3; i++ {
		got, err := alloc.AllocateRowToZone(ctx, "c1", "chardonnay")
		require.NoError(t, err)
		last = got.AssignedRows
	}
	require.Len(t, last, 3)
	assert.Equal(t, []int{3, 4}, last[:2])

	fallback := 0
	for _, r := range last {
		if r != 3 && r != 4 {
			fallback++
			assert.Equal(t, 2, r, "primera fila libre fuera del rango preferido")
		}
	}
	assert.Equal(t, 1, fallback)
	assertNoSharedRows(t, repo, "c1")
}

func TestAllocateRowToZone_FilaPreferidaOcupadaPorOtraZona(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.ZoneAllocation{CellarID: "c1", ZoneID: "merlot", AssignedRows: []int{14}, WineCount: 9}))

	got, err := alloc.AllocateRowToZone(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	assert.Equal(t, []int{15}, got.AssignedRows)
	assertNoSharedRows(t, repo, "c1")
}

func TestAllocateRowToZone_CapacidadAgotada(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := zones.NewAllocator(repo, zone.DefaultRegistry(), cellar.Topology{Rows: 2}, nil, logger.Nop())
	ctx := context.Background()

	_, err := alloc.AllocateRowToZone(ctx, "c1", "malbec")
	require.NoError(t, err)
	_, err = alloc.AllocateRowToZone(ctx, "c1", "malbec")
	require.NoError(t, err)

	_, err = alloc.AllocateRowToZone(ctx, "c1", "rose")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCapacityExhausted))
}

func TestAllocateRowToZone_ZonasSinFilasDedicadas(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	for _, id := range []string{zone.ZoneWhiteBuffer, zone.ZoneRedBuffer, zone.ZoneUnclassified, "cellar_reserve"} {
		got, err := alloc.AllocateRowToZone(ctx, "c1", id)
		require.NoError(t, err)
		assert.Nil(t, got, id)

		rows, err := alloc.GetZoneRows(ctx, "c1", id)
		require.NoError(t, err)
		assert.Empty(t, rows, id)

		require.NoError(t, alloc.UpdateZoneWineCount(ctx, "c1", id, 5))
	}
	all, _ := repo.ListByCellar(ctx, "c1")
	assert.Empty(t, all)
}

func TestAllocateRowToZone_ZonaDesconocida(t *testing.T) {
	alloc := newAllocator(newFakeAllocRepo())
	_, err := alloc.AllocateRowToZone(context.Background(), "c1", "no_existe")
	assert.ErrorIs(t, err, domain.ErrUnknownZone)
}

// ─── Conteo y liberación ─────────────────────────────────────────────────────

func TestUpdateZoneWineCount_EnCeroLiberaFilas(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	_, err := alloc.AllocateRowToZone(ctx, "c1", "rose")
	require.NoError(t, err)
	require.NoError(t, alloc.UpdateZoneWineCount(ctx, "c1", "rose", 2))

	require.NoError(t, alloc.UpdateZoneWineCount(ctx, "c1", "rose", -3))
	got, err := repo.Get(ctx, "c1", "rose")
	require.NoError(t, err)
	assert.Nil(t, got, "la asignación se elimina al llegar a cero")

	// La fila 7 vuelve a estar libre: otra zona cuyo rango preferido está ocupado la toma
	require.NoError(t, repo.Save(ctx, &entity.ZoneAllocation{CellarID: "c1", ZoneID: "x", AssignedRows: []int{1, 2, 3, 4, 5, 6}}))
	got, err = alloc.AllocateRowToZone(ctx, "c1", "sparkling")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, got.AssignedRows)
}

func TestRecordWineAdded_CreceAlExcederCapacidad(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	// La fila 14 tiene 9 botellas; la décima pide otra fila
	for i := 0; i < 10; i++ {
		require.NoError(t, alloc.RecordWineAdded(ctx, "c1", zone.ZoneCabernet))
	}
	got, err := repo.Get(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []int{14, 15}, got.AssignedRows)
	assert.Equal(t, 10, got.WineCount)

	for i := 0; i < 10; i++ {
		require.NoError(t, alloc.RecordWineRemoved(ctx, "c1", zone.ZoneCabernet))
	}
	got, err = repo.Get(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAllocateRowToZone_ConcurrenteNoCompartenFila(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	ids := []string{"sparkling", "rose", "malbec", "merlot", "pinot_noir", "italian_reds"}
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := alloc.AllocateRowToZone(ctx, "c1", id)
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()
	assertNoSharedRows(t, repo, "c1")
}

// ─── Eventos de vino en lote ─────────────────────────────────────────────────

type fakeCache struct {
	mu          sync.Mutex
	proposals   map[string]*dto.LayoutProposalDTO
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{proposals: map[string]*dto.LayoutProposalDTO{}}
}

func (c *fakeCache) Invalidate(_ context.Context, cellarID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	delete(c.proposals, cellarID)
	return nil
}

func (c *fakeCache) GetProposal(_ context.Context, cellarID string) (*dto.LayoutProposalDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.proposals[cellarID]
	return p, ok
}

func (c *fakeCache) SetProposal(_ context.Context, cellarID string, p *dto.LayoutProposalDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proposals[cellarID] = p
}

func TestRecordWineEvents_LoteQueNoCabeNoPersisteNada(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := zones.NewAllocator(repo, zone.DefaultRegistry(), cellar.Topology{Rows: 1}, nil, logger.Nop())
	ctx := context.Background()

	// Una sola fila de 7 botellas: 10 malbec no caben
	_, err := alloc.RecordWineEvents(ctx, "c1", "malbec", 10)
	require.Error(t, err)

	got, err := repo.Get(ctx, "c1", "malbec")
	require.NoError(t, err)
	assert.Nil(t, got, "ningún incremento parcial queda persistido")
}

func TestRecordWineEvents_SinFilasSuficientesDevuelveCapacidadAgotada(t *testing.T) {
	repo := newFakeAllocRepo()
	// Filas 1 (7), 2 (9) y 3 (9)
	alloc := zones.NewAllocator(repo, zone.DefaultRegistry(), cellar.Topology{Rows: 3}, nil, logger.Nop())
	ctx := context.Background()

	_, err := alloc.RecordWineEvents(ctx, "c1", "rose", 1)
	require.NoError(t, err)
	before, err := repo.Get(ctx, "c1", "rose")
	require.NoError(t, err)
	require.NotNil(t, before)

	// Quedan dos filas libres (16 o 18 botellas); 20 necesita una tercera
	_, err = alloc.RecordWineEvents(ctx, "c1", "malbec", 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCapacityExhausted))

	got, err := repo.Get(ctx, "c1", "malbec")
	require.NoError(t, err)
	assert.Nil(t, got)
	after, err := repo.Get(ctx, "c1", "rose")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assertNoSharedRows(t, repo, "c1")
}

func TestRecordWineEvents_DeltaFueraDeRango(t *testing.T) {
	alloc := newAllocator(newFakeAllocRepo())
	ctx := context.Background()

	for _, delta := range []int{0, 170, -170, 1 << 30} {
		_, err := alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, delta)
		require.Error(t, err, "delta %d", delta)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "delta %d", delta)
	}

	_, err := alloc.RecordWineEvents(ctx, "c1", "no_existe", 1)
	assert.True(t, errors.Is(err, domain.ErrUnknownZone))
}

func TestRecordWineEvents_LoteAsignaFilasDeUnaVez(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	res, err := alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{14, 15}, res.Rows)
	assert.Equal(t, 10, res.WineCount)

	res, err = alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, res.WineCount)
	assert.Equal(t, []int{14, 15}, res.Rows, "las bajas no liberan filas hasta llegar a cero")

	res, err = alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, -6)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	got, err := repo.Get(ctx, "c1", zone.ZoneCabernet)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Baja sobre una zona sin asignación: no-op
	res, err = alloc.RecordWineEvents(ctx, "c1", "malbec", -1)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestRecordWineEvents_InvalidaPropuestaCacheada(t *testing.T) {
	repo := newFakeAllocRepo()
	c := newFakeCache()
	alloc := zones.NewAllocator(repo, zone.DefaultRegistry(), cellar.DefaultTopology(), c, logger.Nop())
	ctx := context.Background()

	c.SetProposal(ctx, "c1", &dto.LayoutProposalDTO{})
	c.SetProposal(ctx, "c2", &dto.LayoutProposalDTO{})

	_, err := alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, 3)
	require.NoError(t, err)
	_, ok := c.GetProposal(ctx, "c1")
	assert.False(t, ok, "la propuesta de la cava afectada se descarta")
	_, ok = c.GetProposal(ctx, "c2")
	assert.True(t, ok, "otras cavas conservan su propuesta")

	// Las zonas sin filas dedicadas también cambian el análisis
	c.SetProposal(ctx, "c1", &dto.LayoutProposalDTO{})
	_, err = alloc.RecordWineEvents(ctx, "c1", "unclassified", 1)
	require.NoError(t, err)
	_, ok = c.GetProposal(ctx, "c1")
	assert.False(t, ok)

	// Un lote rechazado no invalida
	c.SetProposal(ctx, "c1", &dto.LayoutProposalDTO{})
	before := c.invalidated
	_, err = alloc.RecordWineEvents(ctx, "c1", zone.ZoneCabernet, 500)
	require.Error(t, err)
	assert.Equal(t, before, c.invalidated)
	_, ok = c.GetProposal(ctx, "c1")
	assert.True(t, ok)
}

// ─── Proyecciones ────────────────────────────────────────────────────────────

func TestGetZoneStatuses_OrdenCanonicoYEstadoVivo(t *testing.T) {
	repo := newFakeAllocRepo()
	alloc := newAllocator(repo)
	ctx := context.Background()

	_, err := alloc.AllocateRowToZone(ctx, "c1", "malbec")
	require.NoError(t, err)

	statuses, err := alloc.GetZoneStatuses(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, statuses, len(zone.DefaultRegistry().Ordered()))
	assert.Equal(t, "sparkling", statuses[0].ZoneID)

	for _, st := range statuses {
		if st.ZoneID == "malbec" {
			assert.True(t, st.Active)
			assert.Equal(t, []int{13}, st.AssignedRows)
			assert.Equal(t, 9, st.Capacity)
		} else {
			assert.False(t, st.Active, st.ZoneID)
		}
	}

	m, err := alloc.GetActiveZoneMap(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Equal(t, 13, m[0].Row)
	assert.Equal(t, "Malbec", m[0].DisplayName)

	allocs, err := alloc.GetAllZoneAllocations(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, 1, allocs[0].WineCount)
}
