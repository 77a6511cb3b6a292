package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

// MemCellar cava en memoria para tests de aplicación: implementa los repositorios de slots,
// vinos y layout, y un TxRunner con snapshot y rollback.
type MemCellar struct {
	mu     sync.Mutex
	slots  map[string]*entity.Slot // cellarID|código
	wines  map[int64]*entity.Wine
	layout map[string][]*entity.ZoneRowLayout

	// TxCount cuenta las transacciones abiertas.
	TxCount int
	// OnClear se invoca antes de cada ClearIfHolds; permite simular un escritor concurrente.
	OnClear func(cellarID, location string)
	// FailUpdateZone hace fallar UpdateZone con este error.
	FailUpdateZone error
}

var (
	_ repository.SlotRepository       = (*MemCellar)(nil)
	_ repository.WineRepository       = (*MemCellar)(nil)
	_ repository.ZoneLayoutRepository = memLayout{}
)

// NewMemCellar aprovisiona las cavas dadas con la topología indicada.
func NewMemCellar(topo cellar.Topology, cellarIDs ...string) *MemCellar {
	m := &MemCellar{
		slots:  make(map[string]*entity.Slot),
		wines:  make(map[int64]*entity.Wine),
		layout: make(map[string][]*entity.ZoneRowLayout),
	}
	var id int64
	for _, c := range cellarIDs {
		for _, s := range topo.Slots(c) {
			id++
			s := s
			s.ID = id
			m.slots[c+"|"+s.LocationCode] = &s
		}
	}
	return m
}

// AddWine registra un vino.
func (m *MemCellar) AddWine(w entity.Wine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wines[w.ID] = &w
}

// Place coloca directamente un vino en un slot.
func (m *MemCellar) Place(cellarID, location string, wineID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := wineID
	m.slots[cellarID+"|"+location].WineID = &id
}

// Clear vacía directamente un slot.
func (m *MemCellar) Clear(cellarID, location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[cellarID+"|"+location].WineID = nil
}

// Occupant devuelve el vino del slot, 0 si está vacío.
func (m *MemCellar) Occupant(cellarID, location string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[cellarID+"|"+location]
	if !ok || s.WineID == nil {
		return 0
	}
	return *s.WineID
}

// Wine devuelve una copia del vino.
func (m *MemCellar) Wine(id int64) entity.Wine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.wines[id]
}

// Snapshot devuelve código → vino de los slots ocupados de la cava.
func (m *MemCellar) Snapshot(cellarID string) map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	for _, s := range m.slots {
		if s.CellarID == cellarID && s.WineID != nil {
			out[s.LocationCode] = *s.WineID
		}
	}
	return out
}

// ─── SlotRepository ──────────────────────────────────────────────────────────

func (m *MemCellar) sortedSlots(cellarID string) []*entity.Slot {
	var out []*entity.Slot
	for _, s := range m.slots {
		if s.CellarID == cellarID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemCellar) ListByCellar(_ context.Context, cellarID string) ([]*entity.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Slot
	for _, s := range m.sortedSlots(cellarID) {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemCellar) GetByLocations(_ context.Context, cellarID string, codes []string) (map[string]*entity.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*entity.Slot)
	for _, code := range codes {
		if s, ok := m.slots[cellarID+"|"+code]; ok {
			c := *s
			out[code] = &c
		}
	}
	return out, nil
}

func (m *MemCellar) ListPlacements(_ context.Context, cellarID string) ([]entity.SlotPlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.SlotPlacement
	for _, s := range m.sortedSlots(cellarID) {
		if s.WineID == nil {
			continue
		}
		w, ok := m.wines[*s.WineID]
		if !ok {
			continue
		}
		out = append(out, entity.SlotPlacement{
			LocationCode: s.LocationCode, StorageArea: s.StorageArea, Row: s.Row, Col: s.Col, Wine: *w,
		})
	}
	return out, nil
}

func (m *MemCellar) CountOccupied(_ context.Context, cellarID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if s.CellarID == cellarID && s.WineID != nil {
			n++
		}
	}
	return n, nil
}

func (m *MemCellar) ClearIfHolds(_ context.Context, cellarID, location string, wineID int64) (int64, error) {
	if m.OnClear != nil {
		m.OnClear(cellarID, location)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[cellarID+"|"+location]
	if !ok || s.WineID == nil || *s.WineID != wineID {
		return 0, nil
	}
	s.WineID = nil
	return 1, nil
}

func (m *MemCellar) PlaceIfEmpty(_ context.Context, cellarID, location string, wineID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[cellarID+"|"+location]
	if !ok || s.WineID != nil {
		return 0, nil
	}
	id := wineID
	s.WineID = &id
	return 1, nil
}

func (m *MemCellar) Provision(_ context.Context, slots []entity.Slot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range slots {
		k := s.CellarID + "|" + s.LocationCode
		if _, ok := m.slots[k]; ok {
			continue
		}
		s := s
		s.ID = int64(len(m.slots) + 1)
		m.slots[k] = &s
		n++
	}
	return n, nil
}

// ─── WineRepository ──────────────────────────────────────────────────────────

func (m *MemCellar) GetByIDs(_ context.Context, cellarID string, ids []int64) (map[int64]*entity.Wine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]*entity.Wine)
	for _, id := range ids {
		if w, ok := m.wines[id]; ok && w.CellarID == cellarID {
			c := *w
			out[id] = &c
		}
	}
	return out, nil
}

func (m *MemCellar) UpdateZone(_ context.Context, cellarID string, wineID int64, zoneID string, confidence *decimal.Decimal) (int64, error) {
	if m.FailUpdateZone != nil {
		return 0, m.FailUpdateZone
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wines[wineID]
	if !ok || w.CellarID != cellarID {
		return 0, nil
	}
	w.ZoneID = zoneID
	w.ZoneConfidence = decimal.NullDecimal{}
	if confidence != nil {
		w.ZoneConfidence = decimal.NewNullDecimal(*confidence)
	}
	return 1, nil
}

// ─── ZoneLayoutRepository ────────────────────────────────────────────────────

// memLayout vista de layout: ListByCellar choca con el método homónimo de slots.
type memLayout struct{ m *MemCellar }

// Layout devuelve la vista ZoneLayoutRepository de la cava en memoria.
func (m *MemCellar) Layout() repository.ZoneLayoutRepository { return memLayout{m} }

func (l memLayout) ListByCellar(_ context.Context, cellarID string) ([]*entity.ZoneRowLayout, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	var out []*entity.ZoneRowLayout
	for _, r := range l.m.layout[cellarID] {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, nil
}

func (l memLayout) DeleteByCellar(_ context.Context, cellarID string) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	delete(l.m.layout, cellarID)
	return nil
}

func (l memLayout) InsertBatch(_ context.Context, rows []*entity.ZoneRowLayout) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	for _, r := range rows {
		c := *r
		l.m.layout[r.CellarID] = append(l.m.layout[r.CellarID], &c)
	}
	return nil
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

type memState struct {
	slots  map[string]*int64
	wines  map[int64]entity.Wine
	layout map[string][]*entity.ZoneRowLayout
}

func (m *MemCellar) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := memState{slots: map[string]*int64{}, wines: map[int64]entity.Wine{}, layout: map[string][]*entity.ZoneRowLayout{}}
	for k, s := range m.slots {
		if s.WineID != nil {
			v := *s.WineID
			st.slots[k] = &v
		} else {
			st.slots[k] = nil
		}
	}
	for id, w := range m.wines {
		st.wines[id] = *w
	}
	for c, rows := range m.layout {
		st.layout[c] = append([]*entity.ZoneRowLayout(nil), rows...)
	}
	return st
}

func (m *MemCellar) restore(st memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range st.slots {
		m.slots[k].WineID = v
	}
	for id, w := range st.wines {
		w := w
		m.wines[id] = &w
	}
	m.layout = st.layout
}

func (m *MemCellar) run(fn func() error) error {
	m.mu.Lock()
	m.TxCount++
	m.mu.Unlock()
	st := m.snapshot()
	if err := fn(); err != nil {
		m.restore(st)
		return err
	}
	return nil
}

// RunMoves ejecuta fn con los repos de la cava; si fn falla se restaura el estado previo.
func (m *MemCellar) RunMoves(_ context.Context, fn func(repository.SlotRepository, repository.WineRepository) error) error {
	return m.run(func() error { return fn(m, m) })
}

// RunLayout ejecuta fn con el repo de layout; si fn falla se restaura el estado previo.
func (m *MemCellar) RunLayout(_ context.Context, fn func(repository.ZoneLayoutRepository) error) error {
	return m.run(func() error { return fn(m.Layout()) })
}
