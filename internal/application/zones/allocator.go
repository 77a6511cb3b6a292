// Package zones asigna filas físicas a zonas lógicas de vino a medida que cambian los conteos.
package zones

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

// Allocator árbitro de filas por cava. Antes de cada decisión relee TODAS las asignaciones
// porque la base no impone unicidad de filas entre zonas.
type Allocator struct {
	repo     repository.ZoneAllocationRepository
	registry *zone.Registry
	topology cellar.Topology
	cache    ports.CellarCache // opcional
	log      *logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAllocator construye el asignador. cache puede ser nil.
func NewAllocator(
	repo repository.ZoneAllocationRepository,
	registry *zone.Registry,
	topology cellar.Topology,
	cache ports.CellarCache,
	log *logger.Logger,
) *Allocator {
	return &Allocator{
		repo:     repo,
		registry: registry,
		topology: topology,
		cache:    cache,
		log:      log,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockCellar serializa las decisiones de asignación de una cava dentro de este proceso.
func (a *Allocator) lockCellar(cellarID string) func() {
	a.mu.Lock()
	l, ok := a.locks[cellarID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[cellarID] = l
	}
	a.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (a *Allocator) definition(zoneID string) (zone.Definition, error) {
	def, ok := a.registry.Get(zoneID)
	if !ok {
		return zone.Definition{}, fmt.Errorf("%s: %w", zoneID, domain.ErrUnknownZone)
	}
	return def, nil
}

// GetZoneRows devuelve las filas asignadas a la zona. Vacío para zonas buffer, fallback o curated.
func (a *Allocator) GetZoneRows(ctx context.Context, cellarID, zoneID string) ([]int, error) {
	def, err := a.definition(zoneID)
	if err != nil {
		return nil, err
	}
	if !def.Dedicated() {
		return []int{}, nil
	}
	alloc, err := a.repo.Get(ctx, cellarID, zoneID)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return []int{}, nil
	}
	return append([]int(nil), alloc.AssignedRows...), nil
}

// AllocateRowToZone asigna una fila libre más a la zona e incrementa su conteo.
// Primero el rango preferido en orden, luego cualquier fila 1..N. Sin filas libres
// devuelve domain.ErrCapacityExhausted. Para zonas sin filas dedicadas es un no-op (nil, nil).
func (a *Allocator) AllocateRowToZone(ctx context.Context, cellarID, zoneID string) (*entity.ZoneAllocation, error) {
	def, err := a.definition(zoneID)
	if err != nil {
		return nil, err
	}
	if !def.Dedicated() {
		return nil, nil
	}
	unlock := a.lockCellar(cellarID)
	defer unlock()
	alloc, err := a.allocateLocked(ctx, cellarID, def)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, cellarID)
	return alloc, nil
}

func (a *Allocator) allocateLocked(ctx context.Context, cellarID string, def zone.Definition) (*entity.ZoneAllocation, error) {
	all, err := a.repo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("listar asignaciones: %w", err)
	}

	used := make(map[int]bool)
	var current *entity.ZoneAllocation
	for _, alloc := range all {
		if alloc.ZoneID == def.ID {
			current = alloc
		}
		for _, r := range alloc.AssignedRows {
			used[r] = true
		}
	}

	row := a.pickRow(def, used)
	if row == 0 {
		a.log.Warn().Str("cellar_id", cellarID).Str("zone_id", def.ID).Msg("sin filas libres para la zona")
		return nil, fmt.Errorf("%s: %w", def.ID, domain.ErrCapacityExhausted)
	}

	now := a.now()
	if current == nil {
		current = &entity.ZoneAllocation{
			CellarID:      cellarID,
			ZoneID:        def.ID,
			FirstWineDate: now,
		}
	}
	current.AssignedRows = append(current.AssignedRows, row)
	current.WineCount++
	current.UpdatedAt = now

	if err := a.repo.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("guardar asignación: %w", err)
	}
	a.log.Info().
		Str("cellar_id", cellarID).
		Str("zone_id", def.ID).
		Int("row", row).
		Ints("rows", current.AssignedRows).
		Msg("fila asignada a zona")
	return current, nil
}

// pickRow devuelve 0 si no queda ninguna fila libre.
func (a *Allocator) pickRow(def zone.Definition, used map[int]bool) int {
	for _, r := range def.PreferredRows {
		if a.topology.ValidRow(r) && !used[r] {
			return r
		}
	}
	for r := 1; r <= a.topology.Rows; r++ {
		if !used[r] {
			return r
		}
	}
	return 0
}

// UpdateZoneWineCount ajusta el conteo de la zona; en ≤ 0 elimina la asignación y libera sus filas.
// No-op para zonas sin filas dedicadas o sin asignación.
func (a *Allocator) UpdateZoneWineCount(ctx context.Context, cellarID, zoneID string, delta int) error {
	def, err := a.definition(zoneID)
	if err != nil {
		return err
	}
	if !def.Dedicated() {
		return nil
	}
	unlock := a.lockCellar(cellarID)
	defer unlock()
	if err := a.updateCountLocked(ctx, cellarID, zoneID, delta); err != nil {
		return err
	}
	a.invalidate(ctx, cellarID)
	return nil
}

// invalidate descarta la propuesta cacheada de la cava; la distribución de vinos cambió.
func (a *Allocator) invalidate(ctx context.Context, cellarID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx, cellarID); err != nil {
		a.log.Warn().Err(err).Str("cellar_id", cellarID).Msg("no se pudo invalidar la caché de la cava")
	}
}

func (a *Allocator) updateCountLocked(ctx context.Context, cellarID, zoneID string, delta int) error {
	alloc, err := a.repo.Get(ctx, cellarID, zoneID)
	if err != nil {
		return fmt.Errorf("obtener asignación: %w", err)
	}
	if alloc == nil {
		return nil
	}
	alloc.WineCount += delta
	if alloc.WineCount <= 0 {
		if err := a.repo.Delete(ctx, cellarID, zoneID); err != nil {
			return fmt.Errorf("eliminar asignación: %w", err)
		}
		a.log.Info().
			Str("cellar_id", cellarID).
			Str("zone_id", zoneID).
			Ints("rows", alloc.AssignedRows).
			Msg("zona sin vinos, filas liberadas")
		return nil
	}
	alloc.UpdatedAt = a.now()
	if err := a.repo.Save(ctx, alloc); err != nil {
		return fmt.Errorf("guardar asignación: %w", err)
	}
	return nil
}

// RecordWineAdded registra un vino nuevo en la zona. El primer vino, o el que excede la
// capacidad de las filas actuales, provoca la asignación de una fila más.
func (a *Allocator) RecordWineAdded(ctx context.Context, cellarID, zoneID string) error {
	_, err := a.RecordWineEvents(ctx, cellarID, zoneID, 1)
	return err
}

// RecordWineRemoved registra la baja de un vino de la zona.
func (a *Allocator) RecordWineRemoved(ctx context.Context, cellarID, zoneID string) error {
	_, err := a.RecordWineEvents(ctx, cellarID, zoneID, -1)
	return err
}

// RecordWineEvents aplica delta altas (> 0) o bajas (< 0) como una sola operación: calcula
// todas las filas nuevas antes de escribir y persiste la asignación una única vez. Si faltan
// filas libres devuelve domain.ErrCapacityExhausted sin haber modificado nada.
// |delta| mayor que la capacidad de la cava es domain.ErrInvalidInput.
func (a *Allocator) RecordWineEvents(ctx context.Context, cellarID, zoneID string, delta int) (*dto.ZoneRowsResponse, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta debe ser distinto de cero: %w", domain.ErrInvalidInput)
	}
	if limit := a.topology.CellarCapacity(); delta > limit || -delta > limit {
		return nil, fmt.Errorf("delta %d supera la capacidad de la cava (%d): %w", delta, limit, domain.ErrInvalidInput)
	}
	def, err := a.definition(zoneID)
	if err != nil {
		return nil, err
	}
	out := &dto.ZoneRowsResponse{ZoneID: zoneID, Rows: []int{}}
	if !def.Dedicated() {
		a.invalidate(ctx, cellarID)
		return out, nil
	}

	unlock := a.lockCellar(cellarID)
	defer unlock()

	all, err := a.repo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("listar asignaciones: %w", err)
	}
	used := make(map[int]bool)
	var current *entity.ZoneAllocation
	for _, alloc := range all {
		if alloc.ZoneID == zoneID {
			current = alloc
		}
		for _, r := range alloc.AssignedRows {
			used[r] = true
		}
	}

	now := a.now()
	if delta < 0 {
		if current == nil {
			return out, nil
		}
		current.WineCount += delta
		if current.WineCount <= 0 {
			if err := a.repo.Delete(ctx, cellarID, zoneID); err != nil {
				return nil, fmt.Errorf("eliminar asignación: %w", err)
			}
			a.log.Info().
				Str("cellar_id", cellarID).
				Str("zone_id", zoneID).
				Ints("rows", current.AssignedRows).
				Msg("zona sin vinos, filas liberadas")
			a.invalidate(ctx, cellarID)
			return out, nil
		}
	} else {
		if current == nil {
			current = &entity.ZoneAllocation{CellarID: cellarID, ZoneID: zoneID, FirstWineDate: now}
		}
		current.WineCount += delta
		var added []int
		for a.topology.RowsCapacity(current.AssignedRows) < current.WineCount {
			row := a.pickRow(def, used)
			if row == 0 {
				a.log.Warn().
					Str("cellar_id", cellarID).
					Str("zone_id", zoneID).
					Int("delta", delta).
					Msg("sin filas libres para la zona")
				return nil, fmt.Errorf("%s: %w", zoneID, domain.ErrCapacityExhausted)
			}
			used[row] = true
			added = append(added, row)
			current.AssignedRows = append(current.AssignedRows, row)
		}
		if len(added) > 0 {
			a.log.Info().
				Str("cellar_id", cellarID).
				Str("zone_id", zoneID).
				Ints("added", added).
				Ints("rows", current.AssignedRows).
				Msg("filas asignadas a zona")
		}
	}

	current.UpdatedAt = now
	if err := a.repo.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("guardar asignación: %w", err)
	}
	a.invalidate(ctx, cellarID)
	out.Rows = append(out.Rows, current.AssignedRows...)
	out.WineCount = current.WineCount
	return out, nil
}

// GetActiveZoneMap devuelve, por fila, la zona que la ocupa. Solo filas asignadas.
func (a *Allocator) GetActiveZoneMap(ctx context.Context, cellarID string) ([]dto.ZoneMapEntry, error) {
	all, err := a.repo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneMapEntry, 0)
	for _, alloc := range all {
		name := alloc.ZoneID
		if def, ok := a.registry.Get(alloc.ZoneID); ok {
			name = def.DisplayName
		}
		for _, r := range alloc.AssignedRows {
			out = append(out, dto.ZoneMapEntry{
				Row:         r,
				ZoneID:      alloc.ZoneID,
				DisplayName: name,
				WineCount:   alloc.WineCount,
				Capacity:    a.topology.RowCapacity(r),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].ZoneID < out[j].ZoneID
	})
	return out, nil
}

// GetZoneStatuses devuelve todas las zonas configuradas, en orden canónico, con su estado vivo.
func (a *Allocator) GetZoneStatuses(ctx context.Context, cellarID string) ([]dto.ZoneStatusDTO, error) {
	all, err := a.repo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, err
	}
	byZone := make(map[string]*entity.ZoneAllocation, len(all))
	for _, alloc := range all {
		byZone[alloc.ZoneID] = alloc
	}
	defs := a.registry.Ordered()
	out := make([]dto.ZoneStatusDTO, 0, len(defs))
	for _, def := range defs {
		st := dto.ZoneStatusDTO{
			ZoneID:        def.ID,
			DisplayName:   def.DisplayName,
			Family:        def.Family,
			Category:      string(def.Category),
			PreferredRows: append([]int{}, def.PreferredRows...),
			AssignedRows:  []int{},
		}
		if alloc, ok := byZone[def.ID]; ok {
			st.AssignedRows = append(st.AssignedRows, alloc.AssignedRows...)
			st.WineCount = alloc.WineCount
			st.Capacity = a.topology.RowsCapacity(alloc.AssignedRows)
			st.Active = true
		}
		out = append(out, st)
	}
	return out, nil
}

// GetAllZoneAllocations devuelve las asignaciones persistidas tal cual.
func (a *Allocator) GetAllZoneAllocations(ctx context.Context, cellarID string) ([]dto.ZoneAllocationDTO, error) {
	all, err := a.repo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneAllocationDTO, 0, len(all))
	for _, alloc := range all {
		out = append(out, dto.ZoneAllocationDTO{
			ZoneID:        alloc.ZoneID,
			AssignedRows:  append([]int{}, alloc.AssignedRows...),
			WineCount:     alloc.WineCount,
			FirstWineDate: alloc.FirstWineDate,
			UpdatedAt:     alloc.UpdatedAt,
		})
	}
	return out, nil
}
