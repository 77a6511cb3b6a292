// Package layout propone el layout objetivo zona → filas, lo persiste y planifica
// los movimientos de consolidación hacia él.
package layout

import (
	"context"
	"fmt"
	"sort"
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

// Proposer calcula, guarda y lee el layout objetivo de una cava.
type Proposer struct {
	slotRepo   repository.SlotRepository
	layoutRepo repository.ZoneLayoutRepository
	txRunner   TxRunner
	cache      ports.CellarCache // opcional
	registry   *zone.Registry
	classifier *zone.Classifier
	topology   cellar.Topology
	log        *logger.Logger
	now        func() time.Time
}

// NewProposer construye el proponedor. cache puede ser nil.
func NewProposer(
	slotRepo repository.SlotRepository,
	layoutRepo repository.ZoneLayoutRepository,
	txRunner TxRunner,
	cache ports.CellarCache,
	registry *zone.Registry,
	classifier *zone.Classifier,
	topology cellar.Topology,
	log *logger.Logger,
) *Proposer {
	return &Proposer{
		slotRepo:   slotRepo,
		layoutRepo: layoutRepo,
		txRunner:   txRunner,
		cache:      cache,
		registry:   registry,
		classifier: classifier,
		topology:   topology,
		log:        log,
		now:        time.Now,
	}
}

// countBottles cuenta botellas por zona efectiva. Solo cuentan las de la cava: la nevera no ocupa filas.
func countBottles(placements []entity.SlotPlacement, registry *zone.Registry, classifier *zone.Classifier) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0
	for i := range placements {
		p := &placements[i]
		if p.StorageArea != entity.StorageAreaCellar {
			continue
		}
		zoneID := classifier.Resolve(&p.Wine).ZoneID
		if _, ok := registry.Get(zoneID); !ok {
			zoneID = zone.ZoneUnclassified
		}
		counts[zoneID]++
		total++
	}
	return counts, total
}

// ProposeZoneLayout recorre las zonas en orden canónico y asigna a cada zona con botellas
// filas consecutivas hasta cubrir su conteo. El orden nunca depende de los conteos, así que
// la misma distribución produce siempre el mismo layout.
func (p *Proposer) ProposeZoneLayout(ctx context.Context, cellarID string) (*dto.LayoutProposalDTO, error) {
	if p.cache != nil {
		if cached, ok := p.cache.GetProposal(ctx, cellarID); ok {
			return cached, nil
		}
	}

	placements, err := p.slotRepo.ListPlacements(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	counts, total := countBottles(placements, p.registry, p.classifier)

	proposal := &dto.LayoutProposalDTO{
		Assignments:   []entity.ZoneRowAssignment{},
		UnusedRows:    []int{},
		Overflow:      []dto.ZoneCountDTO{},
		Residual:      []dto.ZoneCountDTO{},
		TotalBottles:  total,
		TotalCapacity: p.topology.CellarCapacity(),
	}

	next := 1
	for _, def := range p.registry.Ordered() {
		n := counts[def.ID]
		if n == 0 {
			continue
		}
		if !def.Dedicated() {
			proposal.Residual = append(proposal.Residual, dto.ZoneCountDTO{ZoneID: def.ID, BottleCount: n})
			continue
		}
		a := entity.ZoneRowAssignment{ZoneID: def.ID, DisplayName: def.DisplayName, Rows: []int{}, BottleCount: n}
		for a.Capacity < n && next <= p.topology.Rows {
			a.Rows = append(a.Rows, next)
			a.Capacity += p.topology.RowCapacity(next)
			next++
		}
		if len(a.Rows) > 0 {
			proposal.Assignments = append(proposal.Assignments, a)
		}
		if a.Capacity < n {
			proposal.Overflow = append(proposal.Overflow, dto.ZoneCountDTO{ZoneID: def.ID, BottleCount: n - a.Capacity})
		}
	}
	for r := next; r <= p.topology.Rows; r++ {
		proposal.UnusedRows = append(proposal.UnusedRows, r)
	}

	p.log.Debug().
		Str("cellar_id", cellarID).
		Int("bottles", total).
		Int("zones", len(proposal.Assignments)).
		Int("unused_rows", len(proposal.UnusedRows)).
		Msg("layout propuesto")

	if p.cache != nil {
		p.cache.SetProposal(ctx, cellarID, proposal)
	}
	return proposal, nil
}

// SaveZoneLayout reemplaza el layout confirmado completo: borra todo e inserta en una sola transacción.
// Rechaza filas fuera de rango, filas repetidas y zonas desconocidas o sin filas dedicadas.
func (p *Proposer) SaveZoneLayout(ctx context.Context, cellarID string, assignments []dto.LayoutAssignmentDTO) error {
	now := p.now()
	seen := make(map[int]string)
	var rows []*entity.ZoneRowLayout
	for _, a := range assignments {
		def, ok := p.registry.Get(a.ZoneID)
		if !ok {
			return fmt.Errorf("zona %q: %w", a.ZoneID, domain.ErrInvalidInput)
		}
		if !def.Dedicated() {
			return fmt.Errorf("zona %q no admite filas dedicadas: %w", a.ZoneID, domain.ErrInvalidInput)
		}
		for _, r := range a.Rows {
			if !p.topology.ValidRow(r) {
				return fmt.Errorf("fila %d fuera de rango: %w", r, domain.ErrInvalidInput)
			}
			if other, dup := seen[r]; dup {
				return fmt.Errorf("fila %d asignada a %s y %s: %w", r, other, a.ZoneID, domain.ErrInvalidInput)
			}
			seen[r] = a.ZoneID
			rows = append(rows, &entity.ZoneRowLayout{CellarID: cellarID, Row: r, ZoneID: a.ZoneID, CreatedAt: now})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Row < rows[j].Row })

	err := p.txRunner.RunLayout(ctx, func(layoutRepo repository.ZoneLayoutRepository) error {
		if err := layoutRepo.DeleteByCellar(ctx, cellarID); err != nil {
			return err
		}
		return layoutRepo.InsertBatch(ctx, rows)
	})
	if err != nil {
		return fmt.Errorf("guardar layout: %w", err)
	}
	p.log.Info().Str("cellar_id", cellarID).Int("rows", len(rows)).Msg("layout objetivo guardado")
	return nil
}

// GetSavedZoneLayout devuelve el layout confirmado agrupado por zona, en orden de fila.
func (p *Proposer) GetSavedZoneLayout(ctx context.Context, cellarID string) (*dto.SavedLayoutDTO, error) {
	rows, err := p.layoutRepo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, err
	}
	out := &dto.SavedLayoutDTO{Assignments: []dto.LayoutAssignmentDTO{}}
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.ZoneID]
		if !ok {
			i = len(out.Assignments)
			index[r.ZoneID] = i
			out.Assignments = append(out.Assignments, dto.LayoutAssignmentDTO{ZoneID: r.ZoneID})
		}
		out.Assignments[i].Rows = append(out.Assignments[i].Rows, r.Row)
		if out.SavedAt == nil || r.CreatedAt.Before(*out.SavedAt) {
			t := r.CreatedAt
			out.SavedAt = &t
		}
	}
	return out, nil
}

// AssignmentsFromProposal convierte una propuesta en el cuerpo de SaveZoneLayout.
func AssignmentsFromProposal(p *dto.LayoutProposalDTO) []dto.LayoutAssignmentDTO {
	out := make([]dto.LayoutAssignmentDTO, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		out = append(out, dto.LayoutAssignmentDTO{ZoneID: a.ZoneID, Rows: append([]int(nil), a.Rows...)})
	}
	return out
}
