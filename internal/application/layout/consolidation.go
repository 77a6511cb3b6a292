package layout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

// Motivos por los que una botella mal ubicada no recibe movimiento.
const (
	SkipNoTargetRows   = "no_target_rows"
	SkipTargetRowsFull = "target_rows_full"
)

// Planner compara las ubicaciones actuales con el layout confirmado y emite movimientos.
// Es solo consultivo: el plan puede quedar obsoleto y lo detectan el validador y el ejecutor.
type Planner struct {
	slotRepo   repository.SlotRepository
	layoutRepo repository.ZoneLayoutRepository
	plans      ports.PlanStore
	metrics    ports.ReconfigurationMetrics // opcional
	registry   *zone.Registry
	classifier *zone.Classifier
	planTTL    time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewPlanner construye el planificador. metrics puede ser nil.
func NewPlanner(
	slotRepo repository.SlotRepository,
	layoutRepo repository.ZoneLayoutRepository,
	plans ports.PlanStore,
	metrics ports.ReconfigurationMetrics,
	registry *zone.Registry,
	classifier *zone.Classifier,
	planTTL time.Duration,
	log *logger.Logger,
) *Planner {
	return &Planner{
		slotRepo:   slotRepo,
		layoutRepo: layoutRepo,
		plans:      plans,
		metrics:    metrics,
		registry:   registry,
		classifier: classifier,
		planTTL:    planTTL,
		log:        log,
		now:        time.Now,
	}
}

type slotRef struct {
	row, col int
	code     string
}

// GenerateConsolidationMoves emite, para cada botella de la cava fuera de las filas objetivo de su
// zona, un movimiento hacia un slot vacío de esas filas. Solo se reclaman slots vacíos ahora mismo
// y cada uno una sola vez. Sin layout confirmado devuelve domain.ErrNoTargetLayout.
func (p *Planner) GenerateConsolidationMoves(ctx context.Context, cellarID string) (*dto.ConsolidationDTO, error) {
	layoutRows, err := p.layoutRepo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("leer layout: %w", err)
	}
	if len(layoutRows) == 0 {
		return nil, domain.ErrNoTargetLayout
	}

	rowZone := make(map[int]string, len(layoutRows))
	targetRows := make(map[string][]int)
	for _, l := range layoutRows {
		rowZone[l.Row] = l.ZoneID
		targetRows[l.ZoneID] = append(targetRows[l.ZoneID], l.Row)
	}
	for _, rows := range targetRows {
		sort.Ints(rows)
	}

	slots, err := p.slotRepo.ListByCellar(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("listar slots: %w", err)
	}
	empty := make(map[int][]slotRef)
	for _, s := range slots {
		if s.StorageArea != entity.StorageAreaCellar || s.Occupied() {
			continue
		}
		empty[s.Row] = append(empty[s.Row], slotRef{row: s.Row, col: s.Col, code: s.LocationCode})
	}
	for _, refs := range empty {
		sort.Slice(refs, func(i, j int) bool { return refs[i].col < refs[j].col })
	}

	placements, err := p.slotRepo.ListPlacements(ctx, cellarID)
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	sort.SliceStable(placements, func(i, j int) bool {
		if placements[i].Row != placements[j].Row {
			return placements[i].Row < placements[j].Row
		}
		return placements[i].Col < placements[j].Col
	})

	byZone := make(map[string][]entity.Move)
	skipped := []dto.SkippedBottleDTO{}
	claimed := make(map[string]bool)

	for i := range placements {
		pl := &placements[i]
		if pl.StorageArea != entity.StorageAreaCellar {
			continue
		}
		cls := p.classifier.Resolve(&pl.Wine)
		current, inLayout := rowZone[pl.Row]
		if current == cls.ZoneID {
			continue
		}
		rows := targetRows[cls.ZoneID]
		if len(rows) == 0 {
			// Zonas sin filas objetivo viven en capacidad residual: solo se señalan si ocupan una fila ajena.
			if inLayout {
				skipped = append(skipped, skippedFor(pl, cls.ZoneID, SkipNoTargetRows))
			}
			continue
		}
		to, ok := claimSlot(rows, empty, claimed)
		if !ok {
			skipped = append(skipped, skippedFor(pl, cls.ZoneID, SkipTargetRowsFull))
			continue
		}
		conf := cls.Confidence
		byZone[cls.ZoneID] = append(byZone[cls.ZoneID], entity.Move{
			WineID:     pl.Wine.ID,
			WineName:   pl.Wine.Name,
			From:       pl.LocationCode,
			To:         to,
			ZoneID:     cls.ZoneID,
			Confidence: &conf,
		})
	}

	out := &dto.ConsolidationDTO{Moves: []entity.Move{}, Groups: []dto.ConsolidationGroupDTO{}, Skipped: skipped}
	for _, def := range p.registry.Ordered() {
		moves := byZone[def.ID]
		if len(moves) == 0 {
			continue
		}
		out.Groups = append(out.Groups, dto.ConsolidationGroupDTO{ZoneID: def.ID, DisplayName: def.DisplayName, Moves: moves})
		out.Moves = append(out.Moves, moves...)
	}

	p.log.Info().
		Str("cellar_id", cellarID).
		Int("moves", len(out.Moves)).
		Int("skipped", len(out.Skipped)).
		Msg("consolidación planificada")
	return out, nil
}

func claimSlot(rows []int, empty map[int][]slotRef, claimed map[string]bool) (string, bool) {
	for _, r := range rows {
		for _, ref := range empty[r] {
			if !claimed[ref.code] {
				claimed[ref.code] = true
				return ref.code, true
			}
		}
	}
	return "", false
}

func skippedFor(pl *entity.SlotPlacement, zoneID, reason string) dto.SkippedBottleDTO {
	return dto.SkippedBottleDTO{
		WineID:   pl.Wine.ID,
		WineName: pl.Wine.Name,
		Location: pl.LocationCode,
		ZoneID:   zoneID,
		Reason:   reason,
	}
}

// CreatePlan genera los movimientos de consolidación y los guarda como plan efímero.
func (p *Planner) CreatePlan(ctx context.Context, cellarID string) (*dto.ReconfigurationPlanDTO, error) {
	result, err := p.GenerateConsolidationMoves(ctx, cellarID)
	if err != nil {
		return nil, err
	}
	now := p.now()
	plan := &entity.ReconfigurationPlan{
		ID:        uuid.NewString(),
		CellarID:  cellarID,
		Moves:     result.Moves,
		CreatedAt: now,
		ExpiresAt: now.Add(p.planTTL),
	}
	p.plans.Save(plan)
	if p.metrics != nil {
		p.metrics.PlanCreated(cellarID, len(plan.Moves))
	}
	p.log.Info().Str("cellar_id", cellarID).Str("plan_id", plan.ID).Int("moves", len(plan.Moves)).Msg("plan de reconfiguración creado")
	return &dto.ReconfigurationPlanDTO{
		ID:        plan.ID,
		Moves:     plan.Moves,
		Skipped:   result.Skipped,
		CreatedAt: plan.CreatedAt,
		ExpiresAt: plan.ExpiresAt,
	}, nil
}

// GetPlan devuelve un plan vigente de la cava. Desconocido, expirado o de otra cava: domain.ErrPlanNotFound.
func (p *Planner) GetPlan(_ context.Context, cellarID, planID string) (*entity.ReconfigurationPlan, error) {
	plan, ok := p.plans.Get(planID)
	if !ok || plan.CellarID != cellarID || plan.Expired(p.now()) {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

// DiscardPlan elimina el plan; se usa tras aplicarlo.
func (p *Planner) DiscardPlan(planID string) {
	p.plans.Delete(planID)
}
