package moves

import (
	"context"
	"errors"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

// State estados de una ejecución de movimientos.
type State string

const (
	StateValidating State = "validating"
	StateExecuting  State = "executing"
	StateVerifying  State = "verifying"
	StateCommitted  State = "committed"
	StateAborted    State = "aborted"
)

// Executor aplica un plan validado dentro de una sola transacción:
// fase 1 vacía todos los orígenes, fase 2 ocupa todos los destinos.
type Executor struct {
	validator *Validator
	txRunner  TxRunner
	plans     PlanSource                   // opcional, solo para ApplyPlan
	cache     ports.CellarCache            // opcional
	metrics   ports.ReconfigurationMetrics // opcional
	log       *logger.Logger
}

// NewExecutor construye el ejecutor. plans, cache y metrics pueden ser nil.
func NewExecutor(
	validator *Validator,
	txRunner TxRunner,
	plans PlanSource,
	cache ports.CellarCache,
	metrics ports.ReconfigurationMetrics,
	log *logger.Logger,
) *Executor {
	return &Executor{
		validator: validator,
		txRunner:  txRunner,
		plans:     plans,
		cache:     cache,
		metrics:   metrics,
		log:       log,
	}
}

// ValidateMovePlan expone el validador sin ejecutar nada.
func (e *Executor) ValidateMovePlan(ctx context.Context, cellarID string, moves []entity.Move) (*dto.MoveValidationResult, error) {
	return e.validator.ValidateMovePlan(ctx, cellarID, moves)
}

// ExecuteMoves valida y aplica los movimientos. Errores posibles:
// *ValidationFailedError (sin transacción), *ConflictError (rollback), *PhaseError.
func (e *Executor) ExecuteMoves(ctx context.Context, cellarID string, moves []entity.Move) (*dto.ExecuteMovesResponse, error) {
	log := e.log.WithCellar(cellarID)
	trace := func(s State) {
		log.Debug().Str("state", string(s)).Int("moves", len(moves)).Msg("ejecución de movimientos")
	}

	trace(StateValidating)
	res, err := e.validator.ValidateMovePlan(ctx, cellarID, moves)
	if err != nil {
		trace(StateAborted)
		return nil, &PhaseError{Phase: PhaseValidation, MoveCount: len(moves), Err: err}
	}
	if !res.Valid {
		trace(StateAborted)
		e.recordValidation(res)
		log.Info().Int("errors", res.Summary.ErrorCount).Msg("plan de movimientos rechazado")
		return nil, &ValidationFailedError{Result: res}
	}
	if len(moves) == 0 {
		return &dto.ExecuteMovesResponse{Success: true, Moved: 0}, nil
	}

	trace(StateExecuting)
	err = e.txRunner.RunMoves(ctx, func(slotRepo repository.SlotRepository, wineRepo repository.WineRepository) error {
		before, err := slotRepo.CountOccupied(ctx, cellarID)
		if err != nil {
			return err
		}

		// Fase 1: vaciar todos los orígenes antes de ocupar cualquier destino.
		for _, m := range moves {
			n, err := slotRepo.ClearIfHolds(ctx, cellarID, m.From, m.WineID)
			if err != nil {
				return err
			}
			if n == 0 {
				return &ConflictError{Kind: ports.ConflictConcurrent, Op: "clear", Location: m.From, WineID: m.WineID}
			}
		}

		// Fase 2: ocupar destinos.
		for _, m := range moves {
			n, err := slotRepo.PlaceIfEmpty(ctx, cellarID, m.To, m.WineID)
			if err != nil {
				return err
			}
			if n == 0 {
				return &ConflictError{Kind: ports.ConflictConcurrent, Op: "place", Location: m.To, WineID: m.WineID}
			}
		}

		for _, m := range moves {
			if m.ZoneID == "" {
				continue
			}
			if _, err := wineRepo.UpdateZone(ctx, cellarID, m.WineID, m.ZoneID, m.Confidence); err != nil {
				return err
			}
		}

		trace(StateVerifying)
		after, err := slotRepo.CountOccupied(ctx, cellarID)
		if err != nil {
			return err
		}
		if before != after {
			return &ConflictError{Kind: ports.ConflictIntegrity, Before: before, After: after}
		}
		return nil
	})
	if err != nil {
		trace(StateAborted)
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			if e.metrics != nil {
				e.metrics.Conflict(conflict.Kind)
			}
			log.Warn().Str("kind", conflict.Kind).Str("location", conflict.Location).Msg(conflict.Error())
			return nil, conflict
		}
		log.Error().Err(err).Str("phase", PhaseTransaction).Msg("fallo ejecutando movimientos")
		return nil, &PhaseError{Phase: PhaseTransaction, MoveCount: len(moves), Err: err}
	}

	trace(StateCommitted)
	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, cellarID); err != nil {
			log.Warn().Err(err).Msg("no se pudo invalidar la caché de la cava")
		}
	}
	if e.metrics != nil {
		e.metrics.MovesExecuted(cellarID, len(moves))
	}
	log.Info().Int("moved", len(moves)).Msg("movimientos aplicados")
	return &dto.ExecuteMovesResponse{Success: true, Moved: len(moves)}, nil
}

func (e *Executor) recordValidation(res *dto.MoveValidationResult) {
	if e.metrics == nil {
		return
	}
	counts := make(map[string]int)
	for _, ve := range res.Errors {
		counts[ve.Type]++
	}
	for category, n := range counts {
		e.metrics.ValidationFailed(category, n)
	}
}

// ApplyPlan ejecuta los movimientos de un plan cacheado y lo descarta si se aplicó.
func (e *Executor) ApplyPlan(ctx context.Context, cellarID, planID string) (*dto.ExecuteMovesResponse, error) {
	plan, err := e.plans.GetPlan(ctx, cellarID, planID)
	if err != nil {
		return nil, err
	}
	out, err := e.ExecuteMoves(ctx, cellarID, plan.Moves)
	if err != nil {
		return nil, err
	}
	e.plans.DiscardPlan(planID)
	return out, nil
}
