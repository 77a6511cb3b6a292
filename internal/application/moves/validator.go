// Package moves valida y ejecuta planes de reubicación de botellas contra el estado vivo de la cava.
package moves

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
)

// Validator revisa un plan de movimientos contra el estado actual de los slots.
type Validator struct {
	slotRepo repository.SlotRepository
	wineRepo repository.WineRepository
	registry *zone.Registry
	topology cellar.Topology
}

// NewValidator construye el validador.
func NewValidator(
	slotRepo repository.SlotRepository,
	wineRepo repository.WineRepository,
	registry *zone.Registry,
	topology cellar.Topology,
) *Validator {
	return &Validator{slotRepo: slotRepo, wineRepo: wineRepo, registry: registry, topology: topology}
}

func moveError(kind string, m entity.Move, format string, args ...any) dto.MoveValidationError {
	return dto.MoveValidationError{
		Type:    kind,
		Message: fmt.Sprintf(format, args...),
		WineID:  m.WineID,
		From:    m.From,
		To:      m.To,
	}
}

// ValidateMovePlan detecta todas las categorías de error de un plan. El conjunto completo de
// orígenes se resuelve antes de juzgar cualquier destino: así los ciclos (A↔B, rotaciones) son válidos.
func (v *Validator) ValidateMovePlan(ctx context.Context, cellarID string, moves []entity.Move) (*dto.MoveValidationResult, error) {
	res := &dto.MoveValidationResult{
		Valid:   true,
		Errors:  []dto.MoveValidationError{},
		Summary: dto.MoveValidationSummary{TotalMoves: len(moves)},
	}
	if len(moves) == 0 {
		return res, nil
	}

	codes := make([]string, 0, 2*len(moves))
	for _, m := range moves {
		codes = append(codes, m.From, m.To)
	}
	slots, err := v.slotRepo.GetByLocations(ctx, cellarID, codes)
	if err != nil {
		return nil, fmt.Errorf("leer slots: %w", err)
	}

	valid := func(code string) bool {
		loc, err := cellar.ParseLocation(code)
		if err != nil || !v.topology.Contains(loc) {
			return false
		}
		_, ok := slots[code]
		return ok
	}

	// Orígenes del plan: código → índices de los movimientos que salen de él.
	sources := make(map[string][]int, len(moves))
	for i, m := range moves {
		sources[m.From] = append(sources[m.From], i)
	}
	targets := make(map[string]int, len(moves))
	seenSource := make(map[string]bool, len(moves))

	var zoned []int64
	for _, m := range moves {
		if m.ZoneID != "" {
			zoned = append(zoned, m.WineID)
		}
	}
	wines, err := v.wineRepo.GetByIDs(ctx, cellarID, zoned)
	if err != nil {
		return nil, fmt.Errorf("leer vinos: %w", err)
	}

	for i, m := range moves {
		fromOK, toOK := valid(m.From), valid(m.To)
		if !fromOK {
			res.Add(moveError(dto.MoveErrInvalidLocation, m, "ubicación de origen %q inexistente en la cava", m.From))
		}
		if !toOK {
			res.Add(moveError(dto.MoveErrInvalidLocation, m, "ubicación de destino %q inexistente en la cava", m.To))
		}

		if m.From == m.To {
			res.Add(moveError(dto.MoveErrNoop, m, "el vino %d ya está en %s", m.WineID, m.From))
		}

		// Una instancia es la botella de un slot: dos botellas del mismo vino no son duplicado.
		if seenSource[m.From] {
			res.Add(moveError(dto.MoveErrDuplicateInstances, m, "la botella de %s (vino %d) se mueve más de una vez", m.From, m.WineID))
		}
		seenSource[m.From] = true

		targets[m.To]++
		if targets[m.To] > 1 {
			res.Add(moveError(dto.MoveErrDuplicateTargets, m, "el slot %s es destino de más de un movimiento", m.To))
		}

		if fromOK {
			s := slots[m.From]
			switch {
			case s.WineID == nil:
				res.Add(moveError(dto.MoveErrSourceMismatch, m, "el slot %s está vacío, se esperaba el vino %d", m.From, m.WineID))
			case *s.WineID != m.WineID:
				res.Add(moveError(dto.MoveErrSourceMismatch, m, "el slot %s contiene el vino %d, no el %d", m.From, *s.WineID, m.WineID))
			}
		}

		if toOK && m.From != m.To {
			s := slots[m.To]
			if s.WineID != nil && !vacatedByOther(sources[m.To], i) {
				res.Add(moveError(dto.MoveErrOccupiedTarget, m, "el slot %s está ocupado por el vino %d", m.To, *s.WineID))
			}
		}

		if m.ZoneID != "" {
			if e, bad := v.zoneColourViolation(m, wines[m.WineID]); bad {
				res.Add(e)
			}
		}
	}

	res.Valid = res.Summary.ErrorCount == 0
	return res, nil
}

// vacatedByOther indica si algún movimiento distinto de self sale del slot.
func vacatedByOther(movers []int, self int) bool {
	for _, j := range movers {
		if j != self {
			return true
		}
	}
	return false
}

// zoneColourViolation solo aplica cuando se conocen el color del vino y el de la zona destino.
func (v *Validator) zoneColourViolation(m entity.Move, w *entity.Wine) (dto.MoveValidationError, bool) {
	def, ok := v.registry.Get(m.ZoneID)
	if !ok {
		return moveError(dto.MoveErrZoneColourViolations, m, "zona destino %q desconocida", m.ZoneID), true
	}
	if w == nil {
		return dto.MoveValidationError{}, false
	}
	colour := zone.WineColour(w)
	if def.AcceptsColour(colour) {
		return dto.MoveValidationError{}, false
	}
	return moveError(dto.MoveErrZoneColourViolations, m,
		"el vino %d es %s y la zona %s no admite ese color", m.WineID, colour, def.DisplayName), true
}
