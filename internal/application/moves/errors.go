package moves

import (
	"fmt"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain"
)

// Fases reportadas en los fallos inesperados.
const (
	PhaseValidation  = "validation"
	PhaseTransaction = "transaction"
)

// ValidationFailedError el plan no pasó la validación; no se abrió transacción.
type ValidationFailedError struct {
	Result *dto.MoveValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("plan de movimientos inválido: %d errores", e.Result.Summary.ErrorCount)
}

func (e *ValidationFailedError) Unwrap() error { return domain.ErrInvalidInput }

// ConflictError una guarda optimista o el invariante de ocupación falló a mitad de transacción.
// Se hizo rollback; nunca se reintenta automáticamente.
type ConflictError struct {
	Kind     string
	Op       string // clear | place, solo en modificaciones concurrentes
	Location string
	WineID   int64
	Before   int // ocupación antes y después, solo en violaciones de integridad
	After    int
}

func (e *ConflictError) Error() string {
	if e.Kind == ports.ConflictIntegrity {
		return fmt.Sprintf("%s (antes %d, después %d)", domain.ErrIntegrityViolation, e.Before, e.After)
	}
	if e.Op == "clear" {
		return fmt.Sprintf("%s: el slot %s ya no contiene el vino %d", domain.ErrConcurrentModification, e.Location, e.WineID)
	}
	return fmt.Sprintf("%s: el slot %s ya no está vacío", domain.ErrConcurrentModification, e.Location)
}

func (e *ConflictError) Unwrap() error {
	if e.Kind == ports.ConflictIntegrity {
		return domain.ErrIntegrityViolation
	}
	return domain.ErrConcurrentModification
}

// PhaseError fallo no relacionado con conflictos, etiquetado con la fase.
type PhaseError struct {
	Phase     string
	MoveCount int
	Err       error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("fase %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
