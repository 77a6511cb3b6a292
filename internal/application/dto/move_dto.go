package dto

import "github.com/jhoicas/Cava-api/internal/domain/entity"

// Categorías de error del validador de movimientos.
const (
	MoveErrSourceMismatch       = "source_mismatch"
	MoveErrOccupiedTarget       = "occupied_target"
	MoveErrDuplicateTargets     = "duplicate_targets"
	MoveErrDuplicateInstances   = "duplicate_instances"
	MoveErrNoop                 = "noop_moves"
	MoveErrZoneColourViolations = "zone_colour_violations"
	MoveErrInvalidLocation      = "invalid_location"
)

// ExecuteMovesRequest body para POST /api/moves/validate y /api/moves/execute.
type ExecuteMovesRequest struct {
	Moves []entity.Move `json:"moves"`
}

// MoveValidationError un error de validación asociado a un movimiento.
type MoveValidationError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	WineID  int64  `json:"wineId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// MoveValidationSummary totales por categoría.
type MoveValidationSummary struct {
	TotalMoves           int `json:"totalMoves"`
	ErrorCount           int `json:"errorCount"`
	SourceMismatch       int `json:"sourceMismatch"`
	OccupiedTarget       int `json:"occupiedTarget"`
	DuplicateTargets     int `json:"duplicateTargets"`
	DuplicateInstances   int `json:"duplicateInstances"`
	NoopMoves            int `json:"noopMoves"`
	ZoneColourViolations int `json:"zoneColourViolations"`
	InvalidLocation      int `json:"invalidLocation"`
}

// MoveValidationResult resultado completo del validador. Valid sii ErrorCount == 0.
type MoveValidationResult struct {
	Valid   bool                  `json:"valid"`
	Errors  []MoveValidationError `json:"errors"`
	Summary MoveValidationSummary `json:"summary"`
}

// Add registra un error y actualiza el resumen.
func (r *MoveValidationResult) Add(e MoveValidationError) {
	r.Errors = append(r.Errors, e)
	r.Summary.ErrorCount++
	switch e.Type {
	case MoveErrSourceMismatch:
		r.Summary.SourceMismatch++
	case MoveErrOccupiedTarget:
		r.Summary.OccupiedTarget++
	case MoveErrDuplicateTargets:
		r.Summary.DuplicateTargets++
	case MoveErrDuplicateInstances:
		r.Summary.DuplicateInstances++
	case MoveErrNoop:
		r.Summary.NoopMoves++
	case MoveErrZoneColourViolations:
		r.Summary.ZoneColourViolations++
	case MoveErrInvalidLocation:
		r.Summary.InvalidLocation++
	}
	r.Valid = false
}

// ExecuteMovesResponse respuesta 200 de la ejecución.
type ExecuteMovesResponse struct {
	Success bool `json:"success"`
	Moved   int  `json:"moved"`
}

// ValidationFailedResponse respuesta 400 con el detalle del validador.
type ValidationFailedResponse struct {
	Success    bool                     `json:"success"`
	Validation ValidationFailureDetails `json:"validation"`
}

// ValidationFailureDetails errores y resumen de la validación fallida.
type ValidationFailureDetails struct {
	Errors  []MoveValidationError `json:"errors"`
	Summary MoveValidationSummary `json:"summary"`
}

// ConflictResponse respuesta 409. Los clientes discriminan por Code
// (CONCURRENT_MODIFICATION | INTEGRITY_VIOLATION); Error es un mensaje localizado.
type ConflictResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code" enums:"CONCURRENT_MODIFICATION,INTEGRITY_VIOLATION"`
	Error   string `json:"error"`
}

// PhaseErrorResponse respuesta 500 etiquetada con la fase en que ocurrió el fallo.
type PhaseErrorResponse struct {
	Phase     string `json:"phase"`
	Error     string `json:"error"`
	MoveCount int    `json:"moveCount"`
}
