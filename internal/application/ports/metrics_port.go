package ports

// Tipos de conflicto reportados por el ejecutor.
const (
	ConflictConcurrent = "concurrent_modification"
	ConflictIntegrity  = "integrity_violation"
)

// ReconfigurationMetrics contadores de cambios de reconfiguración consumidos por
// heurísticas externas. Las implementaciones no deben bloquear ni fallar.
type ReconfigurationMetrics interface {
	MovesExecuted(cellarID string, moved int)
	PlanCreated(cellarID string, moves int)
	Conflict(kind string)
	ValidationFailed(category string, count int)
}
