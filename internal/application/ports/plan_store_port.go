package ports

import "github.com/jhoicas/Cava-api/internal/domain/entity"

// PlanStore almacén efímero de planes de reconfiguración con TTL.
// Un reinicio del proceso descarta los planes pendientes.
type PlanStore interface {
	Save(plan *entity.ReconfigurationPlan)
	// Get devuelve ok=false si el plan no existe o ya expiró.
	Get(id string) (*entity.ReconfigurationPlan, bool)
	Delete(id string)
}
