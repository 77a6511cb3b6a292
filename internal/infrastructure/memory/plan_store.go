// Package memory almacén de planes de reconfiguración en memoria del proceso.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

var _ ports.PlanStore = (*PlanStore)(nil)

// PlanStore mapa id → plan con expiración. Los planes vencidos se barren al acceder
// y periódicamente con Sweep. No sobrevive a un reinicio.
type PlanStore struct {
	mu    sync.Mutex
	plans map[string]*entity.ReconfigurationPlan
	now   func() time.Time
}

// NewPlanStore construye el almacén. now nil usa time.Now.
func NewPlanStore(now func() time.Time) *PlanStore {
	if now == nil {
		now = time.Now
	}
	return &PlanStore{plans: make(map[string]*entity.ReconfigurationPlan), now: now}
}

// Save guarda el plan y barre los vencidos.
func (s *PlanStore) Save(plan *entity.ReconfigurationPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.plans[plan.ID] = plan
}

// Get devuelve el plan si existe y no expiró.
func (s *PlanStore) Get(id string) (*entity.ReconfigurationPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	p, ok := s.plans[id]
	return p, ok
}

// Delete elimina el plan.
func (s *PlanStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, id)
}

// Sweep elimina los planes vencidos y devuelve cuántos quitó.
func (s *PlanStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// Len cantidad de planes almacenados.
func (s *PlanStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans)
}

func (s *PlanStore) sweepLocked() int {
	now := s.now()
	n := 0
	for id, p := range s.plans {
		if p.Expired(now) {
			delete(s.plans, id)
			n++
		}
	}
	return n
}
