package moves

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para la ejecución de movimientos.
type TxRunner interface {
	RunMoves(ctx context.Context, fn func(
		slotRepo repository.SlotRepository,
		wineRepo repository.WineRepository,
	) error) error
}

// PlanSource da acceso a los planes de reconfiguración cacheados.
type PlanSource interface {
	GetPlan(ctx context.Context, cellarID, planID string) (*entity.ReconfigurationPlan, error)
	DiscardPlan(planID string)
}
