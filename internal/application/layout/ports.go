package layout

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

// TxRunner ejecuta el reemplazo completo del layout dentro de una transacción.
type TxRunner interface {
	RunLayout(ctx context.Context, fn func(layoutRepo repository.ZoneLayoutRepository) error) error
}
