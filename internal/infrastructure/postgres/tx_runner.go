package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cava-api/internal/application/layout"
	"github.com/jhoicas/Cava-api/internal/application/moves"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

// Ensure TxRunner implements moves.TxRunner and layout.TxRunner.
var _ moves.TxRunner = (*TxRunner)(nil)
var _ layout.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunMoves inicia una transacción con repos de slots y vinos atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
func (r *TxRunner) RunMoves(ctx context.Context, fn func(
	slotRepo repository.SlotRepository,
	wineRepo repository.WineRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSlotRepository(tx), NewWineRepository(tx))
	})
}

// RunLayout inicia una transacción para reemplazar el layout objetivo completo.
func (r *TxRunner) RunLayout(ctx context.Context, fn func(layoutRepo repository.ZoneLayoutRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewZoneLayoutRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
