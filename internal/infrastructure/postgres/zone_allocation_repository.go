package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

var _ repository.ZoneAllocationRepository = (*ZoneAllocationRepo)(nil)

// ZoneAllocationRepo persistencia de zone_allocations.
type ZoneAllocationRepo struct {
	q Querier
}

// NewZoneAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewZoneAllocationRepository(q Querier) *ZoneAllocationRepo {
	return &ZoneAllocationRepo{q: q}
}

const allocationColumns = `cellar_id, zone_id, assigned_rows, wine_count, first_wine_date, updated_at`

func scanAllocation(row pgx.Row) (*entity.ZoneAllocation, error) {
	var a entity.ZoneAllocation
	var rows []int32
	if err := row.Scan(&a.CellarID, &a.ZoneID, &rows, &a.WineCount, &a.FirstWineDate, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.AssignedRows = make([]int, len(rows))
	for i, r := range rows {
		a.AssignedRows[i] = int(r)
	}
	return &a, nil
}

// ListByCellar lista todas las asignaciones de la cava, ordenadas por zona.
func (r *ZoneAllocationRepo) ListByCellar(ctx context.Context, cellarID string) ([]*entity.ZoneAllocation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+allocationColumns+` FROM zone_allocations WHERE cellar_id = $1 ORDER BY zone_id`, cellarID)
	if err != nil {
		return nil, wrap("list zone allocations", err)
	}
	defer rows.Close()
	var list []*entity.ZoneAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, wrap("scan zone allocation", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Get devuelve la asignación de la zona o nil, nil si no existe.
func (r *ZoneAllocationRepo) Get(ctx context.Context, cellarID, zoneID string) (*entity.ZoneAllocation, error) {
	a, err := scanAllocation(r.q.QueryRow(ctx,
		`SELECT `+allocationColumns+` FROM zone_allocations WHERE cellar_id = $1 AND zone_id = $2`,
		cellarID, zoneID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get zone allocation", err)
	}
	return a, nil
}

// Save inserta o actualiza la asignación (upsert por cellar_id, zone_id).
func (r *ZoneAllocationRepo) Save(ctx context.Context, a *entity.ZoneAllocation) error {
	rows := make([]int32, len(a.AssignedRows))
	for i, row := range a.AssignedRows {
		rows[i] = int32(row)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO zone_allocations (cellar_id, zone_id, assigned_rows, wine_count, first_wine_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cellar_id, zone_id) DO UPDATE
		SET assigned_rows = EXCLUDED.assigned_rows,
		    wine_count = EXCLUDED.wine_count,
		    updated_at = EXCLUDED.updated_at`,
		a.CellarID, a.ZoneID, rows, a.WineCount, a.FirstWineDate, a.UpdatedAt,
	)
	if err != nil {
		return wrap("save zone allocation", err)
	}
	return nil
}

// Delete elimina la asignación; borrar una inexistente no es error.
func (r *ZoneAllocationRepo) Delete(ctx context.Context, cellarID, zoneID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM zone_allocations WHERE cellar_id = $1 AND zone_id = $2`, cellarID, zoneID)
	if err != nil {
		return wrap("delete zone allocation", err)
	}
	return nil
}
