package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

var _ repository.ZoneLayoutRepository = (*ZoneLayoutRepo)(nil)

// ZoneLayoutRepo persistencia del layout objetivo (zone_row_layout).
type ZoneLayoutRepo struct {
	q Querier
}

// NewZoneLayoutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewZoneLayoutRepository(q Querier) *ZoneLayoutRepo {
	return &ZoneLayoutRepo{q: q}
}

// ListByCellar devuelve el layout confirmado ordenado por fila.
func (r *ZoneLayoutRepo) ListByCellar(ctx context.Context, cellarID string) ([]*entity.ZoneRowLayout, error) {
	rows, err := r.q.Query(ctx, `
		SELECT cellar_id, row_num, zone_id, created_at
		FROM zone_row_layout WHERE cellar_id = $1 ORDER BY row_num`, cellarID)
	if err != nil {
		return nil, wrap("list zone layout", err)
	}
	defer rows.Close()
	var list []*entity.ZoneRowLayout
	for rows.Next() {
		var l entity.ZoneRowLayout
		if err := rows.Scan(&l.CellarID, &l.Row, &l.ZoneID, &l.CreatedAt); err != nil {
			return nil, wrap("scan zone layout", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// DeleteByCellar borra el layout completo de la cava.
func (r *ZoneLayoutRepo) DeleteByCellar(ctx context.Context, cellarID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM zone_row_layout WHERE cellar_id = $1`, cellarID); err != nil {
		return wrap("delete zone layout", err)
	}
	return nil
}

// InsertBatch inserta las filas del layout en un solo round-trip.
func (r *ZoneLayoutRepo) InsertBatch(ctx context.Context, rows []*entity.ZoneRowLayout) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range rows {
		batch.Queue(`
			INSERT INTO zone_row_layout (cellar_id, row_num, zone_id, created_at)
			VALUES ($1, $2, $3, $4)`,
			l.CellarID, l.Row, l.ZoneID, l.CreatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return wrap("insert zone layout", err)
		}
	}
	return nil
}
