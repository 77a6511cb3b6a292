package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

var _ repository.WineRepository = (*WineRepo)(nil)

// WineRepo lectura de vinos y actualización de su zona.
type WineRepo struct {
	q Querier
}

// NewWineRepository construye el adaptador de vinos. Pasar pool o tx (Querier).
func NewWineRepository(q Querier) *WineRepo {
	return &WineRepo{q: q}
}

// GetByIDs devuelve los vinos de la cava indexados por id; los ids ajenos no aparecen.
func (r *WineRepo) GetByIDs(ctx context.Context, cellarID string, ids []int64) (map[int64]*entity.Wine, error) {
	out := make(map[int64]*entity.Wine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT id, cellar_id, name, COALESCE(colour, ''), COALESCE(grapes, ''), COALESCE(country, ''),
		       COALESCE(style, ''), COALESCE(zone_id, ''), zone_confidence, COALESCE(zone_override, ''), updated_at
		FROM wines WHERE cellar_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(ctx, query, cellarID, ids)
	if err != nil {
		return nil, wrap("get wines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w entity.Wine
		if err := rows.Scan(
			&w.ID, &w.CellarID, &w.Name, &w.Colour, &w.Grapes, &w.Country,
			&w.Style, &w.ZoneID, &w.ZoneConfidence, &w.ZoneOverride, &w.UpdatedAt,
		); err != nil {
			return nil, wrap("scan wine", err)
		}
		out[w.ID] = &w
	}
	return out, rows.Err()
}

// UpdateZone fija zone_id y zone_confidence del vino. confidence nil deja la columna en NULL.
func (r *WineRepo) UpdateZone(ctx context.Context, cellarID string, wineID int64, zoneID string, confidence *decimal.Decimal) (int64, error) {
	var conf decimal.NullDecimal
	if confidence != nil {
		conf = decimal.NewNullDecimal(*confidence)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE wines SET zone_id = $3, zone_confidence = $4, updated_at = now()
		WHERE cellar_id = $1 AND id = $2`,
		cellarID, wineID, zoneID, conf,
	)
	if err != nil {
		return 0, wrap("update wine zone", err)
	}
	return cmd.RowsAffected(), nil
}
