package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/repository"
)

var _ repository.SlotRepository = (*SlotRepo)(nil)

// SlotRepo implementación de SlotRepository sobre PostgreSQL (usable con pool o tx).
type SlotRepo struct {
	q Querier
}

// NewSlotRepository construye el adaptador de slots. Pasar pool o tx (Querier).
func NewSlotRepository(q Querier) *SlotRepo {
	return &SlotRepo{q: q}
}

const slotColumns = `id, cellar_id, storage_area, location_code, row_num, col_num, wine_id`

func scanSlot(row pgx.Row) (*entity.Slot, error) {
	var s entity.Slot
	err := row.Scan(&s.ID, &s.CellarID, &s.StorageArea, &s.LocationCode, &s.Row, &s.Col, &s.WineID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByCellar lista todos los slots de la cava: nevera primero, luego filas y columnas.
func (r *SlotRepo) ListByCellar(ctx context.Context, cellarID string) ([]*entity.Slot, error) {
	query := `SELECT ` + slotColumns + `
		FROM slots WHERE cellar_id = $1
		ORDER BY storage_area DESC, row_num, col_num`
	rows, err := r.q.Query(ctx, query, cellarID)
	if err != nil {
		return nil, wrap("list slots", err)
	}
	defer rows.Close()
	var list []*entity.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, wrap("scan slot", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByLocations obtiene los slots de los códigos dados en una sola consulta.
func (r *SlotRepo) GetByLocations(ctx context.Context, cellarID string, codes []string) (map[string]*entity.Slot, error) {
	out := make(map[string]*entity.Slot, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	query := `SELECT ` + slotColumns + `
		FROM slots WHERE cellar_id = $1 AND location_code = ANY($2)`
	rows, err := r.q.Query(ctx, query, cellarID, codes)
	if err != nil {
		return nil, wrap("get slots by location", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, wrap("scan slot", err)
		}
		out[s.LocationCode] = s
	}
	return out, rows.Err()
}

// ListPlacements devuelve cada botella colocada con los datos de su vino.
func (r *SlotRepo) ListPlacements(ctx context.Context, cellarID string) ([]entity.SlotPlacement, error) {
	query := `
		SELECT s.location_code, s.storage_area, s.row_num, s.col_num,
		       w.id, w.cellar_id, w.name, COALESCE(w.colour, ''), COALESCE(w.grapes, ''),
		       COALESCE(w.country, ''), COALESCE(w.style, ''), COALESCE(w.zone_id, ''),
		       w.zone_confidence, COALESCE(w.zone_override, ''), w.updated_at
		FROM slots s
		JOIN wines w ON w.id = s.wine_id AND w.cellar_id = s.cellar_id
		WHERE s.cellar_id = $1
		ORDER BY s.storage_area DESC, s.row_num, s.col_num`
	rows, err := r.q.Query(ctx, query, cellarID)
	if err != nil {
		return nil, wrap("list placements", err)
	}
	defer rows.Close()
	var list []entity.SlotPlacement
	for rows.Next() {
		var p entity.SlotPlacement
		w := &p.Wine
		if err := rows.Scan(
			&p.LocationCode, &p.StorageArea, &p.Row, &p.Col,
			&w.ID, &w.CellarID, &w.Name, &w.Colour, &w.Grapes,
			&w.Country, &w.Style, &w.ZoneID,
			&w.ZoneConfidence, &w.ZoneOverride, &w.UpdatedAt,
		); err != nil {
			return nil, wrap("scan placement", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountOccupied cuenta los slots ocupados de la cava (invariante de ocupación).
func (r *SlotRepo) CountOccupied(ctx context.Context, cellarID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM slots WHERE cellar_id = $1 AND wine_id IS NOT NULL`, cellarID,
	).Scan(&n)
	if err != nil {
		return 0, wrap("count occupied slots", err)
	}
	return n, nil
}

// ClearIfHolds vacía el slot con guarda optimista: solo si todavía contiene wineID.
func (r *SlotRepo) ClearIfHolds(ctx context.Context, cellarID, location string, wineID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE slots SET wine_id = NULL, updated_at = now()
		WHERE cellar_id = $1 AND location_code = $2 AND wine_id = $3`,
		cellarID, location, wineID,
	)
	if err != nil {
		return 0, wrap("clear slot", err)
	}
	return cmd.RowsAffected(), nil
}

// PlaceIfEmpty coloca wineID con guarda optimista: solo si el slot sigue vacío.
func (r *SlotRepo) PlaceIfEmpty(ctx context.Context, cellarID, location string, wineID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE slots SET wine_id = $3, updated_at = now()
		WHERE cellar_id = $1 AND location_code = $2 AND wine_id IS NULL`,
		cellarID, location, wineID,
	)
	if err != nil {
		return 0, wrap("place slot", err)
	}
	return cmd.RowsAffected(), nil
}

// Provision inserta los slots de una cava. Idempotente: los existentes se ignoran.
func (r *SlotRepo) Provision(ctx context.Context, slots []entity.Slot) (int64, error) {
	batch := &pgx.Batch{}
	for _, s := range slots {
		batch.Queue(`
			INSERT INTO slots (cellar_id, storage_area, location_code, row_num, col_num)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (cellar_id, location_code) DO NOTHING`,
			s.CellarID, s.StorageArea, s.LocationCode, s.Row, s.Col,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	var inserted int64
	for range slots {
		cmd, err := br.Exec()
		if err != nil {
			return inserted, wrap("provision slots", err)
		}
		inserted += cmd.RowsAffected()
	}
	return inserted, nil
}
