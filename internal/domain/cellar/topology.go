package cellar

import "github.com/jhoicas/Cava-api/internal/domain/entity"

// Capacidades físicas por defecto: fila 1 con 7 botellas, filas 2..19 con 9, nevera F1..F9.
const (
	DefaultRows        = 19
	DefaultFridgeSlots = 9
	FirstRowCapacity   = 7
	RowCapacity        = 9
)

// Topology describe la geometría fija de una cava.
type Topology struct {
	Rows        int
	FridgeSlots int
}

// DefaultTopology devuelve la cava estándar de 169 slots más 9 de nevera.
func DefaultTopology() Topology {
	return Topology{Rows: DefaultRows, FridgeSlots: DefaultFridgeSlots}
}

// RowCapacity devuelve la cantidad de botellas de una fila, 0 si la fila no existe.
func (t Topology) RowCapacity(row int) int {
	switch {
	case row < 1 || row > t.Rows:
		return 0
	case row == 1:
		return FirstRowCapacity
	default:
		return RowCapacity
	}
}

// ValidRow indica si la fila existe en la cava.
func (t Topology) ValidRow(row int) bool {
	return row >= 1 && row <= t.Rows
}

// CellarCapacity devuelve el total de slots de cava (sin nevera).
func (t Topology) CellarCapacity() int {
	total := 0
	for r := 1; r <= t.Rows; r++ {
		total += t.RowCapacity(r)
	}
	return total
}

// RowsCapacity suma la capacidad de un conjunto de filas.
func (t Topology) RowsCapacity(rows []int) int {
	total := 0
	for _, r := range rows {
		total += t.RowCapacity(r)
	}
	return total
}

// Contains indica si la ubicación existe en esta topología.
func (t Topology) Contains(loc Location) bool {
	if loc.IsFridge() {
		return loc.Col >= 1 && loc.Col <= t.FridgeSlots
	}
	return loc.Col >= 1 && loc.Col <= t.RowCapacity(loc.Row)
}

// Slots genera todos los slots vacíos de una cava, en orden: nevera y luego filas.
func (t Topology) Slots(cellarID string) []entity.Slot {
	slots := make([]entity.Slot, 0, t.FridgeSlots+t.CellarCapacity())
	for n := 1; n <= t.FridgeSlots; n++ {
		slots = append(slots, entity.Slot{
			CellarID:     cellarID,
			StorageArea:  entity.StorageAreaFridge,
			LocationCode: FridgeCode(n),
			Row:          fridgeRow(n),
			Col:          n,
		})
	}
	for r := 1; r <= t.Rows; r++ {
		for c := 1; c <= t.RowCapacity(r); c++ {
			slots = append(slots, entity.Slot{
				CellarID:     cellarID,
				StorageArea:  entity.StorageAreaCellar,
				LocationCode: CellarCode(r, c),
				Row:          r,
				Col:          c,
			})
		}
	}
	return slots
}
