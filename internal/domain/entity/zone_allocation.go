package entity

import "time"

// ZoneAllocation asigna filas físicas a una zona lógica.
// Se crea con el primer vino de la zona y se elimina cuando el conteo vuelve a cero.
type ZoneAllocation struct {
	CellarID      string
	ZoneID        string
	AssignedRows  []int
	WineCount     int
	FirstWineDate time.Time
	UpdatedAt     time.Time
}

// HasRow indica si la fila está asignada a esta zona.
func (a *ZoneAllocation) HasRow(row int) bool {
	for _, r := range a.AssignedRows {
		if r == row {
			return true
		}
	}
	return false
}
