package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wine es la entidad externa de vino. Este servicio solo la lee y actualiza su zona.
type Wine struct {
	ID             int64
	CellarID       string
	Name           string
	Colour         string // red, white, rose, sparkling, dessert, fortified; vacío = desconocido
	Grapes         string // lista libre separada por comas
	Country        string
	Style          string
	ZoneID         string // resultado de clasificación almacenado
	ZoneConfidence decimal.NullDecimal
	ZoneOverride   string // asignación manual del usuario, tiene prioridad
	UpdatedAt      time.Time
}

// EffectiveZone devuelve la zona que aplica al vino: override del usuario o la clasificación almacenada.
// Vacío significa que hay que clasificarlo.
func (w *Wine) EffectiveZone() string {
	if w.ZoneOverride != "" {
		return w.ZoneOverride
	}
	return w.ZoneID
}
