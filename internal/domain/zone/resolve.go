package zone

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

// Razones adicionales a las de la cascada.
const (
	ReasonOverride = "override"
	ReasonStored   = "stored"
)

// WineColour normaliza el color almacenado de un vino. Vacío = desconocido.
func WineColour(w *entity.Wine) Colour {
	return Colour(normalize(w.Colour))
}

// Resolve devuelve la zona efectiva de un vino: override del usuario, luego la
// clasificación almacenada y, si no hay ninguna, la cascada sobre sus rasgos.
func (c *Classifier) Resolve(w *entity.Wine) Classification {
	if w.ZoneOverride != "" {
		return Classification{ZoneID: w.ZoneOverride, Confidence: decimal.NewFromInt(1), Reason: ReasonOverride}
	}
	if w.ZoneID != "" {
		conf := decimal.Zero
		if w.ZoneConfidence.Valid {
			conf = w.ZoneConfidence.Decimal
		}
		return Classification{ZoneID: w.ZoneID, Confidence: conf, Reason: ReasonStored}
	}
	return c.Classify(Traits{
		Name:    w.Name,
		Style:   w.Style,
		Grapes:  w.Grapes,
		Country: w.Country,
		Colour:  WineColour(w),
	})
}
