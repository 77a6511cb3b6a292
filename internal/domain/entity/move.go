package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Move es una reubicación propuesta de una botella. Efímero, nunca se persiste.
type Move struct {
	WineID     int64            `json:"wineId"`
	WineName   string           `json:"wineName,omitempty"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	ZoneID     string           `json:"zoneId,omitempty"`
	Confidence *decimal.Decimal `json:"confidence,omitempty"`
}

// ReconfigurationPlan es una propuesta de movimientos cacheada en memoria con TTL corto.
type ReconfigurationPlan struct {
	ID        string    `json:"id"`
	CellarID  string    `json:"cellar_id"`
	Moves     []Move    `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica si el plan ya no es utilizable en el instante now.
func (p *ReconfigurationPlan) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
