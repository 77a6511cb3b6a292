package entity

import "time"

// ZoneRowLayout es una fila del layout objetivo confirmado (fila → zona).
type ZoneRowLayout struct {
	CellarID  string
	Row       int
	ZoneID    string
	CreatedAt time.Time
}

// ZoneRowAssignment agrupa las filas consecutivas propuestas para una zona.
type ZoneRowAssignment struct {
	ZoneID      string `json:"zone_id"`
	DisplayName string `json:"display_name,omitempty"`
	Rows        []int  `json:"rows"`
	BottleCount int    `json:"bottle_count"`
	Capacity    int    `json:"capacity"`
}
