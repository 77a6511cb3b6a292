package dto

import "time"

// ZoneMapEntry una fila física con la zona que la ocupa actualmente.
type ZoneMapEntry struct {
	Row         int    `json:"row"`
	ZoneID      string `json:"zone_id"`
	DisplayName string `json:"display_name"`
	WineCount   int    `json:"wine_count"`
	Capacity    int    `json:"capacity"`
}

// ZoneStatusDTO estado de una zona: configuración estática unida a su asignación viva.
type ZoneStatusDTO struct {
	ZoneID        string `json:"zone_id"`
	DisplayName   string `json:"display_name"`
	Family        string `json:"family"`
	Category      string `json:"category,omitempty"`
	PreferredRows []int  `json:"preferred_rows"`
	AssignedRows  []int  `json:"assigned_rows"`
	WineCount     int    `json:"wine_count"`
	Capacity      int    `json:"capacity"`
	Active        bool   `json:"active"`
}

// ZoneAllocationDTO asignación persistida de filas a una zona.
type ZoneAllocationDTO struct {
	ZoneID        string    `json:"zone_id"`
	AssignedRows  []int     `json:"assigned_rows"`
	WineCount     int       `json:"wine_count"`
	FirstWineDate time.Time `json:"first_wine_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ZoneRowsResponse respuesta de GET /api/zones/:zoneId/rows.
type ZoneRowsResponse struct {
	ZoneID    string `json:"zone_id"`
	Rows      []int  `json:"rows"`
	WineCount int    `json:"wine_count,omitempty"`
}

// WineEventRequest body para POST /api/zones/:zoneId/wine-events. delta > 0 alta, < 0 baja.
type WineEventRequest struct {
	Delta int `json:"delta"`
}
