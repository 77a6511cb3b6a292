package entity

import "time"

// Cellar inquilino del motor: una cava física con su propia topología de slots.
type Cellar struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
