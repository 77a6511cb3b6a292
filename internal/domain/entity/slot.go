package entity

// Áreas físicas de almacenamiento.
const (
	StorageAreaCellar = "cellar"
	StorageAreaFridge = "fridge"
)

// Slot es una posición física para una botella (R<fila>C<col> en la cava, F<n> en la nevera).
// Se aprovisiona una sola vez por cava; después solo cambia WineID.
type Slot struct {
	ID           int64
	CellarID     string
	StorageArea  string
	LocationCode string
	Row          int
	Col          int
	WineID       *int64 // nil = vacío
}

// Occupied indica si el slot tiene una botella.
func (s *Slot) Occupied() bool {
	return s.WineID != nil
}

// SlotPlacement es una botella colocada en un slot, unida con los datos del vino
// necesarios para planificar (zona efectiva, color).
type SlotPlacement struct {
	LocationCode string
	StorageArea  string
	Row          int
	Col          int
	Wine         Wine
}
