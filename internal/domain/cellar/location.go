// Package cellar modela la topología física fija de una cava: filas con capacidad
// por fila, slots de nevera y los códigos de ubicación R<fila>C<col> / F<n>.
package cellar

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jhoicas/Cava-api/internal/domain"
	"github.com/jhoicas/Cava-api/internal/domain/entity"
)

var (
	cellarCodeRe = regexp.MustCompile(`^R(\d+)C(\d+)$`)
	fridgeCodeRe = regexp.MustCompile(`^F(\d+)$`)
)

// Location es un código de ubicación ya interpretado.
type Location struct {
	Code string
	Area string // entity.StorageAreaCellar | entity.StorageAreaFridge
	Row  int    // fila de cava, o fila de nevera para F<n>
	Col  int    // columna de cava, o n para F<n>
}

// IsFridge indica si la ubicación está en la nevera.
func (l Location) IsFridge() bool { return l.Area == entity.StorageAreaFridge }

// CellarCode construye el código R<fila>C<col>.
func CellarCode(row, col int) string {
	return fmt.Sprintf("R%dC%d", row, col)
}

// FridgeCode construye el código F<n>.
func FridgeCode(n int) string {
	return fmt.Sprintf("F%d", n)
}

// ParseLocation interpreta un código de ubicación. No valida contra la topología.
func ParseLocation(code string) (Location, error) {
	if m := cellarCodeRe.FindStringSubmatch(code); m != nil {
		row, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		if row < 1 || col < 1 {
			return Location{}, fmt.Errorf("ubicación %q: %w", code, domain.ErrInvalidInput)
		}
		return Location{Code: code, Area: entity.StorageAreaCellar, Row: row, Col: col}, nil
	}
	if m := fridgeCodeRe.FindStringSubmatch(code); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 1 {
			return Location{}, fmt.Errorf("ubicación %q: %w", code, domain.ErrInvalidInput)
		}
		return Location{Code: code, Area: entity.StorageAreaFridge, Row: fridgeRow(n), Col: n}, nil
	}
	return Location{}, fmt.Errorf("ubicación %q: %w", code, domain.ErrInvalidInput)
}

// F1–F4 están en la primera bandeja de la nevera, F5 en adelante en la segunda.
func fridgeRow(n int) int {
	if n <= 4 {
		return 1
	}
	return 2
}
