package zone

import "fmt"

// Registry tabla de zonas en orden canónico con búsqueda por ID.
type Registry struct {
	zones []Definition
	byID  map[string]int
}

// NewRegistry valida y construye el registro. El orden de defs es el orden canónico.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		zones: make([]Definition, 0, len(defs)),
		byID:  make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("zona sin ID")
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("zona duplicada: %s", d.ID)
		}
		if !d.Dedicated() && len(d.PreferredRows) > 0 {
			return nil, fmt.Errorf("zona %s (%s) no puede tener filas preferidas", d.ID, d.Category)
		}
		r.byID[d.ID] = len(r.zones)
		r.zones = append(r.zones, d)
	}
	return r, nil
}

// DefaultRegistry devuelve las zonas estándar de la cava.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultDefinitions)
	if err != nil {
		panic(err)
	}
	return r
}

// Get busca una zona por ID.
func (r *Registry) Get(id string) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.zones[i], true
}

// Ordered devuelve todas las zonas en orden canónico (copia).
func (r *Registry) Ordered() []Definition {
	out := make([]Definition, len(r.zones))
	copy(out, r.zones)
	return out
}

// Position devuelve el índice canónico de la zona, -1 si no existe.
func (r *Registry) Position(id string) int {
	if i, ok := r.byID[id]; ok {
		return i
	}
	return -1
}
