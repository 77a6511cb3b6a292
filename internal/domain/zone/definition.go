// Package zone contiene la configuración estática de zonas de vino (orden canónico,
// rangos de filas preferidos, familias de color) y la cascada de clasificación vino → zona.
package zone

// Colour familia de color de un vino o de lo que acepta una zona.
type Colour string

const (
	ColourRed       Colour = "red"
	ColourWhite     Colour = "white"
	ColourRose      Colour = "rose"
	ColourSparkling Colour = "sparkling"
	ColourDessert   Colour = "dessert"
	ColourFortified Colour = "fortified"
)

// Category distingue zonas con filas dedicadas de las que viven en capacidad residual.
type Category string

const (
	CategoryDedicated Category = ""
	CategoryBuffer    Category = "buffer"
	CategoryFallback  Category = "fallback"
	CategoryCurated   Category = "curated"
)

// Definition metadatos estáticos de una zona.
type Definition struct {
	ID            string
	DisplayName   string
	Family        string
	Colours       []Colour // vacío = acepta cualquier color
	Category      Category
	PreferredRows []int // en orden de preferencia
}

// Dedicated indica si la zona puede recibir filas propias.
// Las zonas buffer, fallback y curated nunca reciben filas dedicadas.
func (d Definition) Dedicated() bool {
	return d.Category == CategoryDedicated
}

// AcceptsColour indica si un vino del color dado encaja en la zona.
// Un color desconocido (vacío) o una zona sin restricción siempre encajan.
func (d Definition) AcceptsColour(c Colour) bool {
	if c == "" || len(d.Colours) == 0 {
		return true
	}
	for _, z := range d.Colours {
		if z == c {
			return true
		}
	}
	return false
}

// Identificadores de zonas especiales usadas por la cascada de clasificación.
const (
	ZoneWhiteBuffer  = "white_buffer"
	ZoneRedBuffer    = "red_buffer"
	ZoneUnclassified = "unclassified"
	ZoneCabernet     = "cabernet"
)

// defaultDefinitions es el orden canónico: blancos antes que tintos, agrupados por familia.
// El proponedor de layout recorre las zonas siempre en este orden.
var defaultDefinitions = []Definition{
	{ID: "sparkling", DisplayName: "Espumosos", Family: "sparkling", Colours: []Colour{ColourSparkling}, PreferredRows: []int{1}},
	{ID: "sauvignon_blanc", DisplayName: "Sauvignon Blanc", Family: "white", Colours: []Colour{ColourWhite}, PreferredRows: []int{2}},
	{ID: "chardonnay", DisplayName: "Chardonnay", Family: "white", Colours: []Colour{ColourWhite}, PreferredRows: []int{3, 4}},
	{ID: "aromatic_whites", DisplayName: "Blancos aromáticos", Family: "white", Colours: []Colour{ColourWhite}, PreferredRows: []int{5}},
	{ID: "iberian_whites", DisplayName: "Blancos ibéricos", Family: "white", Colours: []Colour{ColourWhite}, PreferredRows: []int{6}},
	{ID: "rose", DisplayName: "Rosados", Family: "rose", Colours: []Colour{ColourRose}, PreferredRows: []int{7}},
	{ID: "pinot_noir", DisplayName: "Pinot Noir", Family: "red_light", Colours: []Colour{ColourRed}, PreferredRows: []int{8}},
	{ID: "iberian_reds", DisplayName: "Tintos ibéricos", Family: "red_old_world", Colours: []Colour{ColourRed}, PreferredRows: []int{9, 10}},
	{ID: "italian_reds", DisplayName: "Tintos italianos", Family: "red_old_world", Colours: []Colour{ColourRed}, PreferredRows: []int{11}},
	{ID: "rhone_reds", DisplayName: "Syrah y cortes del Ródano", Family: "red_full", Colours: []Colour{ColourRed}, PreferredRows: []int{12}},
	{ID: "malbec", DisplayName: "Malbec", Family: "red_full", Colours: []Colour{ColourRed}, PreferredRows: []int{13}},
	{ID: ZoneCabernet, DisplayName: "Cabernet Sauvignon", Family: "red_bordeaux", Colours: []Colour{ColourRed}, PreferredRows: []int{14, 15}},
	{ID: "merlot", DisplayName: "Merlot y cortes de Burdeos", Family: "red_bordeaux", Colours: []Colour{ColourRed}, PreferredRows: []int{16}},
	{ID: "new_world_reds", DisplayName: "Tintos del Nuevo Mundo", Family: "red_full", Colours: []Colour{ColourRed}, PreferredRows: []int{17}},
	{ID: "dessert_fortified", DisplayName: "Dulces y generosos", Family: "dessert", Colours: []Colour{ColourDessert, ColourFortified}, PreferredRows: []int{18}},
	{ID: ZoneWhiteBuffer, DisplayName: "Buffer blancos", Family: "white", Colours: []Colour{ColourWhite, ColourRose, ColourSparkling}, Category: CategoryBuffer},
	{ID: ZoneRedBuffer, DisplayName: "Buffer tintos", Family: "red", Colours: []Colour{ColourRed}, Category: CategoryBuffer},
	{ID: ZoneUnclassified, DisplayName: "Sin clasificar", Family: "other", Category: CategoryFallback},
	{ID: "cellar_reserve", DisplayName: "Reserva de guarda", Family: "other", Category: CategoryCurated},
}
