package zone

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RuleKind etiqueta de la regla; el orden de los valores es el orden de la cascada.
type RuleKind int

const (
	RuleGrape RuleKind = iota
	RuleKeyword
	RuleCountry
)

func (k RuleKind) String() string {
	switch k {
	case RuleGrape:
		return "grape"
	case RuleKeyword:
		return "keyword"
	case RuleCountry:
		return "country"
	default:
		return "unknown"
	}
}

// Rule es un par predicado → zona. Colour, si no es vacío, exige ese color en el vino.
type Rule struct {
	Kind   RuleKind
	Terms  []string
	Colour Colour
	ZoneID string
}

// Traits datos del vino que usa la clasificación.
type Traits struct {
	Name    string
	Style   string
	Grapes  string
	Country string
	Colour  Colour
}

// Classification resultado de clasificar un vino.
type Classification struct {
	ZoneID     string
	Confidence decimal.Decimal
	Reason     string
}

var (
	confidenceGrape   = decimal.RequireFromString("0.90")
	confidenceKeyword = decimal.RequireFromString("0.75")
	confidenceCountry = decimal.RequireFromString("0.60")
	confidenceDefault = decimal.RequireFromString("0.30")
)

// Classifier evalúa la cascada uva → palabra clave → país → buffer por color.
// Dentro de cada etapa gana la primera regla que coincide.
type Classifier struct {
	grape   []Rule
	keyword []Rule
	country []Rule
}

// NewClassifier construye el clasificador. Los términos se normalizan una sola vez.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		terms := make([]string, 0, len(r.Terms))
		for _, t := range r.Terms {
			terms = append(terms, normalize(t))
		}
		r.Terms = terms
		switch r.Kind {
		case RuleGrape:
			c.grape = append(c.grape, r)
		case RuleKeyword:
			c.keyword = append(c.keyword, r)
		case RuleCountry:
			c.country = append(c.country, r)
		}
	}
	return c
}

// DefaultClassifier usa la tabla de reglas estándar.
func DefaultClassifier() *Classifier {
	return NewClassifier(defaultRules)
}

// Classify asigna una zona al vino. Nunca falla: el último recurso es el buffer por color.
func (c *Classifier) Classify(w Traits) Classification {
	colour := Colour(normalize(string(w.Colour)))

	// Uva: se recorren las uvas en el orden declarado, la dominante primero.
	for _, g := range splitGrapes(w.Grapes) {
		for _, r := range c.grape {
			if !colourOK(r, colour) {
				continue
			}
			for _, t := range r.Terms {
				if g == t || strings.Contains(g, t) {
					return Classification{ZoneID: r.ZoneID, Confidence: confidenceGrape, Reason: RuleGrape.String()}
				}
			}
		}
	}

	text := normalize(w.Name + " " + w.Style)
	for _, r := range c.keyword {
		if !colourOK(r, colour) {
			continue
		}
		for _, t := range r.Terms {
			if containsWord(text, t) {
				return Classification{ZoneID: r.ZoneID, Confidence: confidenceKeyword, Reason: RuleKeyword.String()}
			}
		}
	}

	country := normalize(w.Country)
	if country != "" {
		for _, r := range c.country {
			if !colourOK(r, colour) {
				continue
			}
			for _, t := range r.Terms {
				if country == t {
					return Classification{ZoneID: r.ZoneID, Confidence: confidenceCountry, Reason: RuleCountry.String()}
				}
			}
		}
	}

	return Classification{ZoneID: defaultZoneFor(colour), Confidence: confidenceDefault, Reason: "default"}
}

func colourOK(r Rule, c Colour) bool {
	return r.Colour == "" || r.Colour == c
}

// containsWord busca t en text respetando límites de palabra.
func containsWord(text, t string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], t)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(t)
		before := start == 0 || !isLetter(text[start-1])
		after := end == len(text) || !isLetter(text[end])
		if before && after {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func defaultZoneFor(c Colour) string {
	switch c {
	case ColourRed:
		return ZoneRedBuffer
	case ColourWhite, ColourRose, ColourSparkling:
		return ZoneWhiteBuffer
	default:
		return ZoneUnclassified
	}
}

var defaultRules = []Rule{
	{Kind: RuleGrape, Terms: []string{"sauvignon blanc", "fume blanc"}, ZoneID: "sauvignon_blanc"},
	{Kind: RuleGrape, Terms: []string{"chardonnay"}, Colour: ColourWhite, ZoneID: "chardonnay"},
	{Kind: RuleGrape, Terms: []string{"riesling", "gewurztraminer", "viognier", "torrontes", "moscatel", "muscat"}, Colour: ColourWhite, ZoneID: "aromatic_whites"},
	{Kind: RuleGrape, Terms: []string{"albarino", "verdejo", "godello", "loureiro", "treixadura"}, ZoneID: "iberian_whites"},
	{Kind: RuleGrape, Terms: []string{"pinot noir", "spatburgunder"}, Colour: ColourRed, ZoneID: "pinot_noir"},
	{Kind: RuleGrape, Terms: []string{"tempranillo", "tinta de toro", "tinto fino", "garnacha", "mencia", "monastrell", "touriga"}, Colour: ColourRed, ZoneID: "iberian_reds"},
	{Kind: RuleGrape, Terms: []string{"sangiovese", "nebbiolo", "barbera", "aglianico", "nero d'avola"}, Colour: ColourRed, ZoneID: "italian_reds"},
	{Kind: RuleGrape, Terms: []string{"syrah", "shiraz", "grenache", "mourvedre"}, Colour: ColourRed, ZoneID: "rhone_reds"},
	{Kind: RuleGrape, Terms: []string{"malbec"}, Colour: ColourRed, ZoneID: "malbec"},
	{Kind: RuleGrape, Terms: []string{"cabernet sauvignon"}, Colour: ColourRed, ZoneID: ZoneCabernet},
	{Kind: RuleGrape, Terms: []string{"merlot", "cabernet franc", "petit verdot"}, Colour: ColourRed, ZoneID: "merlot"},
	{Kind: RuleGrape, Terms: []string{"zinfandel", "primitivo", "carmenere", "pinotage", "tannat"}, Colour: ColourRed, ZoneID: "new_world_reds"},

	{Kind: RuleKeyword, Terms: []string{"champagne", "cava", "prosecco", "cremant", "franciacorta", "espumoso", "brut"}, ZoneID: "sparkling"},
	{Kind: RuleKeyword, Terms: []string{"oporto", "port", "jerez", "sherry", "madeira", "sauternes", "tokaji", "pedro ximenez"}, ZoneID: "dessert_fortified"},
	{Kind: RuleKeyword, Terms: []string{"rose", "rosado", "rosato"}, Colour: ColourRose, ZoneID: "rose"},
	{Kind: RuleKeyword, Terms: []string{"rioja", "ribera del duero", "priorat", "toro", "douro"}, Colour: ColourRed, ZoneID: "iberian_reds"},
	{Kind: RuleKeyword, Terms: []string{"chianti", "barolo", "barbaresco", "brunello", "montepulciano", "amarone"}, Colour: ColourRed, ZoneID: "italian_reds"},
	{Kind: RuleKeyword, Terms: []string{"bordeaux", "burdeos", "medoc", "pomerol", "saint-emilion"}, Colour: ColourRed, ZoneID: "merlot"},
	{Kind: RuleKeyword, Terms: []string{"cotes du rhone", "chateauneuf", "hermitage"}, Colour: ColourRed, ZoneID: "rhone_reds"},
	{Kind: RuleKeyword, Terms: []string{"borgona", "bourgogne", "burgundy"}, Colour: ColourRed, ZoneID: "pinot_noir"},
	{Kind: RuleKeyword, Terms: []string{"rias baixas", "rueda"}, Colour: ColourWhite, ZoneID: "iberian_whites"},

	{Kind: RuleCountry, Terms: []string{"espana", "spain", "portugal"}, Colour: ColourRed, ZoneID: "iberian_reds"},
	{Kind: RuleCountry, Terms: []string{"espana", "spain", "portugal"}, Colour: ColourWhite, ZoneID: "iberian_whites"},
	{Kind: RuleCountry, Terms: []string{"italia", "italy"}, Colour: ColourRed, ZoneID: "italian_reds"},
	{Kind: RuleCountry, Terms: []string{"argentina"}, Colour: ColourRed, ZoneID: "malbec"},
	{Kind: RuleCountry, Terms: []string{"chile", "sudafrica", "south africa", "estados unidos", "usa", "australia"}, Colour: ColourRed, ZoneID: "new_world_reds"},
}
