package zone_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/domain/entity"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
)

func TestClassify_Cascada(t *testing.T) {
	c := zone.DefaultClassifier()

	cases := []struct {
		name   string
		traits zone.Traits
		zoneID string
		reason string
	}{
		{
			name:   "uva dominante gana",
			traits: zone.Traits{Grapes: "Cabernet Sauvignon, Merlot", Colour: zone.ColourRed, Country: "Chile"},
			zoneID: zone.ZoneCabernet, reason: "grape",
		},
		{
			name:   "uva con tildes",
			traits: zone.Traits{Grapes: "Albariño", Colour: zone.ColourWhite},
			zoneID: "iberian_whites", reason: "grape",
		},
		{
			name:   "gewürztraminer normalizado",
			traits: zone.Traits{Grapes: "Gewürztraminer", Colour: zone.ColourWhite},
			zoneID: "aromatic_whites", reason: "grape",
		},
		{
			name:   "palabra clave cuando la uva no coincide",
			traits: zone.Traits{Name: "Marqués de Riscal Rioja Reserva", Grapes: "Graciano", Colour: zone.ColourRed},
			zoneID: "iberian_reds", reason: "keyword",
		},
		{
			name:   "espumoso por palabra clave aunque la uva sea chardonnay",
			traits: zone.Traits{Name: "Champagne Blanc de Blancs", Grapes: "Chardonnay", Colour: zone.ColourSparkling},
			zoneID: "sparkling", reason: "keyword",
		},
		{
			name:   "país con color",
			traits: zone.Traits{Name: "Tinto de la casa", Country: "España", Colour: zone.ColourRed},
			zoneID: "iberian_reds", reason: "country",
		},
		{
			name:   "palabra clave respeta límites de palabra",
			traits: zone.Traits{Name: "Support Hill", Country: "Portugal", Colour: zone.ColourWhite},
			zoneID: "iberian_whites", reason: "country",
		},
		{
			name:   "buffer tinto por defecto",
			traits: zone.Traits{Name: "Desconocido", Colour: zone.ColourRed},
			zoneID: zone.ZoneRedBuffer, reason: "default",
		},
		{
			name:   "buffer blanco para rosado sin reglas",
			traits: zone.Traits{Name: "Casa", Colour: zone.ColourWhite},
			zoneID: zone.ZoneWhiteBuffer, reason: "default",
		},
		{
			name:   "sin color cae en fallback",
			traits: zone.Traits{Name: "???"},
			zoneID: zone.ZoneUnclassified, reason: "default",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.traits)
			assert.Equal(t, tc.zoneID, got.ZoneID)
			assert.Equal(t, tc.reason, got.Reason)
			assert.True(t, got.Confidence.IsPositive())
		})
	}
}

func TestClassify_ConfianzaDecreceEnLaCascada(t *testing.T) {
	c := zone.DefaultClassifier()
	grape := c.Classify(zone.Traits{Grapes: "Malbec", Colour: zone.ColourRed})
	country := c.Classify(zone.Traits{Country: "Argentina", Colour: zone.ColourRed})
	def := c.Classify(zone.Traits{Colour: zone.ColourRed})

	require.Equal(t, "malbec", grape.ZoneID)
	require.Equal(t, "malbec", country.ZoneID)
	assert.True(t, grape.Confidence.GreaterThan(country.Confidence))
	assert.True(t, country.Confidence.GreaterThan(def.Confidence))
}

func TestRegistry_OrdenCanonicoYCategorias(t *testing.T) {
	r := zone.DefaultRegistry()
	ordered := r.Ordered()
	require.NotEmpty(t, ordered)

	// Los blancos van antes que cualquier tinto dedicado.
	lastWhite, firstRed := -1, len(ordered)
	for i, d := range ordered {
		if !d.Dedicated() {
			continue
		}
		if d.AcceptsColour(zone.ColourWhite) && !d.AcceptsColour(zone.ColourRed) && i > lastWhite {
			lastWhite = i
		}
		if d.AcceptsColour(zone.ColourRed) && !d.AcceptsColour(zone.ColourWhite) && i < firstRed {
			firstRed = i
		}
	}
	assert.Less(t, lastWhite, firstRed)

	buf, ok := r.Get(zone.ZoneRedBuffer)
	require.True(t, ok)
	assert.False(t, buf.Dedicated())
	assert.Empty(t, buf.PreferredRows)

	_, ok = r.Get("no-existe")
	assert.False(t, ok)
	assert.Equal(t, -1, r.Position("no-existe"))
}

func TestNewRegistry_Rechaza(t *testing.T) {
	_, err := zone.NewRegistry([]zone.Definition{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)

	_, err = zone.NewRegistry([]zone.Definition{{ID: "b", Category: zone.CategoryBuffer, PreferredRows: []int{1}}})
	assert.Error(t, err)
}

func TestAcceptsColour(t *testing.T) {
	red := zone.Definition{ID: "r", Colours: []zone.Colour{zone.ColourRed}}
	assert.True(t, red.AcceptsColour(zone.ColourRed))
	assert.False(t, red.AcceptsColour(zone.ColourWhite))
	assert.True(t, red.AcceptsColour(""), "color desconocido no es violación")

	anyZone := zone.Definition{ID: "x"}
	assert.True(t, anyZone.AcceptsColour(zone.ColourWhite))
}

func TestResolve_PrioridadOverrideAlmacenadaCascada(t *testing.T) {
	c := zone.DefaultClassifier()

	w := &entity.Wine{Name: "Catena", Grapes: "Malbec", Colour: "red"}
	got := c.Resolve(w)
	assert.Equal(t, "malbec", got.ZoneID)
	assert.Equal(t, "grape", got.Reason)

	w.ZoneID = "new_world_reds"
	w.ZoneConfidence = decimal.NewNullDecimal(decimal.RequireFromString("0.6"))
	got = c.Resolve(w)
	assert.Equal(t, "new_world_reds", got.ZoneID)
	assert.Equal(t, zone.ReasonStored, got.Reason)
	assert.True(t, got.Confidence.Equal(decimal.RequireFromString("0.6")))

	w.ZoneOverride = "cellar_reserve"
	got = c.Resolve(w)
	assert.Equal(t, "cellar_reserve", got.ZoneID)
	assert.Equal(t, zone.ReasonOverride, got.Reason)
}
