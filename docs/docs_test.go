package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Cava-api/docs"
)

type swaggerDoc struct {
	Paths       map[string]map[string]swaggerOp `json:"paths"`
	Definitions map[string]struct {
		Description string `json:"description"`
		Properties  map[string]struct {
			Enum []string `json:"enum"`
		} `json:"properties"`
	} `json:"definitions"`
}

type swaggerOp struct {
	Responses map[string]struct {
		Description string `json:"description"`
		Schema      struct {
			Ref string `json:"$ref"`
		} `json:"schema"`
	} `json:"responses"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var d swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestSwagger_ConflictosSeDiscriminanPorCode(t *testing.T) {
	d := readDoc(t)

	def, ok := d.Definitions["dto.ConflictResponse"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"CONCURRENT_MODIFICATION", "INTEGRITY_VIOLATION"}, def.Properties["code"].Enum)
	assert.Contains(t, def.Description, "`code`")

	found := 0
	for path, ops := range d.Paths {
		for method, op := range ops {
			r, ok := op.Responses["409"]
			if !ok || r.Schema.Ref != "#/definitions/dto.ConflictResponse" {
				continue
			}
			found++
			assert.Contains(t, r.Description, "`code`", "%s %s", method, path)
		}
	}
	assert.Equal(t, 2, found, "execute y apply")
}

func TestSwagger_HookDeInvalidacion(t *testing.T) {
	d := readDoc(t)
	op, ok := d.Paths["/api/cellar/cache/invalidate"]["post"]
	require.True(t, ok)
	_, ok = op.Responses["204"]
	assert.True(t, ok)
}
