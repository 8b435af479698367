package assets

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/model.schema.json
var modelSchemaJSON string

// modelSchema guards the decoder against malformed upstream model JSON;
// anything that fails validation is treated as an absent asset.
var modelSchema = jsonschema.MustCompileString("model.schema.json", modelSchemaJSON)
