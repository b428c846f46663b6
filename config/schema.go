package config

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the config file.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Config{})
	schema.Title = "pickplace config"
	return schema
}
