// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema rejects unknown keys and mistyped values before the
// document is decoded, so a typo in the config file fails fast instead
// of silently falling back to a default. Semantic constraints that span
// fields live in Config.Validate.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "llamaCppRoot": { "type": "string" },
    "model": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "hfRepo": { "type": "string" },
        "name": { "type": "string" },
        "paramsBillions": { "type": "number", "minimum": 0 }
      },
      "required": ["hfRepo"]
    },
    "quants": {
      "type": "array",
      "items": { "type": "string" }
    },
    "run": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "preset": { "type": "string" },
        "contextSize": { "type": "integer", "minimum": 0 },
        "maxTokens": { "type": "integer", "minimum": 0 },
        "gpuLayers": { "type": "integer", "minimum": 0, "maximum": 999 },
        "temperature": { "type": "number", "minimum": 0, "maximum": 2 },
        "threads": { "type": "integer", "minimum": 0, "maximum": 1024 }
      }
    },
    "perplexity": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "contextSize": { "type": "integer", "minimum": 0 },
        "batchSize": { "type": "integer", "minimum": 0 }
      }
    },
    "promptFile": { "type": "string" },
    "dataDir": { "type": "string" },
    "modelsDir": { "type": "string" },
    "continueOnError": { "type": "boolean" },
    "debug": { "type": "boolean" },
    "logFile": { "type": "string" }
  }
}`

// ValidateDocument validates a raw configuration document against the
// embedded schema and reports every violation in one error.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
}
