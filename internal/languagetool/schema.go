package languagetool

import (
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const responseSchemaURL = "languagetool-check-response.json"

// responseSchema covers the part of the /v2/check response that is read.
const responseSchema = `{
  "type": "object",
  "required": ["matches"],
  "properties": {
    "language": {
      "type": "object",
      "properties": {
        "code": {"type": "string"}
      }
    },
    "matches": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["message", "offset", "length", "rule"],
        "properties": {
          "message": {"type": "string"},
          "shortMessage": {"type": "string"},
          "offset": {"type": "integer", "minimum": 0},
          "length": {"type": "integer", "minimum": 0},
          "replacements": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {"value": {"type": "string"}}
            }
          },
          "context": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
          },
          "rule": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": {"type": "string"},
              "category": {
                "type": "object",
                "properties": {"id": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadResponseSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(responseSchemaURL, responseSchema)
	})
	return compiledSchema, schemaErr
}

func validateResponse(raw []byte) error {
	schema, err := loadResponseSchema()
	if err != nil {
		return fmt.Errorf("failed to compile languagetool response schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to decode languagetool response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("languagetool response schema validation failed: %w", err)
	}
	return nil
}
