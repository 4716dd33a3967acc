package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema describes the shape the model is asked to produce. Validation
// is advisory: a reply that fails the schema is still normalized and served,
// the mismatch is only logged for prompt tuning.
const resultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "crop_name": {
      "anyOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "confidence_score": {
      "anyOf": [
        {"type": "number"},
        {"type": "array", "items": {"type": "number"}}
      ]
    },
    "stage_of_plant_growth": {
      "anyOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "description": {"type": "string"}
  },
  "required": ["crop_name"]
}`

var compiledSchema = jsonschema.MustCompileString("result.schema.json", resultSchema)

// CheckShape validates a raw (fence-stripped) reply against the expected
// result schema. Returns nil when the reply conforms.
func CheckShape(raw string) error {
	var payload any
	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return fmt.Errorf("reply is not JSON: %w", err)
	}
	if err := compiledSchema.Validate(payload); err != nil {
		return fmt.Errorf("reply does not match expected shape: %w", err)
	}
	return nil
}
