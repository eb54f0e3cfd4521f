package gesture

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
)

const schemaBase = "https://gazestep.schemas.local/"

// gestureSchema describes the JSON form of one gesture. Step types are left
// open here; unknown names are reported by ParseKind with the step position.
const gestureSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "enabled": {"type": "boolean"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"type": "string"},
          "radius": {"type": "number"},
          "dwell_time": {"type": "integer", "minimum": 0},
          "x": {"type": "number"},
          "y": {"type": "number"},
          "left": {"type": "number"},
          "top": {"type": "number"},
          "width": {"type": "number"},
          "height": {"type": "number"},
          "round": {"type": "boolean"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["gestures"],
  "properties": {
    "gestures": {"type": "array", "items": {"$ref": "gesture.schema.json"}}
  },
  "additionalProperties": false
}`

type schemas struct {
	gesture  *jsonschema.Schema
	document *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (schemas, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for name, src := range map[string]string{
		"gesture.schema.json":  gestureSchema,
		"document.schema.json": documentSchema,
	} {
		if err := c.AddResource(schemaBase+name, strings.NewReader(src)); err != nil {
			return schemas{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	var s schemas
	var err error
	if s.gesture, err = c.Compile(schemaBase + "gesture.schema.json"); err != nil {
		return schemas{}, fmt.Errorf("compile gesture schema: %w", err)
	}
	if s.document, err = c.Compile(schemaBase + "document.schema.json"); err != nil {
		return schemas{}, fmt.Errorf("compile document schema: %w", err)
	}
	return s, nil
})

// ValidateJSONGesture checks data against the JSON schema of a single
// gesture. Violations are reported as INVALID_DOCUMENT.
func ValidateJSONGesture(data []byte) error {
	return validateJSON(data, func(s schemas) *jsonschema.Schema { return s.gesture }, "gesture")
}

// ValidateJSONDocument checks data against the JSON schema of a gesture
// document. Violations are reported as INVALID_DOCUMENT.
func ValidateJSONDocument(data []byte) error {
	return validateJSON(data, func(s schemas) *jsonschema.Schema { return s.document }, "document")
}

func validateJSON(data []byte, pick func(schemas) *jsonschema.Schema, what string) error {
	s, err := loadSchemas()
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeInternal, err, "gesture schemas")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeInvalidDocument, err, "decode %s", what)
	}
	if err := pick(s).Validate(v); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeInvalidDocument, err, "%s does not match schema", what)
	}
	return nil
}
