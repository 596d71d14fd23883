package extraction

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas the model responses must satisfy before any field is trusted.
const (
	candidateSchema = `{
  "type": "object",
  "required": ["full_name"],
  "properties": {
    "full_name": {"type": "string"},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]},
    "linkedin": {"type": ["string", "null"]},
    "github": {"type": ["string", "null"]},
    "website": {"type": ["string", "null"]}
  }
}`

	positionsSchema = `{
  "type": "object",
  "required": ["positions"],
  "properties": {
    "positions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["employer_name"],
        "properties": {
          "employer_name": {"type": "string"},
          "title": {"type": ["string", "null"]},
          "start": {"type": ["string", "null"]},
          "end": {"type": ["string", "null"]},
          "location": {"type": ["string", "null"]},
          "employer_domain": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

	educationsSchema = `{
  "type": "object",
  "required": ["educations"],
  "properties": {
    "educations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["institution_name"],
        "properties": {
          "institution_name": {"type": "string"},
          "degree": {"type": ["string", "null"]},
          "start_year": {"type": ["integer", "null"]},
          "end_year": {"type": ["integer", "null"]}
        }
      }
    }
  }
}`
)

// validateAgainst checks a JSON document against a schema and returns a
// single error summarizing every violated field.
func validateAgainst(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("response violates schema:")
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fmt.Fprintf(&sb, " %s: %s;", field, desc.Description())
	}
	return fmt.Errorf("%s", strings.TrimSuffix(sb.String(), ";"))
}
