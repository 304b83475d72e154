package schema

import (
	"bytes"
	"fmt"

	"github.com/octoguard/octoguard/internal/ghlog"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaViolation is one advisory, non-fatal mismatch between an input and
// GitHub's published workflow JSON Schema. These never block typed decoding
// (which remains authoritative for audits); they surface as Informational,
// low-confidence "schema-violation" findings under the pedantic persona.
type SchemaViolation struct {
	Pointer string
	Message string
}

// ValidateAgainstGitHubSchema compiles compiledSchema (GitHub's public
// workflow JSON Schema, supplied by the caller so the schema text stays an
// ordinary asset rather than this package's concern) and validates raw YAML
// bytes against it, round-tripping through an interface{} decode since
// jsonschema/v6 validates JSON-shaped Go values, not YAML nodes directly.
func ValidateAgainstGitHubSchema(schemaText []byte, raw []byte) ([]SchemaViolation, error) {
	compiler := jsonschema.NewCompiler()
	unmarshaled, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaText))
	if err != nil {
		return nil, fmt.Errorf("decode github workflow schema: %w", err)
	}
	const schemaResource = "https://octoguard.internal/github-workflow-schema.json"
	if err := compiler.AddResource(schemaResource, unmarshaled); err != nil {
		return nil, fmt.Errorf("add github workflow schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compile github workflow schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml for schema validation: %w", err)
	}
	doc = stringifyKeys(doc)

	if err := compiled.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			ghlog.Logger.Warn("github schema validation failed without structured detail", "error", err)
			return []SchemaViolation{{Message: err.Error()}}, nil
		}
		return flattenValidationErrors(ve), nil
	}
	return nil, nil
}

func flattenValidationErrors(ve *jsonschema.ValidationError) []SchemaViolation {
	var out []SchemaViolation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e == nil {
			return
		}
		if len(e.Causes) == 0 {
			out = append(out, SchemaViolation{
				Pointer: e.InstanceLocation.String(),
				Message: e.Error(),
			})
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// stringifyKeys recursively converts map[string]interface{} produced by
// yaml.v3 (already string-keyed) into a tree jsonschema/v6 accepts,
// normalizing any non-string scalar map keys that YAML permits but JSON
// does not (e.g. bare `true`/`on` as a mapping key collapsing to a bool).
func stringifyKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = stringifyKeys(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[fmt.Sprintf("%v", k)] = stringifyKeys(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = stringifyKeys(vv)
		}
		return out
	default:
		return val
	}
}
