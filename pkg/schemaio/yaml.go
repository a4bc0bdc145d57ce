package schemaio

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ExportYAML serialises the schema into the canonical document as YAML.
// Key names match the JSON document so the two formats stay interchangeable.
func ExportYAML(schema model.FormSchema) ([]byte, error) {
	data, err := Export(schema)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// ImportYAML parses a YAML schema document with the same semantics as
// Import. The document is converted to JSON first so both formats share a
// single normalisation path.
func ImportYAML(data []byte) (model.FormSchema, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return model.FormSchema{}, importError("invalid YAML document", err)
	}
	encoded, err := json.Marshal(normalizeYAMLValue(generic))
	if err != nil {
		return model.FormSchema{}, importError("invalid YAML document", err)
	}
	return Import(encoded)
}

// normalizeYAMLValue rewrites map[any]any trees (produced by older YAML
// payloads) into map[string]any so they can round-trip through encoding/json.
func normalizeYAMLValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			out[key] = normalizeYAMLValue(entry)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			out[model.StringValue(key)] = normalizeYAMLValue(entry)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, entry := range v {
			out = append(out, normalizeYAMLValue(entry))
		}
		return out
	default:
		return value
	}
}
