// Package schemaio serialises form schemas for export and reads them back.
// The canonical document is the flat JSON shape documented on Export;
// Import additionally accepts the wrapped legacy shape produced by older
// builders. Importing never crashes on malformed input: every rejection is
// an *ImportError carrying a reason for the caller to surface.
package schemaio

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// document is the canonical export shape:
//
//	{
//	  "id": "...",
//	  "title": "...",
//	  "description": "...",
//	  "settings": {...},
//	  "fields": [...],
//	  "createdAt": "...",
//	  "updatedAt": "..."
//	}
type document struct {
	ID          string                  `json:"id,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Settings    model.FormSettings      `json:"settings"`
	Fields      []model.FieldDefinition `json:"fields"`
	CreatedAt   *time.Time              `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time              `json:"updatedAt,omitempty"`
}

// Export serialises the schema into the canonical document as indented JSON.
func Export(schema model.FormSchema) ([]byte, error) {
	doc := document{
		ID:          schema.ID,
		Title:       schema.Title,
		Description: schema.Description,
		Settings:    schema.Settings,
		Fields:      schema.Fields,
		CreatedAt:   timePtr(schema.Created),
		UpdatedAt:   timePtr(schema.Updated),
	}
	if doc.Fields == nil {
		doc.Fields = []model.FieldDefinition{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

type importEnvelope struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Settings    *model.FormSettings `json:"settings"`
	Fields      json.RawMessage     `json:"fields"`
	CreatedAt   *time.Time          `json:"createdAt"`
	Created     *time.Time          `json:"created"`
	UpdatedAt   *time.Time          `json:"updatedAt"`
	Updated     *time.Time          `json:"updated"`
	Form        *importEnvelope     `json:"form"`
}

// Import parses a serialized schema. Both the canonical flat document and
// the legacy wrapped `{form, fields, exportedAt}` shape are accepted; when
// both carry a fields array the top-level one wins. Missing titles default
// to "Untitled Form", field ids are minted where absent, orders are
// renumbered contiguously, and user-facing strings are sanitised.
func Import(data []byte) (model.FormSchema, error) {
	var env importEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.FormSchema{}, importError("invalid JSON document", err)
	}

	fieldsRaw := env.Fields
	if fieldsRaw == nil && env.Form != nil {
		fieldsRaw = env.Form.Fields
	}
	if fieldsRaw == nil {
		return model.FormSchema{}, importError("document is missing the fields array", nil)
	}

	var fields []model.FieldDefinition
	if err := json.Unmarshal(fieldsRaw, &fields); err != nil {
		return model.FormSchema{}, importError("malformed fields array", err)
	}

	schema := model.FormSchema{
		ID:          firstNonEmpty(env.ID, wrappedString(env.Form, func(f *importEnvelope) string { return f.ID })),
		Title:       firstNonEmpty(env.Title, wrappedString(env.Form, func(f *importEnvelope) string { return f.Title })),
		Description: firstNonEmpty(env.Description, wrappedString(env.Form, func(f *importEnvelope) string { return f.Description })),
		Settings:    model.DefaultSettings(),
	}
	if env.Settings != nil {
		schema.Settings = *env.Settings
	} else if env.Form != nil && env.Form.Settings != nil {
		schema.Settings = *env.Form.Settings
	}
	if schema.ID == "" {
		schema.ID = uuid.NewString()
	}
	if schema.Title == "" {
		schema.Title = "Untitled Form"
	}
	schema.Created = firstTime(env.CreatedAt, env.Created, wrappedTime(env.Form, func(f *importEnvelope) *time.Time { return firstTimePtr(f.CreatedAt, f.Created) }))
	schema.Updated = firstTime(env.UpdatedAt, env.Updated, wrappedTime(env.Form, func(f *importEnvelope) *time.Time { return firstTimePtr(f.UpdatedAt, f.Updated) }))

	normalized, err := normalizeFields(fields)
	if err != nil {
		return model.FormSchema{}, err
	}
	schema.Fields = normalized

	schema.Title = sanitizeText(schema.Title)
	schema.Description = sanitizeText(schema.Description)
	schema.Settings.ConfirmationMessage = sanitizeText(schema.Settings.ConfirmationMessage)
	return schema, nil
}

func normalizeFields(fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	seen := make(map[string]struct{}, len(fields))
	out := model.CloneFields(fields)
	if out == nil {
		out = []model.FieldDefinition{}
	}

	for i := range out {
		field := &out[i]
		if !field.Type.Valid() {
			return nil, importError("unsupported field type "+strconv.Quote(string(field.Type)), nil)
		}
		if field.ID == "" {
			field.ID = uuid.NewString()
		}
		if _, dup := seen[field.ID]; dup {
			return nil, importError("duplicate field id "+strconv.Quote(field.ID), nil)
		}
		seen[field.ID] = struct{}{}

		if field.ValidationRules == nil {
			field.ValidationRules = []model.ValidationRule{}
		}
		if field.ConditionalRules == nil {
			field.ConditionalRules = []model.ConditionalRule{}
		}
		if field.Type.IsChoice() && len(field.Options) == 0 {
			field.Options = model.DefaultOptions()
		}
		if !field.Type.IsChoice() {
			field.Options = nil
		}

		for j := range field.ConditionalRules {
			rule := &field.ConditionalRules[j]
			if !rule.Operator.Valid() {
				return nil, importError("unsupported conditional operator "+strconv.Quote(string(rule.Operator)), nil)
			}
			// Only show is implemented; older documents also carried
			// hide/require/disable.
			rule.Action = model.ActionShow
		}

		field.Label = sanitizeText(field.Label)
		field.Placeholder = sanitizeText(field.Placeholder)
		field.Description = sanitizeText(field.Description)
		for j := range field.Options {
			field.Options[j].Label = sanitizeText(field.Options[j].Label)
		}
		for j := range field.ValidationRules {
			field.ValidationRules[j].Message = sanitizeText(field.ValidationRules[j].Message)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}

func timePtr(ts time.Time) *time.Time {
	if ts.IsZero() {
		return nil
	}
	return &ts
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func firstTimePtr(values ...*time.Time) *time.Time {
	for _, value := range values {
		if value != nil && !value.IsZero() {
			return value
		}
	}
	return nil
}

func firstTime(values ...*time.Time) time.Time {
	if ptr := firstTimePtr(values...); ptr != nil {
		return *ptr
	}
	return time.Time{}
}

func wrappedString(form *importEnvelope, pick func(*importEnvelope) string) string {
	if form == nil {
		return ""
	}
	return pick(form)
}

func wrappedTime(form *importEnvelope, pick func(*importEnvelope) *time.Time) *time.Time {
	if form == nil {
		return nil
	}
	return pick(form)
}
