// Package openapi imports field definitions from an OpenAPI 3 document so
// existing API schemas can seed a form instead of starting from a blank
// palette. Only the JSON request body of a single operation is considered;
// nested objects are skipped because the engine models flat forms.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Extension key that forces a specific engine field type on a property,
// e.g. `x-formbuilder-type: phone`.
const fieldTypeExtensionKey = "x-formbuilder-type"

// ImportOperation extracts the request-body fields of the operation with
// the given id as a field collection ready for the store. Properties are
// emitted in name order so repeated imports are deterministic.
func ImportOperation(ctx context.Context, data []byte, operationID string) ([]model.FieldDefinition, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi import: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi import: document does not contain any paths")
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi import: operation %q not found", operationID)
	}

	schema := requestBodySchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("openapi import: operation %q has no JSON request body", operationID)
	}
	if schema.Type != nil && !schema.Type.Is("object") {
		return nil, fmt.Errorf("openapi import: operation %q request body is not an object", operationID)
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.FieldDefinition, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := mapProperty(name, ref.Value)
		if !ok {
			continue
		}
		_, field.Required = required[name]
		field.Order = len(fields)
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("openapi import: operation %q yielded no usable fields", operationID)
	}
	return fields, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func mapProperty(name string, src *openapi3.Schema) (model.FieldDefinition, bool) {
	fieldType, options, ok := resolveType(src)
	if !ok {
		return model.FieldDefinition{}, false
	}

	field := model.DefaultField(fieldType)
	field.Label = labelFor(name, src.Title)
	field.Description = strings.TrimSpace(src.Description)
	field.Options = options
	field.ValidationRules = constraintRules(fieldType, src)
	field.ConditionalRules = []model.ConditionalRule{}
	if src.Default != nil {
		field.DefaultValue = src.Default
	}
	return field, true
}

func resolveType(src *openapi3.Schema) (model.FieldType, []model.Option, bool) {
	if forced, ok := forcedType(src); ok {
		options := enumOptions(src.Enum)
		if forced.IsChoice() && len(options) == 0 {
			options = model.DefaultOptions()
		}
		return forced, options, true
	}

	switch schemaType(src) {
	case "string":
		if options := enumOptions(src.Enum); len(options) > 0 {
			return model.FieldTypeSelect, options, true
		}
		switch src.Format {
		case "email":
			return model.FieldTypeEmail, nil, true
		case "date", "date-time":
			return model.FieldTypeDate, nil, true
		case "password":
			return model.FieldTypePassword, nil, true
		case "uri", "url":
			return model.FieldTypeURL, nil, true
		case "binary":
			return model.FieldTypeFile, nil, true
		case "phone", "tel":
			return model.FieldTypePhone, nil, true
		case "textarea":
			return model.FieldTypeTextarea, nil, true
		default:
			return model.FieldTypeText, nil, true
		}
	case "integer", "number":
		return model.FieldTypeNumber, nil, true
	case "boolean":
		return model.FieldTypeRadio, []model.Option{
			{Label: "Yes", Value: "true"},
			{Label: "No", Value: "false"},
		}, true
	case "array":
		if src.Items != nil && src.Items.Value != nil {
			if options := enumOptions(src.Items.Value.Enum); len(options) > 0 {
				return model.FieldTypeCheckbox, options, true
			}
		}
		return model.FieldTypeText, nil, false
	default:
		// Nested objects and unknown types do not map onto a flat form.
		return model.FieldTypeText, nil, false
	}
}

func forcedType(src *openapi3.Schema) (model.FieldType, bool) {
	raw, ok := src.Extensions[fieldTypeExtensionKey]
	if !ok {
		return "", false
	}
	name, ok := raw.(string)
	if !ok {
		return "", false
	}
	forced := model.FieldType(strings.TrimSpace(name))
	if !forced.Valid() {
		return "", false
	}
	return forced, true
}

func constraintRules(fieldType model.FieldType, src *openapi3.Schema) []model.ValidationRule {
	rules := []model.ValidationRule{}

	if fieldType == model.FieldTypeNumber {
		if src.Min != nil {
			rules = append(rules, model.ValidationRule{
				Kind:      model.RuleMin,
				Parameter: formatFloat(*src.Min),
			})
		}
		if src.Max != nil {
			rules = append(rules, model.ValidationRule{
				Kind:      model.RuleMax,
				Parameter: formatFloat(*src.Max),
			})
		}
		return rules
	}

	if src.MinLength > 0 {
		rules = append(rules, model.ValidationRule{
			Kind:      model.RuleMinLength,
			Parameter: strconv.FormatUint(src.MinLength, 10),
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, model.ValidationRule{
			Kind:      model.RuleMaxLength,
			Parameter: strconv.FormatUint(*src.MaxLength, 10),
		})
	}
	if src.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:      model.RulePattern,
			Parameter: src.Pattern,
		})
	}
	if src.Format == "email" {
		rules = append(rules, model.ValidationRule{
			Kind:    model.RuleEmailFormat,
			Message: "Please enter a valid email address",
		})
	}
	return rules
}

func enumOptions(enum []any) []model.Option {
	if len(enum) == 0 {
		return nil
	}
	options := make([]model.Option, 0, len(enum))
	for _, entry := range enum {
		value := model.StringValue(entry)
		if value == "" {
			continue
		}
		options = append(options, model.Option{Label: labelFor(value, ""), Value: value})
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// labelFor derives a display label from a property name, preferring the
// schema title when present: "first_name" becomes "First name".
func labelFor(name, title string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(strings.TrimSpace(name))
	if cleaned == "" {
		return name
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
