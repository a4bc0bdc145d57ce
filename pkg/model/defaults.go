package model

// DefaultField returns a field definition seeded with the defaults the
// builder palette applies for the given type. The id and order are left for
// the store to assign.
func DefaultField(fieldType FieldType) FieldDefinition {
	if !fieldType.Valid() {
		fieldType = FieldTypeText
	}

	field := FieldDefinition{
		Type:             fieldType,
		Label:            "New " + string(fieldType) + " field",
		Required:         false,
		ValidationRules:  []ValidationRule{},
		ConditionalRules: []ConditionalRule{},
	}

	switch fieldType {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		field.Options = DefaultOptions()
	case FieldTypeEmail:
		field.ValidationRules = []ValidationRule{
			{Kind: RuleEmailFormat, Message: "Please enter a valid email address"},
		}
	case FieldTypeNumber:
		field.DefaultValue = float64(0)
	case FieldTypeTextarea:
		field.Placeholder = "Enter your message here..."
	}

	return field
}

// DefaultOptions is the starter options list seeded onto choice fields so
// the non-empty-options invariant holds from creation.
func DefaultOptions() []Option {
	return []Option{
		{Label: "Option 1", Value: "option1"},
		{Label: "Option 2", Value: "option2"},
	}
}

// FieldTemplate pairs a field type with the display label the palette shows.
type FieldTemplate struct {
	Type  FieldType
	Label string
}

// FieldTemplates lists every field type available to the builder palette in
// display order.
func FieldTemplates() []FieldTemplate {
	return []FieldTemplate{
		{Type: FieldTypeText, Label: "Text Input"},
		{Type: FieldTypeTextarea, Label: "Text Area"},
		{Type: FieldTypeEmail, Label: "Email"},
		{Type: FieldTypeNumber, Label: "Number"},
		{Type: FieldTypeDate, Label: "Date"},
		{Type: FieldTypeSelect, Label: "Dropdown"},
		{Type: FieldTypeRadio, Label: "Radio Buttons"},
		{Type: FieldTypeCheckbox, Label: "Checkboxes"},
		{Type: FieldTypeFile, Label: "File Upload"},
		{Type: FieldTypePhone, Label: "Phone"},
		{Type: FieldTypeURL, Label: "URL"},
		{Type: FieldTypePassword, Label: "Password"},
	}
}
