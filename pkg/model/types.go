package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FieldType enumerates the supported input kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
	FieldTypePhone    FieldType = "phone"
	FieldTypeURL      FieldType = "url"
	FieldTypePassword FieldType = "password"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeEmail, FieldTypeNumber,
		FieldTypeDate, FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox,
		FieldTypeFile, FieldTypePhone, FieldTypeURL, FieldTypePassword:
		return true
	}
	return false
}

// IsChoice reports whether the type carries an options list.
func (t FieldType) IsChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio || t == FieldTypeCheckbox
}

// Canonical validation rule kinds. Thresholds and patterns are carried as
// strings in ValidationRule.Parameter to keep JSON snapshots stable; use
// NumericParameter for the numeric kinds.
const (
	RuleRequired    = "required"
	RuleMinLength   = "minLength"
	RuleMaxLength   = "maxLength"
	RuleEmailFormat = "emailFormat"
	RulePattern     = "pattern"
	RuleMin         = "min"
	RuleMax         = "max"
)

// ValidationRule is a single declarative constraint attached to a field.
// Rules are evaluated in declaration order; the first failing rule supplies
// the message surfaced to the user.
type ValidationRule struct {
	Kind      string `json:"kind"`
	Parameter string `json:"parameter,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NumericParameter parses the rule parameter as a number. The second return
// is false when the parameter is absent or not numeric.
func (r ValidationRule) NumericParameter() (float64, bool) {
	if r.Parameter == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(r.Parameter, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// UnmarshalJSON accepts both the canonical shape and the legacy export shape
// where the kind was carried under "type" and the parameter under "value",
// possibly as a JSON number.
func (r *ValidationRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind       string          `json:"kind"`
		LegacyKind string          `json:"type"`
		Parameter  json.RawMessage `json:"parameter"`
		Value      json.RawMessage `json:"value"`
		Message    string          `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Kind = raw.Kind
	if r.Kind == "" {
		r.Kind = raw.LegacyKind
	}
	r.Message = raw.Message

	param := raw.Parameter
	if len(param) == 0 {
		param = raw.Value
	}
	if len(param) == 0 || string(param) == "null" {
		r.Parameter = ""
		return nil
	}

	var asString string
	if err := json.Unmarshal(param, &asString); err == nil {
		r.Parameter = asString
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(param, &asNumber); err == nil {
		r.Parameter = strconv.FormatFloat(asNumber, 'f', -1, 64)
		return nil
	}
	return fmt.Errorf("model: validation rule parameter must be a string or number")
}

// Operator enumerates the comparisons available to conditional rules.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorNotEmpty    Operator = "not_empty"
	OperatorEmpty       Operator = "empty"
)

// Valid reports whether op is part of the supported operator set.
func (op Operator) Valid() bool {
	switch op {
	case OperatorEquals, OperatorNotEquals, OperatorContains,
		OperatorGreaterThan, OperatorLessThan, OperatorNotEmpty, OperatorEmpty:
		return true
	}
	return false
}

// ActionShow is the only conditional action the engine implements. The value
// is kept on the rule so exported documents stay compatible with older
// builders that also modelled hide/require/disable.
const ActionShow = "show"

// ConditionalRule gates a field's visibility on another field's answer.
type ConditionalRule struct {
	TriggerFieldID string   `json:"triggerFieldId"`
	Operator       Operator `json:"operator"`
	Value          any      `json:"value,omitempty"`
	Action         string   `json:"action,omitempty"`
}

// UnmarshalJSON accepts "fieldId" as a legacy alias for "triggerFieldId".
func (r *ConditionalRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		TriggerFieldID string   `json:"triggerFieldId"`
		LegacyFieldID  string   `json:"fieldId"`
		Operator       Operator `json:"operator"`
		Value          any      `json:"value"`
		Action         string   `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.TriggerFieldID = raw.TriggerFieldID
	if r.TriggerFieldID == "" {
		r.TriggerFieldID = raw.LegacyFieldID
	}
	r.Operator = raw.Operator
	r.Value = raw.Value
	r.Action = raw.Action
	return nil
}

// Option is a single entry in a choice field's options list.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldDefinition describes one form input: its type, user-facing copy,
// validation rules, visibility rules, and position inside the collection.
type FieldDefinition struct {
	ID               string            `json:"id"`
	Type             FieldType         `json:"type"`
	Label            string            `json:"label"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Description      string            `json:"description,omitempty"`
	Required         bool              `json:"required"`
	Options          []Option          `json:"options,omitempty"`
	ValidationRules  []ValidationRule  `json:"validationRules"`
	ConditionalRules []ConditionalRule `json:"conditionalRules"`
	Order            int               `json:"order"`
	DefaultValue     any               `json:"defaultValue,omitempty"`
}

// Clone returns a deep copy of the field definition.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.ValidationRules != nil {
		out.ValidationRules = append([]ValidationRule(nil), f.ValidationRules...)
	}
	if f.ConditionalRules != nil {
		out.ConditionalRules = append([]ConditionalRule(nil), f.ConditionalRules...)
	}
	return out
}

// CloneFields deep-copies a field collection preserving order.
func CloneFields(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	out := make([]FieldDefinition, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Clone())
	}
	return out
}

// FormSettings carries the per-form behaviour flags.
type FormSettings struct {
	AllowMultipleSubmissions bool   `json:"allowMultipleSubmissions"`
	ShowProgressBar          bool   `json:"showProgressBar"`
	ConfirmationMessage      string `json:"confirmationMessage,omitempty"`
	RedirectURL              string `json:"redirectUrl,omitempty"`
	PersistLocally           bool   `json:"persistLocally"`
}

// DefaultSettings returns the settings applied to a freshly created form.
func DefaultSettings() FormSettings {
	return FormSettings{
		AllowMultipleSubmissions: true,
		ShowProgressBar:          false,
		ConfirmationMessage:      "Thank you for your submission!",
		PersistLocally:           true,
	}
}

// FormSchema is the persisted, ordered description of a form.
type FormSchema struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
	Settings    FormSettings      `json:"settings"`
	Created     time.Time         `json:"createdAt"`
	Updated     time.Time         `json:"updatedAt"`
}

// Clone returns a deep copy of the schema.
func (s FormSchema) Clone() FormSchema {
	out := s
	out.Fields = CloneFields(s.Fields)
	return out
}
