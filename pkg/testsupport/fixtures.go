// Package testsupport provides shared fixtures for the engine's tests.
package testsupport

import (
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ContactFormFields returns a small field collection exercising the common
// field types, validation rules, and a conditional rule chain: the
// follow-up field is only visible when the contact channel is email.
func ContactFormFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{
			ID:       "name",
			Type:     model.FieldTypeText,
			Label:    "Full Name",
			Required: true,
			ValidationRules: []model.ValidationRule{
				{Kind: model.RuleMinLength, Parameter: "2", Message: "Name must be at least 2 characters"},
			},
			ConditionalRules: []model.ConditionalRule{},
			Order:            0,
		},
		{
			ID:       "channel",
			Type:     model.FieldTypeSelect,
			Label:    "Preferred Channel",
			Required: true,
			Options: []model.Option{
				{Label: "Email", Value: "email"},
				{Label: "Phone", Value: "phone"},
			},
			ValidationRules:  []model.ValidationRule{},
			ConditionalRules: []model.ConditionalRule{},
			Order:            1,
		},
		{
			ID:       "email",
			Type:     model.FieldTypeEmail,
			Label:    "Email Address",
			Required: true,
			ValidationRules: []model.ValidationRule{
				{Kind: model.RuleEmailFormat, Message: "Please enter a valid email address"},
			},
			ConditionalRules: []model.ConditionalRule{
				{TriggerFieldID: "channel", Operator: model.OperatorEquals, Value: "email", Action: model.ActionShow},
			},
			Order: 2,
		},
		{
			ID:       "topics",
			Type:     model.FieldTypeCheckbox,
			Label:    "Topics",
			Required: true,
			Options: []model.Option{
				{Label: "Billing", Value: "billing"},
				{Label: "Support", Value: "support"},
				{Label: "Sales", Value: "sales"},
			},
			ValidationRules:  []model.ValidationRule{},
			ConditionalRules: []model.ConditionalRule{},
			Order:            3,
		},
	}
}

// SampleSchema wraps ContactFormFields into a complete form schema with
// stable timestamps for comparison-friendly tests.
func SampleSchema() model.FormSchema {
	created := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	return model.FormSchema{
		ID:          "contact-form",
		Title:       "Contact Us",
		Description: "How can we help?",
		Fields:      ContactFormFields(),
		Settings:    model.DefaultSettings(),
		Created:     created,
		Updated:     created,
	}
}
