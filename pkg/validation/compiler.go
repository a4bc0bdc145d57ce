// Package validation turns declarative per-field rules into validator
// functions. A validator checks type coercion first, then the required
// contract, then the field's rules in declaration order; the first failing
// rule supplies the single message surfaced for the field.
package validation

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Validator evaluates a single answer value. When ok is false, message
// carries the user-facing failure text.
type Validator func(value any) (message string, ok bool)

// Option customises a Compiler.
type Option func(*Compiler)

// WithLogger attaches a logger used to report invalid rule definitions,
// such as patterns that do not compile. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Compiler builds validators from field definitions.
type Compiler struct {
	logger zerolog.Logger
}

// NewCompiler constructs a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile produces a validator for the field. Regular expressions are
// compiled once here; a pattern that fails to compile is reported through
// the logger and its rule becomes a no-op so evaluation never panics.
func (c *Compiler) Compile(field model.FieldDefinition) Validator {
	compiled := c.compileRules(field)
	requiredMessage := requiredMessageFor(field)

	return func(value any) (string, bool) {
		if model.IsEmptyValue(value, field.Type) {
			if field.Required || hasRequiredRule(field) {
				return requiredMessage, false
			}
			return "", true
		}

		if message, ok := checkType(field.Type, value); !ok {
			return message, false
		}

		for _, rule := range compiled {
			if message, ok := rule.check(field, value); !ok {
				return message, false
			}
		}
		return "", true
	}
}

// Validate compiles and runs the field's validator in one step. Prefer
// Compile when validating the same field repeatedly.
func (c *Compiler) Validate(field model.FieldDefinition, value any) (string, bool) {
	return c.Compile(field)(value)
}

type compiledRule struct {
	rule    model.ValidationRule
	pattern *regexp.Regexp
	inert   bool
}

func (c *Compiler) compileRules(field model.FieldDefinition) []compiledRule {
	if len(field.ValidationRules) == 0 {
		return nil
	}
	out := make([]compiledRule, 0, len(field.ValidationRules))
	for _, rule := range field.ValidationRules {
		entry := compiledRule{rule: rule}
		if rule.Kind == model.RulePattern {
			pattern, err := regexp.Compile(rule.Parameter)
			if err != nil {
				c.logger.Warn().
					Str("field", field.ID).
					Str("pattern", rule.Parameter).
					Err(err).
					Msg("invalid pattern rule; rule disabled")
				entry.inert = true
			} else {
				entry.pattern = pattern
			}
		}
		out = append(out, entry)
	}
	return out
}

// check evaluates one compiled rule against a non-empty value.
func (r compiledRule) check(field model.FieldDefinition, value any) (string, bool) {
	rule := r.rule
	switch rule.Kind {
	case model.RuleRequired:
		// Non-empty value, satisfied by definition.
		return "", true
	case model.RuleMinLength:
		limit, ok := rule.NumericParameter()
		if !ok {
			return "", true
		}
		if float64(valueLength(value)) < limit {
			return messageOr(rule, "Must be at least "+rule.Parameter+" characters"), false
		}
	case model.RuleMaxLength:
		limit, ok := rule.NumericParameter()
		if !ok {
			return "", true
		}
		if float64(valueLength(value)) > limit {
			return messageOr(rule, "Must be no more than "+rule.Parameter+" characters"), false
		}
	case model.RuleEmailFormat:
		if !validEmail(model.StringValue(value)) {
			return messageOr(rule, "Please enter a valid email address"), false
		}
	case model.RulePattern:
		if r.inert || r.pattern == nil {
			return "", true
		}
		if !r.pattern.MatchString(model.StringValue(value)) {
			return messageOr(rule, "Invalid format"), false
		}
	case model.RuleMin:
		if field.Type != model.FieldTypeNumber {
			return "", true
		}
		limit, ok := rule.NumericParameter()
		if !ok {
			return "", true
		}
		if number, ok := model.NumberValue(value); ok && number < limit {
			return messageOr(rule, "Must be at least "+rule.Parameter), false
		}
	case model.RuleMax:
		if field.Type != model.FieldTypeNumber {
			return "", true
		}
		limit, ok := rule.NumericParameter()
		if !ok {
			return "", true
		}
		if number, ok := model.NumberValue(value); ok && number > limit {
			return messageOr(rule, "Must be no more than "+rule.Parameter), false
		}
	}
	// Unknown kinds pass so older documents keep evaluating.
	return "", true
}

func checkType(fieldType model.FieldType, value any) (string, bool) {
	switch fieldType {
	case model.FieldTypeNumber:
		if _, ok := model.NumberValue(value); !ok {
			return "Please enter a valid number", false
		}
	case model.FieldTypeDate:
		if !validDate(value) {
			return "Please enter a valid date", false
		}
	case model.FieldTypeEmail:
		if !validEmail(model.StringValue(value)) {
			return "Please enter a valid email address", false
		}
	case model.FieldTypePhone:
		if !phonePattern.MatchString(strings.TrimSpace(model.StringValue(value))) {
			return "Invalid phone number format", false
		}
	case model.FieldTypeURL:
		if !validURL(model.StringValue(value)) {
			return "Invalid URL format", false
		}
	}
	return "", true
}

var phonePattern = regexp.MustCompile(`^[+]?[1-9][\d]{0,15}$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"01/02/2006",
}

func validDate(value any) bool {
	if _, ok := value.(time.Time); ok {
		return true
	}
	text := strings.TrimSpace(model.StringValue(value))
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, text); err == nil {
			return true
		}
	}
	return false
}

func validEmail(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	// Reject display-name forms; the answer must be a bare address.
	return addr.Address == trimmed
}

func validURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func valueLength(value any) int {
	if entries, ok := model.SliceValue(value); ok {
		return len(entries)
	}
	return utf8.RuneCountInString(model.StringValue(value))
}

func messageOr(rule model.ValidationRule, fallback string) string {
	if strings.TrimSpace(rule.Message) != "" {
		return rule.Message
	}
	return fallback
}

func requiredMessageFor(field model.FieldDefinition) string {
	for _, rule := range field.ValidationRules {
		if rule.Kind == model.RuleRequired && strings.TrimSpace(rule.Message) != "" {
			return rule.Message
		}
	}
	return field.Label + " is required"
}

func hasRequiredRule(field model.FieldDefinition) bool {
	for _, rule := range field.ValidationRules {
		if rule.Kind == model.RuleRequired {
			return true
		}
	}
	return false
}
