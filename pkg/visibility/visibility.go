// Package visibility decides which fields are live given the current
// answers. A field with no conditional rules is always visible; otherwise
// every rule must hold (logical AND). Evaluation is deliberately permissive:
// unknown operators and trigger ids that no longer resolve count as
// satisfied, and numeric coercion failures make comparisons false rather
// than raising errors.
package visibility

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Evaluator evaluates conditional visibility rules.
type Evaluator struct{}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// IsVisible reports whether the field should currently be shown. The full
// field collection is needed to resolve trigger references and their types.
func (e *Evaluator) IsVisible(field model.FieldDefinition, answers model.AnswerMap, allFields []model.FieldDefinition) bool {
	if len(field.ConditionalRules) == 0 {
		return true
	}
	for _, rule := range field.ConditionalRules {
		if !e.ruleHolds(rule, answers, allFields) {
			return false
		}
	}
	return true
}

func (e *Evaluator) ruleHolds(rule model.ConditionalRule, answers model.AnswerMap, allFields []model.FieldDefinition) bool {
	trigger, ok := findField(allFields, rule.TriggerFieldID)
	if !ok {
		// Stale reference after a deletion; treat as no constraint.
		return true
	}

	answer, ok := answers[rule.TriggerFieldID]
	if !ok {
		answer = ""
	}

	switch rule.Operator {
	case model.OperatorEquals:
		return equalValues(answer, rule.Value)
	case model.OperatorNotEquals:
		return !equalValues(answer, rule.Value)
	case model.OperatorContains:
		return containsValue(answer, rule.Value)
	case model.OperatorGreaterThan:
		left, leftOK := model.NumberValue(answer)
		right, rightOK := model.NumberValue(rule.Value)
		return leftOK && rightOK && left > right
	case model.OperatorLessThan:
		left, leftOK := model.NumberValue(answer)
		right, rightOK := model.NumberValue(rule.Value)
		return leftOK && rightOK && left < right
	case model.OperatorNotEmpty:
		return !model.IsEmptyValue(answer, trigger.Type)
	case model.OperatorEmpty:
		return model.IsEmptyValue(answer, trigger.Type)
	default:
		// Unknown operators are satisfied so older documents keep working.
		return true
	}
}

// equalValues compares an answer against a rule's comparison value. Values
// that both coerce to numbers compare numerically (JSON round-trips turn
// numbers into float64); booleans compare as booleans; everything else
// compares by textual form.
func equalValues(answer, comparison any) bool {
	if left, ok := model.NumberValue(answer); ok {
		if right, ok := model.NumberValue(comparison); ok {
			return left == right
		}
	}
	if left, ok := answer.(bool); ok {
		if right, ok := comparison.(bool); ok {
			return left == right
		}
	}
	return model.StringValue(answer) == model.StringValue(comparison)
}

// containsValue is an array-membership test for collection answers and a
// substring test for textual ones.
func containsValue(answer, comparison any) bool {
	needle := model.StringValue(comparison)
	if entries, ok := model.SliceValue(answer); ok {
		for _, entry := range entries {
			if entry == needle {
				return true
			}
		}
		return false
	}
	return strings.Contains(model.StringValue(answer), needle)
}

func findField(fields []model.FieldDefinition, id string) (model.FieldDefinition, bool) {
	if id == "" {
		return model.FieldDefinition{}, false
	}
	for _, field := range fields {
		if field.ID == id {
			return field, true
		}
	}
	return model.FieldDefinition{}, false
}
