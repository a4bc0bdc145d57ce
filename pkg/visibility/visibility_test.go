package visibility

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func conditionalField(rules ...model.ConditionalRule) model.FieldDefinition {
	return model.FieldDefinition{
		ID:               "dependent",
		Type:             model.FieldTypeText,
		Label:            "Dependent",
		ConditionalRules: rules,
	}
}

func triggerFields(triggerType model.FieldType) []model.FieldDefinition {
	return []model.FieldDefinition{
		{ID: "trigger", Type: triggerType, Label: "Trigger"},
	}
}

func TestNoRulesAlwaysVisible(t *testing.T) {
	t.Parallel()

	field := conditionalField()
	if !New().IsVisible(field, model.AnswerMap{}, nil) {
		t.Fatal("a field with no conditional rules must be visible")
	}
}

func TestEqualsOperator(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorEquals,
		Value:          "email",
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeSelect), field)
	e := New()

	if !e.IsVisible(field, model.AnswerMap{"trigger": "email"}, fields) {
		t.Fatal("expected visible when the answer matches")
	}
	if e.IsVisible(field, model.AnswerMap{"trigger": "phone"}, fields) {
		t.Fatal("expected hidden when the answer differs")
	}
	if e.IsVisible(field, model.AnswerMap{}, fields) {
		t.Fatal("a missing answer compares as empty string and must not match")
	}
}

func TestEqualsComparesNumerically(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorEquals,
		Value:          float64(10),
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeNumber), field)

	if !New().IsVisible(field, model.AnswerMap{"trigger": "10"}, fields) {
		t.Fatal("a numeric string answer should equal the numeric rule value")
	}
}

func TestGreaterThanOperator(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorGreaterThan,
		Value:          float64(10),
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeNumber), field)
	e := New()

	if !e.IsVisible(field, model.AnswerMap{"trigger": float64(15)}, fields) {
		t.Fatal("15 > 10 should show the field")
	}
	if e.IsVisible(field, model.AnswerMap{"trigger": float64(5)}, fields) {
		t.Fatal("5 > 10 should hide the field")
	}
	if e.IsVisible(field, model.AnswerMap{}, fields) {
		t.Fatal("a missing answer cannot satisfy a numeric comparison")
	}
	if e.IsVisible(field, model.AnswerMap{"trigger": "abc"}, fields) {
		t.Fatal("a non-numeric answer cannot satisfy a numeric comparison")
	}
}

func TestLessThanOperator(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorLessThan,
		Value:          "10",
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeNumber), field)
	e := New()

	if !e.IsVisible(field, model.AnswerMap{"trigger": "5"}, fields) {
		t.Fatal("5 < 10 should show the field")
	}
	if e.IsVisible(field, model.AnswerMap{"trigger": "15"}, fields) {
		t.Fatal("15 < 10 should hide the field")
	}
}

func TestContainsOperator(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorContains,
		Value:          "billing",
		Action:         model.ActionShow,
	})
	e := New()

	checkbox := append(triggerFields(model.FieldTypeCheckbox), field)
	if !e.IsVisible(field, model.AnswerMap{"trigger": []string{"billing", "sales"}}, checkbox) {
		t.Fatal("slice membership should satisfy contains")
	}
	if e.IsVisible(field, model.AnswerMap{"trigger": []string{"sales"}}, checkbox) {
		t.Fatal("absent member should not satisfy contains")
	}

	text := append(triggerFields(model.FieldTypeText), field)
	if !e.IsVisible(field, model.AnswerMap{"trigger": "ask billing team"}, text) {
		t.Fatal("substring should satisfy contains for textual answers")
	}
}

func TestEmptyAndNotEmptyOperators(t *testing.T) {
	t.Parallel()

	notEmpty := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorNotEmpty,
		Action:         model.ActionShow,
	})
	empty := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.OperatorEmpty,
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeCheckbox), notEmpty, empty)
	e := New()

	if e.IsVisible(notEmpty, model.AnswerMap{"trigger": []string{}}, fields) {
		t.Fatal("empty selection should not satisfy not_empty")
	}
	if !e.IsVisible(notEmpty, model.AnswerMap{"trigger": []string{"a"}}, fields) {
		t.Fatal("selection should satisfy not_empty")
	}
	if !e.IsVisible(empty, model.AnswerMap{"trigger": []string{}}, fields) {
		t.Fatal("empty selection should satisfy empty")
	}
}

func TestDanglingTriggerIsSatisfied(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "ghost",
		Operator:       model.OperatorEquals,
		Value:          "x",
		Action:         model.ActionShow,
	})

	if !New().IsVisible(field, model.AnswerMap{}, []model.FieldDefinition{field}) {
		t.Fatal("a rule whose trigger no longer exists must not hide the field")
	}
}

func TestUnknownOperatorIsSatisfied(t *testing.T) {
	t.Parallel()

	field := conditionalField(model.ConditionalRule{
		TriggerFieldID: "trigger",
		Operator:       model.Operator("matches_regex"),
		Value:          "x",
		Action:         model.ActionShow,
	})
	fields := append(triggerFields(model.FieldTypeText), field)

	if !New().IsVisible(field, model.AnswerMap{}, fields) {
		t.Fatal("unknown operators must count as satisfied")
	}
}

func TestAllRulesMustHold(t *testing.T) {
	t.Parallel()

	field := conditionalField(
		model.ConditionalRule{TriggerFieldID: "trigger", Operator: model.OperatorNotEmpty, Action: model.ActionShow},
		model.ConditionalRule{TriggerFieldID: "trigger", Operator: model.OperatorEquals, Value: "yes", Action: model.ActionShow},
	)
	fields := append(triggerFields(model.FieldTypeText), field)
	e := New()

	if e.IsVisible(field, model.AnswerMap{"trigger": "no"}, fields) {
		t.Fatal("one failing rule should hide the field")
	}
	if !e.IsVisible(field, model.AnswerMap{"trigger": "yes"}, fields) {
		t.Fatal("all rules holding should show the field")
	}
}
