package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func newTestStore() *Store {
	counter := 0
	return New(
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("field-%d", counter)
		}),
		WithClock(func() time.Time {
			return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
		}),
	)
}

func TestAddFieldAssignsIDOrderAndSelection(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	first := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})
	second := s.AddField(model.FieldDefinition{Type: model.FieldTypeEmail})

	if first.ID != "field-1" || second.ID != "field-2" {
		t.Fatalf("unexpected ids: %q, %q", first.ID, second.ID)
	}
	if first.Order != 0 || second.Order != 1 {
		t.Fatalf("unexpected orders: %d, %d", first.Order, second.Order)
	}

	selected, ok := s.SelectedField()
	if !ok || selected.ID != second.ID {
		t.Fatalf("expected the latest field to be selected, got %+v ok=%v", selected, ok)
	}
}

func TestAddFieldFillsTypeDefaults(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	field := s.AddField(model.FieldDefinition{Type: model.FieldTypeSelect})

	if field.Label != "New select field" {
		t.Fatalf("unexpected label %q", field.Label)
	}
	if diff := cmp.Diff(model.DefaultOptions(), field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateFieldMergesPartialUpdate(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	field := s.AddField(model.FieldDefinition{Type: model.FieldTypeText, Label: "Original"})

	label := "Renamed"
	required := true
	if err := s.UpdateField(field.ID, FieldUpdate{Label: &label, Required: &required}); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}

	updated, ok := s.Field(field.ID)
	if !ok {
		t.Fatal("field disappeared after update")
	}
	if updated.Label != "Renamed" || !updated.Required {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Type != model.FieldTypeText {
		t.Fatalf("type changed unexpectedly: %s", updated.Type)
	}
}

func TestUpdateFieldUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	if err := s.UpdateField("missing", FieldUpdate{}); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestUpdateFieldSwitchToChoiceSeedsOptions(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	field := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	choice := model.FieldTypeRadio
	if err := s.UpdateField(field.ID, FieldUpdate{Type: &choice}); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}

	updated, _ := s.Field(field.ID)
	if len(updated.Options) == 0 {
		t.Fatal("expected starter options after switching to a choice type")
	}

	text := model.FieldTypeText
	if err := s.UpdateField(field.ID, FieldUpdate{Type: &text}); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}
	updated, _ = s.Field(field.ID)
	if updated.Options != nil {
		t.Fatalf("expected options cleared for non-choice type, got %+v", updated.Options)
	}
}

func TestDeleteFieldRenumbersAndClearsState(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})
	b := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})
	c := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	if err := s.SelectField(b.ID); err != nil {
		t.Fatalf("SelectField returned error: %v", err)
	}
	s.SetAnswer(b.ID, "hello")
	s.SetError(b.ID, "boom")

	if err := s.DeleteField(b.ID); err != nil {
		t.Fatalf("DeleteField returned error: %v", err)
	}

	fields := s.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	for i, field := range fields {
		if field.Order != i {
			t.Fatalf("field %d has order %d", i, field.Order)
		}
	}
	if fields[0].ID != a.ID || fields[1].ID != c.ID {
		t.Fatalf("unexpected field order: %s, %s", fields[0].ID, fields[1].ID)
	}

	if _, ok := s.SelectedField(); ok {
		t.Fatal("selection should be cleared when the selected field is deleted")
	}
	if _, ok := s.Answers()[b.ID]; ok {
		t.Fatal("answer for deleted field should be purged")
	}
	if _, ok := s.Errors()[b.ID]; ok {
		t.Fatal("error for deleted field should be purged")
	}
}

func TestDeleteFieldScrubsDanglingRules(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	trigger := s.AddField(model.FieldDefinition{Type: model.FieldTypeSelect})
	dependent := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	rules := []model.ConditionalRule{
		{TriggerFieldID: trigger.ID, Operator: model.OperatorEquals, Value: "yes", Action: model.ActionShow},
	}
	if err := s.UpdateField(dependent.ID, FieldUpdate{ConditionalRules: &rules}); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}

	if err := s.DeleteField(trigger.ID); err != nil {
		t.Fatalf("DeleteField returned error: %v", err)
	}

	remaining, _ := s.Field(dependent.ID)
	if len(remaining.ConditionalRules) != 0 {
		t.Fatalf("expected dangling rule to be dropped, got %+v", remaining.ConditionalRules)
	}
}

func TestReorderFieldMoveSemantics(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})
	b := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})
	c := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	if err := s.ReorderField(0, 2); err != nil {
		t.Fatalf("ReorderField returned error: %v", err)
	}
	if got := fieldIDs(s.Fields()); !equalStrings(got, []string{b.ID, c.ID, a.ID}) {
		t.Fatalf("unexpected order after move: %v", got)
	}

	if err := s.ReorderField(2, 0); err != nil {
		t.Fatalf("ReorderField returned error: %v", err)
	}
	if got := fieldIDs(s.Fields()); !equalStrings(got, []string{a.ID, b.ID, c.ID}) {
		t.Fatalf("round-trip move did not restore order: %v", got)
	}

	for i, field := range s.Fields() {
		if field.Order != i {
			t.Fatalf("field %d has order %d", i, field.Order)
		}
	}
}

func TestReorderFieldOutOfRange(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	if err := s.ReorderField(0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.ReorderField(-1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSelectFieldClearsWithEmptyID(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	if err := s.SelectField(""); err != nil {
		t.Fatalf("SelectField returned error: %v", err)
	}
	if _, ok := s.SelectedField(); ok {
		t.Fatal("expected no selection")
	}
	if err := s.SelectField("missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestLoadFormSortsAndRenumbers(t *testing.T) {
	t.Parallel()

	schema := testsupport.SampleSchema()
	schema.Fields[0].Order = 7
	schema.Fields[1].Order = 2
	schema.Fields[2].Order = 5
	schema.Fields[3].Order = 1

	s := newTestStore()
	s.LoadForm(schema)

	got := fieldIDs(s.Fields())
	want := []string{"topics", "channel", "email", "name"}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected order: got %v, want %v", got, want)
	}
	for i, field := range s.Fields() {
		if field.Order != i {
			t.Fatalf("field %d has order %d", i, field.Order)
		}
	}
}

func TestSaveFormStampsUpdated(t *testing.T) {
	t.Parallel()

	saved := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	clock := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	s := New(
		WithIDGenerator(func() string { return "form-1" }),
		WithClock(func() time.Time { return clock }),
	)

	s.CreateNewForm("Survey")
	s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	clock = saved
	schema, err := s.SaveForm()
	if err != nil {
		t.Fatalf("SaveForm returned error: %v", err)
	}
	if !schema.Updated.Equal(saved) {
		t.Fatalf("expected Updated %v, got %v", saved, schema.Updated)
	}
	if len(schema.Fields) != 1 {
		t.Fatalf("expected the field to be folded into the schema, got %d fields", len(schema.Fields))
	}
}

func TestSaveFormWithoutForm(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	if _, err := s.SaveForm(); !errors.Is(err, ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}

func TestSetAnswerClearsError(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	field := s.AddField(model.FieldDefinition{Type: model.FieldTypeText})

	s.SetError(field.ID, "Full Name is required")
	s.SetAnswer(field.ID, "Ada")

	if _, ok := s.Errors()[field.ID]; ok {
		t.Fatal("setting an answer should clear the field's error")
	}
	if got := s.Answers()[field.ID]; got != "Ada" {
		t.Fatalf("unexpected answer %v", got)
	}
}

func fieldIDs(fields []model.FieldDefinition) []string {
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
