// Package store owns the ordered field collection behind a form being
// built: add/update/delete/reorder/select plus the form lifecycle. Every
// public operation is guarded by a single mutex so the store can be shared
// with a multi-threaded host; invariants (unique ids, contiguous order)
// hold after each call returns.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Store holds the form under construction, its ordered fields, the editor
// selection, and the transient preview answers and errors.
type Store struct {
	mu sync.Mutex

	form     *model.FormSchema
	fields   []model.FieldDefinition
	selected string

	answers model.AnswerMap
	errors  map[string]string

	newID  func() string
	now    func() time.Time
	logger zerolog.Logger
}

// New constructs an empty store. Use CreateNewForm or LoadForm to attach a
// schema; fields can be managed without one.
func New(opts ...Option) *Store {
	s := &Store{
		answers: model.AnswerMap{},
		errors:  map[string]string{},
		newID:   uuid.NewString,
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FieldUpdate is a partial update applied by UpdateField. Nil members leave
// the existing value untouched.
type FieldUpdate struct {
	Type             *model.FieldType
	Label            *string
	Placeholder      *string
	Description      *string
	Required         *bool
	Options          *[]model.Option
	ValidationRules  *[]model.ValidationRule
	ConditionalRules *[]model.ConditionalRule
	DefaultValue     *any
}

// AddField appends a new field to the collection. Missing attributes are
// filled from the per-type defaults, a fresh id is assigned, and the field
// becomes the current selection. AddField never fails.
func (s *Store) AddField(partial model.FieldDefinition) model.FieldDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()

	field := partial.Clone()
	if !field.Type.Valid() {
		field.Type = model.FieldTypeText
	}
	defaults := model.DefaultField(field.Type)
	if field.Label == "" {
		field.Label = defaults.Label
	}
	if field.Placeholder == "" {
		field.Placeholder = defaults.Placeholder
	}
	if field.ValidationRules == nil {
		field.ValidationRules = defaults.ValidationRules
	}
	if field.ConditionalRules == nil {
		field.ConditionalRules = defaults.ConditionalRules
	}
	if field.Type.IsChoice() && len(field.Options) == 0 {
		field.Options = model.DefaultOptions()
	}
	if field.DefaultValue == nil {
		field.DefaultValue = defaults.DefaultValue
	}

	field.ID = s.newID()
	field.Order = len(s.fields)
	s.fields = append(s.fields, field)
	s.selected = field.ID

	s.logger.Debug().Str("field", field.ID).Str("type", string(field.Type)).Msg("field added")
	return field.Clone()
}

// UpdateField merges the partial update into the field with the given id.
// Unknown ids fail with ErrFieldNotFound. Switching a field to a choice type
// without supplying options seeds the starter options so the non-empty
// options invariant holds.
func (s *Store) UpdateField(id string, update FieldUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrFieldNotFound
	}

	field := &s.fields[idx]
	if update.Type != nil && update.Type.Valid() {
		field.Type = *update.Type
	}
	if update.Label != nil {
		field.Label = *update.Label
	}
	if update.Placeholder != nil {
		field.Placeholder = *update.Placeholder
	}
	if update.Description != nil {
		field.Description = *update.Description
	}
	if update.Required != nil {
		field.Required = *update.Required
	}
	if update.Options != nil {
		field.Options = append([]model.Option(nil), (*update.Options)...)
	}
	if update.ValidationRules != nil {
		field.ValidationRules = append([]model.ValidationRule(nil), (*update.ValidationRules)...)
	}
	if update.ConditionalRules != nil {
		field.ConditionalRules = append([]model.ConditionalRule(nil), (*update.ConditionalRules)...)
	}
	if update.DefaultValue != nil {
		field.DefaultValue = *update.DefaultValue
	}
	if field.Type.IsChoice() && len(field.Options) == 0 {
		field.Options = model.DefaultOptions()
	}
	if !field.Type.IsChoice() {
		field.Options = nil
	}
	return nil
}

// DeleteField removes the field, renumbers the remaining fields to stay
// contiguous from zero, clears the selection if it pointed at the deleted
// field, purges its answer and error entries, and drops conditional rules
// on other fields whose trigger no longer resolves.
func (s *Store) DeleteField(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrFieldNotFound
	}

	s.fields = append(s.fields[:idx], s.fields[idx+1:]...)
	s.renumber()

	if s.selected == id {
		s.selected = ""
	}
	delete(s.answers, id)
	delete(s.errors, id)

	scrubbed := s.scrubDanglingRules()
	if scrubbed > 0 {
		s.logger.Debug().Str("field", id).Int("rules", scrubbed).Msg("dropped dangling conditional rules")
	}
	return nil
}

// ReorderField moves the field at fromIndex to toIndex using array move
// semantics (remove then reinsert, not a swap) and recomputes every order
// value. Out-of-range indices fail with ErrIndexOutOfRange.
func (s *Store) ReorderField(fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 0 || fromIndex >= len(s.fields) || toIndex < 0 || toIndex >= len(s.fields) {
		return ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	moved := s.fields[fromIndex]
	s.fields = append(s.fields[:fromIndex], s.fields[fromIndex+1:]...)

	rest := append([]model.FieldDefinition(nil), s.fields[toIndex:]...)
	s.fields = append(s.fields[:toIndex], moved)
	s.fields = append(s.fields, rest...)
	s.renumber()
	return nil
}

// SelectField sets the currently-edited field. An empty id clears the
// selection; unknown ids fail with ErrFieldNotFound.
func (s *Store) SelectField(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.selected = ""
		return nil
	}
	if s.indexOf(id) < 0 {
		return ErrFieldNotFound
	}
	s.selected = id
	return nil
}

// SelectedField returns the current selection, if any.
func (s *Store) SelectedField() (model.FieldDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.selected)
	if idx < 0 {
		return model.FieldDefinition{}, false
	}
	return s.fields[idx].Clone(), true
}

// Field looks up a single field by id.
func (s *Store) Field(id string) (model.FieldDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.FieldDefinition{}, false
	}
	return s.fields[idx].Clone(), true
}

// Fields returns a deep copy of the collection in order.
func (s *Store) Fields() []model.FieldDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneFields(s.fields)
}

// Len returns the number of fields.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fields)
}

// CreateNewForm starts a fresh editing session: a new schema with default
// settings, no fields, and cleared preview state.
func (s *Store) CreateNewForm(title string) model.FormSchema {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	form := model.FormSchema{
		ID:       s.newID(),
		Title:    title,
		Fields:   []model.FieldDefinition{},
		Settings: model.DefaultSettings(),
		Created:  now,
		Updated:  now,
	}
	s.form = &form
	s.fields = nil
	s.selected = ""
	s.answers = model.AnswerMap{}
	s.errors = map[string]string{}
	return form.Clone()
}

// LoadForm replaces the current session with the given schema. Fields are
// sorted by their order value and renumbered contiguously; selection and
// preview state are reset.
func (s *Store) LoadForm(schema model.FormSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := schema.Clone()
	s.fields = form.Fields
	sort.SliceStable(s.fields, func(i, j int) bool {
		return s.fields[i].Order < s.fields[j].Order
	})
	s.renumber()
	form.Fields = nil
	s.form = &form
	s.selected = ""
	s.answers = model.AnswerMap{}
	s.errors = map[string]string{}
}

// SaveForm stamps the updated timestamp, folds the current fields into the
// schema, and returns a snapshot. Persisting the snapshot is the caller's
// concern; the store never touches storage.
func (s *Store) SaveForm() (model.FormSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return model.FormSchema{}, ErrNoForm
	}
	s.form.Fields = model.CloneFields(s.fields)
	s.form.Updated = s.now()
	return s.form.Clone(), nil
}

// Form returns a snapshot of the current schema including fields.
func (s *Store) Form() (model.FormSchema, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return model.FormSchema{}, false
	}
	snapshot := s.form.Clone()
	snapshot.Fields = model.CloneFields(s.fields)
	return snapshot, true
}

// SetAnswer records a preview answer and clears any error for that field,
// mirroring the as-you-type behaviour of the builder preview.
func (s *Store) SetAnswer(fieldID string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[fieldID] = value
	delete(s.errors, fieldID)
}

// Answers returns a copy of the preview answer map.
func (s *Store) Answers() model.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// SetError records a preview validation message for a field.
func (s *Store) SetError(fieldID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[fieldID] = message
}

// Errors returns a copy of the preview error map.
func (s *Store) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for id, message := range s.errors {
		out[id] = message
	}
	return out
}

// ClearErrors drops all preview validation messages.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = map[string]string{}
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.fields {
		if s.fields[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) renumber() {
	for i := range s.fields {
		s.fields[i].Order = i
	}
}

func (s *Store) scrubDanglingRules() int {
	known := make(map[string]struct{}, len(s.fields))
	for i := range s.fields {
		known[s.fields[i].ID] = struct{}{}
	}

	scrubbed := 0
	for i := range s.fields {
		rules := s.fields[i].ConditionalRules
		if len(rules) == 0 {
			continue
		}
		kept := rules[:0]
		for _, rule := range rules {
			if _, ok := known[rule.TriggerFieldID]; ok {
				kept = append(kept, rule)
			} else {
				scrubbed++
			}
		}
		s.fields[i].ConditionalRules = kept
	}
	return scrubbed
}
