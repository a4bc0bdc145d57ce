// Package form composes the visibility evaluator and the validation
// compiler into a single pass over a field collection: given the current
// answers it computes the visible-field subset and the validation errors
// for exactly that subset. The evaluator keeps no state, so it is safe to
// run on every answer change for live feedback and once more at submit
// time as the authoritative gate.
package form

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Evaluation is the result of one evaluation pass.
type Evaluation struct {
	VisibleFieldIDs map[string]struct{}
	Errors          map[string]string
}

// Visible reports whether the field id was visible during the pass.
func (e Evaluation) Visible(fieldID string) bool {
	_, ok := e.VisibleFieldIDs[fieldID]
	return ok
}

// Valid reports whether no visible field failed validation.
func (e Evaluation) Valid() bool {
	return len(e.Errors) == 0
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithLogger propagates a logger to the validation compiler.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.compiler = validation.NewCompiler(validation.WithLogger(logger))
	}
}

// Evaluator runs visibility and validation over a field collection.
type Evaluator struct {
	compiler   *validation.Compiler
	visibility *visibility.Evaluator
}

// New constructs an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		compiler:   validation.NewCompiler(),
		visibility: visibility.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the visible subset for the answers and validates only
// the fields inside it. Hidden fields are never validated, even when
// required.
func (e *Evaluator) Evaluate(fields []model.FieldDefinition, answers model.AnswerMap) Evaluation {
	result := Evaluation{
		VisibleFieldIDs: make(map[string]struct{}, len(fields)),
		Errors:          map[string]string{},
	}

	for _, field := range fields {
		if e.visibility.IsVisible(field, answers, fields) {
			result.VisibleFieldIDs[field.ID] = struct{}{}
		}
	}

	for _, field := range fields {
		if !result.Visible(field.ID) {
			continue
		}
		if message, ok := e.compiler.Validate(field, answers[field.ID]); !ok {
			result.Errors[field.ID] = message
		}
	}
	return result
}
