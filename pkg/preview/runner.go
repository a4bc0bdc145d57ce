// Package preview drives a form interactively in the terminal: fields are
// prompted in order, answers are validated as they arrive, and visibility
// is re-evaluated after every answer so conditional fields appear and
// disappear exactly as they would in a live preview.
package preview

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

const defaultMaxAttempts = 5

// Option customises a Runner.
type Option func(*Runner)

// WithMaxAttempts bounds how many invalid answers a single field accepts
// before the run fails. Zero means unlimited.
func WithMaxAttempts(attempts int) Option {
	return func(r *Runner) {
		r.maxAttempts = attempts
	}
}

// WithCompiler replaces the validation compiler, e.g. to attach a logger.
func WithCompiler(compiler *validation.Compiler) Option {
	return func(r *Runner) {
		if compiler != nil {
			r.compiler = compiler
		}
	}
}

// Runner walks a field collection through a PromptDriver.
type Runner struct {
	driver      PromptDriver
	compiler    *validation.Compiler
	visibility  *visibility.Evaluator
	maxAttempts int
}

// NewRunner constructs a Runner over the given driver.
func NewRunner(driver PromptDriver, opts ...Option) *Runner {
	r := &Runner{
		driver:      driver,
		compiler:    validation.NewCompiler(),
		visibility:  visibility.New(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts for every currently-visible field in order and returns the
// collected answers. Invalid answers re-prompt with the validation message;
// hidden fields are skipped and never validated.
func (r *Runner) Run(ctx context.Context, fields []model.FieldDefinition) (model.AnswerMap, error) {
	ordered := model.CloneFields(fields)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	answers := model.AnswerMap{}
	for _, field := range ordered {
		if !r.visibility.IsVisible(field, answers, ordered) {
			continue
		}

		validate := r.compiler.Compile(field)
		attempts := 0
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			value, err := r.ask(ctx, field)
			if err != nil {
				return nil, err
			}

			message, ok := validate(value)
			if ok {
				answers[field.ID] = value
				break
			}

			attempts++
			if err := r.driver.Info(ctx, message); err != nil {
				return nil, err
			}
			if r.maxAttempts > 0 && attempts >= r.maxAttempts {
				return nil, fmt.Errorf("preview: too many invalid answers for %q", field.Label)
			}
		}
	}
	return answers, nil
}

func (r *Runner) ask(ctx context.Context, field model.FieldDefinition) (any, error) {
	switch field.Type {
	case model.FieldTypeSelect, model.FieldTypeRadio:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      optionLabels(field.Options),
			DefaultIndex: defaultOptionIndex(field),
			Help:         field.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil

	case model.FieldTypeCheckbox:
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message: field.Label,
			Options: optionLabels(field.Options),
			Help:    field.Description,
		})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return values, nil

	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: model.StringValue(field.DefaultValue),
			Help:    field.Description,
		})

	case model.FieldTypePassword:
		return r.driver.Password(ctx, InputConfig{
			Message: field.Label,
			Help:    field.Description,
		})

	case model.FieldTypeFile:
		return r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Help:    helpOr(field.Description, "Path to the file to attach"),
		})

	default:
		return r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: model.StringValue(field.DefaultValue),
			Help:    helpOr(field.Description, field.Placeholder),
		})
	}
}

func optionLabels(options []model.Option) []string {
	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}
	return labels
}

func defaultOptionIndex(field model.FieldDefinition) int {
	wanted := model.StringValue(field.DefaultValue)
	if wanted == "" {
		return -1
	}
	for i, option := range field.Options {
		if option.Value == wanted {
			return i
		}
	}
	return -1
}

func helpOr(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
