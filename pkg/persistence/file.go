// Package persistence offers an optional sink for saved forms. The engine
// core never calls into it; only the surrounding application (the CLI in
// this repo) persists schemas, mirroring how the builder saved forms to
// browser storage when the persist-locally setting was on.
package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schemaio"
)

// Sink stores and retrieves serialized form schemas.
type Sink interface {
	Save(schema model.FormSchema) error
	Load(id string) (model.FormSchema, error)
	List() ([]model.FormSchema, error)
}

// ErrFormNotFound is returned by Load when no document exists for the id.
var ErrFormNotFound = errors.New("persistence: form not found")

// FileSink persists one canonical JSON document per form under a directory,
// keyed by the form id.
type FileSink struct {
	dir string
}

// NewFileSink constructs a sink rooted at dir. The directory is created on
// first save.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Save writes the schema as <dir>/<id>.json, replacing any previous save.
func (s *FileSink) Save(schema model.FormSchema) error {
	if strings.TrimSpace(schema.ID) == "" {
		return errors.New("persistence: schema id is required")
	}
	data, err := schemaio.Export(schema)
	if err != nil {
		return fmt.Errorf("persistence: encode form: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("persistence: create directory: %w", err)
	}
	path := s.path(schema.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write form: %w", err)
	}
	return nil
}

// Load reads the document saved for the id.
func (s *FileSink) Load(id string) (model.FormSchema, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return model.FormSchema{}, ErrFormNotFound
		}
		return model.FormSchema{}, fmt.Errorf("persistence: read form: %w", err)
	}
	return schemaio.Import(data)
}

// List loads every saved form, ordered by id.
func (s *FileSink) List() ([]model.FormSchema, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persistence: list forms: %w", err)
	}

	var forms []model.FormSchema
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		schema, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		forms = append(forms, schema)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

func (s *FileSink) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
