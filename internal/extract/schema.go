package extract

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

// FieldRule selects one field's value from a document.
type FieldRule struct {
	Name      string `json:"name"`
	Selector  string `json:"selector"`
	Type      string `json:"type"`                // "text" or "attribute"
	Attribute string `json:"attribute,omitempty"` // attribute name when Type == "attribute"
}

// Schema is a structural extraction descriptor derived once from a rendered
// page and reused for free extraction on every later run.
type Schema struct {
	Name         string      `json:"name,omitempty"`
	BaseSelector string      `json:"baseSelector"`
	Fields       []FieldRule `json:"fields"`
	GeneratedAt  time.Time   `json:"generated_at,omitempty"`
}

// Empty reports whether the schema carries no usable rules.
func (s Schema) Empty() bool {
	return len(s.Fields) == 0
}

// SchemaStore persists the extraction schema as a JSON file.
type SchemaStore struct {
	path   string
	maxAge time.Duration // 0 = never expires
}

// NewSchemaStore creates a store bound to path. When maxAge is positive,
// a schema older than maxAge loads as absent, forcing regeneration.
func NewSchemaStore(path string, maxAge time.Duration) *SchemaStore {
	return &SchemaStore{path: path, maxAge: maxAge}
}

// Load returns the persisted schema. A missing file yields an empty schema
// and no error.
func (st *SchemaStore) Load() (Schema, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Schema{}, nil
		}
		return Schema{}, eris.Wrap(err, "extract: read schema")
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, eris.Wrap(err, "extract: parse schema")
	}

	if st.maxAge > 0 && !s.GeneratedAt.IsZero() && time.Since(s.GeneratedAt) > st.maxAge {
		return Schema{}, nil
	}

	return s, nil
}

// Save persists the schema, stamping GeneratedAt when unset.
func (st *SchemaStore) Save(s Schema) error {
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return eris.Wrap(err, "extract: marshal schema")
	}
	if err := os.WriteFile(st.path, data, 0o644); err != nil {
		return eris.Wrap(err, "extract: write schema")
	}
	return nil
}

// Clear removes the persisted schema. Missing file is not an error.
func (st *SchemaStore) Clear() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "extract: remove schema")
	}
	return nil
}
