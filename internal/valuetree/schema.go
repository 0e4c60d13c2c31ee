package valuetree

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator compiles and caches the JSON schemas that guard the two
// JSON-shaped boundary documents the core owns the shape of: bookmark
// files and the tabular special-adjacency interchange format (spec.md
// §6). Everything else the data-loader hands the core arrives as an
// already-parsed Node tree with no schema of its own.
type SchemaValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles each named schema file in dir eagerly, so
// a malformed schema fails at startup rather than mid-tick. Files in dir
// that are not named are not compiled.
func NewSchemaValidator(dir string, names ...string) (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	v := &SchemaValidator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		s, err := compiler.Compile(dir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("valuetree: compile schema %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

// Validate checks doc (already unmarshalled into Go values via
// encoding/json) against the named schema.
func (v *SchemaValidator) Validate(name string, doc any) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("valuetree: unknown schema %q", name)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("valuetree: %s: %w", name, err)
	}
	return nil
}

// ValidateJSON unmarshals raw JSON and validates it against the named
// schema in one step.
func (v *SchemaValidator) ValidateJSON(name string, raw []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("valuetree: unmarshal for schema %s: %w", name, err)
	}
	if err := v.Validate(name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
