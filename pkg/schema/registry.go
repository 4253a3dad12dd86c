package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidSchema is returned when a set of fields is not a valid schema.
var ErrInvalidSchema = errors.New("invalid schema")

// Registry is an immutable, ordered table of fields keyed by slot name.
type Registry struct {
	version     string
	description string
	fields      []Field
	index       map[string]int
	options     map[string][]string
}

// NewRegistry builds a registry from fields in the given order. Options
// holds the named option lists referenced by select slots.
func NewRegistry(version string, options map[string][]string, fields ...Field) (*Registry, error) {
	r := &Registry{
		version: version,
		fields:  make([]Field, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		options: make(map[string][]string, len(options)),
	}

	for name, list := range options {
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: option list %q is empty", ErrInvalidSchema, name)
		}
		r.options[name] = append([]string(nil), list...)
	}

	for _, f := range fields {
		if _, dup := r.index[f.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Key)
		}
		if !f.HasDefault() && f.Kind != KindEntityRef && f.Kind != KindTrigger {
			// A value slot without a default can only be satisfied by the user.
			f.Required = true
		}
		if err := f.check(r.options); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
		f.Options = append([]string(nil), f.Options...)
		r.index[f.Key] = len(r.fields)
		r.fields = append(r.fields, f)
	}

	return r, nil
}

// Version returns the schema version string.
func (r *Registry) Version() string { return r.version }

// Description returns the manifest description.
func (r *Registry) Description() string { return r.description }

// Len returns the number of fields.
func (r *Registry) Len() int { return len(r.fields) }

// Field returns the field for key.
func (r *Registry) Field(key string) (Field, bool) {
	i, ok := r.index[key]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Fields returns all fields in declaration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// EntityFields returns the entity slots in declaration order.
func (r *Registry) EntityFields() []Field {
	var out []Field
	for _, f := range r.fields {
		if f.IsEntity() {
			out = append(out, f)
		}
	}
	return out
}

// RequiredKeys returns the keys of fields without a default that must be
// supplied.
func (r *Registry) RequiredKeys() []string {
	var out []string
	for _, f := range r.fields {
		if f.Required {
			out = append(out, f.Key)
		}
	}
	return out
}

// Options returns a copy of the named option list, or nil.
func (r *Registry) Options(name string) []string {
	list, ok := r.options[name]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}
