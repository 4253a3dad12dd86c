// Package inspect renders and queries a built entity graph.
//
// The inspect package offers:
//   - Parsing path expressions (e.g., "select/motor_speed", "sensor")
//   - Resolving paths to entity nodes
//   - Reading and writing node state
//   - Formatting output for display
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
	ErrNotFound    = errors.New("no such entity")
)

// Path represents a parsed inspection path.
// Format: kind/key, kind or key.
type Path struct {
	// Kind restricts the path to one platform when HasKind is set.
	Kind    schema.EntityKind
	HasKind bool

	// Key is the slot key; empty selects every node of Kind.
	Key string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string.
//
// Supported formats:
//   - "select/motor_speed" - one node, kind checked
//   - "select" - every node of a platform
//   - "motor_speed" - one node by key
//   - "*" - every node
func ParsePath(s string) (*Path, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyPath
	}

	p := &Path{Raw: raw}
	if s == "*" {
		return p, nil
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		if k, err := schema.ParseEntityKind(parts[0]); err == nil {
			p.Kind, p.HasKind = k, true
			return p, nil
		}
		p.Key = parts[0]
	case 2:
		k, err := schema.ParseEntityKind(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		if parts[1] == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrInvalidPath, raw)
		}
		p.Kind, p.HasKind, p.Key = k, true, parts[1]
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	return p, nil
}

// IsPartial reports whether the path can select more than one node.
func (p *Path) IsPartial() bool { return p.Key == "" }

// String returns the canonical form.
func (p *Path) String() string {
	switch {
	case p.HasKind && p.Key != "":
		return p.Kind.String() + "/" + p.Key
	case p.HasKind:
		return p.Kind.String()
	case p.Key != "":
		return p.Key
	}
	return "*"
}
