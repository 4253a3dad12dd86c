package check

import (
	"fmt"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/config"
)

// Severity represents the severity level of a consistency issue.
type Severity int

const (
	// SeverityError aborts the compilation.
	SeverityError Severity = iota
	// SeverityWarning is advisory.
	SeverityWarning
	// SeverityInfo is an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Kind classifies a violation in the error taxonomy.
type Kind int

const (
	// KindIncompatibleSubsystem means a sibling subsystem claims the same
	// radio hardware.
	KindIncompatibleSubsystem Kind = iota
	// KindRecommendationNotMet means a recommended companion setting is
	// missing.
	KindRecommendationNotMet
)

func (k Kind) String() string {
	switch k {
	case KindIncompatibleSubsystem:
		return "IncompatibleSubsystem"
	case KindRecommendationNotMet:
		return "RecommendationNotMet"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// SystemView is a read-only view of the whole system document.
// *config.Document satisfies it.
type SystemView interface {
	// Has reports whether a top-level section is present.
	Has(section string) bool
	// Section returns a top-level section as a mapping.
	Section(section string) (map[string]any, bool)
}

var _ SystemView = (*config.Document)(nil)

// Input is what a rule evaluates: the device's resolved configuration and
// the system around it.
type Input struct {
	Config *config.ResolvedConfig
	System SystemView
}

// Rule is one consistency check.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "SYS-001").
	ID() string
	// Name returns a human-readable name for the rule.
	Name() string
	// Category returns the rule category (e.g., "subsystem", "memory", "api").
	Category() string
	// DefaultSeverity returns the default severity level.
	DefaultSeverity() Severity
	// Check applies the rule and returns any violations.
	Check(in Input) []Violation
}

// Violation is a single rule violation.
type Violation struct {
	// RuleID is the ID of the rule that was violated.
	RuleID string
	// Severity is the effective severity level.
	Severity Severity
	// Kind is the taxonomy class.
	Kind Kind
	// Message describes what went wrong.
	Message string
	// Sections lists the system sections involved.
	Sections []string
	// Suggestion provides a suggested fix (if applicable).
	Suggestion string
}

// String returns a formatted string representation of the violation.
func (v Violation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", v.RuleID, v.Severity, v.Message)

	if len(v.Sections) > 0 {
		fmt.Fprintf(&sb, " (sections: %s)", strings.Join(v.Sections, ", "))
	}
	if v.Suggestion != "" {
		fmt.Fprintf(&sb, " -> %s", v.Suggestion)
	}
	return sb.String()
}

// BaseRule provides the common Rule methods.
type BaseRule struct {
	id              string
	name            string
	category        string
	defaultSeverity Severity
}

// ID returns the rule ID.
func (r *BaseRule) ID() string { return r.id }

// Name returns the rule name.
func (r *BaseRule) Name() string { return r.name }

// Category returns the rule category.
func (r *BaseRule) Category() string { return r.category }

// DefaultSeverity returns the default severity.
func (r *BaseRule) DefaultSeverity() Severity { return r.defaultSeverity }

// NewBaseRule creates a new BaseRule with the given properties.
func NewBaseRule(id, name, category string, severity Severity) *BaseRule {
	return &BaseRule{
		id:              id,
		name:            name,
		category:        category,
		defaultSeverity: severity,
	}
}
