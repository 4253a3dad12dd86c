package check

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompatibleSubsystem matches the error returned by Report.Err when an
// incompatible-subsystem violation is present.
var ErrIncompatibleSubsystem = errors.New("incompatible subsystem")

// ErrRecommendationNotMet matches the error returned by Report.Err when the
// only errors are recommendations raised to error severity.
var ErrRecommendationNotMet = errors.New("recommendation not met")

// IncompatibleSubsystemError is returned by Report.Err. It carries the
// error-severity violations of kind KindIncompatibleSubsystem.
type IncompatibleSubsystemError struct {
	Violations []Violation
}

func (e *IncompatibleSubsystemError) Error() string {
	return violationsMessage(ErrIncompatibleSubsystem, e.Violations)
}

func (e *IncompatibleSubsystemError) Unwrap() error { return ErrIncompatibleSubsystem }

// RecommendationError is returned by Report.Err when recommendations were
// raised to error severity and no subsystem conflict exists.
type RecommendationError struct {
	Violations []Violation
}

func (e *RecommendationError) Error() string {
	return violationsMessage(ErrRecommendationNotMet, e.Violations)
}

func (e *RecommendationError) Unwrap() error { return ErrRecommendationNotMet }

func violationsMessage(kind error, vs []Violation) string {
	if len(vs) == 1 {
		return fmt.Sprintf("%s: [%s] %s", kind, vs[0].RuleID, vs[0].Message)
	}
	ids := make([]string, len(vs))
	for i, v := range vs {
		ids[i] = v.RuleID
	}
	return fmt.Sprintf("%s: %d errors (%s)", kind, len(vs), strings.Join(ids, ", "))
}

// Report is the ordered result of a consistency pass.
type Report struct {
	Violations []Violation
}

// HasErrors reports whether any violation has severity Error.
func (r *Report) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity violations.
func (r *Report) Errors() []Violation { return r.filter(SeverityError) }

// Warnings returns the warning-severity violations.
func (r *Report) Warnings() []Violation { return r.filter(SeverityWarning) }

func (r *Report) filter(sev Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

// Err returns nil when the report has no errors. Otherwise it returns an
// *IncompatibleSubsystemError if any error is a subsystem conflict, and a
// *RecommendationError if not.
func (r *Report) Err() error {
	var conflicts, raised []Violation
	for _, v := range r.Errors() {
		if v.Kind == KindIncompatibleSubsystem {
			conflicts = append(conflicts, v)
		} else {
			raised = append(raised, v)
		}
	}
	switch {
	case len(conflicts) > 0:
		return &IncompatibleSubsystemError{Violations: conflicts}
	case len(raised) > 0:
		return &RecommendationError{Violations: raised}
	}
	return nil
}

// String renders one violation per line followed by a summary line.
func (r *Report) String() string {
	var sb strings.Builder
	for _, v := range r.Violations {
		sb.WriteString(v.String())
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d error(s), %d warning(s)\n", len(r.Errors()), len(r.Warnings()))
	return sb.String()
}
