package check

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nuki-esphome/nuki-go/pkg/config"
)

// ErrMandatoryRule is returned when disabling or demoting a mandatory rule.
var ErrMandatoryRule = errors.New("rule is mandatory")

// Mandatory is implemented by rules that always run at error severity.
type Mandatory interface {
	Mandatory() bool
}

// Registry manages consistency rules.
type Registry struct {
	mu        sync.RWMutex
	rules     map[string]Rule
	enabled   map[string]bool
	severity  map[string]Severity
	mandatory map[string]bool
	ruleOrder []string
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:     make(map[string]Rule),
		enabled:   make(map[string]bool),
		severity:  make(map[string]Severity),
		mandatory: make(map[string]bool),
	}
}

// NewDefaultRegistry creates a registry with every built-in rule.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterSubsystemRules(r)
	RegisterRecommendationRules(r)
	return r
}

// Register adds a rule, enabled and at its default severity.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if _, exists := r.rules[id]; !exists {
		r.ruleOrder = append(r.ruleOrder, id)
	}
	r.rules[id] = rule
	r.enabled[id] = true
	r.severity[id] = rule.DefaultSeverity()
	m, ok := rule.(Mandatory)
	r.mandatory[id] = ok && m.Mandatory()
	if r.mandatory[id] {
		r.severity[id] = SeverityError
	}
}

// Enable enables a rule by ID.
func (r *Registry) Enable(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[id] = true
}

// Disable disables a rule by ID. Mandatory rules cannot be disabled.
func (r *Registry) Disable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mandatory[id] {
		return fmt.Errorf("disable %s: %w", id, ErrMandatoryRule)
	}
	r.enabled[id] = false
	return nil
}

// SetSeverity overrides the severity for a rule. Mandatory rules stay at
// SeverityError.
func (r *Registry) SetSeverity(id string, severity Severity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mandatory[id] && severity != SeverityError {
		return fmt.Errorf("set severity of %s to %s: %w", id, severity, ErrMandatoryRule)
	}
	r.severity[id] = severity
	return nil
}

// IsMandatory reports whether the rule always runs at error severity.
func (r *Registry) IsMandatory(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mandatory[id]
}

// IsEnabled returns true if the rule is enabled.
func (r *Registry) IsEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[id]
}

// Severity returns the effective severity for a rule.
func (r *Registry) Severity(id string) Severity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sev, ok := r.severity[id]; ok {
		return sev
	}
	return SeverityError
}

// Rule returns a rule by ID, or nil.
func (r *Registry) Rule(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[id]
}

// Rules returns all registered rules in registration order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, len(r.ruleOrder))
	for i, id := range r.ruleOrder {
		rules[i] = r.rules[id]
	}
	return rules
}

// EnabledRules returns the enabled rules in registration order.
func (r *Registry) EnabledRules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []Rule
	for _, id := range r.ruleOrder {
		if r.enabled[id] {
			rules = append(rules, r.rules[id])
		}
	}
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Run evaluates every enabled rule and collects the violations, with the
// registry's severity overrides applied.
func (r *Registry) Run(cfg *config.ResolvedConfig, sys SystemView) *Report {
	in := Input{Config: cfg, System: sys}
	report := &Report{}
	for _, rule := range r.EnabledRules() {
		for _, v := range rule.Check(in) {
			v.Severity = r.Severity(v.RuleID)
			report.Violations = append(report.Violations, v)
		}
	}
	return report
}

// Check runs the default rule set.
func Check(cfg *config.ResolvedConfig, sys SystemView) *Report {
	return NewDefaultRegistry().Run(cfg, sys)
}
