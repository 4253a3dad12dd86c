package check

import (
	"fmt"
	"strings"
)

// IncompatibleSections are subsystems that take exclusive ownership of
// the BLE radio.
var IncompatibleSections = []string{
	"esp32_ble",
	"esp32_ble_tracker",
	"esp32_ble_beacon",
	"esp32_ble_server",
	"esp32_improv",
	"bluetooth_proxy",
	"ble_client",
}

// RegisterSubsystemRules registers the subsystem conflict rules.
func RegisterSubsystemRules(r *Registry) {
	r.Register(NewSYS001())
}

// SYS001 rejects radio-stack subsystems declared alongside the lock.
type SYS001 struct {
	*BaseRule
}

func NewSYS001() *SYS001 {
	return &SYS001{
		BaseRule: NewBaseRule("SYS-001", "no conflicting BLE subsystem", "subsystem", SeverityError),
	}
}

// Mandatory keeps SYS-001 enabled at error severity: a second owner of the
// radio breaks the lock at runtime.
func (r *SYS001) Mandatory() bool { return true }

func (r *SYS001) Check(in Input) []Violation {
	var found []string
	for _, s := range IncompatibleSections {
		if in.System.Has(s) {
			found = append(found, s)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return []Violation{{
		RuleID:     r.ID(),
		Severity:   r.DefaultSeverity(),
		Kind:       KindIncompatibleSubsystem,
		Message:    fmt.Sprintf("the lock component owns the BLE radio and cannot run with %s", strings.Join(found, ", ")),
		Sections:   found,
		Suggestion: "remove the conflicting sections",
	}}
}
