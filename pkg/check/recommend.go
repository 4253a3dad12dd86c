package check

// RegisterRecommendationRules registers the advisory rules.
func RegisterRecommendationRules(r *Registry) {
	r.Register(NewMEM001())
	r.Register(NewAPI001())
	r.Register(NewAPI002())
}

// MEM001 recommends PSRAM for the NimBLE stack.
type MEM001 struct {
	*BaseRule
}

func NewMEM001() *MEM001 {
	return &MEM001{
		BaseRule: NewBaseRule("MEM-001", "PSRAM recommended", "memory", SeverityWarning),
	}
}

func (r *MEM001) Check(in Input) []Violation {
	if in.System.Has("psram") {
		return nil
	}
	return []Violation{{
		RuleID:     r.ID(),
		Severity:   r.DefaultSeverity(),
		Kind:       KindRecommendationNotMet,
		Message:    "no psram section; BLE allocations stay in internal memory",
		Sections:   []string{"psram"},
		Suggestion: "add a psram section if the board has external memory",
	}}
}

// API001 flags API transport encryption as a memory risk.
type API001 struct {
	*BaseRule
}

func NewAPI001() *API001 {
	return &API001{
		BaseRule: NewBaseRule("API-001", "API encryption memory risk", "api", SeverityWarning),
	}
}

func (r *API001) Check(in Input) []Violation {
	api, ok := in.System.Section("api")
	if !ok {
		return nil
	}
	// A bare encryption: key still enables encryption.
	if _, ok := api["encryption"]; !ok {
		return nil
	}
	return []Violation{{
		RuleID:     r.ID(),
		Severity:   r.DefaultSeverity(),
		Kind:       KindRecommendationNotMet,
		Message:    "api encryption uses memory the BLE stack needs and may cause instability",
		Sections:   []string{"api"},
		Suggestion: "remove api.encryption or enable psram",
	}}
}

// API002 requires the API toggles the generated actions and events use.
type API002 struct {
	*BaseRule
}

func NewAPI002() *API002 {
	return &API002{
		BaseRule: NewBaseRule("API-002", "API services enabled", "api", SeverityWarning),
	}
}

func (r *API002) Check(in Input) []Violation {
	api, ok := in.System.Section("api")
	if !ok {
		return nil
	}
	custom, _ := api["custom_services"].(bool)
	events, _ := api["homeassistant_services"].(bool)
	if custom && events {
		return nil
	}
	return []Violation{{
		RuleID:     r.ID(),
		Severity:   r.DefaultSeverity(),
		Kind:       KindRecommendationNotMet,
		Message:    "lock actions and events are unreachable without api custom_services and homeassistant_services",
		Sections:   []string{"api"},
		Suggestion: "set custom_services: true and homeassistant_services: true",
	}}
}
