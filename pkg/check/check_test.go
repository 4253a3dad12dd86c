package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

func compile(t *testing.T, doc string) (*config.ResolvedConfig, *config.Document) {
	t.Helper()
	d, err := config.ParseDocument([]byte(doc))
	require.NoError(t, err)
	reg, err := schema.LoadCurrent()
	require.NoError(t, err)
	cfg, err := d.ValidateDevice(reg)
	require.NoError(t, err)
	return cfg, d
}

const cleanDoc = `
esp32:
  board: esp32dev
psram:
api:
  custom_services: true
  homeassistant_services: true
nuki_lock:
  is_connected:
  is_paired:
`

func TestCheck_Clean(t *testing.T) {
	cfg, doc := compile(t, cleanDoc)

	report := Check(cfg, doc)
	assert.Empty(t, report.Violations)
	assert.False(t, report.HasErrors())
	assert.NoError(t, report.Err())
	assert.Equal(t, "0 error(s), 0 warning(s)\n", report.String())
}

func TestCheck_IncompatibleSubsystemAborts(t *testing.T) {
	cfg, doc := compile(t, cleanDoc+"esp32_ble_tracker:\n")

	report := Check(cfg, doc)
	require.Len(t, report.Errors(), 1)
	v := report.Errors()[0]
	assert.Equal(t, "SYS-001", v.RuleID)
	assert.Equal(t, KindIncompatibleSubsystem, v.Kind)
	assert.Equal(t, []string{"esp32_ble_tracker"}, v.Sections)

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleSubsystem)

	var ise *IncompatibleSubsystemError
	require.True(t, errors.As(err, &ise))
	assert.Len(t, ise.Violations, 1)
}

// Several conflicting sections are one violation.
func TestSYS001_ListsEverySection(t *testing.T) {
	cfg, doc := compile(t, cleanDoc+"bluetooth_proxy:\nesp32_ble:\n  io_capability: none\n")

	violations := NewSYS001().Check(Input{Config: cfg, System: doc})
	require.Len(t, violations, 1)
	assert.Equal(t, []string{"esp32_ble", "bluetooth_proxy"}, violations[0].Sections)
	assert.Contains(t, violations[0].Message, "esp32_ble, bluetooth_proxy")
}

func TestMEM001(t *testing.T) {
	cfg, doc := compile(t, "nuki_lock:\n  is_connected:\n  is_paired:\n")

	violations := NewMEM001().Check(Input{Config: cfg, System: doc})
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityWarning, violations[0].Severity)
	assert.Equal(t, KindRecommendationNotMet, violations[0].Kind)

	cfg, doc = compile(t, cleanDoc)
	assert.Empty(t, NewMEM001().Check(Input{Config: cfg, System: doc}))
}

func TestAPIRules(t *testing.T) {
	tests := []struct {
		name    string
		api     string
		want001 bool
		want002 bool
	}{
		{"no api", "", false, false},
		{"bare api", "api:\n", false, true},
		{"one toggle", "api:\n  custom_services: true\n", false, true},
		{"both toggles", "api:\n  custom_services: true\n  homeassistant_services: true\n", false, false},
		{"encrypted", "api:\n  encryption:\n    key: abc\n  custom_services: true\n  homeassistant_services: true\n", true, false},
		{"encryption without key", "api:\n  encryption:\n  custom_services: true\n  homeassistant_services: true\n", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, doc := compile(t, tt.api+"psram:\nnuki_lock:\n  is_connected:\n  is_paired:\n")
			in := Input{Config: cfg, System: doc}
			assert.Equal(t, tt.want001, len(NewAPI001().Check(in)) == 1)
			assert.Equal(t, tt.want002, len(NewAPI002().Check(in)) == 1)
		})
	}
}

// Warnings never abort.
func TestCheck_WarningsOnly(t *testing.T) {
	cfg, doc := compile(t, "api:\n  encryption:\n    key: abc\nnuki_lock:\n  is_connected:\n  is_paired:\n")

	report := Check(cfg, doc)
	assert.Len(t, report.Warnings(), 3)
	assert.False(t, report.HasErrors())
	assert.NoError(t, report.Err())

	ids := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		ids = append(ids, v.RuleID)
	}
	assert.Equal(t, []string{"MEM-001", "API-001", "API-002"}, ids)
}

func TestRegistry_DisableAndOverride(t *testing.T) {
	cfg, doc := compile(t, "api:\n  encryption:\n    key: abc\n  custom_services: true\n  homeassistant_services: true\nnuki_lock:\n  is_connected:\n  is_paired:\n")

	reg := NewDefaultRegistry()
	assert.Equal(t, 4, reg.Count())

	require.NoError(t, reg.SetSeverity("MEM-001", SeverityError))
	require.NoError(t, reg.Disable("API-001"))
	assert.False(t, reg.IsEnabled("API-001"))

	report := reg.Run(cfg, doc)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, "MEM-001", report.Errors()[0].RuleID)
	for _, v := range report.Violations {
		assert.NotEqual(t, "API-001", v.RuleID)
	}

	reg.Enable("API-001")
	var ids []string
	for _, v := range reg.Run(cfg, doc).Violations {
		ids = append(ids, v.RuleID)
	}
	assert.Contains(t, ids, "API-001")
}

func TestRegistry_SubsystemRuleIsMandatory(t *testing.T) {
	cfg, doc := compile(t, "esp32_improv:\nnuki_lock:\n  is_connected:\n  is_paired:\n")

	reg := NewDefaultRegistry()
	assert.True(t, reg.IsMandatory("SYS-001"))
	assert.False(t, reg.IsMandatory("MEM-001"))

	assert.ErrorIs(t, reg.Disable("SYS-001"), ErrMandatoryRule)
	assert.ErrorIs(t, reg.SetSeverity("SYS-001", SeverityWarning), ErrMandatoryRule)
	assert.ErrorIs(t, reg.SetSeverity("SYS-001", SeverityInfo), ErrMandatoryRule)
	require.NoError(t, reg.SetSeverity("SYS-001", SeverityError))

	assert.True(t, reg.IsEnabled("SYS-001"))
	assert.Equal(t, SeverityError, reg.Severity("SYS-001"))

	err := reg.Run(cfg, doc).Err()
	assert.ErrorIs(t, err, ErrIncompatibleSubsystem)
}

func TestReport_ErrLabelsByKind(t *testing.T) {
	cfg, doc := compile(t, "nuki_lock:\n  is_connected:\n  is_paired:\n")

	reg := NewDefaultRegistry()
	require.NoError(t, reg.SetSeverity("MEM-001", SeverityError))

	err := reg.Run(cfg, doc).Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecommendationNotMet)
	assert.NotErrorIs(t, err, ErrIncompatibleSubsystem)

	var rerr *RecommendationError
	require.True(t, errors.As(err, &rerr))
	require.Len(t, rerr.Violations, 1)
	assert.Equal(t, "MEM-001", rerr.Violations[0].RuleID)

	// A conflict alongside a raised recommendation is labelled as the conflict.
	cfg, doc = compile(t, "esp32_improv:\nnuki_lock:\n  is_connected:\n  is_paired:\n")
	err = reg.Run(cfg, doc).Err()
	var ise *IncompatibleSubsystemError
	require.True(t, errors.As(err, &ise))
	require.Len(t, ise.Violations, 1)
	assert.Equal(t, "SYS-001", ise.Violations[0].RuleID)
}

func TestViolation_String(t *testing.T) {
	v := Violation{
		RuleID:     "SYS-001",
		Severity:   SeverityError,
		Message:    "conflict",
		Sections:   []string{"ble_client"},
		Suggestion: "remove it",
	}
	assert.Equal(t, "[SYS-001] error: conflict (sections: ble_client) -> remove it", v.String())
}

type fakeSystem map[string]map[string]any

func (f fakeSystem) Has(s string) bool {
	_, ok := f[s]
	return ok
}

func (f fakeSystem) Section(s string) (map[string]any, bool) {
	m, ok := f[s]
	return m, ok
}

func TestCheck_AcceptsAnySystemView(t *testing.T) {
	report := Check(nil, fakeSystem{"psram": {}, "ble_client": {}})
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "SYS-001", report.Violations[0].RuleID)
}
