package compiler

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/nuki-esphome/nuki-go/pkg/buildplan"
	"github.com/nuki-esphome/nuki-go/pkg/check"
	"github.com/nuki-esphome/nuki-go/pkg/config"
)

// Each testdata archive holds a system.yaml input and want/ files: either
// bundle files compared verbatim or an error file whose lines must all
// appear in the compile error.
func TestCompile_Golden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			input, ok := File(ar, "system.yaml")
			require.True(t, ok, "archive has no system.yaml")

			res, err := Compile(input, Options{RunID: "golden"})
			if want, ok := File(ar, "want/error"); ok {
				require.Error(t, err)
				for _, line := range strings.Split(strings.TrimSpace(string(want)), "\n") {
					assert.Contains(t, err.Error(), line)
				}
				assert.True(t, IsInvalid(err))
				_, berr := res.Bundle()
				assert.ErrorIs(t, berr, ErrIncomplete)
				return
			}
			require.NoError(t, err)

			bundle, err := res.Bundle()
			require.NoError(t, err)
			for _, f := range ar.Files {
				name, ok := strings.CutPrefix(f.Name, "want/")
				if !ok {
					continue
				}
				got, ok := File(bundle, name)
				require.True(t, ok, "bundle has no %s", name)
				assert.Equal(t, string(f.Data), string(got), name)
			}
		})
	}
}

const minimalDoc = `
esp32:
  framework:
    type: esp-idf
psram:
nuki_lock:
  is_connected:
  is_paired:
  security_pin: 4321
`

func TestCompile_BundleLayout(t *testing.T) {
	res, err := Compile([]byte(minimalDoc), Options{RunID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, buildplan.VariantIDF, res.Variant)
	assert.True(t, res.Plan.Has("CONFIG_BT_NIMBLE_MEM_ALLOC_MODE_EXTERNAL"))

	ar, err := res.Bundle()
	require.NoError(t, err)
	assert.Equal(t, []string{FileResolved, FileEntities, FileSDKConfig, FilePlatformIO, FileUnit, FileReport}, Names(ar))
	assert.Equal(t, "run: r1\nschema: 2.0\nvariant: esp-idf\n", string(ar.Comment))

	resolved, _ := File(ar, FileResolved)
	assert.NotContains(t, string(resolved), "security_pin: 4321")
	assert.Contains(t, string(resolved), config.PinFingerprint(4321))

	unit, _ := File(ar, FileUnit)
	assert.True(t, strings.HasPrefix(string(unit), "// run r1\n"))
	assert.Contains(t, string(unit), "set_security_pin(4321)")
}

func TestCompile_ArduinoHasNoSDKConfig(t *testing.T) {
	res, err := Compile([]byte(minimalDoc), Options{Variant: "arduino"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)

	ar, err := res.Bundle()
	require.NoError(t, err)
	_, ok := File(ar, FileSDKConfig)
	assert.False(t, ok)
}

func TestCompile_Deterministic(t *testing.T) {
	a, err := Compile([]byte(minimalDoc), Options{RunID: "same"})
	require.NoError(t, err)
	b, err := Compile([]byte(minimalDoc), Options{RunID: "same"})
	require.NoError(t, err)

	arA, err := a.Bundle()
	require.NoError(t, err)
	arB, err := b.Bundle()
	require.NoError(t, err)
	assert.Equal(t, txtar.Format(arA), txtar.Format(arB))
}

func TestCompile_StopAfter(t *testing.T) {
	res, err := Compile([]byte(minimalDoc), Options{StopAfter: StageBuild})
	require.NoError(t, err)
	assert.NotNil(t, res.Device)
	assert.Nil(t, res.Plan)
	assert.Nil(t, res.Unit)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		opts    Options
		stage   Stage
		invalid bool
	}{
		{"yaml", "nuki_lock: [", Options{}, StageParse, true},
		{"no device", "esp32: {}\n", Options{}, StageValidate, true},
		{"unknown schema", minimalDoc, Options{SchemaVersion: "9.9"}, StageSchema, false},
		{"no framework", "nuki_lock:\n  is_connected:\n  is_paired:\n", Options{}, StagePlan, false},
		{"bad variant", minimalDoc, Options{Variant: "zephyr"}, StagePlan, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.doc), tt.opts)
			var serr *StageError
			require.True(t, errors.As(err, &serr), "error %v", err)
			assert.Equal(t, tt.stage, serr.Stage)
			assert.Equal(t, tt.invalid, IsInvalid(err))
		})
	}
}

func TestCompile_CustomRules(t *testing.T) {
	rules := check.NewDefaultRegistry()
	require.NoError(t, rules.SetSeverity("MEM-001", check.SeverityError))

	doc := strings.Replace(minimalDoc, "psram:\n", "", 1)
	res, err := Compile([]byte(doc), Options{Rules: rules})
	require.ErrorIs(t, err, check.ErrRecommendationNotMet)
	assert.NotErrorIs(t, err, check.ErrIncompatibleSubsystem)
	assert.True(t, IsInvalid(err))
	require.NotNil(t, res.Report)
	assert.Len(t, res.Report.Errors(), 1)
	assert.Nil(t, res.Unit)
}

func TestCompile_CheckFailureKeepsDiagnosticsOnly(t *testing.T) {
	res, err := Compile([]byte(minimalDoc+"bluetooth_proxy:\n"), Options{})
	var serr *StageError
	require.True(t, errors.As(err, &serr), "error %v", err)
	assert.Equal(t, StageCheck, serr.Stage)
	require.ErrorIs(t, err, check.ErrIncompatibleSubsystem)

	require.NotNil(t, res.Report)
	assert.NotNil(t, res.Config)
	assert.Nil(t, res.Device)
	assert.Nil(t, res.Plan)
	assert.Nil(t, res.Unit)

	_, err = res.Bundle()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	ar := &txtar.Archive{Files: []txtar.File{{Name: "a/b.txt", Data: []byte("x")}}}
	require.NoError(t, Extract(ar, dir))

	bad := &txtar.Archive{Files: []txtar.File{{Name: "../escape", Data: nil}}}
	assert.Error(t, Extract(bad, dir))
}
