package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

const sampleDocument = `esphome:
  name: front-door
esp32:
  board: esp32dev
  framework:
    type: esp-idf
psram:
api:
  custom_services: true
nuki_lock:
  schema: "2.0"
  is_connected:
    name: "Nuki Connected"
  is_paired:
    name: "Nuki Paired"
  security_pin: 70000
  pairing_mode_timeout: 120s
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, []string{"esphome", "esp32", "psram", "api", "nuki_lock"}, doc.Sections())
	assert.Equal(t, "2.0", doc.SchemaVersion)
	assert.True(t, doc.Has("psram"))
	assert.False(t, doc.Has("esp32_ble_tracker"))

	psram, ok := doc.Section("psram")
	require.True(t, ok)
	assert.Empty(t, psram)

	api, _ := doc.Section("api")
	assert.Equal(t, true, api["custom_services"])

	dev, err := doc.Device()
	require.NoError(t, err)
	assert.NotContains(t, dev, "schema")
	assert.Contains(t, dev, "security_pin")

	assert.Equal(t, 16, doc.Line("security_pin"))
	assert.Equal(t, 12, doc.Line("is_connected.name"))
}

func TestDocument_ValidateDeviceAnnotatesLines(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	reg, err := schema.Load(doc.SchemaVersion)
	require.NoError(t, err)

	_, err = doc.ValidateDevice(reg)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "security_pin", fe.Key)
	assert.Equal(t, 16, fe.Line)
	assert.Contains(t, fe.Error(), "line 16: security_pin")
}

func TestDocument_MissingKeyPointsAtSection(t *testing.T) {
	doc, err := ParseDocument([]byte("api:\nnuki_lock:\n  is_connected:\n"))
	require.NoError(t, err)

	reg, _ := schema.LoadCurrent()
	_, err = doc.ValidateDevice(reg)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is_paired", fe.Key)
	assert.Equal(t, 2, fe.Line)
}

func TestDocument_NoDeviceSection(t *testing.T) {
	doc, err := ParseDocument([]byte("api:\n"))
	require.NoError(t, err)

	_, err = doc.Device()
	assert.ErrorIs(t, err, ErrNoDeviceSection)
}

func TestParseDocument_Invalid(t *testing.T) {
	_, err := ParseDocument([]byte("nuki_lock: [unterminated"))
	assert.Error(t, err)
}
