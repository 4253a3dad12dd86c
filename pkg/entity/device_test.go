package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

func resolve(t *testing.T, raw map[string]any) *config.ResolvedConfig {
	t.Helper()
	reg, err := schema.LoadCurrent()
	require.NoError(t, err)
	cfg, err := config.Validate(raw, reg)
	require.NoError(t, err)
	return cfg
}

func minimalRaw() map[string]any {
	return map[string]any{"is_connected": nil, "is_paired": nil}
}

func TestBuild_Minimal(t *testing.T) {
	dev, err := Build(resolve(t, minimalRaw()))
	require.NoError(t, err)

	require.Equal(t, 2, dev.Len())
	conn, ok := dev.Entity("is_connected")
	require.True(t, ok)
	assert.Equal(t, schema.EntityBinarySensor, conn.Kind())
	assert.Same(t, dev, conn.Owner())
	assert.Equal(t, "connectivity", conn.Options().DeviceClass)
	assert.Equal(t, schema.CategoryDiagnostic, conn.Options().Category)
	assert.Equal(t, "Is connected", conn.Options().Name)

	_, ok = dev.Entity("door_sensor")
	assert.False(t, ok, "absent slot must not produce a node")
}

// Graph size equals the number of present entity slots.
func TestBuild_OneNodePerPresentSlot(t *testing.T) {
	reg, err := schema.LoadCurrent()
	require.NoError(t, err)

	raw := minimalRaw()
	dev, err := Build(resolve(t, raw))
	require.NoError(t, err)
	assert.Equal(t, 2, dev.Len())

	present := 2
	for _, f := range reg.EntityFields() {
		if _, ok := raw[f.Key]; ok {
			continue
		}
		raw[f.Key] = nil
		present++

		dev, err := Build(resolve(t, raw))
		require.NoError(t, err)
		assert.Equal(t, present, dev.Len(), "after adding %s", f.Key)
	}
	assert.Equal(t, len(reg.EntityFields()), present)
}

func TestBuild_SelectOptionsAreStaticAndOrdered(t *testing.T) {
	raw := minimalRaw()
	raw["single_button_press_action"] = nil
	raw["double_button_press_action"] = nil
	raw["motor_speed"] = nil

	dev, err := Build(resolve(t, raw))
	require.NoError(t, err)

	single, _ := dev.Entity("single_button_press_action")
	double, _ := dev.Entity("double_button_press_action")
	assert.Equal(t, single.Options().Choices, double.Options().Choices)
	assert.Equal(t, "No action", single.Options().Choices[0])
	assert.Equal(t, 5, single.Index("Lock 'n' Go"))

	motor, _ := dev.Entity("motor_speed")
	assert.Equal(t, []string{"Standard", "Insane", "Gentle"}, motor.Options().Choices)

	// Mutating a returned option list does not leak into the node.
	choices := motor.Options().Choices
	choices[0] = "Turbo"
	assert.Equal(t, "Standard", motor.Options().Choices[0])
}

func TestBuild_NumberRangeAndUserOverrides(t *testing.T) {
	raw := minimalRaw()
	raw["led_brightness"] = map[string]any{"name": "LED", "icon": "mdi:lightbulb", "disabled_by_default": true}

	dev, err := Build(resolve(t, raw))
	require.NoError(t, err)

	led, ok := dev.Entity("led_brightness")
	require.True(t, ok)
	opts := led.Options()
	assert.Equal(t, schema.EntityNumber, led.Kind())
	assert.Equal(t, 0.0, opts.Min)
	assert.Equal(t, 5.0, opts.Max)
	assert.Equal(t, 1.0, opts.Step)
	assert.Equal(t, "LED", opts.Name)
	assert.Equal(t, "mdi:lightbulb", opts.Icon)
	assert.True(t, opts.DisabledByDefault)
}

func TestBuild_Deterministic(t *testing.T) {
	raw := minimalRaw()
	for _, k := range []string{"battery_level", "timezone", "pairing_mode", "unpair", "led_brightness", "on_paired_action"} {
		raw[k] = nil
	}
	raw["on_paired_action"] = []any{"logger.log"}
	cfg := resolve(t, raw)

	a, err := Build(cfg)
	require.NoError(t, err)
	b, err := Build(cfg)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.NotSame(t, a, b)

	keysA := make([]string, 0, a.Len())
	for _, n := range a.Entities() {
		keysA = append(keysA, n.Key())
	}
	assert.Equal(t, []string{"is_connected", "is_paired", "battery_level", "unpair", "pairing_mode", "led_brightness", "timezone"}, keysA)
}

func TestBuild_Triggers(t *testing.T) {
	raw := minimalRaw()
	raw["on_pairing_mode_off_action"] = []any{"light.turn_off"}
	raw["on_paired_action"] = "notify.phone"

	dev, err := Build(resolve(t, raw))
	require.NoError(t, err)

	triggers := dev.Triggers()
	require.Len(t, triggers, 2)
	assert.Equal(t, Trigger{Key: "on_pairing_mode_off_action", Event: "pairing_mode_off", Actions: []string{"light.turn_off"}}, triggers[0])
	assert.Equal(t, "paired", triggers[1].Event)
	assert.Equal(t, 0, dev.Len()-2, "triggers are not entities")
}

func TestBuild_PairingSettings(t *testing.T) {
	raw := minimalRaw()
	raw["pairing_mode_timeout"] = "45s"
	raw["security_pin"] = 1234

	dev, err := Build(resolve(t, raw))
	require.NoError(t, err)
	assert.Equal(t, "45s", dev.PairingTimeout().String())
	assert.Equal(t, uint16(1234), dev.SecurityPin())
}

func TestBuild_NilConfig(t *testing.T) {
	dev, err := Build(nil)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, ErrNilConfig)
}

// Failed validation never reaches the builder, so nothing is built.
func TestBuild_OutOfBoundsValueBuildsNothing(t *testing.T) {
	reg, err := schema.NewRegistry("9.0", nil,
		schema.Field{Key: "is_connected", Kind: schema.KindEntityRef, Required: true,
			Entity: &schema.EntityMeta{Kind: schema.EntityBinarySensor}},
		schema.Field{Key: "level", Kind: schema.KindUInt, Default: uint64(0), Range: &schema.Range{Min: 0, Max: 5}},
	)
	require.NoError(t, err)

	cfg, err := config.Validate(map[string]any{"is_connected": nil, "level": 7}, reg)
	require.ErrorIs(t, err, config.ErrOutOfBounds)

	dev, err := Build(cfg)
	assert.Nil(t, dev)
	assert.True(t, errors.Is(err, ErrNilConfig))
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "Battery level", DefaultName("battery_level"))
	assert.Equal(t, "Is paired", DefaultName("is_paired"))
	assert.Equal(t, "", DefaultName(""))
}
