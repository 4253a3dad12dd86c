package interactive

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/lock"
	"github.com/nuki-esphome/nuki-go/pkg/lock/mocks"
	"github.com/nuki-esphome/nuki-go/pkg/pairing"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

type fakeSim struct {
	keypad int
	door   []bool
	fail   int
}

func (s *fakeSim) Keypad()        { s.keypad++ }
func (s *fakeSim) Door(open bool) { s.door = append(s.door, open) }
func (s *fakeSim) Fail(n int)     { s.fail = n }

func newTestConsole(t *testing.T, sim Simulator) (*Console, *mocks.MockProtocol, *bytes.Buffer) {
	t.Helper()
	reg, err := schema.LoadCurrent()
	require.NoError(t, err)
	cfg, err := config.Validate(map[string]any{
		"is_connected":               nil,
		"is_paired":                  nil,
		"battery_level":              nil,
		"pairing_mode":               nil,
		"led_brightness":             nil,
		"motor_speed":                nil,
		"single_button_press_action": nil,
	}, reg)
	require.NoError(t, err)
	dev, err := entity.Build(cfg)
	require.NoError(t, err)

	proto := mocks.NewMockProtocol(t)
	comp, err := lock.New(lock.Config{Device: dev, Protocol: proto, CommandCooldown: time.Millisecond})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return newConsole(comp, sim, out), proto, out
}

func TestExec_Lock(t *testing.T) {
	c, proto, out := newTestConsole(t, nil)
	proto.EXPECT().IsPaired().Return(true)
	proto.EXPECT().LockAction(mock.Anything, lock.ActionLock).Return(nil).Once()

	assert.True(t, c.Exec(context.Background(), "lock"))
	assert.Equal(t, "OK\n", out.String())
	assert.Equal(t, lock.StateLocking, c.comp.State())
}

func TestExec_LockNotPaired(t *testing.T) {
	c, proto, out := newTestConsole(t, nil)
	proto.EXPECT().IsPaired().Return(false)

	c.Exec(context.Background(), "unlock")
	assert.Equal(t, "Error: lock is not paired\n", out.String())
}

func TestExec_SetNumberAndSelect(t *testing.T) {
	c, proto, out := newTestConsole(t, nil)
	proto.EXPECT().IsPaired().Return(true)
	proto.EXPECT().SetSetting(mock.Anything, "led_brightness", 3.0).Return(nil).Once()
	proto.EXPECT().SetSetting(mock.Anything, "single_button_press_action", "Lock 'n' Go").Return(nil).Once()

	ctx := context.Background()
	c.Exec(ctx, "set led_brightness 3")
	c.Exec(ctx, "set single_button_press_action Lock 'n' Go")
	assert.Equal(t, "OK\nOK\n", out.String())

	led, _ := c.comp.Device().Entity("led_brightness")
	v, ok := led.State()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestExec_SetRejectsInvalidValues(t *testing.T) {
	c, _, out := newTestConsole(t, nil)
	ctx := context.Background()

	c.Exec(ctx, "set led_brightness 9")
	assert.Contains(t, out.String(), "value out of range")

	out.Reset()
	c.Exec(ctx, "set motor_speed Turbo")
	assert.Contains(t, out.String(), "option not available")

	out.Reset()
	c.Exec(ctx, "set battery_level 50")
	assert.Contains(t, out.String(), "cannot be set")

	out.Reset()
	c.Exec(ctx, "set door_sensor on")
	assert.Contains(t, out.String(), "entity not configured")
}

func TestExec_PairingMode(t *testing.T) {
	c, _, out := newTestConsole(t, nil)

	c.Exec(context.Background(), "pair on")
	assert.Equal(t, pairing.Pairing, c.comp.Timer().Mode())

	out.Reset()
	c.Exec(context.Background(), "status")
	assert.Contains(t, out.String(), "Pairing mode: pairing (")
	assert.Contains(t, out.String(), "is_paired:")

	c.Exec(context.Background(), "set pairing_mode off")
	assert.Equal(t, pairing.Normal, c.comp.Timer().Mode())
}

func TestExec_Inspect(t *testing.T) {
	c, _, out := newTestConsole(t, nil)

	c.Exec(context.Background(), "inspect select/motor_speed")
	assert.Contains(t, out.String(), `motor_speed "Motor speed"`)
	assert.Contains(t, out.String(), "[1] Insane")
	assert.Contains(t, out.String(), "= <unset>")

	out.Reset()
	c.Exec(context.Background(), "inspect")
	assert.Contains(t, out.String(), "device (7 entities, 0 triggers)")
}

func TestExec_Sim(t *testing.T) {
	sim := &fakeSim{}
	c, _, out := newTestConsole(t, sim)
	ctx := context.Background()

	c.Exec(ctx, "sim keypad")
	c.Exec(ctx, "sim door open")
	c.Exec(ctx, "sim fail 3")
	assert.Equal(t, "OK\nOK\nOK\n", out.String())
	assert.Equal(t, 1, sim.keypad)
	assert.Equal(t, []bool{true}, sim.door)
	assert.Equal(t, 3, sim.fail)

	out.Reset()
	c.Exec(ctx, "sim door ajar")
	assert.Contains(t, out.String(), "usage: sim door")
}

func TestExec_SimWithoutSimulator(t *testing.T) {
	c, _, out := newTestConsole(t, nil)

	c.Exec(context.Background(), "sim keypad")
	assert.Equal(t, "Error: not running a simulated lock\n", out.String())
}

func TestExec_QuitAndUnknown(t *testing.T) {
	c, _, out := newTestConsole(t, nil)

	assert.True(t, c.Exec(context.Background(), "   "))
	assert.True(t, c.Exec(context.Background(), "dance"))
	assert.Contains(t, out.String(), "Unknown command: dance")
	assert.False(t, c.Exec(context.Background(), "quit"))
}
