package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/event"
	"github.com/nuki-esphome/nuki-go/pkg/lock"
	"github.com/nuki-esphome/nuki-go/pkg/lock/mocks"
	"github.com/nuki-esphome/nuki-go/pkg/pairing"
	"github.com/nuki-esphome/nuki-go/pkg/persistence"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func buildDevice(t *testing.T, extra map[string]any) *entity.DeviceNode {
	t.Helper()
	raw := map[string]any{
		"is_connected":       nil,
		"is_paired":          nil,
		"battery_critical":   nil,
		"battery_level":      nil,
		"door_sensor":        nil,
		"door_sensor_state":  nil,
		"last_unlock_user":   nil,
		"last_lock_action":   nil,
		"pin_state":          nil,
		"pairing_mode":       nil,
		"unpair":             nil,
		"led_brightness":     nil,
		"motor_speed":        nil,
		"auto_lock_enabled":  nil,
		"bt_signal_strength": nil,
	}
	for k, v := range extra {
		raw[k] = v
	}
	reg, err := schema.LoadCurrent()
	require.NoError(t, err)
	cfg, err := config.Validate(raw, reg)
	require.NoError(t, err)
	dev, err := entity.Build(cfg)
	require.NoError(t, err)
	return dev
}

type fixture struct {
	comp  *lock.Component
	proto *mocks.MockProtocol
	dev   *entity.DeviceNode
	clock *fakeClock
	store *persistence.LockStateStore
}

func newFixture(t *testing.T, extra map[string]any) *fixture {
	t.Helper()
	f := &fixture{
		proto: mocks.NewMockProtocol(t),
		dev:   buildDevice(t, extra),
		clock: &fakeClock{now: time.Unix(1_700_000_000, 0)},
		store: persistence.NewLockStateStore(filepath.Join(t.TempDir(), "lock.json")),
	}
	comp, err := lock.New(lock.Config{
		Device:          f.dev,
		Protocol:        f.proto,
		Store:           f.store,
		Clock:           f.clock,
		CommandCooldown: time.Millisecond,
	})
	require.NoError(t, err)
	f.comp = comp
	return f
}

func (f *fixture) state(t *testing.T, key string) any {
	t.Helper()
	n, ok := f.dev.Entity(key)
	require.True(t, ok, "entity %s", key)
	v, _ := n.State()
	return v
}

func TestLock_Succeeds(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().LockAction(mock.Anything, lock.ActionLock).Return(nil).Once()

	require.NoError(t, f.comp.Lock(context.Background()))
	assert.Equal(t, lock.StateLocking, f.comp.State())
}

func TestActions_RequirePairing(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().IsPaired().Return(false)

	ctx := context.Background()
	assert.ErrorIs(t, f.comp.Lock(ctx), lock.ErrNotPaired)
	assert.ErrorIs(t, f.comp.Unlock(ctx), lock.ErrNotPaired)
	assert.ErrorIs(t, f.comp.Open(ctx), lock.ErrNotPaired)
	assert.ErrorIs(t, f.comp.RequestCalibration(ctx), lock.ErrNotPaired)
	assert.Equal(t, lock.StateNone, f.comp.State())
}

func TestUnlock_RetriesUntilSuccess(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().LockAction(mock.Anything, lock.ActionUnlock).Return(errors.New("busy")).Times(4)
	f.proto.EXPECT().LockAction(mock.Anything, lock.ActionUnlock).Return(nil).Once()

	require.NoError(t, f.comp.Unlock(context.Background()))
	assert.Equal(t, lock.StateUnlocking, f.comp.State())
}

func TestOpen_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, map[string]any{"max_action_attempts": 3})
	busy := errors.New("busy")
	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().LockAction(mock.Anything, lock.ActionUnlatch).Return(busy).Times(3)

	err := f.comp.Open(context.Background())
	require.ErrorIs(t, err, lock.ErrActionFailed)
	assert.ErrorIs(t, err, busy)
	assert.Contains(t, err.Error(), "after 3 attempt(s)")
	assert.Equal(t, lock.StateNone, f.comp.State())
}

func TestUpdateStatus_MapsKeyTurnerState(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().KeyTurnerState(mock.Anything).Return(lock.KeyTurnerState{
		LockState:       lock.LockStateMotorBlocked,
		DoorSensorState: lock.DoorClosed,
		BatteryCritical: true,
		BatteryPercent:  42,
		SignalStrength:  -67,
	}, nil).Once()

	require.NoError(t, f.comp.UpdateStatus(context.Background()))
	assert.Equal(t, lock.StateJammed, f.comp.State())
	assert.Equal(t, true, f.state(t, "is_connected"))
	assert.Equal(t, true, f.state(t, "battery_critical"))
	assert.Equal(t, 42.0, f.state(t, "battery_level"))
	assert.Equal(t, false, f.state(t, "door_sensor"))
	assert.Equal(t, "closed", f.state(t, "door_sensor_state"))
	assert.Equal(t, -67.0, f.state(t, "bt_signal_strength"))
}

func TestUpdateStatus_DisconnectsAfterToleratedErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().KeyTurnerState(mock.Anything).Return(lock.KeyTurnerState{LockState: lock.LockStateLocked}, nil).Once()
	f.proto.EXPECT().KeyTurnerState(mock.Anything).Return(lock.KeyTurnerState{}, errors.New("timeout")).Times(lock.MaxToleratedUpdateErrors)

	ctx := context.Background()
	require.NoError(t, f.comp.UpdateStatus(ctx))
	for i := 0; i < lock.MaxToleratedUpdateErrors-1; i++ {
		assert.Error(t, f.comp.UpdateStatus(ctx))
		assert.Equal(t, true, f.state(t, "is_connected"), "after %d errors", i+1)
	}
	assert.Error(t, f.comp.UpdateStatus(ctx))
	assert.Equal(t, false, f.state(t, "is_connected"))
	assert.Equal(t, lock.StateNone, f.comp.State())
}

func TestUpdate_PairsWhilePairingModeOn(t *testing.T) {
	f := newFixture(t, map[string]any{"pairing_as": "app"})
	sub, err := f.comp.Bus().Subscribe()
	require.NoError(t, err)

	f.proto.EXPECT().IsPaired().Return(false).Once()
	f.proto.EXPECT().Pair(mock.Anything, "app").Return(true, nil).Once()

	ctx := context.Background()
	f.comp.SetPairingMode(true)
	assert.Equal(t, true, f.state(t, "pairing_mode"))

	f.comp.Update(ctx)
	assert.Equal(t, true, f.state(t, "is_paired"))
	assert.Equal(t, false, f.state(t, "pairing_mode"))
	assert.Equal(t, pairing.Normal, f.comp.Timer().Mode())

	var kinds []event.Kind
	for len(sub.C()) > 0 {
		kinds = append(kinds, (<-sub.C()).Kind)
	}
	assert.Equal(t, []event.Kind{event.PairingModeOn, event.Paired, event.PairingModeOff}, kinds)

	st, err := f.store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Paired)
	assert.Equal(t, "app", st.PairedAs)
}

func TestUpdate_SkipsPairingInNormalMode(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().IsPaired().Return(false).Once()

	f.comp.Update(context.Background())
	assert.Equal(t, false, f.state(t, "is_paired"))
}

func TestPairingMode_ExpiresWithoutPairing(t *testing.T) {
	f := newFixture(t, map[string]any{"pairing_mode_timeout": "30s"})

	require.NoError(t, f.comp.SetSwitch(context.Background(), "pairing_mode", true))
	assert.Equal(t, pairing.Pairing, f.comp.Timer().Mode())

	f.clock.Advance(29 * time.Second)
	assert.False(t, f.comp.Timer().Poll(f.clock.Now()))
	f.clock.Advance(time.Second)
	assert.True(t, f.comp.Timer().Poll(f.clock.Now()))
	assert.Equal(t, false, f.state(t, "pairing_mode"))
}

func TestRefreshEventLog_PublishesOnlyNewEntries(t *testing.T) {
	f := newFixture(t, nil)
	sub, err := f.comp.Bus().Subscribe(event.EventLogReceived)
	require.NoError(t, err)

	entries := []event.LogEntry{
		{Index: 3, AuthID: 7, Type: "lock"},
		{Index: 1, AuthID: 7, Type: "unlock"},
		{Index: 2, AuthID: 9, Type: "unlock", Name: "Keypad"},
	}
	f.proto.EXPECT().AuthData(mock.Anything).Return(map[uint32]string{7: "Alice"}, nil).Once()
	f.proto.EXPECT().EventLog(mock.Anything, lock.EventLogBatch).Return(entries, nil).Twice()

	ctx := context.Background()
	require.NoError(t, f.comp.RefreshAuthData(ctx))
	require.NoError(t, f.comp.RefreshEventLog(ctx))
	require.Len(t, sub.C(), 3)

	var got []uint32
	for len(sub.C()) > 0 {
		ev := <-sub.C()
		got = append(got, ev.Entry.Index)
	}
	assert.Equal(t, []uint32{1, 2, 3}, got)
	assert.Equal(t, "Keypad", f.state(t, "last_unlock_user"))
	assert.Equal(t, "lock", f.state(t, "last_lock_action"))

	require.NoError(t, f.comp.RefreshEventLog(ctx))
	assert.Len(t, sub.C(), 0)

	st, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), st.LastLogIndex)
	assert.Equal(t, "Alice", st.AuthNames[7])
}

func TestSetNumber_ValidatesBeforeSending(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	err := f.comp.SetNumber(ctx, "led_brightness", 9)
	assert.ErrorIs(t, err, entity.ErrOutOfRange)

	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().SetSetting(mock.Anything, "led_brightness", 3.0).Return(nil).Once()
	require.NoError(t, f.comp.SetNumber(ctx, "led_brightness", 3))
	assert.Equal(t, 3.0, f.state(t, "led_brightness"))
}

func TestSetSelect(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.comp.SetSelect(ctx, "motor_speed", "Turbo"), entity.ErrInvalidOption)
	assert.ErrorIs(t, f.comp.SetSelect(ctx, "advertising_mode", "Automatic"), lock.ErrUnknownEntity)

	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().SetSetting(mock.Anything, "motor_speed", "Gentle").Return(nil).Once()
	require.NoError(t, f.comp.SetSelect(ctx, "motor_speed", "Gentle"))
	assert.Equal(t, "Gentle", f.state(t, "motor_speed"))
}

func TestRefreshSettings(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().Settings(mock.Anything).Return(map[string]any{
		"auto_lock_enabled": true,
		"led_brightness":    2,
		"night_mode":        true,
	}, nil).Once()

	require.NoError(t, f.comp.RefreshSettings(context.Background()))
	assert.Equal(t, true, f.state(t, "auto_lock_enabled"))
	assert.Equal(t, 2.0, f.state(t, "led_brightness"))
}

func TestSetup_PublishesInitialState(t *testing.T) {
	f := newFixture(t, map[string]any{"security_pin": 1234})
	f.proto.EXPECT().IsPaired().Return(true)
	f.proto.EXPECT().SetSecurityPin(mock.Anything, uint16(1234)).Return(nil).Once()

	require.NoError(t, f.comp.Setup(context.Background()))
	assert.Equal(t, true, f.state(t, "is_paired"))
	assert.Equal(t, false, f.state(t, "is_connected"))
	assert.Equal(t, false, f.state(t, "pairing_mode"))
	assert.Equal(t, "Valid", f.state(t, "pin_state"))

	st, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, config.PinFingerprint(1234), st.PinFingerprint)
}

func TestSetup_NoPin(t *testing.T) {
	f := newFixture(t, nil)
	f.proto.EXPECT().IsPaired().Return(false)

	require.NoError(t, f.comp.Setup(context.Background()))
	assert.Equal(t, "Not set", f.state(t, "pin_state"))
}

func TestUnpair_ClearsState(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.Save(&persistence.LockState{Paired: true, LastLogIndex: 12}))
	f.proto.EXPECT().Unpair(mock.Anything).Return(nil).Once()

	require.NoError(t, f.comp.Press(context.Background(), "unpair"))
	assert.Equal(t, false, f.state(t, "is_paired"))

	st, err := f.store.Load()
	require.NoError(t, err)
	assert.False(t, st.Paired)
	assert.Zero(t, st.LastLogIndex)
}

func TestUnpair_ResetsEventLogCursor(t *testing.T) {
	f := newFixture(t, nil)
	sub, err := f.comp.Bus().Subscribe(event.EventLogReceived)
	require.NoError(t, err)

	entries := []event.LogEntry{
		{Index: 1, AuthID: 7, Type: "lock"},
		{Index: 2, AuthID: 7, Type: "unlock"},
	}
	f.proto.EXPECT().AuthData(mock.Anything).Return(map[uint32]string{7: "Alice"}, nil).Once()
	f.proto.EXPECT().EventLog(mock.Anything, lock.EventLogBatch).Return(entries, nil).Twice()
	f.proto.EXPECT().Unpair(mock.Anything).Return(nil).Once()

	ctx := context.Background()
	require.NoError(t, f.comp.RefreshAuthData(ctx))
	require.NoError(t, f.comp.RefreshEventLog(ctx))
	require.Len(t, sub.C(), 2)
	for len(sub.C()) > 0 {
		ev := <-sub.C()
		assert.Equal(t, "Alice", ev.Entry.Name)
	}

	require.NoError(t, f.comp.Unpair(ctx))

	// A fresh lock restarts its log at index 1 and knows none of the old names.
	require.NoError(t, f.comp.RefreshEventLog(ctx))
	require.Len(t, sub.C(), 2)
	var got []uint32
	for len(sub.C()) > 0 {
		ev := <-sub.C()
		got = append(got, ev.Entry.Index)
		assert.Empty(t, ev.Entry.Name)
	}
	assert.Equal(t, []uint32{1, 2}, got)
}

func TestRun_DispatchesTriggers(t *testing.T) {
	proto := mocks.NewMockProtocol(t)
	runner := mocks.NewMockActionRunner(t)
	dev := buildDevice(t, map[string]any{"on_pairing_mode_on_action": []any{"light.turn_on"}})

	comp, err := lock.New(lock.Config{
		Device:         dev,
		Protocol:       proto,
		Runner:         runner,
		UpdateInterval: time.Hour,
	})
	require.NoError(t, err)

	var fired atomic.Bool
	runner.EXPECT().
		RunActions(mock.Anything, mock.MatchedBy(func(tr entity.Trigger) bool {
			return tr.Key == "on_pairing_mode_on_action"
		}), mock.Anything).
		Run(func(context.Context, entity.Trigger, event.Event) { fired.Store(true) }).
		Return(nil).
		Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- comp.Run(ctx) }()

	require.Eventually(t, func() bool {
		comp.SetPairingMode(false)
		comp.SetPairingMode(true)
		return fired.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
