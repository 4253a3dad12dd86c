package lock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/event"
	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
	"github.com/nuki-esphome/nuki-go/pkg/pairing"
	"github.com/nuki-esphome/nuki-go/pkg/persistence"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Component identity and limits.
const (
	DeviceID   uint32 = 2020002
	DeviceName        = "Nuki ESPHome"

	DefaultMaxActionAttempts = 5
	DefaultCommandCooldown   = 1000 * time.Millisecond
	ExtendedCommandCooldown  = 3000 * time.Millisecond
	DefaultUpdateInterval    = 500 * time.Millisecond

	// MaxToleratedUpdateErrors consecutive status failures mark the lock
	// disconnected.
	MaxToleratedUpdateErrors = 5

	// EventLogBatch is how many entries a refresh requests.
	EventLogBatch = 10
)

// Config configures a Component.
type Config struct {
	Device   *entity.DeviceNode
	Protocol Protocol

	// Bus receives runtime events. A bus is created when nil.
	Bus *event.Bus
	// Store persists pairing and event-log position. Optional.
	Store *persistence.LockStateStore
	// Recorder receives action and state records. Optional.
	Recorder eventlog.Logger
	// Runner executes trigger actions. Optional.
	Runner ActionRunner

	Clock  pairing.Clock
	Logger *slog.Logger

	// SessionID stamps records. Generated when empty.
	SessionID string

	// UpdateInterval is the Run poll cadence; zero selects
	// DefaultUpdateInterval.
	UpdateInterval time.Duration
	// CommandCooldown overrides the configured command_cooldown.
	CommandCooldown time.Duration
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Component is the live lock device.
type Component struct {
	device   *entity.DeviceNode
	proto    Protocol
	bus      *event.Bus
	timer    *pairing.Timer
	store    *persistence.LockStateStore
	recorder eventlog.Logger
	runner   ActionRunner
	clock    pairing.Clock
	logger   *slog.Logger
	session  string

	interval    time.Duration
	cooldown    time.Duration
	maxAttempts int
	role        string

	statusPending   atomic.Bool
	eventLogPending atomic.Bool

	mu           sync.Mutex
	state        State
	updateErrors int
	lastLogIndex uint32
	authNames    map[uint32]string
}

// New wires a component for a built device.
func New(cfg Config) (*Component, error) {
	if cfg.Device == nil {
		return nil, entity.ErrNilConfig
	}
	if cfg.Protocol == nil {
		return nil, errors.New("lock: nil protocol")
	}
	if cfg.Bus == nil {
		cfg.Bus = event.NewBus(0)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = eventlog.NoopLogger{}
	}
	if cfg.Clock == nil {
		cfg.Clock = wallClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.SessionID == "" {
		cfg.SessionID = eventlog.NewSessionID()
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = DefaultUpdateInterval
	}

	rc := cfg.Device.Config()
	c := &Component{
		device:      cfg.Device,
		proto:       cfg.Protocol,
		bus:         cfg.Bus,
		store:       cfg.Store,
		recorder:    cfg.Recorder,
		runner:      cfg.Runner,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		session:     cfg.SessionID,
		interval:    cfg.UpdateInterval,
		cooldown:    cfg.CommandCooldown,
		maxAttempts: DefaultMaxActionAttempts,
		role:        "bridge",
		authNames:   make(map[uint32]string),
	}
	if c.cooldown <= 0 {
		c.cooldown = DefaultCommandCooldown
		if d := rc.Duration("command_cooldown"); d > 0 {
			c.cooldown = d
		}
	}
	if n := rc.UInt("max_action_attempts"); n > 0 {
		c.maxAttempts = int(n)
	}
	if r := rc.Enum("pairing_as"); r != "" {
		c.role = r
	}

	timer, err := pairing.New(pairing.Config{
		Timeout:   cfg.Device.PairingTimeout(),
		Clock:     cfg.Clock,
		Publisher: cfg.Bus,
		Logger:    cfg.Logger,
		OnChange: func(m pairing.Mode) {
			c.publish("pairing_mode", m == pairing.Pairing)
		},
	})
	if err != nil {
		return nil, err
	}
	c.timer = timer
	return c, nil
}

// Device returns the entity graph.
func (c *Component) Device() *entity.DeviceNode { return c.device }

// Bus returns the event bus.
func (c *Component) Bus() *event.Bus { return c.bus }

// Timer returns the pairing-mode timer.
func (c *Component) Timer() *pairing.Timer { return c.timer }

// SessionID returns the id stamped on records.
func (c *Component) SessionID() string { return c.session }

// State returns the lock entity state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Component) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// publish sets an entity's state if the slot was configured.
func (c *Component) publish(key string, v any) {
	n, ok := c.device.Entity(key)
	if !ok {
		return
	}
	if err := n.SetState(v); err != nil {
		c.logger.Warn("publish failed", "entity", key, "error", err)
	}
}

// Setup restores persisted state and publishes initial entity states.
func (c *Component) Setup(ctx context.Context) error {
	c.setState(StateNone)
	c.publish("pairing_mode", false)
	c.publish("is_connected", false)

	if c.store != nil {
		st, err := c.store.Load()
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if st != nil {
			c.mu.Lock()
			c.lastLogIndex = st.LastLogIndex
			for id, name := range st.AuthNames {
				c.authNames[id] = name
			}
			c.mu.Unlock()
		}
	}

	paired := c.proto.IsPaired()
	c.publish("is_paired", paired)
	if paired {
		c.logger.Info("lock paired", "device", DeviceName)
		c.statusPending.Store(true)
		c.eventLogPending.Store(true)
	} else {
		c.logger.Warn("lock is not paired", "device", DeviceName)
	}

	if c.device.SecurityPin() == 0 {
		c.publish("pin_state", PinNotSet.String())
		return nil
	}
	if paired {
		if err := c.SetSecurityPin(ctx, c.device.SecurityPin()); err != nil {
			c.logger.Error("set security pin", "error", err)
		}
	}
	return nil
}

// Notify is called by the protocol when the lock reports a change.
func (c *Component) Notify() {
	c.statusPending.Store(true)
	c.eventLogPending.Store(true)
}

// Update runs one poll iteration: refresh pending status when paired,
// otherwise try pairing while pairing mode is on.
func (c *Component) Update(ctx context.Context) {
	if c.proto.IsPaired() {
		c.publish("is_paired", true)
		if c.statusPending.Swap(false) {
			if err := c.UpdateStatus(ctx); err != nil {
				c.logger.Error("status update", "error", err)
			}
		}
		if c.eventLogPending.Swap(false) {
			if err := c.RefreshEventLog(ctx); err != nil {
				c.logger.Error("event log refresh", "error", err)
			}
		}
		return
	}

	c.publish("is_paired", false)
	if c.timer.Mode() != pairing.Pairing {
		return
	}
	paired, err := c.proto.Pair(ctx, c.role)
	if err != nil {
		c.logger.Debug("pairing attempt", "error", err)
		return
	}
	if paired {
		c.onPaired(ctx)
	}
}

func (c *Component) onPaired(ctx context.Context) {
	now := c.clock.Now()
	c.logger.Info("lock paired", "role", c.role)
	c.publish("is_paired", true)
	c.timer.Paired(now)
	c.timer.Disable(now)
	c.statusPending.Store(true)
	c.eventLogPending.Store(true)

	if pin := c.device.SecurityPin(); pin != 0 {
		if err := c.SetSecurityPin(ctx, pin); err != nil {
			c.logger.Error("set security pin", "error", err)
		}
	}
	c.save(func(st *persistence.LockState) {
		st.Paired = true
		st.PairedAt = now
		st.PairedAs = c.role
	})
}

// UpdateStatus reads the key-turner state and publishes it.
func (c *Component) UpdateStatus(ctx context.Context) error {
	ks, err := c.proto.KeyTurnerState(ctx)
	if err != nil {
		c.mu.Lock()
		c.updateErrors++
		failed := c.updateErrors >= MaxToleratedUpdateErrors
		c.mu.Unlock()
		if failed {
			c.publish("is_connected", false)
			c.setState(StateNone)
		}
		c.statusPending.Store(true)
		return fmt.Errorf("key turner state: %w", err)
	}

	c.mu.Lock()
	c.updateErrors = 0
	c.state = ToState(ks.LockState)
	state := c.state
	c.mu.Unlock()

	c.publish("is_connected", true)
	c.publish("battery_critical", ks.BatteryCritical)
	c.publish("keypad_battery_critical", ks.KeypadBatteryCritical)
	c.publish("battery_level", ks.BatteryPercent)
	c.publish("door_sensor", DoorOpen(ks.DoorSensorState))
	c.publish("door_sensor_state", ks.DoorSensorState.String())
	c.publish("bt_signal_strength", ks.SignalStrength)

	c.recorder.Log(eventlog.Record{
		Timestamp: c.clock.Now(),
		SessionID: c.session,
		DeviceID:  DeviceID,
		Category:  eventlog.CategoryState,
		State: &eventlog.State{
			LockState:       state.String(),
			DoorState:       ks.DoorSensorState.String(),
			BatteryCritical: ks.BatteryCritical,
			BatteryLevel:    ks.BatteryPercent,
		},
	})
	return nil
}

// RefreshSettings reads the lock's configuration into the switch, number
// and select entities.
func (c *Component) RefreshSettings(ctx context.Context) error {
	settings, err := c.proto.Settings(ctx)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n, ok := c.device.Entity(k)
		if !ok || k == "pairing_mode" {
			continue
		}
		switch n.Kind() {
		case schema.EntitySwitch, schema.EntityNumber, schema.EntitySelect:
			c.publish(k, settings[k])
		}
	}
	return nil
}

// RefreshAuthData reads the authorization names used to label event-log
// entries.
func (c *Component) RefreshAuthData(ctx context.Context) error {
	names, err := c.proto.AuthData(ctx)
	if err != nil {
		return fmt.Errorf("auth data: %w", err)
	}
	c.mu.Lock()
	c.authNames = make(map[uint32]string, len(names))
	for id, name := range names {
		c.authNames[id] = name
	}
	c.mu.Unlock()

	c.save(func(st *persistence.LockState) {
		st.AuthNames = names
	})
	return nil
}

// RefreshEventLog publishes EventLogReceived for entries newer than the
// last one seen.
func (c *Component) RefreshEventLog(ctx context.Context) error {
	entries, err := c.proto.EventLog(ctx, EventLogBatch)
	if err != nil {
		return fmt.Errorf("event log: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	c.mu.Lock()
	last := c.lastLogIndex
	var fresh []event.LogEntry
	for _, e := range entries {
		if e.Index <= last {
			continue
		}
		if e.Name == "" {
			e.Name = c.authNames[e.AuthID]
		}
		fresh = append(fresh, e)
		last = e.Index
	}
	c.lastLogIndex = last
	c.mu.Unlock()

	if len(fresh) == 0 {
		return nil
	}

	now := c.clock.Now()
	for i := range fresh {
		e := fresh[i]
		c.bus.Publish(event.Event{Kind: event.EventLogReceived, Time: now, Entry: &e})
		switch e.Type {
		case "unlock", "unlatch":
			if e.Name != "" {
				c.publish("last_unlock_user", e.Name)
			}
		}
		c.publish("last_lock_action", e.Type)
	}

	c.save(func(st *persistence.LockState) {
		st.LastLogIndex = last
	})
	return nil
}

// save applies fn to the persisted state.
func (c *Component) save(fn func(*persistence.LockState)) {
	if c.store == nil {
		return
	}
	st, err := c.store.Load()
	if err != nil {
		c.logger.Error("load state", "error", err)
		return
	}
	if st == nil {
		st = &persistence.LockState{}
	}
	fn(st)
	if err := c.store.Save(st); err != nil {
		c.logger.Error("save state", "error", err)
	}
}

// do runs op with up to maxAttempts attempts spaced by the command
// cooldown. ErrNotPaired is not retried.
func (c *Component) do(ctx context.Context, name string, op func(context.Context) error) error {
	start := c.clock.Now()
	attempts := 0

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cooldown), uint64(c.maxAttempts-1)),
		ctx,
	)
	err := backoff.Retry(func() error {
		attempts++
		err := op(ctx)
		if errors.Is(err, ErrNotPaired) {
			return backoff.Permanent(err)
		}
		if err != nil {
			c.logger.Debug("action attempt failed", "action", name, "attempt", attempts, "error", err)
		}
		return err
	}, b)

	rec := &eventlog.Action{
		Name:     name,
		Attempts: attempts,
		Duration: c.clock.Now().Sub(start),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	c.recorder.Log(eventlog.Record{
		Timestamp: c.clock.Now(),
		SessionID: c.session,
		DeviceID:  DeviceID,
		Category:  eventlog.CategoryAction,
		Action:    rec,
	})

	if err != nil {
		c.logger.Error("action failed", "action", name, "attempts", attempts, "error", err)
		return fmt.Errorf("%w: %s after %d attempt(s): %w", ErrActionFailed, name, attempts, err)
	}
	return nil
}

func (c *Component) requirePaired() error {
	if !c.proto.IsPaired() {
		return ErrNotPaired
	}
	return nil
}

func (c *Component) lockAction(ctx context.Context, a Action, transient State) error {
	if err := c.requirePaired(); err != nil {
		return err
	}
	err := c.do(ctx, a.String(), func(ctx context.Context) error {
		return c.proto.LockAction(ctx, a)
	})
	if err != nil {
		return err
	}
	c.setState(transient)
	c.statusPending.Store(true)
	c.eventLogPending.Store(true)
	return nil
}

// Lock locks the door.
func (c *Component) Lock(ctx context.Context) error {
	return c.lockAction(ctx, ActionLock, StateLocking)
}

// Unlock unlocks the door.
func (c *Component) Unlock(ctx context.Context) error {
	return c.lockAction(ctx, ActionUnlock, StateUnlocking)
}

// Open unlatches the door.
func (c *Component) Open(ctx context.Context) error {
	return c.lockAction(ctx, ActionUnlatch, StateUnlocking)
}

// LockNGo unlocks and locks again after the lock_n_go timeout.
func (c *Component) LockNGo(ctx context.Context) error {
	return c.lockAction(ctx, ActionLockNGo, StateUnlocking)
}

// Unpair deletes the pairing with the lock.
func (c *Component) Unpair(ctx context.Context) error {
	if err := c.do(ctx, "unpair", c.proto.Unpair); err != nil {
		return err
	}
	c.logger.Warn("lock unpaired")
	c.mu.Lock()
	c.lastLogIndex = 0
	c.authNames = make(map[uint32]string)
	c.mu.Unlock()
	c.publish("is_paired", false)
	c.publish("is_connected", false)
	c.setState(StateNone)
	c.save(func(st *persistence.LockState) {
		*st = persistence.LockState{}
	})
	return nil
}

// RequestCalibration starts a calibration run.
func (c *Component) RequestCalibration(ctx context.Context) error {
	if err := c.requirePaired(); err != nil {
		return err
	}
	return c.do(ctx, "request_calibration", c.proto.RequestCalibration)
}

// SetPairingMode turns pairing mode on or off.
func (c *Component) SetPairingMode(on bool) {
	c.timer.Set(c.clock.Now(), on)
}

// SetSecurityPin sends a new PIN to the lock.
func (c *Component) SetSecurityPin(ctx context.Context, pin uint16) error {
	if err := c.requirePaired(); err != nil {
		return err
	}
	c.publish("pin_state", PinValidationPending.String())
	err := c.do(ctx, "set_security_pin", func(ctx context.Context) error {
		return c.proto.SetSecurityPin(ctx, pin)
	})
	if err != nil {
		c.publish("pin_state", PinInvalid.String())
		return err
	}
	if pin == 0 {
		c.publish("pin_state", PinNotSet.String())
	} else {
		c.publish("pin_state", PinValid.String())
	}
	c.save(func(st *persistence.LockState) {
		st.PinFingerprint = ""
		if pin != 0 {
			st.PinFingerprint = config.PinFingerprint(pin)
		}
	})
	return nil
}

func (c *Component) setting(ctx context.Context, key string, kind schema.EntityKind, v any) error {
	n, ok := c.device.Entity(key)
	if !ok || n.Kind() != kind {
		return fmt.Errorf("%w: %s %s", ErrUnknownEntity, kind, key)
	}
	if err := n.Validate(v); err != nil {
		return err
	}
	if err := c.requirePaired(); err != nil {
		return err
	}
	err := c.do(ctx, "set_"+key, func(ctx context.Context) error {
		return c.proto.SetSetting(ctx, key, v)
	})
	if err != nil {
		return err
	}
	return n.SetState(v)
}

// SetSwitch writes a switch setting. The pairing_mode switch drives the
// pairing timer instead of the lock.
func (c *Component) SetSwitch(ctx context.Context, key string, on bool) error {
	if key == "pairing_mode" {
		c.SetPairingMode(on)
		return nil
	}
	return c.setting(ctx, key, schema.EntitySwitch, on)
}

// SetNumber writes a number setting.
func (c *Component) SetNumber(ctx context.Context, key string, v float64) error {
	return c.setting(ctx, key, schema.EntityNumber, v)
}

// SetSelect writes a select setting.
func (c *Component) SetSelect(ctx context.Context, key, option string) error {
	return c.setting(ctx, key, schema.EntitySelect, option)
}

// Press triggers a button entity.
func (c *Component) Press(ctx context.Context, key string) error {
	switch key {
	case "unpair":
		return c.Unpair(ctx)
	case "request_calibration":
		return c.RequestCalibration(ctx)
	}
	return fmt.Errorf("%w: button %s", ErrUnknownEntity, key)
}
