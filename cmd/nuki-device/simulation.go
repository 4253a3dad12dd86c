package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/event"
	"github.com/nuki-esphome/nuki-go/pkg/lock"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// errSimulatedFailure is returned by operations while injected failures
// remain.
var errSimulatedFailure = errors.New("simulated BLE failure")

// SimulatedLock is an in-memory lock.Protocol used when no radio is
// available.
type SimulatedLock struct {
	mu        sync.Mutex
	paired    bool
	pairAfter int
	attempts  int
	failures  int
	pin       uint16
	state     lock.KeyTurnerState
	settings  map[string]any
	auth      map[uint32]string
	log       []event.LogEntry
	onChange  func()
	now       func() time.Time
}

var _ lock.Protocol = (*SimulatedLock)(nil)

// NewSimulatedLock creates a simulator. A pairing attempt succeeds after
// pairAfter failed attempts.
func NewSimulatedLock(paired bool, pairAfter int) *SimulatedLock {
	return &SimulatedLock{
		paired:    paired,
		pairAfter: pairAfter,
		state: lock.KeyTurnerState{
			LockState:       lock.LockStateLocked,
			DoorSensorState: lock.DoorClosed,
			BatteryPercent:  100,
			SignalStrength:  -62,
		},
		settings: make(map[string]any),
		auth:     map[uint32]string{1: "Nuki ESPHome", 2: "Keypad"},
		now:      time.Now,
	}
}

// OnChange registers the callback run after every state change, the way
// the radio stack notifies the component.
func (s *SimulatedLock) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Fail makes the next n operations fail.
func (s *SimulatedLock) Fail(n int) {
	s.mu.Lock()
	s.failures = n
	s.mu.Unlock()
}

// Seed initializes the settings from the device's configurable entities.
func (s *SimulatedLock) Seed(dev *entity.DeviceNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range dev.Entities() {
		if n.Key() == "pairing_mode" {
			continue
		}
		opts := n.Options()
		switch n.Kind() {
		case schema.EntitySwitch:
			s.settings[n.Key()] = false
		case schema.EntityNumber:
			s.settings[n.Key()] = opts.Min
		case schema.EntitySelect:
			if len(opts.Choices) > 0 {
				s.settings[n.Key()] = opts.Choices[0]
			}
		}
	}
}

// check consumes one injected failure. Callers hold mu.
func (s *SimulatedLock) check() error {
	if s.failures > 0 {
		s.failures--
		return errSimulatedFailure
	}
	return nil
}

// changed runs the change callback outside the lock.
func (s *SimulatedLock) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *SimulatedLock) IsPaired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paired
}

func (s *SimulatedLock) Pair(_ context.Context, role string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	if role != "bridge" && role != "app" {
		return false, fmt.Errorf("unsupported pairing role %q", role)
	}
	s.attempts++
	if s.attempts <= s.pairAfter {
		return false, nil
	}
	s.paired = true
	s.attempts = 0
	return true, nil
}

func (s *SimulatedLock) Unpair(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.paired = false
	s.pin = 0
	return nil
}

func (s *SimulatedLock) KeyTurnerState(context.Context) (lock.KeyTurnerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return lock.KeyTurnerState{}, err
	}
	return s.state, nil
}

func (s *SimulatedLock) LockAction(_ context.Context, action lock.Action) error {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	switch action {
	case lock.ActionLock, lock.ActionFullLock:
		s.state.LockState = lock.LockStateLocked
	case lock.ActionUnlock:
		s.state.LockState = lock.LockStateUnlocked
	case lock.ActionUnlatch:
		s.state.LockState = lock.LockStateUnlatched
	case lock.ActionLockNGo, lock.ActionLockNGoUnlatch:
		s.state.LockState = lock.LockStateUnlockedLockNGo
	default:
		s.mu.Unlock()
		return fmt.Errorf("unsupported action %s", action)
	}
	s.append(1, action.String())
	s.mu.Unlock()

	s.changed()
	return nil
}

// append adds an event-log entry. Callers hold mu.
func (s *SimulatedLock) append(authID uint32, typ string) {
	s.log = append(s.log, event.LogEntry{
		Index:     uint32(len(s.log) + 1),
		Timestamp: s.now(),
		AuthID:    authID,
		Type:      typ,
	})
}

func (s *SimulatedLock) RequestCalibration(context.Context) error {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.LockState = lock.LockStateCalibration
	s.append(1, "calibration")
	s.mu.Unlock()

	s.changed()
	return nil
}

func (s *SimulatedLock) SetSecurityPin(_ context.Context, pin uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.pin = pin
	return nil
}

func (s *SimulatedLock) Settings(context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *SimulatedLock) SetSetting(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.settings[key] = value
	return nil
}

func (s *SimulatedLock) AuthData(context.Context) (map[uint32]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make(map[uint32]string, len(s.auth))
	for k, v := range s.auth {
		out[k] = v
	}
	return out, nil
}

func (s *SimulatedLock) EventLog(_ context.Context, n int) ([]event.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	start := max(0, len(s.log)-n)
	out := make([]event.LogEntry, len(s.log)-start)
	copy(out, s.log[start:])
	return out, nil
}

// Keypad simulates a keypad unlock by authorization 2.
func (s *SimulatedLock) Keypad() {
	s.mu.Lock()
	s.state.LockState = lock.LockStateUnlocked
	s.append(2, "unlock")
	s.mu.Unlock()
	s.changed()
}

// Door sets the door sensor.
func (s *SimulatedLock) Door(open bool) {
	s.mu.Lock()
	s.state.DoorSensorState = lock.DoorClosed
	if open {
		s.state.DoorSensorState = lock.DoorOpened
	}
	s.mu.Unlock()
	s.changed()
}

// drain lowers the battery by one percent, flagging it critical below 20.
func (s *SimulatedLock) drain() {
	s.mu.Lock()
	if s.state.BatteryPercent > 0 {
		s.state.BatteryPercent--
	}
	s.state.BatteryCritical = s.state.BatteryPercent < 20
	s.mu.Unlock()
	s.changed()
}

// runSimulation drains the battery every interval until ctx is done.
func runSimulation(ctx context.Context, sim *SimulatedLock, every time.Duration, logger *slog.Logger) error {
	if every <= 0 {
		<-ctx.Done()
		return nil
	}
	logger.Info("simulation enabled", "drain", every)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sim.drain()
			logger.Debug("battery drained")
		}
	}
}
