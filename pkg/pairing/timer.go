package pairing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/event"
)

// Timer defaults.
const (
	DefaultTimeout      = 300 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// ErrInvalidTimeout is returned for a non-positive timeout.
var ErrInvalidTimeout = errors.New("invalid pairing timeout")

// Mode is the pairing state.
type Mode uint8

const (
	// Normal is the initial state.
	Normal Mode = iota
	// Pairing is the timed discoverable state.
	Pairing
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Pairing:
		return "pairing"
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

// State is a snapshot of the timer.
type State struct {
	Mode Mode
	// Deadline is zero in Normal.
	Deadline time.Time
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Publisher receives transition events. *event.Bus satisfies it.
type Publisher interface {
	Publish(event.Event)
}

var _ Publisher = (*event.Bus)(nil)

// Config configures a Timer.
type Config struct {
	// Timeout is how long pairing mode lasts. Zero selects DefaultTimeout.
	Timeout time.Duration
	// PollInterval is the Run tick. Zero selects DefaultPollInterval.
	PollInterval time.Duration

	Clock     Clock
	Publisher Publisher
	Logger    *slog.Logger

	// OnChange, if set, is called with the new mode after each transition.
	OnChange func(Mode)
}

// Timer is the pairing-mode state machine.
type Timer struct {
	timeout  time.Duration
	interval time.Duration
	clock    Clock
	pub      Publisher
	logger   *slog.Logger
	onChange func(Mode)

	// emitMu is held from a transition through its events so that
	// publication follows transition order.
	emitMu sync.Mutex

	mu       sync.Mutex
	mode     Mode
	deadline time.Time
}

// New creates a Timer in Normal mode.
func New(cfg Config) (*Timer, error) {
	if cfg.Timeout < 0 || cfg.PollInterval < 0 {
		return nil, ErrInvalidTimeout
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Timer{
		timeout:  cfg.Timeout,
		interval: cfg.PollInterval,
		clock:    cfg.Clock,
		pub:      cfg.Publisher,
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
	}, nil
}

// Timeout returns the configured pairing duration.
func (t *Timer) Timeout() time.Duration { return t.timeout }

// Enable enters Pairing with deadline now+timeout. It reports whether a
// transition happened; enabling while already pairing keeps the deadline.
func (t *Timer) Enable(now time.Time) bool {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	if t.mode == Pairing {
		t.mu.Unlock()
		return false
	}
	t.mode = Pairing
	t.deadline = now.Add(t.timeout)
	deadline := t.deadline
	t.mu.Unlock()

	t.logger.Info("pairing mode on", "deadline", deadline)
	t.emit(event.PairingModeOn, now, Pairing)
	return true
}

// Disable leaves Pairing immediately and clears the deadline. It is a
// no-op in Normal.
func (t *Timer) Disable(now time.Time) bool {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	if !t.leave(now, false) {
		return false
	}
	t.logger.Info("pairing mode off", "reason", "request")
	t.emit(event.PairingModeOff, now, Normal)
	return true
}

// Poll checks the deadline and leaves Pairing once it has passed. It
// reports whether a transition happened.
func (t *Timer) Poll(now time.Time) bool {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	if !t.leave(now, true) {
		return false
	}
	t.logger.Info("pairing mode off", "reason", "timeout")
	t.emit(event.PairingModeOff, now, Normal)
	return true
}

// Set enables or disables pairing mode; it backs the pairing_mode switch.
func (t *Timer) Set(now time.Time, on bool) bool {
	if on {
		return t.Enable(now)
	}
	return t.Disable(now)
}

func (t *Timer) leave(now time.Time, onlyExpired bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode != Pairing {
		return false
	}
	if onlyExpired && now.Before(t.deadline) {
		return false
	}
	t.mode = Normal
	t.deadline = time.Time{}
	return true
}

// Paired publishes Paired. The state is not touched.
func (t *Timer) Paired(now time.Time) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.logger.Info("paired")
	if t.pub != nil {
		t.pub.Publish(event.Event{Kind: event.Paired, Time: now})
	}
}

// emit runs outside the state lock but under emitMu.
func (t *Timer) emit(kind event.Kind, now time.Time, mode Mode) {
	if t.pub != nil {
		t.pub.Publish(event.Event{Kind: kind, Time: now})
	}
	if t.onChange != nil {
		t.onChange(mode)
	}
}

// State returns a snapshot.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Mode: t.mode, Deadline: t.deadline}
}

// Mode returns the current mode.
func (t *Timer) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Remaining returns the time left until the deadline, or 0 in Normal.
func (t *Timer) Remaining(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode != Pairing {
		return 0
	}
	if d := t.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Run polls on the configured interval until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Poll(t.clock.Now())
		}
	}
}
