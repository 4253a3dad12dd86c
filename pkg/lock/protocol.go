package lock

import (
	"context"
	"errors"

	"github.com/nuki-esphome/nuki-go/pkg/event"
)

// Protocol errors.
var (
	// ErrNotPaired is returned for actions that need a paired lock.
	ErrNotPaired = errors.New("lock is not paired")
	// ErrActionFailed wraps an action that failed on every attempt.
	ErrActionFailed = errors.New("lock action failed")
	// ErrUnknownEntity is returned for a setting whose entity was not
	// configured.
	ErrUnknownEntity = errors.New("entity not configured")
)

// Protocol is the BLE collaborator. Implementations talk to the lock; the
// component never touches the radio itself.
type Protocol interface {
	// IsPaired reports whether credentials for the lock are stored.
	IsPaired() bool
	// Pair runs one pairing attempt in the given role ("bridge" or "app").
	// It reports whether pairing completed.
	Pair(ctx context.Context, role string) (bool, error)
	// Unpair deletes the stored credentials.
	Unpair(ctx context.Context) error

	// KeyTurnerState reads the current status.
	KeyTurnerState(ctx context.Context) (KeyTurnerState, error)
	// LockAction executes a lock action.
	LockAction(ctx context.Context, action Action) error
	// RequestCalibration starts a calibration run.
	RequestCalibration(ctx context.Context) error
	// SetSecurityPin stores the PIN used for authorized commands.
	SetSecurityPin(ctx context.Context, pin uint16) error

	// Settings reads the lock's configuration keyed by entity slot.
	Settings(ctx context.Context) (map[string]any, error)
	// SetSetting writes one configuration value keyed by entity slot.
	SetSetting(ctx context.Context, key string, value any) error

	// AuthData reads the authorization names keyed by id.
	AuthData(ctx context.Context) (map[uint32]string, error)
	// EventLog reads up to max of the newest event-log entries.
	EventLog(ctx context.Context, max int) ([]event.LogEntry, error)
}
