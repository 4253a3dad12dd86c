package eventlog

import (
	"time"

	"github.com/google/uuid"
)

// Record is one recorded runtime occurrence. Exactly one payload is set,
// matching Category.
type Record struct {
	// Timestamp when the record was produced (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one runtime session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// DeviceID is the lock component's device id.
	DeviceID uint32 `cbor:"3,keyasint,omitempty"`

	// Category classifies the payload.
	Category Category `cbor:"4,keyasint"`

	Transition *Transition `cbor:"10,keyasint,omitempty"`
	Entry      *Entry      `cbor:"11,keyasint,omitempty"`
	Action     *Action     `cbor:"12,keyasint,omitempty"`
	State      *State      `cbor:"13,keyasint,omitempty"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string { return uuid.NewString() }

// Category classifies a record.
type Category uint8

const (
	// CategoryTransition is a pairing-mode or pairing event.
	CategoryTransition Category = 0
	// CategoryEntry is an entry of the lock's own event log.
	CategoryEntry Category = 1
	// CategoryAction is the outcome of an action sent to the lock.
	CategoryAction Category = 2
	// CategoryState is a lock state snapshot.
	CategoryState Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransition:
		return "TRANSITION"
	case CategoryEntry:
		return "ENTRY"
	case CategoryAction:
		return "ACTION"
	case CategoryState:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name as printed by String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryTransition, CategoryEntry, CategoryAction, CategoryState} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Transition records a runtime event of the pairing state machine.
type Transition struct {
	// Event is the event name, e.g. "pairing_mode_on".
	Event string `cbor:"1,keyasint"`
}

// Entry mirrors one lock event-log entry.
type Entry struct {
	Index     uint32    `cbor:"1,keyasint"`
	Timestamp time.Time `cbor:"2,keyasint"`
	AuthID    uint32    `cbor:"3,keyasint,omitempty"`
	Name      string    `cbor:"4,keyasint,omitempty"`
	Type      string    `cbor:"5,keyasint"`
	Data      []byte    `cbor:"6,keyasint,omitempty"`
}

// Action records one action invocation.
type Action struct {
	Name     string `cbor:"1,keyasint"`
	Attempts int    `cbor:"2,keyasint"`
	// Duration from first attempt to completion, in nanoseconds.
	Duration time.Duration `cbor:"3,keyasint"`
	// Error is empty on success.
	Error string `cbor:"4,keyasint,omitempty"`
}

// State is a lock state snapshot.
type State struct {
	LockState       string `cbor:"1,keyasint"`
	DoorState       string `cbor:"2,keyasint,omitempty"`
	BatteryCritical bool   `cbor:"3,keyasint,omitempty"`
	BatteryLevel    uint8  `cbor:"4,keyasint,omitempty"`
}
