package event

import (
	"fmt"
	"time"
)

// Kind identifies a runtime event.
type Kind uint8

const (
	// PairingModeOn fires when pairing mode is entered.
	PairingModeOn Kind = iota + 1
	// PairingModeOff fires when pairing mode ends by timeout or request.
	PairingModeOff
	// Paired fires when the protocol collaborator completes pairing.
	Paired
	// EventLogReceived carries one lock event-log entry.
	EventLogReceived
)

var kindNames = map[Kind]string{
	PairingModeOn:    "pairing_mode_on",
	PairingModeOff:   "pairing_mode_off",
	Paired:           "paired",
	EventLogReceived: "event_log_received",
}

// String returns the event name used in trigger bindings.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind parses an event name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}

// Kinds returns every event kind in declaration order.
func Kinds() []Kind {
	return []Kind{PairingModeOn, PairingModeOff, Paired, EventLogReceived}
}

// LogEntry is one record of the lock's own event log as reported by the
// protocol collaborator. The bus treats it as opaque.
type LogEntry struct {
	Index     uint32
	Timestamp time.Time
	AuthID    uint32
	Name      string
	Type      string
	Data      []byte
}

// Event is one published occurrence.
type Event struct {
	Kind Kind
	Time time.Time

	// Entry is set for EventLogReceived.
	Entry *LogEntry
}
