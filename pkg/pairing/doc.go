// Package pairing implements the lock's pairing-mode state machine.
//
// The timer moves between Normal and Pairing. Enable enters Pairing and
// arms a deadline; the periodic Poll returns to Normal once the deadline
// has passed; Disable returns to Normal immediately. Every transition
// publishes an event on the configured publisher.
//
// # Timing
//
// The deadline is soft: it is checked on each poll tick, so PairingModeOff
// may fire up to one poll interval after the deadline.
package pairing
