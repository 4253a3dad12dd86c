// Package event delivers the lock's runtime events to subscribers.
//
// Events are published by the pairing timer (PairingModeOn, PairingModeOff,
// Paired) and by the lock component (EventLogReceived). Publishing never
// blocks: each subscription owns a bounded queue and an event that does not
// fit is dropped and counted.
//
// # Ordering
//
// Events from one publisher reach each subscription in publish order.
//
// # Lifecycle
//
// A subscription lives until it is cancelled or the bus is closed. Both
// close the subscription's channel.
package event
