// Package lock is the runtime half of the compiled lock device.
//
// A Component owns the built entity graph, the pairing-mode timer and the
// event bus, and delegates every action to a Protocol: the BLE
// collaborator that actually talks to the lock. The component maps the
// protocol's key-turner state onto entity states, retries failed actions
// with a constant cooldown, and refreshes settings, auth data and the
// lock's event log in the background.
package lock
