// Package persistence stores the lock runtime's state between restarts.
//
// The state is small: whether the bridge is paired, a fingerprint of the
// security PIN it was paired with, and the position in the lock's event
// log. It is written as one JSON file.
package persistence
