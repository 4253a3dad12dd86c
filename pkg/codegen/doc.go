// Package codegen renders the C++ wiring unit that instantiates the lock
// component and its entities on the target firmware.
//
// The output is deterministic: entities, settings and triggers follow
// schema order. Durations are passed to setters in milliseconds.
package codegen
