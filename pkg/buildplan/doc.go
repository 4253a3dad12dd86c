// Package buildplan emits the platform build plan for a lock device: the
// ordered feature flags, conditional defines, unset flags and pinned
// libraries needed to compile the BLE stack for one of two targets.
//
// VariantIDF expresses the plan as sdkconfig options. VariantArduino
// expresses the same intent as preprocessor defines and must also unset
// flags that the base toolchain profile sets, because it does not own the
// flag namespace. Both variants disable the library's watchdog reset and
// suppress a fixed list of warnings.
//
// Plans are append-only: entries are emitted in a fixed order and never
// reordered, since downstream tools apply flags by precedence.
package buildplan
