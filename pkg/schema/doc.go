// Package schema defines the configuration surface of the nuki_lock
// component: one Field per slot, with its kind, default, bounds and
// entity metadata.
//
// # Versions
//
// The slot tables of every released component version are embedded as
// YAML manifests under specs/ and loaded on demand with Load. Each
// manifest is self-validating: a default that falls outside its own
// bounds, an enum default that is not one of its options, or a select
// slot that names an unknown option list is a load error, not a
// validation-time surprise.
//
// # Option Lists
//
// Select slots reference named option lists. The lists are static and
// ordered; the order is the wire order of the lock's enumeration and
// must not be sorted.
package schema
