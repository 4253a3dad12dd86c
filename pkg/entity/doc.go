// Package entity builds the in-memory entity graph of a lock device from a
// resolved configuration.
//
// The graph is sparse: one EntityNode per entity slot present in the
// configuration, none for absent slots. Nodes are a flat table tagged by
// schema.EntityKind and owned by a single DeviceNode; a node's Owner is a
// back-reference, not an ownership edge. Building twice from the same
// configuration yields equal graphs.
package entity
