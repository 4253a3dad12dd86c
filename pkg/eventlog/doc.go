// Package eventlog records the lock runtime's activity as a
// machine-readable trace.
//
// It is separate from operational logging (slog): a Record captures
// pairing transitions, lock event-log entries, action outcomes and state
// snapshots, so a session can be replayed and filtered after the fact.
//
// # Basic Usage
//
//	// Console during development
//	rec := eventlog.NewSlogAdapter(slog.Default())
//
//	// Binary file in production
//	rec, _ := eventlog.NewFileLogger("/var/lib/nuki/lock.nlog")
//
//	// Both
//	rec := eventlog.NewMultiLogger(console, file)
//
// # File Format
//
// Log files are a stream of CBOR records with integer keys, using the
// .nlog extension. The nuki-log CLI views and filters them.
package eventlog
