// Package config validates a raw nuki_lock configuration section against a
// schema.Registry and produces a fully resolved, typed configuration.
//
// Validation is pure: it reads the raw tree and the registry and returns
// either a complete ResolvedConfig or a ValidationError listing every
// problem found, never a partial result. Validating the Raw form of a
// resolved configuration returns an equal configuration.
//
// Raw values are expected in the shapes produced by gopkg.in/yaml.v3 when
// decoding into any: bool, int, uint64, float64, string, []any and
// map[string]any. Already-typed values (uint64, time.Duration, EntityRef,
// []string) are accepted as well.
package config
