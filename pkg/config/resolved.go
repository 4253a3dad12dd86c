package config

import (
	"reflect"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// EntityRef is the user-facing sub-configuration of an entity slot.
type EntityRef struct {
	Name              string
	ID                string
	Icon              string
	Internal          bool
	DisabledByDefault bool
}

// raw returns the mapping form accepted by Validate.
func (e EntityRef) raw() map[string]any {
	m := make(map[string]any)
	if e.Name != "" {
		m["name"] = e.Name
	}
	if e.ID != "" {
		m["id"] = e.ID
	}
	if e.Icon != "" {
		m["icon"] = e.Icon
	}
	if e.Internal {
		m["internal"] = true
	}
	if e.DisabledByDefault {
		m["disabled_by_default"] = true
	}
	return m
}

// ResolvedConfig is a validated configuration: every registry key holds
// either a user value within bounds or its default, and optional slots
// without a default are absent unless supplied.
type ResolvedConfig struct {
	registry *schema.Registry
	values   map[string]any
}

// Registry returns the schema the configuration was validated against.
func (c *ResolvedConfig) Registry() *schema.Registry { return c.registry }

// Has reports whether key is present (supplied or defaulted).
func (c *ResolvedConfig) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Len returns the number of present keys.
func (c *ResolvedConfig) Len() int { return len(c.values) }

// Keys returns present keys in registry order.
func (c *ResolvedConfig) Keys() []string {
	var keys []string
	for _, f := range c.registry.Fields() {
		if _, ok := c.values[f.Key]; ok {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Value returns the typed value for key.
func (c *ResolvedConfig) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Bool returns a bool slot, false if absent.
func (c *ResolvedConfig) Bool(key string) bool {
	v, _ := c.values[key].(bool)
	return v
}

// UInt returns a uint slot, 0 if absent.
func (c *ResolvedConfig) UInt(key string) uint64 {
	v, _ := c.values[key].(uint64)
	return v
}

// Enum returns an enum slot, "" if absent.
func (c *ResolvedConfig) Enum(key string) string {
	v, _ := c.values[key].(string)
	return v
}

// Duration returns a duration slot, 0 if absent.
func (c *ResolvedConfig) Duration(key string) time.Duration {
	v, _ := c.values[key].(time.Duration)
	return v
}

// Entity returns the sub-configuration of an entity slot.
func (c *ResolvedConfig) Entity(key string) (EntityRef, bool) {
	v, ok := c.values[key].(EntityRef)
	return v, ok
}

// Trigger returns the action list bound to a trigger slot.
func (c *ResolvedConfig) Trigger(key string) []string {
	v, _ := c.values[key].([]string)
	return append([]string(nil), v...)
}

// Raw returns the configuration as a raw tree that validates back to an
// equal ResolvedConfig.
func (c *ResolvedConfig) Raw() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		switch val := v.(type) {
		case time.Duration:
			out[k] = schema.FormatDuration(val)
		case EntityRef:
			out[k] = val.raw()
		case []string:
			list := make([]any, len(val))
			for i, s := range val {
				list[i] = s
			}
			out[k] = list
		default:
			out[k] = val
		}
	}
	return out
}

// Redacted returns Raw with the security PIN replaced by its fingerprint.
func (c *ResolvedConfig) Redacted() map[string]any {
	out := c.Raw()
	if pin := c.UInt(KeySecurityPin); pin != 0 {
		out[KeySecurityPin] = PinFingerprint(uint16(pin))
	}
	return out
}

// Equal reports whether both configurations hold the same values under
// the same schema version.
func (c *ResolvedConfig) Equal(other *ResolvedConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.registry.Version() != other.registry.Version() {
		return false
	}
	return reflect.DeepEqual(c.values, other.values)
}
