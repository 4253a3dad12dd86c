package schema

import (
	"fmt"
	"time"
)

// Range is an inclusive numeric bound. Duration ranges are expressed in
// nanoseconds.
type Range struct {
	Min uint64
	Max uint64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v uint64) bool {
	return v >= r.Min && v <= r.Max
}

// DurationRange returns a Range over durations.
func DurationRange(min, max time.Duration) *Range {
	return &Range{Min: uint64(min), Max: uint64(max)}
}

// String formats the range for error messages.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// NumberRange is the value range of a number entity.
type NumberRange struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// EntityMeta is the static entity metadata attached to an entity slot.
type EntityMeta struct {
	Kind        EntityKind
	DeviceClass string
	Category    Category
	Icon        string
	Unit        string

	// Number is set for number entities.
	Number *NumberRange

	// OptionList names the option list of a select entity.
	OptionList string
}

// Field describes a single configuration slot.
type Field struct {
	Key  string
	Kind Kind

	// Required fields have no default and must be supplied.
	Required bool

	// Default is the typed default value: bool, uint64, string or
	// time.Duration. Nil means the slot is absent unless supplied.
	Default any

	// Range bounds UInt and Duration fields.
	Range *Range

	// Options is the allowed set of an Enum field.
	Options []string

	// Entity is set for EntityRef fields.
	Entity *EntityMeta

	// Event names the runtime event a Trigger field binds to.
	Event string

	Description string
}

// HasDefault reports whether the field carries a default value.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// IsEntity reports whether the field declares an entity slot.
func (f Field) IsEntity() bool {
	return f.Kind == KindEntityRef
}

// AllowsOption reports whether s is one of the field's enum options.
// Matching is case-sensitive.
func (f Field) AllowsOption(s string) bool {
	for _, o := range f.Options {
		if o == s {
			return true
		}
	}
	return false
}

// check verifies that the field is internally consistent.
func (f Field) check(options map[string][]string) error {
	if f.Key == "" {
		return fmt.Errorf("field with empty key")
	}
	if f.Required && f.HasDefault() {
		return fmt.Errorf("field %q: required field cannot have a default", f.Key)
	}

	switch f.Kind {
	case KindBool:
		if f.HasDefault() {
			if _, ok := f.Default.(bool); !ok {
				return fmt.Errorf("field %q: bool default has type %T", f.Key, f.Default)
			}
		}
	case KindUInt:
		if f.HasDefault() {
			v, ok := f.Default.(uint64)
			if !ok {
				return fmt.Errorf("field %q: uint default has type %T", f.Key, f.Default)
			}
			if f.Range != nil && !f.Range.Contains(v) {
				return fmt.Errorf("field %q: default %d outside %s", f.Key, v, f.Range)
			}
		}
	case KindDuration:
		if f.HasDefault() {
			v, ok := f.Default.(time.Duration)
			if !ok {
				return fmt.Errorf("field %q: duration default has type %T", f.Key, f.Default)
			}
			if f.Range != nil && !f.Range.Contains(uint64(v)) {
				return fmt.Errorf("field %q: default %s outside range", f.Key, v)
			}
		}
	case KindEnum:
		if len(f.Options) == 0 {
			return fmt.Errorf("field %q: enum without options", f.Key)
		}
		if f.HasDefault() {
			v, ok := f.Default.(string)
			if !ok || !f.AllowsOption(v) {
				return fmt.Errorf("field %q: default %v is not an option", f.Key, f.Default)
			}
		}
	case KindEntityRef:
		if f.Entity == nil {
			return fmt.Errorf("field %q: entity slot without entity metadata", f.Key)
		}
		if f.HasDefault() {
			return fmt.Errorf("field %q: entity slot cannot have a default", f.Key)
		}
		if f.Entity.Kind == EntitySelect {
			if _, ok := options[f.Entity.OptionList]; !ok {
				return fmt.Errorf("field %q: unknown option list %q", f.Key, f.Entity.OptionList)
			}
		}
		if f.Entity.Kind == EntityNumber && f.Entity.Number == nil {
			return fmt.Errorf("field %q: number entity without range", f.Key)
		}
	case KindTrigger:
		if f.Event == "" {
			return fmt.Errorf("field %q: trigger without event", f.Key)
		}
		if f.HasDefault() || f.Required {
			return fmt.Errorf("field %q: trigger cannot be required or defaulted", f.Key)
		}
	default:
		return fmt.Errorf("field %q: unknown kind %s", f.Key, f.Kind)
	}
	return nil
}
