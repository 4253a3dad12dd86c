package schema

import "fmt"

// Kind is the value type of a configuration slot.
type Kind uint8

const (
	// KindBool is a true/false setting.
	KindBool Kind = iota
	// KindUInt is an unsigned integer setting with an optional range.
	KindUInt
	// KindEnum is a string setting restricted to a fixed option set.
	KindEnum
	// KindDuration is a time period such as "300s".
	KindDuration
	// KindEntityRef declares an optional (or required) sub-entity.
	KindEntityRef
	// KindTrigger binds a list of automation actions to a runtime event.
	KindTrigger
)

var kindNames = []string{"bool", "uint", "enum", "duration", "entity", "trigger"}

// String returns the manifest name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind parses a manifest kind name.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

// EntityKind is the platform of an entity slot.
type EntityKind uint8

const (
	EntitySensor EntityKind = iota
	EntityBinarySensor
	EntityTextSensor
	EntitySwitch
	EntityNumber
	EntitySelect
	EntityButton
)

var entityKindNames = []string{
	"sensor",
	"binary_sensor",
	"text_sensor",
	"switch",
	"number",
	"select",
	"button",
}

// String returns the platform name of the entity kind.
func (k EntityKind) String() string {
	if int(k) < len(entityKindNames) {
		return entityKindNames[k]
	}
	return fmt.Sprintf("entity(%d)", k)
}

// ParseEntityKind parses a platform name such as "binary_sensor".
func ParseEntityKind(s string) (EntityKind, error) {
	for i, name := range entityKindNames {
		if name == s {
			return EntityKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Category is the entity category tag.
type Category string

const (
	CategoryNone       Category = ""
	CategoryConfig     Category = "config"
	CategoryDiagnostic Category = "diagnostic"
)
