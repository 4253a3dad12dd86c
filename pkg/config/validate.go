package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// idPattern is the form of an entity id; ids become C++ variable names.
var idPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedIDs cannot be used as entity ids.
var reservedIDs = map[string]bool{
	"auto": true, "bool": true, "break": true, "case": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"delete": true, "do": true, "double": true, "else": true, "enum": true,
	"false": true, "float": true, "for": true, "if": true, "int": true,
	"long": true, "namespace": true, "new": true, "nullptr": true,
	"return": true, "static": true, "struct": true, "switch": true,
	"this": true, "true": true, "void": true, "while": true, "App": true,
	"nuki_lock_component": true,
}

// entitySubKeys are the keys accepted inside an entity slot mapping.
var entitySubKeys = map[string]bool{
	"name":                true,
	"id":                  true,
	"icon":                true,
	"internal":            true,
	"disabled_by_default": true,
}

// Validate checks raw against reg and returns the resolved configuration.
// On failure it returns a *ValidationError and no configuration.
func Validate(raw map[string]any, reg *schema.Registry) (*ResolvedConfig, error) {
	verr := &ValidationError{}
	values := make(map[string]any, reg.Len())

	for _, f := range reg.Fields() {
		v, supplied := raw[f.Key]
		if !supplied {
			switch {
			case f.Required:
				verr.add(f.Key, ErrMissingRequiredField, "")
			case f.HasDefault():
				values[f.Key] = f.Default
			}
			continue
		}

		resolved, ok := resolveField(f, v, verr)
		if ok {
			values[f.Key] = resolved
		}
	}

	checkEntityIDs(reg, values, verr)

	var unknown []string
	for k := range raw {
		if _, ok := reg.Field(k); !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		verr.add(k, ErrUnknownField, "not declared in schema %s", reg.Version())
	}

	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return &ResolvedConfig{registry: reg, values: values}, nil
}

func resolveField(f schema.Field, v any, verr *ValidationError) (any, bool) {
	switch f.Kind {
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			verr.add(f.Key, ErrTypeMismatch, "want bool, got %s", typeName(v))
			return nil, false
		}
		return b, true

	case schema.KindUInt:
		n, neg, ok := toUint(v)
		if !ok {
			verr.add(f.Key, ErrTypeMismatch, "want unsigned integer, got %s", typeName(v))
			return nil, false
		}
		if neg {
			verr.add(f.Key, ErrOutOfBounds, "%v is negative", v)
			return nil, false
		}
		if f.Range != nil && !f.Range.Contains(n) {
			verr.add(f.Key, ErrOutOfBounds, "%d not in %s", n, f.Range)
			return nil, false
		}
		return n, true

	case schema.KindEnum:
		s, ok := v.(string)
		if !ok {
			verr.add(f.Key, ErrTypeMismatch, "want string, got %s", typeName(v))
			return nil, false
		}
		if !f.AllowsOption(s) {
			verr.add(f.Key, ErrOutOfBounds, "%q is not one of %q", s, f.Options)
			return nil, false
		}
		return s, true

	case schema.KindDuration:
		d, err := toDuration(v)
		if errors.Is(err, schema.ErrDurationOverflow) {
			verr.add(f.Key, ErrOutOfBounds, "%v overflows", v)
			return nil, false
		}
		if err != nil {
			verr.add(f.Key, ErrTypeMismatch, "want duration, got %s %v", typeName(v), v)
			return nil, false
		}
		if f.Range != nil && !f.Range.Contains(uint64(d)) {
			verr.add(f.Key, ErrOutOfBounds, "%s not in [%s, %s]", d,
				time.Duration(f.Range.Min), time.Duration(f.Range.Max))
			return nil, false
		}
		return d, true

	case schema.KindEntityRef:
		return resolveEntity(f.Key, v, verr)

	case schema.KindTrigger:
		return resolveTrigger(f.Key, v, verr)
	}

	verr.add(f.Key, ErrTypeMismatch, "unsupported kind %s", f.Kind)
	return nil, false
}

func resolveEntity(key string, v any, verr *ValidationError) (any, bool) {
	switch val := v.(type) {
	case nil:
		return EntityRef{}, true
	case EntityRef:
		if val.ID != "" && !validID(key+".id", val.ID, verr) {
			return nil, false
		}
		return val, true
	case string:
		return EntityRef{Name: val}, true
	case map[string]any:
		ref := EntityRef{}
		ok := true

		subKeys := make([]string, 0, len(val))
		for k := range val {
			subKeys = append(subKeys, k)
		}
		sort.Strings(subKeys)

		for _, k := range subKeys {
			sv := val[k]
			path := key + "." + k
			if !entitySubKeys[k] {
				verr.add(path, ErrUnknownField, "entity option not recognised")
				ok = false
				continue
			}
			switch k {
			case "name", "id", "icon":
				s, isStr := sv.(string)
				if !isStr {
					verr.add(path, ErrTypeMismatch, "want string, got %s", typeName(sv))
					ok = false
					continue
				}
				switch k {
				case "name":
					ref.Name = s
				case "id":
					if !validID(path, s, verr) {
						ok = false
						continue
					}
					ref.ID = s
				case "icon":
					ref.Icon = s
				}
			case "internal", "disabled_by_default":
				b, isBool := sv.(bool)
				if !isBool {
					verr.add(path, ErrTypeMismatch, "want bool, got %s", typeName(sv))
					ok = false
					continue
				}
				if k == "internal" {
					ref.Internal = b
				} else {
					ref.DisabledByDefault = b
				}
			}
		}
		if !ok {
			return nil, false
		}
		return ref, true
	}

	verr.add(key, ErrTypeMismatch, "want entity mapping or name, got %s", typeName(v))
	return nil, false
}

func validID(path, id string, verr *ValidationError) bool {
	if !idPattern.MatchString(id) {
		verr.add(path, ErrTypeMismatch, "%q is not an identifier", id)
		return false
	}
	if reservedIDs[id] {
		verr.add(path, ErrTypeMismatch, "%q is a reserved word", id)
		return false
	}
	return true
}

// checkEntityIDs rejects two present entity slots that end up with the
// same variable name, explicit or derived from the slot key.
func checkEntityIDs(reg *schema.Registry, values map[string]any, verr *ValidationError) {
	seen := make(map[string]string)
	for _, f := range reg.Fields() {
		if f.Kind != schema.KindEntityRef || f.Entity == nil {
			continue
		}
		ref, ok := values[f.Key].(EntityRef)
		if !ok {
			continue
		}
		id := ref.ID
		if id == "" {
			id = DefaultEntityID(f.Key, f.Entity.Kind)
		}
		if prev, dup := seen[id]; dup {
			verr.add(f.Key+".id", ErrOutOfBounds, "id %q already used by %s", id, prev)
			continue
		}
		seen[id] = f.Key
	}
}

// DefaultEntityID is the variable name of an entity slot without an
// explicit id.
func DefaultEntityID(key string, kind schema.EntityKind) string {
	return key + "_" + kind.String()
}

func resolveTrigger(key string, v any, verr *ValidationError) (any, bool) {
	switch val := v.(type) {
	case string:
		return []string{val}, true
	case []string:
		return append([]string(nil), val...), true
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				verr.add(fmt.Sprintf("%s[%d]", key, i), ErrTypeMismatch, "want action name, got %s", typeName(item))
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}

	verr.add(key, ErrTypeMismatch, "want action list, got %s", typeName(v))
	return nil, false
}

// toUint converts integral numeric values. neg is set for negative input.
func toUint(v any) (n uint64, neg bool, ok bool) {
	switch val := v.(type) {
	case int:
		return signed(int64(val))
	case int8:
		return signed(int64(val))
	case int16:
		return signed(int64(val))
	case int32:
		return signed(int64(val))
	case int64:
		return signed(val)
	case uint:
		return uint64(val), false, true
	case uint8:
		return uint64(val), false, true
	case uint16:
		return uint64(val), false, true
	case uint32:
		return uint64(val), false, true
	case uint64:
		return val, false, true
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, false, false
		}
		if val < 0 {
			return 0, true, true
		}
		if val >= math.MaxUint64 {
			return math.MaxUint64, false, true
		}
		return uint64(val), false, true
	}
	return 0, false, false
}

func signed(v int64) (uint64, bool, bool) {
	if v < 0 {
		return 0, true, true
	}
	return uint64(v), false, true
}

var errNotDuration = errors.New("not a duration")

// toDuration converts a duration literal; bare integers are seconds.
func toDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		if val < 0 {
			return 0, errNotDuration
		}
		return val, nil
	case string:
		return schema.ParseDuration(val)
	case int:
		if val < 0 {
			return 0, errNotDuration
		}
		return schema.Scale(uint64(val), time.Second)
	case uint64:
		return schema.Scale(val, time.Second)
	}
	return 0, errNotDuration
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "number"
	case []any, []string:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
