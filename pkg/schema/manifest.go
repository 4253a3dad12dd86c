package schema

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed specs/*.yaml
var specFS embed.FS

// ErrVersionNotFound is returned by Load for versions with no manifest.
var ErrVersionNotFound = errors.New("schema version not found")

// manifest is the on-disk form of a schema version.
type manifest struct {
	Version     string              `yaml:"version"`
	Description string              `yaml:"description"`
	Options     map[string][]string `yaml:"options"`
	Fields      []fieldSpec         `yaml:"fields"`
}

type fieldSpec struct {
	Key         string       `yaml:"key"`
	Kind        string       `yaml:"kind"`
	Required    bool         `yaml:"required"`
	Default     any          `yaml:"default"`
	Min         any          `yaml:"min"`
	Max         any          `yaml:"max"`
	Options     []string     `yaml:"options"`
	Entity      string       `yaml:"entity"`
	DeviceClass string       `yaml:"device_class"`
	Category    string       `yaml:"entity_category"`
	Icon        string       `yaml:"icon"`
	Unit        string       `yaml:"unit"`
	Number      *NumberRange `yaml:"number"`
	OptionList  string       `yaml:"option_list"`
	Event       string       `yaml:"event"`
	Description string       `yaml:"description"`
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Registry)
)

// Load returns the registry for a schema version (e.g. "2.0").
func Load(ver string) (*Registry, error) {
	if _, err := ParseVersion(ver); err != nil {
		return nil, err
	}

	cacheMu.RLock()
	if r, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return r, nil
	}
	cacheMu.RUnlock()

	data, err := specFS.ReadFile("specs/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrVersionNotFound, ver)
	}

	r, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", ver, err)
	}
	if r.version != ver {
		return nil, fmt.Errorf("parsing schema %q: manifest declares version %q", ver, r.version)
	}

	cacheMu.Lock()
	cache[ver] = r
	cacheMu.Unlock()

	return r, nil
}

// LoadCurrent returns the registry for the Current version.
func LoadCurrent() (*Registry, error) {
	return Load(Current)
}

// Available returns the version strings of all embedded manifests.
func Available() ([]string, error) {
	entries, err := specFS.ReadDir("specs")
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func parseManifest(data []byte) (*Registry, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(m.Fields))
	for _, fs := range m.Fields {
		f, err := fs.toField()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
		fields = append(fields, f)
	}

	r, err := NewRegistry(m.Version, m.Options, fields...)
	if err != nil {
		return nil, err
	}
	r.description = m.Description
	return r, nil
}

func (fs fieldSpec) toField() (Field, error) {
	kind, err := ParseKind(fs.Kind)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %v", fs.Key, err)
	}

	f := Field{
		Key:         fs.Key,
		Kind:        kind,
		Required:    fs.Required,
		Options:     fs.Options,
		Event:       fs.Event,
		Description: fs.Description,
	}

	switch kind {
	case KindBool:
		if fs.Default != nil {
			b, ok := fs.Default.(bool)
			if !ok {
				return Field{}, fmt.Errorf("field %q: default %v is not a bool", fs.Key, fs.Default)
			}
			f.Default = b
		}
	case KindUInt:
		if f.Default, err = optionalUint(fs.Default); err != nil {
			return Field{}, fmt.Errorf("field %q: default: %v", fs.Key, err)
		}
		if f.Range, err = uintRange(fs.Min, fs.Max); err != nil {
			return Field{}, fmt.Errorf("field %q: %v", fs.Key, err)
		}
	case KindDuration:
		if fs.Default != nil {
			d, err := manifestDuration(fs.Default)
			if err != nil {
				return Field{}, fmt.Errorf("field %q: default: %v", fs.Key, err)
			}
			f.Default = d
		}
		if fs.Min != nil || fs.Max != nil {
			min, max := time.Duration(0), time.Duration(1<<63-1)
			if fs.Min != nil {
				if min, err = manifestDuration(fs.Min); err != nil {
					return Field{}, fmt.Errorf("field %q: min: %v", fs.Key, err)
				}
			}
			if fs.Max != nil {
				if max, err = manifestDuration(fs.Max); err != nil {
					return Field{}, fmt.Errorf("field %q: max: %v", fs.Key, err)
				}
			}
			f.Range = DurationRange(min, max)
		}
	case KindEnum:
		if fs.Default != nil {
			s, ok := fs.Default.(string)
			if !ok {
				return Field{}, fmt.Errorf("field %q: default %v is not a string", fs.Key, fs.Default)
			}
			f.Default = s
		}
	case KindEntityRef:
		ek, err := ParseEntityKind(fs.Entity)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %v", fs.Key, err)
		}
		f.Entity = &EntityMeta{
			Kind:        ek,
			DeviceClass: fs.DeviceClass,
			Category:    Category(fs.Category),
			Icon:        fs.Icon,
			Unit:        fs.Unit,
			Number:      fs.Number,
			OptionList:  fs.OptionList,
		}
	}

	return f, nil
}

func optionalUint(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	u, err := manifestUint(v)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func uintRange(min, max any) (*Range, error) {
	if min == nil && max == nil {
		return nil, nil
	}
	r := &Range{Min: 0, Max: 1<<64 - 1}
	var err error
	if min != nil {
		if r.Min, err = manifestUint(min); err != nil {
			return nil, fmt.Errorf("min: %v", err)
		}
	}
	if max != nil {
		if r.Max, err = manifestUint(max); err != nil {
			return nil, fmt.Errorf("max: %v", err)
		}
	}
	return r, nil
}

func manifestUint(v any) (uint64, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	default:
		return 0, fmt.Errorf("value %v is not an unsigned integer", v)
	}
}

func manifestDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		return ParseDuration(d)
	case int:
		if d < 0 {
			return 0, fmt.Errorf("negative duration %d", d)
		}
		return time.Duration(d) * time.Second, nil
	default:
		return 0, fmt.Errorf("value %v is not a duration", v)
	}
}
