package buildplan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/config"
)

// ErrUnknownVariant is returned for a platform variant the planner does not
// know.
var ErrUnknownVariant = errors.New("unknown platform variant")

// Variant selects the compilation target.
type Variant uint8

const (
	// VariantIDF is the native SDK framework, configured via sdkconfig options.
	VariantIDF Variant = iota + 1
	// VariantArduino is the generic toolchain, configured via build flags.
	VariantArduino
)

// String returns the framework name as written in the system document.
func (v Variant) String() string {
	switch v {
	case VariantIDF:
		return "esp-idf"
	case VariantArduino:
		return "arduino"
	default:
		return fmt.Sprintf("variant(%d)", v)
	}
}

// ParseVariant parses a framework name.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esp-idf", "esp_idf", "idf":
		return VariantIDF, nil
	case "arduino":
		return VariantArduino, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// EntryKind classifies a plan entry.
type EntryKind uint8

const (
	// KindSDKConfig is an sdkconfig option (Variant A).
	KindSDKConfig EntryKind = iota
	// KindDefine is a preprocessor define passed as a build flag.
	KindDefine
	// KindBuildFlag is any other compiler flag.
	KindBuildFlag
	// KindUnflag removes a flag a base toolchain profile would set.
	KindUnflag
)

var entryKindNames = []string{"sdkconfig", "define", "build_flag", "unflag"}

func (k EntryKind) String() string {
	if int(k) < len(entryKindNames) {
		return entryKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Entry is one emitted flag. Value is a bool or a string.
type Entry struct {
	Kind  EntryKind
	Flag  string
	Value any
}

// String renders the entry the way the build tooling consumes it.
func (e Entry) String() string {
	switch e.Kind {
	case KindSDKConfig:
		switch v := e.Value.(type) {
		case bool:
			if v {
				return e.Flag + "=y"
			}
			return e.Flag + "=n"
		default:
			return fmt.Sprintf("%s=%v", e.Flag, v)
		}
	case KindDefine:
		if s, ok := e.Value.(string); ok && s != "" {
			return fmt.Sprintf("-D%s=%s", e.Flag, s)
		}
		return "-D" + e.Flag
	default:
		return e.Flag
	}
}

// Dependency is a library pinned by the plan. An empty Version means the
// default branch of the repository.
type Dependency struct {
	Name    string
	Version string
}

// String renders the dependency as "name@version".
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

// Capabilities are the platform features the planner branches on. They are
// derived from the system document, not from the device configuration.
type Capabilities struct {
	// ExternalMemory is set when fast external memory (PSRAM) is declared.
	ExternalMemory bool
}

// BuildPlan is the ordered output of Plan.
type BuildPlan struct {
	Variant      Variant
	Entries      []Entry
	Dependencies []Dependency
}

func (p *BuildPlan) add(kind EntryKind, flag string, value any) {
	p.Entries = append(p.Entries, Entry{Kind: kind, Flag: flag, Value: value})
}

func (p *BuildPlan) dep(name, version string) {
	p.Dependencies = append(p.Dependencies, Dependency{Name: name, Version: version})
}

// Of returns the entries of one kind in emission order.
func (p *BuildPlan) Of(kind EntryKind) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether an entry with the given flag was emitted.
func (p *BuildPlan) Has(flag string) bool {
	for _, e := range p.Entries {
		if e.Flag == flag {
			return true
		}
	}
	return false
}

// Plan emits the build plan for cfg on the given variant. Entries are
// appended in a fixed order so identical inputs produce identical plans.
func Plan(cfg *config.ResolvedConfig, variant Variant, caps Capabilities) (*BuildPlan, error) {
	if cfg == nil {
		return nil, errors.New("buildplan: nil configuration")
	}

	p := &BuildPlan{Variant: variant}
	switch variant {
	case VariantIDF:
		planIDF(p, caps)
	case VariantArduino:
		planArduino(p, caps)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}

	planCommon(p, cfg)
	return p, nil
}
