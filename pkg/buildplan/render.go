package buildplan

import (
	"fmt"
	"strings"
)

// SDKConfig renders the sdkconfig entries as "KEY=value" lines, suitable
// for an sdkconfig.defaults file.
func (p *BuildPlan) SDKConfig() string {
	var sb strings.Builder
	for _, e := range p.Of(KindSDKConfig) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Flags returns the compiler flags (defines and plain flags) in emission
// order.
func (p *BuildPlan) Flags() []string {
	var out []string
	for _, e := range p.Entries {
		if e.Kind == KindDefine || e.Kind == KindBuildFlag {
			out = append(out, e.String())
		}
	}
	return out
}

// Unflags returns the flags to remove from the base profile.
func (p *BuildPlan) Unflags() []string {
	var out []string
	for _, e := range p.Of(KindUnflag) {
		out = append(out, e.String())
	}
	return out
}

// PlatformIO renders an ini fragment with build_flags, build_unflags and
// lib_deps.
func (p *BuildPlan) PlatformIO() string {
	var sb strings.Builder
	writeList := func(key string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s =\n", key)
		for _, it := range items {
			fmt.Fprintf(&sb, "    %s\n", it)
		}
	}

	sb.WriteString("[env]\n")
	writeList("build_flags", p.Flags())
	writeList("build_unflags", p.Unflags())

	deps := make([]string, len(p.Dependencies))
	for i, d := range p.Dependencies {
		deps[i] = d.String()
	}
	writeList("lib_deps", deps)
	return sb.String()
}

// String renders every entry, one per line, for diagnostics.
func (p *BuildPlan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "variant: %s\n", p.Variant)
	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "%-10s %s\n", e.Kind, e)
	}
	for _, d := range p.Dependencies {
		fmt.Fprintf(&sb, "%-10s %s\n", "lib", d)
	}
	return sb.String()
}
