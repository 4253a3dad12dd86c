package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the newest schema version embedded in this build.
const Current = "2.0"

// Version represents a parsed "major.minor" schema version.
type Version struct {
	Major uint16
	Minor uint16
}

// ParseVersion parses a "major.minor" version string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid schema version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid schema version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid schema version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether a configuration written for other can be
// validated against v. Minor versions only add optional slots.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major && v.Minor >= other.Minor
}
