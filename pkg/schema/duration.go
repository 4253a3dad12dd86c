package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration errors.
var (
	// ErrInvalidDuration is returned for duration strings that cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrDurationOverflow is returned for durations too long to represent.
	ErrDurationOverflow = errors.New("duration overflows")
)

// durationUnits lists accepted suffixes, longest first so "min" wins over "m"
// and "ms" over "s".
var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"min", time.Minute},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
	{"s", time.Second},
}

// ParseDuration parses a configuration duration such as "300s", "500ms",
// "5min", "1h" or "2d". A bare integer is a number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}

	unit := time.Second
	num := s
	for _, u := range durationUnits {
		if strings.HasSuffix(s, u.suffix) {
			unit = u.unit
			num = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrDurationOverflow, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return Scale(n, unit)
}

// Scale returns n units, or ErrDurationOverflow if the product does not
// fit in a time.Duration.
func Scale(n uint64, unit time.Duration) (time.Duration, error) {
	if unit <= 0 || n > uint64(math.MaxInt64/int64(unit)) {
		return 0, fmt.Errorf("%w: %d x %s", ErrDurationOverflow, n, unit)
	}
	return time.Duration(n) * unit, nil
}

// FormatDuration renders d in the largest unit that divides it exactly, so
// that ParseDuration(FormatDuration(d)) == d.
func FormatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dmin", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	case d%time.Millisecond == 0:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	default:
		return fmt.Sprintf("%dus", d/time.Microsecond)
	}
}
