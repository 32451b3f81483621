package match

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a 24-hour wall-clock time with minute precision
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock validates hour and minute. ok is false outside 0-23 / 0-59.
func ParseClock(hour, minute int) (Clock, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Before reports whether c is earlier in the day than o
func (c Clock) Before(o Clock) bool {
	if c.Hour != o.Hour {
		return c.Hour < o.Hour
	}
	return c.Minute < o.Minute
}

// MarshalText implements encoding.TextMarshaler
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Clock) UnmarshalText(data []byte) error {
	hh, mm, found := strings.Cut(string(data), ":")
	if !found {
		return fmt.Errorf("invalid clock %q", data)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return fmt.Errorf("invalid clock hour %q: %w", hh, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return fmt.Errorf("invalid clock minute %q: %w", mm, err)
	}
	parsed, ok := ParseClock(h, m)
	if !ok {
		return fmt.Errorf("clock out of range: %q", data)
	}
	*c = parsed
	return nil
}
