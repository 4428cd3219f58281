package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day expressed as minutes since midnight, [0, 1440).
// It deliberately carries no date and no zone — a Pattern's weekly rules
// and exceptions describe a recurring shape, not a specific instant.
type Clock int

// NewClock builds a Clock from an hour/minute pair.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses an "HH:MM" string, the wire format used by the
// fixtures package's JSON rows.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("calendar: malformed clock %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("calendar: malformed clock %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("calendar: malformed clock %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("calendar: clock %q out of range", s)
	}
	return NewClock(hour, minute), nil
}

// Midnight is Clock(00:00). As an End it denotes the end of a day; as the
// End of a period whose Start is later in the day it signals the overnight
// convention (end_time < start_time).
const Midnight Clock = 0

// Hour returns the hour component, 0-23.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component, 0-59.
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
