package calendar

import (
	"fmt"
	"time"
)

// InvalidRuleError is returned when a weekly rule is structurally invalid:
// unknown weekday, a period with equal or crossed endpoints outside the
// overnight convention, or two periods of the same weekday overlapping
// once overnight splitting is accounted for.
type InvalidRuleError struct {
	Weekday Weekday
	Reason  string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("calendar: invalid rule for weekday %s: %s", e.Weekday, e.Reason)
}

// InvalidExceptionError is returned when a dated exception is malformed
// (is_working=true without a time range) or when an is_working=true
// window overlaps an already-working period instead of merging with it.
type InvalidExceptionError struct {
	Date   time.Time
	Reason string
}

func (e *InvalidExceptionError) Error() string {
	return fmt.Sprintf("calendar: invalid exception on %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// InfeasibleError is returned by the lazy walk when a query cannot
// terminate within the bounded lookahead used to detect an effectively
// empty pattern. Unlike capacity.InfeasibleError, this carries no
// work-unit accounting — the lazy walk never touches an allocation.
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("calendar: infeasible: %s", e.Reason)
}
