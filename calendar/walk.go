/*
walk.go - the lazy walk (spec.md §4.3)

Forward, backward, counting, and enumeration all share one discipline:
resolve one date's periods via Pattern.PeriodsForDate, consume what's
needed, advance or retreat the date, repeat. None of them ever build a
horizon; a query over a ten-year range costs exactly as many
PeriodsForDate calls as there are days in the range, no more.
*/
package calendar

import (
	"time"

	"github.com/brightloom/schedcore/timeunit"
)

// maxConsecutiveEmptyDays bounds how many non-working days in a row the
// forward/backward walk will cross before concluding the pattern cannot
// satisfy the request and reporting InfeasibleError, per spec.md §4.3's
// requirement to "detect all-empty patterns" rather than loop forever.
const maxConsecutiveEmptyDays = 1100 // ~3 years

// Calendar pairs an immutable Pattern with the Resolution that defines
// what one "unit" means in wall-clock time. Two Calendars built from the
// same Pattern but different Resolutions answer different questions
// (e.g. "how many working hours" vs "how many working minutes") without
// either one mutating the Pattern.
type Calendar struct {
	pattern    *Pattern
	resolution timeunit.Resolution
}

// NewCalendar builds a Calendar over pattern at the given resolution.
func NewCalendar(pattern *Pattern, resolution timeunit.Resolution) *Calendar {
	return &Calendar{pattern: pattern, resolution: resolution}
}

// Pattern returns the underlying pattern.
func (c *Calendar) Pattern() *Pattern { return c.pattern }

// Resolution returns the unit duration this calendar counts in.
func (c *Calendar) Resolution() timeunit.Resolution { return c.resolution }

func (c *Calendar) unitDuration() time.Duration {
	return time.Duration(c.resolution.UnitSeconds()) * time.Second
}

// AddUnits walks forward from startDt by units working units and returns
// the resulting datetime (spec.md §4.3, "Forward").
func (c *Calendar) AddUnits(startDt time.Time, units int64) (time.Time, error) {
	if err := timeunit.RequireNaive(startDt); err != nil {
		return time.Time{}, err
	}
	if units == 0 {
		return startDt, nil
	}

	unit := c.unitDuration()
	remaining := units
	cursor := startDt
	emptyDays := 0

	for {
		periods, err := c.pattern.PeriodsForDate(cursor)
		if err != nil {
			return time.Time{}, err
		}
		dayHadWork := false
		for _, per := range periods {
			effectiveStart := maxTime(cursor, per.Start)
			if !effectiveStart.Before(per.End) {
				continue
			}
			dayHadWork = true
			available := int64(per.End.Sub(effectiveStart) / unit)
			if remaining <= available {
				return effectiveStart.Add(time.Duration(remaining) * unit), nil
			}
			remaining -= available
		}
		if dayHadWork {
			emptyDays = 0
		} else {
			emptyDays++
			if emptyDays > maxConsecutiveEmptyDays {
				return time.Time{}, &InfeasibleError{Reason: "no working time found within lookahead bound"}
			}
		}
		y, m, d := cursor.Date()
		cursor = time.Date(y, m, d+1, 0, 0, 0, 0, cursor.Location())
	}
}

// SubtractUnits walks backward from endDt by units working units and
// returns the resulting datetime (spec.md §4.3, "Backward").
func (c *Calendar) SubtractUnits(endDt time.Time, units int64) (time.Time, error) {
	if err := timeunit.RequireNaive(endDt); err != nil {
		return time.Time{}, err
	}
	if units == 0 {
		return endDt, nil
	}

	unit := c.unitDuration()
	remaining := units
	y, m, d := endDt.Date()
	cursorDate := time.Date(y, m, d, 0, 0, 0, 0, endDt.Location())
	clamp := endDt // only clamps the first (partial) day; full day boundary thereafter
	emptyDays := 0

	for {
		periods, err := c.pattern.PeriodsForDate(cursorDate)
		if err != nil {
			return time.Time{}, err
		}
		dayHadWork := false
		for i := len(periods) - 1; i >= 0; i-- {
			per := periods[i]
			effectiveEnd := minTime(clamp, per.End)
			if !effectiveEnd.After(per.Start) {
				continue
			}
			dayHadWork = true
			available := int64(effectiveEnd.Sub(per.Start) / unit)
			if remaining <= available {
				return effectiveEnd.Add(-time.Duration(remaining) * unit), nil
			}
			remaining -= available
		}
		if dayHadWork {
			emptyDays = 0
		} else {
			emptyDays++
			if emptyDays > maxConsecutiveEmptyDays {
				return time.Time{}, &InfeasibleError{Reason: "no working time found within lookahead bound"}
			}
		}
		cursorDate = cursorDate.AddDate(0, 0, -1)
		clamp = cursorDate.AddDate(0, 0, 1)
	}
}

// WorkingUnitsBetween sums clipped overlaps of each day's periods with
// [a, b) and returns the count in units (spec.md §4.3, "Counting").
// Requires a <= b.
func (c *Calendar) WorkingUnitsBetween(a, b time.Time) (int64, error) {
	if err := timeunit.RequireNaive(a); err != nil {
		return 0, err
	}
	if err := timeunit.RequireNaive(b); err != nil {
		return 0, err
	}
	if b.Before(a) {
		return 0, &InfeasibleError{Reason: "b before a"}
	}

	unit := c.unitDuration()
	var total int64
	cursor := a
	for cursor.Before(b) {
		periods, err := c.pattern.PeriodsForDate(cursor)
		if err != nil {
			return 0, err
		}
		for _, per := range periods {
			start := maxTime(a, per.Start)
			end := minTime(b, per.End)
			if end.After(start) {
				total += int64(end.Sub(start) / unit)
			}
		}
		y, m, d := cursor.Date()
		cursor = time.Date(y, m, d+1, 0, 0, 0, 0, cursor.Location())
	}
	return total, nil
}

// IntervalIter is a finite, non-restartable, forward iterator over the
// clipped period overlaps of a range, produced by WorkingIntervalsInRange.
// A fresh call to WorkingIntervalsInRange is required for each traversal.
type IntervalIter struct {
	cal     *Calendar
	rangeLo time.Time
	rangeHi time.Time
	cursor  time.Time
	pending []DayPeriod
	pidx    int
	err     error
	done    bool
}

// WorkingIntervalsInRange yields each period's clipped overlap with
// [a, b) in chronological order (spec.md §4.3, "Enumeration").
func (c *Calendar) WorkingIntervalsInRange(a, b time.Time) *IntervalIter {
	return &IntervalIter{cal: c, rangeLo: a, rangeHi: b, cursor: a}
}

// Err returns any error encountered during iteration. Check after Next
// returns false.
func (it *IntervalIter) Err() error { return it.err }

// Next advances the iterator. It returns (period, true) for each clipped
// working period in the range, in order, and (zero, false) once the
// range is exhausted or an error occurred.
func (it *IntervalIter) Next() (DayPeriod, bool) {
	if it.done || it.err != nil {
		return DayPeriod{}, false
	}
	if err := timeunit.RequireNaive(it.rangeLo); err != nil {
		it.err = err
		it.done = true
		return DayPeriod{}, false
	}
	if err := timeunit.RequireNaive(it.rangeHi); err != nil {
		it.err = err
		it.done = true
		return DayPeriod{}, false
	}

	for {
		for it.pidx < len(it.pending) {
			per := it.pending[it.pidx]
			it.pidx++
			start := maxTime(it.rangeLo, per.Start)
			end := minTime(it.rangeHi, per.End)
			if end.After(start) {
				return DayPeriod{Start: start, End: end}, true
			}
		}
		if !it.cursor.Before(it.rangeHi) {
			it.done = true
			return DayPeriod{}, false
		}
		periods, err := it.cal.pattern.PeriodsForDate(it.cursor)
		if err != nil {
			it.err = err
			it.done = true
			return DayPeriod{}, false
		}
		it.pending = periods
		it.pidx = 0
		y, m, d := it.cursor.Date()
		it.cursor = time.Date(y, m, d+1, 0, 0, 0, 0, it.cursor.Location())
	}
}
