package calendar

import (
	"sort"
	"time"
)

// DayPeriod is a concrete working window on one calendar date, after the
// resolver has composed weekly rules with overnight spillover and dated
// exceptions. Both Start and End fall within [date 00:00, date+1 00:00].
type DayPeriod struct {
	Start time.Time
	End   time.Time
}

// PeriodsForDate resolves the ordered, non-overlapping list of working
// periods for date d (spec.md §4.2). d's clock/zone components are
// ignored; only its calendar date matters, and the returned periods are
// anchored to midnight in d's Location.
func (p *Pattern) PeriodsForDate(d time.Time) ([]DayPeriod, error) {
	y, m, day := d.Date()
	midnight := time.Date(y, m, day, 0, 0, 0, 0, d.Location())
	nextMidnight := midnight.AddDate(0, 0, 1)

	periods := p.baseDayPeriods(midnight, nextMidnight)

	excs := p.exceptions[civilDateOf(d)]
	var fullDayOff bool
	for _, e := range excs {
		if !e.IsWorking && !e.HasRange {
			fullDayOff = true
			break
		}
	}
	if fullDayOff {
		periods = nil
	} else {
		for _, e := range excs {
			if !e.IsWorking && e.HasRange {
				winStart := midnight.Add(clockDuration(e.Start))
				winEnd := midnight.Add(clockDuration(e.End))
				periods = subtractWindow(periods, winStart, winEnd)
			}
		}
	}

	for _, e := range excs {
		if e.IsWorking && e.HasRange {
			winStart := midnight.Add(clockDuration(e.Start))
			winEnd := midnight.Add(clockDuration(e.End))
			var err error
			periods, err = insertWindow(periods, winStart, winEnd, d)
			if err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(periods, func(i, j int) bool { return periods[i].Start.Before(periods[j].Start) })
	for i := 1; i < len(periods); i++ {
		if periods[i].Start.Before(periods[i-1].End) {
			// Invariant: should be unreachable given the construction above;
			// surfaced as InvalidExceptionError rather than panicking since
			// it can only arise from a logic defect, and a caller-visible
			// error is safer than a silent inconsistency.
			return nil, &InvalidExceptionError{Date: d, Reason: "resolved periods overlap"}
		}
	}
	return periods, nil
}

func clockDuration(c Clock) time.Duration {
	return time.Duration(c) * time.Minute
}

// baseDayPeriods computes the weekly-rule periods in force on [midnight,
// nextMidnight) before any exceptions are applied: this weekday's own
// periods (split at midnight if overnight) plus the previous weekday's
// overnight tail.
func (p *Pattern) baseDayPeriods(midnight, nextMidnight time.Time) []DayPeriod {
	var periods []DayPeriod
	wd := weekdayOf(midnight)

	for _, rule := range p.weekly[wd] {
		start := midnight.Add(clockDuration(rule.Start))
		if rule.Overnight() {
			periods = append(periods, DayPeriod{Start: start, End: nextMidnight})
		} else {
			end := midnight.Add(clockDuration(rule.End))
			periods = append(periods, DayPeriod{Start: start, End: end})
		}
	}

	for _, rule := range p.weekly[wd.Previous()] {
		if rule.Overnight() {
			end := midnight.Add(clockDuration(rule.End))
			if end.After(midnight) {
				periods = append(periods, DayPeriod{Start: midnight, End: end})
			}
		}
	}

	return periods
}

// subtractWindow removes [winStart, winEnd) from periods, splitting any
// period it only partially overlaps.
func subtractWindow(periods []DayPeriod, winStart, winEnd time.Time) []DayPeriod {
	var out []DayPeriod
	for _, per := range periods {
		if !winStart.Before(per.End) || !winEnd.After(per.Start) {
			// no overlap
			out = append(out, per)
			continue
		}
		if winStart.After(per.Start) {
			out = append(out, DayPeriod{Start: per.Start, End: minTime(winStart, per.End)})
		}
		if winEnd.Before(per.End) {
			out = append(out, DayPeriod{Start: maxTime(winEnd, per.Start), End: per.End})
		}
	}
	return out
}

// insertWindow adds [winStart, winEnd) to periods. It merges with any
// period it is directly adjacent to, but rejects overlap with an
// existing period as InvalidExceptionError (spec.md §4.2 step 2).
func insertWindow(periods []DayPeriod, winStart, winEnd time.Time, exceptionDate time.Time) ([]DayPeriod, error) {
	newPeriod := DayPeriod{Start: winStart, End: winEnd}
	var out []DayPeriod
	merged := false

	for _, per := range periods {
		switch {
		case per.End.Equal(newPeriod.Start):
			newPeriod.Start = per.Start
			merged = true
		case per.Start.Equal(newPeriod.End):
			newPeriod.End = per.End
			merged = true
		case newPeriod.Start.Before(per.End) && per.Start.Before(newPeriod.End):
			return nil, &InvalidExceptionError{Date: exceptionDate, Reason: "is_working=true window overlaps an existing period"}
		default:
			out = append(out, per)
		}
	}
	_ = merged
	out = append(out, newPeriod)
	return out, nil
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
