/*
Package calendar implements the horizon-free Working Calendar: a named,
immutable availability template (Pattern) composed of a weekly rule table
and a dated exception table, plus the day-period resolver and lazy walk
that answer time-arithmetic questions against it without ever
materialising a horizon.

KEY CONCEPTS:
  - Pattern: identity is PatternID; immutable after New returns.
  - WeeklyRule: for each ISO weekday, an ordered set of within-day periods.
    A period whose end is earlier than its start spills over to the
    following day from 00:00 — the "overnight" convention (spec.md §3.1).
  - Exception: a dated override — remove a day, remove a window, or add a
    window — applied on top of the weekly rule for that one date.

DESIGN PRINCIPLES (mirrors generic/period.go's PeriodConfig shape):
  1. Immutability: once New validates and returns a *Pattern, nothing
     about it can change. Capacity engines hold a reference to it for
     auto-extension; they never need to guard against it mutating under
     them.
  2. Determinism: identical inputs to PeriodsForDate produce identical
     outputs, every time, for every caller.
  3. No materialisation: the resolver answers "what does this one date
     look like", never "give me every working day in a range" — that is
     the lazy walk's job, and it stays lazy too (walk.go).

SEE ALSO:
  - resolver.go: the day-period resolution algorithm (spec.md §4.2)
  - walk.go: forward/backward/counting/enumeration (spec.md §4.3)
*/
package calendar

import (
	"fmt"
	"sort"
	"time"
)

// PatternID identifies a Pattern.
type PatternID string

// WeeklyPeriod is a within-day working window, expressed as two Clock
// values. End < Start denotes an overnight rule: the portion
// [Start, 24:00) belongs to this weekday, and the portion [00:00, End)
// is produced when resolving the following date.
type WeeklyPeriod struct {
	Start Clock
	End   Clock
}

// Overnight reports whether p spills into the following day.
func (p WeeklyPeriod) Overnight() bool { return p.End < p.Start }

// RuleInput is one row of the weekly rule table, as accepted by New.
// Primary key (within one Pattern): (Weekday, Start).
type RuleInput struct {
	Weekday Weekday
	Start   Clock
	End     Clock
}

// ExceptionInput is one row of the dated exception table, as accepted by
// New. IsWorking=false with a zero HasRange removes the entire day.
// IsWorking=false with HasRange removes a window. IsWorking=true always
// requires HasRange (spec.md §7: "is_working=true without a time range"
// is an InvalidExceptionError).
type ExceptionInput struct {
	Date      time.Time
	IsWorking bool
	HasRange  bool
	Start     Clock
	End       Clock
}

// Pattern is a named, immutable availability template: a weekly rule set
// plus a dated exception set.
type Pattern struct {
	id         PatternID
	weekly     map[Weekday][]WeeklyPeriod
	exceptions map[civilDate][]ExceptionInput
}

// civilDate is a date-only key (year, month, day), independent of the
// time.Time value's clock or monotonic reading, so two Dates on the same
// calendar day always collide in the exceptions map regardless of how
// the caller constructed them.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civilDateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// ID returns the pattern's identity.
func (p *Pattern) ID() PatternID { return p.id }

// New constructs an immutable Pattern, validating both tables.
//
// Validation enforces spec.md §3.2: "Pattern weekly rules within a single
// day must be non-overlapping after overnight splitting" — checked across
// all seven weekdays, because an overnight rule on weekday w interacts
// with weekday w.Previous()'s rules.
func New(id PatternID, rules []RuleInput, exceptions []ExceptionInput) (*Pattern, error) {
	weekly := make(map[Weekday][]WeeklyPeriod)
	for _, r := range rules {
		if !r.Weekday.Valid() {
			return nil, &InvalidRuleError{Weekday: r.Weekday, Reason: "unknown weekday"}
		}
		if r.Start == r.End {
			return nil, &InvalidRuleError{Weekday: r.Weekday, Reason: fmt.Sprintf("zero-length period at %s", r.Start)}
		}
		weekly[r.Weekday] = append(weekly[r.Weekday], WeeklyPeriod{Start: r.Start, End: r.End})
	}
	for wd := Monday; wd <= Sunday; wd++ {
		sort.Slice(weekly[wd], func(i, j int) bool { return weekly[wd][i].Start < weekly[wd][j].Start })
	}

	if err := validateNoOverlap(weekly); err != nil {
		return nil, err
	}

	exc := make(map[civilDate][]ExceptionInput)
	for _, e := range exceptions {
		if e.IsWorking && !e.HasRange {
			return nil, &InvalidExceptionError{Date: e.Date, Reason: "is_working=true requires a time range"}
		}
		if e.HasRange && e.Start == e.End {
			return nil, &InvalidExceptionError{Date: e.Date, Reason: "zero-length exception range"}
		}
		key := civilDateOf(e.Date)
		exc[key] = append(exc[key], e)
	}

	if len(rules) == 0 {
		return nil, &InvalidRuleError{Reason: "pattern has no weekly working time"}
	}

	return &Pattern{id: id, weekly: weekly, exceptions: exc}, nil
}

// validateNoOverlap checks, for every ISO weekday, that the periods
// effectively in force on a generic date with that weekday — this
// weekday's own non-overnight periods and overnight heads, plus the
// previous weekday's overnight tails — do not overlap.
func validateNoOverlap(weekly map[Weekday][]WeeklyPeriod) error {
	for wd := Monday; wd <= Sunday; wd++ {
		var spans []WeeklyPeriod // all expressed as [Start,End) in minutes-since-midnight; an overnight head is cut off at End=1440 (midnight) for comparison

		for _, p := range weekly[wd] {
			if p.Overnight() {
				spans = append(spans, WeeklyPeriod{Start: p.Start, End: 1440})
			} else {
				spans = append(spans, p)
			}
		}
		for _, prev := range weekly[wd.Previous()] {
			if prev.Overnight() {
				spans = append(spans, WeeklyPeriod{Start: 0, End: prev.End})
			}
		}

		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
		for i := 1; i < len(spans); i++ {
			if spans[i].Start < spans[i-1].End {
				return &InvalidRuleError{Weekday: wd, Reason: fmt.Sprintf("overlapping periods at %s and %s", spans[i-1], spans[i])}
			}
		}
	}
	return nil
}

func (p WeeklyPeriod) String() string { return fmt.Sprintf("[%s,%s)", p.Start, p.End) }

// WeeklyWorkingMinutes sums the nominal weekly rule table's working
// minutes across all seven weekdays, ignoring dated exceptions. It is a
// heuristic figure — capacity's auto-extension lookahead bound uses it
// as "roughly how much working time exists per week" — not an exact
// per-week count for any specific calendar week.
func (p *Pattern) WeeklyWorkingMinutes() int64 {
	var total int64
	for wd := Monday; wd <= Sunday; wd++ {
		for _, per := range p.weekly[wd] {
			d := int64(per.End) - int64(per.Start)
			if d <= 0 {
				d += 1440
			}
			total += d
		}
	}
	return total
}
