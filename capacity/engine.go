/*
Package capacity implements the integer-domain Capacity Engine (spec.md
§4.4): a per-resource free/occupied bit vector materialised from a
calendar.Pattern, a read-only slot finder, exact-inverse commit/release,
dynamic availability mutation, snapshot/restore, and bounded
auto-extension of the horizon.

Everything in this package operates on integer unit offsets from a
resolution's epoch — it never touches a time.Time directly except at
materialisation and auto-extension, where it asks the calendar package
for working periods and converts them through timeunit.Resolution.
*/
package capacity

import (
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/brightloom/schedcore/timeunit"
)

// autoExtensionCapDays bounds how far past the originally materialised
// horizon_end the engine will ever grow in search of work_units, per
// spec.md §4.4.5's termination requirement and this implementation's
// choice of lookahead bound (see SPEC_FULL.md §E, Open Question (c)).
const autoExtensionCapDays = 3650

// Engine is mutable per-resource capacity state (spec.md §3.3's "Engine
// Instance"). The zero value is not usable; build one with FromCalendar.
type Engine struct {
	resourceID string

	horizonBegin int64 // fixed at materialisation; absolute unit offset
	bits         []bool

	pattern    *calendar.Pattern
	resolution timeunit.Resolution
	epoch      time.Time

	horizonEndDT   time.Time // current horizon end; grows via ExtendTo
	extensionCapDT time.Time // hard ceiling on auto-extension

	index map[allocKey]*AllocationRecord
}

// ResourceID returns the resource this engine was materialised for.
func (e *Engine) ResourceID() string { return e.resourceID }

// HorizonBegin returns the absolute unit offset of the first bit.
func (e *Engine) HorizonBegin() int64 { return e.horizonBegin }

// HorizonEnd returns the absolute unit offset one past the last bit.
func (e *Engine) HorizonEnd() int64 { return e.horizonBegin + int64(len(e.bits)) }

// HorizonEndTime returns the wall-clock instant corresponding to
// HorizonEnd, for callers (horizonkeeper) that think in terms of time
// rather than integer unit offsets.
func (e *Engine) HorizonEndTime() time.Time { return e.horizonEndDT }

// FreeCount returns the number of currently free bits across the whole
// horizon.
func (e *Engine) FreeCount() int64 {
	var n int64
	for _, b := range e.bits {
		if b {
			n++
		}
	}
	return n
}

// FromCalendar materialises an Engine over [horizonStart, horizonEnd)
// from pattern, at resolution, relative to epoch (spec.md §4.4.1).
func FromCalendar(resourceID string, pattern *calendar.Pattern, horizonStart, horizonEnd, epoch time.Time, resolution timeunit.Resolution) (*Engine, error) {
	if horizonEnd.Before(horizonStart) {
		return nil, &InvalidInputError{Reason: "horizon_end precedes horizon_start"}
	}
	horizonBegin, err := resolution.ToInt(horizonStart, epoch)
	if err != nil {
		return nil, err
	}
	horizonEndInt, err := resolution.ToInt(horizonEnd, epoch)
	if err != nil {
		return nil, err
	}

	bits := make([]bool, horizonEndInt-horizonBegin)
	cal := calendar.NewCalendar(pattern, resolution)
	it := cal.WorkingIntervalsInRange(horizonStart, horizonEnd)
	for {
		per, ok := it.Next()
		if !ok {
			break
		}
		startInt, err := resolution.ToInt(per.Start, epoch)
		if err != nil {
			return nil, err
		}
		endInt, err := resolution.ToInt(per.End, epoch)
		if err != nil {
			return nil, err
		}
		for i := startInt; i < endInt; i++ {
			bits[i-horizonBegin] = true
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return &Engine{
		resourceID:     resourceID,
		horizonBegin:   horizonBegin,
		bits:           bits,
		pattern:        pattern,
		resolution:     resolution,
		epoch:          epoch,
		horizonEndDT:   horizonEnd,
		extensionCapDT: horizonEnd.AddDate(0, 0, autoExtensionCapDays),
		index:          make(map[allocKey]*AllocationRecord),
	}, nil
}

// FindSlot searches for a placement for work_units of work without
// mutating committed state (spec.md §4.4.2). When deadline is nil, the
// search may trigger auto-extension of the horizon as it runs out of
// bits to examine; that extension only appends new capacity past the
// previously observed horizon_end, so it never disturbs the bits or
// allocation index a caller inspected before the call.
func (e *Engine) FindSlot(operationID string, earliestStart, workUnits int64, allowSplit bool, minSplit int64, deadline *int64) (*AllocationRecord, error) {
	if workUnits < 1 {
		return nil, &InvalidInputError{Reason: "work_units must be >= 1"}
	}
	if minSplit < 1 {
		return nil, &InvalidInputError{Reason: "min_split must be >= 1"}
	}
	if deadline != nil && *deadline <= earliestStart {
		return nil, &InvalidInputError{Reason: "deadline must be after earliest_start"}
	}

	p := earliestStart - e.horizonBegin
	if p < 0 {
		p = 0
	}

	var limit int64
	if deadline != nil {
		limit = *deadline - e.horizonBegin
	} else {
		limit = int64(len(e.bits))
	}

	remaining := workUnits
	var spans []Span
	var first int64
	haveFirst := false

	for remaining > 0 {
		for p < limit && !e.bits[p] {
			p++
		}
		if p >= limit {
			if deadline != nil {
				return nil, &InfeasibleError{OperationID: operationID, WorkUnitsRequested: workUnits, WorkUnitsRemaining: remaining, Reason: "deadline"}
			}
			if err := e.autoExtendForSearch(remaining); err != nil {
				if inf, ok := err.(*InfeasibleError); ok {
					inf.OperationID = operationID
					inf.WorkUnitsRequested = workUnits
				}
				return nil, err
			}
			limit = int64(len(e.bits))
			continue
		}

		q := p
		for q < limit && e.bits[q] {
			q++
		}
		runLen := q - p

		switch {
		case !allowSplit && runLen < remaining:
			p = q
		case allowSplit && runLen < minSplit:
			p = q
		default:
			take := remaining
			if runLen < take {
				take = runLen
			}
			spans = append(spans, Span{Begin: e.horizonBegin + p, End: e.horizonBegin + p + take})
			if !haveFirst {
				first = e.horizonBegin + p
				haveFirst = true
			}
			remaining -= take
			p += take
		}
	}

	return &AllocationRecord{
		OperationID: operationID,
		ResourceID:  e.resourceID,
		Start:       first,
		Finish:      spans[len(spans)-1].End,
		WorkUnits:   workUnits,
		AllowSplit:  allowSplit,
		Spans:       spans,
	}, nil
}
