package capacity

import (
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/shopspring/decimal"
)

// SetUnavailable clears every free bit in [begin, end), auto-extending
// the horizon first if needed, and returns every live AllocationRecord
// whose spans intersect the range (spec.md §4.4.4). It does not release
// those records; the caller decides.
func (e *Engine) SetUnavailable(begin, end int64) ([]*AllocationRecord, error) {
	if end > e.HorizonEnd() {
		if err := e.ExtendTo(e.resolution.ToDatetime(end, e.epoch)); err != nil {
			return nil, err
		}
	}

	for i := begin; i < end; i++ {
		idx := i - e.horizonBegin
		if idx >= 0 && idx < int64(len(e.bits)) && e.bits[idx] {
			e.bits[idx] = false
		}
	}

	var affected []*AllocationRecord
	for _, rec := range e.index {
		if spansIntersectRange(rec.Spans, begin, end) {
			affected = append(affected, rec)
		}
	}
	return affected, nil
}

// SetAvailable frees every bit in [begin, end) that is currently occupied
// and not covered by a live AllocationRecord's spans (spec.md §4.4.4,
// SPEC_FULL.md §E, Open Question (a)). Bits belonging to a live allocation are
// left occupied.
func (e *Engine) SetAvailable(begin, end int64) error {
	if end > e.HorizonEnd() {
		if err := e.ExtendTo(e.resolution.ToDatetime(end, e.epoch)); err != nil {
			return err
		}
	}

	for i := begin; i < end; i++ {
		idx := i - e.horizonBegin
		if idx < 0 || idx >= int64(len(e.bits)) || e.bits[idx] {
			continue
		}
		covered := false
		for _, rec := range e.index {
			if spansContain(rec.Spans, i) {
				covered = true
				break
			}
		}
		if !covered {
			e.bits[idx] = true
		}
	}
	return nil
}

// ExtendTo grows the horizon to cover target, materialising additional
// working bits from the retained pattern (spec.md §4.4.5). It is a no-op
// if target does not exceed the current horizon end. This is the single
// entrypoint both the synchronous auto-extension path and horizonkeeper's
// background maintenance use to grow an engine.
func (e *Engine) ExtendTo(target time.Time) error {
	if !target.After(e.horizonEndDT) {
		return nil
	}

	targetInt, err := e.resolution.ToInt(target, e.epoch)
	if err != nil {
		return err
	}

	grown := make([]bool, targetInt-e.horizonBegin)
	copy(grown, e.bits)

	cal := calendar.NewCalendar(e.pattern, e.resolution)
	it := cal.WorkingIntervalsInRange(e.horizonEndDT, target)
	for {
		per, ok := it.Next()
		if !ok {
			break
		}
		startInt, err := e.resolution.ToInt(per.Start, e.epoch)
		if err != nil {
			return err
		}
		endInt, err := e.resolution.ToInt(per.End, e.epoch)
		if err != nil {
			return err
		}
		for i := startInt; i < endInt; i++ {
			grown[i-e.horizonBegin] = true
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	e.bits = grown
	e.horizonEndDT = target
	return nil
}

// autoExtendForSearch grows the horizon by a lookahead bounded
// proportionally to remaining/weeklyWorkingUnits (spec.md §4.4.5,
// SPEC_FULL.md §E, Open Question (c)), or fails with InfeasibleError("horizon")
// once the hard extension ceiling is reached.
func (e *Engine) autoExtendForSearch(remaining int64) error {
	if !e.horizonEndDT.Before(e.extensionCapDT) {
		return &InfeasibleError{WorkUnitsRequested: remaining, WorkUnitsRemaining: remaining, Reason: "horizon"}
	}

	weeklyUnits := e.weeklyWorkingUnits()
	if !weeklyUnits.IsPositive() {
		return &InfeasibleError{WorkUnitsRequested: remaining, WorkUnitsRemaining: remaining, Reason: "horizon"}
	}

	ratio := decimal.NewFromInt(remaining).Div(weeklyUnits)
	lookaheadDays := ratio.Mul(decimal.NewFromInt(4)).Ceil().IntPart()
	if lookaheadDays < 1 {
		lookaheadDays = 1
	}

	target := e.horizonEndDT.AddDate(0, 0, int(lookaheadDays))
	if target.After(e.extensionCapDT) {
		target = e.extensionCapDT
	}
	return e.ExtendTo(target)
}

// weeklyWorkingUnits converts the pattern's nominal weekly rule volume
// (ignoring dated exceptions — this is a heuristic bound, not an exact
// count) into this engine's resolution units.
func (e *Engine) weeklyWorkingUnits() decimal.Decimal {
	weeklySeconds := decimal.NewFromInt(e.pattern.WeeklyWorkingMinutes() * 60)
	return weeklySeconds.Div(decimal.NewFromInt(e.resolution.UnitSeconds()))
}
