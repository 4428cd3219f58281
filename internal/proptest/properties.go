package proptest

import (
	"fmt"
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/brightloom/schedcore/capacity"
)

// CheckRoundTrip verifies that walking forward n units from start and
// then back n units returns to start (spec.md §8, "round trip").
func CheckRoundTrip(cal *calendar.Calendar, start time.Time, units int64) error {
	forward, err := cal.AddUnits(start, units)
	if err != nil {
		return nil // infeasible walks are not a property violation
	}
	back, err := cal.SubtractUnits(forward, units)
	if err != nil {
		return fmt.Errorf("proptest: subtract after add failed: %w", err)
	}
	if !back.Equal(start) {
		return fmt.Errorf("proptest: round trip from %s landed on %s, not back at start", start, back)
	}
	return nil
}

// CheckSpanSum verifies that a FindSlot record's spans sum to exactly
// WorkUnits (spec.md §8, "span sum").
func CheckSpanSum(record *capacity.AllocationRecord) error {
	var sum int64
	for _, sp := range record.Spans {
		sum += sp.Len()
	}
	if sum != record.WorkUnits {
		return fmt.Errorf("proptest: span sum %d != work_units %d", sum, record.WorkUnits)
	}
	return nil
}

// CheckCommitReleaseInverse verifies that Commit followed by Release on
// the same record restores the engine's free count exactly (spec.md §8,
// "commit/release is an exact inverse").
func CheckCommitReleaseInverse(engine *capacity.Engine, record *capacity.AllocationRecord) error {
	before := engine.FreeCount()

	if _, err := engine.Commit(record); err != nil {
		return fmt.Errorf("proptest: commit failed: %w", err)
	}
	if err := engine.Release(record); err != nil {
		return fmt.Errorf("proptest: release failed: %w", err)
	}

	after := engine.FreeCount()
	if after != before {
		return fmt.Errorf("proptest: free count after release %d != before commit %d", after, before)
	}
	return nil
}

// CheckSnapshotRestoreIdentity verifies that Restore(Snapshot()) leaves
// the engine's free count exactly as it was when the snapshot was taken,
// regardless of what mutation happens in between (spec.md §8,
// "snapshot/restore identity").
func CheckSnapshotRestoreIdentity(engine *capacity.Engine, mutate func(*capacity.Engine) error) error {
	snap := engine.Snapshot()
	before := engine.FreeCount()

	if mutate != nil {
		if err := mutate(engine); err != nil {
			return fmt.Errorf("proptest: mutation failed: %w", err)
		}
	}

	if err := engine.Restore(snap); err != nil {
		return fmt.Errorf("proptest: restore failed: %w", err)
	}

	after := engine.FreeCount()
	if after != before {
		return fmt.Errorf("proptest: free count after restore %d != at snapshot time %d", after, before)
	}
	return nil
}

// CheckFindSlotReadOnly verifies that calling FindSlot never changes the
// engine's free count over the horizon it had before the call, even when
// it triggers auto-extension, which only appends bits past that horizon
// (spec.md §8, "find_slot is read-only").
func CheckFindSlotReadOnly(engine *capacity.Engine, req Request) error {
	begin, end := engine.HorizonBegin(), engine.HorizonEnd()
	before, err := engine.Utilization(begin, end)
	if err != nil {
		return fmt.Errorf("proptest: utilization failed: %w", err)
	}

	_, err = engine.FindSlot(req.OperationID, req.EarliestStart, req.WorkUnits, req.AllowSplit, req.MinSplit, nil)
	if err != nil {
		return nil // infeasible searches are not a property violation
	}

	after, err := engine.Utilization(begin, end)
	if err != nil {
		return fmt.Errorf("proptest: utilization failed: %w", err)
	}
	if after.Free != before.Free {
		return fmt.Errorf("proptest: free count changed from %d to %d across a read-only FindSlot", before.Free, after.Free)
	}
	return nil
}

// CheckMonotonicity verifies that asking for more work_units never
// finishes earlier than asking for fewer, from the same earliest_start
// (spec.md §8, "monotonicity").
func CheckMonotonicity(engine *capacity.Engine, operationID string, earliestStart, smaller, larger int64, allowSplit bool, minSplit int64) error {
	if smaller > larger {
		smaller, larger = larger, smaller
	}

	recSmall, err := engine.FindSlot(operationID+"-small", earliestStart, smaller, allowSplit, minSplit, nil)
	if err != nil {
		return nil
	}
	recLarge, err := engine.FindSlot(operationID+"-large", earliestStart, larger, allowSplit, minSplit, nil)
	if err != nil {
		return nil
	}

	if recLarge.Finish < recSmall.Finish {
		return fmt.Errorf("proptest: larger request finished earlier (%d) than smaller request (%d)", recLarge.Finish, recSmall.Finish)
	}
	return nil
}

// CheckFindSlotMatchesAddUnits verifies spec.md §8's central correctness
// property: for a non-splittable request of n units starting no earlier
// than s, find_slot's finish converts back to the same datetime as
// walking s forward n units directly through the calendar. This only
// holds when nothing else occupies the window between s and the walk's
// end, which callers must arrange (a fresh engine over the same pattern
// satisfies this).
func CheckFindSlotMatchesAddUnits(cal *calendar.Calendar, engine *capacity.Engine, epoch, s time.Time, n int64, operationID string) error {
	wantDt, err := cal.AddUnits(s, n)
	if err != nil {
		return nil // infeasible walk, not a property violation
	}

	sInt, err := cal.Resolution().ToInt(s, epoch)
	if err != nil {
		return fmt.Errorf("proptest: convert s: %w", err)
	}

	record, err := engine.FindSlot(operationID, sInt, n, false, n, nil)
	if err != nil {
		return nil // infeasible find_slot (e.g. outside the engine's horizon), not a property violation
	}

	gotDt := cal.Resolution().ToDatetime(record.Finish, epoch)
	if !gotDt.Equal(wantDt) {
		return fmt.Errorf("proptest: find_slot(%s, %d).finish converts to %s, but add_units(%s, %d) = %s", operationID, n, gotDt, s, n, wantDt)
	}
	return nil
}

// CheckUtilizationConsistency verifies that the number of working units
// WorkingUnitsBetween reports for [a, b) matches the number of free bits
// a fresh, nothing-yet-committed Engine holds over the corresponding
// integer range. This is a weaker, read-only sanity check between the
// calendar and capacity layers; it does not exercise find_slot or
// add_units and so cannot stand in for CheckFindSlotMatchesAddUnits.
func CheckUtilizationConsistency(cal *calendar.Calendar, engine *capacity.Engine, epoch, a, b time.Time) error {
	want, err := cal.WorkingUnitsBetween(a, b)
	if err != nil {
		return fmt.Errorf("proptest: working_units_between failed: %w", err)
	}

	aInt, err := cal.Resolution().ToInt(a, epoch)
	if err != nil {
		return fmt.Errorf("proptest: convert a: %w", err)
	}
	bInt, err := cal.Resolution().ToInt(b, epoch)
	if err != nil {
		return fmt.Errorf("proptest: convert b: %w", err)
	}

	lo, hi := aInt, bInt
	if lo < engine.HorizonBegin() {
		lo = engine.HorizonBegin()
	}
	if hi > engine.HorizonEnd() {
		hi = engine.HorizonEnd()
	}

	report, err := engine.Utilization(lo, hi)
	if err != nil {
		return fmt.Errorf("proptest: utilization failed: %w", err)
	}

	if report.Free != want {
		return fmt.Errorf("proptest: engine free-bit count %d != calendar working_units_between %d", report.Free, want)
	}
	return nil
}
