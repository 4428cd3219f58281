package fixtures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/brightloom/schedcore/capacity"
	"github.com/brightloom/schedcore/timeunit"
)

// Result is the outcome of running one ExpectedRow against a live
// Pattern/Engine pair.
type Result struct {
	Op      string `json:"op"`
	Passed  bool   `json:"passed"`
	Detail  string `json:"detail,omitempty"`
	Ordinal int    `json:"ordinal"`
}

// Run executes every row of ds.Expected in order against a fresh
// Pattern and Engine built from ds's rules and exceptions, and reports
// pass/fail per row. Allocation-bearing rows (find_slot,
// set_unavailable_after_allocations, snapshot_restore) share one Engine
// instance across the whole run, in the order the scenario narrates
// them, since later rows depend on earlier allocations' side effects.
func Run(ds *Dataset) ([]Result, error) {
	pattern, err := ds.BuildPattern()
	if err != nil {
		return nil, fmt.Errorf("fixtures: build pattern: %w", err)
	}

	resolution, err := parseResolution(ds.Resolution)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}

	epoch, err := time.Parse(time.RFC3339, ds.Epoch)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse epoch: %w", err)
	}

	cal := calendar.NewCalendar(pattern, resolution)

	horizonEnd := epoch.AddDate(0, 0, 14)
	engine, err := capacity.FromCalendar(ds.Name, pattern, epoch, horizonEnd, epoch, resolution)
	if err != nil {
		return nil, fmt.Errorf("fixtures: materialise engine: %w", err)
	}

	results := make([]Result, 0, len(ds.Expected))
	for i, row := range ds.Expected {
		res := Result{Op: row.Op, Ordinal: i}
		if err := runRow(cal, engine, epoch, resolution, row, &res); err != nil {
			res.Passed = false
			res.Detail = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

func parseResolution(name string) (timeunit.Resolution, error) {
	switch name {
	case "second":
		return timeunit.NewResolution(1, "second"), nil
	case "minute":
		return timeunit.Minute, nil
	case "hour":
		return timeunit.Hour, nil
	case "day":
		return timeunit.NewResolution(86400, "day"), nil
	default:
		return timeunit.Resolution{}, fmt.Errorf("unknown resolution %q", name)
	}
}

func runRow(cal *calendar.Calendar, engine *capacity.Engine, epoch time.Time, resolution timeunit.Resolution, row ExpectedRow, res *Result) error {
	switch row.Op {
	case "add_units":
		var in AddUnitsInput
		var want AddUnitsExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		startDt := resolution.ToDatetime(in.Start, epoch)
		gotDt, err := cal.AddUnits(startDt, in.Units)
		if err != nil {
			return err
		}
		got, err := resolution.ToInt(gotDt, epoch)
		if err != nil {
			return err
		}
		res.Passed = got == want.Result
		res.Detail = fmt.Sprintf("got=%d want=%d", got, want.Result)

	case "subtract_units":
		var in SubtractUnitsInput
		var want SubtractUnitsExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		endDt := resolution.ToDatetime(in.End, epoch)
		gotDt, err := cal.SubtractUnits(endDt, in.Units)
		if err != nil {
			return err
		}
		got, err := resolution.ToInt(gotDt, epoch)
		if err != nil {
			return err
		}
		res.Passed = got == want.Result
		res.Detail = fmt.Sprintf("got=%d want=%d", got, want.Result)

	case "working_units_between":
		var in RangeInput
		var want ScalarExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		a := resolution.ToDatetime(in.A, epoch)
		b := resolution.ToDatetime(in.B, epoch)
		got, err := cal.WorkingUnitsBetween(a, b)
		if err != nil {
			return err
		}
		res.Passed = got == want.Result
		res.Detail = fmt.Sprintf("got=%d want=%d", got, want.Result)

	case "find_slot":
		var in FindSlotInput
		var want FindSlotExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		record, err := engine.FindSlot(in.OperationID, in.EarliestStart, in.WorkUnits, in.AllowSplit, in.MinSplit, nil)
		if err != nil {
			return err
		}
		res.Passed = record.Start == want.Start && record.Finish == want.Finish && spansMatch(record.Spans, want.Spans)
		res.Detail = fmt.Sprintf("got start=%d finish=%d want start=%d finish=%d", record.Start, record.Finish, want.Start, want.Finish)

	case "set_unavailable_after_allocations":
		var in SetUnavailableAfterAllocationsInput
		var want SetUnavailableExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		for _, alloc := range in.Allocations {
			if _, err := engine.Allocate(alloc.OperationID, alloc.EarliestStart, alloc.WorkUnits, alloc.AllowSplit, alloc.MinSplit, nil); err != nil {
				return err
			}
		}
		affected, err := engine.SetUnavailable(in.Begin, in.End)
		if err != nil {
			return err
		}
		got := make([]string, 0, len(affected))
		for _, a := range affected {
			got = append(got, a.OperationID)
		}
		res.Passed = sameSet(got, want.Affected)
		res.Detail = fmt.Sprintf("got=%v want=%v", got, want.Affected)

	case "snapshot_restore":
		var in SnapshotRestoreInput
		var want SnapshotRestoreExpected
		if err := decode(row, &in, &want); err != nil {
			return err
		}
		snap := engine.Snapshot()
		freeBefore := engine.FreeCount()

		record, err := engine.FindSlot(in.OperationID, in.EarliestStart, in.WorkUnits, in.AllowSplit, in.MinSplit, nil)
		if err != nil {
			return err
		}
		if _, err := engine.Commit(record); err != nil {
			return err
		}

		if err := engine.Restore(snap); err != nil {
			return err
		}

		indexOK := true
		freeOK := engine.FreeCount() == freeBefore
		if err := engine.Release(record); err == nil {
			indexOK = false // record should no longer be known to the engine
		}

		res.Passed = (indexOK == want.IndexSizeUnchanged) && (freeOK == want.FreeCountUnchanged)
		res.Detail = fmt.Sprintf("index_unchanged=%v free_unchanged=%v", indexOK, freeOK)

	default:
		return fmt.Errorf("unknown op %q", row.Op)
	}
	return nil
}

func decode(row ExpectedRow, input, expected any) error {
	if err := json.Unmarshal(row.Input, input); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	if err := json.Unmarshal(row.Expected, expected); err != nil {
		return fmt.Errorf("decode expected: %w", err)
	}
	return nil
}

func spansMatch(got []capacity.Span, want []SpanJSON) bool {
	if len(got) != len(want) {
		return false
	}
	for i, g := range got {
		if g.Begin != want[i].Begin || g.End != want[i].End {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int)
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
