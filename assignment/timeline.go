/*
Package assignment tracks which calendar.Pattern applies to a resource
over its lifetime. A resource's working calendar is not fixed forever —
a shift pattern changes when a new contract takes effect, a clinician's
weekly template changes each quarter — so FromCalendar needs an answer
to "which Pattern applies to resource R as of date D" before it can
materialise an Engine.

This is pure data-model glue (spec.md §3.1), generalised from
generic/assignment.go's PolicyAssignment: entity-to-policy becomes
resource-to-pattern, and ConsumptionPriority/ApprovalConfig have no
equivalent here since a resource has exactly one pattern in force at
any instant, not several competing ones.
*/
package assignment

import (
	"sort"
	"time"

	"github.com/brightloom/schedcore/calendar"
)

// Assignment binds a Pattern to a resource over a half-open effective
// window [EffectiveFrom, EffectiveTo). A nil EffectiveTo means still in
// force.
type Assignment struct {
	ResourceID    string
	Pattern       *calendar.Pattern
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// Active reports whether the assignment is in force at t.
func (a Assignment) Active(t time.Time) bool {
	if t.Before(a.EffectiveFrom) {
		return false
	}
	if a.EffectiveTo != nil && !t.Before(*a.EffectiveTo) {
		return false
	}
	return true
}

// Timeline is the ordered history of pattern assignments for one
// resource. Assignments must not overlap; Assign enforces this.
type Timeline struct {
	resourceID  string
	assignments []Assignment
}

// NewTimeline constructs an empty Timeline for resourceID.
func NewTimeline(resourceID string) *Timeline {
	return &Timeline{resourceID: resourceID}
}

// ResourceID returns the resource this timeline tracks.
func (tl *Timeline) ResourceID() string { return tl.resourceID }

// Assign appends a new assignment window, rejecting it if it overlaps
// any existing window on this timeline.
func (tl *Timeline) Assign(pattern *calendar.Pattern, effectiveFrom time.Time, effectiveTo *time.Time) error {
	if effectiveTo != nil && !effectiveTo.After(effectiveFrom) {
		return &OverlapError{ResourceID: tl.resourceID, Reason: "effective_to must be after effective_from"}
	}

	candidate := Assignment{ResourceID: tl.resourceID, Pattern: pattern, EffectiveFrom: effectiveFrom, EffectiveTo: effectiveTo}
	for _, existing := range tl.assignments {
		if windowsOverlap(existing, candidate) {
			return &OverlapError{ResourceID: tl.resourceID, Reason: "overlaps an existing assignment window"}
		}
	}

	tl.assignments = append(tl.assignments, candidate)
	sort.Slice(tl.assignments, func(i, j int) bool {
		return tl.assignments[i].EffectiveFrom.Before(tl.assignments[j].EffectiveFrom)
	})
	return nil
}

func windowsOverlap(a, b Assignment) bool {
	aEnd := farFuture
	if a.EffectiveTo != nil {
		aEnd = *a.EffectiveTo
	}
	bEnd := farFuture
	if b.EffectiveTo != nil {
		bEnd = *b.EffectiveTo
	}
	return a.EffectiveFrom.Before(bEnd) && b.EffectiveFrom.Before(aEnd)
}

// farFuture stands in for "no end" when comparing open-ended windows;
// no calendar date in this system will ever reach it.
var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// PatternAt returns the Pattern in force for this resource at t, or
// NotAssignedError if no assignment window covers t.
func (tl *Timeline) PatternAt(t time.Time) (*calendar.Pattern, error) {
	for _, a := range tl.assignments {
		if a.Active(t) {
			return a.Pattern, nil
		}
	}
	return nil, &NotAssignedError{ResourceID: tl.resourceID, At: t}
}

// Assignments returns the timeline's windows in chronological order.
func (tl *Timeline) Assignments() []Assignment {
	out := make([]Assignment, len(tl.assignments))
	copy(out, tl.assignments)
	return out
}
