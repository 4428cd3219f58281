package assignment

import (
	"testing"
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayOnlyPattern(t *testing.T, id calendar.PatternID) *calendar.Pattern {
	t.Helper()
	p, err := calendar.New(id, []calendar.RuleInput{
		{Weekday: calendar.Monday, Start: calendar.NewClock(9, 0), End: calendar.NewClock(17, 0)},
	}, nil)
	require.NoError(t, err)
	return p
}

func TestTimeline_PatternAt_ResolvesToOpenEndedAssignment(t *testing.T) {
	tl := NewTimeline("machine-1")
	p := weekdayOnlyPattern(t, "shift-a")
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, tl.Assign(p, from, nil))

	got, err := tl.PatternAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestTimeline_PatternAt_ResolvesAcrossSuccession(t *testing.T) {
	tl := NewTimeline("machine-1")
	old := weekdayOnlyPattern(t, "shift-old")
	next := weekdayOnlyPattern(t, "shift-new")

	cutover := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tl.Assign(old, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), &cutover))
	require.NoError(t, tl.Assign(next, cutover, nil))

	before, err := tl.PatternAt(cutover.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, old, before)

	atCutover, err := tl.PatternAt(cutover)
	require.NoError(t, err)
	assert.Equal(t, next, atCutover)
}

func TestTimeline_PatternAt_ReturnsNotAssignedBeforeFirstWindow(t *testing.T) {
	tl := NewTimeline("machine-1")
	p := weekdayOnlyPattern(t, "shift-a")
	require.NoError(t, tl.Assign(p, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil))

	_, err := tl.PatternAt(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	var notAssigned *NotAssignedError
	require.ErrorAs(t, err, &notAssigned)
}

func TestTimeline_Assign_RejectsOverlappingWindows(t *testing.T) {
	tl := NewTimeline("machine-1")
	p1 := weekdayOnlyPattern(t, "shift-a")
	p2 := weekdayOnlyPattern(t, "shift-b")

	require.NoError(t, tl.Assign(p1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil))

	overlapStart := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	err := tl.Assign(p2, overlapStart, nil)
	require.Error(t, err)
	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
}

func TestTimeline_Assign_RejectsInvertedWindow(t *testing.T) {
	tl := NewTimeline("machine-1")
	p := weekdayOnlyPattern(t, "shift-a")
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err := tl.Assign(p, from, &to)
	require.Error(t, err)
}

func TestTimeline_Assign_AllowsAdjacentNonOverlappingWindows(t *testing.T) {
	tl := NewTimeline("machine-1")
	p1 := weekdayOnlyPattern(t, "shift-a")
	p2 := weekdayOnlyPattern(t, "shift-b")

	cutover := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tl.Assign(p1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), &cutover))
	require.NoError(t, tl.Assign(p2, cutover, nil))

	assert.Len(t, tl.Assignments(), 2)
}
