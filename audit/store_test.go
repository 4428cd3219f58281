package audit

import (
	"context"
	"testing"
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/brightloom/schedcore/capacity"
	"github.com/brightloom/schedcore/timeunit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *capacity.Engine {
	t.Helper()
	pattern, err := calendar.New("p", []calendar.RuleInput{
		{Weekday: calendar.Monday, Start: calendar.NewClock(9, 0), End: calendar.NewClock(17, 0)},
	}, nil)
	require.NoError(t, err)

	epoch := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	e, err := capacity.FromCalendar("r1", pattern, epoch, epoch.AddDate(0, 0, 7), epoch, timeunit.Minute)
	require.NoError(t, err)
	return e
}

func TestStore_RecordAndListEvents(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.RecordEvent(ctx, Event{
		ID: "ev-1", ResourceID: "r1", Type: EventCommit, OperationID: "op-1",
		Begin: 540, End: 660, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.RecordEvent(ctx, Event{
		ID: "ev-2", ResourceID: "r1", Type: EventRelease, OperationID: "op-1",
		Begin: 540, End: 660, CreatedAt: time.Now(),
	}))

	events, err := s.ListEvents(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventCommit, events[0].Type)
	assert.Equal(t, EventRelease, events[1].Type)
}

func TestStore_ListEvents_EmptyForUnknownResource(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	events, err := s.ListEvents(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_SaveAndLoadSnapshot_RoundTrips(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	e := testEngine(t)
	record, err := e.FindSlot("op-1", 540, 60, false, 1, nil)
	require.NoError(t, err)
	_, err = e.Commit(record)
	require.NoError(t, err)

	snap := e.Snapshot()
	ctx := context.Background()
	require.NoError(t, s.SaveSnapshot(ctx, "r1", "pre-maintenance", snap))

	loaded, err := s.LoadSnapshot(ctx, "r1", "pre-maintenance")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.NoError(t, e.Release(record))
	require.NoError(t, e.Restore(loaded))
	assert.False(t, e.FreeCount() == 0)
}

func TestStore_LoadSnapshot_ReturnsNilWhenMissing(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.LoadSnapshot(context.Background(), "r1", "missing")
	require.NoError(t, err)
	assert.Nil(t, snap)
}
