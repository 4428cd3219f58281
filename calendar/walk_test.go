package calendar

import (
	"testing"
	"time"

	"github.com/brightloom/schedcore/timeunit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_AddUnits_WithinSameDay(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) // Monday 08:00
	got, err := cal.AddUnits(start, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC), got)
}

func TestCalendar_AddUnits_CrossesHolidayIntoNextWorkingDay(t *testing.T) {
	holiday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC) // Tuesday, full-day off
	p := canonicalWeek(t, holiday, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	// Monday 15:00 + 4 working hours: 2h left on Monday (15-17), holiday
	// Tuesday is skipped entirely, remaining 2h consumed Wednesday from 08:00.
	start := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)
	got, err := cal.AddUnits(start, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC), got)
}

func TestCalendar_AddUnits_LandsExactlyOnPeriodEnd(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	got, err := cal.AddUnits(start, 9)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC), got)
}

func TestCalendar_AddUnits_ZeroUnitsIsIdentity(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	got, err := cal.AddUnits(start, 0)
	require.NoError(t, err)
	assert.Equal(t, start, got)
}

func TestCalendar_AddUnits_AllWorkingDaysExceptedIsInfeasible(t *testing.T) {
	// A pattern with a weekly rule, but every occurrence of that weekday is
	// cancelled by a full-day exception far enough out to exceed the
	// bounded lookahead — exercises the walk's own InfeasibleError path
	// separately from the zero-weekly-rule rejection at construction time.
	var exceptions []ExceptionInput
	d := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < maxConsecutiveEmptyDays+10; i++ {
		exceptions = append(exceptions, ExceptionInput{Date: d.AddDate(0, 0, 7*i), IsWorking: false, HasRange: false})
	}
	p, err := New("mostly-cancelled", []RuleInput{
		{Weekday: Monday, Start: NewClock(8, 0), End: NewClock(9, 0)},
	}, exceptions)
	require.NoError(t, err)
	cal := NewCalendar(p, timeunit.Hour)

	_, err = cal.AddUnits(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), 1)
	require.Error(t, err)
	var infeasible *InfeasibleError
	require.ErrorAs(t, err, &infeasible)
}

func TestCalendar_SubtractUnits_WithinSameDay(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	end := time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC)
	got, err := cal.SubtractUnits(end, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC), got)
}

func TestCalendar_SubtractUnits_CrossesHolidayIntoPreviousWorkingDay(t *testing.T) {
	holiday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC) // Tuesday
	p := canonicalWeek(t, holiday, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	// Wednesday 10:00 - 4 working hours: 2h back to Wednesday 08:00, holiday
	// Tuesday skipped, remaining 2h taken from Monday's tail ending at 17:00.
	end := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)
	got, err := cal.SubtractUnits(end, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC), got)
}

func TestCalendar_SubtractUnits_IsAddUnitsInverse(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	mid, err := cal.AddUnits(start, 9) // exactly fills Monday 08:00-17:00
	require.NoError(t, err)
	back, err := cal.SubtractUnits(mid, 9)
	require.NoError(t, err)
	assert.Equal(t, start, back)
}

func TestCalendar_WorkingUnitsBetween_SkipsHolidayAndWeekend(t *testing.T) {
	holiday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	p := canonicalWeek(t, holiday, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	// Monday 00:00 up to the following Monday 00:00: Mon(9) + Tue(0, holiday) +
	// Wed,Thu,Fri(9 each) + Sat(4, overtime) + Sun(0) = 9+27+4 = 40.
	a := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	got, err := cal.WorkingUnitsBetween(a, b)
	require.NoError(t, err)
	assert.EqualValues(t, 40, got)
}

func TestCalendar_WorkingUnitsBetween_ClipsPartialDay(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	a := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)
	got, err := cal.WorkingUnitsBetween(a, b)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got)
}

func TestCalendar_WorkingIntervalsInRange_EnumeratesInOrder(t *testing.T) {
	holiday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	sat := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := canonicalWeek(t, holiday, sat)
	cal := NewCalendar(p, timeunit.Hour)

	a := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	it := cal.WorkingIntervalsInRange(a, b)

	var got []DayPeriod
	for {
		per, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, per)
	}
	require.NoError(t, it.Err())
	require.Len(t, got, 5) // Mon, Wed, Thu, Fri (Tue is holiday), plus Sat overtime
	assert.Equal(t, time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC), got[4].Start)
	assert.Equal(t, time.Date(2026, 1, 10, 14, 0, 0, 0, time.UTC), got[4].End)
}

func TestCalendar_WorkingIntervalsInRange_ClipsToRangeBounds(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	cal := NewCalendar(p, timeunit.Hour)

	a := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)
	it := cal.WorkingIntervalsInRange(a, b)

	per, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, a, per.Start)
	assert.Equal(t, b, per.End)

	_, ok = it.Next()
	require.False(t, ok)
	require.NoError(t, it.Err())
}
