package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalWeek is the worked example from spec.md §8: Mon-Fri 08:00-17:00,
// a full-day holiday on a Tuesday, and a Saturday overtime window.
func canonicalWeek(t *testing.T, holiday time.Time, overtimeSat time.Time) *Pattern {
	t.Helper()
	rules := []RuleInput{
		{Weekday: Monday, Start: NewClock(8, 0), End: NewClock(17, 0)},
		{Weekday: Tuesday, Start: NewClock(8, 0), End: NewClock(17, 0)},
		{Weekday: Wednesday, Start: NewClock(8, 0), End: NewClock(17, 0)},
		{Weekday: Thursday, Start: NewClock(8, 0), End: NewClock(17, 0)},
		{Weekday: Friday, Start: NewClock(8, 0), End: NewClock(17, 0)},
	}
	exceptions := []ExceptionInput{
		{Date: holiday, IsWorking: false, HasRange: false},
		{Date: overtimeSat, IsWorking: true, HasRange: true, Start: NewClock(10, 0), End: NewClock(14, 0)},
	}
	p, err := New("canonical-week", rules, exceptions)
	require.NoError(t, err)
	return p
}

func TestPeriodsForDate_PlainWeekday(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	mon := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	periods, err := p.PeriodsForDate(mon)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC), periods[0].End)
}

func TestPeriodsForDate_FullDayHoliday(t *testing.T) {
	holiday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC) // a Tuesday
	p := canonicalWeek(t, holiday, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	periods, err := p.PeriodsForDate(holiday)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestPeriodsForDate_WeekendIsEmptyByDefault(t *testing.T) {
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	sun := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	periods, err := p.PeriodsForDate(sun)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestPeriodsForDate_OvertimeInsertionOnNonWorkingDay(t *testing.T) {
	sat := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := canonicalWeek(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), sat)
	periods, err := p.PeriodsForDate(sat)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 10, 14, 0, 0, 0, time.UTC), periods[0].End)
}

func TestPeriodsForDate_OvernightRuleSpillsToNextDay(t *testing.T) {
	p, err := New("overnight", []RuleInput{
		{Weekday: Monday, Start: NewClock(22, 0), End: NewClock(6, 0)},
	}, nil)
	require.NoError(t, err)

	mon := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tue := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	monPeriods, err := p.PeriodsForDate(mon)
	require.NoError(t, err)
	require.Len(t, monPeriods, 1)
	assert.Equal(t, time.Date(2026, 1, 5, 22, 0, 0, 0, time.UTC), monPeriods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), monPeriods[0].End)

	tuePeriods, err := p.PeriodsForDate(tue)
	require.NoError(t, err)
	require.Len(t, tuePeriods, 1)
	assert.Equal(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), tuePeriods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 6, 6, 0, 0, 0, time.UTC), tuePeriods[0].End)
}

func TestPeriodsForDate_PartialExceptionSplitsPeriod(t *testing.T) {
	lunch := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	p, err := New("lunch-break", []RuleInput{
		{Weekday: Monday, Start: NewClock(8, 0), End: NewClock(17, 0)},
	}, []ExceptionInput{
		{Date: lunch, IsWorking: false, HasRange: true, Start: NewClock(12, 0), End: NewClock(13, 0)},
	})
	require.NoError(t, err)

	periods, err := p.PeriodsForDate(lunch)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), periods[0].End)
	assert.Equal(t, time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC), periods[1].Start)
	assert.Equal(t, time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC), periods[1].End)
}

func TestPeriodsForDate_AdjacentInsertionMerges(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	p, err := New("extend", []RuleInput{
		{Weekday: Monday, Start: NewClock(8, 0), End: NewClock(17, 0)},
	}, []ExceptionInput{
		{Date: day, IsWorking: true, HasRange: true, Start: NewClock(17, 0), End: NewClock(19, 0)},
	})
	require.NoError(t, err)

	periods, err := p.PeriodsForDate(day)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, 1, 5, 19, 0, 0, 0, time.UTC), periods[0].End)
}

func TestPeriodsForDate_TrueExceptionOverlappingExistingPeriodFails(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	p, err := New("overlap", []RuleInput{
		{Weekday: Monday, Start: NewClock(8, 0), End: NewClock(17, 0)},
	}, []ExceptionInput{
		{Date: day, IsWorking: true, HasRange: true, Start: NewClock(16, 0), End: NewClock(19, 0)},
	})
	require.NoError(t, err)

	_, err = p.PeriodsForDate(day)
	require.Error(t, err)
	var invalid *InvalidExceptionError
	require.ErrorAs(t, err, &invalid)
}
