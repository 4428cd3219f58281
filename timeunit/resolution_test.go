package timeunit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUTC(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestToInt_RoundTrip(t *testing.T) {
	epoch := mustUTC(2024, time.January, 1, 0, 0)
	dt := mustUTC(2024, time.January, 1, 9, 30)

	n, err := Minute.ToInt(dt, epoch)
	require.NoError(t, err)
	assert.Equal(t, int64(9*60+30), n)

	back := Minute.ToDatetime(n, epoch)
	assert.True(t, dt.Equal(back))
}

func TestToInt_Misaligned(t *testing.T) {
	epoch := mustUTC(2024, time.January, 1, 0, 0)
	dt := epoch.Add(90 * time.Second) // 1.5 minutes, not aligned to Minute

	_, err := Minute.ToInt(dt, epoch)
	require.Error(t, err)

	var misalign *MisalignmentError
	require.ErrorAs(t, err, &misalign)
	assert.Equal(t, int64(30), misalign.ResidualSeconds)
}

func TestToInt_RejectsZoneAware(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	epoch := mustUTC(2024, time.January, 1, 0, 0)
	dt := time.Date(2024, time.January, 1, 9, 0, 0, 0, loc)

	_, err = Minute.ToInt(dt, epoch)
	require.Error(t, err)

	var tzErr *TimezoneError
	require.ErrorAs(t, err, &tzErr)
}

func TestHourResolution(t *testing.T) {
	epoch := mustUTC(2024, time.January, 1, 0, 0)
	dt := mustUTC(2024, time.January, 2, 3, 0)

	n, err := Hour.ToInt(dt, epoch)
	require.NoError(t, err)
	assert.Equal(t, int64(27), n)

	_, err = Hour.ToInt(mustUTC(2024, time.January, 2, 3, 30), epoch)
	require.Error(t, err)
}

func TestResolution_String(t *testing.T) {
	assert.Equal(t, "minute", Minute.String())
	assert.Equal(t, "hour", Hour.String())

	custom := NewResolution(15, "")
	assert.Equal(t, "15s", custom.String())
}
