package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCalendarUnits(t *testing.T) {
	pinClock(t)

	start := UTC(2017, 1, 1, 0, 0, 0, 0)
	end := UTC(2018, 3, 15, 0, 0, 0, 0)

	d := end.Diff(start, Year, Month, Day)
	require.NoError(t, d.Err())
	assert.Equal(t, Values{Year: 1, Month: 2, Day: 14}, d.ToObject())

	neg := start.Diff(end, Year, Month, Day)
	assert.Equal(t, Values{Year: -1, Month: -2, Day: -14}, neg.ToObject())
}

func TestDiffFractionalLowestUnit(t *testing.T) {
	pinClock(t)

	a := UTC(2017, 1, 1, 0, 0, 0, 0)
	b := UTC(2017, 1, 2, 12, 0, 0, 0)
	assert.Equal(t, 1.5, b.Diff(a, Day).Days())
	assert.Equal(t, 36.0, b.Diff(a, Hour).Hours())
	assert.Equal(t, 129_600_000.0, b.Diff(a).Milliseconds())
	assert.Equal(t, -129_600_000.0, a.Diff(b).Milliseconds())
}

func TestDiffMixedUnits(t *testing.T) {
	pinClock(t)

	a := UTC(2017, 1, 1, 0, 0, 0, 0)
	b := UTC(2017, 1, 3, 4, 30, 0, 0)
	d := b.Diff(a, Day, Hour, Minute)
	assert.Equal(t, Values{Day: 2, Hour: 4, Minute: 30}, d.ToObject())
}

func TestDiffAcrossDST(t *testing.T) {
	pinClock(t)

	before := Local(2017, 3, 12, 0, 0, 0, 0)
	after := Local(2017, 3, 13, 0, 0, 0, 0)
	assert.Equal(t, 1.0, after.Diff(before, Day).Days())
	assert.Equal(t, 23.0, after.Diff(before, Hour).Hours())
}

func TestDiffMonthEnd(t *testing.T) {
	pinClock(t)

	jan31 := UTC(2017, 1, 31, 0, 0, 0, 0)
	feb28 := UTC(2017, 2, 28, 0, 0, 0, 0)
	assert.Equal(t, 1.0, feb28.Diff(jan31, Month).Months())
}

func TestDiffInvalid(t *testing.T) {
	pinClock(t)

	d := UTC(2017, 1, 1, 0, 0, 0, 0).Diff(FromISO("nope"))
	assert.False(t, d.IsValid())
	assert.Equal(t, "created by diffing an invalid DateTime", d.InvalidReason())

	d = UTC(2017, 1, 1, 0, 0, 0, 0).Diff(Now(), Weekday)
	assert.ErrorIs(t, d.Err(), ErrInvalidUnit)
}

func TestDiffNow(t *testing.T) {
	pinClock(t)

	d := FromMillis(fixedNow).Plus(DurationFromObject(Values{Hour: 2}))
	assert.Equal(t, 2.0, d.DiffNow(Hour).Hours())
}
