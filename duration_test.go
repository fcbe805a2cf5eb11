package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationToISO(t *testing.T) {
	tests := []struct {
		name   string
		values Values
		want   string
	}{
		{"mixed", Values{Year: 1, Day: 6, Second: 2}, "P1Y6DT2S"},
		{"empty", Values{}, "PT0S"},
		{"all zero", Values{Hour: 0}, "PT0S"},
		{"fractional seconds", Values{Millisecond: 1500}, "PT1.5S"},
		{"quarters fold into months", Values{Quarter: 1, Month: 1}, "P4M"},
		{"weeks", Values{Week: 2}, "P2W"},
		{"negative", Values{Hour: -3, Minute: -30}, "PT-3H-30M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationFromObject(tt.values).ToISO())
		})
	}
	assert.Equal(t, "PT0S", Duration{}.ToISO())
}

func TestDurationFromISO(t *testing.T) {
	d := DurationFromISO("P1Y6DT2S")
	require.NoError(t, d.Err())
	assert.Equal(t, 1.0, d.Years())
	assert.Equal(t, 6.0, d.Days())
	assert.Equal(t, 2.0, d.Seconds())
	assert.Equal(t, []Unit{Year, Day, Second}, d.Units())
	assert.Equal(t, "P1Y6DT2S", d.ToISO())

	d = DurationFromISO("PT1.5S")
	assert.Equal(t, 1.0, d.Seconds())
	assert.Equal(t, 500.0, d.Milliseconds())

	for _, bad := range []string{"", "P", "PT", "1Y", "P1H", "nope"} {
		d := DurationFromISO(bad)
		assert.False(t, d.IsValid(), bad)
		assert.ErrorIs(t, d.Err(), ErrUnparsable, bad)
	}
}

func TestDurationFromISOTime(t *testing.T) {
	d := DurationFromISOTime("11:22:33.444")
	require.NoError(t, d.Err())
	assert.Equal(t, 11.0, d.Hours())
	assert.Equal(t, 22.0, d.Minutes())
	assert.Equal(t, 33.0, d.Seconds())
	assert.Equal(t, 444.0, d.Milliseconds())
	assert.Equal(t, "11:22:33.444", d.ToISOTime(ISOOptions{}))
	assert.Equal(t, "11:22:33.444", d.ToISOTime(ISOOptions{SuppressMilliseconds: true}))
	assert.Equal(t, "112233.444", d.ToISOTime(ISOOptions{Format: ISOBasic}))

	assert.Equal(t, "", DurationFromObject(Values{Day: 1}).ToISOTime(ISOOptions{}))
	assert.False(t, DurationFromISOTime("25 o'clock").IsValid())
}

func TestDurationArithmetic(t *testing.T) {
	a := DurationFromObject(Values{Hour: 1})
	b := DurationFromObject(Values{Minute: 30})

	assert.Equal(t, "PT1H30M", a.Plus(b).ToISO())
	assert.Equal(t, "PT1H-30M", a.Minus(b).ToISO())
	assert.Equal(t, -1.0, a.Negate().Hours())
	assert.Equal(t, "PT2H", a.MapUnits(func(v float64, _ Unit) float64 { return v * 2 }).ToISO())
	assert.Equal(t, "PT1H15M", a.Set(Values{Minute: 15}).ToISO())

	invalid := DurationFromISO("nope")
	assert.False(t, a.Plus(invalid).IsValid())
	assert.False(t, invalid.Plus(a).IsValid())
}

func TestDurationNormalize(t *testing.T) {
	d := DurationFromObject(Values{Hour: 1, Minute: 90}).Normalize()
	assert.Equal(t, 2.0, d.Hours())
	assert.Equal(t, 30.0, d.Minutes())

	// Mixed signs borrow instead of leaving a negative smaller unit.
	d = DurationFromObject(Values{Hour: 2, Minute: -30}).Normalize()
	assert.Equal(t, 1.0, d.Hours())
	assert.Equal(t, 30.0, d.Minutes())

	// Absent units are not introduced.
	d = DurationFromObject(Values{Minute: 1500}).Normalize()
	assert.Equal(t, []Unit{Minute}, d.Units())
	assert.Equal(t, 1500.0, d.Minutes())
}

func TestDurationShiftTo(t *testing.T) {
	d := DurationFromObject(Values{Hour: 2}).ShiftTo(Minute)
	assert.Equal(t, 120.0, d.Minutes())
	assert.Equal(t, []Unit{Minute}, d.Units())

	d = DurationFromObject(Values{Minute: 90}).ShiftTo(Hour)
	assert.Equal(t, 1.5, d.Hours())

	d = DurationFromObject(Values{Minute: 90}).ShiftTo(Hour, Minute)
	assert.Equal(t, 1.0, d.Hours())
	assert.Equal(t, 30.0, d.Minutes())

	d = DurationFromMillis(90_061_001).Rescale()
	assert.Equal(t, "P1DT1H1M1.001S", d.ToISO())
	assert.Equal(t, []Unit{Day, Hour, Minute, Second, Millisecond}, d.Units())

	assert.ErrorIs(t, DurationFromMillis(1).ShiftTo(Weekday).Err(), ErrInvalidUnit)
}

func TestDurationAccuracy(t *testing.T) {
	year := DurationFromObject(Values{Year: 1})
	assert.Equal(t, 365.0, year.As(Day))
	assert.Equal(t, 12.0, year.As(Month))
	assert.Equal(t, Casual, year.Accuracy())

	long := DurationFromObject(Values{Year: 1}, WithAccuracy(Accurate))
	assert.Equal(t, Accurate, long.Accuracy())
	assert.InDelta(t, 365.2425, long.As(Day), 1e-9)
	assert.InDelta(t, 365.2425, year.Reconfigure(WithAccuracy(Accurate)).As(Day), 1e-9)

	assert.Equal(t, 86_400_000.0, DurationFromObject(Values{Day: 1}).ToMillis())
	assert.Equal(t, 30.0, DurationFromObject(Values{Month: 1}).As(Day))
}

func TestDurationEqual(t *testing.T) {
	pinClock(t)

	a := DurationFromObject(Values{Hour: 1})
	assert.True(t, a.Equal(DurationFromISO("PT1H")))
	assert.False(t, a.Equal(DurationFromObject(Values{Minute: 60})))
	assert.False(t, a.Equal(a.Reconfigure(WithLocale("fr"))))
	assert.False(t, DurationFromISO("nope").Equal(DurationFromISO("nope")))
}

func TestDurationRemoveZeros(t *testing.T) {
	d := DurationFromObject(Values{Year: 0, Day: 2, Hour: 0}).RemoveZeros()
	assert.Equal(t, []Unit{Day}, d.Units())
	assert.Equal(t, Values{Day: 2}, d.ToObject())
}

func TestDurationToHuman(t *testing.T) {
	pinClock(t)

	d := DurationFromObject(Values{Year: 1, Day: 6, Second: 2})
	assert.Equal(t, "1 year, 6 days, 2 seconds", d.ToHuman())
	assert.Equal(t, "1.5 hours", DurationFromObject(Values{Hour: 1.5}).ToHuman())
	assert.Equal(t, "Invalid Duration", DurationFromISO("nope").ToHuman())
}

func TestDurationToFormat(t *testing.T) {
	pinClock(t)

	d := DurationFromObject(Values{Minute: 90})
	assert.Equal(t, "01:30:00", d.ToFormat("hh:mm:ss"))
	assert.Equal(t, "90", d.ToFormat("m"))
	assert.Equal(t, "01h30", DurationFromObject(Values{Hour: 1, Minute: 30}).ToFormat("hh'h'mm"))
	assert.Equal(t, "1 day, 2 hours", DurationFromObject(Values{Hour: 26}).ToFormat("d 'day', h 'hours'"))
}

func TestDurationInvalidUnits(t *testing.T) {
	d := DurationFromObject(Values{Weekday: 1})
	assert.ErrorIs(t, d.Err(), ErrInvalidUnit)

	_, err := ValuesFromMap(map[string]float64{"fortnights": 1})
	assert.ErrorIs(t, err, ErrInvalidUnit)

	vals, err := ValuesFromMap(map[string]float64{"hours": 1.5, "Minutes": 2})
	require.NoError(t, err)
	assert.Equal(t, Values{Hour: 1.5, Minute: 2}, vals)
}
