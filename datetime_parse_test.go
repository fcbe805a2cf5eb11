package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/almanac/zone"
)

func TestFromISO(t *testing.T) {
	pinClock(t)

	tests := []struct {
		name  string
		input string
		opts  []Option
		want  string
	}{
		{"offset converted to default zone", "2016-05-25T09:08:34.123+06:00", nil, "2016-05-24T23:08:34.123-04:00"},
		{"offset kept", "2016-05-25T09:08:34.123+06:00", []Option{WithSetZone()}, "2016-05-25T09:08:34.123+06:00"},
		{"utc designator", "2016-05-25T09:08:34.123Z", nil, "2016-05-25T05:08:34.123-04:00"},
		{"date only", "2016-05-25", nil, "2016-05-25T00:00:00.000-04:00"},
		{"basic format", "20160525T090834", []Option{WithZone(zone.UTC)}, "2016-05-25T09:08:34.000Z"},
		{"week date", "2016-W21-3", []Option{WithZone(zone.UTC)}, "2016-05-25T00:00:00.000Z"},
		{"ordinal date", "2016-146", []Option{WithZone(zone.UTC)}, "2016-05-25T00:00:00.000Z"},
		{"time only is today", "09:08", nil, "2017-05-15T09:08:00.000-04:00"},
		{"explicit zone option", "2016-05-25T09:08", []Option{WithZoneName("Europe/Paris")}, "2016-05-25T09:08:00.000+02:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromISO(tt.input, tt.opts...)
			require.NoError(t, d.Err())
			assert.Equal(t, tt.want, d.ToISO())
		})
	}
}

func TestFromISOToUTC(t *testing.T) {
	pinClock(t)

	d := FromISO("2016-05-25T09:08:34.123+06:00")
	assert.Equal(t, "2016-05-25T03:08:34.123Z", d.ToUTC().ToISO())
}

func TestFromISOBracketedZone(t *testing.T) {
	pinClock(t)

	d := FromISO("2016-05-25T09:08:34.123+02:00[Europe/Paris]", WithSetZone())
	require.NoError(t, d.Err())
	assert.Equal(t, "Europe/Paris", d.ZoneName())
	assert.Equal(t, "2016-05-25T09:08:34.123+02:00[Europe/Paris]", d.ToISOWith(ISOOptions{ExtendedZone: true}))
}

func TestFromISOInvalid(t *testing.T) {
	pinClock(t)

	d := FromISO("nope")
	assert.False(t, d.IsValid())
	assert.ErrorIs(t, d.Err(), ErrUnparsable)
	assert.Contains(t, d.InvalidExplanation(), "ISO 8601")

	d = FromISO("2016-13-01")
	assert.ErrorIs(t, d.Err(), ErrUnitOutOfRange)

	d = FromISO("2016-05-25T09:08[Mars/Olympus]")
	assert.ErrorIs(t, d.Err(), ErrUnsupportedZone)
}

func TestFromRFC2822(t *testing.T) {
	pinClock(t)

	d := FromRFC2822("Tue, 01 Nov 2016 13:23:12 +0630", WithSetZone())
	require.NoError(t, d.Err())
	assert.Equal(t, "2016-11-01T13:23:12.000+06:30", d.ToISO())
	assert.Equal(t, "2016-11-01T06:53:12.000Z", d.ToUTC().ToISO())

	d = FromRFC2822("1 Nov 16 13:23 EST (comment)", WithZone(zone.UTC))
	require.NoError(t, d.Err())
	assert.Equal(t, "2016-11-01T18:23:00.000Z", d.ToISO())

	assert.ErrorIs(t, FromRFC2822("yesterday").Err(), ErrUnparsable)
}

func TestFromHTTP(t *testing.T) {
	pinClock(t)

	for _, input := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		t.Run(input, func(t *testing.T) {
			d := FromHTTP(input, WithZone(zone.UTC))
			require.NoError(t, d.Err())
			assert.Equal(t, "1994-11-06T08:49:37.000Z", d.ToISO())
		})
	}
}

func TestFromSQL(t *testing.T) {
	pinClock(t)

	tests := []struct {
		input string
		opts  []Option
		want  string
	}{
		{"2017-05-15", []Option{WithZone(zone.UTC)}, "2017-05-15T00:00:00.000Z"},
		{"2017-05-15 09:24:15", []Option{WithZone(zone.UTC)}, "2017-05-15T09:24:15.000Z"},
		{"2017-05-15 09:24:15.123 +06:00", []Option{WithSetZone()}, "2017-05-15T09:24:15.123+06:00"},
		{"09:24:15", nil, "2017-05-15T09:24:15.000-04:00"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := FromSQL(tt.input, tt.opts...)
			require.NoError(t, d.Err())
			assert.Equal(t, tt.want, d.ToISO())
		})
	}
}

func TestTextRoundTrips(t *testing.T) {
	pinClock(t)

	d := FromISO("2016-05-25T09:08:34.123+06:00", WithSetZone())
	require.NoError(t, d.Err())

	back := FromISO(d.ToISO(), WithSetZone())
	assert.True(t, back.Equal(d))

	rfc := FromRFC2822(d.ToRFC2822(), WithSetZone())
	assert.Equal(t, d.ToMillis()-int64(d.Millisecond()), rfc.ToMillis())

	http := FromHTTP(d.ToHTTP())
	assert.Equal(t, d.ToMillis()-int64(d.Millisecond()), http.ToMillis())

	sql := FromSQL(d.ToSQL(), WithSetZone())
	assert.Equal(t, d.ToMillis(), sql.ToMillis())
}
