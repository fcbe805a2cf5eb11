package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/almanac/zone"
)

func TestISO(t *testing.T) {
	tests := []struct {
		in     string
		fields Fields
		zone   zone.Zone
	}{
		{
			in:     "2016-05-25T09:08:34.123+06:00",
			fields: Fields{"year": 2016, "month": 5, "day": 25, "hours": 9, "minutes": 8, "seconds": 34, "milliseconds": 123},
			zone:   zone.Fixed(360),
		},
		{
			in:     "20160525T090834Z",
			fields: Fields{"year": 2016, "month": 5, "day": 25, "hours": 9, "minutes": 8, "seconds": 34, "milliseconds": 0},
			zone:   zone.UTC,
		},
		{
			in:     "2016-05",
			fields: Fields{"year": 2016, "month": 5, "day": 1, "hours": 0, "minutes": 0, "seconds": 0, "milliseconds": 0},
		},
		{
			in:     "+002016-05-25",
			fields: Fields{"year": 2016, "month": 5, "day": 25, "hours": 0, "minutes": 0, "seconds": 0, "milliseconds": 0},
		},
		{
			in:     "2016-W21-3T09:24",
			fields: Fields{"weekYear": 2016, "weekNumber": 21, "weekday": 3, "hours": 9, "minutes": 24, "seconds": 0, "milliseconds": 0},
		},
		{
			in:     "2016W21",
			fields: Fields{"weekYear": 2016, "weekNumber": 21, "hours": 0, "minutes": 0, "seconds": 0, "milliseconds": 0},
		},
		{
			in:     "2016-200T12:00-04:30",
			fields: Fields{"year": 2016, "ordinal": 200, "hours": 12, "minutes": 0, "seconds": 0, "milliseconds": 0},
			zone:   zone.Fixed(-270),
		},
		{
			in:     "09:24:15,5",
			fields: Fields{"hours": 9, "minutes": 24, "seconds": 15, "milliseconds": 500},
		},
		{
			in:     "T0924",
			fields: Fields{"hours": 9, "minutes": 24, "seconds": 0, "milliseconds": 0},
		},
		{
			in:     "2016-05-25T09:08:34-04:00[America/New_York]",
			fields: Fields{"year": 2016, "month": 5, "day": 25, "hours": 9, "minutes": 8, "seconds": 34, "milliseconds": 0},
			zone:   zone.IANA("America/New_York"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res, ok := ISO(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.fields, res.Fields)
			if tt.zone == nil {
				assert.Nil(t, res.Zone)
			} else {
				require.NotNil(t, res.Zone)
				assert.True(t, tt.zone.Equals(res.Zone), "got zone %s", res.Zone.Name())
			}
		})
	}
}

func TestISORejects(t *testing.T) {
	for _, in := range []string{"", "2016-05-25T", "2016-05-25 09:08", "May 25", "2016-13-99x"} {
		_, ok := ISO(in)
		assert.False(t, ok, in)
	}
}

func TestSQL(t *testing.T) {
	res, ok := SQL("2017-05-15 09:24:15.123 +06:00")
	require.True(t, ok)
	assert.Equal(t, Fields{"year": 2017, "month": 5, "day": 15, "hours": 9, "minutes": 24, "seconds": 15, "milliseconds": 123}, res.Fields)
	assert.True(t, zone.Fixed(360).Equals(res.Zone))

	res, ok = SQL("2017-05-15 09:24:15 Europe/Paris")
	require.True(t, ok)
	assert.Equal(t, "Europe/Paris", res.Zone.Name())

	res, ok = SQL("2017-05-15")
	require.True(t, ok)
	assert.Nil(t, res.Zone)
	assert.Equal(t, 15, res.Fields["day"])

	res, ok = SQL("09:24:15")
	require.True(t, ok)
	assert.Equal(t, Fields{"hours": 9, "minutes": 24, "seconds": 15, "milliseconds": 0}, res.Fields)

	_, ok = SQL("2017-05-15T09:24:15")
	assert.False(t, ok)
}

func TestRFC2822(t *testing.T) {
	res, ok := RFC2822("Tue, 01 Nov 2016 13:23:12 +0630", 60)
	require.True(t, ok)
	assert.Equal(t, Fields{"year": 2016, "month": 11, "day": 1, "hour": 13, "minute": 23, "second": 12, "weekday": 2}, res.Fields)
	assert.True(t, zone.Fixed(390).Equals(res.Zone))

	res, ok = RFC2822("1 Nov 16 13:23 EST", 60)
	require.True(t, ok)
	assert.Equal(t, Fields{"year": 2016, "month": 11, "day": 1, "hour": 13, "minute": 23}, res.Fields)
	assert.True(t, zone.Fixed(-300).Equals(res.Zone))

	res, ok = RFC2822("Tue, 01 Nov 2016 (a comment)\n 13:23:12   Z", 60)
	require.True(t, ok)
	assert.Same(t, zone.UTC, res.Zone)

	_, ok = RFC2822("Tue, 01 November 2016 13:23:12 +0630", 60)
	assert.False(t, ok)
}

func TestPreprocessRFC2822(t *testing.T) {
	assert.Equal(t, "Tue, 01 Nov 2016 13:23:12 GMT", PreprocessRFC2822("  Tue, 01 Nov 2016 (x)\t13:23:12   GMT "))
}

func TestHTTP(t *testing.T) {
	want := Fields{"year": 1994, "month": 11, "day": 6, "hour": 8, "minute": 49, "second": 37, "weekday": 7}
	for _, in := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		res, ok := HTTP(in, 60)
		require.True(t, ok, in)
		assert.Equal(t, want, res.Fields, in)
		assert.Same(t, zone.UTC, res.Zone, in)
	}

	_, ok := HTTP("Sun, 06 Nov 1994 08:49:37 +0000", 60)
	assert.False(t, ok)
}

func TestISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]float64
	}{
		{"P1Y6DT2S", map[string]float64{"years": 1, "days": 6, "seconds": 2}},
		{"P2M3W", map[string]float64{"months": 2, "weeks": 3}},
		{"PT1.5S", map[string]float64{"seconds": 1, "milliseconds": 500}},
		{"PT1,25S", map[string]float64{"seconds": 1, "milliseconds": 250}},
		{"P0.5Y", map[string]float64{"years": 0.5}},
		{"-P1DT2H", map[string]float64{"days": -1, "hours": -2}},
		{"P-1DT2H", map[string]float64{"days": -1, "hours": 2}},
		{"PT-1.5S", map[string]float64{"seconds": -1, "milliseconds": -500}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ISODuration(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"P", "PT", "1Y", "P1S", "PT1Y", "P1.5.5Y"} {
		_, ok := ISODuration(in)
		assert.False(t, ok, in)
	}
}

func TestISOTimeOnly(t *testing.T) {
	f, ok := ISOTimeOnly("11:22:33.444")
	require.True(t, ok)
	assert.Equal(t, Fields{"hours": 11, "minutes": 22, "seconds": 33, "milliseconds": 444}, f)

	_, ok = ISOTimeOnly("11:22Z")
	assert.False(t, ok)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 100, Millis("1"))
	assert.Equal(t, 120, Millis("12"))
	assert.Equal(t, 123, Millis("123456"))
	assert.Equal(t, 0, Millis(""))
}
