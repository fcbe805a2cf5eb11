package almanac

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/almanac/zone"
)

func TestFromFormat(t *testing.T) {
	pinClock(t)

	tests := []struct {
		name   string
		input  string
		format string
		opts   []Option
		want   string
	}{
		{"month name", "May 25 1982", "LLLL dd yyyy", nil, "1982-05-25T00:00:00.000Z"},
		{"case insensitive names", "wed may 25 2016", "EEE MMM d yyyy", nil, "2016-05-25T00:00:00.000Z"},
		{"twelve hour pm", "3:30 PM", "h:mm a", nil, "2017-05-15T15:30:00.000Z"},
		{"twelve hour midnight", "12:05 AM", "h:mm a", nil, "2017-05-15T00:05:00.000Z"},
		{"quarter", "2017 Q2", "yyyy 'Q'q", nil, "2017-04-01T00:00:00.000Z"},
		{"two digit year", "15/05/17", "dd/MM/yy", nil, "2017-05-15T00:00:00.000Z"},
		{"two digit year before cutoff", "01/01/75", "dd/MM/yy", nil, "1975-01-01T00:00:00.000Z"},
		{"fraction", "09:24:15.123456", "HH:mm:ss.u", nil, "2017-05-15T09:24:15.123Z"},
		{"ordinal", "2016 146", "yyyy ooo", nil, "2016-05-25T00:00:00.000Z"},
		{"week date", "2016-W21-3", "kkkk-'W'WW-c", nil, "2016-05-25T00:00:00.000Z"},
		{"macro", "5/25/1982", "D", nil, "1982-05-25T00:00:00.000Z"},
		{"offset kept", "2017-05-15 09:24 +06:00", "yyyy-MM-dd HH:mm ZZ", []Option{WithSetZone()}, "2017-05-15T09:24:00.000+06:00"},
		{"offset converted", "2017-05-15 09:24 +0600", "yyyy-MM-dd HH:mm ZZZ", nil, "2017-05-15T03:24:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithZone(zone.UTC)}, tt.opts...)
			d := FromFormat(tt.input, tt.format, opts...)
			require.NoError(t, d.Err())
			assert.Equal(t, tt.want, d.ToISO())
		})
	}
}

func TestFromFormatZoneName(t *testing.T) {
	pinClock(t)

	d := FromFormat("2017-05-15 09:24 Europe/Paris", "yyyy-MM-dd HH:mm z", WithSetZone())
	require.NoError(t, d.Err())
	assert.Equal(t, "Europe/Paris", d.ZoneName())
	assert.Equal(t, "2017-05-15T09:24:00.000+02:00", d.ToISO())
}

func TestFromFormatEra(t *testing.T) {
	pinClock(t)

	d := FromFormat("44 BC", "y G", WithZone(zone.UTC))
	require.NoError(t, d.Err())
	assert.Equal(t, -44, d.Year())
}

func TestFromFormatInvalid(t *testing.T) {
	pinClock(t)

	d := FromFormat("15:00 PM", "HH:mm a")
	assert.ErrorIs(t, d.Err(), ErrConflictingSpecification)

	d = FromFormat("May 25", "yyyy-MM-dd")
	assert.ErrorIs(t, d.Err(), ErrUnparsable)
	assert.Contains(t, d.InvalidExplanation(), "format yyyy-MM-dd")

	d = FromFormat("2017-02-30", "yyyy-MM-dd")
	assert.ErrorIs(t, d.Err(), ErrUnitOutOfRange)
}

func TestFromFormatNumberingSystem(t *testing.T) {
	pinClock(t)

	d := FromFormat("٢٠١٧-٠٥-١٥", "yyyy-MM-dd", WithNumberingSystem("arab"), WithZone(zone.UTC))
	require.NoError(t, d.Err())
	assert.Equal(t, "2017-05-15T00:00:00.000Z", d.ToISO())
}

func TestDigitValue(t *testing.T) {
	assert.Equal(t, 7, digitValue('7'))
	assert.Equal(t, 0, digitValue('٠'))
	assert.Equal(t, 7, digitValue('٧'))
	assert.Equal(t, 9, digitValue('९'))
	assert.Equal(t, 2017, parseDigits("२०१७"))
}

func TestFormatParserConcurrent(t *testing.T) {
	pinClock(t)

	p := NewFormatParser("yyyy-MM-dd HH:mm")
	assert.Equal(t, "yyyy-MM-dd HH:mm", p.Format())

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := p.Parse("2017-05-15 09:24", WithZone(zone.UTC))
			assert.Equal(t, "2017-05-15T09:24:00.000Z", d.ToISO(), "worker %d", i)
		}()
	}
	wg.Wait()
}

func TestExplainFormat(t *testing.T) {
	pinClock(t)

	ex := ExplainFormat("May 25 1982", "LLLL dd yyyy")
	require.NoError(t, ex.Err)
	assert.Equal(t, []string{"LLLL", " ", "dd", " ", "yyyy"}, ex.Tokens)
	assert.Contains(t, ex.Regex, "(?i)^")
	assert.Equal(t, 1982, ex.Matches["y"])
	assert.Equal(t, 5, ex.Matches["L"])
	assert.Equal(t, Fields{Year: 1982, Month: 5, Day: 25}, ex.Result)
	assert.Nil(t, ex.Zone)

	ex = ExplainFormat("1464156514", "X")
	require.NoError(t, ex.Err)
	require.NotNil(t, ex.Millis)
	assert.Equal(t, int64(1464156514000), *ex.Millis)

	ex = ExplainFormat("1982", "yyyy-MM")
	assert.ErrorIs(t, ex.Err, ErrUnparsable)
}

func TestFromFormatEpoch(t *testing.T) {
	pinClock(t)

	tests := []struct {
		name   string
		input  string
		format string
		opts   []Option
		want   string
	}{
		{"seconds", "1464156514", "X", nil, "2016-05-25T06:08:34.000Z"},
		{"millis", "1464156514123", "x", nil, "2016-05-25T06:08:34.123Z"},
		{"negative seconds", "-86400", "X", nil, "1969-12-31T00:00:00.000Z"},
		{"negative millis", "-1", "x", nil, "1969-12-31T23:59:59.999Z"},
		{"surrounding literals", "ts=1464156514;", "'ts='X;", nil, "2016-05-25T06:08:34.000Z"},
		{"other fields ignored", "1999 1464156514", "yyyy X", nil, "2016-05-25T06:08:34.000Z"},
		{"result in option zone", "1464156514", "X", []Option{WithZoneName("America/New_York")}, "2016-05-25T02:08:34.000-04:00"},
		{"parsed zone kept", "1464156514 Asia/Kathmandu", "X z", []Option{WithSetZone()}, "2016-05-25T11:53:34.000+05:45"},
		{"parsed zone converted", "1464156514 Asia/Kathmandu", "X z", nil, "2016-05-25T06:08:34.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithZone(zone.UTC)}, tt.opts...)
			d := FromFormat(tt.input, tt.format, opts...)
			require.NoError(t, d.Err())
			assert.Equal(t, tt.want, d.ToISO())
		})
	}
}

func TestFromFormatEpochInvalid(t *testing.T) {
	for _, tc := range []struct{ input, format string }{
		{"99999999999999999999", "x"},
		{"9000000000000000", "X"},
		{"12a", "X"},
		{"", "x"},
	} {
		d := FromFormat(tc.input, tc.format, WithZone(zone.UTC))
		assert.False(t, d.IsValid(), "%q as %q", tc.input, tc.format)
	}
}

func TestFromFormatFieldPrecedence(t *testing.T) {
	pinClock(t)

	// Map iteration must not decide which of two tokens for the same unit
	// wins, so check repeatedly.
	for i := 0; i < 50; i++ {
		ex := ExplainFormat("13 01 05 06 3 5", "H h MM LL E c")
		require.NoError(t, ex.Err)
		assert.Equal(t, 13, ex.Result[Hour], "24-hour wins over 12-hour")
		assert.Equal(t, 5, ex.Result[Month], "format month wins over standalone")
		assert.Equal(t, 3, ex.Result[Weekday], "format weekday wins over standalone")
	}

	d := FromFormat("2017-05-15 13 01", "yyyy-MM-dd H h", WithZone(zone.UTC))
	require.NoError(t, d.Err())
	assert.Equal(t, 13, d.Hour())
}
