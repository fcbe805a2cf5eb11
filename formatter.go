package almanac

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpuguy83/almanac/internal/calmath"
	"github.com/cpuguy83/almanac/internal/tokens"
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// formatter renders format tokens for one locale.
type formatter struct {
	loc locale.Locale
	svc locale.Service

	// simple forces ASCII digits regardless of locale.
	simple bool

	// allowZ renders a zero offset in a fixed zone as "Z".
	allowZ bool
}

var techLocale = locale.Locale{Tag: locale.DefaultTag}

func newFormatter(loc locale.Locale) formatter {
	return formatter{loc: loc, svc: localeService()}
}

// techFormatter renders machine-readable layouts: English names and ASCII
// digits whatever the value's locale.
func techFormatter(allowZ bool) formatter {
	return formatter{loc: techLocale, svc: locale.English{}, simple: true, allowZ: allowZ}
}

func formatInt(svc locale.Service, loc locale.Locale, n int64, minDigits int) string {
	if loc.FastNumbers() {
		return locale.PadInt(n, minDigits)
	}
	return svc.FormatNumber(loc, n, minDigits)
}

func (f formatter) num(n int64, minDigits int) string {
	if f.simple {
		return locale.PadInt(n, minDigits)
	}
	return formatInt(f.svc, f.loc, n, minDigits)
}

func (f formatter) preset(p locale.Preset) string {
	if s, ok := f.svc.Preset(f.loc, p); ok {
		return s
	}
	return locale.EnglishPattern(p)
}

func pickName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return ""
	}
	return names[i]
}

// lastTwo keeps the last two characters of n's decimal form, as "yy" does.
func lastTwo(n int) int64 {
	s := strconv.Itoa(n)
	if len(s) > 2 {
		s = s[len(s)-2:]
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func (f formatter) formatDateTime(d DateTime, format string) string {
	return f.renderDateTime(d, tokens.Expand(tokens.Parse(format), f.preset))
}

func (f formatter) renderDateTime(d DateTime, toks []tokens.Token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.Literal {
			b.WriteString(t.Val)
			continue
		}
		b.WriteString(f.dateTimeToken(d, t.Val))
	}
	return b.String()
}

func (f formatter) offset(d DateTime, format zone.OffsetFormat) string {
	if f.allowZ && d.zone.Universal() && d.o == 0 {
		return "Z"
	}
	return d.zone.FormatOffset(d.ts, format)
}

func (f formatter) month(d DateTime, length locale.Length, standalone bool) string {
	return pickName(f.svc.Months(f.loc, length, standalone), d.c.Month-1)
}

func (f formatter) weekday(d DateTime, length locale.Length, standalone bool) string {
	return pickName(f.svc.Weekdays(f.loc, length, standalone), d.Weekday()-1)
}

func (f formatter) meridiem(d DateTime) string {
	i := 0
	if d.c.Hour >= 12 {
		i = 1
	}
	return pickName(f.svc.Meridiems(f.loc), i)
}

func (f formatter) era(d DateTime, length locale.Length) string {
	i := 1
	if d.c.Year < 0 {
		i = 0
	}
	return pickName(f.svc.Eras(f.loc, length), i)
}

func hour12(h int) int64 {
	if h%12 == 0 {
		return 12
	}
	return int64(h % 12)
}

func (f formatter) dateTimeToken(d DateTime, tok string) string {
	c := d.c
	switch tok {
	// fractional seconds
	case "S":
		return f.num(int64(c.Millisecond), 0)
	case "u", "SSS":
		return f.num(int64(c.Millisecond), 3)
	case "uu":
		return f.num(int64(c.Millisecond/10), 2)
	case "uuu":
		return f.num(int64(c.Millisecond/100), 0)

	// seconds, minutes, hours
	case "s":
		return f.num(int64(c.Second), 0)
	case "ss":
		return f.num(int64(c.Second), 2)
	case "m":
		return f.num(int64(c.Minute), 0)
	case "mm":
		return f.num(int64(c.Minute), 2)
	case "h":
		return f.num(hour12(c.Hour), 0)
	case "hh":
		return f.num(hour12(c.Hour), 2)
	case "H":
		return f.num(int64(c.Hour), 0)
	case "HH":
		return f.num(int64(c.Hour), 2)

	// offsets and zones
	case "Z":
		return f.offset(d, zone.OffsetNarrow)
	case "ZZ":
		return f.offset(d, zone.OffsetShort)
	case "ZZZ":
		return f.offset(d, zone.OffsetTechie)
	case "ZZZZ":
		return d.zone.OffsetName(d.ts, zone.NameShort)
	case "ZZZZZ":
		return d.zone.OffsetName(d.ts, zone.NameLong)
	case "z":
		return d.zone.Name()
	case "a":
		return f.meridiem(d)

	// days
	case "d":
		return f.num(int64(c.Day), 0)
	case "dd":
		return f.num(int64(c.Day), 2)
	case "c", "E":
		return f.num(int64(d.Weekday()), 0)
	case "ccc":
		return f.weekday(d, locale.Short, true)
	case "cccc":
		return f.weekday(d, locale.Long, true)
	case "ccccc":
		return f.weekday(d, locale.Narrow, true)
	case "EEE":
		return f.weekday(d, locale.Short, false)
	case "EEEE":
		return f.weekday(d, locale.Long, false)
	case "EEEEE":
		return f.weekday(d, locale.Narrow, false)

	// months
	case "L", "M":
		return f.num(int64(c.Month), 0)
	case "LL", "MM":
		return f.num(int64(c.Month), 2)
	case "LLL":
		return f.month(d, locale.Short, true)
	case "LLLL":
		return f.month(d, locale.Long, true)
	case "LLLLL":
		return f.month(d, locale.Narrow, true)
	case "MMM":
		return f.month(d, locale.Short, false)
	case "MMMM":
		return f.month(d, locale.Long, false)
	case "MMMMM":
		return f.month(d, locale.Narrow, false)

	// years and eras
	case "y":
		return f.num(int64(c.Year), 0)
	case "yy":
		return f.num(lastTwo(c.Year), 2)
	case "yyyy":
		return f.num(int64(c.Year), 4)
	case "yyyyyy":
		return f.num(int64(c.Year), 6)
	case "G":
		return f.era(d, locale.Short)
	case "GG":
		return f.era(d, locale.Long)
	case "GGGGG":
		return f.era(d, locale.Narrow)

	// week dates, ordinals, quarters
	case "kk":
		return f.num(lastTwo(d.WeekYear()), 2)
	case "kkkk":
		return f.num(int64(d.WeekYear()), 4)
	case "W":
		return f.num(int64(d.WeekNumber()), 0)
	case "WW":
		return f.num(int64(d.WeekNumber()), 2)
	case "o":
		return f.num(int64(d.Ordinal()), 0)
	case "ooo":
		return f.num(int64(d.Ordinal()), 3)
	case "q":
		return f.num(int64(d.Quarter()), 0)
	case "qq":
		return f.num(int64(d.Quarter()), 2)

	// epoch
	case "X":
		return f.num(calmath.FloorDiv(d.ts, 1000), 0)
	case "x":
		return f.num(d.ts, 0)
	}
	return tok
}

// durationTokenUnit maps a duration format token to its unit.
func durationTokenUnit(tok string) (Unit, bool) {
	switch tok[0] {
	case 'S':
		return Millisecond, true
	case 's':
		return Second, true
	case 'm':
		return Minute, true
	case 'h':
		return Hour, true
	case 'd':
		return Day, true
	case 'w':
		return Week, true
	case 'M':
		return Month, true
	case 'y':
		return Year, true
	}
	return 0, false
}

// formatDuration shifts dur to the units named in format and renders each,
// rounded down and padded to the token length.
func (f formatter) formatDuration(dur Duration, format string) string {
	toks := tokens.Parse(format)

	var units []Unit
	for _, t := range toks {
		if t.Literal {
			continue
		}
		if u, ok := durationTokenUnit(t.Val); ok {
			units = append(units, u)
		}
	}
	collapsed := dur.ShiftTo(units...)

	var b strings.Builder
	for _, t := range toks {
		u, ok := durationTokenUnit(t.Val)
		if t.Literal || !ok {
			b.WriteString(t.Val)
			continue
		}
		b.WriteString(f.num(int64(math.Floor(collapsed.Get(u))), len(t.Val)))
	}
	return b.String()
}

// ToFormat renders d with a token format such as "yyyy-MM-dd HH:mm" or
// "DDD 'at' t". Text in single quotes is copied as is.
func (d DateTime) ToFormat(format string) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return newFormatter(d.loc).formatDateTime(d, format)
}

// ToLocaleString renders d with a locale preset.
func (d DateTime) ToLocaleString(p locale.Preset) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	f := newFormatter(d.loc)
	return f.renderDateTime(d, tokens.Parse(f.preset(p)))
}

// ToFormat renders d with duration tokens: y, M, w, d, h, m, s and S, each
// padded to its length. "hh:mm:ss" renders 90 minutes as "01:30:00".
func (d Duration) ToFormat(format string) string {
	if !d.IsValid() {
		return "Invalid Duration"
	}
	return newFormatter(d.locale()).formatDuration(d, format)
}
