package almanac

import (
	"cmp"
	"maps"
	"math"
	"time"

	"github.com/cpuguy83/almanac/internal/calmath"
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// maxTimestamp bounds epoch milliseconds to ±100,000,000 days.
const maxTimestamp = 8_640_000_000_000_000

// DateTime is an instant seen through a zone and a locale. The calendar
// fields are computed once at construction and always agree with the instant
// under the zone's offset. The zero value is invalid.
type DateTime struct {
	ts      int64
	zone    zone.Zone
	loc     locale.Locale
	c       calmath.Gregorian
	o       int
	invalid *Invalid
}

var errZeroDateTime = &Invalid{
	Kind:        ErrInvalidArgument,
	Reason:      "uninitialized",
	Explanation: "the zero DateTime holds no instant",
}

func newDateTime(ts int64, z zone.Zone, loc locale.Locale) DateTime {
	if !z.IsValid() {
		return invalidDateTime(unsupportedZone(z.Name()), z, loc)
	}
	return withOffset(ts, z.Offset(ts), z, loc)
}

// withOffset builds a DateTime whose offset at ts is already known.
func withOffset(ts int64, o int, z zone.Zone, loc locale.Locale) DateTime {
	return DateTime{ts: ts, zone: z, loc: loc, c: calmath.TSToObj(ts, o), o: o}
}

func invalidDateTime(inv *Invalid, z zone.Zone, loc locale.Locale) DateTime {
	raise(inv)
	return DateTime{zone: z, loc: loc, invalid: inv}
}

func unitOutOfRange(p *calmath.Problem) *Invalid {
	return newInvalid(ErrUnitOutOfRange, p.Error())
}

// objToTS resolves wall-clock fields to an instant in z.
func objToTS(g calmath.Gregorian, offset int, z zone.Zone) (int64, int) {
	return zone.FixOffset(calmath.ObjToLocalTS(g), offset, z)
}

// InvalidDateTime returns an invalid DateTime carrying a caller-supplied
// reason.
func InvalidDateTime(reason, explanation string) DateTime {
	return invalidDateTime(&Invalid{Reason: reason, Explanation: explanation}, nil, locale.Locale{})
}

// Now returns the current instant in the default zone and locale.
func Now() DateTime {
	return newDateTime(nowMillis(), DefaultZone(), DefaultLocale())
}

// Local builds a DateTime from wall-clock fields in the default zone, or in
// the zone given with WithZone.
func Local(year, month, day, hour, minute, second, millisecond int, opts ...Option) DateTime {
	g := calmath.Gregorian{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Millisecond: millisecond,
	}
	return quickDT(g, buildOptions(opts))
}

// UTC builds a DateTime from wall-clock fields in UTC.
func UTC(year, month, day, hour, minute, second, millisecond int, opts ...Option) DateTime {
	o := buildOptions(opts)
	o.zone = zone.UTC
	g := calmath.Gregorian{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Millisecond: millisecond,
	}
	return quickDT(g, o)
}

func quickDT(g calmath.Gregorian, o options) DateTime {
	z, loc := o.zoneOr(), o.localeOr()
	if !z.IsValid() {
		return invalidDateTime(unsupportedZone(z.Name()), z, loc)
	}
	problem := calmath.InvalidGregorian(g)
	if problem == nil {
		problem = calmath.InvalidTime(g.Hour, g.Minute, g.Second, g.Millisecond)
	}
	if problem != nil {
		return invalidDateTime(unitOutOfRange(problem), z, loc)
	}
	ts, offset := objToTS(g, z.Offset(nowMillis()), z)
	return withOffset(ts, offset, z, loc)
}

// FromMillis builds a DateTime from epoch milliseconds.
func FromMillis(ms int64, opts ...Option) DateTime {
	o := buildOptions(opts)
	z, loc := o.zoneOr(), o.localeOr()
	if ms < -maxTimestamp || ms > maxTimestamp {
		return invalidDateTime(newInvalid(ErrInvalidArgument, "timestamp %d is out of range", ms), z, loc)
	}
	return newDateTime(ms, z, loc)
}

// FromSeconds builds a DateTime from epoch seconds. Fractions are rounded to
// the nearest millisecond.
func FromSeconds(s float64, opts ...Option) DateTime {
	ms := s * 1000
	if math.IsNaN(ms) || math.Abs(ms) > maxTimestamp {
		o := buildOptions(opts)
		return invalidDateTime(newInvalid(ErrInvalidArgument, "seconds %v out of range", s), o.zoneOr(), o.localeOr())
	}
	return FromMillis(int64(math.Round(ms)), opts...)
}

// FromTime converts a time.Time. The zone is taken from t's location unless
// WithZone is given.
func FromTime(t time.Time, opts ...Option) DateTime {
	if buildOptions(opts).zone == nil {
		opts = append(opts, WithZone(zoneFromLocation(t)))
	}
	return FromMillis(t.UnixMilli(), opts...)
}

func zoneFromLocation(t time.Time) zone.Zone {
	switch loc := t.Location(); loc {
	case time.UTC:
		return zone.UTC
	case time.Local:
		return zone.Local()
	default:
		if z := zone.IANA(loc.String()); z.IsValid() {
			return z
		}
	}
	_, offset := t.Zone()
	return zone.Fixed(offset / 60)
}

var (
	gregorianUnits = []Unit{Year, Month, Day, Hour, Minute, Second, Millisecond}
	weekUnits      = []Unit{WeekYear, WeekNumber, Weekday, Hour, Minute, Second, Millisecond}
	ordinalUnits   = []Unit{Year, Ordinal, Hour, Minute, Second, Millisecond}
)

func defaultFieldValue(u Unit) int {
	switch u {
	case Month, Day, WeekNumber, Weekday, Ordinal:
		return 1
	}
	return 0
}

func gregorianFields(g calmath.Gregorian) Fields {
	return Fields{
		Year: g.Year, Month: g.Month, Day: g.Day,
		Hour: g.Hour, Minute: g.Minute, Second: g.Second, Millisecond: g.Millisecond,
	}
}

func weekFields(w calmath.WeekDate) Fields {
	return Fields{
		WeekYear: w.WeekYear, WeekNumber: w.WeekNumber, Weekday: w.Weekday,
		Hour: w.Hour, Minute: w.Minute, Second: w.Second, Millisecond: w.Millisecond,
	}
}

func ordinalFields(od calmath.OrdinalDate) Fields {
	return Fields{
		Year: od.Year, Ordinal: od.Ordinal,
		Hour: od.Hour, Minute: od.Minute, Second: od.Second, Millisecond: od.Millisecond,
	}
}

func (f Fields) gregorian() calmath.Gregorian {
	return calmath.Gregorian{
		Year: f[Year], Month: f[Month], Day: f[Day],
		Hour: f[Hour], Minute: f[Minute], Second: f[Second], Millisecond: f[Millisecond],
	}
}

func (f Fields) week() calmath.WeekDate {
	return calmath.WeekDate{
		WeekYear: f[WeekYear], WeekNumber: f[WeekNumber], Weekday: f[Weekday],
		Hour: f[Hour], Minute: f[Minute], Second: f[Second], Millisecond: f[Millisecond],
	}
}

func (f Fields) ordinal() calmath.OrdinalDate {
	return calmath.OrdinalDate{
		Year: f[Year], Ordinal: f[Ordinal],
		Hour: f[Hour], Minute: f[Minute], Second: f[Second], Millisecond: f[Millisecond],
	}
}

func (f Fields) has(u Unit) bool {
	_, ok := f[u]
	return ok
}

// checkFieldUnits rejects units that are not calendar fields.
func checkFieldUnits(f Fields) *Invalid {
	for u := range f {
		if _, known := unitNames[u]; !known || u == Quarter || u == Week {
			return newInvalid(ErrInvalidUnit, "%s is not a calendar field", u)
		}
	}
	return nil
}

// fieldShape classifies field input into one of the three calendar systems.
type fieldShape struct {
	week, ordinal, gregorian bool
}

func shapeOf(f Fields) (fieldShape, *Invalid) {
	containsOrdinal := f.has(Ordinal)
	containsGregorMD := f.has(Month) || f.has(Day)
	containsGregor := f.has(Year) || containsGregorMD
	definiteWeekDef := f.has(WeekYear) || f.has(WeekNumber)

	if (containsGregor || containsOrdinal) && definiteWeekDef {
		return fieldShape{}, newInvalid(ErrConflictingSpecification, "can't mix weekYear/weekNumber units with year/month/day or ordinals")
	}
	if containsGregorMD && containsOrdinal {
		return fieldShape{}, newInvalid(ErrConflictingSpecification, "can't mix ordinal dates with month/day")
	}
	return fieldShape{
		week:      definiteWeekDef || (f.has(Weekday) && !containsGregor),
		ordinal:   containsOrdinal,
		gregorian: containsGregor,
	}, nil
}

// FromObject builds a DateTime from calendar fields in one of three systems:
// Gregorian (Year, Month, Day), ISO week date (WeekYear, WeekNumber,
// Weekday) or ordinal (Year, Ordinal), each with optional time fields.
//
// Units larger than the largest one given are taken from the current time;
// smaller ones default to the start of their range. FromObject(Fields{Hour:
// 9}) is today at 09:00. Out-of-range fields and mixed systems produce an
// invalid DateTime.
func FromObject(fields Fields, opts ...Option) DateTime {
	return fromObject(fields, buildOptions(opts), nil)
}

func fromObject(fields Fields, o options, specificOffset *int) DateTime {
	z, loc := o.zoneOr(), o.localeOr()
	if !z.IsValid() {
		return invalidDateTime(unsupportedZone(z.Name()), z, loc)
	}
	if inv := checkFieldUnits(fields); inv != nil {
		return invalidDateTime(inv, z, loc)
	}
	shape, inv := shapeOf(fields)
	if inv != nil {
		return invalidDateTime(inv, z, loc)
	}

	tsNow := nowMillis()
	offsetProvis := z.Offset(tsNow)
	if specificOffset != nil {
		offsetProvis = *specificOffset
	}
	objNow := calmath.TSToObj(tsNow, offsetProvis)

	var (
		units []Unit
		now   Fields
	)
	switch {
	case shape.week:
		units, now = weekUnits, weekFields(calmath.GregorianToWeek(objNow))
	case shape.ordinal:
		units, now = ordinalUnits, ordinalFields(calmath.GregorianToOrdinal(objNow))
	default:
		units, now = gregorianUnits, gregorianFields(objNow)
	}

	normalized := make(Fields, len(units))
	foundFirst := false
	for _, u := range units {
		switch v, ok := fields[u]; {
		case ok:
			foundFirst = true
			normalized[u] = v
		case foundFirst:
			normalized[u] = defaultFieldValue(u)
		default:
			normalized[u] = now[u]
		}
	}

	g, problem := resolveFields(normalized, shape)
	if problem != nil {
		return invalidDateTime(unitOutOfRange(problem), z, loc)
	}

	ts, offset := objToTS(g, offsetProvis, z)
	d := withOffset(ts, offset, z, loc)

	if wd, ok := fields[Weekday]; ok && shape.gregorian && wd != d.Weekday() {
		return invalidDateTime(newInvalid(ErrMismatchedWeekday,
			"you can't specify both a weekday of %d and a date of %s", wd, d.ToISO()), z, loc)
	}
	return d
}

// resolveFields validates complete fields of the given shape and converts
// them to Gregorian.
func resolveFields(f Fields, shape fieldShape) (calmath.Gregorian, *calmath.Problem) {
	var (
		g       calmath.Gregorian
		problem *calmath.Problem
	)
	switch {
	case shape.week:
		w := f.week()
		if problem = calmath.InvalidWeek(w); problem == nil {
			g = calmath.WeekToGregorian(w)
		}
	case shape.ordinal:
		od := f.ordinal()
		if problem = calmath.InvalidOrdinal(od); problem == nil {
			g = calmath.OrdinalToGregorian(od)
		}
	default:
		g = f.gregorian()
		problem = calmath.InvalidGregorian(g)
	}
	if problem == nil {
		problem = calmath.InvalidTime(g.Hour, g.Minute, g.Second, g.Millisecond)
	}
	return g, problem
}

// IsValid reports whether d holds an instant.
func (d DateTime) IsValid() bool {
	return d.invalid == nil && d.zone != nil
}

// Err returns the reason d is invalid, or nil.
func (d DateTime) Err() error {
	if inv := d.problem(); inv != nil {
		return inv
	}
	return nil
}

func (d DateTime) problem() *Invalid {
	switch {
	case d.invalid != nil:
		return d.invalid
	case d.zone == nil:
		return errZeroDateTime
	}
	return nil
}

func (d DateTime) InvalidReason() string {
	if inv := d.problem(); inv != nil {
		return inv.Reason
	}
	return ""
}

func (d DateTime) InvalidExplanation() string {
	if inv := d.problem(); inv != nil {
		return inv.Explanation
	}
	return ""
}

// then applies fn to a valid d and passes an invalid d through unchanged.
func (d DateTime) then(fn func() DateTime) DateTime {
	if !d.IsValid() {
		return d
	}
	return fn()
}

// field returns v when d is valid and 0 otherwise.
func (d DateTime) field(v int) int {
	if !d.IsValid() {
		return 0
	}
	return v
}

func (d DateTime) Year() int        { return d.field(d.c.Year) }
func (d DateTime) Month() int       { return d.field(d.c.Month) }
func (d DateTime) Day() int         { return d.field(d.c.Day) }
func (d DateTime) Hour() int        { return d.field(d.c.Hour) }
func (d DateTime) Minute() int      { return d.field(d.c.Minute) }
func (d DateTime) Second() int      { return d.field(d.c.Second) }
func (d DateTime) Millisecond() int { return d.field(d.c.Millisecond) }

// Quarter returns 1 through 4.
func (d DateTime) Quarter() int {
	return d.field((d.c.Month + 2) / 3)
}

// Weekday returns the ISO weekday, Monday=1 through Sunday=7.
func (d DateTime) Weekday() int {
	return d.field(calmath.DayOfWeek(d.c.Year, d.c.Month, d.c.Day))
}

func (d DateTime) weekData() calmath.WeekDate {
	if !d.IsValid() {
		return calmath.WeekDate{}
	}
	return calmath.GregorianToWeek(d.c)
}

func (d DateTime) WeekYear() int   { return d.weekData().WeekYear }
func (d DateTime) WeekNumber() int { return d.weekData().WeekNumber }

// Ordinal returns the day of the year.
func (d DateTime) Ordinal() int {
	if !d.IsValid() {
		return 0
	}
	return calmath.ComputeOrdinal(d.c.Year, d.c.Month, d.c.Day)
}

func (d DateTime) DaysInMonth() int {
	return d.field(calmath.DaysInMonth(d.c.Year, d.c.Month))
}

func (d DateTime) DaysInYear() int {
	return d.field(calmath.DaysInYear(d.c.Year))
}

func (d DateTime) WeeksInWeekYear() int {
	if !d.IsValid() {
		return 0
	}
	return calmath.WeeksInWeekYear(d.WeekYear())
}

func (d DateTime) IsInLeapYear() bool {
	return d.IsValid() && calmath.IsLeapYear(d.c.Year)
}

// Offset returns the UTC offset in minutes.
func (d DateTime) Offset() int {
	return d.field(d.o)
}

// OffsetNameShort returns the abbreviated offset name, e.g. "EST".
func (d DateTime) OffsetNameShort() string {
	if !d.IsValid() {
		return ""
	}
	return d.zone.OffsetName(d.ts, zone.NameShort)
}

func (d DateTime) OffsetNameLong() string {
	if !d.IsValid() {
		return ""
	}
	return d.zone.OffsetName(d.ts, zone.NameLong)
}

// IsOffsetFixed reports whether the zone never changes offset.
func (d DateTime) IsOffsetFixed() bool {
	return d.IsValid() && d.zone.Universal()
}

// IsInDST reports whether the offset is ahead of the zone's offset in either
// January or May of the same year.
func (d DateTime) IsInDST() bool {
	if !d.IsValid() || d.zone.Universal() {
		return false
	}
	return d.o > d.Set(Fields{Month: 1, Day: 1}).o || d.o > d.Set(Fields{Month: 5}).o
}

func (d DateTime) Zone() zone.Zone {
	return d.zone
}

func (d DateTime) ZoneName() string {
	if d.zone == nil {
		return ""
	}
	return d.zone.Name()
}

func (d DateTime) Locale() locale.Locale {
	return d.loc
}

// ToMillis returns epoch milliseconds, or 0 if d is invalid.
func (d DateTime) ToMillis() int64 {
	if !d.IsValid() {
		return 0
	}
	return d.ts
}

// ToSeconds returns epoch seconds including the fractional part.
func (d DateTime) ToSeconds() float64 {
	return float64(d.ToMillis()) / 1000
}

// ToUnixInteger returns whole epoch seconds, rounded down.
func (d DateTime) ToUnixInteger() int64 {
	return calmath.FloorDiv(d.ToMillis(), 1000)
}

// ToObject returns the Gregorian fields.
func (d DateTime) ToObject() Fields {
	if !d.IsValid() {
		return Fields{}
	}
	return gregorianFields(d.c)
}

// Time converts d to a time.Time in the equivalent location.
func (d DateTime) Time() time.Time {
	if !d.IsValid() {
		return time.Time{}
	}
	t := time.UnixMilli(d.ts)
	switch z := d.zone.(type) {
	case *zone.IANAZone:
		return t.In(z.Location())
	case *zone.LocalZone:
		return t.In(time.Local)
	}
	if d.o == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone(d.zone.Name(), d.o*60))
}

// Plus adds dur. Years, quarters, months, weeks and days move the calendar
// fields, so adding a day across a DST change keeps the wall-clock time;
// smaller units move the instant.
func (d DateTime) Plus(dur Duration) DateTime {
	return d.then(func() DateTime {
		if inv := dur.problem(); inv != nil {
			return invalidDateTime(inv, d.zone, d.loc)
		}
		ts, o := d.adjustTime(dur)
		return withOffset(ts, o, d.zone, d.loc)
	})
}

// Minus subtracts dur.
func (d DateTime) Minus(dur Duration) DateTime {
	return d.Plus(dur.Negate())
}

func (d DateTime) adjustTime(dur Duration) (int64, int) {
	whole := func(u Unit) int {
		return int(math.Trunc(dur.Get(u)))
	}
	frac := func(u Unit) float64 {
		v := dur.Get(u)
		return v - math.Trunc(v)
	}

	c := d.c
	c.Year += whole(Year)
	c.Month += whole(Month) + whole(Quarter)*3
	c.Day = min(d.c.Day, calmath.DaysInMonth(c.Year, c.Month)) + whole(Day) + whole(Week)*7

	millisToAdd := DurationFromObject(Values{
		Year:        frac(Year),
		Quarter:     frac(Quarter),
		Month:       frac(Month),
		Week:        frac(Week),
		Day:         frac(Day),
		Hour:        dur.Get(Hour),
		Minute:      dur.Get(Minute),
		Second:      dur.Get(Second),
		Millisecond: dur.Get(Millisecond),
	}).As(Millisecond)

	ts, o := objToTS(c, d.o, d.zone)
	if millisToAdd != 0 {
		ts += int64(math.Round(millisToAdd))
		o = d.zone.Offset(ts)
	}
	return ts, o
}

// Set replaces the given fields, keeping the rest. Fields follow the same
// systems as FromObject. Setting Month alone clamps the day to the new
// month's length. Out-of-range results are invalid rather than rolled over.
func (d DateTime) Set(fields Fields) DateTime {
	return d.then(func() DateTime {
		if inv := checkFieldUnits(fields); inv != nil {
			return invalidDateTime(inv, d.zone, d.loc)
		}
		shape, inv := shapeOf(fields)
		if inv != nil {
			return invalidDateTime(inv, d.zone, d.loc)
		}

		var mixed Fields
		switch {
		case fields.has(WeekYear) || fields.has(WeekNumber) || fields.has(Weekday):
			shape = fieldShape{week: true}
			mixed = weekFields(d.weekData())
			maps.Copy(mixed, fields)
		case shape.ordinal:
			mixed = ordinalFields(calmath.GregorianToOrdinal(d.c))
			maps.Copy(mixed, fields)
		default:
			mixed = gregorianFields(d.c)
			maps.Copy(mixed, fields)
			if !fields.has(Day) {
				mixed[Day] = min(calmath.DaysInMonth(mixed[Year], mixed[Month]), mixed[Day])
			}
		}

		g, problem := resolveFields(mixed, shape)
		if problem != nil {
			return invalidDateTime(unitOutOfRange(problem), d.zone, d.loc)
		}
		ts, o := objToTS(g, d.o, d.zone)
		return withOffset(ts, o, d.zone, d.loc)
	})
}

// StartOf returns the first millisecond of the unit containing d. Weeks
// start on Monday.
func (d DateTime) StartOf(unit Unit) DateTime {
	return d.then(func() DateTime {
		if !unit.isDurationUnit() {
			return invalidDateTime(newInvalid(ErrInvalidUnit, "can't take the start of a %s", unit), d.zone, d.loc)
		}

		f := Fields{}
		switch unit {
		case Year:
			f[Month] = 1
			fallthrough
		case Quarter, Month:
			f[Day] = 1
			fallthrough
		case Week, Day:
			f[Hour] = 0
			fallthrough
		case Hour:
			f[Minute] = 0
			fallthrough
		case Minute:
			f[Second] = 0
			fallthrough
		case Second:
			f[Millisecond] = 0
		}

		switch unit {
		case Week:
			f[Weekday] = 1
		case Quarter:
			q := (d.c.Month + 2) / 3
			f[Month] = (q-1)*3 + 1
		}

		if len(f) == 0 {
			return d
		}
		return d.Set(f)
	})
}

// EndOf returns the last millisecond of the unit containing d.
func (d DateTime) EndOf(unit Unit) DateTime {
	return d.then(func() DateTime {
		if !unit.isDurationUnit() {
			return invalidDateTime(newInvalid(ErrInvalidUnit, "can't take the end of a %s", unit), d.zone, d.loc)
		}
		return d.Plus(DurationFromObject(Values{unit: 1})).StartOf(unit).Minus(DurationFromMillis(1))
	})
}

// SetZone moves d to z. By default the instant is kept and the wall-clock
// fields change; with keepLocalTime the wall-clock fields are kept and the
// instant changes. A nil z means the default zone.
func (d DateTime) SetZone(z zone.Zone, keepLocalTime bool) DateTime {
	return d.then(func() DateTime {
		if z == nil {
			z = DefaultZone()
		}
		if z.Equals(d.zone) {
			return d
		}
		if !z.IsValid() {
			return invalidDateTime(unsupportedZone(z.Name()), z, d.loc)
		}
		ts := d.ts
		if keepLocalTime {
			ts, _ = objToTS(d.c, z.Offset(d.ts), z)
		}
		return newDateTime(ts, z, d.loc)
	})
}

func (d DateTime) ToUTC() DateTime {
	return d.SetZone(zone.UTC, false)
}

// ToLocal moves d to the default zone.
func (d DateTime) ToLocal() DateTime {
	return d.SetZone(DefaultZone(), false)
}

// Reconfigure replaces the locale settings given by WithLocale,
// WithNumberingSystem and WithOutputCalendar. Zone options are ignored.
func (d DateTime) Reconfigure(opts ...Option) DateTime {
	o := buildOptions(opts)
	tag, ns, cal := d.loc.Tag, d.loc.NumberingSystem, d.loc.OutputCalendar
	if o.locale != "" {
		tag = o.locale
	}
	if o.numberingSystem != "" {
		ns = o.numberingSystem
	}
	if o.outputCalendar != "" {
		cal = o.outputCalendar
	}
	d.loc = locale.New(tag, ns, cal)
	return d
}

func (d DateTime) SetLocale(tag string) DateTime {
	return d.Reconfigure(WithLocale(tag))
}

// Equal reports whether both values are valid and have the same instant,
// zone and locale. Use Compare to compare instants only.
func (d DateTime) Equal(other DateTime) bool {
	return d.IsValid() && other.IsValid() &&
		d.ts == other.ts &&
		d.zone.Equals(other.zone) &&
		d.loc.Equals(other.loc)
}

// Before reports whether d is strictly earlier than other.
func (d DateTime) Before(other DateTime) bool {
	return d.IsValid() && other.IsValid() && d.ts < other.ts
}

// After reports whether d is strictly later than other.
func (d DateTime) After(other DateTime) bool {
	return d.IsValid() && other.IsValid() && d.ts > other.ts
}

// Compare orders by instant, returning -1, 0 or +1. Invalid values order as
// timestamp 0.
func (d DateTime) Compare(other DateTime) int {
	return cmp.Compare(d.ToMillis(), other.ToMillis())
}

// HasSame reports whether d and other fall in the same unit, e.g. the same
// calendar day. d is first converted to other's zone keeping its wall
// clock.
func (d DateTime) HasSame(other DateTime, unit Unit) bool {
	if !d.IsValid() || !other.IsValid() {
		return false
	}
	adjusted := d.SetZone(other.zone, true)
	start, end := adjusted.StartOf(unit), adjusted.EndOf(unit)
	if !start.IsValid() || !end.IsValid() {
		return false
	}
	return start.ts <= other.ts && other.ts <= end.ts
}

// Until returns the interval from d to other.
func (d DateTime) Until(other DateTime) Interval {
	return IntervalFromDateTimes(d, other)
}

// PossibleOffsets returns every DateTime with d's wall-clock time in d's
// zone. During a fall-back fold there are two, earlier instant first;
// otherwise the result holds d alone.
func (d DateTime) PossibleOffsets() []DateTime {
	if !d.IsValid() || d.zone.Universal() {
		return []DateTime{d}
	}
	localTS := calmath.ObjToLocalTS(d.c)
	oEarlier := d.zone.Offset(localTS - calmath.MillisPerDay)
	oLater := d.zone.Offset(localTS + calmath.MillisPerDay)

	o1 := d.zone.Offset(localTS - int64(oEarlier)*calmath.MillisPerMinute)
	o2 := d.zone.Offset(localTS - int64(oLater)*calmath.MillisPerMinute)
	if o1 == o2 {
		return []DateTime{d}
	}

	ts1 := localTS - int64(o1)*calmath.MillisPerMinute
	ts2 := localTS - int64(o2)*calmath.MillisPerMinute
	c1, c2 := calmath.TSToObj(ts1, o1), calmath.TSToObj(ts2, o2)
	if c1.Hour != c2.Hour || c1.Minute != c2.Minute || c1.Second != c2.Second || c1.Millisecond != c2.Millisecond {
		return []DateTime{d}
	}
	return []DateTime{
		withOffset(ts1, o1, d.zone, d.loc),
		withOffset(ts2, o2, d.zone, d.loc),
	}
}

// MinDateTime returns the earliest valid value, or the zero DateTime when
// there is none.
func MinDateTime(dts ...DateTime) DateTime {
	return bestBy(dts, func(a, b DateTime) bool { return a.ts < b.ts })
}

// MaxDateTime returns the latest valid value, or the zero DateTime when
// there is none.
func MaxDateTime(dts ...DateTime) DateTime {
	return bestBy(dts, func(a, b DateTime) bool { return a.ts > b.ts })
}

func bestBy(dts []DateTime, better func(a, b DateTime) bool) DateTime {
	var best DateTime
	for _, d := range dts {
		if !d.IsValid() {
			continue
		}
		if !best.IsValid() || better(d, best) {
			best = d
		}
	}
	return best
}
