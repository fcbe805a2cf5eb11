package almanac

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpuguy83/almanac/internal/parse"
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// Accuracy selects how calendar units convert to each other.
type Accuracy int

const (
	// Casual uses calendar-nominal lengths: a 365-day year, a 30-day month,
	// 52 weeks per year.
	Casual Accuracy = iota

	// Accurate uses mean Gregorian lengths: 146097/400 days per year and
	// 146097/4800 days per month.
	Accurate
)

func (a Accuracy) String() string {
	if a == Accurate {
		return "longterm"
	}
	return "casual"
}

const numDurationUnits = len(durationUnits)

// matrix[from][to] is the number of to-units in one from-unit, for from
// larger than to.
type matrix [numDurationUnits][numDurationUnits]float64

func newMatrix(yearDays, quarterDays, monthDays, yearWeeks, quarterWeeks, monthWeeks float64) *matrix {
	var m matrix
	set := func(from, to Unit, v float64) {
		m[from.durationIndex()][to.durationIndex()] = v
	}
	days := func(from Unit, d float64) {
		set(from, Day, d)
		set(from, Hour, d*24)
		set(from, Minute, d*24*60)
		set(from, Second, d*24*60*60)
		set(from, Millisecond, d*24*60*60*1000)
	}

	set(Year, Quarter, 4)
	set(Year, Month, 12)
	set(Year, Week, yearWeeks)
	days(Year, yearDays)

	set(Quarter, Month, 3)
	set(Quarter, Week, quarterWeeks)
	days(Quarter, quarterDays)

	set(Month, Week, monthWeeks)
	days(Month, monthDays)

	days(Week, 7)
	days(Day, 1)

	set(Hour, Minute, 60)
	set(Hour, Second, 60*60)
	set(Hour, Millisecond, 60*60*1000)
	set(Minute, Second, 60)
	set(Minute, Millisecond, 60*1000)
	set(Second, Millisecond, 1000)
	return &m
}

const (
	accurateDaysInYear  = 146097.0 / 400
	accurateDaysInMonth = 146097.0 / 4800
)

var (
	casualMatrix   = newMatrix(365, 91, 30, 52, 13, 4)
	accurateMatrix = newMatrix(
		accurateDaysInYear, accurateDaysInYear/4, accurateDaysInMonth,
		accurateDaysInYear/7, accurateDaysInYear/28, accurateDaysInMonth/7,
	)
)

// Duration is a length of time as amounts of calendar units. Amounts are
// kept as given: one hour and ninety minutes stays that way until Normalize
// or ShiftTo is called. The zero value is an empty, valid Duration.
type Duration struct {
	values   [numDurationUnits]float64
	present  uint16
	accuracy Accuracy
	loc      locale.Locale
	invalid  *Invalid
}

func invalidDuration(inv *Invalid) Duration {
	raise(inv)
	return Duration{invalid: inv}
}

// InvalidDuration returns an invalid Duration carrying a caller-supplied
// reason.
func InvalidDuration(reason, explanation string) Duration {
	return invalidDuration(&Invalid{Reason: reason, Explanation: explanation})
}

// DurationFromObject builds a Duration from unit amounts. Only Year through
// Millisecond are accepted.
func DurationFromObject(values Values, opts ...Option) Duration {
	o := buildOptions(opts)
	d := Duration{accuracy: o.accuracy}
	if o.hasLocale() {
		d.loc = o.localeOr()
	}
	for u, v := range values {
		if !u.isDurationUnit() {
			return invalidDuration(newInvalid(ErrInvalidUnit, "%s is not a duration unit", u))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidDuration(newInvalid(ErrInvalidArgument, "%v is not a valid amount of %s", v, u.Plural()))
		}
		d = d.with(u, v)
	}
	return d
}

// DurationFromMillis builds a Duration of ms milliseconds.
func DurationFromMillis(ms int64, opts ...Option) Duration {
	return DurationFromObject(Values{Millisecond: float64(ms)}, opts...)
}

// DurationFromISO parses an ISO-8601 duration such as "P1Y2M10DT2H30M" or
// "PT1.5S".
func DurationFromISO(text string, opts ...Option) Duration {
	raw, ok := parse.ISODuration(text)
	if !ok {
		return invalidDuration(unparsable(text, "ISO 8601"))
	}
	vals := make(Values, len(raw))
	for k, v := range raw {
		u, _ := ParseUnit(k)
		vals[u] = v
	}
	return DurationFromObject(vals, opts...)
}

// DurationFromISOTime parses a time of day such as "11:22:33.444" as a
// Duration of hours, minutes, seconds and milliseconds.
func DurationFromISOTime(text string, opts ...Option) Duration {
	raw, ok := parse.ISOTimeOnly(text)
	if !ok {
		return invalidDuration(unparsable(text, "ISO 8601"))
	}
	vals := make(Values, len(raw))
	for k, v := range raw {
		u, _ := ParseUnit(k)
		vals[u] = float64(v)
	}
	return DurationFromObject(vals, opts...)
}

func (d Duration) with(u Unit, v float64) Duration {
	i := u.durationIndex()
	d.values[i] = v
	d.present |= 1 << i
	return d
}

func (d Duration) has(i int) bool {
	return d.present&(1<<i) != 0
}

func (d Duration) matrix() *matrix {
	if d.accuracy == Accurate {
		return accurateMatrix
	}
	return casualMatrix
}

func (d Duration) locale() locale.Locale {
	if d.loc.Tag == "" {
		return DefaultLocale()
	}
	return d.loc
}

func (d Duration) IsValid() bool {
	return d.invalid == nil
}

func (d Duration) problem() *Invalid {
	return d.invalid
}

// Err returns the reason d is invalid, or nil.
func (d Duration) Err() error {
	if d.invalid == nil {
		return nil
	}
	return d.invalid
}

func (d Duration) InvalidReason() string {
	if d.invalid == nil {
		return ""
	}
	return d.invalid.Reason
}

func (d Duration) InvalidExplanation() string {
	if d.invalid == nil {
		return ""
	}
	return d.invalid.Explanation
}

func (d Duration) Accuracy() Accuracy {
	return d.accuracy
}

func (d Duration) Locale() locale.Locale {
	return d.locale()
}

// Get returns the amount of u, 0 if absent or invalid.
func (d Duration) Get(u Unit) float64 {
	if !d.IsValid() || !u.isDurationUnit() {
		return 0
	}
	return d.values[u.durationIndex()]
}

func (d Duration) Years() float64        { return d.Get(Year) }
func (d Duration) Quarters() float64     { return d.Get(Quarter) }
func (d Duration) Months() float64       { return d.Get(Month) }
func (d Duration) Weeks() float64        { return d.Get(Week) }
func (d Duration) Days() float64         { return d.Get(Day) }
func (d Duration) Hours() float64        { return d.Get(Hour) }
func (d Duration) Minutes() float64      { return d.Get(Minute) }
func (d Duration) Seconds() float64      { return d.Get(Second) }
func (d Duration) Milliseconds() float64 { return d.Get(Millisecond) }

// Units returns the units present in d, largest first.
func (d Duration) Units() []Unit {
	var out []Unit
	for i, u := range durationUnits {
		if d.has(i) {
			out = append(out, u)
		}
	}
	return out
}

// ToObject returns the present units and their amounts.
func (d Duration) ToObject() Values {
	out := Values{}
	if !d.IsValid() {
		return out
	}
	for i, u := range durationUnits {
		if d.has(i) {
			out[u] = d.values[i]
		}
	}
	return out
}

// Set replaces the amounts of the given units.
func (d Duration) Set(values Values) Duration {
	if !d.IsValid() {
		return d
	}
	for u, v := range values {
		if !u.isDurationUnit() {
			return invalidDuration(newInvalid(ErrInvalidUnit, "%s is not a duration unit", u))
		}
		d = d.with(u, v)
	}
	return d
}

// Plus adds other unit by unit. The result holds every unit present in
// either operand.
func (d Duration) Plus(other Duration) Duration {
	if !d.IsValid() {
		return d
	}
	if !other.IsValid() {
		return invalidDuration(other.invalid)
	}
	for i := range durationUnits {
		if d.has(i) || other.has(i) {
			d.values[i] += other.values[i]
			d.present |= 1 << i
		}
	}
	return d
}

func (d Duration) Minus(other Duration) Duration {
	return d.Plus(other.Negate())
}

// Negate flips the sign of every amount.
func (d Duration) Negate() Duration {
	if !d.IsValid() {
		return d
	}
	for i, v := range d.values {
		if v != 0 {
			d.values[i] = -v
		}
	}
	return d
}

// MapUnits replaces each present amount with fn(amount, unit).
func (d Duration) MapUnits(fn func(v float64, u Unit) float64) Duration {
	if !d.IsValid() {
		return d
	}
	for i, u := range durationUnits {
		if d.has(i) {
			d.values[i] = fn(d.values[i], u)
		}
	}
	return d
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// antiTrunc rounds away from zero.
func antiTrunc(v float64) float64 {
	if v < 0 {
		return math.Floor(v)
	}
	return math.Ceil(v)
}

// convert moves whole multiples of the to-unit out of from[fi] into to[ti].
// When the signs disagree and less than one to-unit is at stake, it rounds
// away from zero so that the smaller unit ends up with the same sign as the
// larger one.
func convert(m *matrix, from *[numDurationUnits]float64, fi int, to *[numDurationUnits]float64, ti int) {
	conv := m[ti][fi]
	raw := from[fi] / conv
	sameSign := sign(raw) == sign(to[ti])

	var added float64
	if !sameSign && to[ti] != 0 && math.Abs(raw) <= 1 {
		added = antiTrunc(raw)
	} else {
		added = math.Trunc(raw)
	}
	to[ti] += added
	from[fi] -= added * conv
}

// Normalize carries overflow from smaller present units into larger present
// units: {Hour: 1, Minute: 90} becomes {Hour: 2, Minute: 30}. Absent units
// are not introduced.
func (d Duration) Normalize() Duration {
	if !d.IsValid() {
		return d
	}
	m := d.matrix()
	previous := -1
	for i := numDurationUnits - 1; i >= 0; i-- {
		if !d.has(i) {
			continue
		}
		if previous >= 0 {
			convert(m, &d.values, previous, &d.values, i)
		}
		previous = i
	}
	return d
}

// ShiftTo re-expresses d in exactly the given units. Each unit, largest
// first, takes the whole part of everything not yet expressed; what is left
// after the smallest unit becomes its fractional part.
func (d Duration) ShiftTo(units ...Unit) Duration {
	if !d.IsValid() || len(units) == 0 {
		return d
	}
	var want uint16
	for _, u := range units {
		if !u.isDurationUnit() {
			return invalidDuration(newInvalid(ErrInvalidUnit, "can't shift to %s", u))
		}
		want |= 1 << u.durationIndex()
	}

	var (
		m           = d.matrix()
		vals        = d.values
		built       [numDurationUnits]float64
		accumulated [numDurationUnits]float64
		accPresent  uint16
		lastUnit    int
	)
	for k := range numDurationUnits {
		switch {
		case want&(1<<k) != 0:
			lastUnit = k
			var own float64
			for ak := range numDurationUnits {
				if accPresent&(1<<ak) != 0 {
					own += m[ak][k] * accumulated[ak]
					accumulated[ak] = 0
				}
			}
			if d.has(k) {
				own += vals[k]
			}

			i := math.Trunc(own)
			built[k] = i
			accumulated[k] = (own*1000 - i*1000) / 1000
			accPresent |= 1 << k

			for down := k + 1; down < numDurationUnits; down++ {
				if d.has(down) {
					convert(m, &vals, down, &built, k)
				}
			}
		case d.has(k):
			accumulated[k] = vals[k]
			accPresent |= 1 << k
		}
	}

	for key := range numDurationUnits {
		if accPresent&(1<<key) == 0 || accumulated[key] == 0 {
			continue
		}
		if key == lastUnit {
			built[lastUnit] += accumulated[key]
		} else {
			built[lastUnit] += accumulated[key] / m[lastUnit][key]
		}
	}

	d.values = built
	d.present = want
	return d.Normalize()
}

// ShiftToAll shifts to every unit except Quarter.
func (d Duration) ShiftToAll() Duration {
	return d.ShiftTo(Year, Month, Week, Day, Hour, Minute, Second, Millisecond)
}

// RemoveZeros drops units whose amount is zero.
func (d Duration) RemoveZeros() Duration {
	if !d.IsValid() {
		return d
	}
	for i, v := range d.values {
		if v == 0 {
			d.present &^= 1 << i
		}
	}
	return d
}

// Rescale normalizes d into the fewest non-zero units.
func (d Duration) Rescale() Duration {
	return d.Normalize().ShiftToAll().RemoveZeros()
}

// As returns the total length of d in unit u.
func (d Duration) As(u Unit) float64 {
	return d.ShiftTo(u).Get(u)
}

// ToMillis returns the total length in milliseconds.
func (d Duration) ToMillis() float64 {
	return d.As(Millisecond)
}

// Equal reports whether both durations are valid, share a locale and hold
// the same amounts. Absent units equal zero.
func (d Duration) Equal(other Duration) bool {
	if !d.IsValid() || !other.IsValid() {
		return false
	}
	if !d.locale().Equals(other.locale()) {
		return false
	}
	return d.values == other.values
}

// Reconfigure replaces the locale settings and, with WithAccuracy, the
// conversion accuracy.
func (d Duration) Reconfigure(opts ...Option) Duration {
	o := buildOptions(opts)
	if o.accuracySet {
		d.accuracy = o.accuracy
	}
	if o.hasLocale() {
		cur := d.locale()
		if o.locale == "" {
			o.locale = cur.Tag
		}
		if o.numberingSystem == "" {
			o.numberingSystem = cur.NumberingSystem
		}
		if o.outputCalendar == "" {
			o.outputCalendar = cur.OutputCalendar
		}
		d.loc = locale.New(o.locale, o.numberingSystem, o.outputCalendar)
	}
	return d
}

// jsNumber renders v in the shortest form that reads back exactly.
func jsNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundTo rounds half up to the given number of decimal places.
func roundTo(v float64, digits int) float64 {
	f := math.Pow10(digits)
	return math.Floor(v*f+0.5) / f
}

// ToISO renders the ISO-8601 form, e.g. "P1Y6DT2S". Quarters are folded
// into months and milliseconds into fractional seconds. An empty duration
// renders as "PT0S".
func (d Duration) ToISO() string {
	if !d.IsValid() {
		return "Invalid Duration"
	}
	var b strings.Builder
	b.WriteString("P")
	if d.Years() != 0 {
		b.WriteString(jsNumber(d.Years()) + "Y")
	}
	if d.Months() != 0 || d.Quarters() != 0 {
		b.WriteString(jsNumber(d.Months()+d.Quarters()*3) + "M")
	}
	if d.Weeks() != 0 {
		b.WriteString(jsNumber(d.Weeks()) + "W")
	}
	if d.Days() != 0 {
		b.WriteString(jsNumber(d.Days()) + "D")
	}
	if d.Hours() != 0 || d.Minutes() != 0 || d.Seconds() != 0 || d.Milliseconds() != 0 {
		b.WriteString("T")
	}
	if d.Hours() != 0 {
		b.WriteString(jsNumber(d.Hours()) + "H")
	}
	if d.Minutes() != 0 {
		b.WriteString(jsNumber(d.Minutes()) + "M")
	}
	if d.Seconds() != 0 || d.Milliseconds() != 0 {
		b.WriteString(jsNumber(roundTo(d.Seconds()+d.Milliseconds()/1000, 3)) + "S")
	}
	if b.Len() == 1 {
		b.WriteString("T0S")
	}
	return b.String()
}

// ToISOTime renders d as a time of day, e.g. "11:22:33.444". It returns ""
// when d is negative or a day or longer.
func (d Duration) ToISOTime(opts ISOOptions) string {
	if !d.IsValid() {
		return "Invalid Duration"
	}
	millis := d.ToMillis()
	if millis < 0 || millis >= 86_400_000 {
		return ""
	}
	opts.OmitOffset = true
	opts.ExtendedZone = false
	return FromMillis(int64(millis), WithZone(zone.UTC)).ToISOTimeWith(opts)
}

// ToHuman renders an English list such as "1 year, 6 days, 2 seconds".
func (d Duration) ToHuman() string {
	if !d.IsValid() {
		return "Invalid Duration"
	}
	loc, svc := d.locale(), localeService()
	var parts []string
	for i, u := range durationUnits {
		if !d.has(i) {
			continue
		}
		v := d.values[i]
		var num string
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			num = formatInt(svc, loc, int64(v), 0)
		} else {
			num = jsNumber(v)
		}
		name := u.String()
		if v != 1 {
			name = u.Plural()
		}
		parts = append(parts, num+" "+name)
	}
	return strings.Join(parts, ", ")
}

func (d Duration) String() string {
	return d.ToISO()
}
