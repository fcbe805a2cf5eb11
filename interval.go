package almanac

import (
	"math"
	"slices"
	"strings"
)

const invalidIntervalText = "Invalid Interval"

var errZeroInterval = &Invalid{
	Kind:        ErrMissingEndpoint,
	Reason:      "uninitialized",
	Explanation: "the zero Interval has no endpoints",
}

// Interval is the half-open span [start, end) between two DateTimes. The
// start is included and the end is not, so adjacent intervals share an
// endpoint without overlapping. An Interval whose end precedes its start
// cannot be built; the constructors return an invalid Interval instead.
type Interval struct {
	s, e    DateTime
	invalid *Invalid
}

func invalidInterval(inv *Invalid) Interval {
	raise(inv)
	return Interval{invalid: inv}
}

// InvalidInterval returns an invalid Interval carrying a caller-supplied
// reason.
func InvalidInterval(reason, explanation string) Interval {
	return invalidInterval(&Invalid{Reason: reason, Explanation: explanation})
}

func validateStartEnd(start, end DateTime) *Invalid {
	switch {
	case !start.IsValid():
		return &Invalid{Kind: ErrMissingEndpoint, Reason: "missing or invalid start"}
	case !end.IsValid():
		return &Invalid{Kind: ErrMissingEndpoint, Reason: "missing or invalid end"}
	case end.ts < start.ts:
		return newInvalid(ErrEndBeforeStart,
			"the end of an interval must be after its start, but you had start=%s and end=%s", start.ToISO(), end.ToISO())
	}
	return nil
}

// IntervalFromDateTimes returns [start, end).
func IntervalFromDateTimes(start, end DateTime) Interval {
	if inv := validateStartEnd(start, end); inv != nil {
		return invalidInterval(inv)
	}
	return Interval{s: start, e: end}
}

// IntervalAfter returns the interval of length dur starting at start.
func IntervalAfter(start DateTime, dur Duration) Interval {
	return IntervalFromDateTimes(start, start.Plus(dur))
}

// IntervalBefore returns the interval of length dur ending at end.
func IntervalBefore(end DateTime, dur Duration) Interval {
	return IntervalFromDateTimes(end.Minus(dur), end)
}

// quietly runs fn with invalid-value panics turned back into errors, for
// probing input whose invalidity is expected.
func quietly[T interface{ Err() error }](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*Invalid)
			if !ok {
				panic(r)
			}
			err = inv
		}
	}()
	v = fn()
	return v, v.Err()
}

// IntervalFromISO parses "start/end", "start/duration" or "duration/end",
// where the dates are ISO-8601 date-times and the duration is an ISO-8601
// duration such as "P1DT2H". Options apply to both dates.
func IntervalFromISO(text string, opts ...Option) Interval {
	parts := strings.SplitN(text, "/", 3)
	if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
		start, startErr := quietly(func() DateTime { return FromISO(parts[0], opts...) })
		end, endErr := quietly(func() DateTime { return FromISO(parts[1], opts...) })

		switch {
		case startErr == nil && endErr == nil:
			return IntervalFromDateTimes(start, end)
		case startErr == nil:
			if dur, err := quietly(func() Duration { return DurationFromISO(parts[1], opts...) }); err == nil {
				return IntervalAfter(start, dur)
			}
		case endErr == nil:
			if dur, err := quietly(func() Duration { return DurationFromISO(parts[0], opts...) }); err == nil {
				return IntervalBefore(end, dur)
			}
		}
	}
	return invalidInterval(unparsable(text, "ISO 8601"))
}

// IsValid reports whether i has two valid endpoints in order.
func (i Interval) IsValid() bool {
	return i.invalid == nil && i.s.IsValid()
}

func (i Interval) problem() *Invalid {
	switch {
	case i.invalid != nil:
		return i.invalid
	case !i.s.IsValid():
		return errZeroInterval
	}
	return nil
}

// Err returns the reason i is invalid, or nil.
func (i Interval) Err() error {
	if inv := i.problem(); inv != nil {
		return inv
	}
	return nil
}

func (i Interval) InvalidReason() string {
	if inv := i.problem(); inv != nil {
		return inv.Reason
	}
	return ""
}

func (i Interval) InvalidExplanation() string {
	if inv := i.problem(); inv != nil {
		return inv.Explanation
	}
	return ""
}

// Start returns the inclusive start, or the zero DateTime if i is invalid.
func (i Interval) Start() DateTime {
	if !i.IsValid() {
		return DateTime{}
	}
	return i.s
}

// End returns the exclusive end, or the zero DateTime if i is invalid.
func (i Interval) End() DateTime {
	if !i.IsValid() {
		return DateTime{}
	}
	return i.e
}

// Length returns the length of i in unit, possibly fractional. It is NaN
// for an invalid interval.
func (i Interval) Length(unit Unit) float64 {
	if !i.IsValid() {
		return math.NaN()
	}
	return i.ToDuration(unit).Get(unit)
}

// Count returns how many calendar units i touches, counting both the unit
// containing the start and the one containing the end: 2021-01-01 to
// 2021-01-03 counts 3 days. An invalid interval counts 0.
func (i Interval) Count(unit Unit) int {
	if !i.IsValid() {
		return 0
	}
	start, end := i.s.StartOf(unit), i.e.StartOf(unit)
	return int(math.Floor(end.Diff(start, unit).Get(unit))) + 1
}

// ToDuration returns the length of i expressed in units, Millisecond if none
// are given.
func (i Interval) ToDuration(units ...Unit) Duration {
	if !i.IsValid() {
		return invalidDuration(i.problem())
	}
	return i.e.Diff(i.s, units...)
}

// IsEmpty reports whether start and end are the same instant.
func (i Interval) IsEmpty() bool {
	return i.IsValid() && i.s.ts == i.e.ts
}

// HasSame reports whether the whole interval falls within one unit, such as
// a single calendar day.
func (i Interval) HasSame(unit Unit) bool {
	if !i.IsValid() {
		return false
	}
	return i.IsEmpty() || i.e.Minus(DurationFromMillis(1)).HasSame(i.s, unit)
}

// Contains reports whether d is in [start, end).
func (i Interval) Contains(d DateTime) bool {
	if !i.IsValid() || !d.IsValid() {
		return false
	}
	return i.s.ts <= d.ts && d.ts < i.e.ts
}

// IsAfter reports whether i starts after d.
func (i Interval) IsAfter(d DateTime) bool {
	return i.IsValid() && d.IsValid() && i.s.ts > d.ts
}

// IsBefore reports whether i ends at or before d.
func (i Interval) IsBefore(d DateTime) bool {
	return i.IsValid() && d.IsValid() && i.e.ts <= d.ts
}

// Overlaps reports whether i and other share at least one instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.IsValid() && other.IsValid() && i.e.ts > other.s.ts && i.s.ts < other.e.ts
}

// AbutsStart reports whether i ends exactly where other starts.
func (i Interval) AbutsStart(other Interval) bool {
	return i.IsValid() && other.IsValid() && i.e.ts == other.s.ts
}

// AbutsEnd reports whether i starts exactly where other ends.
func (i Interval) AbutsEnd(other Interval) bool {
	return i.IsValid() && other.IsValid() && other.e.ts == i.s.ts
}

// Engulfs reports whether other lies entirely within i.
func (i Interval) Engulfs(other Interval) bool {
	return i.IsValid() && other.IsValid() && i.s.ts <= other.s.ts && i.e.ts >= other.e.ts
}

// Equal reports whether both endpoints are Equal. Invalid intervals are
// never equal.
func (i Interval) Equal(other Interval) bool {
	if !i.IsValid() || !other.IsValid() {
		return false
	}
	return i.s.Equal(other.s) && i.e.Equal(other.e)
}

func earliest(a, b DateTime) DateTime {
	if b.ts < a.ts {
		return b
	}
	return a
}

func latest(a, b DateTime) DateTime {
	if b.ts > a.ts {
		return b
	}
	return a
}

// Intersection returns the overlap of i and other. ok is false when they do
// not overlap.
func (i Interval) Intersection(other Interval) (Interval, bool) {
	if !i.IsValid() || !other.IsValid() {
		return Interval{}, false
	}
	s := latest(i.s, other.s)
	e := earliest(i.e, other.e)
	if s.ts >= e.ts {
		return Interval{}, false
	}
	return IntervalFromDateTimes(s, e), true
}

// Union returns the smallest interval covering both i and other, including
// any gap between them.
func (i Interval) Union(other Interval) Interval {
	if !i.IsValid() {
		return i
	}
	if !other.IsValid() {
		return other
	}
	return IntervalFromDateTimes(earliest(i.s, other.s), latest(i.e, other.e))
}

func sortByStart(intervals []Interval) []Interval {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		return a.s.Compare(b.s)
	})
	return sorted
}

// Merge combines overlapping and abutting intervals into the fewest
// intervals covering the same instants, ordered by start. Invalid intervals
// are dropped.
func Merge(intervals ...Interval) []Interval {
	var (
		merged  []Interval
		current Interval
		open    bool
	)
	for _, item := range sortByStart(intervals) {
		if !item.IsValid() {
			continue
		}
		switch {
		case !open:
			current, open = item, true
		case current.Overlaps(item) || current.AbutsStart(item):
			current = current.Union(item)
		default:
			merged = append(merged, current)
			current = item
		}
	}
	if open {
		merged = append(merged, current)
	}
	return merged
}

type endpoint struct {
	at    DateTime
	start bool
}

// Xor returns the instants covered by exactly one of intervals, merged.
func Xor(intervals ...Interval) []Interval {
	points := make([]endpoint, 0, 2*len(intervals))
	for _, i := range intervals {
		if !i.IsValid() {
			continue
		}
		points = append(points, endpoint{at: i.s, start: true}, endpoint{at: i.e})
	}
	slices.SortStableFunc(points, func(a, b endpoint) int {
		return a.at.Compare(b.at)
	})

	var (
		results []Interval
		start   DateTime
		open    bool
		count   int
	)
	for _, p := range points {
		if p.start {
			count++
		} else {
			count--
		}
		if count == 1 {
			start, open = p.at, true
			continue
		}
		if open && start.ts != p.at.ts {
			results = append(results, IntervalFromDateTimes(start, p.at))
		}
		open = false
	}
	return Merge(results...)
}

// Difference returns the parts of i not covered by any of others.
func (i Interval) Difference(others ...Interval) []Interval {
	if !i.IsValid() {
		return nil
	}
	var out []Interval
	for _, piece := range Xor(append([]Interval{i}, others...)...) {
		if x, ok := i.Intersection(piece); ok && !x.IsEmpty() {
			out = append(out, x)
		}
	}
	return out
}

// SplitAt cuts i at each of points that falls inside it.
func (i Interval) SplitAt(points ...DateTime) []Interval {
	if !i.IsValid() {
		return nil
	}
	var inside []DateTime
	for _, p := range points {
		if i.Contains(p) {
			inside = append(inside, p)
		}
	}
	slices.SortStableFunc(inside, DateTime.Compare)

	var results []Interval
	s := i.s
	for idx := 0; s.ts < i.e.ts; idx++ {
		next := i.e
		if idx < len(inside) && inside[idx].ts < i.e.ts {
			next = inside[idx]
		}
		results = append(results, IntervalFromDateTimes(s, next))
		s = next
	}
	return results
}

// SplitBy cuts i into consecutive pieces of length dur, measured from the
// start; the last piece may be shorter. A non-positive dur yields nothing.
func (i Interval) SplitBy(dur Duration) []Interval {
	if !i.IsValid() || !dur.IsValid() || dur.As(Millisecond) <= 0 {
		return nil
	}
	var results []Interval
	s := i.s
	for idx := 1; s.ts < i.e.ts; idx++ {
		n := float64(idx)
		next := i.s.Plus(dur.MapUnits(func(v float64, _ Unit) float64 { return v * n }))
		if !next.IsValid() || next.ts > i.e.ts {
			next = i.e
		}
		if next.ts <= s.ts {
			break
		}
		results = append(results, IntervalFromDateTimes(s, next))
		s = next
	}
	return results
}

// DivideEqually cuts i into n pieces of equal millisecond length. Rounding
// can make the last piece a millisecond short.
func (i Interval) DivideEqually(n int) []Interval {
	if !i.IsValid() || n <= 0 {
		return nil
	}
	pieces := i.SplitBy(DurationFromObject(Values{Millisecond: i.Length(Millisecond) / float64(n)}))
	if len(pieces) > n {
		pieces = pieces[:n]
	}
	return pieces
}

// SetEndpoints replaces either endpoint. A zero DateTime keeps the current
// one.
func (i Interval) SetEndpoints(start, end DateTime) Interval {
	if !i.IsValid() {
		return i
	}
	if start.zone == nil && start.invalid == nil {
		start = i.s
	}
	if end.zone == nil && end.invalid == nil {
		end = i.e
	}
	return IntervalFromDateTimes(start, end)
}

// MapEndpoints applies fn to both endpoints.
func (i Interval) MapEndpoints(fn func(DateTime) DateTime) Interval {
	if !i.IsValid() {
		return i
	}
	return IntervalFromDateTimes(fn(i.s), fn(i.e))
}

// ToISO returns "start/end" with both endpoints in full ISO-8601 form.
func (i Interval) ToISO() string {
	return i.ToISOWith(ISOOptions{})
}

func (i Interval) ToISOWith(opts ISOOptions) string {
	if !i.IsValid() {
		return invalidIntervalText
	}
	return i.s.ToISOWith(opts) + "/" + i.e.ToISOWith(opts)
}

// ToISODate returns "startDate/endDate".
func (i Interval) ToISODate() string {
	if !i.IsValid() {
		return invalidIntervalText
	}
	return i.s.ToISODate() + "/" + i.e.ToISODate()
}

// ToISOTime returns "startTime/endTime", dropping the dates.
func (i Interval) ToISOTime() string {
	return i.ToISOTimeWith(ISOOptions{})
}

func (i Interval) ToISOTimeWith(opts ISOOptions) string {
	if !i.IsValid() {
		return invalidIntervalText
	}
	return i.s.ToISOTimeWith(opts) + "/" + i.e.ToISOTimeWith(opts)
}

// ToFormat renders both endpoints with a token format, joined by
// separator. An empty separator means " – ".
func (i Interval) ToFormat(format, separator string) string {
	if !i.IsValid() {
		return invalidIntervalText
	}
	if separator == "" {
		separator = " – "
	}
	return i.s.ToFormat(format) + separator + i.e.ToFormat(format)
}

func (i Interval) String() string {
	if !i.IsValid() {
		return invalidIntervalText
	}
	return "[" + i.s.ToISO() + " – " + i.e.ToISO() + ")"
}
