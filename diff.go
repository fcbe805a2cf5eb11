package almanac

import (
	"math"
	"slices"

	"github.com/cpuguy83/almanac/zone"
)

// dayDiff counts calendar days between the wall-clock dates of earlier and
// later, ignoring offsets.
func dayDiff(earlier, later DateTime) float64 {
	utcDayStart := func(d DateTime) int64 {
		return d.SetZone(zone.UTC, true).StartOf(Day).ts
	}
	ms := utcDayStart(later) - utcDayStart(earlier)
	return math.Floor(DurationFromMillis(ms).As(Day))
}

var highOrderDiffers = []struct {
	unit Unit
	diff func(a, b DateTime) float64
}{
	{Year, func(a, b DateTime) float64 {
		return float64(b.c.Year - a.c.Year)
	}},
	{Quarter, func(a, b DateTime) float64 {
		return float64(b.Quarter() - a.Quarter() + (b.c.Year-a.c.Year)*4)
	}},
	{Month, func(a, b DateTime) float64 {
		return float64(b.c.Month - a.c.Month + (b.c.Year-a.c.Year)*12)
	}},
	{Week, func(a, b DateTime) float64 {
		return math.Trunc(dayDiff(a, b) / 7)
	}},
	{Day, dayDiff},
}

// highOrderDiffs walks the requested calendar units from largest to
// smallest. Each unit takes the largest count that, added to earlier, does
// not pass later. The returned cursor is earlier plus those counts, and
// highWater the first candidate that overshot, if any.
func highOrderDiffs(earlier, later DateTime, units []Unit) (cursor DateTime, results Values, highWater DateTime, lowestOrder Unit) {
	cursor = earlier
	results = Values{}
	for _, d := range highOrderDiffers {
		if !slices.Contains(units, d.unit) {
			continue
		}
		lowestOrder = d.unit
		results[d.unit] = d.diff(cursor, later)
		highWater = earlier.Plus(DurationFromObject(results))
		if highWater.ts > later.ts {
			results[d.unit]--
			cursor = earlier.Plus(DurationFromObject(results))
			if cursor.ts > later.ts {
				highWater = cursor
				results[d.unit]--
				cursor = earlier.Plus(DurationFromObject(results))
			}
		} else {
			cursor = highWater
		}
	}
	return cursor, results, highWater, lowestOrder
}

func diff(earlier, later DateTime, units []Unit, opts ...Option) Duration {
	cursor, results, highWater, lowestOrder := highOrderDiffs(earlier, later, units)
	remainingMillis := later.ts - cursor.ts

	var lowerOrderUnits []Unit
	for _, u := range units {
		if u.isTimeUnit() {
			lowerOrderUnits = append(lowerOrderUnits, u)
		}
	}

	if len(lowerOrderUnits) == 0 {
		if highWater.ts < later.ts {
			highWater = cursor.Plus(DurationFromObject(Values{lowestOrder: 1}))
		}
		if highWater.ts != cursor.ts {
			results[lowestOrder] += float64(remainingMillis) / float64(highWater.ts-cursor.ts)
		}
		return DurationFromObject(results, opts...)
	}

	return DurationFromMillis(remainingMillis, opts...).
		ShiftTo(lowerOrderUnits...).
		Plus(DurationFromObject(results, opts...))
}

// Diff returns d minus other in the given units, Millisecond if none are
// given. Calendar units step through the calendar the way Plus does, so a
// month or a day is not a fixed number of milliseconds. When only calendar
// units are requested the smallest one carries a fraction for the
// remainder.
func (d DateTime) Diff(other DateTime, units ...Unit) Duration {
	if !d.IsValid() || !other.IsValid() {
		return invalidDuration(&Invalid{Kind: ErrInvalidArgument, Reason: "created by diffing an invalid DateTime"})
	}
	if len(units) == 0 {
		units = []Unit{Millisecond}
	}
	for _, u := range units {
		if !u.isDurationUnit() {
			return invalidDuration(newInvalid(ErrInvalidUnit, "can't diff in %s", u))
		}
	}

	otherIsLater := other.ts > d.ts
	earlier, later := other, d
	if otherIsLater {
		earlier, later = d, other
	}
	diffed := diff(earlier, later, units, WithLocale(d.loc.Tag), WithNumberingSystem(d.loc.NumberingSystem))
	if otherIsLater {
		return diffed.Negate()
	}
	return diffed
}

// DiffNow is Diff against the current time.
func (d DateTime) DiffNow(units ...Unit) Duration {
	return d.Diff(Now(), units...)
}
