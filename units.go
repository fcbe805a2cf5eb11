package almanac

import (
	"fmt"
	"strings"
)

// Unit is a calendar or clock unit.
type Unit int

const (
	Year Unit = iota + 1
	Quarter
	Month
	Week
	Day
	Hour
	Minute
	Second
	Millisecond
	WeekYear
	WeekNumber
	Weekday
	Ordinal
)

var unitNames = map[Unit]string{
	Year:        "year",
	Quarter:     "quarter",
	Month:       "month",
	Week:        "week",
	Day:         "day",
	Hour:        "hour",
	Minute:      "minute",
	Second:      "second",
	Millisecond: "millisecond",
	WeekYear:    "weekYear",
	WeekNumber:  "weekNumber",
	Weekday:     "weekday",
	Ordinal:     "ordinal",
}

var unitsByName = func() map[string]Unit {
	m := make(map[string]Unit, 2*len(unitNames))
	for u, name := range unitNames {
		lower := strings.ToLower(name)
		m[lower] = u
		m[lower+"s"] = u
	}
	return m
}()

// durationUnits are the units a Duration can hold, largest first.
var durationUnits = [...]Unit{Year, Quarter, Month, Week, Day, Hour, Minute, Second, Millisecond}

// ParseUnit resolves a unit name. Singular and plural forms are accepted in
// any case, so "Years", "year" and "weeknumber" all resolve.
func ParseUnit(raw string) (Unit, bool) {
	u, ok := unitsByName[strings.ToLower(strings.TrimSpace(raw))]
	return u, ok
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Plural returns the plural name used by Duration ("years").
func (u Unit) Plural() string {
	return u.String() + "s"
}

// isDurationUnit reports whether u can be stored in a Duration.
func (u Unit) isDurationUnit() bool {
	return u >= Year && u <= Millisecond
}

// durationIndex is the position of u in durationUnits.
func (u Unit) durationIndex() int {
	return int(u - Year)
}

func (u Unit) isTimeUnit() bool {
	return u >= Hour && u <= Millisecond
}

// Fields holds calendar field input for FromObject and Set.
type Fields map[Unit]int

// Values holds unit amounts for a Duration.
type Values map[Unit]float64

// FieldsFromMap converts string-keyed input such as {"year": 2024} to
// Fields.
func FieldsFromMap(m map[string]int) (Fields, error) {
	out := make(Fields, len(m))
	for k, v := range m {
		u, ok := ParseUnit(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, k)
		}
		out[u] = v
	}
	return out, nil
}

// ValuesFromMap converts string-keyed input such as {"hours": 1.5} to
// Values.
func ValuesFromMap(m map[string]float64) (Values, error) {
	out := make(Values, len(m))
	for k, v := range m {
		u, ok := ParseUnit(k)
		if !ok || !u.isDurationUnit() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, k)
		}
		out[u] = v
	}
	return out, nil
}
