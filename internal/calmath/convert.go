package calmath

// GregorianToWeek converts a valid Gregorian date to its ISO week date.
func GregorianToWeek(g Gregorian) WeekDate {
	ordinal := ComputeOrdinal(g.Year, g.Month, g.Day)
	weekday := DayOfWeek(g.Year, g.Month, g.Day)

	weekNumber := int(FloorDiv(int64(ordinal-weekday+10), 7))
	weekYear := g.Year
	switch {
	case weekNumber < 1:
		weekYear = g.Year - 1
		weekNumber = WeeksInWeekYear(weekYear)
	case weekNumber > WeeksInWeekYear(g.Year):
		weekYear = g.Year + 1
		weekNumber = 1
	}

	return WeekDate{
		WeekYear:    weekYear,
		WeekNumber:  weekNumber,
		Weekday:     weekday,
		Hour:        g.Hour,
		Minute:      g.Minute,
		Second:      g.Second,
		Millisecond: g.Millisecond,
	}
}

// WeekToGregorian converts a valid ISO week date to a Gregorian date.
func WeekToGregorian(w WeekDate) Gregorian {
	weekdayOfJan4 := DayOfWeek(w.WeekYear, 1, 4)
	yearInDays := DaysInYear(w.WeekYear)

	ordinal := w.WeekNumber*7 + w.Weekday - weekdayOfJan4 - 3
	year := w.WeekYear
	switch {
	case ordinal < 1:
		year = w.WeekYear - 1
		ordinal += DaysInYear(year)
	case ordinal > yearInDays:
		year = w.WeekYear + 1
		ordinal -= yearInDays
	}

	month, day := UncomputeOrdinal(year, ordinal)
	return Gregorian{
		Year:        year,
		Month:       month,
		Day:         day,
		Hour:        w.Hour,
		Minute:      w.Minute,
		Second:      w.Second,
		Millisecond: w.Millisecond,
	}
}

// GregorianToOrdinal converts a valid Gregorian date to year + day of year.
func GregorianToOrdinal(g Gregorian) OrdinalDate {
	return OrdinalDate{
		Year:        g.Year,
		Ordinal:     ComputeOrdinal(g.Year, g.Month, g.Day),
		Hour:        g.Hour,
		Minute:      g.Minute,
		Second:      g.Second,
		Millisecond: g.Millisecond,
	}
}

// OrdinalToGregorian converts a valid ordinal date to a Gregorian date.
func OrdinalToGregorian(o OrdinalDate) Gregorian {
	month, day := UncomputeOrdinal(o.Year, o.Ordinal)
	return Gregorian{
		Year:        o.Year,
		Month:       month,
		Day:         day,
		Hour:        o.Hour,
		Minute:      o.Minute,
		Second:      o.Second,
		Millisecond: o.Millisecond,
	}
}
