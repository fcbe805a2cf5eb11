package locale

// Preset names a locale-driven date/time layout.
type Preset int

const (
	DateShort Preset = iota
	DateMed
	DateMedWithWeekday
	DateFull
	DateHuge
	TimeSimple
	TimeWithSeconds
	TimeWithShortOffset
	TimeWithLongOffset
	Time24Simple
	Time24WithSeconds
	Time24WithShortOffset
	Time24WithLongOffset
	DateTimeShort
	DateTimeShortWithSeconds
	DateTimeMed
	DateTimeMedWithSeconds
	DateTimeMedWithWeekday
	DateTimeFull
	DateTimeFullWithSeconds
	DateTimeHuge
	DateTimeHugeWithSeconds
)

var englishPatterns = map[Preset]string{
	DateShort:                "M/d/yyyy",
	DateMed:                  "LLL d, yyyy",
	DateMedWithWeekday:       "EEE, LLL d, yyyy",
	DateFull:                 "LLLL d, yyyy",
	DateHuge:                 "EEEE, LLLL d, yyyy",
	TimeSimple:               "h:mm a",
	TimeWithSeconds:          "h:mm:ss a",
	TimeWithShortOffset:      "h:mm a ZZZZ",
	TimeWithLongOffset:       "h:mm a ZZZZZ",
	Time24Simple:             "HH:mm",
	Time24WithSeconds:        "HH:mm:ss",
	Time24WithShortOffset:    "HH:mm ZZZZ",
	Time24WithLongOffset:     "HH:mm ZZZZZ",
	DateTimeShort:            "M/d/yyyy, h:mm a",
	DateTimeShortWithSeconds: "M/d/yyyy, h:mm:ss a",
	DateTimeMed:              "LLL d, yyyy, h:mm a",
	DateTimeMedWithSeconds:   "LLL d, yyyy, h:mm:ss a",
	DateTimeMedWithWeekday:   "EEE, d LLL yyyy, h:mm a",
	DateTimeFull:             "LLLL d, yyyy, h:mm a ZZZZ",
	DateTimeFullWithSeconds:  "LLLL d, yyyy, h:mm:ss a ZZZZ",
	DateTimeHuge:             "EEEE, LLLL d, yyyy, h:mm a ZZZZZ",
	DateTimeHugeWithSeconds:  "EEEE, LLLL d, yyyy, h:mm:ss a ZZZZZ",
}

// EnglishPattern is the fixed token format used when the Service has no
// pattern for p.
func EnglishPattern(p Preset) string {
	if s, ok := englishPatterns[p]; ok {
		return s
	}
	return englishPatterns[DateTimeHuge]
}
