package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var isoDuration = regexp.MustCompile(`^-?P(?:(?:(-?\d{1,20}(?:\.\d{1,20})?)Y)?(?:(-?\d{1,20}(?:\.\d{1,20})?)M)?(?:(-?\d{1,20}(?:\.\d{1,20})?)W)?(?:(-?\d{1,20}(?:\.\d{1,20})?)D)?(?:T(?:(-?\d{1,20}(?:\.\d{1,20})?)H)?(?:(-?\d{1,20}(?:\.\d{1,20})?)M)?(?:(-?\d{1,20})(?:[.,](\d{1,20}))?S)?)?)$`)

// ISODuration parses "P1Y2M10DT2H30M", "PT1.5S", "-P3W" and similar into
// unit values keyed "years" through "milliseconds". A leading minus negates
// every component. "P" and "PT" with no components are rejected.
func ISODuration(s string) (map[string]float64, bool) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	negative := strings.HasPrefix(s, "-")
	negativeSeconds := strings.HasPrefix(m[7], "-")

	out := map[string]float64{}
	put := func(key, raw string, force bool) {
		if raw == "" {
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		if force || (v != 0 && negative) {
			v = -v
		}
		out[key] = v
	}

	put("years", m[1], false)
	put("months", m[2], false)
	put("weeks", m[3], false)
	put("days", m[4], false)
	put("hours", m[5], false)
	put("minutes", m[6], false)
	put("seconds", m[7], m[7] == "-0")
	if m[8] != "" {
		ms := float64(Millis(m[8]))
		if negativeSeconds || negative {
			ms = -ms
		}
		out["milliseconds"] = ms
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
