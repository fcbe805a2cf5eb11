package zone

import "strings"

// Named resolves zone text: "local" or "system" for the host zone, "utc",
// "gmt" or "z" for UTC, fixed specifiers such as "UTC+3" or "-05:00", and
// otherwise an IANA name. Anything else yields an invalid zone.
func Named(s string) Zone {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "local", "system":
		return Local()
	case "utc", "gmt", "z":
		return UTC
	}
	if f, ok := ParseSpecifier(trimmed); ok {
		return f
	}
	return IANA(trimmed)
}
