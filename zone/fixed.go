package zone

import (
	"regexp"
	"sync"
)

// FixedZone has the same offset at every instant.
type FixedZone struct {
	fixed int
}

var (
	fixedMu    sync.RWMutex
	fixedCache = map[int]*FixedZone{}

	// UTC is the zero-offset fixed zone.
	UTC = Fixed(0)
)

// Fixed returns the interned zone for an offset in minutes.
func Fixed(offset int) *FixedZone {
	fixedMu.RLock()
	z, ok := fixedCache[offset]
	fixedMu.RUnlock()
	if ok {
		return z
	}

	fixedMu.Lock()
	defer fixedMu.Unlock()
	if z, ok := fixedCache[offset]; ok {
		return z
	}
	z = &FixedZone{fixed: offset}
	fixedCache[offset] = z
	return z
}

var specifierRe = regexp.MustCompile(`^(?i)(?:utc|gmt)?([+-]\d{1,2})(?::?(\d{2}))?$`)

// ParseSpecifier parses "UTC", "UTC+3", "utc-03:30", "+0530" and similar.
func ParseSpecifier(s string) (*FixedZone, bool) {
	switch s {
	case "UTC", "utc", "GMT", "gmt":
		return UTC, true
	}
	m := specifierRe.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return Fixed(SignedOffset(m[1], m[2])), true
}

func (z *FixedZone) Type() string { return "fixed" }

func (z *FixedZone) Name() string {
	if z.fixed == 0 {
		return "UTC"
	}
	return "UTC" + FormatOffsetMinutes(z.fixed, OffsetNarrow)
}

func (z *FixedZone) Universal() bool { return true }
func (z *FixedZone) IsValid() bool   { return true }
func (z *FixedZone) Offset(int64) int {
	return z.fixed
}

func (z *FixedZone) OffsetName(int64, NameFormat) string {
	return z.Name()
}

func (z *FixedZone) FormatOffset(_ int64, format OffsetFormat) string {
	return FormatOffsetMinutes(z.fixed, format)
}

func (z *FixedZone) Equals(other Zone) bool {
	o, ok := other.(*FixedZone)
	return ok && o.fixed == z.fixed
}
