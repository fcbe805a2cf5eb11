package zone

import (
	"sync"
	"time"
	_ "time/tzdata" // resolve IANA names even without a system database

	"golang.org/x/sync/singleflight"
)

// IANAZone is a zone from the IANA time zone database.
type IANAZone struct {
	name string
	loc  *time.Location
}

var (
	ianaMu    sync.RWMutex
	ianaCache = map[string]Zone{}
	ianaGroup singleflight.Group
)

// IANA returns the interned zone for name, or an invalid zone when the name
// is not in the database. Failed lookups are cached too.
func IANA(name string) Zone {
	ianaMu.RLock()
	z, ok := ianaCache[name]
	ianaMu.RUnlock()
	if ok {
		return z
	}

	v, _, _ := ianaGroup.Do(name, func() (any, error) {
		ianaMu.RLock()
		z, ok := ianaCache[name]
		ianaMu.RUnlock()
		if ok {
			return z, nil
		}

		z = loadIANA(name)
		ianaMu.Lock()
		ianaCache[name] = z
		ianaMu.Unlock()
		return z, nil
	})
	return v.(Zone)
}

func loadIANA(name string) Zone {
	// LoadLocation maps these to UTC and the host zone; neither is a
	// database name.
	if name == "" || name == "Local" {
		return Invalid(name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Invalid(name)
	}
	return &IANAZone{name: name, loc: loc}
}

// IsValidIANA reports whether name resolves in the IANA database.
func IsValidIANA(name string) bool {
	return IANA(name).IsValid()
}

// ResetCache drops every interned IANA and fixed zone except UTC.
func ResetCache() {
	ianaMu.Lock()
	ianaCache = map[string]Zone{}
	ianaMu.Unlock()

	fixedMu.Lock()
	fixedCache = map[int]*FixedZone{0: UTC}
	fixedMu.Unlock()
}

// Location returns the backing time.Location.
func (z *IANAZone) Location() *time.Location { return z.loc }

func (z *IANAZone) Type() string    { return "iana" }
func (z *IANAZone) Name() string    { return z.name }
func (z *IANAZone) Universal() bool { return false }
func (z *IANAZone) IsValid() bool   { return true }

func (z *IANAZone) Offset(ts int64) int {
	_, off := time.UnixMilli(ts).In(z.loc).Zone()
	return off / 60
}

func (z *IANAZone) OffsetName(ts int64, format NameFormat) string {
	if format == NameLong {
		return z.name
	}
	abbr, _ := time.UnixMilli(ts).In(z.loc).Zone()
	return abbr
}

func (z *IANAZone) FormatOffset(ts int64, format OffsetFormat) string {
	return FormatOffsetMinutes(z.Offset(ts), format)
}

func (z *IANAZone) Equals(other Zone) bool {
	o, ok := other.(*IANAZone)
	return ok && o.name == z.name
}
