package zone

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LocalZone follows the host's wall clock through time.Local.
type LocalZone struct{}

var local = &LocalZone{}

// Local returns the host zone.
func Local() *LocalZone { return local }

// hostZoneName is the IANA name of the host zone, found from $TZ or the
// /etc/localtime link, or "Local" when neither names one.
var hostZoneName = sync.OnceValue(func() string {
	return probeHostZone(os.Getenv("TZ"), os.Readlink)
})

func probeHostZone(tz string, readlink func(string) (string, error)) string {
	if tz = strings.TrimPrefix(tz, ":"); tz != "" && IsValidIANA(tz) {
		return tz
	}
	if target, err := readlink("/etc/localtime"); err == nil {
		if _, name, ok := strings.Cut(filepath.ToSlash(target), "zoneinfo/"); ok && IsValidIANA(name) {
			return name
		}
	}
	return time.Local.String()
}

func (*LocalZone) Type() string    { return "system" }
func (*LocalZone) Name() string    { return hostZoneName() }
func (*LocalZone) Universal() bool { return false }
func (*LocalZone) IsValid() bool   { return true }

func (*LocalZone) Offset(ts int64) int {
	_, off := time.UnixMilli(ts).In(time.Local).Zone()
	return off / 60
}

func (z *LocalZone) OffsetName(ts int64, format NameFormat) string {
	if format == NameLong {
		return z.Name()
	}
	abbr, _ := time.UnixMilli(ts).In(time.Local).Zone()
	return abbr
}

func (z *LocalZone) FormatOffset(ts int64, format OffsetFormat) string {
	return FormatOffsetMinutes(z.Offset(ts), format)
}

func (*LocalZone) Equals(other Zone) bool {
	_, ok := other.(*LocalZone)
	return ok
}
