package almanac

import (
	"sync"
	"time"

	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// DefaultTwoDigitCutoffYear is the default pivot for two-digit years: 60 and
// below are 20xx, above are 19xx.
const DefaultTwoDigitCutoffYear = 60

type settings struct {
	mu sync.RWMutex

	now                    func() int64
	defaultZone            zone.Zone
	defaultLocale          string
	defaultNumberingSystem string
	defaultOutputCalendar  string
	throwOnInvalid         bool
	twoDigitCutoffYear     int
	localeService          locale.Service
}

var global = &settings{}

func init() {
	ResetSettings()
}

func systemNow() int64 {
	return time.Now().UnixMilli()
}

// ResetSettings restores every process-wide setting to its default.
func ResetSettings() {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.now = systemNow
	global.defaultZone = zone.Local()
	global.defaultLocale = ""
	global.defaultNumberingSystem = ""
	global.defaultOutputCalendar = ""
	global.throwOnInvalid = false
	global.twoDigitCutoffYear = DefaultTwoDigitCutoffYear
	global.localeService = locale.TextService{}
}

// ResetCaches drops the zone, printer and system-locale caches.
func ResetCaches() {
	zone.ResetCache()
	locale.ResetCache()
}

// SetNow replaces the clock used by Now and by FromObject to fill in missing
// fields. fn returns epoch milliseconds. A nil fn restores the system clock.
func SetNow(fn func() int64) {
	if fn == nil {
		fn = systemNow
	}
	global.mu.Lock()
	global.now = fn
	global.mu.Unlock()
}

func nowMillis() int64 {
	global.mu.RLock()
	fn := global.now
	global.mu.RUnlock()
	return fn()
}

// SetDefaultZone sets the zone used when none is given. A nil zone restores
// the host's local zone.
func SetDefaultZone(z zone.Zone) {
	if z == nil {
		z = zone.Local()
	}
	global.mu.Lock()
	global.defaultZone = z
	global.mu.Unlock()
}

// DefaultZone returns the zone used when none is given.
func DefaultZone() zone.Zone {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.defaultZone
}

// SetDefaultLocale sets the BCP-47 tag used when none is given. An empty tag
// means the host's locale.
func SetDefaultLocale(tag string) {
	global.mu.Lock()
	global.defaultLocale = tag
	global.mu.Unlock()
}

func SetDefaultNumberingSystem(ns string) {
	global.mu.Lock()
	global.defaultNumberingSystem = ns
	global.mu.Unlock()
}

func SetDefaultOutputCalendar(cal string) {
	global.mu.Lock()
	global.defaultOutputCalendar = cal
	global.mu.Unlock()
}

// DefaultLocale returns the locale built from the default settings.
func DefaultLocale() locale.Locale {
	global.mu.RLock()
	tag, ns, cal := global.defaultLocale, global.defaultNumberingSystem, global.defaultOutputCalendar
	global.mu.RUnlock()
	return locale.New(tag, ns, cal)
}

// SetThrowOnInvalid makes constructors and transformations panic with an
// *Invalid instead of returning an invalid value.
func SetThrowOnInvalid(v bool) {
	global.mu.Lock()
	global.throwOnInvalid = v
	global.mu.Unlock()
}

func ThrowOnInvalid() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.throwOnInvalid
}

// SetTwoDigitCutoffYear sets the pivot used to expand two-digit years in
// RFC-2822, HTTP and "yy" format input.
func SetTwoDigitCutoffYear(year int) {
	global.mu.Lock()
	global.twoDigitCutoffYear = year % 100
	global.mu.Unlock()
}

func TwoDigitCutoffYear() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.twoDigitCutoffYear
}

// SetLocaleService installs the host service for localized names, numbers
// and presets. A nil service restores locale.TextService.
func SetLocaleService(s locale.Service) {
	if s == nil {
		s = locale.TextService{}
	}
	global.mu.Lock()
	global.localeService = s
	global.mu.Unlock()
}

func localeService() locale.Service {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.localeService
}
