package almanac

import (
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// Option configures construction of DateTime, Duration and Interval values.
type Option func(*options)

type options struct {
	zone            zone.Zone
	setZone         bool
	locale          string
	numberingSystem string
	outputCalendar  string
	accuracy        Accuracy
	accuracySet     bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithZone interprets and displays the value in z.
func WithZone(z zone.Zone) Option {
	return func(o *options) {
		o.zone = z
	}
}

// WithZoneName is WithZone for zone text such as "America/New_York",
// "UTC+3" or "local".
func WithZoneName(name string) Option {
	return func(o *options) {
		o.zone = zone.Named(name)
	}
}

// WithSetZone keeps the zone or offset found in parsed text instead of
// converting the result to the requested zone.
func WithSetZone() Option {
	return func(o *options) {
		o.setZone = true
	}
}

// WithLocale sets the BCP-47 locale tag.
func WithLocale(tag string) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithNumberingSystem sets the numbering system, e.g. "arab".
func WithNumberingSystem(ns string) Option {
	return func(o *options) {
		o.numberingSystem = ns
	}
}

func WithOutputCalendar(cal string) Option {
	return func(o *options) {
		o.outputCalendar = cal
	}
}

// WithAccuracy selects the conversion matrix of a Duration.
func WithAccuracy(a Accuracy) Option {
	return func(o *options) {
		o.accuracy = a
		o.accuracySet = true
	}
}

// zoneOr returns the requested zone or the default zone.
func (o options) zoneOr() zone.Zone {
	if o.zone != nil {
		return o.zone
	}
	return DefaultZone()
}

func (o options) hasLocale() bool {
	return o.locale != "" || o.numberingSystem != "" || o.outputCalendar != ""
}

// localeOr builds the locale from the options, falling back to the
// defaults for anything unset.
func (o options) localeOr() locale.Locale {
	def := DefaultLocale()
	tag, ns, cal := o.locale, o.numberingSystem, o.outputCalendar
	if tag == "" {
		tag = def.Tag
	}
	if ns == "" {
		ns = def.NumberingSystem
	}
	if cal == "" {
		cal = def.OutputCalendar
	}
	return locale.New(tag, ns, cal)
}

// localeOrEnglish is localeOr, except that a missing tag means en-US rather
// than the default locale. Format parsing uses it so that English input
// parses regardless of the host.
func (o options) localeOrEnglish() locale.Locale {
	if o.locale == "" {
		o.locale = locale.DefaultTag
	}
	return o.localeOr()
}
