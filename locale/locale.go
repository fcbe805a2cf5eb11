// Package locale carries the locale configuration attached to almanac values
// and the Service interface through which localized names and numbers are
// obtained from the host.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultTag is used when no usable tag is configured.
const DefaultTag = "en-US"

// Locale is the locale configuration of a value.
type Locale struct {
	// Tag is a canonical BCP-47 tag without extensions, e.g. "fr-CA".
	Tag string

	// NumberingSystem is a CLDR numbering system such as "latn" or "arab".
	// Empty means the locale's default.
	NumberingSystem string

	// OutputCalendar is recorded for round-tripping; only "gregory" output is
	// produced.
	OutputCalendar string
}

// New canonicalizes tag and merges a "-u-nu-" extension into the numbering
// system when none is given. Unparsable tags fall back to DefaultTag.
func New(tag, numberingSystem, outputCalendar string) Locale {
	if tag == "" {
		tag = System()
	}
	t, err := language.Parse(tag)
	if err != nil {
		t = language.MustParse(DefaultTag)
	}
	if numberingSystem == "" {
		numberingSystem = t.TypeForKey("nu")
	}
	if outputCalendar == "" {
		outputCalendar = t.TypeForKey("ca")
	}
	base, err := t.SetTypeForKey("nu", "")
	if err == nil {
		t = base
	}
	if base, err := t.SetTypeForKey("ca", ""); err == nil {
		t = base
	}
	return Locale{
		Tag:             t.String(),
		NumberingSystem: numberingSystem,
		OutputCalendar:  outputCalendar,
	}
}

// LanguageTag returns the x/text tag including the numbering system
// extension.
func (l Locale) LanguageTag() language.Tag {
	t, err := language.Parse(l.Tag)
	if err != nil {
		t = language.AmericanEnglish
	}
	if l.NumberingSystem != "" {
		if withNu, err := t.SetTypeForKey("nu", l.NumberingSystem); err == nil {
			t = withNu
		}
	}
	return t
}

// IsEnglish reports whether the tag's language is English.
func (l Locale) IsEnglish() bool {
	return l.Tag == "en" || strings.HasPrefix(l.Tag, "en-")
}

// FastNumbers reports whether integers can be rendered with plain ASCII
// digits instead of asking the Service.
func (l Locale) FastNumbers() bool {
	return l.IsEnglish() && (l.NumberingSystem == "" || l.NumberingSystem == "latn")
}

// Equals compares all three settings.
func (l Locale) Equals(o Locale) bool {
	return l == o
}

func (l Locale) String() string {
	return l.Tag
}
