package locale

import (
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TextService renders numbers through golang.org/x/text, which honours the
// locale's numbering system ("ar-EG" or "-u-nu-arab" give Arabic-Indic
// digits). Names come from Names, English when nil, since x/text carries no
// calendar name data.
type TextService struct {
	Names Service
}

func (s TextService) names() Service {
	if s.Names == nil {
		return English{}
	}
	return s.Names
}

func (s TextService) Months(l Locale, length Length, standalone bool) []string {
	return s.names().Months(l, length, standalone)
}

func (s TextService) Weekdays(l Locale, length Length, standalone bool) []string {
	return s.names().Weekdays(l, length, standalone)
}

func (s TextService) Meridiems(l Locale) []string {
	return s.names().Meridiems(l)
}

func (s TextService) Eras(l Locale, length Length) []string {
	return s.names().Eras(l, length)
}

func (s TextService) Preset(l Locale, p Preset) (string, bool) {
	return s.names().Preset(l, p)
}

func (s TextService) FormatNumber(l Locale, n int64, minDigits int) string {
	if l.FastNumbers() {
		return PadInt(n, minDigits)
	}
	opts := []number.Option{number.NoSeparator()}
	if minDigits > 0 {
		opts = append(opts, number.MinIntegerDigits(minDigits))
	}
	return printer(l).Sprint(number.Decimal(n, opts...))
}

var _ Service = TextService{}

// printerFor builds an uncached printer; see printer for the cached path.
func printerFor(l Locale) *message.Printer {
	return message.NewPrinter(l.LanguageTag())
}
