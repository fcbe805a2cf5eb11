package almanac

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/cpuguy83/almanac/internal/calmath"
	"github.com/cpuguy83/almanac/internal/parse"
	"github.com/cpuguy83/almanac/internal/tokens"
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

// parsedValue is what a token's capture groups decode to. Text tokens keep
// the raw string; everything else is numeric.
type parsedValue struct {
	n  int
	s  string
	ms int64
}

type tokenUnit struct {
	token   tokens.Token
	regex   string
	groups  int
	literal bool
	deser   func(m []string) parsedValue
}

func literalUnit(t tokens.Token) tokenUnit {
	return tokenUnit{token: t, regex: regexp.QuoteMeta(t.Val), literal: true}
}

func intUnit(t tokens.Token, regex string, post func(int) int) tokenUnit {
	return tokenUnit{token: t, regex: regex, deser: func(m []string) parsedValue {
		n := parseDigits(m[0])
		if post != nil {
			n = post(n)
		}
		return parsedValue{n: n, s: m[0]}
	}}
}

// epochUnit reads a signed count of epoch units, scale milliseconds each.
func epochUnit(t tokens.Token, scale int64) tokenUnit {
	return tokenUnit{token: t, regex: `-?\d+`, deser: func(m []string) parsedValue {
		n, err := strconv.ParseInt(m[0], 10, 64)
		if err != nil || n > math.MaxInt64/scale || n < math.MinInt64/scale {
			return parsedValue{s: m[0], ms: math.MaxInt64}
		}
		return parsedValue{n: int(n), s: m[0], ms: n * scale}
	}}
}

func textUnit(t tokens.Token, regex string) tokenUnit {
	return tokenUnit{token: t, regex: regex, deser: func(m []string) parsedValue {
		return parsedValue{s: m[0]}
	}}
}

func offsetUnit(t tokens.Token, regex string) tokenUnit {
	return tokenUnit{token: t, regex: regex, groups: 2, deser: func(m []string) parsedValue {
		return parsedValue{n: zone.SignedOffset(m[1], m[2]), s: m[0]}
	}}
}

func stripInsensitivities(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), "\u00a0", " "))
}

// oneOfUnit matches any of names case-insensitively, with periods optional,
// and decodes to the name's index plus start.
func oneOfUnit(t tokens.Token, names []string, start int) tokenUnit {
	alts := make([]string, len(names))
	for i, name := range names {
		quoted := regexp.QuoteMeta(strings.ReplaceAll(name, "\u00a0", " "))
		alts[i] = strings.ReplaceAll(quoted, `\.`, `\.?`)
	}
	return tokenUnit{token: t, regex: strings.Join(alts, "|"), deser: func(m []string) parsedValue {
		want := stripInsensitivities(m[0])
		for i, name := range names {
			if stripInsensitivities(name) == want {
				return parsedValue{n: i + start, s: m[0]}
			}
		}
		return parsedValue{n: start - 1, s: m[0]}
	}}
}

// parseDigits reads a run of decimal digits from any numbering system.
func parseDigits(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	n := 0
	for _, r := range s {
		n = n*10 + digitValue(r)
	}
	return n
}

// digitValue finds the value of a Unicode decimal digit by walking back to
// the zero of its block. Decimal digits always come in contiguous runs of
// ten starting at zero.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	zero := r
	for zero > 0 && r-zero < 9 && unicode.IsDigit(zero-1) {
		zero--
	}
	return int(r-zero) % 10
}

func unitForToken(t tokens.Token, loc locale.Locale, svc locale.Service, cutoff int) tokenUnit {
	if t.Literal {
		return literalUnit(t)
	}

	digit := `\d`
	if ns := loc.NumberingSystem; ns != "" && ns != "latn" {
		digit = `\p{Nd}`
	}
	var (
		one        = digit
		two        = digit + `{2}`
		three      = digit + `{3}`
		four       = digit + `{4}`
		six        = digit + `{6}`
		oneOrTwo   = digit + `{1,2}`
		oneToThree = digit + `{1,3}`
		oneToSix   = digit + `{1,6}`
		oneToNine  = digit + `{1,9}`
		twoToFour  = digit + `{2,4}`
		fourToSix  = digit + `{4,6}`
	)
	untruncate := func(n int) int { return calmath.UntruncateYear(n, cutoff) }

	switch t.Val {
	// era
	case "G":
		return oneOfUnit(t, svc.Eras(loc, locale.Short), 0)
	case "GG":
		return oneOfUnit(t, svc.Eras(loc, locale.Long), 0)
	// years
	case "y":
		return intUnit(t, oneToSix, nil)
	case "yy":
		return intUnit(t, twoToFour, untruncate)
	case "yyyy":
		return intUnit(t, four, nil)
	case "yyyyy":
		return intUnit(t, fourToSix, nil)
	case "yyyyyy":
		return intUnit(t, six, nil)
	// months
	case "M", "L":
		return intUnit(t, oneOrTwo, nil)
	case "MM", "LL":
		return intUnit(t, two, nil)
	case "MMM":
		return oneOfUnit(t, svc.Months(loc, locale.Short, false), 1)
	case "MMMM":
		return oneOfUnit(t, svc.Months(loc, locale.Long, false), 1)
	case "LLL":
		return oneOfUnit(t, svc.Months(loc, locale.Short, true), 1)
	case "LLLL":
		return oneOfUnit(t, svc.Months(loc, locale.Long, true), 1)
	// dates
	case "d":
		return intUnit(t, oneOrTwo, nil)
	case "dd":
		return intUnit(t, two, nil)
	// ordinals
	case "o":
		return intUnit(t, oneToThree, nil)
	case "ooo":
		return intUnit(t, three, nil)
	// time
	case "HH", "hh", "mm", "ss", "qq", "WW":
		return intUnit(t, two, nil)
	case "H", "h", "m", "s", "q", "W":
		return intUnit(t, oneOrTwo, nil)
	case "S":
		return intUnit(t, oneToThree, nil)
	case "SSS":
		return intUnit(t, three, nil)
	case "u":
		return textUnit(t, oneToNine)
	case "uu":
		return textUnit(t, oneOrTwo)
	case "uuu":
		return textUnit(t, one)
	// meridiem
	case "a":
		return oneOfUnit(t, svc.Meridiems(loc), 0)
	// week years
	case "kkkk":
		return intUnit(t, four, nil)
	case "kk":
		return intUnit(t, twoToFour, untruncate)
	// weekdays
	case "E", "c":
		return intUnit(t, one, nil)
	case "EEE":
		return oneOfUnit(t, svc.Weekdays(loc, locale.Short, false), 1)
	case "EEEE":
		return oneOfUnit(t, svc.Weekdays(loc, locale.Long, false), 1)
	case "ccc":
		return oneOfUnit(t, svc.Weekdays(loc, locale.Short, true), 1)
	case "cccc":
		return oneOfUnit(t, svc.Weekdays(loc, locale.Long, true), 1)
	// offsets and zones
	case "Z", "ZZ":
		return offsetUnit(t, `([+-]`+oneOrTwo+`)(?::(`+two+`))?`)
	case "ZZZ":
		return offsetUnit(t, `([+-]`+oneOrTwo+`)(`+two+`)?`)
	case "z":
		return textUnit(t, `[A-Za-z_+\-/]{1,256}?`)
	// epoch timestamps
	case "X":
		return epochUnit(t, 1000)
	case "x":
		return epochUnit(t, 1)
	default:
		return literalUnit(t)
	}
}

// tokenFields maps the first character of a field token to the unit it
// sets. When two tokens set the same unit the earlier entry wins: 24-hour
// over 12-hour, format over standalone.
var tokenFields = []struct {
	key  byte
	unit Unit
}{
	{'S', Millisecond},
	{'s', Second},
	{'m', Minute},
	{'H', Hour},
	{'h', Hour},
	{'d', Day},
	{'o', Ordinal},
	{'M', Month},
	{'L', Month},
	{'y', Year},
	{'E', Weekday},
	{'c', Weekday},
	{'W', WeekNumber},
	{'k', WeekYear},
}

// FormatParser is a compiled token format. It is safe for concurrent use.
type FormatParser struct {
	format string
	loc    locale.Locale
	tokens []tokens.Token
	units  []tokenUnit
	re     *regexp.Regexp
	err    error
}

// NewFormatParser compiles a token format such as "yyyy-MM-dd HH:mm" for
// repeated parsing. Month and weekday names are read in the locale given by
// WithLocale, English by default. Macro tokens ("D", "ff", ...) expand to the
// locale's preset patterns.
func NewFormatParser(format string, opts ...Option) *FormatParser {
	o := buildOptions(opts)
	loc := o.localeOrEnglish()
	svc := localeService()
	f := formatter{loc: loc, svc: svc}

	p := &FormatParser{
		format: format,
		loc:    loc,
		tokens: tokens.Expand(tokens.Parse(format), f.preset),
	}
	cutoff := TwoDigitCutoffYear()

	var b strings.Builder
	b.WriteString(`(?i)^`)
	for _, t := range p.tokens {
		u := unitForToken(t, loc, svc, cutoff)
		p.units = append(p.units, u)
		b.WriteString("(")
		b.WriteString(u.regex)
		b.WriteString(")")
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		p.err = fmt.Errorf("compiling format %q: %w", format, err)
	}
	p.re = re
	return p
}

// Format returns the format the parser was built from.
func (p *FormatParser) Format() string { return p.format }

type formatMatch struct {
	raw            []string
	values         map[byte]parsedValue
	fields         Fields
	zone           zone.Zone
	specificOffset *int
	millis         *int64
}

func (p *FormatParser) match(text string) (formatMatch, *Invalid) {
	var fm formatMatch
	if p.err != nil {
		return fm, newInvalid(ErrInvalidArgument, "%v", p.err)
	}
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return fm, nil
	}
	fm.raw = m
	fm.values = make(map[byte]parsedValue)
	cursor := 1
	for _, u := range p.units {
		n := u.groups + 1
		if !u.literal {
			fm.values[u.token.Val[0]] = u.deser(m[cursor : cursor+n])
		}
		cursor += n
	}

	_, hasMeridiem := fm.values['a']
	if _, ok := fm.values['H']; ok && hasMeridiem {
		return fm, newInvalid(ErrConflictingSpecification, "can't include meridiem when specifying 24-hour format")
	}
	fm.fields, fm.zone, fm.specificOffset = fieldsFromMatches(fm.values)
	fm.millis = epochFromMatches(fm.values)
	return fm, nil
}

// epochFromMatches returns the instant named by an X or x token, preferring
// the finer x.
func epochFromMatches(values map[byte]parsedValue) *int64 {
	for _, k := range []byte{'x', 'X'} {
		if v, ok := values[k]; ok {
			ms := v.ms
			return &ms
		}
	}
	return nil
}

func fieldsFromMatches(values map[byte]parsedValue) (Fields, zone.Zone, *int) {
	var (
		z              zone.Zone
		specificOffset *int
	)
	if v, ok := values['z']; ok {
		z = zone.IANA(v.s)
	}
	if v, ok := values['Z']; ok {
		if z == nil {
			z = zone.Fixed(v.n)
		}
		off := v.n
		specificOffset = &off
	}
	if v, ok := values['q']; ok {
		values['M'] = parsedValue{n: (v.n-1)*3 + 1}
	}
	if h, ok := values['h']; ok {
		if a, ok := values['a']; ok {
			switch {
			case h.n < 12 && a.n == 1:
				h.n += 12
			case h.n == 12 && a.n == 0:
				h.n = 0
			}
			values['h'] = h
		}
	}
	if g, ok := values['G']; ok && g.n == 0 {
		if y, ok := values['y']; ok {
			y.n = -y.n
			values['y'] = y
		}
	}
	if u, ok := values['u']; ok {
		values['S'] = parsedValue{n: parse.Millis(u.s)}
	}

	fields := make(Fields)
	for _, tf := range tokenFields {
		v, ok := values[tf.key]
		if !ok {
			continue
		}
		if _, set := fields[tf.unit]; !set {
			fields[tf.unit] = v.n
		}
	}
	return fields, z, specificOffset
}

// Parse reads text in the parser's format. Fields are interpreted in the
// parsed zone or offset if the format has one, otherwise in the zone given
// by WithZone or the default zone. An X or x token fixes the instant and
// the other fields are ignored.
func (p *FormatParser) Parse(text string, opts ...Option) DateTime {
	o := buildOptions(opts)
	fm, inv := p.match(text)
	if inv != nil {
		return invalidDateTime(inv, o.zoneOr(), o.localeOr())
	}
	if fm.millis != nil {
		d := FromMillis(*fm.millis, opts...)
		if o.setZone && fm.zone != nil {
			d = d.SetZone(fm.zone, false)
		}
		return d
	}
	return parsedToDateTime(fm.fields, fm.zone, o, "format "+p.format, text, fm.specificOffset)
}

// FromFormat parses text in a token format:
//
//	FromFormat("May 25 1982", "LLLL dd yyyy")
//	FromFormat("2017-05-15 09:24 +06:00", "yyyy-MM-dd HH:mm ZZ")
//
// Text that does not match the whole format gives an invalid DateTime.
func FromFormat(text, format string, opts ...Option) DateTime {
	return NewFormatParser(format, opts...).Parse(text, opts...)
}

// FormatExplanation describes how FromFormat saw an input.
type FormatExplanation struct {
	Input          string
	Tokens         []string
	Regex          string
	RawMatches     []string
	Matches        map[string]int
	Result         Fields
	Zone           zone.Zone
	SpecificOffset *int
	Millis         *int64
	Err            error
}

// ExplainFormat runs the format parser over text and reports its
// intermediate state, for debugging formats that do not match.
func ExplainFormat(text, format string, opts ...Option) FormatExplanation {
	p := NewFormatParser(format, opts...)
	ex := FormatExplanation{Input: text}
	for _, t := range p.tokens {
		ex.Tokens = append(ex.Tokens, t.Val)
	}
	if p.re != nil {
		ex.Regex = p.re.String()
	}
	fm, inv := p.match(text)
	if inv != nil {
		ex.Err = inv
		return ex
	}
	if fm.raw == nil {
		ex.Err = unparsable(text, "format "+format)
		return ex
	}
	ex.RawMatches = fm.raw
	ex.Matches = make(map[string]int, len(fm.values))
	for k, v := range fm.values {
		ex.Matches[string(k)] = v.n
	}
	ex.Result = fm.fields
	ex.Zone = fm.zone
	ex.SpecificOffset = fm.specificOffset
	ex.Millis = fm.millis
	return ex
}
