package almanac

import (
	"errors"
	"fmt"
)

var (
	// ErrUnitOutOfRange reports a calendar field outside its range, such as
	// month 13 or hour 25.
	ErrUnitOutOfRange = errors.New("unit out of range")

	// ErrConflictingSpecification reports field input that mixes Gregorian,
	// week-date and ordinal units.
	ErrConflictingSpecification = errors.New("conflicting specification")

	// ErrUnsupportedZone reports a zone that could not be resolved.
	ErrUnsupportedZone = errors.New("unsupported zone")

	// ErrUnparsable reports text that matches none of the accepted layouts.
	ErrUnparsable = errors.New("unparsable")

	// ErrInvalidUnit reports a unit name that is unknown or not accepted by
	// the operation.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidArgument reports an argument of the wrong shape, such as a
	// timestamp outside the supported range or a NaN duration value.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrMismatchedWeekday = errors.New("mismatched weekday")
	ErrEndBeforeStart    = errors.New("end before start")
	ErrMissingEndpoint   = errors.New("missing or invalid endpoint")
)

// Invalid explains why a value is invalid. It is returned by the Err method
// of DateTime, Duration and Interval and matches its Kind with errors.Is.
type Invalid struct {
	Kind        error
	Reason      string
	Explanation string
}

func (e *Invalid) Error() string {
	if e.Explanation == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Explanation
}

func (e *Invalid) Unwrap() error {
	return e.Kind
}

func newInvalid(kind error, explanation string, args ...any) *Invalid {
	if len(args) > 0 {
		explanation = fmt.Sprintf(explanation, args...)
	}
	return &Invalid{Kind: kind, Reason: kind.Error(), Explanation: explanation}
}

func unsupportedZone(name string) *Invalid {
	return newInvalid(ErrUnsupportedZone, "the zone %q is not supported", name)
}

func unparsable(text, format string) *Invalid {
	return newInvalid(ErrUnparsable, "the input %q can't be parsed as %s", text, format)
}

// raise panics with inv when SetThrowOnInvalid is enabled.
func raise(inv *Invalid) {
	if ThrowOnInvalid() {
		panic(inv)
	}
}
