// Package almanac is a time-zone aware date and time engine.
//
// It provides three immutable value types: DateTime, an instant seen through
// a zone and a locale; Duration, a length of time expressed in calendar
// units; and Interval, a half-open span between two DateTimes. Values are
// safe to share between goroutines. Every transformation returns a new
// value.
//
// Failed constructions do not return errors. They return a value marked
// invalid, and every operation on an invalid value yields another invalid
// value. Use IsValid and Err to inspect the outcome, or SetThrowOnInvalid to
// panic instead.
package almanac
