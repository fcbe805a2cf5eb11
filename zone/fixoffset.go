package zone

import "github.com/cpuguy83/almanac/internal/calmath"

// FixOffset turns a local timestamp into an instant in z, starting from a
// guessed offset in minutes. It returns the instant and the offset to report
// for it.
//
// When the local time falls in a spring-forward gap there is no exact
// instant: the result uses the earlier offset to compute the instant and
// reports the later one, which lands the wall clock after the gap. In a
// fall-back fold the offset the search reaches first wins.
func FixOffset(localTS int64, guess int, z Zone) (int64, int) {
	utcGuess := localTS - int64(guess)*calmath.MillisPerMinute
	o2 := z.Offset(utcGuess)
	if o2 == guess {
		return utcGuess, guess
	}

	utcGuess -= int64(o2-guess) * calmath.MillisPerMinute
	o3 := z.Offset(utcGuess)
	if o2 == o3 {
		return utcGuess, o2
	}

	return localTS - int64(min(o2, o3))*calmath.MillisPerMinute, max(o2, o3)
}
