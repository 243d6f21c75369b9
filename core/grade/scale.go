package grade

import "strings"

// scale is the fixed letter-grade to point mapping. Process-wide, read-only.
var scale = map[string]float64{
	"A+": 10,
	"A":  9,
	"B":  8,
	"C":  7,
	"D":  6,
	"E":  5,
	"F":  0,
}

// Points converts a letter grade to its point value. Unrecognized tokens
// (malpractice/absence markers, legacy strings, empty) report ok=false and
// are excluded from both point and credit sums when averaging; they are
// expected in uploaded data and are never an error.
func Points(grade string) (pts float64, ok bool) {
	pts, ok = scale[strings.ToUpper(strings.TrimSpace(grade))]
	return pts, ok
}

// Beats reports whether grade a is strictly better than grade b on the
// scale. An uncountable grade never beats a countable one.
func Beats(a, b string) bool {
	ptsA, okA := Points(a)
	if !okA {
		return false
	}
	ptsB, okB := Points(b)
	if !okB {
		return true
	}
	return ptsA > ptsB
}
