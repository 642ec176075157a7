package hotel

import "time"

const dateLayout = "2006-01-02"

// ValidDate checks the wire shape (YYYY-MM-DD, hyphens at 4 and 7) and that
// the value parses as a real calendar date.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// Overlaps reports whether [s1,e1] and [s2,e2] intersect. Lexical comparison
// is monotonic with calendar order for canonical YYYY-MM-DD strings. The
// rule is inclusive on both ends: ranges that merely touch count as
// overlapping.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 <= e2 && e1 >= s2
}

// Nights returns the number of nights between two valid dates, clamped to a
// minimum of one so a same-day range still bills a single night.
func Nights(start, end string) int {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 1
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 1
	}
	n := int(e.Sub(s).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}
