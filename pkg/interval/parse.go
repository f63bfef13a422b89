package interval

import (
	"fmt"
	"strconv"
	"strings"
)

const halfOpenSep = "..<"

// Parse reads an integer interval written either as "lo..<hi" or "lo-hi".
// Both forms denote the half-open range [lo, hi).
func Parse(s string) (Interval[int], error) {
	var from, to string
	if h := strings.Index(s, halfOpenSep); h != -1 {
		from, to = s[:h], s[h+len(halfOpenSep):]
	} else {
		// skip a leading sign so "-3-4" splits on the second hyphen
		h := strings.IndexByte(strings.TrimPrefix(s, "-"), '-')
		if h == -1 {
			return Interval[int]{}, fmt.Errorf("no separator in interval %q", s)
		}
		if strings.HasPrefix(s, "-") {
			h++
		}
		from, to = s[:h], s[h+1:]
	}
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return Interval[int]{}, fmt.Errorf("invalid lower bound %q in interval %q", from, s)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return Interval[int]{}, fmt.Errorf("invalid upper bound %q in interval %q", to, s)
	}
	return New(lo, hi)
}
