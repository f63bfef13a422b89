package interval

import (
	"cmp"
	"fmt"
)

// Interval is the half-open range [Lo, Hi) over an ordered bound.
type Interval[B cmp.Ordered] struct {
	Lo B
	Hi B
}

// New returns a new Interval or an error if hi is before lo.
func New[B cmp.Ordered](lo, hi B) (Interval[B], error) {
	if hi < lo {
		return Interval[B]{}, fmt.Errorf("invalid interval: upper bound %v before lower bound %v", hi, lo)
	}
	return Interval[B]{Lo: lo, Hi: hi}, nil
}

// MustNew is like New but panics on an invalid interval.
func MustNew[B cmp.Ordered](lo, hi B) Interval[B] {
	r, err := New(lo, hi)
	if err != nil {
		panic(err)
	}
	return r
}

// From returns the lower bound of r.
func (r Interval[B]) From() B { return r.Lo }

// To returns the upper bound of r.
func (r Interval[B]) To() B { return r.Hi }

func (r Interval[B]) IsValid() bool { return !(r.Hi < r.Lo) }

func (r Interval[B]) IsEmpty() bool { return r.Lo == r.Hi }

// Overlaps reports whether r and other share at least one point under the
// half-open rule: [a0,a1) and [b0,b1) overlap iff a0 < b1 && b0 < a1.
// A zero-length interval [p,p) overlaps other only if other.Lo < p < other.Hi.
func (r Interval[B]) Overlaps(other Interval[B]) bool {
	return r.Lo < other.Hi && other.Lo < r.Hi
}

// Contains returns whether p lies in r.
func (r Interval[B]) Contains(p B) bool {
	return r.Lo <= p && p < r.Hi
}

// CoveredBy returns whether r is entirely contained within other.
func (r Interval[B]) CoveredBy(other Interval[B]) bool {
	return other.Lo <= r.Lo && r.Hi <= other.Hi
}

// EntirelyBefore returns whether r ends at or before the start of other.
func (r Interval[B]) EntirelyBefore(other Interval[B]) bool {
	return r.Hi <= other.Lo
}

func (r Interval[B]) Less(other Interval[B]) bool {
	if c := cmp.Compare(r.Lo, other.Lo); c != 0 {
		return c < 0
	}
	return r.Hi < other.Hi
}

// Shift returns r with both bounds moved by delta.
func (r Interval[B]) Shift(delta B) Interval[B] {
	return Interval[B]{Lo: r.Lo + delta, Hi: r.Hi + delta}
}

func (r Interval[B]) String() string {
	return fmt.Sprintf("%v..<%v", r.Lo, r.Hi)
}
