package decoration

import (
	"fmt"

	"github.com/henderiw/intervaltree/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

// Entry is a decorated text range: a diagnostic, a token, a highlight.
type Entry interface {
	Range() interval.Interval[int]
	Labels() labels.Set
	String() string
	Equal(e2 Entry) bool
}

type entry struct {
	rng    interval.Interval[int]
	labels labels.Set
}
type Entries []Entry

func (r entry) Range() interval.Interval[int] { return r.rng }
func (r entry) Labels() labels.Set           { return r.labels }
func (r entry) String() string {
	return fmt.Sprintf("range: %s, labels: %s", r.rng.String(), r.labels.String())
}
func (r entry) Equal(e2 Entry) bool {
	return r.rng == e2.Range() &&
		r.labels.String() == e2.Labels().String()
}

func NewEntry(r interval.Interval[int], l labels.Set) Entry {
	return entry{
		rng:    r,
		labels: labels.Merge(nil, l),
	}
}
