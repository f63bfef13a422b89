package decoration

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/tree"
	"k8s.io/apimachinery/pkg/labels"
)

// Store indexes decorations of a single document by character offset. It
// provides the locking the underlying tree leaves to its callers.
type Store struct {
	m    *sync.RWMutex
	name string
	tree *tree.Tree[int, Entry]
	log  logr.Logger
}

type Option func(*Store)

func WithLogger(l logr.Logger) Option {
	return func(r *Store) {
		r.log = l
	}
}

func New(name string, opts ...Option) *Store {
	r := &Store{
		m:    new(sync.RWMutex),
		name: name,
		tree: tree.NewTree[int, Entry](),
		log:  logr.Discard(),
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.WithValues("store", name)
	return r
}

func (r *Store) Clone() *Store {
	r.m.RLock()
	defer r.m.RUnlock()

	return &Store{
		m:    new(sync.RWMutex),
		name: r.name,
		tree: r.tree.Clone(),
		log:  r.log,
	}
}

func (r *Store) Add(rng interval.Interval[int], l labels.Set) error {
	if !rng.IsValid() {
		return fmt.Errorf("store %s: cannot add invalid range %s", r.name, rng)
	}
	e := NewEntry(rng, l)

	r.m.Lock()
	defer r.m.Unlock()
	r.tree.InsertRange(rng, e)
	r.log.V(1).Info("add", "range", rng.String(), "labels", e.Labels().String())
	return nil
}

// AddRange parses s as "lo..<hi" or "lo-hi" and adds it.
func (r *Store) AddRange(s string, l labels.Set) error {
	rng, err := interval.Parse(s)
	if err != nil {
		return fmt.Errorf("store %s: %w", r.name, err)
	}
	return r.Add(rng, l)
}

// Remove deletes every decoration overlapping rng and returns them.
func (r *Store) Remove(rng interval.Interval[int]) Entries {
	r.m.Lock()
	defer r.m.Unlock()

	removed := entriesOf(r.tree.Delete(rng))
	r.log.V(1).Info("remove", "range", rng.String(), "removed", len(removed))
	return removed
}

// Query returns the decorations overlapping rng in ascending start order.
func (r *Store) Query(rng interval.Interval[int]) Entries {
	r.m.RLock()
	defer r.m.RUnlock()

	return entriesOf(r.tree.Overlaps(rng))
}

// At returns the decorations covering offset.
func (r *Store) At(offset int) Entries {
	r.m.RLock()
	defer r.m.RUnlock()

	return entriesOf(r.tree.At(offset))
}

func (r *Store) GetByLabel(selector labels.Selector) Entries {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.getByLabel(selector)
}

func (r *Store) getByLabel(selector labels.Selector) Entries {
	entries := Entries{}
	iter := r.tree.Iterate()
	for iter.Next() {
		e, ok := iter.Node().Data()
		if ok && selector.Matches(e.Labels()) {
			entries = append(entries, e)
		}
	}
	return entries
}

// ReleaseByLabel removes the decorations whose labels match selector and
// returns how many were removed.
func (r *Store) ReleaseByLabel(selector labels.Selector) int {
	r.m.Lock()
	defer r.m.Unlock()

	released := 0
	for _, e := range r.getByLabel(selector) {
		if r.del(e) {
			released++
		}
	}
	r.log.V(1).Info("release by label", "selector", selector.String(), "released", released)
	return released
}

// del removes exactly one decoration equal to e. The tree only removes by
// overlap, so the neighbours caught by the query are put back.
func (r *Store) del(e Entry) bool {
	q := e.Range()
	if q.IsEmpty() {
		// an empty range overlaps nothing, widen it so it catches itself
		q = interval.Interval[int]{Lo: q.Lo - 1, Hi: q.Hi + 1}
	}
	found := false
	for _, n := range r.tree.Delete(q) {
		d, _ := n.Data()
		if !found && d.Equal(e) {
			found = true
			continue
		}
		r.tree.Insert(n)
	}
	return found
}

// Edit adjusts the decorations for a text edit replacing deleted characters
// at offset by inserted characters:
// - decorations ending at or before offset are untouched
// - decorations starting at or after the deleted span move by inserted-deleted
// - decorations overlapping the deleted span are dropped and returned
// - for a pure insertion, decorations straddling offset grow by inserted
func (r *Store) Edit(offset, deleted, inserted int) (Entries, error) {
	if offset < 0 || deleted < 0 || inserted < 0 {
		return nil, fmt.Errorf("store %s: invalid edit offset %d, deleted %d, inserted %d", r.name, offset, deleted, inserted)
	}
	r.m.Lock()
	defer r.m.Unlock()

	end := offset + deleted
	delta := inserted - deleted
	var dropped Entries
	moved := 0
	// everything ending after offset can be affected
	for _, n := range r.tree.Delete(interval.Interval[int]{Lo: offset, Hi: maxOffset}) {
		e, _ := n.Data()
		rng := e.Range()
		switch {
		case rng.Lo >= end:
			rng = rng.Shift(delta)
		case deleted > 0:
			dropped = append(dropped, e)
			continue
		default:
			rng.Hi += inserted
		}
		r.tree.InsertRange(rng, NewEntry(rng, e.Labels()))
		moved++
	}
	r.log.V(1).Info("edit", "offset", offset, "deleted", deleted, "inserted", inserted, "moved", moved, "dropped", len(dropped))
	return dropped, nil
}

func (r *Store) GetAll() Entries {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := Entries{}
	iter := r.tree.Iterate()
	for iter.Next() {
		if e, ok := iter.Node().Data(); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *Store) Size() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Len()
}

func (r *Store) String() string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.String()
}

const maxOffset = int(^uint(0) >> 1)

func entriesOf(nodes []tree.Node[int, Entry]) Entries {
	entries := Entries{}
	for _, n := range nodes {
		if e, ok := n.Data(); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
