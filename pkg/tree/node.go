package tree

import (
	"cmp"
	"fmt"

	"github.com/henderiw/intervaltree/pkg/interval"
)

// Node is a detached interval node: a range, an optional payload and the
// subtree max it carried when it was read out of a tree. Nodes handed out by
// the tree are copies; changing them never affects the tree.
type Node[B cmp.Ordered, T any] struct {
	rng     interval.Interval[B]
	data    T
	hasData bool
	max     B
}

func NewNode[B cmp.Ordered, T any](r interval.Interval[B]) Node[B, T] {
	return Node[B, T]{rng: r, max: r.Hi}
}

func NewNodeWithData[B cmp.Ordered, T any](r interval.Interval[B], d T) Node[B, T] {
	return Node[B, T]{rng: r, data: d, hasData: true, max: r.Hi}
}

func (n Node[B, T]) Range() interval.Interval[B] { return n.rng }

// Data returns the payload and whether one was set.
func (n Node[B, T]) Data() (T, bool) { return n.data, n.hasData }

func (n Node[B, T]) HasData() bool { return n.hasData }

// Max is the largest upper bound in the node's subtree at the time it was read.
func (n Node[B, T]) Max() B { return n.max }

// WithRange returns a detached node with the same payload over r.
func (n Node[B, T]) WithRange(r interval.Interval[B]) Node[B, T] {
	return Node[B, T]{rng: r, data: n.data, hasData: n.hasData, max: r.Hi}
}

// OffsetBy returns a detached node with the range shifted by delta.
func (n Node[B, T]) OffsetBy(delta B) Node[B, T] {
	return n.WithRange(n.rng.Shift(delta))
}

// WithData returns a detached node over the same range carrying d.
func (n Node[B, T]) WithData(d T) Node[B, T] {
	return Node[B, T]{rng: n.rng, data: d, hasData: true, max: n.rng.Hi}
}

func (n Node[B, T]) String() string {
	return fmt.Sprintf("[%v,%v,%v]", n.rng.Lo, n.rng.Hi, n.max)
}

// treeNode is the arena representation of a node inside a tree.
type treeNode[B cmp.Ordered, T any] struct {
	Left    uint // left node index: 0 for not set
	Right   uint // right node index: 0 for not set
	Range   interval.Interval[B]
	Max     B
	Data    T
	HasData bool
}

func (n *treeNode[B, T]) export() Node[B, T] {
	return Node[B, T]{rng: n.Range, data: n.Data, hasData: n.HasData, max: n.Max}
}

func (n *treeNode[B, T]) String() string {
	return fmt.Sprintf("[%v,%v,%v]", n.Range.Lo, n.Range.Hi, n.Max)
}

// create a new node in the tree, return its index
func (r *Tree[B, T]) newNode(n Node[B, T]) uint {
	tn := treeNode[B, T]{Range: n.rng, Max: n.rng.Hi, Data: n.data, HasData: n.hasData}

	availCount := len(r.availableIndexes)
	if availCount > 0 {
		index := r.availableIndexes[availCount-1]
		r.availableIndexes = r.availableIndexes[:availCount-1]
		r.nodes[index] = tn
		return index
	}

	r.nodes = append(r.nodes, tn)
	return uint(len(r.nodes) - 1)
}

// freeNode makes the slot at index available for reuse.
func (r *Tree[B, T]) freeNode(index uint) {
	r.nodes[index] = treeNode[B, T]{}
	r.availableIndexes = append(r.availableIndexes, index)
}

// updateMax recomputes the augmented max of the node at index from its own
// upper bound and its children.
func (r *Tree[B, T]) updateMax(index uint) {
	node := &r.nodes[index]
	m := node.Range.Hi
	if node.Left != 0 {
		m = max(m, r.nodes[node.Left].Max)
	}
	if node.Right != 0 {
		m = max(m, r.nodes[node.Right].Max)
	}
	node.Max = m
}
