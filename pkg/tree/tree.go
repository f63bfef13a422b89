package tree

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/henderiw/intervaltree/pkg/interval"
)

// Tree is an augmented binary search tree of half-open intervals ordered by
// lower bound. Every node caches the largest upper bound of its subtree so
// queries can skip subtrees that end before the query starts.
//
// The tree is never rebalanced: lower bounds that arrive in monotonic order
// degrade it to a list and operations to O(n). Equal lower bounds are not
// merged; each insert creates a node and ties descend to the right.
//
// A Tree is not safe for concurrent use.
type Tree[B cmp.Ordered, T any] struct {
	nodes            []treeNode[B, T] // [0] is unused, a 0 link means no child
	availableIndexes []uint           // a place to store node indexes that we deleted, and are available
	root             uint
	count            int
}

func NewTree[B cmp.Ordered, T any]() *Tree[B, T] {
	return &Tree[B, T]{
		nodes:            make([]treeNode[B, T], 1),
		availableIndexes: make([]uint, 0),
	}
}

// Clone creates an identical copy of the tree
// - Note: the payloads in the tree are not deep copied
func (r *Tree[B, T]) Clone() *Tree[B, T] {
	ret := &Tree[B, T]{
		nodes:            make([]treeNode[B, T], len(r.nodes), cap(r.nodes)),
		availableIndexes: make([]uint, len(r.availableIndexes), cap(r.availableIndexes)),
		root:             r.root,
		count:            r.count,
	}
	copy(ret.nodes, r.nodes)
	copy(ret.availableIndexes, r.availableIndexes)
	return ret
}

func (r *Tree[B, T]) Len() int { return r.count }

func (r *Tree[B, T]) IsEmpty() bool { return r.root == 0 }

// Clear removes every node.
func (r *Tree[B, T]) Clear() {
	r.nodes = r.nodes[:1]
	r.availableIndexes = r.availableIndexes[:0]
	r.root = 0
	r.count = 0
}

// Insert adds n to the tree. The max of every node on the way down is raised
// before descending, so ancestors are correct before the leaf is attached.
func (r *Tree[B, T]) Insert(n Node[B, T]) {
	newNodeIndex := r.newNode(n)
	r.count++
	if r.root == 0 {
		r.root = newNodeIndex
		return
	}

	nodeIndex := r.root
	for {
		node := &r.nodes[nodeIndex]
		node.Max = max(node.Max, n.rng.Hi)
		if n.rng.Lo < node.Range.Lo {
			if node.Left == 0 {
				node.Left = newNodeIndex
				return
			}
			nodeIndex = node.Left
			continue
		}
		if node.Right == 0 {
			node.Right = newNodeIndex
			return
		}
		nodeIndex = node.Right
	}
}

// InsertRange adds rng with payload d.
func (r *Tree[B, T]) InsertRange(rng interval.Interval[B], d T) {
	r.Insert(NewNodeWithData(rng, d))
}

// InsertAll inserts the nodes in the given order.
func (r *Tree[B, T]) InsertAll(nodes ...Node[B, T]) {
	for _, n := range nodes {
		r.Insert(n)
	}
}

// InsertRanges inserts payload-less nodes for the ranges in the given order.
func (r *Tree[B, T]) InsertRanges(ranges ...interval.Interval[B]) {
	for _, rng := range ranges {
		r.Insert(NewNode[B, T](rng))
	}
}

// Delete removes every node whose range overlaps q and returns copies of
// them. Within a subtree, nodes removed from the left child come first,
// then those from the right child, then the subtree root itself.
func (r *Tree[B, T]) Delete(q interval.Interval[B]) []Node[B, T] {
	if r.root == 0 {
		return nil
	}
	var removed []Node[B, T]
	r.root, removed = r.delete(r.root, q, removed)
	return removed
}

func (r *Tree[B, T]) delete(nodeIndex uint, q interval.Interval[B], removed []Node[B, T]) (uint, []Node[B, T]) {
	// the arena is not appended to while deleting, so node stays valid
	node := &r.nodes[nodeIndex]
	if node.Left != 0 && r.nodes[node.Left].Max >= q.Lo {
		node.Left, removed = r.delete(node.Left, q, removed)
	}
	// everything right of node starts at or after node's lower bound
	if node.Right != 0 && node.Range.Lo < q.Hi && r.nodes[node.Right].Max >= q.Lo {
		node.Right, removed = r.delete(node.Right, q, removed)
	}
	r.updateMax(nodeIndex)

	if !node.Range.Overlaps(q) {
		return nodeIndex, removed
	}
	removed = append(removed, node.export())
	newNodeIndex := r.removeNode(nodeIndex)
	r.freeNode(nodeIndex)
	r.count--
	return newNodeIndex, removed
}

// removeNode unlinks the node at nodeIndex from its local position and
// returns the index of the subtree root that takes its place. With two
// children the left child is always promoted: the removed node inherits the
// promoted node's right subtree and is removed again from under it.
func (r *Tree[B, T]) removeNode(nodeIndex uint) uint {
	node := &r.nodes[nodeIndex]
	switch {
	case node.Left == 0 && node.Right == 0:
		return 0
	case node.Right == 0:
		return node.Left
	case node.Left == 0:
		return node.Right
	}

	newRootIndex := node.Left
	node.Left = r.nodes[newRootIndex].Right
	r.nodes[newRootIndex].Right = r.removeNode(nodeIndex)
	r.updateMax(newRootIndex)
	return newRootIndex
}

// DeleteAll applies Delete for each query in order and concatenates the
// removed nodes.
func (r *Tree[B, T]) DeleteAll(qs ...interval.Interval[B]) []Node[B, T] {
	var removed []Node[B, T]
	for _, q := range qs {
		removed = append(removed, r.Delete(q)...)
	}
	return removed
}

// DeleteRanges is Delete projected onto the removed ranges.
func (r *Tree[B, T]) DeleteRanges(q interval.Interval[B]) []interval.Interval[B] {
	return ranges(r.Delete(q))
}

// Overlaps returns every node whose range overlaps q in ascending order of
// lower bound.
func (r *Tree[B, T]) Overlaps(q interval.Interval[B]) []Node[B, T] {
	if r.root == 0 {
		return nil
	}
	return r.overlaps(r.root, q, nil)
}

func (r *Tree[B, T]) overlaps(nodeIndex uint, q interval.Interval[B], ret []Node[B, T]) []Node[B, T] {
	node := &r.nodes[nodeIndex]
	if node.Left != 0 && r.nodes[node.Left].Max >= q.Lo {
		ret = r.overlaps(node.Left, q, ret)
	}
	if node.Range.Overlaps(q) {
		ret = append(ret, node.export())
	}
	if node.Right != 0 && node.Range.Lo < q.Hi && r.nodes[node.Right].Max >= q.Lo {
		ret = r.overlaps(node.Right, q, ret)
	}
	return ret
}

// OverlapRanges is Overlaps projected onto the matching ranges.
func (r *Tree[B, T]) OverlapRanges(q interval.Interval[B]) []interval.Interval[B] {
	return ranges(r.Overlaps(q))
}

// OverlapData returns the payloads of the overlapping nodes that carry one.
func (r *Tree[B, T]) OverlapData(q interval.Interval[B]) []T {
	var ret []T
	for _, n := range r.Overlaps(q) {
		if d, ok := n.Data(); ok {
			ret = append(ret, d)
		}
	}
	return ret
}

// At returns every node whose range contains p, in ascending order of lower
// bound.
func (r *Tree[B, T]) At(p B) []Node[B, T] {
	if r.root == 0 {
		return nil
	}
	return r.at(r.root, p, nil)
}

func (r *Tree[B, T]) at(nodeIndex uint, p B, ret []Node[B, T]) []Node[B, T] {
	node := &r.nodes[nodeIndex]
	if node.Left != 0 && r.nodes[node.Left].Max > p {
		ret = r.at(node.Left, p, ret)
	}
	if node.Range.Contains(p) {
		ret = append(ret, node.export())
	}
	if node.Right != 0 && node.Range.Lo <= p && r.nodes[node.Right].Max > p {
		ret = r.at(node.Right, p, ret)
	}
	return ret
}

// Nodes returns all nodes in order.
func (r *Tree[B, T]) Nodes() []Node[B, T] {
	ret := make([]Node[B, T], 0, r.count)
	iter := r.Iterate()
	for iter.Next() {
		ret = append(ret, iter.Node())
	}
	return ret
}

// Height returns the number of nodes on the longest root to leaf path.
func (r *Tree[B, T]) Height() int {
	return r.height(r.root)
}

func (r *Tree[B, T]) height(nodeIndex uint) int {
	if nodeIndex == 0 {
		return 0
	}
	return 1 + max(r.height(r.nodes[nodeIndex].Left), r.height(r.nodes[nodeIndex].Right))
}

// String renders the tree in order as a sequence of [lo,hi,max] triples.
func (r *Tree[B, T]) String() string {
	var sb strings.Builder
	iter := r.Iterate()
	for iter.Next() {
		sb.WriteString(r.nodes[iter.nodeIndex].String())
	}
	return sb.String()
}

// Validate checks the search ordering on lower bounds, the augmented max of
// every node and the node count.
// note: this is only used for debugging and unit testing
func (r *Tree[B, T]) Validate() error {
	var errm error
	seen := 0
	var walk func(nodeIndex uint, lo, hi *B)
	walk = func(nodeIndex uint, lo, hi *B) {
		if nodeIndex == 0 {
			return
		}
		seen++
		node := &r.nodes[nodeIndex]
		if !node.Range.IsValid() {
			errm = errors.Join(errm, fmt.Errorf("node %d has invalid range %s", nodeIndex, node.Range))
		}
		if lo != nil && node.Range.Lo < *lo {
			errm = errors.Join(errm, fmt.Errorf("node %d range %s is left of its right-ancestor bound %v", nodeIndex, node.Range, *lo))
		}
		if hi != nil && !(node.Range.Lo < *hi) {
			errm = errors.Join(errm, fmt.Errorf("node %d range %s is right of its left-ancestor bound %v", nodeIndex, node.Range, *hi))
		}
		want := node.Range.Hi
		if node.Left != 0 {
			want = max(want, r.nodes[node.Left].Max)
		}
		if node.Right != 0 {
			want = max(want, r.nodes[node.Right].Max)
		}
		if node.Max != want {
			errm = errors.Join(errm, fmt.Errorf("node %d range %s has max %v, want %v", nodeIndex, node.Range, node.Max, want))
		}
		walk(node.Left, lo, &node.Range.Lo)
		walk(node.Right, &node.Range.Lo, hi)
	}
	walk(r.root, nil, nil)
	if seen != r.count {
		errm = errors.Join(errm, fmt.Errorf("reachable nodes %d, count %d", seen, r.count))
	}
	return errm
}

// note: this is only used for unit testing
// nolint
func (r *Tree[B, T]) PrintNodes() {
	for id, n := range r.nodes {
		fmt.Println("node", id, n.Left, n.Right, n.String())
	}
}

func ranges[B cmp.Ordered, T any](nodes []Node[B, T]) []interval.Interval[B] {
	if len(nodes) == 0 {
		return nil
	}
	ret := make([]interval.Interval[B], 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, n.Range())
	}
	return ret
}
