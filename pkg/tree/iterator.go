package tree

import "cmp"

// Iterator is a stateful in-order iterator over a tree.
type Iterator[B cmp.Ordered, T any] struct {
	t           *Tree[B, T]
	nodeIndex   uint
	nodeHistory []uint
}

// Iterate returns an iterator visiting all nodes in ascending order of lower
// bound. It is important for the tree to not be modified while using the
// iterator.
func (r *Tree[B, T]) Iterate() *Iterator[B, T] {
	iter := &Iterator[B, T]{
		t:           r,
		nodeHistory: []uint{},
	}
	iter.pushLeft(r.root)
	return iter
}

func (iter *Iterator[B, T]) pushLeft(nodeIndex uint) {
	for nodeIndex != 0 {
		iter.nodeHistory = append(iter.nodeHistory, nodeIndex)
		nodeIndex = iter.t.nodes[nodeIndex].Left
	}
}

// Next jumps to the next node of the tree. It returns false if there is none.
func (iter *Iterator[B, T]) Next() bool {
	nodeHistoryLen := len(iter.nodeHistory)
	if nodeHistoryLen == 0 {
		iter.nodeIndex = 0
		return false
	}
	iter.nodeIndex = iter.nodeHistory[nodeHistoryLen-1]
	iter.nodeHistory = iter.nodeHistory[:nodeHistoryLen-1]
	iter.pushLeft(iter.t.nodes[iter.nodeIndex].Right)
	return true
}

// Node returns a copy of the current node.
func (iter *Iterator[B, T]) Node() Node[B, T] {
	return iter.t.nodes[iter.nodeIndex].export()
}
