// Package spantree provides a persistent augmented interval tree for
// efficient overlap, containment and coincidence queries over half-open
// spans. It supports Insert, Delete and the four span relations with
// O(log N) structural operations and O(log N + k) queries, where k is the
// number of reported entries.
//
// The tree is an AVL tree keyed by the span lower bound, where each node
// additionally stores the maximum upper bound (maxUpper) in its subtree,
// enabling subtree pruning during queries. Nodes are immutable once
// built: every mutation rebuilds only the path from the changed position
// to the root and shares the remaining subtrees with the previous
// version, so old tree values stay valid and unchanged.
package spantree

import (
	"github.com/Sumatoshi-tech/spanlib/pkg/span"
)

// Entry is one stored record: a span, a priority tag and a payload value.
// Delete matches entire records, so two overlapping entries at the same
// coordinates stay distinguishable.
type Entry[V comparable] struct {
	Span     span.Span
	Priority int
	Value    V
}

// Tree is a persistent augmented interval tree. The zero value is an
// empty tree. All mutating operations return a new Tree and leave the
// receiver untouched.
type Tree[V comparable] struct {
	root *node[V]
	size int
}

// node is an immutable tree node. height counts nodes, not edges;
// maxUpper is the maximum Span.Hi in the subtree rooted here.
type node[V comparable] struct {
	entry    Entry[V]
	left     *node[V]
	right    *node[V]
	height   int
	maxUpper int
}

// Len returns the number of entries in the tree.
func (t Tree[V]) Len() int {
	return t.size
}

// Insert adds an entry, keeping BST order by Span.Lo (equal lower bounds
// go right) and restoring the AVL and maxUpper invariants on the way
// back up.
func (t Tree[V]) Insert(e Entry[V]) Tree[V] {
	return Tree[V]{root: insert(t.root, e), size: t.size + 1}
}

// Delete removes the entry exactly matching e (span, priority and value).
// It returns the tree unchanged and false when no such record is stored.
func (t Tree[V]) Delete(e Entry[V]) (Tree[V], bool) {
	root, ok := remove(t.root, e)
	if !ok {
		return t, false
	}

	return Tree[V]{root: root, size: t.size - 1}, true
}

// Coincident returns the entries whose span equals q exactly. Unlike the
// overlap relations this also works for zero-length point spans.
func (t Tree[V]) Coincident(q span.Span) []Entry[V] {
	var out []Entry[V]

	coincident(t.root, q, &out)

	return out
}

// Overlapping returns the entries sharing at least one point with q.
func (t Tree[V]) Overlapping(q span.Span) []Entry[V] {
	return t.collect(q, func(s span.Span) bool {
		return s.Overlaps(q)
	})
}

// Covering returns the overlapping entries whose span fully contains q.
func (t Tree[V]) Covering(q span.Span) []Entry[V] {
	return t.collect(q, func(s span.Span) bool {
		return s.Overlaps(q) && s.ContainsSpan(q)
	})
}

// Within returns the overlapping entries whose span lies fully inside q.
func (t Tree[V]) Within(q span.Span) []Entry[V] {
	return t.collect(q, func(s span.Span) bool {
		return s.Overlaps(q) && q.ContainsSpan(s)
	})
}

// Anchored returns the entries sharing q's lower bound whose span lies
// fully inside q. Like Coincident it descends by key, so it also works
// for zero-length point spans.
func (t Tree[V]) Anchored(q span.Span) []Entry[V] {
	var out []Entry[V]

	anchored(t.root, q, &out)

	return out
}

// collect walks the overlap candidates for q and keeps the spans
// accepted by pred.
func (t Tree[V]) collect(q span.Span, pred func(span.Span) bool) []Entry[V] {
	var out []Entry[V]

	overlap(t.root, q, pred, &out)

	return out
}

// insert returns the subtree with e added, rebuilding the descent path.
func insert[V comparable](n *node[V], e Entry[V]) *node[V] {
	if n == nil {
		return &node[V]{entry: e, height: 1, maxUpper: e.Span.Hi}
	}

	if e.Span.Lo < n.entry.Span.Lo {
		return balance(mk(n.entry, insert(n.left, e), n.right))
	}

	return balance(mk(n.entry, n.left, insert(n.right, e)))
}

// remove returns the subtree without the record e and whether it was
// found. Equal lower bounds can end up on either side of an equal-keyed
// node after rotations, so on a key match both sides are searched.
func remove[V comparable](n *node[V], e Entry[V]) (*node[V], bool) {
	if n == nil {
		return nil, false
	}

	if e.Span.Lo < n.entry.Span.Lo {
		left, ok := remove(n.left, e)
		if !ok {
			return n, false
		}

		return balance(mk(n.entry, left, n.right)), true
	}

	if e.Span.Lo > n.entry.Span.Lo {
		right, ok := remove(n.right, e)
		if !ok {
			return n, false
		}

		return balance(mk(n.entry, n.left, right)), true
	}

	if n.entry == e {
		return removeNode(n), true
	}

	// Same key, different record. Inserts send duplicates right, so try
	// that side first.
	if right, ok := remove(n.right, e); ok {
		return balance(mk(n.entry, n.left, right)), true
	}

	if left, ok := remove(n.left, e); ok {
		return balance(mk(n.entry, left, n.right)), true
	}

	return n, false
}

// removeNode detaches the root of the given subtree: leaves vanish, a
// single child is promoted, and two-child nodes are replaced by their
// in-order successor pulled out of the right subtree.
func removeNode[V comparable](n *node[V]) *node[V] {
	if n.left == nil {
		return n.right
	}

	if n.right == nil {
		return n.left
	}

	succ, right := removeMin(n.right)

	return balance(mk(succ, n.left, right))
}

// removeMin extracts the leftmost entry of the subtree.
func removeMin[V comparable](n *node[V]) (Entry[V], *node[V]) {
	if n.left == nil {
		return n.entry, n.right
	}

	e, left := removeMin(n.left)

	return e, balance(mk(n.entry, left, n.right))
}

// coincident collects entries with span exactly q. Descent follows the
// BST order on Lo; equal keys may sit on both sides of an equal-keyed
// node, so both are visited then.
func coincident[V comparable](n *node[V], q span.Span, out *[]Entry[V]) {
	if n == nil {
		return
	}

	if q.Lo < n.entry.Span.Lo {
		coincident(n.left, q, out)

		return
	}

	if q.Lo > n.entry.Span.Lo {
		coincident(n.right, q, out)

		return
	}

	coincident(n.left, q, out)

	if n.entry.Span == q {
		*out = append(*out, n.entry)
	}

	coincident(n.right, q, out)
}

// anchored collects entries keyed at q.Lo whose span stays inside q. The
// descent mirrors coincident.
func anchored[V comparable](n *node[V], q span.Span, out *[]Entry[V]) {
	if n == nil {
		return
	}

	if q.Lo < n.entry.Span.Lo {
		anchored(n.left, q, out)

		return
	}

	if q.Lo > n.entry.Span.Lo {
		anchored(n.right, q, out)

		return
	}

	anchored(n.left, q, out)

	if q.ContainsSpan(n.entry.Span) {
		*out = append(*out, n.entry)
	}

	anchored(n.right, q, out)
}

// overlap walks the subtree in order, pruning with the maxUpper
// augmentation: a subtree whose maxUpper does not reach past q.Lo cannot
// contain an overlap, and a right subtree starting at or past q.Hi
// cannot either.
func overlap[V comparable](n *node[V], q span.Span, pred func(span.Span) bool, out *[]Entry[V]) {
	if n == nil || n.maxUpper <= q.Lo {
		return
	}

	overlap(n.left, q, pred, out)

	if pred(n.entry.Span) {
		*out = append(*out, n.entry)
	}

	if n.entry.Span.Lo >= q.Hi {
		return
	}

	overlap(n.right, q, pred, out)
}

// mk builds a fresh node over possibly shared children, recomputing the
// height and maxUpper augmentations.
func mk[V comparable](e Entry[V], left, right *node[V]) *node[V] {
	n := &node[V]{entry: e, left: left, right: right}

	n.height = 1 + max(height(left), height(right))
	n.maxUpper = e.Span.Hi

	if left != nil && left.maxUpper > n.maxUpper {
		n.maxUpper = left.maxUpper
	}

	if right != nil && right.maxUpper > n.maxUpper {
		n.maxUpper = right.maxUpper
	}

	return n
}

// height of a nil subtree is zero.
func height[V comparable](n *node[V]) int {
	if n == nil {
		return 0
	}

	return n.height
}

// bf is the AVL balance factor.
func bf[V comparable](n *node[V]) int {
	return height(n.left) - height(n.right)
}

// balance restores the AVL invariant at n with the standard single and
// double rotations. The double cases rebuild the tilted child first.
func balance[V comparable](n *node[V]) *node[V] {
	switch b := bf(n); {
	case b > 1:
		if bf(n.left) < 0 {
			n = mk(n.entry, rotateLeft(n.left), n.right)
		}

		return rotateRight(n)
	case b < -1:
		if bf(n.right) > 0 {
			n = mk(n.entry, n.left, rotateRight(n.right))
		}

		return rotateLeft(n)
	default:
		return n
	}
}

// rotateLeft lifts the right child; persistent, so both touched nodes
// are rebuilt.
func rotateLeft[V comparable](n *node[V]) *node[V] {
	r := n.right

	return mk(r.entry, mk(n.entry, n.left, r.left), r.right)
}

// rotateRight lifts the left child.
func rotateRight[V comparable](n *node[V]) *node[V] {
	l := n.left

	return mk(l.entry, l.left, mk(n.entry, l.right, n.right))
}
