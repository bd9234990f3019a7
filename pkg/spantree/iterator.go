package spantree

import "iter"

// Iterator walks the tree in ascending Span.Lo order using an explicit
// ancestor stack, so traversal depth never grows the call stack.
type Iterator[V comparable] struct {
	stack []*node[V]
}

// Iter starts an in-order traversal. Each call returns an independent
// iterator over the same immutable tree version.
func (t Tree[V]) Iter() *Iterator[V] {
	it := &Iterator[V]{stack: make([]*node[V], 0, height(t.root))}
	it.pushLeft(t.root)

	return it
}

// Next returns the next entry in ascending order, or false when the
// traversal is exhausted.
func (it *Iterator[V]) Next() (Entry[V], bool) {
	if len(it.stack) == 0 {
		return Entry[V]{}, false
	}

	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeft(n.right)

	return n.entry, true
}

// pushLeft descends the left spine from n, stacking the ancestors.
func (it *Iterator[V]) pushLeft(n *node[V]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

// Min returns the entry with the smallest lower bound, or false on an
// empty tree.
func (t Tree[V]) Min() (Entry[V], bool) {
	n := t.root
	if n == nil {
		return Entry[V]{}, false
	}

	for n.left != nil {
		n = n.left
	}

	return n.entry, true
}

// Max returns the entry with the largest lower bound, or false on an
// empty tree.
func (t Tree[V]) Max() (Entry[V], bool) {
	n := t.root
	if n == nil {
		return Entry[V]{}, false
	}

	for n.right != nil {
		n = n.right
	}

	return n.entry, true
}

// All returns a finite, restartable sequence of the stored entries in
// ascending Span.Lo order. Every range over the sequence starts a fresh
// traversal of the same tree version.
func (t Tree[V]) All() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		it := t.Iter()
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			if !yield(e) {
				return
			}
		}
	}
}
