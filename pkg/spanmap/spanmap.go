// Package spanmap provides a priority interval multimap: a mapping from
// half-open spans to values where overlapping entries are layered by a
// totally ordered priority, newest on top by default. Queries run
// through a selector -> filter -> reducer pipeline over the backing
// spantree; the Surface operation composes all layers into the visible,
// painter's-algorithm decomposition.
//
// Maps are persistent values: Insert, the delete reducers and Surface
// return new maps and never modify the receiver.
package spanmap

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// Map is a priority interval multimap. The zero value is an empty map
// whose priority counter starts at zero.
type Map[V cmp.Ordered] struct {
	tree spantree.Tree[V]
	next int
}

// New creates an empty map.
func New[V cmp.Ordered]() Map[V] {
	return Map[V]{}
}

// Len returns the number of stored entries.
func (m Map[V]) Len() int {
	return m.tree.Len()
}

// NextPriority returns the priority the next plain Insert will assign.
func (m Map[V]) NextPriority() int {
	return m.next
}

// Insert stores value under the given region with the next priority from
// the monotonic counter, so later inserts stack on top of earlier ones.
func (m Map[V]) Insert(b span.Bounder, value V) (Map[V], error) {
	return m.InsertAt(b, m.next, value)
}

// InsertAt stores value under the given region with an explicit
// priority. The counter is advanced past it, keeping plain Insert
// priorities above every explicit one seen so far.
func (m Map[V]) InsertAt(b span.Bounder, priority int, value V) (Map[V], error) {
	q, err := b.Bounds()
	if err != nil {
		return m, err
	}

	next := m.next
	if priority >= next {
		next = priority + 1
	}

	e := spantree.Entry[V]{Span: q, Priority: priority, Value: value}

	return Map[V]{tree: m.tree.Insert(e), next: next}, nil
}

// Entries returns a finite, restartable sequence of the stored entries
// in ascending lower-bound order.
func (m Map[V]) Entries() iter.Seq[spantree.Entry[V]] {
	return m.tree.All()
}
