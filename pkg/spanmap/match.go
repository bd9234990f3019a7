package spanmap

import (
	"cmp"
	"errors"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// ErrUnknownReducer is returned by Match for a Reducer value outside the
// defined set.
var ErrUnknownReducer = errors.New("unknown reducer")

// selKind enumerates the candidate-selection strategies.
type selKind int

const (
	selAll selKind = iota
	selCoincident
	selOverlapping
	selCovered
	selStrictSubsets
)

// Selector chooses the candidate entries of a Match. Build one with the
// Select functions; boundable arguments are converted once, here, and a
// conversion failure surfaces from Match.
type Selector struct {
	kind selKind
	q    span.Span
	err  error
}

// SelectAll selects every stored entry.
func SelectAll() Selector {
	return Selector{kind: selAll}
}

// SelectCoincident selects entries whose span equals the region exactly.
func SelectCoincident(b span.Bounder) Selector {
	return newSelector(selCoincident, b)
}

// SelectOverlapping selects entries sharing at least one point with the
// region.
func SelectOverlapping(b span.Bounder) Selector {
	return newSelector(selOverlapping, b)
}

// SelectCovered selects entries starting at the region's lower bound and
// lying fully inside it.
func SelectCovered(b span.Bounder) Selector {
	return newSelector(selCovered, b)
}

// SelectStrictSubsets selects the covered entries that do not coincide
// with the region.
func SelectStrictSubsets(b span.Bounder) Selector {
	return newSelector(selStrictSubsets, b)
}

func newSelector(kind selKind, b span.Bounder) Selector {
	q, err := b.Bounds()

	return Selector{kind: kind, q: q, err: err}
}

// filterKind enumerates the candidate-narrowing strategies.
type filterKind int

const (
	filterAll filterKind = iota
	filterPriority
	filterHighest
	filterFunc
)

// Filter narrows the selected candidates. Build one with the Filter
// functions.
type Filter[V cmp.Ordered] struct {
	kind     filterKind
	priority int
	pred     func(spantree.Entry[V]) bool
}

// FilterAll keeps every candidate.
func FilterAll[V cmp.Ordered]() Filter[V] {
	return Filter[V]{kind: filterAll}
}

// FilterPriority keeps the candidates of one priority layer.
func FilterPriority[V cmp.Ordered](priority int) Filter[V] {
	return Filter[V]{kind: filterPriority, priority: priority}
}

// FilterHighest keeps the candidate group with the maximum priority.
func FilterHighest[V cmp.Ordered]() Filter[V] {
	return Filter[V]{kind: filterHighest}
}

// FilterFunc keeps the candidates accepted by pred.
func FilterFunc[V cmp.Ordered](pred func(spantree.Entry[V]) bool) Filter[V] {
	return Filter[V]{kind: filterFunc, pred: pred}
}

// Reducer materializes the filtered candidates.
type Reducer int

const (
	// ReduceEntries reports the filtered entries as a slice.
	ReduceEntries Reducer = iota
	// ReduceMap rebuilds a fresh map holding only the filtered entries.
	ReduceMap
	// ReduceDelete removes the filtered entries from the original map; a
	// no-op when nothing was filtered.
	ReduceDelete
)

// Result is the outcome of a Match. Entries is populated by
// ReduceEntries; Map holds the rebuilt map for ReduceMap, the shrunken
// map for ReduceDelete, and the untouched receiver for ReduceEntries.
type Result[V cmp.Ordered] struct {
	Entries []spantree.Entry[V]
	Map     Map[V]
}

// Match runs the selector -> filter -> reducer pipeline.
func (m Map[V]) Match(sel Selector, fil Filter[V], red Reducer) (Result[V], error) {
	if sel.err != nil {
		return Result[V]{Map: m}, sel.err
	}

	picked := applyFilter(m.selectEntries(sel), fil)

	switch red {
	case ReduceEntries:
		return Result[V]{Entries: picked, Map: m}, nil
	case ReduceMap:
		out := Map[V]{}
		for _, e := range picked {
			out.tree = out.tree.Insert(e)

			if e.Priority >= out.next {
				out.next = e.Priority + 1
			}
		}

		return Result[V]{Map: out}, nil
	case ReduceDelete:
		t := m.tree
		for _, e := range picked {
			t, _ = t.Delete(e)
		}

		return Result[V]{Map: Map[V]{tree: t, next: m.next}}, nil
	default:
		return Result[V]{Map: m}, fmt.Errorf("%w: %d", ErrUnknownReducer, red)
	}
}

func (m Map[V]) selectEntries(sel Selector) []spantree.Entry[V] {
	switch sel.kind {
	case selCoincident:
		return m.tree.Coincident(sel.q)
	case selOverlapping:
		return m.tree.Overlapping(sel.q)
	case selCovered:
		return m.tree.Anchored(sel.q)
	case selStrictSubsets:
		var out []spantree.Entry[V]

		for _, e := range m.tree.Anchored(sel.q) {
			if e.Span != sel.q {
				out = append(out, e)
			}
		}

		return out
	default:
		var out []spantree.Entry[V]

		for e := range m.tree.All() {
			out = append(out, e)
		}

		return out
	}
}

func applyFilter[V cmp.Ordered](cands []spantree.Entry[V], fil Filter[V]) []spantree.Entry[V] {
	switch fil.kind {
	case filterPriority:
		var out []spantree.Entry[V]

		for _, e := range cands {
			if e.Priority == fil.priority {
				out = append(out, e)
			}
		}

		return out
	case filterHighest:
		return highestGroup(cands)
	case filterFunc:
		var out []spantree.Entry[V]

		for _, e := range cands {
			if fil.pred(e) {
				out = append(out, e)
			}
		}

		return out
	default:
		return cands
	}
}

// highestGroup keeps the candidates of the maximum priority, ordered
// deterministically by span and then by value as the secondary key.
func highestGroup[V cmp.Ordered](cands []spantree.Entry[V]) []spantree.Entry[V] {
	if len(cands) == 0 {
		return nil
	}

	top := cands[0].Priority
	for _, e := range cands[1:] {
		if e.Priority > top {
			top = e.Priority
		}
	}

	var out []spantree.Entry[V]

	for _, e := range cands {
		if e.Priority == top {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.Lo != b.Span.Lo {
			return a.Span.Lo < b.Span.Lo
		}

		if a.Span.Hi != b.Span.Hi {
			return a.Span.Hi < b.Span.Hi
		}

		return a.Value < b.Value
	})

	return out
}

// All returns every stored entry.
func (m Map[V]) All() []spantree.Entry[V] {
	r, _ := m.Match(SelectAll(), FilterAll[V](), ReduceEntries)

	return r.Entries
}

// Highest returns the entries of the maximum priority layer.
func (m Map[V]) Highest() []spantree.Entry[V] {
	r, _ := m.Match(SelectAll(), FilterHighest[V](), ReduceEntries)

	return r.Entries
}

// Layer returns the entries stored at the given priority.
func (m Map[V]) Layer(priority int) []spantree.Entry[V] {
	r, _ := m.Match(SelectAll(), FilterPriority[V](priority), ReduceEntries)

	return r.Entries
}

// Filter returns the entries accepted by pred.
func (m Map[V]) Filter(pred func(spantree.Entry[V]) bool) []spantree.Entry[V] {
	r, _ := m.Match(SelectAll(), FilterFunc(pred), ReduceEntries)

	return r.Entries
}

// DeleteAll returns the empty map (the counter survives).
func (m Map[V]) DeleteAll() Map[V] {
	r, _ := m.Match(SelectAll(), FilterAll[V](), ReduceDelete)

	return r.Map
}

// DeleteHighest returns the map without its maximum priority layer.
func (m Map[V]) DeleteHighest() Map[V] {
	r, _ := m.Match(SelectAll(), FilterHighest[V](), ReduceDelete)

	return r.Map
}

// DeleteLayer returns the map without the given priority layer.
func (m Map[V]) DeleteLayer(priority int) Map[V] {
	r, _ := m.Match(SelectAll(), FilterPriority[V](priority), ReduceDelete)

	return r.Map
}

// Coincidents returns the entries whose span equals the region exactly.
func (m Map[V]) Coincidents(b span.Bounder) ([]spantree.Entry[V], error) {
	r, err := m.Match(SelectCoincident(b), FilterAll[V](), ReduceEntries)

	return r.Entries, err
}

// Overlapping returns the entries sharing at least one point with the
// region.
func (m Map[V]) Overlapping(b span.Bounder) ([]spantree.Entry[V], error) {
	r, err := m.Match(SelectOverlapping(b), FilterAll[V](), ReduceEntries)

	return r.Entries, err
}

// Covered returns the entries starting at the region's lower bound and
// lying fully inside it.
func (m Map[V]) Covered(b span.Bounder) ([]spantree.Entry[V], error) {
	r, err := m.Match(SelectCovered(b), FilterAll[V](), ReduceEntries)

	return r.Entries, err
}

// StrictSubsets returns the covered entries that do not coincide with
// the region.
func (m Map[V]) StrictSubsets(b span.Bounder) ([]spantree.Entry[V], error) {
	r, err := m.Match(SelectStrictSubsets(b), FilterAll[V](), ReduceEntries)

	return r.Entries, err
}
