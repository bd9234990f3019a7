// Package spanset provides a canonical set algebra over unions of
// half-open integer spans. A Set stores the minimal decomposition of an
// arbitrary point set: its spans are pairwise disjoint and never
// adjacent, because Add coalesces on contact and Remove splits on
// extraction. Sets are persistent values backed by the spantree package;
// every operation returns a new Set.
package spanset

import (
	"iter"
	"math"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// Universe is the exclusive upper bound of the complement universe
// [0, Universe). It stands in for "unbounded" on the right.
const Universe = math.MaxInt32

// ClipMode selects which side of the set Clip reports.
type ClipMode int

// Clip modes.
const (
	// ClipInside keeps the portions of the argument covered by the set.
	ClipInside ClipMode = iota
	// ClipOutside keeps the portions of the argument not covered by the
	// set.
	ClipOutside
)

// Set is a canonical union of disjoint, non-adjacent spans. The zero
// value is the empty set.
type Set struct {
	tree spantree.Tree[struct{}]
}

// New returns the set covering all the given boundables.
func New(bs ...span.Bounder) (Set, error) {
	var s Set

	for _, b := range bs {
		var err error

		s, err = s.Add(b)
		if err != nil {
			return Set{}, err
		}
	}

	return s, nil
}

// Add returns the set with the given region covered. Stored spans
// touching the region (overlap or adjacency, caught by widening the
// probe one point each way) are replaced by their single hull, keeping
// the decomposition minimal.
func (s Set) Add(b span.Bounder) (Set, error) {
	q, err := b.Bounds()
	if err != nil {
		return s, err
	}

	return s.add(q), nil
}

// Remove returns the set with the given region uncovered. Each stored
// span overlapping the region leaves up to two remainder pieces; empty
// pieces are dropped and the rest deduplicated before reinsertion.
func (s Set) Remove(b span.Bounder) (Set, error) {
	q, err := b.Bounds()
	if err != nil {
		return s, err
	}

	return s.remove(q), nil
}

func (s Set) add(q span.Span) Set {
	if q.Empty() {
		return s
	}

	probe := span.Span{Lo: max(0, q.Lo-1), Hi: q.Hi + 1}
	merged := q
	t := s.tree

	for _, e := range t.Overlapping(probe) {
		merged = merged.Hull(e.Span)
		t, _ = t.Delete(e)
	}

	return Set{tree: t.Insert(entry(merged))}
}

func (s Set) remove(q span.Span) Set {
	if q.Empty() {
		return s
	}

	t := s.tree
	remainders := map[span.Span]struct{}{}

	for _, e := range t.Overlapping(q) {
		t, _ = t.Delete(e)

		clip, _ := e.Span.Intersect(q)

		before, after := e.Span.Remainders(clip)
		if !before.Empty() {
			remainders[before] = struct{}{}
		}

		if !after.Empty() {
			remainders[after] = struct{}{}
		}
	}

	for r := range remainders {
		t = t.Insert(entry(r))
	}

	return Set{tree: t}
}

// Union returns the set covering every point of either operand. The
// smaller operand is folded into the larger one.
func (s Set) Union(o Set) Set {
	big, small := s, o
	if big.Len() < small.Len() {
		big, small = small, big
	}

	out := big
	for sp := range small.Spans() {
		out = out.add(sp)
	}

	return out
}

// Difference returns the set covering the points of s not covered by o.
func (s Set) Difference(o Set) Set {
	out := s
	for sp := range o.Spans() {
		out = out.remove(sp)
	}

	return out
}

// Complement returns the gaps of the set within [0, Universe): the piece
// before the first span, the gaps between consecutive spans, and the
// piece after the last one. Empty pieces are dropped.
func (s Set) Complement() Set {
	var t spantree.Tree[struct{}]

	prev := 0

	for sp := range s.Spans() {
		if sp.Lo > prev {
			t = t.Insert(entry(span.Span{Lo: prev, Hi: sp.Lo}))
		}

		prev = sp.Hi
	}

	if prev < Universe {
		t = t.Insert(entry(span.Span{Lo: prev, Hi: Universe}))
	}

	return Set{tree: t}
}

// Intersect returns the set covering the points common to both operands.
func (s Set) Intersect(o Set) Set {
	return s.Difference(o.Complement())
}

// Disjoint reports whether the operands share no point. The smaller
// operand's spans are probed against the larger one.
func (s Set) Disjoint(o Set) bool {
	big, small := s, o
	if big.Len() < small.Len() {
		big, small = small, big
	}

	for sp := range small.Spans() {
		if len(big.tree.Overlapping(sp)) > 0 {
			return false
		}
	}

	return true
}

// Covers reports whether every span of o lies inside some span of s.
func (s Set) Covers(o Set) bool {
	for sp := range o.Spans() {
		if len(s.tree.Covering(sp)) == 0 {
			return false
		}
	}

	return true
}

// Clip returns the portions of the given region inside the set
// (ClipInside) or outside it (ClipOutside), in ascending order. This is
// the masking primitive the spanmap surface decomposition builds on.
func (s Set) Clip(b span.Bounder, mode ClipMode) ([]span.Span, error) {
	q, err := b.Bounds()
	if err != nil {
		return nil, err
	}

	if mode == ClipInside {
		return s.clipInside(q), nil
	}

	return s.clipOutside(q), nil
}

func (s Set) clipInside(q span.Span) []span.Span {
	var out []span.Span

	for _, e := range s.tree.Overlapping(q) {
		if isect, ok := e.Span.Intersect(q); ok && !isect.Empty() {
			out = append(out, isect)
		}
	}

	return out
}

func (s Set) clipOutside(q span.Span) []span.Span {
	var out []span.Span

	prev := q.Lo

	for _, e := range s.tree.Overlapping(q) {
		isect, ok := e.Span.Intersect(q)
		if !ok {
			continue
		}

		if isect.Lo > prev {
			out = append(out, span.Span{Lo: prev, Hi: isect.Lo})
		}

		prev = max(prev, isect.Hi)
	}

	if prev < q.Hi {
		out = append(out, span.Span{Lo: prev, Hi: q.Hi})
	}

	return out
}

// Contains reports whether the point p is covered.
func (s Set) Contains(p int) bool {
	return len(s.tree.Overlapping(span.Span{Lo: p, Hi: p + 1})) > 0
}

// Len returns the number of stored spans.
func (s Set) Len() int {
	return s.tree.Len()
}

// Size returns the total number of covered points.
func (s Set) Size() int {
	total := 0
	for sp := range s.Spans() {
		total += sp.Len()
	}

	return total
}

// Empty reports whether the set covers no points.
func (s Set) Empty() bool {
	return s.tree.Len() == 0
}

// First returns the leftmost stored span, or false on an empty set.
func (s Set) First() (span.Span, bool) {
	e, ok := s.tree.Min()

	return e.Span, ok
}

// Last returns the rightmost stored span, or false on an empty set.
func (s Set) Last() (span.Span, bool) {
	e, ok := s.tree.Max()

	return e.Span, ok
}

// Spans returns a finite, restartable ascending sequence of the stored
// spans.
func (s Set) Spans() iter.Seq[span.Span] {
	return func(yield func(span.Span) bool) {
		for e := range s.tree.All() {
			if !yield(e.Span) {
				return
			}
		}
	}
}

// Equal reports whether both sets cover exactly the same points. Since
// the representation is canonical, span-wise comparison suffices.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}

	next, stop := iter.Pull(o.Spans())
	defer stop()

	for sp := range s.Spans() {
		osp, ok := next()
		if !ok || sp != osp {
			return false
		}
	}

	return true
}

func entry(s span.Span) spantree.Entry[struct{}] {
	return spantree.Entry[struct{}]{Span: s}
}
