package spanmap

import (
	"sort"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanset"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// Surface composes all layers into the visible decomposition: for every
// point only the highest-priority entry covering it survives, clipped to
// the sub-ranges not already claimed by anything above it.
//
// Entries are scanned by priority descending (ties: lower bound
// ascending, upper bound descending, then value descending) against a
// growing mask of claimed ranges. An entry the mask already covers is
// dropped; otherwise its unclaimed pieces are emitted with the original
// priority and value and its full span claims the mask.
func (m Map[V]) Surface() Map[V] {
	entries := m.All()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		if a.Span.Lo != b.Span.Lo {
			return a.Span.Lo < b.Span.Lo
		}

		if a.Span.Hi != b.Span.Hi {
			return a.Span.Hi > b.Span.Hi
		}

		return a.Value > b.Value
	})

	var mask spanset.Set

	out := Map[V]{next: m.next}

	for _, e := range entries {
		pieces, err := mask.Clip(e.Span, spanset.ClipOutside)
		if err != nil || len(pieces) == 0 {
			continue
		}

		for _, p := range pieces {
			out.tree = out.tree.Insert(spantree.Entry[V]{Span: p, Priority: e.Priority, Value: e.Value})
		}

		mask, _ = mask.Add(e.Span)
	}

	return out
}
