package spanmap

import (
	"cmp"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// Segment is the compact flattened form of one stored entry, used by the
// snapshot codec and external tooling.
type Segment[V cmp.Ordered] struct {
	Lo       int `json:"lo"       yaml:"lo"`
	Hi       int `json:"hi"       yaml:"hi"`
	Priority int `json:"priority" yaml:"priority"`
	Value    V   `json:"value"    yaml:"value"`
}

// Segments flattens the map to a slice in ascending lower-bound order.
func (m Map[V]) Segments() []Segment[V] {
	out := make([]Segment[V], 0, m.Len())

	for e := range m.Entries() {
		out = append(out, Segment[V]{
			Lo:       e.Span.Lo,
			Hi:       e.Span.Hi,
			Priority: e.Priority,
			Value:    e.Value,
		})
	}

	return out
}

// FromSegments rebuilds a map from a segment slice. The priority counter
// resumes past the highest segment priority.
func FromSegments[V cmp.Ordered](segs []Segment[V]) (Map[V], error) {
	var m Map[V]

	for _, s := range segs {
		q, err := span.New(s.Lo, s.Hi)
		if err != nil {
			return Map[V]{}, err
		}

		m.tree = m.tree.Insert(spantree.Entry[V]{Span: q, Priority: s.Priority, Value: s.Value})

		if s.Priority >= m.next {
			m.next = s.Priority + 1
		}
	}

	return m, nil
}
