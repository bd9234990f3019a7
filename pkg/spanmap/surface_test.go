package spanmap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

// Surface test constants.
const (
	surfaceSeed       = 42
	surfaceRounds     = 40
	surfaceEntries    = 25
	surfaceCoordinate = 80
	surfaceMaxLen     = 20
	surfaceMaxPrio    = 6
)

// TestSurface_Layered verifies the opaque-stacking composition of the
// reference fixture.
func TestSurface_Layered(t *testing.T) {
	t.Parallel()

	m := layered(t)

	s := m.Surface()

	assert.ElementsMatch(t, []spantree.Entry[int]{
		entry(t, 0, 3, 4, 102),
		entry(t, 3, 5, 2, 16),
	}, s.All())

	// Surfacing preserves the priority counter.
	assert.Equal(t, m.NextPriority(), s.NextPriority())

	// The receiver keeps all its layers.
	assert.Equal(t, 5, m.Len())
}

// TestSurface_Clipping verifies that a partially hidden entry survives as
// its visible pieces.
func TestSurface_Clipping(t *testing.T) {
	t.Parallel()

	m := New[string]()
	m = insert(t, m, sp(t, 0, 10), "under")
	m = insert(t, m, sp(t, 3, 6), "over")

	s := m.Surface()

	assert.ElementsMatch(t, []spantree.Entry[string]{
		{Span: sp(t, 3, 6), Priority: 1, Value: "over"},
		{Span: sp(t, 0, 3), Priority: 0, Value: "under"},
		{Span: sp(t, 6, 10), Priority: 0, Value: "under"},
	}, s.All())
}

// TestSurface_Empty verifies surfacing the empty map.
func TestSurface_Empty(t *testing.T) {
	t.Parallel()

	s := New[int]().Surface()
	assert.Equal(t, 0, s.Len())
}

// surfaceOwner computes the expected visible record at a point: the
// first entry in scan order (priority descending, lower ascending, upper
// descending, value descending) whose span covers it.
func surfaceOwner(entries []spantree.Entry[int], p int) (spantree.Entry[int], bool) {
	var best spantree.Entry[int]

	found := false

	for _, e := range entries {
		if !e.Span.Contains(p) {
			continue
		}

		if !found {
			best, found = e, true

			continue
		}

		switch {
		case e.Priority != best.Priority:
			if e.Priority > best.Priority {
				best = e
			}
		case e.Span.Lo != best.Span.Lo:
			if e.Span.Lo < best.Span.Lo {
				best = e
			}
		case e.Span.Hi != best.Span.Hi:
			if e.Span.Hi > best.Span.Hi {
				best = e
			}
		case e.Value > best.Value:
			best = e
		}
	}

	return best, found
}

// TestSurface_Randomized checks the decomposition properties on random
// layer stacks: point-wise ownership, exact point-set coverage and
// pairwise disjointness of the output.
func TestSurface_Randomized(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(surfaceSeed))

	for round := range surfaceRounds {
		m := New[int]()

		var entries []spantree.Entry[int]

		for i := range surfaceEntries {
			lo := rng.Intn(surfaceCoordinate)
			e := spantree.Entry[int]{
				Span:     span.Span{Lo: lo, Hi: lo + 1 + rng.Intn(surfaceMaxLen)},
				Priority: rng.Intn(surfaceMaxPrio),
				Value:    i,
			}

			var err error

			m, err = m.InsertAt(e.Span, e.Priority, e.Value)
			require.NoError(t, err)

			entries = append(entries, e)
		}

		s := m.Surface()
		visible := s.All()

		// No two visible pieces share a point.
		for i, a := range visible {
			for _, b := range visible[i+1:] {
				require.False(t, a.Span.Overlaps(b.Span),
					"round %d: visible pieces %v and %v overlap", round, a.Span, b.Span)
			}
		}

		for p := range surfaceCoordinate + surfaceMaxLen {
			want, covered := surfaceOwner(entries, p)

			var got []spantree.Entry[int]

			for _, e := range visible {
				if e.Span.Contains(p) {
					got = append(got, e)
				}
			}

			if !covered {
				assert.Empty(t, got, "round %d: point %d should be bare", round, p)

				continue
			}

			require.Len(t, got, 1, "round %d: point %d", round, p)
			assert.Equal(t, want.Priority, got[0].Priority, "round %d: point %d", round, p)
			assert.Equal(t, want.Value, got[0].Value, "round %d: point %d", round, p)
		}
	}
}
