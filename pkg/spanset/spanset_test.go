package spanset

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
)

// Test constants.
const (
	randSeed       = 42
	randOps        = 1500
	randCoordinate = 300
	randMaxLen     = 40
)

// mustSet builds a set from spans, failing the test on invalid bounds.
func mustSet(t *testing.T, bs ...span.Bounder) Set {
	t.Helper()

	s, err := New(bs...)
	require.NoError(t, err)

	return s
}

// checkCanonical asserts the minimal-decomposition invariant: stored
// spans are non-empty, sorted, pairwise disjoint and never adjacent.
func checkCanonical(t *testing.T, s Set) {
	t.Helper()

	prev := span.Span{Lo: -2, Hi: -2}

	for sp := range s.Spans() {
		require.False(t, sp.Empty(), "empty span %v stored", sp)
		require.Greater(t, sp.Lo, prev.Hi, "spans %v and %v touch", prev, sp)
		prev = sp
	}
}

// points flattens a set to its covered point list, as ground truth.
func points(s Set) []int {
	var out []int

	for sp := range s.Spans() {
		for p := sp.Lo; p < sp.Hi; p++ {
			out = append(out, p)
		}
	}

	return out
}

// TestAdd_Coalesce verifies that overlapping and adjacent additions merge
// into a single span.
func TestAdd_Coalesce(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5})

	// Overlap merges.
	s, err := s.Add(span.Span{Lo: 4, Hi: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	// Adjacency merges too.
	s, err = s.Add(span.Span{Lo: 8, Hi: 10})
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, span.Span{Lo: 2, Hi: 10}, first)
	checkCanonical(t, s)
}

// TestAdd_Bridge verifies that one addition can swallow several stored
// spans.
func TestAdd_Bridge(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 0, Hi: 2}, span.Span{Lo: 4, Hi: 6}, span.Span{Lo: 8, Hi: 10})
	require.Equal(t, 3, s.Len())

	s, err := s.Add(span.Span{Lo: 2, Hi: 8})
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	first, _ := s.First()
	assert.Equal(t, span.Span{Lo: 0, Hi: 10}, first)
}

// TestAdd_EmptyNoop verifies that covering a zero-length region changes
// nothing.
func TestAdd_EmptyNoop(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5})

	s, err := s.Add(span.Pt(3))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, points(s))
}

// TestRemove_Split verifies that removing the middle of a span leaves two
// remainders.
func TestRemove_Split(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 0, Hi: 10})

	s, err := s.Remove(span.Span{Lo: 4, Hi: 6})
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 6, 7, 8, 9}, points(s))
	checkCanonical(t, s)
}

// TestRemove_All verifies removal down to the empty set.
func TestRemove_All(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5}, span.Span{Lo: 8, Hi: 12})

	s, err := s.Remove(span.Span{Lo: 0, Hi: 20})
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Size())
}

// TestBounderInputs verifies that the boundable forms convert at the API
// edge and invalid ones are rejected.
func TestBounderInputs(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Range{First: 2, Last: 4}, span.Loc{Pos: 10, Len: 3})
	assert.Equal(t, []int{2, 3, 4, 10, 11, 12}, points(s))

	_, err := s.Add(span.Range{First: 5, Last: 2})
	require.ErrorIs(t, err, span.ErrInvalidSpan)

	_, err = s.Remove(span.Loc{Pos: -1, Len: 2})
	require.ErrorIs(t, err, span.ErrInvalidSpan)
}

// TestUnion verifies that the union covers exactly both operands.
func TestUnion(t *testing.T) {
	t.Parallel()

	a := mustSet(t, span.Span{Lo: 0, Hi: 4}, span.Span{Lo: 10, Hi: 12})
	b := mustSet(t, span.Span{Lo: 3, Hi: 6}, span.Span{Lo: 12, Hi: 14})

	u := a.Union(b)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 10, 11, 12, 13}, points(u))
	assert.True(t, u.Covers(a))
	assert.True(t, u.Covers(b))
	checkCanonical(t, u)

	// Union is symmetric.
	assert.True(t, u.Equal(b.Union(a)))
}

// TestDifference verifies point-wise subtraction.
func TestDifference(t *testing.T) {
	t.Parallel()

	a := mustSet(t, span.Span{Lo: 0, Hi: 10})
	b := mustSet(t, span.Span{Lo: 2, Hi: 4}, span.Span{Lo: 6, Hi: 8})

	d := a.Difference(b)

	assert.Equal(t, []int{0, 1, 4, 5, 8, 9}, points(d))
	assert.True(t, d.Disjoint(b))
	checkCanonical(t, d)

	// Subtracting a set from itself leaves nothing.
	assert.True(t, a.Difference(a).Empty())
}

// TestComplement verifies gap computation within the universe.
func TestComplement(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5}, span.Span{Lo: 8, Hi: 10})

	c := s.Complement()

	spans := slices.Collect(c.Spans())
	require.Len(t, spans, 3)
	assert.Equal(t, span.Span{Lo: 0, Hi: 2}, spans[0])
	assert.Equal(t, span.Span{Lo: 5, Hi: 8}, spans[1])
	assert.Equal(t, span.Span{Lo: 10, Hi: Universe}, spans[2])

	// Double complement is the identity.
	assert.True(t, s.Equal(c.Complement()))

	// The empty set's complement is the whole universe.
	var empty Set

	whole := empty.Complement()
	require.Equal(t, 1, whole.Len())

	first, _ := whole.First()
	assert.Equal(t, span.Span{Lo: 0, Hi: Universe}, first)
}

// TestIntersect verifies the common-points operation.
func TestIntersect(t *testing.T) {
	t.Parallel()

	a := mustSet(t, span.Span{Lo: 0, Hi: 6}, span.Span{Lo: 10, Hi: 14})
	b := mustSet(t, span.Span{Lo: 4, Hi: 12})

	i := a.Intersect(b)

	assert.Equal(t, []int{4, 5, 10, 11}, points(i))
	assert.True(t, a.Covers(i))
	assert.True(t, b.Covers(i))
	checkCanonical(t, i)
}

// TestDisjoint verifies the no-shared-point predicate, adjacency
// included.
func TestDisjoint(t *testing.T) {
	t.Parallel()

	a := mustSet(t, span.Span{Lo: 0, Hi: 5})
	b := mustSet(t, span.Span{Lo: 5, Hi: 10})
	c := mustSet(t, span.Span{Lo: 4, Hi: 6})

	assert.True(t, a.Disjoint(b))
	assert.False(t, a.Disjoint(c))
	assert.False(t, b.Disjoint(c))

	// Disjoint operands intersect to nothing.
	assert.True(t, a.Intersect(b).Empty())
}

// TestCovers verifies subset detection across split spans.
func TestCovers(t *testing.T) {
	t.Parallel()

	a := mustSet(t, span.Span{Lo: 0, Hi: 10})
	b := mustSet(t, span.Span{Lo: 2, Hi: 4}, span.Span{Lo: 6, Hi: 9})

	assert.True(t, a.Covers(b))
	assert.False(t, b.Covers(a))

	// A set spanning a gap is not covered by the two sides.
	gapped := mustSet(t, span.Span{Lo: 0, Hi: 4}, span.Span{Lo: 6, Hi: 10})
	bridge := mustSet(t, span.Span{Lo: 3, Hi: 7})
	assert.False(t, gapped.Covers(bridge))
}

// TestClip verifies the masking primitive in both modes.
func TestClip(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5}, span.Span{Lo: 8, Hi: 11})

	inside, err := s.Clip(span.Span{Lo: 0, Hi: 10}, ClipInside)
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Lo: 2, Hi: 5}, {Lo: 8, Hi: 10}}, inside)

	outside, err := s.Clip(span.Span{Lo: 0, Hi: 10}, ClipOutside)
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Lo: 0, Hi: 2}, {Lo: 5, Hi: 8}}, outside)

	// A region beyond the set is entirely outside.
	outside, err = s.Clip(span.Span{Lo: 20, Hi: 24}, ClipOutside)
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Lo: 20, Hi: 24}}, outside)

	_, err = s.Clip(span.Span{Lo: 5, Hi: 2}, ClipInside)
	require.ErrorIs(t, err, span.ErrInvalidSpan)
}

// TestContains verifies point membership at span edges.
func TestContains(t *testing.T) {
	t.Parallel()

	s := mustSet(t, span.Span{Lo: 2, Hi: 5})

	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
	assert.False(t, s.Contains(1))
}

// TestEqual verifies canonical point-set equality.
func TestEqual(t *testing.T) {
	t.Parallel()

	// The same point set reached along different paths compares equal.
	a := mustSet(t, span.Span{Lo: 0, Hi: 3}, span.Span{Lo: 3, Hi: 6})
	b := mustSet(t, span.Span{Lo: 0, Hi: 6})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(mustSet(t, span.Span{Lo: 0, Hi: 5})))

	var empty Set

	assert.True(t, empty.Equal(Set{}))
	assert.False(t, empty.Equal(b))
}

// TestRandomized_BitModel drives the set with random adds and removes
// against a plain boolean array, checking the canonical invariant and
// exact point-set agreement throughout.
func TestRandomized_BitModel(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(randSeed))

	var s Set

	model := make([]bool, randCoordinate+randMaxLen)

	for op := range randOps {
		lo := rng.Intn(randCoordinate)
		q := span.Span{Lo: lo, Hi: lo + rng.Intn(randMaxLen)}

		var err error

		if rng.Intn(2) == 0 {
			s, err = s.Add(q)
			require.NoError(t, err)

			for p := q.Lo; p < q.Hi; p++ {
				model[p] = true
			}
		} else {
			s, err = s.Remove(q)
			require.NoError(t, err)

			for p := q.Lo; p < q.Hi; p++ {
				model[p] = false
			}
		}

		if op%100 == 0 {
			checkCanonical(t, s)
		}
	}

	checkCanonical(t, s)

	var want []int

	for p, covered := range model {
		if covered {
			want = append(want, p)
		}

		assert.Equal(t, covered, s.Contains(p), "point %d", p)
	}

	assert.Equal(t, want, points(s))
	assert.Equal(t, len(want), s.Size())
}

// TestRandomized_AlgebraLaws checks the set-algebra identities on random
// operand pairs.
func TestRandomized_AlgebraLaws(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(randSeed + 1))

	randomSet := func() Set {
		var s Set

		for range 10 {
			lo := rng.Intn(randCoordinate)
			s = s.add(span.Span{Lo: lo, Hi: lo + 1 + rng.Intn(randMaxLen)})
		}

		return s
	}

	for range 25 {
		a, b := randomSet(), randomSet()

		u := a.Union(b)
		i := a.Intersect(b)
		d := a.Difference(b)

		checkCanonical(t, u)
		checkCanonical(t, i)
		checkCanonical(t, d)

		assert.True(t, u.Covers(a))
		assert.True(t, u.Covers(b))
		assert.True(t, a.Covers(i))
		assert.True(t, b.Covers(i))
		assert.True(t, d.Disjoint(b))

		// a = (a \ b) ∪ (a ∩ b).
		assert.True(t, a.Equal(d.Union(i)))

		// De Morgan over the universe.
		assert.True(t, u.Complement().Equal(a.Complement().Intersect(b.Complement())))
	}
}
