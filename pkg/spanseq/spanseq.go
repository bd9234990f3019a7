// Package spanseq provides lazy decorators that address external
// sequences with spans: slicing, stepping and chunking over any
// iter.Seq or slice without materializing intermediate copies. The
// decorators share no state with the interval collections; they rely
// only on spans and the standard sequence contract.
package spanseq

import (
	"iter"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
)

// Slice yields the elements of seq whose position falls inside s.
// Iteration stops as soon as the span is exhausted.
func Slice[T any](seq iter.Seq[T], s span.Span) iter.Seq[T] {
	return func(yield func(T) bool) {
		pos := 0

		for v := range seq {
			if pos >= s.Hi {
				return
			}

			if s.Contains(pos) && !yield(v) {
				return
			}

			pos++
		}
	}
}

// Step yields every stride-th element of seq inside s, starting at s.Lo.
// The stride must be positive.
func Step[T any](seq iter.Seq[T], s span.Span, stride int) iter.Seq[T] {
	if stride < 1 {
		panic("spanseq: stride must be positive")
	}

	return func(yield func(T) bool) {
		pos := 0

		for v := range seq {
			if pos >= s.Hi {
				return
			}

			if s.Contains(pos) && (pos-s.Lo)%stride == 0 && !yield(v) {
				return
			}

			pos++
		}
	}
}

// Chunks yields successive batches of at most size elements of seq. The
// yielded slice is freshly allocated per batch; the final batch may be
// shorter. The size must be positive.
func Chunks[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	if size < 1 {
		panic("spanseq: chunk size must be positive")
	}

	return func(yield func([]T) bool) {
		batch := make([]T, 0, size)

		for v := range seq {
			batch = append(batch, v)

			if len(batch) == size {
				if !yield(batch) {
					return
				}

				batch = make([]T, 0, size)
			}
		}

		if len(batch) > 0 {
			yield(batch)
		}
	}
}

// ChunkSpans yields the spans partitioning [0, length) into consecutive
// pieces of at most size points. The size must be positive.
func ChunkSpans(length, size int) iter.Seq[span.Span] {
	if size < 1 {
		panic("spanseq: chunk size must be positive")
	}

	return func(yield func(span.Span) bool) {
		for lo := 0; lo < length; lo += size {
			if !yield(span.Span{Lo: lo, Hi: min(lo+size, length)}) {
				return
			}
		}
	}
}

// Cut returns the subslice of s addressed by sp, clamped to the slice
// bounds. The result shares the backing array.
func Cut[S ~[]E, E any](s S, sp span.Span) S {
	bounds := sp.Clamp(span.Span{Lo: 0, Hi: len(s)})

	return s[bounds.Lo:bounds.Hi]
}
