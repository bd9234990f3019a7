// Package span provides the half-open integer interval value type used by
// the spantree, spanmap and spanset packages. A Span covers [Lo, Hi) with
// 0 <= Lo <= Hi; zero-length spans are valid points. Spans are plain
// immutable values: every operation returns a new Span.
package span

import (
	"errors"
	"fmt"
)

// ErrInvalidSpan is returned when a constructor receives negative bounds
// or an upper bound below the lower bound.
var ErrInvalidSpan = errors.New("invalid span")

// ErrEmptySpan is returned when an empty span is converted to a form that
// requires at least one element.
var ErrEmptySpan = errors.New("empty span")

// DisjointError is returned by Join when the operands share no boundary.
type DisjointError struct {
	A, B Span
}

// Error implements the error interface.
func (e *DisjointError) Error() string {
	return fmt.Sprintf("disjoint spans %v and %v", e.A, e.B)
}

// Span is a half-open interval [Lo, Hi). The zero value is the empty
// point at the origin. Construct through New, At, Point or FromRange to
// get bound validation.
type Span struct {
	Lo int
	Hi int
}

// New creates the span [lower, upper).
func New(lower, upper int) (Span, error) {
	if lower < 0 || upper < lower {
		return Span{}, fmt.Errorf("%w: [%d, %d)", ErrInvalidSpan, lower, upper)
	}

	return Span{Lo: lower, Hi: upper}, nil
}

// At creates the span of the given length starting at position.
func At(position, length int) (Span, error) {
	if position < 0 || length < 0 {
		return Span{}, fmt.Errorf("%w: position %d, length %d", ErrInvalidSpan, position, length)
	}

	return Span{Lo: position, Hi: position + length}, nil
}

// Point creates the zero-length span [p, p).
func Point(p int) (Span, error) {
	return New(p, p)
}

// FromRange creates a span from an ascending inclusive range, so
// FromRange(2, 4) covers the elements 2, 3 and 4.
func FromRange(first, last int) (Span, error) {
	if first < 0 || last < first {
		return Span{}, fmt.Errorf("%w: range %d..%d", ErrInvalidSpan, first, last)
	}

	return Span{Lo: first, Hi: last + 1}, nil
}

// Range converts the span back to an inclusive range. Empty spans have no
// elements and cannot be represented as a range.
func (s Span) Range() (first, last int, err error) {
	if s.Empty() {
		return 0, 0, fmt.Errorf("%w: %v has no range form", ErrEmptySpan, s)
	}

	return s.Lo, s.Hi - 1, nil
}

// At returns the position/length form of the span.
func (s Span) At() (position, length int) {
	return s.Lo, s.Hi - s.Lo
}

// Len returns the number of points covered by the span.
func (s Span) Len() int {
	return s.Hi - s.Lo
}

// Empty reports whether the span covers no points.
func (s Span) Empty() bool {
	return s.Hi == s.Lo
}

// Contains reports whether the point p lies inside the span.
func (s Span) Contains(p int) bool {
	return p >= s.Lo && p < s.Hi
}

// ContainsSpan reports whether o lies entirely inside s.
func (s Span) ContainsSpan(o Span) bool {
	return o.Lo >= s.Lo && o.Hi <= s.Hi
}

// Overlaps reports whether the spans intersect under the strict
// half-open relation s.Lo < o.Hi && o.Lo < s.Hi. A zero-length span
// overlaps exactly the spans that strictly surround its position.
func (s Span) Overlaps(o Span) bool {
	return s.Lo < o.Hi && o.Lo < s.Hi
}

// Touches reports whether the spans overlap or are directly adjacent.
func (s Span) Touches(o Span) bool {
	return s.Lo <= o.Hi && o.Lo <= s.Hi
}

// Intersect returns the common part of both spans. The second result is
// false when the spans do not overlap.
func (s Span) Intersect(o Span) (Span, bool) {
	if !s.Overlaps(o) {
		return Span{}, false
	}

	return Span{Lo: max(s.Lo, o.Lo), Hi: min(s.Hi, o.Hi)}, true
}

// Clamp restricts the span to the bounds of o. The result may be empty;
// it is positioned at o's nearest edge when the spans do not overlap.
func (s Span) Clamp(o Span) Span {
	lo := min(max(s.Lo, o.Lo), o.Hi)
	hi := min(max(s.Hi, o.Lo), o.Hi)

	return Span{Lo: lo, Hi: hi}
}

// Translate shifts both bounds by delta. Shifting below zero is a bounds
// violation.
func (s Span) Translate(delta int) (Span, error) {
	return New(s.Lo+delta, s.Hi+delta)
}

// Split cuts the span at the given point, producing [Lo, at) and
// [at, Hi). The cut point must lie within the span's bounds.
func (s Span) Split(at int) (Span, Span, error) {
	if at < s.Lo || at > s.Hi {
		return Span{}, Span{}, fmt.Errorf("%w: split point %d outside %v", ErrInvalidSpan, at, s)
	}

	return Span{Lo: s.Lo, Hi: at}, Span{Lo: at, Hi: s.Hi}, nil
}

// Remainders returns the pieces of s that lie outside the clip region:
// the part before clip and the part after it. Either piece may be empty.
func (s Span) Remainders(clip Span) (before, after Span) {
	before = Span{Lo: s.Lo, Hi: min(s.Hi, max(s.Lo, clip.Lo))}
	after = Span{Lo: max(s.Lo, min(s.Hi, clip.Hi)), Hi: s.Hi}

	return before, after
}

// Hull returns the smallest span covering both operands.
func (s Span) Hull(o Span) Span {
	return Span{Lo: min(s.Lo, o.Lo), Hi: max(s.Hi, o.Hi)}
}

// Join merges two touching spans into one. Operands that share no
// boundary cannot be joined; the error carries both.
func (s Span) Join(o Span) (Span, error) {
	if !s.Touches(o) {
		return Span{}, &DisjointError{A: s, B: o}
	}

	return s.Hull(o), nil
}

// String renders the span in half-open bracket notation.
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Lo, s.Hi)
}
