package span

// Bounder converts a value to a Span. Public operations of spanmap and
// spanset accept a Bounder and convert exactly once at the API boundary,
// so algorithms only ever see validated Spans.
type Bounder interface {
	Bounds() (Span, error)
}

// Bounds implements Bounder; a Span bounds itself.
func (s Span) Bounds() (Span, error) {
	if s.Lo < 0 || s.Hi < s.Lo {
		return Span{}, ErrInvalidSpan
	}

	return s, nil
}

// Pt is a single non-negative point, boundable as the zero-length span
// [p, p).
type Pt int

// Bounds implements Bounder.
func (p Pt) Bounds() (Span, error) {
	return Point(int(p))
}

// Range is an ascending inclusive range, boundable as
// [First, Last+1).
type Range struct {
	First int
	Last  int
}

// Bounds implements Bounder.
func (r Range) Bounds() (Span, error) {
	return FromRange(r.First, r.Last)
}

// Loc is a position/length pair, boundable as [Pos, Pos+Len).
type Loc struct {
	Pos int
	Len int
}

// Bounds implements Bounder.
func (l Loc) Bounds() (Span, error) {
	return At(l.Pos, l.Len)
}
