package diag

import "fmt"

// Span locates a token or error in the source it was lexed from. Start and End are
// byte offsets (End exclusive), Line and Column are 1-based. The zero Span stands for
// the call site: it carries no location at all.
type Span struct {
	Line   int
	Column int
	Start  int
	End    int
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	if other.Start < s.Start {
		s.Start, s.Line, s.Column = other.Start, other.Line, other.Column
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftRight moves the start of the span n bytes forward, as happens when the
// leading characters of an operator token have already been consumed.
func (s Span) ShiftRight(n int) Span {
	if s.IsZero() {
		return s
	}
	s.Start += n
	s.Column += n
	if s.Start > s.End {
		s.End = s.Start
	}
	return s
}

func (s Span) String() string {
	if s.IsZero() {
		return "<call site>"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}
