package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"strings"
)

// Cursor walks a Stream front to back. It never copies or drops tokens: the only way
// back is Restore to a Checkpoint taken earlier.
//
// Multi-character operators can be consumed piecewise with SplitPunct, which is how a
// `>>` closing two generic lists is taken one `>` at a time. The partially consumed
// state is part of the Checkpoint.
type Cursor struct {
	stream Stream
	pos    int
	offset int
	scope  diag.Span
}

type Checkpoint struct {
	pos    int
	offset int
}

// NewCursor creates a cursor over s. scope is reported for errors at the end of an empty
// stream, typically the span of the group s came from.
func NewCursor(s Stream, scope diag.Span) *Cursor {
	return &Cursor{stream: s, scope: scope}
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.stream)
}

func (c *Cursor) Peek() (Token, bool) {
	return c.PeekN(0)
}

// PeekN looks n tokens ahead without consuming anything.
func (c *Cursor) PeekN(n int) (Token, bool) {
	if c.pos+n >= len(c.stream) {
		return Token{}, false
	}
	if n == 0 && c.offset > 0 {
		return c.piece(c.pos, c.offset, -1), true
	}
	return c.stream[c.pos+n], true
}

func (c *Cursor) Advance() (Token, error) {
	t, ok := c.Next()
	if !ok {
		return Token{}, diag.End(c.EndSpan(), "more tokens")
	}
	return t, nil
}

// Next consumes the current token, reporting false at the end of the stream.
func (c *Cursor) Next() (Token, bool) {
	t, ok := c.Peek()
	if !ok {
		return Token{}, false
	}
	c.pos++
	c.offset = 0
	return t, true
}

func (c *Cursor) Checkpoint() Checkpoint {
	return Checkpoint{pos: c.pos, offset: c.offset}
}

func (c *Cursor) Restore(cp Checkpoint) {
	c.pos, c.offset = cp.pos, cp.offset
}

// Since returns the tokens consumed between cp and the current position.
func (c *Cursor) Since(cp Checkpoint) Stream {
	return c.between(cp, c.Checkpoint())
}

// SpanOf covers every token consumed between from and to.
func (c *Cursor) SpanOf(from, to Checkpoint) diag.Span {
	s := c.between(from, to)
	if len(s) == 0 {
		if from.pos < len(c.stream) {
			return c.stream[from.pos].Span
		}
		return c.EndSpan()
	}
	return s.Span()
}

func (c *Cursor) between(from, to Checkpoint) Stream {
	var out Stream
	if from.pos == to.pos {
		if to.offset > from.offset {
			out = append(out, c.piece(from.pos, from.offset, to.offset))
		}
		return out
	}
	if from.offset > 0 {
		out = append(out, c.piece(from.pos, from.offset, -1))
		from.pos++
	}
	out = append(out, c.stream[from.pos:to.pos]...)
	if to.offset > 0 {
		out = append(out, c.piece(to.pos, 0, to.offset))
	}
	return out
}

// piece returns the part of the operator at index i between byte offsets from and to
// (-1 for the end), with its span narrowed to match.
func (c *Cursor) piece(i, from, to int) Token {
	t := c.stream[i]
	if to < 0 {
		to = len(t.Text)
	}
	t.Text = t.Text[from:to]
	t.Span = t.Span.ShiftRight(from)
	if !t.Span.IsZero() {
		t.Span.End = t.Span.Start + (to - from)
	}
	return t
}

// EndSpan is where errors about missing tokens are reported: the current token, the
// last token of the stream, or the scope of an empty stream.
func (c *Cursor) EndSpan() diag.Span {
	if t, ok := c.Peek(); ok {
		return t.Span
	}
	if len(c.stream) > 0 {
		return c.stream[len(c.stream)-1].Span
	}
	return c.scope
}

// SplitPunct consumes op from the front of the current punct, leaving the rest of a
// longer operator in place. It reports false when the current token does not start
// with op.
func (c *Cursor) SplitPunct(op string) (Token, bool) {
	t, ok := c.Peek()
	if !ok || t.Kind != Punct || !strings.HasPrefix(t.Text, op) {
		return Token{}, false
	}
	if len(t.Text) == len(op) {
		return c.Next()
	}
	p := c.piece(c.pos, c.offset, c.offset+len(op))
	c.offset += len(op)
	return p, true
}

func (c *Cursor) EatPunct(op string) (Token, bool) {
	if t, ok := c.Peek(); ok && t.IsPunct(op) {
		return c.Next()
	}
	return Token{}, false
}

func (c *Cursor) EatIdent(name string) (Token, bool) {
	if t, ok := c.Peek(); ok && t.IsIdent(name) {
		return c.Next()
	}
	return Token{}, false
}

func (c *Cursor) ExpectPunct(op string) (Token, error) {
	t, ok := c.Peek()
	if !ok {
		return Token{}, diag.End(c.EndSpan(), "`"+op+"`")
	}
	if !t.IsPunct(op) {
		return Token{}, diag.Unexpected(t.Span, "`"+op+"`", t)
	}
	c.Next()
	return t, nil
}

func (c *Cursor) ExpectIdent(what string) (Token, error) {
	t, ok := c.Peek()
	if !ok {
		return Token{}, diag.End(c.EndSpan(), what)
	}
	if t.Kind != Ident {
		return Token{}, diag.Unexpected(t.Span, what, t)
	}
	c.Next()
	return t, nil
}

func (c *Cursor) ExpectGroup(delim Delimiter) (Token, error) {
	t, ok := c.Peek()
	if !ok {
		return Token{}, diag.End(c.EndSpan(), delim.String()+" group")
	}
	if !t.IsGroup(delim) {
		return Token{}, diag.Unexpected(t.Span, delim.String()+" group", t)
	}
	c.Next()
	return t, nil
}

// ExpectEnd fails on the first leftover token.
func (c *Cursor) ExpectEnd() error {
	if t, ok := c.Peek(); ok {
		return diag.Unexpected(t.Span, "end of input", t)
	}
	return nil
}
