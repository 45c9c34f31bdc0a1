package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"strings"
)

type stopFunc func(t tokens.Token) bool

func stopAt(ops ...string) stopFunc {
	return func(t tokens.Token) bool {
		for _, op := range ops {
			if t.IsPunct(op) {
				return true
			}
		}
		return false
	}
}

// stopAtClose also stops on anything that starts with `>`, which lets the caller split a
// `>>` whose first half belongs to it.
func stopAtClose(ops ...string) stopFunc {
	inner := stopAt(ops...)
	return func(t tokens.Token) bool {
		return inner(t) || (t.Kind == tokens.Punct && strings.HasPrefix(t.Text, ">"))
	}
}

func (s stopFunc) or(other stopFunc) stopFunc {
	return func(t tokens.Token) bool {
		return s(t) || other(t)
	}
}

func stopAtBrace(t tokens.Token) bool {
	return t.IsGroup(tokens.Brace)
}

// scanType reads a type-like run of tokens up to the first stop token at angle depth
// zero, without consuming the stop. Groups are atomic; only `<` and `>` are counted.
//
// A `>>` is taken whole when it closes two open angles. When only one is open it is
// split: its first `>` closes that angle and the second is left in place for the next
// iteration, where it is either a stop or a stray. Operators such as `>=` and `>>=` are
// split the same way inside angles, so `Into<u8>=u8` leaves the `=` behind. A close at
// depth zero that is not a stop fails with UnexpectedToken.
//
// The second result is the deepest angle nesting seen.
func scanType(c *tokens.Cursor, stop stopFunc) (tokens.Stream, int, error) {
	var out tokens.Stream
	depth, maxDepth := 0, 0
	for {
		t, ok := c.Peek()
		if !ok {
			break
		}
		if depth == 0 && stop(t) {
			break
		}
		if t.Kind != tokens.Punct {
			c.Next()
			out = append(out, t)
			continue
		}
		switch {
		case t.Text == "<":
			depth++
		case t.Text == "<<":
			depth += 2
		case strings.HasPrefix(t.Text, ">"):
			rest := strings.TrimLeft(t.Text, ">")
			closers := len(t.Text) - len(rest)
			if depth == 0 {
				if rest == "" {
					return nil, 0, diag.New(diag.UnexpectedToken, t.Span, "unexpected `%s` with no open `<`", t.Text)
				}
				break
			}
			if rest != "" || closers > depth {
				piece, _ := c.SplitPunct(">")
				out = append(out, piece)
				depth--
				continue
			}
			depth -= closers
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		c.Next()
		out = append(out, t)
	}
	if depth != 0 {
		return nil, 0, diag.End(c.EndSpan(), "`>`")
	}
	return out, maxDepth, nil
}

// scanRaw reads tokens up to the first stop, with no angle tracking. Used for
// expressions, where `<` and `>` are comparisons and shifts.
func scanRaw(c *tokens.Cursor, stop stopFunc) tokens.Stream {
	var out tokens.Stream
	for {
		t, ok := c.Peek()
		if !ok || stop(t) {
			return out
		}
		c.Next()
		out = append(out, t)
	}
}

// expectSeparator consumes a `,` between list items, or accepts the end of the list.
func expectSeparator(c *tokens.Cursor) error {
	if _, ok := c.EatPunct(","); ok {
		return nil
	}
	if t, ok := c.Peek(); ok {
		return diag.Unexpected(t.Span, "`,`", t)
	}
	return nil
}

// rest consumes everything left in the cursor.
func rest(c *tokens.Cursor) tokens.Stream {
	return scanRaw(c, func(tokens.Token) bool { return false })
}
