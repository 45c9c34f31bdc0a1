package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
)

// Nest folds the delimiter puncts of a flat token sequence into Group tokens. The first
// stray, mismatched or unclosed delimiter fails with UnexpectedToken at that delimiter.
// Tokens keep their spans, and Group tokens already present pass through untouched.
func Nest(flat []Token) (Stream, error) {
	c := NewCursor(Stream(flat), diag.Span{})
	out, _, err := nest(c, nil)
	return out, err
}

func nest(c *Cursor, open *Token) (Stream, Token, error) {
	var out Stream
	for {
		t, ok := c.Next()
		if !ok {
			if open != nil {
				return nil, Token{}, diag.New(diag.UnexpectedToken, open.Span, "unclosed delimiter `%s`", open.Text)
			}
			return out, Token{}, nil
		}
		if t.Kind != Punct {
			out = append(out, t)
			continue
		}
		delim, isDelim := delimiterFor(t.Text)
		switch {
		case !isDelim:
			out = append(out, t)
		case t.Text == delim.Open():
			inner, closer, err := nest(c, &t)
			if err != nil {
				return nil, Token{}, err
			}
			out = append(out, NewGroup(delim, inner, t.Span.Cover(closer.Span)))
		case open == nil:
			return nil, Token{}, diag.New(diag.UnexpectedToken, t.Span, "unexpected closing delimiter `%s`", t.Text)
		default:
			want, _ := delimiterFor(open.Text)
			if want != delim {
				return nil, Token{}, diag.New(diag.UnexpectedToken, t.Span, "mismatched closing delimiter `%s`, expected `%s`", t.Text, want.Close())
			}
			return out, t, nil
		}
	}
}
