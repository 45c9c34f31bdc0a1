package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// StreamBuilder accumulates a sequence of statements or expression tokens. Tokens it
// creates carry its current span, the call site unless SetSpan says otherwise.
//
// Statements can be built structurally (Return, Let, Stmt, or token by token) or
// injected raw with PushTokens and PushParsed. Raw fragments are only checked for
// balanced delimiters.
type StreamBuilder struct {
	out  tokens.Stream
	span diag.Span
}

func NewStreamBuilder() *StreamBuilder {
	return &StreamBuilder{}
}

// SetSpan sets the span given to tokens created from here on.
func (sb *StreamBuilder) SetSpan(span diag.Span) *StreamBuilder {
	sb.span = span
	return sb
}

func (sb *StreamBuilder) Stream() tokens.Stream {
	return sb.out
}

func (sb *StreamBuilder) Len() int {
	return len(sb.out)
}

func (sb *StreamBuilder) push(t ...tokens.Token) *StreamBuilder {
	sb.out = append(sb.out, t...)
	return sb
}

func (sb *StreamBuilder) Ident(name string) *StreamBuilder {
	return sb.push(tokens.NewIdent(name, sb.span))
}

// IdentToken pushes an existing identifier, keeping its span.
func (sb *StreamBuilder) IdentToken(t tokens.Token) *StreamBuilder {
	return sb.push(t)
}

func (sb *StreamBuilder) Punct(op string) *StreamBuilder {
	return sb.push(tokens.NewPunct(op, tokens.Alone, sb.span))
}

func (sb *StreamBuilder) Lifetime(name string) *StreamBuilder {
	return sb.push(
		tokens.NewPunct("'", tokens.Joint, sb.span),
		tokens.NewIdent(name, sb.span),
	)
}

func (sb *StreamBuilder) LitStr(s string) *StreamBuilder {
	return sb.push(tokens.StringLit(s, sb.span))
}

func (sb *StreamBuilder) LitInt(v int) *StreamBuilder {
	return sb.push(tokens.IntLit(v, sb.span))
}

// Group pushes a delimited group whose contents are built by fill.
func (sb *StreamBuilder) Group(delim tokens.Delimiter, fill func(*StreamBuilder) error) error {
	inner := &StreamBuilder{span: sb.span}
	if fill != nil {
		if err := fill(inner); err != nil {
			return err
		}
	}
	sb.push(tokens.NewGroup(delim, inner.out, sb.span))
	return nil
}

// Extend pushes already nested tokens as they are.
func (sb *StreamBuilder) Extend(s tokens.Stream) *StreamBuilder {
	return sb.push(s...)
}

func (sb *StreamBuilder) Append(other *StreamBuilder) *StreamBuilder {
	return sb.push(other.out...)
}

// Return pushes `return expr;`.
func (sb *StreamBuilder) Return(expr string) error {
	e, err := sb.parse(expr)
	if err != nil {
		return err
	}
	sb.Ident("return").Extend(e).Punct(";")
	return nil
}

// Let pushes `let name = expr;`.
func (sb *StreamBuilder) Let(name, expr string) error {
	e, err := sb.parse(expr)
	if err != nil {
		return err
	}
	sb.Ident("let").Ident(name).Punct("=").Extend(e).Punct(";")
	return nil
}

// Stmt pushes `expr;`.
func (sb *StreamBuilder) Stmt(expr string) error {
	e, err := sb.parse(expr)
	if err != nil {
		return err
	}
	sb.Extend(e).Punct(";")
	return nil
}

// PushParsed lexes code and pushes it unchanged. The tokens take the builder's span.
func (sb *StreamBuilder) PushParsed(code string) error {
	s, err := sb.parse(code)
	if err != nil {
		return err
	}
	sb.Extend(s)
	return nil
}

// PushTokens nests a flat, pre-lexed fragment and pushes it with its spans intact. An
// unbalanced fragment fails with MalformedFragment at the offending token.
func (sb *StreamBuilder) PushTokens(flat []tokens.Token) error {
	s, err := tokens.Nest(flat)
	if err != nil {
		return diag.Wrap(diag.MalformedFragment, sb.span, err)
	}
	sb.Extend(s)
	return nil
}

func (sb *StreamBuilder) parse(code string) (tokens.Stream, error) {
	s, err := tokens.Lex(code)
	if err != nil {
		return nil, malformed(sb.span, code, err)
	}
	return s.WithSpan(sb.span), nil
}

// malformed reports a fragment that failed to lex or nest. The position inside the
// fragment goes into the message since it means nothing in the original source.
func malformed(span diag.Span, code string, err error) *diag.Error {
	if e, ok := diag.As(err); ok {
		return diag.New(diag.MalformedFragment, span, "malformed fragment %q at %s: %s", code, e.Span, e.Message)
	}
	return diag.New(diag.MalformedFragment, span, "malformed fragment %q: %v", code, err)
}
