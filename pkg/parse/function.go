package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// Receiver is how a method takes `self`.
type Receiver int

const (
	NoReceiver Receiver = iota
	ByValue
	ByRef
	ByMutRef
)

func (r Receiver) String() string {
	switch r {
	case ByValue:
		return "self"
	case ByRef:
		return "&self"
	case ByMutRef:
		return "&mut self"
	}
	return ""
}

type Param struct {
	Pattern tokens.Stream
	Type    tokens.Stream
	Span    diag.Span
}

// Function is a parsed function signature, with its body kept as an opaque group.
type Function struct {
	Attributes Attributes
	Visibility Visibility
	// Qualifiers are the words between the visibility and `fn`, e.g. const, async,
	// unsafe and extern with its ABI literal.
	Qualifiers tokens.Stream
	Name       tokens.Token
	Generics   *Generics
	Receiver   Receiver
	// SelfParam is the receiver exactly as written, including any lifetime or type.
	SelfParam tokens.Stream
	Params    []Param
	Returns   tokens.Stream
	// Body is nil for a signature ending in `;`.
	Body *tokens.Token
	Span diag.Span
}

var qualifierWords = map[string]bool{
	"const":   true,
	"async":   true,
	"unsafe":  true,
	"extern":  true,
	"default": true,
}

// ParseFunction reads one function item, `fn name<G>(params) -> Ret where ... { }`.
func ParseFunction(input tokens.Stream) (*Function, error) {
	c := tokens.NewCursor(input, input.Span())
	fn := &Function{Span: input.Span()}

	var err error
	if fn.Attributes, err = parseAttributes(c, OnContainer); err != nil {
		return nil, err
	}
	fn.Visibility = parseVisibility(c)
	for {
		t, ok := c.Peek()
		if !ok || !(t.Kind == tokens.Ident && qualifierWords[t.Text] || t.Kind == tokens.Literal) {
			break
		}
		c.Next()
		fn.Qualifiers = append(fn.Qualifiers, t)
	}
	if kw, ok := c.Peek(); !ok {
		return nil, diag.End(c.EndSpan(), "`fn`")
	} else if !kw.IsIdent("fn") {
		return nil, diag.Unexpected(kw.Span, "`fn`", kw)
	}
	c.Next()
	if fn.Name, err = c.ExpectIdent("a function name"); err != nil {
		return nil, err
	}
	if t, ok := c.Peek(); ok && t.IsPunct("<") {
		if fn.Generics, err = parseGenerics(c); err != nil {
			return nil, err
		}
	}
	params, err := c.ExpectGroup(tokens.Paren)
	if err != nil {
		return nil, err
	}
	if err := fn.parseParams(params); err != nil {
		return nil, err
	}
	if _, ok := c.EatPunct("->"); ok {
		fn.Returns, _, err = scanType(c, stopFunc(isWhereEnd).or(func(t tokens.Token) bool { return t.IsIdent("where") }))
		if err != nil {
			return nil, err
		}
		if len(fn.Returns) == 0 {
			return nil, diag.End(c.EndSpan(), "a return type")
		}
	}
	where, err := parseWhere(c)
	if err != nil {
		return nil, err
	}
	if where != nil {
		if fn.Generics == nil {
			fn.Generics = &Generics{Span: where.Span}
		}
		fn.Generics.Where = where
	}

	t, ok := c.Peek()
	switch {
	case !ok:
		return nil, diag.End(c.EndSpan(), "a function body or `;`")
	case t.IsGroup(tokens.Brace):
		fn.Body = &t
	case !t.IsPunct(";"):
		return nil, diag.Unexpected(t.Span, "a function body or `;`", t)
	}
	c.Next()
	if err := c.ExpectEnd(); err != nil {
		return nil, err
	}
	return fn, nil
}

// ParseFunctionSource lexes src and parses it as a function.
func ParseFunctionSource(src string) (*Function, error) {
	s, err := tokens.Lex(src)
	if err != nil {
		return nil, err
	}
	return ParseFunction(s)
}

func (fn *Function) parseParams(group tokens.Token) error {
	c := tokens.NewCursor(group.Stream, group.Span)
	start := c.Checkpoint()
	if recv, ok := parseReceiver(c); ok {
		fn.Receiver = recv
		if _, ok := c.EatPunct(":"); ok {
			if _, _, err := scanType(c, stopAt(",")); err != nil {
				return err
			}
		}
		fn.SelfParam = c.Since(start)
		if err := expectSeparator(c); err != nil {
			return err
		}
	}
	for !c.Done() {
		start := c.Checkpoint()
		pattern := scanRaw(c, stopAt(":", ","))
		if len(pattern) == 0 {
			t, _ := c.Peek()
			return diag.Unexpected(t.Span, "a parameter pattern", t)
		}
		if _, err := c.ExpectPunct(":"); err != nil {
			return err
		}
		ty, err := fieldType(c)
		if err != nil {
			return err
		}
		fn.Params = append(fn.Params, Param{Pattern: pattern, Type: ty, Span: c.SpanOf(start, c.Checkpoint())})
		if err := expectSeparator(c); err != nil {
			return err
		}
	}
	return nil
}

// parseReceiver recognises `self`, `mut self`, `&self`, `&mut self` and the same with a
// lifetime after the `&`. The cursor is left untouched when there is no receiver.
func parseReceiver(c *tokens.Cursor) (Receiver, bool) {
	start := c.Checkpoint()
	if _, ok := c.EatPunct("&"); ok {
		if _, ok := c.EatPunct("'"); ok {
			if _, ok := c.Next(); !ok {
				c.Restore(start)
				return NoReceiver, false
			}
		}
		recv := ByRef
		if _, ok := c.EatIdent("mut"); ok {
			recv = ByMutRef
		}
		if _, ok := c.EatIdent("self"); ok {
			return recv, true
		}
		c.Restore(start)
		return NoReceiver, false
	}
	c.EatIdent("mut")
	if _, ok := c.EatIdent("self"); ok {
		return ByValue, true
	}
	c.Restore(start)
	return NoReceiver, false
}
