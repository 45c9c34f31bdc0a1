package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// Parse reads exactly one struct or enum declaration from input. Any token left after
// the declaration is an error.
func Parse(input tokens.Stream) (*Declaration, error) {
	c := tokens.NewCursor(input, input.Span())
	decl := &Declaration{Span: input.Span()}

	var err error
	if decl.Attributes, err = parseAttributes(c, OnContainer); err != nil {
		return nil, err
	}
	decl.Visibility = parseVisibility(c)

	kw, ok := c.Peek()
	switch {
	case !ok:
		return nil, diag.End(c.EndSpan(), "`struct` or `enum`")
	case kw.IsIdent("struct"):
		decl.DataType = Struct
	case kw.IsIdent("enum"):
		decl.DataType = Enum
	default:
		return nil, diag.Unexpected(kw.Span, "`struct` or `enum`", kw)
	}
	c.Next()
	decl.Keyword = kw

	if decl.Name, err = c.ExpectIdent("a type name"); err != nil {
		return nil, err
	}
	if t, ok := c.Peek(); ok && t.IsPunct("<") {
		if decl.Generics, err = parseGenerics(c); err != nil {
			return nil, err
		}
	}
	if err := decl.parseWhere(c); err != nil {
		return nil, err
	}

	switch decl.DataType {
	case Struct:
		err = decl.parseStructBody(c)
	case Enum:
		err = decl.parseEnumBody(c)
	}
	if err != nil {
		return nil, err
	}
	if err := c.ExpectEnd(); err != nil {
		return nil, err
	}
	return decl, nil
}

// ParseSource lexes src and parses it.
func ParseSource(src string) (*Declaration, error) {
	s, err := tokens.Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(s)
}

func (d *Declaration) parseWhere(c *tokens.Cursor) error {
	where, err := parseWhere(c)
	if err != nil || where == nil {
		return err
	}
	if d.Generics == nil {
		d.Generics = &Generics{Span: where.Span}
	}
	if d.Generics.Where != nil {
		return diag.New(diag.UnexpectedToken, where.Keyword.Span, "duplicate where-clause")
	}
	d.Generics.Where = where
	return nil
}

func (d *Declaration) parseStructBody(c *tokens.Cursor) error {
	t, ok := c.Peek()
	if !ok {
		return diag.End(c.EndSpan(), "`{`, `(` or `;`")
	}
	var fields Fields
	var err error
	switch {
	case t.IsGroup(tokens.Brace):
		c.Next()
		fields, err = parseNamedFields(t)
	case t.IsGroup(tokens.Paren):
		c.Next()
		if fields, err = parseTupleFields(t); err != nil {
			return err
		}
		// a tuple struct's where-clause comes after its fields
		if err = d.parseWhere(c); err != nil {
			return err
		}
		_, err = c.ExpectPunct(";")
	case t.IsPunct(";"):
		c.Next()
		fields = Fields{Shape: Unit, Span: t.Span}
	default:
		return diag.Unexpected(t.Span, "`{`, `(` or `;`", t)
	}
	if err != nil {
		return err
	}
	d.Body = &Aggregate{Fields: fields}
	return nil
}

func (d *Declaration) parseEnumBody(c *tokens.Cursor) error {
	group, err := c.ExpectGroup(tokens.Brace)
	if err != nil {
		return err
	}
	variants, err := parseVariants(group)
	if err != nil {
		return err
	}
	d.Body = variants
	return nil
}
