package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

func parseNamedFields(group tokens.Token) (Fields, error) {
	fields := Fields{Shape: Named, Span: group.Span}
	c := tokens.NewCursor(group.Stream, group.Span)
	for !c.Done() {
		start := c.Checkpoint()
		attrs, err := parseAttributes(c, OnField)
		if err != nil {
			return Fields{}, err
		}
		vis := parseVisibility(c)
		name, err := c.ExpectIdent("a field name")
		if err != nil {
			return Fields{}, err
		}
		if _, err := c.ExpectPunct(":"); err != nil {
			return Fields{}, err
		}
		ty, err := fieldType(c)
		if err != nil {
			return Fields{}, err
		}
		fields.List = append(fields.List, Field{
			Name:       name,
			Index:      len(fields.List),
			Visibility: vis,
			Type:       ty,
			Attributes: attrs,
			Span:       c.SpanOf(start, c.Checkpoint()),
		})
		if err := expectSeparator(c); err != nil {
			return Fields{}, err
		}
	}
	return fields, nil
}

func parseTupleFields(group tokens.Token) (Fields, error) {
	fields := Fields{Shape: Tuple, Span: group.Span}
	c := tokens.NewCursor(group.Stream, group.Span)
	for !c.Done() {
		start := c.Checkpoint()
		attrs, err := parseAttributes(c, OnField)
		if err != nil {
			return Fields{}, err
		}
		vis := parseVisibility(c)
		ty, err := fieldType(c)
		if err != nil {
			return Fields{}, err
		}
		fields.List = append(fields.List, Field{
			Index:      len(fields.List),
			Visibility: vis,
			Type:       ty,
			Attributes: attrs,
			Span:       c.SpanOf(start, c.Checkpoint()),
		})
		if err := expectSeparator(c); err != nil {
			return Fields{}, err
		}
	}
	return fields, nil
}

func fieldType(c *tokens.Cursor) (tokens.Stream, error) {
	ty, _, err := scanType(c, stopAt(","))
	if err != nil {
		return nil, err
	}
	if len(ty) == 0 {
		if t, ok := c.Peek(); ok {
			return nil, diag.Unexpected(t.Span, "a type", t)
		}
		return nil, diag.End(c.EndSpan(), "a type")
	}
	return ty, nil
}

// parseVariants reads the brace group of an enum. At least one variant is required.
func parseVariants(group tokens.Token) (*Variants, error) {
	variants := &Variants{}
	c := tokens.NewCursor(group.Stream, group.Span)
	for !c.Done() {
		start := c.Checkpoint()
		attrs, err := parseAttributes(c, OnVariant)
		if err != nil {
			return nil, err
		}
		name, err := c.ExpectIdent("a variant name")
		if err != nil {
			return nil, err
		}
		v := Variant{Name: name, Attributes: attrs, Fields: Fields{Shape: Unit, Span: name.Span}}
		if t, ok := c.Peek(); ok {
			switch {
			case t.IsGroup(tokens.Brace):
				c.Next()
				v.Fields, err = parseNamedFields(t)
			case t.IsGroup(tokens.Paren):
				c.Next()
				v.Fields, err = parseTupleFields(t)
			}
			if err != nil {
				return nil, err
			}
		}
		if eq, ok := c.EatPunct("="); ok {
			v.Discriminant = scanRaw(c, stopAt(","))
			if len(v.Discriminant) == 0 {
				return nil, diag.End(eq.Span, "a discriminant expression")
			}
		}
		v.Span = c.SpanOf(start, c.Checkpoint())
		variants.List = append(variants.List, v)
		if err := expectSeparator(c); err != nil {
			return nil, err
		}
	}
	if len(variants.List) == 0 {
		return nil, diag.New(diag.UnexpectedToken, group.Span, "expected at least one variant")
	}
	return variants, nil
}
