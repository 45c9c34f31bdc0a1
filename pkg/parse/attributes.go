package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"strings"
)

// Location is where an attribute was attached.
type Location int

const (
	OnContainer Location = iota
	OnVariant
	OnField
)

type Attribute struct {
	Location Location
	// Path is the attribute name, with `::` between segments.
	Path string
	// Args are the tokens after the path inside the brackets.
	Args  tokens.Stream
	Inner bool
	Span  diag.Span
}

// Tagged returns the contents of `#[path(...)]`.
func (a Attribute) Tagged(path string) (tokens.Stream, bool) {
	if a.Path != path || len(a.Args) != 1 || !a.Args[0].IsGroup(tokens.Paren) {
		return nil, false
	}
	return a.Args[0].Stream, true
}

// Value returns the literal of `#[path = literal]`.
func (a Attribute) Value() (tokens.Token, bool) {
	if len(a.Args) != 2 || !a.Args[0].IsPunct("=") || a.Args[1].Kind != tokens.Literal {
		return tokens.Token{}, false
	}
	return a.Args[1], true
}

// Meta is one comma separated item of an attribute argument list: `name`,
// `name = value` or `name(...)`.
type Meta struct {
	Path  string
	Value tokens.Stream
	List  tokens.Stream
	Span  diag.Span
}

// Str unquotes a string literal value.
func (m Meta) Str() (string, bool) {
	if len(m.Value) != 1 {
		return "", false
	}
	return m.Value[0].Unquote()
}

func (m Meta) IsFlag() bool {
	return m.Value == nil && m.List == nil
}

// Meta splits the parenthesised arguments of the attribute into items.
func (a Attribute) Meta() ([]Meta, error) {
	if len(a.Args) == 0 {
		return nil, nil
	}
	if len(a.Args) != 1 || !a.Args[0].IsGroup(tokens.Paren) {
		return nil, diag.New(diag.MalformedFragment, a.Span, "expected `#[%s(...)]`", a.Path)
	}
	group := a.Args[0]
	c := tokens.NewCursor(group.Stream, group.Span)
	var items []Meta
	for !c.Done() {
		start := c.Checkpoint()
		path, err := parsePath(c)
		if err != nil {
			return nil, err
		}
		item := Meta{Path: path}
		if _, ok := c.EatPunct("="); ok {
			item.Value = scanRaw(c, stopAt(","))
			if len(item.Value) == 0 {
				return nil, diag.End(c.EndSpan(), "a value after `=`")
			}
		} else if t, ok := c.Peek(); ok && t.IsGroup(tokens.Paren) {
			c.Next()
			item.List = t.Stream
			if item.List == nil {
				item.List = tokens.Stream{}
			}
		}
		item.Span = c.SpanOf(start, c.Checkpoint())
		items = append(items, item)
		if err := expectSeparator(c); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func parsePath(c *tokens.Cursor) (string, error) {
	first, err := c.ExpectIdent("a path")
	if err != nil {
		return "", err
	}
	segments := []string{first.Text}
	for {
		if _, ok := c.EatPunct("::"); !ok {
			break
		}
		seg, err := c.ExpectIdent("a path segment")
		if err != nil {
			return "", err
		}
		segments = append(segments, seg.Text)
	}
	return strings.Join(segments, "::"), nil
}

// Attributes keeps attributes in source order with a lookup by path.
type Attributes struct {
	list   []Attribute
	byPath map[string][]int
}

func (a *Attributes) add(attr Attribute) {
	if a.byPath == nil {
		a.byPath = map[string][]int{}
	}
	a.byPath[attr.Path] = append(a.byPath[attr.Path], len(a.list))
	a.list = append(a.list, attr)
}

func (a Attributes) All() []Attribute {
	return a.list
}

func (a Attributes) Len() int {
	return len(a.list)
}

func (a Attributes) Get(path string) []Attribute {
	idx := a.byPath[path]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Attribute, len(idx))
	for i, n := range idx {
		out[i] = a.list[n]
	}
	return out
}

func (a Attributes) First(path string) (Attribute, bool) {
	idx := a.byPath[path]
	if len(idx) == 0 {
		return Attribute{}, false
	}
	return a.list[idx[0]], true
}

func (a Attributes) Has(path string) bool {
	return len(a.byPath[path]) > 0
}

// Docs joins the `doc` attributes, one per line.
func (a Attributes) Docs() string {
	var lines []string
	for _, attr := range a.Get("doc") {
		if lit, ok := attr.Value(); ok {
			if s, ok := lit.Unquote(); ok {
				lines = append(lines, strings.TrimSpace(s))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// parseAttributes reads any number of `#[...]` and `#![...]`. Repeated `#` marks before
// one group, which blank doc comment lines can produce, count as one.
func parseAttributes(c *tokens.Cursor, loc Location) (Attributes, error) {
	var attrs Attributes
	for {
		hash, ok := c.EatPunct("#")
		if !ok {
			return attrs, nil
		}
		for {
			if _, ok := c.EatPunct("#"); !ok {
				break
			}
		}
		_, inner := c.EatPunct("!")
		group, err := c.ExpectGroup(tokens.Bracket)
		if err != nil {
			return Attributes{}, err
		}
		gc := tokens.NewCursor(group.Stream, group.Span)
		path, err := parsePath(gc)
		if err != nil {
			return Attributes{}, err
		}
		attrs.add(Attribute{
			Location: loc,
			Path:     path,
			Args:     rest(gc),
			Inner:    inner,
			Span:     hash.Span.Cover(group.Span),
		})
	}
}

// parseVisibility reads `pub` and an optional restriction group. A paren group only
// counts as a restriction when it starts with crate, self, super or in, so the tuple
// type in `pub (u8, u16)` stays a type.
func parseVisibility(c *tokens.Cursor) Visibility {
	pub, ok := c.EatIdent("pub")
	if !ok {
		return Visibility{Kind: Private}
	}
	vis := Visibility{Kind: Public, Tokens: tokens.Stream{pub}}
	if t, ok := c.Peek(); ok && t.IsGroup(tokens.Paren) && len(t.Stream) > 0 {
		switch t.Stream[0].Text {
		case "crate", "self", "super", "in":
			if t.Stream[0].Kind == tokens.Ident {
				c.Next()
				vis.Tokens = append(vis.Tokens, t)
			}
		}
	}
	return vis
}
