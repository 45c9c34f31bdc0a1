package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

type GenericKind int

const (
	Lifetime GenericKind = iota + 1
	TypeParam
	ConstParam
)

func (k GenericKind) String() string {
	switch k {
	case Lifetime:
		return "lifetime"
	case TypeParam:
		return "type"
	case ConstParam:
		return "const"
	}
	return "unknown"
}

type Generic struct {
	Kind GenericKind
	// Name excludes the quote of a lifetime.
	Name tokens.Token
	// Bounds are the tokens after `:` for lifetimes and type parameters.
	Bounds tokens.Stream
	// Type is the declared type of a const parameter.
	Type    tokens.Stream
	Default tokens.Stream
	Span    diag.Span
}

// Ident is the parameter as written in a use position: `'a`, `T` or `N`.
func (g Generic) Ident() string {
	if g.Kind == Lifetime {
		return "'" + g.Name.Text
	}
	return g.Name.Text
}

type WherePredicate struct {
	Target tokens.Stream
	Bounds tokens.Stream
}

type WhereClause struct {
	Keyword    tokens.Token
	Predicates []WherePredicate
	Span       diag.Span
}

type Generics struct {
	Params []Generic
	Where  *WhereClause
	// Depth is the deepest angle nesting in the parameter list, counting the list
	// itself; `<T: Bar<Baz>>` has depth 2.
	Depth int
	Span  diag.Span
}

func (g *Generics) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Params)
}

func (g *Generics) ofKind(kind GenericKind) []Generic {
	if g == nil {
		return nil
	}
	var out []Generic
	for _, p := range g.Params {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func (g *Generics) Lifetimes() []Generic {
	return g.ofKind(Lifetime)
}

func (g *Generics) TypeParams() []Generic {
	return g.ofKind(TypeParam)
}

func (g *Generics) Consts() []Generic {
	return g.ofKind(ConstParam)
}

func (g *Generics) Predicates() []WherePredicate {
	if g == nil || g.Where == nil {
		return nil
	}
	return g.Where.Predicates
}

func isClose(t tokens.Token) bool {
	return t.Kind == tokens.Punct && len(t.Text) > 0 && t.Text[0] == '>'
}

// parseGenerics reads a parameter list starting at `<`. The closing `>` may be the first
// half of a `>>`, in which case the second half is left for the caller, which will
// report it as a stray token.
func parseGenerics(c *tokens.Cursor) (*Generics, error) {
	open, err := c.ExpectPunct("<")
	if err != nil {
		return nil, err
	}
	g := &Generics{Depth: 1}
	for {
		t, ok := c.Peek()
		if !ok {
			return nil, diag.End(c.EndSpan(), "`>`")
		}
		if isClose(t) {
			closer, _ := c.SplitPunct(">")
			g.Span = open.Span.Cover(closer.Span)
			return g, nil
		}
		param, depth, err := parseGeneric(c)
		if err != nil {
			return nil, err
		}
		if depth+1 > g.Depth {
			g.Depth = depth + 1
		}
		g.Params = append(g.Params, param)

		if _, ok := c.EatPunct(","); ok {
			continue
		}
		if t, ok := c.Peek(); ok && !isClose(t) {
			return nil, diag.Unexpected(t.Span, "`,` or `>`", t)
		}
	}
}

func parseGeneric(c *tokens.Cursor) (Generic, int, error) {
	start := c.Checkpoint()
	var (
		g     Generic
		depth int
		err   error
	)
	t, _ := c.Peek()
	switch {
	case t.IsPunct("'"):
		c.Next()
		g.Kind = Lifetime
		if g.Name, err = c.ExpectIdent("a lifetime name"); err != nil {
			return g, 0, err
		}
		if _, ok := c.EatPunct(":"); ok {
			if g.Bounds, depth, err = scanType(c, stopAtClose(",")); err != nil {
				return g, 0, err
			}
		}
	case t.IsIdent("const"):
		c.Next()
		g.Kind = ConstParam
		if g.Name, err = c.ExpectIdent("a const parameter name"); err != nil {
			return g, 0, err
		}
		if _, err = c.ExpectPunct(":"); err != nil {
			return g, 0, err
		}
		if g.Type, depth, err = scanType(c, stopAtClose(",", "=")); err != nil {
			return g, 0, err
		}
		if len(g.Type) == 0 {
			return g, 0, diag.End(c.EndSpan(), "a const parameter type")
		}
	case t.Kind == tokens.Ident:
		c.Next()
		g.Kind = TypeParam
		g.Name = t
		if _, ok := c.EatPunct(":"); ok {
			if g.Bounds, depth, err = scanType(c, stopAtClose(",", "=")); err != nil {
				return g, 0, err
			}
		}
	default:
		return g, 0, diag.Unexpected(t.Span, "a lifetime, `const` or a type parameter", t)
	}

	if _, ok := c.EatPunct("="); ok {
		def, d, err := scanType(c, stopAtClose(","))
		if err != nil {
			return g, 0, err
		}
		if len(def) == 0 {
			return g, 0, diag.End(c.EndSpan(), "a default")
		}
		g.Default = def
		if d > depth {
			depth = d
		}
	}
	g.Span = c.SpanOf(start, c.Checkpoint())
	return g, depth, nil
}

func isWhereEnd(t tokens.Token) bool {
	return t.IsPunct(";") || t.IsGroup(tokens.Brace)
}

// parseWhere reads an optional where-clause. It ends before the next brace group or
// `;` at angle depth zero, whichever comes first.
func parseWhere(c *tokens.Cursor) (*WhereClause, error) {
	kw, ok := c.EatIdent("where")
	if !ok {
		return nil, nil
	}
	w := &WhereClause{Keyword: kw, Span: kw.Span}
	end := stopFunc(isWhereEnd)
	for {
		t, ok := c.Peek()
		if !ok || isWhereEnd(t) {
			break
		}
		target, _, err := scanType(c, end.or(stopAt(":", ",")))
		if err != nil {
			return nil, err
		}
		if len(target) == 0 {
			return nil, diag.Unexpected(t.Span, "a where predicate", t)
		}
		if _, err := c.ExpectPunct(":"); err != nil {
			return nil, err
		}
		bounds, _, err := scanType(c, end.or(stopAt(",")))
		if err != nil {
			return nil, err
		}
		w.Predicates = append(w.Predicates, WherePredicate{Target: target, Bounds: bounds})
		w.Span = w.Span.Cover(bounds.Span().Cover(target.Span()))
		if _, ok := c.EatPunct(","); !ok {
			break
		}
	}
	return w, nil
}
