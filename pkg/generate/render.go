package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// renderer emits tokens at the call site. It only ever closes groups it opened itself,
// so its output is balanced.
type renderer struct {
	sb *StreamBuilder
}

func (g *Generator) render() tokens.Stream {
	r := &renderer{sb: &StreamBuilder{}}
	r.items(g.items)
	return r.sb.Stream()
}

func (r *renderer) items(items []item) {
	for _, it := range items {
		it.render(r)
	}
}

func (b *implBlock) render(r *renderer) {
	r.block(b)
}

func (r *renderer) block(b *implBlock) {
	sb := r.sb
	sb.Ident("impl")
	r.implGenerics(b)
	if b.iface != nil {
		sb.Extend(ifaceWithLifetimes(b.iface, b.lifetimes))
		sb.Ident("for")
	}
	sb.IdentToken(b.target)
	r.typeGenerics(b.generics)
	r.where(b)

	var body tokens.Stream
	for _, m := range b.members {
		body = append(body, m.tokens(r)...)
	}
	sb.Extend(tokens.Stream{tokens.NewGroup(tokens.Brace, body, diag.Span{})})
}

// implGenerics renders the parameters with their bounds and without defaults. Added
// lifetimes come first and outlive every declared lifetime.
func (r *renderer) implGenerics(b *implBlock) {
	declared := b.generics.Lifetimes()
	var params []tokens.Stream
	for _, lt := range b.lifetimes {
		p := &StreamBuilder{}
		p.Lifetime(lt)
		for i, d := range declared {
			if i == 0 {
				p.Punct(":")
			} else {
				p.Punct("+")
			}
			p.Lifetime(d.Name.Text)
		}
		params = append(params, p.Stream())
	}
	if b.generics != nil {
		for _, g := range b.generics.Params {
			params = append(params, implParam(g))
		}
	}
	r.angled(params)
}

func implParam(g parse.Generic) tokens.Stream {
	p := &StreamBuilder{}
	switch g.Kind {
	case parse.Lifetime:
		p.Lifetime(g.Name.Text)
		if len(g.Bounds) > 0 {
			p.Punct(":").Extend(g.Bounds)
		}
	case parse.ConstParam:
		p.Ident("const").IdentToken(g.Name).Punct(":").Extend(g.Type)
	default:
		p.IdentToken(g.Name)
		if len(g.Bounds) > 0 {
			p.Punct(":").Extend(g.Bounds)
		}
	}
	return p.Stream()
}

// typeGenerics renders the parameter names only, as they appear after the type name.
func (r *renderer) typeGenerics(g *parse.Generics) {
	var params []tokens.Stream
	if g != nil {
		for _, p := range g.Params {
			s := &StreamBuilder{}
			if p.Kind == parse.Lifetime {
				s.Lifetime(p.Name.Text)
			} else {
				s.IdentToken(p.Name)
			}
			params = append(params, s.Stream())
		}
	}
	r.angled(params)
}

func (r *renderer) angled(params []tokens.Stream) {
	if len(params) == 0 {
		return
	}
	r.sb.Punct("<")
	r.list(params)
	r.sb.Punct(">")
}

func (r *renderer) list(items []tokens.Stream) {
	for i, item := range items {
		if i > 0 {
			r.sb.Punct(",")
		}
		r.sb.Extend(item)
	}
}

func (r *renderer) where(b *implBlock) {
	var preds []tokens.Stream
	if !b.clearWhere {
		for _, p := range b.generics.Predicates() {
			pred := append(tokens.Stream{}, p.Target...)
			pred = append(pred, tokens.NewPunct(":", tokens.Alone, diag.Span{}))
			preds = append(preds, append(pred, p.Bounds...))
		}
	}
	preds = append(preds, b.where...)
	if len(preds) == 0 {
		return
	}
	r.sb.Ident("where")
	r.list(preds)
}

// ifaceWithLifetimes passes extra lifetimes to the interface path: `Read` becomes
// `Read<'de>` and `Read<T>` becomes `Read<'de, T>`.
func ifaceWithLifetimes(iface tokens.Stream, lifetimes []string) tokens.Stream {
	if len(lifetimes) == 0 {
		return iface
	}
	args := &StreamBuilder{}
	for i, lt := range lifetimes {
		if i > 0 {
			args.Punct(",")
		}
		args.Lifetime(lt)
	}
	for i, t := range iface {
		if t.IsPunct("<") {
			out := append(tokens.Stream{}, iface[:i+1]...)
			out = append(out, args.Stream()...)
			out = append(out, tokens.NewPunct(",", tokens.Alone, diag.Span{}))
			return append(out, iface[i+1:]...)
		}
	}
	out := append(tokens.Stream{}, iface...)
	out = append(out, tokens.NewPunct("<", tokens.Alone, diag.Span{}))
	out = append(out, args.Stream()...)
	return append(out, tokens.NewPunct(">", tokens.Alone, diag.Span{}))
}

func (f *function) tokens(r *renderer) tokens.Stream {
	sb := &StreamBuilder{}
	for _, attr := range f.attrs {
		sb.Punct("#").Extend(tokens.Stream{tokens.NewGroup(tokens.Bracket, attr, diag.Span{})})
	}
	if f.public {
		sb.Ident("pub")
	}
	if f.async {
		sb.Ident("async")
	}
	sb.Ident("fn").Ident(f.name)
	if len(f.generics) > 0 {
		sb.Punct("<")
		for i, g := range f.generics {
			if i > 0 {
				sb.Punct(",")
			}
			sb.Extend(g)
		}
		sb.Punct(">")
	}

	params := &StreamBuilder{}
	params.Extend(receiverTokens(f.receiver))
	for i, a := range f.args {
		if i > 0 || f.receiver != None {
			params.Punct(",")
		}
		params.Extend(a.pattern).Punct(":").Extend(a.ty)
	}
	sb.Extend(tokens.Stream{tokens.NewGroup(tokens.Paren, params.Stream(), diag.Span{})})

	if len(f.ret) > 0 {
		sb.Punct("->").Extend(f.ret)
	}
	sb.Extend(tokens.Stream{tokens.NewGroup(tokens.Brace, f.body.Stream(), diag.Span{})})
	return sb.Stream()
}

func (c *constItem) tokens(r *renderer) tokens.Stream {
	sb := &StreamBuilder{}
	sb.Ident("const").Ident(c.name).Punct(":").Extend(c.ty).Punct("=").Append(c.value).Punct(";")
	return sb.Stream()
}

func (t *typeItem) tokens(r *renderer) tokens.Stream {
	sb := &StreamBuilder{}
	sb.Ident("type").Ident(t.name).Punct("=").Extend(t.ty).Punct(";")
	return sb.Stream()
}
