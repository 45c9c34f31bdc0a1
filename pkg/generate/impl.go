package generate

import (
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"strings"
)

// item is anything the generator emits at the top level or inside a module.
type item interface {
	render(r *renderer)
}

type implBlock struct {
	// iface is nil for an inherent impl
	iface      tokens.Stream
	target     tokens.Token
	generics   *parse.Generics
	lifetimes  []string
	clearWhere bool
	where      []tokens.Stream
	members    []member
}

type member interface {
	tokens(r *renderer) tokens.Stream
}

type ImplBuilder struct {
	gen   *Generator
	block *implBlock
}

// Generics replaces the forwarded generics of the declaration.
func (b *ImplBuilder) Generics(g *parse.Generics) *ImplBuilder {
	if b.gen.checkOpen("Generics") == nil {
		b.block.generics = g
	}
	return b
}

// Bound adds `param: bound` to the where-clause.
func (b *ImplBuilder) Bound(param, bound string) *ImplBuilder {
	return b.Where(param + ": " + bound)
}

// BoundEach bounds every type parameter of the declaration.
func (b *ImplBuilder) BoundEach(bound string) *ImplBuilder {
	for _, p := range b.block.generics.TypeParams() {
		b.Bound(p.Ident(), bound)
	}
	return b
}

func (b *ImplBuilder) Where(predicate string) *ImplBuilder {
	if b.gen.checkOpen("Where") == nil {
		if pred := b.gen.lex(predicate); len(pred) > 0 {
			b.block.where = append(b.block.where, pred)
		}
	}
	return b
}

// ClearWhere drops the declaration's where-clause. Predicates added with Where are kept.
func (b *ImplBuilder) ClearWhere() *ImplBuilder {
	if b.gen.checkOpen("ClearWhere") == nil {
		b.block.clearWhere = true
	}
	return b
}

// WithLifetime adds an impl lifetime that outlives every lifetime of the declaration,
// and passes it to the interface, as in `impl<'de, 'a> Read<'de> for Foo<'a>`.
func (b *ImplBuilder) WithLifetime(name string) *ImplBuilder {
	if b.gen.checkOpen("WithLifetime") == nil {
		b.block.lifetimes = append(b.block.lifetimes, strings.TrimPrefix(name, "'"))
	}
	return b
}

func (b *ImplBuilder) AddFunction(name string) *FnBuilder {
	fn := &function{name: name, body: &StreamBuilder{}}
	if b.gen.checkOpen("AddFunction") == nil {
		b.block.members = append(b.block.members, fn)
	}
	return &FnBuilder{gen: b.gen, fn: fn}
}

// AddConst declares `const name: ty = ...;`, with the value set by ConstBuilder.Value.
func (b *ImplBuilder) AddConst(name, ty string) *ConstBuilder {
	c := &constItem{name: name, ty: b.gen.lex(ty), value: &StreamBuilder{}}
	if b.gen.checkOpen("AddConst") == nil {
		b.block.members = append(b.block.members, c)
	}
	return &ConstBuilder{gen: b.gen, item: c}
}

// AddType declares `type name = ty;`.
func (b *ImplBuilder) AddType(name, ty string) *ImplBuilder {
	if b.gen.checkOpen("AddType") == nil {
		b.block.members = append(b.block.members, &typeItem{name: name, ty: b.gen.lex(ty)})
	}
	return b
}

type constItem struct {
	name  string
	ty    tokens.Stream
	value *StreamBuilder
}

type ConstBuilder struct {
	gen  *Generator
	item *constItem
}

func (c *ConstBuilder) Value(build func(*StreamBuilder) error) error {
	if err := c.gen.checkOpen("Value"); err != nil {
		return err
	}
	if err := build(c.item.value); err != nil {
		return c.gen.fail(err)
	}
	return nil
}

type typeItem struct {
	name string
	ty   tokens.Stream
}
