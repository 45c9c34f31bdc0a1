package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

type fieldItem struct {
	name   tokens.Token
	public bool
	ty     tokens.Stream
}

// fieldSet is the body of a generated struct or variant.
type fieldSet struct {
	shape  parse.Shape
	fields []fieldItem
}

func (fs *fieldSet) add(g *Generator, owner, name, ty string, public bool) {
	if fs.shape == parse.Unit {
		g.fail(diag.Misuse("field %s added to unit %s", name, owner))
		return
	}
	f := fieldItem{public: public, ty: g.lex(ty)}
	if fs.shape == parse.Named {
		f.name = g.ident(name, "field name")
	}
	fs.fields = append(fs.fields, f)
}

func (fs *fieldSet) reshape(g *Generator, owner string, shape parse.Shape) {
	if shape == parse.Unit && len(fs.fields) > 0 {
		g.fail(diag.Misuse("%s already has fields", owner))
		return
	}
	fs.shape = shape
}

func (fs *fieldSet) tokens() tokens.Stream {
	if fs.shape == parse.Unit {
		return nil
	}
	sb := &StreamBuilder{}
	for _, f := range fs.fields {
		if f.public {
			sb.Ident("pub")
		}
		if fs.shape == parse.Named {
			sb.IdentToken(f.name).Punct(":")
		}
		sb.Extend(f.ty).Punct(",")
	}
	delim := tokens.Brace
	if fs.shape == parse.Tuple {
		delim = tokens.Paren
	}
	return tokens.Stream{tokens.NewGroup(delim, sb.Stream(), diag.Span{})}
}

type structItem struct {
	name   tokens.Token
	public bool
	body   fieldSet
	impls  []item
}

// StructBuilder describes a new struct. Fields are named unless Tuple or Unit is called
// first.
type StructBuilder struct {
	gen  *Generator
	item *structItem
}

func (g *Generator) newStruct(into *[]item, name string) *StructBuilder {
	s := &structItem{name: g.ident(name, "struct name"), body: fieldSet{shape: parse.Named}}
	if g.checkOpen("GenerateStruct") == nil {
		*into = append(*into, s)
	}
	return &StructBuilder{gen: g, item: s}
}

func (b *StructBuilder) Public() *StructBuilder {
	if b.gen.checkOpen("Public") == nil {
		b.item.public = true
	}
	return b
}

// Tuple makes the fields positional; field names are ignored.
func (b *StructBuilder) Tuple() *StructBuilder {
	if b.gen.checkOpen("Tuple") == nil {
		b.item.body.reshape(b.gen, "struct "+b.item.name.Text, parse.Tuple)
	}
	return b
}

// Unit makes the struct `struct Name;`. Adding a field afterwards is a misuse.
func (b *StructBuilder) Unit() *StructBuilder {
	if b.gen.checkOpen("Unit") == nil {
		b.item.body.reshape(b.gen, "struct "+b.item.name.Text, parse.Unit)
	}
	return b
}

func (b *StructBuilder) Field(name, ty string) *StructBuilder {
	if b.gen.checkOpen("Field") == nil {
		b.item.body.add(b.gen, "struct "+b.item.name.Text, name, ty, false)
	}
	return b
}

func (b *StructBuilder) PubField(name, ty string) *StructBuilder {
	if b.gen.checkOpen("PubField") == nil {
		b.item.body.add(b.gen, "struct "+b.item.name.Text, name, ty, true)
	}
	return b
}

// Impl opens an inherent impl for the new struct, rendered right after it.
func (b *StructBuilder) Impl() *ImplBuilder {
	return b.gen.open(&b.item.impls, &implBlock{target: b.item.name}, "Impl")
}

// Implement opens `impl iface for Name`, rendered right after the struct.
func (b *StructBuilder) Implement(iface string) *ImplBuilder {
	return b.gen.open(&b.item.impls, &implBlock{iface: b.gen.iface(iface), target: b.item.name}, "Implement")
}

func (s *structItem) render(r *renderer) {
	if s.public {
		r.sb.Ident("pub")
	}
	r.sb.Ident("struct").IdentToken(s.name).Extend(s.body.tokens())
	if s.body.shape != parse.Named {
		r.sb.Punct(";")
	}
	r.items(s.impls)
}

type variantItem struct {
	name tokens.Token
	body fieldSet
}

type enumItem struct {
	name     tokens.Token
	public   bool
	variants []*variantItem
	impls    []item
}

type EnumBuilder struct {
	gen  *Generator
	item *enumItem
}

func (g *Generator) newEnum(into *[]item, name string) *EnumBuilder {
	e := &enumItem{name: g.ident(name, "enum name")}
	if g.checkOpen("GenerateEnum") == nil {
		*into = append(*into, e)
	}
	return &EnumBuilder{gen: g, item: e}
}

func (b *EnumBuilder) Public() *EnumBuilder {
	if b.gen.checkOpen("Public") == nil {
		b.item.public = true
	}
	return b
}

// AddVariant appends a variant with named fields; use VariantBuilder.Unit or Tuple to
// change its shape.
func (b *EnumBuilder) AddVariant(name string) *VariantBuilder {
	v := &variantItem{name: b.gen.ident(name, "variant name"), body: fieldSet{shape: parse.Named}}
	if b.gen.checkOpen("AddVariant") == nil {
		b.item.variants = append(b.item.variants, v)
	}
	return &VariantBuilder{gen: b.gen, item: v}
}

func (b *EnumBuilder) Impl() *ImplBuilder {
	return b.gen.open(&b.item.impls, &implBlock{target: b.item.name}, "Impl")
}

func (b *EnumBuilder) Implement(iface string) *ImplBuilder {
	return b.gen.open(&b.item.impls, &implBlock{iface: b.gen.iface(iface), target: b.item.name}, "Implement")
}

type VariantBuilder struct {
	gen  *Generator
	item *variantItem
}

func (v *VariantBuilder) Tuple() *VariantBuilder {
	if v.gen.checkOpen("Tuple") == nil {
		v.item.body.reshape(v.gen, "variant "+v.item.name.Text, parse.Tuple)
	}
	return v
}

func (v *VariantBuilder) Unit() *VariantBuilder {
	if v.gen.checkOpen("Unit") == nil {
		v.item.body.reshape(v.gen, "variant "+v.item.name.Text, parse.Unit)
	}
	return v
}

func (v *VariantBuilder) Field(name, ty string) *VariantBuilder {
	if v.gen.checkOpen("Field") == nil {
		v.item.body.add(v.gen, "variant "+v.item.name.Text, name, ty, false)
	}
	return v
}

func (v *VariantBuilder) PubField(name, ty string) *VariantBuilder {
	if v.gen.checkOpen("PubField") == nil {
		v.item.body.add(v.gen, "variant "+v.item.name.Text, name, ty, true)
	}
	return v
}

func (e *enumItem) render(r *renderer) {
	if e.public {
		r.sb.Ident("pub")
	}
	body := &StreamBuilder{}
	for _, v := range e.variants {
		body.IdentToken(v.name).Extend(v.body.tokens()).Punct(",")
	}
	r.sb.Ident("enum").IdentToken(e.name).Extend(tokens.Stream{tokens.NewGroup(tokens.Brace, body.Stream(), diag.Span{})})
	r.items(e.impls)
}

type modItem struct {
	name   tokens.Token
	public bool
	uses   []tokens.Stream
	items  []item
}

// ModBuilder describes `mod name { ... }`. Its contents render in the order they were
// added, after the `use` declarations.
type ModBuilder struct {
	gen  *Generator
	item *modItem
}

func (g *Generator) newMod(into *[]item, name string) *ModBuilder {
	m := &modItem{name: g.ident(name, "module name")}
	if g.checkOpen("GenerateMod") == nil {
		*into = append(*into, m)
	}
	return &ModBuilder{gen: g, item: m}
}

func (b *ModBuilder) Public() *ModBuilder {
	if b.gen.checkOpen("Public") == nil {
		b.item.public = true
	}
	return b
}

// Use adds `use path;`.
func (b *ModBuilder) Use(path string) *ModBuilder {
	if b.gen.checkOpen("Use") != nil {
		return b
	}
	p := b.gen.lex(path)
	if len(p) == 0 {
		b.gen.fail(diag.New(diag.MalformedFragment, diag.Span{}, "empty use path"))
		return b
	}
	b.item.uses = append(b.item.uses, p)
	return b
}

func (b *ModBuilder) GenerateStruct(name string) *StructBuilder {
	return b.gen.newStruct(&b.item.items, name)
}

func (b *ModBuilder) GenerateEnum(name string) *EnumBuilder {
	return b.gen.newEnum(&b.item.items, name)
}

func (b *ModBuilder) GenerateMod(name string) *ModBuilder {
	return b.gen.newMod(&b.item.items, name)
}

// Impl opens an inherent impl inside the module for the type named target.
func (b *ModBuilder) Impl(target string) *ImplBuilder {
	return b.gen.open(&b.item.items, &implBlock{target: b.gen.ident(target, "impl target")}, "Impl")
}

// Implement opens `impl iface for target` inside the module.
func (b *ModBuilder) Implement(iface, target string) *ImplBuilder {
	block := &implBlock{iface: b.gen.iface(iface), target: b.gen.ident(target, "impl target")}
	return b.gen.open(&b.item.items, block, "Implement")
}

func (m *modItem) render(r *renderer) {
	inner := &renderer{sb: &StreamBuilder{}}
	for _, u := range m.uses {
		inner.sb.Ident("use").Extend(u).Punct(";")
	}
	inner.items(m.items)
	if m.public {
		r.sb.Ident("pub")
	}
	r.sb.Ident("mod").IdentToken(m.name).Extend(tokens.Stream{tokens.NewGroup(tokens.Brace, inner.sb.Stream(), diag.Span{})})
}
