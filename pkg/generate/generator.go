// Package generate builds implementation blocks for a parsed declaration and renders
// them to tokens. It can also emit new structs, enums and modules next to them.
//
// Calls chain in the style of a fluent builder:
//
//	g := generate.New(decl)
//	g.Implement("Clone").AddFunction("clone").Receiver(generate.ByRef).Returns("Self").Body(...)
//	out, err := g.Finish()
//
// Errors made while chaining are held by the Generator and returned by Finish. Body and
// the other callback methods also return them directly.
package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

type Receiver = parse.Receiver

const (
	None     = parse.NoReceiver
	ByValue  = parse.ByValue
	ByRef    = parse.ByRef
	ByMutRef = parse.ByMutRef
)

type Generator struct {
	decl     *parse.Declaration
	items    []item
	err      error
	finished bool
}

func New(decl *parse.Declaration) *Generator {
	return &Generator{decl: decl}
}

func (g *Generator) Declaration() *parse.Declaration {
	return g.decl
}

// TargetName is the name of the type being implemented.
func (g *Generator) TargetName() string {
	return g.decl.Ident()
}

// Err returns the first error recorded while building.
func (g *Generator) Err() error {
	return g.err
}

func (g *Generator) fail(err error) error {
	if g.err == nil {
		g.err = err
	}
	return err
}

// checkOpen records and returns a BuilderMisuse when the generator has already been
// finished.
func (g *Generator) checkOpen(op string) error {
	if !g.finished {
		return nil
	}
	return g.fail(diag.Misuse("%s called after Finish", op))
}

// lex turns builder text such as a type or a bound into tokens at the call site.
func (g *Generator) lex(code string) tokens.Stream {
	s, err := tokens.Lex(code)
	if err != nil {
		g.fail(malformed(diag.Span{}, code, err))
		return nil
	}
	return s.WithSpan(diag.Span{})
}

// Implement opens `impl<G> iface for Name<G>`, forwarding the declaration's generics and
// where-clause.
func (g *Generator) Implement(iface string) *ImplBuilder {
	b := &implBlock{iface: g.iface(iface), target: g.decl.Name, generics: g.decl.Generics}
	return g.open(&g.items, b, "Implement")
}

// Impl opens an inherent `impl<G> Name<G>` block.
func (g *Generator) Impl() *ImplBuilder {
	return g.open(&g.items, &implBlock{target: g.decl.Name, generics: g.decl.Generics}, "Impl")
}

// GenerateStruct emits a new struct after the blocks opened so far.
func (g *Generator) GenerateStruct(name string) *StructBuilder {
	return g.newStruct(&g.items, name)
}

// GenerateEnum emits a new enum after the blocks opened so far.
func (g *Generator) GenerateEnum(name string) *EnumBuilder {
	return g.newEnum(&g.items, name)
}

// GenerateMod emits a `mod name { ... }` after the blocks opened so far.
func (g *Generator) GenerateMod(name string) *ModBuilder {
	return g.newMod(&g.items, name)
}

func (g *Generator) iface(path string) tokens.Stream {
	s := g.lex(path)
	if len(s) == 0 && g.err == nil {
		g.fail(diag.New(diag.MalformedFragment, diag.Span{}, "empty interface path"))
	}
	return s
}

// ident lexes a name that must be a single identifier.
func (g *Generator) ident(name, what string) tokens.Token {
	s := g.lex(name)
	if len(s) != 1 || s[0].Kind != tokens.Ident {
		g.fail(diag.New(diag.MalformedFragment, diag.Span{}, "%s %q is not an identifier", what, name))
		return tokens.NewIdent(name, diag.Span{})
	}
	return s[0]
}

func (g *Generator) open(into *[]item, b *implBlock, op string) *ImplBuilder {
	if g.checkOpen(op) == nil {
		*into = append(*into, b)
	}
	return &ImplBuilder{gen: g, block: b}
}

// Finish renders every block and item in the order it was opened. The generator cannot be used
// afterwards.
func (g *Generator) Finish() (tokens.Stream, error) {
	if g.finished {
		return nil, g.fail(diag.Misuse("Finish called twice"))
	}
	g.finished = true
	if g.err != nil {
		return nil, g.err
	}
	out := g.render()
	g.items = nil
	return out, nil
}
