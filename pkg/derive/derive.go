// Package derive is the host entry point: it takes the tokens of one declaration, runs
// derives against it and returns either the generated code or a diagnostic.
package derive

import (
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// Deriver adds implementations for decl to g.
type Deriver interface {
	Derive(decl *parse.Declaration, g *generate.Generator) error
}

type DeriverFunc func(decl *parse.Declaration, g *generate.Generator) error

func (f DeriverFunc) Derive(decl *parse.Declaration, g *generate.Generator) error {
	return f(decl, g)
}

// Expand parses input and runs every deriver against one generator. Any failure is
// returned as a compile_error diagnostic in place of the generated code.
func Expand(input tokens.Stream, derivers ...Deriver) tokens.Stream {
	decl, err := parse.Parse(input)
	if err != nil {
		return generate.Diagnostic(err)
	}
	out, err := Declaration(decl, derivers...)
	if err != nil {
		return generate.Diagnostic(err)
	}
	return out
}

// ExpandSource lexes src and expands it.
func ExpandSource(src string, derivers ...Deriver) tokens.Stream {
	input, err := tokens.Lex(src)
	if err != nil {
		return generate.Diagnostic(err)
	}
	return Expand(input, derivers...)
}

// Declaration runs the derivers against an already parsed declaration and renders the
// result. The first error stops it.
func Declaration(decl *parse.Declaration, derivers ...Deriver) (tokens.Stream, error) {
	g := generate.New(decl)
	for _, d := range derivers {
		if err := d.Derive(decl, g); err != nil {
			return nil, err
		}
	}
	return g.Finish()
}
