package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"strings"
)

type function struct {
	name     string
	attrs    []tokens.Stream
	public   bool
	async    bool
	receiver Receiver
	generics []tokens.Stream
	args     []arg
	ret      tokens.Stream
	body     *StreamBuilder
}

type arg struct {
	pattern tokens.Stream
	ty      tokens.Stream
}

type FnBuilder struct {
	gen *Generator
	fn  *function
}

// Receiver sets how the function takes self. The last call wins.
func (f *FnBuilder) Receiver(mode Receiver) *FnBuilder {
	if f.gen.checkOpen("Receiver") == nil {
		f.fn.receiver = mode
	}
	return f
}

func (f *FnBuilder) Arg(name, ty string) *FnBuilder {
	if f.gen.checkOpen("Arg") == nil {
		f.fn.args = append(f.fn.args, arg{pattern: f.gen.lex(name), ty: f.gen.lex(ty)})
	}
	return f
}

func (f *FnBuilder) Returns(ty string) *FnBuilder {
	return f.ReturnsTokens(f.gen.lex(ty))
}

func (f *FnBuilder) ReturnsTokens(ty tokens.Stream) *FnBuilder {
	if f.gen.checkOpen("Returns") == nil {
		f.fn.ret = ty
	}
	return f
}

// Generic adds a type parameter to the function, `name: b1 + b2`.
func (f *FnBuilder) Generic(name string, bounds ...string) *FnBuilder {
	param := name
	if len(bounds) > 0 {
		param += ": " + strings.Join(bounds, " + ")
	}
	if f.gen.checkOpen("Generic") == nil {
		f.fn.generics = append(f.fn.generics, f.gen.lex(param))
	}
	return f
}

// Lifetime adds a lifetime parameter, `'name: 'o1 + 'o2`.
func (f *FnBuilder) Lifetime(name string, outlives ...string) *FnBuilder {
	param := "'" + strings.TrimPrefix(name, "'")
	for i, o := range outlives {
		sep := " + "
		if i == 0 {
			sep = ": "
		}
		param += sep + "'" + strings.TrimPrefix(o, "'")
	}
	if f.gen.checkOpen("Lifetime") == nil {
		f.fn.generics = append(f.fn.generics, f.gen.lex(param))
	}
	return f
}

// Attr adds an outer attribute; text is what goes inside `#[...]`.
func (f *FnBuilder) Attr(text string) *FnBuilder {
	if f.gen.checkOpen("Attr") == nil {
		f.fn.attrs = append(f.fn.attrs, f.gen.lex(text))
	}
	return f
}

func (f *FnBuilder) Public() *FnBuilder {
	if f.gen.checkOpen("Public") == nil {
		f.fn.public = true
	}
	return f
}

func (f *FnBuilder) Async() *FnBuilder {
	if f.gen.checkOpen("Async") == nil {
		f.fn.async = true
	}
	return f
}

// Body runs build against the function's statement sequence. Calling it again appends.
func (f *FnBuilder) Body(build func(*StreamBuilder) error) error {
	if err := f.gen.checkOpen("Body"); err != nil {
		return err
	}
	if err := build(f.fn.body); err != nil {
		return f.gen.fail(err)
	}
	return nil
}

// receiverTokens renders self in the given mode.
func receiverTokens(mode Receiver) tokens.Stream {
	var span diag.Span
	self := tokens.NewIdent("self", span)
	amp := tokens.NewPunct("&", tokens.Alone, span)
	switch mode {
	case ByValue:
		return tokens.Stream{self}
	case ByRef:
		return tokens.Stream{amp, self}
	case ByMutRef:
		return tokens.Stream{amp, tokens.NewIdent("mut", span), self}
	}
	return nil
}
