package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// Diagnostic converts err into `compile_error! { "message" }`, every token anchored at
// the error's span so the compiler reports it at the offending source. Errors without a
// span are reported at the call site.
func Diagnostic(err error) tokens.Stream {
	var span diag.Span
	msg := err.Error()
	if e, ok := diag.As(err); ok {
		span, msg = e.Span, e.Message
	}
	return tokens.Stream{
		tokens.NewIdent("compile_error", span),
		tokens.NewPunct("!", tokens.Alone, span),
		tokens.NewGroup(tokens.Brace, tokens.Stream{tokens.StringLit(msg, span)}, span),
	}
}
