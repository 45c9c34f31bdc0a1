package derives

import (
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
)

// Hi adds an inherent `fn hi(&self) -> &'static str` returning "hi".
func Hi(_ *parse.Declaration, g *generate.Generator) error {
	return g.Impl().
		AddFunction("hi").
		Receiver(generate.ByRef).
		Returns("&'static str").
		Body(func(sb *generate.StreamBuilder) error {
			sb.LitStr("hi")
			return nil
		})
}
