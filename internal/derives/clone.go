package derives

import (
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
)

// Clone implements Clone by cloning every field, with each type parameter bounded by
// Clone.
func Clone(decl *parse.Declaration, g *generate.Generator) error {
	return g.Implement("Clone").
		BoundEach("Clone").
		AddFunction("clone").
		Receiver(generate.ByRef).
		Returns("Self").
		Body(func(sb *generate.StreamBuilder) error {
			switch body := decl.Body.(type) {
			case *parse.Aggregate:
				return construct(sb, "Self", body.Fields, func(f parse.Field) string {
					return "self." + f.Accessor() + ".clone()"
				})
			case *parse.Variants:
				return matchSelf(sb, body.List, func(arm *generate.StreamBuilder, v parse.Variant) error {
					if err := bindPattern(arm, variantPath(v), v.Fields, "f"); err != nil {
						return err
					}
					arm.Punct("=>")
					return construct(arm, variantPath(v), v.Fields, func(f parse.Field) string {
						return f.Ident("f") + ".clone()"
					})
				})
			}
			return nil
		})
}
