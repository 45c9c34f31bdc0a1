package derives

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
)

func defaultValue(parse.Field) string {
	return "Default::default()"
}

// Default builds every field with Default::default(). Enums return the variant marked
// #[default], which has to be a unit variant.
func Default(decl *parse.Declaration, g *generate.Generator) error {
	var build func(sb *generate.StreamBuilder) error
	switch body := decl.Body.(type) {
	case *parse.Aggregate:
		build = func(sb *generate.StreamBuilder) error {
			return construct(sb, "Self", body.Fields, defaultValue)
		}
	case *parse.Variants:
		v, err := defaultVariant(decl, body)
		if err != nil {
			return err
		}
		build = func(sb *generate.StreamBuilder) error {
			return sb.PushParsed(variantPath(v))
		}
	}

	return g.Implement("Default").
		BoundEach("Default").
		AddFunction("default").
		Returns("Self").
		Body(build)
}

func defaultVariant(decl *parse.Declaration, body *parse.Variants) (parse.Variant, error) {
	var found *parse.Variant
	for i, v := range body.List {
		attr, ok := v.Attributes.First("default")
		if !ok {
			continue
		}
		if found != nil {
			return parse.Variant{}, diag.CustomAt("multiple variants are marked #[default]", attr.Span)
		}
		if v.Fields.Shape != parse.Unit {
			return parse.Variant{}, diag.CustomAt("#[default] is only allowed on unit variants", v.Span)
		}
		found = &body.List[i]
	}
	if found == nil {
		return parse.Variant{}, diag.CustomAt("no default variant; mark one with #[default]", decl.Name.Span)
	}
	return *found, nil
}
