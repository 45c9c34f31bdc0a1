package derives

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

type describeOpts struct {
	rename string
	skip   bool
}

// describeOptions reads #[describe(rename = "...", skip)].
func describeOptions(attrs parse.Attributes) (describeOpts, error) {
	var opts describeOpts
	for _, attr := range attrs.Get("describe") {
		items, err := attr.Meta()
		if err != nil {
			return opts, err
		}
		for _, item := range items {
			switch {
			case item.Path == "skip" && item.IsFlag():
				opts.skip = true
			case item.Path == "rename":
				name, ok := item.Str()
				if !ok {
					return opts, diag.CustomAt("rename expects a string literal", item.Span)
				}
				opts.rename = name
			default:
				return opts, diag.CustomAt("unknown describe option `"+item.Path+"`", item.Span)
			}
		}
	}
	return opts, nil
}

func describedName(name string, attrs parse.Attributes) (string, bool, error) {
	opts, err := describeOptions(attrs)
	if err != nil {
		return "", false, err
	}
	if opts.rename != "" {
		name = opts.rename
	}
	return name, opts.skip, nil
}

// Describe implements Describe: FIELDS lists the field names (or variant names for an
// enum) and describe returns the type name, or the name of the current variant.
func Describe(decl *parse.Declaration, g *generate.Generator) error {
	typeName, _, err := describedName(decl.Ident(), decl.Attributes)
	if err != nil {
		return err
	}

	var names []string
	var variants []parse.Variant
	var variantNames []string
	switch body := decl.Body.(type) {
	case *parse.Aggregate:
		for _, f := range body.Fields.List {
			name, skip, err := describedName(f.Accessor(), f.Attributes)
			if err != nil {
				return err
			}
			if !skip {
				names = append(names, name)
			}
		}
	case *parse.Variants:
		variants = body.List
		for _, v := range body.List {
			name, skip, err := describedName(v.Ident(), v.Attributes)
			if err != nil {
				return err
			}
			variantNames = append(variantNames, name)
			if !skip {
				names = append(names, name)
			}
		}
	}

	impl := g.Implement("Describe")
	err = impl.AddConst("FIELDS", "&'static [&'static str]").Value(func(sb *generate.StreamBuilder) error {
		sb.Punct("&")
		return sb.Group(tokens.Bracket, func(list *generate.StreamBuilder) error {
			for i, name := range names {
				if i > 0 {
					list.Punct(",")
				}
				list.LitStr(name)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	return impl.AddFunction("describe").
		Receiver(generate.ByRef).
		Returns("&'static str").
		Body(func(sb *generate.StreamBuilder) error {
			if variants == nil {
				sb.LitStr(typeName)
				return nil
			}
			i := 0
			return matchSelf(sb, variants, func(arm *generate.StreamBuilder, v parse.Variant) error {
				if err := restPattern(arm, variantPath(v), v.Fields); err != nil {
					return err
				}
				arm.Punct("=>").LitStr(variantNames[i])
				i++
				return nil
			})
		})
}
