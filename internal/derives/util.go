package derives

import (
	"fmt"
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
)

// construct pushes `path { a: value(a) }`, `path(value(0))` or `path`, depending on the
// shape of fields.
func construct(sb *generate.StreamBuilder, path string, fields parse.Fields, value func(parse.Field) string) error {
	if err := sb.PushParsed(path); err != nil {
		return err
	}
	if fields.Shape == parse.Unit {
		return nil
	}
	return sb.Group(fields.Delimiter(), func(inner *generate.StreamBuilder) error {
		for i, f := range fields.List {
			if i > 0 {
				inner.Punct(",")
			}
			if fields.Shape == parse.Named {
				inner.IdentToken(f.Name).Punct(":")
			}
			if err := inner.PushParsed(value(f)); err != nil {
				return err
			}
		}
		return nil
	})
}

// bindPattern pushes a pattern binding every field: `path { a, b }`, `path(f0, f1)` or
// `path`. Positional fields are bound as prefix followed by the index.
func bindPattern(sb *generate.StreamBuilder, path string, fields parse.Fields, prefix string) error {
	if err := sb.PushParsed(path); err != nil {
		return err
	}
	if fields.Shape == parse.Unit {
		return nil
	}
	return sb.Group(fields.Delimiter(), func(inner *generate.StreamBuilder) error {
		for i, f := range fields.List {
			if i > 0 {
				inner.Punct(",")
			}
			inner.Ident(f.Ident(prefix))
		}
		return nil
	})
}

// restPattern pushes a pattern that ignores the fields: `path { .. }`, `path(..)` or `path`.
func restPattern(sb *generate.StreamBuilder, path string, fields parse.Fields) error {
	if err := sb.PushParsed(path); err != nil {
		return err
	}
	if fields.Shape == parse.Unit {
		return nil
	}
	return sb.Group(fields.Delimiter(), func(inner *generate.StreamBuilder) error {
		inner.Punct("..")
		return nil
	})
}

// matchSelf pushes `match self { arm, ... }` with one arm per variant.
func matchSelf(sb *generate.StreamBuilder, variants []parse.Variant, arm func(*generate.StreamBuilder, parse.Variant) error) error {
	sb.Ident("match").Ident("self")
	return sb.Group(tokens.Brace, func(arms *generate.StreamBuilder) error {
		for _, v := range variants {
			if err := arm(arms, v); err != nil {
				return err
			}
			arms.Punct(",")
		}
		return nil
	})
}

func variantPath(v parse.Variant) string {
	return fmt.Sprintf("Self::%s", v.Ident())
}
