// Package mirror renders Go equivalents of parsed declarations, so that Go code can
// exchange JSON with the types the derives were generated for.
package mirror

import (
	"fmt"
	"github.com/dave/jennifer/jen"
	"github.com/predakanga/derive_gen/pkg"
	"github.com/predakanga/derive_gen/pkg/parse"
	log "github.com/sirupsen/logrus"
	"io"
)

// Render writes a Go file holding the mirror of every declaration.
func Render(w io.Writer, packageName string, decls []*parse.Declaration) error {
	f := jen.NewFile(packageName)
	f.HeaderComment(fmt.Sprintf("Code generated by %s %s. DO NOT EDIT.", pkg.Name, pkg.VersionString))
	for _, decl := range decls {
		for _, node := range Build(decl) {
			node.GenerateAST(f.Group)
			f.Line()
		}
	}
	return f.Render(w)
}

// Build maps one declaration to its Go nodes.
func Build(decl *parse.Declaration) []Node {
	name := decl.Ident()
	m := &typeMapper{owner: name}
	for _, p := range decl.Generics.TypeParams() {
		m.params = append(m.params, p.Ident())
	}
	for _, p := range decl.Generics.Consts() {
		log.Debugf("Dropping const parameter %v of %v", p.Ident(), name)
	}
	opts := readOptions(name, decl.Attributes)
	doc := decl.Attributes.Docs()

	switch body := decl.Body.(type) {
	case *parse.Aggregate:
		s := m.structNode(name, body.Fields, opts.renameAll)
		s.Doc = doc
		return []Node{s}
	case *parse.Variants:
		if unitOnly(body.List) {
			e := enumNode(name, body.List, opts.renameAll)
			e.Doc = doc
			return []Node{e}
		}
		return []Node{m.sealedNode(name, body.List, opts.renameAll, doc)}
	}
	return nil
}

func (m *typeMapper) structNode(name string, fields parse.Fields, renameAll string) *Struct {
	s := &Struct{Name: name, Params: m.params}
	walkFields(name, fields, renameAll, func(f FieldInfo) bool {
		s.Fields = append(s.Fields, Field{
			Name: f.GoName,
			Type: m.goType(f.Field.Type),
			Tag:  f.Tag(),
		})
		return true
	})
	return s
}

func unitOnly(variants []parse.Variant) bool {
	for _, v := range variants {
		if v.Fields.Shape != parse.Unit {
			return false
		}
	}
	return true
}

func variantLabel(owner string, v parse.Variant, renameAll string) (string, options) {
	opts := readOptions(owner+"::"+v.Ident(), v.Attributes)
	label := v.Ident()
	if renameAll != "" {
		label = applyRenameAll(owner, label, renameAll)
	}
	if opts.rename != "" {
		label = opts.rename
	}
	return label, opts
}

func enumNode(name string, variants []parse.Variant, renameAll string) *Enum {
	e := &Enum{Name: name}
	var next int64
	for _, v := range variants {
		if v.HasDiscriminant() {
			e.Explicit = true
			if n, ok := intLiteral(v.Discriminant); ok {
				next = n
			} else {
				log.Warnf("Unsupported discriminant for %v::%v: %v", name, v.Ident(), v.Discriminant)
			}
		}
		label, _ := variantLabel(name, v, renameAll)
		e.Values = append(e.Values, EnumValue{Name: exported(v.Ident()), Label: label, Value: next})
		next++
	}
	return e
}

func (m *typeMapper) sealedNode(name string, variants []parse.Variant, renameAll, doc string) *Sealed {
	s := &Sealed{Name: name, Params: m.params, Doc: doc}
	for _, v := range variants {
		_, opts := variantLabel(name, v, renameAll)
		vs := m.structNode(name+exported(v.Ident()), v.Fields, opts.renameAll)
		vs.Marker = marker(name)
		vs.Doc = v.Attributes.Docs()
		s.Variants = append(s.Variants, vs)
	}
	return s
}
