package mirror

import (
	"github.com/dave/jennifer/jen"
)

type Node interface {
	GenerateAST(g *jen.Group)
}

type Field struct {
	Name string
	Type *jen.Statement
	Tag  map[string]string
}

// Struct is a Go struct. Marker names the method of a sealed interface the struct
// implements; it is empty for a standalone struct.
type Struct struct {
	Name   string
	Params []string
	Fields []Field
	Doc    string
	Marker string
}

type EnumValue struct {
	Name  string
	Label string
	Value int64
}

// Enum is a named int with one constant per unit variant. Explicit enums spell out
// every value instead of counting with iota.
type Enum struct {
	Name     string
	Values   []EnumValue
	Explicit bool
	Doc      string
}

type Sealed struct {
	Name     string
	Params   []string
	Variants []*Struct
	Doc      string
}

func declName(name string, params []string) *jen.Statement {
	s := jen.Id(name)
	if len(params) > 0 {
		s.TypesFunc(func(g *jen.Group) {
			for _, p := range params {
				g.Id(p).Any()
			}
		})
	}
	return s
}

func instName(name string, params []string) *jen.Statement {
	s := jen.Id(name)
	if len(params) > 0 {
		s.TypesFunc(func(g *jen.Group) {
			for _, p := range params {
				g.Id(p)
			}
		})
	}
	return s
}

/*
	type {{.Name}}[T any] struct {
		Field Type `json:"field"`
	}
*/
func (s *Struct) GenerateAST(g *jen.Group) {
	if s.Doc != "" {
		g.Comment(s.Doc)
	}
	g.Type().Add(declName(s.Name, s.Params)).StructFunc(func(sg *jen.Group) {
		for _, f := range s.Fields {
			sg.Id(f.Name).Add(f.Type).Tag(f.Tag)
		}
	})
	if s.Marker != "" {
		g.Func().Params(instName(s.Name, s.Params)).Id(s.Marker).Params().Block()
	}
}

/*
	type {{.Name}} int

	const (
		{{.Name}}A {{.Name}} = iota
		{{.Name}}B
	)

	func (x {{.Name}}) String() string {
		...
	}
*/
func (e *Enum) GenerateAST(g *jen.Group) {
	if e.Doc != "" {
		g.Comment(e.Doc)
	}
	g.Type().Id(e.Name).Int()
	g.Const().DefsFunc(func(cg *jen.Group) {
		for i, v := range e.Values {
			switch {
			case e.Explicit:
				cg.Id(e.Name + v.Name).Id(e.Name).Op("=").Lit(int(v.Value))
			case i == 0:
				cg.Id(e.Name + v.Name).Id(e.Name).Op("=").Iota()
			default:
				cg.Id(e.Name + v.Name)
			}
		}
	})
	g.Func().Params(jen.Id("x").Id(e.Name)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("x")).BlockFunc(func(sg *jen.Group) {
			for _, v := range e.Values {
				sg.Case(jen.Id(e.Name + v.Name)).Block(jen.Return(jen.Lit(v.Label)))
			}
		}),
		jen.Return(
			jen.Lit(e.Name+"(").Op("+").Qual("strconv", "Itoa").Call(jen.Int().Parens(jen.Id("x"))).Op("+").Lit(")"),
		),
	)
}

/*
	type {{.Name}} interface {
		is{{.Name}}()
	}
*/
func (s *Sealed) GenerateAST(g *jen.Group) {
	if s.Doc != "" {
		g.Comment(s.Doc)
	}
	g.Type().Add(declName(s.Name, s.Params)).Interface(jen.Id(marker(s.Name)).Params())
	for _, v := range s.Variants {
		v.GenerateAST(g)
	}
}

func marker(name string) string {
	return "is" + name
}
