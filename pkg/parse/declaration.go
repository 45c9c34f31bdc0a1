// Package parse recovers the structure of a struct or enum declaration from its token
// stream: attributes, visibility, name, generics with their where-clause, and the
// fields or variants of its body. Types are kept as raw token streams.
package parse

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"strconv"
)

type DataType int

const (
	Struct DataType = iota + 1
	Enum
)

func (d DataType) String() string {
	switch d {
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	}
	return "unknown"
}

// Declaration is the result of parsing one struct or enum. It is never partially
// filled: Parse returns either a complete Declaration or an error.
type Declaration struct {
	Attributes Attributes
	Visibility Visibility
	DataType   DataType
	Keyword    tokens.Token
	Name       tokens.Token
	// Generics is nil when the declaration has neither a parameter list nor a
	// where-clause.
	Generics *Generics
	Body     Body
	Span     diag.Span
}

func (d *Declaration) Ident() string {
	return d.Name.Text
}

func (d *Declaration) Aggregate() (*Aggregate, bool) {
	a, ok := d.Body.(*Aggregate)
	return a, ok
}

func (d *Declaration) Variants() (*Variants, bool) {
	v, ok := d.Body.(*Variants)
	return v, ok
}

// Body is either *Aggregate or *Variants.
type Body interface {
	isBody()
}

type Aggregate struct {
	Fields Fields
}

type Variants struct {
	List []Variant
}

func (*Aggregate) isBody() {}
func (*Variants) isBody()  {}

type VisibilityKind int

const (
	Private VisibilityKind = iota
	Public
)

type Visibility struct {
	Kind VisibilityKind
	// Tokens holds `pub` and any restriction such as `(crate)` exactly as written.
	Tokens tokens.Stream
}

func (v Visibility) IsPublic() bool {
	return v.Kind == Public
}

type Shape int

const (
	Unit Shape = iota
	Tuple
	Named
)

func (s Shape) String() string {
	switch s {
	case Tuple:
		return "tuple"
	case Named:
		return "named"
	}
	return "unit"
}

type Fields struct {
	Shape Shape
	List  []Field
	Span  diag.Span
}

func (f Fields) Len() int {
	return len(f.List)
}

// Delimiter is the group the fields are written in, NoDelim for unit.
func (f Fields) Delimiter() tokens.Delimiter {
	switch f.Shape {
	case Tuple:
		return tokens.Paren
	case Named:
		return tokens.Brace
	}
	return tokens.NoDelim
}

// Names returns the field names, or prefix followed by the index for positional fields.
func (f Fields) Names(prefix string) []string {
	names := make([]string, len(f.List))
	for i, field := range f.List {
		names[i] = field.Ident(prefix)
	}
	return names
}

type Field struct {
	// Name is the zero Token for positional fields.
	Name       tokens.Token
	Index      int
	Visibility Visibility
	Type       tokens.Stream
	Attributes Attributes
	Span       diag.Span
}

func (f Field) Named() bool {
	return f.Name.Kind == tokens.Ident
}

// Ident is the field name, or prefix+index for a positional field (`prefix` "f" gives
// "f0", "f1", ...).
func (f Field) Ident(prefix string) string {
	if f.Named() {
		return f.Name.Text
	}
	return prefix + strconv.Itoa(f.Index)
}

// Accessor is what follows the dot in a field access: the name or the index.
func (f Field) Accessor() string {
	return f.Ident("")
}

func (f Field) TypeString() string {
	return f.Type.String()
}

type Variant struct {
	Name   tokens.Token
	Fields Fields
	// Discriminant holds the tokens after `=`, nil when there is none.
	Discriminant tokens.Stream
	Attributes   Attributes
	Span         diag.Span
}

func (v Variant) Ident() string {
	return v.Name.Text
}

func (v Variant) HasDiscriminant() bool {
	return v.Discriminant != nil
}
