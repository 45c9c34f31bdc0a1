package mirror

import (
	"github.com/dave/jennifer/jen"
	"github.com/predakanga/derive_gen/pkg/tokens"
	log "github.com/sirupsen/logrus"
	"regexp"
	"strconv"
	"strings"
)

var intSuffixRegex = regexp.MustCompile(`[iu](8|16|32|64|128|size)$`)

var primitives = map[string]func() *jen.Statement{
	"i8":     jen.Int8,
	"i16":    jen.Int16,
	"i32":    jen.Int32,
	"i64":    jen.Int64,
	"isize":  jen.Int,
	"u8":     jen.Uint8,
	"u16":    jen.Uint16,
	"u32":    jen.Uint32,
	"u64":    jen.Uint64,
	"usize":  jen.Uint,
	"f32":    jen.Float32,
	"f64":    jen.Float64,
	"bool":   jen.Bool,
	"char":   jen.Rune,
	"str":    jen.String,
	"String": jen.String,
}

type typeMapper struct {
	owner  string
	params []string
}

func (m *typeMapper) isParam(name string) bool {
	for _, p := range m.params {
		if p == name {
			return true
		}
	}
	return false
}

func (m *typeMapper) goType(ty tokens.Stream) *jen.Statement {
	// Start at the outer-most type and drill down until we find one we support
	cur := ty
	for {
		switch {
		case len(cur) == 0:
			return jen.Any()
		case cur[0].IsPunct("&") || cur[0].IsPunct("&&"):
			// References carry no meaning in Go, so drop them along with lifetime and mut
			cur = cur[1:]
			if len(cur) > 1 && cur[0].IsPunct("'") {
				cur = cur[2:]
			}
			if len(cur) > 0 && cur[0].IsIdent("mut") {
				cur = cur[1:]
			}
			continue
		case cur[0].IsPunct("*"):
			cur = cur[1:]
			if len(cur) > 0 && (cur[0].IsIdent("const") || cur[0].IsIdent("mut")) {
				cur = cur[1:]
			}
			return jen.Op("*").Add(m.goType(cur))
		case len(cur) == 1 && cur[0].IsGroup(tokens.Bracket):
			return m.arrayType(cur[0].Stream)
		case len(cur) == 1 && cur[0].IsGroup(tokens.Paren) && len(cur[0].Stream) == 0:
			return jen.Struct()
		case cur[0].IsIdent("dyn") || cur[0].IsIdent("impl"):
		case cur[0].Kind == tokens.Ident || cur[0].IsPunct("::"):
			if name, args, ok := splitPath(cur); ok {
				return m.named(name, args)
			}
		}
		log.Debugf("No Go equivalent for %v in %v; using any", cur, m.owner)
		return jen.Any()
	}
}

func (m *typeMapper) named(name string, args []tokens.Stream) *jen.Statement {
	if prim, ok := primitives[name]; ok && len(args) == 0 {
		return prim()
	}
	switch {
	case (name == "i128" || name == "u128") && len(args) == 0:
		return jen.Op("*").Qual("math/big", "Int")
	case (name == "Vec" || name == "VecDeque" || name == "LinkedList") && len(args) == 1:
		return jen.Index().Add(m.goType(args[0]))
	case (name == "HashSet" || name == "BTreeSet") && len(args) == 1:
		return jen.Map(m.goType(args[0])).Struct()
	case (name == "HashMap" || name == "BTreeMap") && len(args) == 2:
		return jen.Map(m.goType(args[0])).Add(m.goType(args[1]))
	case (name == "Option" || name == "Box" || name == "Rc" || name == "Arc") && len(args) == 1:
		return jen.Op("*").Add(m.goType(args[0]))
	case name == "Self" && len(args) == 0:
		return instName(m.owner, m.params)
	case m.isParam(name) && len(args) == 0:
		return jen.Id(name)
	}

	s := jen.Id(name)
	if len(args) > 0 {
		s.TypesFunc(func(g *jen.Group) {
			for _, arg := range args {
				g.Add(m.goType(arg))
			}
		})
	}
	return s
}

// arrayType maps `[T; N]` to `[N]T` when N is an integer literal, and anything else
// in brackets to a slice.
func (m *typeMapper) arrayType(inner tokens.Stream) *jen.Statement {
	for i, t := range inner {
		if !t.IsPunct(";") {
			continue
		}
		elem := m.goType(inner[:i])
		if n, ok := intLiteral(inner[i+1:]); ok && n >= 0 {
			return jen.Index(jen.Lit(int(n))).Add(elem)
		}
		return jen.Index().Add(elem)
	}
	return jen.Index().Add(m.goType(inner))
}

// splitPath reads `a::b::Name<Args>` and returns the last segment with its generic
// arguments, without lifetime arguments. It fails when anything follows the path.
func splitPath(s tokens.Stream) (name string, args []tokens.Stream, ok bool) {
	i := 0
	if s[i].IsPunct("::") {
		i++
	}
	for {
		if i >= len(s) || s[i].Kind != tokens.Ident {
			return "", nil, false
		}
		name, args = s[i].Text, nil
		i++
		if i < len(s) && s[i].IsPunct("<") {
			args, i, ok = splitArgs(s, i+1)
			if !ok {
				return "", nil, false
			}
		}
		if i < len(s) && s[i].IsPunct("::") {
			i++
			continue
		}
		break
	}
	if i != len(s) {
		return "", nil, false
	}

	var types []tokens.Stream
	for _, arg := range args {
		if len(arg) > 0 && !arg[0].IsPunct("'") {
			types = append(types, arg)
		}
	}
	return name, types, true
}

// splitArgs splits a generic argument list starting after its `<`, and returns the
// index after the closing `>`. A `>>` closing both an inner list and this one is split.
func splitArgs(s tokens.Stream, i int) ([]tokens.Stream, int, bool) {
	var args []tokens.Stream
	var cur tokens.Stream
	depth := 1
	for ; i < len(s); i++ {
		t := s[i]
		switch {
		case t.IsPunct("<"):
			depth++
		case t.IsPunct(">"):
			depth--
		case t.IsPunct(">>"):
			if depth == 1 {
				return nil, i, false
			}
			if depth == 2 {
				cur = append(cur, tokens.NewPunct(">", tokens.Alone, t.Span))
				return append(args, cur), i + 1, true
			}
			depth -= 2
		case t.IsPunct(",") && depth == 1:
			args = append(args, cur)
			cur = nil
			continue
		}
		if depth == 0 {
			if len(cur) > 0 {
				args = append(args, cur)
			}
			return args, i + 1, true
		}
		cur = append(cur, t)
	}
	return nil, i, false
}

// optional reports whether ty is an Option, through any references.
func optional(ty tokens.Stream) bool {
	for len(ty) > 0 && (ty[0].IsPunct("&") || ty[0].IsPunct("'") || ty[0].IsIdent("mut")) {
		if ty[0].IsPunct("'") && len(ty) > 1 {
			ty = ty[1:]
		}
		ty = ty[1:]
	}
	if len(ty) == 0 || (ty[0].Kind != tokens.Ident && !ty[0].IsPunct("::")) {
		return false
	}
	name, _, ok := splitPath(ty)
	return ok && name == "Option"
}

// intLiteral reads an optionally negated integer literal such as `0x1F`, `-3` or `8u8`.
func intLiteral(s tokens.Stream) (int64, bool) {
	neg := false
	if len(s) == 2 && s[0].IsPunct("-") {
		neg, s = true, s[1:]
	}
	if len(s) != 1 || s[0].Kind != tokens.Literal {
		return 0, false
	}
	text := intSuffixRegex.ReplaceAllString(strings.ReplaceAll(s[0].Text, "_", ""), "")
	n, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
