package mirror

import (
	"bytes"
	"fmt"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func render(t *testing.T, sources ...string) string {
	t.Helper()
	var decls []*parse.Declaration
	for _, src := range sources {
		decl, err := parse.ParseSource(src)
		require.NoError(t, err)
		decls = append(decls, decl)
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "models", decls))
	return squash(buf.String())
}

func TestRenderHeader(t *testing.T) {
	t.Parallel()
	out := render(t, "struct Marker;")
	assert.True(t, strings.HasPrefix(out, "// Code generated by derive_gen 0.2.0. DO NOT EDIT."))
	assert.Contains(t, out, "package models")
	assert.Contains(t, out, "type Marker struct{}")
}

func TestRenderStructs(t *testing.T) {
	t.Parallel()
	out := render(t,
		"/// A point.\n"+
			"#[serde(rename_all = \"camelCase\")]\n"+
			"pub struct Point<T> {\n"+
			"    pub user_id: u64,\n"+
			"    #[serde(rename = \"why\")] y: Option<T>,\n"+
			"    #[go(tag = \"db:\\\"tags\\\"\")] tags: Vec<String>,\n"+
			"    #[serde(skip)] cache: HashMap<String, Vec<Vec<u8>>>,\n"+
			"    #[go(name = \"Cells\")] grid: [f32; 3],\n"+
			"}",
		"struct Pair(u8, &'static str);",
	)

	for _, expected := range []string{
		"// A point.",
		"type Point[T any] struct {",
		"UserId uint64 `json:\"userId\"`",
		"Y *T `json:\"why,omitempty\"`",
		"Tags []string `db:\"tags\" json:\"tags\"`",
		"Cache map[string][][]uint8 `json:\"-\"`",
		"Cells [3]float32 `json:\"grid\"`",
		"type Pair struct { F0 uint8 `json:\"0\"` F1 string `json:\"1\"` }",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestRenderUnitEnums(t *testing.T) {
	t.Parallel()
	out := render(t,
		"#[serde(rename_all = \"snake_case\")] enum Level { Low, HighValue }",
		"enum Code { Ok = 200, Moved = 0x12D, #[serde(rename = \"next\")] Next }",
	)

	for _, expected := range []string{
		"import \"strconv\"",
		"type Level int",
		"const ( LevelLow Level = iota LevelHighValue )",
		"case LevelHighValue: return \"high_value\"",
		"return \"Level(\" + strconv.Itoa(int(x)) + \")\"",
		"const ( CodeOk Code = 200 CodeMoved Code = 301 CodeNext Code = 302 )",
		"case CodeNext: return \"next\"",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestRenderSealedEnum(t *testing.T) {
	t.Parallel()
	out := render(t, "enum Shape<T> { Empty, Circle(T), #[serde(rename_all = \"UPPERCASE\")] Rect { w: T, h: Box<T> } }")

	for _, expected := range []string{
		"type Shape[T any] interface { isShape() }",
		"type ShapeEmpty[T any] struct{}",
		"func (ShapeEmpty[T]) isShape() {}",
		"type ShapeCircle[T any] struct { F0 T `json:\"0\"` }",
		"type ShapeRect[T any] struct { W T `json:\"W\"` H *T `json:\"H\"` }",
		"func (ShapeRect[T]) isShape() {}",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestGoType(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "u8", expected: "uint8"},
		{input: "&'a mut str", expected: "string"},
		{input: "Vec<Vec<u8>>", expected: "[][]uint8"},
		{input: "HashMap<u8, Vec<Vec<u8>>>", expected: "map[uint8][][]uint8"},
		{input: "Option<HashMap<String, Vec<T>>>", expected: "*map[string][]T"},
		{input: "[u8; 4]", expected: "[4]uint8"},
		{input: "[u8; N]", expected: "[]uint8"},
		{input: "&[T]", expected: "[]T"},
		{input: "std::collections::BTreeSet<char>", expected: "map[rune]struct{}"},
		{input: "Wrapper<'a, T>", expected: "Wrapper[T]"},
		{input: "*const u8", expected: "*uint8"},
		{input: "Self", expected: "Thing[T]"},
		{input: "()", expected: "struct{}"},
		{input: "(u8, u8)", expected: "any"},
		{input: "dyn Fn(u8)", expected: "any"},
		{input: "Vec<u8> + Send", expected: "any"},
	}
	m := &typeMapper{owner: "Thing", params: []string{"T"}}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			ty, err := tokens.Lex(testCase.input)
			require.NoError(t, err)
			got := strings.ReplaceAll(fmt.Sprintf("%#v", m.goType(ty)), " ", "")
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()
	for input, expected := range map[string]bool{
		"Option<u8>":              true,
		"&'a Option<u8>":          true,
		"std::option::Option<u8>": true,
		"Vec<Option<u8>>":         false,
		"u8":                      false,
	} {
		ty, err := tokens.Lex(input)
		require.NoError(t, err)
		assert.Equal(t, expected, optional(ty), input)
	}
}

func TestRenameAll(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		rule     string
		expected string
	}{
		{name: "user_id", rule: "camelCase", expected: "userId"},
		{name: "user_id", rule: "PascalCase", expected: "UserId"},
		{name: "user_id", rule: "SCREAMING-KEBAB-CASE", expected: "USER-ID"},
		{name: "HighValue", rule: "snake_case", expected: "high_value"},
		{name: "HighValue", rule: "kebab-case", expected: "high-value"},
		{name: "HighValue", rule: "lowercase", expected: "highvalue"},
		{name: "HighValue", rule: "SCREAMING_SNAKE_CASE", expected: "HIGH_VALUE"},
		{name: "HighValue", rule: "Title Case", expected: "HighValue"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, applyRenameAll("T", testCase.name, testCase.rule), testCase.rule)
	}
}

func TestIntLiteral(t *testing.T) {
	t.Parallel()
	for input, expected := range map[string]int64{
		"42":     42,
		"-3":     -3,
		"0x1F":   31,
		"0b1010": 10,
		"1_000":  1000,
		"8u8":    8,
	} {
		s, err := tokens.Lex(input)
		require.NoError(t, err)
		n, ok := intLiteral(s)
		require.True(t, ok, input)
		assert.Equal(t, expected, n, input)
	}

	s, err := tokens.Lex("A + 1")
	require.NoError(t, err)
	_, ok := intLiteral(s)
	assert.False(t, ok)
}
