package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/stretchr/testify/require"
	"testing"
)

func kinds(s Stream) []Kind {
	out := make([]Kind, len(s))
	for i, t := range s {
		out[i] = t.Kind
	}
	return out
}

func texts(s Stream) []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.String()
	}
	return out
}

func TestLex(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "idents and puncts",
			input:    "pub struct Foo;",
			expected: []string{"pub", "struct", "Foo", ";"},
		},
		{
			name:     "operators munch longest",
			input:    "a::b -> c >>= d >> e",
			expected: []string{"a", "::", "b", "->", "c", ">>=", "d", ">>", "e"},
		},
		{
			name:     "lifetime is a joint quote",
			input:    "&'a str",
			expected: []string{"&", "'", "a", "str"},
		},
		{
			name:     "char and string literals",
			input:    `'x' '\n' "he said \"hi\"" b"raw" 1_000u32 2.5`,
			expected: []string{"'x'", `'\n'`, `"he said \"hi\""`, `b"raw"`, "1_000u32", "2.5"},
		},
		{
			name:     "escapes",
			input:    `'\u{41}' b'\x41' '\'' "tab\t\u{1F600}\x7f"`,
			expected: []string{`'\u{41}'`, `b'\x41'`, `'\''`, `"tab\t\u{1F600}\x7f"`},
		},
		{
			name:     "raw strings",
			input:    `r"\" r#"a "quoted" b"# br##"x"#y"## r`,
			expected: []string{`r"\"`, `r#"a "quoted" b"#`, `br##"x"#y"##`, "r"},
		},
		{
			name:     "multibyte char is not a lifetime",
			input:    "'é' 'a: &'b ()",
			expected: []string{"'é'", "'", "a", ":", "&", "'", "b", "()"},
		},
		{
			name:     "comments are skipped",
			input:    "a // trailing\n/* block /* nested */ */ b",
			expected: []string{"a", "b"},
		},
		{
			name:     "doc comments become attributes",
			input:    "/// Docs here\nstruct",
			expected: []string{"#", `[doc = "Docs here"]`, "struct"},
		},
		{
			name:  "groups nest",
			input: "Foo(a, [b; 2], {c})",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			s, err := Lex(testCase.input)
			require.NoError(t, err)
			if testCase.name == "groups nest" {
				require.Equal(t, []Kind{Ident, Group}, kinds(s))
				require.Len(t, s[1].Stream, 5)
				require.True(t, s[1].Stream[2].IsGroup(Bracket))
				require.True(t, s[1].Stream[4].IsGroup(Brace))
				return
			}
			require.Equal(t, testCase.expected, texts(s))
		})
	}
}

func TestLexSpans(t *testing.T) {
	t.Parallel()
	s, err := Lex("struct Foo {\n    a: u8,\n}")
	require.NoError(t, err)
	require.Equal(t, diag.Span{Line: 1, Column: 1, Start: 0, End: 6}, s[0].Span)
	require.Equal(t, diag.Span{Line: 1, Column: 8, Start: 7, End: 10}, s[1].Span)

	group := s[2]
	require.True(t, group.IsGroup(Brace))
	require.Equal(t, 11, group.Span.Start)
	require.Equal(t, len("struct Foo {\n    a: u8,\n}"), group.Span.End)

	field := group.Stream[0]
	require.Equal(t, "a", field.Text)
	require.Equal(t, 2, field.Span.Line)
	require.Equal(t, 5, field.Span.Column)
}

func TestLexErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		input  string
		kind   diag.Kind
		line   int
		column int
	}{
		{name: "stray closing brace", input: "struct Foo { a: u8, } }", kind: diag.UnexpectedToken, line: 1, column: 23},
		{name: "mismatched close", input: "Foo(a]", kind: diag.UnexpectedToken, line: 1, column: 6},
		{name: "unclosed group", input: "Foo {\n a", kind: diag.UnexpectedToken, line: 1, column: 5},
		{name: "unterminated string", input: `x = "abc`, kind: diag.UnexpectedEnd, line: 1, column: 5},
		{name: "bad character", input: "a \\ b", kind: diag.UnexpectedToken, line: 1, column: 3},
		{name: "unterminated raw string", input: `x = r#"abc"`, kind: diag.UnexpectedEnd, line: 1, column: 5},
		{name: "bad hex escape", input: `'\xZ1'`, kind: diag.UnexpectedToken, line: 1, column: 1},
		{name: "unclosed unicode escape", input: `"\u{41"`, kind: diag.UnexpectedToken, line: 1, column: 1},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := Lex(testCase.input)
			require.Error(t, err)
			e, ok := diag.As(err)
			require.True(t, ok)
			require.Equal(t, testCase.kind, e.Kind)
			require.Equal(t, testCase.line, e.Span.Line)
			require.Equal(t, testCase.column, e.Span.Column)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"impl<'a, T: Clone> Foo<'a, T> where T: Into<Vec<u8>> { fn f(&self) -> &'a str { \"x\" } }",
		"enum E { A = 1 << 2, B(u8, (i32, i64)), C { x: [u8; 4] } }",
		"a >> b > > c :: d",
	}
	for _, input := range inputs {
		s, err := Lex(input)
		require.NoError(t, err)
		again, err := Lex(s.String())
		require.NoError(t, err)
		require.True(t, s.Equal(again), "%q re-lexed from %q", s.String(), input)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	s, err := Lex("impl Foo for Bar { fn a(&self) { let x = 1; return x; } fn b() {} }")
	require.NoError(t, err)
	expected := "impl Foo for Bar {\n" +
		"    fn a(&self) {\n" +
		"        let x = 1;\n" +
		"        return x;\n" +
		"    }\n" +
		"    fn b() { }\n" +
		"}\n"
	require.Equal(t, expected, Format(s))
}
