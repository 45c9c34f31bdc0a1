package derives

import (
	"github.com/predakanga/derive_gen/pkg/derive"
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type deriveTest struct {
	name     string
	input    string
	expected string
}

func runDerive(t *testing.T, name, input string) (tokens.Stream, error) {
	t.Helper()
	d, ok := Lookup(name)
	require.True(t, ok, "%s is registered", name)
	decl, err := parse.ParseSource(input)
	require.NoError(t, err)
	return derive.Declaration(decl, d)
}

func runDeriveTests(t *testing.T, name string, testCases []deriveTest) {
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			out, err := runDerive(t, name, testCase.input)
			require.NoError(t, err)
			want, err := tokens.Lex(testCase.expected)
			require.NoError(t, err)
			require.True(t, want.Equal(out), "expected\n  %s\ngot\n  %s", want, out)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Clone", "Default", "Describe", "Hi"}, Names())
	_, ok := Lookup("Serialize")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	t.Parallel()
	runDeriveTests(t, "Clone", []deriveTest{
		{
			name:     "named",
			input:    "struct Point { x: i32, y: i32 }",
			expected: "impl Clone for Point { fn clone(&self) -> Self { Self { x: self.x.clone(), y: self.y.clone() } } }",
		},
		{
			name:     "tuple",
			input:    "pub struct Pair<T>(T, u8);",
			expected: "impl<T> Clone for Pair<T> where T: Clone { fn clone(&self) -> Self { Self(self.0.clone(), self.1.clone()) } }",
		},
		{
			name:     "unit",
			input:    "struct Marker;",
			expected: "impl Clone for Marker { fn clone(&self) -> Self { Self } }",
		},
		{
			name:  "enum",
			input: "enum Shape<T> { Empty, Circle(T), Rect { w: T, h: T } }",
			expected: "impl<T> Clone for Shape<T> where T: Clone { fn clone(&self) -> Self { match self { " +
				"Self::Empty => Self::Empty, " +
				"Self::Circle(f0) => Self::Circle(f0.clone()), " +
				"Self::Rect { w, h } => Self::Rect { w: w.clone(), h: h.clone() }, " +
				"} } }",
		},
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()
	runDeriveTests(t, "Default", []deriveTest{
		{
			name:     "named",
			input:    "struct Config<T> { port: u16, extra: T }",
			expected: "impl<T> Default for Config<T> where T: Default { fn default() -> Self { Self { port: Default::default(), extra: Default::default() } } }",
		},
		{
			name:     "tuple",
			input:    "struct Id(u64);",
			expected: "impl Default for Id { fn default() -> Self { Self(Default::default()) } }",
		},
		{
			name:     "enum",
			input:    "enum Mode { Fast, #[default] Slow }",
			expected: "impl Default for Mode { fn default() -> Self { Self::Slow } }",
		},
	})
}

func TestDefaultErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		input  string
		msg    string
		column int
	}{
		{name: "no default", input: "enum Mode { Fast, Slow }", msg: "no default variant", column: 6},
		{name: "not unit", input: "enum Mode { #[default] Fast(u8) }", msg: "only allowed on unit variants", column: 13},
		{name: "twice", input: "enum Mode { #[default] A, #[default] B }", msg: "multiple variants", column: 27},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := runDerive(t, "Default", testCase.input)
			require.Error(t, err)
			derr, ok := diag.As(err)
			require.True(t, ok)
			assert.Equal(t, diag.Custom, derr.Kind)
			assert.Contains(t, derr.Message, testCase.msg)
			assert.Equal(t, testCase.column, derr.Span.Column)
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	runDeriveTests(t, "Describe", []deriveTest{
		{
			name:  "struct",
			input: `#[describe(rename = "Pt")] struct Point { x: i32, #[describe(skip)] y: i32, #[describe(rename = "zed")] z: i32 }`,
			expected: `impl Describe for Point { const FIELDS: &'static [&'static str] = &["x", "zed"]; ` +
				`fn describe(&self) -> &'static str { "Pt" } }`,
		},
		{
			name:  "tuple",
			input: "struct Pair(u8, u8);",
			expected: `impl Describe for Pair { const FIELDS: &'static [&'static str] = &["0", "1"]; ` +
				`fn describe(&self) -> &'static str { "Pair" } }`,
		},
		{
			name:  "enum",
			input: `enum E { A, #[describe(rename = "bee")] B(u8), #[describe(skip)] C { c: u8 } }`,
			expected: `impl Describe for E { const FIELDS: &'static [&'static str] = &["A", "bee"]; ` +
				`fn describe(&self) -> &'static str { match self { Self::A => "A", Self::B(..) => "bee", Self::C { .. } => "C", } } }`,
		},
	})
}

func TestDescribeErrors(t *testing.T) {
	t.Parallel()
	_, err := runDerive(t, "Describe", "struct P { #[describe(rename = 1)] a: u8 }")
	derr, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.Custom, derr.Kind)
	assert.Equal(t, 23, derr.Span.Column)

	_, err = runDerive(t, "Describe", "struct P { #[describe(colour)] a: u8 }")
	derr, ok = diag.As(err)
	require.True(t, ok)
	assert.Contains(t, derr.Message, "unknown describe option `colour`")

	_, err = runDerive(t, "Describe", "#[describe = \"x\"] struct P;")
	assert.ErrorIs(t, err, &diag.Error{Kind: diag.MalformedFragment})
}

func TestHi(t *testing.T) {
	t.Parallel()
	runDeriveTests(t, "Hi", []deriveTest{
		{
			name:     "generic",
			input:    "struct Foo<'a, T: Copy>(&'a T);",
			expected: `impl<'a, T: Copy> Foo<'a, T> { fn hi(&self) -> &'static str { "hi" } }`,
		},
	})
}
