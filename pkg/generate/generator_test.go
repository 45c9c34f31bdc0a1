package generate

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func newGenerator(t *testing.T, src string) *Generator {
	t.Helper()
	decl, err := parse.ParseSource(src)
	require.NoError(t, err)
	return New(decl)
}

func requireTokens(t *testing.T, expected string, actual tokens.Stream) {
	t.Helper()
	want, err := tokens.Lex(expected)
	require.NoError(t, err)
	require.True(t, want.Equal(actual), "expected\n  %s\ngot\n  %s", want, actual)
}

func TestRenderRawStatement(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Name;")
	err := g.Implement("Iface").
		AddFunction("name").
		Receiver(ByRef).
		Body(func(sb *StreamBuilder) error {
			return sb.PushParsed("return 1;")
		})
	require.NoError(t, err)

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "impl Iface for Name { fn name(&self) { return 1; } }", out)
}

func TestPushTokensKeepsSpans(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Name;")
	flat, err := tokens.LexFlat("return (1);")
	require.NoError(t, err)

	fn := g.Impl().AddFunction("one").Returns("u8")
	require.NoError(t, fn.Body(func(sb *StreamBuilder) error {
		return sb.PushTokens(flat)
	}))
	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "impl Name { fn one() -> u8 { return (1); } }", out)

	body := out[len(out)-1].Stream[len(out[len(out)-1].Stream)-1].Stream
	require.Len(t, body, 3)
	assert.Equal(t, flat[0].Span, body[0].Span, "raw tokens are spliced with their spans")
	assert.Equal(t, flat[1].Span.Cover(flat[3].Span), body[1].Span)
}

func TestReceiverModes(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		mode     Receiver
		expected string
	}{
		{mode: None, expected: "impl Name { fn f(x: u8) { } }"},
		{mode: ByValue, expected: "impl Name { fn f(self, x: u8) { } }"},
		{mode: ByRef, expected: "impl Name { fn f(&self, x: u8) { } }"},
		{mode: ByMutRef, expected: "impl Name { fn f(&mut self, x: u8) { } }"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.mode.String(), func(t *testing.T) {
			t.Parallel()
			g := newGenerator(t, "struct Name;")
			g.Impl().AddFunction("f").Receiver(ByMutRef).Receiver(testCase.mode).Arg("x", "u8")
			out, err := g.Finish()
			require.NoError(t, err)
			requireTokens(t, testCase.expected, out)
		})
	}
}

func TestForwardGenerics(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Foo<'a, T: Clone = u8, const N: usize> where T: Send { a: &'a [T; N] }")
	err := g.Implement("Show").
		BoundEach("Show").
		AddFunction("show").
		Receiver(ByRef).
		Returns("String").
		Body(func(sb *StreamBuilder) error {
			return sb.Return("String::new()")
		})
	require.NoError(t, err)

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t,
		"impl<'a, T: Clone, const N: usize> Show for Foo<'a, T, N> where T: Send, T: Show { fn show(&self) -> String { return String::new(); } }",
		out)
}

func TestWhereOverrides(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Foo<T> where T: Send { a: T }")
	g.Implement("A").ClearWhere().Bound("T", "Copy")
	g.Implement("B").Generics(nil)
	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "impl<T> A for Foo<T> where T: Copy { } impl B for Foo { }", out)
}

func TestWithLifetime(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Foo<'a, 'b> { a: &'a str, b: &'b str }")
	g.Implement("Read").WithLifetime("'de")
	g.Implement("Visit<u8>").WithLifetime("de")
	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t,
		"impl<'de: 'a + 'b, 'a, 'b> Read<'de> for Foo<'a, 'b> { } "+
			"impl<'de: 'a + 'b, 'a, 'b> Visit<'de, u8> for Foo<'a, 'b> { }",
		out)
}

func TestFunctionSignature(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Name;")
	g.Impl().
		AddFunction("run").
		Attr("inline").
		Public().
		Async().
		Lifetime("x").
		Generic("T", "Into<u8>", "Copy").
		Receiver(ByValue).
		Arg("a", "&'x T").
		Arg("(b, c)", "(u8, u8)").
		Returns("Option<u8>")
	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t,
		"impl Name { #[inline] pub async fn run<'x, T: Into<u8> + Copy>(self, a: &'x T, (b, c): (u8, u8)) -> Option<u8> { } }",
		out)
}

func TestAssociatedItems(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Foo;")
	impl := g.Implement("Describe")
	err := impl.AddConst("FIELDS", "&'static [&'static str]").Value(func(sb *StreamBuilder) error {
		sb.Punct("&")
		return sb.Group(tokens.Bracket, func(sb *StreamBuilder) error {
			sb.LitStr("a").Punct(",").LitStr("b")
			return nil
		})
	})
	require.NoError(t, err)
	impl.AddType("Out", "u8")

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, `impl Describe for Foo { const FIELDS: &'static [&'static str] = &["a", "b"]; type Out = u8; }`, out)
}

func TestStructuredStatements(t *testing.T) {
	t.Parallel()
	sb := NewStreamBuilder()
	require.NoError(t, sb.Let("x", "self.a + 1"))
	require.NoError(t, sb.Stmt("drop(x)"))
	sb.Ident("match").Ident("self")
	require.NoError(t, sb.Group(tokens.Brace, func(arms *StreamBuilder) error {
		arms.Ident("_").Punct("=>").Lifetime("a")
		return nil
	}))
	other := NewStreamBuilder().LitInt(7)
	sb.Append(other)

	want, err := tokens.Lex("let x = self.a + 1; drop(x); match self { _ => 'a } 7")
	require.NoError(t, err)
	assert.True(t, want.Equal(sb.Stream()), sb.Stream().String())
	assert.Equal(t, len(want), sb.Len())

	span := diag.Span{Line: 4, Column: 2, Start: 30, End: 33}
	sb = NewStreamBuilder().SetSpan(span)
	require.NoError(t, sb.Return("x"))
	for _, tok := range sb.Stream() {
		assert.Equal(t, span, tok.Span)
	}
}

func TestMalformedFragments(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Name;")
	fn := g.Impl().AddFunction("f")
	err := fn.Body(func(sb *StreamBuilder) error {
		return sb.PushParsed("return (1;")
	})
	require.ErrorIs(t, err, &diag.Error{Kind: diag.MalformedFragment})
	_, err = g.Finish()
	require.ErrorIs(t, err, &diag.Error{Kind: diag.MalformedFragment}, "the first error is reported by Finish")

	flat, err := tokens.LexFlat("x = [1, 2;")
	require.NoError(t, err)
	err = NewStreamBuilder().PushTokens(flat)
	e, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.MalformedFragment, e.Kind)
	assert.Equal(t, flat[2].Span, e.Span, "reported at the unclosed bracket")

	g = newGenerator(t, "struct Name;")
	g.Impl().AddFunction("f").Returns("Vec<(u8>")
	_, err = g.Finish()
	require.ErrorIs(t, err, &diag.Error{Kind: diag.MalformedFragment})

	g = newGenerator(t, "struct Name;")
	g.Implement("")
	_, err = g.Finish()
	require.ErrorIs(t, err, &diag.Error{Kind: diag.MalformedFragment})
}

func TestMisuseAfterFinish(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Name;")
	impl := g.Implement("A")
	fn := impl.AddFunction("f")
	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "impl A for Name { fn f() { } }", out)

	g.Implement("B")
	require.ErrorIs(t, g.Err(), &diag.Error{Kind: diag.BuilderMisuse})

	err = fn.Body(func(sb *StreamBuilder) error { return nil })
	require.ErrorIs(t, err, &diag.Error{Kind: diag.BuilderMisuse})
	err = impl.AddConst("X", "u8").Value(func(sb *StreamBuilder) error { return nil })
	require.ErrorIs(t, err, &diag.Error{Kind: diag.BuilderMisuse})

	_, err = g.Finish()
	require.ErrorIs(t, err, &diag.Error{Kind: diag.BuilderMisuse})
}

func TestDiagnostic(t *testing.T) {
	t.Parallel()
	span := diag.Span{Line: 2, Column: 5, Start: 12, End: 13}
	out := Diagnostic(diag.New(diag.UnexpectedToken, span, "expected `;`, got `}`"))
	assert.Equal(t, "compile_error! {\"expected `;`, got `}`\"}", out.String())
	for _, tok := range out {
		assert.Equal(t, span, tok.Span)
	}
	assert.Equal(t, span, out[2].Stream[0].Span)

	wrapped := Diagnostic(assert.AnError)
	assert.True(t, wrapped[0].Span.IsZero(), "plain errors are reported at the call site")
	msg, ok := wrapped[2].Stream[0].Unquote()
	require.True(t, ok)
	assert.Equal(t, assert.AnError.Error(), msg)
}

func TestDiagnosticEscapes(t *testing.T) {
	t.Parallel()
	out := Diagnostic(diag.CustomAt("tab\there\a\v", diag.Span{}))
	assert.Equal(t, `compile_error! {"tab\there\u{7}\u{b}"}`, out.String())

	relexed, err := tokens.Lex(out.String())
	require.NoError(t, err)
	assert.True(t, out.Equal(relexed))
}

func TestGenerateStruct(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Source;")
	g.Impl().AddFunction("a")
	s := g.GenerateStruct("Named").Public().Field("a", "u8").PubField("b", "Vec<u8>")
	g.GenerateStruct("Pair").Tuple().Field("0", "u8").PubField("1", "String")
	g.GenerateStruct("Marker").Unit().Implement("Default")
	s.Impl().AddFunction("new").Returns("Self")
	s.Implement("Clone")

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "impl Source { fn a() { } } "+
		"pub struct Named { a: u8, pub b: Vec<u8>, } "+
		"impl Named { fn new() -> Self { } } "+
		"impl Clone for Named { } "+
		"struct Pair(u8, pub String,); "+
		"struct Marker; impl Default for Marker { }",
		out)
}

func TestGenerateEnum(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Source;")
	e := g.GenerateEnum("Shape").Public()
	e.AddVariant("Empty").Unit()
	e.AddVariant("Circle").Tuple().Field("r", "f32")
	e.AddVariant("Rect").Field("w", "f32").PubField("h", "f32")
	e.AddVariant("Braces")
	e.Implement("Default").AddFunction("default").Returns("Self").Body(func(sb *StreamBuilder) error {
		return sb.PushParsed("Self::Empty")
	})

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "pub enum Shape { Empty, Circle(f32,), Rect { w: f32, pub h: f32, }, Braces { }, } "+
		"impl Default for Shape { fn default() -> Self { Self::Empty } }",
		out)
}

func TestGenerateMod(t *testing.T) {
	t.Parallel()
	g := newGenerator(t, "struct Source<T>(T);")
	m := g.GenerateMod("generated").Public().Use("super::*").Use("std::fmt")
	m.GenerateStruct("Inner").Unit()
	m.Implement("fmt::Debug", "Inner")
	m.GenerateMod("nested").GenerateEnum("E").AddVariant("A").Unit()
	m.Impl("Inner").AddFunction("hi").Receiver(ByRef)
	g.Implement("Clone").BoundEach("Clone")

	out, err := g.Finish()
	require.NoError(t, err)
	requireTokens(t, "pub mod generated { use super::*; use std::fmt; "+
		"struct Inner; impl fmt::Debug for Inner { } "+
		"mod nested { enum E { A, } } "+
		"impl Inner { fn hi(&self) { } } } "+
		"impl<T> Clone for Source<T> where T: Clone { }",
		out)
}

func TestGeneratedItemMisuse(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		build func(g *Generator)
		kind  diag.Kind
	}{
		{name: "field on unit struct", build: func(g *Generator) { g.GenerateStruct("A").Unit().Field("a", "u8") }, kind: diag.BuilderMisuse},
		{name: "unit after fields", build: func(g *Generator) { g.GenerateEnum("E").AddVariant("V").Field("a", "u8").Unit() }, kind: diag.BuilderMisuse},
		{name: "bad struct name", build: func(g *Generator) { g.GenerateStruct("a b") }, kind: diag.MalformedFragment},
		{name: "bad field name", build: func(g *Generator) { g.GenerateStruct("A").Field("1", "u8") }, kind: diag.MalformedFragment},
		{name: "empty use", build: func(g *Generator) { g.GenerateMod("m").Use("") }, kind: diag.MalformedFragment},
		{name: "bad impl target", build: func(g *Generator) { g.GenerateMod("m").Impl("Vec<u8>") }, kind: diag.MalformedFragment},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			g := newGenerator(t, "struct Source;")
			testCase.build(g)
			_, err := g.Finish()
			require.ErrorIs(t, err, &diag.Error{Kind: testCase.kind})
		})
	}

	g := newGenerator(t, "struct Source;")
	_, err := g.Finish()
	require.NoError(t, err)
	g.GenerateMod("late")
	require.ErrorIs(t, g.Err(), &diag.Error{Kind: diag.BuilderMisuse})
}
