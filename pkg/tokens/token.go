// Package tokens models the token sequences consumed and produced by the toolkit:
// identifiers, punctuation, literals and delimited groups. It also provides a small
// lexer for building sequences from text, and the Cursor the parser walks them with.
package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"strconv"
	"strings"
)

type Kind uint8

const (
	Ident Kind = iota + 1
	Punct
	Literal
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Group:
		return "group"
	}
	return "invalid"
}

type Delimiter uint8

const (
	NoDelim Delimiter = iota
	Paren
	Bracket
	Brace
)

func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	}
	return ""
}

func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	}
	return ""
}

func (d Delimiter) String() string {
	switch d {
	case Paren:
		return "parenthesis"
	case Bracket:
		return "bracket"
	case Brace:
		return "brace"
	}
	return "none"
}

// delimiterFor maps an opening or closing character to its delimiter.
func delimiterFor(s string) (Delimiter, bool) {
	switch s {
	case "(", ")":
		return Paren, true
	case "[", "]":
		return Bracket, true
	case "{", "}":
		return Brace, true
	}
	return NoDelim, false
}

// Spacing tells whether a punct is glued to the token that follows it, as the quote of
// a lifetime is.
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

type Token struct {
	Kind    Kind
	Text    string
	Spacing Spacing
	Delim   Delimiter
	Stream  Stream
	Span    diag.Span
}

func NewIdent(name string, span diag.Span) Token {
	return Token{Kind: Ident, Text: name, Span: span}
}

func NewPunct(op string, spacing Spacing, span diag.Span) Token {
	return Token{Kind: Punct, Text: op, Spacing: spacing, Span: span}
}

func NewLiteral(text string, span diag.Span) Token {
	return Token{Kind: Literal, Text: text, Span: span}
}

func NewGroup(delim Delimiter, stream Stream, span diag.Span) Token {
	return Token{Kind: Group, Delim: delim, Stream: stream, Span: span}
}

// StringLit builds a quoted string literal token.
func StringLit(s string, span diag.Span) Token {
	return NewLiteral(Quote(s), span)
}

// IntLit builds an unsuffixed integer literal token.
func IntLit(v int, span diag.Span) Token {
	return NewLiteral(strconv.Itoa(v), span)
}

func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

func (t Token) IsPunct(op string) bool {
	return t.Kind == Punct && t.Text == op
}

func (t Token) IsGroup(delim Delimiter) bool {
	return t.Kind == Group && t.Delim == delim
}

// Unquote returns the value of a string literal token, plain or raw.
func (t Token) Unquote() (string, bool) {
	if t.Kind != Literal {
		return "", false
	}
	return unquote(t.Text)
}

// WithSpan returns a copy of t in which t and everything nested inside it carry span.
func (t Token) WithSpan(span diag.Span) Token {
	t.Span = span
	if t.Kind == Group {
		t.Stream = t.Stream.WithSpan(span)
	}
	return t
}

// Equal compares two tokens structurally. Spans are ignored.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind || t.Text != o.Text || t.Delim != o.Delim {
		return false
	}
	if t.Kind == Punct && t.Spacing != o.Spacing {
		return false
	}
	return t.Stream.Equal(o.Stream)
}

func (t Token) String() string {
	var sb strings.Builder
	writeToken(&sb, t)
	return sb.String()
}
