package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"strings"
)

// Stream is a sequence of tokens in which delimiters only ever appear as Group tokens.
type Stream []Token

func (s Stream) Equal(o Stream) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Span covers the first through last token of the stream.
func (s Stream) Span() diag.Span {
	if len(s) == 0 {
		return diag.Span{}
	}
	return s[0].Span.Cover(s[len(s)-1].Span)
}

func (s Stream) WithSpan(span diag.Span) Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, t := range s {
		out[i] = t.WithSpan(span)
	}
	return out
}

// String renders the stream on a single line. Lexing the result produces an equal
// stream.
func (s Stream) String() string {
	var sb strings.Builder
	writeStream(&sb, s)
	return sb.String()
}

func writeStream(sb *strings.Builder, s Stream) {
	for i, t := range s {
		if i > 0 && needSpace(s[i-1], t) {
			sb.WriteByte(' ')
		}
		writeToken(sb, t)
	}
}

// needSpace reports whether a space separates prev and cur. Two puncts are always
// spaced unless the first is joint, since gluing them could lex as a different operator.
// Otherwise paths, field access, generic brackets, references and separators are glued
// so types read the way they are written.
func needSpace(prev, cur Token) bool {
	if prev.Kind == Punct && prev.Spacing == Joint {
		return false
	}
	if cur.IsPunct(",") || cur.IsPunct(";") {
		return false
	}
	if cur.IsPunct("'") && (prev.IsPunct("<") || prev.IsPunct("&")) || cur.IsPunct("&") && prev.IsPunct("<") {
		return false
	}
	if prev.Kind == Punct && cur.Kind == Punct {
		return true
	}
	switch {
	case prev.Kind == Ident && (cur.IsGroup(Paren) || cur.IsGroup(Bracket)):
		return false
	case prev.IsPunct("#") && cur.IsGroup(Bracket):
		return false
	case prev.IsPunct("::") || cur.IsPunct("::"):
		return false
	case cur.IsPunct("."), prev.IsPunct(".") && cur.Kind != Literal:
		return false
	case prev.IsPunct("&") && (cur.Kind == Ident || cur.IsGroup(Bracket) || cur.IsGroup(Paren)):
		return false
	case prev.Kind == Ident && (cur.IsPunct("<") || cur.IsPunct("!")):
		return false
	case prev.IsPunct("<"):
		return false
	case cur.IsPunct(">") || cur.IsPunct(">>") || cur.IsPunct(":"):
		return false
	}
	return true
}

func writeToken(sb *strings.Builder, t Token) {
	if t.Kind != Group {
		sb.WriteString(t.Text)
		return
	}
	sb.WriteString(t.Delim.Open())
	writeStream(sb, t.Stream)
	sb.WriteString(t.Delim.Close())
}

// Format renders the stream as indented, multi-line source: a line break follows each
// opening brace and each semicolon.
func Format(s Stream) string {
	f := &formatter{}
	f.stream(s)
	return strings.TrimRight(f.sb.String(), " \n") + "\n"
}

type formatter struct {
	sb        strings.Builder
	indent    int
	lineStart bool
}

func (f *formatter) newline() {
	f.sb.WriteByte('\n')
	f.lineStart = true
}

func (f *formatter) write(cur Token, text string, prev *Token) {
	if f.lineStart {
		f.sb.WriteString(strings.Repeat("    ", f.indent))
		f.lineStart = false
	} else if prev != nil && needSpace(*prev, cur) {
		f.sb.WriteByte(' ')
	}
	f.sb.WriteString(text)
}

func (f *formatter) stream(s Stream) {
	for i := range s {
		var prev *Token
		if i > 0 {
			prev = &s[i-1]
		}
		t := s[i]
		switch {
		case t.IsGroup(Brace):
			f.write(t, "{", prev)
			if len(t.Stream) == 0 {
				f.sb.WriteString(" }")
				break
			}
			f.newline()
			f.indent++
			f.stream(t.Stream)
			f.indent--
			if !f.lineStart {
				f.newline()
			}
			f.write(t, "}", nil)
			if i+1 < len(s) && !s[i+1].IsPunct(";") && !s[i+1].IsPunct(",") && !s[i+1].IsPunct(".") {
				f.newline()
			}
		case t.Kind == Group:
			var inner strings.Builder
			writeStream(&inner, t.Stream)
			f.write(t, t.Delim.Open()+inner.String()+t.Delim.Close(), prev)
		default:
			f.write(t, t.Text, prev)
			if t.IsPunct(";") || (t.IsPunct(",") && prev != nil && prev.IsGroup(Brace)) {
				f.newline()
			}
		}
	}
}
