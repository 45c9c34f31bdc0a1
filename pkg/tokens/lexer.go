package tokens

import (
	"github.com/predakanga/derive_gen/pkg/diag"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// operators are matched longest first.
var operators = []string{
	"<<=", ">>=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "..",
}

const singlePuncts = "+-*/%^!&|=<>@.,;:#$?~"

// Lex turns source text into a nested Stream.
func Lex(src string) (Stream, error) {
	flat, err := LexFlat(src)
	if err != nil {
		return nil, err
	}
	return Nest(flat)
}

// LexFlat turns source text into tokens without grouping: delimiters come out as
// single-character puncts.
func LexFlat(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		l.skipTrivia()
		if l.err != nil {
			return nil, l.err
		}
		if l.pos >= len(l.src) {
			return l.out, nil
		}
		l.next()
		if l.err != nil {
			return nil, l.err
		}
	}
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
	out  []Token
	err  error
}

func (l *lexer) span(start, line, col int) diag.Span {
	return diag.Span{Line: line, Column: col, Start: start, End: l.pos}
}

// peekRune looks n runes ahead.
func (l *lexer) peekRune(n int) rune {
	pos := l.pos
	for ; n > 0 && pos < len(l.src); n-- {
		_, size := utf8.DecodeRuneInString(l.src[pos:])
		pos += size
	}
	if pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return r
}

// rawAhead reports whether `#*"` starts off bytes ahead.
func (l *lexer) rawAhead(off int) bool {
	i := l.pos + off
	for i < len(l.src) && l.src[i] == '#' {
		i++
	}
	return i < len(l.src) && l.src[i] == '"'
}

func (l *lexer) bump() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		switch {
		case unicode.IsSpace(l.peekRune(0)):
			l.bump()
		case strings.HasPrefix(l.src[l.pos:], "///") && !strings.HasPrefix(l.src[l.pos:], "////"):
			l.docComment()
		case strings.HasPrefix(l.src[l.pos:], "//"):
			for l.pos < len(l.src) && l.peekRune(0) != '\n' {
				l.bump()
			}
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			start, line, col := l.pos, l.line, l.col
			depth := 0
			for {
				if l.pos >= len(l.src) {
					l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated block comment")
					return
				}
				if strings.HasPrefix(l.src[l.pos:], "/*") {
					depth++
					l.bump()
					l.bump()
				} else if strings.HasPrefix(l.src[l.pos:], "*/") {
					depth--
					l.bump()
					l.bump()
					if depth == 0 {
						break
					}
				} else {
					l.bump()
				}
			}
		default:
			return
		}
	}
}

// docComment lowers `/// text` into `#[doc = "text"]`.
func (l *lexer) docComment() {
	start, line, col := l.pos, l.line, l.col
	for i := 0; i < 3; i++ {
		l.bump()
	}
	textStart := l.pos
	for l.pos < len(l.src) && l.peekRune(0) != '\n' {
		l.bump()
	}
	text := strings.TrimPrefix(l.src[textStart:l.pos], " ")
	span := l.span(start, line, col)
	l.out = append(l.out,
		NewPunct("#", Alone, span),
		NewPunct("[", Alone, span),
		NewIdent("doc", span),
		NewPunct("=", Alone, span),
		StringLit(text, span),
		NewPunct("]", Alone, span),
	)
}

func (l *lexer) next() {
	start, line, col := l.pos, l.line, l.col
	r := l.peekRune(0)
	switch {
	case r == 'r' && l.rawAhead(1):
		l.raw(start, line, col, 1)
	case r == 'b' && l.peekRune(1) == 'r' && l.rawAhead(2):
		l.raw(start, line, col, 2)
	case r == 'b' && l.peekRune(1) == '"':
		l.bump()
		l.str(start, line, col)
	case r == 'b' && l.peekRune(1) == '\'':
		l.bump()
		l.char(start, line, col)
	case r == '_' || unicode.IsLetter(r):
		for r := l.peekRune(0); r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r); r = l.peekRune(0) {
			l.bump()
		}
		l.out = append(l.out, NewIdent(l.src[start:l.pos], l.span(start, line, col)))
	case unicode.IsDigit(r):
		l.number(start, line, col)
	case r == '"':
		l.str(start, line, col)
	case r == '\'':
		l.quote(start, line, col)
	case strings.ContainsRune("()[]{}", r):
		l.bump()
		l.out = append(l.out, NewPunct(string(r), Alone, l.span(start, line, col)))
	default:
		for _, op := range operators {
			if strings.HasPrefix(l.src[l.pos:], op) {
				for range op {
					l.bump()
				}
				l.out = append(l.out, NewPunct(op, Alone, l.span(start, line, col)))
				return
			}
		}
		if strings.ContainsRune(singlePuncts, r) {
			l.bump()
			l.out = append(l.out, NewPunct(string(r), Alone, l.span(start, line, col)))
			return
		}
		l.bump()
		l.err = diag.New(diag.UnexpectedToken, l.span(start, line, col), "unexpected character %s", strconv.QuoteRune(r))
	}
}

func (l *lexer) number(start, line, col int) {
	for {
		r := l.peekRune(0)
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			l.bump()
		case r == '.' && unicode.IsDigit(l.peekRune(1)):
			l.bump()
		default:
			l.out = append(l.out, NewLiteral(l.src[start:l.pos], l.span(start, line, col)))
			return
		}
	}
}

func (l *lexer) str(start, line, col int) {
	l.bump()
	for {
		if l.pos >= len(l.src) {
			l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated string literal")
			return
		}
		switch l.bump() {
		case '\\':
			if !l.escape(start, line, col) {
				return
			}
		case '"':
			l.out = append(l.out, NewLiteral(l.src[start:l.pos], l.span(start, line, col)))
			return
		}
	}
}

// raw lexes `r#*"..."#*` after a prefix of the given width. The body has no escapes
// and ends at a quote followed by as many hashes as opened it.
func (l *lexer) raw(start, line, col, prefix int) {
	for i := 0; i < prefix; i++ {
		l.bump()
	}
	hashes := 0
	for l.peekRune(0) == '#' {
		l.bump()
		hashes++
	}
	l.bump()
	closing := `"` + strings.Repeat("#", hashes)
	for {
		if l.pos >= len(l.src) {
			l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated raw string literal")
			return
		}
		if strings.HasPrefix(l.src[l.pos:], closing) {
			for range closing {
				l.bump()
			}
			l.out = append(l.out, NewLiteral(l.src[start:l.pos], l.span(start, line, col)))
			return
		}
		l.bump()
	}
}

// escape consumes the body of an escape sequence whose backslash has been read:
// `\xHH`, `\u{...}` or a single character.
func (l *lexer) escape(start, line, col int) bool {
	if l.pos >= len(l.src) {
		l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated escape sequence")
		return false
	}
	switch l.bump() {
	case 'x':
		for i := 0; i < 2; i++ {
			if !isHex(l.peekRune(0)) {
				l.err = diag.New(diag.UnexpectedToken, l.span(start, line, col), "malformed \\x escape")
				return false
			}
			l.bump()
		}
	case 'u':
		if l.peekRune(0) != '{' {
			l.err = diag.New(diag.UnexpectedToken, l.span(start, line, col), "malformed \\u escape")
			return false
		}
		l.bump()
		for {
			if l.pos >= len(l.src) {
				l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated \\u escape")
				return false
			}
			r := l.bump()
			if r == '}' {
				break
			}
			if !isHex(r) && r != '_' {
				l.err = diag.New(diag.UnexpectedToken, l.span(start, line, col), "malformed \\u escape")
				return false
			}
		}
	}
	return true
}

func isHex(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func (l *lexer) char(start, line, col int) {
	l.bump()
	if l.pos >= len(l.src) {
		l.err = diag.New(diag.UnexpectedEnd, l.span(start, line, col), "unterminated character literal")
		return
	}
	if l.bump() == '\\' && !l.escape(start, line, col) {
		return
	}
	if l.peekRune(0) != '\'' {
		l.err = diag.New(diag.UnexpectedToken, l.span(start, line, col), "unterminated character literal")
		return
	}
	l.bump()
	l.out = append(l.out, NewLiteral(l.src[start:l.pos], l.span(start, line, col)))
}

// quote lexes either a character literal or the quote of a lifetime. A lifetime is a
// joint `'` punct followed by an ident.
func (l *lexer) quote(start, line, col int) {
	if l.peekRune(1) == '\\' || (l.peekRune(1) != 0 && l.peekRune(2) == '\'') {
		l.char(start, line, col)
		return
	}
	l.bump()
	l.out = append(l.out, NewPunct("'", Joint, l.span(start, line, col)))
}
