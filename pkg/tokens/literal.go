package tokens

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Quote renders s as a string literal. Only `\n`, `\r`, `\t`, `\0`, `\\`, `\"` and
// `\u{..}` are used, so the result is valid in the target grammar.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else {
				fmt.Fprintf(&sb, `\u{%x}`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// unquote decodes a plain or raw string literal. Byte strings are rejected.
func unquote(text string) (string, bool) {
	if strings.HasPrefix(text, "r") {
		body := text[1:]
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		fence := strings.Repeat("#", hashes)
		body = body[hashes:]
		if len(body) < 2+hashes || body[0] != '"' || !strings.HasSuffix(body, `"`+fence) {
			return "", false
		}
		return body[1 : len(body)-1-hashes], true
	}
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	body := text[1 : len(text)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '"' {
			return "", false
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		case '\n':
			// a line continuation swallows the leading whitespace of the next line
			for i+1 < len(body) && strings.ContainsRune(" \t\r\n", rune(body[i+1])) {
				i++
			}
		case 'x':
			if i+2 >= len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil || v > 0x7f {
				return "", false
			}
			sb.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", false
			}
			digits := strings.ReplaceAll(body[i+2:i+end], "_", "")
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || v > unicode.MaxRune || 0xd800 <= v && v < 0xe000 {
				return "", false
			}
			sb.WriteRune(rune(v))
			i += end
		default:
			return "", false
		}
	}
	return sb.String(), true
}
