// Package diag holds the error values produced while parsing declarations and
// building generated code. Every error carries the span it should be reported at.
package diag

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// UnexpectedEnd means the tokens ran out before the grammar was satisfied.
	UnexpectedEnd Kind = iota + 1
	// UnexpectedToken means a token was present but violated the grammar.
	UnexpectedToken
	// MalformedFragment means a raw fragment pushed into a builder was not balanced.
	MalformedFragment
	// BuilderMisuse means a builder was used after Finish.
	BuilderMisuse
	// Custom errors are raised by derive implementations.
	Custom
)

var kindNames = map[Kind]string{
	UnexpectedEnd:     "unexpected end of input",
	UnexpectedToken:   "unexpected token",
	MalformedFragment: "malformed fragment",
	BuilderMisuse:     "builder misuse",
	Custom:            "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Error struct {
	Kind    Kind
	Span    Span
	Message string
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v: %v: %s", e.Span, e.Kind, e.Message)
}

// Is matches any *Error of the same Kind, so errors.Is(err, &Error{Kind: UnexpectedEnd})
// works regardless of span and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Span.IsZero()
}

func New(kind Kind, span Span, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

func Unexpected(span Span, expected string, got fmt.Stringer) *Error {
	return New(UnexpectedToken, span, "expected %s, got `%v`", expected, got)
}

func End(span Span, expected string) *Error {
	return New(UnexpectedEnd, span, "expected %s, got end of input", expected)
}

func Misuse(format string, args ...interface{}) *Error {
	return New(BuilderMisuse, Span{}, format, args...)
}

// NewCustom creates an error without location; it is reported at the call site.
func NewCustom(msg string) *Error {
	return &Error{Kind: Custom, Message: msg}
}

func CustomAt(msg string, span Span) *Error {
	return &Error{Kind: Custom, Span: span, Message: msg}
}

// As unwraps err into an *Error if one is in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Wrap re-tags err with kind, keeping its span and message. Errors that are not
// *Error values get the given span.
func Wrap(kind Kind, span Span, err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return &Error{Kind: kind, Span: e.Span, Message: e.Message}
	}
	return &Error{Kind: kind, Span: span, Message: err.Error()}
}
