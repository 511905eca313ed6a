package ethabi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Categorizes codec failures. See the "KindX" constants.
type ErrorKind string

const (
	// A read, pointer or length points beyond the buffer: truncated or
	// maliciously crafted input.
	KindOverrun ErrorKind = "overrun"

	// Content violates a type's bit pattern: non-zero padding, a bool that's
	// neither 0 nor 1, malformed UTF-8 in a string.
	KindInvalidData ErrorKind = "invalid_data"

	// Validation only: the buffer is longer than the encoding of the decoded
	// value.
	KindExtraData ErrorKind = "extra_data"

	// Validation only: re-encoding the decoded value doesn't reproduce the
	// input. The input was well-formed but not canonical.
	KindReserMismatch ErrorKind = "reser_mismatch"

	// A value doesn't have the shape of its type, or a token doesn't have the
	// shape of the type it's detokenized into.
	KindTypeMismatch ErrorKind = "type_mismatch"

	// A type string or JSON-ABI parameter doesn't describe a valid type.
	KindInvalidType ErrorKind = "invalid_type"
)

/*
Structured error returned by every encoding and decoding function. Usually
arrives wrapped with a stack trace (print with "%+v"). Use "IsKind" or
"errors.Is(err, ErrOverrun)" to inspect.
*/
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

// Implements "error".
func (self *Error) Error() string {
	var buf strings.Builder
	buf.WriteString(`ABI `)
	buf.WriteString(string(self.Kind))
	if self.Detail != "" {
		buf.WriteString(`: `)
		buf.WriteString(self.Detail)
	}
	if self.Cause != nil {
		buf.WriteString(` (caused by: `)
		buf.WriteString(self.Cause.Error())
		buf.WriteByte(')')
	}
	return buf.String()
}

// Supports "errors.Unwrap".
func (self *Error) Unwrap() error { return self.Cause }

// Supports "errors.Is". Errors of the same kind are considered equal.
func (self *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == self.Kind
}

// Sentinels for "errors.Is".
var (
	ErrOverrun       = &Error{Kind: KindOverrun}
	ErrInvalidData   = &Error{Kind: KindInvalidData}
	ErrExtraData     = &Error{Kind: KindExtraData}
	ErrReserMismatch = &Error{Kind: KindReserMismatch}
	ErrTypeMismatch  = &Error{Kind: KindTypeMismatch}
	ErrInvalidType   = &Error{Kind: KindInvalidType}
)

// Returns the kind of the first "*Error" in the chain, or "" if there's none.
func ErrorKindOf(err error) ErrorKind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

// True if the error chain contains an "*Error" of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && ErrorKindOf(err) == kind
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return errors.WithStack(&Error{Kind: kind, Detail: detail, Cause: cause})
}

func errOverrun(format string, args ...interface{}) error {
	return newError(KindOverrun, nil, format, args...)
}

func errInvalidData(format string, args ...interface{}) error {
	return newError(KindInvalidData, nil, format, args...)
}

func errTypeMismatch(format string, args ...interface{}) error {
	return newError(KindTypeMismatch, nil, format, args...)
}

func errInvalidType(format string, args ...interface{}) error {
	return newError(KindInvalidType, nil, format, args...)
}
