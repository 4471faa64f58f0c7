package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrorKind classifies an [Error].
type ErrorKind int

const (
	// UnknownError is the kind of errors that did not originate in this
	// package.
	UnknownError ErrorKind = iota

	// LexError reports a character that cannot start any token.
	LexError

	// SyntaxError reports a token not accepted in the current parse state.
	SyntaxError

	// NumberFormatError reports a malformed numeric literal.
	NumberFormatError

	// InternalError reports a violated parser invariant. It is unreachable
	// with the built-in grammar tables.
	InternalError

	// UndefinedVariableError reports a variable missing from the environment.
	UndefinedVariableError

	// UnknownFunctionError reports a call to an unregistered function.
	UnknownFunctionError

	// ArityMismatchError reports a call with the wrong number of arguments.
	ArityMismatchError

	// ArithmeticError reports division or remainder by zero, a result outside
	// a function's domain, or overflow.
	ArithmeticError

	// InputError reports a failure reading expression text.
	InputError

	// CompileError reports a failure lowering a tree to a compiled program.
	CompileError
)

// String returns a short description of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"

	case SyntaxError:
		return "syntax error"

	case NumberFormatError:
		return "number format error"

	case InternalError:
		return "internal error"

	case UndefinedVariableError:
		return "undefined variable"

	case UnknownFunctionError:
		return "unknown function"

	case ArityMismatchError:
		return "arity mismatch"

	case ArithmeticError:
		return "arithmetic error"

	case InputError:
		return "input error"

	case CompileError:
		return "compile error"

	default:
		return "error"
	}
}

// IsParse reports whether k is produced while turning text into a tree, as
// opposed to while evaluating a tree.
func (k ErrorKind) IsParse() bool {
	switch k {
	case LexError, SyntaxError, NumberFormatError, InternalError, InputError:
		return true

	default:
		return false
	}
}

// Predefined errors (sentinel values). Compare with [errors.Is], which
// matches any [Error] of the same kind.
var (
	ErrLex               = NewError(LexError, "unexpected character")
	ErrSyntax            = NewError(SyntaxError, "unexpected token")
	ErrNumberFormat      = NewError(NumberFormatError, "invalid numeric literal")
	ErrInternal          = NewError(InternalError, "parser invariant violated")
	ErrUndefinedVariable = NewError(UndefinedVariableError, "undefined variable")
	ErrUnknownFunction   = NewError(UnknownFunctionError, "unknown function")
	ErrArityMismatch     = NewError(ArityMismatchError, "wrong number of arguments")
	ErrArithmetic        = NewError(ArithmeticError, "arithmetic error")
	ErrReadInput         = NewError(InputError, "failed to read input")
	ErrCompile           = NewError(CompileError, "compilation failed")
)

// Error represents an error with a kind, an optional source position, and
// optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  ErrorKind
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	pos   *Position   // Source position, if known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a kind and message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// WrapError wraps a standard error into an Error.
// An Error anywhere in the chain of err is returned as-is.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Kind returns the kind of e.
func (e *Error) Kind() ErrorKind { return e.kind }

// Position returns the source position of e, if known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> at <pos>: <err>" // all fields set
	//   2. "<msg>: <err>"          // position is nil
	//   3. "<msg>"                 // wrapped error is nil
	//   4. "<err>"                 // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		if e.pos != nil {
			part = append(part, e.msg+" at "+e.pos.String())
		} else {
			part = append(part, e.msg)
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return t.kind == e.kind && t.kind != UnknownError
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.Any("position", *e.pos))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a formatted error message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// WithPosition creates a new Error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// IsParseError reports whether err was produced while parsing text.
func IsParseError(err error) bool {
	var e *Error

	return errors.As(err, &e) && e.kind.IsParse()
}

// IsEvaluationError reports whether err was produced while evaluating a tree.
func IsEvaluationError(err error) bool {
	var e *Error

	if !errors.As(err, &e) {
		return false
	}

	switch e.kind {
	case UndefinedVariableError, UnknownFunctionError, ArityMismatchError,
		ArithmeticError:
		return true

	default:
		return false
	}
}
