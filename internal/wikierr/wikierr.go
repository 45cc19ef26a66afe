// Package wikierr defines the error kinds shared across the graph store,
// metadata store, and facade.
package wikierr

import (
	"errors"
	"fmt"
)

// Kind classifies a wikipath error. The core only ever returns these six
// kinds; higher layers may translate them further (e.g. to HTTP codes).
type Kind int

const (
	// InvalidFormat means a file's header or structure failed validation.
	InvalidFormat Kind = iota
	// IoError means the underlying filesystem operation failed.
	IoError
	// Unsupported means a requested option or file version is not handled.
	Unsupported
	// PageNotFound means a page argument did not resolve to a valid id.
	PageNotFound
	// LinkNotFound means a requested (src,dst) link has no recorded text.
	LinkNotFound
	// InvalidArgument means a caller-supplied value is malformed.
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid format"
	case IoError:
		return "io error"
	case Unsupported:
		return "unsupported"
	case PageNotFound:
		return "page not found"
	case LinkNotFound:
		return "link not found"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned by this module. It carries a
// Kind so callers can branch with errors.Is/errors.As, plus a formatted
// message.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is (or wraps) a *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidFormat builds an InvalidFormat error with a formatted message.
func NewInvalidFormat(format string, args ...interface{}) *Error {
	return newf(InvalidFormat, format, args...)
}

// WrapIoError wraps a lower-level I/O failure (e.g. from os or the mmap
// syscalls) with context about which operation failed.
func WrapIoError(op string, cause error) *Error {
	return &Error{Kind: IoError, Message: fmt.Sprintf("%s: %s", op, cause), Wrapped: cause}
}

// NewUnsupported builds an Unsupported error.
func NewUnsupported(format string, args ...interface{}) *Error {
	return newf(Unsupported, format, args...)
}

// pageDebugString renders a page argument the way the reference CLI does:
// a quoted title for strings, "#id" for numeric ids.
func pageDebugString(idOrTitle interface{}) string {
	switch v := idOrTitle.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case uint32:
		return fmt.Sprintf("#%d", v)
	case int:
		return fmt.Sprintf("#%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NewPageNotFound builds a PageNotFound error for the given page id or
// title, formatted as `page not found: #123` or `page not found: "title"`.
func NewPageNotFound(idOrTitle interface{}) *Error {
	return &Error{Kind: PageNotFound, Message: fmt.Sprintf("page not found: %s", pageDebugString(idOrTitle))}
}

// NewLinkNotFound builds a LinkNotFound error, formatted as
// `link not found: from #123 to #456`.
func NewLinkNotFound(from, to interface{}) *Error {
	return &Error{
		Kind:    LinkNotFound,
		Message: fmt.Sprintf("link not found: from %s to %s", pageDebugString(from), pageDebugString(to)),
	}
}

// NewInvalidArgument builds an InvalidArgument error.
func NewInvalidArgument(format string, args ...interface{}) *Error {
	return newf(InvalidArgument, format, args...)
}
