package registry

import (
	"fmt"
	"log/slog"
	"strings"
)

// Kind discriminates registry failure modes (spec §4.4).
type Kind int

const (
	// KindUnregisteredTypePath is returned when neither the full nor the
	// short form of a type path has a bound schematic.
	KindUnregisteredTypePath Kind = iota
	// KindDuplicateType is returned when the same Go type is registered
	// more than once.
	KindDuplicateType
	// KindDuplicatePath is returned when a path already names a different
	// registered type.
	KindDuplicatePath
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind        Kind
	Path        string
	msg         string
	Suggestions []string
}

// NewError constructs a registry [Error].
func NewError(kind Kind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, msg: msg}
}

// WithSuggestions attaches "did you mean" candidates to an
// KindUnregisteredTypePath error.
func (e *Error) WithSuggestions(s []string) *Error {
	e2 := *e
	e2.Suggestions = s

	return &e2
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s: %q", e.msg, e.Path))

	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?)")
	}

	return b.String()
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("path", e.Path),
		slog.String("message", e.msg),
	}

	if len(e.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", e.Suggestions))
	}

	return slog.GroupValue(attrs...)
}
