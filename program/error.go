package program

import "log/slog"

// Kind discriminates dynamic program failure modes.
type Kind int

const (
	// KindCompileFailed is returned when expr-lang could not compile the
	// program source.
	KindCompileFailed Kind = iota
	// KindEvaluateFailed is returned when a compiled program's evaluation
	// raised an error at runtime.
	KindEvaluateFailed
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind   Kind
	Source string
	err    error
}

// NewError wraps cause as a program [Error].
func NewError(kind Kind, source string, cause error) *Error {
	return &Error{Kind: kind, Source: source, err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "program: " + e.err.Error()
}

// Unwrap supports errors.Is/As against the wrapped expr-lang cause.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", e.Source),
		slog.String("cause", e.err.Error()),
	)
}
