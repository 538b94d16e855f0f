package resolve

import (
	"log/slog"
)

// Kind discriminates resolution failure modes (spec §7).
type Kind int

const (
	// KindUnresolvableType is returned when the registry has no schematic
	// bound to a config's type path.
	KindUnresolvableType Kind = iota
	// KindDecodeFailed is returned when a schematic body fails to decode
	// against its registered type.
	KindDecodeFailed
	// KindSubSceneFailed is returned when a `@"path"` reference could not
	// be loaded and inlined.
	KindSubSceneFailed
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind Kind
	// Subject is the type path or scene path the error concerns.
	Subject string
	err     error
}

// NewError wraps cause as a resolve [Error] of the given kind.
func NewError(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Subject + ": " + e.err.Error()
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("subject", e.Subject),
		slog.String("cause", e.err.Error()),
	)
}
