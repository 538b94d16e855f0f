package meta

import "log/slog"

// Kind discriminates sidecar failure modes.
type Kind int

const (
	// KindInvalidSidecar is returned when the YAML document cannot be
	// decoded at all.
	KindInvalidSidecar Kind = iota
	// KindUnknownAssetKind is returned when the `asset.kind` tag is not one
	// of Load, Process, or Ignore.
	KindUnknownAssetKind
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind Kind
	Tag  string
	err  error
}

// NewError wraps cause (which may be nil) as a meta [Error].
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, err: cause}
}

// WithTag attaches the offending tag string to a KindUnknownAssetKind
// error.
func (e *Error) WithTag(tag string) *Error {
	e2 := *e
	e2.Tag = tag

	return &e2
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownAssetKind:
		return "meta: unknown asset kind " + e.Tag
	default:
		if e.err != nil {
			return "meta: invalid sidecar: " + e.err.Error()
		}

		return "meta: invalid sidecar"
	}
}

// Unwrap supports errors.Is/As against the wrapped decode cause.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(slog.String("message", e.Error()))
}
