package scene

import "log/slog"

// Kind discriminates scene loading failure modes (spec §7).
type Kind int

const (
	// KindReadFailed is returned when the underlying [asset.Store] could
	// not supply the scene's bytes.
	KindReadFailed Kind = iota
	// KindResolveFailed is returned when parsing or schematic resolution
	// failed; the wrapped error is the *bsn.ParseError or *resolve.Error.
	KindResolveFailed
	// KindCyclicDependency is returned when a scene's sub-scene references
	// form a cycle back to a scene already being loaded.
	KindCyclicDependency
)

// Error is returned by every fallible [Loader] operation.
type Error struct {
	Kind Kind
	Path string
	err  error
}

// NewError wraps cause (which may be nil, for KindCyclicDependency) as a
// scene [Error].
func NewError(kind Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindCyclicDependency:
		return "scene: cyclic sub-scene dependency on " + e.Path
	default:
		return "scene: " + e.Path + ": " + e.err.Error()
	}
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", e.Path),
		slog.String("message", e.Error()),
	)
}
