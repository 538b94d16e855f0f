package spawn

import "log/slog"

// Kind discriminates spawn failure modes (spec §7).
type Kind int

const (
	// KindSpawnFailed is returned when the entity store could not allocate
	// or wire an entity.
	KindSpawnFailed Kind = iota
	// KindInstallFailed is returned when a schematic's component could not
	// be inserted onto its entity.
	KindInstallFailed
	// KindMissingEntity is returned by [Spawner.Respawn] when the target
	// entity no longer exists; [Spawner.Reload] recovers from it by dropping
	// that root from its tracked set (spec §7 "local recovery of
	// MissingEntity during re-apply").
	KindMissingEntity
)

// Error is returned by every fallible [Spawner] operation.
type Error struct {
	Kind Kind
	// Type is the schematic's registered path, set for KindInstallFailed.
	Type string
	err  error
}

// NewError wraps cause as a spawn [Error].
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, err: cause}
}

// WithType attaches the offending schematic's registered path.
func (e *Error) WithType(path string) *Error {
	e2 := *e
	e2.Type = path

	return &e2
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Type != "" {
		return "spawn: " + e.Type + ": " + e.err.Error()
	}

	return "spawn: " + e.err.Error()
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("message", e.Error())}

	if e.Type != "" {
		attrs = append(attrs, slog.String("type", e.Type))
	}

	return slog.GroupValue(attrs...)
}
