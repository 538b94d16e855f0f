// Package log provides a concurrency-safe structured logging interface
// built on [log/slog], shared by every layer of the bsn scene pipeline
// (parser, resolver, loader, spawner).
//
// A zero-value [Logger] is a silent no-op: packages that accept a Logger
// as an optional dependency never need to nil-check it before logging.
//
// # Basic usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("scene resolved", slog.Int("schematics", 3))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// # Context-aware logging
//
// Every level has a context-aware and a context-unaware variant; the
// latter logs against [DefaultContextProvider] (context.TODO by default):
//
//	logger.TraceContext(ctx, "entity spawned", slog.Uint64("id", uint64(id)))
//	logger.Trace("entity spawned")
//
// # Levels
//
// Five levels are supported: [LevelTrace] (below slog's own Debug, used
// for per-token parse and per-field decode tracing), [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError].
package log
