// Package scene implements the scene loader (spec §4.6): turning an asset
// path into a fully resolved [resolve.ResolvedEntity] tree by reading its
// bytes, parsing them as BSN, and resolving the result against a type
// registry — recursing into `@"path"` sub-scene references along the way,
// the only points at which loading one scene suspends on another (spec §5
// "Concurrency & Resource Model").
package scene

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/bsn"
	"github.com/ardnew/bsn/log"
	"github.com/ardnew/bsn/meta"
	"github.com/ardnew/bsn/registry"
	"github.com/ardnew/bsn/resolve"
)

// cacheEntry memoizes a successfully resolved scene alongside the content
// hash it was resolved from, so a hot-reload pass can detect whether the
// underlying bytes actually changed before paying for a re-parse (spec §6
// "hash").
type cacheEntry struct {
	hash     uint64
	resolved *resolve.ResolvedEntity
}

// loadCall tracks one in-flight Load for a path, so concurrent callers
// requesting the same not-yet-cached path share a single read/parse/resolve
// instead of racing duplicate work, and each waiter observes the same
// result once it completes.
type loadCall struct {
	done     chan struct{}
	resolved *resolve.ResolvedEntity
	err      error
}

// chainKey is the context key under which Load threads the set of paths
// currently being resolved by the calling goroutine's own recursion chain,
// used to distinguish a genuine self-referential cycle from two unrelated
// callers concurrently requesting the same shared sub-scene.
type chainKey struct{}

// Loader loads and resolves BSN scene files by path, caching results keyed
// by path and invalidating the cache when a reload observes a changed
// content hash.
type Loader struct {
	Store    asset.Store
	Registry *registry.Registry
	Logger   log.Logger

	mu       sync.Mutex
	cache    map[string]cacheEntry
	inFlight map[string]*loadCall
}

// NewLoader returns a Loader reading scene bytes from store and resolving
// schematics against reg.
func NewLoader(store asset.Store, reg *registry.Registry) *Loader {
	return &Loader{
		Store:    store,
		Registry: reg,
		cache:    make(map[string]cacheEntry),
		inFlight: make(map[string]*loadCall),
	}
}

// Load resolves the scene at path, recursing into any sub-scene references
// it contains. A path that (directly or transitively) references itself
// within the same call chain is rejected as a [KindCyclicDependency] error
// rather than recursing forever. Two unrelated callers requesting the same
// path concurrently are not a cycle: the second caller waits for the first
// in-flight load to finish and observes its result (spec §4.7, §5).
func (l *Loader) Load(ctx context.Context, path string) (*resolve.ResolvedEntity, error) {
	chain, _ := ctx.Value(chainKey{}).(map[string]bool)

	if chain[path] {
		l.Logger.WarnContext(ctx, "cyclic sub-scene reference",
			slog.String("path", path))

		return nil, NewError(KindCyclicDependency, path, nil)
	}

	content, err := l.read(ctx, path)
	if err != nil {
		return nil, NewError(KindReadFailed, path, err)
	}

	hash := meta.Hash(content)

	l.mu.Lock()

	if entry, ok := l.cache[path]; ok && entry.hash == hash {
		l.mu.Unlock()

		l.Logger.DebugContext(ctx, "scene cache hit",
			slog.String("path", path), slog.Uint64("hash", hash))

		return entry.resolved, nil
	}

	if call, ok := l.inFlight[path]; ok {
		l.mu.Unlock()

		l.Logger.DebugContext(ctx, "waiting on in-flight load of shared scene",
			slog.String("path", path))

		<-call.done

		return call.resolved, call.err
	}

	call := &loadCall{done: make(chan struct{})}
	l.inFlight[path] = call

	l.mu.Unlock()

	childChain := make(map[string]bool, len(chain)+1)
	for p := range chain {
		childChain[p] = true
	}

	childChain[path] = true

	resolved, resolveErr := l.parseAndResolve(context.WithValue(ctx, chainKey{}, childChain), content)

	if resolveErr != nil {
		call.err = NewError(KindResolveFailed, path, resolveErr)
	} else {
		call.resolved = resolved
	}

	l.mu.Lock()
	delete(l.inFlight, path)

	if call.err == nil {
		l.cache[path] = cacheEntry{hash: hash, resolved: resolved}
	}

	l.mu.Unlock()

	close(call.done)

	if call.err != nil {
		return nil, call.err
	}

	l.Logger.DebugContext(ctx, "scene loaded",
		slog.String("path", path), slog.Uint64("hash", hash))

	return resolved, nil
}

// read fetches path's full content through an async read-ahead wrapper and
// returns once all of it has been read. Sub-scenes are read one at a time,
// as resolution of their parent reaches each reference.
func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	rc, err := l.Store.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	defer rc.Close()

	ra := readahead.NewReader(rc)
	defer ra.Close()

	return io.ReadAll(ra)
}

func (l *Loader) parseAndResolve(ctx context.Context, content []byte) (*resolve.ResolvedEntity, error) {
	parsed, err := bsn.Parse(content)
	if err != nil {
		return nil, err
	}

	r := resolve.New(l.Registry, func(subPath string) (*resolve.ResolvedEntity, error) {
		return l.Load(ctx, subPath)
	})
	r.Logger = l.Logger

	return r.Resolve(parsed.Root)
}

// Invalidate drops path (and only path — not its dependents, which will
// naturally re-check their own sub-scene content on next Load) from the
// cache, forcing the next Load to re-read and re-resolve it (spec §4.7
// "hot-reload").
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.cache, path)
}
