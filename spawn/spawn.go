// Package spawn implements the scene spawner (spec §4.7, §4.8): taking a
// resolved scene tree — or a path to load one from — and materializing it
// into a live [asset.EntityStore], asynchronously waiting out each scene's
// dependency closure but never blocking the spawn step itself once that
// closure is satisfied (spec §5 "Concurrency & Resource Model").
//
// A [Spawner] keeps three logical queues, named after the reference
// engine's own spawner state: queued roots whose resolved tree is ready to
// materialize, requests still waiting on an in-flight load, and — per scene
// asset path, when [Spawner.HotReload] is set — the set of already-spawned
// root entities, so a later [Spawner.Reload] can re-apply that scene onto
// every root it produced (spec §4.7 "Modified(id)"). [Spawner.Tick] is the
// only place any of those queues are mutated against the entity store, and
// it never itself performs I/O or blocks — matching property S2.
package spawn

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/log"
	"github.com/ardnew/bsn/resolve"
	"github.com/ardnew/bsn/scene"
)

// Handle identifies one spawn request across its waiting → queued →
// spawned lifecycle.
type Handle uint64

type queuedRoot struct {
	handle   Handle
	path     string
	resolved *resolve.ResolvedEntity
}

// Spawner materializes resolved scene trees into an [asset.EntityStore].
type Spawner struct {
	Store  asset.EntityStore
	Loader *scene.Loader
	Logger log.Logger

	// HotReload enables per-path root tracking so [Spawner.Reload] can
	// re-apply a changed scene to every entity previously spawned from it
	// (spec §4.7 "spawned: ... only populated when hot-reload is enabled").
	HotReload bool

	mu       sync.Mutex
	nextID   Handle
	waiting  map[Handle]struct{}
	queued   []queuedRoot
	spawned  map[Handle]asset.EntityID
	loadErrs map[Handle]error
	roots    map[string]map[asset.EntityID]struct{}
}

// New returns a Spawner materializing into store, loading sub-scenes and
// path-based spawn requests through loader.
func New(store asset.EntityStore, loader *scene.Loader) *Spawner {
	return &Spawner{
		Store:    store,
		Loader:   loader,
		waiting:  make(map[Handle]struct{}),
		spawned:  make(map[Handle]asset.EntityID),
		loadErrs: make(map[Handle]error),
		roots:    make(map[string]map[asset.EntityID]struct{}),
	}
}

// Enqueue registers an already-resolved tree for spawning on the next
// [Spawner.Tick] (spec §4.7 "queued"). Use this when the tree was resolved
// synchronously by the caller and has no asset path of its own, so it never
// participates in [Spawner.Reload]; use [Spawner.SpawnPath] to have the
// spawner load it from a path first.
func (s *Spawner) Enqueue(resolved *resolve.ResolvedEntity) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	h := s.nextID

	s.queued = append(s.queued, queuedRoot{handle: h, resolved: resolved})

	return h
}

// SpawnPath asynchronously loads path through the spawner's [scene.Loader]
// and, once resolved, moves the request from "waiting" to "queued" so the
// next [Spawner.Tick] spawns it (spec §4.7 "waiting"). It returns
// immediately; the load runs on its own goroutine so one slow scene never
// delays ticks for unrelated spawn requests. Multiple concurrent
// SpawnPath calls for the same path each resume once that path's single
// underlying [scene.Loader.Load] resolves, the same drain-together behavior
// spec §4.7's "LoadedWithDependencies(id): drain waiting[id]" describes.
func (s *Spawner) SpawnPath(ctx context.Context, path string) Handle {
	s.mu.Lock()
	s.nextID++
	h := s.nextID
	s.waiting[h] = struct{}{}
	s.mu.Unlock()

	go func() {
		resolved, err := s.Loader.Load(ctx, path)

		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.waiting, h)

		if err != nil {
			s.loadErrs[h] = err

			s.Logger.ErrorContext(ctx, "spawn path load failed",
				slog.String("path", path), slog.Any("error", err))

			return
		}

		s.queued = append(s.queued, queuedRoot{handle: h, path: path, resolved: resolved})
	}()

	return h
}

// Status reports where a handle currently sits in the spawn lifecycle.
type Status int

const (
	// StatusWaiting means the scene is still loading.
	StatusWaiting Status = iota
	// StatusQueued means the scene is resolved and awaiting the next Tick.
	StatusQueued
	// StatusSpawned means the scene has been materialized.
	StatusSpawned
	// StatusFailed means loading the scene failed; see [Spawner.Err].
	StatusFailed
	// StatusUnknown means the handle is not recognized.
	StatusUnknown
)

// Status reports h's current lifecycle state (spec S1 "a handle is always
// in exactly one of waiting, queued, or spawned").
func (s *Spawner) Status(h Handle) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.waiting[h]; ok {
		return StatusWaiting
	}

	if _, ok := s.loadErrs[h]; ok {
		return StatusFailed
	}

	if _, ok := s.spawned[h]; ok {
		return StatusSpawned
	}

	for _, q := range s.queued {
		if q.handle == h {
			return StatusQueued
		}
	}

	return StatusUnknown
}

// Err returns the load error for a failed handle, or nil.
func (s *Spawner) Err(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErrs[h]
}

// Entity returns the root [asset.EntityID] spawned for h, once spawned.
func (s *Spawner) Entity(h Handle) (asset.EntityID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.spawned[h]

	return id, ok
}

// Tick spawns every currently queued root into the entity store and
// returns. It performs no I/O and never waits on an in-flight
// [Spawner.SpawnPath] load (spec property S2); those requests simply remain
// "waiting" until a later Tick observes them queued.
func (s *Spawner) Tick(ctx context.Context) error {
	s.mu.Lock()
	batch := s.queued
	s.queued = nil
	s.mu.Unlock()

	for _, q := range batch {
		id, err := s.spawnTree(ctx, q.resolved)
		if err != nil {
			return err
		}

		s.mu.Lock()
		s.spawned[q.handle] = id

		if s.HotReload && q.path != "" {
			if s.roots[q.path] == nil {
				s.roots[q.path] = make(map[asset.EntityID]struct{})
			}

			s.roots[q.path][id] = struct{}{}
		}

		s.mu.Unlock()

		s.Logger.DebugContext(ctx, "spawned scene root",
			slog.Uint64("handle", uint64(q.handle)), slog.Uint64("entity", uint64(id)))
	}

	return nil
}

// Roots returns a snapshot of the entities currently recorded as spawned
// from path (spec §4.7 "spawned[id]"), populated only while [Spawner.HotReload]
// is set.
func (s *Spawner) Roots(path string) []asset.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]asset.EntityID, 0, len(s.roots[path]))
	for id := range s.roots[path] {
		out = append(out, id)
	}

	return out
}

// Reload implements the Modified(id) event of spec §4.7: it re-resolves
// path through the loader and re-applies the result onto every root
// previously recorded for path, dropping roots whose entity no longer
// exists from the tracked set while leaving the rest untouched (property
// S3), and is a no-op when HotReload is unset or path has no tracked roots.
func (s *Spawner) Reload(ctx context.Context, path string) error {
	if !s.HotReload || len(s.Roots(path)) == 0 {
		return nil
	}

	resolved, err := s.Loader.Load(ctx, path)
	if err != nil {
		return NewError(KindSpawnFailed, err)
	}

	for _, id := range s.Roots(path) {
		err := s.Respawn(ctx, id, resolved)

		var spawnErr *Error
		if errors.As(err, &spawnErr) && spawnErr.Kind == KindMissingEntity {
			s.mu.Lock()
			delete(s.roots[path], id)
			s.mu.Unlock()

			s.Logger.WarnContext(ctx, "dropped missing root on reload",
				slog.String("path", path), slog.Uint64("entity", uint64(id)))

			continue
		}

		if err != nil {
			s.Logger.ErrorContext(ctx, "reload failed for root",
				slog.String("path", path), slog.Uint64("entity", uint64(id)), slog.Any("error", err))
		}
	}

	return nil
}

// installFromProps installs a resolved schematic onto id, routing through
// the registry's insert_from_props operation (spec §4.4) rather than
// inserting the decoded props value directly, so a registered type's own
// install hook — not just its decode step — is the single path every
// component installation goes through, whether from an initial spawn or a
// later [Spawner.Respawn].
func (s *Spawner) installFromProps(
	ctx context.Context,
	store asset.EntityStore,
	id asset.EntityID,
	sc resolve.ResolvedSchematic,
) error {
	if reg, ok := s.Loader.Registry.SchematicByType(sc.Type); ok && reg.InsertFromProps != nil {
		return reg.InsertFromProps(ctx, store, id, sc.Props)
	}

	return store.Insert(ctx, id, sc.Props.Interface())
}

// spawnTree recursively materializes resolved into the entity store,
// depth-first: a node's own entity is allocated and its components
// installed before its children are spawned, and every child spawned while
// installing components is attached before spawnTree returns (spec §4.8).
func (s *Spawner) spawnTree(ctx context.Context, resolved *resolve.ResolvedEntity) (asset.EntityID, error) {
	id, err := s.Store.Spawn(ctx)
	if err != nil {
		return 0, NewError(KindSpawnFailed, err)
	}

	ec := &EntityContext{ctx: ctx, store: s.Store, id: id, spawner: s}

	installErr := func() error {
		for _, sc := range resolved.Schematics {
			if err := s.installFromProps(ctx, s.Store, id, sc); err != nil {
				return NewError(KindInstallFailed, err).WithType(sc.Path)
			}
		}

		return nil
	}()

	// Children spawned via EntityContext.SpawnChild during installation are
	// attached here, even if installation itself failed above.
	if releaseErr := ec.release(); releaseErr != nil && installErr == nil {
		installErr = NewError(KindSpawnFailed, releaseErr)
	}

	if installErr != nil {
		return 0, installErr
	}

	for _, child := range resolved.Children {
		childID, err := s.spawnTree(ctx, child)
		if err != nil {
			return 0, err
		}

		if err := s.Store.AddChild(ctx, id, childID); err != nil {
			return 0, NewError(KindSpawnFailed, err)
		}
	}

	return id, nil
}

// Respawn re-applies resolved onto an already-spawned entity tree rooted at
// id, upserting components in place rather than despawning and re-spawning
// (spec §9 Open Question 3, decided: hot-reload upserts). A component type
// present in resolved but missing from the live entity is inserted; a
// component type no longer present in resolved is left untouched, since the
// spawner has no authoritative list of "components this scene previously
// owned" once other code may also have touched the entity.
//
// Respawn does not re-create the child hierarchy; it re-applies only the
// root entity's own schematics. Re-spawning with structural (child-adding
// or child-removing) changes requires a full despawn and [Spawner.Enqueue].
func (s *Spawner) Respawn(ctx context.Context, id asset.EntityID, resolved *resolve.ResolvedEntity) error {
	for _, sc := range resolved.Schematics {
		if err := s.installFromProps(ctx, s.Store, id, sc); err != nil {
			if errors.Is(err, asset.ErrMissingEntity) {
				return NewError(KindMissingEntity, err)
			}

			return NewError(KindInstallFailed, err).WithType(sc.Path)
		}
	}

	s.Logger.DebugContext(ctx, "respawned entity",
		slog.Uint64("entity", uint64(id)), slog.Int("schematics", len(resolved.Schematics)))

	return nil
}
