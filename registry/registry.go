// Package registry implements the reflective type registry schematics are
// resolved against (spec §4.4): binding a Go type to its BSN-facing full and
// short type paths, and to the capability bundle a schematic resolver needs
// to turn a parsed [bsn.EntityConfig] into a concrete component value.
package registry

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/bsn"
	"github.com/ardnew/bsn/decode"
	"github.com/ardnew/bsn/log"
)

// Schematic is the capability bundle bound to a registered type (spec §4.4:
// props_from_bsn, from_props, insert_from_props, apply_props).
type Schematic struct {
	// Type is the registered Go type.
	Type reflect.Type
	// FullPath is the fully-qualified "::"-joined path this type is
	// registered under (e.g. "my_game::Enemy").
	FullPath string
	// ShortPath is the last path segment (e.g. "Enemy").
	ShortPath string

	// PropsFromBsn decodes a parsed schematic body into a reflect.Value of
	// Type (spec "props_from_bsn").
	PropsFromBsn func(v bsn.Value) (reflect.Value, error)

	// ApplyProps merges an overlay props value onto a base props value of
	// Type, used when a schematic of the same type is re-declared on the
	// same entity (spec "apply_props": "composite property bags recurse
	// per-field so that a field left unset in b does not overwrite a set
	// field in a").
	ApplyProps func(base, overlay reflect.Value) reflect.Value

	// FromProps converts a decoded props value into the concrete component
	// value a host [asset.EntityStore] installs (spec "from_props").
	FromProps func(props reflect.Value) any

	// InsertFromProps installs props onto id in store (spec
	// "insert_from_props"), the single entry point both the initial spawn
	// and a later re-apply route component installation through.
	InsertFromProps func(ctx context.Context, store asset.EntityStore, id asset.EntityID, props reflect.Value) error
}

// Registry binds Go types to the type paths BSN schematics reference, and
// resolves a path to its [Schematic] bundle (spec §4.4). The zero value is
// not usable; construct with [New].
type Registry struct {
	Logger log.Logger

	mu    sync.RWMutex
	byTyp map[reflect.Type]*Schematic
	byKey map[string]*Schematic // both full and short paths map here
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byTyp: make(map[reflect.Type]*Schematic),
		byKey: make(map[string]*Schematic),
	}
}

// Register binds typ under fullPath (and its last segment as a short
// alias), using decode.Value as the default PropsFromBsn implementation.
// Registering the same Go type twice, or a path that collides with an
// existing registration for a different type, is an error (spec §4.4
// "registration is keyed by TypeId; re-registering the same type is
// rejected").
func Register(r *Registry, typ reflect.Type, fullPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byTyp[typ]; ok {
		return NewError(KindDuplicateType, fullPath, "type already registered")
	}

	short := shortSegment(fullPath)

	if existing, ok := r.byKey[fullPath]; ok && existing.Type != typ {
		return NewError(KindDuplicatePath, fullPath, "path already bound to a different type")
	}

	sc := &Schematic{
		Type:      typ,
		FullPath:  fullPath,
		ShortPath: short,
		PropsFromBsn: func(v bsn.Value) (reflect.Value, error) {
			return decode.Value(v, typ)
		},
		ApplyProps: decode.Merge,
		FromProps: func(props reflect.Value) any {
			return props.Interface()
		},
		InsertFromProps: func(ctx context.Context, store asset.EntityStore, id asset.EntityID, props reflect.Value) error {
			return store.Insert(ctx, id, props.Interface())
		},
	}

	r.byTyp[typ] = sc
	r.byKey[fullPath] = sc

	// Only claim the short alias if it isn't already claimed by another
	// type; an ambiguous short name still resolves via its full path.
	if _, taken := r.byKey[short]; !taken {
		r.byKey[short] = sc
	}

	r.Logger.Trace("registered schematic type",
		slog.String("path", fullPath), slog.String("short", short))

	return nil
}

// Resolve looks up the [Schematic] for a parsed [bsn.TypePath], trying the
// full path first and falling back to the short path (spec §4.4 "try full,
// then short"). On failure it returns an [Error] of kind
// KindUnregisteredTypePath carrying fuzzy-matched suggestions from the set
// of currently registered paths.
func (r *Registry) Resolve(path *bsn.TypePath) (*Schematic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	full := path.Full()

	if sc, ok := r.byKey[full]; ok {
		return sc, nil
	}

	short := path.Short()

	if sc, ok := r.byKey[short]; ok {
		return sc, nil
	}

	return nil, r.unregisteredError(full)
}

// unregisteredError builds a KindUnregisteredTypePath error annotated with
// up to 3 fuzzy-matched "did you mean" suggestions drawn from every
// registered full and short path.
func (r *Registry) unregisteredError(path string) *Error {
	candidates := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		candidates = append(candidates, key)
	}

	sort.Strings(candidates)

	matches := fuzzy.Find(path, candidates)

	suggestions := make([]string, 0, 3)

	for i, m := range matches {
		if i >= 3 {
			break
		}

		suggestions = append(suggestions, m.Str)
	}

	return NewError(KindUnregisteredTypePath, path, "no schematic registered for this type path").
		WithSuggestions(suggestions)
}

// SchematicByType looks up the [Schematic] bundle bound to a Go type,
// used by a resolver merging a repeated schematic (spec "apply_props") and
// by a spawner installing already-resolved props (spec "insert_from_props").
func (r *Registry) SchematicByType(typ reflect.Type) (*Schematic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.byTyp[typ]

	return sc, ok
}

// Len reports the number of distinct types registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byTyp)
}

func shortSegment(fullPath string) string {
	last := fullPath

	for i := len(fullPath) - 1; i >= 1; i-- {
		if fullPath[i] == ':' && fullPath[i-1] == ':' {
			last = fullPath[i+1:]

			break
		}
	}

	return last
}
