// Package resolve implements the schematic resolution layer (spec §4.5):
// walking a parsed [bsn.Entity] tree, decoding each schematic config against
// the [registry.Registry], and inlining sub-scene references into a single
// [ResolvedEntity] tree ready for spawning.
package resolve

import (
	"log/slog"
	"reflect"

	"github.com/ardnew/bsn/bsn"
	"github.com/ardnew/bsn/log"
	"github.com/ardnew/bsn/registry"
)

// ResolvedSchematic is one decoded component bound to an entity, keyed by
// its Go type for merge and installation purposes (spec §3
// "ResolvedSchematic").
type ResolvedSchematic struct {
	Type  reflect.Type
	Path  string
	Props reflect.Value
}

// ResolvedEntity is an [Entity] with every schematic config decoded and
// every sub-scene reference inlined (spec §3 "ResolvedEntity").
type ResolvedEntity struct {
	Name       *string
	Schematics []ResolvedSchematic
	Children   []*ResolvedEntity
}

// ResolvedScene is the root of a fully resolved scene tree
// (spec §3 "ResolvedScene").
type ResolvedScene struct {
	Root *ResolvedEntity
}

// SubSceneLoader resolves a `@"path"` reference to the already-resolved
// tree of the scene it names. Package scene supplies the real
// dependency-waiting implementation; resolve itself performs no I/O,
// matching spec §4.5's description of resolution as a synchronous,
// non-suspending pass over an already-parsed tree.
type SubSceneLoader func(path string) (*ResolvedEntity, error)

// Resolver resolves parsed [bsn.Entity] trees against a fixed
// [registry.Registry] snapshot (spec §4.5 "resolution reads a read-locked
// registry snapshot; it never blocks on registration").
type Resolver struct {
	Registry *registry.Registry
	LoadSub  SubSceneLoader
	Logger   log.Logger
}

// New returns a Resolver bound to reg, using load to inline sub-scene
// references encountered during resolution.
func New(reg *registry.Registry, load SubSceneLoader) *Resolver {
	return &Resolver{Registry: reg, LoadSub: load}
}

// Resolve walks e and every descendant, producing a [ResolvedEntity] tree.
func (r *Resolver) Resolve(e *bsn.Entity) (*ResolvedEntity, error) {
	out := &ResolvedEntity{Name: e.Name}

	order := make([]reflect.Type, 0, len(e.Configs))
	byType := make(map[reflect.Type]int, len(e.Configs))

	merge := func(sc ResolvedSchematic) {
		if i, ok := byType[sc.Type]; ok {
			// TypeId-keyed merge: a later occurrence of the same component
			// type merges onto the earlier one field-by-field via the
			// registry's apply_props, rather than replacing it outright
			// (spec §4.4 "apply_props"; §4.5 "merge, not append").
			existing := out.Schematics[i]

			if reg, ok := r.Registry.SchematicByType(sc.Type); ok && reg.ApplyProps != nil {
				sc.Props = reg.ApplyProps(existing.Props, sc.Props)
			}

			out.Schematics[i] = sc

			return
		}

		byType[sc.Type] = len(out.Schematics)
		order = append(order, sc.Type)
		out.Schematics = append(out.Schematics, sc)
	}

	for _, cfg := range e.Configs {
		switch cfg.Kind {
		case bsn.ConfigSchematic:
			sc, err := r.resolveSchematic(cfg)
			if err != nil {
				return nil, err
			}

			merge(sc)

		case bsn.ConfigScene:
			sub, err := r.LoadSub(string(cfg.ScenePath))
			if err != nil {
				return nil, NewError(KindSubSceneFailed, string(cfg.ScenePath), err)
			}

			if out.Name == nil {
				out.Name = sub.Name
			}

			for _, sc := range sub.Schematics {
				merge(sc)
			}

			out.Children = append(out.Children, sub.Children...)
		}
	}

	for _, child := range e.Children {
		resolvedChild, err := r.Resolve(child)
		if err != nil {
			return nil, err
		}

		out.Children = append(out.Children, resolvedChild)
	}

	r.Logger.Trace("resolved entity",
		slog.Int("schematics", len(out.Schematics)), slog.Int("children", len(out.Children)))

	return out, nil
}

func (r *Resolver) resolveSchematic(cfg bsn.EntityConfig) (ResolvedSchematic, error) {
	sc, err := r.Registry.Resolve(cfg.TypePath)
	if err != nil {
		return ResolvedSchematic{}, NewError(KindUnresolvableType, cfg.TypePath.String(), err)
	}

	value := valueFromSchematicBody(cfg.Body)

	props, err := sc.PropsFromBsn(value)
	if err != nil {
		return ResolvedSchematic{}, NewError(KindDecodeFailed, cfg.TypePath.String(), err)
	}

	return ResolvedSchematic{Type: sc.Type, Path: sc.FullPath, Props: props}, nil
}

// valueFromSchematicBody adapts a [bsn.SchematicType] (a config's top-level
// body) to the [bsn.Value] shape decode.Value expects, so a single decode
// entry point serves both nested values and top-level schematic bodies.
func valueFromSchematicBody(body *bsn.SchematicType) bsn.Value {
	if body == nil {
		return bsn.Value{Kind: bsn.ValueStruct, Struct: &bsn.BsnStruct{Kind: bsn.StructTuple}}
	}

	switch body.Kind {
	case bsn.SchematicEnum:
		return bsn.Value{Kind: bsn.ValueEnum, Enum: body.Enum}
	default:
		return bsn.Value{Kind: bsn.ValueStruct, Struct: body.Struct}
	}
}
