package resolve

import (
	"reflect"
	"testing"

	"github.com/ardnew/bsn/bsn"
	"github.com/ardnew/bsn/registry"
)

type health struct{ HP int }

type visible struct{}

type position struct{ X, Y int }

func noSubScenes(path string) (*ResolvedEntity, error) {
	return nil, NewError(KindSubSceneFailed, path, errUnexpectedSubScene)
}

var errUnexpectedSubScene = errString("no sub-scenes configured for this test")

type errString string

func (e errString) Error() string { return string(e) }

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()

	if err := registry.Register(r, reflect.TypeOf(health{}), "game::Health"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := registry.Register(r, reflect.TypeOf(visible{}), "game::Visible"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := registry.Register(r, reflect.TypeOf(position{}), "game::Position"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	return r
}

func TestResolveSimpleEntity(t *testing.T) {
	scene, err := bsn.ParseString(`#Player (Health(100) Visible)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	r := New(newRegistry(t), noSubScenes)

	resolved, err := r.Resolve(scene.Root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if resolved.Name == nil || *resolved.Name != "Player" {
		t.Fatalf("Name = %v; want Player", resolved.Name)
	}

	if len(resolved.Schematics) != 2 {
		t.Fatalf("Schematics = %d; want 2", len(resolved.Schematics))
	}

	hp := resolved.Schematics[0].Props.Interface().(health)
	if hp.HP != 100 {
		t.Fatalf("HP = %d; want 100", hp.HP)
	}
}

func TestResolveMergesRepeatedSchematicByType(t *testing.T) {
	scene, err := bsn.ParseString(`(Position { x: 1 } Visible Position { y: 2 })`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	r := New(newRegistry(t), noSubScenes)

	resolved, err := r.Resolve(scene.Root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(resolved.Schematics) != 2 {
		t.Fatalf("Schematics = %d; want 2 (merged, not appended)", len(resolved.Schematics))
	}

	// Per-field merge (spec §4.4 "apply_props"): the second declaration only
	// sets Y, so it must not clobber the X the first declaration set.
	pos := resolved.Schematics[0].Props.Interface().(position)
	if pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position = %+v; want {X:1 Y:2} (merged per-field, not replaced)", pos)
	}
}

func TestResolveUnresolvableType(t *testing.T) {
	scene, err := bsn.ParseString(`Unknown`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	r := New(newRegistry(t), noSubScenes)

	_, err = r.Resolve(scene.Root)
	if err == nil {
		t.Fatalf("expected an error")
	}

	re, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v; want *Error", err)
	}

	if re.Kind != KindUnresolvableType {
		t.Fatalf("Kind = %v; want KindUnresolvableType", re.Kind)
	}
}

func TestResolveInlinesSubScene(t *testing.T) {
	scene, err := bsn.ParseString(`@"enemy.bsn"`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	subName := "Enemy"
	sub := &ResolvedEntity{
		Name: &subName,
		Schematics: []ResolvedSchematic{
			{Type: reflect.TypeOf(health{}), Path: "game::Health", Props: reflect.ValueOf(health{HP: 50})},
		},
	}

	loader := func(path string) (*ResolvedEntity, error) {
		if path != "enemy.bsn" {
			t.Fatalf("loader called with %q; want enemy.bsn", path)
		}

		return sub, nil
	}

	r := New(newRegistry(t), loader)

	resolved, err := r.Resolve(scene.Root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if resolved.Name == nil || *resolved.Name != "Enemy" {
		t.Fatalf("Name = %v; want inherited Enemy", resolved.Name)
	}

	if len(resolved.Schematics) != 1 {
		t.Fatalf("Schematics = %d; want 1 inlined from sub-scene", len(resolved.Schematics))
	}
}
