package registry

import (
	"reflect"
	"testing"

	"github.com/ardnew/bsn/bsn"
)

type enemy struct {
	Health int
}

type player struct{}

func typePath(t *testing.T, s string) *bsn.TypePath {
	t.Helper()

	scene, err := bsn.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", s, err)
	}

	return scene.Root.Configs[0].TypePath
}

func TestRegisterAndResolveFullPath(t *testing.T) {
	r := New()

	if err := Register(r, reflect.TypeOf(enemy{}), "game::Enemy"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sc, err := r.Resolve(typePath(t, "game::Enemy"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if sc.Type != reflect.TypeOf(enemy{}) {
		t.Fatalf("Type = %v; want enemy", sc.Type)
	}
}

func TestResolveFallsBackToShortPath(t *testing.T) {
	r := New()

	if err := Register(r, reflect.TypeOf(enemy{}), "game::Enemy"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sc, err := r.Resolve(typePath(t, "Enemy"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if sc.ShortPath != "Enemy" {
		t.Fatalf("ShortPath = %q; want Enemy", sc.ShortPath)
	}
}

func TestDuplicateTypeRejected(t *testing.T) {
	r := New()

	if err := Register(r, reflect.TypeOf(enemy{}), "game::Enemy"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := Register(r, reflect.TypeOf(enemy{}), "game::OtherEnemy")

	var re *Error
	if e, ok := err.(*Error); ok {
		re = e
	} else {
		t.Fatalf("err = %v; want *Error", err)
	}

	if re.Kind != KindDuplicateType {
		t.Fatalf("Kind = %v; want KindDuplicateType", re.Kind)
	}
}

func TestUnregisteredTypePathSuggestsClosestMatch(t *testing.T) {
	r := New()

	if err := Register(r, reflect.TypeOf(enemy{}), "game::Enemy"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := Register(r, reflect.TypeOf(player{}), "game::Player"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := r.Resolve(typePath(t, "Enemey"))

	var re *Error
	if e, ok := err.(*Error); ok {
		re = e
	} else {
		t.Fatalf("err = %v; want *Error", err)
	}

	if re.Kind != KindUnregisteredTypePath {
		t.Fatalf("Kind = %v; want KindUnregisteredTypePath", re.Kind)
	}

	found := false

	for _, s := range re.Suggestions {
		if s == "game::Enemy" || s == "Enemy" {
			found = true
		}
	}

	if !found {
		t.Fatalf("Suggestions = %v; want to include game::Enemy or Enemy", re.Suggestions)
	}
}
