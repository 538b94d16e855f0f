package scene

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/registry"
	"github.com/ardnew/bsn/resolve"
)

type marker struct{}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()
	if err := registry.Register(r, reflect.TypeOf(marker{}), "game::Marker"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	return r
}

func TestLoadSimpleScene(t *testing.T) {
	ctx := context.Background()
	store := asset.NewMemoryStore()
	store.Put("root.bsn", []byte("Marker"))

	l := NewLoader(store, newTestRegistry(t))

	resolved, err := l.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(resolved.Schematics) != 1 {
		t.Fatalf("Schematics = %d; want 1", len(resolved.Schematics))
	}
}

func TestLoadInlinesSubScene(t *testing.T) {
	ctx := context.Background()
	store := asset.NewMemoryStore()
	store.Put("root.bsn", []byte(`@"child.bsn"`))
	store.Put("child.bsn", []byte("Marker"))

	l := NewLoader(store, newTestRegistry(t))

	resolved, err := l.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(resolved.Schematics) != 1 {
		t.Fatalf("Schematics = %d; want 1 inlined from child.bsn", len(resolved.Schematics))
	}
}

func TestLoadDetectsCycle(t *testing.T) {
	ctx := context.Background()
	store := asset.NewMemoryStore()
	store.Put("a.bsn", []byte(`@"b.bsn"`))
	store.Put("b.bsn", []byte(`@"a.bsn"`))

	l := NewLoader(store, newTestRegistry(t))

	_, err := l.Load(ctx, "a.bsn")
	if err == nil {
		t.Fatalf("expected a cyclic dependency error")
	}
}

// TestLoadConcurrentCallersOfSharedSceneIsNotACycle ensures two unrelated
// roots loading the same shared sub-scene at the same time are queued as
// waiters on one in-flight load rather than rejected as a cyclic reference
// (spec §4.7, §5 "I/O for independent sub-scenes proceeds concurrently").
func TestLoadConcurrentCallersOfSharedSceneIsNotACycle(t *testing.T) {
	ctx := context.Background()
	store := asset.NewMemoryStore()
	store.Put("shared.bsn", []byte("Marker"))

	l := NewLoader(store, newTestRegistry(t))

	const callers = 8

	var wg sync.WaitGroup

	resolved := make([]*resolve.ResolvedEntity, callers)
	errs := make([]error, callers)

	wg.Add(callers)

	for i := range callers {
		go func(i int) {
			defer wg.Done()

			resolved[i], errs[i] = l.Load(ctx, "shared.bsn")
		}(i)
	}

	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: Load: %v", i, errs[i])
		}

		if resolved[i] == nil {
			t.Fatalf("caller %d: resolved entity is nil", i)
		}
	}
}

func TestLoadCachesByContentHash(t *testing.T) {
	ctx := context.Background()
	store := asset.NewMemoryStore()
	store.Put("root.bsn", []byte("Marker"))

	l := NewLoader(store, newTestRegistry(t))

	first, err := l.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	second, err := l.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if first != second {
		t.Fatalf("expected the cached *ResolvedEntity to be reused when content is unchanged")
	}

	// Simulate a hot-reload: changed content invalidates the cache.
	store.Put("root.bsn", []byte("(Marker Marker)"))

	third, err := l.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if third == first {
		t.Fatalf("expected a fresh resolve after content changed")
	}
}
