package spawn

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/registry"
	"github.com/ardnew/bsn/scene"
)

type health struct{ HP int }

func newFixture(t *testing.T) (*Spawner, *asset.MemoryEntityStore, *asset.MemoryStore) {
	t.Helper()

	reg := registry.New()
	if err := registry.Register(reg, reflect.TypeOf(health{}), "game::Health"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	store := asset.NewMemoryStore()
	es := asset.NewMemoryEntityStore()
	loader := scene.NewLoader(store, reg)
	sp := New(es, loader)

	return sp, es, store
}

func TestSpawnPathThenTick(t *testing.T) {
	ctx := context.Background()
	sp, es, store := newFixture(t)

	store.Put("root.bsn", []byte("#Hero Health(100) [ #Sidekick Health(10) ]"))

	h := sp.SpawnPath(ctx, "root.bsn")

	waitForStatus(t, sp, h, StatusQueued)

	if err := sp.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if sp.Status(h) != StatusSpawned {
		t.Fatalf("Status = %v; want StatusSpawned", sp.Status(h))
	}

	id, ok := sp.Entity(h)
	if !ok {
		t.Fatalf("Entity() not found for spawned handle")
	}

	comps := es.Components(id)
	if len(comps) != 1 {
		t.Fatalf("Components = %v; want 1", comps)
	}

	kids := es.Children(id)
	if len(kids) != 1 {
		t.Fatalf("Children = %v; want 1", kids)
	}
}

func TestTickNeverBlocksOnWaitingRequests(t *testing.T) {
	ctx := context.Background()
	sp, _, _ := newFixture(t)

	// No scene has been put into the store, so this request will never
	// resolve to "queued" — Tick must still return promptly (property S2).
	_ = sp.SpawnPath(ctx, "never-exists.bsn")

	done := make(chan struct{})

	go func() {
		_ = sp.Tick(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Tick blocked on an in-flight load")
	}
}

func TestRespawnUpsertsComponents(t *testing.T) {
	ctx := context.Background()
	sp, es, store := newFixture(t)

	store.Put("root.bsn", []byte("Health(100)"))

	h := sp.SpawnPath(ctx, "root.bsn")
	waitForStatus(t, sp, h, StatusQueued)

	if err := sp.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	id, _ := sp.Entity(h)

	store.Put("root.bsn", []byte("Health(50)"))

	resolved, err := sp.Loader.Load(ctx, "root.bsn")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := sp.Respawn(ctx, id, resolved); err != nil {
		t.Fatalf("Respawn: %v", err)
	}

	comps := es.Components(id)
	hp := comps["spawn.health"]

	if hp == nil {
		for _, v := range comps {
			if h, ok := v.(health); ok {
				hp = h
			}
		}
	}

	got, ok := hp.(health)
	if !ok {
		t.Fatalf("component not found or wrong type: %v", comps)
	}

	if got.HP != 50 {
		t.Fatalf("HP = %d; want 50 after upsert", got.HP)
	}
}

// TestReloadReappliesToAllRootsAndDropsMissing exercises property S3: a
// reload re-applies a changed scene to every root previously spawned from
// it, dropping a root whose entity has since been despawned while leaving
// the rest intact.
func TestReloadReappliesToAllRootsAndDropsMissing(t *testing.T) {
	ctx := context.Background()
	sp, es, store := newFixture(t)
	sp.HotReload = true

	store.Put("root.bsn", []byte("Health(1)"))

	h1 := sp.SpawnPath(ctx, "root.bsn")
	waitForStatus(t, sp, h1, StatusQueued)

	if err := sp.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	h2 := sp.SpawnPath(ctx, "root.bsn")
	waitForStatus(t, sp, h2, StatusQueued)

	if err := sp.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	id1, _ := sp.Entity(h1)
	id2, _ := sp.Entity(h2)

	if err := es.Despawn(ctx, id2, false); err != nil {
		t.Fatalf("Despawn: %v", err)
	}

	store.Put("root.bsn", []byte("Health(9)"))

	if err := sp.Reload(ctx, "root.bsn"); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	roots := sp.Roots("root.bsn")
	if len(roots) != 1 || roots[0] != id1 {
		t.Fatalf("Roots(root.bsn) = %v; want only %v", roots, id1)
	}

	comps := es.Components(id1)

	hp, ok := comps["spawn.health"].(health)
	if !ok {
		t.Fatalf("component not found or wrong type: %v", comps)
	}

	if hp.HP != 9 {
		t.Fatalf("HP = %d; want 9 after reload", hp.HP)
	}
}

func waitForStatus(t *testing.T, sp *Spawner, h Handle, want Status) {
	t.Helper()

	deadline := time.Now().Add(time.Second)

	for time.Now().Before(deadline) {
		if sp.Status(h) == want {
			return
		}

		time.Sleep(time.Millisecond)
	}

	t.Fatalf("handle never reached status %v, last status %v", want, sp.Status(h))
}
