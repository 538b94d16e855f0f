package spawn

import (
	"context"

	"github.com/ardnew/bsn/asset"
)

// EntityContext is handed to the installation step for one entity (spec
// §4.8). It identifies the live entity being populated and buffers any
// children spawned from within that step (via [EntityContext.SpawnChild])
// so they can be attached to their parent as a single batch once the step
// returns — even if the step itself returns an error, since a failed
// schematic must not leak orphaned child entities (spec §4.8 "guaranteed
// release on drop").
type EntityContext struct {
	ctx     context.Context
	store   asset.EntityStore
	id      asset.EntityID
	spawner *Spawner

	children []asset.EntityID
	released bool
}

// ID returns the entity this context installs components onto.
func (c *EntityContext) ID() asset.EntityID { return c.id }

// Insert attaches component to this context's entity.
func (c *EntityContext) Insert(component any) error {
	return c.store.Insert(c.ctx, c.id, component)
}

// SpawnChild allocates a new entity and records it as a pending child of
// this context's entity. The child is not attached via AddChild until
// [EntityContext.release] runs, so a mid-step error still attaches every
// child spawned before the error occurred (spec §4.8 "children are attached
// even when their parent's installation step later fails").
func (c *EntityContext) SpawnChild() (asset.EntityID, error) {
	id, err := c.store.Spawn(c.ctx)
	if err != nil {
		return 0, err
	}

	c.children = append(c.children, id)

	return id, nil
}

// release attaches every buffered child to this context's entity. It is
// idempotent and is always invoked by the spawner after an installation
// step returns, regardless of whether that step returned an error.
func (c *EntityContext) release() error {
	if c.released {
		return nil
	}

	c.released = true

	for _, child := range c.children {
		if err := c.store.AddChild(c.ctx, c.id, child); err != nil {
			return err
		}
	}

	return nil
}
