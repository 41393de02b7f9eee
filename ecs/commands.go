package ecs

// Commands buffers structural operations requested during a frame and
// applies them when the frame ends. Systems that want their structural
// changes deferred to the frame boundary (rather than visible immediately)
// go through this buffer.
type Commands struct {
	creates  []createCommand
	destroys []EntityID
	adds     []addCommand
	removes  []removeCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	components []Component
}

type addCommand struct {
	entity    EntityID
	component Component
}

type removeCommand struct {
	entity EntityID
	t      Type
}

// Create queues creation of an entity with the given components.
func (c *Commands) Create(components ...Component) {
	c.creates = append(c.creates, createCommand{components: components})
}

// Destroy queues destruction of an entity.
func (c *Commands) Destroy(id EntityID) {
	c.destroys = append(c.destroys, id)
}

// Add queues attachment of a component to an entity.
func (c *Commands) Add(id EntityID, component Component) {
	c.adds = append(c.adds, addCommand{entity: id, component: component})
}

// Remove queues detachment of a component type from an entity.
func (c *Commands) Remove(id EntityID, t Type) {
	c.removes = append(c.removes, removeCommand{entity: id, t: t})
}

// Defer queues an arbitrary function to run after all buffered structural
// operations have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all buffered operations to the world and resets the buffer.
// Destroys run first so later operations against destroyed entities no-op.
func (c *Commands) Flush(w *World) {
	destroyed := make(map[EntityID]bool)

	for _, id := range c.destroys {
		w.DestroyEntity(id)
		destroyed[id] = true
	}

	for _, cmd := range c.removes {
		if !destroyed[cmd.entity] {
			w.RemoveComponent(cmd.entity, cmd.t)
		}
	}

	for _, cmd := range c.adds {
		if !destroyed[cmd.entity] {
			w.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.creates {
		id := w.CreateEntity()
		for _, comp := range cmd.components {
			w.AddComponent(id, comp)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.creates = c.creates[:0]
	c.destroys = c.destroys[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
