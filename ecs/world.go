package ecs

import (
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// World owns entity identities and their attached components, and memoizes
// the queries derived from them.
type World struct {
	log      *zap.Logger
	nextID   EntityID
	entities *intmap.Map[EntityID, *Entity]
	order    []EntityID
	queries  map[uint64]*Query

	// version increments on every structural mutation (create/destroy/
	// add/remove). Queries compare it to decide whether their cached
	// membership is stale.
	version uint64
}

// NewWorld creates an empty world. A nil logger falls back to a no-op
// logger.
func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		log:      log,
		nextID:   1,
		entities: intmap.New[EntityID, *Entity](256),
		queries:  make(map[uint64]*Query),
	}
}

// CreateEntity allocates a new active entity and returns its id. IDs are
// monotonic and never reused.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++

	w.entities.Put(id, &Entity{
		ID:         id,
		Active:     true,
		components: make(map[Type]Component),
	})
	w.order = append(w.order, id)
	w.version++
	return id
}

// DestroyEntity deactivates and removes an entity. Destroying a missing or
// already-destroyed entity is a no-op.
func (w *World) DestroyEntity(id EntityID) {
	e, ok := w.entities.Get(id)
	if !ok {
		return
	}
	e.Active = false
	w.entities.Del(id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.version++
}

// GetEntity returns the entity with the given id, or nil if it does not
// exist (never created, or destroyed).
func (w *World) GetEntity(id EntityID) *Entity {
	e, ok := w.entities.Get(id)
	if !ok {
		return nil
	}
	return e
}

// ListActive returns all active entities in creation order.
func (w *World) ListActive() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e, ok := w.entities.Get(id); ok && e.Active {
			out = append(out, e)
		}
	}
	return out
}

// AddComponent attaches a component to an entity, replacing any existing
// component of the same type. Returns false if the entity does not exist.
func (w *World) AddComponent(id EntityID, c Component) bool {
	e, ok := w.entities.Get(id)
	if !ok {
		return false
	}
	e.components[c.Type()] = c
	w.version++
	return true
}

// RemoveComponent detaches the component of the given type. Returns false
// if the entity does not exist or has no such component.
func (w *World) RemoveComponent(id EntityID, t Type) bool {
	e, ok := w.entities.Get(id)
	if !ok {
		return false
	}
	if _, has := e.components[t]; !has {
		return false
	}
	delete(e.components, t)
	w.version++
	return true
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.order)
}

// Version returns the current structural mutation counter.
func (w *World) Version() uint64 {
	return w.version
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger {
	return w.log
}
