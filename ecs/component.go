package ecs

// Type names a kind of component. An entity holds at most one component per
// type.
type Type string

// Component is a plain data record attached to an entity. Implementations
// must be independently cloneable: Clone duplicates every field by value,
// including nested slices.
type Component interface {
	Type() Type
	Clone() Component
}

// Get returns the entity's component of concrete type T, or nil if the
// entity is missing or has no component of that type.
func Get[T Component](w *World, id EntityID, t Type) T {
	var zero T
	e := w.GetEntity(id)
	if e == nil {
		return zero
	}
	c, ok := e.Component(t)
	if !ok {
		return zero
	}
	typed, ok := c.(T)
	if !ok {
		return zero
	}
	return typed
}
