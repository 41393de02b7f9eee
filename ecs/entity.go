package ecs

// EntityID uniquely identifies an entity. IDs are assigned monotonically
// starting at 1 and are never reused; 0 is reserved as "no entity".
type EntityID uint64

// Entity is a bare identity with a set of attached components, at most one
// per component type.
type Entity struct {
	ID         EntityID
	Active     bool
	components map[Type]Component
}

// Component looks up a component by type. The second return is false when
// the entity has no component of that type.
func (e *Entity) Component(t Type) (Component, bool) {
	c, ok := e.components[t]
	return c, ok
}

// Has reports whether the entity carries a component of the given type.
func (e *Entity) Has(t Type) bool {
	_, ok := e.components[t]
	return ok
}

// Types returns the component types currently attached to the entity.
func (e *Entity) Types() []Type {
	types := make([]Type, 0, len(e.components))
	for t := range e.components {
		types = append(types, t)
	}
	return types
}
