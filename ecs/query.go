package ecs

import (
	"iter"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Query is a cached entity subset matching a component filter: entities
// carrying every required type and none of the excluded types. Queries are
// memoized by their (order-independent) filter, so repeated requests for the
// same filter share one cache entry.
type Query struct {
	world    *World
	required []Type
	excluded []Type
	key      uint64

	entities []EntityID
	version  uint64
	built    bool
}

// Query returns the memoized query for the given filter, creating it on
// first request. The filter is order-independent; duplicates are dropped.
func (w *World) Query(required []Type, excluded []Type) *Query {
	required = normalizeTypes(required)
	excluded = normalizeTypes(excluded)
	key := queryKey(required, excluded)

	if q, ok := w.queries[key]; ok {
		return q
	}

	q := &Query{
		world:    w,
		required: required,
		excluded: excluded,
		key:      key,
	}
	w.queries[key] = q
	return q
}

// Entities returns the ids of all matching active entities. The cache is
// rebuilt if any structural mutation happened since the last read, so the
// result always reflects the current world state.
func (q *Query) Entities() []EntityID {
	q.ensure()
	return q.entities
}

// Count returns the number of matching entities.
func (q *Query) Count() int {
	q.ensure()
	return len(q.entities)
}

// Iter returns an iterator over matching entities. Entities destroyed by the
// loop body are skipped for the rest of the iteration.
func (q *Query) Iter() iter.Seq[*Entity] {
	q.ensure()
	ids := q.entities
	return func(yield func(*Entity) bool) {
		for _, id := range ids {
			e := q.world.GetEntity(id)
			if e == nil || !e.Active {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Rebuild recomputes membership in O(active entities).
func (q *Query) Rebuild() {
	q.entities = q.entities[:0]
	for _, e := range q.world.ListActive() {
		if q.matches(e) {
			q.entities = append(q.entities, e.ID)
		}
	}
	q.version = q.world.version
	q.built = true
}

func (q *Query) ensure() {
	if !q.built || q.version != q.world.version {
		q.Rebuild()
	}
}

func (q *Query) matches(e *Entity) bool {
	for _, t := range q.required {
		if !e.Has(t) {
			return false
		}
	}
	for _, t := range q.excluded {
		if e.Has(t) {
			return false
		}
	}
	return true
}

func normalizeTypes(types []Type) []Type {
	out := make([]Type, 0, len(types))
	out = append(out, types...)
	slices.Sort(out)
	return slices.Compact(out)
}

// queryKey hashes the normalized filter into the memoization key. Required
// and excluded sets live in separate hash domains so {req: a} and {exc: a}
// never collide.
func queryKey(required, excluded []Type) uint64 {
	h := xxhash.New()
	for _, t := range required {
		_, _ = h.WriteString("r:")
		_, _ = h.WriteString(string(t))
		_, _ = h.WriteString("\x00")
	}
	for _, t := range excluded {
		_, _ = h.WriteString("x:")
		_, _ = h.WriteString(string(t))
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}
