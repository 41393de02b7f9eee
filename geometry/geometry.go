// Package geometry owns mesh buffer data: vertex positions, triangle
// indices, optional UVs, and generated primitive shapes. Entries are keyed
// by id; re-registering an id replaces the entry and bumps its generation so
// GPU-side buffer caches keyed by that id can invalidate.
package geometry

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind tags how a geometry was built.
type Kind uint8

const (
	KindRaw Kind = iota
	KindBox
	KindSphere
	KindCylinder
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	}
	return "raw"
}

// Geometry is one mesh buffer entry. Vertices is a flat xyz list, Indices
// triples form triangles, UVs (when present) is a flat uv list with exactly
// one pair per vertex.
type Geometry struct {
	ID       string
	Kind     Kind
	Vertices []float32
	Indices  []uint32
	UVs      []float32 // nil when absent

	normals []float32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// IndexCount returns the number of indices (always a multiple of 3).
func (g *Geometry) IndexCount() int {
	return len(g.Indices)
}

// HasUVs reports whether the geometry carries texture coordinates.
func (g *Geometry) HasUVs() bool {
	return len(g.UVs) > 0
}

// Library is the in-memory geometry table. Ids are immutable once
// registered; writing the same id again replaces the entry (last write
// wins).
type Library struct {
	log         *zap.Logger
	geometries  map[string]*Geometry
	generations map[string]uint64
}

// NewLibrary creates an empty geometry library. A nil logger falls back to a
// no-op logger.
func NewLibrary(log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		log:         log.Named("geometry"),
		geometries:  make(map[string]*Geometry),
		generations: make(map[string]uint64),
	}
}

// Add registers caller-built geometry, normalizing and validating the
// buffers. An empty id auto-generates one. Returns the id under which the
// geometry was stored.
func (l *Library) Add(id string, vertices []float32, indices []uint32, uvs []float32) (string, error) {
	g := &Geometry{
		ID:       id,
		Kind:     KindRaw,
		Vertices: vertices,
		Indices:  indices,
		UVs:      uvs,
	}
	return l.put(g)
}

// Get returns the geometry with the given id, or nil.
func (l *Library) Get(id string) *Geometry {
	return l.geometries[id]
}

// Delete removes a geometry. Deleting a missing id is a no-op. The
// generation survives so caches holding the old entry still observe a
// change if the id is ever reused.
func (l *Library) Delete(id string) {
	if _, ok := l.geometries[id]; !ok {
		return
	}
	delete(l.geometries, id)
	l.generations[id]++
}

// Generation returns the registration counter for an id. It increments on
// every replace or delete; renderers compare it to invalidate uploaded
// buffers.
func (l *Library) Generation(id string) uint64 {
	return l.generations[id]
}

// Count returns the number of registered geometries.
func (l *Library) Count() int {
	return len(l.geometries)
}

func (l *Library) put(g *Geometry) (string, error) {
	if err := validate(g); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if _, exists := l.geometries[g.ID]; exists {
		l.log.Debug("replacing geometry", zap.String("id", g.ID))
	}
	l.geometries[g.ID] = g
	l.generations[g.ID]++
	return g.ID, nil
}

func validate(g *Geometry) error {
	if len(g.Vertices) == 0 || len(g.Vertices)%3 != 0 {
		return fmt.Errorf("geometry %q: vertex buffer length %d is not a non-empty multiple of 3", g.ID, len(g.Vertices))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("geometry %q: index count %d is not a multiple of 3", g.ID, len(g.Indices))
	}
	vertexCount := uint32(len(g.Vertices) / 3)
	for i, idx := range g.Indices {
		if idx >= vertexCount {
			return fmt.Errorf("geometry %q: index %d at position %d out of range (vertex count %d)", g.ID, idx, i, vertexCount)
		}
	}
	if g.UVs != nil && len(g.UVs) != int(vertexCount)*2 {
		return fmt.Errorf("geometry %q: uv buffer has %d values, want %d (one pair per vertex)", g.ID, len(g.UVs), vertexCount*2)
	}
	return nil
}
