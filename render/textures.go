package render

import (
	"image"

	"github.com/google/uuid"
)

// TextureLibrary holds decoded image sources by id. Decoding is the codec
// collaborator's job; entries here are ready for upload. The renderer
// uploads lazily and memoizes by id and generation.
type TextureLibrary struct {
	images      map[string]image.Image
	generations map[string]uint64
}

// NewTextureLibrary creates an empty texture source table.
func NewTextureLibrary() *TextureLibrary {
	return &TextureLibrary{
		images:      make(map[string]image.Image),
		generations: make(map[string]uint64),
	}
}

// Register stores a decoded image under the given id, replacing any previous
// entry. An empty id auto-generates one. Returns the id used. Replacing an
// entry bumps its generation so uploaded-texture caches invalidate.
func (t *TextureLibrary) Register(id string, img image.Image) string {
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := t.images[id]; exists {
		t.generations[id]++
	}
	t.images[id] = img
	return id
}

// Generation returns the registration counter for an id. It increments on
// every replace; renderers compare it to invalidate uploaded textures.
func (t *TextureLibrary) Generation(id string) uint64 {
	return t.generations[id]
}

// Get returns the image source for an id, or nil.
func (t *TextureLibrary) Get(id string) image.Image {
	return t.images[id]
}

// Has reports whether a source is registered under the id.
func (t *TextureLibrary) Has(id string) bool {
	_, ok := t.images[id]
	return ok
}
