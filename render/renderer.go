package render

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/scene"
)

// ErrNoBackend is the one unrecoverable setup failure: without a drawing
// device there is nothing to degrade to.
var ErrNoBackend = errors.New("render: no backend available")

// FrameStats summarizes the last frame for tooling and the viewer HUD.
type FrameStats struct {
	Opaque      int
	Transparent int
	Shadow      int
	SkyDrawn    bool
	Errors      int
}

type bufferEntry struct {
	handle     GeometryHandle
	generation uint64
}

type texEntry struct {
	handle     TextureHandle
	generation uint64
}

// Renderer consumes world, geometry and camera/light state each frame,
// builds the opaque/transparent/sky/shadow draw lists in order, and issues
// draw calls. GPU uploads are memoized in side tables owned here, keyed by
// geometry/texture id, never by mutating scene data in place.
type Renderer struct {
	backend    Backend
	world      *ecs.World
	geos       *geometry.Library
	textures   *TextureLibrary
	log        *zap.Logger
	clearColor mgl32.Vec4

	buffers    map[string]bufferEntry
	texHandles map[string]texEntry
	texFailed  map[string]uint64

	stats FrameStats
}

// New creates a renderer. A nil backend is fatal; everything downstream
// degrades instead of failing.
func New(backend Backend, world *ecs.World, geos *geometry.Library, textures *TextureLibrary, log *zap.Logger) (*Renderer, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		backend:    backend,
		world:      world,
		geos:       geos,
		textures:   textures,
		log:        log.Named("render"),
		clearColor: mgl32.Vec4{0.05, 0.06, 0.08, 1},
		buffers:    make(map[string]bufferEntry),
		texHandles: make(map[string]texEntry),
		texFailed:  make(map[string]uint64),
	}, nil
}

// SetClearColor sets the background used when no sky is drawn over it.
func (r *Renderer) SetClearColor(c mgl32.Vec4) {
	r.clearColor = c
}

// Stats returns counters from the last completed frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

type drawItem struct {
	entity   ecs.EntityID
	mesh     *scene.Mesh
	material *scene.Material
	worldMat mgl32.Mat4
	distSq   float32
}

// Frame renders one frame: clear, then sky, opaque, transparent (farthest
// first), and shadow passes, in that order.
func (r *Renderer) Frame(cam *Camera, light Light) {
	r.stats = FrameStats{}
	r.backend.Clear(r.clearColor)

	width, height := r.backend.Size()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	base := Uniforms{
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(aspect),
		CameraPos:  cam.Position,
		Light:      light,
	}

	var opaque, transparent, shadows []drawItem
	var sky []drawItem

	q := r.world.Query([]ecs.Type{scene.TypeTransform, scene.TypeMesh, scene.TypeMaterial}, nil)
	for e := range q.Iter() {
		mesh := ecs.Get[*scene.Mesh](r.world, e.ID, scene.TypeMesh)
		material := ecs.Get[*scene.Material](r.world, e.ID, scene.TypeMaterial)
		if mesh == nil || material == nil || !mesh.Visible {
			continue
		}

		item := drawItem{entity: e.ID, mesh: mesh, material: material}

		switch material.Mode {
		case scene.ShadeSky:
			sky = append(sky, item)
			continue
		case scene.ShadeShadow:
			item.worldMat = scene.WorldMatrix(r.world, e.ID)
			shadows = append(shadows, item)
			continue
		}

		item.worldMat = scene.WorldMatrix(r.world, e.ID)
		if material.IsTransparent() {
			d := scene.Translation(item.worldMat).Sub(cam.Position)
			item.distSq = d.Dot(d)
			transparent = append(transparent, item)
		} else {
			opaque = append(opaque, item)
		}
	}

	r.skyPass(sky)
	r.opaquePass(opaque, base)
	r.transparentPass(transparent, base)
	r.shadowPass(shadows, base)

	r.backend.Flush()
}

// skyPass draws at most one full-screen quad: the first sky material with a
// bound, uploadable texture source. With none, the clear color shows
// through and the host may rely on its own background fallback.
func (r *Renderer) skyPass(sky []drawItem) {
	for _, item := range sky {
		if item.material.Texture == "" {
			continue
		}
		handle, ok := r.textureHandle(item.material.Texture)
		if !ok {
			continue
		}

		r.backend.SetDepthTest(false)
		r.backend.SetDepthWrite(false)
		r.backend.SetCull(CullNone)

		if err := r.backend.DrawSky(handle); err != nil {
			r.reportDrawError(item.entity, err)
		} else {
			r.stats.SkyDrawn = true
		}

		r.backend.SetDepthTest(true)
		r.backend.SetDepthWrite(true)
		r.backend.SetCull(CullBack)
		return
	}
}

func (r *Renderer) opaquePass(items []drawItem, base Uniforms) {
	r.backend.SetDepthTest(true)
	r.backend.SetDepthWrite(true)
	r.backend.SetBlend(BlendNone)

	for _, item := range items {
		r.drawEntity(item, base)
		r.stats.Opaque++
	}
}

func (r *Renderer) transparentPass(items []drawItem, base Uniforms) {
	// Farthest first so nearer fragments blend over farther ones.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].distSq > items[j].distSq
	})

	r.backend.SetBlend(BlendAlpha)
	r.backend.SetDepthWrite(false)

	for _, item := range items {
		r.drawEntity(item, base)
		r.stats.Transparent++
	}

	r.backend.SetBlend(BlendNone)
	r.backend.SetDepthWrite(true)
}

// shadowPass draws every shadow-flagged entity last, blended, without depth
// writes, and with a depth bias against the ground. State is restored after
// each entity.
func (r *Renderer) shadowPass(items []drawItem, base Uniforms) {
	for _, item := range items {
		r.backend.SetBlend(BlendAlpha)
		r.backend.SetDepthWrite(false)
		r.backend.SetDepthBias(true)

		r.drawEntity(item, base)
		r.stats.Shadow++

		r.backend.SetDepthBias(false)
		r.backend.SetDepthWrite(true)
		r.backend.SetBlend(BlendNone)
	}
}

// drawEntity binds buffers and uniforms for one entity and issues the draw.
// Failures are contained per entity: one bad draw cannot blank the frame.
func (r *Renderer) drawEntity(item drawItem, base Uniforms) {
	defer func() {
		if rec := recover(); rec != nil {
			r.stats.Errors++
			r.log.Error("draw panicked",
				zap.Uint64("entity", uint64(item.entity)),
				zap.Any("panic", rec),
			)
		}
	}()

	g := r.geos.Get(item.mesh.GeometryID)
	if g == nil {
		// Dangling geometry reference renders nothing.
		return
	}
	handle, ok := r.geometryHandle(item.mesh.GeometryID, g)
	if !ok {
		return
	}

	u := base
	u.Model = item.worldMat
	u.BaseColor = item.material.BaseColor
	u.Metalness = item.material.Metalness
	u.Roughness = item.material.Roughness
	u.Emissive = item.material.Emissive
	u.EmissiveIntensity = item.material.EmissiveIntensity
	u.Opacity = item.material.Opacity
	u.Mode = item.material.Mode
	u.HasUV = g.HasUVs()

	if item.material.Texture != "" {
		if tex, texOK := r.textureHandle(item.material.Texture); texOK {
			u.HasTexture = true
			u.Texture = tex
		}
	}

	if item.material.DoubleSided {
		r.backend.SetCull(CullNone)
	}

	if err := r.backend.Draw(handle, u); err != nil {
		r.reportDrawError(item.entity, err)
	}

	// Back-face culling is the default after every entity.
	r.backend.SetCull(CullBack)
}

// geometryHandle returns the uploaded buffer handle for a geometry id,
// uploading on first use and re-uploading when the library entry was
// replaced (generation mismatch).
func (r *Renderer) geometryHandle(id string, g *geometry.Geometry) (GeometryHandle, bool) {
	gen := r.geos.Generation(id)
	if entry, ok := r.buffers[id]; ok && entry.generation == gen {
		return entry.handle, true
	}
	if entry, ok := r.buffers[id]; ok {
		r.backend.ReleaseGeometry(entry.handle)
		delete(r.buffers, id)
	}

	handle, err := r.backend.UploadGeometry(g)
	if err != nil {
		r.stats.Errors++
		r.log.Warn("geometry upload failed", zap.String("geometry", id), zap.Error(err))
		return 0, false
	}
	r.buffers[id] = bufferEntry{handle: handle, generation: gen}
	return handle, true
}

// textureHandle returns the uploaded texture handle for a source id. Upload
// happens at most once per id and generation: re-registering a source under
// the same id releases the stale texture and uploads the new one, exactly as
// geometryHandle does for buffers. Failures are remembered per generation
// and not retried until the source is replaced.
func (r *Renderer) textureHandle(id string) (TextureHandle, bool) {
	gen := r.textures.Generation(id)
	if entry, ok := r.texHandles[id]; ok && entry.generation == gen {
		return entry.handle, true
	}
	if entry, ok := r.texHandles[id]; ok {
		r.backend.ReleaseTexture(entry.handle)
		delete(r.texHandles, id)
	}
	if failedGen, ok := r.texFailed[id]; ok && failedGen == gen {
		return 0, false
	}

	img := r.textures.Get(id)
	if img == nil {
		return 0, false
	}

	bounds := img.Bounds()
	params := ParamsFor(bounds.Dx(), bounds.Dy())

	h, err := r.backend.UploadTexture(img, params)
	if err != nil {
		r.texFailed[id] = gen
		r.stats.Errors++
		r.log.Warn("texture upload failed", zap.String("texture", id), zap.Error(err))
		return 0, false
	}
	r.texHandles[id] = texEntry{handle: h, generation: gen}
	return h, true
}

func (r *Renderer) reportDrawError(entity ecs.EntityID, err error) {
	r.stats.Errors++
	r.log.Warn("draw failed", zap.Uint64("entity", uint64(entity)), zap.Error(err))
}
