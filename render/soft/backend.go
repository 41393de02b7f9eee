// Package soft implements the render backend on ebiten: vertices are
// transformed and shaded on the CPU and rasterized as screen-space triangles
// via DrawTriangles. Ebiten has no depth buffer, so triangles drawn while
// depth writes are enabled are painter-sorted back to front before being
// flushed; blended passes keep their caller-given order. Depth bias is
// ignored for the same reason: with no depth buffer there is no z-fighting
// for an offset to resolve, and shadow ordering comes from the pass sequence
// alone.
package soft

import (
	"fmt"
	"image"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/render"
	"github.com/plus3/helio/scene"
)

type geometryEntry struct {
	geo     *geometry.Geometry
	normals []float32
}

// Backend draws onto an ebiten image. SetTarget must be called with the
// frame's screen before the renderer runs.
type Backend struct {
	target *ebiten.Image
	white  *ebiten.Image

	width, height int

	geometries map[render.GeometryHandle]*geometryEntry
	textures   map[render.TextureHandle]*ebiten.Image

	nextGeometry render.GeometryHandle
	nextTexture  render.TextureHandle

	depthTest  bool
	depthWrite bool
	blend      render.BlendMode
	cull       render.CullMode

	// pending holds depth-sorted triangles accumulated while depth writes
	// are enabled; they drain on any state change that ends the pass.
	pending []pendingTriangle
}

type pendingTriangle struct {
	vertices [3]ebiten.Vertex
	texture  *ebiten.Image
	depth    float32
}

// NewBackend creates a backend for the given logical screen size.
func NewBackend(width, height int) *Backend {
	white := ebiten.NewImage(3, 3)
	white.Fill(mgl32ToColor(mgl32.Vec4{1, 1, 1, 1}))

	return &Backend{
		white:      white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		width:      width,
		height:     height,
		geometries: make(map[render.GeometryHandle]*geometryEntry),
		textures:   make(map[render.TextureHandle]*ebiten.Image),
		depthTest:  true,
		depthWrite: true,
	}
}

// SetTarget points the backend at the current frame's screen image.
func (b *Backend) SetTarget(screen *ebiten.Image) {
	b.target = screen
	if screen != nil {
		bounds := screen.Bounds()
		b.width, b.height = bounds.Dx(), bounds.Dy()
	}
}

func (b *Backend) Size() (int, int) {
	return b.width, b.height
}

func (b *Backend) Clear(c mgl32.Vec4) {
	b.pending = b.pending[:0]
	if b.target != nil {
		b.target.Fill(mgl32ToColor(c))
	}
}

func (b *Backend) SetDepthTest(enabled bool) { b.depthTest = enabled }

func (b *Backend) SetDepthWrite(enabled bool) {
	if b.depthWrite && !enabled {
		b.drainPending()
	}
	b.depthWrite = enabled
}

func (b *Backend) SetBlend(mode render.BlendMode) {
	if mode != b.blend {
		b.drainPending()
	}
	b.blend = mode
}

func (b *Backend) SetCull(mode render.CullMode) { b.cull = mode }

// SetDepthBias is accepted for interface compatibility and has no effect;
// see the package doc.
func (b *Backend) SetDepthBias(bool) {}

func (b *Backend) UploadGeometry(g *geometry.Geometry) (render.GeometryHandle, error) {
	b.nextGeometry++
	b.geometries[b.nextGeometry] = &geometryEntry{geo: g, normals: g.Normals()}
	return b.nextGeometry, nil
}

func (b *Backend) ReleaseGeometry(h render.GeometryHandle) {
	delete(b.geometries, h)
}

func (b *Backend) UploadTexture(img image.Image, _ render.TextureParams) (render.TextureHandle, error) {
	b.nextTexture++
	b.textures[b.nextTexture] = ebiten.NewImageFromImage(img)
	return b.nextTexture, nil
}

func (b *Backend) ReleaseTexture(h render.TextureHandle) {
	delete(b.textures, h)
}

// Draw transforms, shades and rasterizes one geometry. Triangles behind the
// near plane are rejected whole rather than clipped.
func (b *Backend) Draw(h render.GeometryHandle, u render.Uniforms) error {
	if b.target == nil {
		return fmt.Errorf("soft: no target image")
	}
	entry, ok := b.geometries[h]
	if !ok {
		return fmt.Errorf("soft: unknown geometry handle %d", h)
	}

	tex := b.white
	textured := false
	if u.HasTexture && u.HasUV {
		if t, ok := b.textures[u.Texture]; ok {
			tex = t
			textured = true
		}
	}
	texW, texH := 1, 1
	if textured {
		bounds := tex.Bounds()
		texW, texH = bounds.Dx(), bounds.Dy()
	}

	mvp := u.Projection.Mul4(u.View).Mul4(u.Model)
	normalMat := u.Model.Mat3()
	geo := entry.geo

	for i := 0; i+2 < len(geo.Indices); i += 3 {
		var sv [3]ebiten.Vertex
		var depth float32
		behind := false

		for c := 0; c < 3; c++ {
			idx := geo.Indices[i+c]
			pos := mgl32.Vec3{
				geo.Vertices[idx*3],
				geo.Vertices[idx*3+1],
				geo.Vertices[idx*3+2],
			}

			clip := mvp.Mul4x1(pos.Vec4(1))
			if clip.W() <= 1e-5 {
				behind = true
				break
			}
			ndc := clip.Vec3().Mul(1 / clip.W())
			depth += clip.W()

			var normal mgl32.Vec3
			if len(entry.normals) > 0 {
				normal = normalMat.Mul3x1(mgl32.Vec3{
					entry.normals[idx*3],
					entry.normals[idx*3+1],
					entry.normals[idx*3+2],
				})
			}
			worldPos := u.Model.Mul4x1(pos.Vec4(1)).Vec3()
			shade := shadeVertex(u, worldPos, normal)

			sv[c] = ebiten.Vertex{
				DstX:   (ndc.X() + 1) / 2 * float32(b.width),
				DstY:   (1 - ndc.Y()) / 2 * float32(b.height),
				ColorR: shade.X(),
				ColorG: shade.Y(),
				ColorB: shade.Z(),
				ColorA: shade.W(),
			}
			if textured {
				sv[c].SrcX = geo.UVs[idx*2] * float32(texW)
				sv[c].SrcY = geo.UVs[idx*2+1] * float32(texH)
			} else {
				// Center of the 1x1 white source.
				sv[c].SrcX, sv[c].SrcY = 1.5, 1.5
			}
		}
		if behind {
			continue
		}

		if b.cull == render.CullBack && signedArea(sv) >= 0 {
			continue
		}

		tri := pendingTriangle{vertices: sv, texture: tex, depth: depth / 3}
		if b.depthWrite && b.blend == render.BlendNone {
			b.pending = append(b.pending, tri)
		} else {
			b.rasterize(tri)
		}
	}
	return nil
}

// DrawSky stretches the texture over the whole target.
func (b *Backend) DrawSky(t render.TextureHandle) error {
	if b.target == nil {
		return fmt.Errorf("soft: no target image")
	}
	img, ok := b.textures[t]
	if !ok {
		return fmt.Errorf("soft: unknown texture handle %d", t)
	}

	bounds := img.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(
		float64(b.width)/float64(bounds.Dx()),
		float64(b.height)/float64(bounds.Dy()),
	)
	b.target.DrawImage(img, &op)
	return nil
}

func (b *Backend) Flush() {
	b.drainPending()
}

// drainPending draws accumulated depth-sorted triangles farthest first.
func (b *Backend) drainPending() {
	if len(b.pending) == 0 {
		return
	}
	sort.SliceStable(b.pending, func(i, j int) bool {
		return b.pending[i].depth > b.pending[j].depth
	})
	for _, tri := range b.pending {
		b.rasterize(tri)
	}
	b.pending = b.pending[:0]
}

func (b *Backend) rasterize(tri pendingTriangle) {
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
	}
	b.target.DrawTriangles(tri.vertices[:], []uint16{0, 1, 2}, tri.texture, op)
}

// signedArea of a screen triangle. Screen Y grows downward, so a front face
// (counter-clockwise in NDC) has negative area here; back faces are
// non-negative.
func signedArea(v [3]ebiten.Vertex) float32 {
	area := (v[1].DstX-v[0].DstX)*(v[2].DstY-v[0].DstY) -
		(v[2].DstX-v[0].DstX)*(v[1].DstY-v[0].DstY)
	return area
}

// shadeVertex evaluates the per-vertex color for a shading mode. The texture
// sample, when present, multiplies in during rasterization.
func shadeVertex(u render.Uniforms, worldPos, normal mgl32.Vec3) mgl32.Vec4 {
	switch u.Mode {
	case scene.ShadeShadow:
		return mgl32.Vec4{0, 0, 0, u.Opacity}
	case scene.ShadeGrass:
		return grassTint(worldPos).Vec4(u.Opacity)
	case scene.ShadeSky:
		return mgl32.Vec4{1, 1, 1, 1}
	}

	color := u.BaseColor
	if normal.Len() > 0 {
		n := normal.Normalize()
		lightDir := u.Light.Direction.Mul(-1).Normalize()
		diffuse := n.Dot(lightDir)
		if diffuse < 0 {
			diffuse = 0
		}
		lit := u.Light.Ambient + diffuse*u.Light.Intensity
		if lit > 1 {
			lit = 1
		}
		color = mgl32.Vec3{
			color.X() * u.Light.Color.X() * lit,
			color.Y() * u.Light.Color.Y() * lit,
			color.Z() * u.Light.Color.Z() * lit,
		}
		color = color.Add(u.Light.Color.Mul(specular(u, worldPos, n, lightDir, diffuse)))
	}

	color = color.Add(u.Emissive.Mul(u.EmissiveIntensity))
	for i := range color {
		if color[i] > 1 {
			color[i] = 1
		}
	}
	return color.Vec4(u.Opacity)
}

// specular evaluates a Phong lobe against the view direction. The exponent
// tightens as roughness falls; metalness scales the reflectance like a
// dielectric/metal F0 mix.
func specular(u render.Uniforms, worldPos, n, lightDir mgl32.Vec3, diffuse float32) float32 {
	if diffuse <= 0 {
		return 0
	}
	view := u.CameraPos.Sub(worldPos)
	if view.Len() == 0 {
		return 0
	}
	reflected := n.Mul(2 * n.Dot(lightDir)).Sub(lightDir)
	s := reflected.Dot(view.Normalize())
	if s <= 0 {
		return 0
	}
	shininess := 2 + (1-u.Roughness)*126
	reflectance := 0.04 + 0.96*u.Metalness
	return math32.Pow(s, shininess) * reflectance * u.Light.Intensity
}

// grassTint modulates a green base with two world-space sine lobes so fields
// of grass get patchy variation without per-instance state.
func grassTint(worldPos mgl32.Vec3) mgl32.Vec3 {
	a := 0.5 + 0.5*math32.Sin(worldPos.X()*0.35)
	b := 0.5 + 0.5*math32.Sin(worldPos.Z()*0.21+1.3)
	return mgl32.Vec3{
		0.13 + 0.1*a,
		0.42 + 0.18*b,
		0.12 + 0.06*a,
	}
}

func mgl32ToColor(c mgl32.Vec4) *colorValue {
	return &colorValue{c}
}

type colorValue struct {
	v mgl32.Vec4
}

func (c *colorValue) RGBA() (r, g, b, a uint32) {
	clamp := func(f float32) uint32 {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		return uint32(f * 0xffff)
	}
	return clamp(c.v.X() * c.v.W()), clamp(c.v.Y() * c.v.W()), clamp(c.v.Z() * c.v.W()), clamp(c.v.W())
}
