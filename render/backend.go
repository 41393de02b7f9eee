package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/geometry"
	"github.com/plus3/helio/scene"
)

// GeometryHandle identifies an uploaded vertex/index buffer set.
type GeometryHandle uint32

// TextureHandle identifies an uploaded texture. 0 is never a valid handle.
type TextureHandle uint32

// BlendMode selects fragment blending.
type BlendMode uint8

const (
	// BlendNone overwrites the target.
	BlendNone BlendMode = iota
	// BlendAlpha blends srcAlpha / 1-srcAlpha.
	BlendAlpha
)

// CullMode selects face culling.
type CullMode uint8

const (
	CullBack CullMode = iota
	CullNone
)

// WrapMode selects texture coordinate wrapping.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
)

// FilterMode selects texture sampling.
type FilterMode uint8

const (
	FilterLinear FilterMode = iota
	FilterTrilinear
)

// TextureParams is the sampling configuration chosen at upload time.
// Power-of-two images get trilinear mipmapping; the rest skip mipmaps and
// clamp to edge with linear filtering.
type TextureParams struct {
	Wrap    WrapMode
	Filter  FilterMode
	Mipmaps bool
}

// ParamsFor derives the sampling configuration from image dimensions.
func ParamsFor(width, height int) TextureParams {
	if isPowerOfTwo(width) && isPowerOfTwo(height) {
		return TextureParams{Wrap: WrapRepeat, Filter: FilterTrilinear, Mipmaps: true}
	}
	return TextureParams{Wrap: WrapClampToEdge, Filter: FilterLinear, Mipmaps: false}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Uniforms is the per-draw shading contract. One program serves all modes
// except the sky quad; Mode selects the variant.
type Uniforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec3
	Light      Light

	BaseColor         mgl32.Vec3
	Metalness         float32
	Roughness         float32
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	Opacity           float32

	Mode       scene.ShadeMode
	HasTexture bool
	Texture    TextureHandle
	// HasUV disables the UV attribute when the geometry has none.
	HasUV bool
}

// Backend abstracts the drawing device. Implementations own the actual GPU
// (or software) state; the renderer drives them in a fixed pass order and
// restores state after each entity. Uploads are synchronous; the renderer
// memoizes them per id.
type Backend interface {
	// Size returns the current target dimensions in pixels.
	Size() (width, height int)

	// Clear clears the color and depth buffers.
	Clear(color mgl32.Vec4)

	SetDepthTest(enabled bool)
	SetDepthWrite(enabled bool)
	SetBlend(mode BlendMode)
	SetCull(mode CullMode)
	// SetDepthBias applies a polygon offset to avoid z-fighting of
	// ground-projected shadows.
	SetDepthBias(enabled bool)

	// UploadGeometry creates position/normal/uv/index buffers for the
	// geometry and returns a handle.
	UploadGeometry(g *geometry.Geometry) (GeometryHandle, error)
	// ReleaseGeometry frees an uploaded buffer set.
	ReleaseGeometry(h GeometryHandle)

	// UploadTexture creates a texture from a decoded image with the given
	// sampling parameters.
	UploadTexture(img image.Image, params TextureParams) (TextureHandle, error)
	// ReleaseTexture frees an uploaded texture.
	ReleaseTexture(h TextureHandle)

	// Draw issues one indexed triangle draw with the bound uniforms.
	Draw(h GeometryHandle, u Uniforms) error

	// DrawSky draws a camera-independent full-screen textured quad. The
	// renderer disables depth test/write and culling around this call.
	DrawSky(t TextureHandle) error

	// Flush ends the frame.
	Flush()
}
