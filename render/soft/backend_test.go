package soft

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/plus3/helio/render"
	"github.com/plus3/helio/scene"
)

func litUniforms() render.Uniforms {
	return render.Uniforms{
		Light: render.Light{
			Direction: mgl32.Vec3{0, -1, 0},
			Color:     mgl32.Vec3{1, 1, 1},
			Intensity: 1,
			Ambient:   0.2,
		},
		BaseColor: mgl32.Vec3{1, 1, 1},
		Opacity:   1,
		Mode:      scene.ShadeStandard,
	}
}

func TestShadeStandardLambert(t *testing.T) {
	u := litUniforms()

	// Facing the light: ambient + full diffuse, clamped to 1.
	up := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 1.0, up.X(), 1e-5)

	// Facing away: ambient only.
	down := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, -1, 0})
	assert.InDelta(t, 0.2, down.X(), 1e-5)

	assert.Equal(t, float32(1), up.W())
}

func TestShadeStandardEmissiveClamped(t *testing.T) {
	u := litUniforms()
	u.BaseColor = mgl32.Vec3{0.5, 0.5, 0.5}
	u.Emissive = mgl32.Vec3{1, 0, 0}
	u.EmissiveIntensity = 2

	got := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, float32(1), got.X(), "emissive saturates at 1")
	assert.Less(t, got.Y(), float32(1))
}

func TestShadeStandardSpecular(t *testing.T) {
	u := litUniforms()
	u.BaseColor = mgl32.Vec3{0.2, 0.2, 0.2}
	u.Metalness = 1
	u.CameraPos = mgl32.Vec3{0, 4, 1} // slightly off the mirror direction

	u.Roughness = 0.1
	shiny := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	u.Roughness = 0.9
	rough := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	// Off the mirror axis a shiny surface's tight lobe has already fallen
	// off while the wide rough lobe still contributes.
	assert.NotEqual(t, shiny, rough, "roughness shapes the highlight")
	assert.Less(t, shiny.X(), rough.X())

	// On the mirror axis the highlight lifts the color above diffuse-only.
	u.Roughness = 0.1
	u.CameraPos = mgl32.Vec3{0, 4, 0}
	aligned := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.Greater(t, aligned.X(), shiny.X())

	// A dielectric reflects far less than a metal.
	u.Metalness = 0
	dielectric := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.Less(t, dielectric.X(), aligned.X())

	// Facing away from the light there is no highlight at all.
	u.Metalness = 1
	away := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, -1, 0})
	assert.InDelta(t, 0.2*0.2, away.X(), 1e-5, "ambient only")
}

func TestShadeShadowIsBlackAtOpacity(t *testing.T) {
	u := litUniforms()
	u.Mode = scene.ShadeShadow
	u.Opacity = 0.85
	u.BaseColor = mgl32.Vec3{1, 0, 0}

	got := shadeVertex(u, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0.85}, got)
}

func TestShadeGrassIgnoresLight(t *testing.T) {
	u := litUniforms()
	u.Mode = scene.ShadeGrass
	u.Light.Intensity = 0

	a := shadeVertex(u, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	b := shadeVertex(u, mgl32.Vec3{30, 0, 17}, mgl32.Vec3{0, 1, 0})

	assert.Greater(t, a.Y(), a.X(), "green dominated")
	assert.NotEqual(t, a, b, "tint varies with world position")
}

func TestSignedAreaWinding(t *testing.T) {
	// A front face (counter-clockwise in NDC) maps to negative area in
	// screen coordinates.
	front := [3]ebiten.Vertex{
		{DstX: 0, DstY: 100},
		{DstX: 100, DstY: 100},
		{DstX: 50, DstY: 0},
	}
	assert.Negative(t, signedArea(front))

	back := [3]ebiten.Vertex{front[0], front[2], front[1]}
	assert.Positive(t, signedArea(back))
}
