package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the shared view state read by the render pipeline once per frame
// and mutated by input/movement systems. It is passed explicitly into both
// sides rather than captured in closures.
type Camera struct {
	Position mgl32.Vec3

	// Yaw/Pitch build the view direction when HasOrientation is set;
	// otherwise the camera looks at the origin.
	Yaw            float32
	Pitch          float32
	HasOrientation bool

	FOVY float32 // vertical field of view, radians
	Near float32
	Far  float32
}

// NewCamera returns a camera at the origin with a 60 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		FOVY: math32.Pi / 3,
		Near: 0.1,
		Far:  1000,
	}
}

// Forward returns the unit view direction derived from yaw and pitch. Yaw 0
// looks down -Z; positive yaw turns right, positive pitch looks up.
func (c *Camera) Forward() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return mgl32.Vec3{
		math32.Sin(c.Yaw) * cp,
		math32.Sin(c.Pitch),
		-math32.Cos(c.Yaw) * cp,
	}
}

// Right returns the unit vector to the camera's right on the ground plane.
func (c *Camera) Right() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(c.Yaw), 0, math32.Sin(c.Yaw)}
}

// ViewMatrix builds the view transform: yaw/pitch orientation when present,
// else the look-at-origin fallback.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	if c.HasOrientation {
		return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), up)
	}
	return mgl32.LookAtV(c.Position, mgl32.Vec3{}, up)
}

// ProjectionMatrix builds the perspective projection for the given viewport
// aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOVY, aspect, c.Near, c.Far)
}

// Light is a single directional light plus an ambient term.
type Light struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Ambient   float32
}

// NewLight returns a white light angled down from above.
func NewLight() Light {
	return Light{
		Direction: mgl32.Vec3{-0.5, -1, -0.3}.Normalize(),
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
		Ambient:   0.25,
	}
}
