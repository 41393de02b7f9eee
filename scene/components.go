package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/ecs"
)

// Component type names. The loader and the render pipeline agree on these.
const (
	TypeTransform ecs.Type = "transform"
	TypeMesh      ecs.Type = "mesh"
	TypeMaterial  ecs.Type = "material"
	TypeVelocity  ecs.Type = "velocity"
	TypeAnimation ecs.Type = "animation"
	TypeHierarchy ecs.Type = "hierarchy"
	TypeTag       ecs.Type = "tag"
	TypeRigidBody ecs.Type = "rigidbody"
)

// Transform places an entity in its parent's space. Parent is a weak
// reference: it may dangle after the parent entity is destroyed, in which
// case resolution treats it as "no parent".
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles, radians
	Scale    mgl32.Vec3
	Parent   ecs.EntityID // 0 = none
}

// NewTransform returns an identity transform (unit scale).
func NewTransform() *Transform {
	return &Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (*Transform) Type() ecs.Type { return TypeTransform }

func (t *Transform) Clone() ecs.Component {
	c := *t
	return &c
}

// Mesh binds an entity to a geometry by id. The reference is weak: geometry
// may be registered after the entity, and a dangling id renders nothing.
// CastShadow and ReceiveShadow are carried for loaders and tooling but are
// not consumed by the projected-shadow pass.
type Mesh struct {
	GeometryID    string
	MaterialID    string // optional
	Visible       bool
	CastShadow    bool
	ReceiveShadow bool
}

// NewMesh returns a visible mesh referencing the given geometry.
func NewMesh(geometryID string) *Mesh {
	return &Mesh{
		GeometryID:    geometryID,
		Visible:       true,
		CastShadow:    true,
		ReceiveShadow: true,
	}
}

func (*Mesh) Type() ecs.Type { return TypeMesh }

func (m *Mesh) Clone() ecs.Component {
	c := *m
	return &c
}

// ShadeMode selects which of the closed set of shading variants a material
// uses. The render pipeline switches on this tag.
type ShadeMode uint8

const (
	// ShadeStandard is Lambert diffuse + Phong-like specular + ambient,
	// optionally textured and tinted by the material color.
	ShadeStandard ShadeMode = iota
	// ShadeGrass tints from world-space position via two sine lobes over a
	// green base, independent of the light.
	ShadeGrass
	// ShadeSky is a pure texture sample with no lighting, drawn as a
	// camera-independent full-screen quad.
	ShadeSky
	// ShadeShadow overrides color to black and uses the material opacity
	// verbatim as the final alpha.
	ShadeShadow
)

func (m ShadeMode) String() string {
	switch m {
	case ShadeStandard:
		return "standard"
	case ShadeGrass:
		return "grass"
	case ShadeSky:
		return "sky"
	case ShadeShadow:
		return "shadow"
	}
	return "unknown"
}

// Material describes surface appearance. Texture names an entry in the
// render texture library; upload to the GPU is lazy and memoized by the
// renderer.
type Material struct {
	BaseColor         mgl32.Vec3
	Metalness         float32
	Roughness         float32
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	Opacity           float32
	Transparent       bool
	DoubleSided       bool
	Mode              ShadeMode
	Texture           string // "" = none
}

// NewMaterial returns an opaque white standard material.
func NewMaterial() *Material {
	return &Material{
		BaseColor: mgl32.Vec3{1, 1, 1},
		Roughness: 0.8,
		Opacity:   1,
	}
}

func (*Material) Type() ecs.Type { return TypeMaterial }

func (m *Material) Clone() ecs.Component {
	c := *m
	return &c
}

// IsTransparent reports whether the material renders in the transparent
// pass: either explicitly flagged or with partial opacity.
func (m *Material) IsTransparent() bool {
	return m.Transparent || m.Opacity < 1
}

// Velocity is linear and angular velocity in units (radians) per second.
type Velocity struct {
	Linear  mgl32.Vec3
	Angular mgl32.Vec3
}

func (*Velocity) Type() ecs.Type { return TypeVelocity }

func (v *Velocity) Clone() ecs.Component {
	c := *v
	return &c
}

// TrackTarget names the transform property a track animates.
type TrackTarget uint8

const (
	TargetPosition TrackTarget = iota
	TargetRotation
	TargetScale
)

// Track is a keyframe sequence: Times is monotonically non-decreasing and
// Values has one entry per time.
type Track struct {
	Target TrackTarget
	Times  []float32
	Values []mgl32.Vec3
}

func (t Track) clone() Track {
	times := make([]float32, len(t.Times))
	copy(times, t.Times)
	values := make([]mgl32.Vec3, len(t.Values))
	copy(values, t.Values)
	return Track{Target: t.Target, Times: times, Values: values}
}

// Duration returns the time of the last keyframe.
func (t Track) Duration() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// Animation drives transform keyframe tracks over the frame clock.
type Animation struct {
	Tracks  []Track
	Time    float32
	Speed   float32
	Loop    bool
	Playing bool
}

// NewAnimation returns a playing, looping animation at unit speed.
func NewAnimation(tracks ...Track) *Animation {
	return &Animation{
		Tracks:  tracks,
		Speed:   1,
		Loop:    true,
		Playing: true,
	}
}

func (*Animation) Type() ecs.Type { return TypeAnimation }

func (a *Animation) Clone() ecs.Component {
	c := *a
	c.Tracks = make([]Track, len(a.Tracks))
	for i, tr := range a.Tracks {
		c.Tracks[i] = tr.clone()
	}
	return &c
}

// Duration returns the longest track duration.
func (a *Animation) Duration() float32 {
	var d float32
	for _, tr := range a.Tracks {
		if td := tr.Duration(); td > d {
			d = td
		}
	}
	return d
}

// Hierarchy is a denormalized enumeration index of an entity's children.
// Transform.Parent stays canonical during world-matrix resolution; loaders
// must keep the two consistent.
type Hierarchy struct {
	Parent   ecs.EntityID
	Children []ecs.EntityID
}

func (*Hierarchy) Type() ecs.Type { return TypeHierarchy }

func (h *Hierarchy) Clone() ecs.Component {
	c := *h
	c.Children = make([]ecs.EntityID, len(h.Children))
	copy(c.Children, h.Children)
	return &c
}

// Tag is a free-form label for lookup and debugging.
type Tag struct {
	Name string
}

func (*Tag) Type() ecs.Type { return TypeTag }

func (t *Tag) Clone() ecs.Component {
	c := *t
	return &c
}

// RigidBody opts an entity into gravity and the single ground-plane clamp.
// This runtime is not a general physics engine; GroundY is the only
// collision surface.
type RigidBody struct {
	Gravity  bool
	GroundY  float32
	Grounded bool
	Mass     float32
}

func (*RigidBody) Type() ecs.Type { return TypeRigidBody }

func (r *RigidBody) Clone() ecs.Component {
	c := *r
	return &c
}
