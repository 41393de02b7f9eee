package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/ecs"
)

// MaxParentDepth bounds the ancestor walk. The parent chain is a weak
// id-based relation with no ownership, so an accidental cycle would
// otherwise never terminate; past this depth resolution stops as if the
// parent were missing.
const MaxParentDepth = 64

// LocalMatrix composes an entity's local transform as
// Translate(position) x RotateX x RotateY x RotateZ x Scale.
func LocalMatrix(t *Transform) mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	m = m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
	return m
}

// WorldMatrix folds the entity's local matrix with its ancestor chain,
// multiplying parentLocal x accumulatedChild at each step. The walk stops at
// a nil or dangling parent reference, a parent without a Transform, or the
// depth bound.
func WorldMatrix(w *ecs.World, id ecs.EntityID) mgl32.Mat4 {
	t := ecs.Get[*Transform](w, id, TypeTransform)
	if t == nil {
		return mgl32.Ident4()
	}

	m := LocalMatrix(t)
	parent := t.Parent
	for depth := 0; parent != 0 && depth < MaxParentDepth; depth++ {
		pt := ecs.Get[*Transform](w, parent, TypeTransform)
		if pt == nil {
			break
		}
		m = LocalMatrix(pt).Mul4(m)
		parent = pt.Parent
	}
	return m
}

// VertexSpaceMatrix composes scale, then Z, Y, X rotation, then translation.
// This is the convention the bounds/footprint helpers use; it deliberately
// differs from LocalMatrix's X, Y, Z rotation order and the two are not
// unified.
func VertexSpaceMatrix(t *Transform) mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
	m = m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
	return m
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// FootprintBounds transforms the corners of a local-space box through the
// vertex-space convention and returns their axis-aligned bounds. Used to
// size ground-projected shadow quads.
func FootprintBounds(t *Transform, local Bounds) Bounds {
	m := VertexSpaceMatrix(t)

	corners := [8]mgl32.Vec3{
		{local.Min[0], local.Min[1], local.Min[2]},
		{local.Max[0], local.Min[1], local.Min[2]},
		{local.Min[0], local.Max[1], local.Min[2]},
		{local.Max[0], local.Max[1], local.Min[2]},
		{local.Min[0], local.Min[1], local.Max[2]},
		{local.Max[0], local.Min[1], local.Max[2]},
		{local.Min[0], local.Max[1], local.Max[2]},
		{local.Max[0], local.Max[1], local.Max[2]},
	}

	var out Bounds
	for i, c := range corners {
		v := mgl32.TransformCoordinate(c, m)
		if i == 0 {
			out.Min, out.Max = v, v
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if v[axis] < out.Min[axis] {
				out.Min[axis] = v[axis]
			}
			if v[axis] > out.Max[axis] {
				out.Max[axis] = v[axis]
			}
		}
	}
	return out
}

// Translation extracts the translation column of a world matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// SetParent updates both the canonical Transform.Parent link and the
// Hierarchy index on parent and child, keeping the two representations
// consistent.
func SetParent(w *ecs.World, child, parent ecs.EntityID) {
	ct := ecs.Get[*Transform](w, child, TypeTransform)
	if ct == nil {
		return
	}

	// Unlink from the previous parent's child list.
	if prev := ct.Parent; prev != 0 {
		if ph := ecs.Get[*Hierarchy](w, prev, TypeHierarchy); ph != nil {
			for i, c := range ph.Children {
				if c == child {
					ph.Children = append(ph.Children[:i], ph.Children[i+1:]...)
					break
				}
			}
		}
	}

	ct.Parent = parent

	ch := ecs.Get[*Hierarchy](w, child, TypeHierarchy)
	if ch == nil {
		ch = &Hierarchy{}
		w.AddComponent(child, ch)
	}
	ch.Parent = parent

	if parent == 0 {
		return
	}
	ph := ecs.Get[*Hierarchy](w, parent, TypeHierarchy)
	if ph == nil {
		ph = &Hierarchy{}
		w.AddComponent(parent, ph)
	}
	ph.Children = append(ph.Children, child)
}
