package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/scene"
)

func assertMat4Equal(t *testing.T, expected, actual mgl32.Mat4) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "matrix element %d", i)
	}
}

func TestLocalMatrixComposition(t *testing.T) {
	tr := scene.NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Rotation = mgl32.Vec3{0.3, -0.7, 1.1}
	tr.Scale = mgl32.Vec3{2, 1, 0.5}

	expected := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DY(-0.7)).
		Mul4(mgl32.HomogRotate3DZ(1.1)).
		Mul4(mgl32.Scale3D(2, 1, 0.5))

	assertMat4Equal(t, expected, scene.LocalMatrix(tr))
}

func TestVertexSpaceMatrixDiffersFromLocal(t *testing.T) {
	tr := scene.NewTransform()
	tr.Rotation = mgl32.Vec3{0.5, 0.25, 1.0}

	local := scene.LocalMatrix(tr)
	vertex := scene.VertexSpaceMatrix(tr)

	// The two rotation-composition conventions coexist; they must not be
	// silently unified.
	differs := false
	for i := range local {
		if mgl32.Abs(local[i]-vertex[i]) > 1e-4 {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestWorldMatrixThreeLevelChain(t *testing.T) {
	w := ecs.NewWorld(nil)

	root := w.CreateEntity()
	rootT := scene.NewTransform()
	rootT.Position = mgl32.Vec3{10, 0, 0}
	rootT.Rotation = mgl32.Vec3{0, 0.5, 0}
	w.AddComponent(root, rootT)

	mid := w.CreateEntity()
	midT := scene.NewTransform()
	midT.Position = mgl32.Vec3{0, 5, 0}
	midT.Scale = mgl32.Vec3{2, 2, 2}
	midT.Parent = root
	w.AddComponent(mid, midT)

	leaf := w.CreateEntity()
	leafT := scene.NewTransform()
	leafT.Position = mgl32.Vec3{0, 0, -3}
	leafT.Rotation = mgl32.Vec3{0.2, 0, 0.1}
	leafT.Parent = mid
	w.AddComponent(leaf, leafT)

	expected := scene.LocalMatrix(rootT).
		Mul4(scene.LocalMatrix(midT)).
		Mul4(scene.LocalMatrix(leafT))

	assertMat4Equal(t, expected, scene.WorldMatrix(w, leaf))
}

func TestWorldMatrixDanglingParent(t *testing.T) {
	w := ecs.NewWorld(nil)

	parent := w.CreateEntity()
	pt := scene.NewTransform()
	pt.Position = mgl32.Vec3{0, 100, 0}
	w.AddComponent(parent, pt)

	child := w.CreateEntity()
	ct := scene.NewTransform()
	ct.Position = mgl32.Vec3{1, 0, 0}
	ct.Parent = parent
	w.AddComponent(child, ct)

	w.DestroyEntity(parent)

	// Missing parent means "no parent": resolution stops climbing.
	assertMat4Equal(t, scene.LocalMatrix(ct), scene.WorldMatrix(w, child))
}

func TestWorldMatrixParentWithoutTransform(t *testing.T) {
	w := ecs.NewWorld(nil)

	parent := w.CreateEntity() // no transform component

	child := w.CreateEntity()
	ct := scene.NewTransform()
	ct.Parent = parent
	w.AddComponent(child, ct)

	assertMat4Equal(t, scene.LocalMatrix(ct), scene.WorldMatrix(w, child))
}

func TestWorldMatrixCycleTerminates(t *testing.T) {
	w := ecs.NewWorld(nil)

	a := w.CreateEntity()
	b := w.CreateEntity()

	at := scene.NewTransform()
	at.Parent = b
	w.AddComponent(a, at)

	bt := scene.NewTransform()
	bt.Parent = a
	w.AddComponent(b, bt)

	// The bounded ancestor walk must return instead of spinning forever.
	assert.NotPanics(t, func() { _ = scene.WorldMatrix(w, a) })
}

func TestWorldMatrixMissingEntity(t *testing.T) {
	w := ecs.NewWorld(nil)
	assertMat4Equal(t, mgl32.Ident4(), scene.WorldMatrix(w, 42))
}

func TestTranslation(t *testing.T) {
	m := mgl32.Translate3D(3, -4, 5)
	assert.Equal(t, mgl32.Vec3{3, -4, 5}, scene.Translation(m))
}

func TestFootprintBounds(t *testing.T) {
	tr := scene.NewTransform()
	tr.Position = mgl32.Vec3{10, 0, 0}
	tr.Scale = mgl32.Vec3{2, 1, 3}

	b := scene.FootprintBounds(tr, scene.Bounds{
		Min: mgl32.Vec3{-0.5, -0.5, -0.5},
		Max: mgl32.Vec3{0.5, 0.5, 0.5},
	})

	assert.InDelta(t, 9, b.Min[0], 1e-5)
	assert.InDelta(t, 11, b.Max[0], 1e-5)
	assert.InDelta(t, -1.5, b.Min[2], 1e-5)
	assert.InDelta(t, 1.5, b.Max[2], 1e-5)
}

func TestSetParentKeepsHierarchyConsistent(t *testing.T) {
	w := ecs.NewWorld(nil)

	parent := w.CreateEntity()
	w.AddComponent(parent, scene.NewTransform())
	child := w.CreateEntity()
	w.AddComponent(child, scene.NewTransform())

	scene.SetParent(w, child, parent)

	ct := ecs.Get[*scene.Transform](w, child, scene.TypeTransform)
	require.NotNil(t, ct)
	assert.Equal(t, parent, ct.Parent)

	ph := ecs.Get[*scene.Hierarchy](w, parent, scene.TypeHierarchy)
	require.NotNil(t, ph)
	assert.Equal(t, []ecs.EntityID{child}, ph.Children)

	// Reparenting unlinks from the old parent.
	other := w.CreateEntity()
	w.AddComponent(other, scene.NewTransform())
	scene.SetParent(w, child, other)

	assert.Empty(t, ph.Children)
	oh := ecs.Get[*scene.Hierarchy](w, other, scene.TypeHierarchy)
	require.NotNil(t, oh)
	assert.Equal(t, []ecs.EntityID{child}, oh.Children)
}
