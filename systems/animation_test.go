package systems_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/scene"
	"github.com/plus3/helio/systems"
)

func positionTrack() scene.Track {
	return scene.Track{
		Target: scene.TargetPosition,
		Times:  []float32{0, 1, 2},
		Values: []mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 5, 0}},
	}
}

func TestInterpolateTrackClampsToEndpoints(t *testing.T) {
	track := positionTrack()

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, systems.InterpolateTrack(track, -1))
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, systems.InterpolateTrack(track, 0))
	assert.Equal(t, mgl32.Vec3{10, 5, 0}, systems.InterpolateTrack(track, 2))
	assert.Equal(t, mgl32.Vec3{10, 5, 0}, systems.InterpolateTrack(track, 99))
}

func TestInterpolateTrackExactLerp(t *testing.T) {
	track := positionTrack()

	// v0 + (v1-v0)*(t-t0)/(t1-t0)
	got := systems.InterpolateTrack(track, 0.25)
	assert.InDelta(t, 2.5, got.X(), 1e-6)
	assert.InDelta(t, 0.0, got.Y(), 1e-6)

	got = systems.InterpolateTrack(track, 1.5)
	assert.InDelta(t, 10.0, got.X(), 1e-6)
	assert.InDelta(t, 2.5, got.Y(), 1e-6)
}

func TestInterpolateTrackSingleKeyframe(t *testing.T) {
	track := scene.Track{
		Target: scene.TargetScale,
		Times:  []float32{0.5},
		Values: []mgl32.Vec3{{2, 2, 2}},
	}
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, systems.InterpolateTrack(track, 0))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, systems.InterpolateTrack(track, 5))
}

func TestAnimateWritesTransform(t *testing.T) {
	w := ecs.NewWorld(nil)
	sched := ecs.NewScheduler(w)
	sched.AddSystem("animate", systems.Animate, 0)

	id := w.CreateEntity()
	require.True(t, w.AddComponent(id, scene.NewTransform()))
	require.True(t, w.AddComponent(id, scene.NewAnimation(positionTrack())))

	sched.Update(0.5)

	tr := ecs.Get[*scene.Transform](w, id, scene.TypeTransform)
	require.NotNil(t, tr)
	assert.InDelta(t, 5.0, tr.Position.X(), 1e-5)
}

func TestAnimateLoopsAndClampStops(t *testing.T) {
	t.Run("looping wraps time", func(t *testing.T) {
		w := ecs.NewWorld(nil)
		sched := ecs.NewScheduler(w)
		sched.AddSystem("animate", systems.Animate, 0)

		id := w.CreateEntity()
		require.True(t, w.AddComponent(id, scene.NewTransform()))
		anim := scene.NewAnimation(positionTrack())
		require.True(t, w.AddComponent(id, anim))

		sched.Update(2.5) // duration is 2, wraps to 0.5

		assert.True(t, anim.Playing)
		assert.InDelta(t, 0.5, anim.Time, 1e-5)
	})

	t.Run("non-looping clamps and stops", func(t *testing.T) {
		w := ecs.NewWorld(nil)
		sched := ecs.NewScheduler(w)
		sched.AddSystem("animate", systems.Animate, 0)

		id := w.CreateEntity()
		require.True(t, w.AddComponent(id, scene.NewTransform()))
		anim := scene.NewAnimation(positionTrack())
		anim.Loop = false
		require.True(t, w.AddComponent(id, anim))

		sched.Update(5)

		assert.False(t, anim.Playing)
		assert.InDelta(t, 2.0, anim.Time, 1e-5)
		tr := ecs.Get[*scene.Transform](w, id, scene.TypeTransform)
		assert.Equal(t, mgl32.Vec3{10, 5, 0}, tr.Position)

		// A stopped animation no longer advances.
		sched.Update(1)
		assert.InDelta(t, 2.0, anim.Time, 1e-5)
	})
}

func TestAnimateRespectsSpeedAndPaused(t *testing.T) {
	w := ecs.NewWorld(nil)
	sched := ecs.NewScheduler(w)
	sched.AddSystem("animate", systems.Animate, 0)

	id := w.CreateEntity()
	require.True(t, w.AddComponent(id, scene.NewTransform()))
	anim := scene.NewAnimation(positionTrack())
	anim.Speed = 2
	require.True(t, w.AddComponent(id, anim))

	sched.Update(0.25)
	assert.InDelta(t, 0.5, anim.Time, 1e-5)

	anim.Playing = false
	sched.Update(0.25)
	assert.InDelta(t, 0.5, anim.Time, 1e-5)
}
