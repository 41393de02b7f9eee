package systems_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/render"
	"github.com/plus3/helio/systems"
)

func newController(t *testing.T) (*render.Camera, *systems.Intent, *ecs.Scheduler) {
	t.Helper()
	w := ecs.NewWorld(nil)
	sched := ecs.NewScheduler(w)
	cam := render.NewCamera()
	intent := &systems.Intent{}
	fp := systems.NewFirstPerson(cam, intent)
	sched.AddSystem("first-person", fp.Update, 0)
	return cam, intent, sched
}

func TestFirstPersonLookAndPitchClamp(t *testing.T) {
	cam, intent, sched := newController(t)

	intent.LookDX = 0.3
	intent.LookDY = 0.2
	sched.Update(1.0 / 60)

	assert.InDelta(t, 0.3, cam.Yaw, 1e-6)
	assert.InDelta(t, 0.2, cam.Pitch, 1e-6)
	assert.True(t, cam.HasOrientation)

	// Deltas are one-shot; a quiet frame changes nothing.
	sched.Update(1.0 / 60)
	assert.InDelta(t, 0.3, cam.Yaw, 1e-6)

	intent.LookDY = 10
	sched.Update(1.0 / 60)
	assert.Less(t, cam.Pitch, float32(math32.Pi/2))

	intent.LookDY = -20
	sched.Update(1.0 / 60)
	assert.Greater(t, cam.Pitch, float32(-math32.Pi/2))
}

func TestFirstPersonMovesInYawSpace(t *testing.T) {
	cam, intent, sched := newController(t)
	start := cam.Position

	// Yaw 0 walks down -Z.
	intent.MoveZ = 1
	sched.Update(1)
	assert.InDelta(t, start.Z()-5, cam.Position.Z(), 1e-4)
	assert.InDelta(t, start.X(), cam.Position.X(), 1e-4)

	// Quarter turn right: forward is now +X.
	intent.LookDX = math32.Pi / 2
	sched.Update(1)
	assert.InDelta(t, start.X()+5, cam.Position.X(), 1e-3)
}

func TestFirstPersonDiagonalNotFaster(t *testing.T) {
	cam, intent, sched := newController(t)
	start := cam.Position

	intent.MoveZ = 1
	intent.MoveX = 1
	sched.Update(1)

	moved := cam.Position.Sub(start).Len()
	assert.InDelta(t, 5.0, moved, 1e-3, "diagonal movement is normalized")
}

func TestFirstPersonJumpArc(t *testing.T) {
	cam, intent, sched := newController(t)
	eye := cam.Position.Y()

	intent.Jump = true
	sched.Update(1.0 / 60)
	assert.Greater(t, cam.Position.Y(), eye)
	assert.False(t, intent.Jump, "jump is consumed")

	// Jumping again mid-air does nothing.
	peak := cam.Position.Y()
	intent.Jump = true
	for i := 0; i < 600; i++ {
		sched.Update(1.0 / 60)
		if cam.Position.Y() > peak {
			peak = cam.Position.Y()
		}
	}
	assert.Equal(t, eye, cam.Position.Y(), "lands back at eye height")
	assert.Greater(t, peak, eye)
}
