package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/render"
)

// pitchLimit keeps the view off the exact poles, where the look-at up vector
// degenerates.
const pitchLimit = math32.Pi/2 - 0.01

// Intent is one frame of movement/look input. An input collaborator fills it
// in; FirstPerson consumes it. Look deltas and Jump are one-shot and cleared
// after consumption; MoveX/MoveZ are held state and persist.
type Intent struct {
	MoveX  float32 // strafe, positive right
	MoveZ  float32 // walk, positive forward
	LookDX float32 // radians of yaw this frame
	LookDY float32 // radians of pitch this frame
	Jump   bool
}

// FirstPerson mutates the shared camera from movement/look intents: yaw and
// pitch from look deltas (pitch clamped), planar movement in yaw space, and
// an optional jump arc against the same ground plane the physics system uses.
type FirstPerson struct {
	cam    *render.Camera
	intent *Intent

	MoveSpeed   float32
	Sensitivity float32
	JumpSpeed   float32
	EyeHeight   float32

	verticalVel float32
	airborne    bool
}

// NewFirstPerson wires a first-person controller to a camera and an intent
// buffer. The camera is marked oriented and raised to eye height.
func NewFirstPerson(cam *render.Camera, intent *Intent) *FirstPerson {
	cam.HasOrientation = true
	f := &FirstPerson{
		cam:         cam,
		intent:      intent,
		MoveSpeed:   5,
		Sensitivity: 1,
		JumpSpeed:   4.5,
		EyeHeight:   1.7,
	}
	if cam.Position.Y() < f.EyeHeight {
		cam.Position[1] = f.EyeHeight
	}
	return f
}

// Update is the system entry point registered with the scheduler.
func (f *FirstPerson) Update(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	cam := f.cam
	in := f.intent

	cam.Yaw += in.LookDX * f.Sensitivity
	cam.Pitch += in.LookDY * f.Sensitivity
	if cam.Pitch > pitchLimit {
		cam.Pitch = pitchLimit
	}
	if cam.Pitch < -pitchLimit {
		cam.Pitch = -pitchLimit
	}
	in.LookDX = 0
	in.LookDY = 0

	// Walk on the ground plane in yaw space, ignoring pitch.
	forward := mgl32.Vec3{math32.Sin(cam.Yaw), 0, -math32.Cos(cam.Yaw)}
	right := cam.Right()
	move := forward.Mul(in.MoveZ).Add(right.Mul(in.MoveX))
	if l := move.Len(); l > 1 {
		move = move.Mul(1 / l)
	}
	cam.Position = cam.Position.Add(move.Mul(f.MoveSpeed * dt))

	if in.Jump && !f.airborne {
		f.verticalVel = f.JumpSpeed
		f.airborne = true
	}
	in.Jump = false

	if f.airborne {
		f.verticalVel -= Gravity * dt
		cam.Position[1] += f.verticalVel * dt
		if cam.Position.Y() <= f.EyeHeight {
			cam.Position[1] = f.EyeHeight
			f.verticalVel = 0
			f.airborne = false
		}
	}
}
