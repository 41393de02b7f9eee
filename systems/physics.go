package systems

import (
	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/scene"
)

// Gravity is the downward acceleration applied to gravity-enabled bodies, in
// units per second squared.
const Gravity float32 = 9.81

// Physics integrates Velocity into Transform and applies the single
// ground-plane clamp for RigidBody entities. Collision beyond the ground
// plane is out of scope.
func Physics(frame *ecs.UpdateFrame) {
	w := frame.World
	dt := float32(frame.DeltaTime)

	q := w.Query([]ecs.Type{scene.TypeTransform, scene.TypeVelocity}, nil)
	for e := range q.Iter() {
		transform := ecs.Get[*scene.Transform](w, e.ID, scene.TypeTransform)
		vel := ecs.Get[*scene.Velocity](w, e.ID, scene.TypeVelocity)
		if transform == nil || vel == nil {
			continue
		}

		body := ecs.Get[*scene.RigidBody](w, e.ID, scene.TypeRigidBody)
		if body != nil && body.Gravity {
			vel.Linear[1] -= Gravity * dt
		}

		transform.Position = transform.Position.Add(vel.Linear.Mul(dt))
		transform.Rotation = transform.Rotation.Add(vel.Angular.Mul(dt))

		if body == nil {
			continue
		}
		if transform.Position.Y() <= body.GroundY {
			transform.Position[1] = body.GroundY
			if vel.Linear.Y() < 0 {
				vel.Linear[1] = 0
			}
			body.Grounded = true
		} else {
			body.Grounded = false
		}
	}
}
