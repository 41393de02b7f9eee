package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/ecs"
	"github.com/plus3/helio/scene"
)

// Animate advances every playing Animation component by the frame delta and
// writes the interpolated track values into the entity's Transform. Looping
// animations wrap around their longest track; non-looping ones clamp at the
// end and stop playing.
func Animate(frame *ecs.UpdateFrame) {
	w := frame.World
	q := w.Query([]ecs.Type{scene.TypeTransform, scene.TypeAnimation}, nil)

	for e := range q.Iter() {
		anim := ecs.Get[*scene.Animation](w, e.ID, scene.TypeAnimation)
		transform := ecs.Get[*scene.Transform](w, e.ID, scene.TypeTransform)
		if anim == nil || transform == nil || !anim.Playing {
			continue
		}

		anim.Time += float32(frame.DeltaTime) * anim.Speed

		dur := anim.Duration()
		if dur > 0 && anim.Time > dur {
			if anim.Loop {
				anim.Time = math32.Mod(anim.Time, dur)
			} else {
				anim.Time = dur
				anim.Playing = false
			}
		}

		for _, track := range anim.Tracks {
			if len(track.Times) == 0 {
				continue
			}
			v := InterpolateTrack(track, anim.Time)
			switch track.Target {
			case scene.TargetPosition:
				transform.Position = v
			case scene.TargetRotation:
				transform.Rotation = v
			case scene.TargetScale:
				transform.Scale = v
			}
		}
	}
}

// InterpolateTrack samples a keyframe track at the given time. Before the
// first keyframe it returns the first value, at or after the last it returns
// the last; between two keyframes the value is the exact linear interpolation
// v0 + (v1-v0)*(t-t0)/(t1-t0).
func InterpolateTrack(t scene.Track, at float32) mgl32.Vec3 {
	n := len(t.Times)
	if n == 0 {
		return mgl32.Vec3{}
	}
	if at <= t.Times[0] {
		return t.Values[0]
	}
	if at >= t.Times[n-1] {
		return t.Values[n-1]
	}

	i := 1
	for i < n && t.Times[i] < at {
		i++
	}

	t0, t1 := t.Times[i-1], t.Times[i]
	v0, v1 := t.Values[i-1], t.Values[i]
	if t1 == t0 {
		return v1
	}
	f := (at - t0) / (t1 - t0)
	return v0.Add(v1.Sub(v0).Mul(f))
}
