package ecs

// UpdateFrame carries per-frame state into system callbacks.
type UpdateFrame struct {
	DeltaTime  float64
	Elapsed    float64
	FrameCount uint64
	World      *World
	Commands   *Commands
}

func newUpdateFrame(dt, elapsed float64, frameCount uint64, world *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime:  dt,
		Elapsed:    elapsed,
		FrameCount: frameCount,
		World:      world,
		Commands:   newCommands(),
	}
}
