package ecs

// SystemFunc is a per-frame behavior over the world. It may freely mutate
// entities and components; mutations are visible to systems running later in
// the same frame.
type SystemFunc func(frame *UpdateFrame)

type systemEntry struct {
	name     string
	fn       SystemFunc
	priority int
	order    int
	enabled  bool
}
