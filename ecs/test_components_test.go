package ecs_test

import "github.com/plus3/helio/ecs"

// Common test component types

type Position struct {
	X, Y, Z float32
}

func (Position) Type() ecs.Type { return "position" }
func (p Position) Clone() ecs.Component {
	return p
}

type Velocity struct {
	DX, DY, DZ float32
}

func (Velocity) Type() ecs.Type { return "velocity" }
func (v Velocity) Clone() ecs.Component {
	return v
}

type Health struct {
	Current int
	Max     int
}

func (Health) Type() ecs.Type { return "health" }
func (h Health) Clone() ecs.Component {
	return h
}

// Waypoints carries a nested slice so clone depth is testable.
type Waypoints struct {
	Points [][3]float32
}

func (Waypoints) Type() ecs.Type { return "waypoints" }
func (w Waypoints) Clone() ecs.Component {
	points := make([][3]float32, len(w.Points))
	copy(points, w.Points)
	return Waypoints{Points: points}
}
