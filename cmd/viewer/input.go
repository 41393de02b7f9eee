package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/helio/systems"
)

// input translates keyboard and mouse state into first-person intents. The
// controller consumes look deltas and jumps; movement is held state refreshed
// every frame.
type input struct {
	sensitivity  float32
	lastX, lastY int
	haveLast     bool
}

func newInput(sensitivity float32) *input {
	return &input{sensitivity: sensitivity}
}

func (i *input) read(intent *systems.Intent) {
	intent.MoveX = 0
	intent.MoveZ = 0

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		intent.MoveZ++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		intent.MoveZ--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		intent.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		intent.MoveX--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		intent.Jump = true
	}

	// Arrow-free look: drag with the left button held.
	x, y := ebiten.CursorPosition()
	dragging := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if dragging && i.haveLast {
		intent.LookDX += float32(x-i.lastX) * i.sensitivity
		intent.LookDY += float32(i.lastY-y) * i.sensitivity
	}
	i.lastX, i.lastY = x, y
	i.haveLast = dragging

	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		intent.LookDX -= 0.03
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		intent.LookDX += 0.03
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageUp) {
		intent.LookDY += 0.02
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageDown) {
		intent.LookDY -= 0.02
	}
}
