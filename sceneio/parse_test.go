package sceneio

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/helio/scene"
)

func TestColorVal(t *testing.T) {
	def := mgl32.Vec3{9, 9, 9}

	got := colorVal("#ff8000", def)
	assert.InDelta(t, 1.0, got.X(), 1e-3)
	assert.InDelta(t, 0x80/255.0, got.Y(), 1e-3)
	assert.InDelta(t, 0.0, got.Z(), 1e-3)

	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, colorVal("0.1 0.2 0.3", def))

	assert.Equal(t, def, colorVal("#zzz", def))
	assert.Equal(t, def, colorVal("#ffff", def))
	assert.Equal(t, def, colorVal("1 2", def))
}

func TestVec3Val(t *testing.T) {
	def := mgl32.Vec3{1, 1, 1}
	assert.Equal(t, mgl32.Vec3{1, -2, 3.5}, vec3Val("1 -2 3.5", def))
	assert.Equal(t, def, vec3Val("1 2", def))
	assert.Equal(t, def, vec3Val("a b c", def))
}

func TestParseTrack(t *testing.T) {
	track, err := parseTrack("0:0 0 0; 1.5:10 0 0", scene.TargetPosition)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1.5}, track.Times)
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, track.Values[1])

	_, err = parseTrack("1:0 0 0; 0:1 1 1", scene.TargetPosition)
	assert.Error(t, err, "times must be non-decreasing")

	_, err = parseTrack("0:1 2", scene.TargetPosition)
	assert.Error(t, err)

	_, err = parseTrack("", scene.TargetPosition)
	assert.Error(t, err)
}
