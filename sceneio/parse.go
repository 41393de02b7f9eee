package sceneio

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/helio/scene"
)

// Attribute value grammar: vectors are three space-separated floats, colors
// are either "#rrggbb" or three floats in [0,1], angles are degrees, and
// keyframe tracks are "time:x y z" entries joined by semicolons.

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func zeroVec3() mgl32.Vec3 { return mgl32.Vec3{} }
func unitVec3() mgl32.Vec3 { return mgl32.Vec3{1, 1, 1} }

func degToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

func floatVal(s string, def float32) float32 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return def
	}
	return float32(f)
}

func floatAttr(attrs map[string]string, key string, def float32) float32 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	return floatVal(v, def)
}

func intAttr(attrs map[string]string, key string, def int) int {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func boolAttr(attrs map[string]string, key string, def bool) bool {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func vec3Val(s string, def mgl32.Vec3) mgl32.Vec3 {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return def
	}
	var v mgl32.Vec3
	for i, f := range fields {
		parsed, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return def
		}
		v[i] = float32(parsed)
	}
	return v
}

func vec3Attr(attrs map[string]string, key string, def mgl32.Vec3) mgl32.Vec3 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	return vec3Val(v, def)
}

// degVec3Attr parses a vector of degrees into radians.
func degVec3Attr(attrs map[string]string, key string, def mgl32.Vec3) mgl32.Vec3 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	deg := vec3Val(v, mgl32.Vec3{})
	return mgl32.Vec3{degToRad(deg.X()), degToRad(deg.Y()), degToRad(deg.Z())}
}

// colorVal accepts "#rrggbb" hex or three floats in [0,1].
func colorVal(s string, def mgl32.Vec3) mgl32.Vec3 {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := strings.TrimPrefix(s, "#")
		if len(hex) != 6 {
			return def
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return def
		}
		return mgl32.Vec3{
			float32(n>>16&0xff) / 255,
			float32(n>>8&0xff) / 255,
			float32(n&0xff) / 255,
		}
	}
	return vec3Val(s, def)
}

// parseTrack parses "0:0 0 0; 1:10 0 0; 2:10 5 0" into a keyframe track.
// Times must be non-decreasing.
func parseTrack(s string, target scene.TrackTarget) (scene.Track, error) {
	track := scene.Track{Target: target}

	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		timePart, valuePart, ok := strings.Cut(entry, ":")
		if !ok {
			return scene.Track{}, fmt.Errorf("keyframe %q: want time:x y z", entry)
		}
		at, err := strconv.ParseFloat(strings.TrimSpace(timePart), 32)
		if err != nil {
			return scene.Track{}, fmt.Errorf("keyframe %q: bad time: %w", entry, err)
		}
		fields := strings.Fields(valuePart)
		if len(fields) != 3 {
			return scene.Track{}, fmt.Errorf("keyframe %q: want three values", entry)
		}
		var v mgl32.Vec3
		for i, f := range fields {
			parsed, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return scene.Track{}, fmt.Errorf("keyframe %q: bad value: %w", entry, err)
			}
			v[i] = float32(parsed)
		}

		t := float32(at)
		if n := len(track.Times); n > 0 && t < track.Times[n-1] {
			return scene.Track{}, fmt.Errorf("keyframe %q: time %g before previous %g", entry, t, track.Times[n-1])
		}
		track.Times = append(track.Times, t)
		track.Values = append(track.Values, v)
	}

	if len(track.Times) == 0 {
		return scene.Track{}, fmt.Errorf("track %q has no keyframes", s)
	}
	return track, nil
}
