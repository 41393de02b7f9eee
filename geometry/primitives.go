package geometry

import (
	"github.com/chewxy/math32"
)

// CreateBox builds an axis-aligned box centered at the origin. Each face has
// its own four vertices so accumulated normals stay flat per face. An empty
// id auto-generates one.
func (l *Library) CreateBox(id string, width, height, depth float32) string {
	hw, hh, hd := width/2, height/2, depth/2

	// Four corners + uv per face, +X -X +Y -Y +Z -Z.
	faces := [6][4][3]float32{
		{{hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}, {hw, -hh, hd}},
		{{-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}, {-hw, -hh, -hd}},
		{{-hw, hh, -hd}, {-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}},
		{{-hw, -hh, hd}, {-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}},
		{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}},
		{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}},
	}
	faceUVs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]float32, 0, 6*4*3)
	uvs := make([]float32, 0, 6*4*2)
	indices := make([]uint32, 0, 6*6)

	for f, corners := range faces {
		base := uint32(f * 4)
		for c, p := range corners {
			vertices = append(vertices, p[0], p[1], p[2])
			uvs = append(uvs, faceUVs[c][0], faceUVs[c][1])
		}
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	storedID, err := l.put(&Geometry{
		ID:       id,
		Kind:     KindBox,
		Vertices: vertices,
		Indices:  indices,
		UVs:      uvs,
	})
	if err != nil {
		// Analytic buffers always validate.
		panic(err)
	}
	return storedID
}

// CreateSphere builds a latitude-major, longitude-minor grid of
// (segments+1) x (segments+1) points with poles duplicated across the
// longitude seam.
func (l *Library) CreateSphere(id string, radius float32, segments int) string {
	if segments < 2 {
		segments = 2
	}

	rows := segments + 1
	vertices := make([]float32, 0, rows*rows*3)
	uvs := make([]float32, 0, rows*rows*2)

	for lat := 0; lat <= segments; lat++ {
		theta := float32(lat) / float32(segments) * math32.Pi
		sinTheta := math32.Sin(theta)
		cosTheta := math32.Cos(theta)

		for lon := 0; lon <= segments; lon++ {
			phi := float32(lon) / float32(segments) * 2 * math32.Pi
			x := radius * sinTheta * math32.Sin(phi)
			y := radius * cosTheta
			z := radius * sinTheta * math32.Cos(phi)
			vertices = append(vertices, x, y, z)
			uvs = append(uvs, float32(lon)/float32(segments), float32(lat)/float32(segments))
		}
	}

	indices := make([]uint32, 0, segments*segments*6)
	for lat := 0; lat < segments; lat++ {
		for lon := 0; lon < segments; lon++ {
			first := uint32(lat*(segments+1) + lon)
			second := first + uint32(segments) + 1
			indices = append(indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}

	storedID, err := l.put(&Geometry{
		ID:       id,
		Kind:     KindSphere,
		Vertices: vertices,
		Indices:  indices,
		UVs:      uvs,
	})
	if err != nil {
		panic(err)
	}
	return storedID
}

// CreateCylinder builds an open-ended cylinder (no caps) as a
// 2 x (radialSegments+1) top/bottom ring grid.
func (l *Library) CreateCylinder(id string, radius, height float32, radialSegments int) string {
	if radialSegments < 3 {
		radialSegments = 3
	}

	half := height / 2
	ring := radialSegments + 1
	vertices := make([]float32, 0, 2*ring*3)
	uvs := make([]float32, 0, 2*ring*2)

	for row := 0; row < 2; row++ {
		y := half
		v := float32(0)
		if row == 1 {
			y = -half
			v = 1
		}
		for i := 0; i <= radialSegments; i++ {
			angle := float32(i) / float32(radialSegments) * 2 * math32.Pi
			vertices = append(vertices, radius*math32.Sin(angle), y, radius*math32.Cos(angle))
			uvs = append(uvs, float32(i)/float32(radialSegments), v)
		}
	}

	indices := make([]uint32, 0, radialSegments*6)
	for i := 0; i < radialSegments; i++ {
		a := uint32(i)           // top ring
		b := a + 1               // next top
		c := uint32(ring + i)    // bottom ring
		d := uint32(ring + i + 1)
		indices = append(indices,
			a, c, b,
			b, c, d,
		)
	}

	storedID, err := l.put(&Geometry{
		ID:       id,
		Kind:     KindCylinder,
		Vertices: vertices,
		Indices:  indices,
		UVs:      uvs,
	})
	if err != nil {
		panic(err)
	}
	return storedID
}

// CreatePlane builds a single horizontal quad of the given extent, facing
// +Y. Used for ground surfaces and projected shadow footprints.
func (l *Library) CreatePlane(id string, width, depth float32) string {
	hw, hd := width/2, depth/2
	vertices := []float32{
		-hw, 0, -hd,
		hw, 0, -hd,
		hw, 0, hd,
		-hw, 0, hd,
	}
	uvs := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	indices := []uint32{0, 2, 1, 0, 3, 2}

	storedID, err := l.put(&Geometry{
		ID:       id,
		Kind:     KindRaw,
		Vertices: vertices,
		Indices:  indices,
		UVs:      uvs,
	})
	if err != nil {
		panic(err)
	}
	return storedID
}
