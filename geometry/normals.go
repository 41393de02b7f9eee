package geometry

import "github.com/chewxy/math32"

// Normals returns smooth per-vertex normals, computed once and cached:
// per-triangle face normals are accumulated onto each incident vertex and
// length-normalized.
func (g *Geometry) Normals() []float32 {
	if g.normals != nil {
		return g.normals
	}

	normals := make([]float32, len(g.Vertices))

	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0 := g.Indices[i] * 3
		i1 := g.Indices[i+1] * 3
		i2 := g.Indices[i+2] * 3

		ax := g.Vertices[i1] - g.Vertices[i0]
		ay := g.Vertices[i1+1] - g.Vertices[i0+1]
		az := g.Vertices[i1+2] - g.Vertices[i0+2]
		bx := g.Vertices[i2] - g.Vertices[i0]
		by := g.Vertices[i2+1] - g.Vertices[i0+1]
		bz := g.Vertices[i2+2] - g.Vertices[i0+2]

		// Face normal = a x b, unnormalized so larger triangles weigh more.
		nx := ay*bz - az*by
		ny := az*bx - ax*bz
		nz := ax*by - ay*bx

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx] += nx
			normals[idx+1] += ny
			normals[idx+2] += nz
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		length := math32.Sqrt(normals[i]*normals[i] + normals[i+1]*normals[i+1] + normals[i+2]*normals[i+2])
		if length > 0 {
			normals[i] /= length
			normals[i+1] /= length
			normals[i+2] /= length
		}
	}

	g.normals = normals
	return normals
}
