// Package mesh defines the normalized, renderer-agnostic output of a parse.
package mesh

import "fmt"

// Buffer holds one parsed mesh as flat arrays.
//
// Vertices is always present: x,y,z triples, len = 3 × vertex count.
// Indices is present only for indexed formats (OBJ); when nil, triangle i
// is implicitly vertices [9i..9i+8] (STL).
// UVs and Colors are optional; Colors is reserved for formats that carry
// per-vertex color and is never produced by the STL/OBJ parsers.
type Buffer struct {
	Vertices []float32
	Indices  []uint32
	UVs      []float32
	Colors   []float32
}

// VertexCount returns the number of x,y,z triples in Vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles, indexed or implicit.
func (b *Buffer) TriangleCount() int {
	if b.Indices != nil {
		return len(b.Indices) / 3
	}
	return b.VertexCount() / 3
}

// Triangle returns the three corner positions of triangle i,
// resolving Indices when present.
func (b *Buffer) Triangle(i int) (v0, v1, v2 [3]float32) {
	var a, bb, c int
	if b.Indices != nil {
		a = int(b.Indices[3*i])
		bb = int(b.Indices[3*i+1])
		c = int(b.Indices[3*i+2])
	} else {
		a, bb, c = 3*i, 3*i+1, 3*i+2
	}
	copy(v0[:], b.Vertices[3*a:3*a+3])
	copy(v1[:], b.Vertices[3*bb:3*bb+3])
	copy(v2[:], b.Vertices[3*c:3*c+3])
	return v0, v1, v2
}

// Validate checks the structural invariants: vertex floats divisible by 3,
// every index inside the vertex range, UV floats divisible by 2, and color
// floats (when present) one RGB triple per vertex.
func (b *Buffer) Validate() error {
	if len(b.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertex array length %d not divisible by 3", len(b.Vertices))
	}
	nv := uint32(b.VertexCount())
	for i, idx := range b.Indices {
		if idx >= nv {
			return fmt.Errorf("mesh: index %d at position %d out of range (%d vertices)", idx, i, nv)
		}
	}
	if b.Indices != nil && len(b.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index array length %d not divisible by 3", len(b.Indices))
	}
	if len(b.UVs)%2 != 0 {
		return fmt.Errorf("mesh: uv array length %d not divisible by 2", len(b.UVs))
	}
	if b.Colors != nil && len(b.Colors) != 3*int(nv) {
		return fmt.Errorf("mesh: color array length %d, want %d", len(b.Colors), 3*nv)
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertices.
// Ok is false for an empty buffer.
func (b *Buffer) Bounds() (min, max [3]float32, ok bool) {
	if len(b.Vertices) < 3 {
		return min, max, false
	}
	copy(min[:], b.Vertices[:3])
	copy(max[:], b.Vertices[:3])
	for i := 3; i+2 < len(b.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := b.Vertices[i+k]
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max, true
}
