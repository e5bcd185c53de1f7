package mesh

import "testing"

func TestValidate(t *testing.T) {
	ok := &Buffer{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
		UVs:      []float32{0, 0, 1, 0, 0, 1},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid buffer rejected: %v", err)
	}

	bad := &Buffer{Vertices: []float32{0, 0}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("vertex length not divisible by 3 accepted")
	}

	oob := &Buffer{Vertices: []float32{0, 0, 0}, Indices: []uint32{1, 0, 0}}
	if err := oob.Validate(); err == nil {
		t.Fatalf("out-of-range index accepted")
	}
}

func TestTriangleImplicit(t *testing.T) {
	b := &Buffer{Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 5, 5, 5, 6, 5, 5, 5, 6, 5}}
	if b.TriangleCount() != 2 {
		t.Fatalf("triangle count %d, want 2", b.TriangleCount())
	}
	v0, _, _ := b.Triangle(1)
	if v0 != [3]float32{5, 5, 5} {
		t.Fatalf("triangle 1 first corner %v", v0)
	}
}

func TestTriangleIndexed(t *testing.T) {
	b := &Buffer{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	if b.TriangleCount() != 2 {
		t.Fatalf("triangle count %d, want 2", b.TriangleCount())
	}
	_, _, v2 := b.Triangle(1)
	if v2 != [3]float32{0, 1, 0} {
		t.Fatalf("triangle 1 last corner %v", v2)
	}
}

func TestBounds(t *testing.T) {
	b := &Buffer{Vertices: []float32{-1, 2, 0, 3, -4, 5}}
	min, max, ok := b.Bounds()
	if !ok {
		t.Fatalf("bounds not available")
	}
	if min != [3]float32{-1, -4, 0} || max != [3]float32{3, 2, 5} {
		t.Fatalf("bounds min=%v max=%v", min, max)
	}

	if _, _, ok := (&Buffer{}).Bounds(); ok {
		t.Fatalf("empty buffer reported bounds")
	}
}
