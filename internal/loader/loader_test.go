package loader

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/sched"
	"mesh-normalizer/internal/stl"
)

var testLoader = Loader{Runner: sched.Runner{YieldDelay: time.Microsecond}}

func binarySTL(n int) []byte {
	raw := make([]byte, 84+50*n)
	binary.LittleEndian.PutUint32(raw[80:], uint32(n))
	for i := 0; i < n; i++ {
		off := 84 + 50*i + 12
		for k := 0; k < 9; k++ {
			binary.LittleEndian.PutUint32(raw[off+4*k:], math.Float32bits(float32(k)))
		}
	}
	return raw
}

func TestUnsupportedExtension(t *testing.T) {
	var st stl.AttemptState
	_, err := testLoader.Load(context.Background(), []byte("whatever"), "ply", &st)
	if !errors.Is(err, format.ErrUnsupportedExtension) {
		t.Fatalf("err = %v, want ErrUnsupportedExtension", err)
	}
	if st.TriedAscii || st.TriedBinary {
		t.Fatalf("no parser may run for an unsupported extension")
	}
}

func TestLoadBinarySTL(t *testing.T) {
	var st stl.AttemptState
	buf, err := testLoader.Load(context.Background(), binarySTL(3), "stl", &st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if buf.TriangleCount() != 3 {
		t.Fatalf("triangle count %d, want 3", buf.TriangleCount())
	}
}

func TestLoadAsciiSTL(t *testing.T) {
	raw := []byte("solid s\n" +
		"facet normal 0 0 0\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\n" +
		"endsolid s\n")
	var st stl.AttemptState
	buf, err := testLoader.Load(context.Background(), raw, ".STL", &st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(buf.Vertices) != 9 {
		t.Fatalf("vertices length %d, want 9", len(buf.Vertices))
	}
}

func TestLoadOBJ(t *testing.T) {
	raw := []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	buf, err := testLoader.Load(context.Background(), raw, "obj", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if buf.TriangleCount() != 1 || buf.Indices == nil {
		t.Fatalf("unexpected buffer: %+v", buf)
	}
}

func TestLoadMisSniffedBinary(t *testing.T) {
	// Binary file whose header starts with "solid": sniffed as ASCII,
	// recovered through the fallback.
	raw := binarySTL(2)
	copy(raw, "solid")
	var st stl.AttemptState
	buf, err := testLoader.Load(context.Background(), raw, "stl", &st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !st.TriedAscii {
		t.Fatalf("ASCII attempt not recorded")
	}
	if buf.TriangleCount() != 2 {
		t.Fatalf("triangle count %d, want 2", buf.TriangleCount())
	}
}

func TestInputCap(t *testing.T) {
	l := Loader{MaxInputBytes: 10}
	_, err := l.Load(context.Background(), make([]byte, 11), "stl", &stl.AttemptState{})
	if !errors.Is(err, format.ErrInputTooLarge) {
		t.Fatalf("err = %v, want ErrInputTooLarge", err)
	}
}
