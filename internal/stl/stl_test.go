package stl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/sched"
)

var testRunner = sched.Runner{YieldDelay: time.Microsecond}

// asciiFixture builds a well-formed text STL with a trailing newline.
func asciiFixture(tris [][9]float32) []byte {
	var b strings.Builder
	b.WriteString("solid fixture\n")
	for _, tr := range tris {
		b.WriteString("facet normal 0 0 0\n")
		b.WriteString("outer loop\n")
		for v := 0; v < 3; v++ {
			fmt.Fprintf(&b, "vertex %g %g %g\n", tr[3*v], tr[3*v+1], tr[3*v+2])
		}
		b.WriteString("endloop\n")
		b.WriteString("endfacet\n")
	}
	b.WriteString("endsolid fixture\n")
	return []byte(b.String())
}

// binaryFixture builds a binary STL with a zeroed header.
func binaryFixture(tris [][9]float32) []byte {
	raw := make([]byte, 84+50*len(tris))
	binary.LittleEndian.PutUint32(raw[80:], uint32(len(tris)))
	for i, tr := range tris {
		off := 84 + 50*i + 12
		for k, f := range tr {
			binary.LittleEndian.PutUint32(raw[off+4*k:], math.Float32bits(f))
		}
	}
	return raw
}

func oneTriangle() [][9]float32 {
	return [][9]float32{{0, 0, 0, 1, 0, 0, 0, 1, 0}}
}

func TestAsciiSingleTriangle(t *testing.T) {
	var st AttemptState
	buf, err := Parse(context.Background(), asciiFixture(oneTriangle()), format.AsciiSTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	if len(buf.Vertices) != 9 {
		t.Fatalf("vertices length %d, want 9", len(buf.Vertices))
	}
	for i := range want {
		if buf.Vertices[i] != want[i] {
			t.Fatalf("vertex float %d = %v, want %v", i, buf.Vertices[i], want[i])
		}
	}
	if buf.Indices != nil || buf.UVs != nil {
		t.Fatalf("STL output must not carry indices or uvs")
	}
}

func TestAsciiExtraLeadingTokens(t *testing.T) {
	raw := []byte("solid x\n" +
		"facet normal 0 0 0\n" +
		"outer loop\n" +
		"marker vertex 1 2 3\n" +
		"vertex 4 5 6\n" +
		"vertex 7 8 9\n" +
		"endloop\n" +
		"endfacet\n" +
		"endsolid x\n")
	var st AttemptState
	buf, err := Parse(context.Background(), raw, format.AsciiSTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i := range want {
		if buf.Vertices[i] != want[i] {
			t.Fatalf("vertex float %d = %v, want %v", i, buf.Vertices[i], want[i])
		}
	}
}

func TestBinaryVertexCount(t *testing.T) {
	tris := make([][9]float32, 7)
	for i := range tris {
		tris[i] = [9]float32{float32(i), 0, 0, 0, 1, 0, 0, 0, 1}
	}
	var st AttemptState
	buf, err := Parse(context.Background(), binaryFixture(tris), format.BinarySTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(buf.Vertices) != 9*len(tris) {
		t.Fatalf("vertices length %d, want %d", len(buf.Vertices), 9*len(tris))
	}
	for i := range tris {
		if buf.Vertices[9*i] != float32(i) {
			t.Fatalf("triangle %d out of order: first coord %v", i, buf.Vertices[9*i])
		}
	}
}

func TestAsciiBinaryEquivalence(t *testing.T) {
	tris := [][9]float32{
		{0, 0, 0, 1, 0, 0, 0, 1, 0},
		{1, 1, 1, 2, 1, 1, 1, 2, 1},
	}
	var stA, stB AttemptState
	a, err := Parse(context.Background(), asciiFixture(tris), format.AsciiSTL, &stA, testRunner)
	if err != nil {
		t.Fatalf("ascii: %v", err)
	}
	b, err := Parse(context.Background(), binaryFixture(tris), format.BinarySTL, &stB, testRunner)
	if err != nil {
		t.Fatalf("binary: %v", err)
	}
	if len(a.Vertices) != len(b.Vertices) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Vertices), len(b.Vertices))
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("float %d differs: ascii %v binary %v", i, a.Vertices[i], b.Vertices[i])
		}
	}
}

func TestAsciiFallsBackToBinary(t *testing.T) {
	raw := binaryFixture(oneTriangle())
	var st AttemptState
	buf, err := Parse(context.Background(), raw, format.AsciiSTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !st.TriedAscii {
		t.Fatalf("TriedAscii not set after structural failure")
	}
	if st.TriedBinary {
		t.Fatalf("TriedBinary set on a successful binary parse")
	}
	if len(buf.Vertices) != 9 {
		t.Fatalf("vertices length %d, want 9", len(buf.Vertices))
	}
}

func TestBinaryFallsBackToAscii(t *testing.T) {
	// An ASCII file mis-sniffed as binary: its length disagrees with the
	// u32 read at offset 80, so the binary attempt fails structurally.
	tris := make([][9]float32, 4)
	for i := range tris {
		tris[i] = [9]float32{float32(i), 0, 0, 1, 0, 0, 0, 1, 0}
	}
	raw := asciiFixture(tris)
	var st AttemptState
	buf, err := Parse(context.Background(), raw, format.BinarySTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !st.TriedBinary {
		t.Fatalf("TriedBinary not set after structural failure")
	}
	if len(buf.Vertices) != 9*len(tris) {
		t.Fatalf("vertices length %d, want %d", len(buf.Vertices), 9*len(tris))
	}
}

func TestDoubleFailureIsTerminalAndIdempotent(t *testing.T) {
	raw := []byte("garbage that is neither variant")
	var st AttemptState

	_, err := Parse(context.Background(), raw, format.AsciiSTL, &st, testRunner)
	if !errors.Is(err, format.ErrUnrecognizedStl) {
		t.Fatalf("err = %v, want ErrUnrecognizedStl", err)
	}
	if !st.TriedAscii || !st.TriedBinary {
		t.Fatalf("both attempt flags must be set, got %+v", st)
	}

	// Second call with the same state is a no-op, not a new attempt.
	_, err = Parse(context.Background(), raw, format.AsciiSTL, &st, testRunner)
	if !errors.Is(err, format.ErrUnrecognizedStl) {
		t.Fatalf("second call err = %v, want ErrUnrecognizedStl", err)
	}
}

func TestMalformedRecordIsTerminal(t *testing.T) {
	raw := []byte("solid x\n" +
		"facet normal 0 0 0\n" +
		"outer loop\n" +
		"vertex 1 2 nope\n" +
		"vertex 4 5 6\n" +
		"vertex 7 8 9\n" +
		"endloop\n" +
		"endfacet\n" +
		"endsolid x\n")
	var st AttemptState
	_, err := Parse(context.Background(), raw, format.AsciiSTL, &st, testRunner)
	if !errors.Is(err, format.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if st.TriedBinary {
		t.Fatalf("malformed record must not trigger the binary fallback")
	}
}

func TestBinaryBatchedOrder(t *testing.T) {
	tris := make([][9]float32, 1250)
	for i := range tris {
		tris[i] = [9]float32{float32(i), 0, 0, 0, 1, 0, 0, 0, 1}
	}
	var st AttemptState
	buf, err := Parse(context.Background(), binaryFixture(tris), format.BinarySTL, &st, testRunner)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(buf.Vertices) != 9*1250 {
		t.Fatalf("vertices length %d, want %d", len(buf.Vertices), 9*1250)
	}
	for i := 0; i < 1250; i++ {
		if buf.Vertices[9*i] != float32(i) {
			t.Fatalf("triangle %d missing or out of order", i)
		}
	}
}

func TestParseCancellation(t *testing.T) {
	tris := make([][9]float32, 1100) // forces at least one suspension
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var st AttemptState
	_, err := Parse(ctx, binaryFixture(tris), format.BinarySTL, &st, testRunner)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
