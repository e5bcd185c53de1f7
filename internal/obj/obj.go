// Package obj parses Wavefront OBJ into an indexed mesh buffer.
package obj

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/scan"
	"mesh-normalizer/internal/sched"
)

// faceRec is one face line together with the vertex/uv counts in effect
// when it appeared. Negative (relative-from-end) indices resolve against
// those counts, so they are captured during the line walk and the face
// records themselves run batched afterwards.
type faceRec struct {
	line    string
	lineNo  int
	vCount  int
	uvCount int
}

// Parse splits the buffer into lines and classifies each by its first two
// characters: "v " vertex, "vt" texture coordinate, "f " face. Everything
// else (comments, normals, groups, materials) is ignored. Face records are
// processed in fixed-size batches through r.
func Parse(ctx context.Context, raw []byte, r sched.Runner) (*mesh.Buffer, error) {
	var (
		vertices []float32
		uvs      []float32
		faces    []faceRec
	)

	for no, line := range scan.Lines(raw) {
		if len(line) < 2 {
			continue
		}
		switch line[:2] {
		case "v ":
			vertices = append(vertices, scan.NumericFields(line)...)
		case "vt":
			uvs = append(uvs, scan.NumericFields(line)...)
		case "f ":
			faces = append(faces, faceRec{
				line:    line,
				lineNo:  no + 1,
				vCount:  len(vertices) / 3,
				uvCount: len(uvs) / 2,
			})
		}
	}

	// Indices stays present-but-empty for a face-less file.
	indices := make([]uint32, 0, 3*len(faces))
	err := r.Run(ctx, len(faces), func(start, end int) error {
		for _, f := range faces[start:end] {
			tri, err := resolveFace(f)
			if err != nil {
				return err
			}
			indices = append(indices, tri...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &mesh.Buffer{Vertices: vertices, Indices: indices, UVs: uvs}, nil
}

// resolveFace turns one face record into fan-triangulated vertex indices.
// Corners past the third each duplicate the first and the immediately
// preceding corner, yielding triangle (first, previous, current). This is
// a convex-fan split: non-convex or self-intersecting faces come out wrong,
// which matches the upstream behavior deliberately.
func resolveFace(f faceRec) ([]uint32, error) {
	tokens := strings.Fields(f.line)[1:]
	if len(tokens) < 3 {
		return nil, fmt.Errorf("obj: line %d: %w: face with %d corners", f.lineNo, format.ErrMalformedRecord, len(tokens))
	}
	out := make([]uint32, 0, 3*(len(tokens)-2))

	var first, prev uint32
	for k, tok := range tokens {
		idx, err := resolveCorner(tok, f.vCount, f.uvCount)
		if err != nil {
			return nil, fmt.Errorf("obj: line %d: %w", f.lineNo, err)
		}
		if k >= 3 {
			out = append(out, first, prev)
		}
		out = append(out, idx)
		if k == 0 {
			first = idx
		}
		prev = idx
	}
	return out, nil
}

// resolveCorner parses a face corner of the shape v[/vt[/vn]] and returns
// the zero-based vertex index. Positive indices are 1-based; negative ones
// are relative to the vertex count at the face's position in the file. The
// uv component is resolved the same way against the uv count; the normal
// component is ignored.
func resolveCorner(tok string, vCount, uvCount int) (uint32, error) {
	parts := strings.Split(tok, "/")

	vi, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: corner %q: %v", format.ErrMalformedRecord, tok, err)
	}
	if vi < 0 {
		vi += vCount + 1
	}
	vi-- // 1-based to 0-based
	if vi < 0 {
		return 0, fmt.Errorf("%w: corner %q resolves to vertex %d", format.ErrMalformedRecord, tok, vi)
	}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("%w: corner %q: %v", format.ErrMalformedRecord, tok, err)
		}
		if ti < 0 {
			ti += uvCount + 1
		}
		if ti-1 < 0 {
			return 0, fmt.Errorf("%w: corner %q resolves to uv %d", format.ErrMalformedRecord, tok, ti-1)
		}
	}

	return uint32(vi), nil
}
