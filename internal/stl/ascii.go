package stl

import (
	"context"
	"fmt"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/scan"
	"mesh-normalizer/internal/sched"
)

// Text STL shape: one header line, repeating 7-line facet blocks
// (facet normal, outer loop, 3×vertex, endloop, endfacet), one footer
// line, and the empty element a final newline leaves after splitting.
const (
	asciiFrameLines = 3
	asciiBlockLines = 7
	asciiVertexOff  = 3 // first vertex line within a block, from file start
)

// parseAscii decodes the buffer as text and extracts 9 floats per facet
// block. Vertex lines tokenize on whitespace and take their last three
// tokens, so stray leading markers on hand-edited lines are harmless.
func parseAscii(ctx context.Context, raw []byte, r sched.Runner) (*mesh.Buffer, error) {
	lines := scan.Lines(raw)

	rest := len(lines) - asciiFrameLines
	if rest < 0 || rest%asciiBlockLines != 0 {
		return nil, fmt.Errorf("stl: %d lines do not form facet blocks: %w", len(lines), format.ErrStructuralMismatch)
	}
	triCount := rest / asciiBlockLines

	vertices := make([]float32, 9*triCount)
	err := r.Run(ctx, triCount, func(start, end int) error {
		for i := start; i < end; i++ {
			for v := 0; v < 3; v++ {
				line := lines[asciiVertexOff+asciiBlockLines*i+v]
				coords, err := scan.LastFloats(line, 3)
				if err != nil {
					return fmt.Errorf("stl: facet %d vertex %d: %w: %v", i, v, format.ErrMalformedRecord, err)
				}
				copy(vertices[9*i+3*v:], coords)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &mesh.Buffer{Vertices: vertices}, nil
}
