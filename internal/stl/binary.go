package stl

import (
	"context"
	"fmt"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/scan"
	"mesh-normalizer/internal/sched"
)

// Binary STL layout: 80-byte header (unused), u32 little-endian triangle
// count, then 50-byte records (normal 12B, 3 vertices × 12B, attribute 2B).
const (
	binHeaderLen = 80
	binCountLen  = 4
	binRecordLen = 50
	binNormalLen = 12
)

// parseBinary decodes the fixed binary layout. The declared triangle count
// must fit in the buffer; anything else is a structural mismatch handed to
// the fallback path. Normal vectors and attribute bytes are skipped.
func parseBinary(ctx context.Context, raw []byte, r sched.Runner) (*mesh.Buffer, error) {
	dataStart := binHeaderLen + binCountLen
	if len(raw) < dataStart {
		return nil, fmt.Errorf("stl: %d bytes is shorter than the binary header: %w", len(raw), format.ErrStructuralMismatch)
	}

	triCount := int(scan.NewCursor(raw, binHeaderLen).U32())
	if triCount < 0 || dataStart+binRecordLen*triCount > len(raw) {
		return nil, fmt.Errorf("stl: declared %d triangles, buffer holds %d bytes: %w", triCount, len(raw), format.ErrStructuralMismatch)
	}

	vertices := make([]float32, 9*triCount)
	err := r.Run(ctx, triCount, func(start, end int) error {
		for i := start; i < end; i++ {
			cur := scan.NewCursor(raw, dataStart+binRecordLen*i)
			cur.Skip(binNormalLen)
			for k := 0; k < 9; k++ {
				vertices[9*i+k] = cur.F32()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &mesh.Buffer{Vertices: vertices}, nil
}
