// Package loader is the pipeline entry point: raw bytes plus a declared
// extension in, a validated mesh buffer or a terminal error out.
package loader

import (
	"context"
	"fmt"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/obj"
	"mesh-normalizer/internal/sched"
	"mesh-normalizer/internal/stl"
)

// DefaultMaxInputBytes caps raw input size before any parser runs.
const DefaultMaxInputBytes = 64 << 20

const sniffLen = 6

// Loader wires the sniffer, the parsers, and the batch runner together.
// The zero value uses the default batch size, yield delay, and input cap.
type Loader struct {
	Runner        sched.Runner
	MaxInputBytes int
}

// Load sniffs the format and runs the matching parser to completion. The
// caller supplies one AttemptState per logical file-load; it is only
// consulted on the STL path. The returned buffer is fully populated and
// never mutated afterwards; on error no partial buffer escapes.
func (l Loader) Load(ctx context.Context, raw []byte, ext string, st *stl.AttemptState) (*mesh.Buffer, error) {
	limit := l.MaxInputBytes
	if limit <= 0 {
		limit = DefaultMaxInputBytes
	}
	if len(raw) > limit {
		return nil, fmt.Errorf("loader: %d bytes over the %d-byte cap: %w", len(raw), limit, format.ErrInputTooLarge)
	}

	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	choice, err := format.Sniff(ext, head)
	if err != nil {
		return nil, fmt.Errorf("loader: extension %q: %w", ext, err)
	}

	var buf *mesh.Buffer
	switch choice {
	case format.OBJ:
		buf, err = obj.Parse(ctx, raw, l.Runner)
	default:
		buf, err = stl.Parse(ctx, raw, choice, st, l.Runner)
	}
	if err != nil {
		return nil, err
	}

	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %s output: %w", choice, err)
	}
	return buf, nil
}

// Load parses raw with default settings. See Loader.Load.
func Load(ctx context.Context, raw []byte, ext string, st *stl.AttemptState) (*mesh.Buffer, error) {
	return Loader{}.Load(ctx, raw, ext, st)
}
