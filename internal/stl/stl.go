// Package stl parses both STL variants. ASCII and binary share the batched
// execution strategy and can each recover once from misdetection by falling
// back to the other variant.
package stl

import (
	"context"
	"errors"
	"fmt"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/sched"
)

// AttemptState remembers which STL variants have already been tried and
// failed for one source file. The caller owns one instance per logical
// file-load; it guarantees each variant runs at most once, so the
// ASCII↔binary fallback cannot ping-pong.
type AttemptState struct {
	TriedAscii  bool
	TriedBinary bool
}

func (s *AttemptState) tried(c format.Choice) bool {
	if c == format.AsciiSTL {
		return s.TriedAscii
	}
	return s.TriedBinary
}

func (s *AttemptState) markTried(c format.Choice) {
	if c == format.AsciiSTL {
		s.TriedAscii = true
	} else {
		s.TriedBinary = true
	}
}

func other(c format.Choice) format.Choice {
	if c == format.AsciiSTL {
		return format.BinarySTL
	}
	return format.AsciiSTL
}

// Parse runs the STL pipeline starting with the sniffed variant and falling
// back to the other one on a structural mismatch. Variants already marked
// tried in st are skipped, so a call after both failed is a no-op that
// returns ErrUnrecognizedStl without re-parsing. Malformed records are
// terminal for the whole parse and never trigger the fallback.
func Parse(ctx context.Context, raw []byte, first format.Choice, st *AttemptState, r sched.Runner) (*mesh.Buffer, error) {
	if st == nil {
		st = &AttemptState{}
	}
	for _, c := range [2]format.Choice{first, other(first)} {
		if st.tried(c) {
			continue
		}
		var (
			buf *mesh.Buffer
			err error
		)
		if c == format.AsciiSTL {
			buf, err = parseAscii(ctx, raw, r)
		} else {
			buf, err = parseBinary(ctx, raw, r)
		}
		if err == nil {
			return buf, nil
		}
		if errors.Is(err, format.ErrStructuralMismatch) {
			st.markTried(c)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("stl: both variants failed: %w", format.ErrUnrecognizedStl)
}
