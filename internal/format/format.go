// Package format decides which parser handles a byte blob and defines
// the error vocabulary shared by the parsing pipeline.
package format

import (
	"errors"
	"strings"
)

// Choice identifies the parser selected for an input.
type Choice int

const (
	// AsciiSTL is text STL: "solid" header, 7-line facet blocks.
	AsciiSTL Choice = iota
	// BinarySTL is the fixed-layout binary STL variant.
	BinarySTL
	// OBJ is the line-oriented Wavefront OBJ format.
	OBJ
)

func (c Choice) String() string {
	switch c {
	case AsciiSTL:
		return "stl-ascii"
	case BinarySTL:
		return "stl-binary"
	case OBJ:
		return "obj"
	}
	return "unknown"
}

// Error kinds surfaced by the pipeline.
var (
	// ErrUnsupportedExtension: extension outside {stl, obj}; no parser runs.
	ErrUnsupportedExtension = errors.New("format: unsupported file extension")
	// ErrStructuralMismatch: a size/count invariant failed, signaling likely
	// STL sub-format misdetection. Recovered once by trying the other variant.
	ErrStructuralMismatch = errors.New("format: structural mismatch")
	// ErrUnrecognizedStl: both STL variants were attempted and failed.
	ErrUnrecognizedStl = errors.New("format: unrecognized or corrupt STL")
	// ErrMalformedRecord: a record lacked the expected numeric tokens.
	// Terminal for the parse attempt; never retried across sub-formats.
	ErrMalformedRecord = errors.New("format: malformed record")
	// ErrInputTooLarge: the raw input exceeds the configured size cap.
	ErrInputTooLarge = errors.New("format: input exceeds size limit")
)

// asciiMagic is the header literal that opens a text STL file. A binary
// file whose header happens to start with it is mis-sniffed; the STL
// fallback path recovers from that.
const asciiMagic = "solid"

// Sniff picks a parser from the declared extension and a short byte prefix.
// The extension is matched case-insensitively, with or without a leading dot.
func Sniff(ext string, head []byte) (Choice, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "obj":
		return OBJ, nil
	case "stl":
		probe := head
		if len(probe) > len(asciiMagic) {
			probe = probe[:len(asciiMagic)]
		}
		if strings.HasPrefix(asciiMagic, string(probe)) {
			return AsciiSTL, nil
		}
		return BinarySTL, nil
	default:
		return 0, ErrUnsupportedExtension
	}
}
