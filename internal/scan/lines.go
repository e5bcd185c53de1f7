package scan

import (
	"fmt"
	"strconv"
	"strings"
)

// Lines decodes data as text and splits it on '\n'.
// A trailing '\r' is stripped from each line so CRLF input splits
// identically to LF input. The trailing empty element produced by a
// final newline is kept: record-count arithmetic depends on it.
func Lines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		if n := len(l); n > 0 && l[n-1] == '\r' {
			lines[i] = l[:n-1]
		}
	}
	return lines
}

// LastFloats tokenizes line on whitespace and parses its last n tokens
// as float32. Taking the last n tokens deliberately tolerates stray
// leading markers ("vertex", hand-edited labels) on the line.
func LastFloats(line string, n int) ([]float32, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("scan: %d tokens on line %q, want at least %d", len(fields), line, n)
	}
	out := make([]float32, n)
	for i, tok := range fields[len(fields)-n:] {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("scan: token %q on line %q: %w", tok, line, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// NumericFields tokenizes line on whitespace and returns every token
// that parses as a float, in order. Non-numeric tokens (record markers,
// comments) are skipped.
func NumericFields(line string) []float32 {
	fields := strings.Fields(line)
	var out []float32
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			continue
		}
		out = append(out, float32(v))
	}
	return out
}
