package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mesh-normalizer/internal/loader"
	"mesh-normalizer/internal/stl"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: meshinfo <file.stl|file.obj> ...")
		os.Exit(2)
	}

	failed := 0
	for _, arg := range os.Args[1:] {
		raw, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read error %s: %v\n", arg, err)
			failed++
			continue
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(arg)), ".")
		var attempts stl.AttemptState
		buf, err := loader.Load(context.Background(), raw, ext, &attempts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed++
			continue
		}

		fmt.Printf("\n=== %s (%d bytes) ===\n", arg, len(raw))
		fmt.Printf("  vertices:  %d\n", buf.VertexCount())
		fmt.Printf("  triangles: %d\n", buf.TriangleCount())
		if buf.Indices != nil {
			fmt.Printf("  indices:   %d\n", len(buf.Indices))
		} else {
			fmt.Printf("  indices:   implicit\n")
		}
		if len(buf.UVs) > 0 {
			fmt.Printf("  uvs:       %d pairs\n", len(buf.UVs)/2)
		}
		if attempts.TriedAscii || attempts.TriedBinary {
			fmt.Printf("  fallback:  triedAscii=%v triedBinary=%v\n", attempts.TriedAscii, attempts.TriedBinary)
		}
		if min, max, ok := buf.Bounds(); ok {
			fmt.Printf("  bounds:    x=[%g..%g] y=[%g..%g] z=[%g..%g]\n",
				min[0], max[0], min[1], max[1], min[2], max[2])
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
