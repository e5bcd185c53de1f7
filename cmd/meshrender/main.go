package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"mesh-normalizer/internal/batch"
	"mesh-normalizer/internal/config"
	"mesh-normalizer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory of .stl/.obj files")
	outputDir := flag.String("output", "", "Output directory (default: <input>-previews)")
	texPath := flag.String("texture", "", "Texture image applied to UV-mapped meshes")
	size := flag.Int("size", 0, "Preview edge length in pixels (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Render only first N files for testing")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Texture:   *texPath,
		Size:      *size,
		Workers:   *workers,
	})

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input directory. Use -input or config.json.")
		os.Exit(1)
	}

	files, err := batch.Discover(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning input: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}
	if len(files) == 0 {
		fmt.Println("No mesh files to render.")
		os.Exit(0)
	}

	var tex *image.NRGBA
	if cfg.Texture != "" {
		tex, err = texture.Load(cfg.Texture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: texture load: %v\n", err)
		}
	}

	fmt.Println("Mesh → WebP preview renderer")
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:     cfg.OutputDir,
		Texture:       tex,
		RenderSize:    cfg.RenderSize,
		Supersample:   cfg.Supersample,
		YawDeg:        cfg.YawDeg,
		PitchDeg:      cfg.PitchDeg,
		Workers:       cfg.Workers,
		MaxInputBytes: cfg.MaxInputMB << 20,
	}, files)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, failed := 0, 0
	var errs []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errs = append(errs, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(files))

	if len(errs) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errs) < limit {
			limit = len(errs)
		}
		for _, e := range errs[:limit] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
