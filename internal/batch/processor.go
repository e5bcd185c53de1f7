// Package batch converts directories of mesh files into WebP previews
// using a worker pool.
package batch

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mesh-normalizer/internal/loader"
	"mesh-normalizer/internal/postprocess"
	"mesh-normalizer/internal/raster"
	"mesh-normalizer/internal/stl"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Texture       *image.NRGBA
	RenderSize    int
	Supersample   int
	YawDeg        float64
	PitchDeg      float64
	Workers       int
	MaxInputBytes int
}

// Result holds the outcome of processing one mesh file.
type Result struct {
	File      string `json:"file"`
	Image     string `json:"image"`
	Format    string `json:"format"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Discover walks dir and returns every .stl/.obj file, sorted by WalkDir's
// lexical order.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".stl", ".obj":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: walk %s: %w", dir, err)
	}
	return files, nil
}

// Run processes all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, path string) Result {
	name := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	res := Result{File: name, Format: ext}

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	l := loader.Loader{MaxInputBytes: cfg.MaxInputBytes}
	var attempts stl.AttemptState
	buf, err := l.Load(context.Background(), raw, ext, &attempts)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Vertices = buf.VertexCount()
	res.Triangles = buf.TriangleCount()

	img := raster.Render(buf, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		YawDeg:      cfg.YawDeg,
		PitchDeg:    cfg.PitchDeg,
		Texture:     cfg.Texture,
	})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	res.Image = stem + ".webp"
	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("webp encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
