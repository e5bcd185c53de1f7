// meshview opens a window and spins the parsed mesh, cycling the surface
// color through a slow hue shift.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"mesh-normalizer/internal/loader"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/raster"
	"mesh-normalizer/internal/stl"
	"mesh-normalizer/internal/texture"
)

const windowSize = 512

type game struct {
	buf   *mesh.Buffer
	tex   *image.NRGBA
	yaw   float64
	hue   float64
	frame *ebiten.Image
}

func (g *game) Update() error {
	g.yaw += 0.8
	if g.yaw >= 360 {
		g.yaw -= 360
	}
	g.hue += 0.15
	if g.hue >= 360 {
		g.hue -= 360
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := raster.Render(g.buf, raster.Options{
		Size:      windowSize,
		YawDeg:    g.yaw,
		PitchDeg:  -25,
		Texture:   g.tex,
		BaseColor: hueColor(g.hue),
	})

	if g.frame == nil {
		g.frame = ebiten.NewImage(windowSize, windowSize)
	}
	g.frame.WritePixels(img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowSize, windowSize
}

// hueColor maps a hue angle to a pastel NRGBA for the untextured surface.
func hueColor(deg float64) color.NRGBA {
	h := deg / 60
	f := h - math.Floor(h)
	const v, p = 230, 120
	q := uint8(v - f*(v-p))
	t := uint8(p + f*(v-p))
	switch int(h) % 6 {
	case 0:
		return color.NRGBA{v, t, p, 255}
	case 1:
		return color.NRGBA{q, v, p, 255}
	case 2:
		return color.NRGBA{p, v, t, 255}
	case 3:
		return color.NRGBA{p, q, v, 255}
	case 4:
		return color.NRGBA{t, p, v, 255}
	default:
		return color.NRGBA{v, p, q, 255}
	}
}

func main() {
	file := flag.String("file", "", "Mesh file to view (.stl or .obj)")
	texPath := flag.String("texture", "", "Texture image for UV-mapped meshes")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: meshview -file model.stl [-texture skin.png]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(1)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(*file)), ".")
	var attempts stl.AttemptState
	buf, err := loader.Load(context.Background(), raw, ext, &attempts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	var tex *image.NRGBA
	if *texPath != "" {
		tex, err = texture.Load(*texPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: texture load: %v\n", err)
		}
	}

	fmt.Printf("%s: %d vertices, %d triangles\n", filepath.Base(*file), buf.VertexCount(), buf.TriangleCount())

	ebiten.SetWindowTitle("meshview — " + filepath.Base(*file))
	ebiten.SetWindowSize(windowSize, windowSize)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(&game{buf: buf, tex: tex}); err != nil {
		fmt.Fprintf(os.Stderr, "Viewer error: %v\n", err)
		os.Exit(1)
	}
}
