package raster

import (
	"image"
	"image/color"
	"math"

	"mesh-normalizer/internal/mathutil"
	"mesh-normalizer/internal/mesh"
)

// Options control one preview render.
type Options struct {
	Size        int     // output edge length in pixels (square)
	Supersample int     // render at Size×Supersample; caller downsamples
	YawDeg      float64 // rotation around Y, degrees
	PitchDeg    float64 // rotation around X, degrees
	Texture     *image.NRGBA
	BaseColor   color.NRGBA // untextured surface color; zero value picks a default
}

const fitMargin = 16 // pixels of border around the fitted mesh, pre-supersample

// Render rasterizes buf into an NRGBA image of edge Size×Supersample.
// The mesh is rotated by yaw/pitch, centered, and scaled to fit. An empty
// buffer yields a fully transparent image.
func Render(buf *mesh.Buffer, opts Options) *image.NRGBA {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	rs := opts.Size * opts.Supersample
	img := image.NewNRGBA(image.Rect(0, 0, rs, rs))

	nv := buf.VertexCount()
	if nv == 0 || buf.TriangleCount() == 0 {
		return img
	}

	R := mathutil.Mat3Mul(
		mathutil.RotX(mathutil.Deg2Rad(opts.PitchDeg)),
		mathutil.RotY(mathutil.Deg2Rad(opts.YawDeg)),
	)

	// Rotate all vertices and find the screen-plane extent.
	tx := make([]float64, nv)
	ty := make([]float64, nv)
	tz := make([]float64, nv)
	min := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < nv; i++ {
		v := R.MulVec3(mathutil.Vec3{
			float64(buf.Vertices[3*i]),
			float64(buf.Vertices[3*i+1]),
			float64(buf.Vertices[3*i+2]),
		})
		tx[i], ty[i], tz[i] = v[0], v[1], v[2]
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}

	center := min.Add(max).Scale(0.5)
	span := max[0] - min[0]
	if s := max[1] - min[1]; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}
	margin := fitMargin * opts.Supersample
	scale := float64(rs-2*margin) / span

	// Project into screen space: +Y up in mesh space maps to -Y on screen.
	px := make([]float64, nv)
	py := make([]float64, nv)
	pz := make([]float64, nv)
	half := float64(rs) / 2
	for i := 0; i < nv; i++ {
		px[i] = (tx[i]-center[0])*scale + half
		py[i] = half - (ty[i]-center[1])*scale
		pz[i] = (tz[i] - center[2]) * scale
	}

	defR, defG, defB, defA := opts.BaseColor.R, opts.BaseColor.G, opts.BaseColor.B, opts.BaseColor.A
	if defA == 0 {
		if opts.Texture != nil {
			defR, defG, defB, defA = averageColor(opts.Texture)
		} else {
			defR, defG, defB, defA = 160, 160, 170, 255
		}
	}

	fb := NewFrameBuffer(rs, rs)
	lc := DefaultLightConfig()

	for t := 0; t < buf.TriangleCount(); t++ {
		var a, b, c int
		if buf.Indices != nil {
			a = int(buf.Indices[3*t])
			b = int(buf.Indices[3*t+1])
			c = int(buf.Indices[3*t+2])
		} else {
			a, b, c = 3*t, 3*t+1, 3*t+2
		}
		RasterizeTriangle(fb, px, py, pz, buf.UVs, a, b, c, opts.Texture, defR, defG, defB, defA, &lc)
	}

	copy(img.Pix, fb.Color)
	return img
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}
	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
