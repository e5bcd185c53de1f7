package raster

import (
	"image"
	"math"

	"mesh-normalizer/internal/mathutil"
)

// RasterizeTriangle draws one flat-shaded triangle into fb with a z-buffer.
// px/py/pz are screen-space vertex arrays; i0,i1,i2 index into them. UVs are
// flat u,v pairs parallel to the vertex array and are only consulted when
// tex is non-nil and every corner has a pair. The inner loop allocates
// nothing.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs []float32,
	i0, i1, i2 int,
	tex *image.NRGBA,
	defR, defG, defB, defA uint8,
	lc *LightConfig,
) {
	nv := len(px)
	if i0 < 0 || i1 < 0 || i2 < 0 || i0 >= nv || i1 >= nv || i2 >= nv {
		return
	}

	x0, y0, z0 := px[i0], py[i0], pz[i0]
	x1, y1, z1 := px[i1], py[i1], pz[i1]
	x2, y2, z2 := px[i2], py[i2], pz[i2]

	hasUV := tex != nil &&
		2*i0+1 < len(uvs) && 2*i1+1 < len(uvs) && 2*i2+1 < len(uvs)
	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = float64(uvs[2*i0]), float64(uvs[2*i0+1])
		u1, v1 = float64(uvs[2*i1]), float64(uvs[2*i1+1])
		u2, v2 = float64(uvs[2*i2]), float64(uvs[2*i2+1])
	}

	// Face normal for flat shading
	n := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.
		Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0})
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	// Clipped bounding box
	w, h := fb.Width, fb.Height
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := defR, defG, defB, defA
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			}
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			// sRGB decode, shade, tonemap, encode
			sr := srgbToLinear[cr] * shade * lc.Exposure
			sg := srgbToLinear[cg] * shade * lc.Exposure
			sb := srgbToLinear[cb] * shade * lc.Exposure

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(math.Pow(ACESTonemap(sr), lc.InvGamma) * 255)
			fb.Color[pxIdx+1] = clamp255(math.Pow(ACESTonemap(sg), lc.InvGamma) * 255)
			fb.Color[pxIdx+2] = clamp255(math.Pow(ACESTonemap(sb), lc.InvGamma) * 255)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
