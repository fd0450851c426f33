package setup

import (
	"math"

	"github.com/gogpu/swrast/internal/geom"
)

// Viewport holds the half-viewport constants in subpixel units used to
// project a clip-space vertex to the fixed-point window-space grid.
// X0xF/Y0xF are precomputed as (origin + half-extent) * 16 and WxF/HxF as
// half-extent * 16, so that the snap formula is a single multiply-add per
// axis.
type Viewport struct {
	X0xF, Y0xF float32
	WxF, HxF   float32
}

// NewViewport derives the subpixel viewport constants from a window-space
// rectangle; the per-draw data carries the same precomputed values.
func NewViewport(x, y, width, height float32) Viewport {
	const f = float32(SubpixelFactor)
	return Viewport{
		X0xF: (x + width/2) * f,
		Y0xF: (y + height/2) * f,
		WxF:  (width / 2) * f,
		HxF:  (height / 2) * f,
	}
}

// Subpixel fixed-point grid constants.
const (
	SubpixelBits   = 4
	SubpixelFactor = 16
	SubpixelMask   = 15
)

// SnapCoordinate quantizes a single subpixel-unit floating coordinate to the
// fixed-point grid by rounding to the nearest integer. Because it always
// rounds to an integer, applying SnapCoordinate to an already-snapped value
// (which is itself an integer) is idempotent.
func SnapCoordinate(subpixelUnits float32) int32 {
	return int32(math.Round(float64(subpixelUnits)))
}

// ProjectX snaps a clip-space x/w ratio to the subpixel grid: X = round(X0xF + ndcX*WxF).
func (vp Viewport) ProjectX(ndcX float32) int32 {
	return SnapCoordinate(vp.X0xF + ndcX*vp.WxF)
}

// ProjectY snaps a clip-space y/w ratio to the subpixel grid.
func (vp Viewport) ProjectY(ndcY float32) int32 {
	return SnapCoordinate(vp.Y0xF + ndcY*vp.HxF)
}

// Unproject maps a subpixel window-space position and a normalized depth
// back to a homogeneous clip-space coordinate, inverting the viewport
// transform and perspective divide. Line and point expansion synthesizes
// corners in window space; routing them back through clip space keeps the
// rest of setup on a single projection path.
func (vp Viewport) Unproject(sx, sy, z, w float32) geom.Vec4 {
	return geom.Vec4{
		X: (sx - vp.X0xF) / vp.WxF * w,
		Y: (sy - vp.Y0xF) / vp.HxF * w,
		Z: z * w,
		W: w,
	}
}
