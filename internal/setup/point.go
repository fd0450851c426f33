package setup

import (
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/types"
)

// MaxPointSize mirrors the public swrast.MaxPointSize without importing
// the root package (which would create an import cycle).
const MaxPointSize = 256

// frontWindingMasks returns the two-sided stencil masks for primitives
// that have no winding of their own (lines and points), which always take
// the front-face stencil path.
func frontWindingMasks(ff types.FrontFace) (clockwise, invClockwise uint64) {
	if ff == types.Clockwise {
		return ^uint64(0), 0
	}
	return 0, ^uint64(0)
}

// Point fills primitive from a single vertex expanded to a square centered
// on the projected vertex. The side is v.PointSize when that is positive and
// pointSize otherwise, clamped to [1, MaxPointSize]. The square's four
// corners form the polygon whose span table is built.
func Point(primitive *geom.Primitive, v *geom.Vertex, pointSize float32, cfg *Config) bool {
	size := pointSize
	if v.PointSize > 0 {
		size = v.PointSize
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPointSize {
		size = MaxPointSize
	}

	vp := cfg.Viewport
	p := projectVertex(v, vp)
	half := size / 2 * SubpixelFactor

	corners := [4]geom.Vec4{
		vp.Unproject(p.fx-half, p.fy-half, p.z, p.w),
		vp.Unproject(p.fx+half, p.fy-half, p.z, p.w),
		vp.Unproject(p.fx+half, p.fy+half, p.z, p.w),
		vp.Unproject(p.fx-half, p.fy+half, p.z, p.w),
	}
	polygon := geom.NewFromVertices(corners[:])
	if polygon.Count() == 0 {
		return false
	}

	// Synthetic triangle over three of the corners so plane fitting sees
	// distinct window positions; every corner shares v's attributes, which
	// makes all interpolants constant across the point as required.
	tri := geom.Triangle{V0: *v, V1: *v, V2: *v}
	tri.V0.Position = corners[0]
	tri.V1.Position = corners[1]
	tri.V2.Position = corners[2]

	primitive.ClockwiseMask, primitive.InvClockwiseMask = frontWindingMasks(cfg.FrontFace)

	return setupPolygon(primitive, &tri, &polygon, cfg)
}
