package setup

import (
	"math"

	"github.com/gogpu/swrast/internal/geom"
)

// expandLine turns a 2-vertex line into the polygon and synthetic triangle
// that Triangle's plane fit consumes. Wide lines become the rectangle swept
// perpendicular to the segment; hairlines follow the diamond-exit rule.
// The perpendicular offset carries no attribute gradient across the line's
// width, so the synthetic vertices reuse the endpoints' interpolants with
// offset positions.
func expandLine(v0, v1 *geom.Vertex, lineWidth float32, cfg *Config) (geom.Triangle, geom.Polygon) {
	vp := cfg.Viewport
	p0 := projectVertex(v0, vp)
	p1 := projectVertex(v1, vp)

	dx := p1.fx - p0.fx
	dy := p1.fy - p0.fy
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		// Zero-length line: degenerate input, silently dropped by the
		// caller when it sees an empty polygon.
		return geom.Triangle{}, geom.Polygon{}
	}

	half := lineWidth / 2 * SubpixelFactor
	nx := -dy / length * half
	ny := dx / length * half

	// A hairline keeps the diamond-exit construction only when rendered
	// single-sampled; any line under multisampling rasterizes as a
	// rectangle so per-sample coverage stays consistent.
	if lineWidth <= 1 && cfg.SampleCount <= 1 {
		return expandHairline(v0, v1, p0, p1, nx, ny, vp)
	}
	return expandThickLine(v0, v1, p0, p1, nx, ny, vp)
}

// expandThickLine builds the rectangle swept by the line segment at the
// requested width, offset perpendicular to the segment direction. Corners
// are synthesized in window space and unprojected so that every polygon
// setup consumes has a uniform clip-space representation.
func expandThickLine(v0, v1 *geom.Vertex, p0, p1 projectedVertex, nx, ny float32, vp Viewport) (geom.Triangle, geom.Polygon) {
	corners := [4]geom.Vec4{
		vp.Unproject(p0.fx+nx, p0.fy+ny, p0.z, p0.w),
		vp.Unproject(p1.fx+nx, p1.fy+ny, p1.z, p1.w),
		vp.Unproject(p1.fx-nx, p1.fy-ny, p1.z, p1.w),
		vp.Unproject(p0.fx-nx, p0.fy-ny, p0.z, p0.w),
	}
	polygon := geom.NewFromVertices(corners[:])

	synthetic := *v0
	synthetic.Position = corners[0]
	tri := geom.Triangle{V0: *v0, V1: *v1, V2: synthetic}
	return tri, polygon
}

// expandHairline approximates the diamond-exit rule for unit-width lines
// with a hexagonal outline built from six synthesized vertices: the two
// endpoint caps extended half a pixel along the segment direction plus the
// four perpendicular corners. An endpoint lying exactly on an integer
// coordinate is inside its diamond only when strictly above/left of the
// center, which the half-pixel cap extension reproduces.
func expandHairline(v0, v1 *geom.Vertex, p0, p1 projectedVertex, nx, ny float32, vp Viewport) (geom.Triangle, geom.Polygon) {
	dx := p1.fx - p0.fx
	dy := p1.fy - p0.fy
	length := float32(math.Hypot(float64(dx), float64(dy)))
	tx, ty := dx/length*SubpixelFactor*0.5, dy/length*SubpixelFactor*0.5

	corners := [6]geom.Vec4{
		vp.Unproject(p0.fx-tx, p0.fy-ty, p0.z, p0.w),
		vp.Unproject(p0.fx+nx, p0.fy+ny, p0.z, p0.w),
		vp.Unproject(p1.fx+nx, p1.fy+ny, p1.z, p1.w),
		vp.Unproject(p1.fx+tx, p1.fy+ty, p1.z, p1.w),
		vp.Unproject(p1.fx-nx, p1.fy-ny, p1.z, p1.w),
		vp.Unproject(p0.fx-nx, p0.fy-ny, p0.z, p0.w),
	}
	polygon := geom.NewFromVertices(corners[:])

	synthetic := *v0
	synthetic.Position = corners[1]
	tri := geom.Triangle{V0: *v0, V1: *v1, V2: synthetic}
	return tri, polygon
}

// Line fills primitive from a 2-vertex line segment expanded to the
// configured line width. It reports whether the primitive survives setup.
func Line(primitive *geom.Primitive, v0, v1 *geom.Vertex, cfg *Config) bool {
	width := cfg.LineWidth
	if width <= 0 {
		width = 1
	}
	tri, polygon := expandLine(v0, v1, width, cfg)
	if polygon.Count() == 0 {
		return false
	}
	primitive.ClockwiseMask, primitive.InvClockwiseMask = frontWindingMasks(cfg.FrontFace)
	return setupPolygon(primitive, &tri, &polygon, cfg)
}
