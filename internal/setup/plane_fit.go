package setup

import "github.com/gogpu/swrast/internal/geom"

// planeFit solves for (A, B, C) such that A*x+B*y+C equals v0, v1, v2 at
// (x0,y0), (x1,y1), (x2,y2) respectively. Degenerate (zero-area)
// triangles produce a zero plane; callers discard degenerate primitives
// earlier in setup, so this only has to avoid dividing by zero.
func planeFit(x0, y0, v0, x1, y1, v1, x2, y2, v2 float32) geom.Plane {
	dx1, dy1 := x1-x0, y1-y0
	dx2, dy2 := x2-x0, y2-y0

	d := dx1*dy2 - dx2*dy1
	if d == 0 {
		return geom.Flat(v0)
	}

	dv1 := v1 - v0
	dv2 := v2 - v0

	a := (dv1*dy2 - dv2*dy1) / d
	b := (dv2*dx1 - dv1*dx2) / d
	c := v0 - a*x0 - b*y0

	return geom.Plane{A: a, B: b, C: c}
}
