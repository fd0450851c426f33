// Package frustum implements Sutherland-Hodgman clipping of a convex
// polygon against the six view-frustum half-spaces, in the fixed order
// NEAR, FAR, LEFT, RIGHT, TOP, BOTTOM: plane-by-plane trivial
// accept/reject with a single synthesized intersection vertex per
// crossing edge.
package frustum

import "github.com/gogpu/swrast/internal/geom"

// ComputeClipFlags returns the bitmask of violated half-spaces for v.
func ComputeClipFlags(v geom.Vec4) geom.ClipFlag {
	return geom.ComputeClipFlags(v)
}

// plane identifies one of the six frustum half-spaces that a vertex must
// satisfy: dist(v) >= 0.
type plane int

const (
	planeNear plane = iota
	planeFar
	planeLeft
	planeRight
	planeTop
	planeBottom
)

// dist returns the signed distance of v from the plane; v is inside when
// dist >= 0.
func (p plane) dist(v *geom.Vec4) float32 {
	switch p {
	case planeNear:
		return v.Z
	case planeFar:
		return v.W - v.Z
	case planeLeft:
		return v.W + v.X
	case planeRight:
		return v.W - v.X
	case planeTop:
		return v.W - v.Y
	case planeBottom:
		return v.W + v.Y
	}
	panic("frustum: invalid plane")
}

// flag returns the ClipFlag bit that this plane corresponds to.
func (p plane) flag() geom.ClipFlag {
	switch p {
	case planeNear:
		return geom.ClipNear
	case planeFar:
		return geom.ClipFar
	case planeLeft:
		return geom.ClipLeft
	case planeRight:
		return geom.ClipRight
	case planeTop:
		return geom.ClipTop
	case planeBottom:
		return geom.ClipBottom
	}
	panic("frustum: invalid plane")
}

// clipEdge synthesizes the intersection vertex between Vi (distance di) and
// Vj (distance dj), di and dj having opposite sign, using the ratio
// (dj*Vi - di*Vj) / (dj - di). The result is written into the
// polygon's scratch buffer at Buf[polygon.B] and that slot's index is
// advanced.
func clipEdge(polygon *geom.Polygon, vi, vj *geom.Vec4, di, dj float32) *geom.Vec4 {
	d := 1.0 / (dj - di)
	out := &polygon.Buf[polygon.B]
	out.X = (dj*vi.X - di*vj.X) * d
	out.Y = (dj*vi.Y - di*vj.Y) * d
	out.Z = (dj*vi.Z - di*vj.Z) * d
	out.W = (dj*vi.W - di*vj.W) * d
	polygon.B++
	return out
}

// clipPlane clips polygon against a single half-space, ping-ponging between
// P[polygon.I] (input) and P[polygon.I+1] (output). d_i == 0 counts as
// inside, so a vertex lying exactly on the plane is never duplicated.
func clipPlane(polygon *geom.Polygon, p plane) {
	v := &polygon.P[polygon.I]
	t := &polygon.P[polygon.I+1]
	n := polygon.N

	out := 0
	for i := 0; i < n; i++ {
		j := i + 1
		if j == n {
			j = 0
		}

		di := p.dist(v[i])
		dj := p.dist(v[j])

		switch {
		case di >= 0:
			t[out] = v[i]
			out++
			if dj < 0 {
				t[out] = clipEdge(polygon, v[i], v[j], di, dj)
				out++
			}
		case dj > 0:
			t[out] = clipEdge(polygon, v[j], v[i], dj, di)
			out++
		}
	}

	polygon.N = out
	polygon.I++
}

// Clip clips polygon against each plane whose bit is set in mask, in the
// fixed order NEAR, FAR, LEFT, RIGHT, TOP, BOTTOM, short-circuiting as soon
// as fewer than three vertices remain. It returns true iff at least three
// vertices survive.
//
// Clip is pure: it only reads and writes through polygon, never allocates,
// and never touches anything outside its ring/scratch buffers.
func Clip(polygon *geom.Polygon, mask geom.ClipFlag) bool {
	if mask&geom.ClipFrustum == 0 {
		return polygon.N >= 3
	}

	order := [...]plane{planeNear, planeFar, planeLeft, planeRight, planeTop, planeBottom}
	for _, p := range order {
		if mask&p.flag() == 0 {
			continue
		}
		clipPlane(polygon, p)
		if polygon.N < 3 {
			return false
		}
	}

	return polygon.N >= 3
}
