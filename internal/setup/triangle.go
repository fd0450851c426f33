package setup

import (
	"math"

	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/types"
)

// projectedVertex is a triangle vertex after the perspective divide and
// subpixel snap, carrying everything plane-fitting needs.
type projectedVertex struct {
	x, y   int32 // subpixel window coordinates
	fx, fy float32
	z, w   float32
	rhw    float32 // 1/w, perspective plane input
	v      [MaxInterfaceComponents]float32
	clip   [geom.MaxClipDistances]float32
	cull   [geom.MaxCullDistances]float32
}

func projectVertex(v *geom.Vertex, vp Viewport) projectedVertex {
	var pv projectedVertex
	rhw := float32(1)
	if v.Position.W != 0 {
		rhw = 1 / v.Position.W
	}
	pv.rhw = rhw
	pv.x = vp.ProjectX(v.Position.X * rhw)
	pv.y = vp.ProjectY(v.Position.Y * rhw)
	pv.fx = float32(pv.x)
	pv.fy = float32(pv.y)
	pv.z = v.Position.Z * rhw
	pv.w = v.Position.W
	pv.v = v.V
	pv.clip = v.ClipDistance
	pv.cull = v.CullDistance
	return pv
}

// signedArea computes the doubled signed area of the window-space
// triangle, sign-flipped if an odd number of the three w components are
// negative (a negative w inverts apparent winding once divided through).
func signedArea(v0, v1, v2 *geom.Vertex, p0, p1, p2 projectedVertex) float32 {
	a := (p0.fy-p2.fy)*p1.fx + (p2.fy-p1.fy)*p0.fx + (p1.fy-p0.fy)*p2.fx

	negatives := 0
	for _, w := range [3]float32{v0.Position.W, v1.Position.W, v2.Position.W} {
		if w < 0 {
			negatives++
		}
	}
	if negatives%2 == 1 {
		a = -a
	}
	return a
}

// frontFacing reports whether area a denotes a front-facing triangle under
// the configured winding convention.
func frontFacing(a float32, ff types.FrontFace) bool {
	if ff == types.CounterClockwise {
		return a >= 0
	}
	return a <= 0
}

// culled reports whether a triangle with the given area should be
// discarded under cullMode/frontFace.
func culled(a float32, cfg *Config) bool {
	if cfg.CullMode == types.CullNone {
		return false
	}
	front := frontFacing(a, cfg.FrontFace)
	if front && cfg.CullMode&types.CullFront != 0 {
		return true
	}
	if !front && cfg.CullMode&types.CullBack != 0 {
		return true
	}
	return false
}

// windingMasks returns the clockwiseMask/invClockwiseMask pair used for
// two-sided stencil selection: all bits set for whichever winding the
// triangle actually has.
func windingMasks(front bool, ff types.FrontFace) (clockwise, invClockwise uint64) {
	// "Clockwise" here tracks the raw winding of the primitive regardless of
	// which winding the pipeline treats as front-facing.
	isCW := front == (ff == types.Clockwise)
	if isCW {
		return ^uint64(0), 0
	}
	return 0, ^uint64(0)
}

// Triangle fills primitive with plane equations and a span table derived
// from triangle's three vertices and the (possibly clipped) polygon.
// It returns true iff the primitive survives culling and produces at
// least one non-empty scanline.
func Triangle(primitive *geom.Primitive, triangle *geom.Triangle, polygon *geom.Polygon, cfg *Config) bool {
	vp := cfg.Viewport

	p0 := projectVertex(&triangle.V0, vp)
	p1 := projectVertex(&triangle.V1, vp)
	p2 := projectVertex(&triangle.V2, vp)

	area := signedArea(&triangle.V0, &triangle.V1, &triangle.V2, p0, p1, p2)
	if area == 0 {
		return false // zero-area triangle, silently discarded
	}
	if culled(area, cfg) {
		return false
	}

	front := frontFacing(area, cfg.FrontFace)
	primitive.ClockwiseMask, primitive.InvClockwiseMask = windingMasks(front, cfg.FrontFace)

	return setupPolygon(primitive, triangle, polygon, cfg)
}

// setupPolygon is the culling-independent tail of setup shared by
// triangles and by expanded lines and points: vertex sort, plane
// equations, y-range and span-table construction.
func setupPolygon(primitive *geom.Primitive, triangle *geom.Triangle, polygon *geom.Polygon, cfg *Config) bool {
	vp := cfg.Viewport

	p0 := projectVertex(&triangle.V0, vp)
	p1 := projectVertex(&triangle.V1, vp)
	p2 := projectVertex(&triangle.V2, vp)

	// The provoking vertex for flat interpolants is the primitive's first
	// vertex, captured before the stability sort below reorders them.
	provoking := p0

	// Sort so v0 has minimum y, ties broken by minimum w; the
	// plane-equation formulation is numerically unstable without it.
	verts := [3]*geom.Vertex{&triangle.V0, &triangle.V1, &triangle.V2}
	proj := [3]projectedVertex{p0, p1, p2}
	sortByYThenW(&verts, &proj)

	buildPlaneEquations(primitive, &verts, &proj, &provoking, cfg)

	yMin, yMax := polygonYRange(polygon, vp, cfg)
	if yMin >= yMax {
		return false
	}
	primitive.YMin, primitive.YMax = yMin, yMax

	if !buildSpanTable(primitive, polygon, vp, cfg, yMin, yMax) {
		return false
	}

	return true
}

func sortByYThenW(verts *[3]*geom.Vertex, proj *[3]projectedVertex) {
	less := func(i, j int) bool {
		if proj[i].y != proj[j].y {
			return proj[i].y < proj[j].y
		}
		return proj[i].w < proj[j].w
	}
	// Triangle: a straightforward 3-element sort network.
	if less(1, 0) {
		verts[0], verts[1] = verts[1], verts[0]
		proj[0], proj[1] = proj[1], proj[0]
	}
	if less(2, 1) {
		verts[1], verts[2] = verts[2], verts[1]
		proj[1], proj[2] = proj[2], proj[1]
	}
	if less(1, 0) {
		verts[0], verts[1] = verts[1], verts[0]
		proj[0], proj[1] = proj[1], proj[0]
	}
}

// buildPlaneEquations fits z, w, every interpolant and every clip/cull
// distance to the triangle's three (now y-sorted) vertices. Flat
// interpolants broadcast the provoking vertex's value.
func buildPlaneEquations(primitive *geom.Primitive, verts *[3]*geom.Vertex, proj *[3]projectedVertex, provoking *projectedVertex, cfg *Config) {
	x0, y0 := proj[0].fx, proj[0].fy
	x1, y1 := proj[1].fx, proj[1].fy
	x2, y2 := proj[2].fx, proj[2].fy

	// Window depth: normalized device z mapped onto the viewport's depth
	// range.
	depthScale := cfg.DepthFar - cfg.DepthNear
	z0 := cfg.DepthNear + proj[0].z*depthScale
	z1 := cfg.DepthNear + proj[1].z*depthScale
	z2 := cfg.DepthNear + proj[2].z*depthScale

	if cfg.InterpolateZ {
		primitive.Z = planeFit(x0, y0, z0, x1, y1, z1, x2, y2, z2)
		applyDepthBias(&primitive.Z, cfg)
	} else {
		primitive.Z = geom.Flat(z0)
	}

	if cfg.InterpolateW {
		primitive.W = planeFit(x0, y0, proj[0].rhw, x1, y1, proj[1].rhw, x2, y2, proj[2].rhw)
	} else {
		primitive.W = geom.Flat(proj[0].rhw)
	}

	for i := 0; i < MaxInterfaceComponents; i++ {
		if cfg.Flat[i] {
			primitive.V[i] = geom.Flat(provoking.v[i])
			continue
		}
		// Perspective-correct: fit v/w, divide by the interpolated 1/w plane
		// at fragment time.
		primitive.V[i] = planeFit(x0, y0, proj[0].v[i]*proj[0].rhw, x1, y1, proj[1].v[i]*proj[1].rhw, x2, y2, proj[2].v[i]*proj[2].rhw)
	}

	for i := 0; i < cfg.NumClipDistances; i++ {
		primitive.ClipDistance[i] = planeFit(x0, y0, proj[0].clip[i], x1, y1, proj[1].clip[i], x2, y2, proj[2].clip[i])
	}
	for i := 0; i < cfg.NumCullDistances; i++ {
		primitive.CullDistance[i] = planeFit(x0, y0, proj[0].cull[i], x1, y1, proj[1].cull[i], x2, y2, proj[2].cull[i])
	}
}

// applyDepthBias adds the constant+slope depth bias, clamping when
// DepthBiasClamp != 0 and treating a NaN clamp as if it were 0.
func applyDepthBias(z *geom.Plane, cfg *Config) {
	if cfg.ConstantDepthBias == 0 && cfg.SlopeDepthBias == 0 {
		return
	}

	r := minResolvableDepthDifference(z, cfg)
	bias := r*cfg.ConstantDepthBias + maxAbs(z.A, z.B)*cfg.SlopeDepthBias

	clamp := cfg.DepthBiasClamp
	if math.IsNaN(float64(clamp)) {
		clamp = 0
	}
	if clamp != 0 {
		if clamp > 0 {
			bias = clampF(bias, 0, clamp)
		} else {
			bias = clampF(bias, clamp, 0)
		}
	}

	z.C += bias
}

// minResolvableDepthDifference returns the smallest depth increment the
// attachment format can represent near this primitive's depth values,
// using the exponent-based formula for floating-point depth and a
// pipeline-wide constant for fixed-point depth.
func minResolvableDepthDifference(z *geom.Plane, cfg *Config) float32 {
	if !cfg.DepthIsFloat {
		const fixedPointEpsilon = 1.0 / (1 << 24)
		return fixedPointEpsilon
	}
	// 2^(e-23) where e is the max exponent among the plane's evaluated
	// corners; approximate using the constant term, which dominates for
	// typical near-planar primitives. Frexp's exponent is one above the
	// IEEE exponent e.
	_, exp := math.Frexp(float64(z.C))
	return float32(math.Ldexp(1, exp-1-23))
}

func maxAbs(a, b float32) float32 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
