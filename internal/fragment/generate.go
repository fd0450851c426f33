package fragment

import (
	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/surface"
	"github.com/gogpu/swrast/internal/types"
	"github.com/gogpu/swrast/internal/wide"
)

// subpixel grid constants shared with setup.
const (
	subpixelBits   = 4
	subpixelFactor = 16
	subpixelHalf   = 8
)

// emptyRowLeft marks a scanline with no coverage; any pixel x compares
// outside [emptyRowLeft, 0).
const emptyRowLeft = int32(1) << 30

// Generate builds the pixel routine for a canonical state key. The
// returned kernel is pure with respect to the key: all state-dependent
// control flow is resolved against the captured copy, so routines for
// equal keys are interchangeable.
func Generate(key pixelstate.StateKey) Kernel {
	key = key.Canonicalize()
	return func(prims []geom.Primitive, visible, cluster int, data *DrawData) {
		for i := 0; i < visible; i++ {
			rasterizePrimitive(&key, &prims[i], cluster, data)
		}
	}
}

// quadPlane evaluates plane p at the subpixel centers of the 2x2 quad
// whose top-left pixel is (x, y).
func quadPlane(p geom.Plane, x, y int32) wide.F32x4 {
	return wide.QuadF32(
		p.A*subpixelFactor,
		p.B*subpixelFactor,
		p.C+p.A*subpixelHalf+p.B*subpixelHalf,
		float32(x), float32(y),
	)
}

// planeAt evaluates plane p at the subpixel center of pixel (x, y).
func planeAt(p geom.Plane, x, y int) float32 {
	return p.A*(float32(x)*subpixelFactor+subpixelHalf) + p.B*(float32(y)*subpixelFactor+subpixelHalf) + p.C
}

// rowSpan reads the primitive's span for scanline y, including the
// replicated padding rows above and below the valid range.
func rowSpan(p *geom.Primitive, y int32) geom.Span {
	idx := y - p.Y0
	switch {
	case idx < 0:
		if slot := -idx - 1; slot < int32(len(p.OutlineUnderflow)) {
			return p.OutlineUnderflow[slot]
		}
		return geom.Span{}
	case idx >= geom.OutlineResolution:
		if slot := idx - geom.OutlineResolution; slot < int32(len(p.OutlineOverflow)) {
			return p.OutlineOverflow[slot]
		}
		return geom.Span{}
	default:
		return p.Outline[idx]
	}
}

// rowBounds returns the [left, right) pixel bounds of scanline y, or an
// impossible interval for rows outside the primitive.
func rowBounds(p *geom.Primitive, y int32) (left, right int32) {
	if y < p.YMin || y >= p.YMax {
		return emptyRowLeft, 0
	}
	s := rowSpan(p, y)
	if s.Left >= s.Right {
		return emptyRowLeft, 0
	}
	return int32(s.Left), int32(s.Right)
}

// rasterizePrimitive walks the primitive's quad rows owned by cluster
// and dispatches the per-fragment state machine for every covered quad.
func rasterizePrimitive(key *pixelstate.StateKey, prim *geom.Primitive, cluster int, data *DrawData) {
	clusterCount := data.ClusterCount
	if clusterCount < 1 {
		clusterCount = 1
	}

	yStart := prim.YMin &^ 1
	for y := yStart; y < prim.YMax; y += 2 {
		if int(y>>1)%clusterCount != cluster {
			continue
		}

		l0, r0 := rowBounds(prim, y)
		l1, r1 := rowBounds(prim, y+1)

		x0 := min32i(l0, l1) &^ 1
		x1 := max32i(r0, r1)
		if x0 >= x1 {
			continue
		}

		leftM1 := wide.I32x4{l0 - 1, l0 - 1, l1 - 1, l1 - 1}
		right := wide.I32x4{r0, r0, r1, r1}

		for x := x0; x < x1; x += 2 {
			xv := wide.I32x4{x, x + 1, x, x + 1}
			cov := xv.CmpGT(leftM1).And(right.CmpGT(xv))
			mask := cov.SignMask()
			if mask == 0 {
				continue
			}
			processQuad(key, prim, data, x, y, mask, cluster)
		}
	}
}

// processQuad interpolates depth and perspective for the four quad lanes
// and runs the fragment pipeline on each covered one.
func processQuad(key *pixelstate.StateKey, prim *geom.Primitive, data *DrawData, x, y int32, mask uint8, cluster int) {
	zq := quadPlane(prim.Z, x, y)
	rhwq := quadPlane(prim.W, x, y)

	for lane := 0; lane < 4; lane++ {
		if mask&(1<<lane) == 0 {
			continue
		}
		px := int(x) + lane&1
		py := int(y) + lane>>1
		processFragment(key, prim, data, px, py, zq[lane], rhwq[lane], cluster)
	}
}

// processFragment runs the per-fragment state machine for one pixel.
func processFragment(key *pixelstate.StateKey, prim *geom.Primitive, data *DrawData, px, py int, z, rhw float32, cluster int) {
	var w float32
	if rhw != 0 {
		w = 1 / rhw
	}

	// User clip distances kill the fragment where any interpolated
	// distance is negative.
	for i := 0; i < data.ClipDistanceCount; i++ {
		if planeAt(prim.ClipDistance[i], px, py) < 0 {
			return
		}
	}

	if key.DepthBoundsTest {
		if z < data.MinDepthBounds || z > data.MaxDepthBounds {
			return
		}
	}

	covMask := data.MultiSampleMask

	// Fragment shader. Interpolation and shading happen once per pixel;
	// the per-sample loop below applies its result to each live sample.
	var out Output
	in := Invocation{
		X:             px,
		Y:             py,
		Z:             z,
		W:             w,
		FrontFacing:   (prim.ClockwiseMask != 0) == key.FrontFaceClockwise,
		PushConstants: data.PushConstants,
	}
	var varyings [geom.MaxInterfaceComponents]float32
	if data.VaryingCount > 0 {
		for i := 0; i < data.VaryingCount; i++ {
			v := planeAt(prim.V[i], px, py)
			if !flatComponent(key, i) {
				v *= w
			}
			varyings[i] = v
		}
		in.V = varyings[:data.VaryingCount]
	}

	if data.Shader != nil {
		data.Shader(&in, &out)
		if out.Kill {
			return
		}
		if out.WritesDepth {
			z = out.Depth
		}
	} else {
		out.Color[0] = passThroughColor(in.V)
	}

	z = clamp01(z)

	if key.AlphaToCoverage {
		covMask &= a2cMask(out.Color[0].A, data)
	}
	if covMask == 0 {
		return
	}

	front := in.FrontFacing
	var sOps pixelstate.StencilOpState
	var sData StencilData
	if key.StencilTestEnable {
		if front {
			sOps, sData = key.StencilFrontOp, data.StencilFront
		} else {
			sOps, sData = key.StencilBackOp, data.StencilBack
		}
	}

	passCount := int64(0)
	for s := 0; s < data.SampleCount; s++ {
		if covMask&(1<<s) == 0 {
			continue
		}

		if key.StencilTestEnable && data.Stencil != nil {
			cur := data.Stencil.LoadStencil(px, py, s)
			pass := sOps.CompareOp.Eval(float32(sData.Reference&sData.CompareMask), float32(cur&sData.CompareMask))
			if !pass {
				data.Stencil.StoreStencil(px, py, s, sOps.FailOp.Apply(cur, sData.Reference), sData.WriteMask)
				continue
			}
		}

		depthPass := true
		if key.DepthTestEnable && data.Depth != nil {
			stored := data.Depth.LoadDepth(px, py, s)
			depthPass = key.DepthCompareOp.Eval(z, stored)
		}

		if key.StencilTestEnable && data.Stencil != nil {
			cur := data.Stencil.LoadStencil(px, py, s)
			op := sOps.PassOp
			if !depthPass {
				op = sOps.DepthFailOp
			}
			data.Stencil.StoreStencil(px, py, s, op.Apply(cur, sData.Reference), sData.WriteMask)
		}

		if !depthPass {
			continue
		}

		if key.DepthTestEnable && key.DepthWriteEnable && data.Depth != nil {
			data.Depth.StoreDepth(px, py, s, z)
		}

		passCount++

		for t := range key.Targets {
			target := &key.Targets[t]
			surf := data.Color[t]
			if !target.Present || surf == nil {
				continue
			}
			if key.LogicOpEnable {
				applyLogicOp(key.LogicOp, surf, px, py, s, out.Color[t], target.WriteMask)
				continue
			}
			dst := surf.LoadColor(px, py, s)
			res := blend.Apply(&target.Blend, out.Color[t], dst, &data.BlendConstants)
			surf.StoreColor(px, py, s, res, target.WriteMask)
		}
	}

	if key.OcclusionEnable && passCount > 0 && data.Occlusion != nil {
		data.Occlusion[cluster] += passCount
	}
}

// flatComponent reports whether interpolant i uses flat shading. The key
// tracks the first 64 components; later ones are assumed perspective.
func flatComponent(key *pixelstate.StateKey, i int) bool {
	if i < 64 {
		return key.FlatMask&(1<<uint(i)) != 0
	}
	return false
}

// passThroughColor is the nil-shader fallback: the first four interface
// components as RGBA, or opaque white when the draw carries none.
func passThroughColor(v []float32) blend.RGBA {
	if len(v) >= 4 {
		return blend.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
	}
	return blend.RGBA{R: 1, G: 1, B: 1, A: 1}
}

// a2cMask derives a sample mask from the fragment alpha using the fixed
// per-sample thresholds for the draw's sample count.
func a2cMask(alpha float32, data *DrawData) uint32 {
	var m uint32
	for s := 0; s < data.SampleCount; s++ {
		if alpha >= data.A2C[s] {
			m |= 1 << s
		}
	}
	return m
}

// applyLogicOp performs the bitwise logic operation between the packed
// source color and the destination texel, channel by channel. Only 8-bit
// unorm targets support logic ops; other formats store the source
// unchanged (logic ops are undefined on float attachments).
func applyLogicOp(op types.LogicOp, surf *surface.Surface, px, py, s int, c blend.RGBA, writeMask uint8) {
	switch surf.Format() {
	case types.FormatRGBA8Unorm, types.FormatBGRA8Unorm:
	default:
		surf.StoreColor(px, py, s, c, writeMask)
		return
	}

	dst := surf.LoadColor(px, py, s)
	res := blend.RGBA{
		R: logicChannel(op, c.R, dst.R),
		G: logicChannel(op, c.G, dst.G),
		B: logicChannel(op, c.B, dst.B),
		A: logicChannel(op, c.A, dst.A),
	}
	surf.StoreColor(px, py, s, res, writeMask)
}

func logicChannel(op types.LogicOp, src, dst float32) float32 {
	sb := packUnorm8(src)
	db := packUnorm8(dst)
	return float32(op.Apply(sb, db)) / 255
}

func packUnorm8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min32i(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32i(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
