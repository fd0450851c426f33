// Package fragment generates and executes the per-draw pixel routine:
// the quad walker that traverses a primitive's span table in 2x2 blocks,
// and the per-fragment state machine (depth bounds, stencil, depth,
// shader, sample mask, blend, logic op, write mask, occlusion) it
// dispatches for every covered quad.
package fragment

import (
	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/surface"
)

// StencilData is the static (non-key) half of one stencil face: the
// dynamic reference and masks that change without regenerating a routine.
type StencilData struct {
	Reference   uint8
	CompareMask uint8
	WriteMask   uint8
}

// Invocation is the per-fragment input handed to the fragment shader.
type Invocation struct {
	X, Y int

	// Z and W are the interpolated depth and the perspective w at the
	// fragment center.
	Z, W float32

	// V holds the interpolated interface components, VaryingCount long.
	V []float32

	FrontFacing bool

	PushConstants []byte
}

// Output is the fragment shader's result for one invocation.
type Output struct {
	Color [pixelstate.MaxColorTargets]blend.RGBA

	// Depth replaces the interpolated depth before the depth test when
	// WritesDepth is set.
	Depth       float32
	WritesDepth bool

	// Kill discards the fragment entirely.
	Kill bool
}

// Shader is the compiled fragment-shader entry point. A nil Shader uses
// the pass-through kernel, which copies the first four interpolants to
// color target 0.
type Shader func(in *Invocation, out *Output)

// DrawData is the per-draw scratch every task borrows: attachment
// surfaces, viewport and scissor state, static stencil and blend
// constants, alpha-to-coverage thresholds, per-cluster occlusion
// counters, push constants and descriptor pointers.
type DrawData struct {
	Color   [pixelstate.MaxColorTargets]*surface.Surface
	Depth   *surface.Surface
	Stencil *surface.Surface

	ScissorX0, ScissorX1 int32
	ScissorY0, ScissorY1 int32

	// Fixed-point viewport constants shared with setup.
	Wx16, Hx16, X0x16, Y0x16 float32
	HalfPixelX, HalfPixelY   float32
	ViewportHeight           int32
	DepthRange, DepthNear    float32
	SlopeDepthBias           float32

	StencilFront StencilData
	StencilBack  StencilData

	MinDepthBounds, MaxDepthBounds float32

	BlendConstants blend.Constants

	// A2C holds the alpha-to-coverage thresholds for the draw's sample
	// count: {0.2, 0.4, 0.6, 0.8} at 4x, {0.25, 0.75} at 2x.
	A2C [4]float32

	// MultiSampleMask is the pipeline sample mask already ANDed with the
	// (sampleCount-wide) full mask.
	MultiSampleMask uint32

	SampleCount  int
	ClusterCount int

	// Occlusion has one counter per cluster; the scheduler sums them at
	// draw completion.
	Occlusion []int64

	Shader       Shader
	VaryingCount int

	ClipDistanceCount int
	CullDistanceCount int

	PushConstants []byte
	Descriptors   []any
}

// Kernel is a generated pixel routine: it iterates the span tables of the
// batch's visible primitives on behalf of one cluster. The kernel does no
// synchronization of its own; cluster partitioning guarantees exclusive
// access to its rows.
type Kernel func(prims []geom.Primitive, visible, cluster int, data *DrawData)

// A2CThresholds returns the alpha-to-coverage comparison thresholds for a
// sample count.
func A2CThresholds(sampleCount int) [4]float32 {
	switch sampleCount {
	case 4:
		return [4]float32{0.2, 0.4, 0.6, 0.8}
	case 2:
		return [4]float32{0.25, 0.75, 0, 0}
	default:
		return [4]float32{0.5, 0, 0, 0}
	}
}
