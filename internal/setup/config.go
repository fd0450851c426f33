// Package setup builds screen-space primitives (plane equations and span
// tables) from a clipped polygon, implementing winding/culling, subpixel
// snapping, edge traversal and depth-bias computation.
package setup

import "github.com/gogpu/swrast/internal/types"

// Config is the subset of pipeline/draw state setup needs. It is built
// once per draw call and shared (read-only) across every primitive task.
type Config struct {
	Viewport Viewport

	ScissorX0, ScissorX1 int32
	ScissorY0, ScissorY1 int32

	CullMode  types.CullMode
	FrontFace types.FrontFace

	SampleCount int // 1 or 4
	// SampleOffsets holds the per-sample (x, y) offset in subpixel units
	// applied to yMin/yMax inflation and edge traversal when SampleCount > 1.
	SampleOffsets [][2]int32

	InterpolateZ bool
	InterpolateW bool

	// Flat marks which interpolant components use flat (provoking-vertex)
	// shading instead of perspective interpolation.
	Flat [MaxInterfaceComponents]bool

	NumClipDistances int
	NumCullDistances int

	ConstantDepthBias float32
	SlopeDepthBias    float32
	DepthBiasClamp    float32
	DepthIsFloat      bool // floating-point depth attachment vs. fixed-point

	// DepthNear/DepthFar map normalized device z onto the window depth
	// range.
	DepthNear float32
	DepthFar  float32

	LineWidth float32
}

// MaxInterfaceComponents mirrors geom.MaxInterfaceComponents without an
// import cycle back to the public package.
const MaxInterfaceComponents = 128

// StandardSampleOffsets returns the standard sample positions for a
// sample count as subpixel (x, y) offsets from the pixel center; nil for
// single-sampled rendering.
func StandardSampleOffsets(sampleCount int) [][2]int32 {
	switch sampleCount {
	case 2:
		return [][2]int32{{4, 4}, {-4, -4}}
	case 4:
		return [][2]int32{{-2, -6}, {6, -2}, {-6, 2}, {2, 6}}
	default:
		return nil
	}
}

// DefaultConfig returns a single-sampled, unbiased config with depth range
// [0, 1]; its Viewport and scissor rectangle are zero, and callers fill
// them in per draw.
func DefaultConfig() Config {
	return Config{
		SampleCount: 1,
		FrontFace:   types.CounterClockwise,
		DepthFar:    1,
	}
}
