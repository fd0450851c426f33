package swrast

import (
	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/pixelstate"
)

// StencilFaceState configures one face of the stencil test: the compare
// and update operations that shape the generated routine plus the
// dynamic reference and masks.
type StencilFaceState struct {
	CompareOp   CompareOp
	FailOp      StencilOp
	PassOp      StencilOp
	DepthFailOp StencilOp

	Reference   uint8
	CompareMask uint8
	WriteMask   uint8
}

// DepthStencilState configures the depth and stencil tests.
type DepthStencilState struct {
	DepthTestEnable  bool
	DepthWriteEnable bool
	DepthCompareOp   CompareOp

	DepthBoundsTestEnable bool
	MinDepthBounds        float32
	MaxDepthBounds        float32

	StencilTestEnable bool
	Front             StencilFaceState
	Back              StencilFaceState
}

// BlendTargetState configures blending and the channel write mask of one
// color target.
type BlendTargetState struct {
	Enable bool

	SrcColor BlendFactor
	DstColor BlendFactor
	ColorOp  BlendOp

	SrcAlpha BlendFactor
	DstAlpha BlendFactor
	AlphaOp  BlendOp

	// WriteMask enables channels: bit 0 red, 1 green, 2 blue, 3 alpha.
	WriteMask uint8
}

// BlendState configures blending across all color targets.
type BlendState struct {
	LogicOpEnable bool
	LogicOp       LogicOp

	Constants Color

	Targets [MaxColorBuffers]BlendTargetState
}

// MultisampleState configures sample counting and coverage.
type MultisampleState struct {
	SampleCount     int
	SampleMask      uint32
	AlphaToCoverage bool
	AlphaToOne      bool
}

// DepthBiasState configures the polygon depth bias.
type DepthBiasState struct {
	Constant float32
	Slope    float32
	Clamp    float32
}

// PipelineState is the full fixed-function and shader configuration of a
// draw pipeline.
type PipelineState struct {
	Topology    Topology
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace
	LineWidth   float32

	RasterizerDiscard bool

	DepthStencil DepthStencilState
	DepthBias    DepthBiasState
	Blend        BlendState
	Multisample  MultisampleState

	VertexShader   VertexShader
	FragmentShader FragmentShader

	// VaryingCount is how many interface components the vertex shader
	// writes and the fragment shader reads.
	VaryingCount int

	// FlatVaryings marks components (bit per component, first 64) that
	// take the provoking vertex's value instead of interpolating.
	FlatVaryings uint64

	ClipDistances int
	CullDistances int
}

// NewPipelineState returns a baseline state: triangle list, no culling,
// no tests, all channels written, single-sampled.
func NewPipelineState() PipelineState {
	s := PipelineState{
		Topology:  TriangleList,
		FrontFace: CounterClockwise,
		LineWidth: 1,
	}
	s.Multisample.SampleCount = 1
	s.Multisample.SampleMask = ^uint32(0)
	for i := range s.Blend.Targets {
		s.Blend.Targets[i].WriteMask = 0xF
	}
	s.DepthStencil.MaxDepthBounds = 1
	return s
}

// Pipeline is a validated pipeline state bound to a device.
type Pipeline struct {
	device *Device
	state  PipelineState
}

// NewPipeline validates state against the device's capabilities. All
// unsupported-configuration failures surface here or in Draw, never from
// a worker.
func (d *Device) NewPipeline(state PipelineState) (*Pipeline, error) {
	ms := state.Multisample
	if ms.SampleCount != 1 && ms.SampleCount != 4 {
		return nil, unsupportedf("sample count %d (must be 1 or 4)", ms.SampleCount)
	}
	if ms.AlphaToOne {
		return nil, unsupportedf("alpha-to-one")
	}
	if state.PolygonMode != PolygonFill {
		return nil, unsupportedf("polygon mode %d", state.PolygonMode)
	}
	if state.VaryingCount < 0 || state.VaryingCount > MaxInterfaceComponents {
		return nil, unsupportedf("varying count %d (max %d)", state.VaryingCount, MaxInterfaceComponents)
	}
	if state.ClipDistances < 0 || state.ClipDistances > MaxClipDistances {
		return nil, unsupportedf("clip distance count %d (max %d)", state.ClipDistances, MaxClipDistances)
	}
	if state.CullDistances < 0 || state.CullDistances > MaxCullDistances {
		return nil, unsupportedf("cull distance count %d (max %d)", state.CullDistances, MaxCullDistances)
	}
	if state.LineWidth < 0 {
		return nil, unsupportedf("negative line width %v", state.LineWidth)
	}
	if state.VertexShader == nil {
		return nil, unsupportedf("pipeline without vertex shader")
	}

	return &Pipeline{device: d, state: state}, nil
}

// State returns a copy of the pipeline's configuration.
func (p *Pipeline) State() PipelineState { return p.state }

// stateKey derives the canonical routine identity for this pipeline
// rendering to the given target formats.
func (p *Pipeline) stateKey(colorFormats [MaxColorBuffers]Format, colorPresent [MaxColorBuffers]bool, occlusion bool) pixelstate.StateKey {
	s := &p.state

	var key pixelstate.StateKey
	key.Topology = s.Topology
	key.PolygonMode = s.PolygonMode
	key.CullMode = s.CullMode
	key.FrontFaceClockwise = s.FrontFace == Clockwise

	key.DepthTestEnable = s.DepthStencil.DepthTestEnable
	key.DepthWriteEnable = s.DepthStencil.DepthWriteEnable
	key.DepthCompareOp = s.DepthStencil.DepthCompareOp
	key.DepthBoundsTest = s.DepthStencil.DepthBoundsTestEnable

	key.StencilTestEnable = s.DepthStencil.StencilTestEnable
	key.StencilFrontOp = stencilOps(s.DepthStencil.Front)
	key.StencilBackOp = stencilOps(s.DepthStencil.Back)

	key.LogicOpEnable = s.Blend.LogicOpEnable
	key.LogicOp = s.Blend.LogicOp

	for i := range key.Targets {
		if !colorPresent[i] {
			continue
		}
		t := s.Blend.Targets[i]
		key.Targets[i] = pixelstate.ColorTarget{
			Present:   true,
			Format:    colorFormats[i],
			WriteMask: t.WriteMask,
			Blend: blend.State{
				Enable:   t.Enable,
				SrcColor: t.SrcColor,
				DstColor: t.DstColor,
				ColorOp:  t.ColorOp,
				SrcAlpha: t.SrcAlpha,
				DstAlpha: t.DstAlpha,
				AlphaOp:  t.AlphaOp,
			},
		}
	}

	key.SampleCount = uint8(s.Multisample.SampleCount)
	key.SampleMask = s.Multisample.SampleMask
	key.AlphaToCoverage = s.Multisample.AlphaToCoverage
	key.OcclusionEnable = occlusion
	key.FlatMask = s.FlatVaryings

	return key.Canonicalize()
}

func stencilOps(f StencilFaceState) pixelstate.StencilOpState {
	return pixelstate.StencilOpState{
		CompareOp:   f.CompareOp,
		FailOp:      f.FailOp,
		PassOp:      f.PassOp,
		DepthFailOp: f.DepthFailOp,
	}
}
