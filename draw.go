package swrast

import (
	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/fragment"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/sched"
	"github.com/gogpu/swrast/internal/setup"
	"github.com/gogpu/swrast/internal/types"
)

// Viewport is the window-space mapping of normalized device coordinates.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// Rect is a scissor rectangle, [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int32
}

// RenderTargets binds the attachments of a draw.
type RenderTargets struct {
	Color        [MaxColorBuffers]*Surface
	DepthStencil *Surface
}

// DrawParams carries the per-draw dynamic state.
type DrawParams struct {
	// VertexCount drives non-indexed draws; ignored when an index slice
	// is present.
	VertexCount int

	// At most one of Indices16/Indices32 may be non-nil.
	Indices16 []uint16
	Indices32 []uint32

	BaseVertex       uint32
	PrimitiveRestart bool

	// Viewport defaults to the full render target with depth [0, 1].
	Viewport *Viewport
	// Scissor defaults to the full render target.
	Scissor *Rect

	PushConstants  []byte
	Descriptors    []any
	BlendConstants Color

	// Query, when set, accumulates the number of samples passing all
	// tests.
	Query *OcclusionQuery
}

// Draw validates the draw against the pipeline and targets and submits
// it to the scheduler. Draws complete asynchronously; Synchronize or the
// device's shutdown wait for them. A draw with nothing to render returns
// nil having done nothing.
func (d *Device) Draw(p *Pipeline, targets RenderTargets, params DrawParams) error {
	if p.device != d {
		return unsupportedf("pipeline belongs to a different device")
	}
	if params.Indices16 != nil && params.Indices32 != nil {
		return unsupportedf("both 16- and 32-bit index slices set")
	}

	indexCount := params.VertexCount
	if params.Indices16 != nil {
		indexCount = len(params.Indices16)
	} else if params.Indices32 != nil {
		indexCount = len(params.Indices32)
	}
	if indexCount == 0 {
		return nil
	}

	width, height, err := d.validateTargets(p, &targets)
	if err != nil {
		return err
	}

	vp := Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1}
	if params.Viewport != nil {
		vp = *params.Viewport
	}
	scissor := Rect{X1: int32(width), Y1: int32(height)}
	if params.Scissor != nil {
		scissor = clampRect(*params.Scissor, int32(width), int32(height))
	}

	var colorFormats [MaxColorBuffers]Format
	var colorPresent [MaxColorBuffers]bool
	for i, s := range targets.Color {
		if s != nil {
			colorFormats[i] = s.Format()
			colorPresent[i] = true
		}
	}

	key := p.stateKey(colorFormats, colorPresent, params.Query != nil)
	routine := d.cache.Acquire(key)

	cfg := d.setupConfig(p, vp, scissor, targets.DepthStencil)
	data := d.drawData(p, &targets, vp, scissor, params)

	dc := &sched.DrawCall{
		Topology:          p.state.Topology,
		SetupKind:         setupKind(p.state.Topology),
		VertexShader:      wrapVertexShader(p.state.VertexShader),
		PixelKernel:       routine.Kernel.(fragment.Kernel),
		Routine:           routine,
		Cache:             d.cache,
		SetupConfig:       cfg,
		Data:              data,
		Indices16:         params.Indices16,
		Indices32:         params.Indices32,
		IndexCount:        indexCount,
		BaseVertex:        params.BaseVertex,
		RestartEnable:     params.PrimitiveRestart,
		RasterizerDiscard: p.state.RasterizerDiscard,
		Done:              make(chan struct{}),
	}
	if params.Query != nil {
		dc.Occlusion = &params.Query.count
	}

	dc.Prepare(p.state.Multisample.SampleCount)
	d.scheduler.Draw(dc)
	return nil
}

// validateTargets checks dimensions, sample counts and format classes,
// returning the common width and height.
func (d *Device) validateTargets(p *Pipeline, targets *RenderTargets) (int, int, error) {
	width, height := 0, 0
	samples := p.state.Multisample.SampleCount

	check := func(s *Surface, color bool) error {
		if width == 0 {
			width, height = s.Width(), s.Height()
		} else if s.Width() != width || s.Height() != height {
			return invalidTargetf("mismatched target sizes %dx%d vs %dx%d", s.Width(), s.Height(), width, height)
		}
		if s.Samples() != samples {
			return invalidTargetf("target has %d samples, pipeline wants %d", s.Samples(), samples)
		}
		if color && !isColorFormat(s.Format()) {
			return invalidTargetf("depth format %v bound as color target", s.Format())
		}
		if !color && isColorFormat(s.Format()) {
			return invalidTargetf("color format %v bound as depth/stencil", s.Format())
		}
		return nil
	}

	for _, s := range targets.Color {
		if s == nil {
			continue
		}
		if err := check(s, true); err != nil {
			return 0, 0, err
		}
	}
	if targets.DepthStencil != nil {
		if err := check(targets.DepthStencil, false); err != nil {
			return 0, 0, err
		}
	}
	if width == 0 {
		return 0, 0, invalidTargetf("no render targets bound")
	}
	return width, height, nil
}

// setupConfig builds the per-draw setup configuration from the pipeline,
// the viewport and the device conventions.
func (d *Device) setupConfig(p *Pipeline, vp Viewport, scissor Rect, ds *Surface) *setup.Config {
	cfg := setup.DefaultConfig()
	cfg.Viewport = setup.NewViewport(vp.X, vp.Y, vp.Width, vp.Height)
	if !d.config.HalfIntegerCoordinates {
		// Integer pixel centers: shift the transform half a pixel so they
		// land on the sampling grid.
		cfg.Viewport.X0xF += setup.SubpixelFactor / 2
		cfg.Viewport.Y0xF += setup.SubpixelFactor / 2
	}

	cfg.ScissorX0, cfg.ScissorY0 = scissor.X0, scissor.Y0
	cfg.ScissorX1, cfg.ScissorY1 = scissor.X1, scissor.Y1

	cfg.CullMode = p.state.CullMode
	cfg.FrontFace = p.state.FrontFace
	cfg.LineWidth = p.state.LineWidth
	cfg.SampleCount = p.state.Multisample.SampleCount
	cfg.SampleOffsets = setup.StandardSampleOffsets(cfg.SampleCount)

	cfg.InterpolateZ = true
	cfg.InterpolateW = d.config.PerspectiveCorrection

	for i := 0; i < 64 && i < setup.MaxInterfaceComponents; i++ {
		cfg.Flat[i] = p.state.FlatVaryings&(1<<uint(i)) != 0
	}

	cfg.NumClipDistances = p.state.ClipDistances
	cfg.NumCullDistances = p.state.CullDistances

	cfg.ConstantDepthBias = p.state.DepthBias.Constant
	cfg.SlopeDepthBias = p.state.DepthBias.Slope
	cfg.DepthBiasClamp = p.state.DepthBias.Clamp
	cfg.DepthIsFloat = ds != nil && ds.Format() == types.FormatD32Float

	near, far := vp.MinDepth, vp.MaxDepth
	if d.config.SymmetricNormalizedDepth {
		near = (vp.MinDepth + vp.MaxDepth) / 2
	}
	if d.config.ComplementaryDepthBuffer {
		near, far = 1-near, 1-far
	}
	cfg.DepthNear, cfg.DepthFar = near, far

	return &cfg
}

// drawData assembles the per-draw scratch the kernels borrow.
func (d *Device) drawData(p *Pipeline, targets *RenderTargets, vp Viewport, scissor Rect, params DrawParams) *fragment.DrawData {
	clusters := d.scheduler.ClusterCount()
	sampleCount := p.state.Multisample.SampleCount

	data := &fragment.DrawData{
		Depth:   targets.DepthStencil,
		Stencil: nil,

		ScissorX0: scissor.X0,
		ScissorX1: scissor.X1,
		ScissorY0: scissor.Y0,
		ScissorY1: scissor.Y1,

		Wx16:           vp.Width * 16,
		Hx16:           vp.Height * 16,
		X0x16:          (vp.X + vp.Width/2) * 16,
		Y0x16:          (vp.Y + vp.Height/2) * 16,
		HalfPixelX:     0.5,
		HalfPixelY:     0.5,
		ViewportHeight: int32(vp.Height),
		DepthRange:     vp.MaxDepth - vp.MinDepth,
		DepthNear:      vp.MinDepth,
		SlopeDepthBias: p.state.DepthBias.Slope,

		StencilFront: fragment.StencilData{
			Reference:   p.state.DepthStencil.Front.Reference,
			CompareMask: p.state.DepthStencil.Front.CompareMask,
			WriteMask:   p.state.DepthStencil.Front.WriteMask,
		},
		StencilBack: fragment.StencilData{
			Reference:   p.state.DepthStencil.Back.Reference,
			CompareMask: p.state.DepthStencil.Back.CompareMask,
			WriteMask:   p.state.DepthStencil.Back.WriteMask,
		},

		MinDepthBounds: p.state.DepthStencil.MinDepthBounds,
		MaxDepthBounds: p.state.DepthStencil.MaxDepthBounds,

		BlendConstants: blend.NewConstants(params.BlendConstants),

		A2C: fragment.A2CThresholds(sampleCount),

		MultiSampleMask: p.state.Multisample.SampleMask & (1<<uint(sampleCount) - 1),
		SampleCount:     sampleCount,
		ClusterCount:    clusters,
		Occlusion:       make([]int64, clusters),

		Shader:       p.state.FragmentShader,
		VaryingCount: p.state.VaryingCount,

		ClipDistanceCount: p.state.ClipDistances,
		CullDistanceCount: p.state.CullDistances,

		PushConstants: params.PushConstants,
		Descriptors:   params.Descriptors,
	}

	data.Color = targets.Color
	if targets.DepthStencil != nil && targets.DepthStencil.Format() == types.FormatD24UnormS8Uint {
		data.Stencil = targets.DepthStencil
	}
	return data
}

func wrapVertexShader(vs VertexShader) sched.VertexShader {
	return func(index uint32, v *geom.Vertex, data *fragment.DrawData) {
		vs(index, v, data.PushConstants)
	}
}

func setupKind(topology Topology) sched.SetupKind {
	switch topology {
	case PointList:
		return sched.SetupPoints
	case LineList, LineStrip:
		return sched.SetupLines
	default:
		return sched.SetupTriangles
	}
}

func clampRect(r Rect, width, height int32) Rect {
	if r.X0 < 0 {
		r.X0 = 0
	}
	if r.Y0 < 0 {
		r.Y0 = 0
	}
	if r.X1 > width {
		r.X1 = width
	}
	if r.Y1 > height {
		r.Y1 = height
	}
	return r
}
