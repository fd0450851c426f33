package fragment

import (
	"testing"

	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/setup"
	"github.com/gogpu/swrast/internal/surface"
	"github.com/gogpu/swrast/internal/types"
)

// buildTriangle runs clip-space vertices through setup and returns the
// resulting primitive, or fails the test if setup discards it.
func buildTriangle(t *testing.T, cfg *setup.Config, v0, v1, v2 geom.Vec4) geom.Primitive {
	t.Helper()
	tri := geom.Triangle{
		V0: geom.Vertex{Position: v0},
		V1: geom.Vertex{Position: v1},
		V2: geom.Vertex{Position: v2},
	}
	polygon := geom.NewTriangle(&tri.V0.Position, &tri.V1.Position, &tri.V2.Position)

	var prim geom.Primitive
	if !setup.Triangle(&prim, &tri, &polygon, cfg) {
		t.Fatalf("triangle discarded by setup")
	}
	return prim
}

func testSetupConfig(size float32) setup.Config {
	cfg := setup.DefaultConfig()
	cfg.Viewport = setup.NewViewport(0, 0, size, size)
	cfg.ScissorX1, cfg.ScissorY1 = int32(size), int32(size)
	cfg.InterpolateZ = true
	cfg.InterpolateW = true
	return cfg
}

// ndc builds a clip-space position with w = 1.
func ndc(x, y, z float32) geom.Vec4 {
	return geom.Vec4{X: x, Y: y, Z: z, W: 1}
}

func solidShader(c blend.RGBA) Shader {
	return func(in *Invocation, out *Output) {
		out.Color[0] = c
	}
}

func baseKey() pixelstate.StateKey {
	var key pixelstate.StateKey
	key.Targets[0] = pixelstate.ColorTarget{Present: true, Format: types.FormatRGBA8Unorm, WriteMask: 0xF}
	key.SampleCount = 1
	key.SampleMask = 1
	return key
}

func baseData(color *surface.Surface, depth *surface.Surface) *DrawData {
	data := &DrawData{
		Depth:           depth,
		Stencil:         nil,
		ScissorX1:       int32(color.Width()),
		ScissorY1:       int32(color.Height()),
		MultiSampleMask: 1,
		SampleCount:     1,
		ClusterCount:    1,
		Occlusion:       make([]int64, 1),
	}
	data.Color[0] = color
	return data
}

// countPixels returns how many pixels of the surface match the predicate.
func countPixels(s *surface.Surface, pred func(c blend.RGBA) bool) int {
	n := 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if pred(s.LoadColor(x, y, 0)) {
				n++
			}
		}
	}
	return n
}

func isWhite(c blend.RGBA) bool { return c.R > 0.99 && c.G > 0.99 && c.B > 0.99 }
func isBlack(c blend.RGBA) bool { return c.R < 0.01 && c.G < 0.01 && c.B < 0.01 }

func TestKernelFillsTriangle(t *testing.T) {
	cfg := testSetupConfig(16)
	prim := buildTriangle(t, &cfg, ndc(-0.5, -0.5, 0.5), ndc(0.5, -0.5, 0.5), ndc(0, 0.5, 0.5))

	color := surface.New(types.FormatRGBA8Unorm, 16, 16, 1)
	depth := surface.New(types.FormatD32Float, 16, 16, 1)
	depth.ClearDepthStencil(1, 0)

	key := baseKey()
	key.DepthTestEnable = true
	key.DepthWriteEnable = true
	key.DepthCompareOp = types.CompareAlways

	data := baseData(color, depth)
	data.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})

	kernel := Generate(key)
	prims := []geom.Primitive{prim}
	kernel(prims, 1, 0, data)

	if got := color.LoadColor(8, 8, 0); !isWhite(got) {
		t.Errorf("pixel inside triangle = %+v, want white", got)
	}
	if got := color.LoadColor(1, 1, 0); !isBlack(got) {
		t.Errorf("pixel outside triangle = %+v, want untouched", got)
	}
	if got := depth.LoadDepth(8, 8, 0); got < 0.49 || got > 0.51 {
		t.Errorf("depth inside triangle = %v, want ~0.5", got)
	}
	if got := depth.LoadDepth(1, 1, 0); got != 1 {
		t.Errorf("depth outside triangle = %v, want clear value 1", got)
	}

	inside := countPixels(color, isWhite)
	if inside == 0 {
		t.Fatal("no pixels covered")
	}
}

func TestDepthTestRejects(t *testing.T) {
	cfg := testSetupConfig(16)
	near := buildTriangle(t, &cfg, ndc(-0.5, -0.5, 0.25), ndc(0.5, -0.5, 0.25), ndc(0, 0.5, 0.25))
	far := buildTriangle(t, &cfg, ndc(-0.5, -0.5, 0.75), ndc(0.5, -0.5, 0.75), ndc(0, 0.5, 0.75))

	color := surface.New(types.FormatRGBA8Unorm, 16, 16, 1)
	depth := surface.New(types.FormatD32Float, 16, 16, 1)
	depth.ClearDepthStencil(1, 0)

	key := baseKey()
	key.DepthTestEnable = true
	key.DepthWriteEnable = true
	key.DepthCompareOp = types.CompareLess

	kernel := Generate(key)

	data := baseData(color, depth)
	data.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})
	kernel([]geom.Primitive{near}, 1, 0, data)

	data.Shader = solidShader(blend.RGBA{R: 1, G: 0, B: 0, A: 1})
	kernel([]geom.Primitive{far}, 1, 0, data)

	if got := color.LoadColor(8, 8, 0); !isWhite(got) {
		t.Errorf("occluded pixel overwritten: %+v", got)
	}
	if got := depth.LoadDepth(8, 8, 0); got > 0.26 {
		t.Errorf("depth = %v, want first draw's 0.25", got)
	}
}

func TestStencilFailLeavesColorAndWritesFailOp(t *testing.T) {
	cfg := testSetupConfig(16)
	prim := buildTriangle(t, &cfg, ndc(-0.5, -0.5, 0.5), ndc(0.5, -0.5, 0.5), ndc(0, 0.5, 0.5))

	color := surface.New(types.FormatRGBA8Unorm, 16, 16, 1)
	ds := surface.New(types.FormatD24UnormS8Uint, 16, 16, 1)
	ds.ClearDepthStencil(1, 0)

	key := baseKey()
	key.StencilTestEnable = true
	key.StencilFrontOp = pixelstate.StencilOpState{
		CompareOp: types.CompareEqual,
		FailOp:    types.StencilReplace,
		PassOp:    types.StencilKeep,
	}
	key.StencilBackOp = key.StencilFrontOp

	data := baseData(color, ds)
	data.Stencil = ds
	data.Depth = ds
	data.StencilFront = StencilData{Reference: 1, CompareMask: 0xFF, WriteMask: 0xFF}
	data.StencilBack = data.StencilFront
	data.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})

	kernel := Generate(key)
	kernel([]geom.Primitive{prim}, 1, 0, data)

	// Stencil buffer holds 0, reference is 1: EQUAL fails everywhere, so
	// no color is written but the fail op replaces stencil with 1.
	if got := countPixels(color, isWhite); got != 0 {
		t.Errorf("%d pixels written despite stencil fail", got)
	}
	if got := ds.LoadStencil(8, 8, 0); got != 1 {
		t.Errorf("stencil inside = %d, want fail-op replace value 1", got)
	}
	if got := ds.LoadStencil(1, 1, 0); got != 0 {
		t.Errorf("stencil outside = %d, want untouched 0", got)
	}
}

func TestOcclusionCountsCoveredPixels(t *testing.T) {
	cfg := testSetupConfig(16)
	prim := buildTriangle(t, &cfg, ndc(-0.5, -0.5, 0.5), ndc(0.5, -0.5, 0.5), ndc(0, 0.5, 0.5))

	color := surface.New(types.FormatRGBA8Unorm, 16, 16, 1)

	key := baseKey()
	key.OcclusionEnable = true

	data := baseData(color, nil)
	data.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})

	kernel := Generate(key)
	kernel([]geom.Primitive{prim}, 1, 0, data)

	covered := int64(countPixels(color, isWhite))
	if data.Occlusion[0] != covered {
		t.Errorf("occlusion = %d, covered pixels = %d", data.Occlusion[0], covered)
	}
	if covered == 0 {
		t.Fatal("no coverage")
	}
}

func TestBlendSrcOver(t *testing.T) {
	cfg := testSetupConfig(16)
	prim := buildTriangle(t, &cfg, ndc(-1, -1, 0.5), ndc(3, -1, 0.5), ndc(-1, 3, 0.5))

	color := surface.New(types.FormatRGBA8Unorm, 16, 16, 1)
	color.ClearColor(blend.RGBA{B: 1, A: 1})

	key := baseKey()
	key.Targets[0].Blend = blend.State{
		Enable:   true,
		SrcColor: types.FactorSrcAlpha,
		DstColor: types.FactorOneMinusSrcAlpha,
		ColorOp:  types.BlendOpAdd,
		SrcAlpha: types.FactorOne,
		DstAlpha: types.FactorOneMinusSrcAlpha,
		AlphaOp:  types.BlendOpAdd,
	}

	data := baseData(color, nil)
	data.Shader = solidShader(blend.RGBA{R: 1, A: 0.5})

	kernel := Generate(key)
	kernel([]geom.Primitive{prim}, 1, 0, data)

	got := color.LoadColor(4, 4, 0)
	if got.R < 0.48 || got.R > 0.52 || got.B < 0.48 || got.B > 0.52 {
		t.Errorf("blended color = %+v, want ~(0.5, 0, 0.5)", got)
	}
}

// TestClusterPartitionDeterministic renders the same primitive with one
// cluster and with four clusters and requires identical output: clusters
// partition quad rows, they do not change per-pixel results.
func TestClusterPartitionDeterministic(t *testing.T) {
	cfg := testSetupConfig(32)
	prim := buildTriangle(t, &cfg, ndc(-0.9, -0.9, 0.5), ndc(0.9, -0.7, 0.5), ndc(0, 0.9, 0.5))

	key := baseKey()
	kernel := Generate(key)

	single := surface.New(types.FormatRGBA8Unorm, 32, 32, 1)
	dataS := baseData(single, nil)
	dataS.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})
	kernel([]geom.Primitive{prim}, 1, 0, dataS)

	multi := surface.New(types.FormatRGBA8Unorm, 32, 32, 1)
	dataM := baseData(multi, nil)
	dataM.Shader = solidShader(blend.RGBA{R: 1, G: 1, B: 1, A: 1})
	dataM.ClusterCount = 4
	dataM.Occlusion = make([]int64, 4)
	for c := 0; c < 4; c++ {
		kernel([]geom.Primitive{prim}, 1, c, dataM)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			a := single.LoadColor(x, y, 0)
			b := multi.LoadColor(x, y, 0)
			if a != b {
				t.Fatalf("cluster partition changed pixel (%d, %d): %+v vs %+v", x, y, a, b)
			}
		}
	}
}

func TestVaryingInterpolation(t *testing.T) {
	cfg := testSetupConfig(16)

	tri := geom.Triangle{
		V0: geom.Vertex{Position: ndc(-1, -1, 0.5)},
		V1: geom.Vertex{Position: ndc(3, -1, 0.5)},
		V2: geom.Vertex{Position: ndc(-1, 3, 0.5)},
	}
	// Red varies left to right.
	tri.V0.V[0] = 0
	tri.V1.V[0] = 2
	tri.V2.V[0] = 0
	polygon := geom.NewTriangle(&tri.V0.Position, &tri.V1.Position, &tri.V2.Position)

	var prim geom.Primitive
	if !setup.Triangle(&prim, &tri, &polygon, &cfg) {
		t.Fatal("triangle discarded")
	}

	color := surface.New(types.FormatRGBA32Float, 16, 16, 1)
	key := baseKey()
	key.Targets[0].Format = types.FormatRGBA32Float

	data := baseData(color, nil)
	data.VaryingCount = 4
	var got0, got15 float32
	data.Shader = func(in *Invocation, out *Output) {
		if in.Y == 8 && in.X == 0 {
			got0 = in.V[0]
		}
		if in.Y == 8 && in.X == 12 {
			got15 = in.V[0]
		}
		out.Color[0] = blend.RGBA{R: in.V[0], A: 1}
	}

	kernel := Generate(key)
	kernel([]geom.Primitive{prim}, 1, 0, data)

	if got15 <= got0 {
		t.Errorf("varying must increase with x: V[0] at x=0: %v, at x=12: %v", got0, got15)
	}
	// V[0] ramps 0..2 across the 32-pixel-wide base, 1/16 per pixel;
	// at the center of pixel x=8 that is 8.5/16.
	mid := color.LoadColor(8, 8, 0).R
	want := float32(8.5) / 16
	if mid < want-0.1 || mid > want+0.1 {
		t.Errorf("interpolated varying at x=8 is %v, want ~%v", mid, want)
	}
}
