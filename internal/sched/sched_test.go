package sched

import (
	"sync/atomic"
	"testing"

	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/fragment"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/setup"
	"github.com/gogpu/swrast/internal/surface"
	"github.com/gogpu/swrast/internal/types"
)

func TestPrimsForIndexCount(t *testing.T) {
	tests := []struct {
		topology types.Topology
		n, want  int
	}{
		{types.PointList, 5, 5},
		{types.LineList, 6, 3},
		{types.LineStrip, 5, 4},
		{types.LineStrip, 1, 0},
		{types.TriangleList, 9, 3},
		{types.TriangleStrip, 5, 3},
		{types.TriangleStrip, 2, 0},
		{types.TriangleFan, 6, 4},
	}
	for _, tt := range tests {
		if got := primsForIndexCount(tt.topology, tt.n); got != tt.want {
			t.Errorf("primsForIndexCount(%v, %d) = %d, want %d", tt.topology, tt.n, got, tt.want)
		}
	}
}

func TestSetBatchIndicesTopologies(t *testing.T) {
	tests := []struct {
		name     string
		topology types.Topology
		n        int
		want     [][3]uint32
	}{
		{"points", types.PointList, 3, [][3]uint32{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}},
		{"line list", types.LineList, 4, [][3]uint32{{0, 1, 1}, {2, 3, 3}}},
		{"line strip", types.LineStrip, 3, [][3]uint32{{0, 1, 1}, {1, 2, 2}}},
		{"triangle list", types.TriangleList, 6, [][3]uint32{{0, 1, 2}, {3, 4, 5}}},
		{"triangle strip", types.TriangleStrip, 5, [][3]uint32{{0, 1, 2}, {1, 3, 2}, {2, 3, 4}}},
		{"triangle fan", types.TriangleFan, 5, [][3]uint32{{1, 2, 0}, {2, 3, 0}, {3, 4, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DrawCall{Topology: tt.topology, IndexCount: tt.n}
			count := d.Prepare(1)
			if count != len(tt.want) {
				t.Fatalf("Prepare = %d primitives, want %d", count, len(tt.want))
			}
			tri := make([][3]uint32, count)
			d.setBatchIndices(tri, 0, count)
			for i := range tt.want {
				if tri[i] != tt.want[i] {
					t.Errorf("primitive %d = %v, want %v", i, tri[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrepareSplitsPrimitiveRestart(t *testing.T) {
	d := &DrawCall{
		Topology:      types.TriangleStrip,
		Indices16:     []uint16{0, 1, 2, 3, 0xFFFF, 10, 11, 12, 13, 14},
		RestartEnable: true,
	}
	d.IndexCount = len(d.Indices16)

	count := d.Prepare(1)
	// First run: 4 indices -> 2 strip triangles. Second: 5 -> 3.
	if count != 5 {
		t.Fatalf("Prepare = %d primitives, want 5", count)
	}
	if len(d.segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(d.segments))
	}

	tri := make([][3]uint32, count)
	d.setBatchIndices(tri, 0, count)
	// Strip parity restarts in the second run.
	want := [][3]uint32{{0, 1, 2}, {1, 3, 2}, {10, 11, 12}, {11, 13, 12}, {12, 13, 14}}
	for i := range want {
		if tri[i] != want[i] {
			t.Errorf("primitive %d = %v, want %v", i, tri[i], want[i])
		}
	}
}

func TestPrepareBatchScalesWithSampleCount(t *testing.T) {
	d := &DrawCall{Topology: types.TriangleList, IndexCount: 300}
	d.Prepare(4)
	if d.batch != BatchSize/4 {
		t.Errorf("batch = %d, want %d", d.batch, BatchSize/4)
	}
}

// testDraw bundles everything needed to render triangles through the
// scheduler in tests.
type testDraw struct {
	color *surface.Surface
	depth *surface.Surface
	cfg   setup.Config
	data  *fragment.DrawData
}

func newTestDraw(size int, clusterCount int) *testDraw {
	td := &testDraw{
		color: surface.New(types.FormatRGBA8Unorm, size, size, 1),
		depth: surface.New(types.FormatD32Float, size, size, 1),
	}
	td.depth.ClearDepthStencil(1, 0)

	td.cfg = setup.DefaultConfig()
	td.cfg.Viewport = setup.NewViewport(0, 0, float32(size), float32(size))
	td.cfg.ScissorX1, td.cfg.ScissorY1 = int32(size), int32(size)
	td.cfg.InterpolateZ = true
	td.cfg.InterpolateW = true

	td.data = &fragment.DrawData{
		Depth:           td.depth,
		ScissorX1:       int32(size),
		ScissorY1:       int32(size),
		MultiSampleMask: 1,
		SampleCount:     1,
		ClusterCount:    clusterCount,
		Occlusion:       make([]int64, clusterCount),
		VaryingCount:    4,
	}
	td.data.Color[0] = td.color
	return td
}

// flatTriangles builds a vertex shader over a flat position/color array:
// every three consecutive vertices form one triangle.
func flatTriangles(positions []geom.Vec4, colors []blend.RGBA) VertexShader {
	return func(index uint32, v *geom.Vertex, data *fragment.DrawData) {
		v.Position = positions[index]
		c := colors[index/3]
		v.V[0], v.V[1], v.V[2], v.V[3] = c.R, c.G, c.B, c.A
	}
}

func testKernel(key pixelstate.StateKey) fragment.Kernel {
	return fragment.Generate(key)
}

func baseTestKey() pixelstate.StateKey {
	var key pixelstate.StateKey
	key.Targets[0] = pixelstate.ColorTarget{Present: true, Format: types.FormatRGBA8Unorm, WriteMask: 0xF}
	key.SampleCount = 1
	key.SampleMask = 1
	key.FlatMask = 0xF // colors are constant per triangle in these tests
	return key
}

func TestSchedulerRendersTriangle(t *testing.T) {
	s := New(2, nil)
	defer s.Close()

	td := newTestDraw(16, s.ClusterCount())
	td.data.ClusterCount = s.ClusterCount()
	td.data.Occlusion = make([]int64, s.ClusterCount())

	positions := []geom.Vec4{
		{X: -0.5, Y: -0.5, Z: 0.5, W: 1},
		{X: 0.5, Y: -0.5, Z: 0.5, W: 1},
		{X: 0, Y: 0.5, Z: 0.5, W: 1},
	}
	colors := []blend.RGBA{{R: 1, G: 1, B: 1, A: 1}}

	d := &DrawCall{
		Topology:     types.TriangleList,
		SetupKind:    SetupTriangles,
		VertexShader: flatTriangles(positions, colors),
		PixelKernel:  testKernel(baseTestKey()),
		SetupConfig:  &td.cfg,
		Data:         td.data,
		IndexCount:   3,
		Done:         make(chan struct{}),
	}
	d.Prepare(1)

	s.Draw(d)
	<-d.Done

	if got := td.color.LoadColor(8, 8, 0); got.R < 0.99 {
		t.Errorf("triangle center = %+v, want white", got)
	}
	if got := td.color.LoadColor(1, 1, 0); got.R > 0.01 {
		t.Errorf("outside pixel = %+v, want untouched", got)
	}
}

// TestManyTrianglesLastWriterWins renders many stacked triangles, each
// with a distinct flat color, and requires every covered pixel to hold
// the color of the highest-index triangle regardless of worker count.
func TestManyTrianglesLastWriterWins(t *testing.T) {
	const triangles = 300

	render := func(workers int) *surface.Surface {
		s := New(workers, nil)
		defer s.Close()

		td := newTestDraw(32, s.ClusterCount())

		positions := make([]geom.Vec4, 0, triangles*3)
		colors := make([]blend.RGBA, 0, triangles)
		for i := 0; i < triangles; i++ {
			// All triangles cover the same central region, slightly
			// perturbed so setup sees distinct geometry.
			dx := float32(i%7) * 0.001
			positions = append(positions,
				geom.Vec4{X: -0.8 + dx, Y: -0.8, Z: 0.5, W: 1},
				geom.Vec4{X: 0.8 + dx, Y: -0.8, Z: 0.5, W: 1},
				geom.Vec4{X: dx, Y: 0.8, Z: 0.5, W: 1},
			)
			colors = append(colors, blend.RGBA{
				R: float32(i%256) / 255,
				G: float32((i/256)%256) / 255,
				B: float32(i%251) / 255,
				A: 1,
			})
		}

		d := &DrawCall{
			Topology:     types.TriangleList,
			SetupKind:    SetupTriangles,
			VertexShader: flatTriangles(positions, colors),
			PixelKernel:  testKernel(baseTestKey()),
			SetupConfig:  &td.cfg,
			Data:         td.data,
			IndexCount:   triangles * 3,
			Done:         make(chan struct{}),
		}
		d.Prepare(1)

		s.Draw(d)
		<-d.Done
		return td.color
	}

	a := render(1)
	b := render(4)

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			ca := a.LoadColor(x, y, 0)
			cb := b.LoadColor(x, y, 0)
			if ca != cb {
				t.Fatalf("pixel (%d, %d) differs across worker counts: %+v vs %+v", x, y, ca, cb)
			}
		}
	}

	// The center pixel is covered by every triangle; the last one wins.
	last := blend.RGBA{
		R: float32((triangles-1)%256) / 255,
		G: float32(((triangles-1)/256)%256) / 255,
		B: float32((triangles-1)%251) / 255,
		A: 1,
	}
	got := a.LoadColor(16, 16, 0)
	d := func(x, y float32) float32 {
		if x > y {
			return x - y
		}
		return y - x
	}
	if d(got.R, last.R) > 0.005 || d(got.G, last.G) > 0.005 || d(got.B, last.B) > 0.005 {
		t.Errorf("center = %+v, want last triangle's color %+v", got, last)
	}
}

func TestOcclusionQueryCounts(t *testing.T) {
	s := New(2, nil)
	defer s.Close()

	key := baseTestKey()
	key.DepthTestEnable = true
	key.DepthWriteEnable = true
	key.DepthCompareOp = types.CompareLessOrEqual
	key.OcclusionEnable = true
	kernel := testKernel(key)

	td := newTestDraw(32, s.ClusterCount())

	fullQuad := []geom.Vec4{
		{X: -1, Y: -1, Z: 0.5, W: 1},
		{X: 3, Y: -1, Z: 0.5, W: 1},
		{X: -1, Y: 3, Z: 0.5, W: 1},
	}
	white := []blend.RGBA{{R: 1, G: 1, B: 1, A: 1}}

	var q1, q2 atomic.Int64

	d1 := &DrawCall{
		Topology:     types.TriangleList,
		SetupKind:    SetupTriangles,
		VertexShader: flatTriangles(fullQuad, white),
		PixelKernel:  kernel,
		SetupConfig:  &td.cfg,
		Data:         td.data,
		IndexCount:   3,
		Occlusion:    &q1,
		Done:         make(chan struct{}),
	}
	d1.Prepare(1)
	s.Draw(d1)
	<-d1.Done

	if got := q1.Load(); got != 32*32 {
		t.Errorf("first draw occlusion = %d, want %d", got, 32*32)
	}

	// Second draw at greater depth: fully occluded.
	behind := []geom.Vec4{
		{X: -1, Y: -1, Z: 0.9, W: 1},
		{X: 3, Y: -1, Z: 0.9, W: 1},
		{X: -1, Y: 3, Z: 0.9, W: 1},
	}
	data2 := td.data
	occl2 := make([]int64, s.ClusterCount())
	data2b := *data2
	data2b.Occlusion = occl2

	key2 := key
	key2.DepthCompareOp = types.CompareLess
	d2 := &DrawCall{
		Topology:     types.TriangleList,
		SetupKind:    SetupTriangles,
		VertexShader: flatTriangles(behind, white),
		PixelKernel:  testKernel(key2),
		SetupConfig:  &td.cfg,
		Data:         &data2b,
		IndexCount:   3,
		Occlusion:    &q2,
		Done:         make(chan struct{}),
	}
	d2.Prepare(1)
	s.Draw(d2)
	<-d2.Done

	if got := q2.Load(); got != 0 {
		t.Errorf("occluded draw occlusion = %d, want 0", got)
	}
}

func TestEmptyDrawCompletes(t *testing.T) {
	s := New(1, nil)
	defer s.Close()

	d := &DrawCall{
		Topology:   types.TriangleList,
		IndexCount: 0,
		Done:       make(chan struct{}),
	}
	d.Prepare(1)
	s.Draw(d)

	select {
	case <-d.Done:
	default:
		t.Fatal("empty draw must complete immediately")
	}
	s.Synchronize()
}

func TestSynchronizeWaitsForAllDraws(t *testing.T) {
	s := New(4, nil)
	defer s.Close()

	td := newTestDraw(32, s.ClusterCount())

	positions := []geom.Vec4{
		{X: -1, Y: -1, Z: 0.5, W: 1},
		{X: 3, Y: -1, Z: 0.5, W: 1},
		{X: -1, Y: 3, Z: 0.5, W: 1},
	}

	kernel := testKernel(baseTestKey())
	for i := 0; i < 40; i++ {
		c := []blend.RGBA{{R: float32(i) / 40, A: 1}}
		d := &DrawCall{
			Topology:     types.TriangleList,
			SetupKind:    SetupTriangles,
			VertexShader: flatTriangles(positions, c),
			PixelKernel:  kernel,
			SetupConfig:  &td.cfg,
			Data:         td.data,
			IndexCount:   3,
			Done:         make(chan struct{}),
		}
		d.Prepare(1)
		s.Draw(d)
	}

	s.Synchronize()

	want := float32(39) / 40
	got := td.color.LoadColor(16, 16, 0).R
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("after synchronize, center R = %v, want last draw's %v", got, want)
	}
}
