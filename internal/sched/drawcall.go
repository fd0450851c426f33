package sched

import (
	"sync/atomic"

	"github.com/gogpu/swrast/internal/fragment"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/setup"
	"github.com/gogpu/swrast/internal/types"
)

// Scheduling constants; all powers of two.
const (
	DrawCount = 16 // buffered draw-call slots
	TaskCount = 32 // task queue depth
	BatchSize = 128

	drawMask = DrawCount - 1
	taskMask = TaskCount - 1

	vertexCacheSize = 64
	vertexCacheMask = vertexCacheSize - 1
)

// VertexShader produces one vertex for an index. The scheduler caches
// results per unit in a direct-mapped cache of vertexCacheSize slots, so a
// reused index runs the shader again only when another index has taken its
// slot in between.
type VertexShader func(index uint32, v *geom.Vertex, data *fragment.DrawData)

// SetupKind selects the primitive setup path; matched at the top of each
// primitive task so the three bodies inline.
type SetupKind int

const (
	SetupTriangles SetupKind = iota
	SetupLines
	SetupPoints
)

// segment is a maximal run of indices not containing the primitive
// restart value. prefix is the number of primitives in earlier segments.
type segment struct {
	start  int // offset into the index stream
	count  int // indices in the run
	prims  int // primitives the run yields
	prefix int
}

// DrawCall is one slot of the scheduler's draw ring: the kernels, the
// per-draw data, the index stream pre-split into restart segments, and
// the scheduling counters.
type DrawCall struct {
	Topology  types.Topology
	SetupKind SetupKind

	VertexShader VertexShader
	PixelKernel  fragment.Kernel

	// Routine is released back to the cache when the draw completes.
	Routine *pixelstate.Routine
	Cache   *pixelstate.RoutineCache

	SetupConfig *setup.Config
	Data        *fragment.DrawData

	// Index stream: at most one of Indices16/Indices32 is non-nil; both
	// nil means a non-indexed draw over sequential vertices.
	Indices16  []uint16
	Indices32  []uint32
	IndexCount int
	BaseVertex uint32

	RestartEnable     bool
	RasterizerDiscard bool

	// Occlusion receives the summed per-cluster counters at completion.
	Occlusion *atomic.Int64

	// Done is closed when the draw has fully retired.
	Done chan struct{}

	segments []segment
	count    int // total primitives
	batch    int // primitives per task

	// primitive is the next primitive to hand to a unit; guarded by the
	// scheduler mutex.
	primitive int
	// references counts outstanding primitive units, -1 when the slot is
	// free; guarded by the scheduler mutex.
	references int
}

// primsForIndexCount returns how many primitives a run of n indices
// yields under the topology.
func primsForIndexCount(topology types.Topology, n int) int {
	switch topology {
	case types.PointList:
		return n
	case types.LineList:
		return n / 2
	case types.LineStrip:
		if n < 2 {
			return 0
		}
		return n - 1
	case types.TriangleList:
		return n / 3
	case types.TriangleStrip, types.TriangleFan:
		if n < 3 {
			return 0
		}
		return n - 2
	}
	return 0
}

// Prepare finalizes the draw call for scheduling: it splits the index
// stream into primitive-restart segments, counts primitives, and sizes
// the batch for the draw's sample count. It returns the total primitive
// count.
func (d *DrawCall) Prepare(sampleCount int) int {
	if sampleCount < 1 {
		sampleCount = 1
	}
	d.batch = BatchSize / sampleCount
	if d.batch < 1 {
		d.batch = 1
	}

	d.segments = d.segments[:0]
	if !d.RestartEnable || (d.Indices16 == nil && d.Indices32 == nil) {
		d.appendSegment(0, d.IndexCount)
	} else {
		runStart := 0
		for i := 0; i < d.IndexCount; i++ {
			if d.isRestart(i) {
				d.appendSegment(runStart, i-runStart)
				runStart = i + 1
			}
		}
		d.appendSegment(runStart, d.IndexCount-runStart)
	}

	d.count = 0
	for i := range d.segments {
		d.segments[i].prefix = d.count
		d.count += d.segments[i].prims
	}
	d.primitive = 0
	return d.count
}

func (d *DrawCall) appendSegment(start, count int) {
	prims := primsForIndexCount(d.Topology, count)
	if prims == 0 {
		return
	}
	d.segments = append(d.segments, segment{start: start, count: count, prims: prims})
}

func (d *DrawCall) isRestart(i int) bool {
	if d.Indices16 != nil {
		return d.Indices16[i] == 0xFFFF
	}
	return d.Indices32[i] == 0xFFFF_FFFF
}

// indexAt reads the index stream at position i, applying BaseVertex.
// Non-indexed draws use the position itself.
func (d *DrawCall) indexAt(i int) uint32 {
	switch {
	case d.Indices16 != nil:
		return uint32(d.Indices16[i]) + d.BaseVertex
	case d.Indices32 != nil:
		return d.Indices32[i] + d.BaseVertex
	default:
		return uint32(i) + d.BaseVertex
	}
}

// findSegment locates the restart segment containing global primitive p.
func (d *DrawCall) findSegment(p int) *segment {
	lo, hi := 0, len(d.segments)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.segments[mid].prefix <= p {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return &d.segments[lo]
}

// setBatchIndices fills the unit's triangle table for primitives
// [first, first+count). Every row is a vertex-index triple; lines and
// points degenerate the unused corners.
func (d *DrawCall) setBatchIndices(tri [][3]uint32, first, count int) {
	for t := 0; t < count; t++ {
		p := first + t
		seg := d.findSegment(p)
		i := p - seg.prefix

		var i0, i1, i2 int
		switch d.Topology {
		case types.PointList:
			i0, i1, i2 = i, i, i
		case types.LineList:
			i0, i1, i2 = 2*i, 2*i+1, 2*i+1
		case types.LineStrip:
			i0, i1, i2 = i, i+1, i+1
		case types.TriangleList:
			i0, i1, i2 = 3*i, 3*i+1, 3*i+2
		case types.TriangleStrip:
			// Alternate winding so every triangle keeps the strip's
			// orientation.
			i0 = i
			i1 = i + i&1 + 1
			i2 = i + ^i&1 + 1
		case types.TriangleFan:
			i0, i1, i2 = i+1, i+2, 0
		}

		tri[t][0] = d.indexAt(seg.start + i0)
		tri[t][1] = d.indexAt(seg.start + i1)
		tri[t][2] = d.indexAt(seg.start + i2)
	}
}
