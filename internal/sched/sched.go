// Package sched drives draw calls through the vertex, setup and fragment
// stages across a pool of worker goroutines. Draws enter a bounded ring;
// workers pull primitive tasks (one batch of primitives from the head
// draw) and pixel tasks (one batch crossed with one screen-space
// cluster), with per-cluster ordering enforced so fragment output is
// deterministic regardless of worker count.
package sched

import (
	"log/slog"
	"math/bits"
	"runtime"
	"sync"

	"github.com/gogpu/swrast/internal/frustum"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/setup"
)

type taskType uint8

const (
	taskSuspend taskType = iota
	taskPrimitives
	taskPixels
)

type task struct {
	kind    taskType
	unit    int
	cluster int
}

// primitiveProgress tracks one unit's current batch. references counts
// the clusters that have yet to consume the batch: -1 reserved, 0 free,
// >0 rendering. All fields are guarded by the scheduler mutex.
type primitiveProgress struct {
	drawCall       int64
	firstPrimitive int
	primitiveCount int
	visible        int
	references     int
}

// pixelProgress tracks how far through the draw stream one cluster has
// rendered. Guarded by the scheduler mutex.
type pixelProgress struct {
	drawCall            int64
	processedPrimitives int
	executing           bool
}

// unitScratch is the per-unit working memory: the batch index table, the
// shaded vertices, the setup primitives, and the vertex cache.
type unitScratch struct {
	triangles  [][3]uint32
	vertices   []geom.Vertex
	primitives []geom.Primitive

	cacheTags []uint32
	cacheData []geom.Vertex
	cacheDraw int64
}

func newUnitScratch() *unitScratch {
	u := &unitScratch{
		triangles:  make([][3]uint32, BatchSize),
		vertices:   make([]geom.Vertex, BatchSize*3),
		primitives: make([]geom.Primitive, BatchSize),
		cacheTags:  make([]uint32, vertexCacheSize),
		cacheData:  make([]geom.Vertex, vertexCacheSize),
		cacheDraw:  -1,
	}
	for i := range u.cacheTags {
		u.cacheTags[i] = ^uint32(0)
	}
	return u
}

type worker struct {
	resume chan struct{}
}

// Scheduler owns the draw ring, the task queue, the unit and cluster
// progress records, and one goroutine per worker. A single mutex guards
// the queue and all progress state; workers hold no lock while executing
// a task.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond // draw-slot free / draw retired

	drawList [DrawCount]*DrawCall
	// currentDraw is the draw being carved into primitive batches;
	// nextDraw is where the next submission lands.
	currentDraw int64
	nextDraw    int64
	outstanding int

	taskQueue [TaskCount]task
	qHead     int
	qSize     int

	primProgress []primitiveProgress
	pixProgress  []pixelProgress
	units        []*unitScratch

	workers      []*worker
	threadsAwake int
	exiting      bool
	wg           sync.WaitGroup

	threadCount  int
	clusterCount int
	unitCount    int

	log *slog.Logger
}

// ceilPow2 rounds n up to the next power of two.
func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// New creates a scheduler with workerCount workers (0 means one per
// logical CPU, rounded up to a power of two and capped at 16) and starts
// them suspended.
func New(workerCount int, log *slog.Logger) *Scheduler {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	workerCount = ceilPow2(workerCount)
	if workerCount > 16 {
		workerCount = 16
	}

	s := &Scheduler{
		threadCount:  workerCount,
		clusterCount: workerCount,
		unitCount:    workerCount,
		log:          log,
	}
	s.cond = sync.NewCond(&s.mu)
	s.primProgress = make([]primitiveProgress, s.unitCount)
	s.pixProgress = make([]pixelProgress, s.clusterCount)
	s.units = make([]*unitScratch, s.unitCount)
	s.workers = make([]*worker, s.threadCount)

	s.threadsAwake = s.threadCount
	for i := range s.workers {
		s.workers[i] = &worker{resume: make(chan struct{}, 1)}
	}
	s.wg.Add(s.threadCount)
	for i := range s.workers {
		go s.taskLoop(s.workers[i])
	}
	return s
}

// ClusterCount reports how many screen-space clusters partition the
// scanlines; the draw's DrawData needs one occlusion counter per cluster.
func (s *Scheduler) ClusterCount() int { return s.clusterCount }

// Close retires the workers. Outstanding draws are completed first.
func (s *Scheduler) Close() {
	s.Synchronize()
	s.mu.Lock()
	s.exiting = true
	s.mu.Unlock()
	for _, w := range s.workers {
		select {
		case w.resume <- struct{}{}:
		default:
		}
	}
	s.wg.Wait()
}

// Draw enqueues a prepared draw call, blocking while the ring is full.
// The call's Done channel is closed when it retires.
func (s *Scheduler) Draw(d *DrawCall) {
	if d.count == 0 {
		// Degenerate input: the draw still completes its event group.
		s.finalizeEmpty(d)
		return
	}

	s.mu.Lock()
	slot := s.nextDraw & drawMask
	for s.drawList[slot] != nil && s.drawList[slot].references != -1 {
		s.cond.Wait()
		slot = s.nextDraw & drawMask
	}

	d.references = (d.count + d.batch - 1) / d.batch
	s.drawList[slot] = d
	s.nextDraw++
	s.outstanding++
	s.mu.Unlock()

	if s.log != nil {
		s.log.Debug("draw scheduled", "primitives", d.count, "batch", d.batch)
	}
	s.wake(0)
}

// Synchronize blocks until every submitted draw has retired.
func (s *Scheduler) Synchronize() {
	s.mu.Lock()
	for s.outstanding > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *Scheduler) finalizeEmpty(d *DrawCall) {
	if d.Routine != nil && d.Cache != nil {
		d.Cache.Release(d.Routine)
	}
	if d.Done != nil {
		close(d.Done)
	}
}

func (s *Scheduler) wake(i int) {
	select {
	case s.workers[i].resume <- struct{}{}:
	default:
	}
}

// wakeLocked signals up to n suspended workers. A spurious wake of an
// already-running worker is harmless: its loop re-checks the queue.
func (s *Scheduler) wakeLocked(n int) {
	for i := 0; i < len(s.workers) && n > 0; i++ {
		select {
		case s.workers[i].resume <- struct{}{}:
			n--
		default:
		}
	}
}

func (s *Scheduler) taskLoop(w *worker) {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if s.exiting {
			s.mu.Unlock()
			return
		}

		if s.qSize < s.threadCount-s.threadsAwake+1 {
			s.findAvailableTasksLocked()
		}

		if s.qSize > 0 {
			t := s.taskQueue[(s.qHead-s.qSize)&taskMask]
			s.qSize--
			s.wakeLocked(s.qSize - (s.threadsAwake - 1))
			s.mu.Unlock()

			s.executeTask(t)
			continue
		}

		s.threadsAwake--
		s.mu.Unlock()

		<-w.resume

		s.mu.Lock()
		s.threadsAwake++
		exiting := s.exiting
		s.mu.Unlock()
		if exiting {
			return
		}
	}
}

func (s *Scheduler) enqueueLocked(t task) {
	s.taskQueue[s.qHead] = t
	s.qHead = (s.qHead + 1) & taskMask
	s.qSize++
}

// findAvailableTasksLocked scans clusters for ready pixel work, then
// units for fresh primitive batches. Pixel tasks are only legal when the
// cluster's processed count has caught up to the unit's first primitive,
// which serializes fragment output per cluster in draw order.
func (s *Scheduler) findAvailableTasksLocked() {
	// Pixel tasks.
	for c := range s.pixProgress {
		pp := &s.pixProgress[c]
		if pp.executing {
			continue
		}
		if s.qSize == TaskCount {
			return
		}
		for u := range s.primProgress {
			up := &s.primProgress[u]
			if up.references <= 0 {
				continue
			}
			if pp.drawCall != up.drawCall || pp.processedPrimitives != up.firstPrimitive {
				continue
			}
			s.enqueueLocked(task{kind: taskPixels, unit: u, cluster: c})
			pp.executing = true
			break
		}
	}

	// Primitive tasks.
	if s.currentDraw == s.nextDraw {
		return
	}
	for u := range s.primProgress {
		if s.qSize == TaskCount {
			return
		}

		draw := s.drawList[s.currentDraw&drawMask]
		if draw.primitive >= draw.count {
			s.currentDraw++
			if s.currentDraw == s.nextDraw {
				return
			}
			draw = s.drawList[s.currentDraw&drawMask]
		}

		up := &s.primProgress[u]
		if up.references != 0 {
			continue
		}

		n := draw.count - draw.primitive
		if n > draw.batch {
			n = draw.batch
		}
		if n <= 0 {
			continue
		}

		up.drawCall = s.currentDraw
		up.firstPrimitive = draw.primitive
		up.primitiveCount = n
		up.visible = 0
		up.references = -1
		draw.primitive += n

		s.enqueueLocked(task{kind: taskPrimitives, unit: u})
	}
}

func (s *Scheduler) executeTask(t task) {
	switch t.kind {
	case taskPrimitives:
		s.runPrimitiveTask(t.unit)
	case taskPixels:
		s.runPixelTask(t.unit, t.cluster)
	}
}

func (s *Scheduler) runPrimitiveTask(unit int) {
	s.mu.Lock()
	up := s.primProgress[unit]
	draw := s.drawList[up.drawCall&drawMask]
	scratch := s.units[unit]
	if scratch == nil {
		scratch = newUnitScratch()
		s.units[unit] = scratch
	}
	s.mu.Unlock()

	draw.setBatchIndices(scratch.triangles, up.firstPrimitive, up.primitiveCount)
	s.runVertices(draw, scratch, up.drawCall, up.primitiveCount)

	visible := 0
	if !draw.RasterizerDiscard {
		visible = s.runSetup(draw, scratch, up.primitiveCount)
	}

	s.mu.Lock()
	s.primProgress[unit].visible = visible
	s.primProgress[unit].references = s.clusterCount
	s.mu.Unlock()
}

// runVertices shades the batch's vertices, deduplicating repeated
// indices through the unit's cache. The cache is invalidated when the
// unit moves to a different draw.
func (s *Scheduler) runVertices(draw *DrawCall, u *unitScratch, drawSeq int64, count int) {
	if u.cacheDraw != drawSeq {
		for i := range u.cacheTags {
			u.cacheTags[i] = ^uint32(0)
		}
		u.cacheDraw = drawSeq
	}

	for t := 0; t < count; t++ {
		for k := 0; k < 3; k++ {
			idx := u.triangles[t][k]
			slot := idx & vertexCacheMask
			if u.cacheTags[slot] != idx {
				v := &u.cacheData[slot]
				*v = geom.Vertex{}
				draw.VertexShader(idx, v, draw.Data)
				v.ClipFlags = geom.ComputeClipFlags(v.Position)
				u.cacheTags[slot] = idx
			}
			u.vertices[3*t+k] = u.cacheData[slot]
		}
	}
}

// runSetup builds primitives from the shaded batch, compacting the
// visible ones to the front of the unit's primitive array.
func (s *Scheduler) runSetup(draw *DrawCall, u *unitScratch, count int) int {
	visible := 0
	for t := 0; t < count; t++ {
		v0 := &u.vertices[3*t]
		v1 := &u.vertices[3*t+1]
		v2 := &u.vertices[3*t+2]
		prim := &u.primitives[visible]
		*prim = geom.Primitive{}

		ok := false
		switch draw.SetupKind {
		case SetupTriangles:
			ok = s.setupTriangle(draw, prim, v0, v1, v2)
		case SetupLines:
			if combinedOutside(v0.ClipFlags, v1.ClipFlags) {
				break
			}
			ok = setup.Line(prim, v0, v1, draw.SetupConfig)
		case SetupPoints:
			if v0.ClipFlags&geom.ClipFrustum != 0 {
				break
			}
			ok = setup.Point(prim, v0, v0.PointSize, draw.SetupConfig)
		}
		if ok {
			visible++
		} else if s.log != nil {
			s.log.Debug("primitive discarded during setup")
		}
	}
	return visible
}

func combinedOutside(a, b geom.ClipFlag) bool {
	return a&b&geom.ClipFrustum != 0
}

func (s *Scheduler) setupTriangle(draw *DrawCall, prim *geom.Primitive, v0, v1, v2 *geom.Vertex) bool {
	all := v0.ClipFlags & v1.ClipFlags & v2.ClipFlags
	if all&geom.ClipFrustum != 0 {
		return false // every vertex outside one half-space
	}

	polygon := geom.NewTriangle(&v0.Position, &v1.Position, &v2.Position)

	union := (v0.ClipFlags | v1.ClipFlags | v2.ClipFlags) & geom.ClipFrustum
	if union != 0 {
		if !frustum.Clip(&polygon, union) {
			return false
		}
	}

	tri := geom.Triangle{V0: *v0, V1: *v1, V2: *v2}
	return setup.Triangle(prim, &tri, &polygon, draw.SetupConfig)
}

func (s *Scheduler) runPixelTask(unit, cluster int) {
	s.mu.Lock()
	up := s.primProgress[unit]
	draw := s.drawList[s.pixProgress[cluster].drawCall&drawMask]
	scratch := s.units[unit]
	s.mu.Unlock()

	if up.visible > 0 {
		draw.PixelKernel(scratch.primitives[:up.visible], up.visible, cluster, draw.Data)
	}

	s.finishRendering(unit, cluster)
}

// finishRendering advances the cluster's progress past the unit's batch
// and releases the unit and, eventually, the draw.
func (s *Scheduler) finishRendering(unit, cluster int) {
	s.mu.Lock()

	up := &s.primProgress[unit]
	pp := &s.pixProgress[cluster]
	draw := s.drawList[pp.drawCall&drawMask]

	pp.processedPrimitives = up.firstPrimitive + up.primitiveCount
	if pp.processedPrimitives >= draw.count {
		pp.drawCall++
		pp.processedPrimitives = 0
	}
	pp.executing = false

	up.references--
	if up.references == 0 {
		draw.references--
		if draw.references == 0 {
			s.finishDrawLocked(draw)
		}
	}

	s.mu.Unlock()
}

// finishDrawLocked retires a draw: occlusion counters are summed into the
// attached query, the routine reference is dropped, the event group is
// signalled and the ring slot is freed.
func (s *Scheduler) finishDrawLocked(draw *DrawCall) {
	if draw.Occlusion != nil {
		var sum int64
		for _, c := range draw.Data.Occlusion {
			sum += c
		}
		draw.Occlusion.Add(sum)
	}
	if draw.Routine != nil && draw.Cache != nil {
		draw.Cache.Release(draw.Routine)
	}

	draw.references = -1
	s.outstanding--
	if draw.Done != nil {
		close(draw.Done)
	}
	s.cond.Broadcast()
}
