package swrast

import (
	"github.com/gogpu/swrast/internal/fragment"
	"github.com/gogpu/swrast/internal/pixelstate"
	"github.com/gogpu/swrast/internal/sched"
)

// Device owns the worker pool, the draw ring and the generated-routine
// cache. A Device is safe for concurrent use; draws submitted from one
// goroutine retire in submission order per pixel.
type Device struct {
	config PipelineConfig

	scheduler *sched.Scheduler
	cache     *pixelstate.RoutineCache
}

// NewDevice creates a device with the given options and starts its
// workers.
func NewDevice(opts ...Option) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Device{config: o.config}
	d.cache = pixelstate.NewRoutineCache(o.cacheCapacity, func(key pixelstate.StateKey) any {
		Logger().Debug("generating pixel routine")
		return fragment.Generate(key)
	})
	d.scheduler = sched.New(o.workerCount, Logger())
	return d
}

// Config returns the device's immutable rendering conventions.
func (d *Device) Config() PipelineConfig { return d.config }

// Synchronize blocks until every submitted draw has retired, then
// refreshes the routine cache's lock-free snapshot.
func (d *Device) Synchronize() {
	d.scheduler.Synchronize()
	d.cache.PublishSnapshot()
}

// Close completes outstanding draws and stops the workers.
func (d *Device) Close() {
	d.scheduler.Close()
}
