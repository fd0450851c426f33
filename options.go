package swrast

// deviceOptions collects the configurable knobs of NewDevice.
type deviceOptions struct {
	workerCount   int
	cacheCapacity int
	config        PipelineConfig
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		workerCount:   0, // one per logical CPU
		cacheCapacity: 64,
		config:        VulkanConventions(),
	}
}

// Option configures a Device at creation time.
type Option func(*deviceOptions)

// WithWorkerCount fixes the number of worker goroutines. Zero (the
// default) uses one per logical CPU, rounded up to a power of two.
func WithWorkerCount(n int) Option {
	return func(o *deviceOptions) { o.workerCount = n }
}

// WithRoutineCacheCapacity bounds the number of generated pixel routines
// kept resident.
func WithRoutineCacheCapacity(n int) Option {
	return func(o *deviceOptions) { o.cacheCapacity = n }
}

// WithPipelineConfig selects the device's rendering conventions.
func WithPipelineConfig(cfg PipelineConfig) Option {
	return func(o *deviceOptions) { o.config = cfg }
}
