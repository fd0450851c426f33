package swrast

// PipelineConfig holds the process-wide rendering conventions, fixed at
// device creation and shared immutably by every routine generator and
// pipeline stage.
type PipelineConfig struct {
	// PerspectiveCorrection interpolates varyings in 1/w space.
	PerspectiveCorrection bool

	// HalfIntegerCoordinates places pixel centers at half-integer window
	// coordinates; when false the viewport transform shifts by half a
	// pixel so integer coordinates land on centers.
	HalfIntegerCoordinates bool

	// SymmetricNormalizedDepth maps normalized device z from [-1, 1]
	// instead of [0, 1] onto the viewport depth range.
	SymmetricNormalizedDepth bool

	// ComplementaryDepthBuffer stores 1-z, inverting the sense of the
	// depth range mapping.
	ComplementaryDepthBuffer bool
}

// OpenGLConventions returns the configuration matching OpenGL-style
// coordinate and depth conventions.
func OpenGLConventions() PipelineConfig {
	return PipelineConfig{
		PerspectiveCorrection:    true,
		HalfIntegerCoordinates:   true,
		SymmetricNormalizedDepth: true,
	}
}

// VulkanConventions returns the configuration matching Vulkan-style
// conventions; this is the device default.
func VulkanConventions() PipelineConfig {
	return PipelineConfig{
		PerspectiveCorrection:  true,
		HalfIntegerCoordinates: true,
	}
}
