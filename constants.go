package swrast

import "github.com/gogpu/swrast/internal/geom"

// Bit-exact geometry constants shared by every stage of the pipeline.
const (
	// SubpixelPrecisionBits is the number of fractional bits used to snap
	// window-space coordinates to a fixed-point grid.
	SubpixelPrecisionBits = 4
	// SubpixelPrecisionFactor is 1 << SubpixelPrecisionBits.
	SubpixelPrecisionFactor = 16
	// SubpixelPrecisionMask masks off the fractional bits of a subpixel value.
	SubpixelPrecisionMask = 15

	// OutlineResolution is the maximum vertical render-target extent a
	// primitive's span table can address.
	OutlineResolution = 8192

	// MaxClipDistances is the maximum number of user clip distances.
	MaxClipDistances = geom.MaxClipDistances
	// MaxCullDistances is the maximum number of user cull distances.
	MaxCullDistances = geom.MaxCullDistances

	// MaxColorBuffers is the maximum number of simultaneous color attachments.
	MaxColorBuffers = 8

	// MaxInterfaceComponents is the maximum number of interpolated scalar
	// components a vertex can carry; must be a multiple of 4.
	MaxInterfaceComponents = geom.MaxInterfaceComponents

	// DrawCount is the number of buffered draw-call slots; must be a power of two.
	DrawCount = 16
	// TaskCount is the size of the scheduler's task queue; must be a power of two.
	TaskCount = 32
	// BatchSize is the maximum number of triangles processed by one primitive task.
	BatchSize = 128

	// MaxPointSize bounds point-sprite expansion.
	MaxPointSize = 256
)

// ClipFlag is a bitmask of violated frustum half-spaces plus the FINITE bit.
type ClipFlag = geom.ClipFlag

// Clip flag bit assignment, fixed by the wire contract.
const (
	ClipRight   = geom.ClipRight
	ClipTop     = geom.ClipTop
	ClipFar     = geom.ClipFar
	ClipLeft    = geom.ClipLeft
	ClipBottom  = geom.ClipBottom
	ClipNear    = geom.ClipNear
	ClipFinite  = geom.ClipFinite
	ClipFrustum = geom.ClipFrustum
)
