package geom

// Triangle is the triangle-form input to setup: the three reconstructed
// vertices produced by clipping/reprojection.
type Triangle struct {
	V0, V1, V2 Vertex
}

// Span is a (left, right) pair of x-coordinates bounding the pixels
// rasterized for one scanline.
type Span struct {
	Left, Right uint16
}

// Primitive is the output of setup: a y-range, plane equations for z, w and
// every interpolant/clip/cull distance, the two-sided stencil winding masks,
// and a span table wide enough that the quad rasterizer can unconditionally
// read y-1, y, y+1.
type Primitive struct {
	YMin, YMax int32

	Z Plane
	W Plane
	V [MaxInterfaceComponents]Plane

	ClipDistance [MaxClipDistances]Plane
	CullDistance [MaxCullDistances]Plane

	// Masks for two-sided stencil: all bits set when the primitive is
	// clockwise (resp. counter-clockwise), zero otherwise.
	ClockwiseMask    uint64
	InvClockwiseMask uint64

	Y0 int32 // vertical offset used for multisample-pattern relative addressing

	DepthBias float32

	// Underflow/overflow are one-row padding replicated from the first and
	// last valid scanline so the rasterizer can read row-1 and row+1
	// unconditionally.
	OutlineUnderflow [2]Span
	Outline          [OutlineResolution]Span
	OutlineOverflow  [2]Span
}

// OutlineResolution is the maximum vertical render-target extent.
const OutlineResolution = 8192
