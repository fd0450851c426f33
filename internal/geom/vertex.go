// Package geom holds the plain-data geometry types shared by clipping,
// setup and rasterization: vertices, the clip-scratch polygon ring,
// plane equations and the triangle primitive with its span table.
package geom

// MaxClipDistances is the maximum number of user clip distances per vertex.
const MaxClipDistances = 8

// MaxCullDistances is the maximum number of user cull distances per vertex.
const MaxCullDistances = 8

// MaxInterfaceComponents is the maximum number of interpolated scalar
// components carried per vertex.
const MaxInterfaceComponents = 128

// ClipFlag is a bitmask of violated frustum half-spaces plus FINITE.
type ClipFlag uint32

// Clip flag bit assignment, fixed by the wire contract.
const (
	ClipRight ClipFlag = 1 << iota
	ClipTop
	ClipFar
	ClipLeft
	ClipBottom
	ClipNear
	_reserved6
	ClipFinite

	ClipFrustum = ClipRight | ClipTop | ClipFar | ClipLeft | ClipBottom | ClipNear
)

// Vec4 is a homogeneous clip-space coordinate.
type Vec4 struct {
	X, Y, Z, W float32
}

// Projected is the window-space tuple produced by setup's subpixel snap:
// two fixed-point ints (subpixel units) and the original depth/reciprocal-w.
type Projected struct {
	X, Y int32
	Z, W float32
}

// Vertex is the output of the vertex kernel: a homogeneous position, point
// size, clip/cull state, the window-space projection, and a dense array of
// shader-interpolated components. Vertices are immutable once produced.
type Vertex struct {
	Position Vec4

	PointSize float32

	ClipFlags ClipFlag
	CullMask  uint32

	ClipDistance [MaxClipDistances]float32
	CullDistance [MaxCullDistances]float32

	Projected Projected

	V [MaxInterfaceComponents]float32
}

// ComputeClipFlags returns which of the six frustum half-spaces a
// homogeneous position violates, plus the FINITE bit.
func ComputeClipFlags(v Vec4) ClipFlag {
	var f ClipFlag
	if v.X > v.W {
		f |= ClipRight
	}
	if v.Y > v.W {
		f |= ClipTop
	}
	if v.Z > v.W {
		f |= ClipFar
	}
	if v.X < -v.W {
		f |= ClipLeft
	}
	if v.Y < -v.W {
		f |= ClipBottom
	}
	if v.Z < 0 {
		f |= ClipNear
	}
	f |= ClipFinite // TODO: clear for non-finite positions so they always clip.
	return f
}
