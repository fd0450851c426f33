// Package types holds the small enumerations shared across the pipeline's
// internal packages (topology, culling, compare/stencil/blend/logic ops)
// so that setup, the pixel state key, and blend resolution agree on a
// single vocabulary without import cycles back to the public API.
package types

// Topology selects how indices are grouped into triangles for setup.
type Topology int

const (
	PointList Topology = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
	TriangleFan
)

// IndexType is the width of an index buffer element.
type IndexType int

const (
	IndexUint16 IndexType = iota
	IndexUint32
)

// CullMode is a bitmask of faces to discard.
type CullMode uint8

const (
	CullNone  CullMode = 0
	CullFront CullMode = 1 << 0
	CullBack  CullMode = 1 << 1
	CullFrontAndBack = CullFront | CullBack
)

// FrontFace selects which winding order is considered front-facing.
type FrontFace int

const (
	CounterClockwise FrontFace = iota
	Clockwise
)

// PolygonMode selects how a triangle primitive is rasterized.
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

// CompareOp mirrors VkCompareOp for depth/stencil/alpha tests.
type CompareOp int

const (
	CompareNever CompareOp = iota
	CompareLess
	CompareEqual
	CompareLessOrEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterOrEqual
	CompareAlways
)

// Eval returns whether lhs compares true to rhs under op.
func (op CompareOp) Eval(lhs, rhs float32) bool {
	switch op {
	case CompareNever:
		return false
	case CompareLess:
		return lhs < rhs
	case CompareEqual:
		return lhs == rhs
	case CompareLessOrEqual:
		return lhs <= rhs
	case CompareGreater:
		return lhs > rhs
	case CompareNotEqual:
		return lhs != rhs
	case CompareGreaterOrEqual:
		return lhs >= rhs
	case CompareAlways:
		return true
	}
	return false
}

// StencilOp mirrors VkStencilOp.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrementClamp
	StencilDecrementClamp
	StencilInvert
	StencilIncrementWrap
	StencilDecrementWrap
)

// Apply returns the new stencil value for current given op and reference.
func (op StencilOp) Apply(current, reference uint8) uint8 {
	switch op {
	case StencilKeep:
		return current
	case StencilZero:
		return 0
	case StencilReplace:
		return reference
	case StencilIncrementClamp:
		if current == 0xFF {
			return current
		}
		return current + 1
	case StencilDecrementClamp:
		if current == 0 {
			return current
		}
		return current - 1
	case StencilInvert:
		return ^current
	case StencilIncrementWrap:
		return current + 1
	case StencilDecrementWrap:
		return current - 1
	}
	return current
}

// BlendFactor mirrors VkBlendFactor.
type BlendFactor int

const (
	FactorZero BlendFactor = iota
	FactorOne
	FactorSrcColor
	FactorOneMinusSrcColor
	FactorDstColor
	FactorOneMinusDstColor
	FactorSrcAlpha
	FactorOneMinusSrcAlpha
	FactorDstAlpha
	FactorOneMinusDstAlpha
	FactorConstantColor
	FactorOneMinusConstantColor
	FactorConstantAlpha
	FactorOneMinusConstantAlpha
	FactorSrcAlphaSaturate
)

// BlendOp mirrors VkBlendOp, including the advanced blend equations
// (multiply/screen/etc.), which force both factors to ONE.
type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax

	// Advanced (separable) blend equations.
	BlendOpMultiply
	BlendOpScreen
	BlendOpOverlay
	BlendOpDarken
	BlendOpLighten
	BlendOpColorDodge
	BlendOpColorBurn
	BlendOpHardLight
	BlendOpSoftLight
	BlendOpDifference
	BlendOpExclusion

	// Advanced (non-separable) HSL blend equations.
	BlendOpHSLHue
	BlendOpHSLSaturation
	BlendOpHSLColor
	BlendOpHSLLuminosity
)

// IsAdvanced reports whether op is one of the non-Porter-Duff advanced
// blend equations, which force both src/dst factors to ONE.
func (op BlendOp) IsAdvanced() bool {
	return op >= BlendOpMultiply
}

// LogicOp mirrors VkLogicOp.
type LogicOp int

const (
	LogicClear LogicOp = iota
	LogicAnd
	LogicAndReverse
	LogicCopy
	LogicAndInverted
	LogicNoOp
	LogicXor
	LogicOr
	LogicNor
	LogicEquivalent
	LogicInvert
	LogicOrReverse
	LogicCopyInverted
	LogicOrInverted
	LogicNand
	LogicSet
)

// Apply performs the bitwise logic operation between src and dst bytes.
func (op LogicOp) Apply(src, dst byte) byte {
	switch op {
	case LogicClear:
		return 0
	case LogicAnd:
		return src & dst
	case LogicAndReverse:
		return src &^ dst
	case LogicCopy:
		return src
	case LogicAndInverted:
		return ^src & dst
	case LogicNoOp:
		return dst
	case LogicXor:
		return src ^ dst
	case LogicOr:
		return src | dst
	case LogicNor:
		return ^(src | dst)
	case LogicEquivalent:
		return ^(src ^ dst)
	case LogicInvert:
		return ^dst
	case LogicOrReverse:
		return src | ^dst
	case LogicCopyInverted:
		return ^src
	case LogicOrInverted:
		return ^src | dst
	case LogicNand:
		return ^(src & dst)
	case LogicSet:
		return 0xFF
	}
	return dst
}

// Format is a minimal attachment pixel-format vocabulary sufficient for
// the multisample resolve dispatch table and write-mask semantics.
// It mirrors the subset of github.com/gogpu/gputypes.TextureFormat this
// core actually interprets; FormatFromTexture in the root package's
// surface.go holds the mapping.
type Format int

const (
	FormatRGBA8Unorm Format = iota
	FormatBGRA8Unorm
	FormatRGBA32Float
	FormatR5G6B5Unorm
	FormatR16G16Unorm
	FormatR16G16B16A16Unorm
	FormatD32Float
	FormatD24UnormS8Uint
)

// IsUnsignedNormalized reports whether a format's channels are clamped to
// [0, 1] and stored as unsigned integers, which lets subtractive blend
// equations that can only go negative collapse to zero.
func (f Format) IsUnsignedNormalized() bool {
	switch f {
	case FormatRGBA8Unorm, FormatBGRA8Unorm, FormatR5G6B5Unorm, FormatR16G16Unorm, FormatR16G16B16A16Unorm:
		return true
	}
	return false
}
