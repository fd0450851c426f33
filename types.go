package swrast

import (
	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/fragment"
	"github.com/gogpu/swrast/internal/geom"
	"github.com/gogpu/swrast/internal/types"
)

// Geometry types shared with the internal pipeline stages.
type (
	// Vec4 is a homogeneous clip-space coordinate.
	Vec4 = geom.Vec4
	// Vertex is the vertex shader's output record.
	Vertex = geom.Vertex
	// Color is an unclamped linear RGBA color.
	Color = blend.RGBA
)

// Fragment-shader interface types.
type (
	// FragmentInput carries the interpolated inputs of one invocation.
	FragmentInput = fragment.Invocation
	// FragmentOutput receives colors, optional depth, and the kill flag.
	FragmentOutput = fragment.Output
	// FragmentShader is invoked once per covered pixel.
	FragmentShader = fragment.Shader
)

// VertexShader produces the vertex for an index. Results are cached in a
// small direct-mapped per-worker cache, so a reused index runs the shader
// again only when another index has taken its cache slot in between.
type VertexShader func(index uint32, v *Vertex, pushConstants []byte)

// Topology selects how vertices group into primitives.
type Topology = types.Topology

// Primitive topologies.
const (
	PointList     = types.PointList
	LineList      = types.LineList
	LineStrip     = types.LineStrip
	TriangleList  = types.TriangleList
	TriangleStrip = types.TriangleStrip
	TriangleFan   = types.TriangleFan
)

// CullMode is a bitmask of faces to discard.
type CullMode = types.CullMode

// Cull modes.
const (
	CullNone         = types.CullNone
	CullFront        = types.CullFront
	CullBack         = types.CullBack
	CullFrontAndBack = types.CullFrontAndBack
)

// FrontFace selects the front-facing winding order.
type FrontFace = types.FrontFace

// Winding conventions.
const (
	CounterClockwise = types.CounterClockwise
	Clockwise        = types.Clockwise
)

// PolygonMode selects how triangles rasterize.
type PolygonMode = types.PolygonMode

// Polygon modes.
const (
	PolygonFill  = types.PolygonFill
	PolygonLine  = types.PolygonLine
	PolygonPoint = types.PolygonPoint
)

// CompareOp is the comparison used by depth, stencil and depth-bounds
// tests.
type CompareOp = types.CompareOp

// Compare operations.
const (
	CompareNever          = types.CompareNever
	CompareLess           = types.CompareLess
	CompareEqual          = types.CompareEqual
	CompareLessOrEqual    = types.CompareLessOrEqual
	CompareGreater        = types.CompareGreater
	CompareNotEqual       = types.CompareNotEqual
	CompareGreaterOrEqual = types.CompareGreaterOrEqual
	CompareAlways         = types.CompareAlways
)

// StencilOp is a stencil-buffer update operation.
type StencilOp = types.StencilOp

// Stencil operations.
const (
	StencilKeep           = types.StencilKeep
	StencilZero           = types.StencilZero
	StencilReplace        = types.StencilReplace
	StencilIncrementClamp = types.StencilIncrementClamp
	StencilDecrementClamp = types.StencilDecrementClamp
	StencilInvert         = types.StencilInvert
	StencilIncrementWrap  = types.StencilIncrementWrap
	StencilDecrementWrap  = types.StencilDecrementWrap
)

// BlendFactor weights the source or destination term of a blend.
type BlendFactor = types.BlendFactor

// Blend factors.
const (
	FactorZero                  = types.FactorZero
	FactorOne                   = types.FactorOne
	FactorSrcColor              = types.FactorSrcColor
	FactorOneMinusSrcColor      = types.FactorOneMinusSrcColor
	FactorDstColor              = types.FactorDstColor
	FactorOneMinusDstColor      = types.FactorOneMinusDstColor
	FactorSrcAlpha              = types.FactorSrcAlpha
	FactorOneMinusSrcAlpha      = types.FactorOneMinusSrcAlpha
	FactorDstAlpha              = types.FactorDstAlpha
	FactorOneMinusDstAlpha      = types.FactorOneMinusDstAlpha
	FactorConstantColor         = types.FactorConstantColor
	FactorOneMinusConstantColor = types.FactorOneMinusConstantColor
	FactorConstantAlpha         = types.FactorConstantAlpha
	FactorOneMinusConstantAlpha = types.FactorOneMinusConstantAlpha
	FactorSrcAlphaSaturate      = types.FactorSrcAlphaSaturate
)

// BlendOp combines the weighted source and destination terms.
type BlendOp = types.BlendOp

// Blend operations, including the advanced separable and HSL equations.
const (
	BlendOpAdd             = types.BlendOpAdd
	BlendOpSubtract        = types.BlendOpSubtract
	BlendOpReverseSubtract = types.BlendOpReverseSubtract
	BlendOpMin             = types.BlendOpMin
	BlendOpMax             = types.BlendOpMax
	BlendOpMultiply        = types.BlendOpMultiply
	BlendOpScreen          = types.BlendOpScreen
	BlendOpOverlay         = types.BlendOpOverlay
	BlendOpDarken          = types.BlendOpDarken
	BlendOpLighten         = types.BlendOpLighten
	BlendOpColorDodge      = types.BlendOpColorDodge
	BlendOpColorBurn       = types.BlendOpColorBurn
	BlendOpHardLight       = types.BlendOpHardLight
	BlendOpSoftLight       = types.BlendOpSoftLight
	BlendOpDifference      = types.BlendOpDifference
	BlendOpExclusion       = types.BlendOpExclusion
	BlendOpHSLHue          = types.BlendOpHSLHue
	BlendOpHSLSaturation   = types.BlendOpHSLSaturation
	BlendOpHSLColor        = types.BlendOpHSLColor
	BlendOpHSLLuminosity   = types.BlendOpHSLLuminosity
)

// LogicOp is a bitwise framebuffer operation replacing blending.
type LogicOp = types.LogicOp

// Logic operations.
const (
	LogicClear        = types.LogicClear
	LogicAnd          = types.LogicAnd
	LogicAndReverse   = types.LogicAndReverse
	LogicCopy         = types.LogicCopy
	LogicAndInverted  = types.LogicAndInverted
	LogicNoOp         = types.LogicNoOp
	LogicXor          = types.LogicXor
	LogicOr           = types.LogicOr
	LogicNor          = types.LogicNor
	LogicEquivalent   = types.LogicEquivalent
	LogicInvert       = types.LogicInvert
	LogicOrReverse    = types.LogicOrReverse
	LogicCopyInverted = types.LogicCopyInverted
	LogicOrInverted   = types.LogicOrInverted
	LogicNand         = types.LogicNand
	LogicSet          = types.LogicSet
)

// IndexType is the width of an index buffer element.
type IndexType = types.IndexType

// Index widths.
const (
	IndexUint16 = types.IndexUint16
	IndexUint32 = types.IndexUint32
)

// Format is an attachment pixel format.
type Format = types.Format

// Attachment formats.
const (
	FormatRGBA8Unorm        = types.FormatRGBA8Unorm
	FormatBGRA8Unorm        = types.FormatBGRA8Unorm
	FormatRGBA32Float       = types.FormatRGBA32Float
	FormatR5G6B5Unorm       = types.FormatR5G6B5Unorm
	FormatR16G16Unorm       = types.FormatR16G16Unorm
	FormatR16G16B16A16Unorm = types.FormatR16G16B16A16Unorm
	FormatD32Float          = types.FormatD32Float
	FormatD24UnormS8Uint    = types.FormatD24UnormS8Uint
)
