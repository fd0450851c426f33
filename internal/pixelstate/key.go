// Package pixelstate canonicalizes per-draw pipeline state into a
// comparable key and caches the generated fragment routine for that key.
// The key uses named fields rather than raw byte comparison: byte-layout
// equality is fragile across padding and alignment and obscures what
// actually participates in routine identity.
package pixelstate

import (
	"hash/maphash"

	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/types"
)

// MaxColorTargets mirrors the public swrast.MaxColorBuffers without an
// import cycle back to the root package.
const MaxColorTargets = 8

// ColorTarget is the per-attachment slice of the state key: whether the
// attachment is bound, its format, its channel write mask, and its
// resolved blend state.
type ColorTarget struct {
	Present   bool
	Format    types.Format
	WriteMask uint8
	Blend     blend.State
}

// StateKey is everything that can change which fragment routine a draw
// needs: topology and polygon mode, the enabled test/blend/logic state,
// per-target write masks and formats, sample state, and which
// interpolant components are flat or centroid-sampled. Two draws with
// equal StateKeys are guaranteed to want the identical generated routine.
//
// Keys must be canonicalized (see Canonicalize) before hashing so that
// fields irrelevant to a configuration cannot split the cache.
type StateKey struct {
	Topology    types.Topology
	PolygonMode types.PolygonMode
	CullMode    types.CullMode

	// FrontFaceClockwise selects which winding the two-sided stencil
	// masks treat as front-facing.
	FrontFaceClockwise bool

	DepthTestEnable  bool
	DepthWriteEnable bool
	DepthCompareOp   types.CompareOp
	DepthBoundsTest  bool

	StencilTestEnable bool
	StencilFrontOp    StencilOpState
	StencilBackOp     StencilOpState

	LogicOpEnable bool
	LogicOp       types.LogicOp

	Targets [MaxColorTargets]ColorTarget

	SampleCount     uint8
	SampleMask      uint32
	AlphaToCoverage bool

	OcclusionEnable bool

	// FlatMask/CentroidMask are bitmasks over the first 64 interpolant
	// components; components beyond that are always treated as non-flat,
	// non-centroid by the routine generator.
	FlatMask     uint64
	CentroidMask uint64
}

// StencilOpState is the subset of per-face stencil configuration that
// affects routine generation.
type StencilOpState struct {
	CompareOp   types.CompareOp
	FailOp      types.StencilOp
	PassOp      types.StencilOp
	DepthFailOp types.StencilOp
}

// Canonicalize forces fields that cannot affect the generated routine in
// this configuration to their zero values, so logically identical states
// compare and hash identically. It is idempotent.
func (k StateKey) Canonicalize() StateKey {
	out := k

	if !out.DepthTestEnable {
		out.DepthCompareOp = 0
		out.DepthWriteEnable = false
	}
	if !out.StencilTestEnable {
		out.StencilFrontOp = StencilOpState{}
		out.StencilBackOp = StencilOpState{}
	}
	if !out.LogicOpEnable {
		out.LogicOp = 0
	}

	if out.SampleCount < 1 {
		out.SampleCount = 1
	}
	out.SampleMask &= 1<<out.SampleCount - 1
	if out.SampleCount == 1 {
		out.AlphaToCoverage = false
	}

	for i := range out.Targets {
		t := &out.Targets[i]
		if !t.Present {
			*t = ColorTarget{}
			continue
		}
		if out.LogicOpEnable {
			// A logic op replaces blending entirely.
			t.Blend = blend.Disabled
		} else {
			t.Blend = blend.Resolve(t.Blend, t.Format, true)
		}
		if t.WriteMask == 0 {
			// A write-masked-off target contributes nothing but its
			// presence (it still participates in occlusion/coverage).
			t.Blend = blend.Disabled
		}
	}

	return out
}

var hashSeed = maphash.MakeSeed()

// Hash returns a hash of k suitable for bucketing in the routine cache.
// It is defined over the same fields Equal compares, so equal keys always
// hash equal.
func (k StateKey) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)

	write := func(v uint64) {
		var buf [8]byte
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}

	write(uint64(k.Topology)<<32 | uint64(k.PolygonMode)<<16 | uint64(k.CullMode))
	write(boolU64(k.FrontFaceClockwise)<<0 |
		boolU64(k.DepthTestEnable)<<1 | boolU64(k.DepthWriteEnable)<<2 | boolU64(k.DepthBoundsTest)<<3 |
		boolU64(k.StencilTestEnable)<<4 | boolU64(k.LogicOpEnable)<<5 |
		boolU64(k.AlphaToCoverage)<<6 | boolU64(k.OcclusionEnable)<<7)
	write(uint64(k.DepthCompareOp))
	write(stencilU64(k.StencilFrontOp))
	write(stencilU64(k.StencilBackOp))
	write(uint64(k.LogicOp))
	for _, t := range k.Targets {
		write(boolU64(t.Present) | uint64(t.Format)<<8 | uint64(t.WriteMask)<<24 | boolU64(t.Blend.Enable)<<32)
		write(blendU64(t.Blend))
	}
	write(uint64(k.SampleCount)<<32 | uint64(k.SampleMask))
	write(k.FlatMask)
	write(k.CentroidMask)

	return h.Sum64()
}

func stencilU64(s StencilOpState) uint64 {
	return uint64(uint8(s.CompareOp))<<24 | uint64(uint8(s.FailOp))<<16 | uint64(uint8(s.PassOp))<<8 | uint64(uint8(s.DepthFailOp))
}

func blendU64(b blend.State) uint64 {
	return uint64(uint8(b.SrcColor))<<56 | uint64(uint8(b.DstColor))<<48 | uint64(uint8(b.ColorOp))<<40 |
		uint64(uint8(b.SrcAlpha))<<32 | uint64(uint8(b.DstAlpha))<<24 | uint64(uint8(b.AlphaOp))<<16
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Equal reports whether k and other describe the same routine identity.
func (k StateKey) Equal(other StateKey) bool {
	return k == other
}
