// Package blend resolves per-attachment blend configuration into a
// canonical effective state and evaluates it on floating-point colors.
// Canonicalisation runs at pipeline-creation time so that logically
// identical blend configurations hash to identical pixel-state keys;
// evaluation runs per fragment inside the generated pixel routine.
package blend

import "github.com/gogpu/swrast/internal/types"

// State is the per-attachment blend configuration before or after
// canonicalisation.
type State struct {
	Enable bool

	SrcColor types.BlendFactor
	DstColor types.BlendFactor
	ColorOp  types.BlendOp

	SrcAlpha types.BlendFactor
	DstAlpha types.BlendFactor
	AlphaOp  types.BlendOp
}

// Disabled is the canonical form of "no blending".
var Disabled = State{
	SrcColor: types.FactorOne,
	DstColor: types.FactorZero,
	ColorOp:  types.BlendOpAdd,
	SrcAlpha: types.FactorOne,
	DstAlpha: types.FactorZero,
	AlphaOp:  types.BlendOpAdd,
}

// Resolve produces the canonical effective blend state for an attachment
// of the given format. The result is a fixed point of Resolve: resolving
// an already-resolved state returns it unchanged.
func Resolve(s State, format types.Format, attachmentPresent bool) State {
	if !s.Enable || !attachmentPresent {
		return Disabled
	}

	out := s

	// Advanced blend equations define their own source/destination
	// weighting, so the factors collapse to ONE.
	if out.ColorOp.IsAdvanced() {
		out.SrcColor = types.FactorOne
		out.DstColor = types.FactorOne
	}
	if out.AlphaOp.IsAdvanced() {
		out.SrcAlpha = types.FactorOne
		out.DstAlpha = types.FactorOne
	}

	// MIN and MAX ignore the blend factors entirely.
	if out.ColorOp == types.BlendOpMin || out.ColorOp == types.BlendOpMax {
		out.SrcColor = types.FactorOne
		out.DstColor = types.FactorOne
	}
	if out.AlphaOp == types.BlendOpMin || out.AlphaOp == types.BlendOpMax {
		out.SrcAlpha = types.FactorOne
		out.DstAlpha = types.FactorOne
	}

	out.ColorOp, out.SrcColor, out.DstColor = canonicalizeEquation(out.ColorOp, out.SrcColor, out.DstColor, format)
	out.AlphaOp, out.SrcAlpha, out.DstAlpha = canonicalizeEquation(out.AlphaOp, out.SrcAlpha, out.DstAlpha, format)

	// If both halves reduced to a plain copy of the source, blending is
	// indistinguishable from disabled.
	if out.ColorOp == opSrc && out.AlphaOp == opSrc {
		return Disabled
	}

	return out
}

// Pseudo-ops produced by canonicalisation: the evaluator special-cases
// them so no factor multiplies survive for trivial equations. They reuse
// the BlendOp value space above the last real equation.
const (
	opSrc  types.BlendOp = -1 // result = source
	opDst  types.BlendOp = -2 // result = destination
	opZero types.BlendOp = -3 // result = 0
)

func canonicalizeEquation(op types.BlendOp, src, dst types.BlendFactor, format types.Format) (types.BlendOp, types.BlendFactor, types.BlendFactor) {
	if op == types.BlendOpAdd {
		switch {
		case src == types.FactorZero && dst == types.FactorZero:
			return opZero, types.FactorOne, types.FactorZero
		case src == types.FactorOne && dst == types.FactorZero:
			return opSrc, types.FactorOne, types.FactorZero
		case src == types.FactorZero && dst == types.FactorOne:
			return opDst, types.FactorOne, types.FactorZero
		}
	}

	// On an unsigned-normalised destination a subtractive equation whose
	// surviving term is the negated one can only produce values that clamp
	// to zero.
	if format.IsUnsignedNormalized() {
		if op == types.BlendOpSubtract && src == types.FactorZero {
			return opZero, types.FactorOne, types.FactorZero
		}
		if op == types.BlendOpReverseSubtract && dst == types.FactorZero {
			return opZero, types.FactorOne, types.FactorZero
		}
	}

	return op, src, dst
}
