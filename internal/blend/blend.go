package blend

import "github.com/gogpu/swrast/internal/types"

// RGBA is an unclamped linear color, one float32 per channel. Fragment
// processing keeps colors in this form until the final write-mask/pack
// step so intermediate blend math never loses range.
type RGBA struct {
	R, G, B, A float32
}

// Constants holds the pipeline blend-constant color referenced by the
// CONSTANT_* factors, pre-split so the inverse forms need no per-fragment
// subtraction.
type Constants struct {
	Color    RGBA
	InvColor RGBA
}

// NewConstants precomputes both forms of the blend-constant color.
func NewConstants(c RGBA) Constants {
	return Constants{
		Color:    c,
		InvColor: RGBA{1 - c.R, 1 - c.G, 1 - c.B, 1 - c.A},
	}
}

// factorColor returns the RGB weighting for f.
func factorColor(f types.BlendFactor, src, dst RGBA, k *Constants) (r, g, b float32) {
	switch f {
	case types.FactorZero:
		return 0, 0, 0
	case types.FactorOne:
		return 1, 1, 1
	case types.FactorSrcColor:
		return src.R, src.G, src.B
	case types.FactorOneMinusSrcColor:
		return 1 - src.R, 1 - src.G, 1 - src.B
	case types.FactorDstColor:
		return dst.R, dst.G, dst.B
	case types.FactorOneMinusDstColor:
		return 1 - dst.R, 1 - dst.G, 1 - dst.B
	case types.FactorSrcAlpha:
		return src.A, src.A, src.A
	case types.FactorOneMinusSrcAlpha:
		a := 1 - src.A
		return a, a, a
	case types.FactorDstAlpha:
		return dst.A, dst.A, dst.A
	case types.FactorOneMinusDstAlpha:
		a := 1 - dst.A
		return a, a, a
	case types.FactorConstantColor:
		return k.Color.R, k.Color.G, k.Color.B
	case types.FactorOneMinusConstantColor:
		return k.InvColor.R, k.InvColor.G, k.InvColor.B
	case types.FactorConstantAlpha:
		return k.Color.A, k.Color.A, k.Color.A
	case types.FactorOneMinusConstantAlpha:
		return k.InvColor.A, k.InvColor.A, k.InvColor.A
	case types.FactorSrcAlphaSaturate:
		a := min32(src.A, 1-dst.A)
		return a, a, a
	}
	return 0, 0, 0
}

// factorAlpha returns the alpha weighting for f.
func factorAlpha(f types.BlendFactor, src, dst RGBA, k *Constants) float32 {
	switch f {
	case types.FactorZero:
		return 0
	case types.FactorOne, types.FactorSrcAlphaSaturate:
		return 1
	case types.FactorSrcColor, types.FactorSrcAlpha:
		return src.A
	case types.FactorOneMinusSrcColor, types.FactorOneMinusSrcAlpha:
		return 1 - src.A
	case types.FactorDstColor, types.FactorDstAlpha:
		return dst.A
	case types.FactorOneMinusDstColor, types.FactorOneMinusDstAlpha:
		return 1 - dst.A
	case types.FactorConstantColor, types.FactorConstantAlpha:
		return k.Color.A
	case types.FactorOneMinusConstantColor, types.FactorOneMinusConstantAlpha:
		return k.InvColor.A
	}
	return 0
}

// Apply evaluates the canonical blend state for one fragment: src is the
// shader output, dst the current attachment value. The state must have
// been through Resolve.
func Apply(s *State, src, dst RGBA, k *Constants) RGBA {
	var out RGBA
	out.R, out.G, out.B = applyColor(s, src, dst, k)
	out.A = applyAlpha(s, src, dst, k)
	return out
}

func applyColor(s *State, src, dst RGBA, k *Constants) (r, g, b float32) {
	switch s.ColorOp {
	case opSrc:
		return src.R, src.G, src.B
	case opDst:
		return dst.R, dst.G, dst.B
	case opZero:
		return 0, 0, 0
	case types.BlendOpMin:
		return min32(src.R, dst.R), min32(src.G, dst.G), min32(src.B, dst.B)
	case types.BlendOpMax:
		return max32(src.R, dst.R), max32(src.G, dst.G), max32(src.B, dst.B)
	}

	if s.ColorOp.IsAdvanced() {
		return applyAdvanced(s.ColorOp, src, dst)
	}

	sr, sg, sb := factorColor(s.SrcColor, src, dst, k)
	dr, dg, db := factorColor(s.DstColor, src, dst, k)

	switch s.ColorOp {
	case types.BlendOpAdd:
		return src.R*sr + dst.R*dr, src.G*sg + dst.G*dg, src.B*sb + dst.B*db
	case types.BlendOpSubtract:
		return src.R*sr - dst.R*dr, src.G*sg - dst.G*dg, src.B*sb - dst.B*db
	case types.BlendOpReverseSubtract:
		return dst.R*dr - src.R*sr, dst.G*dg - src.G*sg, dst.B*db - src.B*sb
	}
	return src.R, src.G, src.B
}

func applyAlpha(s *State, src, dst RGBA, k *Constants) float32 {
	switch s.AlphaOp {
	case opSrc:
		return src.A
	case opDst:
		return dst.A
	case opZero:
		return 0
	case types.BlendOpMin:
		return min32(src.A, dst.A)
	case types.BlendOpMax:
		return max32(src.A, dst.A)
	}

	// Advanced equations composite alpha as the coverage union,
	// independent of the (forced-ONE) factors.
	if s.AlphaOp.IsAdvanced() {
		return src.A + dst.A - src.A*dst.A
	}

	sa := factorAlpha(s.SrcAlpha, src, dst, k)
	da := factorAlpha(s.DstAlpha, src, dst, k)

	switch s.AlphaOp {
	case types.BlendOpSubtract:
		return src.A*sa - dst.A*da
	case types.BlendOpReverseSubtract:
		return dst.A*da - src.A*sa
	default:
		return src.A*sa + dst.A*da
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
