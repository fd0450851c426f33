package blend

import "github.com/gogpu/swrast/internal/types"

// applyAdvanced evaluates one of the advanced blend equations for the RGB
// channels. Source and destination are straight (non-premultiplied)
// colors; the result weights the per-channel blend f(Sc, Dc) by the
// overlap term sa*da and falls back to the plain source/destination color
// in the non-overlapping regions:
//
//	R = f(Sc, Dc)*sa*da + Sc*sa*(1-da) + Dc*da*(1-sa)
func applyAdvanced(op types.BlendOp, src, dst RGBA) (r, g, b float32) {
	p0 := src.A * dst.A
	p1 := src.A * (1 - dst.A)
	p2 := dst.A * (1 - src.A)

	var fr, fg, fb float32
	switch op {
	case types.BlendOpHSLHue, types.BlendOpHSLSaturation, types.BlendOpHSLColor, types.BlendOpHSLLuminosity:
		fr, fg, fb = applyHSL(op, src, dst)
	default:
		fr = separableChannel(op, src.R, dst.R)
		fg = separableChannel(op, src.G, dst.G)
		fb = separableChannel(op, src.B, dst.B)
	}

	r = fr*p0 + src.R*p1 + dst.R*p2
	g = fg*p0 + src.G*p1 + dst.G*p2
	b = fb*p0 + src.B*p1 + dst.B*p2
	return r, g, b
}

// separableChannel computes the per-channel blend function for the
// separable advanced equations on straight color values in [0, 1].
func separableChannel(op types.BlendOp, s, d float32) float32 {
	switch op {
	case types.BlendOpMultiply:
		return s * d
	case types.BlendOpScreen:
		return s + d - s*d
	case types.BlendOpOverlay:
		// HardLight with the layers swapped.
		return separableChannel(types.BlendOpHardLight, d, s)
	case types.BlendOpDarken:
		return min32(s, d)
	case types.BlendOpLighten:
		return max32(s, d)
	case types.BlendOpColorDodge:
		if d <= 0 {
			return 0
		}
		if s >= 1 {
			return 1
		}
		return min32(1, d/(1-s))
	case types.BlendOpColorBurn:
		if d >= 1 {
			return 1
		}
		if s <= 0 {
			return 0
		}
		return 1 - min32(1, (1-d)/s)
	case types.BlendOpHardLight:
		if s <= 0.5 {
			return 2 * s * d
		}
		return 1 - 2*(1-s)*(1-d)
	case types.BlendOpSoftLight:
		if s <= 0.5 {
			return d - (1-2*s)*d*(1-d)
		}
		var dd float32
		if d <= 0.25 {
			dd = ((16*d-12)*d + 4) * d
		} else {
			dd = sqrt32(d)
		}
		return d + (2*s-1)*(dd-d)
	case types.BlendOpDifference:
		return abs32(s - d)
	case types.BlendOpExclusion:
		return s + d - 2*s*d
	}
	return s
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
