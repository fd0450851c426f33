package blend

import (
	"testing"

	"github.com/gogpu/swrast/internal/types"
)

func almostEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func rgbaEqual(a, b RGBA) bool {
	return almostEqual(a.R, b.R) && almostEqual(a.G, b.G) && almostEqual(a.B, b.B) && almostEqual(a.A, b.A)
}

func TestApplyAlphaBlending(t *testing.T) {
	// Classic src-over: srcAlpha / oneMinusSrcAlpha.
	s := Resolve(enabled(types.BlendOpAdd, types.FactorSrcAlpha, types.FactorOneMinusSrcAlpha), types.FormatRGBA8Unorm, true)
	k := NewConstants(RGBA{})

	src := RGBA{R: 1, G: 0, B: 0, A: 0.5}
	dst := RGBA{R: 0, G: 0, B: 1, A: 1}

	got := Apply(&s, src, dst, &k)
	want := RGBA{R: 0.5, G: 0, B: 0.5, A: 0.75}
	if !rgbaEqual(got, want) {
		t.Errorf("src-over = %+v, want %+v", got, want)
	}
}

func TestApplyAdditive(t *testing.T) {
	s := Resolve(enabled(types.BlendOpAdd, types.FactorOne, types.FactorOne), types.FormatRGBA32Float, true)
	k := NewConstants(RGBA{})

	got := Apply(&s, RGBA{R: 0.25, A: 0.5}, RGBA{R: 0.5, A: 0.25}, &k)
	want := RGBA{R: 0.75, A: 0.75}
	if !rgbaEqual(got, want) {
		t.Errorf("additive = %+v, want %+v", got, want)
	}
}

func TestApplyConstantColor(t *testing.T) {
	s := Resolve(enabled(types.BlendOpAdd, types.FactorConstantColor, types.FactorZero), types.FormatRGBA32Float, true)
	k := NewConstants(RGBA{R: 0.5, G: 0.25, B: 1, A: 0.5})

	got := Apply(&s, RGBA{R: 1, G: 1, B: 0.5, A: 1}, RGBA{}, &k)
	want := RGBA{R: 0.5, G: 0.25, B: 0.5, A: 0.5}
	if !rgbaEqual(got, want) {
		t.Errorf("constant color = %+v, want %+v", got, want)
	}
}

func TestApplyMinMax(t *testing.T) {
	k := NewConstants(RGBA{})
	src := RGBA{R: 0.2, G: 0.8, B: 0.5, A: 0.6}
	dst := RGBA{R: 0.7, G: 0.1, B: 0.5, A: 0.3}

	sMin := Resolve(enabled(types.BlendOpMin, types.FactorOne, types.FactorOne), types.FormatRGBA32Float, true)
	got := Apply(&sMin, src, dst, &k)
	want := RGBA{R: 0.2, G: 0.1, B: 0.5, A: 0.3}
	if !rgbaEqual(got, want) {
		t.Errorf("min = %+v, want %+v", got, want)
	}

	sMax := Resolve(enabled(types.BlendOpMax, types.FactorOne, types.FactorOne), types.FormatRGBA32Float, true)
	got = Apply(&sMax, src, dst, &k)
	want = RGBA{R: 0.7, G: 0.8, B: 0.5, A: 0.6}
	if !rgbaEqual(got, want) {
		t.Errorf("max = %+v, want %+v", got, want)
	}
}

func TestSeparableChannel(t *testing.T) {
	tests := []struct {
		op   types.BlendOp
		s, d float32
		want float32
	}{
		{types.BlendOpMultiply, 0.5, 0.5, 0.25},
		{types.BlendOpScreen, 0.5, 0.5, 0.75},
		{types.BlendOpDarken, 0.3, 0.7, 0.3},
		{types.BlendOpLighten, 0.3, 0.7, 0.7},
		{types.BlendOpDifference, 0.3, 0.7, 0.4},
		{types.BlendOpExclusion, 0.5, 0.5, 0.5},
		{types.BlendOpHardLight, 0.25, 0.4, 0.2},   // s <= 0.5: 2*s*d
		{types.BlendOpHardLight, 0.75, 0.4, 0.7},   // s > 0.5: 1-2*(1-s)*(1-d)
		{types.BlendOpColorDodge, 0.5, 0.25, 0.5},  // d/(1-s)
		{types.BlendOpColorBurn, 0.5, 0.75, 0.5},   // 1-(1-d)/s
	}
	for _, tt := range tests {
		if got := separableChannel(tt.op, tt.s, tt.d); !almostEqual(got, tt.want) {
			t.Errorf("separableChannel(%v, %v, %v) = %v, want %v", tt.op, tt.s, tt.d, got, tt.want)
		}
	}
}

func TestAdvancedOpaqueReducesToBlendFunction(t *testing.T) {
	// With both alphas at 1 the advanced composite reduces to the raw
	// per-channel blend function.
	src := RGBA{R: 0.5, G: 0.25, B: 0.75, A: 1}
	dst := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}

	r, g, b := applyAdvanced(types.BlendOpMultiply, src, dst)
	if !almostEqual(r, 0.25) || !almostEqual(g, 0.125) || !almostEqual(b, 0.375) {
		t.Errorf("multiply opaque = (%v, %v, %v)", r, g, b)
	}
}

func TestAdvancedTransparentSourcePassesDestination(t *testing.T) {
	src := RGBA{R: 1, G: 1, B: 1, A: 0}
	dst := RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}

	r, g, b := applyAdvanced(types.BlendOpScreen, src, dst)
	if !almostEqual(r, 0.2) || !almostEqual(g, 0.4) || !almostEqual(b, 0.6) {
		t.Errorf("screen with transparent src = (%v, %v, %v), want dst", r, g, b)
	}
}

func TestHSLLuminosity(t *testing.T) {
	// Luminosity takes src's luminance and dst's hue/saturation: a gray
	// destination blended with luminosity of a gray source is the source's
	// gray level.
	r, g, b := applyHSL(types.BlendOpHSLLuminosity, RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1}, RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1})
	if !almostEqual(r, 0.8) || !almostEqual(g, 0.8) || !almostEqual(b, 0.8) {
		t.Errorf("luminosity = (%v, %v, %v), want (0.8, 0.8, 0.8)", r, g, b)
	}
}

func TestSetSatPreservesChannelOrder(t *testing.T) {
	r, g, b := setSat(0.9, 0.1, 0.5, 0.4)
	// Max channel (r) becomes s, min channel (g) becomes 0, mid scales.
	if !almostEqual(r, 0.4) || !almostEqual(g, 0) || !almostEqual(b, 0.2) {
		t.Errorf("setSat = (%v, %v, %v), want (0.4, 0, 0.2)", r, g, b)
	}
}
