// Package resolve averages the sample planes of a multisampled surface
// into a single-sampled one. Unsigned-normalized formats use branchless
// pairwise rounding averages so 2/4/8/16 samples need 1/2/3/4 passes;
// floating-point formats sum and scale by 1/n.
package resolve

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/swrast/internal/surface"
	"github.com/gogpu/swrast/internal/types"
	"github.com/gogpu/swrast/internal/wide"
)

// Into resolves src's samples into dst, which must be a single-sampled
// surface of the same format and size. A single-sampled src is copied.
func Into(dst, src *surface.Surface) {
	if dst.Format() != src.Format() || dst.Width() != src.Width() || dst.Height() != src.Height() {
		panic("resolve: mismatched surfaces")
	}
	if dst.Samples() != 1 {
		panic("resolve: destination must be single-sampled")
	}

	n := src.Samples()
	if n == 1 {
		copy(dst.Pix(), src.Pix()[:src.SamplePitch()])
		return
	}

	switch src.Format() {
	case types.FormatRGBA32Float:
		resolveFloat(dst, src)
		return
	case types.FormatD32Float:
		resolveFloat(dst, src)
		return
	}

	// Pairwise averaging: copy the sample planes into scratch buffers and
	// halve their count once per pass.
	pitch := src.SamplePitch()
	planes := make([][]byte, n)
	for s := 0; s < n; s++ {
		planes[s] = make([]byte, pitch)
		copy(planes[s], src.Pix()[s*pitch:(s+1)*pitch])
	}

	for len(planes) > 1 {
		half := len(planes) / 2
		for i := 0; i < half; i++ {
			avgPlane(src.Format(), planes[i], planes[2*i], planes[2*i+1])
		}
		planes = planes[:half]
	}

	copy(dst.Pix(), planes[0])
}

// Resolve allocates and returns a single-sampled resolve of src.
func Resolve(src *surface.Surface) *surface.Surface {
	dst := surface.New(src.Format(), src.Width(), src.Height(), 1)
	Into(dst, src)
	return dst
}

// avgPlane writes the per-channel rounding average of planes a and b
// into out (which may alias a).
func avgPlane(format types.Format, out, a, b []byte) {
	switch format {
	case types.FormatRGBA8Unorm, types.FormatBGRA8Unorm:
		avg8(out, a, b)
	case types.FormatR5G6B5Unorm:
		avg565(out, a, b)
	case types.FormatR16G16Unorm, types.FormatR16G16B16A16Unorm:
		avg16(out, a, b)
	case types.FormatD24UnormS8Uint:
		avgD24S8(out, a, b)
	default:
		copy(out, a)
	}
}

// avg8 averages independent 8-bit channels with the carry-free
// decomposition (x AND y) + ((x XOR y) >> 1) + ((x XOR y) AND 1).
func avg8(out, a, b []byte) {
	for i := range out {
		x := a[i] ^ b[i]
		out[i] = a[i]&b[i] + x>>1 + x&1
	}
}

// avg565 averages packed R5G6B5 texels with two channel-masked passes so
// red/blue carries cannot leak into green: red and blue average together
// under the 0xF81F mask, green under 0x07E0, each widened so the rounding
// add in the channel's lowest bit is carry-safe.
func avg565(out, a, b []byte) {
	for i := 0; i+1 < len(out); i += 2 {
		va := uint32(binary.LittleEndian.Uint16(a[i:]))
		vb := uint32(binary.LittleEndian.Uint16(b[i:]))

		rb := ((va&0xF81F + vb&0xF81F + 0x0801) >> 1) & 0xF81F
		g := ((va&0x07E0 + vb&0x07E0 + 0x0020) >> 1) & 0x07E0

		binary.LittleEndian.PutUint16(out[i:], uint16(rb|g))
	}
}

// avg16 averages 16-bit channels in U16x16 chunks.
func avg16(out, a, b []byte) {
	i := 0
	for ; i+32 <= len(out); i += 32 {
		var va, vb wide.U16x16
		for l := 0; l < 16; l++ {
			va[l] = binary.LittleEndian.Uint16(a[i+2*l:])
			vb[l] = binary.LittleEndian.Uint16(b[i+2*l:])
		}
		res := va.AvgRound(vb)
		for l := 0; l < 16; l++ {
			binary.LittleEndian.PutUint16(out[i+2*l:], res[l])
		}
	}
	for ; i+1 < len(out); i += 2 {
		va := binary.LittleEndian.Uint16(a[i:])
		vb := binary.LittleEndian.Uint16(b[i:])
		x := va ^ vb
		binary.LittleEndian.PutUint16(out[i:], va&vb+x>>1+x&1)
	}
}

// avgD24S8 averages the depth bits and keeps plane a's stencil byte;
// stencil has no meaningful average.
func avgD24S8(out, a, b []byte) {
	for i := 0; i+3 < len(out); i += 4 {
		va := binary.LittleEndian.Uint32(a[i:])
		vb := binary.LittleEndian.Uint32(b[i:])
		da := va & 0xFFFFFF
		db := vb & 0xFFFFFF
		d := (da + db + 1) >> 1
		binary.LittleEndian.PutUint32(out[i:], va&0xFF000000|d)
	}
}

// resolveFloat sums each pixel's samples and scales by 1/n.
func resolveFloat(dst, src *surface.Surface) {
	n := src.Samples()
	inv := 1 / float32(n)
	pitch := src.SamplePitch()
	words := pitch / 4

	for w := 0; w < words; w++ {
		var sum float32
		for s := 0; s < n; s++ {
			sum += math.Float32frombits(binary.LittleEndian.Uint32(src.Pix()[s*pitch+4*w:]))
		}
		binary.LittleEndian.PutUint32(dst.Pix()[4*w:], math.Float32bits(sum*inv))
	}
}
