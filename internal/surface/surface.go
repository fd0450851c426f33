// Package surface implements attachment storage: rectangular pixel
// buffers with per-sample planes, typed load/store per format, and fast
// clears. Color values cross the package boundary as unclamped linear
// floats; packing to the attachment format happens only on store.
package surface

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/swrast/internal/blend"
	"github.com/gogpu/swrast/internal/types"
)

// Surface is a single attachment: width x height pixels, samples sample
// planes laid out consecutively. Addressing is
//
//	pix[sample*samplePitch + y*rowPitch + x*bytesPerPixel]
type Surface struct {
	format  types.Format
	width   int
	height  int
	samples int

	pix         []byte
	rowPitch    int
	samplePitch int
}

// New allocates a surface. samples must be a power of two >= 1.
func New(format types.Format, width, height, samples int) *Surface {
	if samples < 1 {
		samples = 1
	}
	bpp := BytesPerPixel(format)
	rowPitch := width * bpp
	samplePitch := rowPitch * height
	return &Surface{
		format:      format,
		width:       width,
		height:      height,
		samples:     samples,
		pix:         make([]byte, samplePitch*samples),
		rowPitch:    rowPitch,
		samplePitch: samplePitch,
	}
}

// BytesPerPixel returns the storage size of one texel of format.
func BytesPerPixel(format types.Format) int {
	switch format {
	case types.FormatRGBA8Unorm, types.FormatBGRA8Unorm:
		return 4
	case types.FormatRGBA32Float:
		return 16
	case types.FormatR5G6B5Unorm:
		return 2
	case types.FormatR16G16Unorm:
		return 4
	case types.FormatR16G16B16A16Unorm:
		return 8
	case types.FormatD32Float:
		return 4
	case types.FormatD24UnormS8Uint:
		return 4
	}
	panic("surface: unknown format")
}

// Format returns the surface's pixel format.
func (s *Surface) Format() types.Format { return s.format }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Samples returns the number of sample planes.
func (s *Surface) Samples() int { return s.samples }

// RowPitch returns the byte distance between adjacent rows.
func (s *Surface) RowPitch() int { return s.rowPitch }

// SamplePitch returns the byte distance between sample planes.
func (s *Surface) SamplePitch() int { return s.samplePitch }

// Pix returns the raw backing store.
func (s *Surface) Pix() []byte { return s.pix }

func (s *Surface) offset(x, y, sample int) int {
	return sample*s.samplePitch + y*s.rowPitch + x*BytesPerPixel(s.format)
}

// LoadColor reads the texel at (x, y, sample) as unclamped linear floats.
func (s *Surface) LoadColor(x, y, sample int) blend.RGBA {
	o := s.offset(x, y, sample)
	p := s.pix[o:]
	switch s.format {
	case types.FormatRGBA8Unorm:
		return blend.RGBA{
			R: unorm8ToFloat(p[0]),
			G: unorm8ToFloat(p[1]),
			B: unorm8ToFloat(p[2]),
			A: unorm8ToFloat(p[3]),
		}
	case types.FormatBGRA8Unorm:
		return blend.RGBA{
			R: unorm8ToFloat(p[2]),
			G: unorm8ToFloat(p[1]),
			B: unorm8ToFloat(p[0]),
			A: unorm8ToFloat(p[3]),
		}
	case types.FormatRGBA32Float:
		return blend.RGBA{
			R: math.Float32frombits(binary.LittleEndian.Uint32(p)),
			G: math.Float32frombits(binary.LittleEndian.Uint32(p[4:])),
			B: math.Float32frombits(binary.LittleEndian.Uint32(p[8:])),
			A: math.Float32frombits(binary.LittleEndian.Uint32(p[12:])),
		}
	case types.FormatR5G6B5Unorm:
		v := binary.LittleEndian.Uint16(p)
		return blend.RGBA{
			R: float32(v>>11&0x1F) / 31,
			G: float32(v>>5&0x3F) / 63,
			B: float32(v&0x1F) / 31,
			A: 1,
		}
	case types.FormatR16G16Unorm:
		return blend.RGBA{
			R: float32(binary.LittleEndian.Uint16(p)) / 65535,
			G: float32(binary.LittleEndian.Uint16(p[2:])) / 65535,
			A: 1,
		}
	case types.FormatR16G16B16A16Unorm:
		return blend.RGBA{
			R: float32(binary.LittleEndian.Uint16(p)) / 65535,
			G: float32(binary.LittleEndian.Uint16(p[2:])) / 65535,
			B: float32(binary.LittleEndian.Uint16(p[4:])) / 65535,
			A: float32(binary.LittleEndian.Uint16(p[6:])) / 65535,
		}
	}
	panic("surface: LoadColor on non-color format")
}

// StoreColor writes c to the texel at (x, y, sample), masking channels:
// bit i of writeMask enables channel i (R=0, G=1, B=2, A=3). Unorm
// formats clamp; float formats store the value unchanged.
func (s *Surface) StoreColor(x, y, sample int, c blend.RGBA, writeMask uint8) {
	if writeMask == 0 {
		return
	}
	o := s.offset(x, y, sample)
	p := s.pix[o:]
	switch s.format {
	case types.FormatRGBA8Unorm:
		storeMasked8(p, 0, c.R, writeMask&1 != 0)
		storeMasked8(p, 1, c.G, writeMask&2 != 0)
		storeMasked8(p, 2, c.B, writeMask&4 != 0)
		storeMasked8(p, 3, c.A, writeMask&8 != 0)
	case types.FormatBGRA8Unorm:
		storeMasked8(p, 2, c.R, writeMask&1 != 0)
		storeMasked8(p, 1, c.G, writeMask&2 != 0)
		storeMasked8(p, 0, c.B, writeMask&4 != 0)
		storeMasked8(p, 3, c.A, writeMask&8 != 0)
	case types.FormatRGBA32Float:
		if writeMask&1 != 0 {
			binary.LittleEndian.PutUint32(p, math.Float32bits(c.R))
		}
		if writeMask&2 != 0 {
			binary.LittleEndian.PutUint32(p[4:], math.Float32bits(c.G))
		}
		if writeMask&4 != 0 {
			binary.LittleEndian.PutUint32(p[8:], math.Float32bits(c.B))
		}
		if writeMask&8 != 0 {
			binary.LittleEndian.PutUint32(p[12:], math.Float32bits(c.A))
		}
	case types.FormatR5G6B5Unorm:
		v := binary.LittleEndian.Uint16(p)
		if writeMask&1 != 0 {
			v = v&^(0x1F<<11) | uint16(floatToUnorm(c.R, 31))<<11
		}
		if writeMask&2 != 0 {
			v = v&^(0x3F<<5) | uint16(floatToUnorm(c.G, 63))<<5
		}
		if writeMask&4 != 0 {
			v = v&^0x1F | uint16(floatToUnorm(c.B, 31))
		}
		binary.LittleEndian.PutUint16(p, v)
	case types.FormatR16G16Unorm:
		if writeMask&1 != 0 {
			binary.LittleEndian.PutUint16(p, uint16(floatToUnorm(c.R, 65535)))
		}
		if writeMask&2 != 0 {
			binary.LittleEndian.PutUint16(p[2:], uint16(floatToUnorm(c.G, 65535)))
		}
	case types.FormatR16G16B16A16Unorm:
		if writeMask&1 != 0 {
			binary.LittleEndian.PutUint16(p, uint16(floatToUnorm(c.R, 65535)))
		}
		if writeMask&2 != 0 {
			binary.LittleEndian.PutUint16(p[2:], uint16(floatToUnorm(c.G, 65535)))
		}
		if writeMask&4 != 0 {
			binary.LittleEndian.PutUint16(p[4:], uint16(floatToUnorm(c.B, 65535)))
		}
		if writeMask&8 != 0 {
			binary.LittleEndian.PutUint16(p[6:], uint16(floatToUnorm(c.A, 65535)))
		}
	default:
		panic("surface: StoreColor on non-color format")
	}
}

// LoadDepth reads the depth value at (x, y, sample).
func (s *Surface) LoadDepth(x, y, sample int) float32 {
	o := s.offset(x, y, sample)
	switch s.format {
	case types.FormatD32Float:
		return math.Float32frombits(binary.LittleEndian.Uint32(s.pix[o:]))
	case types.FormatD24UnormS8Uint:
		v := binary.LittleEndian.Uint32(s.pix[o:]) & 0xFFFFFF
		return float32(v) / 0xFFFFFF
	}
	panic("surface: LoadDepth on non-depth format")
}

// StoreDepth writes the depth value at (x, y, sample).
func (s *Surface) StoreDepth(x, y, sample int, d float32) {
	o := s.offset(x, y, sample)
	switch s.format {
	case types.FormatD32Float:
		binary.LittleEndian.PutUint32(s.pix[o:], math.Float32bits(d))
	case types.FormatD24UnormS8Uint:
		v := binary.LittleEndian.Uint32(s.pix[o:])
		v = v&0xFF000000 | floatToUnorm(d, 0xFFFFFF)
		binary.LittleEndian.PutUint32(s.pix[o:], v)
	default:
		panic("surface: StoreDepth on non-depth format")
	}
}

// LoadStencil reads the stencil byte at (x, y, sample).
func (s *Surface) LoadStencil(x, y, sample int) uint8 {
	o := s.offset(x, y, sample)
	switch s.format {
	case types.FormatD24UnormS8Uint:
		return s.pix[o+3]
	}
	panic("surface: LoadStencil on non-stencil format")
}

// StoreStencil writes the stencil byte at (x, y, sample) under writeMask.
func (s *Surface) StoreStencil(x, y, sample int, v, writeMask uint8) {
	o := s.offset(x, y, sample)
	switch s.format {
	case types.FormatD24UnormS8Uint:
		s.pix[o+3] = s.pix[o+3]&^writeMask | v&writeMask
	default:
		panic("surface: StoreStencil on non-stencil format")
	}
}

// ClearColor fills every pixel of every sample plane with c.
func (s *Surface) ClearColor(c blend.RGBA) {
	for sample := 0; sample < s.samples; sample++ {
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				s.StoreColor(x, y, sample, c, 0xF)
			}
		}
	}
}

// ClearDepthStencil fills the depth plane with d and, for packed
// depth/stencil formats, the stencil plane with stencil.
func (s *Surface) ClearDepthStencil(d float32, stencil uint8) {
	for sample := 0; sample < s.samples; sample++ {
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				s.StoreDepth(x, y, sample, d)
				if s.format == types.FormatD24UnormS8Uint {
					s.StoreStencil(x, y, sample, stencil, 0xFF)
				}
			}
		}
	}
}

func storeMasked8(p []byte, i int, v float32, write bool) {
	if write {
		p[i] = uint8(floatToUnorm(v, 255))
	}
}

func unorm8ToFloat(v uint8) float32 {
	return float32(v) / 255
}

// floatToUnorm clamps v to [0, 1] and quantizes to maxVal steps with
// round-to-nearest.
func floatToUnorm(v float32, maxVal uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return maxVal
	}
	return uint32(v*float32(maxVal) + 0.5)
}
