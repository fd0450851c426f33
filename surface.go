package swrast

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/swrast/internal/resolve"
	"github.com/gogpu/swrast/internal/surface"
	"github.com/gogpu/swrast/internal/types"
)

// Surface is an attachment: a rectangular pixel buffer with one plane
// per sample.
type Surface = surface.Surface

// NewSurface allocates a single-sampled surface.
func NewSurface(format Format, width, height int) *Surface {
	return surface.New(format, width, height, 1)
}

// NewMultisampleSurface allocates a surface with the given sample count.
func NewMultisampleSurface(format Format, width, height, samples int) *Surface {
	return surface.New(format, width, height, samples)
}

// Resolve averages src's samples into a freshly-allocated single-sampled
// surface. A single-sampled src is copied.
func Resolve(src *Surface) *Surface {
	return resolve.Resolve(src)
}

// ResolveInto averages src's samples into dst, which must be a
// single-sampled surface of the same format and size.
func ResolveInto(dst, src *Surface) {
	resolve.Into(dst, src)
}

// FormatFromTexture maps a gputypes texture format onto the subset this
// rasterizer can render to.
func FormatFromTexture(tf gputypes.TextureFormat) (Format, error) {
	switch tf {
	case gputypes.TextureFormatRGBA8Unorm:
		return types.FormatRGBA8Unorm, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return types.FormatBGRA8Unorm, nil
	case gputypes.TextureFormatDepth32Float:
		return types.FormatD32Float, nil
	case gputypes.TextureFormatDepth24PlusStencil8:
		return types.FormatD24UnormS8Uint, nil
	}
	return 0, unsupportedf("texture format %v", tf)
}

// NewSurfaceForTexture allocates a single-sampled surface for a gputypes
// texture format.
func NewSurfaceForTexture(tf gputypes.TextureFormat, width, height int) (*Surface, error) {
	format, err := FormatFromTexture(tf)
	if err != nil {
		return nil, err
	}
	return surface.New(format, width, height, 1), nil
}

// isColorFormat reports whether a format can serve as a color target.
func isColorFormat(f Format) bool {
	switch f {
	case types.FormatD32Float, types.FormatD24UnormS8Uint:
		return false
	}
	return true
}
