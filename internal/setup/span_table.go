package setup

import (
	"math"

	"github.com/gogpu/swrast/internal/geom"
)

// windowPoint is a polygon vertex snapped to the subpixel window-space
// grid, held as float32 for the edge-intersection math below.
type windowPoint struct {
	x, y float32
}

// projectPolygon snaps every (possibly clipped) polygon vertex through
// the same fixed-point projection the plane equations are fit against,
// so coverage and attribute interpolation agree on every boundary pixel.
func projectPolygon(polygon *geom.Polygon, vp Viewport) []windowPoint {
	verts := polygon.Vertices()
	pts := make([]windowPoint, len(verts))
	for i, v := range verts {
		rhw := float32(1)
		if v.W != 0 {
			rhw = 1 / v.W
		}
		pts[i] = windowPoint{
			x: float32(vp.ProjectX(v.X * rhw)),
			y: float32(vp.ProjectY(v.Y * rhw)),
		}
	}
	return pts
}

// centerSample is the implicit sample position of single-sampled
// rendering.
var centerSample = [1][2]int32{{0, 0}}

// activeSampleOffsets returns the sample positions setup walks edges at,
// as subpixel offsets from the pixel center.
func activeSampleOffsets(cfg *Config) [][2]int32 {
	if cfg.SampleCount > 1 && len(cfg.SampleOffsets) > 0 {
		return cfg.SampleOffsets
	}
	return centerSample[:]
}

func pixelRow(subpixelY float32) int32 {
	return int32(math.Floor(float64(subpixelY) / SubpixelFactor))
}

// polygonYRange returns the [yMin, yMax) scanline row range of polygon,
// intersected with the scissor rectangle.
func polygonYRange(polygon *geom.Polygon, vp Viewport, cfg *Config) (int32, int32) {
	pts := projectPolygon(polygon, vp)
	if len(pts) == 0 {
		return 0, 0
	}

	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts[1:] {
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}

	// A row's sample at center+off lies inside when the center is in
	// [minY-off, maxY-off), so sample positions off the pixel center
	// widen the walked range by the offset extremes.
	var offMin, offMax float32
	for _, off := range activeSampleOffsets(cfg) {
		if f := float32(off[1]); f < offMin {
			offMin = f
		} else if f > offMax {
			offMax = f
		}
	}
	minY -= offMax
	maxY -= offMin

	yMin := pixelRow(minY)
	yMax := pixelRow(maxY) + 1

	if yMin < cfg.ScissorY0 {
		yMin = cfg.ScissorY0
	}
	if yMax > cfg.ScissorY1 {
		yMax = cfg.ScissorY1
	}
	return yMin, yMax
}

// buildSpanTable walks polygon's edges to fill primitive.Outline with one
// Left/Right pixel-x span per scanline row in [yMin, yMax). The first two
// rows at or beyond OutlineResolution land in OutlineOverflow and later
// ones are dropped; the table is never grown.
func buildSpanTable(primitive *geom.Primitive, polygon *geom.Polygon, vp Viewport, cfg *Config, yMin, yMax int32) bool {
	pts := projectPolygon(polygon, vp)
	n := len(pts)
	if n < 3 {
		return false
	}

	primitive.Y0 = yMin

	offsets := activeSampleOffsets(cfg)
	scissorLo := float32(cfg.ScissorX0) * SubpixelFactor
	scissorHi := float32(cfg.ScissorX1) * SubpixelFactor

	first, last := int32(-1), int32(-1)
	for y := yMin; y < yMax; y++ {
		rowCenter := float32(y)*SubpixelFactor + SubpixelFactor/2

		// Walk the edges once per sample position and keep the extremal
		// bounds across samples.
		pl := int32(math.MaxInt32)
		pr := int32(math.MinInt32)
		for _, off := range offsets {
			left, right, ok := scanlineBounds(pts, rowCenter+float32(off[1]))
			if !ok {
				continue
			}
			if left < scissorLo {
				left = scissorLo
			}
			if right > scissorHi {
				right = scissorHi
			}
			if right <= left {
				continue
			}
			// A pixel belongs to this sample's span iff the sample point
			// (16p + 8 + offX in subpixel units) lies in [left, right).
			sl := int32(math.Ceil(float64(left-SubpixelFactor/2-float32(off[0])) / SubpixelFactor))
			sr := int32(math.Ceil(float64(right-SubpixelFactor/2-float32(off[0])) / SubpixelFactor))
			if sl < pl {
				pl = sl
			}
			if sr > pr {
				pr = sr
			}
		}

		if pl < cfg.ScissorX0 {
			pl = cfg.ScissorX0
		}
		if pr > cfg.ScissorX1 {
			pr = cfg.ScissorX1
		}
		if pr <= pl {
			continue
		}
		span := geom.Span{
			Left:  uint16(pl),
			Right: uint16(pr),
		}
		setSpan(primitive, y-yMin, span)
		if first < 0 {
			first = y - yMin
		}
		last = y - yMin
	}
	if first < 0 {
		return false
	}

	// Shrink the vertical range to the rows that actually produced spans
	// and replicate the boundary rows into the one-row padding so the
	// rasterizer can read y-1 and y+1 unconditionally.
	primitive.YMin = yMin + first
	primitive.YMax = yMin + last + 1
	setSpan(primitive, first-1, spanAt(primitive, first))
	setSpan(primitive, last+1, spanAt(primitive, last))
	return true
}

// spanAt reads back a span previously stored with setSpan.
func spanAt(primitive *geom.Primitive, idx int32) geom.Span {
	switch {
	case idx < 0:
		slot := -idx - 1
		if slot < int32(len(primitive.OutlineUnderflow)) {
			return primitive.OutlineUnderflow[slot]
		}
		return geom.Span{}
	case idx >= geom.OutlineResolution:
		slot := idx - geom.OutlineResolution
		if slot < int32(len(primitive.OutlineOverflow)) {
			return primitive.OutlineOverflow[slot]
		}
		return geom.Span{}
	default:
		return primitive.Outline[idx]
	}
}

func setSpan(primitive *geom.Primitive, idx int32, span geom.Span) {
	switch {
	case idx < 0:
		slot := -idx - 1
		if slot < int32(len(primitive.OutlineUnderflow)) {
			primitive.OutlineUnderflow[slot] = span
		}
	case idx >= geom.OutlineResolution:
		slot := idx - geom.OutlineResolution
		if slot < int32(len(primitive.OutlineOverflow)) {
			primitive.OutlineOverflow[slot] = span
		}
	default:
		primitive.Outline[idx] = span
	}
}

// scanlineBounds intersects polygon's edges with the horizontal line at
// subpixel height scanY, returning the leftmost/rightmost crossing x.
func scanlineBounds(pts []windowPoint, scanY float32) (left, right float32, ok bool) {
	n := len(pts)
	first := true
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		if a.y == b.y {
			continue
		}
		lo, hi := a, b
		if lo.y > hi.y {
			lo, hi = hi, lo
		}
		if scanY < lo.y || scanY >= hi.y {
			continue
		}
		t := (scanY - lo.y) / (hi.y - lo.y)
		x := lo.x + t*(hi.x-lo.x)
		if first {
			left, right = x, x
			first = false
		} else {
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
		}
	}
	return left, right, !first
}
