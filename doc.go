// Package swrast implements the CPU-side core of a Vulkan-style rasterization
// pipeline: frustum clipping, triangle/line/point setup, a multi-threaded
// draw scheduler, a quad rasterizer, and the per-fragment state machine
// (stencil, depth, blend, logic-op, write-mask, occlusion, multisample
// resolve) that together turn a stream of projected vertices into shaded
// pixels.
//
// # Scope
//
// This package is the "hot path" of a software rasterizer. It does not
// compile shaders, sample textures, or manage window-system surfaces:
// vertex and fragment shaders are supplied by the caller as function
// values (see [VertexShader], [FragmentShader]) and invoked by the
// generated routines once per vertex or covered pixel.
//
// # Quick start
//
//	dev := swrast.NewDevice()
//	defer dev.Close()
//
//	state := swrast.NewPipelineState()
//	state.VertexShader = vs
//	state.FragmentShader = fs
//	pipe, err := dev.NewPipeline(state)
//	if err != nil { ... }
//
//	color := swrast.NewSurface(swrast.FormatRGBA8Unorm, 640, 480)
//	dev.Draw(pipe, swrast.RenderTargets{Color: [8]*swrast.Surface{color}},
//		swrast.DrawParams{VertexCount: 3})
//	dev.Synchronize()
//
// # Architecture
//
//   - internal/geom: vertices, clip-scratch polygons, plane equations, primitives.
//   - internal/frustum: Sutherland-Hodgman frustum clipping.
//   - internal/setup: winding/culling, subpixel snap, span tables, plane equations.
//   - internal/pixelstate: canonicalized pixel state keys and the routine LRU cache.
//   - internal/fragment: the quad rasterizer and per-fragment state machine.
//   - internal/blend: blend-state canonicalization and pixel compositing.
//   - internal/sched: the multi-threaded draw scheduler.
//   - internal/resolve: multisample resolve.
//   - internal/surface: attachment storage and per-format load/store.
package swrast
