// Package wide provides SIMD-friendly wide types for quad and batch
// pixel processing.
//
// The types use fixed-size arrays and simple loops so the Go compiler can
// auto-vectorize them on supported architectures (SSE, AVX, NEON).
//
// # Wide Types
//
// F32x4: one float32 per quad lane, used to step plane equations across
// the four pixels of a 2x2 quad.
// I32x4: one int32 per quad lane, used for coverage comparisons and their
// compressed sign masks.
// U16x16: 16 uint16 values for integer channel math, used by the
// multisample resolve's rounding averages.
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
package wide
