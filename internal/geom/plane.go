package geom

// Plane is an affine function A*x + B*y + C used by setup to interpolate a
// scalar attribute across a primitive: at any fragment (x, y) the value
// equals A*x + B*y + C under perspective-correct or flat shading.
type Plane struct {
	A, B, C float32
}

// Eval returns A*x + B*y + C.
func (p Plane) Eval(x, y float32) float32 {
	return p.A*x + p.B*y + p.C
}

// Flat builds a plane equation that is constant across the primitive,
// broadcasting the provoking vertex's value (flat interpolants).
func Flat(value float32) Plane {
	return Plane{A: 0, B: 0, C: value}
}
