package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector helpers shared by the mesh consumers. Geometry is float32
// ms3 throughout; gonum's spatial packages work in float64 r3.

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

// Min returns the smallest component of a.
func Min(a ms3.Vec) float32 {
	return math32.Min(a.Z, math32.Min(a.X, a.Y))
}

// R3 converts to gonum's float64 vector.
func R3(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Set is a set of points.
type Set []ms3.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() ms3.Vec {
	vmin := a[0]
	for _, v := range a {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() ms3.Vec {
	vmax := a[0]
	for _, v := range a {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the smallest box containing every point of a.
// a must not be empty.
func (a Set) Bounds() ms3.Box {
	return ms3.Box{Min: a.Min(), Max: a.Max()}
}
