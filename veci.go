/*

Integer 3D Vectors

*/

package surfnets

import "github.com/soypat/glgl/math/ms3"

// V3i is a 3D integer vector. Used for grid cell coordinates.
type V3i [3]int

// SubScalar subtracts a scalar from each component of the vector.
func (a V3i) SubScalar(b int) V3i {
	return V3i{a[0] - b, a[1] - b, a[2] - b}
}

// AddScalar adds a scalar to each component of the vector.
func (a V3i) AddScalar(b int) V3i {
	return V3i{a[0] + b, a[1] + b, a[2] + b}
}

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V3i) Sub(b V3i) V3i {
	return V3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale multiplies each component by k.
func (a V3i) Scale(k int) V3i {
	return V3i{a[0] * k, a[1] * k, a[2] * k}
}

// Dot returns the dot product of a and b. Dotting a cell coordinate with
// a field's stride yields the cell's flat index.
func (a V3i) Dot(b V3i) int {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Vec converts V3i (integer) to ms3.Vec (float).
func (a V3i) Vec() ms3.Vec {
	return ms3.Vec{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}

// Less reports whether a sorts before b in Z, Y, X order, which is the
// order cells are visited during extraction.
func (a V3i) Less(b V3i) bool {
	if a[2] != b[2] {
		return a[2] < b[2]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[0] < b[0]
}
