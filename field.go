package surfnets

import (
	"errors"
	"fmt"
)

// Field is a dense cubic grid of signed densities. Negative values are
// inside the solid, positive values outside. A Field of logical size N is
// stored with one cell of padding on the far side of every axis so each
// of the N+1 interior cells has all 8 corners available.
type Field struct {
	size   int // logical edge length N
	stride V3i // {1, P, P*P} with P = N+2
	data   []float32
}

// NewField allocates a field of logical edge length n. All densities
// start at zero.
func NewField(n int) (*Field, error) {
	if n < 1 {
		return nil, errors.New("field size must be 1 or larger")
	}
	p := n + 2
	if p > 1<<10 {
		return nil, fmt.Errorf("field size %d too large", n)
	}
	return &Field{
		size:   n,
		stride: V3i{1, p, p * p},
		data:   make([]float32, p*p*p),
	}, nil
}

// Size returns the logical edge length N.
func (f *Field) Size() int { return f.size }

// Padded returns the stored edge length P = N+2.
func (f *Field) Padded() int { return f.stride[1] }

// Stride returns the per-axis flat index step {1, P, P²}.
func (f *Field) Stride() V3i { return f.stride }

// Index returns the flat offset of cell p. It does not check bounds.
func (f *Field) Index(p V3i) int { return p.Dot(f.stride) }

// Contains reports whether p lies within [0, P) on every axis.
func (f *Field) Contains(p V3i) bool {
	n := f.Padded()
	return p[0] >= 0 && p[0] < n &&
		p[1] >= 0 && p[1] < n &&
		p[2] >= 0 && p[2] < n
}

// At returns the density at cell p. Panics if p is outside the field.
func (f *Field) At(p V3i) float32 { return f.data[f.mustIndex(p)] }

// Set sets the density at cell p. Panics if p is outside the field.
func (f *Field) Set(p V3i, v float32) { f.data[f.mustIndex(p)] = v }

// Add adds v to the density at cell p. Panics if p is outside the field.
func (f *Field) Add(p V3i, v float32) { f.data[f.mustIndex(p)] += v }

// Data returns the backing buffer in Z, Y, X major order.
// Writes to it modify the field.
func (f *Field) Data() []float32 { return f.data }

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	cp := *f
	cp.data = append([]float32(nil), f.data...)
	return &cp
}

// FillFunc sets every cell of the field to fn(p).
func (f *Field) FillFunc(fn func(p V3i) float32) {
	n := f.Padded()
	var p V3i
	i := 0
	for p[2] = 0; p[2] < n; p[2]++ {
		for p[1] = 0; p[1] < n; p[1]++ {
			for p[0] = 0; p[0] < n; p[0]++ {
				f.data[i] = fn(p)
				i++
			}
		}
	}
}

func (f *Field) mustIndex(p V3i) int {
	if !f.Contains(p) {
		panic(fmt.Sprintf("cell %v outside field of padded size %d", p, f.Padded()))
	}
	return f.Index(p)
}
