package surfnets

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// Sampler evaluates a density field in bulk. It shares its calling
// convention with vectorized SDF evaluators so shapes can be used
// directly as density sources.
type Sampler interface {
	// Evaluate stores the density at each of pos in dist. pos and dist
	// are of equal length. userData is implementation specific and may be nil.
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
}

// SamplerFunc adapts a point-wise density function to the Sampler interface.
type SamplerFunc func(p ms3.Vec) float32

// Evaluate implements Sampler.
func (fn SamplerFunc) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = fn(p)
	}
	return nil
}

// Fill samples s at every cell of the field. Cell p is sampled at
// position offset+p, so adjacent fields sharing a sampler line up when
// their offsets differ by multiples of the field size. Evaluation is
// done one Z slab at a time.
func (f *Field) Fill(s Sampler, offset V3i) error {
	n := f.Padded()
	slab := n * n
	pos := make([]ms3.Vec, slab)
	for z := 0; z < n; z++ {
		i := 0
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				pos[i] = offset.Add(V3i{x, y, z}).Vec()
				i++
			}
		}
		start := z * slab
		err := s.Evaluate(pos, f.data[start:start+slab], nil)
		if err != nil {
			return fmt.Errorf("sampling slab z=%d: %w", z, err)
		}
	}
	return nil
}
