// Package noise provides procedural terrain density samplers built on
// OpenSimplex noise. Samplers are deterministic for a given seed and safe
// for concurrent use.
package noise

import (
	"errors"

	"github.com/ojrac/opensimplex-go"
	"github.com/soypat/glgl/math/ms3"
)

// Octaves configures fractal Brownian motion summation of noise layers.
type Octaves struct {
	// Frequency of the first octave in cycles per grid cell.
	Frequency float64
	// Count is the number of layers summed.
	Count int
	// Lacunarity is the frequency multiplier between octaves.
	Lacunarity float64
	// Gain is the amplitude multiplier between octaves.
	Gain float64
}

// DefaultOctaves returns a single octave at a frequency suited for chunks
// a few tens of cells across.
func DefaultOctaves() Octaves {
	return Octaves{Frequency: 0.02, Count: 1, Lacunarity: 2, Gain: 0.5}
}

func (o Octaves) validate() error {
	switch {
	case o.Frequency <= 0:
		return errors.New("noise frequency must be positive")
	case o.Count < 1 || o.Count > 16:
		return errors.New("octave count must be in [1, 16]")
	case o.Lacunarity <= 0:
		return errors.New("lacunarity must be positive")
	case o.Gain <= 0:
		return errors.New("gain must be positive")
	}
	return nil
}

// norm returns the sum of octave amplitudes so fbm output stays in [-1, 1].
func (o Octaves) norm() float64 {
	sum, amp := 0.0, 1.0
	for i := 0; i < o.Count; i++ {
		sum += amp
		amp *= o.Gain
	}
	return sum
}

// Heightmap is a 2D noise terrain: the density at p is p.Z minus the
// terrain height at (p.X, p.Y). Heights span [0.1, 2.1]*Scale.
type Heightmap struct {
	noise opensimplex.Noise
	oct   Octaves
	// Scale is half the vertical range of the terrain, in cells.
	Scale float64
}

// NewHeightmap returns a height map whose terrain height is
// (noise+1.1)*(chunkSize/2) using integer halving, so the surface sits mostly inside a chunk of
// chunkSize cells stacked on z=0.
func NewHeightmap(seed int64, chunkSize int, oct Octaves) (*Heightmap, error) {
	if chunkSize < 1 {
		return nil, errors.New("chunk size must be 1 or larger")
	}
	if err := oct.validate(); err != nil {
		return nil, err
	}
	return &Heightmap{
		noise: opensimplex.New(seed),
		oct:   oct,
		Scale: float64(chunkSize / 2),
	}, nil
}

// Height returns the terrain height at (x, y).
func (h *Heightmap) Height(x, y float32) float32 {
	o := h.oct
	freq, amp, sum := o.Frequency, 1.0, 0.0
	for i := 0; i < o.Count; i++ {
		sum += amp * h.noise.Eval2(float64(x)*freq, float64(y)*freq)
		freq *= o.Lacunarity
		amp *= o.Gain
	}
	return float32((sum/o.norm() + 1.1) * h.Scale)
}

// Evaluate implements the bulk sampler interface.
func (h *Heightmap) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = p.Z - h.Height(p.X, p.Y)
	}
	return nil
}

// Volume is a 3D noise density. Unlike Heightmap it produces caves and
// overhangs; the zero level set is scattered through the whole volume.
type Volume struct {
	noise opensimplex.Noise
	oct   Octaves
	// Bias is added to every sample. Positive values carve more air.
	Bias float32
}

// NewVolume returns a 3D noise sampler.
func NewVolume(seed int64, oct Octaves) (*Volume, error) {
	if err := oct.validate(); err != nil {
		return nil, err
	}
	return &Volume{noise: opensimplex.New(seed), oct: oct}, nil
}

// Density returns the noise density at p.
func (v *Volume) Density(p ms3.Vec) float32 {
	o := v.oct
	freq, amp, sum := o.Frequency, 1.0, 0.0
	for i := 0; i < o.Count; i++ {
		sum += amp * v.noise.Eval3(float64(p.X)*freq, float64(p.Y)*freq, float64(p.Z)*freq)
		freq *= o.Lacunarity
		amp *= o.Gain
	}
	return float32(sum/o.norm()) + v.Bias
}

// Evaluate implements the bulk sampler interface.
func (v *Volume) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = v.Density(p)
	}
	return nil
}
