package form3

import (
	"errors"

	"github.com/soypat/glgl/math/ms3"
)

type sphere struct {
	r float32
}

// NewSphere returns a sphere of radius r centered at the origin.
func NewSphere(r float32) (Shape, error) {
	valid := r > 0
	if !valid {
		return nil, errors.New("zero or negative sphere radius")
	}
	return &sphere{r: r}, nil
}

func (s *sphere) Bounds() ms3.Box {
	return ms3.Box{
		Min: ms3.Vec{X: -s.r, Y: -s.r, Z: -s.r},
		Max: ms3.Vec{X: s.r, Y: s.r, Z: s.r},
	}
}

func (s *sphere) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	r := s.r
	for i, p := range pos {
		dist[i] = ms3.Norm(p) - r
	}
	return nil
}

// NewBox returns a box of dimensions x,y,z centered at the origin with
// edges rounded by round.
func NewBox(x, y, z, round float32) (Shape, error) {
	if round < 0 || round > x/2 || round > y/2 || round > z/2 {
		return nil, errors.New("invalid box rounding value")
	} else if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.New("zero or negative box dimension")
	}
	return &box{dims: ms3.Vec{X: x, Y: y, Z: z}, round: round}, nil
}

type box struct {
	dims  ms3.Vec
	round float32
}

func (s *box) Bounds() ms3.Box {
	return ms3.NewCenteredBox(ms3.Vec{}, s.dims)
}

func (s *box) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	d := ms3.Scale(0.5, s.dims)
	r := s.round
	for i, p := range pos {
		q := ms3.AddScalar(r, ms3.Sub(ms3.AbsElem(p), d))
		dist[i] = ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0.0) - r
	}
	return nil
}

// NewTorus returns a torus lying on the XY plane. greaterRadius is the
// distance from the center to the middle of the ring, ringRadius the
// radius of the ring's cross section.
func NewTorus(greaterRadius, ringRadius float32) (Shape, error) {
	if greaterRadius <= 0 || ringRadius <= 0 {
		return nil, errors.New("zero or negative torus radius")
	} else if ringRadius >= greaterRadius {
		return nil, errors.New("torus ring radius must be smaller than greater radius")
	}
	return &torus{rGreater: greaterRadius, rRing: ringRadius}, nil
}

type torus struct {
	rGreater, rRing float32
}

func (s *torus) Bounds() ms3.Box {
	r := s.rGreater + s.rRing
	return ms3.Box{
		Min: ms3.Vec{X: -r, Y: -r, Z: -s.rRing},
		Max: ms3.Vec{X: r, Y: r, Z: s.rRing},
	}
}

func (s *torus) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		q := hypotf(p.X, p.Y) - s.rGreater
		dist[i] = hypotf(q, p.Z) - s.rRing
	}
	return nil
}

// NewCylinder returns a cylinder of radius r and height h along the Z axis
// centered at the origin. Its edges are rounded by rounding.
func NewCylinder(r, h, rounding float32) (Shape, error) {
	if rounding < 0 || rounding >= r || rounding > h/2 {
		return nil, errors.New("invalid cylinder rounding")
	}
	if r <= 0 || h <= 0 {
		return nil, errors.New("zero or negative cylinder dimension")
	}
	return &cylinder{r: r, h: h, round: rounding}, nil
}

type cylinder struct {
	r     float32
	h     float32
	round float32
}

func (s *cylinder) Bounds() ms3.Box {
	return ms3.Box{
		Min: ms3.Vec{X: -s.r, Y: -s.r, Z: -s.h / 2},
		Max: ms3.Vec{X: s.r, Y: s.r, Z: s.h / 2},
	}
}

func (s *cylinder) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	rb := s.round
	hh := s.h/2 - rb
	ra := s.r - rb
	for i, p := range pos {
		d1 := hypotf(p.X, p.Y) - ra
		d2 := absf(p.Z) - hh
		dist[i] = minf(maxf(d1, d2), 0) + hypotf(maxf(d1, 0), maxf(d2, 0)) - rb
	}
	return nil
}

// NewGround returns the half-space below the horizontal plane z=height.
// It is unbounded on X and Y.
func NewGround(height float32) Shape {
	return &ground{h: height}
}

type ground struct {
	h float32
}

func (s *ground) Bounds() ms3.Box {
	return ms3.Box{
		Min: ms3.Vec{X: -largenum, Y: -largenum, Z: -largenum},
		Max: ms3.Vec{X: largenum, Y: largenum, Z: s.h},
	}
}

func (s *ground) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = p.Z - s.h
	}
	return nil
}

func absf(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}
