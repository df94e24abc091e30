package form3

import (
	"errors"

	"github.com/soypat/glgl/math/ms3"
)

// Union joins the shapes.
func Union(s1, s2 Shape) Shape {
	return &union{s1: s1, s2: s2}
}

type union struct {
	s1, s2 Shape
}

func (u *union) Bounds() ms3.Box {
	return unionBox(u.s1.Bounds(), u.s2.Bounds())
}

func (u *union) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	return evaluateBinary(u.s1, u.s2, pos, dist, userData, minf)
}

// Difference removes b from a.
func Difference(a, b Shape) Shape {
	return &diff{s1: a, s2: b}
}

type diff struct {
	s1, s2 Shape
}

func (u *diff) Bounds() ms3.Box {
	return u.s1.Bounds()
}

func (u *diff) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	return evaluateBinary(u.s1, u.s2, pos, dist, userData, func(a, b float32) float32 {
		return maxf(a, -b)
	})
}

// Intersection keeps the volume common to both shapes.
func Intersection(a, b Shape) Shape {
	return &intersect{s1: a, s2: b}
}

type intersect struct {
	s1, s2 Shape
}

func (u *intersect) Bounds() ms3.Box {
	return intersectBox(u.s1.Bounds(), u.s2.Bounds())
}

func (u *intersect) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	return evaluateBinary(u.s1, u.s2, pos, dist, userData, maxf)
}

// SmoothUnion joins the shapes blending them over a distance k.
func SmoothUnion(s1, s2 Shape, k float32) (Shape, error) {
	if k <= 0 {
		return nil, errors.New("smooth union blend distance must be positive")
	}
	return &smoothUnion{s1: s1, s2: s2, k: k}, nil
}

type smoothUnion struct {
	s1, s2 Shape
	k      float32
}

func (u *smoothUnion) Bounds() ms3.Box {
	return unionBox(u.s1.Bounds(), u.s2.Bounds())
}

func (u *smoothUnion) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	k := u.k
	return evaluateBinary(u.s1, u.s2, pos, dist, userData, func(a, b float32) float32 {
		h := clampf(0.5+0.5*(b-a)/k, 0, 1)
		return mixf(b, a, h) - k*h*(1-h)
	})
}

// Translate moves s by (x,y,z).
func Translate(s Shape, x, y, z float32) Shape {
	return &translate{s: s, p: ms3.Vec{X: x, Y: y, Z: z}}
}

type translate struct {
	s Shape
	p ms3.Vec
}

func (u *translate) Bounds() ms3.Box {
	bb := u.s.Bounds()
	return ms3.Box{Min: ms3.Add(bb.Min, u.p), Max: ms3.Add(bb.Max, u.p)}
}

func (u *translate) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	buf := acquireVecs(len(pos))
	defer releaseVecs(buf)
	moved := *buf
	for i, p := range pos {
		moved[i] = ms3.Sub(p, u.p)
	}
	return u.s.Evaluate(moved, dist, userData)
}

// Scale resizes s uniformly by factor.
func Scale(s Shape, factor float32) (Shape, error) {
	if factor <= 0 {
		return nil, errors.New("scale factor must be positive")
	}
	return &scale{s: s, scale: factor}, nil
}

type scale struct {
	s     Shape
	scale float32
}

func (u *scale) Bounds() ms3.Box {
	bb := u.s.Bounds()
	return ms3.Box{Min: ms3.Scale(u.scale, bb.Min), Max: ms3.Scale(u.scale, bb.Max)}
}

func (u *scale) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	buf := acquireVecs(len(pos))
	defer releaseVecs(buf)
	scaled := *buf
	factorInv := 1 / u.scale
	for i, p := range pos {
		scaled[i] = ms3.Scale(factorInv, p)
	}
	err := u.s.Evaluate(scaled, dist, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] *= u.scale
	}
	return nil
}

// evaluateBinary evaluates s1 into dist and s2 into scratch space, then
// combines them element-wise with op.
func evaluateBinary(s1, s2 Shape, pos []ms3.Vec, dist []float32, userData any, op func(a, b float32) float32) error {
	buf := acquireFloats(len(dist))
	defer releaseFloats(buf)
	d2 := *buf
	err := s1.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	err = s2.Evaluate(pos, d2, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] = op(dist[i], d2[i])
	}
	return nil
}
