package form3

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/glgl/math/ms3"
)

// FromSDFX adapts a shape built with github.com/deadsy/sdfx. Evaluation
// happens point by point in float64 and is rounded to float32.
func FromSDFX(s sdf.SDF3) Shape {
	return sdfxShape{s: s}
}

type sdfxShape struct {
	s sdf.SDF3
}

func (s sdfxShape) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = float32(s.s.Evaluate(sdf.V3{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}))
	}
	return nil
}

func (s sdfxShape) Bounds() ms3.Box {
	bb := s.s.BoundingBox()
	return ms3.Box{
		Min: ms3.Vec{X: float32(bb.Min.X), Y: float32(bb.Min.Y), Z: float32(bb.Min.Z)},
		Max: ms3.Vec{X: float32(bb.Max.X), Y: float32(bb.Max.Y), Z: float32(bb.Max.Z)},
	}
}
