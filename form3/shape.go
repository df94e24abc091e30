// Package form3 implements signed distance shapes that evaluate on the CPU
// in bulk. Every shape is a density source for filling a field: negative
// inside, positive outside, with magnitude close to the distance to the
// surface.
package form3

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets/internal/d3"
)

// Shape is a 3D signed distance field evaluated over many positions at once.
type Shape interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length. Resulting distances are stored
	// in dist.
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
	// Bounds returns the shape's bounding box such that all of the shape is contained within.
	Bounds() ms3.Box
}

const largenum = 1e20

// floatPool hands out scratch distance buffers to operations. Shapes are
// stateless so they can be evaluated from many goroutines at once.
var floatPool = sync.Pool{
	New: func() any { return new([]float32) },
}

func acquireFloats(n int) *[]float32 {
	buf := floatPool.Get().(*[]float32)
	if cap(*buf) < n {
		*buf = make([]float32, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func releaseFloats(buf *[]float32) { floatPool.Put(buf) }

var vecPool = sync.Pool{
	New: func() any { return new([]ms3.Vec) },
}

func acquireVecs(n int) *[]ms3.Vec {
	buf := vecPool.Get().(*[]ms3.Vec)
	if cap(*buf) < n {
		*buf = make([]ms3.Vec, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func releaseVecs(buf *[]ms3.Vec) { vecPool.Put(buf) }

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func hypotf(a, b float32) float32 {
	return math32.Hypot(a, b)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

func mixf(x, y, a float32) float32 {
	return x*(1-a) + y*a
}

func unionBox(a, b ms3.Box) ms3.Box { return d3.Extend(a, b) }

func intersectBox(a, b ms3.Box) ms3.Box {
	return ms3.Box{Min: d3.MaxElem(a.Min, b.Min), Max: d3.MinElem(a.Max, b.Max)}
}
