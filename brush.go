package surfnets

import "github.com/chewxy/math32"

// DefaultBrushRadius is the radius in cells of the brush used by ApplyBrush.
const DefaultBrushRadius = 2

// Brush is a spherical, linearly falling off density edit. A cell at
// distance d from the brush center changes by Strength*max(Radius-d, 0).
type Brush struct {
	Radius   float32
	Strength float32
}

// DefaultBrush returns the brush used by ApplyBrush.
func DefaultBrush() Brush {
	return Brush{Radius: DefaultBrushRadius, Strength: 1}
}

// ApplyBrush sculpts f around center with the default brush.
// See [Brush.Apply].
func ApplyBrush(f *Field, center V3i, addingMaterial bool) {
	DefaultBrush().Apply(f, center, addingMaterial)
}

// ApplyBrush sculpts the field around center with the default brush.
func (f *Field) ApplyBrush(center V3i, addingMaterial bool) {
	DefaultBrush().Apply(f, center, addingMaterial)
}

// Apply adds material (lowers density) or carves it away (raises density)
// around center. Only cells with coordinates in [0, N] on every axis are
// touched. Neighbouring fields are not modified, so edits next to a field
// border do not continue into the adjacent field. The mesh is not updated;
// run the Extractor again to see the edit.
func (b Brush) Apply(f *Field, center V3i, addingMaterial bool) {
	if b.Radius <= 0 {
		return
	}
	strength := b.Strength
	if addingMaterial {
		strength = -strength
	}
	r := int(math32.Ceil(b.Radius))
	n := f.Size()
	var off V3i
	for off[2] = -r; off[2] <= r; off[2]++ {
		for off[1] = -r; off[1] <= r; off[1]++ {
			for off[0] = -r; off[0] <= r; off[0]++ {
				c := center.Add(off)
				if c[0] < 0 || c[0] > n || c[1] < 0 || c[1] > n || c[2] < 0 || c[2] > n {
					continue
				}
				falloff := b.Radius - math32.Sqrt(float32(off.Dot(off)))
				if falloff <= 0 {
					continue // Outside the sphere. Keeps -0 densities intact.
				}
				f.data[f.Index(c)] += strength * falloff
			}
		}
	}
}
