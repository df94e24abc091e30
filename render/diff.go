package render

import (
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
	"github.com/soypat/surfnets/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// ChangedVertices returns the indices of vertices in after that have no
// vertex of before within tol. It reports where an edit moved the surface.
func ChangedVertices(before, after *surfnets.MeshData, tol float32) []int {
	var changed []int
	if len(before.Vertices) == 0 {
		for i := range after.Vertices {
			changed = append(changed, i)
		}
		return changed
	}
	pts := make(kdtree.Points, len(before.Vertices))
	for i, v := range before.Vertices {
		pts[i] = kdPoint(v)
	}
	tree := kdtree.New(pts, false)
	tol2 := float64(tol) * float64(tol)
	for i, v := range after.Vertices {
		_, dist2 := tree.Nearest(kdPoint(v))
		if dist2 > tol2 {
			changed = append(changed, i)
		}
	}
	return changed
}

func kdPoint(v ms3.Vec) kdtree.Point {
	r := d3.R3(v)
	return kdtree.Point{r.X, r.Y, r.Z}
}
