package surfnets

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// noVertex marks a VertexTable entry for a cell the surface does not cross.
const noVertex = -1

// MeshData is a welded triangle mesh. Normals are index aligned with
// Vertices and Triangles holds vertex index triples. Triangles wind
// clockwise when viewed from the side the normals point towards.
type MeshData struct {
	Vertices  []ms3.Vec
	Normals   []ms3.Vec
	Triangles []uint32
}

// Reset empties the mesh while keeping allocated memory.
func (m *MeshData) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.Triangles = m.Triangles[:0]
}

// Clone returns a copy of m that shares no memory with it.
func (m *MeshData) Clone() MeshData {
	return MeshData{
		Vertices:  append([]ms3.Vec(nil), m.Vertices...),
		Normals:   append([]ms3.Vec(nil), m.Normals...),
		Triangles: append([]uint32(nil), m.Triangles...),
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *MeshData) TriangleCount() int { return len(m.Triangles) / 3 }

// IsEmpty reports whether the mesh has no vertices.
func (m *MeshData) IsEmpty() bool { return len(m.Vertices) == 0 }

func (m *MeshData) addTriangle(a, b, c int32) {
	m.Triangles = append(m.Triangles, uint32(a), uint32(b), uint32(c))
}

// Stats counts the work done by the last extraction pass.
type Stats struct {
	Cells        int // cells scanned
	SurfaceCells int // cells with a vertex
	Quads        int // quads emitted, two triangles each
	SkippedQuads int // quads dropped on the minimum boundary of the field
}

// Extractor runs Surface Nets over a Field. The vertex table and mesh are
// reused between calls. An Extractor must not be used from more than one
// goroutine at a time; extract independent fields concurrently with one
// Extractor each.
type Extractor struct {
	cellSize    float32
	vertexTable []int32
	padded      int
	stride      V3i
	mesh        MeshData
	stats       Stats
}

// NewExtractor returns an Extractor that scales vertex positions by cellSize.
func NewExtractor(cellSize float32) *Extractor {
	if cellSize <= 0 || math32.IsInf(cellSize, 0) || math32.IsNaN(cellSize) {
		panic("cell size must be positive and finite")
	}
	return &Extractor{cellSize: cellSize}
}

// Extract is a convenience that runs a fresh Extractor over f and returns
// a mesh owned by the caller.
func Extract(f *Field, cellSize float32) MeshData {
	return NewExtractor(cellSize).Extract(f).Clone()
}

// CellSize returns the world-space edge length of a grid cell.
func (e *Extractor) CellSize() float32 { return e.cellSize }

// Stats returns the counters of the last Extract call.
func (e *Extractor) Stats() Stats { return e.stats }

// VertexAt returns the index of the vertex the last Extract call created at
// cell p. ok is false if the cell had no vertex or was not scanned.
func (e *Extractor) VertexAt(p V3i) (idx int, ok bool) {
	for _, c := range p {
		if c < 0 || c >= e.padded-1 {
			return -1, false
		}
	}
	v := e.vertexTable[p.Dot(e.stride)]
	return int(v), v != noVertex
}

// Extract polygonizes the zero crossing of f. The returned mesh is owned
// by the Extractor and is overwritten by the next call to Extract.
//
// Cells are visited with Z as the outer axis and X as the inner axis, all
// increasing. Quads are stitched between the current cell and the three
// cells behind it on the two axes orthogonal to the quad's axis, which
// this order guarantees have already been visited. Do not reorder or
// parallelize the scan.
func (e *Extractor) Extract(f *Field) *MeshData {
	e.reset(f)
	var (
		data     = f.data
		stride   = e.stride
		maxCell  = e.padded - 1
		corners  [8]int
		cube     [8]float32
		pos      V3i
		cellSize = e.cellSize
	)
	for c := range corners {
		corners[c] = CornerOffset[c].Dot(stride)
	}
	for pos[2] = 0; pos[2] < maxCell; pos[2]++ {
		for pos[1] = 0; pos[1] < maxCell; pos[1]++ {
			pos[0] = 0
			idx := pos.Dot(stride)
			for ; pos[0] < maxCell; pos[0], idx = pos[0]+1, idx+1 {
				e.stats.Cells++
				var mask uint8
				for c := range cube {
					v := data[idx+corners[c]]
					cube[c] = v
					mask |= uint8(math.Float32bits(v)>>31) << c
				}
				if mask == 0 || mask == 0xff {
					e.vertexTable[idx] = noVertex
					continue
				}

				v1 := int32(len(e.mesh.Vertices))
				e.vertexTable[idx] = v1
				vertex, normal := surfacePoint(&cube)
				vertex = ms3.Scale(cellSize, ms3.Add(vertex, pos.Vec()))
				e.mesh.Vertices = append(e.mesh.Vertices, vertex)
				e.mesh.Normals = append(e.mesh.Normals, normal)
				e.stats.SurfaceCells++

				flags := AxisFlags[mask&axisMask]
				for axis := 0; axis < 3; axis++ {
					if flags&(1<<axis) == 0 {
						continue
					}
					ortho1 := (axis + 1) % 3
					ortho2 := (axis + 2) % 3
					if pos[axis] < 1 || pos[ortho1] < 1 || pos[ortho2] < 1 {
						e.stats.SkippedQuads++
						continue
					}
					v2 := e.vertexTable[idx-stride[ortho1]]
					v3 := e.vertexTable[idx-stride[ortho1]-stride[ortho2]]
					v4 := e.vertexTable[idx-stride[ortho2]]
					if v2 == noVertex || v3 == noVertex || v4 == noVertex {
						panic("bug: quad neighbour cell has no vertex")
					}
					if mask&1 != 0 {
						v2, v4 = v4, v2
					}
					e.mesh.addTriangle(v1, v2, v3)
					e.mesh.addTriangle(v1, v3, v4)
					e.stats.Quads++
				}
			}
		}
	}
	return &e.mesh
}

func (e *Extractor) reset(f *Field) {
	e.mesh.Reset()
	e.stats = Stats{}
	e.padded = f.Padded()
	e.stride = f.stride
	if cap(e.vertexTable) < len(f.data) {
		e.vertexTable = make([]int32, len(f.data))
	}
	e.vertexTable = e.vertexTable[:len(f.data)]
	// Cells on the far padding layer are never scanned.
	for i := range e.vertexTable {
		e.vertexTable[i] = noVertex
	}
}

// surfacePoint estimates where the surface crosses a cell given its corner
// densities. The position is in unit cube coordinates. It averages the zero
// crossings of the 4 space diagonals and, if fewer than 3 of those cross,
// of the 12 cube edges as well.
func surfacePoint(cube *[8]float32) (pos, normal ms3.Vec) {
	var sum ms3.Vec
	crossings := 0
	for edge := len(EdgeEndpoints) - 1; edge >= 0; edge-- {
		c0, c1 := EdgeEndpoints[edge][0], EdgeEndpoints[edge][1]
		d0, d1 := cube[c0], cube[c1]
		if math32.Signbit(d0) != math32.Signbit(d1) {
			t := float32(0.5)
			if den := d0 - d1; den != 0 {
				t = d0 / den
			}
			p0, p1 := CornerPosition[c0], CornerPosition[c1]
			sum = ms3.Add(sum, ms3.Add(p0, ms3.Scale(t, ms3.Sub(p1, p0))))
			crossings++
		}
		if edge == diagonalEdges && crossings >= 3 {
			break
		}
	}
	if crossings == 0 {
		panic("surface point requested for cell with no sign change")
	}
	pos = ms3.Scale(1/float32(crossings), sum)

	// Two parallel edges per axis. Cheap, not the true gradient.
	normal = ms3.Vec{
		X: cube[1] - cube[0] + cube[7] - cube[6],
		Y: cube[2] - cube[0] + cube[7] - cube[5],
		Z: cube[4] - cube[0] + cube[7] - cube[3],
	}
	if n := ms3.Norm(normal); n > 0 {
		normal = ms3.Scale(1/n, normal)
	}
	return pos, normal
}
