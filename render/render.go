// Package render consumes meshes produced by Surface Nets extraction:
// triangle streaming, file exporters and image previews.
//
// Extracted meshes wind clockwise seen from outside. Everything in this
// package works with counter-clockwise triangles; conversion happens in
// AppendTriangles.
package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once there are no
// more triangles to read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (int, error)
}

// Triangles returns the triangles of m wound counter-clockwise.
func Triangles(m *surfnets.MeshData) []ms3.Triangle {
	return AppendTriangles(nil, m, ms3.Vec{})
}

// AppendTriangles appends the triangles of m translated by origin to dst,
// swapping the last two vertices of each so they wind counter-clockwise.
func AppendTriangles(dst []ms3.Triangle, m *surfnets.MeshData, origin ms3.Vec) []ms3.Triangle {
	v := m.Vertices
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i], m.Triangles[i+1], m.Triangles[i+2]
		dst = append(dst, ms3.Triangle{
			ms3.Add(origin, v[a]),
			ms3.Add(origin, v[c]),
			ms3.Add(origin, v[b]),
		})
	}
	return dst
}

// NewMeshRenderer returns a Renderer over the triangles of m translated by origin.
func NewMeshRenderer(m *surfnets.MeshData, origin ms3.Vec) Renderer {
	return &triangleBuffer{buf: AppendTriangles(nil, m, origin)}
}

// NewTriangleRenderer returns a Renderer over tris. tris is not copied.
func NewTriangleRenderer(tris []ms3.Triangle) Renderer {
	return &triangleBuffer{buf: tris}
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, 1<<12)
	buf := make([]ms3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangleBuffer struct {
	buf []ms3.Triangle
}

func (b *triangleBuffer) ReadTriangles(t []ms3.Triangle) (int, error) {
	if len(b.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n, nil
}
