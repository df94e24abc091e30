package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
)

// NamedMesh is a mesh placed at Origin in world space.
type NamedMesh struct {
	Name   string
	Origin ms3.Vec
	Mesh   *surfnets.MeshData
}

// WriteGLTF encodes meshes as a glTF 2.0 scene with one node per non-empty
// mesh. Each node is translated to its mesh origin and indices wind
// counter-clockwise.
// If binary is true the output is a GLB container.
func WriteGLTF(w io.Writer, binary bool, meshes ...NamedMesh) error {
	doc := gltf.NewDocument()
	for _, nm := range meshes {
		m := nm.Mesh
		if m == nil || m.IsEmpty() || m.TriangleCount() == 0 {
			continue
		}
		if len(m.Normals) != len(m.Vertices) {
			return fmt.Errorf("mesh %q: %d normals for %d vertices", nm.Name, len(m.Normals), len(m.Vertices))
		}
		positions := make([][3]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = arrayFromVec(v)
		}
		normals := make([][3]float32, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = arrayFromVec(n)
		}
		indices := make([]uint32, len(m.Triangles))
		for i := 0; i+2 < len(m.Triangles); i += 3 {
			indices[i] = m.Triangles[i]
			indices[i+1] = m.Triangles[i+2]
			indices[i+2] = m.Triangles[i+1]
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: nm.Name,
			Primitives: []*gltf.Primitive{{
				Mode:    gltf.PrimitiveTriangles,
				Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: gltf.Attribute{
					gltf.POSITION: modeler.WritePosition(doc, positions),
					gltf.NORMAL:   modeler.WriteNormal(doc, normals),
				},
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        nm.Name,
			Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
			Translation: arrayFromVec(nm.Origin),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	if len(doc.Meshes) == 0 {
		return errors.New("no triangles to write")
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	return enc.Encode(doc)
}
