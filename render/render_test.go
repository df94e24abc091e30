package render_test

import (
	"bytes"
	"image/png"
	"io"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
	"github.com/soypat/surfnets/render"
	"gonum.org/v1/plot/cmpimg"
)

func TestTrianglesWindCounterClockwise(t *testing.T) {
	mesh := sphereMesh(t, 16, 5)
	tris := render.Triangles(&mesh)
	if len(tris) != mesh.TriangleCount() {
		t.Fatalf("got %d triangles, want %d", len(tris), mesh.TriangleCount())
	}
	center := ms3.Vec{X: 8, Y: 8, Z: 8}
	outward := 0
	for _, tri := range tris {
		n := tri.Normal()
		c := ms3.Scale(1.0/3, ms3.Add(tri[0], ms3.Add(tri[1], tri[2])))
		if dot(n, ms3.Sub(c, center)) > 0 {
			outward++
		}
	}
	// Individual triangles of a quad may tilt, the surface as a whole may not.
	if outward < len(tris)*95/100 {
		t.Errorf("only %d/%d triangles face outward", outward, len(tris))
	}
}

func TestRenderAll(t *testing.T) {
	mesh := sphereMesh(t, 16, 5)
	origin := ms3.Vec{X: 100, Y: -50}
	want := render.AppendTriangles(nil, &mesh, origin)
	got, err := render.RenderAll(render.NewMeshRenderer(&mesh, origin))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("triangle %d: got %v, want %v", i, got[i], want[i])
		}
	}

	r := render.NewTriangleRenderer(want[:3])
	buf := make([]ms3.Triangle, 2)
	n, err := r.ReadTriangles(buf)
	if n != 2 || err != nil {
		t.Fatalf("first read got %d, %v", n, err)
	}
	n, err = r.ReadTriangles(buf)
	if n != 1 || err != nil {
		t.Fatalf("second read got %d, %v", n, err)
	}
	if _, err = r.ReadTriangles(buf); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestSTLRoundTrip(t *testing.T) {
	mesh := sphereMesh(t, 16, 5)
	tris := render.Triangles(&mesh)
	var buf bytes.Buffer
	n, err := render.WriteBinarySTL(&buf, tris)
	if err != nil {
		t.Fatal(err)
	}
	if want := 84 + 50*len(tris); n != want || buf.Len() != want {
		t.Fatalf("wrote %d bytes (buffer %d), want %d", n, buf.Len(), want)
	}
	got, err := render.ReadBinarySTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(tris) {
		t.Fatalf("read %d triangles, want %d", len(got), len(tris))
	}
	for i := range got {
		if got[i] != tris[i] {
			t.Fatalf("triangle %d: got %v, want %v", i, got[i], tris[i])
		}
	}
}

func TestSTLErrors(t *testing.T) {
	if _, err := render.WriteBinarySTL(io.Discard, nil); err == nil {
		t.Error("want error writing empty model")
	}
	if _, err := render.ReadBinarySTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("want error reading truncated header")
	}
	// Header claims one triangle but the body is missing.
	data := make([]byte, 84)
	data[80] = 1
	if _, err := render.ReadBinarySTL(bytes.NewReader(data)); err == nil {
		t.Error("want error reading truncated body")
	}
}

func TestWriteGLTF(t *testing.T) {
	mesh := sphereMesh(t, 16, 5)
	origin := ms3.Vec{X: 16, Y: 0, Z: -16}
	var buf bytes.Buffer
	err := render.WriteGLTF(&buf, true,
		render.NamedMesh{Name: "empty", Mesh: &surfnets.MeshData{}},
		render.NamedMesh{Name: "sphere", Origin: origin, Mesh: &mesh},
	)
	if err != nil {
		t.Fatal(err)
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(&buf).Decode(doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Fatalf("got %d meshes and %d nodes, want 1 each", len(doc.Meshes), len(doc.Nodes))
	}
	node := doc.Nodes[0]
	if node.Name != "sphere" || node.Translation != [3]float32{origin.X, origin.Y, origin.Z} {
		t.Errorf("unexpected node %q translation %v", node.Name, node.Translation)
	}
	prim := doc.Meshes[0].Primitives[0]
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != len(mesh.Vertices) {
		t.Fatalf("got %d positions, want %d", len(positions), len(mesh.Vertices))
	}
	for i, p := range positions {
		v := mesh.Vertices[i]
		if p != [3]float32{v.X, v.Y, v.Z} {
			t.Fatalf("position %d: got %v, want %v", i, p, v)
		}
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(indices) != len(mesh.Triangles) {
		t.Fatalf("got %d indices, want %d", len(indices), len(mesh.Triangles))
	}
	for i := 0; i < len(indices); i += 3 {
		a, b, c := mesh.Triangles[i], mesh.Triangles[i+1], mesh.Triangles[i+2]
		if indices[i] != a || indices[i+1] != c || indices[i+2] != b {
			t.Fatalf("triangle %d: got %v, want reversed %v", i/3, indices[i:i+3], []uint32{a, b, c})
		}
	}

	if err := render.WriteGLTF(io.Discard, false, render.NamedMesh{Name: "empty", Mesh: &surfnets.MeshData{}}); err == nil {
		t.Error("want error writing only empty meshes")
	}
}

func TestPreview(t *testing.T) {
	mesh := sphereMesh(t, 16, 5)
	tris := render.Triangles(&mesh)
	const w, h = 64, 48
	view := render.DefaultView()
	img, err := render.Preview(tris, w, h, view)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("got image bounds %v", b)
	}
	br, bg, bb, _ := view.Background.RGBA()
	cr, cg, cb, _ := img.At(w/2, h/2).RGBA()
	if absDiff(br, cr)+absDiff(bg, cg)+absDiff(bb, cb) < 0x1000 {
		t.Error("center pixel is background colored, sphere not drawn")
	}

	// Rendering is deterministic.
	img2, err := render.Preview(tris, w, h, view)
	if err != nil {
		t.Fatal(err)
	}
	var b1, b2 bytes.Buffer
	if err := png.Encode(&b1, img); err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&b2, img2); err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", b1.Bytes(), b2.Bytes(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("repeated previews differ")
	}

	if _, err := render.Preview(nil, w, h, view); err == nil {
		t.Error("want error previewing empty model")
	}
}

func TestWriteSlicePNG(t *testing.T) {
	f := sphereField(t, 16, 5)
	var buf bytes.Buffer
	if err := render.WriteSlicePNG(&buf, f, 8, 200); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Empty() {
		t.Error("empty slice image")
	}
	if err := render.WriteSlicePNG(io.Discard, f, f.Padded(), 200); err == nil {
		t.Error("want error for slice outside field")
	}
}

func TestChangedVertices(t *testing.T) {
	f := sphereField(t, 16, 5)
	ex := surfnets.NewExtractor(1)
	before := ex.Extract(f).Clone()
	if got := render.ChangedVertices(&before, &before, 1e-4); len(got) != 0 {
		t.Fatalf("unchanged mesh reported %d changed vertices", len(got))
	}
	center := surfnets.V3i{13, 8, 8} // on the sphere surface
	f.ApplyBrush(center, true)
	after := ex.Extract(f).Clone()
	changed := render.ChangedVertices(&before, &after, 1e-4)
	if len(changed) == 0 {
		t.Fatal("brush did not change any vertex")
	}
	c := center.Vec()
	for _, i := range changed {
		// The brush affects cells within its radius; their vertices lie at
		// most one cell further away.
		if d := ms3.Norm(ms3.Sub(after.Vertices[i], c)); d > surfnets.DefaultBrushRadius+2 {
			t.Errorf("changed vertex %d at distance %v from brush", i, d)
		}
	}
	if got := render.ChangedVertices(&surfnets.MeshData{}, &after, 1); len(got) != len(after.Vertices) {
		t.Errorf("all vertices should be new against empty mesh, got %d", len(got))
	}
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func sphereField(t testing.TB, n int, r float32) *surfnets.Field {
	f, err := surfnets.NewField(n)
	if err != nil {
		t.Fatal(err)
	}
	center := ms3.Vec{X: float32(n) / 2, Y: float32(n) / 2, Z: float32(n) / 2}
	err = f.Fill(surfnets.SamplerFunc(func(p ms3.Vec) float32 {
		return ms3.Norm(ms3.Sub(p, center)) - r
	}), surfnets.V3i{})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func sphereMesh(t testing.TB, n int, r float32) surfnets.MeshData {
	return surfnets.Extract(sphereField(t, n, r), 1)
}

func dot(a, b ms3.Vec) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
