package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"golang.org/x/image/colornames"
)

// View configures the camera of a preview. Positions are in the bi-unit
// cube the mesh is fitted into before drawing.
type View struct {
	Eye, LookAt, Up ms3.Vec
	// Vertical field of view in degrees.
	Fovy      float64
	Near, Far float64
	// Supersampling factor. Values below 1 are treated as 1.
	Scale      int
	Background color.Color
	Object     color.Color
}

// DefaultView looks at the origin from the (+X,+Y,+Z) octant with Z up.
func DefaultView() View {
	return View{
		Eye:        ms3.Vec{X: 3, Y: 3, Z: 3},
		Up:         ms3.Vec{Z: 1},
		Fovy:       30,
		Near:       1,
		Far:        10,
		Scale:      2,
		Background: colornames.Oldlace,
		Object:     colornames.Seagreen,
	}
}

// Preview rasterizes counter-clockwise triangles with a Phong shader and
// returns a width×height image.
func Preview(model []ms3.Triangle, width, height int, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if width < 1 || height < 1 {
		return nil, errors.New("preview dimensions must be positive")
	}
	scale := view.Scale
	if scale < 1 {
		scale = 1
	}
	mesh := fauxglMesh(model)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.MakeColor(view.Background))

	var (
		eye    = fauxglVec(view.Eye)
		center = fauxglVec(view.LookAt)
		up     = fauxglVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		aspect = float64(width) / float64(height)
	)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.MakeColor(view.Object)
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePreviewPNG renders a preview of model with the default view to a PNG file.
func SavePreviewPNG(path string, model []ms3.Triangle, width, height int) error {
	img, err := Preview(model, width, height, DefaultView())
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglMesh(model []ms3.Triangle) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		n := fauxglVec(facetNormal(t))
		tri := fauxgl.NewTriangle(
			fauxgl.Vertex{Position: fauxglVec(t[0]), Normal: n},
			fauxgl.Vertex{Position: fauxglVec(t[1]), Normal: n},
			fauxgl.Vertex{Position: fauxglVec(t[2]), Normal: n},
		)
		tris = append(tris, tri)
	}
	return fauxgl.NewTriangleMesh(tris)
}

func fauxglVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}
