package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/surfnets"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// fieldSlice exposes one Z layer of a padded field as a plotter.GridXYZ.
type fieldSlice struct {
	f *surfnets.Field
	z int
}

func (s fieldSlice) Dims() (c, r int) { p := s.f.Padded(); return p, p }

func (s fieldSlice) Z(c, r int) float64 {
	return float64(s.f.At(surfnets.V3i{c, r, s.z}))
}

func (s fieldSlice) X(c int) float64 { return float64(c) }
func (s fieldSlice) Y(r int) float64 { return float64(r) }

// WriteSlicePNG plots the densities of layer z of f as a heat map with the
// surface contour overlaid and writes a size×size point PNG to w.
func WriteSlicePNG(w io.Writer, f *surfnets.Field, z int, size vg.Length) error {
	if z < 0 || z >= f.Padded() {
		return fmt.Errorf("slice z=%d outside field of padded size %d", z, f.Padded())
	}
	if size <= 0 {
		return errors.New("plot size must be positive")
	}
	grid := fieldSlice{f: f, z: z}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("density z=%d", z)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	heat := plotter.NewHeatMap(grid, palette.Heat(32, 1))
	p.Add(heat)
	if hasSignChange(grid) {
		contour := plotter.NewContour(grid, []float64{0}, palette.Rainbow(1, palette.Blue, palette.Blue, 1, 1, 1))
		p.Add(contour)
	}
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func hasSignChange(g fieldSlice) bool {
	c, r := g.Dims()
	var neg, pos bool
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			if g.Z(i, j) < 0 {
				neg = true
			} else {
				pos = true
			}
		}
	}
	return neg && pos
}
