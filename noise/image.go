package noise

import (
	"errors"
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
)

// Image is a height map read from image brightness. Black is height 0 and
// white is MaxHeight. Pixel (x, y) covers cells [x, x+1)×[y, y+1) after
// scaling; positions outside the image take the nearest edge pixel.
type Image struct {
	img       image.Image
	bounds    image.Rectangle
	MaxHeight float32
}

// NewImage returns a height map of img resampled so one pixel spans
// cellsPerPixel cells.
func NewImage(img image.Image, maxHeight, cellsPerPixel float32) (*Image, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if maxHeight <= 0 {
		return nil, errors.New("max height must be positive")
	}
	if cellsPerPixel <= 0 {
		return nil, errors.New("cells per pixel must be positive")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty image")
	}
	if cellsPerPixel != 1 {
		w := uint(math.Round(float64(b.Dx()) * float64(cellsPerPixel)))
		h := uint(math.Round(float64(b.Dy()) * float64(cellsPerPixel)))
		if w == 0 || h == 0 {
			return nil, errors.New("image resampled to zero size")
		}
		img = resize.Resize(w, h, img, resize.Bilinear)
	}
	return &Image{img: img, bounds: img.Bounds(), MaxHeight: maxHeight}, nil
}

// Size returns the image extent in cells.
func (i *Image) Size() (width, height int) { return i.bounds.Dx(), i.bounds.Dy() }

// Height returns the terrain height at (x, y).
func (i *Image) Height(x, y float32) float32 {
	px := clampInt(int(math.Floor(float64(x))), 0, i.bounds.Dx()-1) + i.bounds.Min.X
	py := clampInt(int(math.Floor(float64(y))), 0, i.bounds.Dy()-1) + i.bounds.Min.Y
	r, g, b, _ := i.img.At(px, py).RGBA()
	return i.MaxHeight * float32(r+g+b) / (3 * math.MaxUint16)
}

// Evaluate implements the bulk sampler interface.
func (i *Image) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for k, p := range pos {
		dist[k] = p.Z - i.Height(p.X, p.Y)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
