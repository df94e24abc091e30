package surfnets

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestBrushFalloff(t *testing.T) {
	const (
		n    = 10
		base = 3
		tol  = 1e-6
	)
	center := V3i{5, 4, 6}
	for _, adding := range []bool{false, true} {
		f := mustField(t, n)
		f.FillFunc(func(V3i) float32 { return base })
		f.ApplyBrush(center, adding)
		sign := float32(1)
		if adding {
			sign = -1
		}
		var p V3i
		for p[2] = 0; p[2] < f.Padded(); p[2]++ {
			for p[1] = 0; p[1] < f.Padded(); p[1]++ {
				for p[0] = 0; p[0] < f.Padded(); p[0]++ {
					off := p.Sub(center)
					dist := math32.Sqrt(float32(off.Dot(off)))
					want := float32(base)
					if dist < DefaultBrushRadius {
						want += sign * (DefaultBrushRadius - dist)
					}
					if got := f.At(p); math32.Abs(got-want) > tol {
						t.Fatalf("adding=%v cell %v: got %v, want %v", adding, p, got, want)
					}
				}
			}
		}
	}
}

func TestBrushSymmetric(t *testing.T) {
	f := mustField(t, 10)
	center := V3i{5, 5, 5}
	f.ApplyBrush(center, false)
	for _, off := range []V3i{{1, 0, 0}, {0, 1, 1}, {1, 1, 1}} {
		for _, s := range []int{1, -1} {
			a := f.At(center.Add(off.Scale(s)))
			b := f.At(center.Add(V3i{off[2], off[0], off[1]}.Scale(-s)))
			if a != b {
				t.Errorf("brush not symmetric for offset %v: %v != %v", off.Scale(s), a, b)
			}
		}
	}
}

func TestBrushClipsToLogicalRange(t *testing.T) {
	const n = 6
	f := mustField(t, n)
	ApplyBrush(f, V3i{n, n, n}, true)
	if got := f.At(V3i{n, n, n}); got != -DefaultBrushRadius {
		t.Errorf("center got %v, want %v", got, -DefaultBrushRadius)
	}
	// The far padding layer lies outside [0, N] and is never edited.
	for _, p := range []V3i{{n + 1, n, n}, {n, n + 1, n}, {n, n, n + 1}} {
		if got := f.At(p); got != 0 {
			t.Errorf("padding cell %v edited: %v", p, got)
		}
	}
	// Corner brush must not wrap around the flat buffer.
	g := mustField(t, n)
	ApplyBrush(g, V3i{0, 0, 0}, false)
	if got := g.At(V3i{g.Padded() - 1, 0, 0}); got != 0 {
		t.Errorf("brush at origin wrapped to %v", got)
	}
}

func TestBrushPreservesNegativeZeroOutsideRadius(t *testing.T) {
	f := mustField(t, 8)
	negZero := math32.Copysign(0, -1)
	f.FillFunc(func(V3i) float32 { return negZero })
	Brush{Radius: 1.5, Strength: 2}.Apply(f, V3i{4, 4, 4}, false)
	if got := f.At(V3i{6, 4, 4}); !math32.Signbit(got) {
		t.Error("cell outside brush lost its sign")
	}
	if got := f.At(V3i{4, 4, 4}); got != 3 {
		t.Errorf("center got %v, want 3", got)
	}
}
