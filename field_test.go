package surfnets

import (
	"errors"
	"testing"

	"github.com/soypat/glgl/math/ms3"
)

func TestNewField(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := NewField(n); err == nil {
			t.Errorf("NewField(%d) should fail", n)
		}
	}
	f := mustField(t, 10)
	if f.Size() != 10 || f.Padded() != 12 {
		t.Fatalf("got size %d padded %d", f.Size(), f.Padded())
	}
	if f.Stride() != (V3i{1, 12, 144}) {
		t.Fatalf("got stride %v", f.Stride())
	}
	if len(f.Data()) != 12*12*12 {
		t.Fatalf("got %d cells", len(f.Data()))
	}
	if got := f.Index(V3i{3, 2, 1}); got != 3+2*12+144 {
		t.Errorf("index got %d", got)
	}
}

func TestFieldAccessPanicsOutOfRange(t *testing.T) {
	f := mustField(t, 4)
	for _, p := range []V3i{{-1, 0, 0}, {0, 6, 0}, {0, 0, 6}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("access at %v did not panic", p)
				}
			}()
			f.At(p)
		}()
	}
}

func TestFillMatchesFillFunc(t *testing.T) {
	offset := V3i{10, -4, 7}
	fn := func(p ms3.Vec) float32 { return p.X - 2*p.Y + 0.5*p.Z }
	a := mustField(t, 6)
	err := a.Fill(SamplerFunc(fn), offset)
	if err != nil {
		t.Fatal(err)
	}
	b := mustField(t, 6)
	b.FillFunc(func(p V3i) float32 { return fn(offset.Add(p).Vec()) })
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("cell %d: Fill=%v FillFunc=%v", i, a.Data()[i], b.Data()[i])
		}
	}
	c := a.Clone()
	c.Set(V3i{1, 1, 1}, 100)
	if a.At(V3i{1, 1, 1}) == 100 {
		t.Error("clone shares memory with original")
	}
}

type failSampler struct{ err error }

func (s failSampler) Evaluate(pos []ms3.Vec, dist []float32, userData any) error { return s.err }

func TestFillError(t *testing.T) {
	errSample := errors.New("sampler failed")
	f := mustField(t, 3)
	err := f.Fill(failSampler{err: errSample}, V3i{})
	if !errors.Is(err, errSample) {
		t.Fatalf("want wrapped sampler error, got %v", err)
	}
}
