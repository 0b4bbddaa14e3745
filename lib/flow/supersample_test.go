package flow

import (
	"testing"

	"github.com/pjohansson/gmxflow/lib/eq"
)

func TestSupersampleShapeAndSpacing(t *testing.T) {
	f := testFlow(t, Geom{NX: 4, NY: 2, DX: 1, DY: 0.5, X0: 3}, V2, true)

	out, err := Supersample(f, 3)
	if err != nil {
		t.Fatalf("Supersample() failed: %s", err.Error())
	}

	g := out.Geom()
	if g.NX != 12 || g.NY != 6 {
		t.Errorf("Expected shape (12, 6), got (%d, %d)", g.NX, g.NY)
	}
	if !eq.Float64sEps([]float64{g.DX, g.DY}, []float64{1.0 / 3, 0.5 / 3},
		1e-15) {
		t.Errorf("Expected spacing (1/3, 1/6), got (%g, %g)", g.DX, g.DY)
	}
	if g.X0 != 3 || g.Y0 != 0 {
		t.Errorf("Supersampling moved the origin to (%g, %g)", g.X0, g.Y0)
	}
	if out.Version() != f.Version() || out.HasTemp() != f.HasTemp() {
		t.Errorf("Supersampling changed the version or field set")
	}

	// The total box size must not change.
	bx, by := f.BoxSize()
	obx, oby := out.BoxSize()
	if !eq.Float64sEps([]float64{obx, oby}, []float64{bx, by}, 1e-12) {
		t.Errorf("Expected box size (%g, %g), got (%g, %g)",
			bx, by, obx, oby)
	}
}

// Interpolating a constant field must reproduce the constant exactly in
// every output bin.
func TestSupersampleConstantField(t *testing.T) {
	f, err := New(Geom{NX: 3, NY: 4, DX: 1, DY: 1}, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}
	for i := range f.M {
		f.M[i] = 7.5
	}

	out, err := Supersample(f, 4)
	if err != nil {
		t.Fatalf("Supersample() failed: %s", err.Error())
	}

	for i := range out.M {
		if out.M[i] != 7.5 {
			t.Fatalf("Expected M = 7.5 in bin %d, got %g", i, out.M[i])
		}
	}
}

func TestSupersampleFactorOneIsACopy(t *testing.T) {
	f := testFlow(t, Geom{NX: 3, NY: 3, DX: 1, DY: 1}, V1, false)

	out, err := Supersample(f, 1)
	if err != nil {
		t.Fatalf("Supersample() failed: %s", err.Error())
	}
	if out == f {
		t.Errorf("Supersample(1) returned its input instead of a copy")
	}
	if !eq.Float64s(out.M, f.M) {
		t.Errorf("Supersample(1) changed the data: %g != %g", out.M, f.M)
	}
}

func TestSupersampleRejectsBadFactor(t *testing.T) {
	f := testFlow(t, Geom{NX: 3, NY: 3, DX: 1, DY: 1}, V1, false)

	for i, factor := range []int{0, -2} {
		if _, err := Supersample(f, factor); err == nil {
			t.Errorf("%d) Supersample() accepted the factor %d",
				i, factor)
		}
	}
}
