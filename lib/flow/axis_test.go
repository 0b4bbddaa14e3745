package flow

import (
	"testing"

	"github.com/pjohansson/gmxflow/lib/eq"
)

func TestValueAlongAxis(t *testing.T) {
	f, err := New(Geom{NX: 2, NY: 3, DX: 1, DY: 2}, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}
	// Column 0 holds 1, 2, 3 and column 1 holds 4, 5, 6.
	f.M = []float64{1, 2, 3, 4, 5, 6}

	pos, values, err := ValueAlongAxis(f, "M", AlongX)
	if err != nil {
		t.Fatalf("ValueAlongAxis(AlongX) failed: %s", err.Error())
	}
	if !eq.Float64s(pos, []float64{0.5, 1.5}) {
		t.Errorf("Expected x positions [0.5 1.5], got %g", pos)
	}
	if !eq.Float64s(values, []float64{2, 5}) {
		t.Errorf("Expected column means [2 5], got %g", values)
	}

	pos, values, err = ValueAlongAxis(f, "M", AlongY)
	if err != nil {
		t.Fatalf("ValueAlongAxis(AlongY) failed: %s", err.Error())
	}
	if !eq.Float64s(pos, []float64{1, 3, 5}) {
		t.Errorf("Expected y positions [1 3 5], got %g", pos)
	}
	if !eq.Float64s(values, []float64{2.5, 3.5, 4.5}) {
		t.Errorf("Expected row means [2.5 3.5 4.5], got %g", values)
	}

	if _, _, err := ValueAlongAxis(f, "T", AlongX); err == nil {
		t.Errorf("ValueAlongAxis() accepted a missing field")
	}
	if _, _, err := ValueAlongAxis(f, "M", Axis(7)); err == nil {
		t.Errorf("ValueAlongAxis() accepted an unknown axis")
	}
}

func TestCenterOfMass(t *testing.T) {
	f, err := New(Geom{NX: 2, NY: 1, DX: 1, DY: 1}, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}
	// Bin centers are at x = 0.5 and 1.5 with masses 1 and 3.
	f.M = []float64{1, 3}

	x, y, err := CenterOfMass(f)
	if err != nil {
		t.Fatalf("CenterOfMass() failed: %s", err.Error())
	}
	if x != 1.25 || y != 0.5 {
		t.Errorf("Expected center of mass (1.25, 0.5), got (%g, %g)",
			x, y)
	}
}

func TestCenterOfMassRequiresMass(t *testing.T) {
	f, err := New(Geom{NX: 2, NY: 2, DX: 1, DY: 1}, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}

	if _, _, err := CenterOfMass(f); err == nil {
		t.Errorf("CenterOfMass() succeeded on a field with no mass")
	}
}
