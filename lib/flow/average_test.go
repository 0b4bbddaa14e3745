package flow

import (
	"errors"
	"strings"
	"testing"

	"github.com/pjohansson/gmxflow/lib/eq"
)

func TestAverageEmptyInput(t *testing.T) {
	if _, err := Average(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	if _, err := AverageWeighted([]*Flow{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput from AverageWeighted, got %v", err)
	}
}

func TestAverageSingleFieldIsIdentity(t *testing.T) {
	f := testFlow(t, Geom{NX: 10, NY: 5, DX: 1, DY: 0.5}, V2, true)

	avg, err := Average([]*Flow{f})
	if err != nil {
		t.Fatalf("Average() failed: %s", err.Error())
	}

	if avg == f {
		t.Errorf("Average() returned its input instead of a new field")
	}
	for _, label := range f.Labels() {
		x, _ := f.Field(label)
		y, _ := avg.Field(label)
		if !eq.Float64s(y, x) {
			t.Errorf("Averaging one field changed '%s': %g != %g",
				label, y, x)
		}
	}
}

// Three fields with constant U = 1, 2 and 3 must average to exactly 2 in
// every bin: every input, including the first, contributes to the mean.
func TestAverageIsUnbiased(t *testing.T) {
	geom := Geom{NX: 4, NY: 3, DX: 1, DY: 1}

	fields := []*Flow{}
	for _, u := range []float64{1, 2, 3} {
		f, err := New(geom, V1, false)
		if err != nil {
			t.Fatalf("New() failed: %s", err.Error())
		}
		for i := range f.U {
			f.U[i] = u
			f.V[i] = -u
			f.N[i] = 1
			f.M[i] = u
		}
		fields = append(fields, f)
	}

	avg, err := Average(fields)
	if err != nil {
		t.Fatalf("Average() failed: %s", err.Error())
	}

	for i := range avg.U {
		if avg.U[i] != 2 {
			t.Fatalf("Expected U = 2 in bin %d, got %g: an input was "+
				"dropped from the mean", i, avg.U[i])
		}
		if avg.V[i] != -2 {
			t.Fatalf("Expected V = -2 in bin %d, got %g", i, avg.V[i])
		}
		if avg.M[i] != 2 {
			t.Fatalf("Expected M = 2 in bin %d, got %g", i, avg.M[i])
		}
	}
}

// The raw mean ignores the atom count: a bin with N == 0 in one input
// still contributes that input's (zero) velocity to the mean.
func TestAverageZeroCountBinsAverageRawValues(t *testing.T) {
	geom := Geom{NX: 2, NY: 2, DX: 1, DY: 1}

	empty, err := New(geom, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}

	sampled, err := New(geom, V1, false)
	if err != nil {
		t.Fatalf("New() failed: %s", err.Error())
	}
	for i := range sampled.U {
		sampled.N[i] = 2
		sampled.U[i] = 3
		sampled.M[i] = 1
	}

	avg, err := Average([]*Flow{empty, sampled})
	if err != nil {
		t.Fatalf("Average() failed: %s", err.Error())
	}

	for i := range avg.U {
		if avg.U[i] != 1.5 {
			t.Errorf("Expected U = 1.5 in bin %d, got %g", i, avg.U[i])
		}
		if avg.N[i] != 1 {
			t.Errorf("Expected N = 1 in bin %d, got %g", i, avg.N[i])
		}
	}
}

func TestAverageIncompatibleFields(t *testing.T) {
	geom := Geom{NX: 4, NY: 3, DX: 1, DY: 1}

	tests := []struct {
		other     *Flow
		attribute string
	}{
		{testFlow(t, Geom{NX: 3, NY: 3, DX: 1, DY: 1}, V1, false),
			"shape"},
		{testFlow(t, Geom{NX: 4, NY: 3, DX: 1, DY: 2}, V1, false),
			"spacing"},
		{testFlow(t, geom, V2, false), "version"},
		{testFlow(t, geom, V1, true), "temperature"},
	}

	first := testFlow(t, geom, V1, false)

	for i := range tests {
		_, err := Average([]*Flow{first, tests[i].other})
		if !errors.Is(err, ErrIncompatibleGrids) {
			t.Errorf("%d) Expected ErrIncompatibleGrids, got %v", i, err)
		} else if !strings.Contains(err.Error(), tests[i].attribute) {
			t.Errorf("%d) Expected the error to name the mismatched "+
				"attribute '%s', got: %s", i, tests[i].attribute,
				err.Error())
		} else if !strings.Contains(err.Error(), "field 1") {
			t.Errorf("%d) Expected the error to name field 1, got: %s",
				i, err.Error())
		}
	}
}

func TestAverageWeightedVelocities(t *testing.T) {
	geom := Geom{NX: 2, NY: 2, DX: 1, DY: 1}

	f1, _ := New(geom, V1, true)
	f2, _ := New(geom, V1, true)
	for i := 0; i < 4; i++ {
		f1.M[i], f1.U[i], f1.V[i] = 1, 2, -2
		f1.N[i], f1.T[i] = 1, 300
		f2.M[i], f2.U[i], f2.V[i] = 3, 6, -6
		f2.N[i], f2.T[i] = 3, 400
	}

	avg, err := AverageWeighted([]*Flow{f1, f2})
	if err != nil {
		t.Fatalf("AverageWeighted() failed: %s", err.Error())
	}

	for i := 0; i < 4; i++ {
		// U = (1*2 + 3*6) / (1 + 3) = 5
		if avg.U[i] != 5 {
			t.Errorf("Expected U = 5 in bin %d, got %g", i, avg.U[i])
		}
		if avg.V[i] != -5 {
			t.Errorf("Expected V = -5 in bin %d, got %g", i, avg.V[i])
		}
		if avg.M[i] != 2 {
			t.Errorf("Expected M = 2 in bin %d, got %g", i, avg.M[i])
		}
		if avg.N[i] != 2 {
			t.Errorf("Expected N = 2 in bin %d, got %g", i, avg.N[i])
		}
		// Temperature is averaged arithmetically, not mass-weighted.
		if avg.T[i] != 350 {
			t.Errorf("Expected T = 350 in bin %d, got %g", i, avg.T[i])
		}
	}
}

// Bins with no mass in any input have no velocity samples and must end
// up with zero velocity, not NaN from a division by zero.
func TestAverageWeightedZeroMassBins(t *testing.T) {
	geom := Geom{NX: 1, NY: 2, DX: 1, DY: 1}

	f1, _ := New(geom, V1, false)
	f2, _ := New(geom, V1, false)
	f1.M[1], f1.U[1] = 2, 4
	f2.M[1], f2.U[1] = 2, 8

	avg, err := AverageWeighted([]*Flow{f1, f2})
	if err != nil {
		t.Fatalf("AverageWeighted() failed: %s", err.Error())
	}

	if avg.U[0] != 0 || avg.V[0] != 0 {
		t.Errorf("Expected zero velocity in the massless bin, got "+
			"(%g, %g)", avg.U[0], avg.V[0])
	}
	if avg.U[1] != 6 {
		t.Errorf("Expected U = 6 in the massive bin, got %g", avg.U[1])
	}
}
