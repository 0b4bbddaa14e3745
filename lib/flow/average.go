package flow

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Average combines an ordered, non-empty set of flow fields into their
// arithmetic mean. Every field of every bin is the running sum over all
// inputs divided by the number of inputs; every input, including the
// first, contributes to the sum exactly once. All inputs must share grid
// shape, spacing, format version and field set, and are assumed to share
// origin and bin index ordering.
//
// Bins which no input sampled (N == 0) store zero velocity and
// temperature on disk, so the raw mean dilutes the velocity of sparsely
// sampled bins toward zero. AverageWeighted is the physically motivated
// alternative which weights velocities by bin mass.
func Average(fields []*Flow) (*Flow, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w to average", ErrEmptyInput)
	}
	if err := checkCompatible(fields); err != nil {
		return nil, err
	}

	avg, err := New(fields[0].Geom(), fields[0].Version(),
		fields[0].HasTemp())
	if err != nil {
		return nil, err
	}

	for _, label := range avg.DataLabels() {
		sum, err := avg.Field(label)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			x, err := f.Field(label)
			if err != nil {
				return nil, err
			}
			floats.Add(sum, x)
		}
		floats.Scale(1/float64(len(fields)), sum)
	}

	return avg, nil
}

// AverageWeighted combines flow fields like Average, but weights the
// velocities of each bin by the mass of that bin in each input, matching
// how the sampled velocities were accumulated by the simulation:
//
//	U = sum_k(M_k * U_k) / sum_k(M_k)
//
// Bins with zero total mass have no velocity samples and keep zero
// velocity. Mass, atom count and temperature are averaged arithmetically.
// Averaging the temperature properly would require the number of degrees
// of freedom per bin, which the format does not store.
func AverageWeighted(fields []*Flow) (*Flow, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w to average", ErrEmptyInput)
	}
	if err := checkCompatible(fields); err != nil {
		return nil, err
	}

	avg, err := New(fields[0].Geom(), fields[0].Version(),
		fields[0].HasTemp())
	if err != nil {
		return nil, err
	}

	massSum := make([]float64, avg.NumBins())

	for _, f := range fields {
		floats.Add(massSum, f.M)
		floats.Add(avg.M, f.M)
		floats.Add(avg.N, f.N)
		if avg.HasTemp() {
			floats.Add(avg.T, f.T)
		}

		for i := range f.M {
			avg.U[i] += f.M[i] * f.U[i]
			avg.V[i] += f.M[i] * f.V[i]
		}
	}

	for i := range massSum {
		if massSum[i] > 0 {
			avg.U[i] /= massSum[i]
			avg.V[i] /= massSum[i]
		}
	}

	inv := 1 / float64(len(fields))
	floats.Scale(inv, avg.M)
	floats.Scale(inv, avg.N)
	if avg.HasTemp() {
		floats.Scale(inv, avg.T)
	}

	return avg, nil
}

// checkCompatible returns ErrIncompatibleGrids naming the first flow field
// which does not match field 0, and on which attribute.
func checkCompatible(fields []*Flow) error {
	first := fields[0]

	for i, f := range fields[1:] {
		g, g0 := f.Geom(), first.Geom()
		switch {
		case g.NX != g0.NX || g.NY != g0.NY:
			return fmt.Errorf("%w: field %d has shape (%d, %d), but "+
				"field 0 has shape (%d, %d)", ErrIncompatibleGrids,
				i+1, g.NX, g.NY, g0.NX, g0.NY)
		case g.DX != g0.DX || g.DY != g0.DY:
			return fmt.Errorf("%w: field %d has spacing (%g, %g), but "+
				"field 0 has spacing (%g, %g)", ErrIncompatibleGrids,
				i+1, g.DX, g.DY, g0.DX, g0.DY)
		case f.Version() != first.Version():
			return fmt.Errorf("%w: field %d has version %s, but field 0 "+
				"has version %s", ErrIncompatibleGrids, i+1,
				f.Version().Header(), first.Version().Header())
		case f.HasTemp() != first.HasTemp():
			return fmt.Errorf("%w: field %d and field 0 disagree on "+
				"whether a temperature channel is present",
				ErrIncompatibleGrids, i+1)
		}

		if err := f.Check(); err != nil {
			return fmt.Errorf("%w: field %d: %v", ErrIncompatibleGrids,
				i+1, err)
		}
	}

	return first.Check()
}
