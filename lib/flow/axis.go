package flow

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Axis selects a grid axis for per-axis reductions.
type Axis int

const (
	// AlongX reduces over y, yielding one value per column of bins.
	AlongX Axis = iota
	// AlongY reduces over x, yielding one value per row of bins.
	AlongY
)

// ValueAlongAxis averages a data field along one axis of the grid. It
// returns the bin center positions along the chosen axis and the
// arithmetic mean of the field over the perpendicular axis at each
// position.
func ValueAlongAxis(f *Flow, label string, axis Axis) (pos, values []float64, err error) {
	if err := f.Check(); err != nil {
		return nil, nil, err
	}
	x, err := f.Field(label)
	if err != nil {
		return nil, nil, err
	}

	g := f.Geom()

	switch axis {
	case AlongX:
		pos = make([]float64, g.NX)
		values = make([]float64, g.NX)
		for ix := 0; ix < g.NX; ix++ {
			pos[ix] = g.X0 + g.DX*(float64(ix)+0.5)
			// Bins sharing an x index are contiguous in the data layout.
			values[ix] = stat.Mean(x[ix*g.NY:(ix+1)*g.NY], nil)
		}
	case AlongY:
		pos = make([]float64, g.NY)
		values = make([]float64, g.NY)
		row := make([]float64, g.NX)
		for iy := 0; iy < g.NY; iy++ {
			pos[iy] = g.Y0 + g.DY*(float64(iy)+0.5)
			for ix := 0; ix < g.NX; ix++ {
				row[ix] = x[g.Index(ix, iy)]
			}
			values[iy] = stat.Mean(row, nil)
		}
	default:
		return nil, nil, fmt.Errorf("unknown axis %d: use AlongX or "+
			"AlongY", int(axis))
	}

	return pos, values, nil
}

// CenterOfMass returns the mass-weighted mean position of the flow field.
// A field with no mass in any bin has no center of mass and returns an
// error.
func CenterOfMass(f *Flow) (x, y float64, err error) {
	if err := f.Check(); err != nil {
		return 0, 0, err
	}

	total := floats.Sum(f.M)
	if total == 0 {
		return 0, 0, fmt.Errorf("the flow field has no mass in any bin, " +
			"so its center of mass is undefined")
	}

	return floats.Dot(f.M, f.X) / total, floats.Dot(f.M, f.Y) / total, nil
}
