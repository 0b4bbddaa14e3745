package flow

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultUnitDepth is the depth of the quasi-2D system used to compute
// bin volumes when converting total mass to mass density. The GMX_FLOW
// format does not record the depth, so it must be supplied by the caller;
// 1.0 makes the density numerically equal to the mass per unit bin area.
const DefaultUnitDepth = 1.0

// ConvertV1ToV2 converts a GMX_FLOW_1 flow field to the GMX_FLOW_2
// format. The 'M' field changes meaning from the total mass of each bin
// to its mass density, dividing by the bin volume dx * dy * unitDepth.
// All other fields are copied unchanged. The input is not modified.
//
// The conversion is one-directional: a field which is already GMX_FLOW_2
// returns ErrVersionMismatch, since the depth used for an earlier
// conversion is not recoverable from the data.
func ConvertV1ToV2(f *Flow, unitDepth float64) (*Flow, error) {
	if f.Version() != V1 {
		return nil, fmt.Errorf("%w: converting to %s requires a %s "+
			"field, but the input is already %s", ErrVersionMismatch,
			V2.Header(), V1.Header(), f.Version().Header())
	}
	if unitDepth <= 0 {
		return nil, fmt.Errorf("the unit depth used to compute bin "+
			"volumes must be positive, got %g", unitDepth)
	}
	if err := f.Check(); err != nil {
		return nil, err
	}

	g := f.Geom()
	binVolume := g.DX * g.DY * unitDepth

	out := f.Clone()
	out.version = V2
	floats.Scale(1/binVolume, out.M)

	return out, nil
}
