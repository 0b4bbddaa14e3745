package flow

import (
	"fmt"
)

// Supersample increases the bin resolution of a flow field by an integer
// factor through bilinear resampling of every data field. No new
// information is created, but the smoother grid makes for nicer images.
// The grid wraps periodically at its edges, which matches the periodic
// boundary conditions of the simulations that produce these fields.
//
// The returned field has shape (factor*nx, factor*ny) and spacing
// (dx/factor, dy/factor), with the same origin and version.
func Supersample(f *Flow, factor int) (*Flow, error) {
	if factor < 1 {
		return nil, fmt.Errorf("the supersampling factor must be at "+
			"least 1, got %d", factor)
	}
	if err := f.Check(); err != nil {
		return nil, err
	}
	if factor == 1 {
		return f.Clone(), nil
	}

	g := f.Geom()
	out, err := New(Geom{
		NX: g.NX * factor, NY: g.NY * factor,
		DX: g.DX / float64(factor), DY: g.DY / float64(factor),
		X0: g.X0, Y0: g.Y0,
	}, f.Version(), f.HasTemp())
	if err != nil {
		return nil, err
	}

	for _, label := range f.DataLabels() {
		src, err := f.Field(label)
		if err != nil {
			return nil, err
		}
		dst, err := out.Field(label)
		if err != nil {
			return nil, err
		}
		resampleBilinear(dst, src, g, factor)
	}

	return out, nil
}

// resampleBilinear fills dst, laid out on the factor-times-finer grid,
// by bilinear interpolation between the centers of the source bins,
// wrapping periodically.
func resampleBilinear(dst, src []float64, g Geom, factor int) {
	outGeom := Geom{NX: g.NX * factor, NY: g.NY * factor}

	for ix := 0; ix < outGeom.NX; ix++ {
		// Position of the output bin center in units of source bins,
		// relative to the center of source bin 0.
		u := (float64(ix)+0.5)/float64(factor) - 0.5
		ix0, fx := splitCoord(u, g.NX)
		ix1 := (ix0 + 1) % g.NX

		for iy := 0; iy < outGeom.NY; iy++ {
			v := (float64(iy)+0.5)/float64(factor) - 0.5
			iy0, fy := splitCoord(v, g.NY)
			iy1 := (iy0 + 1) % g.NY

			s00 := src[g.Index(ix0, iy0)]
			s01 := src[g.Index(ix0, iy1)]
			s10 := src[g.Index(ix1, iy0)]
			s11 := src[g.Index(ix1, iy1)]

			dst[outGeom.Index(ix, iy)] = (1-fx)*(1-fy)*s00 +
				(1-fx)*fy*s01 + fx*(1-fy)*s10 + fx*fy*s11
		}
	}
}

// splitCoord splits a fractional bin coordinate into the index of the bin
// at or below it, wrapped into [0, n), and the fraction into the next bin.
func splitCoord(u float64, n int) (int, float64) {
	i := int(u)
	if u < 0 {
		i--
	}
	frac := u - float64(i)

	i %= n
	if i < 0 {
		i += n
	}
	return i, frac
}
