/*package flow contains the in-memory representation of GMX_FLOW field data
and the numeric operations which combine flow fields: averaging over a file
series, converting between format versions, supersampling and simple
per-axis reductions.*/
package flow

import (
	"errors"
	"fmt"
	"math"
)

// Version is the revision of the GMX_FLOW file format a flow field was
// read from or will be written as. Keeping it as an enum instead of a raw
// integer limits the possible values to the known set.
type Version int

const (
	// V1 files store the total accumulated mass per bin in the 'M' field.
	V1 Version = iota + 1
	// V2 files store the mass density per bin in the 'M' field.
	V2
)

// Header returns the version tag as written in the file header.
func (v Version) Header() string {
	switch v {
	case V1:
		return "GMX_FLOW_1"
	case V2:
		return "GMX_FLOW_2"
	}
	return fmt.Sprintf("GMX_FLOW_?(%d)", int(v))
}

// VersionFromHeader parses a version tag from a file header. Tags other
// than 'GMX_FLOW_1' and 'GMX_FLOW_2' return ErrUnsupportedVersion.
func VersionFromHeader(tag string) (Version, error) {
	switch tag {
	case "GMX_FLOW_1":
		return V1, nil
	case "GMX_FLOW_2":
		return V2, nil
	}
	return 0, fmt.Errorf("%w: the format tag '%s' is not one of "+
		"'GMX_FLOW_1' or 'GMX_FLOW_2'", ErrUnsupportedVersion, tag)
}

var (
	// ErrUnsupportedVersion is returned when a file declares a format
	// revision this library does not know about.
	ErrUnsupportedVersion = errors.New("unsupported format version")
	// ErrVersionMismatch is returned when an operation requires a specific
	// format revision and is given another one.
	ErrVersionMismatch = errors.New("format version mismatch")
	// ErrIncompatibleGrids is returned when flow fields which should be
	// combined do not share shape, spacing, version or field set.
	ErrIncompatibleGrids = errors.New("incompatible flow field grids")
	// ErrEmptyInput is returned when a combinator is given no flow fields.
	ErrEmptyInput = errors.New("no flow fields given")
)

// Field labels used in GMX_FLOW files. 'X' and 'Y' are bin center
// positions, 'U' and 'V' the flow velocity along x and y, 'N' the number
// of sampled atoms, 'T' the temperature and 'M' the total mass (V1) or
// mass density (V2) of the bin.
const (
	LabelX = "X"
	LabelY = "Y"
	LabelU = "U"
	LabelV = "V"
	LabelN = "N"
	LabelT = "T"
	LabelM = "M"
)

// Geom describes the grid layout of a flow field: the number of bins along
// each axis, the physical bin spacing and the position of the lower-left
// corner of bin (0, 0).
type Geom struct {
	NX, NY int
	DX, DY float64
	X0, Y0 float64
}

// MaxBins is the largest number of bins a grid may hold. Shapes beyond
// it fail Check, which keeps NumBins from overflowing and bounds the
// allocations a file header can demand.
const MaxBins = 1 << 31

// NumBins returns the total number of bins in the grid.
func (g Geom) NumBins() int { return g.NX * g.NY }

// Index returns the flat bin index of the bin at (ix, iy). Data arrays are
// laid out with x as the outer axis: bins (ix, 0), (ix, 1), ... are
// contiguous.
func (g Geom) Index(ix, iy int) int { return ix*g.NY + iy }

// Check returns an error if the grid layout is degenerate.
func (g Geom) Check() error {
	if g.NX < 1 || g.NY < 1 {
		return fmt.Errorf("grid shape (%d, %d) must be positive along "+
			"both axes", g.NX, g.NY)
	}
	// Dividing instead of multiplying keeps the comparison exact even
	// when NX*NY would overflow.
	if g.NX > MaxBins/g.NY {
		return fmt.Errorf("grid shape (%d, %d) holds more than the "+
			"supported %d bins", g.NX, g.NY, MaxBins)
	}
	if g.DX <= 0 || g.DY <= 0 {
		return fmt.Errorf("grid spacing (%g, %g) must be positive along "+
			"both axes", g.DX, g.DY)
	}
	return nil
}

// Flow is a single flow field: a regular 2D grid of bins, each holding a
// fixed set of scalar quantities. The grid layout and format version are
// set at construction and do not change afterwards. The per-bin data
// arrays may be modified in place (e.g. scaling every velocity), but
// replacing an array with one of a different length breaks the contract
// that every field has exactly NumBins values. Check reports such breaks.
type Flow struct {
	geom    Geom
	version Version

	// X, Y hold the bin center positions. They are derived from the grid
	// layout when a field is constructed or read, and are not stored in
	// the on-disk payload.
	X, Y []float64
	// U, V hold the flow velocity along x and y.
	U, V []float64
	// N holds the number of atoms sampled in each bin.
	N []float64
	// M holds the total bin mass (V1) or the bin mass density (V2).
	M []float64
	// T holds the bin temperature. It is nil for flow fields whose source
	// data carries no temperature channel.
	T []float64
}

// New creates a zero-filled flow field with the given grid layout and
// format version. The X and Y fields are initialized to the bin center
// positions. A temperature field is allocated only if withTemp is set.
func New(geom Geom, version Version, withTemp bool) (*Flow, error) {
	if err := geom.Check(); err != nil {
		return nil, err
	}
	if version != V1 && version != V2 {
		return nil, fmt.Errorf("%w: cannot create a flow field with the "+
			"unknown version %d", ErrUnsupportedVersion, int(version))
	}

	n := geom.NumBins()
	f := &Flow{
		geom: geom, version: version,
		X: make([]float64, n), Y: make([]float64, n),
		U: make([]float64, n), V: make([]float64, n),
		N: make([]float64, n), M: make([]float64, n),
	}
	if withTemp {
		f.T = make([]float64, n)
	}

	for ix := 0; ix < geom.NX; ix++ {
		x := geom.X0 + geom.DX*(float64(ix)+0.5)
		for iy := 0; iy < geom.NY; iy++ {
			i := geom.Index(ix, iy)
			f.X[i] = x
			f.Y[i] = geom.Y0 + geom.DY*(float64(iy)+0.5)
		}
	}

	return f, nil
}

// Geom returns the grid layout of the flow field.
func (f *Flow) Geom() Geom { return f.geom }

// Version returns the format revision of the flow field.
func (f *Flow) Version() Version { return f.version }

// NumBins returns the total number of bins in the grid.
func (f *Flow) NumBins() int { return f.geom.NumBins() }

// HasTemp returns true if the flow field carries a temperature channel.
func (f *Flow) HasTemp() bool { return f.T != nil }

// BoxSize returns the total physical extent of the grid along x and y.
func (f *Flow) BoxSize() (float64, float64) {
	return f.geom.DX * float64(f.geom.NX), f.geom.DY * float64(f.geom.NY)
}

// Labels returns the labels of every field present in the flow field, in
// the canonical order X, Y, N, (T,) M, U, V.
func (f *Flow) Labels() []string {
	return append([]string{LabelX, LabelY}, f.DataLabels()...)
}

// DataLabels returns the labels of the per-bin data fields in the order
// they are stored in the file payload: N, (T,) M, U, V.
func (f *Flow) DataLabels() []string {
	if f.HasTemp() {
		return []string{LabelN, LabelT, LabelM, LabelU, LabelV}
	}
	return []string{LabelN, LabelM, LabelU, LabelV}
}

// Field returns the data array for the given label. The array is shared
// with the flow field, not a copy.
func (f *Flow) Field(label string) ([]float64, error) {
	switch label {
	case LabelX:
		return f.X, nil
	case LabelY:
		return f.Y, nil
	case LabelU:
		return f.U, nil
	case LabelV:
		return f.V, nil
	case LabelN:
		return f.N, nil
	case LabelM:
		return f.M, nil
	case LabelT:
		if f.T == nil {
			return nil, fmt.Errorf("the flow field has no temperature "+
				"channel: it only contains the fields %s", f.Labels())
		}
		return f.T, nil
	}
	return nil, fmt.Errorf("unknown field label '%s': flow fields "+
		"contain the fields %s", label, f.Labels())
}

// SetField replaces the data array for the given label. The new array must
// have exactly NumBins values.
func (f *Flow) SetField(label string, values []float64) error {
	if len(values) != f.NumBins() {
		return fmt.Errorf("cannot set field '%s': the grid has %d bins, "+
			"but %d values were given", label, f.NumBins(), len(values))
	}

	switch label {
	case LabelX:
		f.X = values
	case LabelY:
		f.Y = values
	case LabelU:
		f.U = values
	case LabelV:
		f.V = values
	case LabelN:
		f.N = values
	case LabelM:
		f.M = values
	case LabelT:
		if f.T == nil {
			return fmt.Errorf("the flow field has no temperature "+
				"channel: it only contains the fields %s", f.Labels())
		}
		f.T = values
	default:
		return fmt.Errorf("unknown field label '%s': flow fields "+
			"contain the fields %s", label, f.Labels())
	}
	return nil
}

// Check returns an error if any data array has been replaced with one
// whose length does not match the grid.
func (f *Flow) Check() error {
	n := f.NumBins()
	for _, label := range f.Labels() {
		x, err := f.Field(label)
		if err != nil {
			return err
		}
		if len(x) != n {
			return fmt.Errorf("field '%s' has %d values, but the "+
				"(%d, %d) grid has %d bins", label, len(x),
				f.geom.NX, f.geom.NY, n)
		}
	}
	return nil
}

// Speed computes the flow speed magnitude sqrt(U^2 + V^2) of every bin.
// The magnitude is derived on demand and never stored in files.
func (f *Flow) Speed() []float64 {
	speed := make([]float64, f.NumBins())
	for i := range speed {
		speed[i] = math.Hypot(f.U[i], f.V[i])
	}
	return speed
}

// Clone returns a deep copy of the flow field.
func (f *Flow) Clone() *Flow {
	out := &Flow{
		geom: f.geom, version: f.version,
		X: copyFloats(f.X), Y: copyFloats(f.Y),
		U: copyFloats(f.U), V: copyFloats(f.V),
		N: copyFloats(f.N), M: copyFloats(f.M),
	}
	if f.T != nil {
		out.T = copyFloats(f.T)
	}
	return out
}

func copyFloats(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
