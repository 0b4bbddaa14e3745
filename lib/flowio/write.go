package flowio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pjohansson/gmxflow/lib/flow"
)

// WriteOption modifies how a flow field is serialized.
type WriteOption func(*writeConfig)

type writeConfig struct {
	keepEmptyBins bool
}

// KeepEmptyBins stores every bin of the grid, including bins with zero
// mass. The default drops empty bins to keep files small; keeping them
// preserves any velocity values a caller has placed in massless bins,
// making the write-then-read round trip exact for arbitrary fields.
func KeepEmptyBins() WriteOption {
	return func(cfg *writeConfig) { cfg.keepEmptyBins = true }
}

// Write serializes a flow field to a stream in the GMX_FLOW format of the
// field's own version. It never converts between versions: that is the
// job of flow.ConvertV1ToV2. Any failure of the underlying stream is
// reported as ErrWriteFailed and leaves the stream in an undefined state;
// cleaning up partial output is the caller's responsibility.
func Write(w io.Writer, f *flow.Flow, opts ...WriteOption) error {
	cfg := writeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := f.Check(); err != nil {
		return err
	}

	keep := keptBins(f, cfg.keepEmptyBins)

	if err := writeHeader(w, f, len(keep)); err != nil {
		return err
	}
	return writePayload(w, f, keep)
}

// keptBins returns the flat indices of the bins to store, in bin index
// order. By default only bins holding mass are stored.
func keptBins(f *flow.Flow, keepEmpty bool) []int {
	keep := make([]int, 0, f.NumBins())
	for i := range f.M {
		if keepEmpty || f.M[i] != 0 {
			keep = append(keep, i)
		}
	}
	return keep
}

func writeHeader(w io.Writer, f *flow.Flow, numData int) error {
	g := f.Geom()
	hw := headerWriter{w: w}

	hw.line("FORMAT %s", f.Version().Header())
	hw.line("ORIGIN %g %g", g.X0, g.Y0)
	hw.line("SHAPE %d %d", g.NX, g.NY)
	hw.line("SPACING %g %g", g.DX, g.DY)
	hw.line("NUMDATA %d", numData)

	fields := "FIELDS IX IY"
	for _, label := range f.DataLabels() {
		fields += " " + label
	}
	hw.line("%s", fields)

	massComment := "'M' is the average mass"
	if f.Version() == flow.V2 {
		massComment += " density"
	}

	hw.line("COMMENT Grid is regular but only non-empty bins are output")
	hw.line("COMMENT There are 'NUMDATA' non-empty bins and that many " +
		"values are stored for each field")
	hw.line("COMMENT 'FIELDS' is the different fields for each bin:")
	hw.line("COMMENT 'IX' and 'IY' are bin indices along x and y " +
		"respectively")
	hw.line("COMMENT 'N' is the average number of atoms")
	hw.line("COMMENT %s", massComment)
	if f.HasTemp() {
		hw.line("COMMENT 'T' is the temperature")
	}
	hw.line("COMMENT 'U' and 'V' is the mass-averaged flow along x and y " +
		"respectively")
	hw.line("COMMENT Data is stored as 'NUMDATA' counts for each field in " +
		"'FIELDS', in order")
	hw.line("COMMENT 'IX' and 'IY' are 64-bit unsigned integers")
	hw.line("COMMENT Other fields are 32-bit floating point numbers")

	if hw.err == nil {
		_, hw.err = w.Write([]byte{0})
	}
	if hw.err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, hw.err)
	}
	return nil
}

// headerWriter writes header lines, holding on to the first error so the
// happy path stays flat.
type headerWriter struct {
	w   io.Writer
	err error
}

func (hw *headerWriter) line(format string, args ...interface{}) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format+"\n", args...)
}

func writePayload(w io.Writer, f *flow.Flow, keep []int) error {
	g := f.Geom()

	ix := make([]uint64, len(keep))
	iy := make([]uint64, len(keep))
	for k, i := range keep {
		ix[k] = uint64(i / g.NY)
		iy[k] = uint64(i % g.NY)
	}

	if err := binary.Write(w, byteOrder, ix); err != nil {
		return fmt.Errorf("%w: field 'IX': %v", ErrWriteFailed, err)
	}
	if err := binary.Write(w, byteOrder, iy); err != nil {
		return fmt.Errorf("%w: field 'IY': %v", ErrWriteFailed, err)
	}

	column := make([]float32, len(keep))
	for _, label := range f.DataLabels() {
		x, err := f.Field(label)
		if err != nil {
			return err
		}
		for k, i := range keep {
			column[k] = float32(x[i])
		}
		if err := binary.Write(w, byteOrder, column); err != nil {
			return fmt.Errorf("%w: field '%s': %v", ErrWriteFailed,
				label, err)
		}
	}

	return nil
}
