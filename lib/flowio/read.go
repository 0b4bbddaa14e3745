/*package flowio reads and writes flow fields in the GMX_FLOW binary file
format.

A file is an ASCII header terminated by a single '\0' byte, followed by a
binary payload. The header declares the format revision, grid layout and
payload columns:

	FORMAT GMX_FLOW_2
	ORIGIN 0 0
	SHAPE 10 5
	SPACING 0.25 0.25
	NUMDATA 50
	FIELDS IX IY N T M U V
	COMMENT ...

The payload stores NUMDATA values per declared column, one column at a
time in the declared order. IX and IY are little-endian 64-bit unsigned
bin indices and all other columns little-endian 32-bit floats. The grid
is regular but only non-empty bins are stored: the reader reconstructs
the full grid, zero-filling bins which are not present.*/
package flowio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pjohansson/gmxflow/lib/flow"
)

var (
	// ErrMalformedHeader is returned when a file header is missing
	// required lines or declares an invalid grid.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrTruncatedPayload is returned when the payload holds fewer values
	// than the header declares, or stores bins outside the grid.
	ErrTruncatedPayload = errors.New("truncated payload")
	// ErrWriteFailed is returned when writing a flow field fails. The
	// output stream is left in an undefined state and any partial file is
	// the caller's to clean up.
	ErrWriteFailed = errors.New("write failed")
)

// byteOrder is the byte order of all payload values. The files are
// produced by numpy tooling on little-endian machines.
var byteOrder = binary.LittleEndian

// dataLabels are the payload columns which may follow IX and IY, in the
// order they are written.
var dataLabels = []string{
	flow.LabelN, flow.LabelT, flow.LabelM, flow.LabelU, flow.LabelV,
}

// header holds the parsed header of a GMX_FLOW file.
type header struct {
	version flow.Version
	geom    flow.Geom
	numData int
	// fields are the payload columns after IX and IY.
	fields []string
}

// Read parses a flow field from an uncompressed byte stream. The stream
// is consumed sequentially to its end. Open transparently decompresses
// streams selected by filename suffix; Read itself never inspects names.
func Read(r io.Reader) (*flow.Flow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sep := bytes.IndexByte(raw, 0)
	if sep < 0 {
		return nil, fmt.Errorf("%w: the stream contains no '\\0' byte "+
			"separating the header from the payload", ErrMalformedHeader)
	}

	hd, err := parseHeader(raw[:sep])
	if err != nil {
		return nil, err
	}

	return parsePayload(raw[sep+1:], hd)
}

// parseHeader parses the ASCII header lines. Lines are keyed on their
// first token; COMMENT and unknown lines are skipped.
func parseHeader(b []byte) (*header, error) {
	hd := &header{numData: -1}
	var versionTag string
	var haveShape, haveSpacing, haveOrigin bool

	for _, line := range strings.Split(string(b), "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		var err error
		switch strings.ToUpper(tokens[0]) {
		case "FORMAT":
			versionTag = strings.TrimSpace(strings.TrimPrefix(
				strings.TrimSpace(line), "FORMAT"))
		case "SHAPE":
			hd.geom.NX, hd.geom.NY, err = parseIntPair(tokens)
			haveShape = err == nil
		case "SPACING":
			hd.geom.DX, hd.geom.DY, err = parseFloatPair(tokens)
			haveSpacing = err == nil
		case "ORIGIN":
			hd.geom.X0, hd.geom.Y0, err = parseFloatPair(tokens)
			haveOrigin = err == nil
		case "NUMDATA":
			if len(tokens) < 2 {
				err = fmt.Errorf("expected one value, got none")
				break
			}
			hd.numData, err = strconv.Atoi(tokens[1])
			if err == nil && hd.numData < 0 {
				err = fmt.Errorf("the number of stored bins cannot "+
					"be negative, got %d", hd.numData)
			}
		case "FIELDS":
			hd.fields, err = parseFieldLabels(tokens[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: could not parse the %s line "+
				"'%s': %v", ErrMalformedHeader,
				strings.ToUpper(tokens[0]), line, err)
		}
	}

	switch {
	case versionTag == "":
		return nil, fmt.Errorf("%w: the header has no FORMAT line",
			ErrMalformedHeader)
	case !haveShape:
		return nil, fmt.Errorf("%w: the header has no SHAPE line",
			ErrMalformedHeader)
	case !haveSpacing:
		return nil, fmt.Errorf("%w: the header has no SPACING line",
			ErrMalformedHeader)
	case !haveOrigin:
		return nil, fmt.Errorf("%w: the header has no ORIGIN line",
			ErrMalformedHeader)
	case hd.numData < 0:
		return nil, fmt.Errorf("%w: the header has no NUMDATA line",
			ErrMalformedHeader)
	case hd.fields == nil:
		return nil, fmt.Errorf("%w: the header has no FIELDS line",
			ErrMalformedHeader)
	}

	version, err := flow.VersionFromHeader(versionTag)
	if err != nil {
		return nil, err
	}
	hd.version = version

	if err := hd.geom.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if hd.numData > hd.geom.NumBins() {
		return nil, fmt.Errorf("%w: NUMDATA declares %d stored bins, "+
			"but the (%d, %d) grid only has %d", ErrMalformedHeader,
			hd.numData, hd.geom.NX, hd.geom.NY, hd.geom.NumBins())
	}

	return hd, nil
}

// parseFieldLabels validates the FIELDS declaration. The first two
// columns must be the IX and IY bin indices; the rest must be known data
// labels with no duplicates, and must include N, M, U and V.
func parseFieldLabels(labels []string) ([]string, error) {
	if len(labels) < 2 || labels[0] != "IX" || labels[1] != "IY" {
		return nil, fmt.Errorf("the first two fields must be the bin "+
			"indices 'IX IY', got %s", labels)
	}

	fields := labels[2:]
	seen := map[string]bool{}
	for _, label := range fields {
		if !isDataLabel(label) {
			return nil, fmt.Errorf("unknown field '%s': valid fields "+
				"are %s", label, dataLabels)
		}
		if seen[label] {
			return nil, fmt.Errorf("field '%s' is declared twice", label)
		}
		seen[label] = true
	}

	for _, label := range []string{
		flow.LabelN, flow.LabelM, flow.LabelU, flow.LabelV,
	} {
		if !seen[label] {
			return nil, fmt.Errorf("the required field '%s' is missing "+
				"from %s", label, labels)
		}
	}

	return fields, nil
}

func isDataLabel(label string) bool {
	for _, l := range dataLabels {
		if l == label {
			return true
		}
	}
	return false
}

func parseIntPair(tokens []string) (int, int, error) {
	if len(tokens) < 3 {
		return 0, 0, fmt.Errorf("expected two values, got %d",
			len(tokens)-1)
	}
	a, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(tokens[2])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseFloatPair(tokens []string) (float64, float64, error) {
	if len(tokens) < 3 {
		return 0, 0, fmt.Errorf("expected two values, got %d",
			len(tokens)-1)
	}
	a, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// parsePayload reads the stored bins from the payload bytes and scatters
// them onto a zero-filled dense grid.
func parsePayload(b []byte, hd *header) (*flow.Flow, error) {
	ix, b, err := readUint64Column(b, "IX", hd.numData)
	if err != nil {
		return nil, err
	}
	iy, b, err := readUint64Column(b, "IY", hd.numData)
	if err != nil {
		return nil, err
	}

	columns := make(map[string][]float64, len(hd.fields))
	for _, label := range hd.fields {
		columns[label], b, err = readFloat32Column(b, label, hd.numData)
		if err != nil {
			return nil, err
		}
	}

	f, err := flow.New(hd.geom, hd.version, columns[flow.LabelT] != nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	for k := 0; k < hd.numData; k++ {
		if ix[k] >= uint64(hd.geom.NX) || iy[k] >= uint64(hd.geom.NY) {
			return nil, fmt.Errorf("%w: stored bin %d has index "+
				"(%d, %d), which is outside the (%d, %d) grid",
				ErrTruncatedPayload, k, ix[k], iy[k],
				hd.geom.NX, hd.geom.NY)
		}
		i := hd.geom.Index(int(ix[k]), int(iy[k]))

		for _, label := range hd.fields {
			dst, err := f.Field(label)
			if err != nil {
				return nil, err
			}
			dst[i] = columns[label][k]
		}
	}

	return f, nil
}

// readUint64Column reads n little-endian uint64 values and returns the
// remaining bytes.
func readUint64Column(b []byte, label string, n int) ([]uint64, []byte, error) {
	if len(b) < 8*n {
		return nil, nil, truncatedColumn(label, n, len(b)/8)
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = byteOrder.Uint64(b[8*i:])
	}
	return out, b[8*n:], nil
}

// readFloat32Column reads n little-endian float32 values, widened to
// float64, and returns the remaining bytes.
func readFloat32Column(b []byte, label string, n int) ([]float64, []byte, error) {
	if len(b) < 4*n {
		return nil, nil, truncatedColumn(label, n, len(b)/4)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(math.Float32frombits(byteOrder.Uint32(b[4*i:])))
	}
	return out, b[4*n:], nil
}

func truncatedColumn(label string, want, have int) error {
	return fmt.Errorf("%w: the field '%s' declares %d values, but only "+
		"%d complete values remain in the stream", ErrTruncatedPayload,
		label, want, have)
}
