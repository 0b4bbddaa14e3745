package flowio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pjohansson/gmxflow/lib/flow"
)

func TestFileRoundTripCompression(t *testing.T) {
	f := makeFlow(t, flow.Geom{NX: 4, NY: 2, DX: 0.5, DY: 0.5}, flow.V2, true)
	dir := t.TempDir()

	for _, name := range []string{"field.dat", "field.dat.gz", "field.dat.zst"} {
		path := filepath.Join(dir, name)

		if err := WriteFile(path, f); err != nil {
			t.Errorf("WriteFile('%s') failed: %s", name, err.Error())
			continue
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile('%s') failed: %s", name, err.Error())
			continue
		}

		checkFlowsEqual(t, name, got, f)
	}
}

// A '.gz' file which holds uncompressed data is read raw with a warning,
// not rejected.
func TestOpenGzipFallsBackToRaw(t *testing.T) {
	f := makeFlow(t, flow.Geom{NX: 2, NY: 2, DX: 1, DY: 1}, flow.V1, false)

	buf := &bytes.Buffer{}
	if err := Write(buf, f); err != nil {
		t.Fatalf("Write() failed: %s", err.Error())
	}

	path := filepath.Join(t.TempDir(), "field.dat.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("could not create test file: %s", err.Error())
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed on a raw file named '.gz': %s",
			err.Error())
	}
	checkFlowsEqual(t, "gzip fallback", got, f)
}

func TestCompressedFilesAreSmaller(t *testing.T) {
	f, err := flow.New(flow.Geom{NX: 50, NY: 50, DX: 1, DY: 1}, flow.V2, false)
	if err != nil {
		t.Fatalf("could not create test flow field: %s", err.Error())
	}
	for i := range f.M {
		f.M[i] = 1
	}

	dir := t.TempDir()
	sizes := map[string]int64{}
	for _, name := range []string{"f.dat", "f.dat.gz", "f.dat.zst"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, f); err != nil {
			t.Fatalf("WriteFile('%s') failed: %s", name, err.Error())
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("could not stat '%s': %s", name, err.Error())
		}
		sizes[name] = info.Size()
	}

	if sizes["f.dat.gz"] >= sizes["f.dat"] {
		t.Errorf("The gzip file is %d bytes, not smaller than the %d "+
			"byte raw file", sizes["f.dat.gz"], sizes["f.dat"])
	}
	if sizes["f.dat.zst"] >= sizes["f.dat"] {
		t.Errorf("The zstd file is %d bytes, not smaller than the %d "+
			"byte raw file", sizes["f.dat.zst"], sizes["f.dat"])
	}
}

func TestWriteFileToMissingDirectory(t *testing.T) {
	f := makeFlow(t, flow.Geom{NX: 2, NY: 2, DX: 1, DY: 1}, flow.V1, false)

	path := filepath.Join(t.TempDir(), "no-such-dir", "field.dat")
	if err := WriteFile(path, f); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Expected ErrWriteFailed, got %v", err)
	}
}

func TestReadFiles(t *testing.T) {
	geom := flow.Geom{NX: 2, NY: 2, DX: 1, DY: 1}
	dir := t.TempDir()

	paths := []string{}
	for i := 0; i < 5; i++ {
		f := makeFlow(t, geom, flow.V1, false)
		f.M[0] = float64(i + 1)

		path := filepath.Join(dir, fmt.Sprintf("field%05d.dat", i))
		if err := WriteFile(path, f); err != nil {
			t.Fatalf("WriteFile() failed: %s", err.Error())
		}
		paths = append(paths, path)
	}

	for _, workers := range []int{0, 1, 3, 10} {
		fields, err := ReadFiles(paths, workers)
		if err != nil {
			t.Fatalf("ReadFiles(workers = %d) failed: %s", workers,
				err.Error())
		}
		for i := range fields {
			if fields[i].M[0] != float64(i+1) {
				t.Errorf("With %d workers, field %d has M[0] = %g, "+
					"expected %g: the fields are out of order", workers,
					i, fields[i].M[0], float64(i+1))
			}
		}
	}
}

func TestReadFilesFailsOnMissingFile(t *testing.T) {
	f := makeFlow(t, flow.Geom{NX: 2, NY: 2, DX: 1, DY: 1}, flow.V1, false)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.dat")
	if err := WriteFile(good, f); err != nil {
		t.Fatalf("WriteFile() failed: %s", err.Error())
	}

	_, err := ReadFiles([]string{good, filepath.Join(dir, "missing.dat")}, 2)
	if err == nil {
		t.Errorf("Expected ReadFiles to fail when one file is missing")
	}
}
