package flowio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/pjohansson/gmxflow/lib/flow"
)

// Open opens a flow field file for reading, transparently decompressing
// it based on its filename suffix: '.gz' selects gzip, '.zst' selects
// zstd, anything else is read raw. A '.gz' file which turns out not to
// be gzip-compressed is read raw instead, with a warning on stderr,
// matching the behavior of the original tooling.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: tried to read '%s' as a "+
				"gzip file due to its extension, but it did not work: "+
				"reading it as a non-gzipped file instead\n", path)
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				f.Close()
				return nil, err
			}
			return f, nil
		}
		return &wrappedCloser{gz, f}, nil
	case strings.HasSuffix(path, ".zst"):
		return &wrappedCloser{zstd.NewReader(f), f}, nil
	}

	return f, nil
}

// Create creates a flow field file for writing, compressing it based on
// its filename suffix with the same selection rules as Open.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		return &wrappedWriteCloser{gzip.NewWriter(f), f}, nil
	case strings.HasSuffix(path, ".zst"):
		return &wrappedWriteCloser{zstd.NewWriter(f), f}, nil
	}

	return f, nil
}

// ReadFile reads one flow field from the file at the given path,
// decompressing it if its suffix calls for that.
func ReadFile(path string) (*flow.Flow, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("could not read flow field from '%s': %w",
			path, err)
	}
	return f, nil
}

// WriteFile writes one flow field to the file at the given path,
// compressing it if its suffix calls for that.
func WriteFile(path string, f *flow.Flow, opts ...WriteOption) error {
	wc, err := Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if err := Write(wc, f, opts...); err != nil {
		wc.Close()
		return fmt.Errorf("could not write flow field to '%s': %w",
			path, err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("could not write flow field to '%s': %w: %v",
			path, ErrWriteFailed, err)
	}
	return nil
}

// wrappedCloser closes a decompression layer and then the file under it.
type wrappedCloser struct {
	io.Reader
	file *os.File
}

func (w *wrappedCloser) Close() error {
	var err error
	if c, ok := w.Reader.(io.Closer); ok {
		err = c.Close()
	}
	if ferr := w.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// wrappedWriteCloser flushes and closes a compression layer and then the
// file under it.
type wrappedWriteCloser struct {
	io.WriteCloser
	file *os.File
}

func (w *wrappedWriteCloser) Close() error {
	err := w.WriteCloser.Close()
	if ferr := w.file.Close(); err == nil {
		err = ferr
	}
	return err
}
