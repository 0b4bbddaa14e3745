/*package fileio resolves file series on disk and backs up files before
they are overwritten.

Flow field series use paths of the form '{base}{:05d}.{ext}', i.e.
'flow_00001.dat', 'flow_00002.dat', and so on. The functions here turn a
base path plus an index range into the concrete ordered list of paths,
so the numeric code never touches the filesystem layout itself.*/
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExt is the file extension used when a Range does not set one.
const DefaultExt = "dat"

// Range selects the indices of a file series. The zero value starts at
// index 1 with stride 1 and extension 'dat', and stops at the first
// index for which no file exists.
type Range struct {
	// Begin is the first index of the series. Values below 1 mean 1.
	Begin int
	// End is the last index of the series, inclusive. Values below 1
	// mean no upper bound: the series ends at the first missing file.
	End int
	// Stride is the step between indices. Values below 1 mean 1.
	Stride int
	// Ext is the file extension, without the leading dot.
	Ext string
	// NoCheck disables the existence check and generates paths purely
	// from the index range. It requires a bounded range.
	NoCheck bool
}

func (r Range) withDefaults() Range {
	if r.Begin < 1 {
		r.Begin = 1
	}
	if r.Stride < 1 {
		r.Stride = 1
	}
	if r.Ext == "" {
		r.Ext = DefaultExt
	}
	return r
}

// Filename constructs the path of file number index in a series.
func Filename(base string, index int, ext string) string {
	return fmt.Sprintf("%s%05d.%s", base, index, ext)
}

// FilesFromRange resolves the ordered list of series paths for a base
// path and index range. By default paths are checked to exist and the
// series ends at the first missing file; with NoCheck set the paths are
// generated blindly, which requires End to be set.
func FilesFromRange(base string, r Range) ([]string, error) {
	r = r.withDefaults()
	if r.NoCheck && r.End < 1 {
		return nil, fmt.Errorf("generating paths for '%s' without an "+
			"existence check requires an end index, or the series "+
			"would never stop", base)
	}

	var paths []string
	for i := r.Begin; r.End < 1 || i <= r.End; i += r.Stride {
		path := Filename(base, i, r.Ext)
		if !r.NoCheck {
			if _, err := os.Stat(path); err != nil {
				break
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PairsFromRange resolves series paths like FilesFromRange and pairs each
// input path with an output path built from outBase and outExt at the
// same index. An empty outExt reuses the input extension. Use it when
// every input file maps to one processed output file.
func PairsFromRange(base, outBase string, outExt string, r Range) ([][2]string, error) {
	r = r.withDefaults()
	if outExt == "" {
		outExt = r.Ext
	}

	paths, err := FilesFromRange(base, r)
	if err != nil {
		return nil, err
	}

	pairs := make([][2]string, len(paths))
	index := r.Begin
	for i, path := range paths {
		pairs[i] = [2]string{path, Filename(outBase, index, outExt)}
		index += r.Stride
	}
	return pairs, nil
}

// GroupsFromRange resolves series paths like FilesFromRange and groups
// them into blocks of perGroup paths, pairing each full block with an
// output path numbered from 1. A trailing partial block is dropped. Use
// it for block averaging: N input files reduced into one output file.
func GroupsFromRange(base, outBase string, perGroup int, r Range) (groups [][]string, outputs []string, err error) {
	if perGroup < 1 {
		return nil, nil, fmt.Errorf("the group size must be at least 1, "+
			"got %d", perGroup)
	}
	r = r.withDefaults()

	paths, err := FilesFromRange(base, r)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i+perGroup <= len(paths); i += perGroup {
		groups = append(groups, paths[i:i+perGroup])
		outputs = append(outputs,
			Filename(outBase, len(outputs)+1, r.Ext))
	}
	return groups, outputs, nil
}

// BackupFile moves an existing file at the given path out of the way
// using the Gromacs convention: 'file.dat' becomes '#file.dat.1#', or
// the lowest unoccupied index. It returns the backup path, or an empty
// string if no file existed at the path.
func BackupFile(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return "", nil
	}

	dir, base := filepath.Dir(path), filepath.Base(path)
	for i := 1; ; i++ {
		to := filepath.Join(dir, fmt.Sprintf("#%s.%d#", base, i))
		if _, err := os.Lstat(to); err == nil {
			continue
		}
		if err := os.Rename(path, to); err != nil {
			return "", fmt.Errorf("could not back up '%s' to '%s': %v",
				path, to, err)
		}
		return to, nil
	}
}
