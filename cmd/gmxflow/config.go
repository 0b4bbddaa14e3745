package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/fileio"
	"github.com/pjohansson/gmxflow/lib/flow"
)

// defaultConfigFile is looked for when no --config flag is given. It is
// fine for it not to exist.
const defaultConfigFile = "./gmxflow.toml"

// Config holds tool defaults which flags fall back to when not set on
// the command line.
type Config struct {
	// Ext is the file extension of series files.
	Ext string
	// Begin is the first index of file series.
	Begin int
	// Width is the depth of the quasi-2D system, used to compute bin
	// volumes when converting maps to GMX_FLOW_2.
	Width float64
}

func defaultConfig() *Config {
	return &Config{
		Ext:   fileio.DefaultExt,
		Begin: 1,
		Width: flow.DefaultUnitDepth,
	}
}

// ReadConfigFile reads tool defaults from a TOML file. An empty path
// falls back to ./gmxflow.toml, which may be absent; an explicitly given
// path must exist.
func ReadConfigFile(path string) (*Config, error) {
	conf := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit {
			return conf, nil
		}
		return nil, fmt.Errorf("could not read the config file '%s': %v",
			path, err)
	}

	meta, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("could not parse the config file '%s': %v",
			path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("the config file '%s' contains unknown "+
			"keys: %v", path, undecoded)
	}

	if conf.Ext == "" {
		conf.Ext = fileio.DefaultExt
	}
	if conf.Begin < 1 {
		conf.Begin = 1
	}
	if conf.Width <= 0 {
		return nil, fmt.Errorf("the config file '%s' sets a non-positive "+
			"width %g, but bin volumes require a positive depth",
			path, conf.Width)
	}

	return conf, nil
}

// rangeFlags are the file series selection flags shared by the commands
// which loop over a series.
type rangeFlags struct {
	begin, end, stride int
	ext                string
}

func addRangeFlags(cmd *cobra.Command, rf *rangeFlags) {
	cmd.Flags().IntVarP(&rf.begin, "begin", "b", 0,
		"index of first file to read (default from config, normally 1)")
	cmd.Flags().IntVarP(&rf.end, "end", "e", 0,
		"index of last file to read (default: until a file is missing)")
	cmd.Flags().IntVar(&rf.stride, "stride", 1,
		"step between file indices")
	cmd.Flags().StringVar(&rf.ext, "ext", "",
		"extension of series files (default from config, normally 'dat')")
}

// resolve fills a fileio.Range from the flags, falling back to the
// config defaults for values which were not set.
func (rf *rangeFlags) resolve() fileio.Range {
	r := fileio.Range{
		Begin:  rf.begin,
		End:    rf.end,
		Stride: rf.stride,
		Ext:    rf.ext,
	}
	if r.Begin < 1 {
		r.Begin = conf.Begin
	}
	if r.Ext == "" {
		r.Ext = conf.Ext
	}
	return r
}
