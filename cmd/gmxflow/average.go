package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/fileio"
	"github.com/pjohansson/gmxflow/lib/flow"
	"github.com/pjohansson/gmxflow/lib/flowio"
)

var (
	avgRange  rangeFlags
	avgOutput string
	avgNum    int

	avgWeighted bool
	avgBackup   bool
	avgWorkers  int
)

func init() {
	rootCmd.AddCommand(averageCmd)
	averageCmd.AddCommand(averageFilesCmd)
	averageCmd.AddCommand(averageRangeCmd)

	averageCmd.PersistentFlags().BoolVar(&avgWeighted, "weighted", false,
		"weight the velocity mean of each bin by the bin mass instead of "+
			"averaging raw values")
	averageCmd.PersistentFlags().BoolVar(&avgBackup, "backup", false,
		"back up existing files at output paths before writing")
	averageCmd.PersistentFlags().IntVar(&avgWorkers, "workers", 0,
		"number of files to read concurrently (default: one per CPU)")

	addRangeFlags(averageRangeCmd, &avgRange)
	averageRangeCmd.Flags().StringVarP(&avgOutput, "output", "o", "",
		"write the averaged data into this single file (replaces OUTBASE)")
	averageRangeCmd.Flags().IntVarP(&avgNum, "num", "n", 0,
		"number of files to average per output file (default: all files "+
			"in the range)")
}

var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Average flow field files",
	Long: "Average flow field files. All flow fields must have the same\n" +
		"grid shape and are also assumed to share origin and bin sizes.\n" +
		"Subcommands select the input files.",
}

var averageFilesCmd = &cobra.Command{
	Use:   "files FILE... OUTPUT",
	Short: "Average a given list of flow field files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, output := args[:len(args)-1], args[len(args)-1]
		return averageInto(inputs, output)
	},
}

var averageRangeCmd = &cobra.Command{
	Use:   "range BASE [OUTBASE]",
	Short: "Average a sequential range of flow field files",
	Long: "Average a sequential range of flow field files with paths of\n" +
		"the form '{BASE}{:05d}.{ext}', i.e. 'flow_00001.dat',\n" +
		"'flow_00002.dat', and so on.\n\n" +
		"By default all found files are averaged into a single output\n" +
		"file. With '--num' set, every that many sequential files are\n" +
		"averaged into one output file numbered from 1:\n\n" +
		"    [flow_00001.dat, ..., flow_00005.dat] -> avg_00001.dat\n" +
		"    [flow_00006.dat, ..., flow_00010.dat] -> avg_00002.dat",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := args[0]
		r := avgRange.resolve()

		if avgOutput == "" && len(args) < 2 {
			return fmt.Errorf("neither OUTBASE nor '--output' was " +
				"given for output")
		}

		var groups [][]string
		var outputs []string

		switch {
		case avgNum > 0:
			outBase := avgOutput
			if outBase == "" {
				outBase = args[1]
			}
			var err error
			groups, outputs, err = fileio.GroupsFromRange(base, outBase,
				avgNum, r)
			if err != nil {
				return err
			}
			// A single named output only fits one group.
			if avgOutput != "" && len(groups) > 1 {
				groups, outputs = groups[:1], outputs[:1]
			}
			if avgOutput != "" && len(outputs) == 1 {
				outputs[0] = avgOutput
			}
		default:
			paths, err := fileio.FilesFromRange(base, r)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				break
			}
			output := avgOutput
			if output == "" {
				output = fileio.Filename(args[1], 1, r.Ext)
			}
			groups, outputs = [][]string{paths}, []string{output}
		}

		if len(groups) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: no files matching "+
				"'%s' found\n", fileio.Filename(base, r.Begin, r.Ext))
			return nil
		}

		p := newProgress(len(groups))
		for i := range groups {
			p.step(i, "%d files -> %s", len(groups[i]), outputs[i])
			if err := averageInto(groups[i], outputs[i]); err != nil {
				p.done()
				return err
			}
		}
		p.done()

		return nil
	},
}

// averageInto reads the input files, averages them and writes the result.
func averageInto(inputs []string, output string) error {
	fields, err := flowio.ReadFiles(inputs, avgWorkers)
	if err != nil {
		return err
	}

	average := flow.Average
	if avgWeighted {
		average = flow.AverageWeighted
	}

	avg, err := average(fields)
	if err != nil {
		return err
	}

	if err := backup(output, avgBackup); err != nil {
		return err
	}
	return flowio.WriteFile(output, avg)
}

// backup moves an existing file at path out of the way if asked to,
// reporting where it went.
func backup(path string, enabled bool) error {
	if !enabled {
		return nil
	}
	to, err := fileio.BackupFile(path)
	if err != nil {
		return err
	}
	if to != "" && !quiet {
		fmt.Printf("backed up '%s' to '%s'\n", path, to)
	}
	return nil
}
