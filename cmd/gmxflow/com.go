package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/fileio"
	"github.com/pjohansson/gmxflow/lib/flow"
	"github.com/pjohansson/gmxflow/lib/flowio"
)

var comRange rangeFlags

func init() {
	rootCmd.AddCommand(comCmd)
	addRangeFlags(comCmd, &comRange)
}

var comCmd = &cobra.Command{
	Use:   "com BASE",
	Short: "Track the center of mass through a flow field series",
	Long: "Track the center of mass through a series of flow field maps\n" +
		"with paths of the form '{BASE}{:05d}.{ext}'. One line per map is\n" +
		"printed to stdout with the map index and the mass-weighted mean\n" +
		"position along x and y.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := comRange.resolve()

		paths, err := fileio.FilesFromRange(args[0], r)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: no files matching "+
				"'%s' found\n", fileio.Filename(args[0], r.Begin, r.Ext))
			return nil
		}

		fmt.Println("# index x y")

		index := r.Begin
		for _, path := range paths {
			f, err := flowio.ReadFile(path)
			if err != nil {
				return err
			}

			x, y, err := flow.CenterOfMass(f)
			if err != nil {
				return fmt.Errorf("%s: %v", path, err)
			}

			fmt.Printf("%d %g %g\n", index, x, y)
			index += r.Stride
		}

		return nil
	},
}
