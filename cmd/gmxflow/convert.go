package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/fileio"
	"github.com/pjohansson/gmxflow/lib/flow"
	"github.com/pjohansson/gmxflow/lib/flowio"
)

var (
	convRange  rangeFlags
	convOutExt string
	convWidth  float64
	convBackup bool
)

func init() {
	rootCmd.AddCommand(convertCmd)

	addRangeFlags(convertCmd, &convRange)
	convertCmd.Flags().StringVar(&convOutExt, "outext", "",
		"extension of output files (default: same as input)")
	convertCmd.Flags().Float64VarP(&convWidth, "width", "w", 0,
		"depth of the quasi-2D system, used to compute bin volumes "+
			"(default from config, normally 1)")
	convertCmd.Flags().BoolVar(&convBackup, "backup", false,
		"back up existing files at output paths before writing")
}

var convertCmd = &cobra.Command{
	Use:   "convert BASE OUTBASE",
	Short: "Convert flow field maps from GMX_FLOW_1 to GMX_FLOW_2",
	Long: "Convert flow field maps from GMX_FLOW_1 to GMX_FLOW_2.\n\n" +
		"This changes the 'M' field to hold the mass density inside bins\n" +
		"instead of the total mass inside of them. To do this conversion\n" +
		"a width, or depth, of the maps must be supplied.\n\n" +
		"Paths are constructed using the pattern '{BASE}{:05d}.{ext}'\n" +
		"for the given input and output bases. Files which are already\n" +
		"GMX_FLOW_2 are copied through unchanged.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := convRange.resolve()

		width := convWidth
		if width == 0 {
			width = conf.Width
		}

		pairs, err := fileio.PairsFromRange(args[0], args[1], convOutExt, r)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: no files matching "+
				"'%s' found\n", fileio.Filename(args[0], r.Begin, r.Ext))
			return nil
		}

		alreadyConverted := 0
		p := newProgress(len(pairs))

		for i, pair := range pairs {
			p.step(i, "%s -> %s", pair[0], pair[1])

			f, err := flowio.ReadFile(pair[0])
			if err != nil {
				p.done()
				return err
			}

			if f.Version() == flow.V1 {
				f, err = flow.ConvertV1ToV2(f, width)
				if err != nil {
					p.done()
					return err
				}
			} else {
				alreadyConverted++
			}

			if err := backup(pair[1], convBackup); err != nil {
				p.done()
				return err
			}
			if err := flowio.WriteFile(pair[1], f); err != nil {
				p.done()
				return err
			}
		}
		p.done()

		if alreadyConverted > 0 && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: %d/%d files were "+
				"already in the '%s' format\n", alreadyConverted,
				len(pairs), flow.V2.Header())
		}

		return nil
	},
}
