package main

import (
	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/flow"
	"github.com/pjohansson/gmxflow/lib/flowio"
)

var (
	superFactor int
	superBackup bool
)

func init() {
	rootCmd.AddCommand(supersampleCmd)

	supersampleCmd.Flags().IntVarP(&superFactor, "factor", "N", 2,
		"factor to increase the bin resolution by")
	supersampleCmd.Flags().BoolVar(&superBackup, "backup", false,
		"back up an existing file at the output path before writing")
}

var supersampleCmd = &cobra.Command{
	Use:   "supersample INPUT OUTPUT",
	Short: "Resample a flow field map onto a finer grid",
	Long: "Resample a flow field map onto a grid with '--factor' times\n" +
		"more bins along each axis, interpolating between bin centers.\n" +
		"This creates no new information, but the smoother map makes for\n" +
		"nicer looking images.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := flowio.ReadFile(args[0])
		if err != nil {
			return err
		}

		out, err := flow.Supersample(f, superFactor)
		if err != nil {
			return err
		}

		if err := backup(args[1], superBackup); err != nil {
			return err
		}
		return flowio.WriteFile(args[1], out)
	},
}
