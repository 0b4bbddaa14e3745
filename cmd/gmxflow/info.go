package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pjohansson/gmxflow/lib/flowio"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Print header information about flow field files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			f, err := flowio.ReadFile(path)
			if err != nil {
				return err
			}

			g := f.Geom()
			bx, by := f.BoxSize()

			fmt.Printf("%s: %s\n", path, f.Version().Header())
			fmt.Printf("  shape:    (%d, %d)\n", g.NX, g.NY)
			fmt.Printf("  spacing:  (%g, %g)\n", g.DX, g.DY)
			fmt.Printf("  origin:   (%g, %g)\n", g.X0, g.Y0)
			fmt.Printf("  box size: (%g, %g)\n", bx, by)
			fmt.Printf("  fields:   %s\n", strings.Join(f.Labels(), " "))
		}
		return nil
	},
}
