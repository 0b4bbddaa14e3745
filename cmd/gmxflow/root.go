package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	configFile string
	quiet      bool

	// conf holds the tool defaults, read from an optional TOML file.
	conf *Config
)

var rootCmd = &cobra.Command{
	Use:   "gmxflow",
	Short: "Read, combine and convert GMX_FLOW flow field maps.",
	Long: "gmxflow works with flow field maps in the GMX_FLOW format: it\n" +
		"averages file series, converts maps from GMX_FLOW_1 to GMX_FLOW_2,\n" +
		"supersamples maps to a finer grid and prints file information.\n" +
		"Files with a '.gz' or '.zst' suffix are read and written through\n" +
		"the matching compression transparently.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = ReadConfigFile(configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"TOML file with tool defaults (default: ./gmxflow.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"be less loud and noisy")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gmxflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gmxflow v%s\n", version)
	},
}
