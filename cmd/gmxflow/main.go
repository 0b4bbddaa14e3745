// gmxflow is a command line tool for working with GMX_FLOW flow field
// maps: averaging file series, converting between format revisions,
// supersampling and inspecting files.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
