// Package main provides the frameseq command line tool
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "frameseq",
		Short:         "Condense, expand and scan frame sequences",
		Long:          "frameseq condenses numbered file listings into framespec notation,\nexpands framespec strings back into file lists, and scans storage\nlocations for frame sequences.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCondenseCmd())
	root.AddCommand(newExpandCmd())
	root.AddCommand(newScanCmd())

	return root
}
