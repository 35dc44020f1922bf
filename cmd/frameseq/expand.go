package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chicogong/frameseq/pkg/framespec"
)

func newExpandCmd() *cobra.Command {
	var (
		stepDelimiter string
		padding       int
	)

	cmd := &cobra.Command{
		Use:   "expand <condensed>",
		Short: "Expand a condensed file string into the full list of file names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := framespec.Config{StepDelimiter: stepDelimiter}
			if padding >= 0 {
				p := padding
				cfg.Padding = &p
			}

			codec, err := framespec.New(cfg)
			if err != nil {
				return err
			}

			files, err := codec.Decode(args[0])
			if err != nil {
				return err
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stepDelimiter, "step-delimiter", framespec.DefaultStepDelimiter, "Delimiter between range and step")
	cmd.Flags().IntVar(&padding, "padding", -1, "Zero-pad frame numbers to this width (-1 uses each frame's natural width)")

	return cmd
}
