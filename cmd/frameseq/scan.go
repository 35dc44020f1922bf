package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chicogong/frameseq/pkg/framespec"
	"github.com/chicogong/frameseq/pkg/sequence"
	"github.com/chicogong/frameseq/pkg/storage"
)

func newScanCmd() *cobra.Command {
	var (
		stepDelimiter string
		plain         bool
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan <uri>",
		Short: "Scan a storage location and report the frame sequences it holds",
		Long:  "Scan a storage location and report the frame sequences it holds.\nSupported sources are file://, s3://, http:// and https:// URIs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			uri := args[0]
			lister, err := storage.ForURI(ctx, uri)
			if err != nil {
				return err
			}

			names, err := lister.List(ctx, uri)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", uri, err)
			}

			codec, err := framespec.New(framespec.Config{StepDelimiter: stepDelimiter})
			if err != nil {
				return err
			}

			result, err := sequence.Scan(names, codec)
			if err != nil {
				return err
			}

			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				renderPlain(cmd, result)
			} else {
				renderTable(cmd, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stepDelimiter, "step-delimiter", framespec.DefaultStepDelimiter, "Delimiter between range and step")
	cmd.Flags().BoolVar(&plain, "plain", false, "Force plain output even on a terminal")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Timeout for listing the source")

	return cmd
}

func renderPlain(cmd *cobra.Command, result *sequence.Result) {
	out := cmd.OutOrStdout()
	for _, seq := range result.Sequences {
		fmt.Fprintln(out, seq.Condensed)
	}
	for _, name := range result.Loose {
		fmt.Fprintln(out, name)
	}
}

func renderTable(cmd *cobra.Command, result *sequence.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Sequence", "Frames", "Range", "Pad"})

	for _, seq := range result.Sequences {
		tw.AppendRow(table.Row{
			seq.Condensed,
			seq.FrameCount,
			fmt.Sprintf("%d-%d", seq.FirstFrame, seq.LastFrame),
			seq.Padding,
		})
	}
	tw.Render()

	if len(result.Loose) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d loose file(s):\n", len(result.Loose))
		for _, name := range result.Loose {
			fmt.Fprintln(cmd.OutOrStdout(), " ", name)
		}
	}
}
