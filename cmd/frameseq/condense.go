package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chicogong/frameseq/pkg/framespec"
)

func newCondenseCmd() *cobra.Command {
	var (
		stepDelimiter string
		singlePass    bool
	)

	cmd := &cobra.Command{
		Use:   "condense [files...]",
		Short: "Condense a list of file names into a condensed file string",
		Long:  "Condense a list of file names into a condensed file string.\nFile names are taken from the arguments, or from stdin one per\nline when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				var err error
				files, err = readLines(cmd)
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no file names given")
			}

			codec, err := framespec.New(framespec.Config{
				StepDelimiter: stepDelimiter,
				SinglePass:    singlePass,
			})
			if err != nil {
				return err
			}

			condensed, err := codec.Encode(files)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), condensed)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepDelimiter, "step-delimiter", framespec.DefaultStepDelimiter, "Delimiter between range and step")
	cmd.Flags().BoolVar(&singlePass, "single-pass", false, "Skip the merge pass over the compacted ranges")

	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}
