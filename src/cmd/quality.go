package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/hashkit/src/quality"
)

type qualityOptions struct {
	lengths []int
	trials  int
}

func newQualityCmd(root *rootOptions) *cobra.Command {
	opts := &qualityOptions{}

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Run avalanche and bucket distribution checks on every hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuality(cmd, root, opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.lengths, "lengths", []int{4, 8, 16, 31, 32, 33, 64, 256}, "input lengths in bytes")
	cmd.Flags().IntVar(&opts.trials, "trials", 2000, "bit flips per input length")

	return cmd
}

func runQuality(cmd *cobra.Command, root *rootOptions, opts *qualityOptions) error {
	results, failed := quality.Suite(
		cmd.Context(),
		quality.DefaultChecks(),
		opts.lengths,
		opts.trials,
		quality.DefaultTolerance,
		root.logger(),
	)
	if results == nil {
		return failed
	}

	tabs := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 0, 2, ' ', 0)
	fmt.Fprintln(tabs, "HASH\tLEN\tMEAN FLIPPED\tWORST BIAS\tCHI2/DF")
	for _, r := range results {
		fmt.Fprintf(tabs, "%s\t%d\t%.2f\t%.3f\t%.3f\n",
			r.Name, r.InputLen, r.MeanFlipped, r.WorstBias, r.Chi2)
	}
	if err := tabs.Flush(); err != nil {
		return err
	}

	return failed
}
