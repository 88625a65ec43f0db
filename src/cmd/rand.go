package main

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/hashkit/src/rand"
)

type randOptions struct {
	bytes   int
	uint64s int
	uuids   int
}

func newRandCmd() *cobra.Command {
	opts := &randOptions{}

	cmd := &cobra.Command{
		Use:   "rand",
		Short: "Print pseudo-random bytes, integers or UUIDs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRand(cmd, rand.Default(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.bytes, "bytes", "n", 0, "print n random bytes as hex")
	cmd.Flags().IntVar(&opts.uint64s, "uint64", 0, "print n random 64 bit integers")
	cmd.Flags().IntVar(&opts.uuids, "uuid", 0, "print n random version 4 UUIDs")

	return cmd
}

func runRand(cmd *cobra.Command, g *rand.Generator, opts *randOptions) error {
	if opts.bytes < 0 || opts.uint64s < 0 || opts.uuids < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if opts.bytes == 0 && opts.uint64s == 0 && opts.uuids == 0 {
		opts.bytes = 32
	}

	out := cmd.OutOrStdout()

	if opts.bytes > 0 {
		buf := make([]byte, opts.bytes)
		g.Fill(buf)
		fmt.Fprintln(out, hex.EncodeToString(buf))
	}

	for range opts.uint64s {
		fmt.Fprintln(out, g.Uint64())
	}

	for range opts.uuids {
		id, err := uuid.NewRandomFromReader(g)
		if err != nil {
			return fmt.Errorf("failed to generate uuid: %w", err)
		}
		fmt.Fprintln(out, id)
	}

	return nil
}
