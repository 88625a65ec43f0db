package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/hashkit/src/hash"
)

type hashOptions struct {
	algo   string
	seed   string
	stable bool
}

func newHashCmd() *cobra.Command {
	opts := &hashOptions{}

	cmd := &cobra.Command{
		Use:   "hash [files...]",
		Short: "Print the digest of each file, or of stdin when no file is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.algo, "algo", "a", string(hash.AlgoStable), "risky, stable or stable128")
	cmd.Flags().StringVarP(&opts.seed, "seed", "s", "0", "seed, decimal or 0x prefixed hex")
	cmd.Flags().BoolVar(&opts.stable, "stable-for-risky", false, "serve risky with the stable hash")

	return cmd
}

func digest(h hash.Hasher, algo hash.Algo, data []byte, seed uint64) (string, error) {
	switch algo {
	case hash.AlgoRisky:
		return fmt.Sprintf("%016x", h.Risky(data, seed)), nil
	case hash.AlgoStable:
		return fmt.Sprintf("%016x", h.Stable(data, seed)), nil
	case hash.AlgoStable128:
		b := h.Stable128(data, seed).Bytes()
		return hex.EncodeToString(b[:]), nil
	default:
		return "", fmt.Errorf("unknown hash %q", algo)
	}
}

func runHash(cmd *cobra.Command, opts *hashOptions, args []string) error {
	seed, err := strconv.ParseUint(opts.seed, 0, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", opts.seed, err)
	}

	h := hash.New(hash.Config{UseStableHashForRiskyHash: opts.stable})
	algo := hash.Algo(opts.algo)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		d, err := digest(h, algo, data, seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  -\n", d)

		return nil
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		d, err := digest(h, algo, data, seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", d, path)
	}

	return nil
}
