package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/hashkit/src/fingerprint"
	"github.com/Blackdeer1524/hashkit/src/hash"
)

var errTreeChanged = errors.New("tree changed since it was recorded")

type fingerprintOptions struct {
	db      string
	verify  bool
	seed    uint64
	workers int
}

func newFingerprintCmd(root *rootOptions) *cobra.Command {
	opts := &fingerprintOptions{}

	cmd := &cobra.Command{
		Use:   "fingerprint <root>",
		Short: "Print, record or verify 128 bit digests of every file under root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fingerprint.New(
				afero.NewOsFs(),
				fingerprint.WithSeed(opts.seed),
				fingerprint.WithWorkers(opts.workers),
				fingerprint.WithLogger(root.logger()),
			)
			return runFingerprint(cmd, f, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "bbolt file to record fingerprints in")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "compare root against --db instead of recording")
	cmd.Flags().Uint64Var(&opts.seed, "seed", hash.DefaultSeed, "digest seed")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 8, "files hashed concurrently")

	return cmd
}

func runFingerprint(cmd *cobra.Command, f *fingerprint.Fingerprinter, opts *fingerprintOptions, root string) error {
	out := cmd.OutOrStdout()

	if opts.db == "" {
		if opts.verify {
			return errors.New("--verify requires --db")
		}

		fps, err := f.Tree(cmd.Context(), root)
		if err != nil {
			return err
		}
		printFingerprints(out, fps)

		return nil
	}

	store, err := fingerprint.Open(opts.db, f.Seed())
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.verify {
		rep, err := store.Verify(cmd.Context(), f, root)
		if err != nil {
			return err
		}
		printReport(out, rep)

		if !rep.Clean() {
			return errTreeChanged
		}
		return nil
	}

	fps, err := f.Tree(cmd.Context(), root)
	if err != nil {
		return err
	}
	if err := store.Replace(fps); err != nil {
		return err
	}
	fmt.Fprintf(out, "recorded %d files in %s\n", len(fps), opts.db)

	return nil
}

func printFingerprints(w io.Writer, fps []fingerprint.Fingerprint) {
	for _, fp := range fps {
		b := fp.Digest.Bytes()
		fmt.Fprintf(w, "%x  %d  %s\n", b[:], fp.Size, fp.Path)
	}
}

func printReport(w io.Writer, rep fingerprint.Report) {
	for _, p := range rep.Changed {
		fmt.Fprintf(w, "changed  %s\n", p)
	}
	for _, p := range rep.Missing {
		fmt.Fprintf(w, "missing  %s\n", p)
	}
	for _, p := range rep.Added {
		fmt.Fprintf(w, "added    %s\n", p)
	}
	fmt.Fprintf(w, "%d unchanged, %d changed, %d missing, %d added\n",
		rep.Unchanged, len(rep.Changed), len(rep.Missing), len(rep.Added))
}
