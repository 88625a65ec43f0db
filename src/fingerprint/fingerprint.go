// Package fingerprint computes Stable Hash fingerprints of files and keeps
// them in a bbolt store so later runs can detect changed content.
package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/panjf2000/ants"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/hashkit/src/hash"
)

const defaultWorkers = 8

// Fingerprint is the digest of one file. Path is slash separated and
// relative to the walked root.
type Fingerprint struct {
	Path   string
	Size   int64
	Digest hash.Digest128
}

type Fingerprinter struct {
	fs      afero.Fs
	seed    uint64
	workers int
	log     *zap.Logger
}

type Option func(*Fingerprinter)

func WithSeed(seed uint64) Option {
	return func(f *Fingerprinter) {
		f.seed = seed
	}
}

func WithWorkers(n int) Option {
	return func(f *Fingerprinter) {
		if n > 0 {
			f.workers = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Fingerprinter) {
		f.log = log
	}
}

func New(fs afero.Fs, opts ...Option) *Fingerprinter {
	f := &Fingerprinter{
		fs:      fs,
		seed:    hash.DefaultSeed,
		workers: defaultWorkers,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fingerprinter) Seed() uint64 {
	return f.seed
}

// File fingerprints a single file; the reported Path is path as given.
func (f *Fingerprinter) File(path string) (Fingerprint, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Fingerprint{
		Path:   filepath.ToSlash(path),
		Size:   int64(len(data)),
		Digest: hash.Stable128(data, f.seed),
	}, nil
}

// Tree fingerprints every regular file below root on a worker pool. The
// result is sorted by path. Per-file failures are joined into the error; the
// fingerprints that succeeded are still returned.
func (f *Fingerprinter) Tree(ctx context.Context, root string) ([]Fingerprint, error) {
	var paths []string
	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.Mode().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	pool, err := ants.NewPool(f.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result = make([]Fingerprint, 0, len(paths))
		errs   []error
	)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			fp, err := f.File(path)
			if err == nil {
				fp.Path, err = relative(root, path)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			result = append(result, fp)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("failed to submit %s: %w", path, submitErr))
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	f.log.Debug("fingerprinted tree",
		zap.String("root", root),
		zap.Int("files", len(result)),
		zap.Int("failed", len(errs)),
	)

	return result, errors.Join(errs...)
}

func relative(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
