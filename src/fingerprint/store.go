package fingerprint

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Blackdeer1524/hashkit/src/hash"
)

var (
	ErrSeedMismatch = errors.New("store was written with a different seed")
	ErrCorrupted    = errors.New("corrupted fingerprint record")
)

var (
	bucketFingerprints = []byte("fingerprints")
	bucketMeta         = []byte("meta")
	keySeed            = []byte("seed")
)

// record layout: 16 byte digest (Digest128.Bytes) then 8 byte LE size
const recordSize = 16 + 8

// Store persists fingerprints keyed by path. Only Stable Hash digests are
// stored; they never change between releases.
type Store struct {
	db   *bbolt.DB
	seed uint64
}

// Open opens or creates the store at path. A store remembers the seed it
// was created with and refuses any other.
func Open(path string, seed uint64) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open fingerprint store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketFingerprints); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		stored := meta.Get(keySeed)
		if stored == nil {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], seed)
			return meta.Put(keySeed, b[:])
		}
		if len(stored) != 8 || binary.LittleEndian.Uint64(stored) != seed {
			return ErrSeedMismatch
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to init fingerprint store: %w", err), db.Close())
	}

	return &Store{db: db, seed: seed}, nil
}

func (s *Store) Seed() uint64 {
	return s.seed
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encodeRecord(fp Fingerprint) []byte {
	b := make([]byte, recordSize)
	d := fp.Digest.Bytes()
	copy(b, d[:])
	binary.LittleEndian.PutUint64(b[16:], uint64(fp.Size))
	return b
}

func decodeRecord(path string, v []byte) (Fingerprint, error) {
	if len(v) != recordSize {
		return Fingerprint{}, fmt.Errorf("%s: %w", path, ErrCorrupted)
	}
	var d [16]byte
	copy(d[:], v)
	return Fingerprint{
		Path:   path,
		Size:   int64(binary.LittleEndian.Uint64(v[16:])),
		Digest: hash.Digest128FromBytes(d),
	}, nil
}

// Put stores fps, replacing existing records of the same paths.
func (s *Store) Put(fps []Fingerprint) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFingerprints)
		for _, fp := range fps {
			if err := b.Put([]byte(fp.Path), encodeRecord(fp)); err != nil {
				return fmt.Errorf("failed to put %s: %w", fp.Path, err)
			}
		}
		return nil
	})
}

// Replace drops every stored record and stores fps.
func (s *Store) Replace(fps []Fingerprint) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketFingerprints); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketFingerprints)
		if err != nil {
			return err
		}
		for _, fp := range fps {
			if err := b.Put([]byte(fp.Path), encodeRecord(fp)); err != nil {
				return fmt.Errorf("failed to put %s: %w", fp.Path, err)
			}
		}
		return nil
	})
}

// Get returns the stored fingerprint of path.
func (s *Store) Get(path string) (fp Fingerprint, ok bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketFingerprints).Get([]byte(path))
		if v == nil {
			return nil
		}
		ok = true
		fp, err = decodeRecord(path, v)
		return err
	})
	return fp, ok, err
}

// All returns every stored fingerprint ordered by path.
func (s *Store) All() ([]Fingerprint, error) {
	var fps []Fingerprint
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFingerprints).ForEach(func(k, v []byte) error {
			fp, err := decodeRecord(string(k), v)
			if err != nil {
				return err
			}
			fps = append(fps, fp)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return fps, nil
}

// Report lists paths whose fingerprints differ from the store.
type Report struct {
	Unchanged int
	Changed   []string
	Missing   []string
	Added     []string
}

func (r Report) Clean() bool {
	return len(r.Changed) == 0 && len(r.Missing) == 0 && len(r.Added) == 0
}

// Verify fingerprints root again and compares it with the store.
func (s *Store) Verify(ctx context.Context, f *Fingerprinter, root string) (Report, error) {
	if f.Seed() != s.seed {
		return Report{}, ErrSeedMismatch
	}

	current, err := f.Tree(ctx, root)
	if err != nil {
		return Report{}, err
	}

	stored, err := s.All()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read fingerprint store: %w", err)
	}

	var (
		rep  Report
		seen = make(map[string]Fingerprint, len(stored))
	)
	for _, fp := range stored {
		seen[fp.Path] = fp
	}

	for _, fp := range current {
		old, ok := seen[fp.Path]
		switch {
		case !ok:
			rep.Added = append(rep.Added, fp.Path)
		case old != fp:
			rep.Changed = append(rep.Changed, fp.Path)
		default:
			rep.Unchanged++
		}
		delete(seen, fp.Path)
	}

	// stored is sorted, keep Missing sorted as well
	for _, fp := range stored {
		if _, ok := seen[fp.Path]; ok {
			rep.Missing = append(rep.Missing, fp.Path)
		}
	}

	return rep, nil
}
