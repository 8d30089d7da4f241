// Package backup keeps previous versions of save files, so that a save
// written by the editor can always be rolled back.
//
// Versions are grouped by save name. Each version records when it was
// stored and the xxhash of its content; content is kept once per name,
// compressed with zstd.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"go.etcd.io/bbolt"
)

const (
	versionsBucket = "versions"
	blobsBucket    = "blobs"
)

type Options struct {
	Now     func() time.Time
	Logger  *slog.Logger
	Verbose bool

	// Level is the zstd encoder level; zero means zstd.SpeedBetterCompression.
	Level zstd.EncoderLevel

	// Timeout limits how long Open waits for the database lock.
	Timeout time.Duration
}

type Store struct {
	st      storage
	now     func() time.Time
	logger  *slog.Logger
	verbose bool
	enc     *zstd.Encoder
	dec     *zstd.Decoder
}

const DefaultOpenTimeout = 5 * time.Second

// Open opens (creating if needed) a Bolt-backed store at path.
func Open(path string, o Options) (*Store, error) {
	if o.Timeout == 0 {
		o.Timeout = DefaultOpenTimeout
	}
	bdb, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: o.Timeout})
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	s, err := newStore(newBoltStorage(bdb), o)
	if err != nil {
		bdb.Close()
		return nil, err
	}
	return s, nil
}

// OpenMem returns a store that lives in memory only.
func OpenMem(o Options) *Store {
	s, err := newStore(newMemStorage(), o)
	if err != nil {
		panic(err)
	}
	return s
}

func newStore(st storage, o Options) (*Store, error) {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Level == 0 {
		o.Level = zstd.SpeedBetterCompression
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(o.Level))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Store{
		st:      st,
		now:     o.Now,
		logger:  o.Logger,
		verbose: o.Verbose,
		enc:     enc,
		dec:     dec,
	}, nil
}

func (s *Store) Close() error {
	s.dec.Close()
	err := s.enc.Close()
	if cerr := s.st.Close(); cerr != nil {
		err = cerr
	}
	return err
}

func (s *Store) read(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (s *Store) write(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = f(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Put stores data as the newest version of name. If the newest version
// already has identical content, nothing is written and its Meta is
// returned. Content identical to an older version is stored only once.
func (s *Store) Put(ctx context.Context, name, format string, data []byte) (*Meta, error) {
	if name == "" {
		panic("backup name is empty")
	}
	sum := xxhash.Sum64(data)
	var result *Meta
	err := s.write(func(tx storageTx) error {
		if vb := tx.Bucket(versionsBucket, name); vb != nil {
			if _, v := vb.Cursor().Last(); v != nil {
				latest, err := decodeMeta(v)
				if err != nil {
					return err
				}
				if latest.Sum == sum {
					result = latest
					return nil
				}
			}
		}

		blobs, err := tx.CreateBucket(blobsBucket, name)
		if err != nil {
			return err
		}
		stored := blobs.Get(blobKey(sum))
		if stored == nil {
			stored = s.enc.EncodeAll(data, make([]byte, 0, len(data)/2))
			err = blobs.Put(blobKey(sum), stored)
			if err != nil {
				return err
			}
		}

		m := &Meta{
			Name:   name,
			Sum:    sum,
			Size:   int64(len(data)),
			Stored: int64(len(stored)),
			Time:   s.now().UTC(),
			Format: format,
		}
		versions, err := tx.CreateBucket(versionsBucket, name)
		if err != nil {
			return err
		}
		err = versions.Put(versionKey(m.Time, sum), encodeMeta(m))
		if err != nil {
			return err
		}
		result = m
		if s.verbose {
			s.logger.LogAttrs(ctx, slog.LevelDebug, "backup: stored", slog.String("name", name), slog.String("sum", m.SumString()), slog.Int64("size", m.Size), slog.Int64("stored", m.Stored))
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("put", name, sum, err)
	}
	return result, nil
}

// List returns the versions of name, newest first.
func (s *Store) List(name string) ([]*Meta, error) {
	var result []*Meta
	err := s.read(func(tx storageTx) error {
		vb := tx.Bucket(versionsBucket, name)
		if vb == nil {
			return nil
		}
		c := vb.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			m, err := decodeMeta(v)
			if err != nil {
				return err
			}
			result = append(result, m)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("list", name, 0, err)
	}
	return result, nil
}

// Latest returns the newest version of name, or ErrNotFound.
func (s *Store) Latest(name string) (*Meta, error) {
	var result *Meta
	err := s.read(func(tx storageTx) error {
		vb := tx.Bucket(versionsBucket, name)
		if vb == nil {
			return ErrNotFound
		}
		_, v := vb.Cursor().Last()
		if v == nil {
			return ErrNotFound
		}
		var err error
		result, err = decodeMeta(v)
		return err
	})
	if err != nil {
		return nil, storeErr("latest", name, 0, err)
	}
	return result, nil
}

// Get returns the content of name with the given hash. The content is
// checked against the hash before being returned.
func (s *Store) Get(name string, sum uint64) ([]byte, error) {
	var data []byte
	err := s.read(func(tx storageTx) error {
		blobs := tx.Bucket(blobsBucket, name)
		if blobs == nil {
			return ErrNotFound
		}
		stored := blobs.Get(blobKey(sum))
		if stored == nil {
			return ErrNotFound
		}
		var err error
		data, err = s.dec.DecodeAll(stored, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if actual := xxhash.Sum64(data); actual != sum {
			return fmt.Errorf("%w: content hash is %s", ErrCorrupt, FormatSum(actual))
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("get", name, sum, err)
	}
	return data, nil
}

// Prune deletes all but the newest keep versions of name, along with
// content no remaining version refers to. It returns the number of
// versions deleted.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	var deleted int
	err := s.write(func(tx storageTx) error {
		vb := tx.Bucket(versionsBucket, name)
		if vb == nil {
			return nil
		}
		var doomed [][]byte
		live := make(map[uint64]bool)
		var seen int
		c := vb.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			m, err := decodeMeta(v)
			if err != nil {
				return err
			}
			seen++
			if seen <= keep {
				live[m.Sum] = true
			} else {
				doomed = append(doomed, append([]byte(nil), k...))
			}
		}
		for _, k := range doomed {
			if err := vb.Delete(k); err != nil {
				return err
			}
		}
		deleted = len(doomed)

		blobs := tx.Bucket(blobsBucket, name)
		if blobs == nil {
			return nil
		}
		var orphans [][]byte
		bc := blobs.Cursor()
		for k, _ := bc.First(); k != nil; k, _ = bc.Next() {
			if !live[decodeBlobKey(k)] {
				orphans = append(orphans, append([]byte(nil), k...))
			}
		}
		for _, k := range orphans {
			if err := blobs.Delete(k); err != nil {
				return err
			}
		}
		if deleted > 0 {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "backup: pruned", slog.String("name", name), slog.Int("versions", deleted), slog.Int("blobs", len(orphans)))
		}
		return nil
	})
	if err != nil {
		return 0, storeErr("prune", name, 0, err)
	}
	return deleted, nil
}

// Forget deletes every version of name.
func (s *Store) Forget(name string) error {
	err := s.write(func(tx storageTx) error {
		var found bool
		for _, bucket := range []string{versionsBucket, blobsBucket} {
			err := tx.DeleteBucket(bucket, name)
			if err == nil {
				found = true
			} else if err != errBucketNotFound {
				return err
			}
		}
		if !found {
			return ErrNotFound
		}
		return nil
	})
	return storeErr("forget", name, 0, err)
}

// Stats summarizes what is stored for name.
type Stats struct {
	Versions   int
	Blobs      int
	Size       int64
	StoredSize int64
}

func (s *Store) Stats(name string) (Stats, error) {
	var st Stats
	err := s.read(func(tx storageTx) error {
		if vb := tx.Bucket(versionsBucket, name); vb != nil {
			st.Versions = vb.KeyCount()
		}
		blobs := tx.Bucket(blobsBucket, name)
		if blobs == nil {
			return nil
		}
		st.Blobs = blobs.KeyCount()
		c := blobs.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			st.StoredSize += int64(len(v))
		}
		return nil
	})
	if err != nil {
		return Stats{}, storeErr("stats", name, 0, err)
	}
	if st.Versions > 0 {
		metas, err := s.List(name)
		if err != nil {
			return Stats{}, err
		}
		counted := make(map[uint64]bool)
		for _, m := range metas {
			if !counted[m.Sum] {
				counted[m.Sum] = true
				st.Size += m.Size
			}
		}
	}
	return st, nil
}
