package backup

import "errors"

// errBucketNotFound is returned by storageTx.DeleteBucket when the bucket doesn't exist.
var errBucketNotFound = errors.New("bucket not found")

// storage is a key-value backend: Bolt on disk, or memory for tests.
type storage interface {
	BeginTx(writable bool) (storageTx, error)
	Close() error
}

type storageTx interface {
	// Bucket returns a bucket. Use sub="" for a root bucket, non-empty for a nested bucket.
	// Returns nil if the bucket doesn't exist.
	Bucket(name, sub string) storageBucket

	// CreateBucket creates a bucket if it doesn't exist, along with its root.
	CreateBucket(name, sub string) (storageBucket, error)

	// DeleteBucket deletes a nested bucket (sub must be non-empty).
	DeleteBucket(name, sub string) error

	Commit() error

	// Rollback aborts the transaction. It is safe to call after Commit.
	Rollback() error
}

// storageBucket is a sorted key-value collection. Slices returned by Get and
// cursors are only valid until the transaction ends.
type storageBucket interface {
	Get(key []byte) []byte
	Put(key, value []byte) error
	Delete(key []byte) error
	Cursor() storageCursor
	KeyCount() int
}

type storageCursor interface {
	First() (key, value []byte)
	Last() (key, value []byte)
	Next() (key, value []byte)
	Prev() (key, value []byte)
}
