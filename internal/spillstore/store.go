// Package spillstore provides the bbolt-backed spill storage used by
// external sort. Each sort run owns one Store (one bbolt file); each
// in-memory-sorted chunk becomes one bucket, written in a single
// transaction so chunk rows keep their pre-sorted order under a
// monotonically increasing per-chunk sequence key. A later merge phase
// opens one long-lived read-only transaction and walks one cursor per
// bucket.
package spillstore

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// Store is a single spill database for one external sort run.
type Store struct {
	db   *bbolt.DB
	path string
}

// Open creates the bbolt file at path, or opens it if it already exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open spill store %s", path)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the underlying file path, for log messages.
func (s *Store) Path() string { return s.path }

// WriteChunk spills a whole pre-sorted chunk's encoded rows as one bucket,
// in a single transaction; rows are keyed by sequence number 0..len(rows)-1
// so bucket iteration reproduces the chunk's in-memory sort order.
func (s *Store) WriteChunk(name []byte, rows [][]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return err
		}
		for seq, row := range rows {
			if err := b.Put(seqKey(uint64(seq)), row); err != nil {
				return err
			}
		}
		return nil
	})
}

func seqKey(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

// MergeTx is a long-lived read-only transaction over the spilled chunks,
// used by the k-way merge. Close it (Rollback, bbolt's read-only commit) to
// release it before removing the store's file.
type MergeTx struct {
	tx *bbolt.Tx
}

// BeginMerge opens the read-only transaction the merge phase walks cursors
// within.
func (s *Store) BeginMerge() (*MergeTx, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, errors.Wrap(err, "begin spill merge transaction")
	}
	return &MergeTx{tx: tx}, nil
}

// Cursor returns an ascending cursor over the named chunk bucket, or nil if
// no chunk of that name was written.
func (m *MergeTx) Cursor(name []byte) *Cursor {
	b := m.tx.Bucket(name)
	if b == nil {
		return nil
	}
	c := b.Cursor()
	return &Cursor{c: c}
}

// Rollback releases the merge transaction. bbolt treats Rollback on a
// read-only Tx as simply releasing it (no data is mutated).
func (m *MergeTx) Rollback() error { return m.tx.Rollback() }

// Cursor walks one chunk bucket in key (sequence) order.
type Cursor struct {
	c       *bbolt.Cursor
	started bool
}

// Next returns the next row's bytes, or ok=false at exhaustion. The
// returned slice is only valid until the next call or until the owning
// MergeTx is rolled back (bbolt's usual cursor-value lifetime), so callers
// must decode immediately.
func (c *Cursor) Next() (value []byte, ok bool) {
	var k, v []byte
	if !c.started {
		c.started = true
		k, v = c.c.First()
	} else {
		k, v = c.c.Next()
	}
	if k == nil {
		return nil, false
	}
	return v, true
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Remove closes (if open) and deletes the spill file. Called once the
// merge stream reading from it is exhausted or abandoned, so spill files
// never outlive the sort that created them.
func (s *Store) Remove() error {
	_ = s.Close()
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
