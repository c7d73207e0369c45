/*
Package bolt provides a CommitKVStore on top of a single bbolt file. It does
not keep old versions nor produce merkle proofs. The application hash is a
running sha256 over every committed write, so two nodes that apply the same
transactions report the same hash.
*/
package bolt

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
	"go.etcd.io/bbolt"
)

var (
	bucketState = []byte("state")
	bucketMeta  = []byte("meta")

	keyVersion = []byte("version")
	keyHash    = []byte("hash")
)

// CommitStore keeps the committed state in a bbolt database. Writes are
// collected in memory and flushed in a single bbolt transaction on Commit.
type CommitStore struct {
	db      *bbolt.DB
	working store.BTreeCacheWrap
	pending *store.NonAtomicBatch
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// Open opens or creates the database at path. The parent directory is
// created if it does not exist.
func Open(path string) (*CommitStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create directory: %s", err)
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open bolt db: %s", err)
	}
	s := &CommitStore{db: db}
	s.reset()
	return s, nil
}

func (s *CommitStore) reset() {
	s.pending = store.NewNonAtomicBatch(store.EmptyKVStore{})
	s.working = store.NewBTreeCacheWrap(reader{db: s.db}, s.pending, nil)
}

// Close closes the underlying database.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

// Get returns the value of the working state.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	return s.working.Get(key)
}

// Has returns true if the key is present in the working state.
func (s *CommitStore) Has(key []byte) (bool, error) {
	return s.working.Has(key)
}

// CacheWrap returns a cache that writes into the working state.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.working.CacheWrap()
}

// LoadLatestVersion ensures all buckets exist. bbolt always opens the last
// fully committed transaction.
func (s *CommitStore) LoadLatestVersion() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create buckets: %s", err)
	}
	return nil
}

// LatestVersion returns the version and hash of the last commit.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	var id store.CommitID
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return nil
		}
		id = readCommitID(meta)
		return nil
	})
	if err != nil {
		return id, errors.Wrapf(errors.ErrDatabase, "read meta: %s", err)
	}
	return id, nil
}

// Commit writes all pending operations in one transaction and advances the
// version. The new hash is sha256(previous hash | operations).
func (s *CommitStore) Commit() (store.CommitID, error) {
	var id store.CommitID
	err := s.db.Update(func(tx *bbolt.Tx) error {
		state, err := tx.CreateBucketIfNotExists(bucketState)
		if err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		prev := readCommitID(meta)
		h := sha256.New()
		h.Write(prev.Hash)
		for _, op := range s.pending.ShowOps() {
			if op.IsSetOp() {
				h.Write([]byte{1})
				writeChunk(h, op.Key())
				writeChunk(h, op.Value())
				err = state.Put(op.Key(), op.Value())
			} else {
				h.Write([]byte{2})
				writeChunk(h, op.Key())
				err = state.Delete(op.Key())
			}
			if err != nil {
				return err
			}
		}

		id = store.CommitID{Version: prev.Version + 1, Hash: h.Sum(nil)}
		var version [8]byte
		binary.BigEndian.PutUint64(version[:], uint64(id.Version))
		if err := meta.Put(keyVersion, version[:]); err != nil {
			return err
		}
		return meta.Put(keyHash, id.Hash)
	})
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	s.working.Discard()
	s.reset()
	return id, nil
}

// writeChunk writes a length prefixed value so that concatenations cannot
// collide.
func writeChunk(h io.Writer, b []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))
	h.Write(size[:])
	h.Write(b)
}

func readCommitID(meta *bbolt.Bucket) store.CommitID {
	var id store.CommitID
	if raw := meta.Get(keyVersion); len(raw) == 8 {
		id.Version = int64(binary.BigEndian.Uint64(raw))
	}
	if raw := meta.Get(keyHash); raw != nil {
		id.Hash = append([]byte(nil), raw...)
	}
	return id
}

// reader serves reads of the committed state. Values are copied because
// bbolt memory is only valid inside of the transaction.
type reader struct {
	db *bbolt.DB
}

func (r reader) Get(key []byte) ([]byte, error) {
	var val []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if raw := b.Get(key); raw != nil {
			val = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "read: %s", err)
	}
	return val, nil
}

func (r reader) Has(key []byte) (bool, error) {
	val, err := r.Get(key)
	return val != nil, err
}
