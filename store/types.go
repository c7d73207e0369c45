/*
Package store defines the key value interfaces the ledger is written
against, and the btree cache that isolates the writes of a transaction until
they are accepted.

Persistent backends live in store/iavl and store/bolt.
*/
package store

// ReadOnlyKVStore reads values. Get returns a nil value for a missing key.
// Both methods panic on a nil key.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// SetDeleter is the write half shared by KVStore and Batch. Implementations
// must not keep or modify the given slices.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is implemented by every store a handler receives.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that writes to this store atomically.
	NewBatch() Batch
}

// Batch collects writes until Write applies all of them.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore can be wrapped in a cache, which is how a transaction
// gets its own view of the state.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch view over a parent store. Reads see the cached
// writes first. Write flushes them to the parent, Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is a versioned root store. Writes go through a CacheWrap
// and only become part of a version on Commit.
type CommitKVStore interface {
	// ReadOnlyKVStore reads the last committed version.
	ReadOnlyKVStore

	CacheWrap() KVCacheWrap

	// Commit persists the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the newest complete version. After a crash
	// during a commit that may be the version before it.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its height and root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Model is a key value pair returned by queries and iterators.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
