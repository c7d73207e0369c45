package compensation

import "github.com/iov-one/compensation/store"

// The storage interfaces are defined in the store package and referenced here
// so that handlers only need to import this package.

type ReadOnlyKVStore = store.ReadOnlyKVStore
type SetDeleter = store.SetDeleter
type KVStore = store.KVStore
type Batch = store.Batch
type CacheableKVStore = store.CacheableKVStore
type KVCacheWrap = store.KVCacheWrap
type CommitKVStore = store.CommitKVStore
type CommitID = store.CommitID
type Model = store.Model

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return store.Pair(key, value)
}
