package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// CommitStore keeps the committed state of the ledger together with two
// scratch views. Every block writes the deliver view on Commit. The check
// view is discarded at the same point, so mempool checks always start from
// the last committed ledger.
type CommitStore struct {
	committed compensation.CommitKVStore
	deliver   compensation.KVCacheWrap
	check     compensation.KVCacheWrap
}

// NewCommitStore panics if the latest version cannot be loaded.
func NewCommitStore(store compensation.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and the hash of the last commit.
func (cs *CommitStore) CommitInfo() (compensation.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered in the current block.
func (cs *CommitStore) Commit() (compensation.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return compensation.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() compensation.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() compensation.CacheableKVStore {
	return cs.deliver
}

// QueryStore returns a throw away view of the committed state. Queries never
// see transactions of a block that is not committed yet.
func (cs *CommitStore) QueryStore() compensation.KVCacheWrap {
	return cs.committed.CacheWrap()
}
