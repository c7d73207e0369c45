package payout

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/store/bolt"
	"github.com/iov-one/compensation/store/iavl"
	"github.com/iov-one/compensation/x/token"
	"github.com/stretchr/testify/require"
)

// block runs fn on a cache of kv and commits the result, the way the
// application handles one block.
func block(t testing.TB, kv compensation.CommitKVStore, fn func(db compensation.KVStore)) {
	t.Helper()
	cache := kv.CacheWrap()
	fn(cache)
	require.NoError(t, cache.Write())
	_, err := kv.Commit()
	require.NoError(t, err)
}

func TestLedgerOnCommitStores(t *testing.T) {
	cases := map[string]struct {
		open   func(t *testing.T, path string) compensation.CommitKVStore
		reload bool
	}{
		"iavl": {
			open: func(t *testing.T, path string) compensation.CommitKVStore {
				return iavl.NewMemCommitStore()
			},
		},
		"bolt": {
			open: func(t *testing.T, path string) compensation.CommitKVStore {
				s, err := bolt.Open(path)
				require.NoError(t, err)
				t.Cleanup(func() { s.Close() })
				return s
			},
			reload: true,
		},
	}

	operator := comptest.NewCondition().Address()
	var opts compensation.Options
	require.NoError(t, json.Unmarshal([]byte(`{"conf": {"payout": {"operator": "`+operator.String()+`"}}}`), &opts))

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "payout.db")
			kv := tc.open(t, path)
			require.NoError(t, kv.LoadLatestVersion())

			ledger := NewLedger()
			tokens := token.NewController()
			dist := NewDistributor(ledger, tokens)
			users := newAddrs(3)
			owner := users[0]
			amounts := []uint64{oneUSDC, 5 * oneUSDC, 3 * oneUSDC}

			// Genesis writes a zero ledger state.
			block(t, kv, func(db compensation.KVStore) {
				require.NoError(t, Initializer{}.FromGenesis(opts, db))
				require.NoError(t, tokens.Issue(db, ReserveAddress(), 900000*oneUSDC))
			})
			state, err := ledger.State(kv)
			require.NoError(t, err)
			assert.Equal(t, State{}, *state)

			block(t, kv, func(db compensation.KVStore) {
				_, err := ledger.Register(db, users, amounts)
				require.NoError(t, err)
			})

			// The first position has an all zero index entry.
			amount, err := ledger.Compensation(kv, owner)
			require.NoError(t, err)
			assert.Equal(t, uint64(oneUSDC), amount)
			res, err := ledger.queryBeneficiary(kv, owner)
			require.NoError(t, err)
			require.Len(t, res, 1)

			block(t, kv, func(db compensation.KVStore) {
				events, err := dist.Distribute(db, 2)
				require.NoError(t, err)
				assert.Equal(t, 2, len(events))
			})
			block(t, kv, func(db compensation.KVStore) {
				events, err := dist.Distribute(db, 1)
				require.NoError(t, err)
				assert.Equal(t, []Claimed{{Address: users[2], Amount: 3 * oneUSDC}}, events)
			})

			check := func(db compensation.ReadOnlyKVStore) {
				t.Helper()
				state, err := ledger.State(db)
				require.NoError(t, err)
				assert.Equal(t, State{Length: 3, TotalCompensation: 9 * oneUSDC, Cursor: 3}, *state)
				for i, u := range users {
					claimed, err := ledger.Claimed(db, u)
					require.NoError(t, err)
					assert.Equal(t, true, claimed)
					amount, err := ledger.Compensation(db, u)
					require.NoError(t, err)
					assert.Equal(t, amounts[i], amount)
					balance, err := tokens.Balance(db, u)
					require.NoError(t, err)
					assert.Equal(t, amounts[i], balance)
				}
				reserve, err := tokens.Balance(db, ReserveAddress())
				require.NoError(t, err)
				assert.Equal(t, uint64(900000*oneUSDC-9*oneUSDC), reserve)
			}
			check(kv)

			if tc.reload {
				closer, ok := kv.(interface{ Close() error })
				require.True(t, ok)
				require.NoError(t, closer.Close())
				reopened := tc.open(t, path)
				require.NoError(t, reopened.LoadLatestVersion())
				check(reopened)
			}
		})
	}
}
