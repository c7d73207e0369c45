package token

import (
	"testing"

	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
)

func TestTransfer(t *testing.T) {
	alice := comptest.NewCondition().Address()
	bob := comptest.NewCondition().Address()

	cases := map[string]struct {
		issue    uint64
		amount   uint64
		wantErr  *errors.Error
		wantSrc  uint64
		wantDest uint64
	}{
		"move part of the balance": {
			issue:    100,
			amount:   40,
			wantSrc:  60,
			wantDest: 40,
		},
		"move whole balance": {
			issue:    100,
			amount:   100,
			wantSrc:  0,
			wantDest: 100,
		},
		"insufficient balance": {
			issue:    10,
			amount:   11,
			wantErr:  ErrInsufficientBalance,
			wantSrc:  10,
			wantDest: 0,
		},
		"zero amount": {
			issue:    10,
			amount:   0,
			wantErr:  errors.ErrAmount,
			wantSrc:  10,
			wantDest: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.Issue(db, alice, tc.issue))

			cache := db.CacheWrap()
			err := ctrl.Transfer(cache, alice, bob, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
			if err == nil {
				assert.Nil(t, cache.Write())
			} else {
				cache.Discard()
			}

			got, err := ctrl.Balance(db, alice)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, got)
			got, err = ctrl.Balance(db, bob)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}

func TestTransferToSelf(t *testing.T) {
	db := store.MemStore()
	alice := comptest.NewCondition().Address()
	ctrl := NewController()
	assert.Nil(t, ctrl.Issue(db, alice, 5))
	assert.Nil(t, ctrl.Transfer(db, alice, alice, 5))
	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), got)
}

func TestIssueOverflow(t *testing.T) {
	db := store.MemStore()
	alice := comptest.NewCondition().Address()
	ctrl := NewController()
	assert.Nil(t, ctrl.Issue(db, alice, ^uint64(0)))
	err := ctrl.Issue(db, alice, 1)
	assert.IsErr(t, errors.ErrOverflow, err)
}
