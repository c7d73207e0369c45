package utils

import (
	"context"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
)

func TestSavepoint(t *testing.T) {
	// always written before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    compensation.Decorator
		handler *comptest.Handler
		check   bool // whether to call Check or Deliver
		wantErr *errors.Error

		written [][]byte
		missing [][]byte
	}{
		"savepoint deactivated, both written": {
			save:    NewSavepoint(),
			handler: &comptest.Handler{Write: model(nk, nv), CheckErr: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"savepoint activated on check, rollback": {
			save:    NewSavepoint().OnCheck(),
			handler: &comptest.Handler{Write: model(nk, nv), CheckErr: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint activated on deliver, rollback": {
			save:    NewSavepoint().OnDeliver(),
			handler: &comptest.Handler{Write: model(nk, nv), DeliverErr: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: &comptest.Handler{Write: model(nk, nv), DeliverErr: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &comptest.Handler{Write: model(nk, nv), DeliverErr: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"no rollback on success": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &comptest.Handler{Write: model(nk, nv)},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			assert.Nil(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, &comptest.Tx{}, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, &comptest.Tx{}, tc.handler)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				if !has {
					t.Errorf("key %X not written", k)
				}
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				if has {
					t.Errorf("key %X must not be written", k)
				}
			}
		})
	}
}

func model(key, value []byte) *compensation.Model {
	m := compensation.Pair(key, value)
	return &m
}
