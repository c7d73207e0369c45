package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  *comptest.Handler
		check    bool
		wantErr  *errors.Error
		wantLine string
	}{
		"successful deliver is info": {
			handler:  &comptest.Handler{DeliverResult: compensation.DeliverResult{Log: "all good"}},
			wantLine: "I[",
		},
		"failed deliver is error": {
			handler:  &comptest.Handler{DeliverErr: errors.ErrUnauthorized},
			wantErr:  errors.ErrUnauthorized,
			wantLine: "E[",
		},
		"failed check is error": {
			handler:  &comptest.Handler{CheckErr: errors.ErrInput},
			check:    true,
			wantErr:  errors.ErrInput,
			wantLine: "E[",
		},
		"successful check is debug": {
			handler:  &comptest.Handler{CheckResult: compensation.CheckResult{Log: "all good"}},
			check:    true,
			wantLine: "D[",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := compensation.WithLogger(context.Background(), log.NewTMLogger(&buf))
			tx := &comptest.Tx{Msg: &comptest.Msg{RoutePath: "payout/distribute"}}

			var err error
			if tc.check {
				_, err = NewLogging().Check(ctx, store.MemStore(), tx, tc.handler)
			} else {
				_, err = NewLogging().Deliver(ctx, store.MemStore(), tx, tc.handler)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}

			out := buf.String()
			if !strings.HasPrefix(out, tc.wantLine) {
				t.Fatalf("unexpected log level: %q", out)
			}
			if !strings.Contains(out, "path=payout/distribute") {
				t.Fatalf("path not logged: %q", out)
			}
			assert.Equal(t, 1, tc.handler.CallCount())
		})
	}
}
