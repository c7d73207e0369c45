package payout

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
)

func TestGenesis(t *testing.T) {
	operator := comptest.NewCondition().Address()

	cases := map[string]struct {
		raw      string
		wantErr  *errors.Error
		wantConf *Configuration
	}{
		"configuration": {
			raw: `{"conf": {"payout": {
				"operator": "` + operator.String() + `",
				"register_cost": 10,
				"step_cost": 50
			}}}`,
			wantConf: &Configuration{Operator: operator, RegisterCost: 10, StepCost: 50},
		},
		"missing operator": {
			raw:     `{"conf": {"payout": {"step_cost": 1}}}`,
			wantErr: errors.ErrEmpty,
		},
		"negative cost": {
			raw:     `{"conf": {"payout": {"operator": "` + operator.String() + `", "step_cost": -1}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts compensation.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.raw), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			conf, err := loadConf(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantConf, conf)

			s, err := NewLedger().State(db)
			assert.Nil(t, err)
			assert.Equal(t, &State{}, s)
		})
	}
}
