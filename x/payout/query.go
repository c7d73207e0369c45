package payout

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

// RegisterQuery exposes the ledger:
//
//	/payout/state          the State singleton, data is ignored
//	/payout/users          the Beneficiary at an 8 byte big endian position
//	/payout/beneficiaries  the Beneficiary of an address
func RegisterQuery(qr compensation.QueryRouter) {
	l := NewLedger()
	qr.Register("/payout/state", compensation.KeyQuery(l.queryState))
	qr.Register("/payout/users", compensation.KeyQuery(l.queryUser))
	qr.Register("/payout/beneficiaries", compensation.KeyQuery(l.queryBeneficiary))
}

func (l Ledger) queryState(db compensation.ReadOnlyKVStore, key []byte) ([]compensation.Model, error) {
	s, err := l.State(db)
	if err != nil {
		return nil, err
	}
	raw, err := orm.Marshal(s)
	if err != nil {
		return nil, err
	}
	return []compensation.Model{compensation.Pair(l.state.DBKey(stateKey), raw)}, nil
}

func (l Ledger) queryUser(db compensation.ReadOnlyKVStore, key []byte) ([]compensation.Model, error) {
	pos, err := ParsePositionKey(key)
	if err != nil {
		return nil, err
	}
	b, err := l.Record(db, pos)
	if err != nil {
		return nil, err
	}
	raw, err := orm.Marshal(b)
	if err != nil {
		return nil, err
	}
	return []compensation.Model{compensation.Pair(l.users.DBKey(key), raw)}, nil
}

func (l Ledger) queryBeneficiary(db compensation.ReadOnlyKVStore, key []byte) ([]compensation.Model, error) {
	pos, b, err := l.Lookup(db, key)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		// return nothing on miss
		return nil, nil
	default:
		return nil, err
	}
	raw, err := orm.Marshal(b)
	if err != nil {
		return nil, err
	}
	return []compensation.Model{compensation.Pair(l.users.DBKey(PositionKey(pos)), raw)}, nil
}
