package payout

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

// Ledger is the append-only registry of beneficiaries. All state lives in
// the database given to each call.
type Ledger struct {
	users orm.Bucket
	index orm.Bucket
	state orm.Bucket
}

// NewLedger returns a ledger using the default buckets.
func NewLedger() Ledger {
	return Ledger{
		users: orm.NewBucket(beneficiaryBucketName),
		index: orm.NewBucket(indexBucketName),
		state: orm.NewBucket(stateBucketName),
	}
}

// State returns the ledger singleton. An empty ledger has a zero state.
func (l Ledger) State(db compensation.ReadOnlyKVStore) (*State, error) {
	var s State
	switch err := l.state.One(db, stateKey, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &State{}, nil
	default:
		return nil, errors.Wrap(err, "ledger state")
	}
}

func (l Ledger) saveState(db compensation.KVStore, s *State) error {
	return l.state.Put(db, stateKey, s)
}

// Register appends a beneficiary for every (address, amount) pair, in
// order. Either all pairs are registered or, on error, none.
//
// An address can be registered only once, both across calls and within a
// single batch. The cursor is never modified.
func (l Ledger) Register(db compensation.KVStore, addrs []compensation.Address, amounts []uint64) ([]Registered, error) {
	if len(addrs) != len(amounts) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d users, %d amounts", len(addrs), len(amounts))
	}
	state, err := l.State(db)
	if err != nil {
		return nil, err
	}

	total := state.TotalCompensation
	seen := make(map[string]struct{}, len(addrs))
	for i, addr := range addrs {
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrapf(err, "user %d", i)
		}
		if _, ok := seen[string(addr)]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicate, "user %d: %s repeated in batch", i, addr)
		}
		seen[string(addr)] = struct{}{}
		switch ok, err := l.index.Has(db, addr); {
		case err != nil:
			return nil, err
		case ok:
			return nil, errors.Wrapf(errors.ErrDuplicate, "user %d: %s already registered", i, addr)
		}
		if total+amounts[i] < total {
			return nil, errors.Wrap(errors.ErrOverflow, "total compensation")
		}
		total += amounts[i]
	}

	events := make([]Registered, 0, len(addrs))
	for i, addr := range addrs {
		pos := state.Length
		b := Beneficiary{Address: addr, Amount: amounts[i]}
		if err := l.users.Put(db, PositionKey(pos), &b); err != nil {
			return nil, errors.Wrapf(err, "user %d", i)
		}
		if err := l.index.Put(db, addr, &Position{Index: pos}); err != nil {
			return nil, errors.Wrapf(err, "user %d", i)
		}
		state.Length++
		events = append(events, Registered{Address: addr, Amount: amounts[i]})
	}
	state.TotalCompensation = total
	if err := l.saveState(db, state); err != nil {
		return nil, err
	}
	return events, nil
}

// Len returns the number of registered beneficiaries.
func (l Ledger) Len(db compensation.ReadOnlyKVStore) (uint64, error) {
	s, err := l.State(db)
	if err != nil {
		return 0, err
	}
	return s.Length, nil
}

// Record returns the beneficiary registered at given position.
func (l Ledger) Record(db compensation.ReadOnlyKVStore, pos uint64) (*Beneficiary, error) {
	var b Beneficiary
	switch err := l.users.One(db, PositionKey(pos), &b); {
	case err == nil:
		return &b, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrIndexOutOfRange, "position %d", pos)
	default:
		return nil, err
	}
}

// At returns the address of the beneficiary registered at given position.
func (l Ledger) At(db compensation.ReadOnlyKVStore, pos uint64) (compensation.Address, error) {
	b, err := l.Record(db, pos)
	if err != nil {
		return nil, err
	}
	return b.Address, nil
}

// Lookup returns the position and the record of given address. It returns
// ErrNotFound if the address was never registered.
func (l Ledger) Lookup(db compensation.ReadOnlyKVStore, addr compensation.Address) (uint64, *Beneficiary, error) {
	var p Position
	if err := l.index.One(db, addr, &p); err != nil {
		return 0, nil, err
	}
	b, err := l.Record(db, p.Index)
	if err != nil {
		return 0, nil, errors.Wrapf(errors.ErrHuman, "index points to missing position %d", p.Index)
	}
	return p.Index, b, nil
}

// Claimed returns true if the beneficiary was paid. Unknown addresses were
// never paid.
func (l Ledger) Claimed(db compensation.ReadOnlyKVStore, addr compensation.Address) (bool, error) {
	_, b, err := l.Lookup(db, addr)
	switch {
	case err == nil:
		return b.Claimed, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Compensation returns the amount assigned to given address, zero for
// unknown addresses.
func (l Ledger) Compensation(db compensation.ReadOnlyKVStore, addr compensation.Address) (uint64, error) {
	_, b, err := l.Lookup(db, addr)
	switch {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Total returns the sum of all registered compensations.
func (l Ledger) Total(db compensation.ReadOnlyKVStore) (uint64, error) {
	s, err := l.State(db)
	if err != nil {
		return 0, err
	}
	return s.TotalCompensation, nil
}

// Cursor returns the position of the next beneficiary to be paid.
func (l Ledger) Cursor(db compensation.ReadOnlyKVStore) (uint64, error) {
	s, err := l.State(db)
	if err != nil {
		return 0, err
	}
	return s.Cursor, nil
}

func (l Ledger) markClaimed(db compensation.KVStore, pos uint64, b *Beneficiary) error {
	if b.Claimed {
		return errors.Wrapf(errors.ErrState, "position %d already claimed", pos)
	}
	b.Claimed = true
	return l.users.Put(db, PositionKey(pos), b)
}
