package payout

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// TokenController is the funding token used to pay beneficiaries.
type TokenController interface {
	// Balance returns the number of tokens held by given address.
	Balance(db compensation.ReadOnlyKVStore, holder compensation.Address) (uint64, error)
	// Transfer moves amount tokens from src to dest. It must fail if src
	// does not hold enough tokens.
	Transfer(db compensation.KVStore, src, dest compensation.Address, amount uint64) error
}

// ReserveAddress returns the address that holds the tokens paid out to
// beneficiaries. Anyone can fund it with a token transfer and only the
// Distributor can spend from it.
func ReserveAddress() compensation.Address {
	return compensation.NewCondition("payout", "reserve", []byte("compensation")).Address()
}

// Distributor pays beneficiaries from the reserve, in ledger order.
type Distributor struct {
	ledger  Ledger
	tokens  TokenController
	reserve compensation.Address
}

// NewDistributor returns a distributor paying from ReserveAddress.
func NewDistributor(ledger Ledger, tokens TokenController) Distributor {
	return Distributor{
		ledger:  ledger,
		tokens:  tokens,
		reserve: ReserveAddress(),
	}
}

// Pending returns the number of positions that a call with given maxSteps
// would process.
func (d Distributor) Pending(db compensation.ReadOnlyKVStore, maxSteps uint64) (uint64, error) {
	s, err := d.ledger.State(db)
	if err != nil {
		return 0, err
	}
	return steps(s, maxSteps), nil
}

func steps(s *State, maxSteps uint64) uint64 {
	remaining := s.Length - s.Cursor
	if maxSteps < remaining {
		return maxSteps
	}
	return remaining
}

// Distribute pays at most maxSteps beneficiaries, starting at the cursor,
// and advances the cursor past them. A beneficiary with a zero amount is
// marked as claimed without a transfer.
//
// The call is all-or-nothing: if any payment fails, no transfer, claim or
// cursor change of this call is kept. When the cursor is already at the end
// of the ledger, or maxSteps is zero, nothing happens.
func (d Distributor) Distribute(db compensation.KVStore, maxSteps uint64) (claimed []Claimed, err error) {
	if cdb, ok := db.(compensation.CacheableKVStore); ok {
		cache := cdb.CacheWrap()
		defer func() {
			if err != nil {
				cache.Discard()
				return
			}
			if werr := cache.Write(); werr != nil {
				claimed, err = nil, errors.Wrap(werr, "write distribution")
			}
		}()
		db = cache
	}

	state, err := d.ledger.State(db)
	if err != nil {
		return nil, err
	}
	start := state.Cursor
	end := start + steps(state, maxSteps)
	if start == end {
		return nil, nil
	}

	events := make([]Claimed, 0, end-start)
	for pos := start; pos < end; pos++ {
		b, err := d.ledger.Record(db, pos)
		if err != nil {
			return nil, errors.Wrapf(err, "position %d", pos)
		}
		if b.Amount > 0 {
			if err := d.pay(db, b); err != nil {
				return nil, errors.Wrapf(err, "position %d", pos)
			}
		}
		if err := d.ledger.markClaimed(db, pos, b); err != nil {
			return nil, err
		}
		events = append(events, Claimed{Address: b.Address, Amount: b.Amount})
	}

	state.Cursor = end
	if err := d.ledger.saveState(db, state); err != nil {
		return nil, err
	}
	return events, nil
}

func (d Distributor) pay(db compensation.KVStore, b *Beneficiary) error {
	balance, err := d.tokens.Balance(db, d.reserve)
	if err != nil {
		return errors.Wrap(err, "reserve balance")
	}
	if balance < b.Amount {
		return errors.Wrapf(ErrInsufficientFunds, "reserve holds %d, %s needs %d", balance, b.Address, b.Amount)
	}
	if err := d.tokens.Transfer(db, d.reserve, b.Address, b.Amount); err != nil {
		return errors.Wrap(err, "transfer")
	}
	return nil
}
